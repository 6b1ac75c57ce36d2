package entity

import "time"

// Stage run status
const (
	StageStatusRunning   = "RUNNING"
	StageStatusCompleted = "COMPLETED"
	StageStatusFailed    = "FAILED"
)

// StageRun is the audit record of one planning stage invocation. A run ID is
// minted per planning call; a conversation groups the calls of one client.
type StageRun struct {
	ID             string    `json:"-" bson:"_id,omitempty"`
	RunID          string    `json:"run_id" bson:"runId"`
	ConversationID string    `json:"conversation_id" bson:"conversationId"`
	Stage          string    `json:"stage" bson:"stage"`
	Status         string    `json:"status" bson:"status"`
	StartedAt      time.Time `json:"started_at" bson:"startedAt"`
	FinishedAt     time.Time `json:"finished_at,omitempty" bson:"finishedAt,omitempty"`
	ErrorDetail    string    `json:"error_detail,omitempty" bson:"errorDetail,omitempty"`
}
