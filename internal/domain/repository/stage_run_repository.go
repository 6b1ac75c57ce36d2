package repository

import (
	"context"

	"tripplanner-service/internal/domain/entity"
)

// StageRunRepository journals planning stage invocations
type StageRunRepository interface {
	Record(ctx context.Context, run *entity.StageRun) error
	FindByConversationID(ctx context.Context, conversationID string) ([]*entity.StageRun, error)
}
