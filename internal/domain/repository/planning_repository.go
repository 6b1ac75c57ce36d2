package repository

import "context"

// PlanningQuery is a structured request to the planning service
type PlanningQuery struct {
	// Stage names the planning stage issuing the query
	Stage string
	// Instructions describe the task to the planner
	Instructions string
	// Input is the serialized query payload
	Input string
	// Schema is the JSON shape the answer must follow
	Schema string
}

// PlanningRepository invokes the external planning service. The answer is
// decoded into out, which must be a pointer to the schema type; an answer
// that does not conform is an error.
type PlanningRepository interface {
	Invoke(ctx context.Context, query PlanningQuery, out interface{}) error
}
