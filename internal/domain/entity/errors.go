package entity

import (
	"errors"
	"fmt"
)

// Planning stage names, used in errors, logs and metrics
const (
	StageItinerary = "itinerary"
	StageHotels    = "hotels"
	StageFlights   = "flights"
	StageConsensus = "consensus"
	StageImages    = "images"
)

// StructuralError reports an itinerary, route or request whose shape breaks
// the model invariants. It is never retried.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return "structural error: " + e.Reason
}

// NewStructuralError formats a StructuralError
func NewStructuralError(format string, args ...interface{}) *StructuralError {
	return &StructuralError{Reason: fmt.Sprintf(format, args...)}
}

// InsufficientRouteDataError reports a traversal that cannot produce a leg
type InsufficientRouteDataError struct {
	DistinctCities int
	Reason         string
}

func (e *InsufficientRouteDataError) Error() string {
	if e.Reason != "" {
		return "insufficient route data: " + e.Reason
	}
	return fmt.Sprintf("insufficient route data: %d distinct cities, a route needs at least 2", e.DistinctCities)
}

// PlanningServiceError wraps any collaborator failure: schema mismatch,
// upstream timeout or tool error. Only the message text is kept for reporting.
type PlanningServiceError struct {
	Stage   string
	Message string
	Err     error
}

func (e *PlanningServiceError) Error() string {
	return fmt.Sprintf("planning stage %q failed: %s", e.Stage, e.Message)
}

func (e *PlanningServiceError) Unwrap() error {
	return e.Err
}

// NewPlanningServiceError wraps err for the given stage. An error that is
// already a PlanningServiceError is returned unchanged.
func NewPlanningServiceError(stage string, err error) *PlanningServiceError {
	var pse *PlanningServiceError
	if errors.As(err, &pse) {
		return pse
	}
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &PlanningServiceError{Stage: stage, Message: msg, Err: err}
}

// IsStructural reports whether err is a StructuralError
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// IsInsufficientRouteData reports whether err is an InsufficientRouteDataError
func IsInsufficientRouteData(err error) bool {
	var ie *InsufficientRouteDataError
	return errors.As(err, &ie)
}

// IsPlanningService reports whether err is a PlanningServiceError
func IsPlanningService(err error) bool {
	var pe *PlanningServiceError
	return errors.As(err, &pe)
}
