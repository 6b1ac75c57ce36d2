package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tripplanner-service/internal/domain/entity"
	"tripplanner-service/internal/domain/repository"
	"tripplanner-service/pkg/logger"
	"tripplanner-service/pkg/metrics"
	"tripplanner-service/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// RouteSearcher fills the flight options of a derived route
type RouteSearcher interface {
	SearchRoute(ctx context.Context, plan *entity.FlightRoutePlan) (*entity.FlightRoutePlan, error)
}

// TripPlanRequest is one call to RunTripPlan
type TripPlanRequest struct {
	ConversationID string
	Traveler       entity.TravelerInput
	Stages         entity.TripStages
	// Itinerary is used when the itinerary stage is not selected
	Itinerary *entity.Itinerary
}

// RefineRequest asks the planner to revise an existing itinerary
type RefineRequest struct {
	ConversationID string
	Traveler       entity.TravelerInput
	Itinerary      *entity.Itinerary
	Feedback       string
}

// runScope identifies the stage runs of one planning call
type runScope struct {
	conversationID string
	runID          string
}

func newRunScope(conversationID string) runScope {
	runID := uuid.NewString()
	if conversationID == "" {
		conversationID = runID
	}
	return runScope{conversationID: conversationID, runID: runID}
}

// TripOrchestrator runs the itinerary, hotels and flights stages of a trip
// request. Hotels and flights depend only on the itinerary and run
// concurrently; any stage failure fails the whole request.
type TripOrchestrator struct {
	planningRepo repository.PlanningRepository
	searcher     RouteSearcher
	stageRunRepo repository.StageRunRepository
	logger       logger.Logger
	metrics      *metrics.Metrics
}

// NewTripOrchestrator creates a new trip orchestrator. stageRunRepo may be nil.
func NewTripOrchestrator(
	planningRepo repository.PlanningRepository,
	searcher RouteSearcher,
	stageRunRepo repository.StageRunRepository,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *TripOrchestrator {
	return &TripOrchestrator{
		planningRepo: planningRepo,
		searcher:     searcher,
		stageRunRepo: stageRunRepo,
		logger:       logger,
		metrics:      metrics,
	}
}

// RunTripPlan runs the selected stages and returns their combined result.
// Either every selected stage succeeds or an error is returned; results of
// stages that finished before a sibling failed are dropped.
func (o *TripOrchestrator) RunTripPlan(ctx context.Context, req TripPlanRequest) (*entity.TripPlanResult, error) {
	stages := req.Stages
	if !stages.Itinerary && !stages.Hotels && !stages.Flights {
		return nil, entity.NewStructuralError("no planning stage selected")
	}

	if stages.Itinerary {
		if err := ValidateTraveler(req.Traveler); err != nil {
			return nil, err
		}
	}

	scope := newRunScope(req.ConversationID)
	log := o.logger.With("conversationId", scope.conversationID, "runId", scope.runID)
	log.Info("Starting trip plan", "stages", stages.Names())

	result := &entity.TripPlanResult{ConversationID: scope.conversationID, RunID: scope.runID}

	itinerary := req.Itinerary
	if stages.Itinerary {
		err := o.runStage(ctx, scope, entity.StageItinerary, func(ctx context.Context) error {
			planned, err := o.planItinerary(ctx, req.Traveler)
			if err != nil {
				return err
			}
			itinerary = planned
			return nil
		})
		if err != nil {
			log.Error("Trip plan failed", "stage", entity.StageItinerary, "error", err)
			return nil, err
		}
		result.Itinerary = itinerary
	} else {
		if itinerary == nil {
			return nil, entity.NewStructuralError("the hotels and flights stages need an itinerary")
		}
		if _, err := ValidateItinerary(itinerary); err != nil {
			return nil, err
		}
	}

	if !stages.Hotels && !stages.Flights {
		log.Info("Trip plan completed")
		return result, nil
	}

	var route *entity.FlightRoutePlan
	if stages.Flights {
		derived, err := DeriveFlightRoute(req.Traveler.DepartureCity, itinerary.Stays(), true)
		if err != nil {
			log.Error("Trip plan failed", "stage", entity.StageFlights, "error", err)
			return nil, fmt.Errorf("%s stage: %w", entity.StageFlights, err)
		}
		route = derived
	}

	var hotels *entity.HotelsPlan
	var flights *entity.FlightRoutePlan

	g, gCtx := errgroup.WithContext(ctx)
	if stages.Hotels {
		g.Go(func() error {
			return o.runStage(gCtx, scope, entity.StageHotels, func(ctx context.Context) error {
				found, err := o.findHotels(ctx, itinerary)
				if err != nil {
					return err
				}
				hotels = found
				return nil
			})
		})
	}
	if stages.Flights {
		g.Go(func() error {
			return o.runStage(gCtx, scope, entity.StageFlights, func(ctx context.Context) error {
				found, err := o.searcher.SearchRoute(ctx, route)
				if err != nil {
					return entity.NewPlanningServiceError(entity.StageFlights, err)
				}
				flights = found
				return nil
			})
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("Trip plan failed", "error", err)
		return nil, err
	}

	result.Hotels = hotels
	result.Flights = flights
	log.Info("Trip plan completed")
	return result, nil
}

// RefineItinerary revises an itinerary with the traveler's feedback
func (o *TripOrchestrator) RefineItinerary(ctx context.Context, req RefineRequest) (*entity.Itinerary, error) {
	if _, err := ValidateItinerary(req.Itinerary); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Feedback) == "" {
		return nil, entity.NewStructuralError("refinement needs user feedback")
	}
	if err := ValidateTraveler(req.Traveler); err != nil {
		return nil, err
	}

	scope := newRunScope(req.ConversationID)

	var refined *entity.Itinerary
	err := o.runStage(ctx, scope, entity.StageItinerary, func(ctx context.Context) error {
		traveler, err := json.Marshal(req.Traveler)
		if err != nil {
			return entity.NewPlanningServiceError(entity.StageItinerary, err)
		}
		current, err := json.Marshal(req.Itinerary)
		if err != nil {
			return entity.NewPlanningServiceError(entity.StageItinerary, err)
		}

		query := repository.PlanningQuery{
			Stage:        entity.StageItinerary,
			Instructions: utils.REFINE_INSTRUCTIONS,
			Input: fmt.Sprintf("Refine the itinerary with the following traveler input:\n%s\n\nItinerary:\n%s\n\nUser feedback:\n%s",
				traveler, current, req.Feedback),
			Schema: utils.ITINERARY_SCHEMA,
		}
		refined, err = o.invokeItinerary(ctx, query)
		return err
	})
	if err != nil {
		return nil, err
	}
	return refined, nil
}

// StageRuns lists every journaled stage run of a conversation in start order
func (o *TripOrchestrator) StageRuns(ctx context.Context, conversationID string) ([]*entity.StageRun, error) {
	if o.stageRunRepo == nil {
		return nil, nil
	}
	runs, err := o.stageRunRepo.FindByConversationID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stage runs: %w", err)
	}
	return runs, nil
}

func (o *TripOrchestrator) planItinerary(ctx context.Context, traveler entity.TravelerInput) (*entity.Itinerary, error) {
	input, err := json.Marshal(traveler)
	if err != nil {
		return nil, entity.NewPlanningServiceError(entity.StageItinerary, err)
	}
	return o.invokeItinerary(ctx, repository.PlanningQuery{
		Stage:        entity.StageItinerary,
		Instructions: utils.ITINERARY_INSTRUCTIONS,
		Input:        "Plan a trip with parameters: " + string(input),
		Schema:       utils.ITINERARY_SCHEMA,
	})
}

func (o *TripOrchestrator) invokeItinerary(ctx context.Context, query repository.PlanningQuery) (*entity.Itinerary, error) {
	var itinerary entity.Itinerary
	if err := o.planningRepo.Invoke(ctx, query, &itinerary); err != nil {
		return nil, entity.NewPlanningServiceError(entity.StageItinerary, err)
	}
	if _, err := ValidateItinerary(&itinerary); err != nil {
		return nil, entity.NewPlanningServiceError(entity.StageItinerary, fmt.Errorf("malformed itinerary: %w", err))
	}
	return &itinerary, nil
}

func (o *TripOrchestrator) findHotels(ctx context.Context, itinerary *entity.Itinerary) (*entity.HotelsPlan, error) {
	var b strings.Builder
	b.WriteString("Find hotels for the following cities and dates:")
	for _, plan := range itinerary.CityPlans {
		fmt.Fprintf(&b, "\n- City: %s, Dates: %s", plan.City, plan.DateRange)
	}

	var hotels entity.HotelsPlan
	err := o.planningRepo.Invoke(ctx, repository.PlanningQuery{
		Stage:        entity.StageHotels,
		Instructions: utils.HOTELS_INSTRUCTIONS,
		Input:        b.String(),
		Schema:       utils.HOTELS_SCHEMA,
	}, &hotels)
	if err != nil {
		return nil, entity.NewPlanningServiceError(entity.StageHotels, err)
	}
	return &hotels, nil
}

// runStage wraps one stage invocation with the journal, metrics and logs
func (o *TripOrchestrator) runStage(ctx context.Context, scope runScope, stage string, fn func(ctx context.Context) error) error {
	started := time.Now()
	o.record(ctx, &entity.StageRun{
		RunID:          scope.runID,
		ConversationID: scope.conversationID,
		Stage:          stage,
		Status:         entity.StageStatusRunning,
		StartedAt:      started,
	})

	err := fn(ctx)
	o.metrics.ObserveStage(stage, started, err)

	run := &entity.StageRun{
		RunID:          scope.runID,
		ConversationID: scope.conversationID,
		Stage:          stage,
		Status:         entity.StageStatusCompleted,
		StartedAt:      started,
		FinishedAt:     time.Now(),
	}
	if err != nil {
		run.Status = entity.StageStatusFailed
		run.ErrorDetail = err.Error()
		o.logger.Warn("Planning stage failed",
			"conversationId", scope.conversationID,
			"runId", scope.runID,
			"stage", stage,
			"duration", time.Since(started),
			"error", err)
	} else {
		o.logger.Info("Planning stage completed",
			"conversationId", scope.conversationID,
			"runId", scope.runID,
			"stage", stage,
			"duration", time.Since(started))
	}
	o.record(ctx, run)

	return err
}

// record journals a stage run. Journal failures are logged and never fail
// the stage.
func (o *TripOrchestrator) record(ctx context.Context, run *entity.StageRun) {
	if o.stageRunRepo == nil {
		return
	}
	if err := o.stageRunRepo.Record(context.WithoutCancel(ctx), run); err != nil {
		o.logger.Error("Failed to record stage run",
			"runId", run.RunID,
			"stage", run.Stage,
			"error", err)
	}
}
