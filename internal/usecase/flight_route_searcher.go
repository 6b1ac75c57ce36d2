package usecase

import (
	"context"
	"fmt"

	"tripplanner-service/internal/domain/entity"
	"tripplanner-service/internal/domain/repository"
	"tripplanner-service/pkg/logger"
	"tripplanner-service/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

// FlightRouteSearcher sends every leg of a route to flight search
type FlightRouteSearcher struct {
	flightRepo  repository.FlightSearchRepository
	logger      logger.Logger
	metrics     *metrics.Metrics
	parallelism int
}

// NewFlightRouteSearcher creates a new flight route searcher. parallelism
// bounds the number of legs searched at once.
func NewFlightRouteSearcher(
	flightRepo repository.FlightSearchRepository,
	logger logger.Logger,
	metrics *metrics.Metrics,
	parallelism int,
) *FlightRouteSearcher {
	if parallelism < 1 {
		parallelism = 1
	}
	return &FlightRouteSearcher{
		flightRepo:  flightRepo,
		logger:      logger,
		metrics:     metrics,
		parallelism: parallelism,
	}
}

// SearchRoute returns a copy of plan with the options of every leg filled
// in. Legs are searched concurrently; the first failing leg fails the whole
// search and no partial plan is returned.
func (s *FlightRouteSearcher) SearchRoute(ctx context.Context, plan *entity.FlightRoutePlan) (*entity.FlightRoutePlan, error) {
	if plan == nil || len(plan.Legs) == 0 {
		return nil, &entity.InsufficientRouteDataError{Reason: "route has no legs"}
	}

	options := make([][]entity.FlightOption, len(plan.Legs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	for i, routeLeg := range plan.Legs {
		i, leg := i, routeLeg.Leg
		g.Go(func() error {
			found, err := s.flightRepo.Search(gCtx, leg)
			if err != nil {
				return fmt.Errorf("leg %d %s -> %s: %w", i+1, leg.OriginCity, leg.DestinationCity, err)
			}
			if s.metrics != nil {
				s.metrics.LegsSearched.Inc()
			}
			s.logger.Debug("Flight leg searched",
				"leg", i+1,
				"origin", leg.OriginCity,
				"destination", leg.DestinationCity,
				"options", len(found))
			options[i] = found
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("Flight route search failed", "error", err)
		return nil, entity.NewPlanningServiceError(entity.StageFlights, err)
	}

	result := &entity.FlightRoutePlan{
		OriginCity: plan.OriginCity,
		ClosedLoop: plan.ClosedLoop,
		Legs:       make([]entity.RouteLeg, len(plan.Legs)),
	}
	for i, routeLeg := range plan.Legs {
		result.Legs[i] = entity.RouteLeg{Leg: routeLeg.Leg, Options: options[i]}
		if result.Legs[i].Options == nil {
			result.Legs[i].Options = []entity.FlightOption{}
		}
	}
	return result, nil
}
