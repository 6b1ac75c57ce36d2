package usecase

import (
	"context"
	"errors"
	"testing"

	"tripplanner-service/internal/domain/entity"
	"tripplanner-service/pkg/logger"
	"tripplanner-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlightRouteSearcher_FillsEveryLeg(t *testing.T) {
	route, err := DeriveFlightRoute("London", threeCityStays(), true)
	require.NoError(t, err)

	repo := &fakeFlightRepo{}
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	searcher := NewFlightRouteSearcher(repo, logger.NewNopLogger(), m, 2)

	found, err := searcher.SearchRoute(context.Background(), route)
	require.NoError(t, err)
	require.Equal(t, route.LegCount(), found.LegCount())

	for i, routeLeg := range found.Legs {
		assert.Equal(t, route.Legs[i].Leg, routeLeg.Leg)
		require.Len(t, routeLeg.Options, 1)
		assert.Equal(t, routeLeg.Leg.DestinationCity, routeLeg.Options[0].ArrivalAirport)
	}
	assert.Len(t, repo.legs, 4)

	// the input plan is left untouched
	for _, routeLeg := range route.Legs {
		assert.Nil(t, routeLeg.Options)
	}
}

func TestFlightRouteSearcher_FailingLegFailsRoute(t *testing.T) {
	route, err := DeriveFlightRoute("London", threeCityStays(), true)
	require.NoError(t, err)

	repo := &fakeFlightRepo{failOn: map[string]error{"Rome": errors.New("upstream timeout")}}
	searcher := NewFlightRouteSearcher(repo, logger.NewNopLogger(), nil, 4)

	found, err := searcher.SearchRoute(context.Background(), route)
	assert.Nil(t, found)
	require.Error(t, err)

	var pse *entity.PlanningServiceError
	require.ErrorAs(t, err, &pse)
	assert.Equal(t, entity.StageFlights, pse.Stage)
	assert.Contains(t, pse.Message, "Paris -> Rome")
	assert.Contains(t, pse.Message, "upstream timeout")
}

func TestFlightRouteSearcher_EmptyRoute(t *testing.T) {
	searcher := NewFlightRouteSearcher(&fakeFlightRepo{}, logger.NewNopLogger(), nil, 0)
	_, err := searcher.SearchRoute(context.Background(), &entity.FlightRoutePlan{})
	assert.True(t, entity.IsInsufficientRouteData(err))
}
