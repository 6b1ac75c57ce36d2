package usecase

import (
	"testing"

	"tripplanner-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parisStay() []entity.CityStay {
	return []entity.CityStay{
		{City: "Paris", ArrivalDate: date("2025-08-01"), DepartureDate: date("2025-08-05")},
	}
}

func threeCityStays() []entity.CityStay {
	return []entity.CityStay{
		{City: "Paris", ArrivalDate: date("2025-08-01"), DepartureDate: date("2025-08-03")},
		{City: "Rome", ArrivalDate: date("2025-08-03"), DepartureDate: date("2025-08-06")},
		{City: "Berlin", ArrivalDate: date("2025-08-06"), DepartureDate: date("2025-08-08")},
	}
}

func TestDeriveFlightRoute_SingleStayClosedLoop(t *testing.T) {
	plan, err := DeriveFlightRoute("London", parisStay(), true)
	require.NoError(t, err)
	require.Equal(t, 2, plan.LegCount())

	out := plan.Legs[0].Leg
	assert.Equal(t, "London", out.OriginCity)
	assert.Equal(t, "Paris", out.DestinationCity)
	assert.Equal(t, entity.OneWay, out.Kind)
	assert.Equal(t, "2025-08-01", out.ArriveOn.String())
	assert.Equal(t, "2025-07-31", out.DepartOn.String())
	assert.True(t, out.DepartInferred)

	back := plan.Legs[1].Leg
	assert.Equal(t, "Paris", back.OriginCity)
	assert.Equal(t, "London", back.DestinationCity)
	assert.Equal(t, entity.OneWay, back.Kind)
	assert.Equal(t, "2025-08-05", back.DepartOn.String())
	assert.Equal(t, "2025-08-06", back.ArriveOn.String())
	assert.True(t, back.ArriveInferred)
	assert.Nil(t, back.ReturnOn)
}

func TestDeriveFlightRoute_SingleStayOpenIsRoundTrip(t *testing.T) {
	plan, err := DeriveFlightRoute("London", parisStay(), false)
	require.NoError(t, err)
	require.Equal(t, 1, plan.LegCount())

	leg := plan.Legs[0].Leg
	assert.Equal(t, entity.RoundTrip, leg.Kind)
	assert.Equal(t, "London", leg.OriginCity)
	assert.Equal(t, "Paris", leg.DestinationCity)
	assert.Equal(t, "2025-08-01", leg.ArriveOn.String())
	require.NotNil(t, leg.ReturnOn)
	assert.Equal(t, "2025-08-05", leg.ReturnOn.String())
}

func TestDeriveFlightRoute_EarlyArrivalDepartsSameDay(t *testing.T) {
	stays := parisStay()
	stays[0].EarlyArrival = true

	plan, err := DeriveFlightRoute("London", stays, false)
	require.NoError(t, err)
	require.Equal(t, 1, plan.LegCount())
	assert.Equal(t, "2025-08-01", plan.Legs[0].Leg.DepartOn.String())
	assert.True(t, plan.Legs[0].Leg.DepartInferred)
}

func TestDeriveFlightRoute_LegCounts(t *testing.T) {
	closed, err := DeriveFlightRoute("London", threeCityStays(), true)
	require.NoError(t, err)
	assert.Equal(t, 4, closed.LegCount())
	assert.True(t, closed.ClosedLoop)

	open, err := DeriveFlightRoute("London", threeCityStays(), false)
	require.NoError(t, err)
	assert.Equal(t, 3, open.LegCount())
	assert.False(t, open.ClosedLoop)
}

func TestDeriveFlightRoute_MultiCityDates(t *testing.T) {
	plan, err := DeriveFlightRoute("London", threeCityStays(), true)
	require.NoError(t, err)

	expected := []struct {
		from, to       string
		depart, arrive string
	}{
		{"London", "Paris", "2025-07-31", "2025-08-01"},
		{"Paris", "Rome", "2025-08-03", "2025-08-03"},
		{"Rome", "Berlin", "2025-08-06", "2025-08-06"},
		{"Berlin", "London", "2025-08-08", "2025-08-09"},
	}
	require.Len(t, plan.Legs, len(expected))
	for i, want := range expected {
		leg := plan.Legs[i].Leg
		assert.Equal(t, want.from, leg.OriginCity, "leg %d origin", i)
		assert.Equal(t, want.to, leg.DestinationCity, "leg %d destination", i)
		assert.Equal(t, want.depart, leg.DepartOn.String(), "leg %d depart", i)
		assert.Equal(t, want.arrive, leg.ArriveOn.String(), "leg %d arrive", i)
	}
}

func TestDeriveFlightRoute_RoundTripOnlyForSingleLeg(t *testing.T) {
	routes := []struct {
		name       string
		stays      []entity.CityStay
		closedLoop bool
	}{
		{"single stay closed", parisStay(), true},
		{"single stay open", parisStay(), false},
		{"three cities closed", threeCityStays(), true},
		{"three cities open", threeCityStays(), false},
	}

	for _, tt := range routes {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := DeriveFlightRoute("London", tt.stays, tt.closedLoop)
			require.NoError(t, err)
			for _, routeLeg := range plan.Legs {
				if plan.LegCount() == 1 {
					assert.Equal(t, entity.RoundTrip, routeLeg.Leg.Kind)
				} else {
					assert.Equal(t, entity.OneWay, routeLeg.Leg.Kind)
				}
			}
		})
	}
}

func TestDeriveFlightRoute_SkipsSameCityStays(t *testing.T) {
	stays := []entity.CityStay{
		{City: "Paris", ArrivalDate: date("2025-08-01"), DepartureDate: date("2025-08-03")},
		{City: "paris ", ArrivalDate: date("2025-08-03"), DepartureDate: date("2025-08-05")},
		{City: "Rome", ArrivalDate: date("2025-08-05"), DepartureDate: date("2025-08-07")},
	}

	plan, err := DeriveFlightRoute("London", stays, false)
	require.NoError(t, err)
	require.Equal(t, 2, plan.LegCount())
	assert.Equal(t, "Paris", plan.Legs[1].Leg.OriginCity)
	assert.Equal(t, "Rome", plan.Legs[1].Leg.DestinationCity)
	assert.Equal(t, "2025-08-05", plan.Legs[1].Leg.DepartOn.String())
}

func TestDeriveFlightRoute_Errors(t *testing.T) {
	t.Run("no origin", func(t *testing.T) {
		_, err := DeriveFlightRoute("  ", parisStay(), true)
		assert.True(t, entity.IsInsufficientRouteData(err))
	})

	t.Run("single distinct city", func(t *testing.T) {
		_, err := DeriveFlightRoute("Paris", parisStay(), true)
		require.Error(t, err)
		var ie *entity.InsufficientRouteDataError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, 1, ie.DistinctCities)
	})

	t.Run("no stays", func(t *testing.T) {
		_, err := DeriveFlightRoute("London", nil, false)
		assert.True(t, entity.IsInsufficientRouteData(err))
	})

	t.Run("negative dwell", func(t *testing.T) {
		stays := threeCityStays()
		stays[1].ArrivalDate = date("2025-08-02")
		_, err := DeriveFlightRoute("London", stays, true)
		assert.True(t, entity.IsStructural(err))
	})

	t.Run("closing leg without dates", func(t *testing.T) {
		stays := []entity.CityStay{{City: "Paris", ArrivalDate: date("2025-08-01")}}
		_, err := DeriveFlightRoute("London", stays, true)
		assert.True(t, entity.IsInsufficientRouteData(err))
	})
}

func TestInferLegDates(t *testing.T) {
	t.Run("arrival only", func(t *testing.T) {
		arrive := date("2025-08-03")
		leg, err := InferLegDates(entity.FlightLeg{OriginCity: "A", DestinationCity: "B", ArriveOn: &arrive}, false)
		require.NoError(t, err)
		assert.Equal(t, "2025-08-02", leg.DepartOn.String())
		assert.True(t, leg.DepartInferred)
		assert.False(t, leg.ArriveInferred)
	})

	t.Run("departure only", func(t *testing.T) {
		depart := date("2025-08-31")
		leg, err := InferLegDates(entity.FlightLeg{OriginCity: "A", DestinationCity: "B", DepartOn: &depart}, false)
		require.NoError(t, err)
		assert.Equal(t, "2025-09-01", leg.ArriveOn.String())
		assert.True(t, leg.ArriveInferred)
	})

	t.Run("both dates are kept", func(t *testing.T) {
		depart, arrive := date("2025-08-01"), date("2025-08-01")
		leg, err := InferLegDates(entity.FlightLeg{DepartOn: &depart, ArriveOn: &arrive}, false)
		require.NoError(t, err)
		assert.Equal(t, "2025-08-01", leg.DepartOn.String())
		assert.False(t, leg.DepartInferred)
		assert.False(t, leg.ArriveInferred)
	})

	t.Run("no dates", func(t *testing.T) {
		_, err := InferLegDates(entity.FlightLeg{OriginCity: "A", DestinationCity: "B"}, false)
		assert.True(t, entity.IsInsufficientRouteData(err))
	})
}
