package usecase

import (
	"fmt"
	"strings"

	"tripplanner-service/internal/domain/entity"
	"tripplanner-service/pkg/utils"
)

// DeriveFlightRoute turns an origin city and an ordered trip route into flight
// legs. The traversal is origin followed by every stay; in closed-loop mode a
// final leg returns from the last stay to the origin. A route with a single
// leg is searched as a round trip, every other route as one-way legs.
//
// Consecutive cities that are the same place produce no leg.
func DeriveFlightRoute(originCity string, stays []entity.CityStay, closedLoop bool) (*entity.FlightRoutePlan, error) {
	originCity = strings.TrimSpace(originCity)
	if originCity == "" {
		return nil, &entity.InsufficientRouteDataError{Reason: "no origin city"}
	}

	distinct := distinctCities(originCity, stays)
	if distinct < 2 {
		return nil, &entity.InsufficientRouteDataError{DistinctCities: distinct}
	}
	if err := ValidateStays(stays); err != nil {
		return nil, err
	}

	var legs []entity.FlightLeg
	from := originCity
	var fromStay *entity.CityStay
	for i := range stays {
		stay := stays[i]
		if sameCity(from, stay.City) {
			// Staying put: keep the earlier departure point but move its date
			fromStay = &stays[i]
			continue
		}
		leg := entity.FlightLeg{
			OriginCity:      from,
			DestinationCity: stay.City,
			ArriveOn:        stay.ArrivalDate.Ptr(),
			Kind:            entity.OneWay,
		}
		if fromStay != nil {
			leg.DepartOn = fromStay.DepartureDate.Ptr()
		}
		inferred, err := InferLegDates(leg, stay.EarlyArrival)
		if err != nil {
			return nil, err
		}
		legs = append(legs, inferred)
		from = stay.City
		fromStay = &stays[i]
	}

	last := stays[len(stays)-1]
	if closedLoop && !sameCity(from, originCity) {
		closing := entity.FlightLeg{
			OriginCity:      from,
			DestinationCity: originCity,
			DepartOn:        last.DepartureDate.Ptr(),
			Kind:            entity.OneWay,
		}
		inferred, err := InferLegDates(closing, false)
		if err != nil {
			return nil, err
		}
		legs = append(legs, inferred)
	}

	if len(legs) == 1 {
		legs[0].Kind = entity.RoundTrip
		legs[0].ReturnOn = last.DepartureDate.Ptr()
	}

	plan := &entity.FlightRoutePlan{
		OriginCity: originCity,
		ClosedLoop: closedLoop,
		Legs:       make([]entity.RouteLeg, 0, len(legs)),
	}
	for _, leg := range legs {
		plan.Legs = append(plan.Legs, entity.RouteLeg{Leg: leg})
	}
	return plan, nil
}

// InferLegDates fills the missing date of a leg. A missing departure is the
// day before arrival, or the arrival day itself for an early-morning arrival.
// A missing arrival is the day after departure. A leg with neither date
// cannot be searched.
func InferLegDates(leg entity.FlightLeg, earlyArrival bool) (entity.FlightLeg, error) {
	switch {
	case leg.DepartOn == nil && leg.ArriveOn == nil:
		return leg, &entity.InsufficientRouteDataError{
			Reason: fmt.Sprintf("leg %s -> %s has neither a departure nor an arrival date", leg.OriginCity, leg.DestinationCity),
		}
	case leg.DepartOn == nil:
		depart := leg.ArriveOn.AddDays(-1)
		if earlyArrival {
			depart = *leg.ArriveOn
		}
		leg.DepartOn = &depart
		leg.DepartInferred = true
	case leg.ArriveOn == nil:
		arrive := leg.DepartOn.AddDays(1)
		leg.ArriveOn = &arrive
		leg.ArriveInferred = true
	}
	return leg, nil
}

func distinctCities(origin string, stays []entity.CityStay) int {
	seen := map[string]struct{}{utils.NormalizeCity(origin): {}}
	for _, stay := range stays {
		if strings.TrimSpace(stay.City) == "" {
			continue
		}
		seen[utils.NormalizeCity(stay.City)] = struct{}{}
	}
	return len(seen)
}

func sameCity(a, b string) bool {
	return utils.NormalizeCity(a) == utils.NormalizeCity(b)
}
