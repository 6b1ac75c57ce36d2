package usecase

import (
	"strings"

	"tripplanner-service/internal/domain/entity"
)

// ValidateItinerary checks the structural invariants of an itinerary: at
// least one city plan, city plans ordered by start date, and day plans
// date-ordered inside their city's date range. It has no side effects.
func ValidateItinerary(itinerary *entity.Itinerary) (*entity.Itinerary, error) {
	if itinerary == nil || len(itinerary.CityPlans) == 0 {
		return nil, entity.NewStructuralError("itinerary has no city plans")
	}

	var prevStart entity.Date
	for i, plan := range itinerary.CityPlans {
		if strings.TrimSpace(plan.City) == "" {
			return nil, entity.NewStructuralError("city plan %d has no city", i)
		}
		r := plan.DateRange
		if r.Start.IsZero() || r.End.IsZero() {
			return nil, entity.NewStructuralError("city plan %d (%s) has no date range", i, plan.City)
		}
		if r.End.Before(r.Start) {
			return nil, entity.NewStructuralError("city plan %d (%s) ends before it starts: %s", i, plan.City, r)
		}
		if i > 0 && r.Start.Before(prevStart) {
			return nil, entity.NewStructuralError("city plan %d (%s) starts %s, before the previous city", i, plan.City, r.Start)
		}
		prevStart = r.Start

		var prevDay entity.Date
		for j, day := range plan.DayPlans {
			if day.Date.IsZero() {
				return nil, entity.NewStructuralError("day plan %d in %s has no date", j, plan.City)
			}
			if !r.Contains(day.Date) {
				return nil, entity.NewStructuralError("day plan %s is outside %s date range %s", day.Date, plan.City, r)
			}
			if j > 0 && !day.Date.After(prevDay) {
				return nil, entity.NewStructuralError("day plans in %s are not date-ordered at %s", plan.City, day.Date)
			}
			prevDay = day.Date
		}
	}

	return itinerary, nil
}

// ValidateTraveler checks the requested trip window: both dates present and
// arrival no later than departure.
func ValidateTraveler(traveler entity.TravelerInput) error {
	window := traveler.Window()
	if window.Start.IsZero() || window.End.IsZero() {
		return entity.NewStructuralError("traveler input needs both an arrival and a departure date")
	}
	if window.End.Before(window.Start) {
		return entity.NewStructuralError("arrival date %s is after departure date %s", window.Start, window.End)
	}
	return nil
}

// ValidateStays checks a trip route: non-empty, every stay named, no stay
// ending before it starts and no negative dwell between consecutive stays.
func ValidateStays(stays []entity.CityStay) error {
	if len(stays) == 0 {
		return entity.NewStructuralError("trip route has no stays")
	}
	for i, stay := range stays {
		if strings.TrimSpace(stay.City) == "" {
			return entity.NewStructuralError("stay %d has no city", i)
		}
		if !stay.ArrivalDate.IsZero() && !stay.DepartureDate.IsZero() && stay.DepartureDate.Before(stay.ArrivalDate) {
			return entity.NewStructuralError("stay in %s departs %s before arriving %s", stay.City, stay.DepartureDate, stay.ArrivalDate)
		}
		if i == 0 {
			continue
		}
		prev := stays[i-1]
		if !prev.DepartureDate.IsZero() && !stay.ArrivalDate.IsZero() && stay.ArrivalDate.Before(prev.DepartureDate) {
			return entity.NewStructuralError("arrival in %s on %s precedes departure from %s on %s",
				stay.City, stay.ArrivalDate, prev.City, prev.DepartureDate)
		}
	}
	return nil
}
