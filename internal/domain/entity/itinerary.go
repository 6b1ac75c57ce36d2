package entity

// Activity is one thing to do on a given day
type Activity struct {
	Name           string `json:"name" validate:"required"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	WhyItsSuitable string `json:"why_its_suitable"`
}

// Restaurant is a dining suggestion for a day
type Restaurant struct {
	Name        string   `json:"name" validate:"required"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Cuisine     string   `json:"cuisine"`
	Rating      *float64 `json:"rating,omitempty"`
}

// DayPlan lists the activities and restaurants for one date
type DayPlan struct {
	Date        Date         `json:"date"`
	Activities  []Activity   `json:"activities" validate:"dive"`
	Restaurants []Restaurant `json:"restaurants,omitempty" validate:"omitempty,dive"`
}

// CityPlan is the stay in one city
type CityPlan struct {
	City         string    `json:"city" validate:"required"`
	DateRange    DateRange `json:"date_range"`
	EarlyArrival bool      `json:"early_arrival,omitempty"`
	DayPlans     []DayPlan `json:"day_plans" validate:"dive"`
}

// Itinerary is the full day-by-day trip
type Itinerary struct {
	Name      string     `json:"name"`
	CityPlans []CityPlan `json:"city_plans" validate:"required,min=1,dive"`
}

// CityStay is one visited city with its arrival and departure dates
type CityStay struct {
	City          string `json:"city" yaml:"city"`
	ArrivalDate   Date   `json:"arrival_date" yaml:"arrival_date"`
	DepartureDate Date   `json:"departure_date" yaml:"departure_date"`
	EarlyArrival  bool   `json:"early_arrival,omitempty" yaml:"early_arrival"`
}

// Stays converts the city plans into the trip route consumed by the flight
// route builder
func (i *Itinerary) Stays() []CityStay {
	stays := make([]CityStay, 0, len(i.CityPlans))
	for _, plan := range i.CityPlans {
		stays = append(stays, CityStay{
			City:          plan.City,
			ArrivalDate:   plan.DateRange.Start,
			DepartureDate: plan.DateRange.End,
			EarlyArrival:  plan.EarlyArrival,
		})
	}
	return stays
}

// Cities returns the city names in visiting order
func (i *Itinerary) Cities() []string {
	cities := make([]string, 0, len(i.CityPlans))
	for _, plan := range i.CityPlans {
		cities = append(cities, plan.City)
	}
	return cities
}
