package entity

// TravelerInput describes the trip a traveler asks for
type TravelerInput struct {
	Country       string   `json:"country" validate:"required"`
	Cities        []string `json:"cities" validate:"required,min=1,dive,required"`
	ArrivalDate   Date     `json:"arrival_date"`
	DepartureDate Date     `json:"departure_date"`
	Age           int      `json:"age" validate:"gte=0,lte=130"`
	Preferences   []string `json:"preferences,omitempty"`
	Constraints   []string `json:"constraints,omitempty"`
	DepartureCity string   `json:"departure_city,omitempty"`
}

// Window returns the requested trip dates
func (t TravelerInput) Window() DateRange {
	return DateRange{Start: t.ArrivalDate, End: t.DepartureDate}
}

// TripStages selects which planning stages a request runs
type TripStages struct {
	Itinerary bool `json:"itinerary"`
	Hotels    bool `json:"hotels"`
	Flights   bool `json:"flights"`
}

// Names lists the selected stages in dependency order
func (s TripStages) Names() []string {
	var names []string
	if s.Itinerary {
		names = append(names, StageItinerary)
	}
	if s.Hotels {
		names = append(names, StageHotels)
	}
	if s.Flights {
		names = append(names, StageFlights)
	}
	return names
}

// TripPlanResult combines the stage outputs of one request
type TripPlanResult struct {
	ConversationID string           `json:"conversation_id"`
	RunID          string           `json:"run_id"`
	Itinerary      *Itinerary       `json:"itinerary,omitempty"`
	Hotels         *HotelsPlan      `json:"hotels_plan,omitempty"`
	Flights        *FlightRoutePlan `json:"flights_plan,omitempty"`
}
