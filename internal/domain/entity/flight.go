package entity

// LegKind selects the fare search mode for a leg
type LegKind string

const (
	OneWay    LegKind = "ONE_WAY"
	RoundTrip LegKind = "ROUND_TRIP"
)

// FlightLeg is one directional segment of a flight route. At most one of
// DepartOn and ArriveOn is unknown when the leg is built; the builder fills
// the missing side and flags it as inferred.
type FlightLeg struct {
	OriginCity      string  `json:"origin_city"`
	DestinationCity string  `json:"destination_city"`
	DepartOn        *Date   `json:"depart_on"`
	ArriveOn        *Date   `json:"arrive_on"`
	ReturnOn        *Date   `json:"return_on,omitempty"`
	Kind            LegKind `json:"leg_kind"`
	DepartInferred  bool    `json:"depart_inferred,omitempty"`
	ArriveInferred  bool    `json:"arrive_inferred,omitempty"`
}

// FlightOption is one concrete flight offered for a leg
type FlightOption struct {
	DepartureAirport string `json:"departure_airport"`
	ArrivalAirport   string `json:"arrival_airport"`
	DepartureTime    string `json:"departure_date"`
	ArrivalTime      string `json:"arrival_date"`
	Duration         string `json:"duration"`
	Airline          string `json:"airline"`
	FlightNumber     string `json:"flight_number"`
	Price            string `json:"price"`
	Aircraft         string `json:"aircraft"`
	BookingLink      string `json:"booking_link"`
}

// RouteLeg pairs a leg with the options found for it
type RouteLeg struct {
	Leg     FlightLeg      `json:"leg"`
	Options []FlightOption `json:"options"`
}

// FlightRoutePlan is the ordered set of legs for a trip
type FlightRoutePlan struct {
	OriginCity string     `json:"origin_city"`
	ClosedLoop bool       `json:"closed_loop"`
	Legs       []RouteLeg `json:"legs"`
}

// LegCount returns the number of legs in the plan
func (p *FlightRoutePlan) LegCount() int {
	return len(p.Legs)
}
