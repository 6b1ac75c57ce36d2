package entity

// Airport is the reference data used to turn a city name into an IATA code
type Airport struct {
	ID       uint
	Code     string
	Name     string
	CityCode string
	CityName string
	TzName   string
}
