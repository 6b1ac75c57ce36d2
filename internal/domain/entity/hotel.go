package entity

// HotelListing is one lodging option
type HotelListing struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Address     string `json:"address,omitempty"`
	Price       string `json:"price,omitempty"`
	URL         string `json:"url,omitempty"`
}

// CityHotelListings holds the lodging options for one stay
type CityHotelListings struct {
	City     string         `json:"city" validate:"required"`
	Dates    string         `json:"dates"`
	Listings []HotelListing `json:"listings" validate:"dive"`
}

// HotelsPlan is the hotels stage result
type HotelsPlan struct {
	HotelsPlans []CityHotelListings `json:"hotels_plans" validate:"required,dive"`
}
