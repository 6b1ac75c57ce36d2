package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tripplanner-service/internal/domain/entity"
	"tripplanner-service/internal/domain/repository"
	"tripplanner-service/pkg/logger"
	"tripplanner-service/pkg/utils"

	"golang.org/x/time/rate"
)

// SerpAPI google_flights trip types
const (
	serpAPIRoundTrip = "1"
	serpAPIOneWay    = "2"
)

// maxErrorDetail bounds the response text quoted in errors
const maxErrorDetail = 200

// FlightSearchOptions configures an outbound flight search client
type FlightSearchOptions struct {
	BaseURL       string
	APIKey        string
	ClientID      string
	ClientSecret  string
	OptionsPerLeg int
	RatePerSecond float64
	Burst         int
	Timeout       time.Duration
}

func (o FlightSearchOptions) limiter() *rate.Limiter {
	if o.RatePerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := o.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(o.RatePerSecond), burst)
}

// SerpAPIFlightRepository searches Google Flights through SerpAPI
type SerpAPIFlightRepository struct {
	logger        logger.Logger
	airports      repository.AirportRepository
	client        *http.Client
	limiter       *rate.Limiter
	baseURL       string
	apiKey        string
	optionsPerLeg int
}

// NewSerpAPIFlightRepository creates a new SerpAPI flight search repository
func NewSerpAPIFlightRepository(opts FlightSearchOptions, airports repository.AirportRepository, logger logger.Logger) repository.FlightSearchRepository {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &SerpAPIFlightRepository{
		logger:        logger,
		airports:      airports,
		client:        &http.Client{Timeout: timeout},
		limiter:       opts.limiter(),
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		apiKey:        opts.APIKey,
		optionsPerLeg: opts.OptionsPerLeg,
	}
}

type serpAPIAirport struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Time string `json:"time"`
}

type serpAPIFlightGroup struct {
	Flights []struct {
		DepartureAirport serpAPIAirport `json:"departure_airport"`
		ArrivalAirport   serpAPIAirport `json:"arrival_airport"`
		Duration         int            `json:"duration"`
		Airplane         string         `json:"airplane"`
		Airline          string         `json:"airline"`
		FlightNumber     string         `json:"flight_number"`
	} `json:"flights"`
	TotalDuration int    `json:"total_duration"`
	Price         int    `json:"price"`
	Type          string `json:"type"`
}

type serpAPIResponse struct {
	SearchMetadata struct {
		Status           string `json:"status"`
		GoogleFlightsURL string `json:"google_flights_url"`
	} `json:"search_metadata"`
	BestFlights  []serpAPIFlightGroup `json:"best_flights"`
	OtherFlights []serpAPIFlightGroup `json:"other_flights"`
	Error        string               `json:"error"`
}

// Search finds flights for one leg. A round-trip leg is priced as a return
// ticket coming back on the leg's return date.
func (r *SerpAPIFlightRepository) Search(ctx context.Context, leg entity.FlightLeg) ([]entity.FlightOption, error) {
	if leg.DepartOn == nil {
		return nil, fmt.Errorf("leg %s -> %s has no departure date", leg.OriginCity, leg.DestinationCity)
	}

	from, err := resolveAirportCode(ctx, r.airports, leg.OriginCity)
	if err != nil {
		return nil, err
	}
	to, err := resolveAirportCode(ctx, r.airports, leg.DestinationCity)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("engine", "google_flights")
	params.Set("departure_id", from)
	params.Set("arrival_id", to)
	params.Set("outbound_date", leg.DepartOn.String())
	params.Set("currency", "USD")
	params.Set("hl", "en")
	params.Set("api_key", r.apiKey)
	if leg.Kind == entity.RoundTrip && leg.ReturnOn != nil {
		params.Set("type", serpAPIRoundTrip)
		params.Set("return_date", leg.ReturnOn.String())
	} else {
		params.Set("type", serpAPIOneWay)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("flight search rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	r.logger.Debug("Searching flights",
		"from", from,
		"to", to,
		"date", leg.DepartOn.String(),
		"kind", leg.Kind)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flight search returned status %d: %s", resp.StatusCode, serpAPIErrorDetail(raw))
	}

	var body serpAPIResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if body.Error != "" {
		return nil, fmt.Errorf("flight search failed: %s", body.Error)
	}

	groups := append(body.BestFlights, body.OtherFlights...)
	options := make([]entity.FlightOption, 0, len(groups))
	for _, group := range groups {
		if r.optionsPerLeg > 0 && len(options) == r.optionsPerLeg {
			break
		}
		if len(group.Flights) == 0 {
			continue
		}
		first, last := group.Flights[0], group.Flights[len(group.Flights)-1]

		var airlines, numbers, aircraft []string
		for _, f := range group.Flights {
			airlines = append(airlines, f.Airline)
			numbers = append(numbers, f.FlightNumber)
			aircraft = append(aircraft, f.Airplane)
		}

		options = append(options, entity.FlightOption{
			DepartureAirport: first.DepartureAirport.ID,
			ArrivalAirport:   last.ArrivalAirport.ID,
			DepartureTime:    first.DepartureAirport.Time,
			ArrivalTime:      last.ArrivalAirport.Time,
			Duration:         formatMinutes(group.TotalDuration),
			Airline:          utils.JoinNonEmpty(dedupe(airlines), ", "),
			FlightNumber:     utils.JoinNonEmpty(numbers, ", "),
			Price:            fmt.Sprintf("%d USD", group.Price),
			Aircraft:         utils.JoinNonEmpty(dedupe(aircraft), ", "),
			BookingLink:      body.SearchMetadata.GoogleFlightsURL,
		})
	}

	return options, nil
}

// serpAPIErrorDetail extracts the error message of a failed search. Bodies
// that are not JSON, such as gateway error pages, are reported truncated.
func serpAPIErrorDetail(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return body.Error
	}
	detail := strings.TrimSpace(string(raw))
	if len(detail) > maxErrorDetail {
		detail = detail[:maxErrorDetail] + "..."
	}
	return detail
}

// resolveAirportCode turns a city name into an IATA code. Values that look
// like a code are checked against the reference data; codes it does not
// know, such as metropolitan city codes, are passed through.
func resolveAirportCode(ctx context.Context, airports repository.AirportRepository, city string) (string, error) {
	trimmed := strings.TrimSpace(city)
	if utils.IsIATACode(trimmed) {
		airport, err := airports.GetByAirportCode(ctx, trimmed)
		switch {
		case err == nil:
			return airport.Code, nil
		case errors.Is(err, repository.ErrAirportNotFound):
			return trimmed, nil
		default:
			return "", fmt.Errorf("failed to resolve airport code %s: %w", trimmed, err)
		}
	}
	airport, err := airports.GetByCityName(ctx, trimmed)
	if err != nil {
		return "", fmt.Errorf("failed to resolve airport for %s: %w", city, err)
	}
	return airport.Code, nil
}

func formatMinutes(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0:0]
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
