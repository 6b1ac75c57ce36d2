package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tripplanner-service/internal/domain/entity"
	"tripplanner-service/internal/domain/repository"
	"tripplanner-service/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

// AmadeusFlightRepository searches the Amadeus Flight Offers API
type AmadeusFlightRepository struct {
	logger        logger.Logger
	airports      repository.AirportRepository
	client        *http.Client
	limiter       *rate.Limiter
	baseURL       string
	optionsPerLeg int
}

// NewAmadeusFlightRepository creates a new Amadeus flight search repository.
// Access tokens are fetched with the client credentials grant and refreshed
// when they expire.
func NewAmadeusFlightRepository(opts FlightSearchOptions, airports repository.AirportRepository, logger logger.Logger) repository.FlightSearchRepository {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")

	creds := &clientcredentials.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		TokenURL:     baseURL + "/v1/security/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})
	client := creds.Client(tokenCtx)
	client.Timeout = timeout

	return &AmadeusFlightRepository{
		logger:        logger,
		airports:      airports,
		client:        client,
		limiter:       opts.limiter(),
		baseURL:       baseURL,
		optionsPerLeg: opts.OptionsPerLeg,
	}
}

type amadeusSegment struct {
	Departure struct {
		IataCode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"departure"`
	Arrival struct {
		IataCode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"arrival"`
	CarrierCode string `json:"carrierCode"`
	Number      string `json:"number"`
	Aircraft    struct {
		Code string `json:"code"`
	} `json:"aircraft"`
}

type amadeusOffersResponse struct {
	Data []struct {
		Price struct {
			GrandTotal string `json:"grandTotal"`
			Currency   string `json:"currency"`
		} `json:"price"`
		Itineraries []struct {
			Duration string           `json:"duration"`
			Segments []amadeusSegment `json:"segments"`
		} `json:"itineraries"`
		ValidatingAirlineCodes []string `json:"validatingAirlineCodes"`
	} `json:"data"`
	Dictionaries struct {
		Carriers map[string]string `json:"carriers"`
	} `json:"dictionaries"`
	Errors []struct {
		Status int    `json:"status"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// Search finds flight offers for one leg
func (r *AmadeusFlightRepository) Search(ctx context.Context, leg entity.FlightLeg) ([]entity.FlightOption, error) {
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
	params.Set("originLocationCode", from)
	params.Set("destinationLocationCode", to)
	params.Set("departureDate", leg.DepartOn.String())
	params.Set("adults", "1")
	params.Set("currencyCode", "USD")
	if r.optionsPerLeg > 0 {
		params.Set("max", strconv.Itoa(r.optionsPerLeg))
	}
	if leg.Kind == entity.RoundTrip && leg.ReturnOn != nil {
		params.Set("returnDate", leg.ReturnOn.String())
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("flight search rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/v2/shopping/flight-offers?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var body amadeusOffersResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		detail := string(raw)
		if len(body.Errors) > 0 {
			detail = body.Errors[0].Title + ": " + body.Errors[0].Detail
		}
		return nil, fmt.Errorf("amadeus returned status %d: %s", resp.StatusCode, detail)
	}

	options := make([]entity.FlightOption, 0, len(body.Data))
	for _, offer := range body.Data {
		if len(offer.Itineraries) == 0 || len(offer.Itineraries[0].Segments) == 0 {
			continue
		}
		outbound := offer.Itineraries[0]
		first, last := outbound.Segments[0], outbound.Segments[len(outbound.Segments)-1]

		var airlines, numbers, aircraft []string
		for _, s := range outbound.Segments {
			name := body.Dictionaries.Carriers[s.CarrierCode]
			if name == "" {
				name = s.CarrierCode
			}
			airlines = append(airlines, name)
			numbers = append(numbers, s.CarrierCode+s.Number)
			aircraft = append(aircraft, s.Aircraft.Code)
		}

		options = append(options, entity.FlightOption{
			DepartureAirport: first.Departure.IataCode,
			ArrivalAirport:   last.Arrival.IataCode,
			DepartureTime:    first.Departure.At,
			ArrivalTime:      last.Arrival.At,
			Duration:         isoDuration(outbound.Duration),
			Airline:          strings.Join(dedupe(airlines), ", "),
			FlightNumber:     strings.Join(numbers, ", "),
			Price:            strings.TrimSpace(offer.Price.GrandTotal + " " + offer.Price.Currency),
			Aircraft:         strings.Join(dedupe(aircraft), ", "),
		})
	}

	r.logger.Debug("Amadeus offers received", "from", from, "to", to, "offers", len(options))
	return options, nil
}

// isoDuration renders an ISO 8601 duration such as PT5H30M as "5h 30m"
func isoDuration(iso string) string {
	rest := strings.TrimPrefix(iso, "PT")
	if rest == iso || rest == "" {
		return iso
	}
	d, err := time.ParseDuration(strings.ToLower(rest))
	if err != nil {
		return iso
	}
	return formatMinutes(int(d.Minutes()))
}
