package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tripplanner-service/internal/domain/entity"
	"tripplanner-service/internal/domain/repository"
	"tripplanner-service/pkg/utils"

	"gorm.io/gorm"
)

// GormAirportRepository implements the AirportRepository interface
type GormAirportRepository struct {
	db *gorm.DB
}

// NewGormAirportRepository creates a new GORM airport repository
func NewGormAirportRepository(db *gorm.DB) repository.AirportRepository {
	return &GormAirportRepository{
		db: db,
	}
}

// Airports GORM model for database mapping
type Airports struct {
	ID          uint           `gorm:"primaryKey"`
	AirportCode string         `gorm:"column:airportcode;unique"`
	AirportName string         `gorm:"column:airport_name"`
	CityCode    string         `gorm:"column:citycode"`
	CityName    string         `gorm:"column:cityname;index"`
	TzName      string         `gorm:"column:tzname"`
	IsMain      bool           `gorm:"column:is_main"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the default table name
func (Airports) TableName() string {
	return "m_airports"
}

// GetByCityName finds the main airport serving a city
func (r *GormAirportRepository) GetByCityName(ctx context.Context, city string) (*entity.Airport, error) {
	var airport Airports
	result := r.db.WithContext(ctx).
		Where("LOWER(cityname) = ?", utils.NormalizeCity(city)).
		Order("is_main DESC").
		Order("id").
		First(&airport)

	if result.Error != nil {
		return nil, notFound(result.Error, "city "+city)
	}
	return airport.toEntity(), nil
}

// GetByAirportCode finds an airport by its IATA code
func (r *GormAirportRepository) GetByAirportCode(ctx context.Context, code string) (*entity.Airport, error) {
	var airport Airports
	result := r.db.WithContext(ctx).Where("airportcode = ?", strings.ToUpper(strings.TrimSpace(code))).First(&airport)

	if result.Error != nil {
		return nil, notFound(result.Error, "code "+code)
	}
	return airport.toEntity(), nil
}

func (a Airports) toEntity() *entity.Airport {
	return &entity.Airport{
		ID:       a.ID,
		Code:     a.AirportCode,
		Name:     a.AirportName,
		CityCode: a.CityCode,
		CityName: a.CityName,
		TzName:   a.TzName,
	}
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", repository.ErrAirportNotFound, what)
	}
	return fmt.Errorf("failed to query airport by %s: %w", what, err)
}

// StaticAirportRepository serves airport lookups from a fixed list. It backs
// the service when no reference database is configured.
type StaticAirportRepository struct {
	byCity map[string]*entity.Airport
	byCode map[string]*entity.Airport
}

// NewStaticAirportRepository creates a lookup over airports. Without
// airports the built-in list of major hubs is used.
func NewStaticAirportRepository(airports ...entity.Airport) repository.AirportRepository {
	if len(airports) == 0 {
		airports = defaultAirports
	}
	r := &StaticAirportRepository{
		byCity: make(map[string]*entity.Airport, len(airports)),
		byCode: make(map[string]*entity.Airport, len(airports)),
	}
	for i := range airports {
		a := airports[i]
		if _, ok := r.byCity[utils.NormalizeCity(a.CityName)]; !ok {
			r.byCity[utils.NormalizeCity(a.CityName)] = &a
		}
		r.byCode[a.Code] = &a
	}
	return r
}

// GetByCityName finds the first listed airport of a city
func (r *StaticAirportRepository) GetByCityName(ctx context.Context, city string) (*entity.Airport, error) {
	if a, ok := r.byCity[utils.NormalizeCity(city)]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: city %s", repository.ErrAirportNotFound, city)
}

// GetByAirportCode finds an airport by its IATA code
func (r *StaticAirportRepository) GetByAirportCode(ctx context.Context, code string) (*entity.Airport, error) {
	if a, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: code %s", repository.ErrAirportNotFound, code)
}

var defaultAirports = []entity.Airport{
	{Code: "LHR", Name: "Heathrow", CityCode: "LON", CityName: "London", TzName: "Europe/London"},
	{Code: "CDG", Name: "Charles de Gaulle", CityCode: "PAR", CityName: "Paris", TzName: "Europe/Paris"},
	{Code: "FCO", Name: "Fiumicino", CityCode: "ROM", CityName: "Rome", TzName: "Europe/Rome"},
	{Code: "BER", Name: "Berlin Brandenburg", CityCode: "BER", CityName: "Berlin", TzName: "Europe/Berlin"},
	{Code: "MAD", Name: "Barajas", CityCode: "MAD", CityName: "Madrid", TzName: "Europe/Madrid"},
	{Code: "BCN", Name: "El Prat", CityCode: "BCN", CityName: "Barcelona", TzName: "Europe/Madrid"},
	{Code: "LIS", Name: "Humberto Delgado", CityCode: "LIS", CityName: "Lisbon", TzName: "Europe/Lisbon"},
	{Code: "AMS", Name: "Schiphol", CityCode: "AMS", CityName: "Amsterdam", TzName: "Europe/Amsterdam"},
	{Code: "VIE", Name: "Vienna International", CityCode: "VIE", CityName: "Vienna", TzName: "Europe/Vienna"},
	{Code: "PRG", Name: "Vaclav Havel", CityCode: "PRG", CityName: "Prague", TzName: "Europe/Prague"},
	{Code: "ATH", Name: "Athens International", CityCode: "ATH", CityName: "Athens", TzName: "Europe/Athens"},
	{Code: "IST", Name: "Istanbul", CityCode: "IST", CityName: "Istanbul", TzName: "Europe/Istanbul"},
	{Code: "DXB", Name: "Dubai International", CityCode: "DXB", CityName: "Dubai", TzName: "Asia/Dubai"},
	{Code: "JFK", Name: "John F. Kennedy", CityCode: "NYC", CityName: "New York", TzName: "America/New_York"},
	{Code: "LAX", Name: "Los Angeles International", CityCode: "LAX", CityName: "Los Angeles", TzName: "America/Los_Angeles"},
	{Code: "SFO", Name: "San Francisco International", CityCode: "SFO", CityName: "San Francisco", TzName: "America/Los_Angeles"},
	{Code: "HND", Name: "Haneda", CityCode: "TYO", CityName: "Tokyo", TzName: "Asia/Tokyo"},
	{Code: "SIN", Name: "Changi", CityCode: "SIN", CityName: "Singapore", TzName: "Asia/Singapore"},
	{Code: "CGK", Name: "Soekarno-Hatta", CityCode: "JKT", CityName: "Jakarta", TzName: "Asia/Jakarta"},
	{Code: "DPS", Name: "Ngurah Rai", CityCode: "DPS", CityName: "Denpasar", TzName: "Asia/Makassar"},
	{Code: "SYD", Name: "Kingsford Smith", CityCode: "SYD", CityName: "Sydney", TzName: "Australia/Sydney"},
}
