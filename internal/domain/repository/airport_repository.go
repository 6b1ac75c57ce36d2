package repository

import (
	"context"
	"errors"

	"tripplanner-service/internal/domain/entity"
)

// ErrAirportNotFound is returned when no airport matches a lookup
var ErrAirportNotFound = errors.New("airport not found")

// AirportRepository defines the interface for airport reference lookups
type AirportRepository interface {
	GetByCityName(ctx context.Context, city string) (*entity.Airport, error)
	GetByAirportCode(ctx context.Context, code string) (*entity.Airport, error)
}
