package repository

import (
	"context"

	"tripplanner-service/internal/domain/entity"
)

// FlightSearchRepository finds concrete flights for one leg
type FlightSearchRepository interface {
	Search(ctx context.Context, leg entity.FlightLeg) ([]entity.FlightOption, error)
}
