package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"tripplanner-service/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

// Error codes returned in the "error" field
const (
	codeInvalidRequest = "invalid_request"
	codeInvalidTrip    = "invalid_trip"
	codePlanningFailed = "planning_failed"
	codeInternal       = "internal_error"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Stage   string `json:"stage,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeDomainError maps planning errors to a status code
func writeDomainError(w http.ResponseWriter, err error) {
	var pse *entity.PlanningServiceError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &pse):
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:   codePlanningFailed,
			Message: pse.Error(),
			Stage:   pse.Stage,
		})
	case entity.IsStructural(err), entity.IsInsufficientRouteData(err):
		writeError(w, http.StatusBadRequest, codeInvalidTrip, err.Error())
	case errors.As(err, &validationErrs):
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternal, err.Error())
	}
}
