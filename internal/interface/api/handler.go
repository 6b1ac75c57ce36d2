package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tripplanner-service/internal/domain/entity"
	"tripplanner-service/internal/usecase"
	"tripplanner-service/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// TripPlanner runs itinerary, hotels and flights planning
type TripPlanner interface {
	RunTripPlan(ctx context.Context, req usecase.TripPlanRequest) (*entity.TripPlanResult, error)
	RefineItinerary(ctx context.Context, req usecase.RefineRequest) (*entity.Itinerary, error)
	StageRuns(ctx context.Context, conversationID string) ([]*entity.StageRun, error)
}

// ConsensusGenerator proposes group trips
type ConsensusGenerator interface {
	GenerateConsensusPlans(ctx context.Context, req entity.ConsensusRequest, generateImages bool) (*entity.ProposedPlans, error)
}

// Handler serves the trip planning HTTP API
type Handler struct {
	planner   TripPlanner
	consensus ConsensusGenerator
	validate  *validator.Validate
	logger    logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(planner TripPlanner, consensus ConsensusGenerator, logger logger.Logger) *Handler {
	return &Handler{
		planner:   planner,
		consensus: consensus,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Register adds the API routes to mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /plan_itinerary", h.PlanItinerary)
	mux.HandleFunc("POST /refine_itinerary", h.RefineItinerary)
	mux.HandleFunc("POST /hotels", h.Hotels)
	mux.HandleFunc("POST /flights", h.Flights)
	mux.HandleFunc("POST /hotels_and_flights", h.HotelsAndFlights)
	mux.HandleFunc("POST /get_hotels_and_flights", h.HotelsAndFlights)
	mux.HandleFunc("POST /preliminary_plan", h.PreliminaryPlan)
	mux.HandleFunc("POST /route", h.Route)
	mux.HandleFunc("GET /conversations/{id}/stage_runs", h.StageRuns)
}

type PlanItineraryRequest struct {
	ConversationID string               `json:"conversation_id"`
	TravelerInput  entity.TravelerInput `json:"traveler_input"`
}

type RefineItineraryRequest struct {
	ConversationID string               `json:"conversation_id"`
	TravelerInput  entity.TravelerInput `json:"traveler_input"`
	Itinerary      *entity.Itinerary    `json:"itinerary" validate:"required"`
	UserFeedback   string               `json:"user_feedback" validate:"required"`
}

type HotelsRequest struct {
	ConversationID string            `json:"conversation_id"`
	Itinerary      *entity.Itinerary `json:"itinerary" validate:"required"`
}

type FlightsRequest struct {
	ConversationID string            `json:"conversation_id"`
	Itinerary      *entity.Itinerary `json:"itinerary" validate:"required"`
	DepartureCity  string            `json:"departure_city" validate:"required"`
}

type PreliminaryPlanRequest struct {
	entity.ConsensusRequest
	GenerateImages bool `json:"generate_images"`
}

type RouteRequest struct {
	OriginCity string            `json:"origin_city" validate:"required"`
	Stays      []entity.CityStay `json:"stays" validate:"required,min=1"`
	ClosedLoop bool              `json:"closed_loop"`
}

type StageRunsResponse struct {
	ConversationID string             `json:"conversation_id"`
	StageRuns      []*entity.StageRun `json:"stage_runs"`
}

type PlanResponse struct {
	ConversationID string                  `json:"conversation_id"`
	Itinerary      *entity.Itinerary       `json:"itinerary,omitempty"`
	HotelsPlan     *entity.HotelsPlan      `json:"hotels_plan,omitempty"`
	FlightsPlan    *entity.FlightRoutePlan `json:"flights_plan,omitempty"`
	Message        string                  `json:"message"`
	Timestamp      time.Time               `json:"timestamp"`
}

// PlanItinerary plans a full itinerary from the traveler input
func (h *Handler) PlanItinerary(w http.ResponseWriter, r *http.Request) {
	var req PlanItineraryRequest
	if !h.decode(w, r, &req) {
		return
	}
	id := conversationID(req.ConversationID)

	result, err := h.planner.RunTripPlan(r.Context(), usecase.TripPlanRequest{
		ConversationID: id,
		Traveler:       req.TravelerInput,
		Stages:         entity.TripStages{Itinerary: true},
	})
	if err != nil {
		h.fail(w, r, id, err)
		return
	}

	writeJSON(w, http.StatusOK, PlanResponse{
		ConversationID: id,
		Itinerary:      result.Itinerary,
		Message:        "Trip planning completed successfully",
		Timestamp:      time.Now().UTC(),
	})
}

// RefineItinerary revises an itinerary with user feedback
func (h *Handler) RefineItinerary(w http.ResponseWriter, r *http.Request) {
	var req RefineItineraryRequest
	if !h.decode(w, r, &req) {
		return
	}
	id := conversationID(req.ConversationID)

	itinerary, err := h.planner.RefineItinerary(r.Context(), usecase.RefineRequest{
		ConversationID: id,
		Traveler:       req.TravelerInput,
		Itinerary:      req.Itinerary,
		Feedback:       req.UserFeedback,
	})
	if err != nil {
		h.fail(w, r, id, err)
		return
	}

	writeJSON(w, http.StatusOK, PlanResponse{
		ConversationID: id,
		Itinerary:      itinerary,
		Message:        "Itinerary refined successfully",
		Timestamp:      time.Now().UTC(),
	})
}

// Hotels finds lodging for every stay of an itinerary
func (h *Handler) Hotels(w http.ResponseWriter, r *http.Request) {
	var req HotelsRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.runStages(w, r, req.ConversationID, req.Itinerary, "", entity.TripStages{Hotels: true}, "Hotels found successfully")
}

// Flights searches the closed-loop flight route of an itinerary
func (h *Handler) Flights(w http.ResponseWriter, r *http.Request) {
	var req FlightsRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.runStages(w, r, req.ConversationID, req.Itinerary, req.DepartureCity, entity.TripStages{Flights: true}, "Flights found successfully")
}

// HotelsAndFlights runs the hotels and flights stages together
func (h *Handler) HotelsAndFlights(w http.ResponseWriter, r *http.Request) {
	var req FlightsRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.runStages(w, r, req.ConversationID, req.Itinerary, req.DepartureCity,
		entity.TripStages{Hotels: true, Flights: true}, "Hotels and flights found successfully")
}

func (h *Handler) runStages(w http.ResponseWriter, r *http.Request, conversation string, itinerary *entity.Itinerary, departureCity string, stages entity.TripStages, message string) {
	id := conversationID(conversation)

	result, err := h.planner.RunTripPlan(r.Context(), usecase.TripPlanRequest{
		ConversationID: id,
		Traveler:       entity.TravelerInput{DepartureCity: departureCity},
		Stages:         stages,
		Itinerary:      itinerary,
	})
	if err != nil {
		h.fail(w, r, id, err)
		return
	}

	writeJSON(w, http.StatusOK, PlanResponse{
		ConversationID: id,
		HotelsPlan:     result.Hotels,
		FlightsPlan:    result.Flights,
		Message:        message,
		Timestamp:      time.Now().UTC(),
	})
}

// PreliminaryPlan proposes group trips from shared dates and preferences
func (h *Handler) PreliminaryPlan(w http.ResponseWriter, r *http.Request) {
	var req PreliminaryPlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	plans, err := h.consensus.GenerateConsensusPlans(r.Context(), req.ConsensusRequest, req.GenerateImages)
	if err != nil {
		h.fail(w, r, "", err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// Route derives flight legs without searching them
func (h *Handler) Route(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if !h.decode(w, r, &req) {
		return
	}

	plan, err := usecase.DeriveFlightRoute(req.OriginCity, req.Stays, req.ClosedLoop)
	if err != nil {
		h.fail(w, r, "", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// StageRuns lists the journaled planning stages of a conversation
func (h *Handler) StageRuns(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	runs, err := h.planner.StageRuns(r.Context(), id)
	if err != nil {
		h.fail(w, r, id, err)
		return
	}
	if runs == nil {
		runs = []*entity.StageRun{}
	}
	writeJSON(w, http.StatusOK, StageRunsResponse{ConversationID: id, StageRuns: runs})
}

// decode reads and validates a JSON body. It writes the error response and
// returns false when the body is unusable.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, id string, err error) {
	h.logger.Error("Request failed",
		"path", r.URL.Path,
		"conversationId", id,
		"error", err)
	writeDomainError(w, err)
}

func conversationID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
