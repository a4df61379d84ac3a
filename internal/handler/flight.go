package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soarr/flightlog/internal/apperror"
	"github.com/soarr/flightlog/internal/auth"
	"github.com/soarr/flightlog/internal/model"
	"github.com/soarr/flightlog/internal/service"
)

// FlightHandler serves the per-user flight log plus the sample-data toggles.
type FlightHandler struct {
	flights *service.FlightService
	logger  *slog.Logger
}

func NewFlightHandler(flights *service.FlightService, logger *slog.Logger) *FlightHandler {
	return &FlightHandler{
		flights: flights,
		logger:  logger,
	}
}

type seedResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Flights []model.FlightResponse `json:"flights"`
}

// HandleList returns the caller's flights, newest first. An empty log is a
// JSON array, never null.
func (h *FlightHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	flights, err := h.flights.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponses(flights))
}

// HandleCreate logs a new flight for the caller.
func (h *FlightHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var in service.FlightInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	flight, err := h.flights.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, flight.Response())
}

// HandleGet returns a single flight. A flight owned by someone else is
// indistinguishable from one that does not exist.
func (h *FlightHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	flight, err := h.flights.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, flight.Response())
}

// HandleDelete removes one of the caller's flights.
func (h *FlightHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.flights.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "flight deleted"})
}

// HandleSeedAdd populates the caller's log with the illustrative sample set.
func (h *FlightHandler) HandleSeedAdd(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	flights, err := h.flights.AddSeedData(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, seedResponse{
		Success: true,
		Message: "sample data added",
		Flights: toResponses(flights),
	})
}

// HandleSeedRemove deletes the sample flights, leaving real entries alone.
func (h *FlightHandler) HandleSeedRemove(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.flights.RemoveSeedData(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "sample data removed"})
}

func toResponses(flights []model.Flight) []model.FlightResponse {
	responses := make([]model.FlightResponse, 0, len(flights))
	for i := range flights {
		responses = append(responses, flights[i].Response())
	}
	return responses
}
