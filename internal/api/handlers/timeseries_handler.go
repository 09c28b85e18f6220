package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/finance-tracker-be/internal/models"
	"github.com/isdelr/finance-tracker-be/internal/services"
	"github.com/rs/zerolog/log"
)

// GraphHandler serves the chart aggregation endpoints.
type GraphHandler struct {
	service services.TransactionServiceProvider
}

// NewGraphHandler creates a new GraphHandler.
func NewGraphHandler(service services.TransactionServiceProvider) *GraphHandler {
	return &GraphHandler{service: service}
}

// TimeSeries returns the monthly series for kind as a bare {labels, values} object.
func (h *GraphHandler) TimeSeries(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := chi.URLParam(r, "user")
		series, err := h.service.TimeSeries(r.Context(), user, kind)
		if err != nil {
			log.Error().Err(err).Str("user_uuid", user).Str("kind", string(kind)).Msg("Failed to build time series")
			respondError(w, http.StatusInternalServerError, "There was an error building the time series.")
			return
		}
		writeJSON(w, http.StatusOK, series)
	}
}

// Summary returns both series and totals for the user.
func (h *GraphHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	summary, err := h.service.Summary(r.Context(), user)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondError(w, http.StatusOK, "User not found.")
			return
		}
		log.Error().Err(err).Str("user_uuid", user).Msg("Failed to build summary")
		respondError(w, http.StatusInternalServerError, "There was an error building the summary.")
		return
	}
	respondOK(w, summary)
}
