package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/finance-tracker-be/internal/models"
	"github.com/isdelr/finance-tracker-be/internal/services"
	"github.com/rs/zerolog/log"
)

// TransactionHandler handles HTTP requests for one kind of transaction.
type TransactionHandler struct {
	service services.TransactionServiceProvider
	kind    models.Kind
}

// NewTransactionHandler creates a new TransactionHandler for kind.
func NewTransactionHandler(service services.TransactionServiceProvider, kind models.Kind) *TransactionHandler {
	return &TransactionHandler{service: service, kind: kind}
}

// List handles the request to get all of a user's records.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	txs, err := h.service.List(r.Context(), user, h.kind)
	if err != nil {
		h.fail(w, err, user, "list")
		return
	}
	respondOK(w, txs)
}

// Create handles the request to record a new transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	tx, ok := decodeTransaction(w, r)
	if !ok {
		return
	}

	if _, err := h.service.Create(r.Context(), user, h.kind, tx); err != nil {
		h.fail(w, err, user, "create")
		return
	}
	respondOK(w, h.kind.Label()+" created successfully.")
}

// Delete handles the request to delete every record matching the body.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	tx, ok := decodeTransaction(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(r.Context(), user, h.kind, tx)
	if err != nil {
		h.fail(w, err, user, "delete")
		return
	}
	log.Info().Str("user_uuid", user).Str("kind", string(h.kind)).Int64("deleted", deleted).Msg("Deleted transactions")
	respondOK(w, h.kind.Label()+" deleted.")
}

func (h *TransactionHandler) fail(w http.ResponseWriter, err error, user, op string) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		respondError(w, http.StatusOK, "User not found.")
	case errors.Is(err, services.ErrValidation):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Error().Err(err).Str("user_uuid", user).Str("kind", string(h.kind)).Str("op", op).Msg("Transaction request failed")
		respondError(w, http.StatusInternalServerError, "There was an error processing "+h.kind.Label()+".")
	}
}

func decodeTransaction(w http.ResponseWriter, r *http.Request) (models.Transaction, bool) {
	var in models.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return models.Transaction{}, false
	}
	tx, err := in.Transaction()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return models.Transaction{}, false
	}
	return tx, true
}
