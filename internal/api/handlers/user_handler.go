package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/finance-tracker-be/internal/auth"
	"github.com/isdelr/finance-tracker-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service      services.UserServiceProvider
	tokens       *auth.TokenManager
	secureCookie bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.TokenManager, secureCookie bool) *UserHandler {
	return &UserHandler{service: service, tokens: tokens, secureCookie: secureCookie}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPayload defines the structure for account creation requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Create handles new account creation. Fields are read from the query string
// and, when a JSON body is sent, from the body.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	payload := RegisterPayload{
		Username: q.Get("username"),
		Email:    q.Get("email"),
		Name:     q.Get("name"),
		Password: q.Get("password"),
	}
	if hasJSONBody(r) {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
	}

	user, err := h.service.CreateUser(r.Context(), payload.Username, payload.Email, payload.Name, payload.Password)
	switch {
	case errors.Is(err, services.ErrConflict):
		respondError(w, http.StatusOK, "User already exist.")
		return
	case errors.Is(err, services.ErrValidation):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to create user")
		respondError(w, http.StatusInternalServerError, "There was an error creating User.")
		return
	}

	log.Info().Str("user_uuid", user.UUID).Msg("User created")
	respondOK(w, "User created successfully.")
}

// GetID returns the identifier of the user matching the email in the path and
// the password query parameter.
func (h *UserHandler) GetID(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "user")
	password := r.URL.Query().Get("password")

	user, err := h.service.AuthenticateUser(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(w, http.StatusOK, "User not found.")
			return
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to look up user id")
		respondError(w, http.StatusInternalServerError, "There was an error finding User.")
		return
	}

	respondOK(w, user.UUID)
}

// Login handles user authentication and JWT generation.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			respondError(w, http.StatusOK, "Invalid credentials.")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to authenticate user")
		respondError(w, http.StatusInternalServerError, "There was an error logging in.")
		return
	}

	token, err := h.tokens.GenerateJWT(user)
	if err != nil {
		log.Error().Err(err).Str("user_uuid", user.UUID).Msg("Failed to generate JWT")
		respondError(w, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(auth.DefaultTTL),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	respondOK(w, map[string]string{
		"token":   token,
		"user_id": user.UUID,
	})
}

func hasJSONBody(r *http.Request) bool {
	return r.Body != nil && r.ContentLength != 0 &&
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
