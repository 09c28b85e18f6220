package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/finance-tracker-be/internal/api/handlers"
	"github.com/isdelr/finance-tracker-be/internal/auth"
	"github.com/isdelr/finance-tracker-be/internal/models"
	"github.com/isdelr/finance-tracker-be/internal/services"
	"github.com/isdelr/finance-tracker-be/internal/websocket"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// Options tunes cross-cutting router behavior.
type Options struct {
	AllowedOrigins []string
	AuthRequired   bool
	SecureCookies  bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(
	opts Options,
	hub *websocket.Hub,
	tokens *auth.TokenManager,
	db handlers.Pinger,
	userService services.UserServiceProvider,
	txService services.TransactionServiceProvider,
	eventService services.EventServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request")
	}))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(corsOptions(opts.AllowedOrigins)))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens, opts.SecureCookies)
	incomeHandler := handlers.NewTransactionHandler(txService, models.KindIncome)
	spendingHandler := handlers.NewTransactionHandler(txService, models.KindSpending)
	graphHandler := handlers.NewGraphHandler(txService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub, userService, opts.AllowedOrigins)
	healthHandler := handlers.NewHealthHandler(db)

	r.Get("/health", healthHandler.Check)
	r.Post("/create_user", userHandler.Create)
	r.Post("/login", userHandler.Login)

	r.Route("/{user}", func(r chi.Router) {
		// The first path segment carries the email here, not a user identifier.
		r.Get("/get_id", userHandler.GetID)

		r.Group(func(r chi.Router) {
			if opts.AuthRequired {
				r.Use(tokens.RequireUser)
			}

			r.Get("/income", incomeHandler.List)
			r.Post("/new_income", incomeHandler.Create)
			r.Post("/delete_income", incomeHandler.Delete)
			r.Get("/income/time_series", graphHandler.TimeSeries(models.KindIncome))

			r.Get("/spending", spendingHandler.List)
			r.Post("/new_spending", spendingHandler.Create)
			r.Post("/delete_spending", spendingHandler.Delete)
			r.Get("/spending/time_series", graphHandler.TimeSeries(models.KindSpending))

			r.Get("/summary", graphHandler.Summary)
			r.Get("/events", eventHandler.GetRecent)
			r.Get("/ws", wsHandler.Serve)
		})
	})

	return r
}

func corsOptions(origins []string) cors.Options {
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	opts := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}
	if allowAll {
		opts.AllowedOrigins = []string{"*"}
	} else {
		opts.AllowCredentials = true
	}
	return opts
}
