// Task 8.7: Route registration and go-chi router setup
// Public routes (/health, /auth/*) vs JWT-protected routes (/api/v1/*)
package api

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/srilakshmipotnuru/mindsdb/internal/api/handlers"
	apmiddleware "github.com/srilakshmipotnuru/mindsdb/internal/api/middleware"
	domainauth "github.com/srilakshmipotnuru/mindsdb/internal/domain/auth"
	"github.com/srilakshmipotnuru/mindsdb/internal/domain/engine"
	"github.com/srilakshmipotnuru/mindsdb/internal/domain/model"
	"github.com/srilakshmipotnuru/mindsdb/internal/domain/usage"
	"github.com/srilakshmipotnuru/mindsdb/internal/infra/config"
	"github.com/srilakshmipotnuru/mindsdb/internal/infra/eventbus"
)

// NewRouter creates and configures a new chi router with all routes.
// The model service, usage recorder and engine bridge share one database
// and one event bus; the recorder's consumption loop is started here.
func NewRouter(db *sql.DB, cfg config.Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// ===== PUBLIC ROUTES (no auth required) =====

	// Health check — unauthenticated, used by load balancers and health probes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	// Auth endpoints — public, no JWT required
	authHandler := handlers.NewAuthHandler(domainauth.NewAuthService(db))
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register) // POST /auth/register
		r.Post("/login", authHandler.Login)       // POST /auth/login
	})

	// ===== PROTECTED ROUTES (JWT required via AuthMiddleware) =====

	// All /api/v1/* routes require a valid Bearer JWT token.
	// AuthMiddleware validates the token and injects AccountID into context.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apmiddleware.AuthMiddleware)

		// Shared app services for protected APIs. The sqlite engine doubles
		// as statement executor and data source resolver for agent tools.
		bus := eventbus.New()
		eng := engine.NewSQLiteEngine(db)
		modelService := model.NewService(model.ServiceConfig{
			Storage:       model.NewStorage(db),
			Bus:           bus,
			Executor:      eng,
			Resolver:      eng,
			OpenAIBaseURL: cfg.OpenAIBaseURL,
			SerperBaseURL: cfg.SerperBaseURL,
		})
		recorder := usage.NewRecorder(db, bus)
		recorder.Start(context.Background())

		modelHandler := handlers.NewModelHandler(modelService, recorder)
		r.Route("/models", func(r chi.Router) {
			r.Post("/", modelHandler.CreateModel)            // POST /api/v1/models
			r.Post("/{name}/predict", modelHandler.Predict)  // POST /api/v1/models/{name}/predict
			r.Get("/{name}/describe", modelHandler.Describe) // GET  /api/v1/models/{name}/describe
			r.Post("/{name}/finetune", modelHandler.Finetune)
			r.Get("/{name}/runs", modelHandler.ListRuns) // GET  /api/v1/models/{name}/runs
		})
	})

	return r
}
