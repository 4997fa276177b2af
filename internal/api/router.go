package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/kafanski-duel/internal/api/handler"
	"github.com/mcoot/kafanski-duel/internal/api/middleware"
	"github.com/mcoot/kafanski-duel/internal/catalog"
	"github.com/mcoot/kafanski-duel/internal/services/challenge"
	"github.com/mcoot/kafanski-duel/internal/services/gateway"
	sharedmw "github.com/mcoot/kafanski-duel/internal/middleware"
	"github.com/mcoot/kafanski-duel/internal/telemetry"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	Tracer           trace.Tracer
	Authenticator    middleware.Authenticator
	Catalog          *catalog.Catalog
	ChallengeManager challenge.ManagerInterface
	Gateway          gateway.ServiceInterface
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = telemetry.Tracer(nil)
	}

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.Catalog)
	duelHandler := handler.NewDuelHandler(cfg.ChallengeManager, cfg.Gateway)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.Authenticator)
	loggingMiddleware := sharedmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(sharedmw.Tracing(tracer))
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Everything else requires a verified identity
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/players/me", playerHandler.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/actions", playerHandler.ListActions).Methods(http.MethodGet)

	protected.HandleFunc("/duels", duelHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/duels", duelHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/duels/{id}", duelHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/duels/{id}/accept", duelHandler.Accept).Methods(http.MethodPost)
	protected.HandleFunc("/duels/{id}/decline", duelHandler.Decline).Methods(http.MethodPost)
	protected.HandleFunc("/duels/{id}/actions", duelHandler.SubmitAction).Methods(http.MethodPost)
	protected.HandleFunc("/duels/{id}/surrender", duelHandler.Surrender).Methods(http.MethodPost)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
