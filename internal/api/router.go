package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/regattadev/boatrace/internal/api/handler"
	apimiddleware "github.com/regattadev/boatrace/internal/api/middleware"
	"github.com/regattadev/boatrace/internal/middleware"
	"github.com/regattadev/boatrace/internal/services/auth"
	"github.com/regattadev/boatrace/internal/session"
	"github.com/regattadev/boatrace/internal/storage"
	"github.com/regattadev/boatrace/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Registry    *session.Registry
	Storage     storage.Storage
	Gateway     *ws.Gateway
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.AuthService)
	raceHandler := handler.NewRaceHandler(cfg.Registry, cfg.Storage)

	// Create middleware
	authMiddleware := apimiddleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Account routes (no auth required for creating accounts/logging in)
	api.HandleFunc("/accounts/guest", accountHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/accounts/register", accountHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/accounts/login", accountHandler.Login).Methods(http.MethodPost)

	// Protected account routes
	accountProtected := api.PathPrefix("/accounts").Subrouter()
	accountProtected.Use(authMiddleware)
	accountProtected.HandleFunc("/me", accountHandler.GetMe).Methods(http.MethodGet)
	accountProtected.HandleFunc("/logout", accountHandler.Logout).Methods(http.MethodPost)

	// Race routes (all require auth)
	races := api.PathPrefix("/races").Subrouter()
	races.Use(authMiddleware)
	races.HandleFunc("", raceHandler.Create).Methods(http.MethodPost)
	races.HandleFunc("", raceHandler.List).Methods(http.MethodGet)
	races.HandleFunc("/{id}", raceHandler.Get).Methods(http.MethodGet)
	races.HandleFunc("/{id}/join", raceHandler.Join).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Websocket endpoint; joining a race happens implicitly on connect.
	// Auth runs inside the gateway because the token may arrive as a
	// query parameter.
	if cfg.Gateway != nil {
		ws := r.PathPrefix("/ws").Subrouter()
		ws.Use(recoveryMiddleware)
		ws.HandleFunc("/races/{id}", cfg.Gateway.ServeWS).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
