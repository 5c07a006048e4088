package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/regattadev/boatrace/internal/dependencies/clock"
	"github.com/regattadev/boatrace/internal/dependencies/random"
	"github.com/regattadev/boatrace/internal/services/auth"
	"github.com/regattadev/boatrace/internal/session"
	"github.com/regattadev/boatrace/internal/storage"
	"github.com/regattadev/boatrace/internal/storage/memory"
	redisstorage "github.com/regattadev/boatrace/internal/storage/redis"
	"github.com/regattadev/boatrace/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService *auth.Service
	HubManager  *ws.HubManager
	Registry    *session.Registry
	Gateway     *ws.Gateway
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// RegistryConfig holds race session settings (optional)
	// If zero value, defaults to session.DefaultRegistryConfig()
	RegistryConfig session.RegistryConfig
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	registryCfg := cfg.RegistryConfig
	if registryCfg.TickInterval == 0 {
		registryCfg = session.DefaultRegistryConfig()
	}

	return newWithDependencies(store, clk, rnd, authCfg, registryCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	registryCfg session.RegistryConfig,
	logger *slog.Logger,
) *App {
	authService := auth.New(store, clk, authCfg)
	hubManager := ws.NewHubManager(logger)
	registry := session.NewRegistry(registryCfg, clk, rnd, store, hubManager, logger)
	gateway := ws.NewGateway(registry, hubManager, authService, clk, logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		AuthService: authService,
		HubManager:  hubManager,
		Registry:    registry,
		Gateway:     gateway,
	}
}
