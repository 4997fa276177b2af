package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/kafanski-duel/internal/catalog"
	"github.com/mcoot/kafanski-duel/internal/dependencies/clock"
	"github.com/mcoot/kafanski-duel/internal/dependencies/random"
	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/services/auth"
	"github.com/mcoot/kafanski-duel/internal/services/challenge"
	"github.com/mcoot/kafanski-duel/internal/services/directory"
	"github.com/mcoot/kafanski-duel/internal/services/duel"
	"github.com/mcoot/kafanski-duel/internal/services/gateway"
	"github.com/mcoot/kafanski-duel/internal/services/history"
	"github.com/mcoot/kafanski-duel/internal/storage"
	"github.com/mcoot/kafanski-duel/internal/storage/memory"
	redisstorage "github.com/mcoot/kafanski-duel/internal/storage/redis"
	sqlstorage "github.com/mcoot/kafanski-duel/internal/storage/sql"
	"github.com/mcoot/kafanski-duel/internal/telemetry"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQL    = "sql"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Catalog          *catalog.Catalog
	Engine           *duel.Engine
	Directory        *directory.Service
	Recorder         *history.Recorder
	DuelController   *duel.Controller
	ChallengeManager *challenge.Manager
	Gateway          *gateway.Service
	AuthService      *auth.Service

	// Sweeper is nil unless a sweep interval was configured
	Sweeper *challenge.Sweeper
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sql")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLConfig holds database settings (optional, defaults to a local sqlite file)
	SQLConfig *sqlstorage.Config
	// AuthConfig holds the identity token settings
	AuthConfig auth.Config
	// Rules overrides the game constants (optional)
	Rules *model.Rules
	// TracerProvider is used for spans (optional, defaults to the global provider)
	TracerProvider trace.TracerProvider
	// SweepInterval enables the challenge expiry sweeper when positive
	SweepInterval time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	rules := model.DefaultRules()
	if cfg.Rules != nil {
		rules = *cfg.Rules
	}

	app := newWithDependencies(
		store,
		clock.New(),
		random.New(),
		cfg.AuthConfig,
		rules,
		telemetry.Tracer(cfg.TracerProvider),
		logger,
	)

	if cfg.SweepInterval > 0 {
		sweeper, err := challenge.NewSweeper(app.ChallengeManager, cfg.SweepInterval, logger)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("create sweeper: %w", err)
		}
		app.Sweeper = sweeper
	}

	return app, nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeSQL:
		sqlCfg := sqlstorage.DefaultConfig()
		if cfg.SQLConfig != nil {
			sqlCfg = *cfg.SQLConfig
		}
		return sqlstorage.New(sqlCfg)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sql'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	rules model.Rules,
	tracer trace.Tracer,
	logger *slog.Logger,
) *App {
	cat := catalog.Default()
	engine := duel.NewEngine(cat, rules, rnd)
	dir := directory.New(store, clk, logger)
	recorder := history.NewRecorder(store, clk)
	duelController := duel.NewController(store, engine, recorder, dir, clk, tracer, logger)
	challengeManager := challenge.NewManager(store, engine, dir, recorder, clk, rnd, tracer, logger)
	gw := gateway.New(duelController, challengeManager, engine, dir, logger)
	authService := auth.New(auth.NewTokens(authCfg, clk), dir, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		Catalog:          cat,
		Engine:           engine,
		Directory:        dir,
		Recorder:         recorder,
		DuelController:   duelController,
		ChallengeManager: challengeManager,
		Gateway:          gw,
		AuthService:      authService,
	}
}

// Close stops the sweeper and releases the storage connection, if any
func (a *App) Close() error {
	var errs []error
	if a.Sweeper != nil {
		errs = append(errs, a.Sweeper.Shutdown())
	}
	if closer, ok := a.Storage.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}
