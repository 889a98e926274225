// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alchemorsel/personalization/internal/application/alignment"
	apprec "github.com/alchemorsel/personalization/internal/application/recommendation"
	"github.com/alchemorsel/personalization/internal/application/rerank"
	"github.com/alchemorsel/personalization/internal/infrastructure/ai/openai"
	"github.com/alchemorsel/personalization/internal/infrastructure/config"
	"github.com/alchemorsel/personalization/internal/infrastructure/hotreload"
	"github.com/alchemorsel/personalization/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/personalization/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/personalization/internal/infrastructure/http/server"
	"github.com/alchemorsel/personalization/internal/infrastructure/monitoring"
	"github.com/alchemorsel/personalization/internal/infrastructure/pantry"
	gormRepo "github.com/alchemorsel/personalization/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/personalization/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/personalization/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/personalization/internal/infrastructure/persistence/postgres"
	redisRepo "github.com/alchemorsel/personalization/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/personalization/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/personalization/internal/ports/inbound"
	"github.com/alchemorsel/personalization/internal/ports/outbound"
	"github.com/alchemorsel/personalization/pkg/healthcheck"
	"github.com/alchemorsel/personalization/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sqliteSlowQueryThreshold = 200 * time.Millisecond

// ConfigFile is the path passed on the command line, empty for the default search
type ConfigFile string

// Database bundles the GORM handle with its pool
type Database struct {
	Gorm *gorm.DB
	SQL  *sql.DB
}

// Cache is the selected cache backend. Redis is nil for the in-memory cache.
type Cache struct {
	Repository outbound.CacheRepository
	Redis      *goredis.Client
}

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	MonitoringModule,

	// Repository modules
	RepositoryModule,

	// Service modules
	ServiceModule,

	// HTTP modules
	HTTPModule,

	// Lifecycle hooks
	LifecycleModule,
)

// WithConfigFile selects the config file to load
func WithConfigFile(path string) fx.Option {
	return fx.Supply(ConfigFile(path))
}

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigFile) (*config.Config, error) {
		return config.Load(string(path))
	},
	func(cfg *config.Config) *config.FeatureSwitch {
		return config.NewFeatureSwitch(cfg.Features)
	},
	func(flags *config.FeatureSwitch) outbound.FeatureFlags {
		return flags
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
			Service:     cfg.App.Name,
		})
	},
)

// DatabaseModule provides database connections
var DatabaseModule = fx.Provide(NewDatabase)

// NewDatabase opens the configured database, prepares the schema and
// optionally seeds demo data
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*Database, error) {
	var db *Database

	switch cfg.Database.Driver {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		conn, err := postgres.Connect(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		db = &Database{Gorm: conn.DB, SQL: conn.SQLDB}

		if cfg.Database.AutoMigrate {
			if err := runMigrations(conn.SQLDB, cfg.Database.Database, log); err != nil {
				_ = conn.Close()
				return nil, err
			}
		}
	default:
		dbPath := cfg.Database.Database
		gdb, err := sqlite.SetupDatabase(dbPath, gormRepo.NewLogger(log, cfg.Database.LogLevel, sqliteSlowQueryThreshold))
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		db = &Database{Gorm: gdb, SQL: sqlDB}

		log.Info("Connected to SQLite database",
			zap.String("path", dbPath),
			zap.Bool("in_memory", dbPath == ":memory:"),
		)
	}

	if cfg.Database.SeedDemoData {
		if err := gormRepo.SeedDemoData(db.Gorm, cfg.Recommendation.SystemPantrySlug); err != nil {
			log.Warn("Failed to seed database", zap.Error(err))
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.SQL.Close()
		},
	})

	return db, nil
}

func runMigrations(sqlDB *sql.DB, name string, log *zap.Logger) error {
	m, err := migrations.New(sqlDB, name, log)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Up()
}

// CacheModule provides caching
var CacheModule = fx.Provide(
	NewCache,
	func(c *Cache) outbound.CacheRepository {
		return c.Repository
	},
)

// NewCache builds the configured cache backend
func NewCache(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*Cache, error) {
	if cfg.Cache.Provider == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout+time.Second)
		defer cancel()

		client, err := redisRepo.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})

		return &Cache{
			Repository: redisRepo.NewCacheRepository(client, cfg.Cache.KeyPrefix, log),
			Redis:      client,
		}, nil
	}

	log.Info("Using in-memory cache")
	repo := memory.NewCacheRepository()
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			repo.Close()
			return nil
		},
	})
	return &Cache{Repository: repo}, nil
}

// MonitoringModule provides metrics and health checks
var MonitoringModule = fx.Provide(
	monitoring.NewCollector,
	func(c *monitoring.Collector) outbound.PersonalizationMetrics {
		return c
	},
	NewHealthCheck,
)

// NewHealthCheck registers a checker per external dependency
func NewHealthCheck(
	cfg *config.Config,
	db *Database,
	cache *Cache,
	client outbound.CompletionClient,
	flags *config.FeatureSwitch,
	log *zap.Logger,
) *healthcheck.HealthCheck {
	hc := healthcheck.New(cfg.App.Version, log)
	hc.Register("database", healthcheck.NewDatabaseChecker(db.SQL))
	if cache.Redis != nil {
		hc.Register("redis", healthcheck.NewRedisChecker(cache.Redis))
	}
	hc.Register("ai", healthcheck.NewCustomChecker("ai", func(ctx context.Context) (healthcheck.Status, string, interface{}) {
		meta := map[string]interface{}{
			"provider":          cfg.AI.Provider,
			"reranking_enabled": flags.LLMRerankingEnabled(),
		}
		if !flags.LLMRerankingEnabled() || client.Configured() {
			return healthcheck.StatusHealthy, "", meta
		}
		if flags.AIRankingRequired() {
			return healthcheck.StatusUnhealthy, "AI ranking is required but no model is configured", meta
		}
		return healthcheck.StatusDegraded, "Serving deterministic ranking only", meta
	}))
	return hc
}

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	func(db *Database, log *zap.Logger) outbound.ProfileRepository {
		return gormRepo.NewProfileRepository(db.Gorm, log)
	},
	func(db *Database) outbound.CatalogRepository {
		return gormRepo.NewCatalogRepository(db.Gorm)
	},
	func(db *Database) outbound.RecommendationRepository {
		return gormRepo.NewRecommendationRepository(db.Gorm)
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.CompletionClient {
		return openai.NewClient(cfg.AI, log)
	},

	func(
		catalogRepo outbound.CatalogRepository,
		cache outbound.CacheRepository,
		cfg *config.Config,
		log *zap.Logger,
	) outbound.PantryProvider {
		r := cfg.Recommendation
		return pantry.NewResolver(catalogRepo, cache, r.SystemPantrySlug, r.PantryCacheTTL, log)
	},

	func(
		client outbound.CompletionClient,
		flags outbound.FeatureFlags,
		cfg *config.Config,
		log *zap.Logger,
	) (apprec.Reranker, error) {
		return rerank.NewAdapter(client, flags, rerank.Options{
			MaxTokens:          cfg.AI.MaxTokens,
			Temperature:        cfg.AI.Temperature,
			Timeout:            cfg.AI.Timeout(),
			RationaleMaxLength: cfg.Recommendation.RationaleMaxLength,
			SwapMaxLength:      cfg.Recommendation.SwapMaxLength,
		}, log)
	},

	func(
		profiles outbound.ProfileRepository,
		catalogRepo outbound.CatalogRepository,
		recs outbound.RecommendationRepository,
		pantryProvider outbound.PantryProvider,
		reranker apprec.Reranker,
		metrics outbound.PersonalizationMetrics,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.RecommendationService {
		return apprec.NewService(profiles, catalogRepo, recs, pantryProvider, reranker, metrics, apprec.Options{
			DefaultLimit:       cfg.Recommendation.DefaultLimit,
			RationaleMaxLength: cfg.Recommendation.RationaleMaxLength,
			SwapMaxLength:      cfg.Recommendation.SwapMaxLength,
		}, log)
	},

	func(
		profiles outbound.ProfileRepository,
		catalogRepo outbound.CatalogRepository,
		recs outbound.RecommendationRepository,
		metrics outbound.PersonalizationMetrics,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.AlignmentService {
		return alignment.NewEvaluator(profiles, catalogRepo, recs, metrics, cfg.Recommendation.SampleCap, log)
	},
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	handlers.NewPersonalizationHandlers,
	func(cfg *config.Config, log *zap.Logger) *middleware.RateLimiter {
		if !cfg.RateLimit.Enable {
			return nil
		}
		return middleware.NewRateLimiter(cfg.RateLimit, log)
	},
	server.NewServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterTracing,
	RegisterFlagWatcher,
	RegisterLifecycleHooks,
)

// RegisterTracing installs the tracer provider for the lifetime of the app
func RegisterTracing(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) {
	var shutdown monitoring.ShutdownFunc

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			shutdown, err = monitoring.SetupTracing(ctx, cfg.App, cfg.Monitoring, log)
			return err
		},
		OnStop: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	})
}

// RegisterFlagWatcher hot-reloads feature flags when the config file changes
func RegisterFlagWatcher(lc fx.Lifecycle, cfg *config.Config, flags *config.FeatureSwitch, log *zap.Logger) error {
	if !cfg.Features.WatchConfig {
		return nil
	}
	if cfg.File() == "" {
		log.Warn("features.watch_config is set but no config file was loaded")
		return nil
	}

	watcher, err := hotreload.NewFlagWatcher(cfg.File(), flags, log)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			watcher.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return watcher.Stop()
		},
	})
	return nil
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting personalization service",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("database", cfg.Database.Driver),
				zap.String("cache", cfg.Cache.Provider),
			)

			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server stopped", zap.Error(err))
					_ = shutdowner.Shutdown()
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down personalization service")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}
