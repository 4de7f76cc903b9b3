// Package app builds the service graph from configuration and releases it on shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/analoghub/backend/config"
	httpDelivery "github.com/analoghub/backend/internal/delivery/http"
	"github.com/analoghub/backend/internal/delivery/worker"
	"github.com/analoghub/backend/internal/domain"
	"github.com/analoghub/backend/internal/infrastructure/cache"
	"github.com/analoghub/backend/internal/infrastructure/elastic"
	"github.com/analoghub/backend/internal/infrastructure/persistence"
	"github.com/analoghub/backend/internal/infrastructure/queue"
	"github.com/analoghub/backend/internal/infrastructure/storage"
	"github.com/analoghub/backend/internal/infrastructure/token"
	"github.com/analoghub/backend/internal/usecase"
)

// App is the dependency container shared by every command
type App struct {
	Config  *config.Config
	Storage *storage.Storage
	Elastic *elastic.Client

	Search    *usecase.SearchService
	Ingestion *usecase.IngestionService
	Resolver  *usecase.ResolverService

	// Set by OpenStores
	DB    *gorm.DB
	Cache domain.CacheRepository
	Queue *queue.Queue
	Tools *usecase.ToolService
	Auth  *usecase.AuthService

	closers []io.Closer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// New builds the search core: scratch storage, the search engine client
// and the services running on them. Missing indices are created.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	store, err := storage.New(cfg.Storage.Dir)
	if err != nil {
		return nil, err
	}
	a.Storage = store

	es, err := elastic.NewClient(elastic.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		return nil, err
	}
	a.Elastic = es
	a.closers = append(a.closers, es)

	indices := map[string]string{
		cfg.Elastic.AnalogIndex:  elastic.AnalogIndexMapping(),
		cfg.Elastic.ProductIndex: elastic.ProductIndexMapping(),
	}
	for index, mapping := range indices {
		if err := es.EnsureIndex(ctx, index, mapping); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.Search = usecase.NewSearchService(es, usecase.NewQueryBuilder(cfg.Search.PriorityManufacturers), usecase.SearchServiceConfig{
		AnalogIndex:  cfg.Elastic.AnalogIndex,
		ProductIndex: cfg.Elastic.ProductIndex,
	})
	a.Ingestion = usecase.NewIngestionService(es, store, usecase.IngestionServiceConfig{
		AnalogIndex:  cfg.Elastic.AnalogIndex,
		ProductIndex: cfg.Elastic.ProductIndex,
		BatchSize:    cfg.Ingest.BatchSize,
	})
	a.Resolver = usecase.NewResolverService(a.Search, store)

	log.Printf("Search engine: %v (indices %s, %s)", cfg.Elastic.Addresses, cfg.Elastic.AnalogIndex, cfg.Elastic.ProductIndex)
	return a, nil
}

// OpenStores connects the relational database, the cache and the task
// queue, and builds the services of the HTTP API on them. It needs the
// auth secret key; commands that never open stores run without one.
func (a *App) OpenStores(ctx context.Context) error {
	cfg := a.Config
	if err := cfg.Auth.RequireSecret(); err != nil {
		return err
	}

	db, err := persistence.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	a.DB = db
	a.closers = append(a.closers, closerFunc(func() error { return persistence.Close(db) }))
	log.Printf("Database: %s", cfg.Database.Driver)

	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Cache.DB)
		if err != nil {
			return err
		}
		a.Cache = redisCache
		a.closers = append(a.closers, redisCache)
	default:
		memoryCache := cache.NewMemoryCache()
		a.Cache = memoryCache
		a.closers = append(a.closers, memoryCache)
	}
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	a.Queue = queue.New(a.RedisOpt(), cfg.Worker.Retention)
	a.closers = append(a.closers, a.Queue)

	a.Tools = usecase.NewToolService(persistence.NewToolRepository(db))
	a.Auth = usecase.NewAuthService(
		persistence.NewUserRepository(db),
		token.NewJWT(token.Config{
			AccessSecret:  cfg.Auth.SecretKey,
			RefreshSecret: cfg.Auth.RefreshSecretKey,
			AccessTTL:     cfg.Auth.AccessTokenTTL,
			RefreshTTL:    cfg.Auth.RefreshTokenTTL,
		}),
		a.Cache,
		usecase.AuthServiceConfig{RefreshTTL: cfg.Auth.RefreshTokenTTL},
	)
	return nil
}

// RedisOpt is the task queue connection
func (a *App) RedisOpt() asynq.RedisClientOpt {
	return queue.RedisOpt(a.Config.Redis.Addr, a.Config.Redis.Password, a.Config.Redis.DB)
}

// Handler builds the HTTP handler. OpenStores must have been called.
func (a *App) Handler() (*httpDelivery.Handler, error) {
	if a.DB == nil {
		return nil, fmt.Errorf("stores are not open")
	}
	return httpDelivery.NewHandler(httpDelivery.Dependencies{
		Search:   a.Search,
		Resolver: a.Resolver,
		Tools:    a.Tools,
		Auth:     a.Auth,
		Queue:    a.Queue,
		Storage:  a.Storage,
	}), nil
}

// Processor builds the queue task processor
func (a *App) Processor() *worker.Processor {
	return worker.NewProcessor(a.Ingestion, a.Resolver, a.Storage, a.Config.Storage.MaxAge)
}

// Close releases resources in reverse order of construction
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
