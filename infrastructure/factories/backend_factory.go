package factories

import (
	"context"
	"errors"
	"fmt"

	"todoblog/authn"
	"todoblog/database"
	"todoblog/domain/contracts"
	"todoblog/infrastructure/appsync"
	"todoblog/infrastructure/cache"
	"todoblog/infrastructure/config"
	"todoblog/infrastructure/memstore"
	"todoblog/infrastructure/repositories"
	"todoblog/logging"
)

// Backend holds the data service, page store and authenticator the configuration
// selects, along with their health checks.
type Backend struct {
	Data  contracts.DataService
	Pages contracts.PageRepository
	Auth  authn.Authenticator

	checks  map[string]func(ctx context.Context) error
	closers []func() error
}

// NewBackend builds every backend component for cfg. Close releases whatever
// was opened, including on a partial failure.
func NewBackend(ctx context.Context, cfg *config.AppConfig, logger *logging.Logger) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	b := &Backend{checks: make(map[string]func(ctx context.Context) error)}

	auth, err := authn.NewAuthenticator(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("create authenticator: %w", err)
	}
	b.Auth = auth

	if err := b.buildDataService(cfg); err != nil {
		return nil, err
	}
	if err := b.buildPageStore(ctx, cfg, logger); err != nil {
		b.Close()
		return nil, err
	}

	logger.Info("Backend ready",
		"backend", cfg.Backend,
		"page_store", cfg.PageStore,
		"auth_strategy", auth.Strategy())
	return b, nil
}

func (b *Backend) buildDataService(cfg *config.AppConfig) error {
	switch cfg.Backend {
	case config.BackendMemory:
		b.Data = memstore.New(func(token string) error {
			_, err := b.Auth.ParseSession(token)
			return err
		})
	default:
		client, err := appsync.NewClient(cfg.AppSync, nil)
		if err != nil {
			return fmt.Errorf("create data service client: %w", err)
		}
		b.Data = client
	}
	return nil
}

func (b *Backend) buildPageStore(ctx context.Context, cfg *config.AppConfig, logger *logging.Logger) error {
	switch cfg.PageStore {
	case config.PageStoreMemory:
		b.Pages = repositories.NewMemoryPageRepository()

	case config.PageStoreRedis:
		rc := cache.NewRedisClient(cfg.Redis)
		b.closers = append(b.closers, rc.Close)
		if err := rc.Connect(ctx); err != nil {
			return err
		}
		b.Pages = repositories.NewRedisPageRepository(rc.Client, cfg.Redis.PageTTL)
		b.checks["redis"] = rc.HealthCheck

	default:
		db, err := database.New(*cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("open page database: %w", err)
		}
		b.closers = append(b.closers, db.Close)
		b.Pages = repositories.NewSqlitePageRepository(db)
		b.checks["database"] = func(ctx context.Context) error {
			_, err := db.Health(ctx)
			return err
		}
	}
	return nil
}

// Health runs every check and returns the per-component status.
func (b *Backend) Health(ctx context.Context) (map[string]string, error) {
	status := make(map[string]string, len(b.checks))
	var errs []error
	for name, check := range b.checks {
		if err := check(ctx); err != nil {
			status[name] = err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		status[name] = "ok"
	}
	return status, errors.Join(errs...)
}

// Close releases opened connections in reverse order.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	b.closers = nil
	return errors.Join(errs...)
}
