// Package bootstrap opens the employee store selected by configuration.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/api/http/handlers"
	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/persistence"
	"github.com/spec-kit/employee-service/internal/repository"
)

// EmployeeStore is the configured repository and the connections behind it.
type EmployeeStore struct {
	Repo    repository.EmployeeRepository
	Pingers map[string]handlers.Pinger

	logger  *zap.Logger
	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

// OpenEmployeeStore builds the repository for cfg.Store.Driver, wrapping it in
// the Redis cache when enabled. On error every handle opened so far is closed.
func OpenEmployeeStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*EmployeeStore, error) {
	s := &EmployeeStore{Pingers: map[string]handlers.Pinger{}, logger: logger}
	if err := s.open(ctx, cfg); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *EmployeeStore) open(ctx context.Context, cfg *config.Config) error {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory, "":
		s.Repo = repository.NewMemoryEmployeeRepository()
	case config.StoreDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, s.logger)
		if err != nil {
			return err
		}
		s.addCloser("postgres", func() error { pg.Close(); return nil })
		s.Pingers["postgres"] = pg

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, s.logger); err != nil {
				return err
			}
		}
		s.Repo = repository.NewPostgresEmployeeRepository(pg.PoolHandle())
	case config.StoreDriverBadger:
		db, err := persistence.NewBadger(cfg.Badger, s.logger)
		if err != nil {
			return err
		}
		s.addCloser("badger", db.Close)
		s.Pingers["badger"] = db

		repo, err := repository.NewBadgerEmployeeRepository(db.DB)
		if err != nil {
			return err
		}
		s.addCloser("badger sequence", repo.Close)
		s.Repo = repo
	default:
		return fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}

	if cfg.Cache.Enabled {
		rdb := persistence.NewRedis(cfg.Redis, s.logger)
		s.addCloser("redis", func() error { rdb.Close(); return nil })
		s.Pingers["redis"] = rdb
		s.Repo = repository.NewCachedEmployeeRepository(s.Repo, rdb.EmployeeCache(), cfg.Cache.TTL(), s.logger)
	}

	s.logger.Info("employee store ready",
		zap.String("driver", cfg.Store.Driver),
		zap.Bool("cache", cfg.Cache.Enabled))
	return nil
}

func (s *EmployeeStore) addCloser(name string, fn func() error) {
	s.closers = append(s.closers, namedCloser{name: name, close: fn})
}

// Close releases handles in reverse opening order.
func (s *EmployeeStore) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		c := s.closers[i]
		if err := c.close(); err != nil {
			s.logger.Warn("failed to close store handle", zap.String("handle", c.name), zap.Error(err))
		}
	}
	s.closers = nil
}
