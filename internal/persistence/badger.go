package persistence

import (
	"context"
	"errors"

	badger "github.com/dgraph-io/badger/v2"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/config"
)

// Badger wraps an embedded badger database.
type Badger struct {
	DB *badger.DB
}

// NewBadger opens the database at cfg.Path, or an in-memory one when the path is empty.
func NewBadger(cfg config.BadgerConfig, logger *zap.Logger) (*Badger, error) {
	var opts badger.Options
	if cfg.Path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
		logger.Warn("BADGER_PATH not provided; employee data will not survive restarts")
	} else {
		opts = badger.DefaultOptions(cfg.Path).WithSyncWrites(true).WithTruncate(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, pkgerrors.WithMessage(err, "could not open badger database")
	}
	logger.Info("opened badger store", zap.String("path", cfg.Path))
	return &Badger{DB: db}, nil
}

// Close flushes and closes the database.
func (b *Badger) Close() error {
	if b == nil || b.DB == nil {
		return nil
	}
	return b.DB.Close()
}

// Ping reports whether the database is open.
func (b *Badger) Ping(_ context.Context) error {
	if b == nil || b.DB == nil {
		return errors.New("badger store not configured")
	}
	if b.DB.IsClosed() {
		return errors.New("badger store closed")
	}
	return nil
}
