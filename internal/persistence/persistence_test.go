package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/domain"
)

func TestNewBadgerOnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "employees")

	store, err := NewBadger(config.BadgerConfig{Path: dir}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Ping(context.Background()))

	require.NoError(t, store.DB.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("k"), []byte("v"))
	}))
	require.NoError(t, store.Close())
	assert.Error(t, store.Ping(context.Background()))

	reopened, err := NewBadger(config.BadgerConfig{Path: dir}, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.DB.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte("k"))
		return err
	}))
}

func TestNilHandlesReportUnconfigured(t *testing.T) {
	ctx := context.Background()
	var pg *Postgres
	var rd *Redis
	var bd *Badger
	assert.Error(t, pg.Ping(ctx))
	assert.Error(t, rd.Ping(ctx))
	assert.Error(t, bd.Ping(ctx))
	assert.Nil(t, pg.PoolHandle())
	assert.NoError(t, bd.Close())
}

func TestNewPostgresRequiresDSN(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNoDSN)
	assert.Nil(t, pg)

	_, err = NewPostgres(context.Background(), config.PostgresConfig{DSN: "postgres://%zz"}, zap.NewNop())
	assert.ErrorContains(t, err, "parse postgres dsn")

	assert.Error(t, RunMigrations(context.Background(), nil, "../../migrations", zap.NewNop()))
}

func TestApplyPoolLimits(t *testing.T) {
	poolCfg, err := pgxpool.ParseConfig("postgres://app@localhost:5432/employees")
	require.NoError(t, err)

	applyPoolLimits(poolCfg, config.PostgresConfig{MaxConns: 7, MinConns: 1, ConnMaxIdleSec: 5})
	assert.Equal(t, int32(7), poolCfg.MaxConns)
	assert.Equal(t, int32(1), poolCfg.MinConns)
	assert.Equal(t, 5*time.Second, poolCfg.MaxConnIdleTime)
	assert.Equal(t, time.Hour, poolCfg.MaxConnLifetime)
}

func TestRedisEmployeeCache(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rd := NewRedis(config.RedisConfig{Addr: addr}, zap.NewNop())
	defer rd.Close()
	cache := rd.EmployeeCache()
	ctx := context.Background()

	emp := &domain.Employee{ID: 987654, FirstName: "John", Email: "john.doe@example.com"}
	require.NoError(t, cache.Delete(ctx, emp.ID))

	_, ok, err := cache.Get(ctx, emp.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, emp, time.Minute))
	got, ok, err := cache.Get(ctx, emp.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "John", got.FirstName)

	require.NoError(t, cache.Delete(ctx, emp.ID))
	_, ok, err = cache.Get(ctx, emp.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
