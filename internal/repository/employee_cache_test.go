package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/repository"
)

type fakeCache struct {
	mu      sync.Mutex
	items   map[int64]domain.Employee
	hits    int
	failing bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[int64]domain.Employee{}}
}

func (c *fakeCache) Get(_ context.Context, id int64) (*domain.Employee, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return nil, false, errors.New("cache down")
	}
	emp, ok := c.items[id]
	if !ok {
		return nil, false, nil
	}
	c.hits++
	return &emp, true, nil
}

func (c *fakeCache) Set(_ context.Context, emp *domain.Employee, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("cache down")
	}
	c.items[emp.ID] = *emp
	return nil
}

func (c *fakeCache) Delete(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("cache down")
	}
	delete(c.items, id)
	return nil
}

func TestCachedRepositoryReadThrough(t *testing.T) {
	cache := newFakeCache()
	repo := repository.NewCachedEmployeeRepository(repository.NewMemoryEmployeeRepository(), cache, time.Minute, nil)
	ctx := context.Background()

	emp := johnDoe()
	require.NoError(t, repo.Create(ctx, &emp))

	_, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.hits)

	got, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, "John", got.FirstName)
}

func TestCachedRepositoryInvalidatesOnWrite(t *testing.T) {
	cache := newFakeCache()
	repo := repository.NewCachedEmployeeRepository(repository.NewMemoryEmployeeRepository(), cache, time.Minute, nil)
	ctx := context.Background()

	emp := johnDoe()
	require.NoError(t, repo.Create(ctx, &emp))
	_, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)

	emp.FirstName = "Jane"
	require.NoError(t, repo.Update(ctx, &emp))
	got, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.FirstName)

	require.NoError(t, repo.Delete(ctx, emp.ID))
	_, err = repo.GetByID(ctx, emp.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCachedRepositorySurvivesCacheFailure(t *testing.T) {
	cache := newFakeCache()
	cache.failing = true
	core, logs := observer.New(zap.WarnLevel)
	repo := repository.NewCachedEmployeeRepository(repository.NewMemoryEmployeeRepository(), cache, time.Minute, zap.New(core))
	ctx := context.Background()

	emp := johnDoe()
	require.NoError(t, repo.Create(ctx, &emp))
	got, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, emp.ID, got.ID)
	assert.NotZero(t, logs.FilterMessage("employee cache read failed").Len())
	assert.NotZero(t, logs.FilterMessage("employee cache write failed").Len())
}
