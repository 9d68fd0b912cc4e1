package repository

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/domain"
)

// EmployeeCache is a best-effort store of individual employee records.
// Get reports a miss with ok == false and a nil error.
type EmployeeCache interface {
	Get(ctx context.Context, id int64) (emp *domain.Employee, ok bool, err error)
	Set(ctx context.Context, emp *domain.Employee, ttl time.Duration) error
	Delete(ctx context.Context, id int64) error
}

type cachedEmployeeRepository struct {
	inner  EmployeeRepository
	cache  EmployeeCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedEmployeeRepository wraps inner with a read-through cache for GetByID.
// Cache failures are logged and never fail the call.
func NewCachedEmployeeRepository(inner EmployeeRepository, cache EmployeeCache, ttl time.Duration, logger *zap.Logger) EmployeeRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedEmployeeRepository{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func (r *cachedEmployeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	return r.inner.Create(ctx, emp)
}

func (r *cachedEmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	return r.inner.List(ctx)
}

func (r *cachedEmployeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	if emp, ok, err := r.cache.Get(ctx, id); err != nil {
		r.logger.Warn("employee cache read failed", zap.Int64("employee_id", id), zap.Error(err))
	} else if ok {
		return emp, nil
	}

	emp, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, emp, r.ttl); err != nil {
		r.logger.Warn("employee cache write failed", zap.Int64("employee_id", id), zap.Error(err))
	}
	return emp, nil
}

func (r *cachedEmployeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	err := r.inner.Update(ctx, emp)
	r.invalidate(ctx, emp.ID)
	return err
}

func (r *cachedEmployeeRepository) Delete(ctx context.Context, id int64) error {
	err := r.inner.Delete(ctx, id)
	r.invalidate(ctx, id)
	return err
}

func (r *cachedEmployeeRepository) invalidate(ctx context.Context, id int64) {
	if err := r.cache.Delete(ctx, id); err != nil {
		r.logger.Warn("employee cache invalidation failed", zap.Int64("employee_id", id), zap.Error(err))
	}
}
