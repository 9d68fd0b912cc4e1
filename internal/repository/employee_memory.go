package repository

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/employee-service/internal/domain"
)

type memoryEmployeeRepository struct {
	mu     sync.RWMutex
	nextID int64
	order  []int64
	items  map[int64]domain.Employee
	now    func() time.Time
}

// NewMemoryEmployeeRepository returns an EmployeeRepository that keeps records
// in process memory.
func NewMemoryEmployeeRepository() EmployeeRepository {
	return &memoryEmployeeRepository{
		items: make(map[int64]domain.Employee),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryEmployeeRepository) Create(_ context.Context, emp *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := r.now()
	emp.ID = r.nextID
	emp.CreatedAt = now
	emp.UpdatedAt = now

	r.items[emp.ID] = *emp
	r.order = append(r.order, emp.ID)
	return nil
}

func (r *memoryEmployeeRepository) List(_ context.Context) ([]domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Employee, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.items[id])
	}
	return result, nil
}

func (r *memoryEmployeeRepository) GetByID(_ context.Context, id int64) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &emp, nil
}

func (r *memoryEmployeeRepository) Update(_ context.Context, emp *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[emp.ID]
	if !ok {
		return ErrNotFound
	}
	stored.ApplyUpdate(*emp)
	stored.UpdatedAt = r.now()
	r.items[emp.ID] = stored
	*emp = stored
	return nil
}

func (r *memoryEmployeeRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
