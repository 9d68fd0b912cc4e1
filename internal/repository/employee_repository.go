package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/employee-service/internal/domain"
)

// ErrNotFound signals that no employee matches the requested identifier.
var ErrNotFound = errors.New("employee not found")

// EmployeeRepository manages employee persistence.
//
// Create assigns ID, CreatedAt and UpdatedAt on the passed record. List returns
// records in insertion order and never returns a nil slice. Update and Delete
// return ErrNotFound when the identifier is unknown; Update never changes ID or
// CreatedAt.
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	List(ctx context.Context) ([]domain.Employee, error)
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	Update(ctx context.Context, emp *domain.Employee) error
	Delete(ctx context.Context, id int64) error
}
