package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/repository"
	apperrors "github.com/spec-kit/employee-service/pkg/util/errorutil"
)

// EmployeeService exposes the employee CRUD operations.
type EmployeeService struct {
	employees  repository.EmployeeRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// EmployeeDependencies encapsulates collaborators required by EmployeeService.
// Dispatcher and Logger are optional.
type EmployeeDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// EmployeeInput carries the caller-controlled employee fields.
type EmployeeInput struct {
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth time.Time
	Position    string
}

// NewEmployeeService constructs the service.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		employees:  deps.EmployeeRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

type actorKey struct{}

// WithActor attaches the caller identity recorded on emitted events.
func WithActor(ctx context.Context, actor events.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func actorFromContext(ctx context.Context) events.Actor {
	actor, _ := ctx.Value(actorKey{}).(events.Actor)
	return actor
}

// ParseEmployeeID validates a textual identifier.
func ParseEmployeeID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid employee id", map[string]any{"id": raw})
	}
	return id, nil
}

// CreateEmployee stores a new employee and returns it with its assigned id.
// No field validation is performed.
func (s *EmployeeService) CreateEmployee(ctx context.Context, input EmployeeInput) (*domain.Employee, error) {
	emp := &domain.Employee{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		DateOfBirth: input.DateOfBirth,
		Position:    input.Position,
	}
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, apperrors.ToDomainError(err)
	}

	s.publish(ctx, events.EventEmployeeCreated, emp.ID, snapshotPayload(emp))
	return emp, nil
}

// ListEmployees returns every stored employee in insertion order.
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	list, err := s.employees.List(ctx)
	if err != nil {
		return nil, apperrors.ToDomainError(err)
	}
	if list == nil {
		list = []domain.Employee{}
	}
	return list, nil
}

// GetEmployee fetches one employee.
func (s *EmployeeService) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	return emp, nil
}

// UpdateEmployee overwrites the mutable fields of an existing employee.
// The stored id is kept regardless of the input.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id int64, input EmployeeInput) error {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, id)
	}

	next := domain.Employee{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		DateOfBirth: input.DateOfBirth,
		Position:    input.Position,
	}
	changed := changedFields(*emp, next)
	emp.ApplyUpdate(next)

	if err := s.employees.Update(ctx, emp); err != nil {
		return mapRepoError(err, id)
	}

	s.publish(ctx, events.EventEmployeeUpdated, id, events.EmployeeUpdatedPayload{
		Changed: changed,
		After:   snapshotPayload(emp),
	})
	return nil
}

// DeleteEmployee removes an existing employee.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id int64) error {
	if _, err := s.employees.GetByID(ctx, id); err != nil {
		return mapRepoError(err, id)
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return mapRepoError(err, id)
	}

	s.publish(ctx, events.EventEmployeeDeleted, id, nil)
	return nil
}

func (s *EmployeeService) publish(ctx context.Context, eventType events.EventType, id int64, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.NewEvent(eventType, id, actorFromContext(ctx), payload)
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(eventType)),
			zap.Int64("employee_id", id),
			zap.Error(err))
	}
}

func mapRepoError(err error, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("employee", map[string]any{"id": id})
	}
	return apperrors.ToDomainError(err)
}

func snapshotPayload(emp *domain.Employee) events.EmployeeSnapshotPayload {
	payload := events.EmployeeSnapshotPayload{
		FirstName: emp.FirstName,
		LastName:  emp.LastName,
		Email:     emp.Email,
		Position:  emp.Position,
	}
	if !emp.DateOfBirth.IsZero() {
		payload.DateOfBirth = emp.DateOfBirth.Format(domain.DateLayout)
	}
	return payload
}

func changedFields(before, after domain.Employee) []string {
	changed := make([]string, 0, 5)
	if before.FirstName != after.FirstName {
		changed = append(changed, "first_name")
	}
	if before.LastName != after.LastName {
		changed = append(changed, "last_name")
	}
	if before.Email != after.Email {
		changed = append(changed, "email")
	}
	if !before.DateOfBirth.Equal(after.DateOfBirth) {
		changed = append(changed, "date_of_birth")
	}
	if before.Position != after.Position {
		changed = append(changed, "position")
	}
	return changed
}
