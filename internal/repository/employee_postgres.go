package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/employee-service/internal/domain"
)

type postgresEmployeeRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEmployeeRepository builds the pgx-backed repository.
func NewPostgresEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &postgresEmployeeRepository{pool: pool}
}

func (r *postgresEmployeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	const query = `
        INSERT INTO employees (first_name, last_name, email, date_of_birth, position)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		emp.FirstName,
		emp.LastName,
		emp.Email,
		nullableDate(emp.DateOfBirth),
		emp.Position,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

func (r *postgresEmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	const query = `
        SELECT id, first_name, last_name, email, date_of_birth, position, created_at, updated_at
        FROM employees ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		result = append(result, *emp)
	}
	return result, rows.Err()
}

func (r *postgresEmployeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	const query = `
        SELECT id, first_name, last_name, email, date_of_birth, position, created_at, updated_at
        FROM employees WHERE id=$1`
	emp, err := scanEmployee(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get employee %d: %w", id, err)
	}
	return emp, nil
}

func (r *postgresEmployeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	const query = `
        UPDATE employees SET first_name=$1, last_name=$2, email=$3, date_of_birth=$4, position=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		emp.FirstName,
		emp.LastName,
		emp.Email,
		nullableDate(emp.DateOfBirth),
		emp.Position,
		emp.ID,
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update employee %d: %w", emp.ID, err)
	}
	return nil
}

func (r *postgresEmployeeRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var (
		emp domain.Employee
		dob *time.Time
	)
	if err := row.Scan(
		&emp.ID,
		&emp.FirstName,
		&emp.LastName,
		&emp.Email,
		&dob,
		&emp.Position,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if dob != nil {
		emp.DateOfBirth = *dob
	}
	return &emp, nil
}

func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
