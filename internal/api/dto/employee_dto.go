package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/employee-service/internal/domain"
)

// acceptedDateLayouts are tried in order when parsing date_of_birth.
var acceptedDateLayouts = []string{
	domain.DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// EmployeeRequest payload for create and update. It has no id: the store
// assigns it on create and the path names it on update.
type EmployeeRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth"`
	Position    string `json:"position"`
}

// EmployeeResponse represents an employee on the wire.
type EmployeeResponse struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	Position    string    `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ParseDate reads a calendar date, dropping any time-of-day component.
// The empty string yields the zero time.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, true
	}
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a calendar date, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.DateLayout)
}

// NewEmployeeResponse maps the domain record.
func NewEmployeeResponse(emp *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:          emp.ID,
		FirstName:   emp.FirstName,
		LastName:    emp.LastName,
		Email:       emp.Email,
		DateOfBirth: FormatDate(emp.DateOfBirth),
		Position:    emp.Position,
		CreatedAt:   emp.CreatedAt,
		UpdatedAt:   emp.UpdatedAt,
	}
}
