package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeCreated EventType = "employee_created"
	EventEmployeeUpdated EventType = "employee_updated"
	EventEmployeeDeleted EventType = "employee_deleted"
)

// Actor identifies who triggered an event. Subject is empty for anonymous callers.
type Actor struct {
	Subject   string `json:"subject,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	EmployeeID int64     `json:"employee_id"`
	Actor      Actor     `json:"actor"`
	Timestamp  time.Time `json:"timestamp"`
	Payload    any       `json:"payload,omitempty"`
}

// NewEvent stamps a fresh id and timestamp.
func NewEvent(eventType EventType, employeeID int64, actor Actor, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EmployeeID: employeeID,
		Actor:      actor,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// EmployeeSnapshotPayload carries the record state after create or update.
type EmployeeSnapshotPayload struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Position    string `json:"position"`
}

// EmployeeUpdatedPayload lists the fields whose values changed.
type EmployeeUpdatedPayload struct {
	Changed []string                `json:"changed"`
	After   EmployeeSnapshotPayload `json:"after"`
}
