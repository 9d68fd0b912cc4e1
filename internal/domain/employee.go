package domain

import "time"

// DateLayout is the wire format for calendar dates such as DateOfBirth.
const DateLayout = "2006-01-02"

// Employee is the single record type owned by the employee store. The JSON
// form is the storage encoding used by the badger store and the cache; the
// HTTP representation lives in api/dto.
type Employee struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Position    string    `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ApplyUpdate overwrites the mutable fields with those of src.
// ID and CreatedAt are left untouched.
func (e *Employee) ApplyUpdate(src Employee) {
	e.FirstName = src.FirstName
	e.LastName = src.LastName
	e.Email = src.Email
	e.DateOfBirth = src.DateOfBirth
	e.Position = src.Position
}
