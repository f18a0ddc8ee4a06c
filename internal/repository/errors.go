// Package repository holds the MySQL data access layer and the error types
// shared by every store implementation.  Higher layers match on these
// values with errors.Is / errors.As to pick an HTTP status or a CLI exit
// message without looking at driver errors.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every NotFoundError.  Handlers translate it
// into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write cannot proceed because of
// conflicting state: the table was taken by a concurrent booking, the
// slot lock could not be obtained in time, a booking's status changed
// underneath the caller, or a unique key was violated.  Handlers
// translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// NotFoundError names the missing entity and the identifier that was
// looked up.
type NotFoundError struct {
	Entity string
	ID     uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) hold for any NotFoundError.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound builds a NotFoundError.  It is exported so that the in-memory
// store reports missing rows the same way the MySQL repositories do.
func NotFound(entity string, id uint64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// Entity names used in NotFoundError.
const (
	EntityRestaurant = "restaurant"
	EntityTable      = "table"
	EntityCustomer   = "customer"
	EntityBooking    = "booking"
)
