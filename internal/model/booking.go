package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// BookingStatus is the lifecycle state of a booking.  The set is closed:
// ParseBookingStatus rejects anything else.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingNoShow    BookingStatus = "NO_SHOW"
)

// ActiveStatuses are the statuses that occupy a table.
var ActiveStatuses = []BookingStatus{BookingPending, BookingConfirmed}

// ErrInvalidTransition is returned when a status change is not allowed
// from the booking's current status.
var ErrInvalidTransition = errors.New("invalid booking status transition")

// ParseBookingStatus converts a stored or user supplied value into a
// BookingStatus.  Matching is case-insensitive.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch st := BookingStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted, BookingNoShow:
		return st, nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

// IsActive reports whether the status counts toward table occupancy.
func (s BookingStatus) IsActive() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCancelled || s == BookingCompleted || s == BookingNoShow
}

// transitions lists the allowed target statuses per source status.
var transitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCancelled, BookingCompleted, BookingNoShow},
}

// CanTransition reports whether from -> to is an allowed change.
func CanTransition(from, to BookingStatus) bool {
	if from.IsTerminal() {
		return false
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Booking records a customer's request for a table at a restaurant on a
// given date and time.  TableID stays nil until a table is assigned.
// Bookings are never deleted; cancellation is a status change and keeps
// the table assignment.
//
// Fields:
//
//	ID              – primary key identifier.
//	CustomerID      – customer who made the booking.
//	RestaurantID    – restaurant being booked.
//	TableID         – assigned table (nil until assigned).
//	BookingDate     – calendar date, midnight UTC.
//	BookingTime     – time of day as an offset from midnight.
//	NumberOfGuests  – party size (positive).
//	Status          – lifecycle state.
//	SpecialRequests – optional free-text note.
type Booking struct {
	ID              uint64        // bookings.id
	CustomerID      uint64        // bookings.customer_id
	RestaurantID    uint64        // bookings.restaurant_id
	TableID         *uint64       // bookings.table_id (nullable)
	BookingDate     time.Time     // bookings.booking_date
	BookingTime     time.Duration // bookings.booking_time
	NumberOfGuests  int           // bookings.number_of_guests
	Status          BookingStatus // bookings.status
	SpecialRequests *string       // bookings.special_requests (nullable)
	Timestamps
}

// Slot returns the booking's (date, time) pair.
func (b *Booking) Slot() Slot { return NewSlot(b.BookingDate, b.BookingTime) }

// EffectiveAt is the booking date plus the booking time.
func (b *Booking) EffectiveAt() time.Time { return b.Slot().At() }

// IsUpcoming reports whether the booking starts strictly after now.
func (b *Booking) IsUpcoming(now time.Time) bool {
	return b.EffectiveAt().After(now)
}

// CanBeCancelled reports whether the booking is still Pending or Confirmed.
func (b *Booking) CanBeCancelled() bool { return CanTransition(b.Status, BookingCancelled) }

// IsActive reports whether the booking still occupies its table.
func (b *Booking) IsActive() bool { return b.Status.IsActive() }

// Overlaps reports whether b and other hold the same table on the same date
// with start times less than window apart.  Bookings without a table never
// overlap anything.
func (b *Booking) Overlaps(other *Booking, window time.Duration) bool {
	if !b.HasTable() || !other.HasTable() || *b.TableID != *other.TableID {
		return false
	}
	return SlotsOverlap(b.Slot(), other.Slot(), window)
}

// HasTable reports whether a table has been assigned.
func (b *Booking) HasTable() bool { return b.TableID != nil && *b.TableID != 0 }

// AssignTable sets the table and refreshes UpdatedAt.
func (b *Booking) AssignTable(tableID uint64, now time.Time) {
	id := tableID
	b.TableID = &id
	b.Touch(now)
}

// Cancel moves a Pending or Confirmed booking to Cancelled.
func (b *Booking) Cancel(now time.Time) error { return b.transition(BookingCancelled, now) }

// Confirm moves a Pending booking to Confirmed.
func (b *Booking) Confirm(now time.Time) error { return b.transition(BookingConfirmed, now) }

// Complete moves a Confirmed booking to Completed.
func (b *Booking) Complete(now time.Time) error { return b.transition(BookingCompleted, now) }

// MarkNoShow moves a Confirmed booking to NoShow.
func (b *Booking) MarkNoShow(now time.Time) error { return b.transition(BookingNoShow, now) }

// transition leaves the booking untouched when the change is not allowed.
func (b *Booking) transition(to BookingStatus, now time.Time) error {
	if !CanTransition(b.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, to)
	}
	b.Status = to
	b.Touch(now)
	return nil
}

// Clone returns a deep copy so callers can mutate without aliasing the
// pointer fields of the original.
func (b Booking) Clone() Booking {
	if b.TableID != nil {
		id := *b.TableID
		b.TableID = &id
	}
	if b.SpecialRequests != nil {
		s := *b.SpecialRequests
		b.SpecialRequests = &s
	}
	return b
}

// Validate checks the fields that do not need any lookup.
func (b *Booking) Validate() error {
	if b.CustomerID == 0 {
		return invalid("customer_id is required")
	}
	if b.RestaurantID == 0 {
		return invalid("restaurant_id is required")
	}
	if b.NumberOfGuests <= 0 {
		return invalid("number_of_guests must be greater than zero")
	}
	if b.BookingTime < 0 || b.BookingTime >= day {
		return invalid("booking_time must be within the day")
	}
	return optional("special_requests", b.SpecialRequests, MaxSpecialRequestsLen)
}
