// Package queue carries booking lifecycle events over RabbitMQ.  The
// booking manager publishes one BookingEvent per state change and the
// consumer appends them to logs/booking.log.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
)

// BookingEventsQueue is the durable queue all lifecycle events go to.
const BookingEventsQueue = "booking.events"

// EventType names a booking lifecycle change.
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCompleted EventType = "booking.completed"
	EventBookingNoShow    EventType = "booking.no_show"
)

// BookingEvent is self-contained so consumers can log or notify without
// querying the primary database.  Dates and times use the API formats
// (YYYY-MM-DD, HH:MM); OccurredAt is RFC 3339 in UTC.
type BookingEvent struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	BookingID    uint64    `json:"booking_id"`
	CustomerID   uint64    `json:"customer_id"`
	RestaurantID uint64    `json:"restaurant_id"`
	TableID      *uint64   `json:"table_id,omitempty"`
	BookingDate  string    `json:"booking_date"`
	BookingTime  string    `json:"booking_time"`
	Guests       int       `json:"guests"`
	Status       string    `json:"status"`
	OccurredAt   string    `json:"occurred_at"`
}

// NewBookingEvent snapshots b at time now.
func NewBookingEvent(typ EventType, b *model.Booking, now time.Time) BookingEvent {
	ev := BookingEvent{
		ID:           uuid.NewString(),
		Type:         typ,
		BookingID:    b.ID,
		CustomerID:   b.CustomerID,
		RestaurantID: b.RestaurantID,
		BookingDate:  model.FormatDate(b.BookingDate),
		BookingTime:  model.FormatTimeOfDay(b.BookingTime),
		Guests:       b.NumberOfGuests,
		Status:       string(b.Status),
		OccurredAt:   now.UTC().Format(time.RFC3339),
	}
	if b.HasTable() {
		id := *b.TableID
		ev.TableID = &id
	}
	return ev
}
