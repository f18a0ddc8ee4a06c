// Package service holds the booking core: the availability engine that
// owns the overlap rule and the booking manager that drives the booking
// lifecycle.  Persistence, locking and event delivery are consumed through
// the small interfaces declared here.
package service

import (
	"context"
	"time"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
	"github.com/iliyamo/restaurant-table-booking/internal/queue"
)

// AvailabilityChecker answers which tables can seat a party and whether a
// given table is free.
type AvailabilityChecker interface {
	GetAvailableTables(ctx context.Context, restaurantID uint64, date time.Time, at time.Duration, guests int) ([]model.Table, error)
	IsTableAvailable(ctx context.Context, tableID uint64, date time.Time, at time.Duration) (bool, error)
}

// BookingService creates, validates, cancels and lists bookings, plus the
// administrative status moves.
type BookingService interface {
	ValidateBooking(ctx context.Context, b *model.Booking) (Validation, error)
	CreateBooking(ctx context.Context, b *model.Booking) (*model.Booking, error)
	CancelBooking(ctx context.Context, bookingID uint64) (bool, error)
	GetUpcomingBookings(ctx context.Context, customerID uint64) ([]model.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID uint64) (*model.Booking, error)
	CompleteBooking(ctx context.Context, bookingID uint64) (*model.Booking, error)
	MarkNoShow(ctx context.Context, bookingID uint64) (*model.Booking, error)
}

// Store is the persistence the core needs.  Lookups of missing rows return
// a repository.NotFoundError.  CreateIfTableFree must check for an
// overlapping active booking and insert atomically, returning
// repository.ErrConflict when the table is taken.  UpdateBookingStatus
// writes b.Status and b.UpdatedAt only while the stored status is still
// from, and returns repository.ErrConflict otherwise.
type Store interface {
	GetRestaurant(ctx context.Context, id uint64) (*model.Restaurant, error)
	GetTable(ctx context.Context, id uint64) (*model.Table, error)
	GetCustomer(ctx context.Context, id uint64) (*model.Customer, error)
	GetBooking(ctx context.Context, id uint64) (*model.Booking, error)
	ListTablesByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Table, error)
	ListActiveBookingsByTableAndDate(ctx context.Context, tableID uint64, date time.Time) ([]model.Booking, error)
	ListActiveBookingsByRestaurantAndDate(ctx context.Context, restaurantID uint64, date time.Time) ([]model.Booking, error)
	ListBookingsByCustomer(ctx context.Context, customerID uint64) ([]model.Booking, error)
	CreateIfTableFree(ctx context.Context, b *model.Booking, window time.Duration) error
	UpdateBookingStatus(ctx context.Context, b *model.Booking, from model.BookingStatus) error
}

// AdminStore adds the operator writes used by the HTTP admin routes.
type AdminStore interface {
	Store
	CreateRestaurant(ctx context.Context, r *model.Restaurant) error
	ListRestaurants(ctx context.Context) ([]model.Restaurant, error)
	CreateTable(ctx context.Context, t *model.Table) error
	SetTableActive(ctx context.Context, id uint64, active bool, now time.Time) (*model.Table, error)
	CreateCustomer(ctx context.Context, c *model.Customer) error
}

// EventPublisher delivers booking lifecycle events.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error
}
