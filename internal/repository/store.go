package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
)

// Store bundles the per-entity repositories behind the single persistence
// interface the booking core consumes.
type Store struct {
	db          *sql.DB
	Restaurants *RestaurantRepo
	Tables      *TableRepo
	Customers   *CustomerRepo
	Bookings    *BookingRepo
}

// NewStore wires every repository to db.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:          db,
		Restaurants: NewRestaurantRepo(db),
		Tables:      NewTableRepo(db),
		Customers:   NewCustomerRepo(db),
		Bookings:    NewBookingRepo(db),
	}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) GetRestaurant(ctx context.Context, id uint64) (*model.Restaurant, error) {
	return s.Restaurants.GetByID(ctx, id)
}

func (s *Store) GetTable(ctx context.Context, id uint64) (*model.Table, error) {
	return s.Tables.GetByID(ctx, id)
}

func (s *Store) GetCustomer(ctx context.Context, id uint64) (*model.Customer, error) {
	return s.Customers.GetByID(ctx, id)
}

func (s *Store) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	return s.Bookings.GetByID(ctx, id)
}

func (s *Store) ListTablesByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	return s.Tables.ListByRestaurant(ctx, restaurantID)
}

func (s *Store) ListActiveBookingsByTableAndDate(ctx context.Context, tableID uint64, date time.Time) ([]model.Booking, error) {
	return s.Bookings.ListActiveByTableAndDate(ctx, tableID, date)
}

func (s *Store) ListActiveBookingsByRestaurantAndDate(ctx context.Context, restaurantID uint64, date time.Time) ([]model.Booking, error) {
	return s.Bookings.ListActiveByRestaurantAndDate(ctx, restaurantID, date)
}

func (s *Store) ListBookingsByCustomer(ctx context.Context, customerID uint64) ([]model.Booking, error) {
	return s.Bookings.ListByCustomer(ctx, customerID)
}

func (s *Store) CreateIfTableFree(ctx context.Context, b *model.Booking, window time.Duration) error {
	return s.Bookings.CreateIfTableFree(ctx, b, window)
}

func (s *Store) UpdateBookingStatus(ctx context.Context, b *model.Booking, from model.BookingStatus) error {
	return s.Bookings.UpdateStatus(ctx, b, from)
}

// Admin writes.

func (s *Store) CreateRestaurant(ctx context.Context, r *model.Restaurant) error {
	return s.Restaurants.Create(ctx, r)
}

func (s *Store) ListRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	return s.Restaurants.List(ctx)
}

// CreateTable checks the owning restaurant first so a bad restaurant id is
// reported as a NotFoundError rather than a foreign key failure.
func (s *Store) CreateTable(ctx context.Context, t *model.Table) error {
	if _, err := s.Restaurants.GetByID(ctx, t.RestaurantID); err != nil {
		return err
	}
	return s.Tables.Create(ctx, t)
}

func (s *Store) SetTableActive(ctx context.Context, id uint64, active bool, now time.Time) (*model.Table, error) {
	return s.Tables.SetActive(ctx, id, active, now)
}

func (s *Store) CreateCustomer(ctx context.Context, c *model.Customer) error {
	return s.Customers.Create(ctx, c)
}
