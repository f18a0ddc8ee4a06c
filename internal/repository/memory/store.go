// Package memory is an in-process implementation of the booking store.  It
// backs the unit tests and the --store=memory development mode.  All data
// is lost when the process exits.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
	"github.com/iliyamo/restaurant-table-booking/internal/repository"
)

// Store keeps every entity in maps guarded by one mutex.  Values are
// copied in and out so callers never share memory with the store.
type Store struct {
	mu          sync.RWMutex
	nextID      uint64
	restaurants map[uint64]model.Restaurant
	tables      map[uint64]model.Table
	customers   map[uint64]model.Customer
	bookings    map[uint64]model.Booking
}

// New returns an empty store.
func New() *Store {
	return &Store{
		restaurants: make(map[uint64]model.Restaurant),
		tables:      make(map[uint64]model.Table),
		customers:   make(map[uint64]model.Customer),
		bookings:    make(map[uint64]model.Booking),
	}
}

func (s *Store) id() uint64 {
	s.nextID++
	return s.nextID
}

func (s *Store) GetRestaurant(_ context.Context, id uint64) (*model.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.restaurants[id]
	if !ok {
		return nil, repository.NotFound(repository.EntityRestaurant, id)
	}
	return &r, nil
}

func (s *Store) GetTable(_ context.Context, id uint64) (*model.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[id]
	if !ok {
		return nil, repository.NotFound(repository.EntityTable, id)
	}
	return &t, nil
}

func (s *Store) GetCustomer(_ context.Context, id uint64) (*model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, repository.NotFound(repository.EntityCustomer, id)
	}
	return &c, nil
}

func (s *Store) GetBooking(_ context.Context, id uint64) (*model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, repository.NotFound(repository.EntityBooking, id)
	}
	c := b.Clone()
	return &c, nil
}

func (s *Store) ListTablesByRestaurant(_ context.Context, restaurantID uint64) ([]model.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Table, 0)
	for _, t := range s.tables {
		if t.RestaurantID == restaurantID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SeatingCapacity != out[j].SeatingCapacity {
			return out[i].SeatingCapacity < out[j].SeatingCapacity
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) filterBookings(keep func(*model.Booking) bool) []model.Booking {
	out := make([]model.Booking, 0)
	for _, b := range s.bookings {
		if keep(&b) {
			out = append(out, b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := out[i].EffectiveAt(), out[j].EffectiveAt()
		if !ai.Equal(aj) {
			return ai.Before(aj)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) ListActiveBookingsByTableAndDate(_ context.Context, tableID uint64, date time.Time) ([]model.Booking, error) {
	day := model.DateOnly(date)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterBookings(func(b *model.Booking) bool {
		return b.IsActive() && b.HasTable() && *b.TableID == tableID && b.BookingDate.Equal(day)
	}), nil
}

func (s *Store) ListActiveBookingsByRestaurantAndDate(_ context.Context, restaurantID uint64, date time.Time) ([]model.Booking, error) {
	day := model.DateOnly(date)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterBookings(func(b *model.Booking) bool {
		return b.IsActive() && b.RestaurantID == restaurantID && b.BookingDate.Equal(day)
	}), nil
}

func (s *Store) ListBookingsByCustomer(_ context.Context, customerID uint64) ([]model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterBookings(func(b *model.Booking) bool { return b.CustomerID == customerID }), nil
}

// CreateIfTableFree performs the overlap check and the insert under the
// write lock, which gives it the same all-or-nothing behaviour as the
// MySQL transaction.
func (s *Store) CreateIfTableFree(_ context.Context, b *model.Booking, window time.Duration) error {
	if !b.HasTable() {
		return repository.NotFound(repository.EntityTable, 0)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[*b.TableID]; !ok {
		return repository.NotFound(repository.EntityTable, *b.TableID)
	}
	for _, other := range s.bookings {
		if other.IsActive() && b.Overlaps(&other, window) {
			return repository.ErrConflict
		}
	}
	b.BookingDate = model.DateOnly(b.BookingDate)
	b.ID = s.id()
	s.bookings[b.ID] = b.Clone()
	return nil
}

func (s *Store) UpdateBookingStatus(_ context.Context, b *model.Booking, from model.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.bookings[b.ID]
	if !ok {
		return repository.NotFound(repository.EntityBooking, b.ID)
	}
	if cur.Status != from {
		return repository.ErrConflict
	}
	cur.Status = b.Status
	cur.UpdatedAt = b.UpdatedAt
	s.bookings[b.ID] = cur
	return nil
}

func (s *Store) CreateRestaurant(_ context.Context, r *model.Restaurant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.id()
	s.restaurants[r.ID] = *r
	return nil
}

func (s *Store) ListRestaurants(_ context.Context) ([]model.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Restaurant, 0, len(s.restaurants))
	for _, r := range s.restaurants {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateTable(_ context.Context, t *model.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.restaurants[t.RestaurantID]; !ok {
		return repository.NotFound(repository.EntityRestaurant, t.RestaurantID)
	}
	for _, other := range s.tables {
		if other.RestaurantID == t.RestaurantID && other.TableNumber == t.TableNumber {
			return repository.ErrConflict
		}
	}
	t.ID = s.id()
	s.tables[t.ID] = *t
	return nil
}

func (s *Store) SetTableActive(_ context.Context, id uint64, active bool, now time.Time) (*model.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	if !ok {
		return nil, repository.NotFound(repository.EntityTable, id)
	}
	t.SetActive(active, now)
	s.tables[id] = t
	return &t, nil
}

func (s *Store) CreateCustomer(_ context.Context, c *model.Customer) error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.customers {
		if other.Email == c.Email {
			return repository.ErrConflict
		}
	}
	c.ID = s.id()
	s.customers[c.ID] = *c
	return nil
}
