package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
	"github.com/iliyamo/restaurant-table-booking/internal/queue"
	"github.com/iliyamo/restaurant-table-booking/internal/repository"
	"github.com/iliyamo/restaurant-table-booking/internal/repository/memory"
)

const window = 90 * time.Minute

var (
	testNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	dayD    = time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	at19    = 19 * time.Hour
)

// fixture is restaurant R with Table A (4 seats) and Table B (2 seats)
// plus one customer.
type fixture struct {
	store    *memory.Store
	engine   *Engine
	manager  *Manager
	rest     model.Restaurant
	tableA   model.Table
	tableB   model.Table
	customer model.Customer
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.New()

	rest := model.Restaurant{Name: "R", Location: "Harbour 1", Capacity: 6, IsActive: true}
	rest.Stamp(testNow)
	require.NoError(t, s.CreateRestaurant(ctx, &rest))

	a := model.Table{RestaurantID: rest.ID, TableNumber: "A", SeatingCapacity: 4, IsActive: true}
	a.Stamp(testNow)
	require.NoError(t, s.CreateTable(ctx, &a))
	b := model.Table{RestaurantID: rest.ID, TableNumber: "B", SeatingCapacity: 2, IsActive: true}
	b.Stamp(testNow)
	require.NoError(t, s.CreateTable(ctx, &b))

	c := model.Customer{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", PhoneNumber: "555-0100"}
	c.Stamp(testNow)
	require.NoError(t, s.CreateCustomer(ctx, &c))

	engine := NewEngine(s, window, nil)
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return &fixture{
		store:    s,
		engine:   engine,
		manager:  NewManager(s, engine, opts...),
		rest:     rest,
		tableA:   a,
		tableB:   b,
		customer: c,
	}
}

func (f *fixture) request(guests int, at time.Duration) *model.Booking {
	return &model.Booking{
		CustomerID:     f.customer.ID,
		RestaurantID:   f.rest.ID,
		BookingDate:    dayD,
		BookingTime:    at,
		NumberOfGuests: guests,
	}
}

// addTable registers one more table in the fixture restaurant.
func (f *fixture) addTable(t *testing.T, number string, seats int, active bool) model.Table {
	t.Helper()
	tb := model.Table{RestaurantID: f.rest.ID, TableNumber: number, SeatingCapacity: seats, IsActive: active}
	require.NoError(t, f.store.CreateTable(context.Background(), &tb))
	return tb
}

// mockPublisher records published events.
type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// racyStore makes the first n CreateIfTableFree calls lose the race.
type racyStore struct {
	*memory.Store
	mu        sync.Mutex
	conflicts int
	calls     int
}

func (s *racyStore) CreateIfTableFree(ctx context.Context, b *model.Booking, w time.Duration) error {
	s.mu.Lock()
	s.calls++
	lose := s.calls <= s.conflicts
	s.mu.Unlock()
	if lose {
		return repository.ErrConflict
	}
	return s.Store.CreateIfTableFree(ctx, b, w)
}

var errDisk = errors.New("disk I/O error")

// failingStore fails every write with errDisk and counts the attempts.
type failingStore struct {
	*memory.Store
	mu      sync.Mutex
	creates int
	updates int
}

func (s *failingStore) CreateIfTableFree(context.Context, *model.Booking, time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	return errDisk
}

func (s *failingStore) UpdateBookingStatus(context.Context, *model.Booking, model.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	return errDisk
}

// slowPublisher stands in for a broker that takes delay to answer.
type slowPublisher struct{ delay time.Duration }

func (p slowPublisher) PublishBookingEvent(ctx context.Context, _ queue.BookingEvent) error {
	select {
	case <-time.After(p.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
