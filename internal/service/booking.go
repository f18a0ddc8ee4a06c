package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-table-booking/internal/lock"
	"github.com/iliyamo/restaurant-table-booking/internal/metrics"
	"github.com/iliyamo/restaurant-table-booking/internal/model"
	"github.com/iliyamo/restaurant-table-booking/internal/queue"
	"github.com/iliyamo/restaurant-table-booking/internal/repository"
)

// Manager implements BookingService.  Creation is serialised per
// restaurant and date through a lock.Locker and then committed through the
// store's atomic CreateIfTableFree; a lost race is retried once with a
// fresh availability check.  Cancellation and the administrative moves
// only change status and never take the lock.
type Manager struct {
	store     Store
	engine    *Engine
	locker    lock.Locker
	publisher EventPublisher
	metrics   *metrics.Metrics
	lockWait  time.Duration
	now       func() time.Time
}

var _ BookingService = (*Manager)(nil)

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// WithLocker replaces the default in-process locker.
func WithLocker(l lock.Locker) Option { return func(m *Manager) { m.locker = l } }

// WithPublisher sets the event sink.  Without one no events are sent.
func WithPublisher(p EventPublisher) Option { return func(m *Manager) { m.publisher = p } }

// WithMetrics sets the Prometheus instruments.
func WithMetrics(mt *metrics.Metrics) Option { return func(m *Manager) { m.metrics = mt } }

// WithLockWait bounds how long CreateBooking waits for the slot lock.
func WithLockWait(d time.Duration) Option { return func(m *Manager) { m.lockWait = d } }

// NewManager returns a Manager that checks availability through engine.
func NewManager(store Store, engine *Engine, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		engine:   engine,
		locker:   lock.NewLocal(),
		lockWait: 3 * time.Second,
		now:      time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) clock() time.Time { return m.now().UTC() }

// ValidateBooking checks b against the business rules in order and stops
// at the first failure.  The returned error is reserved for persistence
// failures; a broken rule comes back as an invalid Validation.
func (m *Manager) ValidateBooking(ctx context.Context, b *model.Booking) (Validation, error) {
	if b.NumberOfGuests <= 0 {
		return failed(RuleGuests, "number of guests must be greater than zero"), nil
	}
	if b.SpecialRequests != nil && len([]rune(*b.SpecialRequests)) > model.MaxSpecialRequestsLen {
		return failed(RuleSpecialRequests, fmt.Sprintf("special requests must be at most %d characters", model.MaxSpecialRequestsLen)), nil
	}
	if b.BookingTime < 0 || b.BookingTime >= 24*time.Hour {
		return failed(RuleTime, "booking time must be within the day"), nil
	}
	if model.DateOnly(b.BookingDate).Before(model.DateOnly(m.clock())) {
		return failed(RuleDate, "booking date cannot be in the past"), nil
	}
	if err := b.Validate(); err != nil {
		return failed(RuleBooking, strings.TrimPrefix(err.Error(), model.ErrInvalidEntity.Error()+": ")), nil
	}

	rest, err := m.store.GetRestaurant(ctx, b.RestaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return missing(RuleRestaurant, err), nil
		}
		return Validation{}, fmt.Errorf("get restaurant: %w", err)
	}
	if !rest.IsActive {
		return failed(RuleRestaurant, "restaurant is not accepting bookings"), nil
	}

	if _, err := m.store.GetCustomer(ctx, b.CustomerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return missing(RuleCustomer, err), nil
		}
		return Validation{}, fmt.Errorf("get customer: %w", err)
	}

	if b.HasTable() {
		t, err := m.store.GetTable(ctx, *b.TableID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return missing(RuleTable, err), nil
			}
			return Validation{}, fmt.Errorf("get table: %w", err)
		}
		switch {
		case t.RestaurantID != b.RestaurantID:
			return failed(RuleTable, "table does not belong to the restaurant"), nil
		case !t.IsActive:
			return failed(RuleTable, "table is not active"), nil
		case t.SeatingCapacity < b.NumberOfGuests:
			return failed(RuleTable, fmt.Sprintf("table seats %d, party of %d", t.SeatingCapacity, b.NumberOfGuests)), nil
		}
		free, err := m.engine.IsTableAvailable(ctx, t.ID, b.BookingDate, b.BookingTime)
		if err != nil {
			return Validation{}, fmt.Errorf("check table: %w", err)
		}
		if !free {
			return failed(RuleAvailability, "table is already booked for that time"), nil
		}
		return valid(), nil
	}

	tables, err := m.engine.GetAvailableTables(ctx, b.RestaurantID, b.BookingDate, b.BookingTime, b.NumberOfGuests)
	if err != nil {
		return Validation{}, fmt.Errorf("check availability: %w", err)
	}
	if len(tables) == 0 {
		return failed(RuleAvailability, "no table available for that time"), nil
	}
	return valid(), nil
}

// CreateBooking validates, assigns the best-fit table when none was given,
// and persists a Pending booking.  Failures are a *ValidationError, a
// repository.NotFoundError for a missing restaurant, customer or table, or
// repository.ErrConflict when the race for the table was lost twice or the
// slot lock timed out.  in is not modified.  The created event is
// published after the slot lock is released.
func (m *Manager) CreateBooking(ctx context.Context, in *model.Booking) (*model.Booking, error) {
	b := in.Clone()
	b.BookingDate = model.DateOnly(b.BookingDate)

	v, err := m.ValidateBooking(ctx, &b)
	if err != nil {
		return nil, err
	}
	if err := v.Err(); err != nil {
		m.metrics.IncValidationFailure(v.Rule)
		return nil, err
	}

	created, err := m.createLocked(ctx, b)
	if err != nil {
		return nil, err
	}
	m.publish(ctx, queue.EventBookingCreated, created)
	return created, nil
}

// createLocked assigns a table and inserts b while holding the slot lock.
func (m *Manager) createLocked(ctx context.Context, b model.Booking) (*model.Booking, error) {
	lockCtx, cancel := context.WithTimeout(ctx, m.lockWait)
	unlock, err := m.locker.Lock(lockCtx, lock.SlotKey(b.RestaurantID, b.BookingDate))
	cancel()
	if err != nil {
		if errors.Is(err, lock.ErrTimeout) {
			m.metrics.IncConflict()
			return nil, fmt.Errorf("%w: %v", repository.ErrConflict, err)
		}
		return nil, fmt.Errorf("slot lock: %w", err)
	}
	defer unlock()

	preassigned := b.HasTable()
	for attempt := 0; attempt < 2; attempt++ {
		candidate := b.Clone()
		now := m.clock()
		if preassigned {
			if attempt > 0 {
				free, err := m.engine.IsTableAvailable(ctx, *candidate.TableID, candidate.BookingDate, candidate.BookingTime)
				if err != nil {
					return nil, err
				}
				if !free {
					break
				}
			}
		} else {
			t, err := m.engine.BestFitTable(ctx, candidate.RestaurantID, candidate.BookingDate, candidate.BookingTime, candidate.NumberOfGuests)
			if errors.Is(err, ErrNoTableAvailable) {
				// Validation saw a free table; another writer took it since.
				m.metrics.IncConflict()
				continue
			}
			if err != nil {
				return nil, err
			}
			candidate.AssignTable(t.ID, now)
		}
		candidate.ID = 0
		candidate.Status = model.BookingPending
		candidate.Stamp(now)

		err := m.store.CreateIfTableFree(ctx, &candidate, m.engine.Window())
		if err == nil {
			m.metrics.IncCreated()
			log.Printf("booking: created id=%d restaurant=%d table=%d slot=%s guests=%d",
				candidate.ID, candidate.RestaurantID, *candidate.TableID, candidate.Slot(), candidate.NumberOfGuests)
			return &candidate, nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("create booking: %w", err)
		}
		m.metrics.IncConflict()
	}
	return nil, repository.ErrConflict
}

// CancelBooking moves a Pending or Confirmed booking to Cancelled.  It
// returns false for an unknown booking or one that cannot be cancelled.
// The table assignment is kept; the slot frees up because cancelled
// bookings no longer count toward occupancy.
func (m *Manager) CancelBooking(ctx context.Context, bookingID uint64) (bool, error) {
	// A concurrent status change makes the conditional update miss; re-read
	// once and decide again.
	for attempt := 0; attempt < 2; attempt++ {
		b, err := m.store.GetBooking(ctx, bookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("get booking: %w", err)
		}
		if !b.CanBeCancelled() {
			return false, nil
		}
		from := b.Status
		if err := b.Cancel(m.clock()); err != nil {
			return false, nil
		}
		err = m.store.UpdateBookingStatus(ctx, b, from)
		switch {
		case err == nil:
			m.metrics.IncCancelled()
			log.Printf("booking: cancelled id=%d", b.ID)
			m.publish(ctx, queue.EventBookingCancelled, b)
			return true, nil
		case errors.Is(err, repository.ErrNotFound):
			return false, nil
		case errors.Is(err, repository.ErrConflict):
			continue
		default:
			return false, fmt.Errorf("cancel booking: %w", err)
		}
	}
	return false, repository.ErrConflict
}

// GetUpcomingBookings returns the customer's bookings that start after
// now, earliest first.  Status is not filtered.
func (m *Manager) GetUpcomingBookings(ctx context.Context, customerID uint64) ([]model.Booking, error) {
	if _, err := m.store.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	all, err := m.store.ListBookingsByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	now := m.clock()
	out := make([]model.Booking, 0, len(all))
	for i := range all {
		if all[i].IsUpcoming(now) {
			out = append(out, all[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := out[i].EffectiveAt(), out[j].EffectiveAt()
		if !ai.Equal(aj) {
			return ai.Before(aj)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ConfirmBooking moves a Pending booking to Confirmed.
func (m *Manager) ConfirmBooking(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	return m.transition(ctx, bookingID, (*model.Booking).Confirm, queue.EventBookingConfirmed)
}

// CompleteBooking moves a Confirmed booking to Completed.
func (m *Manager) CompleteBooking(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	return m.transition(ctx, bookingID, (*model.Booking).Complete, queue.EventBookingCompleted)
}

// MarkNoShow moves a Confirmed booking to NoShow.
func (m *Manager) MarkNoShow(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	return m.transition(ctx, bookingID, (*model.Booking).MarkNoShow, queue.EventBookingNoShow)
}

func (m *Manager) transition(ctx context.Context, bookingID uint64, apply func(*model.Booking, time.Time) error, ev queue.EventType) (*model.Booking, error) {
	b, err := m.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	from := b.Status
	if err := apply(b, m.clock()); err != nil {
		return nil, err
	}
	to := b.Status
	if err := m.store.UpdateBookingStatus(ctx, b, from); err != nil {
		return nil, err
	}
	m.metrics.IncTransition(string(to))
	log.Printf("booking: id=%d %s -> %s", b.ID, from, to)
	m.publish(ctx, ev, b)
	return b, nil
}

// publish sends the event and only logs failures; delivery problems never
// fail a booking operation.
func (m *Manager) publish(ctx context.Context, typ queue.EventType, b *model.Booking) {
	if m.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := m.publisher.PublishBookingEvent(ctx, queue.NewBookingEvent(typ, b, m.clock())); err != nil {
		log.Printf("booking: publish %s for id=%d failed: %v", typ, b.ID, err)
	}
}
