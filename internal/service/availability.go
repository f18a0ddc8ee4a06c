package service

import (
	"context"
	"sort"
	"time"

	"github.com/iliyamo/restaurant-table-booking/internal/metrics"
	"github.com/iliyamo/restaurant-table-booking/internal/model"
)

// Engine implements AvailabilityChecker over a Store.  Two bookings
// conflict when they hold the same table on the same date with start
// times less than Window apart; only Pending and Confirmed bookings count.
type Engine struct {
	store   Store
	window  time.Duration
	metrics *metrics.Metrics
}

var _ AvailabilityChecker = (*Engine)(nil)

// NewEngine returns an Engine using window as the seating duration.  m may
// be nil.
func NewEngine(store Store, window time.Duration, m *metrics.Metrics) *Engine {
	return &Engine{store: store, window: window, metrics: m}
}

// Window is the configured seating duration.
func (e *Engine) Window() time.Duration { return e.window }

// GetAvailableTables returns the restaurant's active tables that seat at
// least guests and have no overlapping active booking, smallest first and
// then by id.  The result is empty, not nil, when nothing fits.
func (e *Engine) GetAvailableTables(ctx context.Context, restaurantID uint64, date time.Time, at time.Duration, guests int) ([]model.Table, error) {
	defer e.metrics.ObserveAvailability("tables", time.Now())

	if _, err := e.store.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	tables, err := e.store.ListTablesByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	bookings, err := e.store.ListActiveBookingsByRestaurantAndDate(ctx, restaurantID, date)
	if err != nil {
		return nil, err
	}

	slot := model.NewSlot(date, at)
	busy := make(map[uint64]bool)
	for i := range bookings {
		b := &bookings[i]
		if b.IsActive() && b.HasTable() && model.SlotsOverlap(b.Slot(), slot, e.window) {
			busy[*b.TableID] = true
		}
	}

	out := make([]model.Table, 0, len(tables))
	for _, t := range tables {
		if t.RestaurantID != restaurantID || !t.Fits(guests) || busy[t.ID] {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SeatingCapacity != out[j].SeatingCapacity {
			return out[i].SeatingCapacity < out[j].SeatingCapacity
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// IsTableAvailable reports whether no active booking on the table overlaps
// the slot.  It does not look at the table's active flag; booking
// validation checks that separately.
func (e *Engine) IsTableAvailable(ctx context.Context, tableID uint64, date time.Time, at time.Duration) (bool, error) {
	defer e.metrics.ObserveAvailability("table", time.Now())

	if _, err := e.store.GetTable(ctx, tableID); err != nil {
		return false, err
	}
	bookings, err := e.store.ListActiveBookingsByTableAndDate(ctx, tableID, date)
	if err != nil {
		return false, err
	}
	slot := model.NewSlot(date, at)
	for i := range bookings {
		if bookings[i].IsActive() && model.SlotsOverlap(bookings[i].Slot(), slot, e.window) {
			return false, nil
		}
	}
	return true, nil
}

// BestFitTable returns the smallest free table that seats guests, or
// ErrNoTableAvailable.
func (e *Engine) BestFitTable(ctx context.Context, restaurantID uint64, date time.Time, at time.Duration, guests int) (*model.Table, error) {
	tables, err := e.GetAvailableTables(ctx, restaurantID, date, at, guests)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, ErrNoTableAvailable
	}
	return &tables[0], nil
}
