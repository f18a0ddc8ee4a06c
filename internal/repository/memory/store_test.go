package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
	"github.com/iliyamo/restaurant-table-booking/internal/repository"
)

func seed(t *testing.T) (*Store, model.Table) {
	t.Helper()
	ctx := context.Background()
	s := New()
	r := &model.Restaurant{Name: "Bistro", Location: "Main St", Capacity: 20, IsActive: true}
	require.NoError(t, s.CreateRestaurant(ctx, r))
	tb := &model.Table{RestaurantID: r.ID, TableNumber: "A", SeatingCapacity: 4, IsActive: true}
	require.NoError(t, s.CreateTable(ctx, tb))
	return s, *tb
}

func booking(tb model.Table, at time.Duration) *model.Booking {
	b := &model.Booking{
		CustomerID:     1,
		RestaurantID:   tb.RestaurantID,
		BookingDate:    time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		BookingTime:    at,
		NumberOfGuests: 2,
		Status:         model.BookingPending,
	}
	b.AssignTable(tb.ID, time.Now())
	return b
}

func TestCreateIfTableFree(t *testing.T) {
	ctx := context.Background()
	s, tb := seed(t)
	w := 90 * time.Minute

	first := booking(tb, 19*time.Hour)
	require.NoError(t, s.CreateIfTableFree(ctx, first, w))
	assert.NotZero(t, first.ID)

	assert.ErrorIs(t, s.CreateIfTableFree(ctx, booking(tb, 20*time.Hour), w), repository.ErrConflict)
	assert.NoError(t, s.CreateIfTableFree(ctx, booking(tb, 20*time.Hour+30*time.Minute), w))

	// a cancelled booking frees its slot
	first.Status = model.BookingCancelled
	require.NoError(t, s.UpdateBookingStatus(ctx, first, model.BookingPending))
	assert.NoError(t, s.CreateIfTableFree(ctx, booking(tb, 19*time.Hour), w))
}

func TestUpdateBookingStatus_StaleStatus(t *testing.T) {
	ctx := context.Background()
	s, tb := seed(t)
	b := booking(tb, 12*time.Hour)
	require.NoError(t, s.CreateIfTableFree(ctx, b, time.Hour))

	b.Status = model.BookingCompleted
	assert.ErrorIs(t, s.UpdateBookingStatus(ctx, b, model.BookingConfirmed), repository.ErrConflict)

	b.ID = 999
	assert.ErrorIs(t, s.UpdateBookingStatus(ctx, b, model.BookingPending), repository.ErrNotFound)
}

func TestGetBooking_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s, tb := seed(t)
	b := booking(tb, 12*time.Hour)
	require.NoError(t, s.CreateIfTableFree(ctx, b, time.Hour))

	got, err := s.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	*got.TableID = 12345
	again, err := s.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, tb.ID, *again.TableID)
}

func TestCreateTable_DuplicateNumber(t *testing.T) {
	ctx := context.Background()
	s, tb := seed(t)
	dup := &model.Table{RestaurantID: tb.RestaurantID, TableNumber: "A", SeatingCapacity: 2, IsActive: true}
	assert.ErrorIs(t, s.CreateTable(ctx, dup), repository.ErrConflict)

	orphan := &model.Table{RestaurantID: 404, TableNumber: "Z", SeatingCapacity: 2}
	assert.ErrorIs(t, s.CreateTable(ctx, orphan), repository.ErrNotFound)
}
