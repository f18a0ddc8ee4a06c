package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
	"github.com/iliyamo/restaurant-table-booking/internal/repository"
)

func tableIDs(ts []model.Table) []uint64 {
	out := make([]uint64, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}

func (f *fixture) book(t *testing.T, tableID uint64, at time.Duration, status model.BookingStatus) model.Booking {
	t.Helper()
	b := f.request(2, at)
	b.AssignTable(tableID, testNow)
	b.Status = status
	b.Stamp(testNow)
	require.NoError(t, f.store.CreateIfTableFree(context.Background(), b, time.Nanosecond))
	return *b
}

func TestGetAvailableTables_OrdersSmallestFirst(t *testing.T) {
	f := newFixture(t)
	c := f.addTable(t, "C", 2, true)

	got, err := f.engine.GetAvailableTables(context.Background(), f.rest.ID, dayD, at19, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{f.tableB.ID, c.ID, f.tableA.ID}, tableIDs(got))
}

func TestGetAvailableTables_ExcludesInactiveAndSmall(t *testing.T) {
	f := newFixture(t)
	f.addTable(t, "Big-off", 8, false)

	got, err := f.engine.GetAvailableTables(context.Background(), f.rest.ID, dayD, at19, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	for _, tb := range got {
		assert.True(t, tb.IsActive)
		assert.GreaterOrEqual(t, tb.SeatingCapacity, 3)
	}

	none, err := f.engine.GetAvailableTables(context.Background(), f.rest.ID, dayD, at19, 9)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGetAvailableTables_UnknownRestaurant(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.GetAvailableTables(context.Background(), 999, dayD, at19, 2)
	var nf *repository.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, repository.EntityRestaurant, nf.Entity)
}

func TestIsTableAvailable_Window(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.tableA.ID, at19, model.BookingConfirmed)
	ctx := context.Background()

	cases := []struct {
		name string
		date time.Time
		at   time.Duration
		want bool
	}{
		{"same time", dayD, at19, false},
		{"just inside after", dayD, at19 + window - time.Minute, false},
		{"just inside before", dayD, at19 - window + time.Minute, false},
		{"exactly W after", dayD, at19 + window, true},
		{"exactly W before", dayD, at19 - window, true},
		{"other date", dayD.AddDate(0, 0, 1), at19, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := f.engine.IsTableAvailable(ctx, f.tableA.ID, tc.date, tc.at)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}

	ok, err := f.engine.IsTableAvailable(ctx, f.tableB.ID, dayD, at19)
	require.NoError(t, err)
	assert.True(t, ok, "bookings on other tables do not block")
}

func TestIsTableAvailable_InactiveStatusesNeverBlock(t *testing.T) {
	for _, st := range []model.BookingStatus{model.BookingCancelled, model.BookingCompleted, model.BookingNoShow} {
		t.Run(string(st), func(t *testing.T) {
			f := newFixture(t)
			f.book(t, f.tableA.ID, at19, st)
			ok, err := f.engine.IsTableAvailable(context.Background(), f.tableA.ID, dayD, at19)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestIsTableAvailable_PendingBlocks(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.tableB.ID, at19+30*time.Minute, model.BookingPending)
	ok, err := f.engine.IsTableAvailable(context.Background(), f.tableB.ID, dayD, at19)
	require.NoError(t, err)
	assert.False(t, ok)

	tables, err := f.engine.GetAvailableTables(context.Background(), f.rest.ID, dayD, at19, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{f.tableA.ID}, tableIDs(tables))
}

func TestIsTableAvailable_UnknownTable(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.IsTableAvailable(context.Background(), 4242, dayD, at19)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBestFitTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tb, err := f.engine.BestFitTable(ctx, f.rest.ID, dayD, at19, 3)
	require.NoError(t, err)
	assert.Equal(t, f.tableA.ID, tb.ID)

	_, err = f.engine.BestFitTable(ctx, f.rest.ID, dayD, at19, 5)
	assert.ErrorIs(t, err, ErrNoTableAvailable)
}
