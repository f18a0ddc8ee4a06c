package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-booking/internal/config"
	"github.com/iliyamo/restaurant-table-booking/internal/lock"
	"github.com/iliyamo/restaurant-table-booking/internal/model"
)

func TestRootHasCommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"server", "migrate", "consume", "availability", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestVersion(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "tablebook dev")
}

func TestAvailabilityRejectsBadDate(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"availability", "--restaurant", "1", "--date", "tomorrow", "--time", "19:00"})
	assert.Error(t, root.Execute())
}

func TestPrintAvailability(t *testing.T) {
	color.NoColor = true
	slot := model.NewSlot(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), 19*time.Hour)

	var out bytes.Buffer
	printAvailability(&out, 3, slot, 2, 90*time.Minute, []model.Table{
		{ID: 7, TableNumber: "B", SeatingCapacity: 2, IsActive: true},
		{ID: 6, TableNumber: "A", SeatingCapacity: 4, IsActive: true},
	})
	s := out.String()
	assert.Contains(t, s, "Restaurant 3, 2026-10-20 19:00, party of 2")
	assert.Contains(t, s, "seats 2  (id 7) ← best fit")
	assert.Contains(t, s, "seats 4  (id 6)\n")

	out.Reset()
	printAvailability(&out, 3, slot, 8, 90*time.Minute, nil)
	assert.Contains(t, out.String(), "no table available")
}

func TestNewLockerFallsBackWithoutRedis(t *testing.T) {
	l := newLocker(config.BookingConfig{LockBackend: config.LockRedis}, nil)
	_, ok := l.(*lock.Local)
	assert.True(t, ok)
}

func TestAvailabilityAgainstEmptyMemoryStore(t *testing.T) {
	t.Setenv("APP_STORE", config.StoreMemory)
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"availability", "--restaurant", "1", "--date", "2026-10-20", "--time", "19:00"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restaurant 1 not found")
}
