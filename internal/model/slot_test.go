package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	d, err := ParseTimeOfDay("19:30")
	require.NoError(t, err)
	assert.Equal(t, 19*time.Hour+30*time.Minute, d)

	d, err = ParseTimeOfDay("07:05:09")
	require.NoError(t, err)
	assert.Equal(t, 7*time.Hour+5*time.Minute+9*time.Second, d)

	for _, bad := range []string{"", "7:00", "24:00", "12:60", "ab:cd"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatTimeOfDay(t *testing.T) {
	assert.Equal(t, "19:00", FormatTimeOfDay(19*time.Hour))
	assert.Equal(t, "08:05:00", FormatSQLTime(8*time.Hour+5*time.Minute))
}

func TestSlot_At(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	s := NewSlot(time.Date(2026, 5, 1, 23, 0, 0, 0, loc), 18*time.Hour)
	assert.Equal(t, time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC), s.At())
	assert.Equal(t, "2026-05-01 18:00", s.String())
}

func TestTable_Fits(t *testing.T) {
	tb := Table{SeatingCapacity: 4, IsActive: true}
	assert.True(t, tb.Fits(4))
	assert.False(t, tb.Fits(5))
	tb.SetActive(false, time.Now())
	assert.False(t, tb.Fits(2))
}

func TestSlotsOverlap(t *testing.T) {
	d := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	w := 90 * time.Minute
	at := func(h, m int) Slot { return NewSlot(d, time.Duration(h)*time.Hour+time.Duration(m)*time.Minute) }

	assert.True(t, SlotsOverlap(at(19, 0), at(19, 0), w))
	assert.True(t, SlotsOverlap(at(19, 0), at(20, 29), w))
	assert.False(t, SlotsOverlap(at(19, 0), at(20, 30), w), "exactly W apart does not conflict")
	assert.False(t, SlotsOverlap(at(19, 0), NewSlot(d.AddDate(0, 0, 1), 19*time.Hour), w))
}
