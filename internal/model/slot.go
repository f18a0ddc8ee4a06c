package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	day        = 24 * time.Hour
)

// Slot is a (date, time-of-day) pair: the seating time a customer asks for
// or a booking occupies.  Date is always normalised to midnight UTC and
// Time is the offset from that midnight.
type Slot struct {
	Date time.Time
	Time time.Duration
}

// NewSlot builds a Slot, truncating date to its calendar day.
func NewSlot(date time.Time, timeOfDay time.Duration) Slot {
	return Slot{Date: DateOnly(date), Time: timeOfDay}
}

// At returns the absolute instant of the slot.
func (s Slot) At() time.Time { return DateOnly(s.Date).Add(s.Time) }

// String formats the slot as "YYYY-MM-DD HH:MM".
func (s Slot) String() string {
	return FormatDate(s.Date) + " " + FormatTimeOfDay(s.Time)
}

// SlotsOverlap reports whether two slots fall on the same calendar date
// and their times are strictly less than window apart.
func SlotsOverlap(a, b Slot, window time.Duration) bool {
	if !DateOnly(a.Date).Equal(DateOnly(b.Date)) {
		return false
	}
	d := a.Time - b.Time
	if d < 0 {
		d = -d
	}
	return d < window
}

// DateOnly drops the clock part of t and returns midnight UTC of the same
// calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string { return t.Format(dateLayout) }

// ParseTimeOfDay accepts HH:MM or HH:MM:SS and returns the offset from
// midnight.  Values outside [00:00, 24:00) are rejected.
func ParseTimeOfDay(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	var h, m, sec int
	var n int
	var err error
	switch len(s) {
	case 5:
		n, err = fmt.Sscanf(s, "%02d:%02d", &h, &m)
		if n != 2 {
			err = fmt.Errorf("short read")
		}
	case 8:
		n, err = fmt.Sscanf(s, "%02d:%02d:%02d", &h, &m, &sec)
		if n != 3 {
			err = fmt.Errorf("short read")
		}
	default:
		err = fmt.Errorf("bad length")
	}
	if err != nil || h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

// FormatTimeOfDay renders an offset from midnight as HH:MM.
func FormatTimeOfDay(d time.Duration) string {
	d = ((d % day) + day) % day
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

// FormatSQLTime renders an offset from midnight as HH:MM:SS for TIME columns.
func FormatSQLTime(d time.Duration) string {
	d = ((d % day) + day) % day
	return fmt.Sprintf("%02d:%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute), int(d%time.Minute/time.Second))
}
