package config

import "time"

// Lock backends for the slot lock.
const (
	LockLocal = "local"
	LockRedis = "redis"
)

// BookingConfig tunes the booking core.
//
//	SeatingWindow – two bookings on the same table and date conflict when
//	                their start times are less than this apart.
//	LockBackend   – "local" (in-process) or "redis" (shared by replicas).
//	LockTTL       – expiry of a redis slot lock if its holder dies.
//	LockWait      – how long CreateBooking waits for the slot lock.
//	LockPrefix    – redis key prefix for slot locks.
type BookingConfig struct {
	SeatingWindow time.Duration
	LockBackend   string
	LockTTL       time.Duration
	LockWait      time.Duration
	LockPrefix    string
}

// LoadBookingConfig reads the BOOKING_* variables.  Non-positive durations
// fall back to the defaults.
func LoadBookingConfig() BookingConfig {
	c := BookingConfig{
		SeatingWindow: envDur("BOOKING_SEATING_WINDOW", 90*time.Minute),
		LockBackend:   envStr("BOOKING_LOCK_BACKEND", LockLocal),
		LockTTL:       envDur("BOOKING_LOCK_TTL", 10*time.Second),
		LockWait:      envDur("BOOKING_LOCK_WAIT", 3*time.Second),
		LockPrefix:    envStr("BOOKING_LOCK_PREFIX", "lock"),
	}
	if c.SeatingWindow <= 0 {
		c.SeatingWindow = 90 * time.Minute
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 10 * time.Second
	}
	if c.LockWait <= 0 {
		c.LockWait = 3 * time.Second
	}
	if c.LockBackend != LockRedis {
		c.LockBackend = LockLocal
	}
	return c
}
