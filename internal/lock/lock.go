// Package lock serialises booking creation per restaurant and service day.
// Two implementations exist: Local for a single process and Redis for
// several replicas sharing one Redis server.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
)

// ErrTimeout is returned when the lock could not be obtained before the
// context expired.
var ErrTimeout = errors.New("timed out waiting for lock")

// Locker hands out exclusive locks by key.  The returned unlock func is
// safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// SlotKey names the lock guarding all bookings of a restaurant on one
// calendar date.  The whole day is one bucket so that two requests whose
// times are within the seating window of each other always contend on the
// same key.
func SlotKey(restaurantID uint64, date time.Time) string {
	return fmt.Sprintf("slot:%d:%s", restaurantID, model.FormatDate(date))
}

func timeout(ctx context.Context, key string) error {
	return fmt.Errorf("%w: %s: %v", ErrTimeout, key, ctx.Err())
}
