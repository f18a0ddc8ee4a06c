package model

import "time"

// Table is a physical table inside a restaurant.  A table belongs to
// exactly one restaurant and seats at most SeatingCapacity guests.
// Inactive tables are never offered or booked.
//
// Fields:
//
//	ID              – primary key identifier.
//	RestaurantID    – owning restaurant.
//	TableNumber     – operator label, unique per restaurant.
//	SeatingCapacity – number of seats (positive).
//	IsActive        – whether the table can be booked.
type Table struct {
	ID              uint64 // tables.id
	RestaurantID    uint64 // tables.restaurant_id
	TableNumber     string // tables.table_number
	SeatingCapacity int    // tables.seating_capacity
	IsActive        bool   // tables.is_active
	Timestamps
}

// Validate checks required fields and column lengths.
func (t *Table) Validate() error {
	if t.RestaurantID == 0 {
		return invalid("restaurant_id is required")
	}
	if err := required("table_number", t.TableNumber, MaxTableNumberLen); err != nil {
		return err
	}
	if t.SeatingCapacity <= 0 {
		return invalid("seating_capacity must be greater than zero")
	}
	return nil
}

// Fits reports whether the table is active and large enough for guests.
func (t *Table) Fits(guests int) bool {
	return t.IsActive && t.SeatingCapacity >= guests
}

// SetActive toggles the active flag and refreshes UpdatedAt.
func (t *Table) SetActive(active bool, now time.Time) {
	t.IsActive = active
	t.Touch(now)
}
