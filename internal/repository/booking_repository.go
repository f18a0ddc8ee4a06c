package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
)

// BookingRepo reads and writes the bookings table.  Bookings are never
// deleted; cancellation and the other lifecycle moves are status updates.
// booking_date is a DATE and booking_time a TIME column, both without zone
// and interpreted as UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, customer_id, restaurant_id, table_id, booking_date, booking_time,
	number_of_guests, status, special_requests, created_at, updated_at`

func scanBooking(s rowScanner) (*model.Booking, error) {
	var b model.Booking
	var tableID sql.NullInt64
	var status string
	var requests sql.NullString
	if err := s.Scan(&b.ID, &b.CustomerID, &b.RestaurantID, &tableID, &b.BookingDate, timeOfDay{&b.BookingTime},
		&b.NumberOfGuests, &status, &requests, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	st, err := model.ParseBookingStatus(status)
	if err != nil {
		return nil, err
	}
	b.Status = st
	b.BookingDate = model.DateOnly(b.BookingDate)
	if tableID.Valid {
		id := uint64(tableID.Int64)
		b.TableID = &id
	}
	b.SpecialRequests = stringPtr(requests)
	return &b, nil
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns the booking or a NotFoundError.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapNoRows(err, EntityBooking, id)
	}
	return b, nil
}

// ListActiveByTableAndDate returns the Pending and Confirmed bookings held
// on a table for one calendar date.
func (r *BookingRepo) ListActiveByTableAndDate(ctx context.Context, tableID uint64, date time.Time) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
	           WHERE table_id = ? AND booking_date = ? AND status IN ` + activeStatusSQL + `
	           ORDER BY booking_time, id`
	return r.list(ctx, q, tableID, model.FormatDate(date))
}

// ListActiveByRestaurantAndDate returns the Pending and Confirmed bookings
// of a restaurant for one calendar date.  The availability engine loads
// them once per query instead of once per table.
func (r *BookingRepo) ListActiveByRestaurantAndDate(ctx context.Context, restaurantID uint64, date time.Time) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
	           WHERE restaurant_id = ? AND booking_date = ? AND status IN ` + activeStatusSQL + `
	           ORDER BY table_id, booking_time, id`
	return r.list(ctx, q, restaurantID, model.FormatDate(date))
}

// ListByCustomer returns every booking of a customer ordered by date and
// time.
func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
	           WHERE customer_id = ? ORDER BY booking_date, booking_time, id`
	return r.list(ctx, q, customerID)
}

// CreateIfTableFree inserts b only when its table has no active booking on
// the same date whose start time is less than window away from b's.  The
// table row is locked with SELECT ... FOR UPDATE for the duration of the
// transaction so two writers for the same table serialise on it; the
// loser re-counts, sees the winner's row and gets ErrConflict.
func (r *BookingRepo) CreateIfTableFree(ctx context.Context, b *model.Booking, window time.Duration) error {
	if !b.HasTable() {
		return fmt.Errorf("create booking: table not assigned")
	}
	tableID := *b.TableID

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const lockQ = `SELECT id FROM restaurant_tables WHERE id = ? FOR UPDATE`
	var locked uint64
	if err := tx.QueryRowContext(ctx, lockQ, tableID).Scan(&locked); err != nil {
		return mapNoRows(err, EntityTable, tableID)
	}

	const countQ = `SELECT COUNT(*) FROM bookings
	                WHERE table_id = ? AND booking_date = ? AND status IN ` + activeStatusSQL + `
	                AND ABS(TIME_TO_SEC(booking_time) - ?) < ?`
	var overlapping int
	if err := tx.QueryRowContext(ctx, countQ, tableID, model.FormatDate(b.BookingDate),
		int64(b.BookingTime/time.Second), int64(window/time.Second)).Scan(&overlapping); err != nil {
		return err
	}
	if overlapping > 0 {
		return ErrConflict
	}

	const insQ = `INSERT INTO bookings (customer_id, restaurant_id, table_id, booking_date, booking_time,
	              number_of_guests, status, special_requests, created_at, updated_at)
	              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, insQ, b.CustomerID, b.RestaurantID, tableID, model.FormatDate(b.BookingDate),
		model.FormatSQLTime(b.BookingTime), b.NumberOfGuests, string(b.Status), nullString(b.SpecialRequests),
		b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	b.ID = uint64(id)
	return nil
}

// UpdateStatus persists b.Status and b.UpdatedAt, but only while the stored
// status still equals from.  A booking that no longer exists yields a
// NotFoundError; one whose status moved in the meantime yields ErrConflict.
func (r *BookingRepo) UpdateStatus(ctx context.Context, b *model.Booking, from model.BookingStatus) error {
	const q = `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, string(b.Status), b.UpdatedAt, b.ID, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	const existsQ = `SELECT COUNT(*) FROM bookings WHERE id = ?`
	var count int
	if err := r.db.QueryRowContext(ctx, existsQ, b.ID).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return NotFound(EntityBooking, b.ID)
	}
	return ErrConflict
}
