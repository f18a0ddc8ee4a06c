package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
)

// TableRepo reads and writes the restaurant_tables table.  The table name
// avoids the TABLE keyword.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableColumns = `id, restaurant_id, table_number, seating_capacity, is_active, created_at, updated_at`

func scanTable(s rowScanner) (*model.Table, error) {
	var t model.Table
	if err := s.Scan(&t.ID, &t.RestaurantID, &t.TableNumber, &t.SeatingCapacity, &t.IsActive,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a table.  A duplicate table number inside the same
// restaurant is reported as ErrConflict.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const q = `INSERT INTO restaurant_tables (restaurant_id, table_number, seating_capacity, is_active, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.RestaurantID, t.TableNumber, t.SeatingCapacity, t.IsActive, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID returns the table or a NotFoundError.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM restaurant_tables WHERE id = ?`
	t, err := scanTable(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapNoRows(err, EntityTable, id)
	}
	return t, nil
}

// ListByRestaurant returns all tables of a restaurant, active or not,
// ordered by capacity and then id.
func (r *TableRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM restaurant_tables
	           WHERE restaurant_id = ? ORDER BY seating_capacity, id`
	rows, err := r.db.QueryContext(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Table, 0)
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetActive flips is_active and refreshes updated_at.  It returns the
// updated table.
func (r *TableRepo) SetActive(ctx context.Context, id uint64, active bool, now time.Time) (*model.Table, error) {
	const q = `UPDATE restaurant_tables SET is_active = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, active, now.UTC(), id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, NotFound(EntityTable, id)
	}
	return r.GetByID(ctx, id)
}
