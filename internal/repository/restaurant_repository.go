package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
)

// RestaurantRepo reads and writes the restaurants table.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo returns a RestaurantRepo bound to the given database.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

const restaurantColumns = `id, name, location, description, capacity, phone_number, email, is_active, created_at, updated_at`

func scanRestaurant(s rowScanner) (*model.Restaurant, error) {
	var r model.Restaurant
	var desc, phone, email sql.NullString
	if err := s.Scan(&r.ID, &r.Name, &r.Location, &desc, &r.Capacity, &phone, &email,
		&r.IsActive, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Description = stringPtr(desc)
	r.PhoneNumber = stringPtr(phone)
	r.Email = stringPtr(email)
	return &r, nil
}

// Create inserts a restaurant and populates its ID.  Timestamps must be
// stamped by the caller.
func (r *RestaurantRepo) Create(ctx context.Context, rest *model.Restaurant) error {
	const q = `INSERT INTO restaurants (name, location, description, capacity, phone_number, email, is_active, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rest.Name, rest.Location, nullString(rest.Description), rest.Capacity,
		nullString(rest.PhoneNumber), nullString(rest.Email), rest.IsActive, rest.CreatedAt, rest.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rest.ID = uint64(id)
	return nil
}

// GetByID returns the restaurant or a NotFoundError.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	const q = `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = ?`
	rest, err := scanRestaurant(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapNoRows(err, EntityRestaurant, id)
	}
	return rest, nil
}

// List returns every restaurant ordered by id.
func (r *RestaurantRepo) List(ctx context.Context) ([]model.Restaurant, error) {
	const q = `SELECT ` + restaurantColumns + ` FROM restaurants ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Restaurant, 0)
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rest)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
