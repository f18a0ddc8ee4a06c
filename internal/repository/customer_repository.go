package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
)

// CustomerRepo reads and writes the customers table.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// Create inserts a customer.  Emails are stored lower-cased and must be
// unique; a duplicate is reported as ErrConflict.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	const q = `INSERT INTO customers (first_name, last_name, email, phone_number, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.CreatedAt, c.UpdatedAt)
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
	c.ID = uint64(id)
	return nil
}

// GetByID returns the customer or a NotFoundError.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	const q = `SELECT id, first_name, last_name, email, phone_number, created_at, updated_at
	           FROM customers WHERE id = ?`
	var c model.Customer
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapNoRows(err, EntityCustomer, id)
	}
	return &c, nil
}
