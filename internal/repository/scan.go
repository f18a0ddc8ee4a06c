package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// activeStatusSQL is the IN-list of statuses that occupy a table.
const activeStatusSQL = `('PENDING','CONFIRMED')`

// nullString converts an optional string into a value the driver stores as
// NULL when absent.
func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// timeOfDay scans a MySQL TIME column into a duration since midnight.
// The driver hands TIME values back as text even with parseTime=true.
type timeOfDay struct {
	d *time.Duration
}

func (t timeOfDay) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	case time.Duration:
		*t.d = v
		return nil
	case nil:
		return errors.New("booking_time is NULL")
	default:
		return fmt.Errorf("unsupported TIME value %T", src)
	}
	d, err := model.ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t.d = d
	return nil
}

// isDuplicateKey reports whether err is a MySQL unique key violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// mapNoRows turns sql.ErrNoRows into a NotFoundError for the entity.
func mapNoRows(err error, entity string, id uint64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound(entity, id)
	}
	return err
}
