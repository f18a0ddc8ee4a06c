package service

import "errors"

// ErrNoTableAvailable is returned by BestFitTable when no active table of
// sufficient capacity is free for the slot.
var ErrNoTableAvailable = errors.New("no table available")

// ValidationError is a violated business rule.  Rule is a stable
// identifier; Reason is meant for humans.
type ValidationError struct {
	Rule   string
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Validation rule identifiers.
const (
	RuleGuests          = "guests"
	RuleSpecialRequests = "special_requests"
	RuleTime            = "time"
	RuleDate            = "date"
	RuleRestaurant      = "restaurant"
	RuleCustomer        = "customer"
	RuleTable           = "table"
	RuleAvailability    = "availability"
	RuleBooking         = "booking"
)

// Validation is the outcome of ValidateBooking.  A failed rule is data,
// not an error; Err converts it into one for callers that want to return
// it.
type Validation struct {
	Valid  bool
	Rule   string
	Reason string

	cause error // NotFoundError behind a failed existence rule
}

func valid() Validation { return Validation{Valid: true} }

func failed(rule, reason string) Validation {
	return Validation{Rule: rule, Reason: reason}
}

func missing(rule string, err error) Validation {
	return Validation{Rule: rule, Reason: err.Error(), cause: err}
}

// Err returns nil for a valid booking, the repository.NotFoundError when a
// referenced entity does not exist, and a *ValidationError otherwise.
func (v Validation) Err() error {
	if v.Valid {
		return nil
	}
	if v.cause != nil {
		return v.cause
	}
	return &ValidationError{Rule: v.Rule, Reason: v.Reason}
}
