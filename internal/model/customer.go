package model

// Customer is a person who makes bookings.
type Customer struct {
	ID          uint64 // customers.id
	FirstName   string // customers.first_name
	LastName    string // customers.last_name
	Email       string // customers.email
	PhoneNumber string // customers.phone_number
	Timestamps
}

// FullName joins first and last name.
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Validate checks required fields and column lengths.
func (c *Customer) Validate() error {
	if err := required("first_name", c.FirstName, MaxPersonNameLen); err != nil {
		return err
	}
	if err := required("last_name", c.LastName, MaxPersonNameLen); err != nil {
		return err
	}
	if err := required("email", c.Email, MaxEmailLen); err != nil {
		return err
	}
	return required("phone_number", c.PhoneNumber, MaxPhoneLen)
}
