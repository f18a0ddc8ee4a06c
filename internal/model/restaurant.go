package model

// Restaurant is a venue that owns a set of tables and receives bookings.
// Capacity is the operator-declared maximum number of covers; it is not
// reconciled against the sum of table capacities.  Inactive restaurants
// accept no new bookings.
//
// Fields:
//
//	ID          – primary key identifier.
//	Name        – display name.
//	Location    – free-form address.
//	Description – optional description.
//	Capacity    – maximum total covers.
//	PhoneNumber – optional contact phone.
//	Email       – optional contact email.
//	IsActive    – whether the restaurant takes bookings.
type Restaurant struct {
	ID          uint64  // restaurants.id
	Name        string  // restaurants.name
	Location    string  // restaurants.location
	Description *string // restaurants.description (nullable)
	Capacity    int     // restaurants.capacity
	PhoneNumber *string // restaurants.phone_number (nullable)
	Email       *string // restaurants.email (nullable)
	IsActive    bool    // restaurants.is_active
	Timestamps
}

// Validate checks required fields and column lengths.
func (r *Restaurant) Validate() error {
	if err := required("name", r.Name, MaxRestaurantNameLen); err != nil {
		return err
	}
	if err := required("location", r.Location, MaxLocationLen); err != nil {
		return err
	}
	if err := optional("description", r.Description, MaxDescriptionLen); err != nil {
		return err
	}
	if r.Capacity <= 0 {
		return invalid("capacity must be greater than zero")
	}
	if err := optional("phone_number", r.PhoneNumber, MaxPhoneLen); err != nil {
		return err
	}
	return optional("email", r.Email, MaxEmailLen)
}
