package handler

import (
	"time"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
)

// The model types carry no JSON tags; these are the wire shapes.  Dates
// are YYYY-MM-DD and times HH:MM.

type restaurantResponse struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Description *string   `json:"description,omitempty"`
	Capacity    int       `json:"capacity"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	Email       *string   `json:"email,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func toRestaurant(r *model.Restaurant) restaurantResponse {
	return restaurantResponse{
		ID:          r.ID,
		Name:        r.Name,
		Location:    r.Location,
		Description: r.Description,
		Capacity:    r.Capacity,
		PhoneNumber: r.PhoneNumber,
		Email:       r.Email,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
	}
}

type tableResponse struct {
	ID              uint64 `json:"id"`
	RestaurantID    uint64 `json:"restaurant_id"`
	TableNumber     string `json:"table_number"`
	SeatingCapacity int    `json:"seating_capacity"`
	IsActive        bool   `json:"is_active"`
}

func toTable(t *model.Table) tableResponse {
	return tableResponse{
		ID:              t.ID,
		RestaurantID:    t.RestaurantID,
		TableNumber:     t.TableNumber,
		SeatingCapacity: t.SeatingCapacity,
		IsActive:        t.IsActive,
	}
}

func toTables(ts []model.Table) []tableResponse {
	out := make([]tableResponse, 0, len(ts))
	for i := range ts {
		out = append(out, toTable(&ts[i]))
	}
	return out
}

type customerResponse struct {
	ID          uint64 `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

func toCustomer(c *model.Customer) customerResponse {
	return customerResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		FullName:    c.FullName(),
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
	}
}

type bookingResponse struct {
	ID              uint64    `json:"id"`
	CustomerID      uint64    `json:"customer_id"`
	RestaurantID    uint64    `json:"restaurant_id"`
	TableID         *uint64   `json:"table_id"`
	BookingDate     string    `json:"booking_date"`
	BookingTime     string    `json:"booking_time"`
	NumberOfGuests  int       `json:"number_of_guests"`
	Status          string    `json:"status"`
	SpecialRequests *string   `json:"special_requests,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toBooking(b *model.Booking) bookingResponse {
	return bookingResponse{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		RestaurantID:    b.RestaurantID,
		TableID:         b.TableID,
		BookingDate:     model.FormatDate(b.BookingDate),
		BookingTime:     model.FormatTimeOfDay(b.BookingTime),
		NumberOfGuests:  b.NumberOfGuests,
		Status:          string(b.Status),
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// bookingRequest is the body of POST /v1/bookings and /v1/bookings/validate.
type bookingRequest struct {
	CustomerID      uint64  `json:"customer_id"`
	RestaurantID    uint64  `json:"restaurant_id"`
	TableID         *uint64 `json:"table_id"`
	BookingDate     string  `json:"booking_date"`
	BookingTime     string  `json:"booking_time"`
	NumberOfGuests  int     `json:"number_of_guests"`
	SpecialRequests *string `json:"special_requests"`
}

// toModel parses the date and time; business rules are left to the
// booking service.
func (r bookingRequest) toModel() (*model.Booking, error) {
	date, err := model.ParseDate(r.BookingDate)
	if err != nil {
		return nil, err
	}
	at, err := model.ParseTimeOfDay(r.BookingTime)
	if err != nil {
		return nil, err
	}
	return &model.Booking{
		CustomerID:      r.CustomerID,
		RestaurantID:    r.RestaurantID,
		TableID:         r.TableID,
		BookingDate:     date,
		BookingTime:     at,
		NumberOfGuests:  r.NumberOfGuests,
		SpecialRequests: r.SpecialRequests,
	}, nil
}
