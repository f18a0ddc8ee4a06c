package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
	"github.com/iliyamo/restaurant-table-booking/internal/service"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Bookings service.BookingService
}

func bindBooking(c echo.Context) (*model.Booking, error) {
	var body bookingRequest
	if err := c.Bind(&body); err != nil {
		return nil, err
	}
	return body.toModel()
}

// Create handles POST /v1/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	b, err := bindBooking(c)
	if err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}
	created, err := h.Bookings.CreateBooking(c.Request().Context(), b)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toBooking(created))
}

// Validate handles POST /v1/bookings/validate.  Broken rules are reported
// in the body with a 200; only malformed input or store failures change
// the status.
func (h *BookingHandler) Validate(c echo.Context) error {
	b, err := bindBooking(c)
	if err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}
	v, err := h.Bookings.ValidateBooking(c.Request().Context(), b)
	if err != nil {
		return writeError(c, err)
	}
	resp := echo.Map{"valid": v.Valid, "error": nil}
	if !v.Valid {
		resp["error"] = v.Reason
		resp["rule"] = v.Rule
	}
	return c.JSON(http.StatusOK, resp)
}

// Cancel handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	cancelled, err := h.Bookings.CancelBooking(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	status := http.StatusOK
	if !cancelled {
		status = http.StatusConflict
	}
	return c.JSON(status, echo.Map{"cancelled": cancelled})
}

// Confirm handles POST /v1/bookings/:id/confirm.
func (h *BookingHandler) Confirm(c echo.Context) error {
	return h.move(c, h.Bookings.ConfirmBooking)
}

// Complete handles POST /v1/bookings/:id/complete.
func (h *BookingHandler) Complete(c echo.Context) error {
	return h.move(c, h.Bookings.CompleteBooking)
}

// NoShow handles POST /v1/bookings/:id/no-show.
func (h *BookingHandler) NoShow(c echo.Context) error {
	return h.move(c, h.Bookings.MarkNoShow)
}

func (h *BookingHandler) move(c echo.Context, fn func(context.Context, uint64) (*model.Booking, error)) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	b, err := fn(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toBooking(b))
}

// Upcoming handles GET /v1/customers/:id/bookings/upcoming.
func (h *BookingHandler) Upcoming(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	list, err := h.Bookings.GetUpcomingBookings(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]bookingResponse, 0, len(list))
	for i := range list {
		out = append(out, toBooking(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
