package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
	"github.com/iliyamo/restaurant-table-booking/internal/service"
)

// AvailabilityHandler serves the read-only availability queries.
type AvailabilityHandler struct {
	Checker service.AvailabilityChecker
}

// RestaurantAvailability handles
// GET /v1/restaurants/:id/availability?date=YYYY-MM-DD&time=HH:MM&guests=N
// and lists the free tables that can seat the party, smallest first.
func (h *AvailabilityHandler) RestaurantAvailability(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	date, err := model.ParseDate(c.QueryParam("date"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	at, err := model.ParseTimeOfDay(c.QueryParam("time"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	guests, err := strconv.Atoi(c.QueryParam("guests"))
	if err != nil || guests <= 0 {
		return badRequest(c, "guests must be a positive integer")
	}
	tables, err := h.Checker.GetAvailableTables(c.Request().Context(), id, date, at, guests)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"restaurant_id": id,
		"date":          model.FormatDate(date),
		"time":          model.FormatTimeOfDay(at),
		"guests":        guests,
		"items":         toTables(tables),
	})
}

// TableAvailability handles GET /v1/tables/:id/availability?date=&time=.
func (h *AvailabilityHandler) TableAvailability(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	date, err := model.ParseDate(c.QueryParam("date"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	at, err := model.ParseTimeOfDay(c.QueryParam("time"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	free, err := h.Checker.IsTableAvailable(c.Request().Context(), id, date, at)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"table_id": id, "available": free})
}
