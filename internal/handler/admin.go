package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
	"github.com/iliyamo/restaurant-table-booking/internal/service"
)

// CacheInvalidator drops cached GET responses for a path.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, path string) error
}

// AdminHandler covers the operator routes: restaurants, their tables and
// customers.  Cache may be nil.
type AdminHandler struct {
	Store service.AdminStore
	Cache CacheInvalidator
	Now   func() time.Time
}

func (h *AdminHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

func (h *AdminHandler) invalidateTables(c echo.Context, restaurantID uint64) {
	if h.Cache == nil {
		return
	}
	path := fmt.Sprintf("/v1/restaurants/%d/tables", restaurantID)
	if err := h.Cache.Invalidate(c.Request().Context(), path); err != nil {
		log.Printf("handler: invalidate %s: %v", path, err)
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// CreateRestaurant handles POST /v1/restaurants.
func (h *AdminHandler) CreateRestaurant(c echo.Context) error {
	var body struct {
		Name        string  `json:"name"`
		Location    string  `json:"location"`
		Description *string `json:"description"`
		Capacity    int     `json:"capacity"`
		PhoneNumber *string `json:"phone_number"`
		Email       *string `json:"email"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	r := &model.Restaurant{
		Name:        strings.TrimSpace(body.Name),
		Location:    strings.TrimSpace(body.Location),
		Description: trimmed(body.Description),
		Capacity:    body.Capacity,
		PhoneNumber: trimmed(body.PhoneNumber),
		Email:       trimmed(body.Email),
		IsActive:    body.IsActive == nil || *body.IsActive,
	}
	if err := r.Validate(); err != nil {
		return writeError(c, err)
	}
	r.Stamp(h.now())
	if err := h.Store.CreateRestaurant(c.Request().Context(), r); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toRestaurant(r))
}

// ListRestaurants handles GET /v1/restaurants.
func (h *AdminHandler) ListRestaurants(c echo.Context) error {
	list, err := h.Store.ListRestaurants(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]restaurantResponse, 0, len(list))
	for i := range list {
		out = append(out, toRestaurant(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListTables handles GET /v1/restaurants/:id/tables.  Inactive tables are
// included.
func (h *AdminHandler) ListTables(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx := c.Request().Context()
	if _, err := h.Store.GetRestaurant(ctx, id); err != nil {
		return writeError(c, err)
	}
	tables, err := h.Store.ListTablesByRestaurant(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toTables(tables)})
}

// CreateTable handles POST /v1/restaurants/:id/tables.
func (h *AdminHandler) CreateTable(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var body struct {
		TableNumber     string `json:"table_number"`
		SeatingCapacity int    `json:"seating_capacity"`
		IsActive        *bool  `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	t := &model.Table{
		RestaurantID:    id,
		TableNumber:     strings.TrimSpace(body.TableNumber),
		SeatingCapacity: body.SeatingCapacity,
		IsActive:        body.IsActive == nil || *body.IsActive,
	}
	if err := t.Validate(); err != nil {
		return writeError(c, err)
	}
	t.Stamp(h.now())
	if err := h.Store.CreateTable(c.Request().Context(), t); err != nil {
		return writeError(c, err)
	}
	h.invalidateTables(c, id)
	return c.JSON(http.StatusCreated, toTable(t))
}

// UpdateTable handles PATCH /v1/tables/:id.  Only is_active can change.
func (h *AdminHandler) UpdateTable(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil || body.IsActive == nil {
		return badRequest(c, "is_active is required")
	}
	t, err := h.Store.SetTableActive(c.Request().Context(), id, *body.IsActive, h.now())
	if err != nil {
		return writeError(c, err)
	}
	h.invalidateTables(c, t.RestaurantID)
	return c.JSON(http.StatusOK, toTable(t))
}

// CreateCustomer handles POST /v1/customers.
func (h *AdminHandler) CreateCustomer(c echo.Context) error {
	var body struct {
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	cu := &model.Customer{
		FirstName:   strings.TrimSpace(body.FirstName),
		LastName:    strings.TrimSpace(body.LastName),
		Email:       strings.TrimSpace(body.Email),
		PhoneNumber: strings.TrimSpace(body.PhoneNumber),
	}
	if err := cu.Validate(); err != nil {
		return writeError(c, err)
	}
	cu.Stamp(h.now())
	if err := h.Store.CreateCustomer(c.Request().Context(), cu); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toCustomer(cu))
}
