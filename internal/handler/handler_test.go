package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-booking/internal/model"
	"github.com/iliyamo/restaurant-table-booking/internal/repository"
	"github.com/iliyamo/restaurant-table-booking/internal/repository/memory"
	"github.com/iliyamo/restaurant-table-booking/internal/service"
)

type recordingCache struct{ paths []string }

func (r *recordingCache) Invalidate(_ context.Context, path string) error {
	r.paths = append(r.paths, path)
	return nil
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{&service.ValidationError{Rule: service.RuleGuests, Reason: "too few"}, http.StatusUnprocessableEntity},
		{repository.NotFound(repository.EntityBooking, 3), http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", repository.ErrConflict), http.StatusConflict},
		{model.ErrInvalidTransition, http.StatusConflict},
		{fmt.Errorf("%w: name is required", model.ErrInvalidEntity), http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, rec := newContext(http.MethodGet, "/", "")
		require.NoError(t, writeError(c, tc.err))
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
	}
}

func TestValidationErrorCarriesRule(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/", "")
	require.NoError(t, writeError(c, &service.ValidationError{Rule: service.RuleDate, Reason: "booking date cannot be in the past"}))
	assert.JSONEq(t, `{"error":"booking date cannot be in the past","rule":"date"}`, rec.Body.String())
}

func TestBookingRequestToModel(t *testing.T) {
	req := bookingRequest{CustomerID: 1, RestaurantID: 2, BookingDate: "2026-10-20", BookingTime: "19:30", NumberOfGuests: 3}
	b, err := req.toModel()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), b.BookingDate)
	assert.Equal(t, 19*time.Hour+30*time.Minute, b.BookingTime)
	assert.Nil(t, b.TableID)

	req.BookingTime = "7pm"
	_, err = req.toModel()
	assert.Error(t, err)
}

func TestAdminTableWritesInvalidateCache(t *testing.T) {
	store := memory.New()
	cache := &recordingCache{}
	h := &AdminHandler{Store: store, Cache: cache}

	r := model.Restaurant{Name: "Harbour", Location: "Pier 3", Capacity: 4, IsActive: true}
	require.NoError(t, store.CreateRestaurant(context.Background(), &r))
	path := fmt.Sprintf("/v1/restaurants/%d/tables", r.ID)

	c, rec := newContext(http.MethodPost, path, `{"table_number":"T1","seating_capacity":4}`)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(r.ID))
	require.NoError(t, h.CreateTable(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	tables, err := store.ListTablesByRestaurant(context.Background(), r.ID)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	c, rec = newContext(http.MethodPatch, "/", `{"is_active":false}`)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(tables[0].ID))
	require.NoError(t, h.UpdateTable(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"is_active":false`)

	assert.Equal(t, []string{path, path}, cache.paths)
}
