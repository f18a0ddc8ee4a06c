// Package router wires the HTTP handlers onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/restaurant-table-booking/internal/handler"
)

// RegisterRoutes registers the operational endpoints: the health check
// and the Prometheus scrape endpoint for g.
func RegisterRoutes(e *echo.Echo, g prometheus.Gatherer) {
	e.GET("/healthz", handler.Health)
	if g != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
	}
}

// RegisterAvailability registers the read-only availability queries.
func RegisterAvailability(e *echo.Echo, a *handler.AvailabilityHandler) {
	e.GET("/v1/restaurants/:id/availability", a.RestaurantAvailability)
	e.GET("/v1/tables/:id/availability", a.TableAvailability)
}

// RegisterBookings registers the booking lifecycle.  Every write passes
// through limiter; reads do not.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/bookings", limiter)
	g.POST("", b.Create)
	g.POST("/validate", b.Validate)
	g.POST("/:id/cancel", b.Cancel)
	g.POST("/:id/confirm", b.Confirm)
	g.POST("/:id/complete", b.Complete)
	g.POST("/:id/no-show", b.NoShow)

	e.GET("/v1/customers/:id/bookings/upcoming", b.Upcoming)
}

// RegisterAdmin registers the operator routes.  The table listing is
// served through cache; writes go through limiter.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, limiter, cache echo.MiddlewareFunc) {
	e.GET("/v1/restaurants", a.ListRestaurants)
	e.GET("/v1/restaurants/:id/tables", a.ListTables, cache)

	e.POST("/v1/restaurants", a.CreateRestaurant, limiter)
	e.POST("/v1/restaurants/:id/tables", a.CreateTable, limiter)
	e.PATCH("/v1/tables/:id", a.UpdateTable, limiter)
	e.POST("/v1/customers", a.CreateCustomer, limiter)
}
