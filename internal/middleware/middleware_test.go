package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-booking/internal/config"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTokenBucketRejectsWhenEmpty(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
	limiter := NewTokenBucket(cfg, newRedis(t))
	e := echo.New()
	e.POST("/v1/bookings", func(c echo.Context) error { return c.NoContent(http.StatusCreated) }, limiter)
	e.POST("/v1/customers", func(c echo.Context) error { return c.NoContent(http.StatusCreated) }, limiter)

	assert.Equal(t, http.StatusCreated, serve(e, http.MethodPost, "/v1/bookings").Code)
	rec := serve(e, http.MethodPost, "/v1/bookings")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = serve(e, http.MethodPost, "/v1/bookings")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// other routes have their own bucket
	assert.Equal(t, http.StatusCreated, serve(e, http.MethodPost, "/v1/customers").Code)
}

func TestTokenBucketWithoutRedisPassesThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1}
	e := echo.New()
	e.POST("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(cfg, nil))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/x").Code)
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings/7/cancel", nil)
	req.RemoteAddr = "10.0.0.9:1"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/bookings/:id/cancel")

	assert.Equal(t, "rl:ip:10.0.0.9", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
	assert.Equal(t, "rl:ip:10.0.0.9:route:POST /v1/bookings/:id/cancel",
		buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}, c))
}

func TestResponseCacheHitAndInvalidate(t *testing.T) {
	rdb := newRedis(t)
	rc := NewResponseCache(config.CacheConfig{
		Enabled: true,
		Methods: map[string]bool{http.MethodGet: true},
		TTL:     time.Minute,
		Prefix:  "cache",
	}, rdb)

	calls := 0
	e := echo.New()
	e.GET("/v1/restaurants/:id/tables", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "calls": calls})
	}, rc.Middleware())

	first := serve(e, http.MethodGet, "/v1/restaurants/1/tables")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := serve(e, http.MethodGet, "/v1/restaurants/1/tables")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	other := serve(e, http.MethodGet, "/v1/restaurants/2/tables")
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"), "paths must not share entries")

	require.NoError(t, rc.Invalidate(context.Background(), "/v1/restaurants/1/tables"))
	third := serve(e, http.MethodGet, "/v1/restaurants/1/tables")
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, 3, calls)

	assert.Equal(t, "HIT", serve(e, http.MethodGet, "/v1/restaurants/2/tables").Header().Get("X-Cache"))
}

func TestResponseCacheSkipsErrors(t *testing.T) {
	rc := NewResponseCache(config.CacheConfig{
		Enabled: true,
		Methods: map[string]bool{http.MethodGet: true},
		Prefix:  "cache",
	}, newRedis(t))
	e := echo.New()
	e.GET("/missing", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "nope"})
	}, rc.Middleware())

	serve(e, http.MethodGet, "/missing")
	assert.Equal(t, "MISS", serve(e, http.MethodGet, "/missing").Header().Get("X-Cache"))
}

func TestPayloadRoundTrip(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	bs, err := encodePayload(http.StatusOK, h, []byte(`{"a":1}`))
	require.NoError(t, err)
	status, hdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", hdr.Get("Content-Type"))
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{1, 2})
	assert.False(t, ok)
}
