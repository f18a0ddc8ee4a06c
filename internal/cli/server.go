package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-table-booking/internal/config"
	"github.com/iliyamo/restaurant-table-booking/internal/handler"
	"github.com/iliyamo/restaurant-table-booking/internal/metrics"
	"github.com/iliyamo/restaurant-table-booking/internal/middleware"
	"github.com/iliyamo/restaurant-table-booking/internal/queue"
	"github.com/iliyamo/restaurant-table-booking/internal/router"
	"github.com/iliyamo/restaurant-table-booking/internal/service"
)

func newServerCmd() *cobra.Command {
	var (
		migrateUp bool
		store     string
	)

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if store != "" {
				_ = os.Setenv("APP_STORE", store)
			}
			cfg := config.Load()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			st, closeStore, err := openStore(ctx, cfg, migrateUp)
			if err != nil {
				return err
			}
			defer closeStore()

			rdb := config.NewRedisClient(config.LoadRedisConfig())
			if rdb == nil {
				log.Printf("redis: unavailable, rate limiting and response cache disabled")
			} else {
				defer rdb.Close()
			}

			m := metrics.New(prometheus.DefaultRegisterer)
			engine := service.NewEngine(st, cfg.Booking.SeatingWindow, m)
			opts := []service.Option{
				service.WithLocker(newLocker(cfg.Booking, rdb)),
				service.WithLockWait(cfg.Booking.LockWait),
				service.WithMetrics(m),
			}
			if cfg.AMQPURL != "" {
				pub := queue.NewPublisher(cfg.AMQPURL)
				defer pub.Close()
				opts = append(opts, service.WithPublisher(pub))
			}
			manager := service.NewManager(st, engine, opts...)

			limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
			cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

			e := echo.New()
			e.HideBanner = true
			e.Use(echomw.Recover())
			e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
				LogMethod:  true,
				LogURI:     true,
				LogStatus:  true,
				LogLatency: true,
				LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
					log.Printf("http: %s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
					return nil
				},
			}))
			router.RegisterRoutes(e, prometheus.DefaultGatherer)
			router.RegisterAvailability(e, &handler.AvailabilityHandler{Checker: engine})
			router.RegisterBookings(e, &handler.BookingHandler{Bookings: manager}, limiter)
			router.RegisterAdmin(e, &handler.AdminHandler{Store: st, Cache: cache}, limiter, cache.Middleware())

			go func() {
				<-ctx.Done()
				sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer scancel()
				if err := e.Shutdown(sctx); err != nil {
					log.Printf("http: shutdown: %v", err)
				}
			}()

			addr := ":" + cfg.Port
			log.Printf("listening on %s (env=%s store=%s lock=%s window=%s)",
				addr, cfg.Env, cfg.Store, cfg.Booking.LockBackend, cfg.Booking.SeatingWindow)
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	cmd.Flags().StringVar(&store, "store", "", "persistence backend (mysql or memory); overrides APP_STORE")
	return cmd
}
