package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-table-booking/internal/config"
	"github.com/iliyamo/restaurant-table-booking/internal/model"
	"github.com/iliyamo/restaurant-table-booking/internal/service"
)

func newAvailabilityCmd() *cobra.Command {
	var (
		restaurantID uint64
		dateStr      string
		timeStr      string
		guests       int
		store        string
	)

	cmd := &cobra.Command{
		Use:   "availability",
		Short: "List the tables free for a party at a given date and time",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := model.ParseDate(dateStr)
			if err != nil {
				return err
			}
			at, err := model.ParseTimeOfDay(timeStr)
			if err != nil {
				return err
			}
			if guests <= 0 {
				return fmt.Errorf("--guests must be greater than zero")
			}
			if store != "" {
				_ = os.Setenv("APP_STORE", store)
			}
			cfg := config.Load()

			st, closeStore, err := openStore(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer closeStore()

			engine := service.NewEngine(st, cfg.Booking.SeatingWindow, nil)
			tables, err := engine.GetAvailableTables(cmd.Context(), restaurantID, date, at, guests)
			if err != nil {
				return err
			}
			printAvailability(cmd.OutOrStdout(), restaurantID, model.NewSlot(date, at), guests, engine.Window(), tables)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&restaurantID, "restaurant", 0, "restaurant id")
	cmd.Flags().StringVar(&dateStr, "date", "", "booking date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&timeStr, "time", "", "booking time (HH:MM)")
	cmd.Flags().IntVar(&guests, "guests", 2, "party size")
	cmd.Flags().StringVar(&store, "store", "", "persistence backend (mysql or memory); overrides APP_STORE")
	_ = cmd.MarkFlagRequired("restaurant")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}

func printAvailability(w io.Writer, restaurantID uint64, slot model.Slot, guests int, window time.Duration, tables []model.Table) {
	fmt.Fprintf(w, "Restaurant %d, %s, party of %d (seating window %s)\n", restaurantID, slot, guests, window)
	if len(tables) == 0 {
		fmt.Fprintf(w, "  %s\n", color.New(color.FgRed).Sprint("no table available"))
		return
	}
	for i, t := range tables {
		marker := ""
		if i == 0 {
			marker = color.New(color.FgHiMagenta).Sprint(" ← best fit")
		}
		fmt.Fprintf(w, "  %s  seats %d  (id %d)%s\n",
			color.New(color.FgGreen).Sprintf("%-6s", t.TableNumber), t.SeatingCapacity, t.ID, marker)
	}
}
