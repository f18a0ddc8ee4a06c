package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-table-booking/internal/config"
	"github.com/iliyamo/restaurant-table-booking/internal/queue"
)

func newConsumeCmd() *cobra.Command {
	var logDir string

	cmd := &cobra.Command{
		Use:   "consume",
		Short: "Append booking events from RabbitMQ to a log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDotEnv()
			url := os.Getenv("AMQP_URL")
			if url == "" {
				return fmt.Errorf("AMQP_URL is not set")
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			err := queue.NewConsumer(url, logDir).Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&logDir, "log-dir", "logs", "directory for booking.log")
	return cmd
}
