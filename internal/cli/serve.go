package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	application "github.com/rocketscienceinc/morris-backend/internal"
	"github.com/rocketscienceinc/morris-backend/internal/config"
	"github.com/rocketscienceinc/morris-backend/internal/logger"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the websocket and HTTP servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.Load(rootOpts.ConfigPath)
			if err != nil {
				return err
			}

			log := logger.New(conf)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err = application.RunApp(ctx, log, conf); err != nil {
				return fmt.Errorf("app run failed: %w", err)
			}

			return nil
		},
	}
}
