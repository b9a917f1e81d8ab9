package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thruflo/curvr/internal/config"
	"github.com/thruflo/curvr/internal/logging"
	"github.com/thruflo/curvr/internal/tui"
)

var tuiWatchConfig bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive calculator",
	Long: `Opens a full-screen calculator. Type the measured distance and the
pipe radius; results update once typing pauses.

Keys:
  tab, up, down   move between fields
  ctrl+r          reset the pipe radius to the default
  esc, ctrl+c     quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiWatchConfig, "watch-config", false, "reload the config file when it changes")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := loadedConfig
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}

	app := tui.NewApp(tui.NewTerminal(os.Stdin, cmd.OutOrStdout()), tui.Options{
		SettleTime:        cfg.SettleTime(),
		DefaultPipeRadius: cfg.Pipe.DefaultRadiusMM,
		Logger:            logging.With("component", "calculator"),
	})

	if tuiWatchConfig {
		go func() {
			err := config.Watch(ctx, rootDir, func(updated *config.Config) {
				app.SetDefaultPipeRadius(updated.Pipe.DefaultRadiusMM)
			})
			if err != nil {
				logging.Warn("config watch stopped", "error", err)
			}
		}()
	}

	err := app.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
