package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/thruflo/curvr/internal/config"
	"github.com/thruflo/curvr/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	rootDir      string
	rootLogLevel string
	rootLogFile  string
)

// loadedConfig is the configuration resolved for the running command.
var loadedConfig *config.Config

// logFile is closed when the command finishes.
var logFile *os.File

var rootCmd = &cobra.Command{
	Use:   "curvr",
	Short: "Pipe bend radius calculator",
	Long: `curvr computes the curve radius of a bent pipe from a sagitta reading:
the deviation measured between two points 200 mm apart along the pipe.

It reports the radius at the pipe's centerline and at the point of
measurement. Without a subcommand it opens the interactive calculator.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	RunE:               runTUI,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("curvr version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "C", ".", "directory containing .curvr/config.yaml")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&rootLogFile, "log-file", "", "append logs to this file instead of stderr")

	rootCmd.Flags().BoolVar(&tuiWatchConfig, "watch-config", false, "reload the config file when it changes")
}

// setup loads configuration and points the default logger at its output.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	loadedConfig = cfg

	levelName := cfg.LogLevel
	if cmd.Flags().Changed("log-level") {
		levelName = rootLogLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	logging.SetLevel(level)

	if rootLogFile != "" {
		f, err := os.OpenFile(rootLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		logging.SetOutput(log.New(f, "", log.LstdFlags))
	}

	logging.Debug("config loaded",
		"path", config.Path(rootDir),
		"default_pipe_radius", cfg.Pipe.DefaultRadiusMM,
		"settle", cfg.SettleTime())
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if logFile == nil {
		return nil
	}
	logging.SetOutput(log.New(os.Stderr, "", log.LstdFlags))
	err := logFile.Close()
	logFile = nil
	return err
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
