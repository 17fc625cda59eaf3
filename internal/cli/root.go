package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/strum/internal/config"
	"github.com/tessro/strum/internal/errors"
	"github.com/tessro/strum/internal/logging"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg       *config.Config
	closeLogs func()
)

var rootCmd = &cobra.Command{
	Use:   "strum [path]",
	Short: "Play albums from the terminal",
	Long: `Strum is a terminal audio player built around whole albums: it scans
your library for directories of audio files and plays them start to
finish, with randomized jumps across the library when you want them.

Run it bare to open the player on your library, or give it a directory
to play just that.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		return initLogging()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLogs != nil {
			closeLogs()
		}
	},
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.config/strum/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// initLogging routes slog to the configured log file. The terminal
// stays clean for the TUI; subcommands report through their own output.
func initLogging() error {
	closer, err := logging.Setup(cfg.Log, verbose)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	closeLogs = closer
	return nil
}

// Execute runs the root command, reporting the failure and its
// suggestion once on stderr.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
