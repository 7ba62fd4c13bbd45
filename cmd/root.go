package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/misterclayt0n/repcoach/internal/config"
	"github.com/misterclayt0n/repcoach/internal/logging"
	"github.com/misterclayt0n/repcoach/internal/rules"
	"github.com/misterclayt0n/repcoach/internal/storage"
)

var (
	cfg       *config.Config
	logCloser io.Closer
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:           "repcoach",
	Short:         "Pose-based exercise coach: counts reps, checks form and keeps a leaderboard",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}

		logCloser = logging.Setup(logging.LoggerSetupParams{
			LogFileName:   cfg.Logging.File,
			LogToStdout:   cfg.Logging.Stdout,
			LogLevel:      cfg.Logging.Level,
			LogFormatJSON: cfg.Logging.JSON,
		})
		logrus.WithField("command", cmd.Name()).Debug("starting")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
}

func openStorage() (*storage.Storage, error) {
	st, err := storage.NewStorage(cfg.DB.ConnectionString, cfg.DB.AuthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return st, nil
}

// loadTable builds the rule table from the built-in modes plus the custom modes file, if any.
func loadTable() (*rules.Table, error) {
	custom, err := loadCustomModes()
	if err != nil {
		return nil, err
	}
	return rules.Default(custom...)
}

func loadCustomModes() ([]rules.Mode, error) {
	if cfg.Coach.ModesFile == "" || !fileExists(cfg.Coach.ModesFile) {
		return nil, nil
	}
	modes, err := rules.LoadFile(cfg.Coach.ModesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom modes: %w", err)
	}
	return modes, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}
