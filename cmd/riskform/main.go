package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-riskform/internal/config"
	"github.com/goliatone/go-riskform/internal/logging"
)

var (
	// Global flags
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "riskform",
	Short: "Heart disease risk assessment form",
	Long: `riskform collects thirteen clinical measurements, validates each one
against its range and asks an external prediction service for a HIGH or LOW
risk level.

Configuration is layered: defaults, then the YAML file named by --config or
RISKFORM_CONFIG, then RISKFORM_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.LogLevel = logLevel
			if err := loaded.Validate(); err != nil {
				return err
			}
		}
		cfg = loaded

		logger, err = logging.New(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, promptCmd, validateCmd, fieldsCmd, contractCmd, stubCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
