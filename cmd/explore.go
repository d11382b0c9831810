package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
	"github.com/xkilldash9x/webscout-cli/internal/browser"
	"github.com/xkilldash9x/webscout-cli/internal/config"
	"github.com/xkilldash9x/webscout-cli/internal/explorer"
	"github.com/xkilldash9x/webscout-cli/internal/observability"
	"github.com/xkilldash9x/webscout-cli/internal/oracle"
	"github.com/xkilldash9x/webscout-cli/internal/report"
)

// newExploreCmd creates and configures the `explore` command.
func newExploreCmd() *cobra.Command {
	exploreCmd := &cobra.Command{
		Use:   "explore [url]",
		Short: "Explores the target site and writes a JSON report",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their viper keys so CLI flags correctly override
			// values from the config file and environment variables.
			if err := viper.BindPFlag("explore.max_depth", cmd.Flags().Lookup("depth")); err != nil {
				return err
			}
			if err := viper.BindPFlag("explore.output_dir", cmd.Flags().Lookup("output")); err != nil {
				return err
			}
			if err := viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless")); err != nil {
				return err
			}
			return viper.BindPFlag("network.navigation_timeout", cmd.Flags().Lookup("timeout"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Use the context passed from Execute (signal-aware).
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// Re-resolve the config now that flags are bound; validation runs
			// against the final values.
			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}

			target := args[0]
			if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
				target = "https://" + target
			}

			runID := uuid.New().String()
			logger.Info("Starting exploration",
				zap.String("runID", runID),
				zap.String("target", target),
				zap.Int("depth", cfg.Explore.MaxDepth),
				zap.Bool("oracle_enabled", cfg.Oracle.Enabled()),
			)

			driver, err := browser.NewDriver(ctx, cfg.Browser, cfg.Network, logger)
			if err != nil {
				return fmt.Errorf("failed to start browser: %w", err)
			}
			defer func() {
				if err := driver.Close(); err != nil {
					logger.Warn("Error during browser shutdown", zap.Error(err))
				}
			}()

			var judge schemas.Judge = oracle.NopJudge{}
			if cfg.Oracle.Enabled() {
				gemini, err := oracle.NewGeminiJudge(cfg.Oracle, logger)
				if err != nil {
					return fmt.Errorf("failed to initialize oracle: %w", err)
				}
				judge = gemini
			} else {
				logger.Info("No oracle API key configured; classification is rule-based only")
			}

			engine := explorer.NewEngine(driver, judge, cfg.Network, logger)
			rep, runErr := engine.Run(ctx, target, cfg.Explore.MaxDepth)

			// A cancelled run still carries partial results worth keeping.
			if rep != nil {
				writer := report.NewWriter(cfg.Explore.OutputDir, logger)
				path, err := writer.Write(rep)
				if err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
				fmt.Printf("\nExploration complete. Run ID: %s\nReport: %s\n", runID, path)
			}

			if runErr != nil {
				if errors.Is(runErr, context.Canceled) {
					logger.Warn("Exploration aborted gracefully", zap.String("runID", runID))
					return fmt.Errorf("exploration aborted by user signal")
				}
				logger.Error("Exploration failed", zap.Error(runErr), zap.String("runID", runID))
				return runErr
			}
			return nil
		},
	}

	exploreCmd.Flags().IntP("depth", "d", 0, "Maximum exploration depth. (Overrides config/env)")
	exploreCmd.Flags().StringP("output", "o", "", "Directory for the JSON report. (Overrides config/env)")
	exploreCmd.Flags().Bool("headless", true, "Run the browser headless. (Overrides config/env)")
	exploreCmd.Flags().Duration("timeout", 0, "Per-navigation timeout. (Overrides config/env)")

	return exploreCmd
}
