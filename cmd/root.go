// -- cmd/root.go --
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/webscout-cli/internal/config"
	"github.com/xkilldash9x/webscout-cli/internal/observability"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "webscout-cli",
	Short:   "WebScout explores a website with a single headless browser session.",
	Long:    "WebScout navigates a target site, discovers and classifies its forms,\nattempts registrations with synthetic personas, surfaces hidden functionality\nand emits a structured JSON exploration report.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Runs before any command, setting up config and logging.
		if err := initializeConfig(); err != nil {
			return err
		}

		cfg, err := config.NewConfigFromViper(viper.GetViper())
		if err != nil {
			// Fall back to a minimal logger so the error itself is readable.
			observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "webscout-cli"})
			return err
		}

		observability.InitializeLogger(cfg.Logger)
		observability.GetLogger().Info("Starting WebScout-CLI", zap.String("version", Version))
		return nil
	},
}

// Execute runs the root command with a signal-aware context so Ctrl-C tears
// the browser down cleanly and still writes the partial report.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	rootCmd.AddCommand(newExploreCmd())
}

// initializeConfig reads in the config file and ENV variables if set.
func initializeConfig() error {
	v := viper.GetViper()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("WEBSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars.
	}
	return nil
}
