// Package cmd contains the reportctl commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"report-assembler/cmd/reportctl/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
	version = "dev"
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "reportctl",
	Short: "Assemble polis reports from the command line",
	Long: `reportctl runs the report assembly pipeline against a polis backend
and prints the result.

Example usage:
  reportctl assemble r2xcn2cdrmrgx3tnm7        # Summary tables
  reportctl assemble r2xcn2cdrmrgx3tnm7 --json # Full report state as JSON`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func SetVersion(ver string) {
	version = ver
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initConfig()
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.reportctl.yaml)")
	flags.String("polis-url", "", "polis backend base URL")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	_ = v.BindPFlag("polis_api.base_url", flags.Lookup("polis-url"))
	_ = v.BindPFlag("logging.level", flags.Lookup("log-level"))
}

func initConfig() error {
	loaded, err := config.Load(v, cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = loaded

	if noColor, _ := rootCmd.PersistentFlags().GetBool("no-color"); noColor {
		cfg.Output.Colors = false
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.Logging.Level),
	}))
	logger.Debug("configuration loaded",
		"polis_api", cfg.PolisAPI.BaseURL,
		"correlation_matrix", cfg.Report.CorrelationMatrix,
		"config_file", v.ConfigFileUsed())
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
