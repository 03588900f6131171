// Package cli implements the ekaya-insights command line: the HTTP server and
// one-shot commands that run against the same loaded data.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-insights/pkg/config"
	"github.com/ekaya-inc/ekaya-insights/pkg/logging"
)

// rootOptions are resolved once in PersistentPreRunE and shared by subcommands.
type rootOptions struct {
	version    string
	configPath string
	output     string
	dataDir    string

	cfg *config.Config
}

// Execute runs the CLI and returns the process exit code.
func Execute(version string) int {
	rootCmd := newRootCmd(version)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(version string) *cobra.Command {
	opts := &rootOptions{version: version}

	rootCmd := &cobra.Command{
		Use:           "ekaya-insights",
		Short:         "Ask questions about e-commerce sales data in plain English",
		Long:          "ekaya-insights loads ad sales, total sales and eligibility data, translates questions to SQL with an LLM and answers them.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutputFormat(opts.output); err != nil {
				return err
			}

			cfg, err := config.LoadFrom(opts.configPath, opts.version)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.DataDir = opts.dataDir
			}
			opts.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultConfigPath, "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputTable, "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Directory with sample_*.csv files (overrides config)")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newAskCmd(opts),
		newStatusCmd(opts),
	)

	return rootCmd
}

// newLogger builds the process logger. One-shot commands default to warn so
// their stdout stays readable.
func (o *rootOptions) newLogger(defaultLevel string) (*zap.Logger, error) {
	level := o.cfg.LogLevel
	if level == "" {
		level = defaultLevel
	}
	logger, err := logging.NewLogger(o.cfg.Env, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
