package main

import (
	"github.com/igodwin/campaign-mailer/internal/config"
	"github.com/igodwin/campaign-mailer/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mailer",
	Short: "Mail the reports of load-testing campaigns",
	Long: `Mailer sends the HTML summary of a campaign report to the configured
recipients, optionally attaching the generated JUnit reports as a ZIP archive.
It uses the same configuration as the campaign mailer service.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default ./config.yaml or /etc/campaign-mailer/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

func newLogger(cfg *config.Config) *logging.Logger {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	// Command output goes to stdout, logs to stderr.
	logger, err := logging.NewFromConfig(level, "stderr")
	if err != nil {
		return logging.Discard()
	}
	return logger
}
