package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/igodwin/campaign-mailer/internal/config"
	"github.com/igodwin/campaign-mailer/internal/domain"
	"github.com/igodwin/campaign-mailer/internal/notifier"
	"github.com/igodwin/campaign-mailer/internal/publisher"
	"github.com/spf13/cobra"
)

var (
	reportFile  string
	campaignKey string
	dryRun      bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Mail the report of a completed campaign",
	Long: `Publish reads a campaign report from a JSON file and sends the mail
notification synchronously, as the service would for a submitted report.
Reports whose status is not subscribed to are skipped without error.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&reportFile, "report", "", "JSON file containing the campaign report")
	publishCmd.Flags().StringVar(&campaignKey, "key", "", "campaign key (defaults to the campaign_key of the report)")
	publishCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the mail to stdout instead of sending it")
	_ = publishCmd.MarkFlagRequired("report")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	report, err := readReport(reportFile)
	if err != nil {
		return err
	}

	mailConfig := cfg.Report.Export.Mail
	if dryRun {
		mailConfig.Transport = config.TransportStdout
	}

	transport, err := notifier.NewTransport(mailConfig, logger)
	if err != nil {
		return fmt.Errorf("creating mail transport: %w", err)
	}
	defer transport.Close()

	mailPublisher, err := publisher.NewMailPublisher(mailConfig, cfg.Report.Export.JUnit.Folder, transport, logger)
	if err != nil {
		return fmt.Errorf("creating mail publisher: %w", err)
	}

	return mailPublisher.Publish(ctx, campaignKey, report)
}

func readReport(path string) (*domain.CampaignReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	var report domain.CampaignReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}

	if report.Start.IsZero() {
		return nil, fmt.Errorf("report %s has no start", path)
	}
	if report.Status == "" {
		return nil, fmt.Errorf("report %s has no status", path)
	}
	if campaignKey == "" && report.CampaignKey == "" {
		return nil, fmt.Errorf("no campaign key: use --key or set campaign_key in the report")
	}

	return &report, nil
}
