// Package publisher notifies recipients about completed campaigns.
package publisher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/igodwin/campaign-mailer/internal/archive"
	"github.com/igodwin/campaign-mailer/internal/config"
	"github.com/igodwin/campaign-mailer/internal/domain"
	"github.com/igodwin/campaign-mailer/internal/logging"
	"github.com/igodwin/campaign-mailer/internal/report"
)

// MailPublisherName identifies the mail publisher in the registry
const MailPublisherName = "mail"

// MailPublisher emails an HTML summary of campaign reports, optionally with the archived JUnit reports
type MailPublisher struct {
	statuses      domain.StatusSet
	from          domain.Address
	to            []domain.Address
	cc            []domain.Address
	attachReports bool
	reportFolder  string
	archiveOpts   []archive.Option
	transport     domain.MailTransport
	logger        *logging.Logger
}

// NewMailPublisher creates a mail publisher from validated settings.
// reportFolder contains one subdirectory of generated reports per campaign key.
func NewMailPublisher(cfg config.MailConfig, reportFolder string, transport domain.MailTransport, logger *logging.Logger) (*MailPublisher, error) {
	if transport == nil {
		return nil, fmt.Errorf("mail transport is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Validate already parsed every value below.
	statuses, _ := cfg.StatusSet()
	from, _ := domain.ParseAddress(cfg.From)
	to, _ := domain.ParseAddresses(cfg.To)
	cc, _ := domain.ParseAddresses(cfg.Cc)

	if logger == nil {
		logger = logging.Discard()
	}

	var archiveOpts []archive.Option
	if len(cfg.Exclude) > 0 {
		archiveOpts = append(archiveOpts, archive.WithExclude(cfg.Exclude...))
	}

	return &MailPublisher{
		statuses:      statuses,
		from:          from,
		to:            to,
		cc:            cc,
		attachReports: cfg.JUnit,
		reportFolder:  reportFolder,
		archiveOpts:   archiveOpts,
		transport:     transport,
		logger:        logger.Named(MailPublisherName),
	}, nil
}

// Name returns the registry name of the publisher
func (p *MailPublisher) Name() string {
	return MailPublisherName
}

// Publish sends the notification when the report status is subscribed to.
// Reports with an unknown or unsubscribed status are silently ignored.
func (p *MailPublisher) Publish(ctx context.Context, campaignKey string, r *domain.CampaignReport) error {
	if r == nil {
		return fmt.Errorf("campaign report is nil")
	}

	status, ok := domain.MatchReportStatus(r.Status)
	if !ok {
		p.logger.Debugf("Campaign %s has status %s which is not a report status, no mail sent", campaignKey, r.Status)
		return nil
	}
	if !p.statuses.Accepts(status) {
		p.logger.Debugf("Campaign %s has status %s which is not subscribed to, no mail sent", campaignKey, r.Status)
		return nil
	}

	if campaignKey == "" {
		campaignKey = r.CampaignKey
	}
	return p.send(ctx, campaignKey, r)
}

func (p *MailPublisher) send(ctx context.Context, campaignKey string, r *domain.CampaignReport) error {
	// The summary shows the same campaign key as the subject.
	summary := *r
	summary.CampaignKey = campaignKey

	message := &domain.MailMessage{
		From:     p.from,
		To:       p.to,
		Cc:       p.cc,
		Subject:  report.Subject(campaignKey, r.Status),
		HTMLBody: report.Compose(&summary),
	}

	attachment, cleanup, err := p.archiveReports(campaignKey)
	defer cleanup()
	if err != nil {
		p.logger.Errorf("Was not able to archive the reports of campaign %s: %v", campaignKey, err)
		return err
	}
	if attachment != nil {
		message.Attachments = append(message.Attachments, *attachment)
	}

	if err := p.transport.Send(ctx, message); err != nil {
		p.logger.Errorf("Was not able to send mail: %v", err)
		return fmt.Errorf("mail delivery for campaign %s failed: %w", campaignKey, err)
	}

	p.logger.Infof("Mail sent successfully for campaign %s to %d recipient(s)", campaignKey, len(p.to)+len(p.cc))
	return nil
}

// archiveReports zips the report directory of the campaign into a temporary file.
// It returns a nil attachment when reports are not attached or there is nothing to archive.
// The returned cleanup removes the temporary file and is always safe to call.
func (p *MailPublisher) archiveReports(campaignKey string) (*domain.Attachment, func(), error) {
	noop := func() {}

	reportDirectory, ok := p.reportDirectory(campaignKey)
	if !ok {
		return nil, noop, nil
	}

	tmp, err := os.CreateTemp("", tempPattern(campaignKey))
	if err != nil {
		return nil, noop, fmt.Errorf("failed to create the temporary archive: %w", err)
	}
	path := tmp.Name()
	tmp.Close()

	cleanup := func() {
		err := os.Remove(path)
		p.logger.Debugf("Deletion of the temporary ZIP report archive %s: %t", path, err == nil)
	}

	if err := archive.CompressDirectory(reportDirectory, path, p.archiveOpts...); err != nil {
		return nil, cleanup, err
	}

	return &domain.Attachment{
		Path:        path,
		Name:        filepath.Base(path),
		ContentType: domain.ContentTypeZip,
		Disposition: domain.DispositionAttachment,
	}, cleanup, nil
}

// reportDirectory returns the non-empty report directory of the campaign, when attachments are enabled
func (p *MailPublisher) reportDirectory(campaignKey string) (string, bool) {
	if !p.attachReports || p.reportFolder == "" {
		return "", false
	}

	if info, err := os.Stat(p.reportFolder); err != nil || !info.IsDir() {
		return "", false
	}

	dir := filepath.Join(p.reportFolder, campaignKey)
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) == 0 {
		return "", false
	}

	return dir, true
}

// tempPattern derives a temporary file pattern from the campaign key, which may contain path separators
func tempPattern(campaignKey string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator || r == '*' {
			return '_'
		}
		return r
	}, campaignKey)
	return name + "-*.zip"
}
