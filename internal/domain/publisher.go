package domain

import (
	"context"
)

// CampaignReportPublisher is the core interface that all report publishers must satisfy
type CampaignReportPublisher interface {
	// Name identifies the publisher in logs and statistics
	Name() string

	// Publish notifies about the report of a completed campaign
	Publish(ctx context.Context, campaignKey string, report *CampaignReport) error
}

// PublishOutcome is the result of a single publication attempt
type PublishOutcome string

const (
	OutcomePublished PublishOutcome = "published"
	OutcomeFailed    PublishOutcome = "failed"
)

// PublishAck acknowledges that a report was accepted for publication
type PublishAck struct {
	// JobID references the queued publication job
	JobID string `json:"job_id"`

	// CampaignKey is the campaign the report belongs to
	CampaignKey string `json:"campaign_key"`

	// Publishers lists the publishers the job will be dispatched to
	Publishers []string `json:"publishers"`
}

// PublishStats contains statistics about report publication
type PublishStats struct {
	TotalReceived  int64                       `json:"total_received"`
	TotalPublished int64                       `json:"total_published"`
	TotalFailed    int64                       `json:"total_failed"`
	TotalQueued    int64                       `json:"total_queued"`
	ByPublisher    map[string]map[string]int64 `json:"by_publisher"`
}

// PublishService accepts campaign reports and dispatches them to the registered publishers
type PublishService interface {
	// Publish queues the report and returns once it is accepted
	Publish(ctx context.Context, campaignKey string, report *CampaignReport) (*PublishAck, error)

	// Stats returns publication statistics
	Stats(ctx context.Context) (*PublishStats, error)

	// Publishers returns the names of the registered publishers
	Publishers() []string

	// HealthCheck verifies the service can accept reports
	HealthCheck(ctx context.Context) error
}
