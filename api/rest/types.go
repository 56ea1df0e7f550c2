package rest

import (
	"fmt"
	"strings"
	"time"

	"github.com/igodwin/campaign-mailer/internal/domain"
)

// CampaignReportRequest is the REST API request submitting the report of a completed campaign
type CampaignReportRequest struct {
	CampaignKey          string     `json:"campaign_key,omitempty"`
	Start                *time.Time `json:"start"`
	End                  *time.Time `json:"end,omitempty"`
	ScheduledMinions     int        `json:"scheduled_minions,omitempty"`
	StartedMinions       int        `json:"started_minions"`
	CompletedMinions     int        `json:"completed_minions"`
	SuccessfulExecutions int        `json:"successful_executions"`
	FailedExecutions     int        `json:"failed_executions"`
	Status               string     `json:"status"`
}

// Validate validates the request
func (r *CampaignReportRequest) Validate() error {
	if r.Start == nil {
		return fmt.Errorf("start is required")
	}

	if strings.TrimSpace(r.Status) == "" {
		return fmt.Errorf("status is required")
	}

	if r.End != nil && r.End.Before(*r.Start) {
		return fmt.Errorf("end must not be before start")
	}

	for name, value := range map[string]int{
		"scheduled_minions":     r.ScheduledMinions,
		"started_minions":       r.StartedMinions,
		"completed_minions":     r.CompletedMinions,
		"successful_executions": r.SuccessfulExecutions,
		"failed_executions":     r.FailedExecutions,
	} {
		if value < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}

	return nil
}

// ToReport converts the request to a domain report; the key from the path takes precedence.
// The status is kept verbatim, publishers match it by exact name.
func (r *CampaignReportRequest) ToReport(campaignKey string) *domain.CampaignReport {
	if campaignKey == "" {
		campaignKey = r.CampaignKey
	}

	return &domain.CampaignReport{
		CampaignKey:          campaignKey,
		Start:                *r.Start,
		End:                  r.End,
		ScheduledMinions:     r.ScheduledMinions,
		StartedMinions:       r.StartedMinions,
		CompletedMinions:     r.CompletedMinions,
		SuccessfulExecutions: r.SuccessfulExecutions,
		FailedExecutions:     r.FailedExecutions,
		Status:               domain.ExecutionStatus(r.Status),
	}
}

// PublishReportResponse is the REST API response for a submitted report
type PublishReportResponse struct {
	JobID       string   `json:"job_id"`
	CampaignKey string   `json:"campaign_key"`
	Publishers  []string `json:"publishers"`
}

// PublishReportResponseFromDomain converts a domain acknowledgement to API format
func PublishReportResponseFromDomain(ack *domain.PublishAck) PublishReportResponse {
	return PublishReportResponse{
		JobID:       ack.JobID,
		CampaignKey: ack.CampaignKey,
		Publishers:  ack.Publishers,
	}
}

// ListPublishersResponse is the REST API response listing the registered publishers
type ListPublishersResponse struct {
	Publishers []string `json:"publishers"`
	Total      int      `json:"total"`
}
