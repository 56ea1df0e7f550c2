package domain

import (
	"time"
)

// ExecutionStatus is the free-form status of a campaign as reported by the campaign framework
type ExecutionStatus string

const (
	ExecutionQueued     ExecutionStatus = "QUEUED"
	ExecutionScheduled  ExecutionStatus = "SCHEDULED"
	ExecutionInProgress ExecutionStatus = "IN_PROGRESS"
	ExecutionSuccessful ExecutionStatus = "SUCCESSFUL"
	ExecutionWarning    ExecutionStatus = "WARNING"
	ExecutionFailed     ExecutionStatus = "FAILED"
	ExecutionAborted    ExecutionStatus = "ABORTED"
)

// CampaignReport summarizes the execution of a load-testing campaign
type CampaignReport struct {
	// CampaignKey identifies the campaign
	CampaignKey string `json:"campaign_key"`

	// Start is when the campaign started
	Start time.Time `json:"start"`

	// End is when the campaign ended, nil while the campaign is still running
	End *time.Time `json:"end,omitempty"`

	// ScheduledMinions is the number of minions planned for the campaign
	ScheduledMinions int `json:"scheduled_minions,omitempty"`

	// StartedMinions is the number of minions that were started
	StartedMinions int `json:"started_minions"`

	// CompletedMinions is the number of minions that completed their scenario
	CompletedMinions int `json:"completed_minions"`

	// SuccessfulExecutions is the count of successful step executions
	SuccessfulExecutions int `json:"successful_executions"`

	// FailedExecutions is the count of failed step executions
	FailedExecutions int `json:"failed_executions"`

	// Status is the execution status of the campaign
	Status ExecutionStatus `json:"status"`
}

// Running reports whether the campaign has no end yet
func (r *CampaignReport) Running() bool {
	return r.End == nil
}

// Duration returns the elapsed time between start and end, and false while the campaign is running
func (r *CampaignReport) Duration() (time.Duration, bool) {
	if r.End == nil {
		return 0, false
	}
	return r.End.Sub(r.Start), true
}
