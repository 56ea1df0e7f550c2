package domain

import (
	"context"
	"errors"
)

// ErrQueueClosed is returned by queue operations once the queue has been closed
var ErrQueueClosed = errors.New("queue is closed")

// PublishJob wraps a campaign report with queue-specific metadata
type PublishJob struct {
	// ID is a unique identifier for this job
	ID string `json:"id"`

	// CampaignKey is the key the report was published under
	CampaignKey string `json:"campaign_key"`

	// Report is the campaign report to publish
	Report *CampaignReport `json:"report"`

	// Attempt is the current delivery attempt number
	Attempt int `json:"attempt"`

	// EnqueuedAt is when the job was added to the queue
	EnqueuedAt int64 `json:"enqueued_at"`
}

// Queue defines the interface for a publication job queue
type Queue interface {
	// Enqueue adds a report to the queue and returns the created job
	Enqueue(ctx context.Context, campaignKey string, report *CampaignReport) (*PublishJob, error)

	// Dequeue blocks until the next job is available
	Dequeue(ctx context.Context) (*PublishJob, error)

	// Ack acknowledges successful processing of a job
	Ack(ctx context.Context, jobID string) error

	// Nack indicates processing failure; the job is dropped
	Nack(ctx context.Context, jobID string) error

	// Size returns the current number of jobs waiting in the queue
	Size(ctx context.Context) (int64, error)

	// Purge removes all jobs from the queue
	Purge(ctx context.Context) error

	// Close cleanly shuts down the queue
	Close() error

	// HealthCheck verifies the queue is operational
	HealthCheck(ctx context.Context) error
}

// QueueConfig contains configuration for the publication queue
type QueueConfig struct {
	// WorkerCount is the number of concurrent workers processing the queue
	WorkerCount int `mapstructure:"worker_count" json:"worker_count"`

	// Local queue specific config
	Local *LocalQueueConfig `mapstructure:"local" json:"local,omitempty"`
}

// LocalQueueConfig contains configuration for the in-memory queue
type LocalQueueConfig struct {
	// BufferSize is the channel buffer size
	BufferSize int `mapstructure:"buffer_size" json:"buffer_size"`

	// PersistToDisk enables writing pending jobs to disk for recovery
	PersistToDisk bool `mapstructure:"persist_to_disk" json:"persist_to_disk"`

	// PersistPath is where to store the queue state
	PersistPath string `mapstructure:"persist_path" json:"persist_path,omitempty"`
}
