package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/igodwin/campaign-mailer/internal/domain"
)

// LocalQueue is an in-memory queue of publication jobs
type LocalQueue struct {
	queue         chan *domain.PublishJob
	jobs          map[string]*domain.PublishJob
	mu            sync.RWMutex
	persistToDisk bool
	persistPath   string
	closed        bool
	closeChan     chan struct{}
}

// NewLocalQueue creates a new local queue instance
func NewLocalQueue(config *domain.LocalQueueConfig) (*LocalQueue, error) {
	if config == nil {
		config = &domain.LocalQueueConfig{
			BufferSize: 1000,
		}
	}

	bufferSize := config.BufferSize
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	lq := &LocalQueue{
		queue:         make(chan *domain.PublishJob, bufferSize),
		jobs:          make(map[string]*domain.PublishJob),
		persistToDisk: config.PersistToDisk,
		persistPath:   config.PersistPath,
		closeChan:     make(chan struct{}),
	}

	// Load persisted jobs if enabled
	if lq.persistToDisk && lq.persistPath != "" {
		if err := lq.loadFromDisk(); err != nil {
			return nil, fmt.Errorf("failed to load persisted queue: %w", err)
		}
	}

	return lq, nil
}

// Enqueue adds a report to the queue
// The lock is not held while waiting for buffer space, so consumers can ack while producers wait.
func (lq *LocalQueue) Enqueue(ctx context.Context, campaignKey string, report *domain.CampaignReport) (*domain.PublishJob, error) {
	job := &domain.PublishJob{
		ID:          uuid.New().String(),
		CampaignKey: campaignKey,
		Report:      report,
		EnqueuedAt:  time.Now().Unix(),
	}

	lq.mu.Lock()
	if lq.closed {
		lq.mu.Unlock()
		return nil, domain.ErrQueueClosed
	}
	lq.jobs[job.ID] = job
	lq.mu.Unlock()

	var err error
	select {
	case lq.queue <- job:
	case <-ctx.Done():
		err = ctx.Err()
	case <-lq.closeChan:
		err = domain.ErrQueueClosed
	}

	lq.mu.Lock()
	defer lq.mu.Unlock()

	if err != nil {
		delete(lq.jobs, job.ID)
		return nil, err
	}

	if lq.persistToDisk {
		return job, lq.persistToDiskSync()
	}
	return job, nil
}

// Dequeue blocks until the next job is available, the context is done or the queue is closed
func (lq *LocalQueue) Dequeue(ctx context.Context) (*domain.PublishJob, error) {
	select {
	case job, ok := <-lq.queue:
		if !ok {
			return nil, domain.ErrQueueClosed
		}
		lq.mu.Lock()
		job.Attempt++
		lq.mu.Unlock()
		return job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-lq.closeChan:
		return nil, domain.ErrQueueClosed
	}
}

// Ack acknowledges successful processing of a job
func (lq *LocalQueue) Ack(ctx context.Context, jobID string) error {
	return lq.remove(jobID)
}

// Nack records a processing failure; jobs are never requeued
func (lq *LocalQueue) Nack(ctx context.Context, jobID string) error {
	return lq.remove(jobID)
}

func (lq *LocalQueue) remove(jobID string) error {
	lq.mu.Lock()
	defer lq.mu.Unlock()

	if _, exists := lq.jobs[jobID]; !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}
	delete(lq.jobs, jobID)

	if lq.persistToDisk {
		return lq.persistToDiskSync()
	}
	return nil
}

// Size returns the current number of jobs waiting in the queue
func (lq *LocalQueue) Size(ctx context.Context) (int64, error) {
	return int64(len(lq.queue)), nil
}

// Purge removes all jobs from the queue
func (lq *LocalQueue) Purge(ctx context.Context) error {
	lq.mu.Lock()
	defer lq.mu.Unlock()

	// Drain the channel
	for len(lq.queue) > 0 {
		<-lq.queue
	}

	lq.jobs = make(map[string]*domain.PublishJob)

	if lq.persistToDisk {
		return lq.persistToDiskSync()
	}

	return nil
}

// Close cleanly shuts down the queue; pending jobs stay persisted when persistence is enabled
func (lq *LocalQueue) Close() error {
	lq.mu.Lock()
	defer lq.mu.Unlock()

	if lq.closed {
		return nil
	}

	lq.closed = true
	close(lq.closeChan)

	if lq.persistToDisk {
		return lq.persistToDiskSync()
	}
	return nil
}

// HealthCheck verifies the queue is operational
func (lq *LocalQueue) HealthCheck(ctx context.Context) error {
	lq.mu.RLock()
	defer lq.mu.RUnlock()

	if lq.closed {
		return domain.ErrQueueClosed
	}

	return nil
}

// persistToDiskSync persists the pending jobs to disk (must be called with lock held)
func (lq *LocalQueue) persistToDiskSync() error {
	if !lq.persistToDisk || lq.persistPath == "" {
		return nil
	}

	data, err := json.Marshal(lq.jobs)
	if err != nil {
		return fmt.Errorf("failed to marshal queue state: %w", err)
	}

	if err := os.WriteFile(lq.persistPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write queue state: %w", err)
	}

	return nil
}

// loadFromDisk loads the pending jobs from disk
func (lq *LocalQueue) loadFromDisk() error {
	data, err := os.ReadFile(lq.persistPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No persisted state yet
		}
		return fmt.Errorf("failed to read queue state: %w", err)
	}

	var jobs map[string]*domain.PublishJob
	if err := json.Unmarshal(data, &jobs); err != nil {
		return fmt.Errorf("failed to unmarshal queue state: %w", err)
	}

	if len(jobs) > cap(lq.queue) {
		return fmt.Errorf("persisted queue holds %d jobs, more than the buffer size %d", len(jobs), cap(lq.queue))
	}

	// Re-enqueue persisted jobs
	for _, job := range jobs {
		lq.queue <- job
		lq.jobs[job.ID] = job
	}

	return nil
}
