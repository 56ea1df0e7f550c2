package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/igodwin/campaign-mailer/internal/domain"
	"github.com/igodwin/campaign-mailer/internal/logging"
	"github.com/igodwin/campaign-mailer/internal/publisher"
)

// PublishService dispatches campaign reports to the registered publishers on a worker pool
type PublishService struct {
	registry    *publisher.Registry
	queue       domain.Queue
	logger      *logging.Logger
	workerCount int

	mu          sync.Mutex
	received    int64
	published   int64
	failed      int64
	byPublisher map[string]map[string]int64

	stopOnce sync.Once
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewPublishService creates a new publication service
func NewPublishService(registry *publisher.Registry, queue domain.Queue, workerCount int, logger *logging.Logger) *PublishService {
	if workerCount <= 0 {
		workerCount = 4
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &PublishService{
		registry:    registry,
		queue:       queue,
		logger:      logger.Named("dispatcher"),
		workerCount: workerCount,
		byPublisher: make(map[string]map[string]int64),
		stopChan:    make(chan struct{}),
	}
}

// Start starts the worker pool
func (s *PublishService) Start(ctx context.Context) error {
	if s.registry.Len() == 0 {
		return fmt.Errorf("no publisher registered")
	}

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}
	return nil
}

// Stop stops the service gracefully; jobs being processed complete first
func (s *PublishService) Stop() error {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	return s.queue.Close()
}

// Publish queues the report for every registered publisher and returns without waiting for delivery
func (s *PublishService) Publish(ctx context.Context, campaignKey string, report *domain.CampaignReport) (*domain.PublishAck, error) {
	if report == nil {
		return nil, fmt.Errorf("campaign report is nil")
	}
	if campaignKey == "" {
		campaignKey = report.CampaignKey
	}

	job, err := s.queue.Enqueue(ctx, campaignKey, report)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue report of campaign %s: %w", campaignKey, err)
	}

	s.mu.Lock()
	s.received++
	s.mu.Unlock()

	s.logger.Debugf("Queued report of campaign %s as job %s", campaignKey, job.ID)

	return &domain.PublishAck{
		JobID:       job.ID,
		CampaignKey: campaignKey,
		Publishers:  s.registry.Names(),
	}, nil
}

// worker processes jobs from the queue until the service stops
func (s *PublishService) worker(ctx context.Context, id int) {
	defer s.wg.Done()

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.stopChan:
			cancel()
		case <-workerCtx.Done():
		}
	}()

	for {
		job, err := s.queue.Dequeue(workerCtx)
		if err != nil {
			if errors.Is(err, domain.ErrQueueClosed) || workerCtx.Err() != nil {
				s.logger.Debugf("Worker %d stopped", id)
				return
			}
			s.logger.Warnf("Worker %d failed to dequeue: %v", id, err)
			continue
		}

		// Jobs already dequeued are completed even when the service is stopping.
		s.process(context.WithoutCancel(workerCtx), job)
	}
}

// process runs every publisher for the job, a failing publisher does not prevent the others
func (s *PublishService) process(ctx context.Context, job *domain.PublishJob) {
	var failures int

	for _, p := range s.registry.All() {
		outcome := domain.OutcomePublished
		if err := s.runPublisher(ctx, p, job); err != nil {
			outcome = domain.OutcomeFailed
			failures++
			s.logger.Errorf("Publisher %s failed for campaign %s (job %s): %v", p.Name(), job.CampaignKey, job.ID, err)
		}
		s.record(p.Name(), outcome)
	}

	if failures > 0 {
		if err := s.queue.Nack(ctx, job.ID); err != nil {
			s.logger.Warnf("Failed to nack job %s: %v", job.ID, err)
		}
		return
	}

	if err := s.queue.Ack(ctx, job.ID); err != nil {
		s.logger.Warnf("Failed to ack job %s: %v", job.ID, err)
	}
}

// runPublisher shields the worker from a panicking publisher
func (s *PublishService) runPublisher(ctx context.Context, p domain.CampaignReportPublisher, job *domain.PublishJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("publisher panicked: %v", r)
		}
	}()
	return p.Publish(ctx, job.CampaignKey, job.Report)
}

func (s *PublishService) record(name string, outcome domain.PublishOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch outcome {
	case domain.OutcomePublished:
		s.published++
	case domain.OutcomeFailed:
		s.failed++
	}

	counters, ok := s.byPublisher[name]
	if !ok {
		counters = make(map[string]int64)
		s.byPublisher[name] = counters
	}
	counters[string(outcome)]++
}

// Stats returns publication statistics
func (s *PublishService) Stats(ctx context.Context) (*domain.PublishStats, error) {
	queued, err := s.queue.Size(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byPublisher := make(map[string]map[string]int64, len(s.byPublisher))
	for name, counters := range s.byPublisher {
		copied := make(map[string]int64, len(counters))
		for outcome, count := range counters {
			copied[outcome] = count
		}
		byPublisher[name] = copied
	}

	return &domain.PublishStats{
		TotalReceived:  s.received,
		TotalPublished: s.published,
		TotalFailed:    s.failed,
		TotalQueued:    queued,
		ByPublisher:    byPublisher,
	}, nil
}

// WorkerCount returns the number of workers started by Start
func (s *PublishService) WorkerCount() int {
	return s.workerCount
}

// Publishers returns the names of the registered publishers
func (s *PublishService) Publishers() []string {
	return s.registry.Names()
}

// HealthCheck verifies the queue accepts jobs
func (s *PublishService) HealthCheck(ctx context.Context) error {
	return s.queue.HealthCheck(ctx)
}
