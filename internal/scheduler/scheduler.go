package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wonny/pdie/internal/metrics"
	"github.com/wonny/pdie/pkg/logger"
)

// Options controls retry behaviour
type Options struct {
	MaxRetries int
	RetryDelay time.Duration
}

// Scheduler runs jobs on cron schedules with retries and keeps their history
// ⭐ SSOT: scheduled work is registered only here
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	opts    Options
	mu      sync.RWMutex
	jobs    map[string]Job
	entries map[string]cron.EntryID
	history map[string]*JobHistory

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a scheduler; cron expressions carry a seconds field
func New(log *logger.Logger, opts Options) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		logger:  log.WithComponent("scheduler"),
		opts:    opts,
		jobs:    make(map[string]Job),
		entries: make(map[string]cron.EntryID),
		history: make(map[string]*JobHistory),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// AddJob registers a job under its cron schedule
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	id, err := s.cron.AddFunc(job.Schedule(), func() {
		s.runJob(s.ctx, job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.jobs[name] = job
	s.entries[name] = id
	s.history[name] = &JobHistory{}

	s.logger.WithFields(map[string]interface{}{
		"job":      name,
		"schedule": job.Schedule(),
	}).Info("job added to scheduler")
	return nil
}

// RemoveJob unregisters a job; its history is kept
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, exists := s.entries[name]
	if !exists {
		return fmt.Errorf("job %s not found", name)
	}
	s.cron.Remove(id)
	delete(s.jobs, name)
	delete(s.entries, name)

	s.logger.WithField("job", name).Info("job removed from scheduler")
	return nil
}

// Start starts the cron loop
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")
	s.cron.Start()
}

// Stop cancels running jobs and waits for the cron loop to drain
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunNow executes a job synchronously, outside its schedule
func (s *Scheduler) RunNow(ctx context.Context, name string) (JobResult, error) {
	s.mu.RLock()
	job, exists := s.jobs[name]
	s.mu.RUnlock()
	if !exists {
		return JobResult{}, fmt.Errorf("job %s not found", name)
	}
	return s.runJob(ctx, job), nil
}

// runJob executes a job with up to MaxRetries retries
func (s *Scheduler) runJob(ctx context.Context, job Job) JobResult {
	name := job.Name()
	result := JobResult{JobName: name, StartTime: time.Now()}
	log := s.logger.WithField("job", name)
	log.Info("job started")

	var lastErr error
	for attempt := 0; attempt <= s.opts.MaxRetries; attempt++ {
		result.Attempts = attempt + 1
		lastErr = job.Run(ctx)
		if lastErr == nil {
			result.Success = true
			break
		}

		log.WithFields(map[string]interface{}{
			"attempt": attempt + 1,
			"error":   lastErr.Error(),
		}).Warn("job execution failed")

		if attempt == s.opts.MaxRetries {
			break
		}
		log.Warnf("retrying in %s (attempt %d of %d)", s.opts.RetryDelay, attempt+2, s.opts.MaxRetries+1)
		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
			attempt = s.opts.MaxRetries
		case <-time.After(s.opts.RetryDelay):
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	status := "success"
	if !result.Success {
		status = "failure"
		result.Error = lastErr.Error()
	}
	metrics.ScheduledRuns.WithLabelValues(name, status).Inc()

	s.mu.Lock()
	if h, ok := s.history[name]; ok {
		h.AddResult(result)
	}
	s.mu.Unlock()

	if result.Success {
		log.WithFields(map[string]interface{}{
			"duration": result.Duration.String(),
			"attempts": result.Attempts,
		}).Info("job completed")
	} else {
		log.WithFields(map[string]interface{}{
			"duration": result.Duration.String(),
			"error":    result.Error,
		}).Error("job failed after all retries")
	}
	return result
}

// History returns a copy of a job's history
func (s *Scheduler) History(name string) ([]JobResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, exists := s.history[name]
	if !exists {
		return nil, fmt.Errorf("job %s not found", name)
	}
	return h.Latest(len(h.Results)), nil
}

// Jobs returns registered job names, sorted
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// JobStats summarises one job's history
type JobStats struct {
	JobName      string     `json:"job_name"`
	Schedule     string     `json:"schedule"`
	NextRun      *time.Time `json:"next_run,omitempty"`
	TotalRuns    int        `json:"total_runs"`
	FailureCount int        `json:"failure_count"`
	SuccessRate  float64    `json:"success_rate"`
	LastRun      *JobResult `json:"last_run,omitempty"`
}

// Stats returns statistics for every registered job
func (s *Scheduler) Stats() map[string]JobStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]JobStats, len(s.jobs))
	for name, job := range s.jobs {
		h := s.history[name]
		st := JobStats{
			JobName:     name,
			Schedule:    job.Schedule(),
			TotalRuns:   len(h.Results),
			SuccessRate: h.SuccessRate(),
		}
		for _, r := range h.Results {
			if !r.Success {
				st.FailureCount++
			}
		}
		if latest := h.Latest(1); len(latest) == 1 {
			st.LastRun = &latest[0]
		}
		if next := s.cron.Entry(s.entries[name]).Next; !next.IsZero() {
			st.NextRun = &next
		}
		stats[name] = st
	}
	return stats
}
