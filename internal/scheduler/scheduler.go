// Package scheduler runs periodic background jobs such as the daily reminder
// broadcast.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNilJob           = errors.New("scheduler: job is nil")
	ErrNilSchedule      = errors.New("scheduler: schedule is nil")
	ErrJobAlreadyExists = errors.New("scheduler: job already registered")
	ErrAlreadyRunning   = errors.New("scheduler: already running")
)

// Job is a unit of periodic work.
type Job interface {
	// Name returns the unique name of the job.
	Name() string
	// Run executes the job. ctx is cancelled when the scheduler stops.
	Run(ctx context.Context) error
}

// Schedule defines when a job should run.
type Schedule interface {
	// Next returns the first run time strictly after t.
	Next(t time.Time) time.Time
	String() string
}

type scheduledJob struct {
	job      Job
	schedule Schedule
}

// Scheduler runs each registered job on its own timer. Runs of the same job
// never overlap.
type Scheduler struct {
	mu      sync.Mutex
	jobs    []*scheduledJob
	names   map[string]struct{}
	running bool
	logger  *zap.Logger
	now     func() time.Time
}

func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		names:  make(map[string]struct{}),
		logger: logger,
		now:    time.Now,
	}
}

// Register adds a job. It must be called before Run.
func (s *Scheduler) Register(job Job, schedule Schedule) error {
	if job == nil {
		return ErrNilJob
	}
	if schedule == nil {
		return ErrNilSchedule
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.names[job.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrJobAlreadyExists, job.Name())
	}
	s.names[job.Name()] = struct{}{}
	s.jobs = append(s.jobs, &scheduledJob{job: job, schedule: schedule})

	s.logger.Info("Job registered",
		zap.String("job", job.Name()),
		zap.String("schedule", schedule.String()),
		zap.Time("next_run", schedule.Next(s.now())))
	return nil
}

// Run blocks until ctx is cancelled and every job loop has returned.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	jobs := append([]*scheduledJob(nil), s.jobs...)
	s.mu.Unlock()

	s.logger.Info("Scheduler started", zap.Int("jobs", len(jobs)))

	var wg sync.WaitGroup
	for _, sj := range jobs {
		wg.Add(1)
		go func(sj *scheduledJob) {
			defer wg.Done()
			s.loop(ctx, sj)
		}(sj)
	}
	wg.Wait()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Scheduler stopped")
	return nil
}

func (s *Scheduler) loop(ctx context.Context, sj *scheduledJob) {
	for {
		now := s.now()
		timer := time.NewTimer(sj.schedule.Next(now).Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.runJob(ctx, sj)
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, sj *scheduledJob) {
	name := sj.job.Name()
	start := s.now()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Job panicked", zap.String("job", name), zap.Any("panic", r))
		}
	}()

	s.logger.Info("Job started", zap.String("job", name))
	if err := sj.job.Run(ctx); err != nil {
		s.logger.Error("Job failed",
			zap.String("job", name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return
	}
	s.logger.Info("Job completed",
		zap.String("job", name),
		zap.Duration("duration", time.Since(start)),
		zap.Time("next_run", sj.schedule.Next(s.now())))
}
