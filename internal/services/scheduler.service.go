package services

import (
	"context"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-co-op/gocron"
)

// Schedule describes when a job runs: either every Interval, or once a day at
// DailyAt ("HH:MM" in the scheduler's location).
type Schedule struct {
	Interval time.Duration
	DailyAt  string
}

func Every(interval time.Duration) Schedule {
	return Schedule{Interval: interval}
}

func DailyAt(at string) Schedule {
	return Schedule{DailyAt: at}
}

// Job represents a scheduled task that can be executed by the scheduler
type Job interface {
	Name() string

	// Execute runs the job. ctx is cancelled when the scheduler stops.
	Execute(ctx context.Context) error
	Schedule() Schedule
}

type SchedulerService struct {
	scheduler *gocron.Scheduler
	jobs      []Job
	log       logger.Logger
	started   bool
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewSchedulerService(loc *time.Location) *SchedulerService {
	if loc == nil {
		loc = time.UTC
	}

	scheduler := gocron.NewScheduler(loc)
	// A slow run must finish before the next tick of the same job.
	scheduler.SingletonModeAll()

	ctx, cancel := context.WithCancel(context.Background())

	return &SchedulerService{
		scheduler: scheduler,
		jobs:      make([]Job, 0),
		log:       logger.New("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *SchedulerService) executeJob(job Job, log logger.Logger) {
	traceCtx := logger.ContextWithTraceID(s.ctx, job.Name()+":"+time.Now().UTC().Format(time.RFC3339))
	log = log.TraceFromContext(traceCtx)

	log.Debug("Executing scheduled job", "job", job.Name())
	if err := job.Execute(traceCtx); err != nil {
		log.Er("Job execution failed", err, "job", job.Name())
		return
	}
	log.Debug("Job execution completed successfully", "job", job.Name())
}

// AddJob registers a job with the scheduler
func (s *SchedulerService) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("AddJob")

	schedule := job.Schedule()
	run := func() { s.executeJob(job, log) }

	var err error
	switch {
	case schedule.Interval > 0:
		_, err = s.scheduler.Every(schedule.Interval).Do(run)
	case schedule.DailyAt != "":
		_, err = s.scheduler.Every(1).Day().At(schedule.DailyAt).Do(run)
	default:
		return log.Error("job has no schedule", "job", job.Name())
	}

	if err != nil {
		return log.Err("failed to register job with scheduler", err, "job", job.Name())
	}

	s.jobs = append(s.jobs, job)
	log.Info("Job registered successfully", "job", job.Name())

	return nil
}

func (s *SchedulerService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Start")

	if s.started {
		log.Info("Scheduler already started")
		return nil
	}

	if len(s.jobs) == 0 {
		log.Info("No jobs registered, scheduler will not start")
		return nil
	}

	log.Info("Starting scheduler", "jobCount", len(s.jobs))
	s.scheduler.StartAsync()
	s.started = true

	for _, job := range s.scheduler.Jobs() {
		log.Info("Job scheduled", "nextRun", job.NextRun())
	}

	return nil
}

// Stop cancels running jobs and shuts the scheduler down.
func (s *SchedulerService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Stop")

	if !s.started {
		log.Info("Scheduler not started, nothing to stop")
		return nil
	}

	log.Info("Stopping scheduler")

	if s.cancel != nil {
		s.cancel()
	}

	s.scheduler.Stop()
	s.started = false

	log.Info("Scheduler stopped successfully")
	return nil
}

func (s *SchedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *SchedulerService) GetJobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// TriggerJobByName runs a registered job synchronously.
func (s *SchedulerService) TriggerJobByName(ctx context.Context, jobName string) error {
	s.mu.Lock()
	var targetJob Job
	for _, job := range s.jobs {
		if job.Name() == jobName {
			targetJob = job
			break
		}
	}
	s.mu.Unlock()

	log := s.log.Function("TriggerJobByName").TraceFromContext(ctx)

	if targetJob == nil {
		return log.Error("job not found", "job", jobName)
	}

	log.Info("Manually triggering job", "job", jobName)
	if err := targetJob.Execute(ctx); err != nil {
		return log.Err("Manual job execution failed", err, "job", jobName)
	}

	return nil
}
