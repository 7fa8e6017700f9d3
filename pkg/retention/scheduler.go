package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs the policy daily at 09:00 local time.
const DefaultSchedule = "0 9 * * *"

// Runner is anything that performs a retention run. *Engine implements it.
type Runner interface {
	Run() *RunReport
}

// ReportSink receives the report of every run the scheduler triggers.
type ReportSink interface {
	OnReport(report *RunReport)
}

// ReportSinkFunc adapts a function to ReportSink.
type ReportSinkFunc func(report *RunReport)

// OnReport calls f(report).
func (f ReportSinkFunc) OnReport(report *RunReport) { f(report) }

// ScheduleConfig controls when the scheduler triggers runs.
type ScheduleConfig struct {
	// Cron is a standard five-field cron expression.
	// Example: "0 9 * * *" (daily at 9 AM)
	// An empty expression disables periodic runs.
	Cron string

	// RunOnStart triggers one run as soon as Start is called.
	RunOnStart bool

	// Timezone is an IANA location name the cron expression is evaluated in.
	// Empty means the local timezone.
	Timezone string
}

// Scheduler triggers a Runner at startup and on a cron schedule. Both paths
// call the same Run method. A Scheduler is started at most once.
type Scheduler struct {
	config ScheduleConfig
	cron   *cron.Cron
	logger *slog.Logger

	mu        sync.Mutex
	runner    Runner
	sinks     []ReportSink
	started   bool
	stopped   bool
	scheduled bool

	stopCh    chan struct{}
	watchDone chan struct{}
}

// NewScheduler creates a scheduler for runner. It validates the cron
// expression and timezone up front.
func NewScheduler(runner Runner, config ScheduleConfig, logger *slog.Logger) (*Scheduler, error) {
	if runner == nil {
		return nil, fmt.Errorf("retention runner is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var opts []cron.Option
	if config.Timezone != "" {
		loc, err := time.LoadLocation(config.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", config.Timezone, err)
		}
		opts = append(opts, cron.WithLocation(loc))
	}

	if config.Cron != "" {
		if _, err := cron.ParseStandard(config.Cron); err != nil {
			return nil, fmt.Errorf("invalid cron schedule %q: %w", config.Cron, err)
		}
	}

	return &Scheduler{
		config:    config,
		cron:      cron.New(opts...),
		logger:    logger.With("component", "retention.scheduler"),
		runner:    runner,
		stopCh:    make(chan struct{}),
		watchDone: make(chan struct{}),
	}, nil
}

// AddSink registers a sink that receives every report.
func (s *Scheduler) AddSink(sink ReportSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

// SetRunner replaces the runner used by subsequent runs. A run already in
// progress finishes with the previous runner. A nil runner is ignored.
func (s *Scheduler) SetRunner(runner Runner) {
	if runner == nil {
		s.logger.Warn("ignoring nil retention runner")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runner = runner
	s.logger.Info("retention runner replaced")
}

// Start registers the cron job, then runs once immediately if RunOnStart is
// set. The scheduler stops when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already started")
	}

	if s.config.Cron != "" {
		if _, err := s.cron.AddFunc(s.config.Cron, func() {
			s.trigger("schedule")
		}); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to schedule retention run: %w", err)
		}
		s.cron.Start()
		s.scheduled = true

		s.logger.Info("retention scheduler started",
			"schedule", s.config.Cron,
			"timezone", s.config.Timezone,
		)
	} else {
		s.logger.Info("retention schedule not configured, periodic runs disabled")
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.watchDone)
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.stopCh:
		}
	}()

	if s.config.RunOnStart {
		s.trigger("startup")
	}

	return nil
}

// RunNow triggers a run synchronously and returns its report.
func (s *Scheduler) RunNow() *RunReport {
	return s.trigger("manual")
}

// trigger runs the current runner and fans the report out to the sinks.
func (s *Scheduler) trigger(source string) *RunReport {
	s.mu.Lock()
	runner := s.runner
	sinks := append([]ReportSink(nil), s.sinks...)
	s.mu.Unlock()

	s.logger.Info("starting retention run", "trigger", source)

	report := runner.Run()
	for _, sink := range sinks {
		sink.OnReport(report)
	}

	t := report.Totals()
	s.logger.Info("retention run finished",
		"trigger", source,
		"run_id", report.RunID,
		"moved", t.Moved,
		"deleted", t.Deleted,
		"failed", t.Failed,
	)
	if next := s.NextRun(); next != nil {
		s.logger.Debug("next retention run scheduled", "next_run", next)
	}

	return report
}

// Stop stops the scheduler and waits for a running job to complete. It is
// a no-op before Start and after the first Stop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.scheduled = false
	close(s.stopCh)
	s.mu.Unlock()

	// Wait outside the lock: the running job takes it in trigger.
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("retention scheduler stopped")
}

// IsRunning returns true if periodic runs are scheduled.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduled
}

// NextRun returns the next scheduled run time, or nil if none is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	if !s.IsRunning() {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
