// Package scheduler runs the hemotherapy API maintenance jobs with gocron:
// rate limiter bucket pruning, log retention cleanup and a periodic
// evaluation summary.
package scheduler

import (
	"fmt"
	"time"

	"github.com/giygas/hemoterapia-api/interfaces"
	"github.com/giygas/hemoterapia-api/logging"
	"github.com/giygas/hemoterapia-api/metrics"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Job schedule
const (
	pruneInterval   = 30 // minutes
	logCleanupAt    = "03:00"
	summaryInterval = 1 // hours
)

// Scheduler handles maintenance jobs using dependency injection
type Scheduler struct {
	stats     interfaces.StatsStore
	limiter   interfaces.BucketPruner
	cleaner   interfaces.LogCleaner
	scheduler *gocron.Scheduler

	lastSummary uint64
}

// NewScheduler creates a new scheduler instance. cleaner may be nil when file
// logging is disabled.
func NewScheduler(stats interfaces.StatsStore, limiter interfaces.BucketPruner, cleaner interfaces.LogCleaner) *Scheduler {
	s := gocron.NewScheduler(time.Local)
	s.SingletonModeAll()

	return &Scheduler{
		stats:     stats,
		limiter:   limiter,
		cleaner:   cleaner,
		scheduler: s,
	}
}

// Start registers the jobs and starts the scheduler in the background
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(pruneInterval).Minutes().Tag("prune-buckets").Do(s.PruneBuckets); err != nil {
		return fmt.Errorf("failed to schedule bucket pruning: %w", err)
	}

	if s.cleaner != nil {
		if _, err := s.scheduler.Every(1).Day().At(logCleanupAt).Tag("log-cleanup").Do(s.CleanupLogs); err != nil {
			return fmt.Errorf("failed to schedule log cleanup: %w", err)
		}
	}

	if _, err := s.scheduler.Every(summaryInterval).Hours().WaitForSchedule().Tag("evaluation-summary").Do(s.LogSummary); err != nil {
		return fmt.Errorf("failed to schedule evaluation summary: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Maintenance scheduler started", "jobs", len(s.scheduler.Jobs()))

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// IsRunning reports whether the scheduler has been started and not stopped
func (s *Scheduler) IsRunning() bool {
	return s.scheduler.IsRunning()
}

// NextRun returns the time of the next maintenance job, zero when none is scheduled
func (s *Scheduler) NextRun() time.Time {
	_, next := s.scheduler.NextRun()
	return next
}

// PruneBuckets drops idle rate limiter buckets and publishes the remaining count
func (s *Scheduler) PruneBuckets() {
	remaining := s.limiter.Prune()
	metrics.RateLimiterBucketsTotal.Set(float64(remaining))
	logging.Debug("Pruned rate limiter buckets", "remaining", remaining)
}

// CleanupLogs removes log files past retention
func (s *Scheduler) CleanupLogs() {
	if s.cleaner == nil {
		return
	}
	if err := s.cleaner.CleanupOldLogs(); err != nil {
		logging.Warn("Failed to cleanup old logs", "error", err)
	}
}

// LogSummary logs the evaluation counters and how many evaluations happened
// since the previous summary. Jobs run in singleton mode, so lastSummary is
// never accessed concurrently.
func (s *Scheduler) LogSummary() {
	snap := s.stats.Snapshot()
	since := snap.Evaluations - s.lastSummary
	s.lastSummary = snap.Evaluations

	attrs := []any{
		"evaluations", snap.Evaluations,
		"since_last_summary", since,
		"empty_evaluations", snap.EmptyEvaluations,
		"validation_failures", snap.ValidationFailures,
	}
	for kind, count := range snap.ByProduct {
		attrs = append(attrs, string(kind), count)
	}

	if !snap.LastEvaluation.IsZero() {
		attrs = append(attrs, "last_evaluation", snap.LastEvaluation.Format(time.RFC3339))
	}

	logging.Info("Evaluation summary", attrs...)
}
