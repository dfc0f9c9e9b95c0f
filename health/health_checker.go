// Package health provides health checking functionality for the hemotherapy API.
package health

import (
	"math"
	"net/http"
	"runtime"
	"time"

	"github.com/giygas/hemoterapia-api/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	stats     interfaces.StatsStore
	scheduler interfaces.Scheduler
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(stats interfaces.StatsStore, scheduler interfaces.Scheduler) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		stats:     stats,
		scheduler: scheduler,
	}
}

// HealthCheck returns HTTP-specific health data.
// The engine has no external dependencies, so only the maintenance scheduler
// can degrade the service.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	snap := h.stats.Snapshot()
	running := h.scheduler != nil && h.scheduler.IsRunning()

	if running {
		status = "healthy"
		httpStatus = http.StatusOK
	} else {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	byProduct := make(map[string]uint64, len(snap.ByProduct))
	for kind, count := range snap.ByProduct {
		byProduct[string(kind)] = count
	}

	data = map[string]any{
		"uptime_seconds":      math.Round(time.Since(h.stats.GetServerStartTime()).Seconds()),
		"evaluations":         snap.Evaluations,
		"empty_evaluations":   snap.EmptyEvaluations,
		"validation_failures": snap.ValidationFailures,
		"recommendations":     byProduct,
		"last_evaluation":     formatTime(snap.LastEvaluation),
		"scheduler_running":   running,
		"next_maintenance":    nil,
		"goroutines":          runtime.NumGoroutine(),
	}

	if running {
		data["next_maintenance"] = formatTime(h.scheduler.NextRun())
	}

	return status, data, httpStatus
}

// formatTime renders t as RFC3339, nil for the zero time
func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}
