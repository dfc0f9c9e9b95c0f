// Package interfaces defines core abstractions for the hemotherapy API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"net/http"
	"time"

	"github.com/giygas/hemoterapia-api/transfusion"
)

// Evaluator maps a patient snapshot to ordered product recommendations.
// Implementations must be pure and safe for concurrent use.
type Evaluator interface {
	Evaluate(snapshot transfusion.PatientSnapshot) []transfusion.Recommendation
}

// SnapshotValidator checks the input contract before a snapshot is evaluated.
type SnapshotValidator interface {
	// ValidateSnapshot checks the numeric ranges accepted by the input form
	ValidateSnapshot(snapshot transfusion.PatientSnapshot) error

	// ValidateTeachingFlag parses the optional teaching mode flag
	ValidateTeachingFlag(input string) (bool, error)
}

// StatsSnapshot is a point-in-time copy of the evaluation counters.
type StatsSnapshot struct {
	Evaluations        uint64
	EmptyEvaluations   uint64
	ValidationFailures uint64
	ByProduct          map[transfusion.ProductKind]uint64
	LastEvaluation     time.Time
	ServerStartTime    time.Time
}

// StatsStore records anonymous evaluation counters. No patient data is kept.
type StatsStore interface {
	RecordEvaluation(recs []transfusion.Recommendation)
	RecordValidationFailure()
	Snapshot() StatsSnapshot
	GetServerStartTime() time.Time
}

// BucketPruner drops idle rate limiter state.
type BucketPruner interface {
	// Prune removes full buckets and returns how many remain
	Prune() int
}

// LogCleaner removes log files past their retention period.
type LogCleaner interface {
	CleanupOldLogs() error
}

// Scheduler defines the contract for maintenance job scheduling.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()

	IsRunning() bool
	NextRun() time.Time
}

// HTTPHandler defines the contract for HTTP request handlers.
type HTTPHandler interface {
	EvaluateTransfusion(w http.ResponseWriter, r *http.Request)
	ServeReferences(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status, details and the HTTP status to use
	HealthCheck() (status string, details map[string]any, httpStatus int)
}
