// Package data provides thread-safe, in-memory evaluation statistics for the
// hemotherapy API. Only anonymous counters are kept: snapshots and
// recommendations are never stored.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/hemoterapia-api/interfaces"
	"github.com/giygas/hemoterapia-api/transfusion"
)

// Compile-time check to ensure StatsContainer implements StatsStore
var _ interfaces.StatsStore = (*StatsContainer)(nil)

// StatsContainer holds evaluation counters with atomic access
type StatsContainer struct {
	evaluations        atomic.Uint64
	emptyEvaluations   atomic.Uint64
	validationFailures atomic.Uint64
	byProduct          map[transfusion.ProductKind]*atomic.Uint64 // fixed key set, read-only after construction
	lastEvaluation     atomic.Value                               // time.Time
	serverStartTime    atomic.Value                               // time.Time
}

// NewStatsContainer creates a container with zeroed counters
func NewStatsContainer() *StatsContainer {
	sc := &StatsContainer{
		byProduct: make(map[transfusion.ProductKind]*atomic.Uint64, len(transfusion.ProductKinds)),
	}
	for _, kind := range transfusion.ProductKinds {
		sc.byProduct[kind] = &atomic.Uint64{}
	}
	sc.lastEvaluation.Store(time.Time{})
	sc.serverStartTime.Store(time.Now())
	return sc
}

// RecordEvaluation counts one evaluation and its recommended products
func (sc *StatsContainer) RecordEvaluation(recs []transfusion.Recommendation) {
	sc.evaluations.Add(1)
	if len(recs) == 0 {
		sc.emptyEvaluations.Add(1)
	}
	for _, rec := range recs {
		if counter, ok := sc.byProduct[rec.Product]; ok {
			counter.Add(1)
		}
	}
	sc.lastEvaluation.Store(time.Now())
}

// RecordValidationFailure counts a rejected snapshot
func (sc *StatsContainer) RecordValidationFailure() {
	sc.validationFailures.Add(1)
}

// Snapshot returns a copy of the counters
func (sc *StatsContainer) Snapshot() interfaces.StatsSnapshot {
	byProduct := make(map[transfusion.ProductKind]uint64, len(sc.byProduct))
	for kind, counter := range sc.byProduct {
		byProduct[kind] = counter.Load()
	}

	return interfaces.StatsSnapshot{
		Evaluations:        sc.evaluations.Load(),
		EmptyEvaluations:   sc.emptyEvaluations.Load(),
		ValidationFailures: sc.validationFailures.Load(),
		ByProduct:          byProduct,
		LastEvaluation:     loadTime(&sc.lastEvaluation),
		ServerStartTime:    loadTime(&sc.serverStartTime),
	}
}

// SetServerStartTime sets the server start time
func (sc *StatsContainer) SetServerStartTime(startTime time.Time) {
	sc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (sc *StatsContainer) GetServerStartTime() time.Time {
	return loadTime(&sc.serverStartTime)
}

func loadTime(v *atomic.Value) time.Time {
	if t, ok := v.Load().(time.Time); ok {
		return t
	}
	return time.Time{}
}
