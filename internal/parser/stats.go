// internal/parser/stats.go
package parser

import (
	"time"

	"github.com/chronoview/watchparser/internal/timestamp"
	"github.com/chronoview/watchparser/pkg/types"
)

// statsAccumulator collects run-level statistics. It is owned exclusively
// by the orchestrator and updated only between sequential fragment steps,
// never concurrently.
type statsAccumulator struct {
	total            int
	withTimestamp    int
	withoutTimestamp int
	skipped          int
	confidenceSum    int

	order    []string
	strategy map[string]*types.StrategyPerformance
}

func newStatsAccumulator() *statsAccumulator {
	acc := &statsAccumulator{
		order:    timestamp.StrategyIDs(),
		strategy: make(map[string]*types.StrategyPerformance),
	}
	for _, id := range acc.order {
		acc.strategy[id] = &types.StrategyPerformance{StrategyID: id}
	}
	return acc
}

// recordAttempts folds one fragment's cascade outcomes into the
// per-strategy table.
func (a *statsAccumulator) recordAttempts(attempts []types.StrategyAttempt) {
	for _, attempt := range attempts {
		perf, ok := a.strategy[attempt.StrategyID]
		if !ok {
			perf = &types.StrategyPerformance{StrategyID: attempt.StrategyID}
			a.strategy[attempt.StrategyID] = perf
			a.order = append(a.order, attempt.StrategyID)
		}
		perf.Attempts++
		if attempt.Matched && attempt.Confidence > 0 {
			perf.Successes++
		}
	}
}

// recordEntry folds one assembled record's timestamp outcome.
func (a *statsAccumulator) recordEntry(candidate types.TimestampCandidate) {
	a.total++
	if candidate.Instant != nil {
		a.withTimestamp++
		a.confidenceSum += candidate.Confidence
	} else {
		a.withoutTimestamp++
	}
}

// finalize freezes the accumulator into the public statistics value. The
// average confidence covers entries that resolved a timestamp; entries
// without one would only drag the average toward zero without saying
// anything about extraction quality.
func (a *statsAccumulator) finalize(duration time.Duration) types.ParseRunStatistics {
	perStrategy := make([]types.StrategyPerformance, 0, len(a.order))
	for _, id := range a.order {
		perStrategy = append(perStrategy, *a.strategy[id])
	}

	avg := 0.0
	if a.withTimestamp > 0 {
		avg = float64(a.confidenceSum) / float64(a.withTimestamp)
	}

	return types.ParseRunStatistics{
		TotalEntries:            a.total,
		EntriesWithTimestamp:    a.withTimestamp,
		EntriesWithoutTimestamp: a.withoutTimestamp,
		SkippedFragments:        a.skipped,
		AverageConfidence:       avg,
		PerStrategyPerformance:  perStrategy,
		Duration:                duration,
	}
}
