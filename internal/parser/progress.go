// internal/parser/progress.go
package parser

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/chronoview/watchparser/pkg/types"
)

// progressEventsPerSecond bounds the cadence of progress callbacks so a
// large export cannot flood a UI layer with per-entry updates.
const progressEventsPerSecond = 5

// progressReporter throttles progress events with a token bucket. The
// final event always fires so consumers see 100%.
type progressReporter struct {
	emit    func(types.ProgressEvent)
	total   int
	started time.Time
	limiter *rate.Limiter
}

func newProgressReporter(emit func(types.ProgressEvent), total int, started time.Time) *progressReporter {
	return &progressReporter{
		emit:    emit,
		total:   total,
		started: started,
		limiter: rate.NewLimiter(rate.Limit(progressEventsPerSecond), 1),
	}
}

// step reports progress after one record if the throttle allows it.
func (p *progressReporter) step(processed int) {
	if p.emit == nil || !p.limiter.Allow() {
		return
	}
	p.emit(p.event(processed))
}

// final reports the terminal progress state unconditionally.
func (p *progressReporter) final(processed int) {
	if p.emit == nil {
		return
	}
	event := p.event(processed)
	event.Percentage = 100
	event.ETASeconds = 0
	p.emit(event)
}

func (p *progressReporter) event(processed int) types.ProgressEvent {
	event := types.ProgressEvent{
		ProcessedCount: processed,
		TotalEstimate:  p.total,
	}
	if p.total > 0 {
		event.Percentage = 100 * float64(processed) / float64(p.total)
		if processed > 0 {
			elapsed := time.Since(p.started).Seconds()
			remaining := float64(p.total-processed) * elapsed / float64(processed)
			if remaining > 0 {
				event.ETASeconds = remaining
			}
		}
	}
	return event
}
