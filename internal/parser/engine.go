// internal/parser/engine.go
// Package parser orchestrates segmentation, field extraction and
// timestamp extraction into the final record sequence.
package parser

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/chronoview/watchparser/internal/config"
	"github.com/chronoview/watchparser/internal/fields"
	"github.com/chronoview/watchparser/internal/monitoring"
	"github.com/chronoview/watchparser/internal/segment"
	"github.com/chronoview/watchparser/internal/timestamp"
	"github.com/chronoview/watchparser/internal/utils"
	"github.com/chronoview/watchparser/pkg/types"
)

// Engine drives a full-document parse. Fragments are processed strictly
// sequentially in ordinal order: the statistics accumulator is the only
// shared resource of a run and it is updated only between fragment
// steps, which is what makes the no-shared-state invariant checkable.
type Engine struct {
	cfg        *config.Config
	log        utils.Logger
	segmenter  *segment.Segmenter
	fieldsExt  *fields.Extractor
	tsExt      *timestamp.Extractor
	metrics    *monitoring.Metrics
	onProgress func(types.ProgressEvent)

	mu    sync.RWMutex
	state types.RunState
}

// Option customizes engine construction.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log utils.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithProgress registers a progress callback. Events arrive at a
// throttled cadence, never once per entry.
func WithProgress(fn func(types.ProgressEvent)) Option {
	return func(e *Engine) { e.onProgress = fn }
}

// WithMetrics attaches a Prometheus collector.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an engine from configuration.
func NewEngine(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, utils.WrapError(utils.ErrCodeInvalidConfig, "engine configuration invalid", err)
	}

	e := &Engine{
		cfg:   cfg,
		log:   utils.NopLogger{},
		state: types.StateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}

	earliest, err := cfg.Parser.Plausibility.EarliestTime()
	if err != nil {
		return nil, utils.WrapError(utils.ErrCodeInvalidConfig, "plausibility earliest invalid", err)
	}

	e.segmenter = segment.NewSegmenter(e.log)
	e.fieldsExt = fields.NewExtractor(e.log)
	e.tsExt = timestamp.NewExtractor(timestamp.Config{
		MinimumConfidence: cfg.Parser.MinimumConfidence,
		Window: timestamp.PlausibilityWindow{
			Earliest:        earliest,
			FutureSlackDays: cfg.Parser.Plausibility.FutureSlackDays,
		},
		DebugTrace: cfg.Parser.DebugTrace,
		Logger:     e.log,
	})

	return e, nil
}

// State returns the engine's current run state.
func (e *Engine) State() types.RunState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

func (e *Engine) setState(s types.RunState) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// Parse runs the whole document through the pipeline. Per-entry failures
// are absorbed into statistics; only a document that is not parseable as
// markup at all fails the run. Cancellation is checked between chunks
// and returns the records assembled so far with Cancelled set, not an
// error.
func (e *Engine) Parse(ctx context.Context, document string) (*types.ParseResult, error) {
	start := time.Now()

	if strings.TrimSpace(document) == "" || !strings.Contains(document, "<") {
		e.setState(types.StateFailed)
		e.metrics.RecordRun(string(types.StateFailed), time.Since(start))
		return nil, utils.NewStructuredError(utils.ErrCodeInvalidDocument,
			"input is not parseable as a markup document")
	}

	e.setState(types.StateSegmenting)
	chunks := segment.SplitChunks(document, e.cfg.Parser.ChunkSizeBytes)
	totalEstimate := segment.EstimateEntries(document)
	e.log.Debugf("parse: %d chunks, %d estimated entries", len(chunks), totalEstimate)

	acc := newStatsAccumulator()
	reporter := newProgressReporter(e.onProgress, totalEstimate, start)
	records := make([]types.WatchRecord, 0, totalEstimate)

	e.setState(types.StateExtracting)
	nextOrdinal := 0
	cancelled := false

chunkLoop:
	for _, chunk := range chunks {
		select {
		case <-ctx.Done():
			cancelled = true
			break chunkLoop
		default:
		}

		fragments, skipped, err := e.segmenter.SegmentChunk(chunk, nextOrdinal)
		if err != nil {
			// A chunk that fails to parse as markup entirely is skipped;
			// the rest of the document must still yield its entries.
			e.log.Warnf("parse: chunk skipped: %v", err)
			acc.skipped++
			continue
		}
		acc.skipped += skipped
		e.metrics.RecordSkipped(skipped)
		nextOrdinal += len(fragments)

		for _, fragment := range fragments {
			record, ok := e.processFragment(acc, fragment)
			if !ok {
				acc.skipped++
				e.metrics.RecordSkipped(1)
				continue
			}
			records = append(records, record)
			reporter.step(len(records))
		}
	}

	e.setState(types.StateFinalizing)
	stats := acc.finalize(time.Since(start))

	result := &types.ParseResult{
		Records:   records,
		Stats:     stats,
		Cancelled: cancelled,
	}

	e.setState(types.StateDone)
	outcome := string(types.StateDone)
	if cancelled {
		outcome = "cancelled"
	}
	e.metrics.RecordRun(outcome, stats.Duration)
	reporter.final(len(records))
	e.log.Infof("parse: %d records, %d with timestamp, %d skipped",
		stats.TotalEntries, stats.EntriesWithTimestamp, stats.SkippedFragments)

	return result, nil
}

// processFragment turns one fragment into a record. A panic inside the
// extraction of a single entry is contained here so one malformed entry
// never degrades the rest of the document.
func (e *Engine) processFragment(acc *statsAccumulator, fragment types.RawEntryFragment) (record types.WatchRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorf("parse: entry %d panicked: %v", fragment.Ordinal, r)
			ok = false
		}
	}()

	extracted, hasVideo := e.fieldsExt.Extract(fragment)
	if !hasVideo {
		return types.WatchRecord{}, false
	}

	tsResult := e.tsExt.Extract(fragment.PlainText, fragment.MarkupText)
	acc.recordAttempts(tsResult.Attempts)

	candidate := tsResult.Candidate
	record = types.WatchRecord{
		ID:                  recordID(fragment, extracted.VideoID),
		WatchedAt:           candidate.Instant,
		VideoID:             extracted.VideoID,
		VideoTitle:          extracted.VideoTitle,
		VideoURL:            extracted.VideoURL,
		ChannelID:           extracted.ChannelID,
		ChannelTitle:        extracted.ChannelTitle,
		ChannelURL:          extracted.ChannelURL,
		Product:             extracted.Product,
		RawTimestampText:    candidate.MatchedText,
		TimestampConfidence: candidate.Confidence,
	}

	acc.recordEntry(candidate)
	e.metrics.RecordEntry(candidate.StrategyID, candidate.Confidence)
	return record, true
}

// recordID derives a stable identifier from the fragment ordinal and the
// video id, falling back to a synthetic key for entries without one.
func recordID(fragment types.RawEntryFragment, videoID string) string {
	if videoID != "" {
		return fmt.Sprintf("entry-%d-%s", fragment.Ordinal, videoID)
	}
	h := fnv.New32a()
	h.Write([]byte(fragment.PlainText))
	return fmt.Sprintf("entry-%d-x%08x", fragment.Ordinal, h.Sum32())
}
