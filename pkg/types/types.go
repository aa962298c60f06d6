// pkg/types/types.go
// Package types defines the public data model for watch history parsing.
package types

import (
	"fmt"
	"time"
)

// Product identifies which service a watch event belongs to.
type Product string

const (
	ProductYouTube      Product = "YouTube"
	ProductYouTubeMusic Product = "YouTube Music"
)

// RunState represents a phase of a document parse run.
type RunState string

const (
	StateIdle       RunState = "idle"
	StateSegmenting RunState = "segmenting"
	StateExtracting RunState = "extracting"
	StateFinalizing RunState = "finalizing"
	StateDone       RunState = "done"
	StateFailed     RunState = "failed"
)

// RawEntryFragment is one isolated segment of the source document
// corresponding to a single watch event. The text fields are freshly
// materialized copies; no fragment shares buffers or parse state with
// another fragment.
type RawEntryFragment struct {
	PlainText  string `json:"plain_text"`
	MarkupText string `json:"markup_text"`
	Ordinal    int    `json:"ordinal"`
}

// QualityFlags describe what the matched timestamp pattern actually
// captured. They are independent booleans, not derived from confidence.
type QualityFlags struct {
	HasTimezone      bool `json:"has_timezone"`
	HasFullDateTime  bool `json:"has_full_date_time"`
	FormatRecognized bool `json:"format_recognized"`
	DateReasonable   bool `json:"date_reasonable"`
}

// TimestampCandidate is one extraction strategy's proposed result.
// Instant is nil if and only if Confidence is 0.
type TimestampCandidate struct {
	Instant    *time.Time   `json:"instant,omitempty"`
	Confidence int          `json:"confidence"`
	StrategyID string       `json:"strategy_id"`
	Quality    QualityFlags `json:"quality"`

	// MatchOffset is the byte offset of the match within the fragment's
	// normalized plain text, used by the selection policy.
	MatchOffset int `json:"match_offset"`

	// MatchedText preserves the matched substring for audit purposes. It
	// is taken from the normalized fragment text, the same string
	// MatchOffset indexes into, so Unicode space variants appear as plain
	// spaces rather than as the raw export bytes.
	MatchedText string `json:"matched_text,omitempty"`
}

// StrategyAttempt records one cascade stage's outcome for diagnostics.
type StrategyAttempt struct {
	StrategyID string `json:"strategy_id"`
	Matched    bool   `json:"matched"`
	Confidence int    `json:"confidence"`
}

// TimestampExtractionResult is the selected candidate for one fragment
// plus the per-stage outcomes of the full cascade.
type TimestampExtractionResult struct {
	Candidate TimestampCandidate `json:"candidate"`
	Attempts  []StrategyAttempt  `json:"attempts"`
}

// WatchRecord is one normalized viewing event. Records are immutable once
// returned; ordering follows the fragment ordinal, not the watch time.
type WatchRecord struct {
	ID                  string     `json:"id"`
	WatchedAt           *time.Time `json:"watched_at"`
	VideoID             string     `json:"video_id,omitempty"`
	VideoTitle          string     `json:"video_title,omitempty"`
	VideoURL            string     `json:"video_url,omitempty"`
	ChannelID           string     `json:"channel_id,omitempty"`
	ChannelTitle        string     `json:"channel_title,omitempty"`
	ChannelURL          string     `json:"channel_url,omitempty"`
	Product             Product    `json:"product"`
	RawTimestampText    string     `json:"raw_timestamp_text,omitempty"`
	TimestampConfidence int        `json:"timestamp_confidence"`
}

// StrategyPerformance aggregates one strategy's attempts over a run.
type StrategyPerformance struct {
	StrategyID string `json:"strategy_id"`
	Attempts   int    `json:"attempts"`
	Successes  int    `json:"successes"`
}

// ParseRunStatistics aggregates a full-document parse.
type ParseRunStatistics struct {
	TotalEntries            int                   `json:"total_entries"`
	EntriesWithTimestamp    int                   `json:"entries_with_timestamp"`
	EntriesWithoutTimestamp int                   `json:"entries_without_timestamp"`
	SkippedFragments        int                   `json:"skipped_fragments"`
	AverageConfidence       float64               `json:"average_confidence"`
	PerStrategyPerformance  []StrategyPerformance `json:"per_strategy_performance"`
	Duration                time.Duration         `json:"duration"`
}

// ProgressEvent is emitted at a throttled cadence during a parse run so a
// caller can drive a progress indicator without flooding it.
type ProgressEvent struct {
	ProcessedCount int     `json:"processed_count"`
	TotalEstimate  int     `json:"total_estimate"`
	Percentage     float64 `json:"percentage"`
	ETASeconds     float64 `json:"eta_seconds"`
}

// ParseResult bundles the ordered record sequence with run statistics.
// Cancelled is set when the run was stopped cooperatively; the records
// assembled before cancellation are still present.
type ParseResult struct {
	Records   []WatchRecord      `json:"records"`
	Stats     ParseRunStatistics `json:"statistics"`
	Cancelled bool               `json:"cancelled,omitempty"`
}

// RecordSink consumes the final record sequence. Persistence, merge and
// dedup policy across multiple parses belong to implementations of this
// interface, not to the parser.
type RecordSink interface {
	Write(records []WatchRecord, stats ParseRunStatistics) error
	Close() error
}

// Classifier is a downstream pass that annotates records with topic tags.
type Classifier interface {
	Classify(record WatchRecord) []string
}

// Enricher fetches richer metadata for video IDs out of band.
type Enricher interface {
	Enrich(videoIDs []string) (map[string]map[string]string, error)
}

// Validate checks internal consistency of a candidate.
func (c TimestampCandidate) Validate() error {
	if c.Confidence < 0 || c.Confidence > 100 {
		return fmt.Errorf("confidence %d out of range [0,100]", c.Confidence)
	}
	if (c.Instant == nil) != (c.Confidence == 0) {
		return fmt.Errorf("instant must be absent exactly when confidence is 0")
	}
	return nil
}

// HasTimestamp reports whether the record carries a usable watch time.
func (r WatchRecord) HasTimestamp() bool {
	return r.WatchedAt != nil && r.TimestampConfidence > 0
}

// SuccessRate returns the fraction of attempts that produced a match.
func (p StrategyPerformance) SuccessRate() float64 {
	if p.Attempts == 0 {
		return 0
	}
	return float64(p.Successes) / float64(p.Attempts)
}

// String implements fmt.Stringer for run states.
func (s RunState) String() string { return string(s) }
