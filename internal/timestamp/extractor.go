// internal/timestamp/extractor.go
// Package timestamp implements the resilient timestamp extraction cascade.
//
// An Extractor is a pure value: Extract receives only one fragment's
// isolated text and markup and returns a result without touching any
// state shared across fragments. Run-level aggregation happens in the
// orchestrator, never here.
package timestamp

import (
	"regexp"

	"github.com/chronoview/watchparser/internal/utils"
	"github.com/chronoview/watchparser/pkg/types"
)

// Config controls extraction behavior for one parse run.
type Config struct {
	// MinimumConfidence is the lowest confidence a candidate may carry
	// and still be selected, 0-100.
	MinimumConfidence int

	// Window bounds the acceptable calendar range.
	Window PlausibilityWindow

	// DebugTrace logs every cascade attempt.
	DebugTrace bool

	Logger utils.Logger
}

// DefaultConfig returns the production extraction configuration.
func DefaultConfig() Config {
	return Config{
		MinimumConfidence: 70,
		Window:            DefaultWindow(),
	}
}

// Extractor runs the strategy cascade over single fragments.
type Extractor struct {
	cfg Config
	log utils.Logger
}

// NewExtractor creates an extractor with the given configuration.
func NewExtractor(cfg Config) *Extractor {
	log := cfg.Logger
	if log == nil {
		log = utils.NopLogger{}
	}
	if cfg.Window.Now == nil {
		cfg.Window = mergeWindowDefaults(cfg.Window)
	}
	return &Extractor{cfg: cfg, log: log}
}

func mergeWindowDefaults(w PlausibilityWindow) PlausibilityWindow {
	def := DefaultWindow()
	if w.Earliest.IsZero() {
		w.Earliest = def.Earliest
	}
	if w.Now == nil {
		w.Now = def.Now
	}
	return w
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Extract runs every cascade stage over the fragment's normalized plain
// text and selects one candidate: the earliest positional match wins, and
// at equal offsets the higher-confidence strategy wins. When the plain
// text yields nothing, the markup is retried with tags stripped, since
// truncated entries sometimes carry the date only inside the markup.
//
// A no-match outcome is not an error: the result carries a nil instant
// and zero confidence.
//
// The candidate's MatchOffset and MatchedText refer to the normalized
// text the cascade ran over, not the raw fragment bytes.
func (e *Extractor) Extract(plainText, markupText string) types.TimestampExtractionResult {
	text := utils.NormalizeText(plainText)
	result := e.runCascade(text)
	if result.Candidate.Instant == nil && markupText != "" {
		fallback := utils.NormalizeText(tagPattern.ReplaceAllString(markupText, " "))
		if fallback != text {
			retry := e.runCascade(fallback)
			if retry.Candidate.Instant != nil {
				retry.Attempts = append(result.Attempts, retry.Attempts...)
				return retry
			}
		}
	}
	return result
}

func (e *Extractor) runCascade(text string) types.TimestampExtractionResult {
	attempts := make([]types.StrategyAttempt, 0, len(strategies))
	var best *types.TimestampCandidate

	for _, s := range strategies {
		m, matched := s.scan(text)
		attempt := types.StrategyAttempt{StrategyID: s.id, Matched: matched}
		if matched {
			candidate := e.gate(s, m)
			attempt.Confidence = candidate.Confidence
			if candidate.Instant != nil && candidate.Confidence >= e.cfg.MinimumConfidence {
				if best == nil || candidate.MatchOffset < best.MatchOffset ||
					(candidate.MatchOffset == best.MatchOffset && candidate.Confidence > best.Confidence) {
					c := candidate
					best = &c
				}
			}
			if e.cfg.DebugTrace {
				e.log.Debugf("strategy %s matched at offset %d confidence %d", s.id, m.offset, candidate.Confidence)
			}
		} else if e.cfg.DebugTrace {
			e.log.Debugf("strategy %s: no match", s.id)
		}
		attempts = append(attempts, attempt)
	}

	if best == nil {
		return types.TimestampExtractionResult{
			Candidate: types.TimestampCandidate{Confidence: 0},
			Attempts:  attempts,
		}
	}
	return types.TimestampExtractionResult{Candidate: *best, Attempts: attempts}
}

// gate applies the plausibility window to a raw strategy match, forcing
// implausible dates back to an absent result.
func (e *Extractor) gate(s strategy, m rawMatch) types.TimestampCandidate {
	quality := m.quality
	if !e.cfg.Window.Allows(m.instant) {
		quality.DateReasonable = false
		return types.TimestampCandidate{
			Confidence:  0,
			StrategyID:  s.id,
			Quality:     quality,
			MatchOffset: m.offset,
			MatchedText: m.text,
		}
	}
	quality.DateReasonable = true
	instant := m.instant
	return types.TimestampCandidate{
		Instant:     &instant,
		Confidence:  s.confidence,
		StrategyID:  s.id,
		Quality:     quality,
		MatchOffset: m.offset,
		MatchedText: m.text,
	}
}

// StrategyIDs returns the cascade order, primarily for statistics setup.
func StrategyIDs() []string {
	ids := make([]string, len(strategies))
	for i, s := range strategies {
		ids[i] = s.id
	}
	return ids
}
