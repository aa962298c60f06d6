// internal/parser/engine_test.go
package parser

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/chronoview/watchparser/internal/config"
	"github.com/chronoview/watchparser/internal/timestamp"
	"github.com/chronoview/watchparser/internal/utils"
	"github.com/chronoview/watchparser/pkg/types"
)

func watchEntry(title, videoID, when string) string {
	return fmt.Sprintf(`<div class="outer-cell mdl-cell mdl-cell--12-col mdl-shadow--2dp">
 <div class="mdl-grid">
  <div class="content-cell mdl-cell mdl-cell--6-col mdl-typography--body-1">Watched&nbsp;<a href="https://www.youtube.com/watch?v=%s">%s</a><br><a href="https://www.youtube.com/channel/UCtest">Test Channel</a><br>%s</div>
  <div class="content-cell mdl-cell mdl-cell--12-col mdl-typography--caption"><b>Products:</b><br>&emsp;YouTube</div>
 </div>
</div>`, videoID, title, when)
}

func wrapDocument(entries ...string) string {
	return `<html><body><div class="mdl-grid">` + strings.Join(entries, "\n") + `</div></body></html>`
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(config.Default(), opts...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

// Four entries with four distinct dates must each resolve to their own
// instant: no extraction state may bleed from one entry into the next.
func TestParseIsolatesEntries(t *testing.T) {
	entries := []struct {
		title string
		vid   string
		when  string
		want  time.Time
	}{
		{"Alpha", "vidalpha001", "Aug 11, 2025, 10:30:00 PM CDT", time.Date(2025, time.August, 12, 3, 30, 0, 0, time.UTC)},
		{"Beta", "vidbeta0001", "Jan 5, 2024, 09:15:00 AM UTC", time.Date(2024, time.January, 5, 9, 15, 0, 0, time.UTC)},
		{"Gamma", "vidgamma001", "Mar 20, 2023, 02:00:00 PM UTC", time.Date(2023, time.March, 20, 14, 0, 0, 0, time.UTC)},
		{"Delta", "viddelta001", "Jul 4, 2022, 08:00:00 PM EST", time.Date(2022, time.July, 5, 1, 0, 0, 0, time.UTC)},
	}

	markup := make([]string, len(entries))
	for i, e := range entries {
		markup[i] = watchEntry(e.title, e.vid, e.when)
	}

	engine := newTestEngine(t)
	result, err := engine.Parse(context.Background(), wrapDocument(markup...))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(result.Records) != len(entries) {
		t.Fatalf("records = %d, want %d", len(result.Records), len(entries))
	}

	for i, want := range entries {
		r := result.Records[i]
		if r.VideoID != want.vid {
			t.Errorf("record %d video id = %q, want %q", i, r.VideoID, want.vid)
		}
		if r.WatchedAt == nil {
			t.Fatalf("record %d has no timestamp", i)
		}
		if !r.WatchedAt.Equal(want.want) {
			t.Errorf("record %d watched at %v, want %v", i, r.WatchedAt, want.want)
		}
	}

	if engine.State() != types.StateDone {
		t.Errorf("state = %s, want %s", engine.State(), types.StateDone)
	}
}

// Isolation must also hold across chunk boundaries: a small chunk budget
// forces the document through many segmentation passes, and every record
// still has to carry its own entry's instant.
func TestParseIsolatesEntriesAcrossChunks(t *testing.T) {
	const count = 200
	base := time.Date(2024, time.January, 1, 6, 0, 0, 0, time.UTC)
	padding := strings.Repeat("x", 600)

	entries := make([]string, count)
	want := make([]time.Time, count)
	for i := 0; i < count; i++ {
		want[i] = base.Add(time.Duration(i) * time.Hour)
		entries[i] = watchEntry(
			fmt.Sprintf("Video %d %s", i, padding),
			fmt.Sprintf("vid%08d", i),
			want[i].Format("Jan 2, 2006, 03:04:05 PM")+" UTC")
	}

	cfg := config.Default()
	cfg.Parser.ChunkSizeBytes = 64 * 1024
	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	doc := wrapDocument(entries...)
	if len(doc) < 3*cfg.Parser.ChunkSizeBytes {
		t.Fatalf("test document too small to span chunks: %d bytes", len(doc))
	}

	result, err := engine.Parse(context.Background(), doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(result.Records) != count {
		t.Fatalf("records = %d, want %d", len(result.Records), count)
	}
	for i, r := range result.Records {
		if r.VideoID != fmt.Sprintf("vid%08d", i) {
			t.Fatalf("record %d video id = %q, ordering broke at a chunk boundary", i, r.VideoID)
		}
		if r.WatchedAt == nil || !r.WatchedAt.Equal(want[i]) {
			t.Errorf("record %d watched at %v, want %v", i, r.WatchedAt, want[i])
		}
	}
}

func TestParseDeterministic(t *testing.T) {
	doc := wrapDocument(
		watchEntry("One", "vidone00001", "Aug 11, 2025, 10:30:00 PM CDT"),
		watchEntry("Two", "vidtwo00001", "Jan 5, 2024, 09:15:00 AM UTC"),
		watchEntry("Three", "vidthree001", "definitely not a date"),
	)

	first, err := newTestEngine(t).Parse(context.Background(), doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	second, err := newTestEngine(t).Parse(context.Background(), doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !reflect.DeepEqual(first.Records, second.Records) {
		t.Error("two parses of the same document produced different records")
	}
	if first.Stats.EntriesWithTimestamp != second.Stats.EntriesWithTimestamp ||
		first.Stats.TotalEntries != second.Stats.TotalEntries {
		t.Errorf("statistics diverged: %+v vs %+v", first.Stats, second.Stats)
	}
}

// One structurally broken entry among ten valid ones must cost exactly
// that one entry, never the run.
func TestParseGracefulDegradation(t *testing.T) {
	var entries []string
	for i := 0; i < 10; i++ {
		entries = append(entries, watchEntry(
			fmt.Sprintf("Video %d", i), fmt.Sprintf("vid%08d", i),
			"Aug 11, 2025, 10:30:00 PM UTC"))
	}
	// The broken entry sits in the middle of the document.
	entries = append(entries[:5], append([]string{`<div class="outer-cell mdl-cell"></div>`}, entries[5:]...)...)

	engine := newTestEngine(t)
	result, err := engine.Parse(context.Background(), wrapDocument(entries...))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(result.Records) != 10 {
		t.Errorf("records = %d, want 10", len(result.Records))
	}
	if result.Stats.SkippedFragments != 1 {
		t.Errorf("skipped = %d, want 1", result.Stats.SkippedFragments)
	}
	if result.Stats.TotalEntries != 10 {
		t.Errorf("total entries = %d, want 10", result.Stats.TotalEntries)
	}
}

func TestParseEntryWithoutTimestamp(t *testing.T) {
	doc := wrapDocument(
		watchEntry("Dated", "viddated001", "Aug 11, 2025, 10:30:00 PM UTC"),
		watchEntry("Undated", "vidundat001", "sometime last week"),
	)

	result, err := newTestEngine(t).Parse(context.Background(), doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(result.Records))
	}

	undated := result.Records[1]
	if undated.WatchedAt != nil {
		t.Errorf("undated record carries %v", undated.WatchedAt)
	}
	if undated.TimestampConfidence != 0 {
		t.Errorf("undated confidence = %d, want 0", undated.TimestampConfidence)
	}
	if undated.VideoID != "vidundat001" {
		t.Errorf("undated record lost its fields: %+v", undated)
	}

	if result.Stats.EntriesWithTimestamp != 1 || result.Stats.EntriesWithoutTimestamp != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}
	// Average confidence covers only the entries that resolved.
	if result.Stats.AverageConfidence != 85 {
		t.Errorf("average confidence = %v, want 85", result.Stats.AverageConfidence)
	}
}

func TestParseInvalidDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t  "},
		{"no markup", "just some plain words"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t)
			result, err := engine.Parse(context.Background(), tt.doc)
			if err == nil {
				t.Fatal("expected an error")
			}
			if result != nil {
				t.Error("result should be nil on a fatal document error")
			}
			var se *utils.StructuredError
			if !errors.As(err, &se) || se.Code != utils.ErrCodeInvalidDocument {
				t.Errorf("error = %v, want code %s", err, utils.ErrCodeInvalidDocument)
			}
			if engine.State() != types.StateFailed {
				t.Errorf("state = %s, want %s", engine.State(), types.StateFailed)
			}
		})
	}
}

func TestParseCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := wrapDocument(watchEntry("One", "vidone00001", "Aug 11, 2025, 10:30:00 PM UTC"))
	result, err := newTestEngine(t).Parse(ctx, doc)
	if err != nil {
		t.Fatalf("cancellation must not be an error, got %v", err)
	}
	if !result.Cancelled {
		t.Error("result should be marked cancelled")
	}
	if len(result.Records) != 0 {
		t.Errorf("records = %d, want 0 when cancelled before the first chunk", len(result.Records))
	}
}

func TestParseStrategyStatistics(t *testing.T) {
	doc := wrapDocument(
		watchEntry("One", "vidone00001", "Aug 11, 2025, 10:30:00 PM CDT"),
		watchEntry("Two", "vidtwo00001", "Jan 5, 2024, 09:15:00 AM UTC"),
		watchEntry("Three", "vidthree001", "2023-03-20T14:00:00"),
	)

	result, err := newTestEngine(t).Parse(context.Background(), doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	perf := make(map[string]types.StrategyPerformance)
	for _, p := range result.Stats.PerStrategyPerformance {
		perf[p.StrategyID] = p
	}

	// Every strategy runs against every entry.
	for _, id := range timestamp.StrategyIDs() {
		p, ok := perf[id]
		if !ok {
			t.Fatalf("missing performance row for %s", id)
		}
		if p.Attempts != 3 {
			t.Errorf("%s attempts = %d, want 3", id, p.Attempts)
		}
	}

	if perf[timestamp.StrategyFullTZ].Successes != 2 {
		t.Errorf("full_tz successes = %d, want 2", perf[timestamp.StrategyFullTZ].Successes)
	}
	if perf[timestamp.StrategyISOLike].Successes != 1 {
		t.Errorf("iso_like successes = %d, want 1", perf[timestamp.StrategyISOLike].Successes)
	}
}

func TestParseProgressEvents(t *testing.T) {
	var entries []string
	for i := 0; i < 20; i++ {
		entries = append(entries, watchEntry(
			fmt.Sprintf("Video %d", i), fmt.Sprintf("vid%08d", i),
			"Aug 11, 2025, 10:30:00 PM UTC"))
	}

	var events []types.ProgressEvent
	engine := newTestEngine(t, WithProgress(func(ev types.ProgressEvent) {
		events = append(events, ev)
	}))

	result, err := engine.Parse(context.Background(), wrapDocument(entries...))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("expected at least the final progress event")
	}

	last := events[len(events)-1]
	if last.ProcessedCount != len(result.Records) {
		t.Errorf("final processed = %d, want %d", last.ProcessedCount, len(result.Records))
	}
	if last.Percentage != 100 {
		t.Errorf("final percentage = %v, want 100", last.Percentage)
	}

	// Throttled cadence: far fewer events than entries.
	if len(events) > len(entries) {
		t.Errorf("events = %d, expected throttling below %d", len(events), len(entries))
	}
}

func TestParseRecordIDs(t *testing.T) {
	doc := wrapDocument(
		watchEntry("One", "vidone00001", "Aug 11, 2025, 10:30:00 PM UTC"),
		watchEntry("Two", "vidtwo00001", "Jan 5, 2024, 09:15:00 AM UTC"),
	)

	result, err := newTestEngine(t).Parse(context.Background(), doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := result.Records[0].ID; got != "entry-0-vidone00001" {
		t.Errorf("record 0 id = %q", got)
	}
	if got := result.Records[1].ID; got != "entry-1-vidtwo00001" {
		t.Errorf("record 1 id = %q", got)
	}
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Parser.MinimumConfidence = 250
	if _, err := NewEngine(cfg); err == nil {
		t.Fatal("expected a validation error")
	}
}
