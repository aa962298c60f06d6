// internal/segment/segmenter_test.go
package segment

import (
	"fmt"
	"strings"
	"testing"
)

// watchEntry builds one Takeout-style watch entry.
func watchEntry(title, videoID, channel, channelID, when string) string {
	return fmt.Sprintf(`<div class="outer-cell mdl-cell mdl-cell--12-col mdl-shadow--2dp">
 <div class="mdl-grid">
  <div class="content-cell mdl-cell mdl-cell--6-col mdl-typography--body-1">Watched&nbsp;<a href="https://www.youtube.com/watch?v=%s">%s</a><br><a href="https://www.youtube.com/channel/%s">%s</a><br>%s</div>
  <div class="content-cell mdl-cell mdl-cell--12-col mdl-typography--caption"><b>Products:</b><br>&emsp;YouTube</div>
 </div>
</div>`, videoID, title, channelID, channel, when)
}

func wrapDocument(entries ...string) string {
	return `<html><body><div class="mdl-grid">` + strings.Join(entries, "\n") + `</div></body></html>`
}

func TestSegmentChunk(t *testing.T) {
	chunk := wrapDocument(
		watchEntry("First Video", "vid00001", "Channel One", "UCaaa", "Aug 11, 2025, 10:30:00 PM CDT"),
		watchEntry("Second Video", "vid00002", "Channel Two", "UCbbb", "Jan 5, 2024, 09:15:00 AM UTC"),
		watchEntry("Third Video", "vid00003", "Channel Three", "UCccc", "Mar 20, 2023, 02:00:00 PM UTC"),
	)

	s := NewSegmenter(nil)
	fragments, skipped, err := s.SegmentChunk(chunk, 10)
	if err != nil {
		t.Fatalf("SegmentChunk: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(fragments) != 3 {
		t.Fatalf("fragments = %d, want 3", len(fragments))
	}

	for i, f := range fragments {
		if f.Ordinal != 10+i {
			t.Errorf("fragment %d ordinal = %d, want %d", i, f.Ordinal, 10+i)
		}
		if !strings.Contains(f.MarkupText, "outer-cell") {
			t.Errorf("fragment %d markup lost its enclosing cell", i)
		}
	}

	if !strings.Contains(fragments[0].PlainText, "First Video") ||
		!strings.Contains(fragments[0].PlainText, "Aug 11, 2025") {
		t.Errorf("fragment 0 plain text = %q", fragments[0].PlainText)
	}
}

// Each fragment must carry only its own entry's content. A fragment
// containing a neighbor's title or date would mean shared parse state
// leaked across entries.
func TestSegmentChunkIsolatesFragments(t *testing.T) {
	dates := []string{
		"Aug 11, 2025, 10:30:00 PM CDT",
		"Jan 5, 2024, 09:15:00 AM UTC",
		"Mar 20, 2023, 02:00:00 PM UTC",
		"Jul 4, 2022, 08:00:00 PM EST",
	}
	entries := make([]string, len(dates))
	for i, d := range dates {
		entries[i] = watchEntry(fmt.Sprintf("Video %d", i), fmt.Sprintf("vid%05d", i),
			"Some Channel", "UCxyz", d)
	}

	s := NewSegmenter(nil)
	fragments, _, err := s.SegmentChunk(wrapDocument(entries...), 0)
	if err != nil {
		t.Fatalf("SegmentChunk: %v", err)
	}
	if len(fragments) != len(dates) {
		t.Fatalf("fragments = %d, want %d", len(fragments), len(dates))
	}

	for i, f := range fragments {
		for j, d := range dates {
			has := strings.Contains(f.PlainText, d)
			if i == j && !has {
				t.Errorf("fragment %d missing its own date %q: %q", i, d, f.PlainText)
			}
			if i != j && has {
				t.Errorf("fragment %d contains fragment %d's date %q", i, j, d)
			}
		}
	}
}

func TestSegmentChunkSkipsBrokenEntries(t *testing.T) {
	chunk := wrapDocument(
		watchEntry("Good One", "vid00001", "Channel", "UCaaa", "Aug 11, 2025, 10:30:00 PM CDT"),
		`<div class="outer-cell mdl-cell"></div>`,
		watchEntry("Good Two", "vid00002", "Channel", "UCbbb", "Jan 5, 2024, 09:15:00 AM UTC"),
	)

	s := NewSegmenter(nil)
	fragments, skipped, err := s.SegmentChunk(chunk, 0)
	if err != nil {
		t.Fatalf("SegmentChunk: %v", err)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if len(fragments) != 2 {
		t.Fatalf("fragments = %d, want 2", len(fragments))
	}
	// Ordinals stay contiguous over the surviving fragments.
	if fragments[0].Ordinal != 0 || fragments[1].Ordinal != 1 {
		t.Errorf("ordinals = %d, %d, want 0, 1", fragments[0].Ordinal, fragments[1].Ordinal)
	}
}

func TestSegmentChunkNoEntries(t *testing.T) {
	s := NewSegmenter(nil)
	fragments, skipped, err := s.SegmentChunk("<html><body><p>nothing here</p></body></html>", 0)
	if err != nil {
		t.Fatalf("SegmentChunk: %v", err)
	}
	if len(fragments) != 0 || skipped != 0 {
		t.Errorf("fragments = %d, skipped = %d, want 0, 0", len(fragments), skipped)
	}
}

func TestSegmentChunkLegacyGridLayout(t *testing.T) {
	// Older exports lack the outer-cell wrapper; grid cells stand alone.
	chunk := `<html><body><div class="mdl-grid">
<div class="mdl-cell"><div class="content-cell">Watched <a href="https://www.youtube.com/watch?v=old00001">Old Video</a><br>Jun 1, 2015, 08:00:00 AM UTC</div></div>
</div></body></html>`

	s := NewSegmenter(nil)
	fragments, _, err := s.SegmentChunk(chunk, 0)
	if err != nil {
		t.Fatalf("SegmentChunk: %v", err)
	}
	if len(fragments) != 1 {
		t.Fatalf("fragments = %d, want 1", len(fragments))
	}
	if !strings.Contains(fragments[0].PlainText, "Old Video") {
		t.Errorf("plain text = %q", fragments[0].PlainText)
	}
}
