// internal/segment/segmenter.go
// Package segment splits a watch-history export document into isolated
// per-entry fragments.
package segment

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/chronoview/watchparser/internal/utils"
	"github.com/chronoview/watchparser/pkg/types"
)

// Entry unit selectors, most specific first. Takeout wraps each watch
// event in an outer-cell grid cell; older exports only carry the grid.
var entrySelectors = []string{
	"div.outer-cell",
	"div.mdl-grid > div.mdl-cell",
}

// contentSelector marks the sub-cell holding the watch link and the
// timestamp text. An entry without one has no recognizable structure.
const contentSelector = "div.content-cell"

// Segmenter partitions a document into RawEntryFragment values. Each
// fragment's text and markup are freshly materialized strings, never
// views into shared parser state, so no fragment's extraction can
// observe another fragment's content.
type Segmenter struct {
	log utils.Logger
}

// NewSegmenter creates a segmenter.
func NewSegmenter(log utils.Logger) *Segmenter {
	if log == nil {
		log = utils.NopLogger{}
	}
	return &Segmenter{log: log}
}

// SegmentChunk parses one chunk of document markup and returns the entry
// fragments it contains, assigning ordinals from base upward. Fragments
// whose structure cannot be isolated are skipped and counted, not raised:
// a partially malformed chunk still yields every parseable entry.
//
// The returned error is document-level only: it means the chunk is not
// parseable as markup at all.
func (s *Segmenter) SegmentChunk(chunk string, base int) ([]types.RawEntryFragment, int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(chunk))
	if err != nil {
		return nil, 0, utils.WrapError(utils.ErrCodeInvalidDocument,
			fmt.Sprintf("chunk at ordinal %d is not parseable as markup", base), err)
	}

	var sel *goquery.Selection
	for _, selector := range entrySelectors {
		sel = doc.Find(selector)
		if sel.Length() > 0 {
			break
		}
	}
	if sel == nil || sel.Length() == 0 {
		return nil, 0, nil
	}

	fragments := make([]types.RawEntryFragment, 0, sel.Length())
	skipped := 0
	ordinal := base

	sel.Each(func(_ int, entry *goquery.Selection) {
		fragment, ok := s.isolate(entry, ordinal)
		if !ok {
			skipped++
			s.log.Debugf("segmenter: dropped structurally invalid entry near ordinal %d", ordinal)
			return
		}
		fragments = append(fragments, fragment)
		ordinal++
	})

	return fragments, skipped, nil
}

// isolate materializes one entry's text and markup into owned strings.
// goquery.OuterHtml and Selection.Text both build new strings, so the
// fragment holds no reference to the chunk's parse tree and carries no
// cursor or match position into the extraction stage.
func (s *Segmenter) isolate(entry *goquery.Selection, ordinal int) (types.RawEntryFragment, bool) {
	content := entry.Find(contentSelector)
	if content.Length() == 0 {
		// No content cell at all means the repeating unit is broken;
		// nothing in it can be attributed to a single watch event.
		if strings.TrimSpace(entry.Text()) == "" {
			return types.RawEntryFragment{}, false
		}
		content = entry
	}

	markup, err := goquery.OuterHtml(entry)
	if err != nil {
		return types.RawEntryFragment{}, false
	}

	plain := utils.NormalizeText(content.First().Text())
	if plain == "" && strings.TrimSpace(markup) == "" {
		return types.RawEntryFragment{}, false
	}

	return types.RawEntryFragment{
		PlainText:  plain,
		MarkupText: markup,
		Ordinal:    ordinal,
	}, true
}
