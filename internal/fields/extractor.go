// internal/fields/extractor.go
// Package fields extracts structured watch-event fields from one entry
// fragment using markup-aware lookup with plain-text fallback.
package fields

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/chronoview/watchparser/internal/utils"
	"github.com/chronoview/watchparser/pkg/types"
)

// Extraction is the partial record produced from a single fragment. Any
// field may be empty except Product, which always carries a default.
type Extraction struct {
	VideoID      string
	VideoTitle   string
	VideoURL     string
	ChannelID    string
	ChannelTitle string
	ChannelURL   string
	Product      types.Product
}

// Extractor pulls fields out of fragment markup. Each call parses the
// fragment's own markup copy into a fresh document, so extraction state
// never crosses fragment boundaries.
type Extractor struct {
	log utils.Logger
}

// NewExtractor creates a field extractor.
func NewExtractor(log utils.Logger) *Extractor {
	if log == nil {
		log = utils.NopLogger{}
	}
	return &Extractor{log: log}
}

// Extract returns the fragment's fields. The second return value is
// false when the fragment holds no video reference at all, marking it a
// non-entry. Missing optional fields (a deleted channel, a lost title)
// never fail the call.
func (e *Extractor) Extract(fragment types.RawEntryFragment) (Extraction, bool) {
	out := Extraction{Product: types.ProductYouTube}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment.MarkupText))
	if err != nil {
		// Markup unusable: fall back to scanning the plain text for a
		// bare watch URL.
		return e.extractFromText(fragment.PlainText)
	}

	if isMusicFragment(doc, fragment.PlainText) {
		out.Product = types.ProductYouTubeMusic
	}

	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		text := utils.NormalizeText(link.Text())

		if out.VideoURL == "" {
			if id, ok := videoIDFromURL(href); ok {
				out.VideoID = id
				out.VideoURL = href
				out.VideoTitle = text
				return true
			}
		}
		if out.VideoURL != "" && out.ChannelURL == "" && href != out.VideoURL {
			if id, ok := channelIDFromURL(href); ok {
				out.ChannelID = id
				out.ChannelURL = href
				out.ChannelTitle = text
				return false
			}
		}
		return true
	})

	if out.VideoURL == "" {
		textOut, ok := e.extractFromText(fragment.PlainText)
		if !ok {
			return out, false
		}
		textOut.Product = out.Product
		return textOut, true
	}
	return out, true
}

// extractFromText recovers a watch URL from plain text when markup-aware
// lookup found nothing.
func (e *Extractor) extractFromText(plain string) (Extraction, bool) {
	out := Extraction{Product: types.ProductYouTube}
	for _, token := range strings.Fields(plain) {
		if id, ok := videoIDFromURL(token); ok {
			out.VideoID = id
			out.VideoURL = token
			if strings.Contains(token, "music.youtube.com") {
				out.Product = types.ProductYouTubeMusic
			}
			return out, true
		}
	}
	return out, false
}

// isMusicFragment detects the music product from fragment hints: the
// header sub-label, the caption cell, or a music host in any link.
func isMusicFragment(doc *goquery.Document, plain string) bool {
	if strings.Contains(plain, "YouTube Music") {
		return true
	}
	found := false
	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		if strings.Contains(href, "music.youtube.com") {
			found = true
			return false
		}
		return true
	})
	if found {
		return true
	}
	return strings.Contains(doc.Text(), "YouTube Music")
}

// videoIDFromURL matches the video-watch URL shape and returns the id.
func videoIDFromURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.TrimPrefix(u.Host, "www.")
	switch {
	case (host == "youtube.com" || host == "m.youtube.com" || host == "music.youtube.com") &&
		strings.HasPrefix(u.Path, "/watch"):
		id := u.Query().Get("v")
		return id, id != ""
	case host == "youtu.be":
		id := strings.Trim(u.Path, "/")
		return id, id != ""
	}
	return "", false
}

// channelIDFromURL matches channel URL shapes. Handle-style URLs have no
// stable id, so the handle itself is returned.
func channelIDFromURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.TrimPrefix(u.Host, "www.")
	if host != "youtube.com" && host != "m.youtube.com" && host != "music.youtube.com" {
		return "", false
	}
	path := strings.Trim(u.Path, "/")
	switch {
	case strings.HasPrefix(path, "channel/"):
		return strings.TrimPrefix(path, "channel/"), true
	case strings.HasPrefix(path, "user/"):
		return strings.TrimPrefix(path, "user/"), true
	case strings.HasPrefix(path, "c/"):
		return strings.TrimPrefix(path, "c/"), true
	case strings.HasPrefix(path, "@"):
		return path, true
	}
	return "", false
}
