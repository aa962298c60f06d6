// internal/segment/chunker.go
package segment

import "strings"

// entryMarker locates the start of a repeating entry unit in the raw
// document. Chunk boundaries always backtrack to a marker so that no
// entry is ever split across two chunks.
const entryMarker = `class="outer-cell`

// minChunkSize is the floor for the configured chunk budget; smaller
// budgets would split more often than they save memory.
const minChunkSize = 64 * 1024

// SplitChunks partitions the raw document into chunks of roughly
// chunkSize bytes, each beginning at an entry boundary. The text before
// the first marker travels with the first chunk so surrounding document
// structure is preserved. A document without markers is returned as a
// single chunk.
func SplitChunks(document string, chunkSize int) []string {
	if chunkSize < minChunkSize {
		chunkSize = minChunkSize
	}
	if len(document) <= chunkSize {
		return []string{document}
	}

	starts := markerOffsets(document)
	if len(starts) == 0 {
		return []string{document}
	}

	var chunks []string
	chunkStart := 0
	for i := 1; i < len(starts); i++ {
		if starts[i]-chunkStart >= chunkSize {
			chunks = append(chunks, document[chunkStart:starts[i]])
			chunkStart = starts[i]
		}
	}
	chunks = append(chunks, document[chunkStart:])
	return chunks
}

// EstimateEntries counts entry markers in the raw document. The count is
// an upper bound on the number of records a parse will produce and feeds
// the progress percentage.
func EstimateEntries(document string) int {
	return strings.Count(document, entryMarker)
}

// markerOffsets returns the byte offset of each entry unit start. The
// offset points at the enclosing tag's opening bracket, not the class
// attribute, so a chunk begins with complete markup.
func markerOffsets(document string) []int {
	var offsets []int
	search := 0
	for {
		i := strings.Index(document[search:], entryMarker)
		if i < 0 {
			return offsets
		}
		at := search + i
		// Backtrack to the tag open so the chunk starts on "<div".
		tagOpen := strings.LastIndex(document[:at], "<")
		if tagOpen < 0 {
			tagOpen = at
		}
		offsets = append(offsets, tagOpen)
		search = at + len(entryMarker)
	}
}
