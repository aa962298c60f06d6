// internal/output/json.go
package output

import (
	"encoding/json"
	"os"

	"github.com/chronoview/watchparser/pkg/types"
)

// JSONWriter writes the full parse result as one indented JSON document.
type JSONWriter struct {
	filename          string
	file              *os.File
	includeStatistics bool
}

// NewJSONWriter creates a new JSON writer
func NewJSONWriter(filename string, includeStatistics bool) (*JSONWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	return &JSONWriter{
		filename:          filename,
		file:              file,
		includeStatistics: includeStatistics,
	}, nil
}

// Write writes the record sequence, and optionally the statistics, as a
// single JSON document.
func (w *JSONWriter) Write(records []types.WatchRecord, stats types.ParseRunStatistics) error {
	encoder := json.NewEncoder(w.file)
	encoder.SetIndent("", "  ")

	if !w.includeStatistics {
		return encoder.Encode(records)
	}
	return encoder.Encode(struct {
		Records    []types.WatchRecord      `json:"records"`
		Statistics types.ParseRunStatistics `json:"statistics"`
	}{Records: records, Statistics: stats})
}

// Close closes the JSON writer
func (w *JSONWriter) Close() error {
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}
