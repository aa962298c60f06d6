// internal/output/ndjson.go
package output

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/chronoview/watchparser/pkg/types"
)

// NDJSONWriter writes one record per line, suitable for piping into
// line-oriented tooling. Statistics, when enabled, become a trailing
// line tagged with a type marker.
type NDJSONWriter struct {
	file              *os.File
	buf               *bufio.Writer
	includeStatistics bool
}

// NewNDJSONWriter creates a new NDJSON writer
func NewNDJSONWriter(filename string, includeStatistics bool) (*NDJSONWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	return &NDJSONWriter{
		file:              file,
		buf:               bufio.NewWriter(file),
		includeStatistics: includeStatistics,
	}, nil
}

// Write streams each record as its own JSON line.
func (w *NDJSONWriter) Write(records []types.WatchRecord, stats types.ParseRunStatistics) error {
	encoder := json.NewEncoder(w.buf)
	for i := range records {
		if err := encoder.Encode(&records[i]); err != nil {
			return err
		}
	}
	if w.includeStatistics {
		line := struct {
			Type       string                   `json:"type"`
			Statistics types.ParseRunStatistics `json:"statistics"`
		}{Type: "statistics", Statistics: stats}
		if err := encoder.Encode(line); err != nil {
			return err
		}
	}
	return w.buf.Flush()
}

// Close flushes and closes the writer.
func (w *NDJSONWriter) Close() error {
	if w.file == nil {
		return nil
	}
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		w.file = nil
		return err
	}
	err := w.file.Close()
	w.file = nil
	return err
}
