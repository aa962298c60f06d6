// internal/output/manager.go
// Package output writes parsed watch records to their destination format.
package output

import (
	"fmt"

	"github.com/chronoview/watchparser/internal/config"
	"github.com/chronoview/watchparser/internal/utils"
	"github.com/chronoview/watchparser/pkg/types"
)

// NewWriter creates the record sink named by the output configuration.
func NewWriter(cfg config.OutputConfig) (types.RecordSink, error) {
	switch cfg.Format {
	case "json":
		w, err := NewJSONWriter(cfg.File, cfg.IncludeStatistics)
		if err != nil {
			return nil, utils.WrapError(utils.ErrCodeOutputFailed,
				fmt.Sprintf("cannot open %s", cfg.File), err)
		}
		return w, nil
	case "ndjson":
		w, err := NewNDJSONWriter(cfg.File, cfg.IncludeStatistics)
		if err != nil {
			return nil, utils.WrapError(utils.ErrCodeOutputFailed,
				fmt.Sprintf("cannot open %s", cfg.File), err)
		}
		return w, nil
	default:
		return nil, utils.NewStructuredError(utils.ErrCodeOutputFailed,
			fmt.Sprintf("unsupported output format: %s", cfg.Format))
	}
}
