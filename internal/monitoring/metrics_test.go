// internal/monitoring/metrics_test.go
package monitoring

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordEntry(t *testing.T) {
	m := New(Config{Namespace: "test"})

	m.RecordEntry("full_tz", 85)
	m.RecordEntry("full_tz", 85)
	m.RecordEntry("iso_like", 70)
	m.RecordEntry("", 0)

	if got := testutil.ToFloat64(m.entriesProcessed.WithLabelValues("with_timestamp")); got != 3 {
		t.Errorf("with_timestamp = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.entriesProcessed.WithLabelValues("without_timestamp")); got != 1 {
		t.Errorf("without_timestamp = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.timestampsResolved.WithLabelValues("full_tz")); got != 2 {
		t.Errorf("full_tz resolved = %v, want 2", got)
	}
}

func TestRecordSkippedAndRuns(t *testing.T) {
	m := New(Config{Namespace: "test"})

	m.RecordSkipped(3)
	m.RecordSkipped(0)
	m.RecordSkipped(-1)
	if got := testutil.ToFloat64(m.fragmentsSkipped); got != 3 {
		t.Errorf("skipped = %v, want 3", got)
	}

	m.RecordRun("done", 2*time.Second)
	if got := testutil.ToFloat64(m.runsTotal.WithLabelValues("done")); got != 1 {
		t.Errorf("runs done = %v, want 1", got)
	}
}

func TestNilReceiverIsNoOp(t *testing.T) {
	var m *Metrics
	// None of these may panic.
	m.RecordEntry("full_tz", 85)
	m.RecordSkipped(2)
	m.RecordRun("done", time.Second)
	if m.Handler() == nil {
		t.Error("nil receiver should still return a handler")
	}
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New(Config{Namespace: "test"})
	m.RecordRun("done", time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "test_parser_runs_total") {
		t.Error("exposition missing namespaced counter")
	}
}
