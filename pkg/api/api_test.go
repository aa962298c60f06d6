// pkg/api/api_test.go
package api

import (
	"context"
	"testing"

	"github.com/chronoview/watchparser/pkg/types"
)

const sampleDocument = `<html><body><div class="mdl-grid">
<div class="outer-cell mdl-cell"><div class="mdl-grid">
<div class="content-cell mdl-cell">Watched&nbsp;<a href="https://www.youtube.com/watch?v=vidone00001">First Video</a><br><a href="https://www.youtube.com/channel/UCaaa">Channel One</a><br>Aug 11, 2025, 10:30:00 PM CDT</div>
<div class="content-cell mdl-cell"><b>Products:</b><br>&emsp;YouTube</div>
</div></div>
</div></body></html>`

func TestClientParse(t *testing.T) {
	client, err := NewClient(nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	result, err := client.Parse(context.Background(), sampleDocument)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(result.Records))
	}

	r := result.Records[0]
	if r.VideoID != "vidone00001" {
		t.Errorf("video id = %q", r.VideoID)
	}
	if !r.HasTimestamp() {
		t.Error("record should carry a timestamp")
	}
	if client.State() != types.StateDone {
		t.Errorf("state = %s, want %s", client.State(), types.StateDone)
	}
}

func TestClientRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Parser.MinimumConfidence = -5
	if _, err := NewClient(cfg); err == nil {
		t.Fatal("expected a configuration error")
	}
}

func TestClientProgressOption(t *testing.T) {
	var events int
	client, err := NewClient(nil, WithProgress(func(types.ProgressEvent) { events++ }))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Parse(context.Background(), sampleDocument); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if events == 0 {
		t.Error("expected at least the final progress event")
	}
}
