// internal/utils/logger_test.go
package utils

import "testing"

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{" info ", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"", InfoLevel},
		{"nonsense", InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	parent := NewLogger().(*SimpleLogger)
	child := parent.WithField("run", "abc").(*SimpleLogger)

	if len(parent.fields) != 0 {
		t.Errorf("parent fields mutated: %v", parent.fields)
	}
	if child.fields["run"] != "abc" {
		t.Errorf("child fields = %v", child.fields)
	}

	grandchild := child.WithFields(map[string]interface{}{"chunk": 3}).(*SimpleLogger)
	if len(child.fields) != 1 {
		t.Errorf("child fields mutated: %v", child.fields)
	}
	if grandchild.fields["run"] != "abc" || grandchild.fields["chunk"] != 3 {
		t.Errorf("grandchild fields = %v", grandchild.fields)
	}
}

func TestNopLoggerSatisfiesInterface(t *testing.T) {
	var log Logger = NopLogger{}
	log.Debugf("ignored %d", 1)
	log.Errorf("ignored %d", 2)
	if _, ok := log.WithField("k", "v").(NopLogger); !ok {
		t.Error("WithField should return another NopLogger")
	}
}
