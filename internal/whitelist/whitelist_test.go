package whitelist

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCheckerIsAuthorized(t *testing.T) {
	t.Parallel()

	checker := NewChecker([]string{"U123", " U456 ", ""}, zap.NewNop())

	tests := []struct {
		user string
		want bool
	}{
		{"U123", true},
		{"U456", true},
		{"u123", false},
		{"", false},
		{"U789", false},
	}

	for _, tt := range tests {
		if got := checker.IsAuthorized(tt.user); got != tt.want {
			t.Errorf("IsAuthorized(%q) = %v, want %v", tt.user, got, tt.want)
		}
	}
}

func TestEmptyCheckerRejectsEveryone(t *testing.T) {
	t.Parallel()

	checker := NewChecker(nil, nil)
	if checker.IsAuthorized("U123") {
		t.Fatal("IsAuthorized() = true on empty allow-list, want false")
	}
}

func TestCheckerLogsEmptyAllowList(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	NewChecker([]string{"  "}, zap.New(core))

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if len(warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(warnings))
	}

	core, logs = observer.New(zapcore.InfoLevel)
	NewChecker([]string{"U1", "U2", "U1"}, zap.New(core))

	entries := logs.FilterMessage("Initialized allow-list checker").All()
	if len(entries) != 1 {
		t.Fatalf("info entries = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["users"]; got != int64(2) {
		t.Errorf("users field = %v, want 2", got)
	}
}
