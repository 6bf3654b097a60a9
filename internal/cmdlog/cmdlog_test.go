package cmdlog

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"besttweets/internal/apperr"
)

func TestRunLogsConfigAndAddedFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	err := Run("serve", "./besttweets.yaml", func(fields map[string]any) error {
		fields["storage"] = "redis"
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	entries := logs.FilterMessage("serve_ok").All()
	if len(entries) != 1 {
		t.Fatalf("expected one serve_ok entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["config"] != "./besttweets.yaml" || ctx["storage"] != "redis" {
		t.Fatalf("unexpected fields %v", ctx)
	}
	if _, ok := ctx["duration_ms"]; !ok {
		t.Fatalf("missing duration_ms in %v", ctx)
	}
}

func TestRunLogsErrorKind(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	want := apperr.E(apperr.KindInternal, "store.open", errors.New("disk gone"))
	err := Run("serve", "cfg.yaml", func(map[string]any) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("error not passed through: %v", err)
	}
	entries := logs.FilterMessage("serve_error").All()
	if len(entries) != 1 {
		t.Fatalf("expected one serve_error entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["op"] != "store.open" || ctx["kind"] != "internal" {
		t.Fatalf("unexpected fields %v", ctx)
	}
	if entries[0].Level != zap.ErrorLevel {
		t.Fatalf("expected error level, got %v", entries[0].Level)
	}
}
