package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_TextWritesEveryLevelAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, FormatText, "debug")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=dbg", "a=1",
		"level=INFO", "msg=inf", "b=2",
		"level=WARN", "msg=wrn", "c=3",
		"level=ERROR", "msg=err", "d=4",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestNew_LevelFiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, FormatText, "WARN")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	log.Debug(ctx, "hidden-debug")
	log.Info(ctx, "hidden-info")
	log.Warn(ctx, "shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("records below warn leaked:\n%s", out)
	}
	if !strings.Contains(out, "msg=shown") {
		t.Fatalf("warn record missing:\n%s", out)
	}
}

func TestNew_JSONWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, FormatJSON, "info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.With("module", "board", "session", "s-1").Info(context.Background(), "entry added", "index", 0)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not one JSON record: %v\n%s", err, buf.String())
	}
	if rec["module"] != "board" || rec["session"] != "s-1" || rec["msg"] != "entry added" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestNew_RejectsUnknownFormatAndLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "xml", "info"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if _, err := New(&bytes.Buffer{}, FormatText, "loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestDiscard_DoesNotPanic(t *testing.T) {
	log := Discard()
	ctx := context.TODO()
	log.Debug(ctx, "x")
	log.With("k", "v").Error(ctx, "x")
}
