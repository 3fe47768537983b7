package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-kit/log/level"
)

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	level.Info(logger).Log("msg", "hidden")
	level.Warn(logger).Log("msg", "shown", "count", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info entry should be filtered: %s", out)
	}
	if !strings.Contains(out, "level=warn") || !strings.Contains(out, "msg=shown") || !strings.Contains(out, "count=3") {
		t.Fatalf("warn entry missing or malformed: %s", out)
	}
	if !strings.Contains(out, "ts=") {
		t.Fatalf("expected a timestamp: %s", out)
	}
}

func TestNew_None(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "none")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	level.Error(logger).Log("msg", "dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %s", buf.String())
	}
}

func TestNew_UnknownLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "loud"); err == nil {
		t.Fatalf("expected an error for an unknown level")
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	level.Debug(Component(logger, "db")).Log("msg", "hello")
	if !strings.Contains(buf.String(), "component=db") {
		t.Fatalf("expected component key: %s", buf.String())
	}
}
