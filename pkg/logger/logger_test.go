package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}

	err = Init(WithFormat(FormatJSON))
	if err != nil {
		t.Fatalf("failed to initialize json logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after json initialization")
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithFormat("JSON"), WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Get().Info(context.Background(), "assessment scored",
		String("tier", "HIGH"),
		Float64("probability", 0.42),
		Bool("severe", true),
	)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not json: %v: %q", err, buf.String())
	}
	if line["msg"] != "assessment scored" || line["tier"] != "HIGH" || line["severe"] != true {
		t.Fatalf("unexpected record: %v", line)
	}
	if src, _ := line["source"].(string); !strings.Contains(src, "logger_test.go") {
		t.Fatalf("source should point at the caller, got %q", src)
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx := context.Background()

	Get().Debug(ctx, "hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at info level, got %q", buf.String())
	}

	if err := SetLevelString("debug"); err != nil {
		t.Fatalf("set level: %v", err)
	}
	Get().Debug(ctx, "shown", Error(errors.New("boom")))
	if !strings.Contains(buf.String(), "shown") || !strings.Contains(buf.String(), "boom") {
		t.Fatalf("debug record missing: %q", buf.String())
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
	SetLevel(0)
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("api")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}

	namedLogger.Info(context.Background(), "test message", String("k", "v"))
	if !strings.Contains(buf.String(), "api.k=v") {
		t.Fatalf("named group missing: %q", buf.String())
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	ctx := context.Background()
	l.Error(ctx, "dropped")
	l.Fatal(ctx, "does not exit")
	l.Named("x").Info(ctx, "dropped")
}
