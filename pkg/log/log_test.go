package log

import (
	"context"
	"fmt"
	"testing"
)

func TestTestLoggerCaptures(t *testing.T) {
	logger, buffer := NewTestLogger(LevelDebug)

	logger.Debug("debug message", "key1", "value1", "number", 42)
	logger.Info("info message", OperationKey, OperationFit)
	logger.Warn("warning message", "warning_code", "TEST_WARNING")
	logger.Error("error message", ErrAttrKey, fmt.Errorf("test error"))

	if buffer.String() == "" {
		t.Fatal("expected log output, got empty string")
	}

	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		if !logger.ContainsMessage(msg) {
			t.Errorf("%q not found in output", msg)
		}
	}

	if !logger.ContainsField("key1", "value1") {
		t.Error("expected field key1=value1 not found")
	}
	if !logger.ContainsField("number", 42) {
		t.Error("expected field number=42 not found")
	}
	if !logger.ContainsField(OperationKey, OperationFit) {
		t.Error("expected operation field not found")
	}
}

func TestTestLoggerWith(t *testing.T) {
	logger, _ := NewTestLogger(LevelDebug)

	contextLogger := logger.With(
		ModelNameKey, "SVGP",
		ComponentKey, "gp",
	)
	contextLogger.Info("fit started", SamplesKey, 20, InducingKey, 20)

	if !logger.ContainsField(ModelNameKey, "SVGP") {
		t.Error("model name context not found")
	}
	if !logger.ContainsField(InducingKey, 20) {
		t.Error("inducing count field not found")
	}
}

func TestTestLoggerLevelFiltering(t *testing.T) {
	logger, buffer := NewTestLogger(LevelWarn)

	logger.Debug("too quiet")
	logger.Info("still too quiet")

	if buffer.String() != "" {
		t.Errorf("records below the minimum level should be dropped, got: %s", buffer.String())
	}

	if logger.Enabled(context.Background(), LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Enabled(context.Background(), LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestToLogLevel(t *testing.T) {
	cases := map[string]Level{
		"debug": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
	}
	for name, want := range cases {
		if got := ToLogLevel(name); Level(got) != want {
			t.Errorf("ToLogLevel(%q) = %v, want %v", name, got, want)
		}
	}
}
