// Package log provides testing utilities for structured logging.
//
// TestLogger captures log output in memory so tests can assert on
// messages and structured fields without touching the process-wide
// logger.

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// TestLogger is a Logger implementation for tests. All records are
// captured as JSON lines in an internal buffer.
type TestLogger struct {
	buffer *bytes.Buffer
	level  Level
	fields map[string]interface{}
}

// NewTestLogger creates a TestLogger with the given minimum level and
// returns it together with the backing buffer.
//
// Example:
//
//	logger, buffer := log.NewTestLogger(log.LevelDebug)
//	logger.Info("fit complete", log.IterationsKey, 300)
//	// inspect buffer.String() or use ContainsMessage/ContainsField
func NewTestLogger(level Level) (*TestLogger, *bytes.Buffer) {
	buffer := &bytes.Buffer{}
	return &TestLogger{
		buffer: buffer,
		level:  level,
		fields: make(map[string]interface{}),
	}, buffer
}

func (l *TestLogger) log(level Level, msg string, fields ...any) {
	if level < l.level {
		return
	}
	record := map[string]interface{}{
		"level":   level.String(),
		"message": msg,
	}
	for k, v := range l.fields {
		record[k] = v
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", fields[i])
		}
		record[key] = normalizeValue(fields[i+1])
	}
	// Odd trailing field: record it so nothing is silently dropped.
	if len(fields)%2 == 1 {
		record["!BADKEY"] = normalizeValue(fields[len(fields)-1])
	}
	line, err := json.Marshal(record)
	if err != nil {
		line = []byte(fmt.Sprintf(`{"level":%q,"message":%q,"marshal_error":%q}`, level.String(), msg, err.Error()))
	}
	l.buffer.Write(line)
	l.buffer.WriteByte('\n')
}

func normalizeValue(v any) any {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return v
}

// Debug implements Logger.
func (l *TestLogger) Debug(msg string, fields ...any) { l.log(LevelDebug, msg, fields...) }

// Info implements Logger.
func (l *TestLogger) Info(msg string, fields ...any) { l.log(LevelInfo, msg, fields...) }

// Warn implements Logger.
func (l *TestLogger) Warn(msg string, fields ...any) { l.log(LevelWarn, msg, fields...) }

// Error implements Logger.
func (l *TestLogger) Error(msg string, fields ...any) { l.log(LevelError, msg, fields...) }

// With implements Logger. The returned logger shares the buffer, so
// assertions on the parent still see records logged through the child.
func (l *TestLogger) With(fields ...any) Logger {
	child := &TestLogger{
		buffer: l.buffer,
		level:  l.level,
		fields: make(map[string]interface{}, len(l.fields)+len(fields)/2),
	}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", fields[i])
		}
		child.fields[key] = normalizeValue(fields[i+1])
	}
	return child
}

// Enabled implements Logger.
func (l *TestLogger) Enabled(_ context.Context, level Level) bool {
	return level >= l.level
}

// ContainsMessage reports whether any captured record has the given message.
func (l *TestLogger) ContainsMessage(msg string) bool {
	for _, record := range l.records() {
		if record["message"] == msg {
			return true
		}
	}
	return false
}

// ContainsField reports whether any captured record has the given
// field with the given value. Numeric values are compared after JSON
// round-tripping, so integers match their float64 representation.
func (l *TestLogger) ContainsField(key string, value interface{}) bool {
	want := fmt.Sprintf("%v", value)
	for _, record := range l.records() {
		if got, ok := record[key]; ok && fmt.Sprintf("%v", got) == want {
			return true
		}
	}
	return false
}

func (l *TestLogger) records() []map[string]interface{} {
	var out []map[string]interface{}
	for _, line := range strings.Split(l.buffer.String(), "\n") {
		if line == "" {
			continue
		}
		var record map[string]interface{}
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			continue
		}
		out = append(out, record)
	}
	return out
}
