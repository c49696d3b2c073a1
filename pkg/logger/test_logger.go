package logger

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// TestLogger is a Logger implementation for tests that captures log entries
type TestLogger struct {
	mu      sync.Mutex
	entries []LogEntry
	zerolog *zerolog.Logger
}

// LogEntry represents a captured log message
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	nop := zerolog.Nop()
	return &TestLogger{zerolog: &nop}
}

// Entries returns a copy of all captured log entries
func (l *TestLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// EntriesAtLevel returns captured entries with the given level
func (l *TestLogger) EntriesAtLevel(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []LogEntry
	for _, e := range l.entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func (l *TestLogger) record(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

func (l *TestLogger) Debug(msg string) { l.record("DEBUG", msg, nil) }
func (l *TestLogger) Info(msg string)  { l.record("INFO", msg, nil) }
func (l *TestLogger) Warn(msg string)  { l.record("WARN", msg, nil) }
func (l *TestLogger) Error(msg string) { l.record("ERROR", msg, nil) }
func (l *TestLogger) Fatal(msg string) { l.record("FATAL", msg, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.record("DEBUG", msg, fields)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.record("INFO", msg, fields)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.record("WARN", msg, fields)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.record("ERROR", msg, fields)
}

// WithField returns a logger that attaches the field to every entry
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return &testLoggerWithFields{parent: l, fields: map[string]interface{}{key: value}}
}

// WithFields returns a logger that attaches the fields to every entry
func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	return &testLoggerWithFields{parent: l, fields: fields}
}

// WithError returns a logger that attaches the error to every entry
func (l *TestLogger) WithError(err error) Logger {
	return &testLoggerWithFields{parent: l, fields: map[string]interface{}{"error": err}}
}

// WithContext is a no-op for tests
func (l *TestLogger) WithContext(ctx context.Context) Logger { return l }

// GetZerolog returns a nop zerolog instance
func (l *TestLogger) GetZerolog() *zerolog.Logger { return l.zerolog }

// testLoggerWithFields carries bound fields back to the parent TestLogger
type testLoggerWithFields struct {
	parent *TestLogger
	fields map[string]interface{}
}

func (l *testLoggerWithFields) merged(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func (l *testLoggerWithFields) Debug(msg string) { l.parent.record("DEBUG", msg, l.fields) }
func (l *testLoggerWithFields) Info(msg string)  { l.parent.record("INFO", msg, l.fields) }
func (l *testLoggerWithFields) Warn(msg string)  { l.parent.record("WARN", msg, l.fields) }
func (l *testLoggerWithFields) Error(msg string) { l.parent.record("ERROR", msg, l.fields) }
func (l *testLoggerWithFields) Fatal(msg string) { l.parent.record("FATAL", msg, l.fields) }

func (l *testLoggerWithFields) DebugWithFields(msg string, fields map[string]interface{}) {
	l.parent.record("DEBUG", msg, l.merged(fields))
}

func (l *testLoggerWithFields) InfoWithFields(msg string, fields map[string]interface{}) {
	l.parent.record("INFO", msg, l.merged(fields))
}

func (l *testLoggerWithFields) WarnWithFields(msg string, fields map[string]interface{}) {
	l.parent.record("WARN", msg, l.merged(fields))
}

func (l *testLoggerWithFields) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.parent.record("ERROR", msg, l.merged(fields))
}

func (l *testLoggerWithFields) WithField(key string, value interface{}) Logger {
	return &testLoggerWithFields{parent: l.parent, fields: l.merged(map[string]interface{}{key: value})}
}

func (l *testLoggerWithFields) WithFields(fields map[string]interface{}) Logger {
	return &testLoggerWithFields{parent: l.parent, fields: l.merged(fields)}
}

func (l *testLoggerWithFields) WithError(err error) Logger {
	return l.WithField("error", err)
}

func (l *testLoggerWithFields) WithContext(ctx context.Context) Logger { return l }

func (l *testLoggerWithFields) GetZerolog() *zerolog.Logger { return l.parent.zerolog }
