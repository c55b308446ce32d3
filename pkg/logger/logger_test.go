/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(999), "UNKNOWN"}, // Invalid level
	}

	for _, test := range tests {
		if result := test.level.String(); result != test.expected {
			t.Errorf("Level.String() = %v, expected %v", result, test.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"trace", TraceLevel},
		{"DEBUG", DebugLevel},
		{" info ", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"invalid", InfoLevel},
		{"", InfoLevel},
	}

	for _, test := range tests {
		if got := ParseLevel(test.input); got != test.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", test.input, got, test.expected)
		}
	}
}

func TestLoggerInitialization(t *testing.T) {
	var buf bytes.Buffer
	if err := Initialize(Config{Level: InfoLevel, Component: "test", Output: &buf}); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}

	if current() == nil {
		t.Fatal("Initialize() did not set the default logger")
	}
	if current().config.Component != "test" {
		t.Errorf("Initialize() did not set config correctly, got component: %s", current().config.Component)
	}

	Info("hello")
	Debug("suppressed")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected info message in output, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "suppressed") {
		t.Errorf("debug message should be filtered at info level, got %q", buf.String())
	}
}

func TestLoggerPrettyFormatting(t *testing.T) {
	l := New(Config{Level: InfoLevel, Component: "test"})

	entry := LogEntry{
		Time:      time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Level:     "INFO",
		Message:   "test message",
		Component: "test",
		Fields:    map[string]interface{}{"zeta": 1, "alpha": "value"},
	}

	got := l.formatPretty(InfoLevel, entry)
	expected := "2025-01-01 12:00:00 [INFO] test: test message {alpha=value, zeta=1}"
	if got != expected {
		t.Errorf("formatPretty() = %q, expected %q", got, expected)
	}
}

func TestLoggerColor(t *testing.T) {
	l := New(Config{Level: InfoLevel, UseColor: true})
	entry := LogEntry{Time: time.Now(), Level: "WARN", Message: "careful"}

	got := l.formatPretty(WarnLevel, entry)
	if !strings.Contains(got, "\033[33mWARN\033[0m") {
		t.Errorf("expected yellow WARN level, got %q", got)
	}
}

func TestLoggerJSONFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: InfoLevel, JSON: true, Component: "goreqs", Output: &buf})

	l.Log(WarnLevel, "lookup failed", String("package", "nope"), Err(errors.New("404")))

	var entry LogEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry.Level != "WARN" || entry.Message != "lookup failed" || entry.Component != "goreqs" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Fields["package"] != "nope" || entry.Fields["error"] != "404" {
		t.Errorf("unexpected fields: %+v", entry.Fields)
	}
}

func TestLoggerCallerInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: TraceLevel, Output: &buf})

	l.Log(DebugLevel, "where am I")
	if !strings.Contains(buf.String(), "logger_test.go") {
		t.Errorf("expected caller file in debug output, got %q", buf.String())
	}
}

func TestFieldHelpers(t *testing.T) {
	if f := Strings("names", []string{"a", "b"}); f.Key != "names" {
		t.Errorf("Strings() key = %s", f.Key)
	}
	if f := Int("n", 3); f.Value != 3 {
		t.Errorf("Int() value = %v", f.Value)
	}
	if f := Bool("ok", true); f.Value != true {
		t.Errorf("Bool() value = %v", f.Value)
	}
	if f := Duration("took", 2*time.Second); f.Value != "2s" {
		t.Errorf("Duration() value = %v", f.Value)
	}
	if f := Err(nil); f.Value != "<nil>" {
		t.Errorf("Err(nil) value = %v", f.Value)
	}
}

func TestSetOutput(t *testing.T) {
	if err := Initialize(Config{Level: DebugLevel}); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	var buf bytes.Buffer
	SetOutput(&buf)

	Warn("redirected", Int("count", 2))
	if !strings.Contains(buf.String(), "redirected {count=2}") {
		t.Errorf("expected redirected output, got %q", buf.String())
	}
}
