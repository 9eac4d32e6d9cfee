package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/oklog/ulid/v2"
)

// TestNewLogger tests logger construction with temp directories
func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		baseDir   string
		sessionID string
	}{
		{"valid directory and session ID", t.TempDir(), "test-session-123"},
		{"creates directories if not exist", filepath.Join(t.TempDir(), "nested", "path"), "session-456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.baseDir, tt.sessionID)
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			defer logger.Close()

			if logger.SessionID() != tt.sessionID {
				t.Errorf("SessionID() = %v, want %v", logger.SessionID(), tt.sessionID)
			}
			if logger.minLevel != LevelInfo {
				t.Errorf("minLevel = %v, want %v", logger.minLevel, LevelInfo)
			}

			sessionFile := filepath.Join(tt.baseDir, "sessions", tt.sessionID+".jsonl")
			if _, err := os.Stat(sessionFile); os.IsNotExist(err) {
				t.Errorf("session log file not created")
			}

			errorFile := filepath.Join(tt.baseDir, "errors.jsonl")
			if _, err := os.Stat(errorFile); os.IsNotExist(err) {
				t.Errorf("errors.jsonl not created")
			}
		})
	}
}

// TestNewLoggerInvalidDirectory tests that an unwritable base dir fails
func TestNewLoggerInvalidDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLogger(filepath.Join(file, "sub"), "s"); err == nil {
		t.Error("expected error when base dir is below a regular file")
	}
}

// TestLogEvent tests the Log method
func TestLogEvent(t *testing.T) {
	baseDir := t.TempDir()
	sessionID := "test-session"
	logger, err := NewLogger(baseDir, sessionID)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	event := Event{
		Level:     LevelNotice,
		Category:  CategoryLayout,
		EventType: "relayout",
		Message:   "terminal resized",
		Details: map[string]any{
			"width":  80,
			"height": 24,
		},
	}

	if err := logger.Log(event); err != nil {
		t.Fatalf("Log() failed: %v", err)
	}

	sessionFile := filepath.Join(baseDir, "sessions", sessionID+".jsonl")
	events, err := ReadRecentEvents(sessionFile, 1)
	if err != nil {
		t.Fatalf("ReadRecentEvents failed: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	logged := events[0]
	if logged.Level != event.Level {
		t.Errorf("Level = %v, want %v", logged.Level, event.Level)
	}
	if logged.Category != event.Category {
		t.Errorf("Category = %v, want %v", logged.Category, event.Category)
	}
	if logged.Message != event.Message {
		t.Errorf("Message = %v, want %v", logged.Message, event.Message)
	}
	if logged.SessionID != sessionID {
		t.Errorf("SessionID = %v, want %v", logged.SessionID, sessionID)
	}
	if logged.Timestamp.IsZero() {
		t.Error("Timestamp should be set automatically")
	}
}

// TestLogErrorEvent tests that error and critical events also reach errors.jsonl
func TestLogErrorEvent(t *testing.T) {
	baseDir := t.TempDir()
	logger, err := NewLogger(baseDir, "test-session")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	logger.Notice(CategoryUI, "started", "ui started", nil)
	logger.Error(CategoryTimer, "callback_failed", "redraw failed", nil)
	logger.Critical(CategoryApp, "layout_failed", "no space", nil)

	events, err := ReadRecentEvents(filepath.Join(baseDir, "errors.jsonl"), 10)
	if err != nil {
		t.Fatalf("ReadRecentEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events in error log, got %d", len(events))
	}
	if events[0].Level != LevelError || events[1].Level != LevelCritical {
		t.Errorf("unexpected levels %v, %v", events[0].Level, events[1].Level)
	}
}

// TestShouldLog tests level ordering
func TestShouldLog(t *testing.T) {
	logger := New("test")

	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug level allows debug", LevelDebug, LevelDebug, true},
		{"info level blocks debug", LevelInfo, LevelDebug, false},
		{"info level allows notice", LevelInfo, LevelNotice, true},
		{"notice level blocks info", LevelNotice, LevelInfo, false},
		{"notice level allows error", LevelNotice, LevelError, true},
		{"error level blocks notice", LevelError, LevelNotice, false},
		{"error level allows critical", LevelError, LevelCritical, true},
		{"critical level blocks error", LevelCritical, LevelError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger.SetMinLevel(tt.minLevel)
			result := logger.shouldLog(tt.logLevel)
			if result != tt.shouldLog {
				t.Errorf("shouldLog(%v) with minLevel %v = %v, want %v",
					tt.logLevel, tt.minLevel, result, tt.shouldLog)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(" Notice ")
	if err != nil || level != LevelNotice {
		t.Errorf("ParseLevel() = %v, %v", level, err)
	}
	if _, err := ParseLevel("warn"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	var logger *Logger
	logger.Info(CategoryUI, "x", "y", nil)
	logger.SetMinLevel(LevelDebug)
	if err := logger.Close(); err != nil {
		t.Errorf("Close() on nil logger = %v", err)
	}
}

func TestWriterOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New("textgui", NewWriterOutput(&buf))

	logger.Notice(CategoryUI, "hello", "hello world", nil)

	line := buf.String()
	if !strings.HasSuffix(line, " notice textgui: hello world\n") {
		t.Errorf("unexpected line %q", line)
	}
	if _, err := time.Parse(LineFormat, line[:8]); err != nil {
		t.Errorf("line should start with a timestamp: %v", err)
	}
}

func TestConsoleOutputStyles(t *testing.T) {
	var plain, colored bytes.Buffer

	New("x", NewConsoleOutputWithProfile(&plain, termenv.Ascii)).Error(CategoryUI, "e", "boom", nil)
	New("x", NewConsoleOutputWithProfile(&colored, termenv.ANSI)).Error(CategoryUI, "e", "boom", nil)

	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("ascii profile should not emit escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("ansi profile should emit escapes: %q", colored.String())
	}
	if !strings.Contains(colored.String(), "error x: boom") {
		t.Errorf("colored output lost the message: %q", colored.String())
	}
}

func TestNewSessionID(t *testing.T) {
	id := NewSessionID()
	if _, err := ulid.Parse(id); err != nil {
		t.Errorf("NewSessionID() = %q is not a ULID: %v", id, err)
	}
}

// TestConcurrentWrites tests thread safety of logging
func TestConcurrentWrites(t *testing.T) {
	baseDir := t.TempDir()
	logger, err := NewLogger(baseDir, "test-session")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			for j := 0; j < 10; j++ {
				logger.Info(CategoryTimer, "concurrent", "", map[string]any{
					"goroutine": id,
					"iteration": j,
				})
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	sessionFile := filepath.Join(baseDir, "sessions", "test-session.jsonl")
	events, err := ReadRecentEvents(sessionFile, 200)
	if err != nil {
		t.Fatalf("ReadRecentEvents failed: %v", err)
	}

	if len(events) != 100 {
		t.Errorf("expected 100 events, got %d", len(events))
	}
}

// TestReadRecentEventsOrder tests that the newest events are kept
func TestReadRecentEventsOrder(t *testing.T) {
	baseDir := t.TempDir()
	logger, err := NewLogger(baseDir, "s")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	for _, msg := range []string{"a", "b", "c"} {
		logger.Info(CategoryUI, "line", msg, nil)
	}

	events, err := ReadRecentEvents(filepath.Join(baseDir, "sessions", "s.jsonl"), 2)
	if err != nil {
		t.Fatalf("ReadRecentEvents failed: %v", err)
	}
	if len(events) != 2 || events[0].Message != "b" || events[1].Message != "c" {
		t.Errorf("unexpected events %+v", events)
	}
}

func TestReadRecentEventsNonexistent(t *testing.T) {
	if _, err := ReadRecentEvents(filepath.Join(t.TempDir(), "missing.jsonl"), 1); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadRecentEventsSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.jsonl")
	data := `{"level":"info","message":"one"}
not json
{"level":"error","message":"two"}
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	events, err := ReadRecentEvents(path, 10)
	if err != nil {
		t.Fatalf("ReadRecentEvents failed: %v", err)
	}
	if len(events) != 2 || events[0].Message != "one" || events[1].Message != "two" {
		t.Errorf("unexpected events %+v", events)
	}

	events, err = ReadRecentEvents(path, 0)
	if err != nil || len(events) != 0 {
		t.Errorf("count 0: events=%+v err=%v", events, err)
	}
}

func TestLatestSessionLog(t *testing.T) {
	baseDir := t.TempDir()
	if _, err := LatestSessionLog(baseDir); err == nil {
		t.Fatal("expected error without a sessions directory")
	}

	older := ulid.MustNew(ulid.Timestamp(time.Now().Add(-time.Hour)), nil).String()
	newer := ulid.MustNew(ulid.Timestamp(time.Now()), nil).String()
	for _, id := range []string{newer, older} {
		logger, err := NewLogger(baseDir, id)
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		logger.Info(CategoryApp, "start", id, nil)
		logger.Close()
	}

	path, err := LatestSessionLog(baseDir)
	if err != nil {
		t.Fatalf("LatestSessionLog failed: %v", err)
	}
	if path != SessionLogPath(baseDir, newer) {
		t.Errorf("latest = %s, want session %s", path, newer)
	}
}
