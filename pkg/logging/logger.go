package logging

import (
	"bufio"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Level represents log severity
type Level string

const (
	LevelDebug    Level = "debug"
	LevelInfo     Level = "info"
	LevelNotice   Level = "notice"
	LevelError    Level = "error"
	LevelCritical Level = "critical"
)

var levelRank = map[Level]int{
	LevelDebug:    0,
	LevelInfo:     1,
	LevelNotice:   2,
	LevelError:    3,
	LevelCritical: 4,
}

// ParseLevel converts a level name into a Level.
func ParseLevel(s string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := levelRank[level]; !ok {
		return "", fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// Category represents the subsystem generating the log
type Category string

const (
	CategoryUI     Category = "ui"
	CategoryLayout Category = "layout"
	CategoryFocus  Category = "focus"
	CategoryInput  Category = "input"
	CategoryTimer  Category = "timer"
	CategoryCanvas Category = "canvas"
	CategoryApp    Category = "app"
	CategoryConfig Category = "config"
)

// Event represents a structured log event
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Category  Category       `json:"category"`
	EventType string         `json:"type"`
	SessionID string         `json:"session_id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Message   string         `json:"message,omitempty"`
}

// Output receives every event that passes the logger's level filter.
type Output interface {
	WriteEvent(event Event) error
}

// Logger writes structured events to multiple destinations
type Logger struct {
	name        string
	sessionID   string
	baseDir     string
	sessionFile *os.File
	errorFile   *os.File
	outputs     []Output
	mu          sync.Mutex
	minLevel    Level
}

// NewSessionID returns a fresh, time-sortable session identifier.
func NewSessionID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// New creates a logger without file destinations. Events go only to outputs.
func New(name string, outputs ...Output) *Logger {
	return &Logger{
		name:      name,
		sessionID: NewSessionID(),
		outputs:   outputs,
		minLevel:  LevelInfo,
	}
}

// NewLogger creates a new structured logger writing JSON lines under baseDir
func NewLogger(baseDir, sessionID string) (*Logger, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	sessionsDir := filepath.Join(baseDir, "sessions")
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	sessionFile, err := os.OpenFile(
		SessionLogPath(baseDir, sessionID),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0644,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open session log: %w", err)
	}

	errorFile, err := os.OpenFile(
		ErrorLogPath(baseDir),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0644,
	)
	if err != nil {
		sessionFile.Close()
		return nil, fmt.Errorf("failed to open error log: %w", err)
	}

	return &Logger{
		sessionID:   sessionID,
		baseDir:     baseDir,
		sessionFile: sessionFile,
		errorFile:   errorFile,
		minLevel:    LevelInfo,
	}, nil
}

// SetName sets the component name shown in formatted lines
func (l *Logger) SetName(name string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.name = name
}

// SetMinLevel sets the minimum log level
func (l *Logger) SetMinLevel(level Level) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// AddOutput registers an additional destination
func (l *Logger) AddOutput(out Output) {
	if l == nil || out == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outputs = append(l.outputs, out)
}

// SessionID returns the session identifier stamped on events
func (l *Logger) SessionID() string {
	if l == nil {
		return ""
	}
	return l.sessionID
}

// Log writes an event to appropriate destinations
func (l *Logger) Log(event Event) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.SessionID == "" {
		event.SessionID = l.sessionID
	}
	if event.Name == "" {
		event.Name = l.name
	}

	if !l.shouldLog(event.Level) {
		return nil
	}

	var errs []error

	if l.sessionFile != nil || l.errorFile != nil {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		data = append(data, '\n')

		if l.sessionFile != nil {
			if _, err := l.sessionFile.Write(data); err != nil {
				errs = append(errs, fmt.Errorf("failed to write to session log: %w", err))
			}
		}

		if levelRank[event.Level] >= levelRank[LevelError] && l.errorFile != nil {
			if _, err := l.errorFile.Write(data); err != nil {
				errs = append(errs, fmt.Errorf("failed to write to error log: %w", err))
			}
		}
	}

	for _, out := range l.outputs {
		if err := out.WriteEvent(event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("log write failed: %v", errs)
	}
	return nil
}

// shouldLog checks if event should be logged based on level
func (l *Logger) shouldLog(level Level) bool {
	rank, ok := levelRank[level]
	if !ok {
		rank = levelRank[LevelInfo]
	}
	return rank >= levelRank[l.minLevel]
}

// Helper methods for common log patterns. They are fire-and-forget: write
// failures are dropped, since callers cannot do anything useful with them.

// Debug logs a debug event
func (l *Logger) Debug(category Category, eventType string, message string, details map[string]any) {
	_ = l.Log(Event{Level: LevelDebug, Category: category, EventType: eventType, Message: message, Details: details})
}

// Info logs an info event
func (l *Logger) Info(category Category, eventType string, message string, details map[string]any) {
	_ = l.Log(Event{Level: LevelInfo, Category: category, EventType: eventType, Message: message, Details: details})
}

// Notice logs a notice event
func (l *Logger) Notice(category Category, eventType string, message string, details map[string]any) {
	_ = l.Log(Event{Level: LevelNotice, Category: category, EventType: eventType, Message: message, Details: details})
}

// Error logs an error event
func (l *Logger) Error(category Category, eventType string, message string, details map[string]any) {
	_ = l.Log(Event{Level: LevelError, Category: category, EventType: eventType, Message: message, Details: details})
}

// Critical logs a critical event
func (l *Logger) Critical(category Category, eventType string, message string, details map[string]any) {
	_ = l.Log(Event{Level: LevelCritical, Category: category, EventType: eventType, Message: message, Details: details})
}

// Close closes all log files
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	if l.sessionFile != nil {
		if err := l.sessionFile.Close(); err != nil {
			errs = append(errs, err)
		}
		l.sessionFile = nil
	}
	if l.errorFile != nil {
		if err := l.errorFile.Close(); err != nil {
			errs = append(errs, err)
		}
		l.errorFile = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing log files: %v", errs)
	}
	return nil
}

// SessionLogPath returns the file a session logs to under baseDir.
func SessionLogPath(baseDir, sessionID string) string {
	return filepath.Join(baseDir, "sessions", sessionID+".jsonl")
}

// ErrorLogPath returns the shared error log under baseDir.
func ErrorLogPath(baseDir string) string {
	return filepath.Join(baseDir, "errors.jsonl")
}

// LatestSessionLog returns the newest session log under baseDir. Session
// ids are ULIDs, so the lexically greatest name is the most recent.
func LatestSessionLog(baseDir string) (string, error) {
	entries, err := os.ReadDir(filepath.Join(baseDir, "sessions"))
	if err != nil {
		return "", fmt.Errorf("failed to list sessions: %w", err)
	}
	latest := ""
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		if name > latest {
			latest = name
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no session logs in %s", baseDir)
	}
	return filepath.Join(baseDir, "sessions", latest), nil
}

// ReadRecentEvents returns the newest count events of a JSONL log, oldest
// first. Lines that do not decode as events are skipped.
func ReadRecentEvents(logPath string, count int) ([]Event, error) {
	file, err := os.Open(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	defer file.Close()

	if count <= 0 {
		return nil, nil
	}

	ring := make([]Event, 0, min(count, 256))
	next := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var event Event
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue
		}
		if len(ring) < count {
			ring = append(ring, event)
			continue
		}
		ring[next] = event
		next = (next + 1) % count
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}

	events := make([]Event, 0, len(ring))
	events = append(events, ring[next:]...)
	return append(events, ring[:next]...), nil
}
