package input

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/textgui/pkg/ui/terminal"
)

// scriptSource replays bytes; a nil entry stands for a read timeout.
type scriptSource struct {
	steps []*byte
}

func script(parts ...any) *scriptSource {
	s := &scriptSource{}
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			for i := 0; i < len(v); i++ {
				b := v[i]
				s.steps = append(s.steps, &b)
			}
		case nil:
			s.steps = append(s.steps, nil)
		}
	}
	return s
}

func (s *scriptSource) ReadTimeout(time.Duration) (byte, error) {
	if len(s.steps) == 0 {
		return 0, io.EOF
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	if step == nil {
		return 0, ErrTimeout
	}
	return *step, nil
}

func noInterrupt() error { return nil }

func decodeAll(t *testing.T, d *Decoder) []terminal.KeyEvent {
	t.Helper()
	var out []terminal.KeyEvent
	for ev, err := range d.Events() {
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		out = append(out, ev)
	}
	return out
}

func decodeString(t *testing.T, s string) []terminal.KeyEvent {
	t.Helper()
	d := NewDecoder(NewReaderSource(strings.NewReader(s)), Options{Interrupt: noInterrupt})
	return decodeAll(t, d)
}

func k(key terminal.Key) terminal.KeyEvent { return terminal.KeyEvent{Key: key} }
func r(c rune) terminal.KeyEvent          { return terminal.KeyEvent{Key: terminal.KeyRune, Rune: c} }

func TestDecoder_Sequences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []terminal.KeyEvent
	}{
		{"arrow up", "\x1b[A", []terminal.KeyEvent{k(terminal.KeyUp)}},
		{"all arrows", "\x1b[A\x1b[B\x1b[C\x1b[D", []terminal.KeyEvent{
			k(terminal.KeyUp), k(terminal.KeyDown), k(terminal.KeyRight), k(terminal.KeyLeft),
		}},
		{"ss3 arrows", "\x1bOA\x1bOD", []terminal.KeyEvent{k(terminal.KeyUp), k(terminal.KeyLeft)}},
		{"backspace", "\x7f", []terminal.KeyEvent{k(terminal.KeyBackspace)}},
		{"carriage return is enter", "\r", []terminal.KeyEvent{k(terminal.KeyEnter)}},
		{"newline is enter", "\n", []terminal.KeyEvent{k(terminal.KeyEnter)}},
		{"tab", "\t", []terminal.KeyEvent{k(terminal.KeyTab)}},
		{"printable", "hi", []terminal.KeyEvent{r('h'), r('i')}},
		{"multibyte rune", "é→", []terminal.KeyEvent{r('é'), r('→')}},
		{"modified arrow params are skipped", "\x1b[1;5A", []terminal.KeyEvent{k(terminal.KeyUp)}},
		{"unknown final is dropped", "\x1b[2~x", []terminal.KeyEvent{r('x')}},
		{"double escape", "\x1b\x1b[A", []terminal.KeyEvent{k(terminal.KeyEscape), k(terminal.KeyUp)}},
		{"escape then letter", "\x1bq", []terminal.KeyEvent{k(terminal.KeyEscape), r('q')}},
		{"escape then arrow letter is not an arrow", "\x1bA", []terminal.KeyEvent{k(terminal.KeyEscape), r('A')}},
		{"unfinished csi at end of input", "x\x1b[1;", []terminal.KeyEvent{r('x')}},
		{"escape at end of input", "a\x1b", []terminal.KeyEvent{r('a'), k(terminal.KeyEscape)}},
		{"broken utf8 keeps next byte", "\xc3a", []terminal.KeyEvent{r(utf8RuneError), r('a')}},
		{"control byte aborts csi", "\x1b[\rz", []terminal.KeyEvent{k(terminal.KeyEnter), r('z')}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeString(t, tt.input))
		})
	}
}

const utf8RuneError = '�'

func TestDecoder_Interrupt(t *testing.T) {
	calls := 0
	d := NewDecoder(NewReaderSource(strings.NewReader("a\x03b")), Options{
		Interrupt: func() error { calls++; return nil },
	})

	got := decodeAll(t, d)
	assert.Equal(t, []terminal.KeyEvent{r('a'), r('b')}, got, "Ctrl+C yields nothing")
	assert.Equal(t, 1, calls)
}

func TestDecoder_Timeout(t *testing.T) {
	d := NewDecoder(script(nil, "x", nil), Options{Timeout: time.Millisecond, Interrupt: noInterrupt})

	got := decodeAll(t, d)
	assert.Equal(t, []terminal.KeyEvent{k(terminal.KeyNone), r('x'), k(terminal.KeyNone)}, got)
	assert.True(t, got[0].IsNone())
}

func TestDecoder_TimeoutFlushesLoneEscape(t *testing.T) {
	d := NewDecoder(script("\x1b", nil, "[A"), Options{Timeout: time.Millisecond, Interrupt: noInterrupt})

	got := decodeAll(t, d)
	// After the timeout the "[A" is no longer part of a sequence.
	assert.Equal(t, []terminal.KeyEvent{k(terminal.KeyEscape), r('['), r('A')}, got)
}

func TestDecoder_TimeoutAbandonsSequence(t *testing.T) {
	tests := []struct {
		name   string
		script *scriptSource
		want   []terminal.KeyEvent
	}{
		{"csi", script("\x1b[", nil, "A"), []terminal.KeyEvent{k(terminal.KeyNone), r('A')}},
		{"csi with params", script("\x1b[1;", nil, "B"), []terminal.KeyEvent{k(terminal.KeyNone), r('B')}},
		{"ss3", script("\x1bO", nil, "C"), []terminal.KeyEvent{k(terminal.KeyNone), r('C')}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(tt.script, Options{Timeout: time.Millisecond, Interrupt: noInterrupt})
			assert.Equal(t, tt.want, decodeAll(t, d))
		})
	}
}

func TestDecoder_EventsStopsOnBreak(t *testing.T) {
	d := NewDecoder(NewReaderSource(strings.NewReader("abc")), Options{Interrupt: noInterrupt})

	var seen []rune
	for ev, err := range d.Events() {
		require.NoError(t, err)
		seen = append(seen, ev.Rune)
		if ev.Rune == 'b' {
			break
		}
	}
	assert.Equal(t, []rune{'a', 'b'}, seen)

	ev, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, r('c'), ev, "the decoder resumes where iteration stopped")
}

type eintrReader struct {
	data  []byte
	fired bool
}

func (e *eintrReader) Read(p []byte) (int, error) {
	if !e.fired {
		e.fired = true
		return 0, errEINTR
	}
	if len(e.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, e.data)
	e.data = e.data[n:]
	return n, nil
}

func TestReaderSource_RetriesEINTR(t *testing.T) {
	d := NewDecoder(NewReaderSource(&eintrReader{data: []byte("\x1b[B")}), Options{Interrupt: noInterrupt})
	assert.Equal(t, []terminal.KeyEvent{k(terminal.KeyDown)}, decodeAll(t, d))
}
