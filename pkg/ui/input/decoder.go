// Package input turns the raw byte stream of a terminal in raw mode into
// logical key events.
package input

import (
	"errors"
	"iter"
	"time"
	"unicode/utf8"

	"github.com/odvcencio/textgui/pkg/logging"
	"github.com/odvcencio/textgui/pkg/ui/terminal"
)

const (
	keyEsc       = 0x1b
	keyDel       = 0x7f
	keyBS        = 0x08
	keyInterrupt = 0x03
)

type state int

const (
	stateGround state = iota
	stateEscape       // lone ESC seen
	stateCSI          // ESC [
	stateSS3          // ESC O
)

// Options configures a Decoder.
type Options struct {
	// Timeout bounds each read. When it expires the decoder yields a
	// KeyNone event (or Escape if a lone ESC is pending). Zero blocks.
	Timeout time.Duration

	// Interrupt is invoked for Ctrl+C. Defaults to terminal.Interrupt.
	Interrupt terminal.Interrupter

	Logger *logging.Logger
}

// Decoder converts bytes from a Source into key events.
// It is not safe for concurrent use.
type Decoder struct {
	src       Source
	timeout   time.Duration
	interrupt terminal.Interrupter
	logger    *logging.Logger

	state state
	utf   []byte
	queue []terminal.KeyEvent
}

// NewDecoder creates a decoder reading from src.
func NewDecoder(src Source, opts Options) *Decoder {
	if opts.Interrupt == nil {
		opts.Interrupt = terminal.Interrupt
	}
	return &Decoder{
		src:       src,
		timeout:   opts.Timeout,
		interrupt: opts.Interrupt,
		logger:    opts.Logger,
	}
}

// Next blocks until the next key event. With a timeout configured it
// returns a KeyNone event when nothing arrives in time. Source errors,
// including io.EOF, are returned as is.
func (d *Decoder) Next() (terminal.KeyEvent, error) {
	for {
		if len(d.queue) > 0 {
			ev := d.queue[0]
			d.queue = d.queue[1:]
			return ev, nil
		}

		b, err := d.src.ReadTimeout(d.timeout)
		if errors.Is(err, ErrTimeout) {
			switch d.state {
			case stateEscape:
				d.state = stateGround
				return key(terminal.KeyEscape), nil
			case stateCSI, stateSS3:
				d.abandon()
			}
			return terminal.KeyEvent{Key: terminal.KeyNone}, nil
		}
		if err != nil {
			switch d.state {
			case stateEscape:
				d.state = stateGround
				d.queue = append(d.queue, key(terminal.KeyEscape))
			case stateCSI, stateSS3:
				d.abandon()
			}
			if len(d.queue) > 0 {
				ev := d.queue[0]
				d.queue = d.queue[1:]
				return ev, nil
			}
			return terminal.KeyEvent{}, err
		}

		d.feed(b)
	}
}

// Events returns an unbounded sequence of key events. Iteration stops
// after the first error is yielded.
func (d *Decoder) Events() iter.Seq2[terminal.KeyEvent, error] {
	return func(yield func(terminal.KeyEvent, error) bool) {
		for {
			ev, err := d.Next()
			if !yield(ev, err) || err != nil {
				return
			}
		}
	}
}

func key(k terminal.Key) terminal.KeyEvent {
	return terminal.KeyEvent{Key: k}
}

func (d *Decoder) emit(ev terminal.KeyEvent) {
	d.queue = append(d.queue, ev)
}

// feed advances the state machine by one byte, queueing any events.
func (d *Decoder) feed(b byte) {
	switch d.state {
	case stateEscape:
		switch b {
		case keyEsc:
			d.emit(key(terminal.KeyEscape))
		case '[':
			d.state = stateCSI
		case 'O':
			d.state = stateSS3
		default:
			d.state = stateGround
			d.emit(key(terminal.KeyEscape))
			d.feed(b)
		}

	case stateCSI:
		switch {
		case b >= 0x40 && b <= 0x7e:
			d.state = stateGround
			d.final(b, "csi")
		case b >= 0x20 && b <= 0x3f:
			// parameter and intermediate bytes
		default:
			d.state = stateGround
			d.feed(b)
		}

	case stateSS3:
		d.state = stateGround
		d.final(b, "ss3")

	default:
		d.ground(b)
	}
}

// abandon drops an escape sequence that stopped arriving mid-way.
func (d *Decoder) abandon() {
	d.logger.Debug(logging.CategoryInput, "sequence_dropped", "incomplete escape sequence", map[string]any{
		"state": int(d.state),
	})
	d.state = stateGround
}

func (d *Decoder) final(b byte, kind string) {
	switch b {
	case 'A':
		d.emit(key(terminal.KeyUp))
	case 'B':
		d.emit(key(terminal.KeyDown))
	case 'C':
		d.emit(key(terminal.KeyRight))
	case 'D':
		d.emit(key(terminal.KeyLeft))
	default:
		d.logger.Debug(logging.CategoryInput, "sequence_dropped", "unsupported escape sequence", map[string]any{
			"kind":  kind,
			"final": string(rune(b)),
		})
	}
}

func (d *Decoder) ground(b byte) {
	if len(d.utf) > 0 || b >= utf8.RuneSelf {
		d.utf = append(d.utf, b)
		if !utf8.FullRune(d.utf) {
			return
		}
		r, size := utf8.DecodeRune(d.utf)
		rest := append([]byte(nil), d.utf[size:]...)
		d.utf = d.utf[:0]
		d.emit(terminal.KeyEvent{Key: terminal.KeyRune, Rune: r})
		for _, c := range rest {
			d.feed(c)
		}
		return
	}

	switch b {
	case keyEsc:
		d.state = stateEscape
	case keyDel, keyBS:
		d.emit(key(terminal.KeyBackspace))
	case keyInterrupt:
		if err := d.interrupt(); err != nil {
			d.logger.Error(logging.CategoryInput, "interrupt_failed", err.Error(), nil)
		}
	case '\r', '\n':
		d.emit(key(terminal.KeyEnter))
	case '\t':
		d.emit(key(terminal.KeyTab))
	default:
		d.emit(terminal.KeyEvent{Key: terminal.KeyRune, Rune: rune(b)})
	}
}
