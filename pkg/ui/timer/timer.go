// Package timer provides a restartable one-shot timer that runs its
// callback on a dedicated goroutine. It is used to coalesce frequent
// redraw requests into a bounded rate.
package timer

import (
	"fmt"
	"sync"
	"time"

	"github.com/odvcencio/textgui/pkg/logging"
)

type command int

const (
	cmdRestart command = iota
	cmdCancel
)

type message struct {
	cmd      command
	interval time.Duration
}

// Timer runs a callback once per arming, after its interval elapses.
type Timer struct {
	fn     func() error
	logger *logging.Logger

	ctl       chan message
	done      chan struct{}
	stopped   chan struct{}
	abortOnce sync.Once
}

// New starts a timer goroutine. The timer is initially disarmed; call
// Restart to arm it. fn errors and panics are logged and do not stop
// the goroutine.
func New(interval time.Duration, fn func() error, logger *logging.Logger) *Timer {
	t := &Timer{
		fn:      fn,
		logger:  logger,
		ctl:     make(chan message, 16),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go t.loop(interval)
	return t
}

// Restart (re)arms the timer. A positive d replaces the interval; zero
// keeps the previous one.
func (t *Timer) Restart(d time.Duration) {
	t.send(message{cmd: cmdRestart, interval: d})
}

// Cancel disarms the timer. The goroutine stays alive for later restarts.
func (t *Timer) Cancel() {
	t.send(message{cmd: cmdCancel})
}

// Abort terminates the timer goroutine and waits for it to exit. Later
// calls to any method are no-ops. Abort must not be called from the
// callback itself.
func (t *Timer) Abort() {
	t.abortOnce.Do(func() { close(t.done) })
	<-t.stopped
}

// Done is closed once the timer goroutine has exited.
func (t *Timer) Done() <-chan struct{} {
	return t.stopped
}

func (t *Timer) send(m message) {
	select {
	case <-t.done:
	case t.ctl <- m:
	}
}

func (t *Timer) loop(interval time.Duration) {
	defer close(t.stopped)

	var deadline *time.Timer
	var fire <-chan time.Time
	disarm := func() {
		if deadline != nil {
			deadline.Stop()
		}
		deadline, fire = nil, nil
	}
	defer disarm()

	for {
		select {
		case <-t.done:
			return

		case m := <-t.ctl:
			switch m.cmd {
			case cmdRestart:
				if m.interval > 0 {
					interval = m.interval
				}
				disarm()
				deadline = time.NewTimer(interval)
				fire = deadline.C
			case cmdCancel:
				disarm()
			}

		case <-fire:
			deadline, fire = nil, nil
			t.run()
		}
	}
}

func (t *Timer) run() {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error(logging.CategoryTimer, "callback_panic", fmt.Sprint(r), nil)
		}
	}()
	if err := t.fn(); err != nil {
		t.logger.Error(logging.CategoryTimer, "callback_failed", err.Error(), nil)
	}
}
