package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// LineFormat is the timestamp layout used in formatted lines.
const LineFormat = "15:04:05"

// FormatLine renders an event as "15:04:05 notice name: message".
func FormatLine(event Event) string {
	name := event.Name
	if name == "" {
		name = string(event.Category)
	}
	return fmt.Sprintf("%s %s %s: %s", event.Timestamp.Format(LineFormat), event.Level, name, event.Message)
}

// ConsoleOutput writes formatted lines styled per level.
type ConsoleOutput struct {
	out    io.Writer
	mu     sync.Mutex
	styles map[Level]lipgloss.Style
}

// NewConsoleOutput creates a console output on stderr.
func NewConsoleOutput() *ConsoleOutput {
	profile := termenv.Ascii
	if term.IsTerminal(int(os.Stderr.Fd())) {
		profile = termenv.NewOutput(os.Stderr).EnvColorProfile()
	}
	return NewConsoleOutputWithProfile(os.Stderr, profile)
}

// NewConsoleOutputWithProfile creates a console output with an explicit color profile.
func NewConsoleOutputWithProfile(out io.Writer, profile termenv.Profile) *ConsoleOutput {
	r := lipgloss.NewRenderer(out)
	r.SetColorProfile(profile)

	return &ConsoleOutput{
		out: out,
		styles: map[Level]lipgloss.Style{
			LevelDebug:    r.NewStyle(),
			LevelInfo:     r.NewStyle(),
			LevelNotice:   r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
			LevelError:    r.NewStyle().Foreground(lipgloss.Color("1")),
			LevelCritical: r.NewStyle().Foreground(lipgloss.Color("1")).Reverse(true),
		},
	}
}

// WriteEvent implements Output.
func (c *ConsoleOutput) WriteEvent(event Event) error {
	line := FormatLine(event)
	if style, ok := c.styles[event.Level]; ok {
		line = style.Render(line)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.out, line)
	return err
}

// WriterOutput writes plain formatted lines to any writer.
type WriterOutput struct {
	w io.Writer
}

// NewWriterOutput wraps w as an Output.
func NewWriterOutput(w io.Writer) *WriterOutput {
	return &WriterOutput{w: w}
}

// WriteEvent implements Output.
func (o *WriterOutput) WriteEvent(event Event) error {
	_, err := io.WriteString(o.w, FormatLine(event)+"\n")
	return err
}
