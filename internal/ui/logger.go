package ui

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/goliatone/go-logger/glog"
)

// Level orders console log output.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"TRC", "DBG", "INF", "WRN", "ERR", "FTL"}

var levelStyles = [...]lipgloss.Style{
	StyleMeta,
	StyleMeta,
	lipgloss.NewStyle().Foreground(ColorAddress).Bold(true),
	StyleWarning,
	StyleError,
	StyleError,
}

// ConsoleLogger writes one coloured line per entry. It satisfies glog.Logger,
// glog.FieldsLogger and glog.LoggerProvider. Fatal does not exit.
type ConsoleLogger struct {
	mu     *sync.Mutex
	out    io.Writer
	min    Level
	name   string
	fields map[string]any
}

var (
	_ glog.Logger         = (*ConsoleLogger)(nil)
	_ glog.FieldsLogger   = (*ConsoleLogger)(nil)
	_ glog.LoggerProvider = (*ConsoleLogger)(nil)
)

// NewConsoleLogger logs entries at min or above to out.
func NewConsoleLogger(out io.Writer, min Level) *ConsoleLogger {
	return &ConsoleLogger{mu: &sync.Mutex{}, out: out, min: min}
}

func (l *ConsoleLogger) Trace(msg string, args ...any) { l.log(LevelTrace, msg, args) }
func (l *ConsoleLogger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args) }
func (l *ConsoleLogger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args) }
func (l *ConsoleLogger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args) }
func (l *ConsoleLogger) Error(msg string, args ...any) { l.log(LevelError, msg, args) }
func (l *ConsoleLogger) Fatal(msg string, args ...any) { l.log(LevelFatal, msg, args) }

func (l *ConsoleLogger) WithContext(context.Context) glog.Logger { return l }

// WithFields returns a logger that appends fields to every entry.
func (l *ConsoleLogger) WithFields(fields map[string]any) glog.Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	c := *l
	c.fields = merged
	return &c
}

// GetLogger returns a logger that prefixes entries with name.
func (l *ConsoleLogger) GetLogger(name string) glog.Logger {
	c := *l
	c.name = name
	return &c
}

func (l *ConsoleLogger) log(level Level, msg string, args []any) {
	if level < l.min {
		return
	}
	var sb strings.Builder
	sb.WriteString(levelStyles[level].Render(levelNames[level]))
	if l.name != "" {
		sb.WriteString(" " + StyleAccent.Render(l.name))
	}
	sb.WriteString(" " + msg)

	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(" " + StyleMeta.Render(k+"=") + fmt.Sprint(l.fields[k]))
	}
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		if i+1 >= len(args) {
			sb.WriteString(" " + StyleMeta.Render("!BADKEY=") + key)
			break
		}
		sb.WriteString(" " + StyleMeta.Render(key+"=") + fmt.Sprint(args[i+1]))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, sb.String())
}
