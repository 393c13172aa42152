// Package logging provides the leveled, optionally colored console logger
// used by every package. It is backed by logrus: console and log-file
// output are logrus hooks sharing one line format.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/backmassage/photostamp/internal/config"
	"github.com/backmassage/photostamp/internal/term"
)

// tagKey marks entries whose label differs from the logrus level name.
const tagKey = "tag"

// Logger provides leveled, optionally colored logging with optional file
// sink. It is safe for concurrent use by pipeline workers.
type Logger struct {
	base *logrus.Logger
	file *os.File
}

// NewLogger configures terminal colors from cfg and writes to
// stdout/stderr. Call Close() when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	return New(cfg, os.Stdout, os.Stderr)
}

// New is like [NewLogger] with explicit console writers. ERROR lines go to
// stderr, everything else to stdout.
func New(cfg *config.Config, stdout, stderr io.Writer) (*Logger, error) {
	term.Configure(cfg.ColorMode, stdout)

	base := logrus.New()
	base.SetOutput(io.Discard)
	base.SetLevel(logrus.DebugLevel)
	base.AddHook(&writerHook{
		out:       stdout,
		err:       stderr,
		formatter: &lineFormatter{color: term.Enabled()},
	})

	l := &Logger{base: base}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		base.AddHook(&writerHook{out: f, err: f, formatter: &lineFormatter{}})
	}
	return l, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.base.Info(fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.base.WithField(tagKey, "SUCCESS").Info(fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.base.Warn(fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.base.Error(fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when enabled; no-op otherwise.
func (l *Logger) Debug(enabled bool, format string, args ...interface{}) {
	if !enabled {
		return
	}
	l.base.Debug(fmt.Sprintf(format, args...))
}

// writerHook renders every entry with formatter and writes it to out, or to
// err for error levels. logrus fires hooks outside its own lock.
type writerHook struct {
	mu        sync.Mutex
	out       io.Writer
	err       io.Writer
	formatter logrus.Formatter
}

func (h *writerHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *writerHook) Fire(e *logrus.Entry) error {
	b, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	w := h.out
	if e.Level <= logrus.ErrorLevel {
		w = h.err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = w.Write(b)
	return err
}

// lineFormatter produces "2006-01-02 15:04:05 [LEVEL] text".
type lineFormatter struct {
	color bool
}

func (f *lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	label, color := labelFor(e)
	ts := e.Time.Format("2006-01-02 15:04:05")
	if f.color && color != "" {
		return []byte(ts + " " + color + "[" + label + "]" + term.Reset + " " + e.Message + "\n"), nil
	}
	return []byte(ts + " [" + label + "] " + e.Message + "\n"), nil
}

func labelFor(e *logrus.Entry) (string, string) {
	if tag, ok := e.Data[tagKey].(string); ok && tag == "SUCCESS" {
		return tag, term.Success
	}
	switch e.Level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return "DEBUG", term.Debug
	case logrus.WarnLevel:
		return "WARN", term.Warn
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return "ERROR", term.Error
	default:
		return "INFO", term.Info
	}
}
