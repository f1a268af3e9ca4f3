// Package logging builds the slog logger used by sqlinclude.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Format selects the log line encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts "text" and "json"; the empty string means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown log format %q", s)
	}
}

// Options configures New.
type Options struct {
	// Verbose enables debug records.
	Verbose bool
	// Quiet drops everything below warnings. Verbose wins over Quiet.
	Quiet  bool
	Format Format
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// New constructs a slog.Logger from opts.
func New(opts Options) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case opts.Verbose:
		level = slog.LevelDebug
	case opts.Quiet:
		level = slog.LevelWarn
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: level}
	if opts.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

// Logger is the logging surface the pipeline depends on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// SlogAdapter adapts *slog.Logger to Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

func (s *SlogAdapter) Debug(msg string, args ...any) { s.logger.Debug(msg, args...) }
func (s *SlogAdapter) Info(msg string, args ...any)  { s.logger.Info(msg, args...) }
func (s *SlogAdapter) Warn(msg string, args ...any)  { s.logger.Warn(msg, args...) }
func (s *SlogAdapter) Error(msg string, args ...any) { s.logger.Error(msg, args...) }

func (s *SlogAdapter) With(args ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(args...)}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogAdapter(slog.New(slog.DiscardHandler))
}

// Entry is a message captured by a Recorder.
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   []any
}

// Recorder is a Logger that keeps every message in memory.
type Recorder struct {
	log   *entryLog
	attrs []any
}

type entryLog struct {
	mu      sync.Mutex
	entries []Entry
}

func NewRecorder() *Recorder {
	return &Recorder{log: &entryLog{}}
}

func (r *Recorder) add(level slog.Level, msg string, args []any) {
	attrs := append(append([]any(nil), r.attrs...), args...)
	r.log.mu.Lock()
	defer r.log.mu.Unlock()
	r.log.entries = append(r.log.entries, Entry{Level: level, Message: msg, Attrs: attrs})
}

func (r *Recorder) Debug(msg string, args ...any) { r.add(slog.LevelDebug, msg, args) }
func (r *Recorder) Info(msg string, args ...any)  { r.add(slog.LevelInfo, msg, args) }
func (r *Recorder) Warn(msg string, args ...any)  { r.add(slog.LevelWarn, msg, args) }
func (r *Recorder) Error(msg string, args ...any) { r.add(slog.LevelError, msg, args) }

// With returns a Recorder that shares the entries of r.
func (r *Recorder) With(args ...any) Logger {
	return &Recorder{log: r.log, attrs: append(append([]any(nil), r.attrs...), args...)}
}

// Entries returns a copy of the captured messages.
func (r *Recorder) Entries() []Entry {
	r.log.mu.Lock()
	defer r.log.mu.Unlock()
	return append([]Entry(nil), r.log.entries...)
}

// Messages returns the captured messages at level.
func (r *Recorder) Messages(level slog.Level) []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

var (
	_ Logger = (*SlogAdapter)(nil)
	_ Logger = (*Recorder)(nil)
)
