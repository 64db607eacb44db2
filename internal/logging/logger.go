// Package logging provides leveled logging and trial tracing for hopfield.
//   - NewLogger returns a slog.Logger for stderr (operational output).
//   - TraceLogger appends one JSON object per recall trial to
//     .hopfield/trials.jsonl when running at debug or trace level.
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace sits below Debug. At this level full patterns are included in
// trial traces.
const LevelTrace = slog.LevelDebug - 4

// TraceFile is the name of the trial trace inside the state directory.
const TraceFile = "trials.jsonl"

// ParseLevel maps "info", "debug" or "trace" (any case) to a slog.Level.
// Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled text logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok && l == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// TraceLogger writes trial events to a JSONL file. It is safe for
// concurrent use, and a nil *TraceLogger ignores every call.
type TraceLogger struct {
	mu       sync.Mutex
	file     *os.File
	patterns bool
}

// NewTraceLogger opens dir/trials.jsonl for append. It returns nil at info
// level or when the file cannot be opened.
func NewTraceLogger(dir string, level string) *TraceLogger {
	lvl := ParseLevel(level)
	if lvl == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, TraceFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &TraceLogger{file: f, patterns: lvl <= LevelTrace}
}

// IncludePatterns reports whether full patterns belong in events.
func (tl *TraceLogger) IncludePatterns() bool {
	return tl != nil && tl.patterns
}

// Log writes event as one line with a "time" field added. The caller's map
// is left untouched.
func (tl *TraceLogger) Log(event map[string]any) {
	if tl == nil {
		return
	}

	entry := make(map[string]any, len(event)+1)
	for k, v := range event {
		entry[k] = v
	}
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	tl.mu.Lock()
	defer tl.mu.Unlock()
	if tl.file == nil {
		return
	}
	_, _ = tl.file.Write(data)
}

// Close closes the file. Later calls to Log are no-ops.
func (tl *TraceLogger) Close() {
	if tl == nil {
		return
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()
	if tl.file != nil {
		tl.file.Close()
		tl.file = nil
	}
}
