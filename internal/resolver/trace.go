package resolver

import (
	"fmt"
	"log/slog"
)

// Trace records every resolution attempt as an ordered sequence of
// human-readable lines: strategy tried, condition matched, path checked.
// It is a debugging aid, not a stable wire format.
type Trace struct {
	enabled bool
	lines   []string
	logger  *slog.Logger
}

// NewTrace creates a trace recorder. When enabled is false every call is
// a no-op, so callers never need to guard their trace statements.
func NewTrace(enabled bool, logger *slog.Logger) *Trace {
	return &Trace{enabled: enabled, logger: logger}
}

// Stepf appends one formatted line to the trace.
func (t *Trace) Stepf(format string, args ...any) {
	if t == nil || !t.enabled {
		return
	}
	line := fmt.Sprintf(format, args...)
	t.lines = append(t.lines, line)
	if t.logger != nil {
		t.logger.Debug("resolution trace", "step", line)
	}
}

// Lines returns the recorded lines in order.
func (t *Trace) Lines() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}
