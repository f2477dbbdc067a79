// Package trace provides the --debug/--trace instrumentation hook consumed
// by internal/lower (§4.2). It mirrors the nop-default, package-level
// logger shape used for exactly this purpose in wippyai-wasm-runtime's
// engine package: callers that never enable tracing pay only the cost of a
// no-op *zap.Logger.
package trace

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the package-level logger, defaulting to a no-op logger.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger installs l as the package-level logger. Called once by
// cmd/wasm2swf when --debug, --trace or --trace-funcs is supplied.
func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	logger = l
}

// Options mirrors the CLI surface's four trace knobs (§6).
type Options struct {
	Debug        bool
	Trace        bool
	TraceFuncs   bool
	TraceOnly    map[string]bool
	TraceExclude map[string]bool
}

// ParseList splits a comma-separated --trace-only/--trace-exclude flag
// value into a membership set, matching the teacher's own comma-list flag
// handling in cmd/wazero/wazero.go.
func ParseList(s string) map[string]bool {
	if s == "" {
		return nil
	}
	set := make(map[string]bool)
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			set[name] = true
		}
	}
	return set
}

// Enabled reports whether function fn should receive trace instrumentation
// under these options.
func (o Options) Enabled(fn string) bool {
	if !o.Trace && !o.TraceFuncs {
		return false
	}
	if o.TraceExclude[fn] {
		return false
	}
	if len(o.TraceOnly) > 0 && !o.TraceOnly[fn] {
		return false
	}
	return true
}
