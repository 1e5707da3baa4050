package flow

import (
	"fmt"
	"log"
	"sync"
)

// Logger is the host's diagnostic channel for non-fatal topology warnings:
// an overwritten edge, a single-node Run invoked on a node with successors,
// or an orchestrator that resolved an action absent from a non-empty edge
// table. Warnings never abort execution.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// stdLogger routes warnings to the standard library logger.
type stdLogger struct{}

func (stdLogger) Warnf(format string, args ...interface{}) {
	log.Printf("flow: warning: "+format, args...)
}

// DefaultLogger is used by any node that has not been given its own Logger.
var DefaultLogger Logger = stdLogger{}

// WarningCollector is a Logger that records warnings instead of printing
// them, for tests that want to assert on topology warnings directly.
type WarningCollector struct {
	mu       sync.Mutex
	warnings []string
}

// NewWarningCollector returns an empty WarningCollector.
func NewWarningCollector() *WarningCollector {
	return &WarningCollector{}
}

// Warnf implements Logger.
func (w *WarningCollector) Warnf(format string, args ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.warnings = append(w.warnings, fmt.Sprintf(format, args...))
}

// Warnings returns a snapshot of every warning recorded so far.
func (w *WarningCollector) Warnings() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.warnings))
	copy(out, w.warnings)
	return out
}
