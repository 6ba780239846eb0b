// Package diag implements the diagnostics sink the analyzer (and the rest of
// the pipeline) reports into. Grounded on the teacher's a.error/a.errorAt
// pair in lang/sem/analyzer.go and lang/ysem/analyzer.go: diagnostics are
// appended to a slice and never fatal, but here structured into a typed
// Diagnostic so severity can be filtered without string matching.
package diag

import "fmt"

// Severity classifies a Diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// Span is the source location a Diagnostic is anchored to.
type Span struct {
	Row    int
	Col    int
	Length int
}

// Diagnostic is a single reported issue.
type Diagnostic struct {
	Severity Severity
	Producer string
	Message  string
	Span     Span
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s: %s", d.Span.Row, d.Span.Col, d.Severity, d.Producer, d.Message)
}

// Logger accumulates diagnostics in report order. It never aborts or panics;
// callers append-and-continue exactly as the teacher's Analyzer does.
type Logger struct {
	Producer    string
	Diagnostics []Diagnostic
}

// NewLogger creates a Logger that tags every diagnostic with producer.
func NewLogger(producer string) *Logger {
	return &Logger{Producer: producer}
}

func (l *Logger) add(sev Severity, span Span, format string, args ...interface{}) {
	l.Diagnostics = append(l.Diagnostics, Diagnostic{
		Severity: sev,
		Producer: l.Producer,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// Error reports an error-severity diagnostic.
func (l *Logger) Error(span Span, format string, args ...interface{}) {
	l.add(Error, span, format, args...)
}

// Warn reports a warning-severity diagnostic.
func (l *Logger) Warn(span Span, format string, args ...interface{}) {
	l.add(Warning, span, format, args...)
}

// Info reports an info-severity diagnostic.
func (l *Logger) Info(span Span, format string, args ...interface{}) {
	l.add(Info, span, format, args...)
}

// HasErrors reports whether any diagnostic at Error severity was logged.
func (l *Logger) HasErrors() bool {
	for _, d := range l.Diagnostics {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
