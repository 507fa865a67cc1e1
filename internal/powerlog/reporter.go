package powerlog

import (
	"go.uber.org/zap"
)

// DiagnosticKind classifies a non-fatal parse problem.
type DiagnosticKind int

const (
	// GrammarMismatch: the line is not what the current phase expects.
	GrammarMismatch DiagnosticKind = iota
	// UnrecognizedLine: no rule matched; the line was dropped.
	UnrecognizedLine
	// UnresolvedEntity: a descriptor could not be mapped to an id.
	UnresolvedEntity
	// Inconsistency: the log contradicts state already built.
	Inconsistency
	// InvalidTag: a tag name or value outside the vocabulary.
	InvalidTag
)

func (k DiagnosticKind) String() string {
	switch k {
	case GrammarMismatch:
		return "GRAMMAR_MISMATCH"
	case UnrecognizedLine:
		return "UNRECOGNIZED_LINE"
	case UnresolvedEntity:
		return "UNRESOLVED_ENTITY"
	case Inconsistency:
		return "INCONSISTENCY"
	case InvalidTag:
		return "INVALID_TAG"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic is one reported parse problem.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
	Line    string
	LineNo  int
}

// Reporter receives diagnostics. Report must not block or fail.
type Reporter interface {
	Report(d Diagnostic)
}

// NopReporter discards diagnostics.
type NopReporter struct{}

// Report implements Reporter.
func (NopReporter) Report(Diagnostic) {}

// ZapReporter logs diagnostics through zap.
type ZapReporter struct {
	logger *zap.Logger
}

// NewZapReporter creates a reporter writing to logger.
func NewZapReporter(logger *zap.Logger) *ZapReporter {
	return &ZapReporter{logger: logger.Named("powerlog")}
}

// Report implements Reporter.
func (r *ZapReporter) Report(d Diagnostic) {
	fields := []zap.Field{
		zap.String("kind", d.Kind.String()),
		zap.Int("line_no", d.LineNo),
		zap.String("line", d.Line),
	}
	switch d.Kind {
	case Inconsistency:
		r.logger.Error(d.Message, fields...)
	case UnrecognizedLine:
		r.logger.Warn(d.Message, fields...)
	case UnresolvedEntity:
		r.logger.Info(d.Message, fields...)
	default:
		r.logger.Debug(d.Message, fields...)
	}
}
