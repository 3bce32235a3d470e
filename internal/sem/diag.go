// Package sem implements semantic analysis: symbol collection, type
// resolution and checking, control flow analysis, and dead code
// detection over a parsed module.
package sem

import (
	"fmt"

	"github.com/vbfront/vbfront/internal/syntax"
)

// Severity classifies a diagnostic.
type Severity int

const (
	Error   Severity = iota // the construct cannot be trusted downstream
	Warning                 // valid but risky or almost certainly unintended
	Info
	Hint
)

var severityNames = [...]string{
	Error:   "error",
	Warning: "warning",
	Info:    "info",
	Hint:    "hint",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "unknown"
}

// Diagnostic codes. These are stable machine-readable identifiers,
// suitable for suppression rules and test assertions.
const (
	DuplicateSymbol   = "DUPLICATE_SYMBOL"
	UnknownType       = "UNKNOWN_TYPE"
	TypeMismatch      = "TYPE_MISMATCH"
	TypeWarning       = "TYPE_WARNING"
	UndefinedFunction = "UNDEFINED_FUNCTION"
	UnreachableCode   = "UNREACHABLE_CODE"
	UnusedVariable    = "UNUSED_VARIABLE"
	InfiniteLoop      = "INFINITE_LOOP"
	PropertyAmbiguous = "PROPERTY_AMBIGUOUS"
	MissingReturn     = "MISSING_RETURN"
)

// Diagnostic is one reported problem. Errors mean the analyzed construct
// is not trustworthy for code generation; warnings flag valid-but-risky
// constructs.
type Diagnostic struct {
	Pos      syntax.Pos
	Severity Severity
	Code     string
	Message  string
}

// Line returns the 1-based source line of the diagnostic.
func (d *Diagnostic) Line() uint32 {
	return d.Pos.Line()
}

// Col returns the 1-based source column of the diagnostic.
func (d *Diagnostic) Col() uint32 {
	return d.Pos.Col()
}

// String formats the diagnostic as "pos: severity CODE: message".
func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Pos, d.Severity, d.Code, d.Message)
}
