package papyri

import "fmt"

// Diagnostics accumulates every SyntaxError/TypeError/RuntimeError/
// ModuleError/Warning raised during a single compile, instead of stopping
// at the first one. Parsing and evaluation both keep going on error where
// a reasonable recovery value exists, so one Compile call can surface many
// independent problems at once.
type Diagnostics struct {
	entries []*Diagnostic
}

// NewDiagnostics returns an empty sink.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

func (d *Diagnostics) push(kind DiagnosticKind, err error, rng SourceRange) *Diagnostic {
	diag := &Diagnostic{Kind: kind, Err: err, Range: rng}
	d.entries = append(d.entries, diag)
	return diag
}

// Syntax records a SyntaxError at rng.
func (d *Diagnostics) Syntax(err SyntaxError, rng SourceRange) *Diagnostic {
	return d.push(KindSyntax, err, rng)
}

// Type records a TypeError at rng.
func (d *Diagnostics) Type(err TypeError, rng SourceRange) *Diagnostic {
	return d.push(KindType, err, rng)
}

// Runtime records a RuntimeError at rng.
func (d *Diagnostics) Runtime(err RuntimeError, rng SourceRange) *Diagnostic {
	return d.push(KindRuntime, err, rng)
}

// Module records a ModuleError at rng.
func (d *Diagnostics) Module(err ModuleError, rng SourceRange) *Diagnostic {
	return d.push(KindModule, err, rng)
}

// Warn records a Warning at rng.
func (d *Diagnostics) Warn(err Warning, rng SourceRange) *Diagnostic {
	return d.push(KindWarning, err, rng)
}

// All returns every recorded diagnostic, in the order raised.
func (d *Diagnostics) All() []*Diagnostic {
	return d.entries
}

// HasErrors reports whether any non-Warning diagnostic was recorded.
// A compile that only produced Warnings still returns usable output.
func (d *Diagnostics) HasErrors() bool {
	for _, e := range d.entries {
		if e.Kind != KindWarning {
			return true
		}
	}
	return false
}

// Len returns the number of recorded diagnostics, warnings included.
func (d *Diagnostics) Len() int {
	return len(d.entries)
}

// Error implements the error interface so a non-empty Diagnostics can be
// returned directly from Compile; it is nil-safe to call on an empty sink
// by checking HasErrors first.
func (d *Diagnostics) Error() string {
	if len(d.entries) == 0 {
		return "no diagnostics"
	}
	if len(d.entries) == 1 {
		return d.entries[0].Error()
	}
	return fmt.Sprintf("%s (and %d more diagnostic(s))", d.entries[0].Error(), len(d.entries)-1)
}
