// format.go — fmt.Formatter implementations.
//
// Behavior:
//
//	%s, %v   → concise string (Error() / "Class: description").
//	%+v      → verbose, multi-line:
//	             msg="<message>"
//	             stack:
//	               funcA file.go:123
//	               funcB other.go:45
//	%q       → quoted concise string.
package xgxreport

import (
	"fmt"
	"io"
)

// formatConcise writes the one-line form.
func formatConcise(w io.Writer, s string) {
	// ignore write errors in formatting paths
	_, _ = io.WriteString(w, s)
}

// formatStack writes the frames of stk, most recent first. Nothing is written
// for an empty stack.
func formatStack(w io.Writer, stk Stack) {
	if len(stk) == 0 {
		return
	}
	_, _ = io.WriteString(w, "\nstack:")
	for _, fr := range stk {
		_, _ = fmt.Fprintf(w, "\n  %s %s:%d", fr.Function, fr.File, fr.Line)
	}
}

func (e *tracedErr) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "msg=%q", e.Error())
			formatStack(s, e.stk)
			return
		}
		formatConcise(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	default:
		formatConcise(s, e.Error())
	}
}

// -----------------------------------------------------------------------------
// ExceptionInfo formatting
// -----------------------------------------------------------------------------

// String returns "Class: description".
func (i *ExceptionInfo) String() string {
	if i == nil {
		return ""
	}
	if i.Description == "" {
		return i.ExceptionClass
	}
	return i.ExceptionClass + ": " + i.Description
}

// Format renders one line per frame with %+v. Project frames are marked with
// " [project]"; frames without a resolvable method print "?".
func (i *ExceptionInfo) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		formatConcise(s, i.String())
		if !s.Flag('+') || i == nil {
			return
		}
		for _, fr := range i.StackTrace {
			method := fr.Method
			if method == "" {
				method = "?"
			}
			_, _ = fmt.Fprintf(s, "\n  %s %s:%d", method, fr.File, fr.LineNumber)
			if fr.InProject {
				_, _ = io.WriteString(s, " [project]")
			}
		}
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", i.String())
	default:
		formatConcise(s, i.String())
	}
}
