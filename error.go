// error.go — optional capabilities the parser probes on error values.
//
// Any error is accepted. Richer errors can report their own class name and
// native trace; everything else is derived from the value itself.
package xgxreport

import (
	"errors"
	"reflect"
	"strings"
)

// Exception is the full capability set the parser understands. No error
// needs to implement it; each method is probed on its own.
type Exception interface {
	error

	// TypeName overrides the class name reported for the error. When absent,
	// the simple runtime type name is used.
	TypeName() string

	// StackTrace returns the trace captured when the error was raised.
	StackTrace() Stack
}

// stackTracer is satisfied by errors carrying a native trace (see construct.go).
type stackTracer interface{ StackTrace() Stack }

// callersTracer is the shape used by several third-party error packages that
// record raw program counters instead of resolved frames.
type callersTracer interface{ Callers() []uintptr }

type typeNamer interface{ TypeName() string }

// nativeTrace returns the first non-empty trace found along err's unwrap graph.
func nativeTrace(err error) Stack {
	if err == nil {
		return nil
	}
	var st stackTracer
	if errors.As(err, &st) {
		if s := st.StackTrace(); len(s) > 0 {
			return s
		}
	}
	var ct callersTracer
	if errors.As(err, &ct) {
		if s := stackFromPCs(ct.Callers()); len(s) > 0 {
			return s
		}
	}
	return nil
}

// exceptionClass reports the simple type name for err.
func exceptionClass(err error) string {
	if tn, ok := err.(typeNamer); ok {
		if name := tn.TypeName(); name != "" {
			return name
		}
	}
	return simpleTypeName(reflect.TypeOf(err))
}

// simpleTypeName strips pointers and the package qualifier:
// *net.OpError → "OpError".
func simpleTypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	// Unnamed types (struct{...}, []error) have no simple name; fall back to
	// the type literal without qualifiers.
	s := t.String()
	if i := strings.LastIndexByte(s, '.'); i >= 0 && !strings.ContainsAny(s, "{[") {
		return s[i+1:]
	}
	return s
}
