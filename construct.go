// construct.go — errors that carry a native trace.
//
// A traced error records the stack at the point it was created, the same way
// a runtime exception records where it was thrown. The parser prefers this
// trace over any call stack a caller supplies.
//
// Interop:
//   - errors.Is/As see through the wrapper via Unwrap.
//   - TypeName delegates to the wrapped error, so wrapping a *RankError keeps
//     "RankError" as the reported class.
package xgxreport

// tracedErr attaches a captured stack (and optionally a message) to a cause.
type tracedErr struct {
	msg   string
	cause error
	stk   Stack
}

func (e *tracedErr) Error() string {
	switch {
	case e.cause == nil:
		return e.msg
	case e.msg == "":
		return e.cause.Error()
	default:
		return e.msg + ": " + e.cause.Error()
	}
}

func (e *tracedErr) Unwrap() error     { return e.cause }
func (e *tracedErr) StackTrace() Stack { return e.stk }

// TypeName reports the class of the wrapped error, or "Error" for errors
// created with New.
func (e *tracedErr) TypeName() string {
	if e.cause != nil {
		return exceptionClass(e.cause)
	}
	return "Error"
}

// carrier reports whether e only adds a stack to its cause.
func (e *tracedErr) carrier() bool { return e.msg == "" && e.cause != nil }

// New creates an error with the given message and a stack captured at the
// call site.
func New(msg string) error {
	return &tracedErr{msg: msg, stk: captureStackDefault(1)}
}

// Wrap prefixes err's message and captures a stack at the call site.
// Wrap(nil, msg) returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &tracedErr{msg: msg, cause: err, stk: captureStackDefault(1)}
}

// WithStack attaches a stack captured at the call site to err.
// Errors that already carry a trace are returned unchanged.
func WithStack(err error) error {
	return WithStackSkip(err, 1)
}

// WithStackSkip is like WithStack but skips 'skip' additional frames above
// the caller (for helper wrappers).
func WithStackSkip(err error, skip int) error {
	if err == nil {
		return nil
	}
	if nativeTrace(err) != nil {
		return err
	}
	return &tracedErr{cause: err, stk: captureStackDefault(skip + 1)}
}

var (
	_ Exception = (*tracedErr)(nil)
)
