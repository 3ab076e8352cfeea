// stack.go — call-stack capture for callers that need to supply a trace.
//
// The parser never captures stacks on its own; these helpers exist so that
// error values (see construct.go) and reporting clients can hand it one.
//
// Design goals:
//   - Use runtime.Callers + runtime.CallersFrames for accurate frame
//     resolution (inlined calls are expanded).
//   - Bounded depth, no allocations unless a capture is requested.
package xgxreport

import (
	"runtime"
)

// Frame represents a single call site in a stack trace.
type Frame struct {
	PC       uintptr // program counter of the call return
	File     string  // absolute file path (as provided by runtime)
	Line     int     // line number
	Function string  // runtime symbol name (pkg.Func, pkg.(*T).Method, ...)
}

// Stack is a slice of Frames from most recent call outward.
type Stack []Frame

const (
	// defaultMaxDepth bounds a capture; deeper frames are rarely useful in
	// a report and cost a resolution each.
	defaultMaxDepth = 64
)

// Callers captures the calling goroutine's stack, skipping 'skip' frames
// above the caller of Callers. Callers(0) starts at the function that
// called Callers. The result is suitable as the callStack argument of
// GenerateExceptionInfo.
func Callers(skip int) Stack {
	return captureStackDefault(skip + 1)
}

// captureStackDefault captures a stack skipping 'skip' frames, with the
// default depth bound.
//
// Skip model:
//
//	Callers → captureStackDefault → captureStack → runtime.Callers
//
// captureStack adds +3 (runtime.Callers, captureStack, captureStackDefault),
// so skip=0 puts the first recorded frame at the caller of
// captureStackDefault.
func captureStackDefault(skip int) Stack {
	return captureStack(skip, defaultMaxDepth)
}

// captureStack captures up to maxDepth frames, skipping 'skip' initial frames.
func captureStack(skip, maxDepth int) Stack {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	pc := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+3, pc)
	if n == 0 {
		return nil
	}
	return stackFromPCs(pc[:n])
}

// stackFromPCs resolves raw program counters (as produced by
// runtime.Callers) into frames. Errors from other libraries that expose
// Callers() []uintptr go through here too.
func stackFromPCs(pcs []uintptr) Stack {
	if len(pcs) == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs)
	out := make(Stack, 0, len(pcs))
	for {
		fr, more := frames.Next()
		out = append(out, Frame{
			PC:       fr.PC,
			File:     fr.File,
			Line:     fr.Line,
			Function: fr.Function,
		})
		if !more {
			break
		}
	}
	return out
}
