// unwrap.go — traversal of error graphs for exception chains.
//
// Scope:
//   - Pre-order DFS over single- and multi-wrapped errors
//     (Unwrap() error and Unwrap() []error, as produced by errors.Join).
//   - Cycle-safe without assuming error values are comparable.
//
// Design notes:
//   - We must NOT use map[error] as a blanket "seen" set: interface values whose
//     dynamic type is not comparable panic as map keys. We use a dual guard:
//       • seenErr (map[error]struct{}): comparable dynamic types
//       • seenPtr (map[uintptr]struct{}): pointer identity for pointer types
//     Non-comparable, non-pointer dynamics are treated as acyclic (and bounded by depth).
package xgxreport

import (
	"reflect"
)

// single/multi unwrap interfaces (stdlib-compatible)
type singleUnwrapper interface{ Unwrap() error }
type multiUnwrapper interface{ Unwrap() []error }

// ---------- small helpers ----------------------------------------------------

// fastIsPointer returns true if err's dynamic type is a pointer.
func fastIsPointer(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(*tracedErr); ok {
		return true
	}
	return reflect.ValueOf(err).Kind() == reflect.Pointer
}

// isComparable reports whether err's dynamic type is comparable (safe as a map key).
func isComparable(err error) bool {
	if err == nil {
		return false
	}
	return reflect.TypeOf(err).Comparable()
}

// ptrID returns a pointer identity for pointer-typed dynamic errors.
func ptrID(err error) (uintptr, bool) {
	if err == nil {
		return 0, false
	}
	rv := reflect.ValueOf(err)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return rv.Pointer(), true
	}
	return 0, false
}

// sameError reports identity without panicking on non-comparable values.
func sameError(a, b error) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if isComparable(a) {
		return a == b
	}
	pa, okA := ptrID(a)
	pb, okB := ptrID(b)
	return okA && okB && pa == pb
}

// markSeen returns true if 'err' was newly marked; false if already seen.
// Uses seenErr for comparable dynamics, seenPtr for pointer-typed non-comparable.
// If err is neither comparable nor pointer, it returns true (treated as acyclic).
func markSeen(err error, seenErr map[error]struct{}, seenPtr map[uintptr]struct{}) bool {
	if err == nil {
		return false
	}
	if isComparable(err) {
		if _, ok := seenErr[err]; ok {
			return false
		}
		seenErr[err] = struct{}{}
		return true
	}
	if fastIsPointer(err) {
		if id, ok := ptrID(err); ok {
			if _, dup := seenPtr[id]; dup {
				return false
			}
			seenPtr[id] = struct{}{}
			return true
		}
	}
	return true
}

// ---------- API --------------------------------------------------------------

// Walk traverses an error graph depth-first and calls visit for each DISTINCT
// node in PRE-ORDER (visit BEFORE expanding children). Children of a joined
// error are visited left to right. If visit returns false, traversal stops
// early. It is safe on cycles and nil is a no-op.
func Walk(err error, visit func(error) bool) {
	if err == nil || visit == nil {
		return
	}
	const maxDepth = 1 << 12

	stack := make([]error, 0, 8)
	seenErr := make(map[error]struct{}, 16)
	seenPtr := make(map[uintptr]struct{}, 16)

	stack = append(stack, err)
	_ = markSeen(err, seenErr, seenPtr)

	for len(stack) > 0 && len(stack) < maxDepth {
		// POP first → guarantees we will not re-visit parent.
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(cur) {
			return
		}

		// Expand children (multi first; push in reverse for L→R DFS).
		if m, ok := cur.(multiUnwrapper); ok {
			kids := m.Unwrap()
			for i := len(kids) - 1; i >= 0; i-- {
				c := kids[i]
				if c == nil {
					continue
				}
				if markSeen(c, seenErr, seenPtr) {
					stack = append(stack, c)
				}
			}
			continue
		}
		if s, ok := cur.(singleUnwrapper); ok {
			if u := s.Unwrap(); u != nil && markSeen(u, seenErr, seenPtr) {
				stack = append(stack, u)
			}
		}
	}
}
