// doc.go — package documentation for xgx-report
//
// Package xgxreport describes Go errors for an error-reporting client: the
// exception class, a description, and a normalized stack trace whose frames
// carry a readable method signature and an in-project flag. Sending the
// report is left to the caller.
//
// # Frame Sources
//
// A report needs frames. They come from exactly one place, chosen in order:
//
//	+-----------------------------+--------------------------------+-----------------------------+
//	| Source                      | Used when                      | Description                 |
//	+-----------------------------+--------------------------------+-----------------------------+
//	| error's own (native) trace  | err or a wrapped error has one | err.Error()                 |
//	| supplied call stack         | no native trace                | err.Error()+" [CALL STACK]" |
//	| none                        | neither has frames             | no report (nil)             |
//	+-----------------------------+--------------------------------+-----------------------------+
//
// Errors created with New, Wrap or WithStack carry a native trace. Callers
// capture a call stack with Callers.
//
// # Method Signatures
//
// Frames are rendered as
//
//	github.com/acme/app/store.Repo.Get(String key, Int64 version)
//
// The runtime symbol gives the package, receiver and method; the parameter
// list is read from the frame's source file. Predeclared types use canonical
// names (Int32, UInt32, String, ...), qualified types drop their package,
// and a variadic ...T renders as T[]. When the source cannot be read, the
// parameter list renders as "(...)".
//
// # In-Project Frames
//
// A frame is in the project when Configuration.IsInProjectNamespace accepts
// its namespace (the package path plus receiver type). With
// AutoDetectInProject, frames from the project's own module also count:
// the main module from build info or the go.mod enclosing the working
// directory. Package main and external test packages of those modules count
// too. The two signals are OR'd.
//
// # Concurrency
//
// All exported functions are safe for concurrent use. A Parser caches parsed
// source files; the cache never changes results.
package xgxreport
