package xgxreport

import (
	"strings"
)

// testPackage is the import path of this package as it appears in runtime
// symbol names.
const testPackage = "github.com/xgx-io/xgx-report"

// --- Methods with known signatures -------------------------------------------

type TestClass struct{}

type exceptionParserTests struct{}

func (*exceptionParserTests) Calculate(string1 string, integer2 int32) int {
	return 0
}

func (*exceptionParserTests) Addition(long1, long2 int64) {}

func (*exceptionParserTests) Subtraction(unsigned ...uint32) *TestClass {
	return nil
}

func (*exceptionParserTests) Nothing() {}

func (*exceptionParserTests) Everything(b byte, r rune, f float64, ok bool, v any, err error, ids []string, m map[string]int, tc *TestClass, sb *strings.Builder) {
}

// multiplication captures its own frame so the generic instantiation can be
// resolved from a real stack.
func multiplication[T any](testClass TestClass) Stack {
	return Callers(0)
}

func identity[T any](value T) Stack {
	return Callers(0)
}

// --- Errors ------------------------------------------------------------------

// RankException mirrors a runtime exception type without a trace of its own.
type RankException struct{ msg string }

func (e *RankException) Error() string { return e.msg }

// pcError records raw program counters, like several third-party error
// packages do.
type pcError struct {
	msg string
	pcs []uintptr
}

func (e *pcError) Error() string      { return e.msg }
func (e *pcError) Callers() []uintptr { return e.pcs }

type namedError struct{}

func (namedError) Error() string    { return "named" }
func (namedError) TypeName() string { return "CustomClass" }

// --- Configuration stub ------------------------------------------------------

// stubConfig answers the namespace predicate for one namespace only.
type stubConfig struct {
	autoDetect bool
	namespace  string
	matches    bool
	strip      string
	asked      []string
}

func (c *stubConfig) AutoDetectInProject() bool { return c.autoDetect }

func (c *stubConfig) IsInProjectNamespace(namespace string) bool {
	c.asked = append(c.asked, namespace)
	return c.matches && namespace == c.namespace
}

func (c *stubConfig) RemoveFileNamePrefix(path string) string {
	return strings.TrimPrefix(path, c.strip)
}
