package xgxreport

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTrace returns a call stack whose first frame is createTrace itself.
func createTrace() Stack {
	return Callers(0)
}

// throwRank returns a RankException carrying a trace that starts in the
// caller, like an exception thrown and caught in the same function.
func throwRank(msg string) error {
	return WithStackSkip(&RankException{msg: msg}, 1)
}

func TestGenerateExceptionInfo_NilWhenNoNativeTraceAndNoCallStack(t *testing.T) {
	t.Parallel()

	info := GenerateExceptionInfo(errors.New("System Error"), nil, &stubConfig{})
	assert.Nil(t, info)

	info = GenerateExceptionInfo(&RankException{msg: "x"}, Stack{}, &stubConfig{})
	assert.Nil(t, info)
}

func TestGenerateExceptionInfo_NilWhenErrorIsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, GenerateExceptionInfo(nil, Callers(0), &stubConfig{}))
	assert.Nil(t, GenerateExceptionInfo(nil, nil, &stubConfig{}))
}

func TestGenerateExceptionInfo_WithNativeTrace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		useCallStack     bool
		autoInProject    bool
		projectNamespace bool
		wantInProject    bool
	}{
		{true, false, false, false},
		{true, true, false, true},
		{true, false, true, true},
		{true, true, true, true},
		{false, false, false, false},
		{false, true, false, true},
		{false, false, true, true},
		{false, true, true, true},
	}
	p := NewParser(WithProjectModules(testPackage))
	for _, tt := range tests {
		name := fmt.Sprintf("callstack=%t/auto=%t/namespace=%t", tt.useCallStack, tt.autoInProject, tt.projectNamespace)
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := &stubConfig{autoDetect: tt.autoInProject, namespace: testPackage, matches: tt.projectNamespace}

			testErr := throwRank("Test Rank Exp")
			var callStack Stack
			if tt.useCallStack {
				callStack = Callers(0)
			}

			info := p.GenerateExceptionInfo(testErr, callStack, cfg)

			require.NotNil(t, info)
			assert.Equal(t, "RankException", info.ExceptionClass)
			assert.Equal(t, "Test Rank Exp", info.Description)
			assert.NotContains(t, info.Description, callStackMarker)
			require.NotEmpty(t, info.StackTrace)
			assert.True(t, strings.HasSuffix(info.StackTrace[0].File, "parser_test.go"), info.StackTrace[0].File)
			assert.Contains(t, info.StackTrace[0].Method, "TestGenerateExceptionInfo_WithNativeTrace")
			assert.Equal(t, tt.wantInProject, info.StackTrace[0].InProject)
		})
	}
}

func TestGenerateExceptionInfo_NoNativeTraceButCallStack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		autoInProject    bool
		projectNamespace bool
		wantInProject    bool
	}{
		{false, false, false},
		{true, false, true},
		{false, true, true},
		{true, true, true},
	}
	p := NewParser(WithProjectModules(testPackage))
	for _, tt := range tests {
		name := fmt.Sprintf("auto=%t/namespace=%t", tt.autoInProject, tt.projectNamespace)
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := &stubConfig{autoDetect: tt.autoInProject, namespace: testPackage, matches: tt.projectNamespace}
			testErr := &RankException{msg: "Test Rank Exp"}

			info := p.GenerateExceptionInfo(testErr, createTrace(), cfg)

			require.NotNil(t, info)
			assert.Equal(t, "RankException", info.ExceptionClass)
			assert.Contains(t, info.Description, testErr.Error())
			assert.Contains(t, info.Description, callStackMarker)
			require.GreaterOrEqual(t, len(info.StackTrace), 2)

			assert.True(t, strings.HasSuffix(info.StackTrace[0].File, "parser_test.go"))
			assert.Contains(t, info.StackTrace[0].Method, "createTrace")
			assert.Equal(t, tt.wantInProject, info.StackTrace[0].InProject)

			assert.True(t, strings.HasSuffix(info.StackTrace[1].File, "parser_test.go"))
			assert.Contains(t, info.StackTrace[1].Method, "TestGenerateExceptionInfo_NoNativeTraceButCallStack")
			assert.Equal(t, tt.wantInProject, info.StackTrace[1].InProject)
		})
	}
}

func TestGenerateExceptionInfo_CallStackEndToEnd(t *testing.T) {
	t.Parallel()

	cfg := &stubConfig{namespace: testPackage, matches: true}
	info := GenerateExceptionInfo(&RankException{msg: "boom"}, createTrace(), cfg)

	require.NotNil(t, info)
	assert.Equal(t, "boom [CALL STACK]", info.Description)
	assert.Equal(t, testPackage+".createTrace()", info.StackTrace[0].Method)
	assert.Equal(t, testPackage+".TestGenerateExceptionInfo_CallStackEndToEnd(*T t)", info.StackTrace[1].Method)
	assert.True(t, info.StackTrace[0].InProject)
	assert.True(t, info.StackTrace[1].InProject)
	assert.Greater(t, info.StackTrace[0].LineNumber, 0)
}

func TestGenerateExceptionInfo_NamespaceOnlyWhenAutoDetectOff(t *testing.T) {
	t.Parallel()

	// Every frame's namespace is offered to the predicate; with auto-detect
	// off, the predicate alone decides.
	cfg := &stubConfig{namespace: "testing", matches: true}
	info := NewParser(WithProjectModules(testPackage)).GenerateExceptionInfo(throwRank("x"), nil, cfg)
	require.NotNil(t, info)

	for i, fr := range info.StackTrace {
		want := strings.HasPrefix(fr.Method, "testing.")
		assert.Equal(t, want, fr.InProject, "frame %d %s", i, fr.Method)
	}
	assert.Contains(t, cfg.asked, testPackage)
	assert.Contains(t, cfg.asked, "testing")
}

func TestGenerateExceptionInfo_AutoDetectSkipsForeignModules(t *testing.T) {
	t.Parallel()

	cfg := &stubConfig{autoDetect: true}
	info := NewParser(WithProjectModules(testPackage)).GenerateExceptionInfo(throwRank("x"), nil, cfg)
	require.NotNil(t, info)

	assert.True(t, info.StackTrace[0].InProject)
	for _, fr := range info.StackTrace[1:] {
		if strings.HasPrefix(fr.Method, "testing.") || strings.HasPrefix(fr.Method, "runtime.") {
			assert.False(t, fr.InProject, fr.Method)
		}
	}
}

func TestGenerateExceptionInfo_AutoDetectMainAndExternalTestPackages(t *testing.T) {
	t.Parallel()

	callStack := Stack{
		{Function: "main.handle", File: "/home/dev/app/main.go", Line: 21},
		{Function: testPackage + "_test.TestServe", File: "/home/dev/app/serve_test.go", Line: 9},
		{Function: "net/http.(*conn).serve", File: "/usr/local/go/src/net/http/server.go", Line: 2092},
	}
	cfg := &stubConfig{autoDetect: true}
	info := NewParser(WithProjectModules(testPackage)).GenerateExceptionInfo(&RankException{msg: "x"}, callStack, cfg)

	require.NotNil(t, info)
	require.Len(t, info.StackTrace, 3)
	assert.True(t, info.StackTrace[0].InProject, info.StackTrace[0].Method)
	assert.True(t, info.StackTrace[1].InProject, info.StackTrace[1].Method)
	assert.False(t, info.StackTrace[2].InProject, info.StackTrace[2].Method)
}

func TestGenerateExceptionInfo_RemovesFileNamePrefix(t *testing.T) {
	t.Parallel()

	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	cfg := &stubConfig{strip: filepath.Dir(file) + "/"}

	info := GenerateExceptionInfo(throwRank("x"), nil, cfg)
	require.NotNil(t, info)
	assert.Equal(t, "parser_test.go", info.StackTrace[0].File)
}

func TestGenerateExceptionInfo_UnresolvableFramesDegrade(t *testing.T) {
	t.Parallel()

	callStack := Stack{
		{PC: 1},
		{Function: "example.com/lib.(*Client).Do", File: "/nonexistent/client.go", Line: 12},
	}
	cfg := &stubConfig{autoDetect: true, namespace: "", matches: true}
	info := NewParser(WithProjectModules(testPackage)).GenerateExceptionInfo(&RankException{msg: "x"}, callStack, cfg)

	require.NotNil(t, info)
	require.Len(t, info.StackTrace, 2)
	assert.Equal(t, StackFrameInfo{}, info.StackTrace[0])
	assert.Equal(t, StackFrameInfo{
		File:       "/nonexistent/client.go",
		Method:     "example.com/lib.Client.Do(...)",
		LineNumber: 12,
	}, info.StackTrace[1])
	assert.Equal(t, []string{"example.com/lib.Client"}, cfg.asked, "empty namespaces are not offered to the predicate")
}

func TestGenerateExceptionInfo_NilConfiguration(t *testing.T) {
	t.Parallel()

	info := GenerateExceptionInfo(throwRank("x"), nil, nil)
	require.NotNil(t, info)
	assert.False(t, info.StackTrace[0].InProject)
	assert.True(t, filepath.IsAbs(info.StackTrace[0].File))
}

func TestGenerateExceptionInfo_NativeTraceSources(t *testing.T) {
	t.Parallel()

	t.Run("Callers() []uintptr", func(t *testing.T) {
		t.Parallel()
		pcs := make([]uintptr, 16)
		n := runtime.Callers(1, pcs)
		err := &pcError{msg: "pc", pcs: pcs[:n]}

		info := GenerateExceptionInfo(err, createTrace(), nil)
		require.NotNil(t, info)
		assert.Equal(t, "pcError", info.ExceptionClass)
		assert.Equal(t, "pc", info.Description)
		assert.Contains(t, info.StackTrace[0].Method, "TestGenerateExceptionInfo_NativeTraceSources")
	})

	t.Run("trace found through fmt wrapping", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("outer: %w", throwRank("inner"))

		info := GenerateExceptionInfo(err, createTrace(), nil)
		require.NotNil(t, info)
		assert.Equal(t, "wrapError", info.ExceptionClass)
		assert.Equal(t, "outer: inner", info.Description)
		assert.NotContains(t, info.StackTrace[0].Method, "createTrace")
	})

	t.Run("TypeName override", func(t *testing.T) {
		t.Parallel()
		info := GenerateExceptionInfo(namedError{}, createTrace(), nil)
		require.NotNil(t, info)
		assert.Equal(t, "CustomClass", info.ExceptionClass)
		assert.Equal(t, "named [CALL STACK]", info.Description)
	})
}

func TestGenerateExceptionInfo_EmptyMessageStillMarked(t *testing.T) {
	t.Parallel()

	info := GenerateExceptionInfo(&RankException{}, createTrace(), nil)
	require.NotNil(t, info)
	assert.Equal(t, callStackMarker, info.Description)
}

func TestGenerateExceptionInfo_JSONShape(t *testing.T) {
	t.Parallel()

	info := &ExceptionInfo{
		ExceptionClass: "RankException",
		Description:    "boom",
		StackTrace:     []StackFrameInfo{{File: "a.go", Method: "app.Run()", LineNumber: 3, InProject: true}, {}},
	}
	data, err := json.Marshal(info)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"exceptionClass": "RankException",
		"message": "boom",
		"stacktrace": [
			{"file": "a.go", "method": "app.Run()", "lineNumber": 3, "inProject": true},
			{"inProject": false}
		]
	}`, string(data))
}

func TestGenerateExceptionChain(t *testing.T) {
	t.Parallel()

	root := &RankException{msg: "root"}
	err := Wrap(WithStack(root), "saving order")

	chain := GenerateExceptionChain(err, nil, &stubConfig{})
	require.Len(t, chain, 2)
	assert.Equal(t, "RankException", chain[0].ExceptionClass)
	assert.Equal(t, "saving order: root", chain[0].Description)
	assert.Equal(t, "RankException", chain[1].ExceptionClass)
	assert.Equal(t, "root", chain[1].Description)
	assert.Contains(t, chain[1].StackTrace[0].Method, "TestGenerateExceptionChain")

	t.Run("joined errors fall back to the call stack", func(t *testing.T) {
		t.Parallel()
		joined := errors.Join(&RankException{msg: "a"}, errors.New("b"))
		chain := GenerateExceptionChain(joined, createTrace(), &stubConfig{})
		require.Len(t, chain, 3)
		assert.Equal(t, "joinError", chain[0].ExceptionClass)
		assert.Equal(t, "a [CALL STACK]", chain[1].Description)
		assert.Equal(t, "errorString", chain[2].ExceptionClass)
	})

	t.Run("nil", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, GenerateExceptionChain(nil, createTrace(), &stubConfig{}))
	})
}
