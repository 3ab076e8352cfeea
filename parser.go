package xgxreport

import (
	"log/slog"
)

// callStackMarker is appended to the description when frames come from a
// supplied call stack rather than the error's own trace.
const callStackMarker = "[CALL STACK]"

// StackFrameInfo is one normalized frame. Empty strings and a zero line mean
// the information was not available.
type StackFrameInfo struct {
	File       string `json:"file,omitempty"`
	Method     string `json:"method,omitempty"`
	LineNumber int    `json:"lineNumber,omitempty"`
	InProject  bool   `json:"inProject"`
}

// ExceptionInfo is the serializable description of one error. StackTrace is
// ordered innermost call first and is never empty.
type ExceptionInfo struct {
	ExceptionClass string           `json:"exceptionClass"`
	Description    string           `json:"message"`
	StackTrace     []StackFrameInfo `json:"stacktrace"`
}

// Parser converts errors into ExceptionInfo values. A Parser is safe for
// concurrent use; its only state is a cache of parsed source files.
type Parser struct {
	logger   *slog.Logger
	sources  *sourceIndex
	detector *projectDetector
}

// Option configures a Parser.
type Option func(*parserOptions)

type parserOptions struct {
	logger    *slog.Logger
	cacheSize int
	modules   []string
}

// WithLogger sets the logger used for diagnostics. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *parserOptions) { o.logger = l }
}

// WithSourceCacheSize bounds the number of parsed source files kept.
func WithSourceCacheSize(n int) Option {
	return func(o *parserOptions) { o.cacheSize = n }
}

// WithProjectModules fixes the module paths the auto-detect heuristic treats
// as project code, instead of discovering them from build info and go.mod.
func WithProjectModules(modules ...string) Option {
	return func(o *parserOptions) { o.modules = modules }
}

// NewParser creates a Parser.
func NewParser(opts ...Option) *Parser {
	o := parserOptions{cacheSize: defaultSourceCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	det := newProjectDetector()
	if o.modules != nil {
		det = staticDetector(o.modules...)
	}
	return &Parser{
		logger:   o.logger,
		sources:  newSourceIndex(o.cacheSize, o.logger),
		detector: det,
	}
}

// NewParserFromSettings creates a Parser sized by s.
func NewParserFromSettings(s *Settings, opts ...Option) *Parser {
	if s != nil && s.SourceCacheSize > 0 {
		opts = append([]Option{WithSourceCacheSize(s.SourceCacheSize)}, opts...)
	}
	return NewParser(opts...)
}

var defaultParser = NewParser()

// GenerateExceptionInfo describes err using the shared default Parser.
// See (*Parser).GenerateExceptionInfo.
func GenerateExceptionInfo(err error, callStack Stack, cfg Configuration) *ExceptionInfo {
	return defaultParser.GenerateExceptionInfo(err, callStack, cfg)
}

// GenerateExceptionInfo describes err. It returns nil when err is nil or when
// no frames are available.
//
// Frames come from err's own trace when it has one; callStack is then
// ignored. Otherwise callStack is used and the description is suffixed with
// " [CALL STACK]". A nil cfg behaves like a zero Settings.
func (p *Parser) GenerateExceptionInfo(err error, callStack Stack, cfg Configuration) *ExceptionInfo {
	if err == nil {
		return nil
	}
	if cfg == nil {
		cfg = (*Settings)(nil)
	}

	description := err.Error()
	frames := nativeTrace(err)
	if len(frames) == 0 {
		if len(callStack) == 0 {
			return nil
		}
		frames = callStack
		if description == "" {
			description = callStackMarker
		} else {
			description += " " + callStackMarker
		}
	}

	autoDetect := cfg.AutoDetectInProject()
	trace := make([]StackFrameInfo, 0, len(frames))
	for _, fr := range frames {
		trace = append(trace, p.frameInfo(fr, cfg, autoDetect))
	}
	return &ExceptionInfo{
		ExceptionClass: exceptionClass(err),
		Description:    description,
		StackTrace:     trace,
	}
}

func (p *Parser) frameInfo(fr Frame, cfg Configuration, autoDetect bool) StackFrameInfo {
	info := StackFrameInfo{LineNumber: fr.Line}
	if fr.File != "" {
		info.File = cfg.RemoveFileNamePrefix(fr.File)
	}

	md := p.resolveFrame(fr)
	info.Method = GenerateMethodSignature(md)

	var namespace, pkg string
	if md != nil {
		namespace, pkg = md.DeclaringType, md.Package
	}
	info.InProject = namespace != "" && cfg.IsInProjectNamespace(namespace)
	if !info.InProject && autoDetect {
		info.InProject = p.detector.inProject(pkg, fr.File)
	}
	return info
}

// GenerateExceptionChain describes err and every error it wraps, outermost
// first, using the shared default Parser.
func GenerateExceptionChain(err error, callStack Stack, cfg Configuration) []ExceptionInfo {
	return defaultParser.GenerateExceptionChain(err, callStack, cfg)
}

// GenerateExceptionChain walks err's unwrap graph (including joined errors)
// and describes each distinct error. A wrapper that only attaches a stack is
// reported once, in place of the error it wraps. Errors that yield no info
// are skipped.
func (p *Parser) GenerateExceptionChain(err error, callStack Stack, cfg Configuration) []ExceptionInfo {
	var (
		out    []ExceptionInfo
		folded error
	)
	Walk(err, func(e error) bool {
		if folded != nil && sameError(e, folded) {
			folded = nil
			return true
		}
		folded = nil
		if te, ok := e.(*tracedErr); ok && te.carrier() {
			folded = te.cause
		}
		if info := p.GenerateExceptionInfo(e, callStack, cfg); info != nil {
			out = append(out, *info)
		}
		return true
	})
	return out
}
