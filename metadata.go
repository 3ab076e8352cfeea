package xgxreport

import (
	"reflect"
	"runtime"
)

// resolveFrame builds method metadata for a captured frame. It returns nil
// for frames without a function name (unresolvable PCs, cgo, stripped
// binaries).
func (p *Parser) resolveFrame(fr Frame) *MethodMetadata {
	if fr.Function == "" {
		return nil
	}
	sym := parseSymbol(fr.Function)
	if sym.method == "" {
		return nil
	}
	md := &MethodMetadata{
		DeclaringType: sym.declaringType(),
		Package:       sym.pkg,
		Name:          sym.displayName(),
	}
	params, ok := p.sourceParams(sym, fr.File, fr.Line)
	if !ok && sym.methodValue {
		params, ok = p.packageParams(sym)
	}
	if !ok {
		md.Partial = true
		return md
	}
	md.Parameters = params
	return md
}

// sourceParams reads the parameter list for sym from its source file.
// Closures are located by line, declarations by name.
func (p *Parser) sourceParams(sym symbol, file string, line int) ([]ParameterDescriptor, bool) {
	sf := p.sources.file(file)
	if sf == nil {
		return nil, false
	}
	if len(sym.closure) > 0 {
		if lit := sf.funcLitAt(line); lit != nil {
			return paramsFromAST(lit.Type.Params), true
		}
		return nil, false
	}
	if fd := sf.funcDecl(sym); fd != nil {
		return paramsFromAST(fd.Type.Params), true
	}
	return nil, false
}

// packageParams finds sym's declaration among the files of its package. It
// serves compiler wrappers whose own position is "<autogenerated>".
func (p *Parser) packageParams(sym symbol) ([]ParameterDescriptor, bool) {
	if len(sym.closure) > 0 {
		return nil, false
	}
	for _, path := range p.sources.packageFiles(sym.pkg) {
		sf := p.sources.file(path)
		if sf == nil {
			continue
		}
		if fd := sf.funcDecl(sym); fd != nil {
			return paramsFromAST(fd.Type.Params), true
		}
	}
	return nil, false
}

// receiverArgs is the number of leading func-type inputs that hold the
// receiver: one for a method expression, none for functions, closures and
// bound method values.
func receiverArgs(sym symbol) int {
	if sym.receiver == "" || len(sym.closure) > 0 || sym.methodValue {
		return 0
	}
	return 1
}

// MethodOf returns metadata for a function value or method expression, for
// example MethodOf((*Repo).Get). Parameter names come from source when it is
// available; otherwise types come from reflection and names are left empty.
// It returns nil when fn is not a non-nil func.
func MethodOf(fn any) *MethodMetadata {
	return defaultParser.MethodOf(fn)
}

// MethodOf is the Parser-scoped form of the package-level MethodOf.
func (p *Parser) MethodOf(fn any) *MethodMetadata {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return nil
	}
	sym := parseSymbol(rf.Name())
	if sym.method == "" {
		return nil
	}
	md := &MethodMetadata{
		DeclaringType: sym.declaringType(),
		Package:       sym.pkg,
		Name:          sym.displayName(),
	}
	file, line := rf.FileLine(rf.Entry())
	params, ok := p.sourceParams(sym, file, line)
	if !ok && sym.methodValue {
		params, ok = p.packageParams(sym)
	}
	if ok {
		md.Parameters = params
		return md
	}
	md.Parameters = paramsFromType(v.Type(), receiverArgs(sym))
	return md
}
