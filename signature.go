package xgxreport

import (
	"go/ast"
	"reflect"
	"strconv"
	"strings"
)

// ParameterDescriptor describes one declared parameter of a method.
type ParameterDescriptor struct {
	TypeName string // display name, see canonicalTypeName
	Name     string // declared name; empty when unknown
	Variadic bool   // trailing ...T parameter; TypeName is then "T[]"
}

// MethodMetadata is what the signature generator needs to know about a
// function or method.
type MethodMetadata struct {
	// DeclaringType is the package path plus receiver type
	// ("github.com/acme/app/store.Repo"), or only the package path for plain
	// functions. It doubles as the namespace for project classification.
	DeclaringType string

	// Package is the import path of the declaring package.
	Package    string
	Name       string
	Parameters []ParameterDescriptor

	// Partial is set when the parameter list could not be recovered.
	Partial bool
}

// canonicalNames maps Go predeclared types to their display names.
var canonicalNames = map[string]string{
	"bool":        "Boolean",
	"string":      "String",
	"int":         "Int",
	"int8":        "Int8",
	"int16":       "Int16",
	"int32":       "Int32",
	"rune":        "Int32",
	"int64":       "Int64",
	"uint":        "UInt",
	"uint8":       "Byte",
	"byte":        "Byte",
	"uint16":      "UInt16",
	"uint32":      "UInt32",
	"uint64":      "UInt64",
	"uintptr":     "UIntPtr",
	"float32":     "Single",
	"float64":     "Double",
	"complex64":   "Complex64",
	"complex128":  "Complex128",
	"any":         "Object",
	"interface{}": "Object",
	"error":       "Error",
}

// canonicalTypeName returns the display name for a simple type name.
// Unknown names are returned unchanged.
func canonicalTypeName(name string) string {
	if c, ok := canonicalNames[name]; ok {
		return c
	}
	return name
}

// GenerateMethodSignature renders m as "DeclaringType.Name(T1 p1, T2 p2)".
// A nil m yields "".
func GenerateMethodSignature(m *MethodMetadata) string {
	if m == nil {
		return ""
	}
	var sb strings.Builder
	if m.DeclaringType != "" {
		sb.WriteString(m.DeclaringType)
		sb.WriteByte('.')
	}
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	if m.Partial {
		sb.WriteString("...")
	}
	for i, p := range m.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.TypeName)
		if p.Name != "" && p.Name != "_" {
			sb.WriteByte(' ')
			sb.WriteString(p.Name)
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// -----------------------------------------------------------------------------
// Parameters from source
// -----------------------------------------------------------------------------

// paramsFromAST converts a parsed parameter list. Grouped names (a, b int64)
// expand to one descriptor each.
func paramsFromAST(fields *ast.FieldList) []ParameterDescriptor {
	if fields == nil || len(fields.List) == 0 {
		return []ParameterDescriptor{}
	}
	out := make([]ParameterDescriptor, 0, fields.NumFields())
	for _, f := range fields.List {
		typ, variadic := f.Type, false
		if ell, ok := typ.(*ast.Ellipsis); ok {
			typ, variadic = ell.Elt, true
		}
		name := exprTypeName(typ)
		if variadic {
			name += "[]"
		}
		if len(f.Names) == 0 {
			out = append(out, ParameterDescriptor{TypeName: name, Variadic: variadic})
			continue
		}
		for _, n := range f.Names {
			out = append(out, ParameterDescriptor{TypeName: name, Name: n.Name, Variadic: variadic})
		}
	}
	return out
}

// exprTypeName renders a type expression with canonical primitive names and
// without package qualifiers.
func exprTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return canonicalTypeName(t.Name)
	case *ast.SelectorExpr:
		// pkg.Thing → Thing
		return t.Sel.Name
	case *ast.StarExpr:
		return "*" + exprTypeName(t.X)
	case *ast.ParenExpr:
		return exprTypeName(t.X)
	case *ast.ArrayType:
		if t.Len == nil {
			return exprTypeName(t.Elt) + "[]"
		}
		return exprTypeName(t.Elt) + "[" + exprText(t.Len) + "]"
	case *ast.Ellipsis:
		return exprTypeName(t.Elt) + "[]"
	case *ast.MapType:
		return "map[" + exprTypeName(t.Key) + "]" + exprTypeName(t.Value)
	case *ast.ChanType:
		switch t.Dir {
		case ast.SEND:
			return "chan<- " + exprTypeName(t.Value)
		case ast.RECV:
			return "<-chan " + exprTypeName(t.Value)
		default:
			return "chan " + exprTypeName(t.Value)
		}
	case *ast.FuncType:
		return "func(" + joinTypes(paramsFromAST(t.Params)) + ")"
	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return canonicalTypeName("interface{}")
		}
		return "interface{...}"
	case *ast.StructType:
		return "struct{...}"
	case *ast.IndexExpr:
		return exprTypeName(t.X) + "[" + exprTypeName(t.Index) + "]"
	case *ast.IndexListExpr:
		args := make([]string, len(t.Indices))
		for i, ix := range t.Indices {
			args[i] = exprTypeName(ix)
		}
		return exprTypeName(t.X) + "[" + strings.Join(args, ", ") + "]"
	default:
		return "?"
	}
}

// exprText renders array length expressions.
func exprText(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.BasicLit:
		return t.Value
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.Ellipsis:
		return "..."
	default:
		return "?"
	}
}

func joinTypes(params []ParameterDescriptor) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.TypeName
	}
	return strings.Join(names, ", ")
}

// -----------------------------------------------------------------------------
// Parameters from reflection
// -----------------------------------------------------------------------------

// paramsFromType derives parameter types from a func type when source is not
// available. Names are unknown. The first 'skip' inputs (a method
// expression's receiver) are dropped.
func paramsFromType(t reflect.Type, skip int) []ParameterDescriptor {
	if t == nil || t.Kind() != reflect.Func {
		return nil
	}
	out := make([]ParameterDescriptor, 0, t.NumIn())
	for i := skip; i < t.NumIn(); i++ {
		in := t.In(i)
		if t.IsVariadic() && i == t.NumIn()-1 {
			out = append(out, ParameterDescriptor{TypeName: reflectTypeName(in.Elem()) + "[]", Variadic: true})
			continue
		}
		out = append(out, ParameterDescriptor{TypeName: reflectTypeName(in)})
	}
	return out
}

// reflectTypeName mirrors exprTypeName for reflect.Type values.
func reflectTypeName(t reflect.Type) string {
	if name := t.Name(); name != "" {
		if t.PkgPath() == "" {
			return canonicalTypeName(name)
		}
		return name
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + reflectTypeName(t.Elem())
	case reflect.Slice:
		return reflectTypeName(t.Elem()) + "[]"
	case reflect.Array:
		return reflectTypeName(t.Elem()) + "[" + strconv.Itoa(t.Len()) + "]"
	case reflect.Map:
		return "map[" + reflectTypeName(t.Key()) + "]" + reflectTypeName(t.Elem())
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return canonicalTypeName("interface{}")
		}
		return "interface{...}"
	case reflect.Func:
		return "func(" + joinTypes(paramsFromType(t, 0)) + ")"
	case reflect.Chan:
		return "chan " + reflectTypeName(t.Elem())
	case reflect.Struct:
		return "struct{...}"
	default:
		return t.String()
	}
}
