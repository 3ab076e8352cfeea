package xgxreport

import (
	"strings"
)

// symbol is a runtime function name split into its parts.
//
//	github.com/acme/app/store.(*Repo).Get.func1
//	  pkg      = github.com/acme/app/store
//	  receiver = Repo
//	  method   = Get
//	  closure  = func1
type symbol struct {
	pkg      string
	receiver string
	method   string
	closure  []string

	// methodValue marks the compiler's bound-method wrapper (recv.Method,
	// symbol suffix "-fm"). Its func type has no receiver argument.
	methodValue bool
}

// declaringType is the namespace used for signatures and classification.
func (s symbol) declaringType() string {
	if s.receiver == "" {
		return s.pkg
	}
	if s.pkg == "" {
		return s.receiver
	}
	return s.pkg + "." + s.receiver
}

// displayName is the method name with any closure suffix (Get.func1).
func (s symbol) displayName() string {
	if len(s.closure) == 0 {
		return s.method
	}
	return s.method + "." + strings.Join(s.closure, ".")
}

// parseSymbol splits a runtime function name. It never fails; unexpected
// shapes leave the whole remainder in method.
func parseSymbol(name string) symbol {
	name = stripTypeArgs(name)

	var s symbol
	if trimmed, ok := strings.CutSuffix(name, "-fm"); ok {
		name, s.methodValue = trimmed, true
	}

	rest := name
	// The package path ends at the first '.' after the last '/'.
	slash := strings.LastIndexByte(name, '/')
	if dot := strings.IndexByte(name[slash+1:], '.'); dot >= 0 {
		cut := slash + 1 + dot
		s.pkg = unescapePkg(name[:cut])
		rest = name[cut+1:]
	}

	parts := strings.Split(rest, ".")
	// glob..func1 (package-level closures) splits into an empty element.
	parts = compact(parts)
	if len(parts) == 0 {
		return s
	}

	// Trailing closure markers: func1, 1, 2, ...
	end := len(parts)
	for end > 1 && isClosurePart(parts[end-1]) {
		end--
	}
	s.closure = parts[end:]
	parts = parts[:end]

	switch {
	case strings.HasPrefix(parts[0], "("):
		// (*T).Method or (T).Method
		s.receiver = strings.TrimPrefix(strings.TrimSuffix(parts[0], ")"), "(")
		s.receiver = strings.TrimPrefix(s.receiver, "*")
		s.method = strings.Join(parts[1:], ".")
	case len(parts) >= 2:
		// T.Method (value receiver)
		s.receiver = parts[0]
		s.method = strings.Join(parts[1:], ".")
	default:
		s.method = parts[0]
	}
	if s.method == "" && len(s.closure) > 0 {
		s.method, s.closure = s.closure[0], s.closure[1:]
	}
	return s
}

// closurePrefixes are the compiler's names for function literals and for
// the wrappers it generates around go and defer statements.
var closurePrefixes = []string{"func", "gowrap", "deferwrap"}

// isClosurePart matches the compiler's closure naming: "func7", "gowrap1",
// "deferwrap2" or "3".
func isClosurePart(p string) bool {
	for _, prefix := range closurePrefixes {
		if rest, ok := strings.CutPrefix(p, prefix); ok {
			p = rest
			break
		}
	}
	if p == "" {
		return false
	}
	for i := 0; i < len(p); i++ {
		if p[i] < '0' || p[i] > '9' {
			return false
		}
	}
	return true
}

// stripTypeArgs removes generic instantiation brackets: Map[...].Get → Map.Get.
func stripTypeArgs(name string) string {
	if strings.IndexByte(name, '[') < 0 {
		return name
	}
	var sb strings.Builder
	depth := 0
	for i := 0; i < len(name); i++ {
		switch c := name[i]; {
		case c == '[':
			depth++
		case c == ']' && depth > 0:
			depth--
		case depth == 0:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// unescapePkg undoes the runtime's escaping of dots in the last path element.
func unescapePkg(pkg string) string {
	return strings.ReplaceAll(pkg, "%2e", ".")
}

func compact(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
