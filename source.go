package xgxreport

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/packages"
)

// defaultSourceCacheSize is the number of parsed files kept per Parser.
const defaultSourceCacheSize = 128

// sourceFile is a parsed Go file. A nil ast records a failed read or parse so
// the failure is not retried for every frame.
type sourceFile struct {
	fset *token.FileSet
	ast  *ast.File
	src  []byte
}

// sourceIndex loads and caches parsed source files by path. It is safe for
// concurrent use.
type sourceIndex struct {
	cache    *lru.Cache[string, *sourceFile]
	pkgFiles *lru.Cache[string, []string]
	group    singleflight.Group
	logger   *slog.Logger
}

func newSourceIndex(size int, logger *slog.Logger) *sourceIndex {
	if size <= 0 {
		size = defaultSourceCacheSize
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, *sourceFile](size)
	pkgFiles, _ := lru.New[string, []string](size)
	return &sourceIndex{cache: cache, pkgFiles: pkgFiles, logger: logger}
}

// file returns the parsed file at path, or nil when it cannot be read.
func (x *sourceIndex) file(path string) *sourceFile {
	if path == "" || path == "<autogenerated>" {
		return nil
	}
	if sf, ok := x.cache.Get(path); ok {
		return usable(sf)
	}
	v, _, _ := x.group.Do(path, func() (any, error) {
		if sf, ok := x.cache.Get(path); ok {
			return sf, nil
		}
		sf, err := parseSource(path)
		if err != nil {
			x.logger.Debug("source unavailable for stack frame", "file", path, "error", err)
			sf = &sourceFile{}
		}
		x.cache.Add(path, sf)
		return sf, nil
	})
	return usable(v.(*sourceFile))
}

// packageFiles lists the source files of the package with import path pkg,
// test files included. The result is cached, empty when the package cannot
// be located.
func (x *sourceIndex) packageFiles(pkg string) []string {
	if pkg == "" || pkg == "main" {
		return nil
	}
	if files, ok := x.pkgFiles.Get(pkg); ok {
		return files
	}
	v, _, _ := x.group.Do("package:"+pkg, func() (any, error) {
		if files, ok := x.pkgFiles.Get(pkg); ok {
			return files, nil
		}
		files, err := loadPackageFiles(pkg)
		if err != nil {
			x.logger.Debug("package source unavailable", "package", pkg, "error", err)
		}
		x.pkgFiles.Add(pkg, files)
		return files, nil
	})
	return v.([]string)
}

func loadPackageFiles(pkg string) ([]string, error) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedFiles, Tests: true}
	pkgs, err := packages.Load(cfg, pkg)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}
	var files []string
	for _, p := range pkgs {
		// Tests: true adds the test variant and the external test package.
		if p.PkgPath != pkg {
			continue
		}
		for _, f := range p.GoFiles {
			if !slices.Contains(files, f) {
				files = append(files, f)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no source files for %s", pkg)
	}
	return files, nil
}

func usable(sf *sourceFile) *sourceFile {
	if sf == nil || sf.ast == nil {
		return nil
	}
	return sf
}

func parseSource(path string) (*sourceFile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	fset := token.NewFileSet()
	// SkipObjectResolution: only declarations and positions are needed.
	f, err := parser.ParseFile(fset, path, src, parser.SkipObjectResolution)
	if f == nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}
	// A partial AST from a file with syntax errors is still useful.
	return &sourceFile{fset: fset, ast: f, src: src}, nil
}

// funcDecl finds the top-level function or method declaration for sym.
func (sf *sourceFile) funcDecl(sym symbol) *ast.FuncDecl {
	for _, d := range sf.ast.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok || fd.Name.Name != sym.method {
			continue
		}
		if receiverName(fd) == sym.receiver {
			return fd
		}
	}
	return nil
}

// funcLitAt finds the innermost function literal enclosing the first
// non-blank column of line.
func (sf *sourceFile) funcLitAt(line int) *ast.FuncLit {
	pos := sf.linePos(line)
	if !pos.IsValid() {
		return nil
	}
	path, _ := astutil.PathEnclosingInterval(sf.ast, pos, pos)
	for _, n := range path {
		if lit, ok := n.(*ast.FuncLit); ok {
			return lit
		}
	}
	return nil
}

// linePos returns the position of the first non-blank byte on line.
func (sf *sourceFile) linePos(line int) token.Pos {
	tf := sf.fset.File(sf.ast.Pos())
	if tf == nil || line <= 0 || line > tf.LineCount() {
		return token.NoPos
	}
	off := tf.Offset(tf.LineStart(line))
	for off < len(sf.src) && (sf.src[off] == ' ' || sf.src[off] == '\t') {
		off++
	}
	if off >= tf.Size() {
		return token.NoPos
	}
	return tf.Pos(off)
}

// receiverName returns the base type name of a method receiver ("" for
// plain functions). Type parameters are dropped: (l *List[T]) → "List".
func receiverName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return ""
	}
	expr := fd.Recv.List[0].Type
	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.ParenExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}
