package xgxreport

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"
	"sync"

	"golang.org/x/mod/modfile"
)

// projectDetector implements the auto-detect heuristic for in-project frames.
// Project modules are discovered once and never change afterwards.
type projectDetector struct {
	modules func() []string
}

func newProjectDetector() *projectDetector {
	return &projectDetector{modules: sync.OnceValue(discoverProjectModules)}
}

// staticDetector is used by tests and callers that know their module paths.
func staticDetector(modules ...string) *projectDetector {
	return &projectDetector{modules: func() []string { return modules }}
}

// inProject reports whether a frame from package pkg (source file file)
// belongs to the running project.
func (d *projectDetector) inProject(pkg, file string) bool {
	if pkg == "" {
		return false
	}
	// The runtime names a binary's entry package "main" whatever its module.
	if pkg == "main" {
		return true
	}
	// External test packages (app_test) belong to the package they test.
	pkg = strings.TrimSuffix(pkg, "_test")
	if mods := d.modules(); len(mods) > 0 {
		for _, m := range mods {
			if pkg == m || strings.HasPrefix(pkg, m+"/") {
				return true
			}
		}
		return false
	}
	// No module information: anything that is neither the standard library
	// nor a downloaded dependency.
	if isStandardPackage(pkg) {
		return false
	}
	f := filepath.ToSlash(file)
	return !strings.Contains(f, "/pkg/mod/") && !strings.Contains(f, "/vendor/")
}

// isStandardPackage reports whether pkg looks like a standard library import
// path: its first element has no dot. "main" is a project package.
func isStandardPackage(pkg string) bool {
	if pkg == "main" {
		return false
	}
	first, _, _ := strings.Cut(pkg, "/")
	return !strings.Contains(first, ".")
}

// discoverProjectModules returns the main module of the running binary and
// the module enclosing the working directory.
func discoverProjectModules() []string {
	var mods []string
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Path != "" && bi.Main.Path != "command-line-arguments" {
		mods = append(mods, bi.Main.Path)
	}
	if wd, err := os.Getwd(); err == nil {
		if m := enclosingModule(wd); m != "" && !slices.Contains(mods, m) {
			mods = append(mods, m)
		}
	}
	return mods
}

// enclosingModule walks up from dir to the nearest go.mod and returns its
// module path.
func enclosingModule(dir string) string {
	for {
		data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			return modfile.ModulePath(data)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
