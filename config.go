package xgxreport

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Configuration is the read-only view of the reporting client's settings
// that the parser consults. Implementations must be safe for concurrent
// reads.
type Configuration interface {
	// AutoDetectInProject enables the module-based in-project heuristic in
	// addition to IsInProjectNamespace.
	AutoDetectInProject() bool

	// IsInProjectNamespace reports whether code declared in namespace (a
	// package path, optionally followed by ".Type") belongs to the project.
	IsInProjectNamespace(namespace string) bool

	// RemoveFileNamePrefix shortens a source path for display. Paths that
	// match no prefix are returned unchanged.
	RemoveFileNamePrefix(path string) string
}

// Settings is the stock Configuration.
type Settings struct {
	// AutoDetect turns on AutoDetectInProject.
	AutoDetect bool `mapstructure:"auto_detect_in_project"`

	// ProjectNamespaces are namespace prefixes treated as project code.
	ProjectNamespaces []string `mapstructure:"project_namespaces"`

	// FilePrefixes are stripped from frame file paths; the first match wins.
	FilePrefixes []string `mapstructure:"file_prefixes"`

	// SourceCacheSize bounds the number of parsed source files kept by a
	// Parser built with NewParserFromSettings.
	SourceCacheSize int `mapstructure:"source_cache_size"`
}

// AutoDetectInProject implements Configuration.
func (s *Settings) AutoDetectInProject() bool { return s != nil && s.AutoDetect }

// IsInProjectNamespace matches namespace against ProjectNamespaces on path
// or type boundaries.
// The empty namespace never matches.
func (s *Settings) IsInProjectNamespace(namespace string) bool {
	if s == nil || namespace == "" {
		return false
	}
	for _, ns := range s.ProjectNamespaces {
		if ns != "" && hasNamespacePrefix(namespace, ns) {
			return true
		}
	}
	return false
}

// hasNamespacePrefix reports whether prefix names namespace or one of its
// sub-packages or types: "a/b" covers "a/b", "a/b/c" and "a/b.T" but not
// "a/bc".
func hasNamespacePrefix(namespace, prefix string) bool {
	rest, ok := strings.CutPrefix(namespace, prefix)
	if !ok {
		return false
	}
	if rest == "" || strings.HasSuffix(prefix, "/") || strings.HasSuffix(prefix, ".") {
		return true
	}
	return rest[0] == '/' || rest[0] == '.'
}

// RemoveFileNamePrefix strips the first matching entry of FilePrefixes.
func (s *Settings) RemoveFileNamePrefix(path string) string {
	if s == nil {
		return path
	}
	for _, prefix := range s.FilePrefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return strings.TrimPrefix(path, prefix)
		}
	}
	return path
}

// envPrefix namespaces environment overrides: XGX_REPORT_FILE_PREFIXES, ...
const envPrefix = "XGX_REPORT"

// LoadSettings reads Settings from the file at path (any format viper
// understands, typically YAML). Environment variables prefixed with
// XGX_REPORT_ override file values. An empty path loads defaults and
// environment only.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetDefault("auto_detect_in_project", false)
	v.SetDefault("project_namespaces", []string{})
	v.SetDefault("file_prefixes", []string{})
	v.SetDefault("source_cache_size", defaultSourceCacheSize)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	}

	s := &Settings{
		AutoDetect:        v.GetBool("auto_detect_in_project"),
		ProjectNamespaces: v.GetStringSlice("project_namespaces"),
		FilePrefixes:      v.GetStringSlice("file_prefixes"),
		SourceCacheSize:   v.GetInt("source_cache_size"),
	}
	if s.SourceCacheSize < 0 {
		return nil, fmt.Errorf("source_cache_size must not be negative, got %d", s.SourceCacheSize)
	}
	return s, nil
}

var _ Configuration = (*Settings)(nil)
