// Package data loads the optional default data that accompanies a template.
package data

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmascarenhas/snp/internal/paths"
)

// Loader finds and decodes the data file associated with a template name.
type Loader struct {
	resolver *paths.Resolver
	exts     []string
	logger   *slog.Logger
}

// NewLoader returns a Loader that tries each extension in exts, in order.
// The first extension that resolves in the search path is used.
func NewLoader(resolver *paths.Resolver, exts ...string) *Loader {
	return &Loader{
		resolver: resolver,
		exts:     exts,
		logger:   slog.Default(),
	}
}

// WithLogger sets a custom logger
func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	l2 := *l
	l2.logger = logger

	return &l2
}

// Load returns the default data for templateName. A missing data file yields
// an empty map and no error; a data file that cannot be decoded yields a *ParseError.
func (l *Loader) Load(templateName string) (map[string]any, error) {
	for _, ext := range l.exts {
		path, ok := l.resolver.Resolve(templateName, ext)
		if !ok {
			continue
		}

		format := FormatFor(ext)
		l.logger.Debug("loading default data",
			slog.String("path", path),
			slog.String("format", string(format)))

		return LoadFile(path, format)
	}

	l.logger.Debug("no default data", slog.String("template", templateName))

	return map[string]any{}, nil
}

// LoadFile reads and decodes a single data file.
func LoadFile(path string, format Format) (map[string]any, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, &ParseError{Path: path, Format: format, Err: err}
	}

	values, err := Decode(content, format)
	if err != nil {
		return nil, &ParseError{Path: path, Format: format, Err: err}
	}

	return values, nil
}

// FormatFor maps a file extension to its data format. Unknown extensions are read as YAML.
func FormatFor(ext string) Format {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		return FormatTOML
	case "json", "jsonc":
		return FormatJSON
	default:
		return FormatYAML
	}
}
