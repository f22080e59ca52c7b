// Package paths resolves template and data file names against an ordered
// list of search directories.
package paths

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Resolver looks files up in a fixed, ordered search path. The first directory
// containing the file wins. A Resolver is immutable once created.
type Resolver struct {
	dirs   []string
	logger *slog.Logger
}

// New creates a Resolver for the given directories. The directories are
// expected to be absolute; New does not reorder or deduplicate them.
func New(dirs []string) *Resolver {
	return &Resolver{
		dirs:   append([]string(nil), dirs...),
		logger: slog.Default(),
	}
}

// WithLogger returns a copy of the Resolver that logs lookups to logger.
func (r *Resolver) WithLogger(logger *slog.Logger) *Resolver {
	r2 := *r
	r2.logger = logger

	return &r2
}

// SearchPaths returns a copy of the search directories in lookup order.
func (r *Resolver) SearchPaths() []string {
	return append([]string(nil), r.dirs...)
}

// Resolve normalizes name by appending "."+ext unless it already ends with it,
// then returns the path of the first search directory holding that file.
// The boolean is false when no directory has it; that is not an error.
func (r *Resolver) Resolve(name, ext string) (string, bool) {
	file := WithExt(name, ext)

	for _, dir := range r.dirs {
		candidate := filepath.Join(dir, file)
		r.logger.Debug("probing", slog.String("dir", dir), slog.String("file", file))

		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}

		return candidate, true
	}

	return "", false
}

// WithExt appends "."+ext to name unless name already carries that exact suffix.
// The comparison is case-sensitive.
func WithExt(name, ext string) string {
	suffix := "." + ext
	if strings.HasSuffix(name, suffix) {
		return name
	}

	return name + suffix
}

// TrimExt removes a trailing "."+ext from name, if present.
func TrimExt(name, ext string) string {
	return strings.TrimSuffix(name, "."+ext)
}
