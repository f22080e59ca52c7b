package template

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rmascarenhas/snp/internal/paths"
)

// Renderer resolves template names through the search path and renders them.
type Renderer struct {
	resolver *paths.Resolver
	engine   *Engine
	ext      string
	logger   *slog.Logger
}

// NewRenderer creates a Renderer that looks templates up with ext appended.
func NewRenderer(resolver *paths.Resolver, engine *Engine, ext string) *Renderer {
	return &Renderer{
		resolver: resolver,
		engine:   engine,
		ext:      ext,
		logger:   slog.Default(),
	}
}

// WithLogger returns a copy of the Renderer that logs to l.
func (r *Renderer) WithLogger(l *slog.Logger) *Renderer {
	c := *r
	c.logger = l
	c.engine = r.engine.WithLogger(l)

	return &c
}

// Render resolves name and renders it against ctx. A name no search directory
// holds fails with a *NotFoundError listing the directories searched.
func (r *Renderer) Render(name string, ctx *Context) (string, error) {
	path, ok := r.resolver.Resolve(name, r.ext)
	if !ok {
		return "", &NotFoundError{Name: name, SearchPath: r.resolver.SearchPaths()}
	}

	r.logger.Debug("template resolved", slog.String("path", path))

	content, err := os.ReadFile(path) //nolint:gosec // path comes from the configured search path
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", path, err)
	}

	return r.engine.RenderString(paths.WithExt(name, r.ext), string(content), ctx)
}
