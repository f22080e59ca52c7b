// Package compiler produces a finished snippet from a template name and a set
// of command-line overrides.
package compiler

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/rmascarenhas/snp/internal/config"
	"github.com/rmascarenhas/snp/internal/data"
	"github.com/rmascarenhas/snp/internal/paths"
	"github.com/rmascarenhas/snp/internal/template"
)

// Compiler ties the search path, default data and template rendering
// together. Each Build call is independent of the others.
type Compiler struct {
	resolver    *paths.Resolver
	loader      *data.Loader
	renderer    *template.Renderer
	templateExt string
	logger      *slog.Logger
}

// New creates a Compiler for cfg rendering with engine.
func New(cfg *config.Config, engine *template.Engine) *Compiler {
	resolver := paths.New(cfg.SearchPath)

	return &Compiler{
		resolver:    resolver,
		loader:      data.NewLoader(resolver, cfg.DataExts...),
		renderer:    template.NewRenderer(resolver, engine, cfg.TemplateExt),
		templateExt: cfg.TemplateExt,
		logger:      slog.Default(),
	}
}

// WithLogger returns a copy of the Compiler whose components log to l.
func (c *Compiler) WithLogger(l *slog.Logger) *Compiler {
	c2 := *c
	c2.resolver = c.resolver.WithLogger(l)
	c2.loader = c.loader.WithLogger(l)
	c2.renderer = c.renderer.WithLogger(l)
	c2.logger = l

	return &c2
}

// Resolver returns the resolver used to look templates up.
func (c *Compiler) Resolver() *paths.Resolver {
	return c.resolver
}

// Build renders templateName against its default data overlaid with
// overrides. Overrides win over default data, including default keys that
// only match once normalized ("gem-name" is replaced by a "gem_name" override).
func (c *Compiler) Build(templateName string, overrides map[string]string) (string, error) {
	defaults, err := c.loader.Load(paths.TrimExt(templateName, c.templateExt))
	if err != nil {
		return "", err
	}

	merged := Merge(defaults, overrides)
	if len(overrides) > 0 {
		c.logger.Debug("overrides applied", slog.Any("keys", slices.Sorted(maps.Keys(overrides))))
	}

	ctx := template.NewContext(merged)
	c.logger.Debug("context built", slog.Any("properties", ctx.Keys()))

	return c.renderer.Render(templateName, ctx)
}

// Merge overlays overrides on defaults without modifying either.
func Merge(defaults map[string]any, overrides map[string]string) map[string]any {
	merged := make(map[string]any, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}

	for k := range overrides {
		normalized := template.NormalizeKey(k)
		for existing := range merged {
			if template.NormalizeKey(existing) == normalized {
				delete(merged, existing)
			}
		}
	}

	for k, v := range overrides {
		merged[k] = v
	}

	return merged
}
