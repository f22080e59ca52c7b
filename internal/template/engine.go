package template

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	gotemplate "text/template"

	"github.com/go-sprout/sprout"
	sproutstrings "github.com/go-sprout/sprout/registry/strings"
)

// Engine compiles ERB-style snippet templates. Templates can call the sprout
// string helpers and any extra helpers registered with WithHelpers.
type Engine struct {
	helpers gotemplate.FuncMap
	logger  *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithHelpers makes funcs callable from templates. Names reserved by the
// engine are ignored.
func WithHelpers(funcs map[string]any) EngineOption {
	return func(e *Engine) {
		for name, fn := range funcs {
			if isBuiltin(name) {
				continue
			}
			e.helpers[name] = fn
		}
	}
}

// NewEngine creates an Engine with the default helper set.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	handler := sprout.New()
	if err := handler.AddRegistries(sproutstrings.NewRegistry()); err != nil {
		return nil, fmt.Errorf("registering template helpers: %w", err)
	}

	e := &Engine{
		helpers: gotemplate.FuncMap{},
		logger:  slog.Default(),
	}

	for name, fn := range handler.Build() {
		if isBuiltin(name) {
			continue
		}
		e.helpers[name] = fn
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// WithLogger returns a copy of the Engine that logs to l.
func (e *Engine) WithLogger(l *slog.Logger) *Engine {
	c := *e
	c.logger = l

	return &c
}

// Helpers returns the sorted names of the helpers templates can call.
func (e *Engine) Helpers() []string {
	m := make(map[string]any, len(e.helpers))
	for name, fn := range e.helpers {
		m[name] = fn
	}

	return sortedKeys(m)
}

func (e *Engine) isHelper(name string) bool {
	_, ok := e.helpers[name]
	return ok
}

// Template is a compiled snippet template. It is safe to execute repeatedly
// and from multiple goroutines.
type Template struct {
	name string
	tmpl *gotemplate.Template
}

// Compile parses src as an ERB-style template.
func (e *Engine) Compile(name, src string) (*Template, error) {
	tokens, err := scan(name, src)
	if err != nil {
		return nil, err
	}

	translated, err := translate(name, tokens, e.isHelper)
	if err != nil {
		return nil, err
	}

	funcs := builtinFuncs()
	for n, fn := range e.helpers {
		funcs[n] = fn
	}

	tmpl, err := gotemplate.New(name).Funcs(funcs).Parse(translated)
	if err != nil {
		return nil, &SyntaxError{Name: name, Err: err}
	}

	e.logger.Debug("compiled template", slog.String("name", name), slog.Int("tokens", len(tokens)))

	return &Template{name: name, tmpl: tmpl}, nil
}

// Execute renders the template against ctx. Every property read goes through
// ctx.Get; the first miss aborts the render with an *InsufficientContextError
// and no output is returned.
func (t *Template) Execute(ctx *Context) (string, error) {
	var missing error

	get := func(property string) (any, error) {
		v, err := ctx.Get(property)
		if err != nil && missing == nil {
			missing = err
		}

		return v, err
	}

	tmpl, err := t.tmpl.Clone()
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", t.name, err)
	}
	tmpl.Funcs(gotemplate.FuncMap{funcGet: get})

	var out strings.Builder
	if err := tmpl.Execute(&out, nil); err != nil {
		if missing != nil {
			return "", missing
		}

		var execErr gotemplate.ExecError
		if errors.As(err, &execErr) {
			return "", fmt.Errorf("rendering %s: %w", t.name, execErr.Err)
		}

		return "", fmt.Errorf("rendering %s: %w", t.name, err)
	}

	return out.String(), nil
}

// RenderString compiles and executes src in one step.
func (e *Engine) RenderString(name, src string, ctx *Context) (string, error) {
	tmpl, err := e.Compile(name, src)
	if err != nil {
		return "", err
	}

	return tmpl.Execute(ctx)
}
