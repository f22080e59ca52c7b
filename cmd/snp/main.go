// Package main provides the CLI entry point for snp.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rmascarenhas/snp/internal/compiler"
	"github.com/rmascarenhas/snp/internal/config"
	"github.com/rmascarenhas/snp/internal/editor"
	"github.com/rmascarenhas/snp/internal/options"
	"github.com/rmascarenhas/snp/internal/output"
	"github.com/rmascarenhas/snp/internal/paths"
	"github.com/rmascarenhas/snp/internal/platform"
	tmpl "github.com/rmascarenhas/snp/internal/template"
	"github.com/rmascarenhas/snp/internal/tui"
)

var version = "dev"

// maxSuggestions bounds the "did you mean" list for unknown templates.
const maxSuggestions = 3

// helpWidth wraps the helper list printed by --help.
const helpWidth = 78

var errNoTemplate = errors.New("no template name given")

// flags holds the options snp itself understands. Anything else on the
// command line is a template override.
type flags struct {
	output      string
	help        bool
	version     bool
	verbose     bool
	list        bool
	edit        bool
	diff        bool
	force       bool
	highlight   bool
	interactive bool
	paths       bool
}

// app carries the streams of one invocation so tests can capture them.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	flags  flags
	logger *slog.Logger
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// execute runs snp with args and returns the process exit code.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, logger: slog.Default()}

	rootCmd := newRootCommand(a)
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		reportError(stderr, err)
		return 1
	}

	return 0
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "snp [options] [--key value ...] template_name",
		Short: "Generate code snippets from templates",
		Long: `snp renders a snippet template found in the template search path.

Templates are ERB files named <template>.erb. Default values for their
properties can be kept next to them in <template>.yml (or .yaml, .toml,
.json), and any --key value pair on the command line overrides them.

The search path is read from SNP_PATH, a colon-separated list of
directories searched in order. It defaults to ~/.snp_templates.

With --highlight, the language is guessed from the template name: keep the
source extension in it (ruby/version.rb.erb) or group templates in a
directory named after the language (ruby/version.erb).`,
		Example: `  snp --name Snp --version 0.1.0 gemspec
  snp -o lib/snp/version.rb --version 0.2.0 ruby/version
  snp --list`,
		// Arbitrary --key value overrides cannot be declared up front, so
		// options.Parse does the parsing instead of cobra.
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args)
		},
	}

	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	f := rootCmd.Flags()
	f.BoolVarP(&a.flags.help, "help", "h", false, "Show this help")
	f.BoolVarP(&a.flags.version, "version", "V", false, "Print the version and exit")
	f.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Enable verbose output on stderr")
	f.BoolVarP(&a.flags.list, "list", "l", false, "List the templates available in the search path")
	f.BoolVar(&a.flags.paths, "paths", false, "Print the template search path")
	f.BoolVarP(&a.flags.edit, "edit", "e", false, "Open the generated snippet in your editor")
	f.StringVarP(&a.flags.output, "output", "o", "", "Write the snippet to `file` instead of stdout")
	f.BoolVar(&a.flags.diff, "diff", false, "With --output, show what would change instead of writing")
	f.BoolVar(&a.flags.force, "force", false, "With --output, overwrite an existing file")
	f.BoolVar(&a.flags.highlight, "highlight", false, "Syntax highlight the snippet on a terminal")
	f.BoolVarP(&a.flags.interactive, "interactive", "i", false, "Pick the template from a list")

	return rootCmd
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	inv, err := options.Parse(args, cmd.Flags())
	if err != nil {
		return err
	}

	switch {
	case a.flags.help:
		return a.help(cmd)
	case a.flags.version:
		fmt.Fprintf(a.stdout, "snp %s\n", version)
		return nil
	}

	a.setupLogging()

	cfg, err := config.Load(config.LoadOptions{Logger: a.logger})
	if err != nil {
		return err
	}
	if a.flags.highlight {
		cfg.Highlight = true
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	comp := compiler.New(cfg, engine).WithLogger(a.logger)

	switch {
	case a.flags.paths:
		for _, dir := range cfg.SearchPath {
			fmt.Fprintln(a.stdout, dir)
		}
		return nil

	case a.flags.list:
		entries, err := comp.Resolver().Templates(cfg.TemplateExt, cfg.DataExts)
		if err != nil {
			return fmt.Errorf("listing templates: %w", err)
		}
		fmt.Fprintln(a.stdout, tui.RenderList(entries, cfg.SearchPath))
		return nil
	}

	name, err := a.templateName(cmd, inv, comp.Resolver(), cfg)
	if err != nil {
		return err
	}

	snippet, err := comp.Build(name, inv.Overrides)
	if err != nil {
		var nfErr *tmpl.NotFoundError
		if errors.As(err, &nfErr) {
			return a.withSuggestions(err, nfErr.Name, comp.Resolver(), cfg)
		}
		return err
	}

	return a.deliver(name, snippet, cfg)
}

// newEngine creates the template engine with the host helpers registered.
func newEngine() (*tmpl.Engine, error) {
	return tmpl.NewEngine(tmpl.WithHelpers(platform.Detect().Helpers()))
}

// help prints the usage followed by the helpers templates can call.
func (a *app) help(cmd *cobra.Command) error {
	if err := cmd.Help(); err != nil {
		return err
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, tui.RenderHelpers(engine.Helpers(), helpWidth))

	return nil
}

// setupLogging installs a debug text handler on stderr for --verbose.
func (a *app) setupLogging() {
	if !a.flags.verbose {
		return
	}

	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(a.logger)
}

// templateName returns the template given on the command line, or lets the
// user pick one when running interactively.
func (a *app) templateName(cmd *cobra.Command, inv *options.Invocation, resolver *paths.Resolver, cfg *config.Config) (string, error) {
	if inv.Template != "" && !a.flags.interactive {
		return inv.Template, nil
	}

	if !a.terminal() {
		if a.flags.interactive {
			return "", fmt.Errorf("interactive mode requires a terminal")
		}
		fmt.Fprintln(a.stderr, cmd.UsageString())
		return "", errNoTemplate
	}

	entries, err := resolver.Templates(cfg.TemplateExt, cfg.DataExts)
	if err != nil {
		return "", fmt.Errorf("listing templates: %w", err)
	}

	return tui.Pick(entries)
}

// deliver sends the snippet where the flags ask for it.
func (a *app) deliver(name, snippet string, cfg *config.Config) error {
	switch {
	case a.flags.output != "" && a.flags.diff:
		current, err := os.ReadFile(a.flags.output)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("reading %s: %w", a.flags.output, err)
		}
		fmt.Fprint(a.stdout, output.Diff(a.flags.output, string(current), snippet))
		return nil

	case a.flags.output != "":
		if err := output.WriteFile(a.flags.output, snippet, a.flags.force); err != nil {
			return err
		}
		a.logger.Debug("snippet written", slog.String("path", a.flags.output))
		if a.flags.edit {
			return a.openEditor(cfg, a.flags.output)
		}
		return nil

	case a.flags.edit:
		path, err := editor.WriteTemp(paths.TrimExt(name, cfg.TemplateExt), snippet)
		if err != nil {
			return err
		}
		if err := a.openEditor(cfg, path); err != nil {
			return err
		}
		fmt.Fprintf(a.stderr, "snippet saved to %s\n", path)
		return nil
	}

	if !strings.HasSuffix(snippet, "\n") {
		snippet += "\n"
	}

	if cfg.Highlight && a.stdoutIsTerminal() {
		return output.Highlight(a.stdout, snippet, paths.TrimExt(name, cfg.TemplateExt), cfg.Style)
	}

	_, err := io.WriteString(a.stdout, snippet)
	return err
}

func (a *app) openEditor(cfg *config.Config, path string) error {
	ed, err := editor.New(cfg.Editor)
	if err != nil {
		return err
	}

	ed = ed.WithLogger(a.logger)
	if f, ok := a.stdin.(*os.File); ok {
		ed.Stdin = f
	}
	ed.Stdout = a.stderr
	ed.Stderr = a.stderr

	return runWithCancellation(func(ctx context.Context) error {
		return ed.Open(ctx, path)
	})
}

// runWithCancellation runs a context-aware function with signal-based cancellation.
// It sets up SIGINT/SIGTERM handling and cancels the context when a signal is received.
func runWithCancellation(fn func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return fn(ctx)
}

func (a *app) withSuggestions(err error, name string, resolver *paths.Resolver, cfg *config.Config) error {
	entries, listErr := resolver.Templates(cfg.TemplateExt, cfg.DataExts)
	if listErr != nil {
		a.logger.Debug("unable to list templates for suggestions", slog.String("error", listErr.Error()))
		return err
	}

	suggestions := paths.Suggest(paths.TrimExt(name, cfg.TemplateExt), paths.Names(entries), maxSuggestions)
	if len(suggestions) == 0 {
		return err
	}

	return &suggestionError{err: err, suggestions: suggestions}
}

func (a *app) terminal() bool {
	in, ok := a.stdin.(*os.File)
	return ok && tui.IsTerminal(in) && a.stdoutIsTerminal()
}

func (a *app) stdoutIsTerminal() bool {
	out, ok := a.stdout.(*os.File)
	return ok && tui.IsTerminal(out)
}

// suggestionError decorates an error with template names the user may have meant.
type suggestionError struct {
	err         error
	suggestions []string
}

func (e *suggestionError) Error() string {
	return e.err.Error()
}

func (e *suggestionError) Unwrap() error {
	return e.err
}

func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "snp: %v\n", err)

	var sErr *suggestionError
	if errors.As(err, &sErr) {
		fmt.Fprintln(w, "\nDid you mean one of these?")
		for _, s := range sErr.suggestions {
			fmt.Fprintf(w, "\t%s\n", s)
		}
	}
}
