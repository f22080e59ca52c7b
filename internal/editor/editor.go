// Package editor opens rendered snippets in the user's editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNoEditor is returned when no editor is configured or found on PATH.
var ErrNoEditor = errors.New("no editor found, set SNP_EDITOR, VISUAL or EDITOR")

// fallbacks are tried on PATH, in order, when nothing is configured.
var fallbacks = []string{"vim", "vi", "nano"}

// Editor runs an editor command on files. Command may carry arguments,
// e.g. "code --wait".
type Editor struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Command string
	logger  *slog.Logger
}

// New returns an Editor for configured, or for the first of VISUAL, EDITOR
// and the vim, vi, nano fallbacks that is set.
func New(configured string) (*Editor, error) {
	command := Detect(configured)
	if command == "" {
		return nil, ErrNoEditor
	}

	return &Editor{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Command: command,
		logger:  slog.Default(),
	}, nil
}

// WithLogger returns a copy of the Editor that logs to l.
func (e *Editor) WithLogger(l *slog.Logger) *Editor {
	c := *e
	c.logger = l

	return &c
}

// Detect returns the editor command to use, or "" when none is available.
func Detect(configured string) string {
	if configured = strings.TrimSpace(configured); configured != "" {
		return configured
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	// Fallback chain
	for _, e := range fallbacks {
		if _, err := exec.LookPath(e); err == nil {
			return e
		}
	}

	return ""
}

// Cmd builds the command that opens file.
func (e *Editor) Cmd(ctx context.Context, file string) (*exec.Cmd, error) {
	fields := strings.Fields(e.Command)
	if len(fields) == 0 {
		return nil, ErrNoEditor
	}

	args := append(fields[1:], file)
	cmd := exec.CommandContext(ctx, fields[0], args...) //nolint:gosec // intentional editor launch
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	return cmd, nil
}

// Open runs the editor on file and waits for it to exit.
func (e *Editor) Open(ctx context.Context, file string) error {
	cmd, err := e.Cmd(ctx, file)
	if err != nil {
		return err
	}

	e.logger.Debug("launching editor", slog.String("editor", e.Command), slog.String("file", file))

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running editor %s: %w", e.Command, err)
	}

	return nil
}

// WriteTemp writes content to a new temporary file whose name ends with the
// base name of templateName, so editors can pick a file type from it.
// The caller is responsible for removing the file.
func WriteTemp(templateName, content string) (string, error) {
	base := filepath.Base(filepath.FromSlash(templateName))

	f, err := os.CreateTemp("", "snp-*-"+base)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("writing snippet to temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	return f.Name(), nil
}
