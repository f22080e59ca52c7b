// Package output delivers a rendered snippet: to a file, as a diff against an
// existing file, or syntax highlighted for the terminal.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrExists is returned by WriteFile when the target exists and force is off.
var ErrExists = errors.New("file already exists")

// WriteFile writes content to path, creating missing parent directories.
// An existing file is only replaced when force is set.
func WriteFile(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrExists, path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("checking %s: %w", path, err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // snippets are regular source files
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
