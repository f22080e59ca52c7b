package tui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// pathListSeparator joins search directories in messages, matching SNP_PATH.
const pathListSeparator = ':'

// IsTerminal checks if f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
