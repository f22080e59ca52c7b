package output

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// NoDifferences is what Diff returns when both texts are equal.
const NoDifferences = "No differences found.\n"

// Diff renders a line-oriented diff from the current content of path to the
// freshly rendered snippet. Removed lines start with "- ", added lines with
// "+ " and unchanged lines with two spaces.
func Diff(path, current, rendered string) string {
	dmp := diffmatchpatch.New()

	a, b, lineArray := dmp.DiffLinesToChars(current, rendered)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	if len(dmp.PatchMake(current, diffs)) == 0 {
		return NoDifferences
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("--- %s\n", path))
	sb.WriteString("+++ rendered snippet\n")
	sb.WriteString("\n")

	for _, diff := range diffs {
		lines := strings.Split(diff.Text, "\n")
		// Remove trailing empty string from split
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		for _, line := range lines {
			switch diff.Type {
			case diffmatchpatch.DiffDelete:
				sb.WriteString("- " + line + "\n")
			case diffmatchpatch.DiffInsert:
				sb.WriteString("+ " + line + "\n")
			case diffmatchpatch.DiffEqual:
				sb.WriteString("  " + line + "\n")
			}
		}
	}

	return sb.String()
}
