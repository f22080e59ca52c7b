package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rmascarenhas/snp/internal/paths"
)

const dataBadge = "data"

// RenderList renders the output of --list: one line per template, with a
// badge when default data exists and shadowed templates marked as such.
func RenderList(entries []paths.Entry, searchPath []string) string {
	if len(entries) == 0 {
		return MutedTextStyle.Render("No templates found in " + strings.Join(searchPath, string(pathListSeparator)))
	}

	width := 0
	for _, e := range entries {
		width = max(width, lipgloss.Width(e.Name))
	}

	badge := DataBadgeStyle.Render(dataBadge)
	noBadge := strings.Repeat(" ", lipgloss.Width(badge))

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Templates"))

	for _, e := range entries {
		name := fmt.Sprintf("%-*s", width, e.Name)

		sb.WriteString("\n")
		if e.Shadowed {
			sb.WriteString(ShadowedItemStyle.Render(name))
		} else {
			sb.WriteString(ListItemStyle.Render(name))
		}

		if e.HasData {
			sb.WriteString(badge)
		} else {
			sb.WriteString(noBadge)
		}

		sb.WriteString("  ")
		sb.WriteString(MutedTextStyle.Render(e.Path))

		if e.Shadowed {
			sb.WriteString(SubtitleStyle.Render(" (shadowed)"))
		}
	}

	return sb.String()
}

// RenderHelpers renders the names of the helpers templates can call as a
// comma-separated block wrapped to width.
func RenderHelpers(names []string, width int) string {
	return TitleStyle.Render("Template helpers") + "\n" +
		ListItemStyle.Width(width).Render(strings.Join(names, ", "))
}
