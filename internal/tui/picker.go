package tui

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/rmascarenhas/snp/internal/paths"
)

// ErrCancelled is returned by Pick when the user leaves without choosing.
var ErrCancelled = errors.New("no template selected")

// defaultVisible is how many rows are shown before the first WindowSizeMsg.
const defaultVisible = 10

// Picker is a Bubble Tea model for choosing a template with a fuzzy filter.
type Picker struct {
	filter   textinput.Model
	entries  []paths.Entry
	matches  []int
	cursor   int
	offset   int
	visible  int
	chosen   string
	quitting bool
}

// NewPicker creates a picker over the non-shadowed entries.
func NewPicker(entries []paths.Entry) Picker {
	ti := textinput.New()
	ti.Prompt = PromptStyle.Render("> ")
	ti.Placeholder = "type to filter"
	ti.Focus()

	p := Picker{filter: ti, visible: defaultVisible}
	for _, e := range entries {
		if !e.Shadowed {
			p.entries = append(p.entries, e)
		}
	}
	p.applyFilter()

	return p
}

// Pick runs the picker on the terminal and returns the chosen template name.
func Pick(entries []paths.Entry) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("%w: the search path holds no templates", ErrCancelled)
	}

	// The UI goes to stderr so stdout only ever carries the snippet.
	p := tea.NewProgram(NewPicker(entries), tea.WithAltScreen(), tea.WithOutput(os.Stderr))

	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("TUI error: %w", err)
	}

	m, ok := final.(Picker)
	if !ok {
		return "", fmt.Errorf("unexpected model type")
	}

	if m.Chosen() == "" {
		return "", ErrCancelled
	}

	return m.Chosen(), nil
}

// Chosen returns the selected template name, empty until one is selected.
func (p Picker) Chosen() string {
	return p.chosen
}

// Matches returns the names currently shown, best match first.
func (p Picker) Matches() []string {
	names := make([]string, 0, len(p.matches))
	for _, i := range p.matches {
		names = append(names, p.entries[i].Name)
	}

	return names
}

// Init is part of the Bubble Tea model interface.
func (p Picker) Init() tea.Cmd {
	return textinput.Blink
}

// Update is part of the Bubble Tea model interface.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Title, filter, blank line and help take five rows.
		p.visible = max(msg.Height-5, 1)
		p.scroll()
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, PickerKeys.ForceQuit):
			p.quitting = true
			return p, tea.Quit

		case key.Matches(msg, PickerKeys.Cancel):
			if p.filter.Value() != "" {
				p.filter.SetValue("")
				p.applyFilter()
				return p, nil
			}
			p.quitting = true
			return p, tea.Quit

		case key.Matches(msg, PickerKeys.Select):
			if len(p.matches) == 0 {
				return p, nil
			}
			p.chosen = p.entries[p.matches[p.cursor]].Name
			p.quitting = true
			return p, tea.Quit

		case key.Matches(msg, PickerKeys.Up):
			if p.cursor > 0 {
				p.cursor--
				p.scroll()
			}
			return p, nil

		case key.Matches(msg, PickerKeys.Down):
			if p.cursor < len(p.matches)-1 {
				p.cursor++
				p.scroll()
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	before := p.filter.Value()
	p.filter, cmd = p.filter.Update(msg)
	if p.filter.Value() != before {
		p.applyFilter()
	}

	return p, cmd
}

// View is part of the Bubble Tea model interface.
func (p Picker) View() string {
	if p.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Pick a template"))
	sb.WriteString("\n")
	sb.WriteString(p.filter.View())
	sb.WriteString("\n")

	if len(p.matches) == 0 {
		sb.WriteString(MutedTextStyle.Render("  no matching templates"))
		sb.WriteString("\n")
	}

	end := min(p.offset+p.visible, len(p.matches))
	for row := p.offset; row < end; row++ {
		e := p.entries[p.matches[row]]

		line := e.Name
		if e.HasData {
			line += DataBadgeStyle.Render(dataBadge)
		}

		if row == p.cursor {
			sb.WriteString(SelectedListItemStyle.Render("› " + line))
		} else {
			sb.WriteString(ListItemStyle.Render("  " + line))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(RenderHelp("↑/↓", "move", "enter", "build", "esc", "clear/quit"))

	return sb.String()
}

// applyFilter recomputes the matches for the current filter and resets the cursor.
func (p *Picker) applyFilter() {
	query := p.filter.Value()
	p.matches = nil
	p.cursor = 0
	p.offset = 0

	if query == "" {
		for i := range p.entries {
			p.matches = append(p.matches, i)
		}
		return
	}

	names := make([]string, len(p.entries))
	for i, e := range p.entries {
		names[i] = e.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)

	for _, r := range ranks {
		p.matches = append(p.matches, r.OriginalIndex)
	}
}

// scroll keeps the cursor inside the visible window.
func (p *Picker) scroll() {
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+p.visible {
		p.offset = p.cursor - p.visible + 1
	}
}
