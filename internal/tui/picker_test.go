package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmascarenhas/snp/internal/paths"
)

func testEntries() []paths.Entry {
	return []paths.Entry{
		{Name: "gem", Path: "/templates/gem.erb", Dir: "/templates", HasData: true},
		{Name: "jquery", Path: "/templates/jquery.erb", Dir: "/templates"},
		{Name: "jquery", Path: "/shared/jquery.erb", Dir: "/shared", Shadowed: true},
		{Name: "jquery-plugin", Path: "/shared/jquery-plugin.erb", Dir: "/shared"},
		{Name: "rails/model", Path: "/shared/rails/model.erb", Dir: "/shared", HasData: true},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, p Picker, msg tea.Msg) (Picker, tea.Cmd) {
	t.Helper()

	m, cmd := p.Update(msg)
	next, ok := m.(Picker)
	require.True(t, ok, "Update returned %T", m)

	return next, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNewPicker_SkipsShadowed(t *testing.T) {
	t.Parallel()

	p := NewPicker(testEntries())
	assert.Equal(t, []string{"gem", "jquery", "jquery-plugin", "rails/model"}, p.Matches())
	assert.Empty(t, p.Chosen())
}

func TestPicker_FilterAndSelect(t *testing.T) {
	t.Parallel()

	p := NewPicker(testEntries())

	p, _ = update(t, p, runes("jq"))
	assert.Equal(t, []string{"jquery", "jquery-plugin"}, p.Matches())

	p, _ = update(t, p, tea.KeyMsg{Type: tea.KeyDown})
	p, cmd := update(t, p, tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, isQuit(cmd))
	assert.Equal(t, "jquery-plugin", p.Chosen())
	assert.Empty(t, p.View(), "view is cleared once the picker quits")
}

func TestPicker_CursorStaysInRange(t *testing.T) {
	t.Parallel()

	p := NewPicker(testEntries())

	p, _ = update(t, p, tea.KeyMsg{Type: tea.KeyUp})
	for range 10 {
		p, _ = update(t, p, tea.KeyMsg{Type: tea.KeyDown})
	}

	p, cmd := update(t, p, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, isQuit(cmd))
	assert.Equal(t, "rails/model", p.Chosen())
}

func TestPicker_NoMatches(t *testing.T) {
	t.Parallel()

	p := NewPicker(testEntries())

	p, _ = update(t, p, runes("zzz"))
	assert.Empty(t, p.Matches())
	assert.Contains(t, StripANSI(p.View()), "no matching templates")

	p, cmd := update(t, p, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, isQuit(cmd))
	assert.Empty(t, p.Chosen())
}

func TestPicker_EscClearsThenQuits(t *testing.T) {
	t.Parallel()

	p := NewPicker(testEntries())

	p, _ = update(t, p, runes("gem"))
	assert.Equal(t, []string{"gem"}, p.Matches())

	p, cmd := update(t, p, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, isQuit(cmd))
	assert.Len(t, p.Matches(), 4)

	p, cmd = update(t, p, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, isQuit(cmd))
	assert.Empty(t, p.Chosen())
}

func TestPicker_CtrlCQuits(t *testing.T) {
	t.Parallel()

	p := NewPicker(testEntries())

	p, cmd := update(t, p, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, isQuit(cmd))
	assert.Empty(t, p.Chosen())
}

func TestPicker_ScrollsWithWindow(t *testing.T) {
	t.Parallel()

	p := NewPicker(testEntries())
	p, _ = update(t, p, tea.WindowSizeMsg{Width: 80, Height: 7})

	for range 3 {
		p, _ = update(t, p, tea.KeyMsg{Type: tea.KeyDown})
	}

	view := StripANSI(p.View())
	assert.Contains(t, view, "rails/model")
	assert.NotContains(t, view, "gem")
}

func TestPicker_ViewShowsEntries(t *testing.T) {
	t.Parallel()

	view := StripANSI(NewPicker(testEntries()).View())

	assert.Contains(t, view, "Pick a template")
	assert.Contains(t, view, "› gem")
	assert.Contains(t, view, "  jquery")
	assert.Contains(t, view, "enter build")
}

func TestPick_NoTemplates(t *testing.T) {
	t.Parallel()

	_, err := Pick(nil)
	assert.ErrorIs(t, err, ErrCancelled)
}
