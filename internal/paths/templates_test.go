package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_ListsInNameOrder(t *testing.T) {
	t.Parallel()

	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, first, "jquery.erb", "")
	writeFile(t, first, "jquery.yml", "version: 1.9\n")
	writeFile(t, first, "notes.txt", "")
	writeFile(t, second, "gem.erb", "")
	writeFile(t, second, "jquery.erb", "")
	writeFile(t, second, "html/page.erb", "")

	r := New([]string{first, second, filepath.Join(first, "does-not-exist")})
	entries, err := r.Templates("erb", []string{"yml", "toml"})
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, "gem", entries[0].Name)
	assert.False(t, entries[0].HasData)

	assert.Equal(t, "html/page", entries[1].Name)
	assert.Equal(t, second, entries[1].Dir)

	assert.Equal(t, "jquery", entries[2].Name)
	assert.Equal(t, filepath.Join(first, "jquery.erb"), entries[2].Path)
	assert.True(t, entries[2].HasData)
	assert.False(t, entries[2].Shadowed)

	assert.Equal(t, "jquery", entries[3].Name)
	assert.Equal(t, filepath.Join(second, "jquery.erb"), entries[3].Path)
	assert.True(t, entries[3].Shadowed)

	assert.Equal(t, []string{"gem", "html/page", "jquery"}, Names(entries))
}

func TestTemplates_EmptySearchPath(t *testing.T) {
	t.Parallel()

	entries, err := New([]string{filepath.Join(t.TempDir(), "nope")}).Templates("erb", nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	candidates := []string{"jquery", "gem", "rails-model", "readme"}

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"subsequence", "jqry", []string{"jquery"}},
		{"transposed letters", "jqeury", []string{"jquery"}},
		{"case insensitive", "GEM", []string{"gem"}},
		{"nothing close", "zzzzzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Suggest(tt.input, candidates, 3))
		})
	}
}

func TestSuggest_Limit(t *testing.T) {
	t.Parallel()

	got := Suggest("a", []string{"a1", "a2", "a3", "a4"}, 2)
	assert.Len(t, got, 2)
}
