package template

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greetingTemplate = "<% if say_hello? %>Hello, <%= name %><% else %>Farewell, <%= name %><% end %>"

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()

	e, err := NewEngine(opts...)
	require.NoError(t, err)

	return e
}

func TestEngine_Greeting(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	out, err := e.RenderString("greeting", greetingTemplate, NewContext(map[string]any{"say_hello": true, "name": "John"}))
	require.NoError(t, err)
	assert.Equal(t, "Hello, John", out)

	out, err = e.RenderString("greeting", greetingTemplate, NewContext(map[string]any{"say_hello": false, "name": "John"}))
	require.NoError(t, err)
	assert.Equal(t, "Farewell, John", out)
}

func TestEngine_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		src    string
		values map[string]any
		want   string
	}{
		{"plain text", "no markup here\n", nil, "no markup here\n"},
		{"output", "gem <%= name %>", map[string]any{"name": "snp"}, "gem snp"},
		{"integer output", "<%= count %> items", map[string]any{"count": 3}, "3 items"},
		{"string literal", `<%= "hi" %> <%= 'there' %>`, nil, "hi there"},
		{"nil output", "[<%= nothing %>]", map[string]any{"nothing": nil}, "[]"},
		{"integral float output", "<%= version %>", map[string]any{"version": 2.0}, "2.0"},
		{"float output", "<%= version %>", map[string]any{"version": 1.25}, "1.25"},
		{"date output", "<%= day %>", map[string]any{"day": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}, "2024-01-01"},
		{"timestamp output", "<%= at %>", map[string]any{"at": time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)}, "2024-01-01 10:30:00 +0000"},
		{"non-ascii property", "<%= café %>", map[string]any{"café": "au lait"}, "au lait"},
		{"non-ascii predicate", "<% if ñandú? %>yes<% end %>", map[string]any{"ñandú": true}, "yes"},
		{"unless", "<% unless sad? %>happy<% end %>", map[string]any{"sad": false}, "happy"},
		{"unless else", "<% unless sad? %>happy<% else %>sad<% end %>", map[string]any{"sad": true}, "sad"},
		{"elsif", "<% if a %>A<% elsif b %>B<% else %>C<% end %>", map[string]any{"a": false, "b": true}, "B"},
		{"else after elsif", "<% if a %>A<% elsif b %>B<% else %>C<% end %>", map[string]any{"a": false, "b": false}, "C"},
		{"nested", "<% if a %>[<% if b %>b<% end %>]<% end %>", map[string]any{"a": true, "b": true}, "[b]"},
		{"comment", "x<%# a note %>y", nil, "xy"},
		{"literal tag", "<%% raw %>", nil, "<% raw %>"},
		{"trim newline", "<% if a -%>\nline\n<% end -%>\ntail", map[string]any{"a": true}, "line\ntail"},
		{"trim indent", "start\n  <%- if a -%>\n  yes\n  <%- end -%>\nend", map[string]any{"a": true}, "start\n  yes\nend"},
		{"helper", "<%= toUpper(name) %>", map[string]any{"name": "snp"}, "SNP"},
		{"nested helpers", "<%= toUpper(trim(name)) %>", map[string]any{"name": "  snp  "}, "SNP"},
		{"equal string", "<% if lang == 'ruby' %>rb<% end %>", map[string]any{"lang": "ruby"}, "rb"},
		{"equal number", "<% if count == 3 %>three<% end %>", map[string]any{"count": 3.0}, "three"},
		{"not equal", "<% if lang != \"go\" %>not go<% end %>", map[string]any{"lang": "ruby"}, "not go"},
		{"equal nil", "<% if license == nil %>none<% end %>", map[string]any{"license": nil}, "none"},
		{"bang", "<% if !sad %>ok<% end %>", map[string]any{"sad": false}, "ok"},
		{"not keyword", "<% if not sad %>ok<% end %>", map[string]any{"sad": false}, "ok"},
		{"or", "<% if a || b %>yes<% end %>", map[string]any{"a": false, "b": true}, "yes"},
		{"and keyword", "<% if a and b %>yes<% else %>no<% end %>", map[string]any{"a": true, "b": false}, "no"},
		{"parentheses", "<% if (a || b) && c %>yes<% end %>", map[string]any{"a": false, "b": true, "c": true}, "yes"},
		{"zero is truthy", "<% if count %>set<% end %>", map[string]any{"count": 0}, "set"},
		{"empty string is truthy", "<% if title %>set<% end %>", map[string]any{"title": ""}, "set"},
		{"nil is falsy", "<% if title %>set<% else %>unset<% end %>", map[string]any{"title": nil}, "unset"},
		{"if with parenthesis", "<% if(ready) %>go<% end %>", map[string]any{"ready": true}, "go"},
		{"if then", "<% if ready then %>go<% end %>", map[string]any{"ready": true}, "go"},
		{"short circuit and", "<% if ready? && missing %>x<% else %>y<% end %>", map[string]any{"ready": false}, "y"},
		{"short circuit or", "<% if ready? || missing %>x<% end %>", map[string]any{"ready": true}, "x"},
	}

	e := newTestEngine(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := e.RenderString(tt.name, tt.src, NewContext(tt.values))
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEngine_InsufficientContext(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	out, err := e.RenderString("hello", "Hello <%= name %>, you are <%= age %>", NewContext(map[string]any{}))
	require.Error(t, err)
	assert.Empty(t, out)
	assert.True(t, errors.Is(err, ErrInsufficientContext))

	var icErr *InsufficientContextError
	require.True(t, errors.As(err, &icErr))
	assert.Equal(t, "name", icErr.Property, "first missing property is reported")
}

func TestEngine_MissingPredicateForNonBoolean(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	_, err := e.RenderString("p", "<% if name? %>x<% end %>", NewContext(map[string]any{"name": "snp"}))

	var icErr *InsufficientContextError
	require.True(t, errors.As(err, &icErr))
	assert.Equal(t, "name?", icErr.Property)
}

func TestEngine_SyntaxErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"unclosed if", "<% if a %>no end", "if without matching end"},
		{"unclosed unless", "<% unless a %>no end", "unless without matching end"},
		{"stray end", "<% end %>", "end without if"},
		{"stray else", "<% else %>", "else without if"},
		{"stray elsif", "<% elsif a %>", "elsif without if"},
		{"duplicate else", "<% if a %><% else %><% else %><% end %>", "duplicate else"},
		{"elsif in unless", "<% unless a %><% elsif b %><% end %>", "elsif inside unless"},
		{"elsif after else", "<% if a %><% else %><% elsif b %><% end %>", "elsif after else"},
		{"unterminated tag", "<%= name", "unterminated tag"},
		{"unsupported statement", "<% while x %>", "unsupported statement"},
		{"missing expression", "<%= %>", "missing expression"},
		{"unknown helper", "<%= shout(name) %>", `unknown helper "shout"`},
		{"reserved helper", "<%= get(name) %>", `unknown helper "get"`},
		{"dangling operator", "<%= a == %>", "unexpected end of expression"},
		{"missing parenthesis", "<%= (a %>", "missing closing parenthesis"},
		{"unterminated string", "<%= 'abc %>", "unterminated string literal"},
		{"unexpected character", "<%= a $ b %>", "unexpected character"},
		{"unexpected multibyte character", "<%= price € %>", `unexpected character '€'`},
		{"two operands", "<%= a b %>", `unexpected "b"`},
	}

	e := newTestEngine(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := e.Compile("broken.erb", tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax), "expected syntax error, got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.True(t, strings.HasPrefix(err.Error(), "broken.erb:"), err.Error())
		})
	}
}

func TestEngine_SyntaxErrorLine(t *testing.T) {
	t.Parallel()

	_, err := newTestEngine(t).Compile("lines.erb", "line one\nline two\n<% end %>\n")

	var synErr *SyntaxError
	require.True(t, errors.As(err, &synErr))
	assert.Equal(t, 3, synErr.Line)
	assert.Equal(t, "lines.erb", synErr.Name)
}

func TestEngine_WithHelpers(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, WithHelpers(map[string]any{
		"os":  func() string { return "plan9" },
		"get": func() string { return "ignored" },
	}))

	assert.Contains(t, e.Helpers(), "os")
	assert.Contains(t, e.Helpers(), "toUpper")
	assert.NotContains(t, e.Helpers(), "get")

	out, err := e.RenderString("h", "<% if os() == 'plan9' %>bell labs<% end %>", NewContext(nil))
	require.NoError(t, err)
	assert.Equal(t, "bell labs", out)
}

func TestTemplate_ExecuteIsRepeatable(t *testing.T) {
	t.Parallel()

	tmpl, err := newTestEngine(t).Compile("greeting", greetingTemplate)
	require.NoError(t, err)

	john := NewContext(map[string]any{"say_hello": true, "name": "John"})
	arthur := NewContext(map[string]any{"say_hello": false, "name": "Arthur"})

	for range 2 {
		out, err := tmpl.Execute(john)
		require.NoError(t, err)
		assert.Equal(t, "Hello, John", out)

		out, err = tmpl.Execute(arthur)
		require.NoError(t, err)
		assert.Equal(t, "Farewell, Arthur", out)
	}

	_, err = tmpl.Execute(NewContext(nil))
	assert.True(t, errors.Is(err, ErrInsufficientContext))

	out, err := tmpl.Execute(john)
	require.NoError(t, err, "a failed render must not leak into the next one")
	assert.Equal(t, "Hello, John", out)
}

func TestEngine_GoldenSnippets(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"gemspec_executable", map[string]any{
			"name":       "snp",
			"version":    "0.1.0",
			"summary":    "Snippet generator",
			"executable": true,
			"license":    "mit",
		}},
		{"gemspec_library", map[string]any{
			"name":       "snp",
			"version":    "0.1.0",
			"summary":    "Snippet generator",
			"executable": false,
			"license":    nil,
		}},
	}

	src, err := os.ReadFile(filepath.Join("testdata", "templates", "gemspec.erb"))
	require.NoError(t, err)

	tmpl, err := newTestEngine(t).Compile("gemspec.erb", string(src))
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tmpl.Execute(NewContext(tt.values))
			require.NoError(t, err)

			g := goldie.New(t)
			g.Assert(t, tt.name, []byte(out))
		})
	}
}
