package output

import (
	"io"
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "monokai"

// Language guesses the chroma language for a snippet from the file name it
// will be saved under, or from its template name. A name carrying a source
// extension ("ruby/version.rb") resolves by file name; otherwise the outermost
// directory named after a language ("ruby/class") does. An empty result lets chroma
// analyse the content instead.
func Language(name string) string {
	if name == "" {
		return ""
	}

	if lexer := lexers.Match(path.Base(name)); lexer != nil {
		return lexer.Config().Name
	}

	for _, dir := range strings.Split(path.Dir(name), "/") {
		if dir == "." || dir == "" {
			continue
		}
		if lexer := lexers.Get(dir); lexer != nil {
			return lexer.Config().Name
		}
	}

	return ""
}

// Highlight writes code to w with terminal colors. Unknown styles fall back
// to chroma's default style.
func Highlight(w io.Writer, code, name, style string) error {
	if style == "" {
		style = DefaultStyle
	}

	return quick.Highlight(w, code, Language(name), "terminal256", style)
}
