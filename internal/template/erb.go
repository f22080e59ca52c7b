package template

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenOutput
	tokenCode
)

// token is one piece of scanned template source: literal text, an output
// tag (<%= %>) or a code tag (<% %>). Comments are dropped while scanning.
type token struct {
	kind tokenKind
	text string
	line int
}

// scan splits ERB source into tokens.
//
//	<%= expr %>  output
//	<% stmt %>   control statement
//	<%# ... %>   comment
//	<%%          literal "<%"
//	<%- ... %>   also removes indentation before the tag
//	... -%>      also removes the newline right after the tag
func scan(name, src string) ([]token, error) {
	var (
		tokens []token
		text   strings.Builder
	)

	flush := func() {
		if text.Len() > 0 {
			tokens = append(tokens, token{kind: tokenText, text: text.String()})
			text.Reset()
		}
	}

	i := 0
	for i < len(src) {
		j := strings.Index(src[i:], "<%")
		if j < 0 {
			text.WriteString(src[i:])
			break
		}

		text.WriteString(src[i : i+j])
		pos := i + j

		if strings.HasPrefix(src[pos:], "<%%") {
			text.WriteString("<%")
			i = pos + 3
			continue
		}

		line := strings.Count(src[:pos], "\n") + 1
		start := pos + 2
		kind := tokenCode
		comment := false

		if start < len(src) {
			switch src[start] {
			case '=':
				kind = tokenOutput
				start++
			case '#':
				comment = true
				start++
			case '-':
				trimIndent(&text)
				start++
			}
		}

		end := strings.Index(src[start:], "%>")
		if end < 0 {
			return nil, &SyntaxError{Name: name, Line: line, Err: errors.New("unterminated tag, missing %>")}
		}

		body := src[start : start+end]
		next := start + end + 2

		if strings.HasSuffix(body, "-") {
			body = body[:len(body)-1]
			switch {
			case strings.HasPrefix(src[next:], "\r\n"):
				next += 2
			case strings.HasPrefix(src[next:], "\n"):
				next++
			}
		}

		if !comment {
			flush()
			tokens = append(tokens, token{kind: kind, text: body, line: line})
		}

		i = next
	}

	flush()

	return tokens, nil
}

// trimIndent drops trailing blanks from text when they are all that follows
// the last newline.
func trimIndent(text *strings.Builder) {
	s := text.String()
	lineStart := strings.LastIndex(s, "\n") + 1
	if strings.TrimLeft(s[lineStart:], " \t") != "" {
		return
	}

	text.Reset()
	text.WriteString(s[:lineStart])
}

type blockKind int

const (
	blockIf blockKind = iota
	blockUnless
)

func (k blockKind) String() string {
	if k == blockUnless {
		return "unless"
	}
	return "if"
}

type block struct {
	kind    blockKind
	line    int
	sawElse bool
}

var conditionalRe = regexp.MustCompile(`^(if|elsif|unless)(?:\s+|\()`)

// translator turns scanned tokens into text/template source.
type translator struct {
	name     string
	isHelper func(string) bool
	out      strings.Builder
	blocks   []block
}

func translate(name string, tokens []token, isHelper func(string) bool) (string, error) {
	t := &translator{name: name, isHelper: isHelper}

	for _, tok := range tokens {
		var err error
		switch tok.kind {
		case tokenText:
			t.out.WriteString("{{" + strconv.Quote(tok.text) + "}}")
		case tokenOutput:
			err = t.output(tok)
		case tokenCode:
			err = t.statement(tok)
		}
		if err != nil {
			return "", err
		}
	}

	if n := len(t.blocks); n > 0 {
		open := t.blocks[n-1]
		return "", t.errorf(open.line, "%s without matching end", open.kind)
	}

	return t.out.String(), nil
}

func (t *translator) output(tok token) error {
	expr, err := t.expression(tok.text, tok.line)
	if err != nil {
		return err
	}

	t.out.WriteString("{{display " + expr + "}}")

	return nil
}

func (t *translator) statement(tok token) error {
	stmt := strings.TrimSpace(tok.text)

	switch {
	case stmt == "":
		return nil

	case stmt == "else":
		top, err := t.top(tok.line, "else")
		if err != nil {
			return err
		}
		if top.sawElse {
			return t.errorf(tok.line, "duplicate else")
		}
		top.sawElse = true
		t.out.WriteString("{{else}}")

	case stmt == "end":
		if _, err := t.top(tok.line, "end"); err != nil {
			return err
		}
		t.blocks = t.blocks[:len(t.blocks)-1]
		t.out.WriteString("{{end}}")

	case conditionalRe.MatchString(stmt):
		keyword := conditionalRe.FindStringSubmatch(stmt)[1]
		cond := strings.TrimSpace(stmt[len(keyword):])
		cond = strings.TrimSpace(strings.TrimSuffix(cond, " then"))

		expr, err := t.expression(cond, tok.line)
		if err != nil {
			return err
		}

		switch keyword {
		case "if":
			t.blocks = append(t.blocks, block{kind: blockIf, line: tok.line})
			t.out.WriteString("{{if truthy " + expr + "}}")
		case "unless":
			t.blocks = append(t.blocks, block{kind: blockUnless, line: tok.line})
			t.out.WriteString("{{if not (truthy " + expr + ")}}")
		case "elsif":
			top, err := t.top(tok.line, "elsif")
			if err != nil {
				return err
			}
			if top.kind != blockIf {
				return t.errorf(tok.line, "elsif inside %s", top.kind)
			}
			if top.sawElse {
				return t.errorf(tok.line, "elsif after else")
			}
			t.out.WriteString("{{else if truthy " + expr + "}}")
		}

	default:
		return t.errorf(tok.line, "unsupported statement %q", stmt)
	}

	return nil
}

func (t *translator) top(line int, keyword string) (*block, error) {
	if len(t.blocks) == 0 {
		return nil, t.errorf(line, "%s without if", keyword)
	}

	return &t.blocks[len(t.blocks)-1], nil
}

func (t *translator) expression(src string, line int) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", t.errorf(line, "missing expression")
	}

	expr, err := parseExpr(src, t.isHelper)
	if err != nil {
		return "", &SyntaxError{Name: t.name, Line: line, Err: err}
	}

	return expr, nil
}

func (t *translator) errorf(line int, format string, args ...any) error {
	return &SyntaxError{Name: t.name, Line: line, Err: fmt.Errorf(format, args...)}
}
