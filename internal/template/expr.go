package template

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type exprTokenKind int

const (
	exprEOF exprTokenKind = iota
	exprIdent
	exprString
	exprNumber
	exprOp
)

type exprToken struct {
	kind exprTokenKind
	text string
	pos  int
}

// lexExpr splits an expression into identifiers, literals and operators.
func lexExpr(src string) ([]exprToken, error) {
	var tokens []exprToken

	i := 0
	for i < len(src) {
		c, size := utf8.DecodeRuneInString(src[i:])

		switch {
		case unicode.IsSpace(c):
			i += size

		case isIdentStart(c):
			start := i
			for i < len(src) {
				r, n := utf8.DecodeRuneInString(src[i:])
				if !isIdentStart(r) && !unicode.IsDigit(r) {
					break
				}
				i += n
			}
			if i < len(src) && src[i] == '?' {
				i++
			}
			tokens = append(tokens, exprToken{kind: exprIdent, text: src[start:i], pos: start})

		case isDigit(c) || (c == '-' && i+1 < len(src) && isDigit(rune(src[i+1]))):
			start := i
			i++
			for i < len(src) && (isDigit(rune(src[i])) || src[i] == '.' || src[i] == '_') {
				i++
			}
			num := strings.ReplaceAll(src[start:i], "_", "")
			if _, err := strconv.ParseFloat(num, 64); err != nil {
				return nil, fmt.Errorf("invalid number %q", src[start:i])
			}
			tokens = append(tokens, exprToken{kind: exprNumber, text: num, pos: start})

		case c == '"' || c == '\'':
			s, n, err := lexString(src[i:])
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, exprToken{kind: exprString, text: s, pos: i})
			i += n

		default:
			op := ""
			for _, candidate := range []string{"&&", "||", "==", "!=", "!", "(", ")", ","} {
				if strings.HasPrefix(src[i:], candidate) {
					op = candidate
					break
				}
			}
			if op == "" {
				return nil, fmt.Errorf("unexpected character %q", c)
			}
			tokens = append(tokens, exprToken{kind: exprOp, text: op, pos: i})
			i += len(op)
		}
	}

	return append(tokens, exprToken{kind: exprEOF, pos: len(src)}), nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// isDigit only accepts ASCII digits, the only ones number literals use.
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// lexString reads a quoted literal at the start of src and returns its value
// and the number of bytes consumed. Double quotes understand \n, \t, \" and \\;
// single quotes only \' and \\.
func lexString(src string) (string, int, error) {
	quote := src[0]

	var b strings.Builder
	for i := 1; i < len(src); i++ {
		c := src[i]
		switch {
		case c == quote:
			return b.String(), i + 1, nil
		case c == '\\' && i+1 < len(src):
			i++
			switch next := src[i]; {
			case next == quote || next == '\\':
				b.WriteByte(next)
			case quote == '"' && next == 'n':
				b.WriteByte('\n')
			case quote == '"' && next == 't':
				b.WriteByte('\t')
			default:
				b.WriteByte('\\')
				b.WriteByte(next)
			}
		default:
			b.WriteByte(c)
		}
	}

	return "", 0, fmt.Errorf("unterminated string literal")
}

// exprParser is a recursive descent parser producing a text/template
// pipeline for each expression.
//
//	or      := and (("||" | "or") and)*
//	and     := compare (("&&" | "and") compare)*
//	compare := unary (("==" | "!=") unary)?
//	unary   := ("!" | "not") unary | primary
//	primary := literal | name | helper "(" args ")" | "(" or ")"
type exprParser struct {
	tokens   []exprToken
	pos      int
	isHelper func(string) bool
}

func parseExpr(src string, isHelper func(string) bool) (string, error) {
	tokens, err := lexExpr(src)
	if err != nil {
		return "", err
	}

	p := &exprParser{tokens: tokens, isHelper: isHelper}

	out, err := p.or()
	if err != nil {
		return "", err
	}

	if tok := p.peek(); tok.kind != exprEOF {
		return "", fmt.Errorf("unexpected %q", tok.text)
	}

	return out, nil
}

func (p *exprParser) peek() exprToken {
	return p.tokens[p.pos]
}

func (p *exprParser) next() exprToken {
	tok := p.tokens[p.pos]
	if tok.kind != exprEOF {
		p.pos++
	}

	return tok
}

func (p *exprParser) accept(words ...string) bool {
	tok := p.peek()
	if tok.kind != exprOp && tok.kind != exprIdent {
		return false
	}

	for _, w := range words {
		if tok.text == w {
			p.pos++
			return true
		}
	}

	return false
}

func (p *exprParser) or() (string, error) {
	left, err := p.and()
	if err != nil {
		return "", err
	}

	for p.accept("||", "or") {
		right, err := p.and()
		if err != nil {
			return "", err
		}
		left = "(or (truthy " + left + ") (truthy " + right + "))"
	}

	return left, nil
}

func (p *exprParser) and() (string, error) {
	left, err := p.compare()
	if err != nil {
		return "", err
	}

	for p.accept("&&", "and") {
		right, err := p.compare()
		if err != nil {
			return "", err
		}
		left = "(and (truthy " + left + ") (truthy " + right + "))"
	}

	return left, nil
}

func (p *exprParser) compare() (string, error) {
	left, err := p.unary()
	if err != nil {
		return "", err
	}

	switch {
	case p.accept("=="):
		right, err := p.unary()
		if err != nil {
			return "", err
		}
		return "(equal " + left + " " + right + ")", nil
	case p.accept("!="):
		right, err := p.unary()
		if err != nil {
			return "", err
		}
		return "(not (equal " + left + " " + right + "))", nil
	}

	return left, nil
}

func (p *exprParser) unary() (string, error) {
	if p.accept("!", "not") {
		operand, err := p.unary()
		if err != nil {
			return "", err
		}
		return "(not (truthy " + operand + "))", nil
	}

	return p.primary()
}

func (p *exprParser) primary() (string, error) {
	tok := p.next()

	switch tok.kind {
	case exprString:
		return strconv.Quote(tok.text), nil

	case exprNumber:
		return tok.text, nil

	case exprOp:
		if tok.text != "(" {
			return "", fmt.Errorf("unexpected %q", tok.text)
		}
		inner, err := p.or()
		if err != nil {
			return "", err
		}
		if !p.accept(")") {
			return "", fmt.Errorf("missing closing parenthesis")
		}
		return inner, nil

	case exprIdent:
		switch tok.text {
		case "true", "false":
			return tok.text, nil
		case "nil":
			return "(null)", nil
		case "and", "or", "not":
			return "", fmt.Errorf("unexpected %q", tok.text)
		}

		if next := p.peek(); next.kind == exprOp && next.text == "(" && next.pos == tok.pos+len(tok.text) {
			return p.call(tok)
		}

		return "(get " + strconv.Quote(tok.text) + ")", nil

	default:
		return "", fmt.Errorf("unexpected end of expression")
	}
}

func (p *exprParser) call(name exprToken) (string, error) {
	if strings.HasSuffix(name.text, PredicateSuffix) || p.isHelper == nil || !p.isHelper(name.text) {
		return "", fmt.Errorf("unknown helper %q", name.text)
	}

	p.next() // (

	args := []string{name.text}
	if !p.accept(")") {
		for {
			arg, err := p.or()
			if err != nil {
				return "", err
			}
			args = append(args, arg)

			if p.accept(")") {
				break
			}
			if !p.accept(",") {
				return "", fmt.Errorf("expected , or ) in call to %s", name.text)
			}
		}
	}

	return "(" + strings.Join(args, " ") + ")", nil
}
