package script

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokScalar
	tokQuoted
	tokOpen
	tokClose
	tokOp
)

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

// lexer splits input into tokens. Comments run from '#' to end of line.
type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func (l *lexer) advance() {
	if l.src[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *lexer) peekByte(off int) byte {
	if l.pos+off < len(l.src) {
		return l.src[l.pos+off]
	}
	return 0
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '#' {
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance()
			}
			continue
		}
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == ';' {
			l.advance()
			continue
		}
		break
	}

	tok := token{line: l.line, col: l.col}
	if l.pos >= len(l.src) {
		tok.kind = tokEOF
		return tok, nil
	}

	switch c := l.src[l.pos]; {
	case c == '{':
		l.advance()
		tok.kind, tok.text = tokOpen, "{"
	case c == '}':
		l.advance()
		tok.kind, tok.text = tokClose, "}"
	case c == '=' || c == '<' || c == '>' || (c == '!' || c == '?') && l.peekByte(1) == '=':
		start := l.pos
		l.advance()
		if l.pos < len(l.src) && l.src[l.pos] == '=' {
			l.advance()
		}
		tok.kind, tok.text = tokOp, l.src[start:l.pos]
	case c == '"':
		text, err := l.quoted()
		if err != nil {
			return token{}, err
		}
		tok.kind, tok.text = tokQuoted, text
	case c == '@' && l.peekByte(1) == '[':
		text, err := l.inlineMath()
		if err != nil {
			return token{}, err
		}
		tok.kind, tok.text = tokScalar, text
	default:
		start := l.pos
		for l.pos < len(l.src) && !l.endsScalar() {
			l.advance()
		}
		tok.kind, tok.text = tokScalar, l.src[start:l.pos]
	}
	return tok, nil
}

func (l *lexer) endsScalar() bool {
	switch c := l.src[l.pos]; c {
	case ' ', '\t', '\r', '\n', ';', '{', '}', '=', '<', '>', '#', '"':
		return true
	case '!', '?':
		return l.peekByte(1) == '='
	}
	return false
}

// inlineMath reads an @[ ... ] expression verbatim as one scalar.
func (l *lexer) inlineMath() (string, error) {
	line, col := l.line, l.col
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		l.advance()
		if c == ']' {
			return l.src[start:l.pos], nil
		}
	}
	return "", &SyntaxError{Line: line, Col: col, Msg: "unterminated inline math", Err: ErrUnexpectedEOF}
}

func (l *lexer) quoted() (string, error) {
	line, col := l.line, l.col
	l.advance() // opening quote

	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '"':
			l.advance()
			return sb.String(), nil
		case c == '\\' && (l.peekByte(1) == '"' || l.peekByte(1) == '\\'):
			sb.WriteByte(l.peekByte(1))
			l.advance()
			l.advance()
		default:
			sb.WriteByte(c)
			l.advance()
		}
	}
	return "", &SyntaxError{Line: line, Col: col, Msg: "unterminated string", Err: ErrUnexpectedEOF}
}

type parser struct {
	lex    *lexer
	peeked *token
}

func (p *parser) next() (token, error) {
	if p.peeked != nil {
		tok := *p.peeked
		p.peeked = nil
		return tok, nil
	}
	return p.lex.next()
}

func (p *parser) peek() (token, error) {
	if p.peeked == nil {
		tok, err := p.lex.next()
		if err != nil {
			return token{}, err
		}
		p.peeked = &tok
	}
	return *p.peeked, nil
}

// Parse decodes src into its top-level block.
func Parse(src []byte) (*Block, error) {
	p := &parser{lex: &lexer{src: string(src), line: 1, col: 1}}
	return p.block(true)
}

func (p *parser) block(top bool) (*Block, error) {
	b := &Block{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		switch tok.kind {
		case tokEOF:
			if top {
				return b, nil
			}
			return nil, &SyntaxError{Line: tok.line, Col: tok.col, Msg: "unclosed block", Err: ErrUnexpectedEOF}

		case tokClose:
			if top {
				return nil, &SyntaxError{Line: tok.line, Col: tok.col, Msg: "unexpected '}'"}
			}
			return b, nil

		case tokOpen:
			nested, err := p.block(false)
			if err != nil {
				return nil, err
			}
			b.fields = append(b.fields, Field{Value: nested})

		case tokOp:
			return nil, &SyntaxError{Line: tok.line, Col: tok.col, Msg: fmt.Sprintf("operator %q without key", tok.text)}

		case tokScalar, tokQuoted:
			next, err := p.peek()
			if err != nil {
				return nil, err
			}
			if next.kind != tokOp {
				b.fields = append(b.fields, Field{Value: Scalar{Text: tok.text, Quoted: tok.kind == tokQuoted}})
				continue
			}
			p.peeked = nil

			value, err := p.value(next)
			if err != nil {
				return nil, err
			}
			b.fields = append(b.fields, Field{Key: tok.text, Op: next.text, Value: value})
		}
	}
}

func (p *parser) value(op token) (Value, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokScalar, tokQuoted:
		return Scalar{Text: tok.text, Quoted: tok.kind == tokQuoted}, nil
	case tokOpen:
		return p.block(false)
	case tokEOF:
		return nil, &SyntaxError{Line: op.line, Col: op.col, Msg: fmt.Sprintf("missing value after %q", op.text), Err: ErrUnexpectedEOF}
	}
	return nil, &SyntaxError{Line: tok.line, Col: tok.col, Msg: fmt.Sprintf("unexpected %q after %q", tok.text, op.text)}
}
