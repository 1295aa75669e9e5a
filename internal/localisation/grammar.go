// Package localisation parses Paradox-style .yml localisation files and
// folds their flat key/value entries into name/description records.
//
// A file is line oriented:
//
//	# optional comments
//	l_english:
//	 tech_lasers_1:0 "Red Lasers"
//	 tech_lasers_1_desc:0 "Focused light. \"Very\" hot."
//
// The header fixes the language for the whole file. Values are double-quoted
// and support the escapes \\ \/ \" \b \f \n \r \t and \uXXXX.
package localisation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"stellaris-techtree/internal/textutil"
)

// ErrMissingHeader is returned when a file has no l_<language>: header line.
var ErrMissingHeader = errors.New("missing language header")

// SyntaxError reports a malformed line.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Col, e.Msg)
}

// Diagnostic is a recoverable anomaly found while parsing. The affected
// entry is still part of the result.
type Diagnostic struct {
	Line int
	Msg  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s", d.Line, d.Msg)
}

// Entry is one key/value pair of a localisation file.
type Entry struct {
	Key   string
	Value string
}

// File is the parsed content of one localisation file.
type File struct {
	Language Language
	// Entries are in order of first appearance; a key defined twice keeps
	// the value of its last definition.
	Entries     []Entry
	Diagnostics []Diagnostic
}

// Map returns the entries as a key/value map.
func (f *File) Map() map[string]string {
	m := make(map[string]string, len(f.Entries))
	for _, e := range f.Entries {
		m[e.Key] = e.Value
	}
	return m
}

// Parse parses the bytes of a localisation file. A leading byte-order mark
// is ignored.
func Parse(data []byte) (*File, error) {
	data = textutil.StripBOM(data)

	file := &File{}
	positions := make(map[string]int)
	headerSeen := false

	for i, raw := range strings.Split(string(data), "\n") {
		lineNum := i + 1
		line := strings.TrimSuffix(raw, "\r")
		body := strings.TrimLeft(line, " \t")
		offset := len(line) - len(body)

		if strings.TrimSpace(body) == "" || body[0] == '#' {
			continue
		}

		if !headerSeen {
			lang, err := parseHeader(body, lineNum, offset)
			if err != nil {
				return nil, err
			}
			file.Language = lang
			headerSeen = true
			continue
		}

		lp := &lineParser{src: body, line: lineNum, offset: offset}
		entry, err := lp.entry()
		if err != nil {
			return nil, err
		}
		file.Diagnostics = append(file.Diagnostics, lp.diags...)

		if idx, ok := positions[entry.Key]; ok {
			file.Entries[idx].Value = entry.Value
			continue
		}
		positions[entry.Key] = len(file.Entries)
		file.Entries = append(file.Entries, entry)
	}

	if !headerSeen {
		return nil, ErrMissingHeader
	}
	return file, nil
}

func parseHeader(body string, lineNum, offset int) (Language, error) {
	if !strings.HasPrefix(body, "l_") {
		return Unknown, fmt.Errorf("%w: %w", ErrMissingHeader,
			&SyntaxError{Line: lineNum, Col: offset + 1, Msg: `expected "l_<language>:"`})
	}
	end := 2
	for end < len(body) && isIdentByte(body[end]) {
		end++
	}
	if end == 2 || end >= len(body) || body[end] != ':' {
		return Unknown, &SyntaxError{Line: lineNum, Col: offset + end + 1, Msg: "malformed language header"}
	}
	if rest := strings.TrimSpace(body[end+1:]); rest != "" && rest[0] != '#' {
		return Unknown, &SyntaxError{Line: lineNum, Col: offset + end + 2, Msg: "unexpected text after language header"}
	}
	return ParseLanguage(body[2:end]), nil
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// lineParser walks a single entry line. pos indexes src; offset is the
// number of leading blanks trimmed before src, kept for column reporting.
type lineParser struct {
	src    string
	pos    int
	line   int
	offset int
	diags  []Diagnostic
}

func (p *lineParser) fail(msg string) error {
	return &SyntaxError{Line: p.line, Col: p.offset + p.pos + 1, Msg: msg}
}

func (p *lineParser) skipBlanks() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *lineParser) entry() (Entry, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ':' || c == ' ' || c == '\t' || c == '"' {
			break
		}
		p.pos++
	}
	key := p.src[start:p.pos]
	if key == "" {
		return Entry{}, p.fail("expected key")
	}
	if p.pos >= len(p.src) {
		return Entry{}, p.fail("expected value")
	}

	switch p.src[p.pos] {
	case ':':
		p.pos++
		// Optional version number, as in `key:0 "value"`.
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
	case '"':
		return Entry{}, p.fail(`expected ':' or whitespace after key`)
	}
	p.skipBlanks()

	value, err := p.quoted()
	if err != nil {
		return Entry{}, err
	}

	p.skipBlanks()
	if p.pos < len(p.src) && p.src[p.pos] != '#' {
		return Entry{}, p.fail("unexpected text after value")
	}
	return Entry{Key: key, Value: value}, nil
}

func (p *lineParser) quoted() (string, error) {
	if p.pos >= len(p.src) || p.src[p.pos] != '"' {
		return "", p.fail(`expected '"'`)
	}
	p.pos++

	var sb strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '"':
			p.pos++
			return sb.String(), nil
		case '\\':
			if err := p.escape(&sb); err != nil {
				return "", err
			}
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
	return "", p.fail("unterminated string")
}

func (p *lineParser) escape(sb *strings.Builder) error {
	p.pos++ // backslash
	if p.pos >= len(p.src) {
		return p.fail("unterminated escape sequence")
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case '\\', '/', '"':
		sb.WriteByte(c)
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'u':
		if p.pos+4 > len(p.src) {
			return p.fail(`\u needs four hex digits`)
		}
		digits := p.src[p.pos : p.pos+4]
		n, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return p.fail(`\u needs four hex digits`)
		}
		p.pos += 4
		r := rune(n)
		if !utf8.ValidRune(r) {
			p.diags = append(p.diags, Diagnostic{
				Line: p.line,
				Msg:  fmt.Sprintf(`invalid unicode character \u%s`, digits),
			})
			r = utf8.RuneError
		}
		sb.WriteRune(r)
	default:
		p.pos--
		return p.fail(fmt.Sprintf("invalid escape sequence \\%c", c))
	}
	return nil
}

// Quote renders s as a quoted localisation value that Parse reads back
// unchanged.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
