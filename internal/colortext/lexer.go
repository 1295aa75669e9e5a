// Package colortext tokenizes resolved localisation strings into plain text,
// colour markers, variable references and icon references.
//
// Colours open with the marker '§' followed by a colour letter and close
// with "§!". Variables are written $name$ and icons £name£.
package colortext

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

const (
	// ColorMarker introduces a colour code or a colour end.
	ColorMarker = '§'
	// ColorEndCode follows ColorMarker to close a coloured run.
	ColorEndCode = '!'
	// VariableSigil delimits variable references on both sides.
	VariableSigil = '$'
	// IconSigil delimits icon references on both sides.
	IconSigil = '£'
)

// ColorCode is one of the fixed text colours.
type ColorCode byte

const (
	Blue       ColorCode = 'B'
	Teal       ColorCode = 'E'
	Green      ColorCode = 'G'
	Orange     ColorCode = 'H'
	Brown      ColorCode = 'L'
	Purple     ColorCode = 'M'
	Pink       ColorCode = 'P'
	Red        ColorCode = 'R'
	DarkOrange ColorCode = 'S'
	Grey       ColorCode = 'T'
	White      ColorCode = 'W'
	Yellow     ColorCode = 'Y'
)

var colorNames = map[ColorCode]string{
	Blue:       "blue",
	Teal:       "teal",
	Green:      "green",
	Orange:     "orange",
	Brown:      "brown",
	Purple:     "purple",
	Pink:       "pink",
	Red:        "red",
	DarkOrange: "dark_orange",
	Grey:       "grey",
	White:      "white",
	Yellow:     "yellow",
}

// ParseColorCode returns the colour bound to letter.
func ParseColorCode(letter rune) (ColorCode, bool) {
	if letter >= utf8.RuneSelf {
		return 0, false
	}
	c := ColorCode(letter)
	_, ok := colorNames[c]
	return c, ok
}

func (c ColorCode) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ColorCode(%q)", rune(c))
}

// Kind classifies a Token.
type Kind int

const (
	PlainText Kind = iota
	ColorStart
	ColorEnd
	VariableRef
	IconRef
)

func (k Kind) String() string {
	switch k {
	case PlainText:
		return "text"
	case ColorStart:
		return "color_start"
	case ColorEnd:
		return "color_end"
	case VariableRef:
		return "variable"
	case IconRef:
		return "icon"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one lexical unit of a display string. Text holds the run for
// PlainText and the enclosed name for VariableRef and IconRef; Color is set
// for ColorStart.
type Token struct {
	Kind  Kind
	Text  string
	Color ColorCode
}

// Lex returns the tokens of s as a lazy sequence. Adjacent plain text is
// merged into a single token. A colour marker followed by an unknown letter
// is kept as plain text and logged.
func Lex(s string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		var plain strings.Builder
		flush := func() bool {
			if plain.Len() == 0 {
				return true
			}
			tok := Token{Kind: PlainText, Text: plain.String()}
			plain.Reset()
			return yield(tok)
		}

		for i := 0; i < len(s); {
			r, size := utf8.DecodeRuneInString(s[i:])

			switch r {
			case ColorMarker:
				next, nsize := utf8.DecodeRuneInString(s[i+size:])
				if nsize == 0 {
					plain.WriteRune(r)
					i += size
					continue
				}
				var tok Token
				if next == ColorEndCode {
					tok = Token{Kind: ColorEnd}
				} else if code, ok := ParseColorCode(next); ok {
					tok = Token{Kind: ColorStart, Color: code}
				} else {
					log.Warn().Str("code", string(next)).Str("text", s).Msg("Unknown color code")
					// Only a letter can be a mistyped code; anything else starts its own token.
					if !isASCIILetter(next) {
						nsize = 0
					}
					plain.WriteString(s[i : i+size+nsize])
					i += size + nsize
					continue
				}
				if !flush() || !yield(tok) {
					return
				}
				i += size + nsize

			case VariableSigil, IconSigil:
				end := strings.IndexRune(s[i+size:], r)
				if end < 0 || !isReferenceName(s[i+size:i+size+end]) {
					plain.WriteRune(r)
					i += size
					continue
				}
				kind := VariableRef
				if r == IconSigil {
					kind = IconRef
				}
				name := s[i+size : i+size+end]
				if !flush() || !yield(Token{Kind: kind, Text: name}) {
					return
				}
				i += size + end + size

			default:
				plain.WriteString(s[i : i+size])
				i += size
			}
		}
		flush()
	}
}

// Tokens collects Lex(s) into a slice.
func Tokens(s string) []Token {
	var tokens []Token
	for tok := range Lex(s) {
		tokens = append(tokens, tok)
	}
	return tokens
}

func isASCIILetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// isReferenceName reports whether name may appear between two sigils.
// Stellaris writes variable names with letters, digits, '_', '.' and '|'
// (the last one for formatting hints such as $VALUE|Y$).
func isReferenceName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r == '_' || r == '.' || r == '|' || r == '-' || r == '+' || r == '%':
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
