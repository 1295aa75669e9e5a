package colortext

import (
	"fmt"
	"strings"
)

// Problem describes a suspicious construct in a display string.
type Problem struct {
	Token int
	Msg   string
}

func (p Problem) String() string {
	return fmt.Sprintf("token %d: %s", p.Token, p.Msg)
}

// Check lexes s and reports markers that did not form valid tokens and
// colour ends that close nothing.
func Check(s string) []Problem {
	var problems []Problem
	depth := 0
	i := 0
	for tok := range Lex(s) {
		switch tok.Kind {
		case ColorStart:
			depth++
		case ColorEnd:
			if depth == 0 {
				problems = append(problems, Problem{Token: i, Msg: "color end without color start"})
			} else {
				depth--
			}
		case PlainText:
			if strings.ContainsRune(tok.Text, ColorMarker) {
				problems = append(problems, Problem{Token: i, Msg: "unknown or truncated color code"})
			}
			if strings.ContainsRune(tok.Text, VariableSigil) {
				problems = append(problems, Problem{Token: i, Msg: "unterminated variable reference"})
			}
		}
		i++
	}
	return problems
}
