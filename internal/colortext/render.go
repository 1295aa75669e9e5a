package colortext

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var palette = map[ColorCode]lipgloss.Color{
	Blue:       lipgloss.Color("#51A6FF"),
	Teal:       lipgloss.Color("#2FC5B4"),
	Green:      lipgloss.Color("#4CD964"),
	Orange:     lipgloss.Color("#FF9F1A"),
	Brown:      lipgloss.Color("#A0785A"),
	Purple:     lipgloss.Color("#B267E6"),
	Pink:       lipgloss.Color("#FF7FA8"),
	Red:        lipgloss.Color("#FF4040"),
	DarkOrange: lipgloss.Color("#D06A1A"),
	Grey:       lipgloss.Color("#A0A0A0"),
	White:      lipgloss.Color("#FFFFFF"),
	Yellow:     lipgloss.Color("#FFE14D"),
}

var (
	variableStyle = lipgloss.NewStyle().Underline(true)
	iconStyle     = lipgloss.NewStyle().Faint(true)
)

// Render converts colour codes into terminal styles. Variable references
// that survived resolution are underlined and icons shown as [name].
func Render(s string) string {
	var sb strings.Builder
	stack := []lipgloss.Style{lipgloss.NewStyle()}

	for tok := range Lex(s) {
		current := stack[len(stack)-1]
		switch tok.Kind {
		case PlainText:
			sb.WriteString(current.Render(tok.Text))
		case ColorStart:
			stack = append(stack, lipgloss.NewStyle().Foreground(palette[tok.Color]))
		case ColorEnd:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case VariableRef:
			sb.WriteString(variableStyle.Inherit(current).Render("$" + tok.Text + "$"))
		case IconRef:
			sb.WriteString(iconStyle.Render("[" + tok.Text + "]"))
		}
	}
	return sb.String()
}
