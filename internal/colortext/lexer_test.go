package colortext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexMixedString(t *testing.T) {
	tokens := Tokens("§Y$matter_decompressor_4$§!扭曲黑洞，获取£minerals£矿物。")

	assert.Equal(t, []Token{
		{Kind: ColorStart, Color: Yellow},
		{Kind: VariableRef, Text: "matter_decompressor_4"},
		{Kind: ColorEnd},
		{Kind: PlainText, Text: "扭曲黑洞，获取"},
		{Kind: IconRef, Text: "minerals"},
		{Kind: PlainText, Text: "矿物。"},
	}, tokens)
}

func TestLexEveryColor(t *testing.T) {
	for code := range colorNames {
		tokens := Tokens("§" + string(rune(code)) + "x§!")
		require.Len(t, tokens, 3, code.String())
		assert.Equal(t, Token{Kind: ColorStart, Color: code}, tokens[0])
	}
	assert.Len(t, colorNames, 12)
}

func TestLexMarkerBeforeNonLetterKeepsNextToken(t *testing.T) {
	assert.Equal(t, []Token{
		{Kind: PlainText, Text: "§"},
		{Kind: VariableRef, Text: "x"},
	}, Tokens("§$x$"))

	assert.Equal(t, []Token{
		{Kind: PlainText, Text: "§"},
		{Kind: ColorStart, Color: Yellow},
		{Kind: PlainText, Text: "y"},
		{Kind: ColorEnd},
	}, Tokens("§§Yy§!"))
}

func TestLexUnknownColorIsPlainText(t *testing.T) {
	tokens := Tokens("a§Zb§")

	assert.Equal(t, []Token{{Kind: PlainText, Text: "a§Zb§"}}, tokens)
}

func TestLexLoneSigils(t *testing.T) {
	assert.Equal(t, []Token{{Kind: PlainText, Text: "costs 5$ or $ 6 $"}}, Tokens("costs 5$ or $ 6 $"))
	assert.Equal(t, []Token{
		{Kind: PlainText, Text: "$"},
		{Kind: VariableRef, Text: "x"},
	}, Tokens("$$x$"))
}

func TestLexStopsEarly(t *testing.T) {
	var seen []Token
	for tok := range Lex("§Ra§!b$c$") {
		seen = append(seen, tok)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []Token{{Kind: ColorStart, Color: Red}, {Kind: PlainText, Text: "a"}}, seen)
}

func TestCheck(t *testing.T) {
	assert.Empty(t, Check("§GGood§! $VALUE|Y$"))

	problems := Check("§! and §Q and $open")
	require.Len(t, problems, 3)
	assert.Equal(t, "color end without color start", problems[0].Msg)
	assert.Equal(t, "unknown or truncated color code", problems[1].Msg)
	assert.Equal(t, "unterminated variable reference", problems[2].Msg)
}

func TestRenderKeepsText(t *testing.T) {
	out := Render("§Rred§! plain $var$ £energy£")

	assert.Contains(t, out, "red")
	assert.Contains(t, out, "plain")
	assert.Contains(t, out, "$var$")
	assert.Contains(t, out, "[energy]")
	assert.NotContains(t, out, "§")
}
