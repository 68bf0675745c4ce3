package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeLinks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"https kept", "[docs](https://go.dev)", "[docs](https://go.dev)"},
		{"relative kept", "[here](./notes.md)", "[here](./notes.md)"},
		{"javascript", "[click](javascript:alert(1)", "[click](#)"},
		{"mixed case", "[x](JavaScript:void)", "[x](#)"},
		{"hidden whitespace", "[x]( java\tscript:void)", "[x](#)"},
		{"vbscript", "[x](vbscript:msgbox)", "[x](#)"},
		{"data image", "![pic](data:image/png;base64,AAAA)", "![pic](#)"},
		{"file", "[x](file:///etc/passwd)", "[x](#)"},
		{"autolink", "see <javascript:alert(1)>", "see #"},
		{"safe autolink", "see <https://go.dev>", "see <https://go.dev>"},
		{"plain text", "no links here", "no links here"},
		{"reference definition", "[x][1]\n\n[1]: javascript:alert(1)", "[x][1]\n\n[1]: #"},
		{"reference with title", "  [ref]: <data:text/html,hi> \"t\"", "  [ref]: # \"t\""},
		{"safe reference", "[1]: https://go.dev", "[1]: https://go.dev"},
		{"html href", `<a href="javascript:alert(1)">x</a>`, `<a href="#">x</a>`},
		{"html src single quoted", `<img SRC='vbscript:x'>`, `<img SRC="#">`},
		{"html unquoted", `<a href=file:///etc/passwd>x</a>`, `<a href="#">x</a>`},
		{"safe html", `<a href="https://go.dev">x</a>`, `<a href="https://go.dev">x</a>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeLinks(tt.input))
		})
	}
}

func TestRenderMarkdownBasic(t *testing.T) {
	out := RenderMarkdown("## Answer\n\n- **bold** item\n1. first\n> Tip: `code`")

	assert.NotContains(t, out, "##")
	assert.NotContains(t, out, "**")
	assert.NotContains(t, out, "`")
	assert.Contains(t, out, "Answer")
	assert.Contains(t, out, "• ")
	assert.Contains(t, out, "bold")
	assert.Contains(t, out, "1. first")
	assert.Contains(t, out, "Tip: ")
}

func TestRenderMarkdownKeepsCodeBlockContent(t *testing.T) {
	out := RenderMarkdown("```go\nx := **y**\n```")

	assert.Contains(t, out, "go")
	assert.Contains(t, out, "x := **y**")
}

func TestRenderMarkdownLinks(t *testing.T) {
	out := RenderMarkdown("[docs](https://go.dev) ![logo](img.png) [bad](#)")

	assert.Contains(t, out, "(https://go.dev)")
	assert.Contains(t, out, "[image: logo]")
	assert.NotContains(t, out, "(#)")
}

func TestMarkdownRendererBasicStyle(t *testing.T) {
	r := NewMarkdownRenderer("basic", 80)

	assert.Equal(t, "basic", r.Style())
	assert.Equal(t, 80, r.Width())
	assert.Equal(t, RenderMarkdown("[x](#)"), r.Render("[x](javascript:void)"))
}

func TestMarkdownRendererGlamour(t *testing.T) {
	r := NewMarkdownRenderer("notty", 60)
	require.NotNil(t, r.term)

	out := r.Render("**Saved** a [note](javascript:alert(1))")

	assert.Contains(t, out, "Saved")
	assert.NotContains(t, out, "javascript")
	assert.False(t, strings.HasSuffix(out, "\n"))

	out = r.Render("[click][1]\n\n[1]: javascript:alert(1)")
	assert.Contains(t, out, "click")
	assert.NotContains(t, out, "javascript")
}
