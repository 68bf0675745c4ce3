package utils

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	linkRegex        = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)]*)\)`)
	autolinkRegex    = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9+.\-]*:[^>\s]*)>`)
	definitionRegex  = regexp.MustCompile(`(?m)^([ \t]{0,3}\[[^\]]+\]:[ \t]*)(\S+)`)
	htmlAttrRegex    = regexp.MustCompile(`(?i)\b(href|src)(\s*=\s*)("[^"]*"|'[^']*'|[^\s>]+)`)
	orderedListRegex = regexp.MustCompile(`^(\d+)\.\s+(.*)`)
	inlineCodeRegex  = regexp.MustCompile("`([^`]*)`")
	boldRegex        = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicUnderscore = regexp.MustCompile(`(^|[^\w])_([^_]+)_([^\w]|$)`)
	italicAsterisk   = regexp.MustCompile(`(^|[^*])\*([^*]+)\*([^*]|$)`)
)

// unsafeSchemes can run code or read local data when a link is followed
var unsafeSchemes = []string{"javascript:", "vbscript:", "data:", "file:"}

// MarkdownRenderer renders chat markdown for the terminal with glamour, and
// falls back to RenderMarkdown for the "basic" style or on glamour errors.
type MarkdownRenderer struct {
	style string
	width int
	term  *glamour.TermRenderer
}

// NewMarkdownRenderer accepts the styles auto, dark, light, notty and basic
func NewMarkdownRenderer(style string, width int) *MarkdownRenderer {
	r := &MarkdownRenderer{style: style, width: width}
	if style == "basic" {
		return r
	}

	styleOpt := glamour.WithAutoStyle()
	if style != "auto" && style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	opts := []glamour.TermRendererOption{styleOpt}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	term, err := glamour.NewTermRenderer(opts...)
	if err == nil {
		r.term = term
	}
	return r
}

func (r *MarkdownRenderer) Width() int {
	return r.width
}

func (r *MarkdownRenderer) Style() string {
	return r.style
}

// Render neutralises active links and renders content
func (r *MarkdownRenderer) Render(content string) string {
	content = SanitizeLinks(content)
	if r.term != nil {
		if out, err := r.term.Render(content); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return RenderMarkdown(content)
}

// SanitizeLinks replaces link and image destinations that use an active
// scheme (javascript:, data: ...) with "#". Inline links, autolinks,
// reference definitions and HTML href/src attributes are covered.
func SanitizeLinks(text string) string {
	text = definitionRegex.ReplaceAllStringFunc(text, func(match string) string {
		parts := definitionRegex.FindStringSubmatch(match)
		if !isUnsafeURL(parts[2]) {
			return match
		}
		return parts[1] + "#"
	})
	text = htmlAttrRegex.ReplaceAllStringFunc(text, func(match string) string {
		parts := htmlAttrRegex.FindStringSubmatch(match)
		if !isUnsafeURL(strings.Trim(parts[3], `"'`)) {
			return match
		}
		return parts[1] + parts[2] + `"#"`
	})
	text = linkRegex.ReplaceAllStringFunc(text, func(match string) string {
		parts := linkRegex.FindStringSubmatch(match)
		if !isUnsafeURL(parts[3]) {
			return match
		}
		return parts[1] + "[" + parts[2] + "](#)"
	})
	return autolinkRegex.ReplaceAllStringFunc(text, func(match string) string {
		if isUnsafeURL(strings.Trim(match, "<>")) {
			return "#"
		}
		return match
	})
}

func isUnsafeURL(dest string) bool {
	// Browsers ignore whitespace and control characters inside schemes
	cleaned := strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, strings.ToLower(dest))
	cleaned = strings.TrimPrefix(cleaned, "<")

	for _, scheme := range unsafeSchemes {
		if strings.HasPrefix(cleaned, scheme) {
			return true
		}
	}
	return false
}

// Markdown styles for the basic renderer
func CodeBlockStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Padding(0, 1).
		MarginLeft(2)
}

func BoldStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true)
}

func ItalicStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Italic(true)
}

func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212"))
}

func QuoteStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		PaddingLeft(1)
}

func LinkStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Underline(true)
}

func ListStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		MarginLeft(2)
}

// RenderMarkdown applies a line-based markdown rendering with lipgloss.
// Code fences keep their content verbatim.
func RenderMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result strings.Builder

	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			if inCodeBlock {
				lang := strings.TrimPrefix(strings.TrimSpace(line), "```")
				result.WriteString(CodeBlockStyle().Render("┌─ "+orDefault(lang, "code")+" ─┐") + "\n")
			} else {
				result.WriteString(CodeBlockStyle().Render("└──────────┘") + "\n")
			}
			continue
		}

		if inCodeBlock {
			result.WriteString(CodeBlockStyle().Render(line) + "\n")
			continue
		}

		trimmed := strings.TrimSpace(line)

		// Titles (# ## ###) lose their marks
		if strings.HasPrefix(trimmed, "#") {
			title := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			result.WriteString(TitleStyle().Render(processInlineMarkdown(title)) + "\n")
			continue
		}

		if quote, found := strings.CutPrefix(trimmed, ">"); found {
			result.WriteString(QuoteStyle().Render(processInlineMarkdown(strings.TrimSpace(quote))) + "\n")
			continue
		}

		if item, found := cutListMarker(trimmed); found {
			result.WriteString(ListStyle().Render("• "+processInlineMarkdown(item)) + "\n")
			continue
		}

		if matches := orderedListRegex.FindStringSubmatch(trimmed); len(matches) == 3 {
			result.WriteString(ListStyle().Render(matches[1]+". "+processInlineMarkdown(matches[2])) + "\n")
			continue
		}

		result.WriteString(processInlineMarkdown(line) + "\n")
	}

	return strings.TrimSuffix(result.String(), "\n")
}

func cutListMarker(line string) (string, bool) {
	if item, found := strings.CutPrefix(line, "- "); found {
		return item, true
	}
	return strings.CutPrefix(line, "* ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// processInlineMarkdown handles code spans first so their content is not
// formatted, then links, then emphasis
func processInlineMarkdown(line string) string {
	var spans []string
	line = inlineCodeRegex.ReplaceAllStringFunc(line, func(match string) string {
		spans = append(spans, CodeBlockStyle().Render(strings.Trim(match, "`")))
		return "\x00" + string(rune('0'+len(spans)-1)) + "\x00"
	})

	line = linkRegex.ReplaceAllStringFunc(line, func(match string) string {
		parts := linkRegex.FindStringSubmatch(match)
		if parts[1] == "!" {
			return "[image: " + orDefault(parts[2], "untitled") + "]"
		}
		label := LinkStyle().Render(processEmphasis(parts[2]))
		if parts[3] == "" || parts[3] == "#" {
			return label
		}
		return label + " (" + parts[3] + ")"
	})

	line = processEmphasis(line)

	for i, span := range spans {
		line = strings.Replace(line, "\x00"+string(rune('0'+i))+"\x00", span, 1)
	}
	return line
}

func processEmphasis(text string) string {
	text = boldRegex.ReplaceAllStringFunc(text, func(match string) string {
		return BoldStyle().Render(strings.Trim(match, "*"))
	})
	text = italicUnderscore.ReplaceAllString(text, "$1"+ItalicStyle().Render("$2")+"$3")
	text = italicAsterisk.ReplaceAllString(text, "$1"+ItalicStyle().Render("$2")+"$3")
	return text
}
