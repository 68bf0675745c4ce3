package components

import (
	"strconv"
	"strings"

	"github.com/Rorical/CosmicDialog/internal/models"
	"github.com/Rorical/CosmicDialog/ui/styles"
)

const (
	ConsoleTitle = "Agent Console"
	EmptyHint    = "No tool calls yet. Try asking to search, calculate, or remember."
	HiddenHint   = "Logs hidden."
)

// RenderConsole lists tool log entries newest first, at most limit of them
// when limit is positive
func RenderConsole(logs []models.ToolLogEntry, show bool, limit, width int) string {
	if !show {
		return styles.HintStyle().Render(HiddenHint)
	}

	var b strings.Builder
	b.WriteString(styles.ConsoleTitleStyle().Render(ConsoleTitle) + "\n")

	if len(logs) == 0 {
		b.WriteString(styles.HintStyle().Render(EmptyHint))
		return styles.ConsoleStyle(width).Render(b.String())
	}

	shown := logs
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	lines := make([]string, 0, len(shown))
	for _, entry := range shown {
		lines = append(lines, renderLogEntry(entry))
	}
	b.WriteString(strings.Join(lines, "\n"))

	if hidden := len(logs) - len(shown); hidden > 0 {
		b.WriteString("\n" + styles.HintStyle().Render(plural(hidden, "older entry", "older entries")))
	}

	return styles.ConsoleStyle(width).Render(b.String())
}

func renderLogEntry(entry models.ToolLogEntry) string {
	line := styles.ToolStatusStyle(entry.Status).Render("["+entry.Status.Label()+"]") + " " +
		styles.ToolNameStyle().Render(entry.Tool)
	if clock := models.FormatClock(entry.Timestamp); clock != "" {
		line += " " + styles.TimestampStyle().Render(clock)
	}
	line += "\n  input: " + oneLine(entry.Input)
	if entry.Status.Final() {
		line += "\n  output: " + oneLine(entry.Output)
	}
	return line
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
