package components

import (
	"strings"

	"github.com/Rorical/CosmicDialog/internal/models"
	"github.com/Rorical/CosmicDialog/ui/styles"
)

const thinkingText = "Thinking…"

// RenderFunc turns a final message body into terminal output
type RenderFunc func(msg models.Message) string

// RenderMessages lays out the transcript. Pending messages show the spinner
// instead of their content.
func RenderMessages(messages []models.Message, render RenderFunc, spinnerView string, width int) string {
	var b strings.Builder

	for _, msg := range messages {
		b.WriteString(renderHeader(msg) + "\n")

		body := msg.Content
		switch {
		case msg.Pending:
			body = spinnerView + " " + thinkingText
		case msg.Role != models.User && render != nil:
			body = render(msg)
		}

		style := styles.RoleStyle(msg.Role)
		if width > 0 {
			style = style.MaxWidth(width)
		}
		b.WriteString(style.Render(body) + "\n\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderHeader(msg models.Message) string {
	header := styles.HeaderStyle(msg.Role).Render(msg.Role.Label())
	if clock := models.FormatClock(msg.Timestamp); clock != "" {
		header += " " + styles.TimestampStyle().Render("· "+clock)
	}
	return header
}
