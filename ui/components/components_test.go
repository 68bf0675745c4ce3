package components

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Rorical/CosmicDialog/internal/models"
)

var noon = time.Date(2024, 5, 1, 12, 34, 0, 0, time.UTC)

func TestRenderMessages(t *testing.T) {
	messages := []models.Message{
		{ID: "1", Role: models.User, Content: "remember milk", Timestamp: noon},
		{ID: "2", Role: models.Planner, Content: "Plan:", Timestamp: noon},
		{ID: "3", Role: models.Assistant, Pending: true, Timestamp: noon},
	}
	render := func(msg models.Message) string {
		return "rendered " + msg.ID
	}

	out := RenderMessages(messages, render, "*", 200)

	assert.Contains(t, out, "You")
	assert.Contains(t, out, "· 12:34")
	assert.Contains(t, out, "remember milk")
	assert.Contains(t, out, "Planner")
	assert.Contains(t, out, "rendered 2")
	assert.Contains(t, out, "* Thinking…")
	assert.NotContains(t, out, "rendered 3")
	assert.NotContains(t, out, "rendered 1")
}

func TestRenderConsole(t *testing.T) {
	assert.Contains(t, RenderConsole(nil, false, 0, 200), HiddenHint)
	assert.Contains(t, RenderConsole(nil, true, 0, 200), EmptyHint)

	logs := []models.ToolLogEntry{
		{ID: "b", Tool: "math.calculate", Input: "2+2", Status: models.StatusCalled, Timestamp: noon},
		{ID: "a", Tool: "web.search", Input: "cats", Output: "Searched", Status: models.StatusSuccess, Timestamp: noon},
	}
	out := RenderConsole(logs, true, 0, 200)

	assert.Contains(t, out, ConsoleTitle)
	assert.Contains(t, out, "[CALLED]")
	assert.Contains(t, out, "[SUCCESS]")
	assert.Contains(t, out, "output: Searched")
	assert.Less(t, strings.Index(out, "math.calculate"), strings.Index(out, "web.search"))
}

func TestRenderConsoleLimit(t *testing.T) {
	logs := []models.ToolLogEntry{
		{ID: "c", Tool: "memory.save", Status: models.StatusError, Output: "boom"},
		{ID: "b", Tool: "math.calculate", Status: models.StatusSuccess},
		{ID: "a", Tool: "web.search", Status: models.StatusSuccess},
	}
	out := RenderConsole(logs, true, 1, 200)

	assert.Contains(t, out, "[ERROR]")
	assert.NotContains(t, out, "web.search")
	assert.Contains(t, out, "2 older entries")
}

func TestRenderToast(t *testing.T) {
	toast := &models.Toast{Title: "Tool finished: web.search", Description: "done", Expires: noon.Add(time.Second)}

	assert.Contains(t, RenderToast(toast, noon, 200), "Tool finished: web.search · done")
	assert.Empty(t, RenderToast(toast, noon.Add(time.Second), 200))
	assert.Empty(t, RenderToast(nil, noon, 200))
}

func TestRenderStatus(t *testing.T) {
	assert.Contains(t, RenderStatus("Sending…", true, "*", 40), "* Sending…")
	assert.Contains(t, RenderStatus("Ready", false, "*", 200), "ctrl+t logs")
}
