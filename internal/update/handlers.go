package update

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/CosmicDialog/internal/eventbus"
	"github.com/Rorical/CosmicDialog/internal/models"
)

const (
	StatusReady   = "Ready"
	StatusSending = "Sending…"

	// ToastDuration is how long a tool notification stays visible
	ToastDuration = 3 * time.Second
)

// Snippets are the markdown fragments inserted by the Alt shortcuts
var Snippets = map[string]string{
	"alt+h": "\n# ",
	"alt+b": "**bold** ",
	"alt+i": "_italics_ ",
	"alt+c": "`code`",
	"alt+l": "\n- item ",
	"alt+k": "[text](url)",
	"alt+g": "![](image-url)",
	"alt+p": "\n> Polish: ",
}

// Input is the editable message buffer
type Input interface {
	Value() string
	Reset()
	InsertString(s string)
}

// Copier writes text to the system clipboard
type Copier func(text string) error

// HandleKeyMsgWithEventBus handles shortcuts and sends. It reports false for
// keys that belong to the input editor.
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, input Input, eb *eventbus.EventBus, copyText Copier) (tea.Cmd, bool) {
	key := keyMsg.String()

	switch key {
	case "ctrl+c":
		return tea.Quit, true
	case "enter":
		sendInput(appModel, input, eb)
		return nil, true
	case "ctrl+l":
		if err := eb.SendToCore(eventbus.ClearEvent{}); err != nil {
			appModel.Status = "Error clearing conversation: " + err.Error()
		}
		return nil, true
	case "ctrl+t":
		appModel.ShowLogs = !appModel.ShowLogs
		return nil, true
	case "ctrl+y":
		copyLastAnswer(appModel, copyText)
		return nil, true
	}

	if snippet, ok := Snippets[key]; ok {
		if !appModel.Loading {
			input.InsertString(snippet)
		}
		return nil, true
	}
	return nil, false
}

func sendInput(appModel *models.AppModel, input Input, eb *eventbus.EventBus) {
	text := input.Value()
	if appModel.Loading || strings.TrimSpace(text) == "" {
		return
	}
	if !appModel.ServiceReady {
		appModel.Status = "Chat service not available"
		return
	}

	if err := eb.SendToCore(eventbus.SendMessageEvent{Message: text}); err != nil {
		appModel.Status = "Error sending message: " + err.Error()
		return
	}

	// Core confirms with a snapshot; mark busy now so Enter cannot double send
	input.Reset()
	appModel.Loading = true
	appModel.Status = StatusSending
}

func copyLastAnswer(appModel *models.AppModel, copyText Copier) {
	answer, ok := LastAnswer(appModel.Messages)
	if !ok {
		appModel.Status = "Nothing to copy yet"
		return
	}
	if err := copyText(answer); err != nil {
		appModel.Status = "Clipboard error: " + err.Error()
		return
	}
	appModel.Status = "Copied last answer to clipboard"
}

// LastAnswer returns the newest final assistant message
func LastAnswer(messages []models.Message) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == models.Assistant && !messages[i].Pending {
			return messages[i].Content, true
		}
	}
	return "", false
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg, now time.Time) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		appModel.Messages = event.Messages
		appModel.Logs = event.Logs
		appModel.Loading = event.IsProcessing

		if event.Error != nil {
			appModel.Status = "Error: " + event.Error.Error()
		} else if event.IsProcessing {
			appModel.Status = StatusSending
		} else {
			appModel.Status = StatusReady
		}
	case eventbus.ToolFinishedEvent:
		appModel.Toast = &models.Toast{
			Title:       "Tool finished: " + event.Tool,
			Description: event.Output,
			Expires:     now.Add(ToastDuration),
		}
	}

	return nil
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

// HandleTickMsg expires the toast and schedules the next tick
func HandleTickMsg(appModel *models.AppModel, tick TickMsg) tea.Cmd {
	if appModel.Toast != nil && !time.Time(tick).Before(appModel.Toast.Expires) {
		appModel.Toast = nil
	}
	return TickCmd()
}
