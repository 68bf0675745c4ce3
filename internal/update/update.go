package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/CosmicDialog/internal/eventbus"
	"github.com/Rorical/CosmicDialog/internal/models"
)

// HandleUpdateWithEventBus applies msg to appModel. handled is false when
// the message should also reach the input editor. Core events go through
// HandleCoreEvent, which needs the caller's clock.
func HandleUpdateWithEventBus(appModel *models.AppModel, msg tea.Msg, input Input, eb *eventbus.EventBus, copyText Copier) (cmd tea.Cmd, handled bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsgWithEventBus(appModel, msg, input, eb, copyText)
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(appModel, msg)
		return nil, false
	case TickMsg:
		return HandleTickMsg(appModel, msg), true
	}
	return nil, false
}
