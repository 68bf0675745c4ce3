package app

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Rorical/CosmicDialog/internal/config"
	"github.com/Rorical/CosmicDialog/internal/dispatcher"
	"github.com/Rorical/CosmicDialog/internal/models"
	"github.com/Rorical/CosmicDialog/internal/update"
	"github.com/Rorical/CosmicDialog/internal/utils"
	"github.com/Rorical/CosmicDialog/ui/components"
	"github.com/Rorical/CosmicDialog/ui/styles"
)

const (
	inputHeight  = 3
	consoleLimit = 3
	minViewport  = 3
)

type renderedMessage struct {
	content string
	out     string
}

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
	logger     *zap.Logger

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	markdownStyle string
	renderer      *utils.MarkdownRenderer
	rendered      map[string]renderedMessage // By message ID
	messageCount  int

	copyText update.Copier
	now      func() time.Time
}

func newAppModel(disp *dispatcher.EventDispatcher, cfg *config.Config, initial models.AppModel, logger *zap.Logger) *AppModel {
	ta := textarea.New()
	ta.Placeholder = "Ask me to search, calculate, or remember something…"
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(inputHeight)
	ta.SetWidth(80)
	// Enter is handled by update; Alt+Enter inserts a newline
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle()

	return &AppModel{
		appModel:      initial,
		dispatcher:    disp,
		logger:        logger,
		viewport:      viewport.New(0, 0),
		textarea:      ta,
		spinner:       sp,
		markdownStyle: cfg.MarkdownStyle,
		renderer:      utils.NewMarkdownRenderer(cfg.MarkdownStyle, 80),
		rendered:      make(map[string]renderedMessage),
		copyText:      clipboard.WriteAll,
		now:           time.Now,
	}
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		update.TickCmd(),
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle core events and continue listening
	if coreEvent, ok := msg.(update.CoreEventMsg); ok {
		cmd := update.HandleCoreEvent(&m.appModel, coreEvent, m.now())
		m.syncInput()
		m.layout()
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())
	}

	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		if m.appModel.Loading {
			m.refreshViewport()
		}
		return m, cmd
	}

	var cmds []tea.Cmd
	eventBus := m.dispatcher.GetEventBus()
	cmd, handled := update.HandleUpdateWithEventBus(&m.appModel, msg, &m.textarea, eventBus, m.copyText)
	cmds = append(cmds, cmd)

	if !handled {
		switch msg := msg.(type) {
		case tea.WindowSizeMsg:
			m.resize()
		case tea.MouseMsg:
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		case tea.KeyMsg:
			switch msg.String() {
			case "pgup", "pgdown":
				m.viewport, cmd = m.viewport.Update(msg)
				cmds = append(cmds, cmd)
			default:
				if !m.appModel.Loading {
					m.textarea, cmd = m.textarea.Update(msg)
					cmds = append(cmds, cmd)
				}
			}
		default:
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, m.syncInput())
	m.layout()
	return m, tea.Batch(cmds...)
}

func (m *AppModel) View() string {
	if m.appModel.Width == 0 {
		return "Starting…"
	}

	var b strings.Builder
	b.WriteString(m.viewport.View() + "\n")
	b.WriteString(components.RenderToast(m.appModel.Toast, m.now(), m.appModel.Width) + "\n")
	b.WriteString(m.consoleView() + "\n")
	b.WriteString(components.RenderInput(m.textarea.View(), m.appModel.Loading, m.appModel.Width))
	b.WriteString("\n")
	b.WriteString(components.RenderStatus(m.appModel.Status, m.appModel.Loading, m.spinner.View(), m.appModel.Width))

	return b.String()
}

func (m *AppModel) consoleView() string {
	return components.RenderConsole(m.appModel.Logs, m.appModel.ShowLogs, consoleLimit, m.appModel.Width)
}

// syncInput disables the editor while a turn is running
func (m *AppModel) syncInput() tea.Cmd {
	if m.appModel.Loading {
		m.textarea.Blur()
		return nil
	}
	if !m.textarea.Focused() {
		return m.textarea.Focus()
	}
	return nil
}

func (m *AppModel) resize() {
	width := m.appModel.Width
	m.textarea.SetWidth(max(width-6, 10))
	m.viewport.Width = width

	wrap := max(width-6, 20)
	if m.renderer.Width() != wrap {
		m.renderer = utils.NewMarkdownRenderer(m.markdownStyle, wrap)
		m.rendered = make(map[string]renderedMessage)
	}
}

// layout sizes the transcript to the space the other panels leave
func (m *AppModel) layout() {
	if m.appModel.Width == 0 {
		return
	}
	fixed := inputHeight + 2 + // input with border
		1 + // toast line
		1 + // status line
		lipgloss.Height(m.consoleView())
	m.viewport.Height = max(m.appModel.Height-fixed, minViewport)
	m.refreshViewport()
}

func (m *AppModel) refreshViewport() {
	if len(m.appModel.Messages) < m.messageCount {
		m.rendered = make(map[string]renderedMessage)
	}

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(components.RenderMessages(m.appModel.Messages, m.renderMessage, m.spinner.View(), m.appModel.Width))

	if atBottom || len(m.appModel.Messages) != m.messageCount {
		m.viewport.GotoBottom()
	}
	m.messageCount = len(m.appModel.Messages)
}

func (m *AppModel) renderMessage(msg models.Message) string {
	if cached, ok := m.rendered[msg.ID]; ok && cached.content == msg.Content {
		return cached.out
	}
	out := m.renderer.Render(msg.Content)
	m.rendered[msg.ID] = renderedMessage{content: msg.Content, out: out}
	return out
}
