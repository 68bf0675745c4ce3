package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Rorical/CosmicDialog/internal/config"
	"github.com/Rorical/CosmicDialog/internal/core"
	"github.com/Rorical/CosmicDialog/internal/dispatcher"
	"github.com/Rorical/CosmicDialog/internal/eventbus"
	"github.com/Rorical/CosmicDialog/internal/models"
)

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	logger     *zap.Logger
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ChatService
	model      *AppModel
}

// ServiceOptions maps the config onto core options. A zero latency in the
// config means no simulated wait.
func ServiceOptions(cfg *config.Config, logger *zap.Logger) core.Options {
	latency := cfg.Latency.Duration
	if latency == 0 {
		latency = -1
	}
	return core.Options{
		Latency:       latency,
		SearchResults: cfg.SearchResults,
		Greeting:      cfg.Greeting,
		Logger:        logger.Named("core"),
	}
}

func NewApplication(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	eb := eventbus.NewEventBus()
	disp := dispatcher.NewEventDispatcher(eb)
	chatService := core.NewChatService(ServiceOptions(cfg, logger), eb)

	model := newAppModel(disp, cfg, createInitialAppModel(cfg, chatService), logger)

	return &Application{
		config:     cfg,
		logger:     logger,
		eventBus:   eb,
		dispatcher: disp,
		service:    chatService,
		model:      model,
	}, nil
}

func (app *Application) Start() error {
	app.service.Greet()
	app.service.Start()
	app.logger.Info("Chat started", zap.String("config", app.config.Path()))

	p := tea.NewProgram(app.model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (app *Application) Stop() {
	app.dispatcher.Stop()
	app.service.Stop()
	app.eventBus.Close()
	app.logger.Info("Chat stopped")
}

func createInitialAppModel(cfg *config.Config, chatService *core.ChatService) models.AppModel {
	// Messages arrive from core as the single source of truth
	return models.AppModel{
		Messages:     make([]models.Message, 0),
		Status:       "Ready",
		ShowLogs:     cfg.ShowLogs,
		ServiceReady: chatService.IsReady(),
	}
}
