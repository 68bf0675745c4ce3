package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rorical/CosmicDialog/internal/eventbus"
	"github.com/Rorical/CosmicDialog/internal/models"
	"github.com/Rorical/CosmicDialog/internal/tools"
)

var (
	ErrBlankInput = errors.New("message is empty")
	ErrBusy       = errors.New("a turn is already in progress")
)

// Options configures a ChatService. Zero values pick the defaults.
type Options struct {
	Latency       time.Duration // Simulated time per tool; negative disables the wait
	SearchResults int
	Greeting      string
	Logger        *zap.Logger
	NewID         func() string
	Now           func() time.Time
	Waiter        tools.Waiter
	Notify        func(tool, output string) // Called after each finished tool
}

// ChatService runs turns against ChatState and pushes snapshots to the UI
type ChatService struct {
	state        *ChatState
	eventBus     *eventbus.EventBus // nil when running headless
	toolRegistry *tools.Registry
	executor     *tools.Executor
	logger       *zap.Logger
	newID        func() string
	now          func() time.Time
	notify       func(tool, output string)
	greeting     string
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// NewChatService wires the registry and executor. eb may be nil.
func NewChatService(opts Options, eb *eventbus.EventBus) *ChatService {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	latency := opts.Latency
	switch {
	case latency == 0:
		latency = tools.DefaultLatency
	case latency < 0:
		latency = 0
	}

	toolRegistry := tools.NewRegistry()
	tools.RegisterBuiltinTools(toolRegistry, opts.SearchResults)

	execOpts := []tools.ExecutorOption{
		tools.WithLatency(latency),
		tools.WithIDGenerator(newID),
		tools.WithClock(now),
		tools.WithLogger(logger.Named("executor")),
	}
	if opts.Waiter != nil {
		execOpts = append(execOpts, tools.WithWaiter(opts.Waiter))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cs := &ChatService{
		state:        NewChatState(),
		eventBus:     eb,
		toolRegistry: toolRegistry,
		executor:     tools.NewExecutor(toolRegistry, execOpts...),
		logger:       logger,
		newID:        newID,
		now:          now,
		notify:       opts.Notify,
		greeting:     opts.Greeting,
		ctx:          ctx,
		cancel:       cancel,
	}

	if eb != nil {
		eb.SetErrorCallback(func(err eventbus.EventBusError) {
			logger.Warn("Event bus error", zap.String("operation", err.Operation), zap.Error(err.Err))
		})
	}

	return cs
}

// Start pushes the initial state and starts the event loop
func (cs *ChatService) Start() {
	cs.pushStateToUI()
	cs.wg.Add(1)
	go cs.eventLoop()
}

// Stop cancels the event loop and waits for in-flight turns. A running turn
// skips its remaining latency but still completes.
func (cs *ChatService) Stop() {
	cs.cancel()
	cs.wg.Wait()
}

func (cs *ChatService) eventLoop() {
	defer cs.wg.Done()
	if cs.eventBus == nil {
		return
	}
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SendMessageEvent:
		if err := cs.Submit(e.Message); err != nil {
			cs.pushError(err)
		}
	case eventbus.ClearEvent:
		cs.Clear()
	}
}

// Submit starts a turn in the background. Blank text and sends during a turn
// are rejected with ErrBlankInput and ErrBusy and leave the state untouched.
func (cs *ChatService) Submit(text string) error {
	q, err := cs.beginTurn(text)
	if err != nil {
		return err
	}

	cs.wg.Add(1)
	go func() {
		defer cs.wg.Done()
		cs.completeTurn(cs.ctx, q)
	}()
	return nil
}

// RunTurn runs a whole turn before returning. Guards match Submit.
func (cs *ChatService) RunTurn(ctx context.Context, text string) error {
	q, err := cs.beginTurn(text)
	if err != nil {
		return err
	}
	cs.completeTurn(ctx, q)
	return nil
}

func (cs *ChatService) beginTurn(text string) (string, error) {
	q := strings.TrimSpace(text)
	if q == "" {
		cs.logger.Debug("Rejected blank message")
		return "", ErrBlankInput
	}

	userMsg := cs.newMessage(models.User, q)
	if !cs.state.StartProcessingWithUserMessage(userMsg) {
		cs.logger.Info("Rejected message while busy")
		return "", ErrBusy
	}
	cs.logger.Info("Turn started", zap.String("input", q))
	return q, nil
}

func (cs *ChatService) completeTurn(ctx context.Context, q string) {
	cs.pushStateToUI()

	calls := tools.Classify(q)
	names := tools.Names(calls)
	cs.state.AddMessage(cs.newMessage(models.Planner, planContent(names)))
	cs.pushStateToUI()

	thinking := cs.newMessage(models.Assistant, "")
	if !cs.state.AddPendingMessage(thinking) {
		cs.logger.Warn("Pending message already outstanding", zap.String("id", thinking.ID))
	}
	cs.pushStateToUI()

	summary := cs.executor.Run(ctx, calls, cs)

	cs.state.AddMessage(cs.newMessage(models.Executor, executionContent(summary)))
	cs.state.ResolvePendingMessage(thinking.ID, answerContent(summary), cs.now())
	cs.state.FinishProcessing()
	cs.pushStateToUI()

	cs.logger.Info("Turn finished", zap.Strings("tools", names))
}

// ToolCalled implements tools.Observer
func (cs *ChatService) ToolCalled(entry models.ToolLogEntry) {
	cs.state.AddLog(entry)
	cs.pushStateToUI()
}

// ToolFinished implements tools.Observer
func (cs *ChatService) ToolFinished(entry models.ToolLogEntry) {
	if !cs.state.CompleteLog(entry) {
		cs.logger.Debug("Log entry not found or already final", zap.String("id", entry.ID))
	}
	cs.pushStateToUI()

	if cs.eventBus != nil {
		if err := cs.eventBus.SendToUI(eventbus.ToolFinishedEvent{Tool: entry.Tool, Output: entry.Output}); err != nil {
			cs.logger.Debug("Dropped tool notification", zap.String("tool", entry.Tool), zap.Error(err))
		}
	}
	if cs.notify != nil {
		cs.notify(entry.Tool, entry.Output)
	}
}

// Clear empties the transcript and the log. It does not reseed the greeting.
func (cs *ChatService) Clear() {
	cs.state.Clear()
	cs.logger.Info("Conversation cleared")
	cs.pushStateToUI()
}

// Greet appends the configured greeting as an assistant message, if any
func (cs *ChatService) Greet() {
	if cs.greeting == "" {
		return
	}
	cs.state.AddMessage(cs.newMessage(models.Assistant, cs.greeting))
	cs.pushStateToUI()
}

func (cs *ChatService) Messages() []models.Message {
	return cs.state.GetMessages()
}

// Logs returns the tool log, newest first
func (cs *ChatService) Logs() []models.ToolLogEntry {
	return cs.state.GetLogs()
}

func (cs *ChatService) IsProcessing() bool {
	return cs.state.IsProcessing()
}

// IsReady reports whether a new message would be accepted
func (cs *ChatService) IsReady() bool {
	return !cs.state.IsProcessing()
}

// ListTools exposes the simulated tools for help screens
func (cs *ChatService) ListTools() []tools.Tool {
	return cs.toolRegistry.ListTools()
}

func (cs *ChatService) newMessage(role models.Role, content string) models.Message {
	return models.Message{
		ID:        cs.newID(),
		Role:      role,
		Content:   content,
		Timestamp: cs.now(),
	}
}

// pushStateToUI sends a full snapshot. The pending answer changes in place
// and Clear shrinks the lists, so deltas are not enough.
func (cs *ChatService) pushStateToUI() {
	cs.push(nil)
}

func (cs *ChatService) pushError(err error) {
	cs.push(err)
}

func (cs *ChatService) push(err error) {
	if cs.eventBus == nil {
		return
	}
	if sendErr := cs.eventBus.SendToUI(eventbus.StateUpdateEvent{
		Messages:     cs.state.GetMessages(),
		Logs:         cs.state.GetLogs(),
		IsProcessing: cs.state.IsProcessing(),
		Error:        err,
	}); sendErr != nil {
		cs.logger.Debug("Dropped state update", zap.Error(sendErr))
	}
}
