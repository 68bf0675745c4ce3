package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rorical/CosmicDialog/internal/models"
)

// DefaultLatency is the simulated time each tool takes to run
const DefaultLatency = 450 * time.Millisecond

// Observer is told about every log entry as it is created and finalised
type Observer interface {
	ToolCalled(entry models.ToolLogEntry)
	ToolFinished(entry models.ToolLogEntry)
}

// Waiter suspends the executor for d or until ctx is done
type Waiter func(ctx context.Context, d time.Duration)

// Sleep is the default Waiter
func Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Executor runs classified invocations one at a time against a registry
type Executor struct {
	registry *Registry
	latency  time.Duration
	wait     Waiter
	newID    func() string
	now      func() time.Time
	logger   *zap.Logger
}

type ExecutorOption func(*Executor)

func WithLatency(d time.Duration) ExecutorOption {
	return func(e *Executor) { e.latency = d }
}

func WithWaiter(w Waiter) ExecutorOption {
	return func(e *Executor) { e.wait = w }
}

func WithIDGenerator(f func() string) ExecutorOption {
	return func(e *Executor) { e.newID = f }
}

func WithClock(f func() time.Time) ExecutorOption {
	return func(e *Executor) { e.now = f }
}

func WithLogger(l *zap.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = l }
}

func NewExecutor(registry *Registry, opts ...ExecutorOption) *Executor {
	e := &Executor{
		registry: registry,
		latency:  DefaultLatency,
		wait:     Sleep,
		newID:    uuid.NewString,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes calls strictly in order. Invocation i is finalised before
// invocation i+1 is reported as called. A cancelled ctx only shortens the
// simulated latency; every entry still reaches a final status.
//
// The result is one "- tool: output" line per call, or "" for no calls.
func (e *Executor) Run(ctx context.Context, calls []models.ToolInvocation, obs Observer) string {
	results := make([]string, 0, len(calls))

	for _, call := range calls {
		entry := models.ToolLogEntry{
			ID:        e.newID(),
			Tool:      call.Name,
			Input:     call.Arguments,
			Status:    models.StatusCalled,
			Timestamp: e.now(),
		}
		e.logger.Debug("Tool called", zap.String("tool", call.Name), zap.String("id", entry.ID))
		if obs != nil {
			obs.ToolCalled(entry)
		}

		e.wait(ctx, e.latency)

		output, err := e.registry.Execute(context.WithoutCancel(ctx), call.Name, call.Arguments)
		if err != nil {
			entry.Status = models.StatusError
			entry.Output = err.Error()
			e.logger.Warn("Tool failed", zap.String("tool", call.Name), zap.Error(err))
		} else {
			entry.Status = models.StatusSuccess
			entry.Output = output
			e.logger.Debug("Tool finished", zap.String("tool", call.Name), zap.String("output", output))
		}
		entry.Timestamp = e.now()

		if obs != nil {
			obs.ToolFinished(entry)
		}
		results = append(results, fmt.Sprintf("- %s: %s", call.Name, entry.Output))
	}

	return strings.Join(results, "\n")
}
