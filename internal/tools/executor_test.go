package tools

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Rorical/CosmicDialog/internal/models"
)

type recorder struct {
	events []string
	called []models.ToolLogEntry
	done   []models.ToolLogEntry
}

func (r *recorder) ToolCalled(entry models.ToolLogEntry) {
	r.events = append(r.events, "called:"+entry.Tool)
	r.called = append(r.called, entry)
}

func (r *recorder) ToolFinished(entry models.ToolLogEntry) {
	r.events = append(r.events, "finished:"+entry.Tool)
	r.done = append(r.done, entry)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("log-%d", n)
	}
}

func newTestExecutor(opts ...ExecutorOption) *Executor {
	registry := NewRegistry()
	RegisterBuiltinTools(registry, 0)
	base := []ExecutorOption{
		WithWaiter(func(context.Context, time.Duration) {}),
		WithIDGenerator(sequentialIDs()),
	}
	return NewExecutor(registry, append(base, opts...)...)
}

func TestExecutor_RunSequential(t *testing.T) {
	rec := &recorder{}
	exec := newTestExecutor()

	calls := Classify("search 2+2 and save it")
	summary := exec.Run(context.Background(), calls, rec)

	assert.Equal(t, []string{
		"called:" + WebSearch, "finished:" + WebSearch,
		"called:" + MathCalculate, "finished:" + MathCalculate,
		"called:" + MemorySave, "finished:" + MemorySave,
	}, rec.events)

	for i, entry := range rec.called {
		assert.Equal(t, models.StatusCalled, entry.Status)
		assert.Empty(t, entry.Output)
		assert.Equal(t, entry.ID, rec.done[i].ID)
		assert.Equal(t, models.StatusSuccess, rec.done[i].Status)
	}

	assert.Equal(t, "- web.search: Searched the web for: \"search 2+2 and save it\" and compiled 3 results.\n"+
		"- math.calculate: 4\n"+
		"- memory.save: Saved a short note to local memory (demo).", summary)
}

func TestExecutor_EmptyCalls(t *testing.T) {
	rec := &recorder{}
	summary := newTestExecutor().Run(context.Background(), nil, rec)
	assert.Empty(t, summary)
	assert.Empty(t, rec.events)
}

func TestExecutor_WaitsLatencyPerCall(t *testing.T) {
	var waits []time.Duration
	exec := newTestExecutor(
		WithLatency(25*time.Millisecond),
		WithWaiter(func(_ context.Context, d time.Duration) { waits = append(waits, d) }),
	)

	exec.Run(context.Background(), Classify("calc 1+1 and note it"), nil)
	assert.Equal(t, []time.Duration{25 * time.Millisecond, 25 * time.Millisecond}, waits)
}

func TestExecutor_CancelledContextStillFinalises(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recorder{}
	registry := NewRegistry()
	RegisterBuiltinTools(registry, 0)
	exec := NewExecutor(registry, WithLatency(time.Hour))

	start := time.Now()
	exec.Run(ctx, Classify("remember this"), rec)

	assert.Less(t, time.Since(start), time.Second)
	require.Len(t, rec.done, 1)
	assert.Equal(t, models.StatusSuccess, rec.done[0].Status)
}

type failingTool struct{}

func (failingTool) Name() string        { return "broken.tool" }
func (failingTool) Description() string { return "always fails" }
func (failingTool) Run(context.Context, string) (string, error) {
	return "", errors.New("backend unavailable")
}

func TestExecutor_ToolErrorMarksEntry(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rec := &recorder{}
	exec := newTestExecutor(WithLogger(zap.New(core)))
	exec.registry.Register(failingTool{})

	summary := exec.Run(context.Background(), []models.ToolInvocation{{Name: "broken.tool", Arguments: "x"}}, rec)

	require.Len(t, rec.done, 1)
	assert.Equal(t, models.StatusError, rec.done[0].Status)
	assert.Equal(t, "backend unavailable", rec.done[0].Output)
	assert.Equal(t, "- broken.tool: backend unavailable", summary)
	assert.Equal(t, 1, logs.FilterMessage("Tool failed").Len())
}

func TestSleep(t *testing.T) {
	start := time.Now()
	Sleep(context.Background(), 10*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	Sleep(context.Background(), 0)
}
