package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Rorical/CosmicDialog/internal/eventbus"
	"github.com/Rorical/CosmicDialog/internal/models"
	"github.com/Rorical/CosmicDialog/internal/tools"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func noWait(context.Context, time.Duration) {}

func counter(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestService(t *testing.T, opts Options) *ChatService {
	t.Helper()
	if opts.Waiter == nil {
		opts.Waiter = noWait
	}
	if opts.NewID == nil {
		opts.NewID = counter("id")
	}
	return NewChatService(opts, nil)
}

func roles(messages []models.Message) []models.Role {
	out := make([]models.Role, len(messages))
	for i, m := range messages {
		out[i] = m.Role
	}
	return out
}

func TestRunTurn_MemorySave(t *testing.T) {
	cs := newTestService(t, Options{})
	before := len(cs.Messages())

	require.NoError(t, cs.RunTurn(context.Background(), "remember to buy milk"))

	messages := cs.Messages()
	require.Len(t, messages, before+4)
	assert.Equal(t, []models.Role{models.User, models.Planner, models.Assistant, models.Executor}, roles(messages))

	assert.Equal(t, "remember to buy milk", messages[0].Content)
	assert.Contains(t, messages[1].Content, "(memory.save)")
	assert.Contains(t, messages[3].Content, "Execution Summary:\n- memory.save: Saved a short note to local memory (demo).")
	assert.False(t, messages[2].Pending)
	assert.Contains(t, messages[2].Content, "## Answer")
	assert.Contains(t, messages[2].Content, "- memory.save: Saved a short note")

	logs := cs.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, tools.MemorySave, logs[0].Tool)
	assert.Equal(t, models.StatusSuccess, logs[0].Status)
	assert.Equal(t, "remember to buy milk", logs[0].Input)
	assert.False(t, cs.IsProcessing())
}

func TestRunTurn_NoTools(t *testing.T) {
	cs := newTestService(t, Options{})

	require.NoError(t, cs.RunTurn(context.Background(), "hello"))

	messages := cs.Messages()
	require.Len(t, messages, 4)
	assert.Contains(t, messages[1].Content, "Use appropriate tools (none)")
	assert.Equal(t, "Execution Summary:\n- No tools were necessary", messages[3].Content)
	assert.Contains(t, messages[2].Content, "- No external calls required")
	assert.Empty(t, cs.Logs())
}

func TestRunTurn_TrimsInput(t *testing.T) {
	cs := newTestService(t, Options{})
	require.NoError(t, cs.RunTurn(context.Background(), "   calculate 2+2 \n"))

	messages := cs.Messages()
	assert.Equal(t, "calculate 2+2", messages[0].Content)
	assert.Contains(t, messages[3].Content, "- math.calculate: 4")
}

func TestRunTurn_BlankInputRejected(t *testing.T) {
	cs := newTestService(t, Options{})

	for _, text := range []string{"", "   ", "\n\t "} {
		assert.ErrorIs(t, cs.RunTurn(context.Background(), text), ErrBlankInput)
		assert.ErrorIs(t, cs.Submit(text), ErrBlankInput)
	}
	assert.Empty(t, cs.Messages())
	assert.Empty(t, cs.Logs())
	assert.False(t, cs.IsProcessing())
}

// gate blocks the executor's latency wait until released
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}, 8), release: make(chan struct{})}
}

func (g *gate) wait(ctx context.Context, _ time.Duration) {
	g.entered <- struct{}{}
	select {
	case <-g.release:
	case <-ctx.Done():
	}
}

func TestSubmit_BusyRejected(t *testing.T) {
	g := newGate()
	cs := newTestService(t, Options{Waiter: g.wait})
	defer cs.Stop()

	require.NoError(t, cs.Submit("search for cats"))
	<-g.entered

	messagesDuring := cs.Messages()
	logsDuring := cs.Logs()
	require.Len(t, messagesDuring, 3)
	require.Len(t, logsDuring, 1)
	assert.True(t, messagesDuring[2].Pending)
	assert.Equal(t, models.StatusCalled, logsDuring[0].Status)
	assert.False(t, cs.IsReady())

	assert.ErrorIs(t, cs.Submit("remember this"), ErrBusy)
	assert.ErrorIs(t, cs.RunTurn(context.Background(), "calc 1+1"), ErrBusy)
	assert.Equal(t, messagesDuring, cs.Messages())
	assert.Equal(t, logsDuring, cs.Logs())

	close(g.release)
	require.Eventually(t, func() bool { return !cs.IsProcessing() }, time.Second, 5*time.Millisecond)

	assert.Len(t, cs.Messages(), 4)
	assert.Equal(t, models.StatusSuccess, cs.Logs()[0].Status)
	assert.NoError(t, cs.RunTurn(context.Background(), "remember this"))
}

func TestClear_DuringTurn(t *testing.T) {
	g := newGate()
	cs := newTestService(t, Options{Waiter: g.wait})
	defer cs.Stop()

	require.NoError(t, cs.Submit("search for cats"))
	<-g.entered

	cs.Clear()
	assert.Empty(t, cs.Messages())
	assert.Empty(t, cs.Logs())
	assert.True(t, cs.IsProcessing())
	assert.ErrorIs(t, cs.Submit("remember this"), ErrBusy)

	close(g.release)
	require.Eventually(t, func() bool { return !cs.IsProcessing() }, time.Second, 5*time.Millisecond)

	// Only the executor message lands; the cleared placeholder and log entry stay gone
	messages := cs.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, models.Executor, messages[0].Role)
	assert.Contains(t, messages[0].Content, "- web.search: Searched the web for: \"search for cats\"")
	assert.Empty(t, cs.Logs())

	require.NoError(t, cs.RunTurn(context.Background(), "hello"))
	assert.Len(t, cs.Messages(), 5)
}

func TestRunTurn_LogsNewestFirst(t *testing.T) {
	cs := newTestService(t, Options{NewID: counter("x")})

	require.NoError(t, cs.RunTurn(context.Background(), "search 2+2 and save it"))

	logs := cs.Logs()
	require.Len(t, logs, 3)
	assert.Equal(t, []string{tools.MemorySave, tools.MathCalculate, tools.WebSearch},
		[]string{logs[0].Tool, logs[1].Tool, logs[2].Tool})
	for _, entry := range logs {
		assert.Equal(t, models.StatusSuccess, entry.Status)
	}
}

func TestRunTurn_SequentialToolLifecycle(t *testing.T) {
	obs := &struct {
		mu     sync.Mutex
		events []string
	}{}
	var cs *ChatService
	cs = newTestService(t, Options{
		Notify: func(tool, output string) {
			obs.mu.Lock()
			defer obs.mu.Unlock()
			// the entry is final before anyone hears about it
			for _, entry := range cs.Logs() {
				if entry.Tool == tool {
					assert.Equal(t, models.StatusSuccess, entry.Status)
				}
			}
			obs.events = append(obs.events, tool)
		},
	})

	require.NoError(t, cs.RunTurn(context.Background(), "google 3*3 then note it"))
	assert.Equal(t, []string{tools.WebSearch, tools.MathCalculate, tools.MemorySave}, obs.events)
}

func TestClear(t *testing.T) {
	cs := newTestService(t, Options{Greeting: "welcome back"})
	cs.Greet()
	require.NoError(t, cs.RunTurn(context.Background(), "search go"))
	require.NoError(t, cs.RunTurn(context.Background(), "calc 1+2"))

	cs.Clear()
	assert.Empty(t, cs.Messages())
	assert.Empty(t, cs.Logs())

	require.NoError(t, cs.RunTurn(context.Background(), "hello"))
	assert.Len(t, cs.Messages(), 4, "clear must not reseed the greeting")
}

func TestGreet(t *testing.T) {
	cs := newTestService(t, Options{Greeting: "hi there"})
	cs.Greet()

	messages := cs.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, models.Assistant, messages[0].Role)
	assert.Equal(t, "hi there", messages[0].Content)

	silent := newTestService(t, Options{})
	silent.Greet()
	assert.Empty(t, silent.Messages())
}

func TestUniqueIDs(t *testing.T) {
	cs := NewChatService(Options{Waiter: noWait}, nil)
	require.NoError(t, cs.RunTurn(context.Background(), "search 1+1 and save"))
	require.NoError(t, cs.RunTurn(context.Background(), "search 1+1 and save"))

	seen := map[string]bool{}
	for _, m := range cs.Messages() {
		assert.False(t, seen[m.ID], "duplicate id %s", m.ID)
		seen[m.ID] = true
	}
	for _, l := range cs.Logs() {
		assert.False(t, seen[l.ID], "duplicate id %s", l.ID)
		seen[l.ID] = true
	}
	assert.Len(t, seen, 8+6)
}

func TestEventLoop_PushesSnapshots(t *testing.T) {
	eb := eventbus.NewEventBus()
	cs := NewChatService(Options{Waiter: noWait, Greeting: "welcome"}, eb)
	cs.Greet()
	cs.Start()

	require.NoError(t, eb.SendToCore(eventbus.SendMessageEvent{Message: "remember milk"}))

	var finished []eventbus.ToolFinishedEvent
	var last eventbus.StateUpdateEvent
	require.Eventually(t, func() bool {
		for {
			select {
			case ev := <-eb.CoreToUI():
				switch e := ev.(type) {
				case eventbus.StateUpdateEvent:
					last = e
				case eventbus.ToolFinishedEvent:
					finished = append(finished, e)
				}
			default:
				return len(last.Messages) == 5 && !last.IsProcessing
			}
		}
	}, time.Second, 5*time.Millisecond)

	require.Len(t, finished, 1)
	assert.Equal(t, tools.MemorySave, finished[0].Tool)
	require.Len(t, last.Logs, 1)

	require.NoError(t, eb.SendToCore(eventbus.SendMessageEvent{Message: "   "}))
	require.Eventually(t, func() bool {
		select {
		case ev := <-eb.CoreToUI():
			e, ok := ev.(eventbus.StateUpdateEvent)
			return ok && e.Error != nil
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, eb.SendToCore(eventbus.ClearEvent{}))
	require.Eventually(t, func() bool { return len(cs.Messages()) == 0 }, time.Second, 5*time.Millisecond)

	cs.Stop()
	eb.Close()
}

func TestStop_FinishesInFlightTurn(t *testing.T) {
	cs := NewChatService(Options{Latency: time.Hour}, nil)
	require.NoError(t, cs.Submit("search everything"))

	cs.Stop()

	assert.False(t, cs.IsProcessing())
	require.Len(t, cs.Logs(), 1)
	assert.Equal(t, models.StatusSuccess, cs.Logs()[0].Status)
}

func TestService_LogsTurns(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cs := newTestService(t, Options{Logger: zap.New(core)})

	require.NoError(t, cs.RunTurn(context.Background(), "hello"))
	assert.Equal(t, 1, logs.FilterMessage("Turn started").Len())
	assert.Equal(t, 1, logs.FilterMessage("Turn finished").Len())
}
