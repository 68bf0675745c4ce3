package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/CosmicDialog/internal/eventbus"
	"github.com/Rorical/CosmicDialog/internal/update"
)

func TestListenForCoreEvents(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()
	ed := NewEventDispatcher(eb)
	defer ed.Stop()

	require.NoError(t, eb.SendToUI(eventbus.ToolFinishedEvent{Tool: "web.search"}))

	msg := ed.ListenForCoreEvents()()
	coreMsg, ok := msg.(update.CoreEventMsg)
	require.True(t, ok)
	assert.Equal(t, eventbus.ToolFinishedEvent{Tool: "web.search"}, coreMsg.Event)
}

func TestListenForCoreEventsStops(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()
	ed := NewEventDispatcher(eb)

	ed.Stop()
	assert.Nil(t, ed.ListenForCoreEvents()())
}

func TestListenForCoreEventsClosedBus(t *testing.T) {
	eb := eventbus.NewEventBus()
	ed := NewEventDispatcher(eb)
	defer ed.Stop()

	eb.Close()
	assert.Nil(t, ed.ListenForCoreEvents()())
}
