package core

import (
	"sync"
	"time"

	"github.com/Rorical/CosmicDialog/internal/models"
)

// ChatState owns the transcript, the tool log and the busy flag.
// Every mutation goes through one of its methods.
type ChatState struct {
	mu         sync.RWMutex
	messages   []models.Message
	logs       []models.ToolLogEntry // Newest first
	processing bool
}

func NewChatState() *ChatState {
	return &ChatState{
		messages: make([]models.Message, 0),
		logs:     make([]models.ToolLogEntry, 0),
	}
}

// GetMessages returns a copy of the transcript
func (cs *ChatState) GetMessages() []models.Message {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	result := make([]models.Message, len(cs.messages))
	copy(result, cs.messages)
	return result
}

// GetLogs returns a copy of the tool log, newest first
func (cs *ChatState) GetLogs() []models.ToolLogEntry {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	result := make([]models.ToolLogEntry, len(cs.logs))
	copy(result, cs.logs)
	return result
}

func (cs *ChatState) IsProcessing() bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.processing
}

// AddMessage appends a final message
func (cs *ChatState) AddMessage(msg models.Message) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.messages = append(cs.messages, msg)
}

// StartProcessingWithUserMessage marks the state busy and appends the user
// message in one step. It reports false, changing nothing, if a turn is
// already in flight.
func (cs *ChatState) StartProcessingWithUserMessage(msg models.Message) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.processing {
		return false
	}
	cs.processing = true
	cs.messages = append(cs.messages, msg)
	return true
}

// AddPendingMessage appends a placeholder. It reports false if another
// pending message is still outstanding.
func (cs *ChatState) AddPendingMessage(msg models.Message) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for _, m := range cs.messages {
		if m.Pending {
			return false
		}
	}
	msg.Pending = true
	cs.messages = append(cs.messages, msg)
	return true
}

// ResolvePendingMessage replaces the content of the pending message with id,
// clears its flag and refreshes its timestamp. A message that is gone (for
// example after Clear) or already final is left alone.
func (cs *ChatState) ResolvePendingMessage(id, content string, ts time.Time) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for i := range cs.messages {
		if cs.messages[i].ID == id && cs.messages[i].Pending {
			cs.messages[i].Content = content
			cs.messages[i].Pending = false
			cs.messages[i].Timestamp = ts
			return true
		}
	}
	return false
}

// AddLog puts a new entry at the front of the log
func (cs *ChatState) AddLog(entry models.ToolLogEntry) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.logs = append([]models.ToolLogEntry{entry}, cs.logs...)
}

// CompleteLog finalises the entry with the same ID. Entries already in a
// final state never change again.
func (cs *ChatState) CompleteLog(entry models.ToolLogEntry) bool {
	if !entry.Status.Final() {
		return false
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	for i := range cs.logs {
		if cs.logs[i].ID != entry.ID {
			continue
		}
		if cs.logs[i].Status.Final() {
			return false
		}
		cs.logs[i].Status = entry.Status
		cs.logs[i].Output = entry.Output
		cs.logs[i].Timestamp = entry.Timestamp
		return true
	}
	return false
}

func (cs *ChatState) FinishProcessing() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.processing = false
}

// Clear drops the transcript and the log. The busy flag is untouched so an
// in-flight turn still owns it.
func (cs *ChatState) Clear() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.messages = make([]models.Message, 0)
	cs.logs = make([]models.ToolLogEntry, 0)
}
