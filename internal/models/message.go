package models

import "time"

type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
	Planner   Role = "planner"
	Executor  Role = "executor"
	System    Role = "system"
)

// Label is the speaker name shown above a message
func (r Role) Label() string {
	switch r {
	case User:
		return "You"
	case Assistant:
		return "AI"
	case Planner:
		return "Planner"
	case Executor:
		return "Executor"
	case System:
		return "System"
	}
	return string(r)
}

type Message struct {
	ID        string
	Role      Role
	Content   string // Raw markdown
	Timestamp time.Time
	Pending   bool // Placeholder whose content is not final yet
}

// ClockFormat is the display format for message and log timestamps
const ClockFormat = "15:04"

func FormatClock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(ClockFormat)
}
