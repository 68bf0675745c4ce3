package models

import (
	"strings"
	"time"
)

// ToolInvocation is a classified request to run a named tool
type ToolInvocation struct {
	Name      string
	Arguments string
}

type ToolStatus string

const (
	StatusCalled  ToolStatus = "called"
	StatusSuccess ToolStatus = "success"
	StatusError   ToolStatus = "error"
)

// Final reports whether the status is terminal
func (s ToolStatus) Final() bool {
	return s == StatusSuccess || s == StatusError
}

func (s ToolStatus) Label() string {
	return strings.ToUpper(string(s))
}

// ToolLogEntry records one invocation from start to completion.
// Output is empty until Status is final.
type ToolLogEntry struct {
	ID        string
	Tool      string
	Input     string
	Output    string
	Status    ToolStatus
	Timestamp time.Time
}
