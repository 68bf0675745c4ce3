package models

import "time"

// Toast is a short-lived notification about a finished tool
type Toast struct {
	Title       string
	Description string
	Expires     time.Time
}

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Messages     []Message      // Transcript snapshot from core
	Logs         []ToolLogEntry // Tool log snapshot from core, newest first
	Status       string         // Status bar text
	Loading      bool           // Busy state from core
	ShowLogs     bool           // Whether the agent console is visible
	Toast        *Toast         // Latest tool notification, if any
	Width        int            // Terminal width
	Height       int            // Terminal height
	ServiceReady bool           // Whether the chat service is running
}
