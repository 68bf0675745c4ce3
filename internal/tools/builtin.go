package tools

import (
	"context"
	"fmt"

	"github.com/Rorical/CosmicDialog/internal/calc"
)

const (
	WebSearch     = "web.search"
	MathCalculate = "math.calculate"
	MemorySave    = "memory.save"
)

// DefaultSearchResults is how many results the simulated search claims
const DefaultSearchResults = 3

// WebSearchTool pretends to search the web
type WebSearchTool struct {
	Results int
}

func (w *WebSearchTool) Name() string {
	return WebSearch
}

func (w *WebSearchTool) Description() string {
	return "Search the web and compile results (simulated)"
}

func (w *WebSearchTool) Run(ctx context.Context, args string) (string, error) {
	return fmt.Sprintf("Searched the web for: \"%s\" and compiled %d results.", args, w.Results), nil
}

// CalculateTool evaluates an arithmetic expression
type CalculateTool struct{}

func (c *CalculateTool) Name() string {
	return MathCalculate
}

func (c *CalculateTool) Description() string {
	return "Evaluate an arithmetic expression with + - * / and parentheses"
}

func (c *CalculateTool) Run(ctx context.Context, args string) (string, error) {
	return calc.Evaluate(args), nil
}

// MemorySaveTool pretends to store a note
type MemorySaveTool struct{}

func (m *MemorySaveTool) Name() string {
	return MemorySave
}

func (m *MemorySaveTool) Description() string {
	return "Save a short note to memory (simulated)"
}

func (m *MemorySaveTool) Run(ctx context.Context, args string) (string, error) {
	return "Saved a short note to local memory (demo).", nil
}

// RegisterBuiltinTools registers the simulated tools the classifier can emit.
// searchResults <= 0 uses DefaultSearchResults.
func RegisterBuiltinTools(registry *Registry, searchResults int) {
	if searchResults <= 0 {
		searchResults = DefaultSearchResults
	}
	registry.Register(&WebSearchTool{Results: searchResults})
	registry.Register(&CalculateTool{})
	registry.Register(&MemorySaveTool{})
}
