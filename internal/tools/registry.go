package tools

import (
	"context"
	"sort"
	"sync"
)

// DefaultOutput is reported for tool names nothing is registered under
const DefaultOutput = "(demo) complete"

// Tool is a simulated action the agent can "run"
type Tool interface {
	Name() string
	Description() string
	Run(ctx context.Context, args string) (string, error)
}

// Registry manages available tools
type Registry struct {
	tools map[string]Tool
	mu    sync.RWMutex
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry, replacing any tool with the same name
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name()] = tool
}

// GetTool retrieves a tool by name
func (r *Registry) GetTool(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, exists := r.tools[name]
	return tool, exists
}

// ListTools returns all registered tools ordered by name
func (r *Registry) ListTools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name() < tools[j].Name()
	})
	return tools
}

// Execute runs the named tool. Unknown names complete with DefaultOutput.
func (r *Registry) Execute(ctx context.Context, name, args string) (string, error) {
	tool, exists := r.GetTool(name)
	if !exists {
		return DefaultOutput, nil
	}
	return tool.Run(ctx, args)
}
