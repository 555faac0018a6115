package tools

import (
	"context"
	"log/slog"
)

// Tool is a single weather tool.
type Tool interface {
	Name() Name
	Description() string
	// Parameters returns the JSON schema of the arguments.
	Parameters() map[string]any
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// Registry holds the tools by name.
type Registry struct {
	tools map[Name]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[Name]Tool)}
}

// Register adds a tool, replacing any tool with the same name.
func (r *Registry) Register(tool Tool) {
	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		slog.Warn("Tool already registered, overwriting", "name", name)
	}
	r.tools[name] = tool
	slog.Debug("Tool registered", "name", name)
}

// Get returns a tool by name, or nil if not found
func (r *Registry) Get(name Name) Tool {
	return r.tools[name]
}

// All returns the registered tools in catalogue order.
func (r *Registry) All() []Tool {
	all := make([]Tool, 0, len(r.tools))
	for _, name := range Names {
		if tool, ok := r.tools[name]; ok {
			all = append(all, tool)
		}
	}
	return all
}

func (r *Registry) Count() int {
	return len(r.tools)
}

// Descriptor is the catalogue entry served to clients.
type Descriptor struct {
	Name        Name           `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Catalog describes every registered tool.
func (r *Registry) Catalog() []Descriptor {
	tools := r.All()
	out := make([]Descriptor, 0, len(tools))
	for _, tool := range tools {
		out = append(out, Descriptor{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: tool.Parameters(),
		})
	}
	return out
}
