package tools

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrUnknownTool is returned when a name does not resolve to a registered tool.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrDuplicateTool is returned when a tool is registered twice.
	ErrDuplicateTool = errors.New("tool already registered")
)

// Registry maps tool names to their implementations.
// It is filled once at startup and only read afterwards.
type Registry struct {
	tools map[ToolID]Tool
	order []ToolID
}

// NewRegistry creates a registry holding the given tools.
func NewRegistry(items ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[ToolID]Tool, len(items))}
	for _, tool := range items {
		if err := r.Register(tool); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register inserts a tool. Only KnownTools with a handler are accepted.
func (r *Registry) Register(tool Tool) error {
	if tool.Name == "" {
		return errors.New("tool name is empty")
	}
	if !tool.Name.IsKnown() {
		return errors.Wrapf(ErrUnknownTool, "register %q", tool.Name)
	}
	if tool.Handler == nil {
		return errors.Errorf("tool %q has no handler", tool.Name)
	}
	if r.tools == nil {
		r.tools = make(map[ToolID]Tool)
	}
	if _, exists := r.tools[tool.Name]; exists {
		return errors.Wrapf(ErrDuplicateTool, "register %q", tool.Name)
	}
	r.tools[tool.Name] = tool
	r.order = append(r.order, tool.Name)
	return nil
}

// Resolve looks a tool up by exact name.
func (r *Registry) Resolve(name string) (Tool, error) {
	if r != nil {
		if tool, ok := r.tools[ToolID(name)]; ok {
			return tool, nil
		}
	}
	return Tool{}, errors.Wrapf(ErrUnknownTool, "%q", name)
}

// List returns the registered tools in registration order.
func (r *Registry) List() []Tool {
	if r == nil {
		return nil
	}
	items := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		items = append(items, r.tools[name])
	}
	return items
}
