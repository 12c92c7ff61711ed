package tool

import "fmt"

// DispatchFunc registers intent for one unit of asynchronous work. It
// returns the acknowledgement string relayed to the model and the task ID
// under which the work is tracked. It must be fast and non-blocking.
type DispatchFunc func(args map[string]any) (ack string, taskID string, err error)

// Tool is one named capability in the catalog.
type Tool struct {
	Name        string
	Description string
	Parameters  Schema
	Dispatch    DispatchFunc
}

// Registry is the fixed mapping from tool name to capability, resolved once
// at startup.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry builds a registry from the given tools. Duplicate names are a
// programming error and rejected.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if t.Name == "" {
			return nil, fmt.Errorf("tool name cannot be empty")
		}
		if t.Dispatch == nil {
			return nil, fmt.Errorf("tool %s has no dispatch function", t.Name)
		}
		if _, exists := r.tools[t.Name]; exists {
			return nil, fmt.Errorf("tool %s already registered", t.Name)
		}
		r.tools[t.Name] = t
		r.order = append(r.order, t.Name)
	}
	return r, nil
}

// Get fetches a tool by name.
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return Tool{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t, nil
}

// List returns the tools in registration order, for building the model's
// function declarations and the persona prompt.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Dispatch validates args against the named tool's schema and, on success,
// invokes its dispatch function. Validation failure reports an error and
// registers nothing.
func (r *Registry) Dispatch(name string, args map[string]any) (string, string, error) {
	t, err := r.Get(name)
	if err != nil {
		return "", "", err
	}
	if err := t.Parameters.Validate(args); err != nil {
		return "", "", err
	}
	return t.Dispatch(args)
}
