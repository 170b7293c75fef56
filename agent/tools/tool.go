package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ToolHandler defines the tool handler signature.
// A tool receives exactly one string argument and returns one string result.
type ToolHandler func(ctx context.Context, input string) (string, error)

// ToolID names a tool the agent knows how to dispatch.
type ToolID string

const (
	ToolGetWeatherByCityName ToolID = "getWeatherByCityName"
)

// KnownTools lists every ToolID a Registry accepts.
var KnownTools = []ToolID{
	ToolGetWeatherByCityName,
}

// IsKnown reports whether id is one of KnownTools.
func (id ToolID) IsKnown() bool {
	for _, known := range KnownTools {
		if id == known {
			return true
		}
	}
	return false
}

type Tool struct {
	Name        ToolID
	Description string
	Parameters  map[string]any
	Returns     string
	Handler     ToolHandler
}

type Option func(*Tool)

func New(name ToolID, handler ToolHandler, opts ...Option) Tool {
	t := Tool{
		Name:    name,
		Handler: handler,
		Returns: "string",
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func WithDescription(description string) Option {
	return func(t *Tool) {
		t.Description = description
	}
}

func WithParameters(parameters map[string]any) Option {
	return func(t *Tool) {
		t.Parameters = parameters
	}
}

func WithReturns(returns string) Option {
	return func(t *Tool) {
		t.Returns = returns
	}
}

// Call invokes the handler.
func (t Tool) Call(ctx context.Context, input string) (string, error) {
	return t.Handler(ctx, input)
}

// Signature renders the tool as a pseudo function declaration for prompts,
// e.g. "function getWeatherByCityName(city : string) : string".
func (t Tool) Signature() string {
	props, _ := t.Parameters["properties"].(map[string]any)
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	names = orderedParams(names, t.Parameters)

	params := make([]string, 0, len(names))
	for _, name := range names {
		typ := "string"
		if prop, ok := props[name].(map[string]any); ok {
			if s, ok := prop["type"].(string); ok && s != "" {
				typ = s
			}
		}
		params = append(params, fmt.Sprintf("%s : %s", name, typ))
	}
	return fmt.Sprintf("function %s(%s) : %s", t.Name, strings.Join(params, ", "), t.Returns)
}

// orderedParams sorts required parameters first, in declaration order,
// then the rest by name.
func orderedParams(names []string, schema map[string]any) []string {
	required, _ := schema["required"].([]string)
	rank := make(map[string]int, len(required))
	for i, name := range required {
		rank[name] = i
	}
	sort.SliceStable(names, func(i, j int) bool {
		ri, iok := rank[names[i]]
		rj, jok := rank[names[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		case jok:
			return false
		}
		return names[i] < names[j]
	})
	return names
}

func ObjectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func StringProperty(description string) map[string]any {
	prop := map[string]any{
		"type": "string",
	}
	if description != "" {
		prop["description"] = description
	}
	return prop
}
