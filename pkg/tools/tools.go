// Package tools holds the operations the server exposes and the adapter that
// turns their failures into protocol errors.
package tools

import (
	"context"
	"fmt"
	"slices"
)

// Handler runs one operation against its raw arguments.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Descriptor is what tools/list advertises for an operation.
type Descriptor struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	InputSchema map[string]any `json:"inputSchema" yaml:"input_schema"`
}

type Operation struct {
	Descriptor
	Handler Handler
}

// Registry is built once at start-up and not modified afterwards, so it is
// safe for concurrent Invoke calls.
type Registry struct {
	ops    []Operation
	byName map[string]int
}

func NewRegistry(ops ...Operation) (*Registry, error) {
	r := &Registry{
		ops:    slices.Clone(ops),
		byName: make(map[string]int, len(ops)),
	}
	for i, op := range r.ops {
		if op.Name == "" || op.Handler == nil {
			return nil, fmt.Errorf("operation %d: name and handler are required", i)
		}
		if _, dup := r.byName[op.Name]; dup {
			return nil, fmt.Errorf("duplicate operation %q", op.Name)
		}
		r.byName[op.Name] = i
	}
	return r, nil
}

// Descriptors lists the operations in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.ops))
	for i, op := range r.ops {
		out[i] = op.Descriptor
	}
	return out
}

// Invoke dispatches name. Any failure is a *ToolError.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (string, error) {
	i, ok := r.byName[name]
	if !ok {
		return "", classify(name, &UnknownOperationError{Name: name})
	}
	if args == nil {
		args = map[string]any{}
	}
	out, err := r.ops[i].Handler(ctx, args)
	if err != nil {
		return "", classify(name, err)
	}
	return out, nil
}
