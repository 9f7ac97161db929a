package cmd

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/keshon/cmdargs/pkg/args"
	"github.com/keshon/cmdargs/pkg/command"
)

// Registry stores commands by name. Adapters build a command.Set from its
// definitions, parse input with it and Dispatch the result.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds a command, replacing any command with the same name.
func (r *Registry) Register(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[c.Name()] = c
}

// Get returns the command with the given name, or nil.
func (r *Registry) Get(name string) Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commands[name]
}

// GetAll returns all registered commands, sorted by name.
func (r *Registry) GetAll() []Command {
	r.mu.RLock()
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	r.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}

// Definitions returns the definitions of all commands, sorted by name.
func (r *Registry) Definitions() []command.Definition {
	cmds := r.GetAll()
	defs := make([]command.Definition, len(cmds))
	for i, c := range cmds {
		defs[i] = c.Definition()
	}
	return defs
}

// Set compiles every definition into a command.Set.
func (r *Registry) Set(reg *args.Registry) (*command.Set, error) {
	return command.NewSet(r.Definitions(), reg)
}

// Dispatch runs the command named by the root of inv.Result.
func (r *Registry) Dispatch(ctx context.Context, inv *Invocation) error {
	if inv.Result == nil {
		return fmt.Errorf("dispatch: invocation has no parsed result")
	}
	c := r.Get(inv.Result.Name)
	if c == nil {
		return fmt.Errorf("dispatch: unknown command %q", inv.Result.Name)
	}
	return c.Run(ctx, inv)
}
