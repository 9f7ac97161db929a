package cmd

import "context"

// Middleware wraps a command (history logging, permission checks).
type Middleware func(Command) Command

// Apply applies middlewares in order; the first in the list is the outermost.
func Apply(c Command, mws ...Middleware) Command {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}
	return c
}

// Unwrappable is implemented by wrapped commands so adapters can reach the
// underlying command.
type Unwrappable interface {
	Command
	Unwrap() Command
}

// Wrapped replaces the Run of an inner command and delegates everything else.
type Wrapped struct {
	Command
	RunFunc func(ctx context.Context, inv *Invocation) error
}

func (w *Wrapped) Run(ctx context.Context, inv *Invocation) error {
	if w.RunFunc != nil {
		return w.RunFunc(ctx, inv)
	}
	return w.Command.Run(ctx, inv)
}

// Unwrap returns the inner command.
func (w *Wrapped) Unwrap() Command { return w.Command }

// Wrap returns a command that runs run instead of c.Run.
func Wrap(c Command, run func(ctx context.Context, inv *Invocation) error) Command {
	return &Wrapped{Command: c, RunFunc: run}
}

// Root unwraps a command until the underlying command is not Unwrappable.
func Root(c Command) Command {
	for {
		u, ok := c.(Unwrappable)
		if !ok {
			return c
		}
		c = u.Unwrap()
	}
}
