// Package cmd is the transport-agnostic command core of the host: a command
// has a definition and a Run(ctx, invocation). How input reaches it (prefix
// message, slash interaction, CLI) is decided by adapters, which parse the
// input against the definition and hand over the result.
package cmd

import (
	"context"
	"errors"

	"github.com/keshon/cmdargs/pkg/command"
)

// Source names the adapter an invocation came from.
type Source string

const (
	SourcePrefix Source = "prefix"
	SourceSlash  Source = "slash"
	SourceCLI    Source = "cli"
)

// ErrNoResponder is returned by Invocation.Reply when the adapter gave no
// way to answer.
var ErrNoResponder = errors.New("invocation has no responder")

// Invocation is one parsed call of a command. Adapters set Data to their own
// context (e.g. *discordgo.Session plus the event).
type Invocation struct {
	Result    *command.Result
	Source    Source
	Line      string
	GuildID   string
	ChannelID string
	UserID    string
	Username  string
	Responder Responder
	Data      any
}

// Reply answers the invocation through its responder.
func (inv *Invocation) Reply(ctx context.Context, r Response) error {
	if inv.Responder == nil {
		return ErrNoResponder
	}
	return inv.Responder.Respond(ctx, r)
}

// Field is a titled block of a Response.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Response is what a command answers with. Adapters decide the rendering:
// Discord sends an embed, the CLI prints text.
type Response struct {
	Title     string
	Text      string
	Fields    []Field
	Ephemeral bool
	Error     bool
}

// Responder delivers a Response back to whoever invoked the command.
type Responder interface {
	Respond(ctx context.Context, r Response) error
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, r Response) error

func (f ResponderFunc) Respond(ctx context.Context, r Response) error { return f(ctx, r) }

// Command is the universal contract: a declarative definition plus execution.
type Command interface {
	Name() string
	Description() string
	Definition() command.Definition
	Run(ctx context.Context, inv *Invocation) error
}

// Func is a Command built from a definition and a function.
type Func struct {
	Def     command.Definition
	RunFunc func(ctx context.Context, inv *Invocation) error
}

func (f *Func) Name() string { return f.Def.Name }
func (f *Func) Description() string { return f.Def.Description }
func (f *Func) Definition() command.Definition { return f.Def }

func (f *Func) Run(ctx context.Context, inv *Invocation) error {
	return f.RunFunc(ctx, inv)
}
