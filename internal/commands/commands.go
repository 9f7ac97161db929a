// Package commands holds the bot's commands: their definitions, embedded as
// YAML, and the handlers that run on parsed results.
package commands

import (
	"context"
	_ "embed"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/keshon/cmdargs/internal/middleware"
	"github.com/keshon/cmdargs/internal/storage"
	"github.com/keshon/cmdargs/pkg/cmd"
	"github.com/keshon/cmdargs/pkg/command"
)

//go:embed commands.yaml
var definitionsYAML []byte

// EmbeddedDefinitions returns the built-in command definitions.
func EmbeddedDefinitions() ([]command.Definition, error) {
	return command.DecodeDefinitionsYAML(definitionsYAML)
}

// Definitions loads definitions from path, or the embedded ones when path
// is empty.
func Definitions(path string) ([]command.Definition, error) {
	if path == "" {
		return EmbeddedDefinitions()
	}
	return command.LoadDefinitionsFile(path)
}

// HistorySource is the read side of command history.
type HistorySource interface {
	FetchCommandHistory(guildID string) ([]storage.CommandHistoryRecord, error)
}

// Deps are the collaborators handlers need. Zero values are usable.
type Deps struct {
	Version string
	Now     func() time.Time
	// Rand seeds dice rolls; nil means the package-level source.
	Rand    *rand.Rand
	History HistorySource
	// Middlewares wrap every command; the first is the outermost.
	Middlewares []cmd.Middleware

	dice intner
}

type handler func(ctx context.Context, inv *cmd.Invocation, d *Deps) error

var handlers = map[string]handler{
	"polecen": runPolecen,
	"date":    runDate,
	"calc":    runCalc,
	"roll":    runRoll,
	"history": runHistory,
	"help":    nil, // bound in Register, needs the registry
}

var guildOnly = map[string]bool{
	"polecen": true,
	"history": true,
}

// Register compiles defs and adds one command per root definition to reg.
// Every root must have a handler.
func Register(reg *cmd.Registry, defs []command.Definition, deps Deps) error {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	deps.dice = newIntner(deps.Rand)
	if deps.Version == "" {
		deps.Version = "dev"
	}
	if _, err := command.NewSet(defs, nil); err != nil {
		return err
	}

	for _, def := range defs {
		h, ok := handlers[def.Name]
		if !ok {
			return fmt.Errorf("command %q has no handler", def.Name)
		}
		if def.Name == "help" {
			h = helpHandler(reg)
		}
		c := cmd.Command(&cmd.Func{
			Def: def,
			RunFunc: func(ctx context.Context, inv *cmd.Invocation) error {
				return h(ctx, inv, &deps)
			},
		})
		mws := deps.Middlewares
		if guildOnly[def.Name] {
			mws = append(mws[:len(mws):len(mws)], middleware.WithGuildOnly())
		}
		reg.Register(cmd.Apply(c, mws...))
	}
	return nil
}

// reply sends a plain response.
func reply(ctx context.Context, inv *cmd.Invocation, title, text string, fields ...cmd.Field) error {
	return inv.Reply(ctx, cmd.Response{Title: title, Text: text, Fields: fields})
}

// refuse answers with an error the user can fix; the command itself did not
// fail.
func refuse(ctx context.Context, inv *cmd.Invocation, text string) error {
	return inv.Reply(ctx, cmd.Response{Title: "Cannot do that", Text: text, Ephemeral: true, Error: true})
}
