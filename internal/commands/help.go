package commands

import (
	"context"
	"strings"
	"sync"

	"github.com/keshon/cmdargs/pkg/cmd"
	"github.com/keshon/cmdargs/pkg/command"
)

// helpHandler compiles the registry's set on first use, once every command
// is registered.
func helpHandler(reg *cmd.Registry) handler {
	compile := sync.OnceValues(func() (*command.Set, error) { return reg.Set(nil) })
	return func(ctx context.Context, inv *cmd.Invocation, _ *Deps) error {
		set, err := compile()
		if err != nil {
			return err
		}
		name, ok := command.Get[string](inv.Result, "command")
		if !ok {
			return reply(ctx, inv, "Available Commands", renderHelp(set.Roots()))
		}
		root, found := set.Lookup(name)
		if !found {
			return refuse(ctx, inv, "No command named `"+name+"`.")
		}
		return reply(ctx, inv, root.Name(), renderHelp([]*command.Node{root}))
	}
}

func renderHelp(roots []*command.Node) string {
	var b strings.Builder
	for _, root := range roots {
		for _, e := range command.Describe(root) {
			b.WriteString("`" + e.Usage + "`")
			if e.Description != "" {
				b.WriteString(" " + e.Description)
			}
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
