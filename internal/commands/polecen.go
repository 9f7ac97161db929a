package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/cmdargs/pkg/cmd"
	"github.com/keshon/cmdargs/pkg/command"
)

func runPolecen(ctx context.Context, inv *cmd.Invocation, d *Deps) error {
	sub := inv.Result.Sub
	if sub == nil {
		return fmt.Errorf("polecen: no subcommand in result")
	}
	switch sub.Name {
	case "perform":
		target, _ := command.Get[*discordgo.Member](sub, "target")
		action, _ := command.Get[string](sub, "action")
		var fields []cmd.Field
		if reason, ok := command.Get[string](sub, "reason"); ok {
			fields = append(fields, cmd.Field{Name: "Reason", Value: reason})
		}
		return reply(ctx, inv, "Perform", fmt.Sprintf("**%s** on %s", action, memberLabel(target)), fields...)
	case "version":
		return reply(ctx, inv, "Version", d.Version)
	}
	return fmt.Errorf("polecen: unknown subcommand %q", sub.Name)
}

func memberLabel(m *discordgo.Member) string {
	if m == nil || m.User == nil {
		return "nobody"
	}
	return fmt.Sprintf("%s (%s)", m.User.Mention(), m.DisplayName())
}
