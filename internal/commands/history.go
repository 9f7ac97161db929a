package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/cmdargs/pkg/cmd"
	"github.com/keshon/cmdargs/pkg/command"
)

const defaultHistoryLimit = 10

func runHistory(ctx context.Context, inv *cmd.Invocation, d *Deps) error {
	if d.History == nil {
		return refuse(ctx, inv, "History is not kept here.")
	}
	limit := defaultHistoryLimit
	if n, ok := command.Get[uint8](inv.Result, "limit"); ok && n > 0 {
		limit = int(n)
	}

	records, err := d.History.FetchCommandHistory(inv.GuildID)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}
	if len(records) == 0 {
		return reply(ctx, inv, "History", "No commands yet.")
	}
	if len(records) > limit {
		records = records[len(records)-limit:]
	}

	var b strings.Builder
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		name := r.Username
		if name == "" {
			name = r.UserID
		}
		fmt.Fprintf(&b, "`%s` %s by %s", r.Datetime.Format("2006-01-02 15:04"), r.Command, name)
		if r.Error != "" {
			b.WriteString(" (failed)")
		}
		b.WriteByte('\n')
	}
	return reply(ctx, inv, "History", strings.TrimRight(b.String(), "\n"))
}
