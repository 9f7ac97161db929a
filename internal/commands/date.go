package commands

import (
	"context"
	"time"

	"github.com/keshon/cmdargs/pkg/cmd"
	"github.com/keshon/cmdargs/pkg/command"
	"github.com/keshon/cmdargs/pkg/util"
)

const dateLayout = "YYYY-MM-DD hh:mm:ss"

func runDate(ctx context.Context, inv *cmd.Invocation, d *Deps) error {
	at := d.Now().UTC()
	title := "Now"
	if offset, ok := command.Get[time.Duration](inv.Result, "duration"); ok {
		at = at.Add(offset)
		title = "In " + offset.String()
	}
	return reply(ctx, inv, title, util.FormatDate(at, dateLayout)+" UTC")
}
