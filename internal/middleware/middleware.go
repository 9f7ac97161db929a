// Package middleware holds cross-cutting command wrappers.
package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/keshon/cmdargs/internal/storage"
	"github.com/keshon/cmdargs/pkg/cmd"
	"github.com/rs/zerolog/log"
)

// WithGuildOnly refuses invocations made outside a guild.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if inv.GuildID == "" {
				return inv.Reply(ctx, cmd.Response{
					Title:     "Guild only",
					Text:      "This command can only be used in a server.",
					Ephemeral: true,
					Error:     true,
				})
			}
			return c.Run(ctx, inv)
		})
	}
}

// HistoryRecorder is the write side of command history.
type HistoryRecorder interface {
	AppendCommandToHistory(guildID string, rec storage.CommandHistoryRecord) error
}

// WithCommandLogger logs every run and, for guild invocations, appends it to
// the guild's history.
func WithCommandLogger(rec HistoryRecorder) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			start := time.Now()
			err := c.Run(ctx, inv)

			path := c.Name()
			if inv.Result != nil {
				path = strings.Join(inv.Result.Path(), " ")
			}
			ev := log.Info()
			if err != nil {
				ev = log.Error().Err(err)
			}
			ev.Str("command", path).
				Str("source", string(inv.Source)).
				Str("guild", inv.GuildID).
				Str("channel", inv.ChannelID).
				Str("user", inv.UserID).
				Dur("took", time.Since(start)).
				Msg("command run")

			if rec != nil && inv.GuildID != "" {
				h := storage.CommandHistoryRecord{
					ChannelID: inv.ChannelID,
					UserID:    inv.UserID,
					Username:  inv.Username,
					Source:    string(inv.Source),
					Command:   path,
					Line:      inv.Line,
					Datetime:  start.UTC(),
				}
				if err != nil {
					h.Error = err.Error()
				}
				if herr := rec.AppendCommandToHistory(inv.GuildID, h); herr != nil {
					log.Warn().Err(herr).Str("command", path).Msg("failed to record command history")
				}
			}
			return err
		})
	}
}
