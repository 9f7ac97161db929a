package discord

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/cmdargs/internal/commands"
	"github.com/keshon/cmdargs/pkg/args"
	"github.com/keshon/cmdargs/pkg/cmd"
	"github.com/keshon/cmdargs/pkg/command"
	"github.com/rs/zerolog/log"
)

// prefixLine returns the command line of a prefix message.
func prefixLine(content, prefix string) (string, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", false
	}
	return content[len(prefix):], true
}

// firstToken returns the first token of line, as the parser would see it.
func firstToken(line string) string {
	for tok := range args.Split(line) {
		return tok
	}
	return ""
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}
	if m.GuildID != "" && b.cfg.Blacklisted(m.GuildID) {
		return
	}
	line, ok := prefixLine(m.Content, b.cfg.CommandPrefix)
	if !ok {
		return
	}
	// Other bots may share the prefix; only lines naming one of ours count.
	root, ok := b.set.Lookup(firstToken(line))
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	responder := &ChannelResponder{Session: s, ChannelID: m.ChannelID, ReplyTo: m.Reference()}
	res, err := b.set.ParseLine(ctx, line, args.NewContext(b.dir, m.GuildID))
	if err != nil {
		b.replyParseError(ctx, responder, err, root)
		return
	}

	b.dispatch(ctx, &cmd.Invocation{
		Result:    res,
		Source:    cmd.SourcePrefix,
		Line:      line,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		UserID:    m.Author.ID,
		Username:  m.Author.Username,
		Responder: responder,
		Data:      m,
	})
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		log.Debug().Int("type", int(i.Type)).Msg("unhandled interaction type")
		return
	}
	data := i.ApplicationCommandData()
	if data.CommandType != discordgo.ChatApplicationCommand {
		return
	}
	root, ok := b.set.Lookup(data.Name)
	if !ok {
		log.Warn().Str("command", data.Name).Msg("unknown slash command")
		return
	}

	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	user := i.User
	if i.Member != nil && i.Member.User != nil {
		user = i.Member.User
	}
	responder := &InteractionResponder{Session: s, Interaction: i.Interaction}
	opts := InteractionOptions(data, i.GuildID)
	res, err := b.set.ParseOptions(ctx, data.Name, opts, args.NewContext(b.dir, i.GuildID))
	if err != nil {
		b.replyParseError(ctx, responder, err, root)
		return
	}

	inv := &cmd.Invocation{
		Result:    res,
		Source:    cmd.SourceSlash,
		Line:      strings.Join(res.Path(), " "),
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Responder: responder,
		Data:      i,
	}
	if user != nil {
		inv.UserID, inv.Username = user.ID, user.Username
	}
	b.dispatch(ctx, inv)
}

func (b *Bot) replyParseError(ctx context.Context, r cmd.Responder, err error, root *command.Node) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		log.Warn().Err(err).Msg("command parsing cancelled")
		return
	}
	log.Debug().Err(err).Str("command", root.Name()).Msg("invalid command")
	if rerr := r.Respond(ctx, commands.ErrorResponse(err, root)); rerr != nil {
		log.Error().Err(rerr).Msg("failed to send parse error")
	}
}

func (b *Bot) dispatch(ctx context.Context, inv *cmd.Invocation) {
	err := b.registry.Dispatch(ctx, inv)
	if err == nil {
		return
	}
	log.Error().Err(err).Str("command", inv.Result.Name).Msg("error running command")
	rerr := inv.Reply(ctx, cmd.Response{
		Title:     "Something went wrong",
		Text:      "Error running command: " + err.Error(),
		Ephemeral: true,
		Error:     true,
	})
	if rerr != nil {
		log.Error().Err(rerr).Msg("failed to send command error")
	}
}
