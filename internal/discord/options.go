package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/keshon/cmdargs/pkg/command"
)

// InteractionOptions converts slash command data into the named payload the
// parser reads. Users, members, channels and roles are taken from the
// resolved data, so the parser needs no lookups for them.
func InteractionOptions(data discordgo.ApplicationCommandInteractionData, guildID string) []command.Option {
	return convertOptions(data.Options, data.Resolved, guildID)
}

func convertOptions(opts []*discordgo.ApplicationCommandInteractionDataOption, res *discordgo.ApplicationCommandInteractionDataResolved, guildID string) []command.Option {
	out := make([]command.Option, 0, len(opts))
	for _, o := range opts {
		opt := command.Option{Name: o.Name}
		switch o.Type {
		case discordgo.ApplicationCommandOptionSubCommand, discordgo.ApplicationCommandOptionSubCommandGroup:
			opt.Options = convertOptions(o.Options, res, guildID)
		default:
			opt.Value = resolvedValue(o, res, guildID)
		}
		out = append(out, opt)
	}
	return out
}

func resolvedValue(o *discordgo.ApplicationCommandInteractionDataOption, res *discordgo.ApplicationCommandInteractionDataResolved, guildID string) any {
	id, isID := o.Value.(string)
	if res == nil || !isID {
		return o.Value
	}
	switch o.Type {
	case discordgo.ApplicationCommandOptionUser, discordgo.ApplicationCommandOptionMentionable:
		user := res.Users[id]
		if m, ok := res.Members[id]; ok && user != nil {
			// Resolved members come without their user.
			mc := *m
			mc.User = user
			mc.GuildID = guildID
			return &mc
		}
		if user != nil {
			return user
		}
		if r, ok := res.Roles[id]; ok {
			return r
		}
	case discordgo.ApplicationCommandOptionChannel:
		if ch, ok := res.Channels[id]; ok {
			if ch.GuildID == "" && guildID != "" && ch.Type != discordgo.ChannelTypeDM && ch.Type != discordgo.ChannelTypeGroupDM {
				cc := *ch
				cc.GuildID = guildID
				return &cc
			}
			return ch
		}
	case discordgo.ApplicationCommandOptionRole:
		if r, ok := res.Roles[id]; ok {
			return r
		}
	}
	return o.Value
}
