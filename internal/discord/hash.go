package discord

import (
	"crypto/sha1"
	"encoding/hex"
	"slices"

	"github.com/bwmarrin/discordgo"
	json "github.com/goccy/go-json"
)

type hashedCommand struct {
	Name        string                           `json:"name"`
	Description string                           `json:"description"`
	Type        discordgo.ApplicationCommandType `json:"type"`
	Options     []hashedOption                   `json:"options,omitempty"`
}

type hashedOption struct {
	Name         string                                 `json:"name"`
	Description  string                                 `json:"description"`
	Type         discordgo.ApplicationCommandOptionType `json:"type"`
	Required     bool                                   `json:"required"`
	ChannelTypes []discordgo.ChannelType                `json:"channel_types,omitempty"`
	Options      []hashedOption                         `json:"options,omitempty"`
}

// hashCommand returns a stable digest of the parts of cmd Discord stores.
// IDs and versions assigned by Discord are left out, so a command read back
// from the API hashes like the one that was sent.
func hashCommand(cmd *discordgo.ApplicationCommand) string {
	typ := cmd.Type
	if typ == 0 {
		typ = discordgo.ChatApplicationCommand
	}
	data, _ := json.Marshal(hashedCommand{
		Name:        cmd.Name,
		Description: cmd.Description,
		Type:        typ,
		Options:     hashOptions(cmd.Options),
	})
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// hashOptions keeps declaration order; reordering options is a change.
func hashOptions(opts []*discordgo.ApplicationCommandOption) []hashedOption {
	if len(opts) == 0 {
		return nil
	}
	out := make([]hashedOption, len(opts))
	for i, o := range opts {
		channelTypes := slices.Clone(o.ChannelTypes)
		slices.Sort(channelTypes)
		out[i] = hashedOption{
			Name:         o.Name,
			Description:  o.Description,
			Type:         o.Type,
			Required:     o.Required,
			ChannelTypes: channelTypes,
			Options:      hashOptions(o.Options),
		}
	}
	return out
}

// hashCommands digests every command by name.
func hashCommands(cmds []*discordgo.ApplicationCommand) map[string]string {
	out := make(map[string]string, len(cmds))
	for _, c := range cmds {
		out[c.Name] = hashCommand(c)
	}
	return out
}
