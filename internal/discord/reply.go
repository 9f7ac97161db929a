package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/cmdargs/pkg/cmd"
)

const (
	EmbedColor = 0xb01e66
	ErrorColor = 0xd9534f
)

// Embed renders a command response.
func Embed(r cmd.Response) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       r.Title,
		Description: r.Text,
		Color:       EmbedColor,
	}
	if r.Error {
		e.Color = ErrorColor
	}
	for _, f := range r.Fields {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return e
}

// ChannelResponder answers a prefix command with a reply in its channel.
// Messages cannot be ephemeral, so Response.Ephemeral is ignored.
type ChannelResponder struct {
	Session   *discordgo.Session
	ChannelID string
	ReplyTo   *discordgo.MessageReference
}

func (c *ChannelResponder) Respond(ctx context.Context, r cmd.Response) error {
	_, err := c.Session.ChannelMessageSendComplex(c.ChannelID, &discordgo.MessageSend{
		Embeds:    []*discordgo.MessageEmbed{Embed(r)},
		Reference: c.ReplyTo,
	}, discordgo.WithContext(ctx))
	return err
}

// InteractionResponder answers a slash command. The first response completes
// the interaction; later ones are sent as followups.
type InteractionResponder struct {
	Session     *discordgo.Session
	Interaction *discordgo.Interaction

	mu        sync.Mutex
	responded bool
}

func (ir *InteractionResponder) Respond(ctx context.Context, r cmd.Response) error {
	ir.mu.Lock()
	defer ir.mu.Unlock()

	var flags discordgo.MessageFlags
	if r.Ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	embeds := []*discordgo.MessageEmbed{Embed(r)}

	if ir.responded {
		_, err := ir.Session.FollowupMessageCreate(ir.Interaction, true, &discordgo.WebhookParams{
			Embeds: embeds,
			Flags:  flags,
		}, discordgo.WithContext(ctx))
		return err
	}
	err := ir.Session.InteractionRespond(ir.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: embeds, Flags: flags},
	}, discordgo.WithContext(ctx))
	if err == nil {
		ir.responded = true
	}
	return err
}
