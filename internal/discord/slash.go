package discord

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/cmdargs/pkg/args"
	"github.com/keshon/cmdargs/pkg/command"
)

const maxDescription = 100

var slashName = regexp.MustCompile(`^[-_\p{Ll}\p{Lo}\p{N}]{1,32}$`)

// SlashCommand converts a compiled root into a chat command. Parents become
// subcommands and subcommand groups; Discord allows two such levels below
// the root. Only canonical names are registered.
func SlashCommand(root *command.Node) (*discordgo.ApplicationCommand, error) {
	if !slashName.MatchString(root.Name()) {
		return nil, fmt.Errorf("slash command %q: invalid name", root.Name())
	}
	ac := &discordgo.ApplicationCommand{
		Type:        discordgo.ChatApplicationCommand,
		Name:        root.Name(),
		Description: description(root.Description(), root.Name()),
	}
	var err error
	if root.IsParent() {
		ac.Options, err = subcommandOptions(root, 0)
	} else {
		ac.Options, err = argumentOptions(root)
	}
	if err != nil {
		return nil, fmt.Errorf("slash command %q: %w", root.Name(), err)
	}
	return ac, nil
}

func subcommandOptions(parent *command.Node, depth int) ([]*discordgo.ApplicationCommandOption, error) {
	var out []*discordgo.ApplicationCommandOption
	for _, child := range parent.Children() {
		if !slashName.MatchString(child.Name()) {
			return nil, fmt.Errorf("subcommand %q: invalid name", child.Name())
		}
		opt := &discordgo.ApplicationCommandOption{
			Name:        child.Name(),
			Description: description(child.Description(), child.Name()),
		}
		var err error
		if child.IsParent() {
			if depth > 0 {
				return nil, fmt.Errorf("subcommand %q: nested too deep", child.Name())
			}
			opt.Type = discordgo.ApplicationCommandOptionSubCommandGroup
			opt.Options, err = subcommandOptions(child, depth+1)
		} else {
			opt.Type = discordgo.ApplicationCommandOptionSubCommand
			opt.Options, err = argumentOptions(child)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, opt)
	}
	return out, nil
}

func argumentOptions(leaf *command.Node) ([]*discordgo.ApplicationCommandOption, error) {
	var out []*discordgo.ApplicationCommandOption
	for _, a := range leaf.Arguments() {
		if !slashName.MatchString(a.Name) {
			return nil, fmt.Errorf("argument %q: invalid name", a.Name)
		}
		opt := &discordgo.ApplicationCommandOption{
			Type:        OptionType(a.Type),
			Name:        a.Name,
			Description: description(a.Description, a.Name),
			Required:    a.Required,
		}
		if a.Type == args.TypeGuildChannel {
			opt.ChannelTypes = []discordgo.ChannelType{
				discordgo.ChannelTypeGuildText,
				discordgo.ChannelTypeGuildVoice,
				discordgo.ChannelTypeGuildNews,
				discordgo.ChannelTypeGuildForum,
			}
		}
		out = append(out, opt)
	}
	return out, nil
}

// OptionType maps an argument type to the option type Discord should collect.
// Types without a native counterpart are collected as strings and parsed
// like text.
func OptionType(t args.TypeID) discordgo.ApplicationCommandOptionType {
	switch t {
	case args.TypeInt, args.TypeInt8, args.TypeInt16, args.TypeInt32, args.TypeInt64,
		args.TypeUint, args.TypeUint8, args.TypeUint16, args.TypeUint32, args.TypeUint64:
		return discordgo.ApplicationCommandOptionInteger
	case args.TypeFloat32, args.TypeFloat64:
		return discordgo.ApplicationCommandOptionNumber
	case args.TypeBool:
		return discordgo.ApplicationCommandOptionBoolean
	case args.TypeUser, args.TypeMember:
		return discordgo.ApplicationCommandOptionUser
	case args.TypeChannel, args.TypeGuildChannel:
		return discordgo.ApplicationCommandOptionChannel
	case args.TypeRole:
		return discordgo.ApplicationCommandOptionRole
	default:
		return discordgo.ApplicationCommandOptionString
	}
}

func description(desc, name string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		desc = name
	}
	if utf8.RuneCountInString(desc) > maxDescription {
		r := []rune(desc)
		desc = string(r[:maxDescription-1]) + "…"
	}
	return desc
}
