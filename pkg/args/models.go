package args

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

func registerModels(r *Registry) {
	r.Register(TypeUser, parseUser)
	r.Register(TypeMember, parseMember)
	r.Register(TypeChannel, parseChannel)
	r.Register(TypeGuildChannel, parseGuildChannel)
	r.Register(TypeRole, parseRole)
}

// mentionID pulls an ID out of a text value. ok is false when raw is not text.
func mentionID(raw Raw, kind MentionKind) (string, bool, error) {
	s, ok := raw.String()
	if !ok {
		return "", false, nil
	}
	id, err := ParseMention(s, kind)
	if err != nil {
		return "", true, FormatError(err)
	}
	return id, true, nil
}

func needDirectory(pc Context) error {
	if pc.Directory == nil {
		return ContextError("no directory available", nil)
	}
	return nil
}

func needGuild(pc Context) error {
	if pc.GuildID == "" {
		return ContextError("expected guild", nil)
	}
	return nil
}

func parseUser(ctx context.Context, pc Context, raw Raw) (any, error) {
	switch v := raw.Any().(type) {
	case *discordgo.User:
		return v, nil
	case *discordgo.Member:
		if v.User != nil {
			return v.User, nil
		}
		return nil, TypeError()
	}
	id, ok, err := mentionID(raw, MentionUser)
	if !ok {
		return nil, TypeError()
	}
	if err != nil {
		return nil, err
	}
	if err := needDirectory(pc); err != nil {
		return nil, err
	}
	u, err := pc.Directory.User(ctx, id)
	if err != nil {
		return nil, AsParseError(err)
	}
	return u, nil
}

func parseMember(ctx context.Context, pc Context, raw Raw) (any, error) {
	var id string
	switch v := raw.Any().(type) {
	case *discordgo.Member:
		return v, nil
	case *discordgo.User:
		id = v.ID
	default:
		var ok bool
		var err error
		id, ok, err = mentionID(raw, MentionUser)
		if !ok {
			return nil, TypeError()
		}
		if err != nil {
			return nil, err
		}
	}
	if err := needGuild(pc); err != nil {
		return nil, err
	}
	if err := needDirectory(pc); err != nil {
		return nil, err
	}
	m, err := pc.Directory.Member(ctx, pc.GuildID, id)
	if err != nil {
		return nil, AsParseError(err)
	}
	return m, nil
}

func parseChannel(ctx context.Context, pc Context, raw Raw) (any, error) {
	if ch, ok := raw.Any().(*discordgo.Channel); ok {
		return ch, nil
	}
	id, ok, err := mentionID(raw, MentionChannel)
	if !ok {
		return nil, TypeError()
	}
	if err != nil {
		return nil, err
	}
	if err := needDirectory(pc); err != nil {
		return nil, err
	}
	ch, err := pc.Directory.Channel(ctx, id)
	if err != nil {
		return nil, AsParseError(err)
	}
	return ch, nil
}

func parseGuildChannel(ctx context.Context, pc Context, raw Raw) (any, error) {
	v, err := parseChannel(ctx, pc, raw)
	if err != nil {
		return nil, err
	}
	ch := v.(*discordgo.Channel)
	if ch.GuildID == "" {
		return nil, ContextError("channel does not belong to a guild", nil)
	}
	return ch, nil
}

func parseRole(ctx context.Context, pc Context, raw Raw) (any, error) {
	if role, ok := raw.Any().(*discordgo.Role); ok {
		return role, nil
	}
	id, ok, err := mentionID(raw, MentionRole)
	if !ok {
		return nil, TypeError()
	}
	if err != nil {
		return nil, err
	}
	if err := needGuild(pc); err != nil {
		return nil, err
	}
	if err := needDirectory(pc); err != nil {
		return nil, err
	}
	role, err := pc.Directory.Role(ctx, pc.GuildID, id)
	if err != nil {
		return nil, AsParseError(err)
	}
	return role, nil
}
