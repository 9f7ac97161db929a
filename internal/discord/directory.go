package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/cmdargs/pkg/retrylimit"
)

// ErrRoleNotFound is returned when a guild has no role with the given ID.
var ErrRoleNotFound = errors.New("role not found")

// Directory resolves lookups through a session: the state cache first, then
// the REST API. REST calls wait on the limiter and are retried per retry.
type Directory struct {
	s     *discordgo.Session
	lim   *retrylimit.AdaptiveLimiter
	retry retrylimit.Config
}

// NewDirectory returns a Directory over s. lim may be nil.
func NewDirectory(s *discordgo.Session, lim *retrylimit.AdaptiveLimiter, retry retrylimit.Config) *Directory {
	return &Directory{s: s, lim: lim, retry: retry}
}

func (d *Directory) rest(ctx context.Context, call func(opt discordgo.RequestOption) error) error {
	return retrylimit.Do(ctx, d.lim, d.retry, func(ctx context.Context) error {
		return call(discordgo.WithContext(ctx))
	})
}

func (d *Directory) User(ctx context.Context, userID string) (*discordgo.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.s.State != nil && d.s.State.User != nil && d.s.State.User.ID == userID {
		return d.s.State.User, nil
	}
	var u *discordgo.User
	err := d.rest(ctx, func(opt discordgo.RequestOption) (err error) {
		u, err = d.s.User(userID, opt)
		return err
	})
	if err != nil {
		return nil, lookupError("user", userID, err)
	}
	return u, nil
}

func (d *Directory) Member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m, err := d.s.State.Member(guildID, userID); err == nil {
		mc := *m
		mc.GuildID = guildID
		return &mc, nil
	}
	var m *discordgo.Member
	err := d.rest(ctx, func(opt discordgo.RequestOption) (err error) {
		m, err = d.s.GuildMember(guildID, userID, opt)
		return err
	})
	if err != nil {
		return nil, lookupError("member", userID, err)
	}
	if m.GuildID == "" {
		m.GuildID = guildID
	}
	return m, nil
}

func (d *Directory) Channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ch, err := d.s.State.Channel(channelID); err == nil {
		return ch, nil
	}
	var ch *discordgo.Channel
	err := d.rest(ctx, func(opt discordgo.RequestOption) (err error) {
		ch, err = d.s.Channel(channelID, opt)
		return err
	})
	if err != nil {
		return nil, lookupError("channel", channelID, err)
	}
	return ch, nil
}

func (d *Directory) Role(ctx context.Context, guildID, roleID string) (*discordgo.Role, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r, err := d.s.State.Role(guildID, roleID); err == nil {
		return r, nil
	}
	var roles []*discordgo.Role
	err := d.rest(ctx, func(opt discordgo.RequestOption) (err error) {
		roles, err = d.s.GuildRoles(guildID, opt)
		return err
	})
	if err != nil {
		return nil, lookupError("role", roleID, err)
	}
	for _, r := range roles {
		if r.ID == roleID {
			return r, nil
		}
	}
	return nil, fmt.Errorf("role %s: %w", roleID, ErrRoleNotFound)
}

// lookupError keeps context errors as they are so the parser can tell a
// cancelled lookup from a failed one.
func lookupError(kind, id string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if retrylimit.StatusCode(err) == http.StatusNotFound {
		return fmt.Errorf("%s %s: not found", kind, id)
	}
	return fmt.Errorf("%s %s: %w", kind, id, err)
}
