package args

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Raw is a single unparsed argument value: either a text token from a command
// line or an already-decoded value taken from a structured payload.
type Raw struct {
	value any
	text  bool
}

// Text wraps a token produced by Split.
func Text(s string) Raw {
	return Raw{value: s, text: true}
}

// Value wraps a value taken from a structured payload. Strings are treated
// exactly like text tokens.
func Value(v any) Raw {
	_, isString := v.(string)
	return Raw{value: v, text: isString}
}

// String returns the textual form of the value, if it has one.
func (r Raw) String() (string, bool) {
	if !r.text {
		return "", false
	}
	s, _ := r.value.(string)
	return s, true
}

// Any returns the underlying value.
func (r Raw) Any() any { return r.value }

// Directory resolves identifiers to Discord objects. Implementations may
// block on network calls, cache, or rate limit; all of that is opaque to the
// parser. guildID scopes member and role lookups.
type Directory interface {
	User(ctx context.Context, userID string) (*discordgo.User, error)
	Member(ctx context.Context, guildID, userID string) (*discordgo.Member, error)
	Channel(ctx context.Context, channelID string) (*discordgo.Channel, error)
	Role(ctx context.Context, guildID, roleID string) (*discordgo.Role, error)
}

// Context is the read-only per-invocation data handed to every resolver.
type Context struct {
	Directory Directory
	// GuildID is empty outside of a guild.
	GuildID string
}

// NewContext returns a Context for the given directory and guild.
func NewContext(dir Directory, guildID string) Context {
	return Context{Directory: dir, GuildID: guildID}
}
