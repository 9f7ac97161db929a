package args

import (
	"errors"
	"strconv"
	"strings"
)

// MentionKind selects which mention markers are accepted around an ID.
type MentionKind int

const (
	MentionUser MentionKind = iota
	MentionChannel
	MentionRole
)

var errNotMention = errors.New("not a mention")

// ParseID validates a bare snowflake and returns it in canonical form.
func ParseID(s string) (string, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(id, 10), nil
}

// ParseMention extracts the ID from a bare snowflake or a mention token:
// <@ID> and <@!ID> for users, <#ID> for channels, <@&ID> for roles.
func ParseMention(s string, kind MentionKind) (string, error) {
	if id, err := ParseID(s); err == nil {
		return id, nil
	}
	var prefix string
	switch kind {
	case MentionUser:
		prefix = "<@"
	case MentionChannel:
		prefix = "<#"
	case MentionRole:
		prefix = "<@&"
	}
	inner, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return "", errNotMention
	}
	if kind == MentionUser {
		inner, _ = strings.CutPrefix(inner, "!")
	}
	inner, ok = strings.CutSuffix(inner, ">")
	if !ok {
		return "", errNotMention
	}
	return ParseID(inner)
}
