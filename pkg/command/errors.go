package command

import (
	"errors"
	"fmt"
	"strings"
)

// ReadErrorKind classifies a parse failure.
type ReadErrorKind int

const (
	RequiredArgumentMissing ReadErrorKind = iota + 1
	MissingSubcommand
	UnknownSubcommand
	ValueParseError
)

func (k ReadErrorKind) String() string {
	switch k {
	case RequiredArgumentMissing:
		return "RequiredArgumentMissing"
	case MissingSubcommand:
		return "MissingSubcommand"
	case UnknownSubcommand:
		return "UnknownSubcommand"
	case ValueParseError:
		return "ValueParseError"
	default:
		return fmt.Sprintf("ReadErrorKind(%d)", int(k))
	}
}

var (
	ErrRequiredArgumentMissing = errors.New("required argument missing")
	ErrMissingSubcommand       = errors.New("missing subcommand")
	ErrUnknownSubcommand       = errors.New("unknown subcommand")
	ErrValueParse              = errors.New("argument value could not be parsed")
)

// ReadError reports the first failure met while reading a command line.
// Position is the zero-based index of the offending token.
type ReadError struct {
	Kind     ReadErrorKind
	Position int
	// Name is the argument name for RequiredArgumentMissing and ValueParseError.
	Name string
	// Given is the unmatched token for UnknownSubcommand.
	Given string
	// Err is the resolver error for ValueParseError.
	Err error
}

func (e *ReadError) Error() string {
	switch e.Kind {
	case RequiredArgumentMissing:
		return fmt.Sprintf("required argument %q missing at position %d", e.Name, e.Position)
	case MissingSubcommand:
		return fmt.Sprintf("missing subcommand at position %d", e.Position)
	case UnknownSubcommand:
		return fmt.Sprintf("unknown subcommand %q at position %d", e.Given, e.Position)
	default:
		return fmt.Sprintf("argument %q at position %d: %v", e.Name, e.Position, e.Err)
	}
}

func (e *ReadError) Unwrap() error { return e.Err }

func (e *ReadError) Is(target error) bool {
	switch e.Kind {
	case RequiredArgumentMissing:
		return target == ErrRequiredArgumentMissing
	case MissingSubcommand:
		return target == ErrMissingSubcommand
	case UnknownSubcommand:
		return target == ErrUnknownSubcommand
	case ValueParseError:
		return target == ErrValueParse
	}
	return false
}

// SchemaErrorKind classifies a definition that cannot be compiled.
type SchemaErrorKind int

const (
	OptionalBeforeRequired SchemaErrorKind = iota + 1
	EmptyAliasSet
	AmbiguousNode
	DuplicateArgument
	UnknownType
	MisplacedRest
	InvalidAlias
)

var (
	ErrOptionalBeforeRequired = errors.New("required argument follows an optional one")
	ErrEmptyAliasSet          = errors.New("command has no name")
	ErrAmbiguousNode          = errors.New("ambiguous command node")
	ErrDuplicateArgument      = errors.New("duplicate argument name")
	ErrUnknownType            = errors.New("unknown argument type")
	ErrMisplacedRest          = errors.New("rest argument must be the last argument")
	ErrInvalidAlias           = errors.New("invalid command alias")
)

var schemaSentinels = map[SchemaErrorKind]error{
	OptionalBeforeRequired: ErrOptionalBeforeRequired,
	EmptyAliasSet:          ErrEmptyAliasSet,
	AmbiguousNode:          ErrAmbiguousNode,
	DuplicateArgument:      ErrDuplicateArgument,
	UnknownType:            ErrUnknownType,
	MisplacedRest:          ErrMisplacedRest,
	InvalidAlias:           ErrInvalidAlias,
}

// SchemaError describes why a definition was rejected. Path holds the names
// of the nodes from the root down to the offending one.
type SchemaError struct {
	Kind     SchemaErrorKind
	Path     []string
	Argument string
	Detail   string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString(schemaSentinels[e.Kind].Error())
	if len(e.Path) > 0 {
		fmt.Fprintf(&b, " in %q", strings.Join(e.Path, " "))
	}
	if e.Argument != "" {
		fmt.Fprintf(&b, " (argument %q)", e.Argument)
	}
	if e.Detail != "" {
		b.WriteString(": " + e.Detail)
	}
	return b.String()
}

func (e *SchemaError) Is(target error) bool {
	return target == schemaSentinels[e.Kind]
}
