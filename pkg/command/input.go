package command

import (
	"fmt"
	"iter"
	"strings"

	"github.com/keshon/cmdargs/pkg/args"
)

// Input feeds the parser. Text input is a token stream; structured input is a
// decoded payload such as a slash-command interaction. The parser walks both
// the same way.
type Input interface {
	// Selector pulls the token naming a subcommand. child is the input to
	// continue with for the selected subtree.
	Selector() (token string, child Input, ok bool)
	// Argument pulls the value for spec. n is the number of tokens consumed.
	Argument(spec ArgumentSpec) (raw args.Raw, n int, ok bool)
}

// tokenInput pulls from a lazily produced token sequence.
type tokenInput struct {
	next func() (string, bool)
}

// Tokens returns an Input reading from seq. Call the returned stop function
// once parsing is done.
func Tokens(seq iter.Seq[string]) (Input, func()) {
	next, stop := iter.Pull(seq)
	return &tokenInput{next: next}, stop
}

func (t *tokenInput) Selector() (string, Input, bool) {
	tok, ok := t.next()
	if !ok {
		return "", nil, false
	}
	return tok, t, true
}

func (t *tokenInput) Argument(spec ArgumentSpec) (args.Raw, int, bool) {
	tok, ok := t.next()
	if !ok {
		return args.Raw{}, 0, false
	}
	if !spec.Rest {
		return args.Text(tok), 1, true
	}
	parts := []string{tok}
	for {
		more, ok := t.next()
		if !ok {
			break
		}
		parts = append(parts, more)
	}
	return args.Text(strings.Join(parts, " ")), len(parts), true
}

// Option is one entry of a structured payload: either a named value or a
// named subcommand with nested options.
type Option struct {
	Name    string   `json:"name" yaml:"name"`
	Value   any      `json:"value,omitempty" yaml:"value,omitempty"`
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`
}

type optionsInput []Option

// Options returns an Input over a named payload. A parent reads its selector
// from the first option's name and descends into that option's children; a
// leaf looks each argument up by name, so a missing optional argument does
// not hide the ones after it.
func Options(opts []Option) Input { return optionsInput(opts) }

func (o optionsInput) Selector() (string, Input, bool) {
	if len(o) == 0 {
		return "", nil, false
	}
	return o[0].Name, optionsInput(o[0].Options), true
}

func (o optionsInput) Argument(spec ArgumentSpec) (args.Raw, int, bool) {
	for _, opt := range o {
		if opt.Name == spec.Name && opt.Value != nil {
			return args.Value(opt.Value), 1, true
		}
	}
	return args.Raw{}, 0, false
}

// valuesInput is a positional payload: selectors and arguments are taken in
// order, like tokens, but keep their decoded types.
type valuesInput struct {
	values []any
}

// Values returns an Input over an array-of-values payload. Selectors must be
// strings.
func Values(values []any) Input { return &valuesInput{values: values} }

func (v *valuesInput) Selector() (string, Input, bool) {
	if len(v.values) == 0 {
		return "", nil, false
	}
	head := v.values[0]
	v.values = v.values[1:]
	s, ok := head.(string)
	if !ok {
		// A non-string can never name a child; report it as an unknown token.
		return fmt.Sprint(head), v, true
	}
	return s, v, true
}

func (v *valuesInput) Argument(ArgumentSpec) (args.Raw, int, bool) {
	if len(v.values) == 0 {
		return args.Raw{}, 0, false
	}
	head := v.values[0]
	v.values = v.values[1:]
	return args.Value(head), 1, true
}
