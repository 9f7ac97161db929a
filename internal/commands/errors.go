package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/keshon/cmdargs/pkg/args"
	"github.com/keshon/cmdargs/pkg/cmd"
	"github.com/keshon/cmdargs/pkg/command"
)

// ErrorResponse turns a parse failure into a reply. root is the command the
// line addressed, if it is known, and supplies the usage lines.
func ErrorResponse(err error, root *command.Node) cmd.Response {
	resp := cmd.Response{Title: "Invalid command", Ephemeral: true, Error: true}

	var re *command.ReadError
	if !errors.As(err, &re) {
		resp.Title = "Something went wrong"
		resp.Text = err.Error()
		return resp
	}

	switch re.Kind {
	case command.RequiredArgumentMissing:
		resp.Text = fmt.Sprintf("Missing `%s` (argument %d).", re.Name, re.Position)
	case command.MissingSubcommand:
		resp.Text = fmt.Sprintf("A subcommand is needed at position %d.", re.Position)
	case command.UnknownSubcommand:
		resp.Text = fmt.Sprintf("`%s` is not a known command (position %d).", re.Given, re.Position)
	case command.ValueParseError:
		resp.Text = fmt.Sprintf("`%s` (argument %d): %s.", re.Name, re.Position, valueProblem(re.Err))
	}
	if root != nil {
		var usage []string
		for _, e := range command.Describe(root) {
			usage = append(usage, "`"+e.Usage+"`")
		}
		resp.Fields = append(resp.Fields, cmd.Field{Name: "Usage", Value: strings.Join(usage, "\n")})
	}
	return resp
}

func valueProblem(err error) string {
	var pe *args.ParseError
	if !errors.As(err, &pe) {
		return err.Error()
	}
	switch pe.Kind {
	case args.InvalidValueType:
		return "wrong kind of value"
	case args.InvalidValueFormat:
		return "value is not in the expected format"
	default:
		return pe.Reason
	}
}
