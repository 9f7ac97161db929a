// cmd/build-docs/main.go writes the Markdown command reference.
package main

import (
	"flag"

	"github.com/keshon/cmdargs/internal/commands"
	"github.com/keshon/cmdargs/internal/config"
	"github.com/keshon/cmdargs/internal/docs"
	"github.com/keshon/cmdargs/internal/logging"
	"github.com/keshon/cmdargs/pkg/command"
)

func main() {
	logger := logging.Setup("info", "")
	cfg, err := config.Load(false)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	out := flag.String("out", "COMMANDS.md", "file to write")
	tmpl := flag.String("template", "", "text/template file; empty means the built-in one")
	defsPath := flag.String("commands", cfg.CommandsPath, "command definitions file; empty means the built-in ones")
	flag.Parse()

	defs, err := commands.Definitions(*defsPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load command definitions")
	}
	set, err := command.NewSet(defs, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("compile command definitions")
	}
	if err := docs.WriteFile(*out, *tmpl, set, cfg.CommandPrefix); err != nil {
		logger.Fatal().Err(err).Msg("write command reference")
	}
}
