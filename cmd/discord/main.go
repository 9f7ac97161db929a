// cmd/discord/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/keshon/cmdargs/internal/commands"
	"github.com/keshon/cmdargs/internal/config"
	"github.com/keshon/cmdargs/internal/discord"
	"github.com/keshon/cmdargs/internal/logging"
	"github.com/keshon/cmdargs/internal/middleware"
	"github.com/keshon/cmdargs/internal/storage"
	"github.com/keshon/cmdargs/pkg/cmd"
)

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

func main() {
	logger := logging.Setup("info", "")
	cfg, err := config.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	logger = logging.Setup(cfg.LogLevel, cfg.LogFile)
	logger.Info().Str("version", version()).Msg("starting discord bot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open storage")
	}
	defer store.Close()

	defs, err := commands.Definitions(cfg.CommandsPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load command definitions")
	}
	registry := cmd.NewRegistry()
	err = commands.Register(registry, defs, commands.Deps{
		Version:     version(),
		History:     store,
		Middlewares: []cmd.Middleware{middleware.WithCommandLogger(store)},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("register commands")
	}

	bot, err := discord.New(cfg, registry, store)
	if err != nil {
		logger.Fatal().Err(err).Msg("create bot")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("discord bot error")
		}
		cancel()
	}

	logger.Info().Msg("discord bot exited cleanly")
}
