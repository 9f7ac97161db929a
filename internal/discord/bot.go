// Package discord hosts the commands on Discord: prefix messages and slash
// interactions are parsed against the command set and dispatched to the
// registry.
package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/cmdargs/internal/config"
	"github.com/keshon/cmdargs/pkg/cmd"
	"github.com/keshon/cmdargs/pkg/command"
	"github.com/keshon/cmdargs/pkg/jobmgr"
	"github.com/keshon/cmdargs/pkg/retrylimit"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// commandTimeout bounds parsing plus execution of one command.
const commandTimeout = 30 * time.Second

// Bot is a Discord bot
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	registry *cmd.Registry
	set      *command.Set
	dir      *Directory
	reg      *registrar
	// jobs runs per-guild slash command syncs; set by Run.
	jobs *jobmgr.Manager

	// ctx is the Run context; handlers derive from it.
	ctx context.Context
}

// New prepares a bot for the commands in registry. Nothing connects until
// Run.
func New(cfg *config.Config, registry *cmd.Registry, hashes HashStore) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	set, err := registry.Set(nil)
	if err != nil {
		return nil, fmt.Errorf("compile commands: %w", err)
	}
	wanted, err := SlashCommands(set)
	if err != nil {
		log.Warn().Err(err).Msg("some commands have no slash form")
	}

	retry := retrylimit.DefaultConfig()
	if cfg.LookupRetries > 0 {
		retry.MaxAttempts = cfg.LookupRetries
	}
	perSecond := rate.Limit(cfg.LookupRate)
	lim := retrylimit.NewAdaptiveLimiter(perSecond, 1, 4*perSecond, 1, 0.5)

	return &Bot{
		dg:       dg,
		cfg:      cfg,
		registry: registry,
		set:      set,
		dir:      NewDirectory(dg, lim, retry),
		reg: &registrar{
			s:      dg,
			store:  hashes,
			lim:    lim,
			retry:  retry,
			wanted: wanted,
		},
		ctx: context.Background(),
	}, nil
}

// Directory returns the lookup directory backed by the bot's session.
func (b *Bot) Directory() *Directory { return b.dir }

// Run connects and serves until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	b.jobs = jobmgr.NewManager(ctx, log.Logger)
	b.configureIntents()
	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onGuildCreate)
	b.dg.AddHandler(b.onMessageCreate)
	b.dg.AddHandler(b.onInteractionCreate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, closing session")
	b.jobs.Shutdown()
	return nil
}

func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Int("commands", len(b.set.Roots())).
		Msg("discord bot is running")
}

// onGuildCreate fires for every guild on connect and for guilds joined later.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	logger := log.With().Str("guild", g.ID).Str("name", g.Name).Logger()

	if b.cfg.Blacklisted(g.ID) {
		logger.Info().Msg("leaving blacklisted guild")
		if err := s.GuildLeave(g.ID); err != nil {
			logger.Error().Err(err).Msg("failed to leave guild")
		}
		return
	}
	if !b.cfg.InitSlash {
		logger.Debug().Msg("slash command registration skipped")
		return
	}
	guildID := g.ID
	err := b.jobs.Start("sync:"+guildID, func(ctx context.Context) error {
		return b.reg.sync(ctx, guildID)
	})
	if err != nil {
		logger.Debug().Err(err).Msg("slash command sync not started")
	}
}
