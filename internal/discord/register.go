package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/cmdargs/pkg/command"
	"github.com/keshon/cmdargs/pkg/retrylimit"
	"github.com/keshon/cmdargs/pkg/util"
	"github.com/rs/zerolog/log"
)

// registerWorkers bounds concurrent command uploads per guild.
const registerWorkers = 4

// HashStore keeps the digests of the slash commands last registered in a
// guild.
type HashStore interface {
	CommandHashes(guildID string) (map[string]string, error)
	SetCommandHashes(guildID string, hashes map[string]string) error
}

// SlashCommands converts every root of set. Roots that cannot be expressed
// as slash commands are skipped and reported in the error.
func SlashCommands(set *command.Set) ([]*discordgo.ApplicationCommand, error) {
	var (
		out  []*discordgo.ApplicationCommand
		errs []error
	)
	for _, root := range set.Roots() {
		ac, err := SlashCommand(root)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, ac)
	}
	return out, errors.Join(errs...)
}

// syncPlan is what has to change in a guild.
type syncPlan struct {
	create []*discordgo.ApplicationCommand
	remove []*discordgo.ApplicationCommand
	hashes map[string]string
}

// planSync compares the wanted commands with those registered in the guild.
// A command is uploaded when it is missing remotely or its digest differs
// from the stored one; registered commands nobody wants are removed.
func planSync(existing, wanted []*discordgo.ApplicationCommand, stored map[string]string) syncPlan {
	plan := syncPlan{hashes: hashCommands(wanted)}
	remote := make(map[string]bool, len(existing))
	for _, ac := range existing {
		remote[ac.Name] = true
		if _, ok := plan.hashes[ac.Name]; !ok {
			plan.remove = append(plan.remove, ac)
		}
	}
	for _, ac := range wanted {
		if !remote[ac.Name] || stored[ac.Name] != plan.hashes[ac.Name] {
			plan.create = append(plan.create, ac)
		}
	}
	return plan
}

// registrar uploads slash commands for guilds.
type registrar struct {
	s      *discordgo.Session
	store  HashStore
	lim    *retrylimit.AdaptiveLimiter
	retry  retrylimit.Config
	wanted []*discordgo.ApplicationCommand
}

func (r *registrar) call(ctx context.Context, fn func(opt discordgo.RequestOption) error) error {
	return retrylimit.Do(ctx, r.lim, r.retry, func(ctx context.Context) error {
		return fn(discordgo.WithContext(ctx))
	})
}

func (r *registrar) appID(ctx context.Context) (string, error) {
	if r.s.State != nil && r.s.State.User != nil && r.s.State.User.ID != "" {
		return r.s.State.User.ID, nil
	}
	var u *discordgo.User
	err := r.call(ctx, func(opt discordgo.RequestOption) (err error) {
		u, err = r.s.User("@me", opt)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("fetch application user: %w", err)
	}
	return u.ID, nil
}

// sync brings the guild's slash commands in line with the wanted set.
// Digests are stored only for commands that are registered afterwards.
func (r *registrar) sync(ctx context.Context, guildID string) error {
	appID, err := r.appID(ctx)
	if err != nil {
		return err
	}
	var existing []*discordgo.ApplicationCommand
	err = r.call(ctx, func(opt discordgo.RequestOption) (err error) {
		existing, err = r.s.ApplicationCommands(appID, guildID, opt)
		return err
	})
	if err != nil {
		return fmt.Errorf("list commands: %w", err)
	}
	stored, err := r.store.CommandHashes(guildID)
	if err != nil {
		return fmt.Errorf("load command hashes: %w", err)
	}

	plan := planSync(existing, r.wanted, stored)
	logger := log.With().Str("guild", guildID).Logger()

	for _, old := range plan.remove {
		err := r.call(ctx, func(opt discordgo.RequestOption) error {
			return r.s.ApplicationCommandDelete(appID, guildID, old.ID, opt)
		})
		if err != nil {
			logger.Error().Err(err).Str("command", old.Name).Msg("delete obsolete command")
			continue
		}
		logger.Info().Str("command", old.Name).Msg("deleted obsolete command")
	}

	if len(plan.create) == 0 {
		logger.Debug().Msg("slash commands up to date")
		return r.store.SetCommandHashes(guildID, plan.hashes)
	}

	logger.Info().Int("changed", len(plan.create)).Msg("registering slash commands")
	var (
		mu   sync.Mutex
		done = make(map[string]bool)
	)
	perr := util.Parallel(ctx, plan.create, registerWorkers, func(ctx context.Context, ac *discordgo.ApplicationCommand) error {
		err := r.call(ctx, func(opt discordgo.RequestOption) error {
			_, err := r.s.ApplicationCommandCreate(appID, guildID, ac, opt)
			return err
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", ac.Name, err)
		}
		mu.Lock()
		done[ac.Name] = true
		mu.Unlock()
		logger.Info().Str("command", ac.Name).Msg("command registered")
		return nil
	})
	// Commands not uploaded keep no digest, so the next sync retries them.
	for _, ac := range plan.create {
		if !done[ac.Name] {
			delete(plan.hashes, ac.Name)
		}
	}
	if err := r.store.SetCommandHashes(guildID, plan.hashes); err != nil {
		return errors.Join(perr, fmt.Errorf("save command hashes: %w", err))
	}
	return perr
}
