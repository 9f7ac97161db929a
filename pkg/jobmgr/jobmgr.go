// Package jobmgr runs named background jobs, at most one per name, and
// cancels them together on shutdown.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(ctx, log.Logger)
//	err := jm.Start("sync:"+guildID, func(ctx context.Context) error {
//		return registrar.sync(ctx, guildID)
//	})
//	...
//	jm.Shutdown()
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrRunning    = errors.New("job already running")
	ErrNotRunning = errors.New("job not running")
	ErrShutdown   = errors.New("job manager shut down")
)

// Manager starts, stops and tracks jobs. It is safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	base   context.Context
	cancel context.CancelFunc
	jobs   map[string]context.CancelFunc
	wg     sync.WaitGroup
	log    zerolog.Logger
}

// NewManager creates a Manager whose jobs end when ctx does.
func NewManager(ctx context.Context, logger zerolog.Logger) *Manager {
	base, cancel := context.WithCancel(ctx)
	return &Manager{
		base:   base,
		cancel: cancel,
		jobs:   make(map[string]context.CancelFunc),
		log:    logger,
	}
}

// Start runs job in its own goroutine. A job with the same name must not be
// running. The job is forgotten once it returns; its error is logged.
func (m *Manager) Start(name string, job func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.base.Err() != nil {
		return ErrShutdown
	}
	if _, ok := m.jobs[name]; ok {
		return fmt.Errorf("%s: %w", name, ErrRunning)
	}

	ctx, cancel := context.WithCancel(m.base)
	m.jobs[name] = cancel
	m.wg.Add(1)

	go func() {
		defer m.wg.Done()
		defer cancel()

		start := time.Now()
		m.log.Debug().Str("job", name).Msg("job running")
		err := job(ctx)

		m.mu.Lock()
		delete(m.jobs, name)
		m.mu.Unlock()

		switch {
		case err != nil && ctx.Err() != nil:
			m.log.Debug().Err(err).Str("job", name).Msg("job cancelled")
		case err != nil:
			m.log.Error().Err(err).Str("job", name).Dur("took", time.Since(start)).Msg("job failed")
		default:
			m.log.Debug().Str("job", name).Dur("took", time.Since(start)).Msg("job done")
		}
	}()
	return nil
}

// Stop cancels a running job. It does not wait for it to return.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cancel, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrNotRunning)
	}
	cancel()
	delete(m.jobs, name)
	return nil
}

// Running returns the names of active jobs, sorted.
func (m *Manager) Running() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Status returns a human-readable summary of active jobs.
func (m *Manager) Status() string {
	active := m.Running()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return "Running jobs: " + strings.Join(active, ", ")
}

// Shutdown cancels every job and waits for all of them to return.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.cancel()
	m.mu.Unlock()
	m.wg.Wait()
}
