// Package retrylimit throttles calls to a remote API with an adaptive rate
// limit and retries transient failures with exponential backoff.
//
//	lim := retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5)
//	err := retrylimit.Do(ctx, lim, retrylimit.DefaultConfig(), func(ctx context.Context) error {
//		_, err := s.GuildMember(guildID, userID, discordgo.WithContext(ctx))
//		return err
//	})
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// AdaptiveLimiter is a rate limit that grows on success and shrinks when the
// remote side pushes back. Safe for concurrent use.
type AdaptiveLimiter struct {
	mu        sync.RWMutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	cooldown  time.Duration
	lastError time.Time
}

// NewAdaptiveLimiter creates a limiter starting at initial requests per
// second, kept within [lo, hi]. stepUp is added after a success, stepDown
// multiplies the rate after a failure (0.5 halves it).
func NewAdaptiveLimiter(initial, lo, hi, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	lo = max(lo, 1)
	hi = max(hi, lo)
	initial = min(max(initial, lo), hi)
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, max(1, int(initial))),
		minLimit: lo,
		maxLimit: hi,
		stepUp:   stepUp,
		stepDown: stepDown,
		cooldown: 10 * time.Second,
	}
}

// Wait blocks until a token is available or ctx is done.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// Success raises the rate, unless the last failure is recent.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > a.cooldown {
		a.setLimit(a.limiter.Limit() + a.stepUp)
	}
}

// RateLimited lowers the rate.
func (a *AdaptiveLimiter) RateLimited() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.setLimit(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// CurrentLimit returns the current requests per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) setLimit(l rate.Limit) {
	l = min(max(l, a.minLimit), a.maxLimit)
	if l != a.limiter.Limit() {
		a.limiter.SetLimit(l)
		a.limiter.SetBurst(max(1, int(l)))
	}
}

// HTTPError is implemented by errors that carry an HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

// PermanentError stops retries immediately.
type PermanentError struct {
	Err error
}

func (p *PermanentError) Error() string { return p.Err.Error() }
func (p *PermanentError) Unwrap() error { return p.Err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// StatusCode extracts an HTTP status from err: a Discord REST error or any
// HTTPError in its chain. It returns 0 when there is none.
func StatusCode(err error) int {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		return rest.Response.StatusCode
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return 0
}

// Retryable reports whether err is transient: rate limiting, a server error
// or a failure without any status, such as a dropped connection. Client
// errors like 404 are final.
func Retryable(err error) bool {
	var p *PermanentError
	if errors.As(err, &p) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	code := StatusCode(err)
	return code == 0 || code == http.StatusTooManyRequests || code >= 500
}

// Config tunes Do.
type Config struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	RateLimitDelay time.Duration
	Multiplier     float64
	Jitter         bool
	// Retryable overrides the default classification.
	Retryable func(error) bool
}

// DefaultConfig suits interactive lookups: a few quick attempts.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   250 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		RateLimitDelay: time.Second,
		Multiplier:     2,
		Jitter:         true,
	}
}

// Do calls fn until it succeeds, fails permanently, ctx is done or the
// attempts run out. Each attempt first waits on lim, which may be nil. The
// last error is returned wrapped.
func Do(ctx context.Context, lim *AdaptiveLimiter, cfg Config, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	retryable := cfg.Retryable
	if retryable == nil {
		retryable = Retryable
	}

	delay := cfg.InitialDelay
	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if lim != nil {
			if werr := lim.Wait(ctx); werr != nil {
				return werr
			}
		}

		err = fn(ctx)
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			if attempt > 1 {
				log.Debug().Int("attempt", attempt).Msg("retry succeeded")
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !retryable(err) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		wait := delay
		if StatusCode(err) == http.StatusTooManyRequests {
			wait = cfg.RateLimitDelay
			if lim != nil {
				lim.RateLimited()
			}
			log.Warn().Int("attempt", attempt).Float64("limit", limitOf(lim)).Msg("rate limited")
		} else {
			if lim != nil && StatusCode(err) >= 500 {
				lim.RateLimited()
			}
			delay = min(time.Duration(float64(delay)*cfg.Multiplier), cfg.MaxDelay)
			log.Debug().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("retrying")
		}
		if cfg.Jitter {
			wait = addJitter(wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", cfg.MaxAttempts, err)
}

func limitOf(lim *AdaptiveLimiter) float64 {
	if lim == nil {
		return 0
	}
	return lim.CurrentLimit()
}

// addJitter adds up to 25% to delay.
func addJitter(delay time.Duration) time.Duration {
	if delay < 4 {
		return delay
	}
	return delay + rand.N(delay/4)
}
