package args

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

func registerTime(r *Registry) {
	r.Register(TypeDuration, parseDurationArg)
	r.Register(TypeTimestamp, parseTimestampArg)
}

func parseDurationArg(_ context.Context, _ Context, raw Raw) (any, error) {
	s, ok := raw.String()
	if !ok {
		return nil, TypeError()
	}
	d, err := ParseDuration(s)
	if err != nil {
		return nil, FormatError(err)
	}
	return d, nil
}

func parseTimestampArg(_ context.Context, _ Context, raw Raw) (any, error) {
	s, ok := raw.String()
	if !ok {
		return nil, TypeError()
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return nil, FormatError(err)
	}
	return t, nil
}

const (
	day   = 24 * time.Hour
	month = time.Duration(30.44 * float64(day))
	year  = time.Duration(365.25 * float64(day))
)

var durationUnits = map[string]time.Duration{
	"nsec": time.Nanosecond, "ns": time.Nanosecond,
	"usec": time.Microsecond, "us": time.Microsecond, "µs": time.Microsecond,
	"msec": time.Millisecond, "ms": time.Millisecond,
	"seconds": time.Second, "second": time.Second, "sec": time.Second, "s": time.Second,
	"minutes": time.Minute, "minute": time.Minute, "min": time.Minute, "m": time.Minute,
	"hours": time.Hour, "hour": time.Hour, "hr": time.Hour, "h": time.Hour,
	"days": day, "day": day, "d": day,
	"weeks": 7 * day, "week": 7 * day, "w": 7 * day,
	"months": month, "month": month, "M": month,
	"years": year, "year": year, "y": year,
}

var errEmptyDuration = errors.New("empty duration")

// ParseDuration parses human-readable intervals such as "15days 2min 2s",
// "1h30m" or "2 weeks". Every number needs a unit; groups may be separated by
// whitespace.
func ParseDuration(s string) (time.Duration, error) {
	rest := strings.TrimSpace(s)
	if rest == "" {
		return 0, errEmptyDuration
	}
	var total time.Duration
	for rest != "" {
		i := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsDigit(r) })
		if i == 0 {
			return 0, fmt.Errorf("expected number at %q", rest)
		}
		if i < 0 {
			return 0, fmt.Errorf("missing unit after %q", rest)
		}
		n, err := strconv.ParseUint(rest[:i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("number %q: %w", rest[:i], err)
		}
		rest = strings.TrimLeft(rest[i:], " \t")

		j := strings.IndexFunc(rest, func(r rune) bool { return unicode.IsDigit(r) || unicode.IsSpace(r) })
		if j < 0 {
			j = len(rest)
		}
		unit, ok := durationUnits[rest[:j]]
		if !ok {
			return 0, fmt.Errorf("unknown unit %q", rest[:j])
		}
		if n > uint64(math.MaxInt64/int64(unit)) {
			return 0, fmt.Errorf("duration %q overflows", s)
		}
		part := time.Duration(n) * unit
		if total > math.MaxInt64-part {
			return 0, fmt.Errorf("duration %q overflows", s)
		}
		total += part
		rest = strings.TrimSpace(rest[j:])
	}
	return total, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseTimestamp parses RFC 3339 timestamps, also accepting a space instead of
// "T" and a missing zone (read as UTC).
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
