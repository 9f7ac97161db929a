package args

import (
	"context"
	"math"
	"strconv"
	"unicode/utf8"

	json "github.com/goccy/go-json"
)

func registerPrimitives(r *Registry) {
	r.Register(TypeString, parseString)
	r.Register(TypeText, parseString)
	r.Register(TypeBool, parseBool)
	r.Register(TypeChar, parseChar)

	r.Register(TypeInt, intResolver(strconv.IntSize, func(v int64) any { return int(v) }))
	r.Register(TypeInt8, intResolver(8, func(v int64) any { return int8(v) }))
	r.Register(TypeInt16, intResolver(16, func(v int64) any { return int16(v) }))
	r.Register(TypeInt32, intResolver(32, func(v int64) any { return int32(v) }))
	r.Register(TypeInt64, intResolver(64, func(v int64) any { return v }))

	r.Register(TypeUint, uintResolver(strconv.IntSize, func(v uint64) any { return uint(v) }))
	r.Register(TypeUint8, uintResolver(8, func(v uint64) any { return uint8(v) }))
	r.Register(TypeUint16, uintResolver(16, func(v uint64) any { return uint16(v) }))
	r.Register(TypeUint32, uintResolver(32, func(v uint64) any { return uint32(v) }))
	r.Register(TypeUint64, uintResolver(64, func(v uint64) any { return v }))

	r.Register(TypeFloat32, floatResolver(32, func(v float64) any { return float32(v) }))
	r.Register(TypeFloat64, floatResolver(64, func(v float64) any { return v }))
}

func parseString(_ context.Context, _ Context, raw Raw) (any, error) {
	s, ok := raw.String()
	if !ok {
		return nil, TypeError()
	}
	return s, nil
}

// parseBool only accepts the literal words; strconv.ParseBool is too lenient.
func parseBool(_ context.Context, _ Context, raw Raw) (any, error) {
	if b, ok := raw.Any().(bool); ok {
		return b, nil
	}
	s, ok := raw.String()
	if !ok {
		return nil, TypeError()
	}
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return nil, FormatError(nil)
}

func parseChar(_ context.Context, _ Context, raw Raw) (any, error) {
	s, ok := raw.String()
	if !ok {
		return nil, TypeError()
	}
	if utf8.RuneCountInString(s) != 1 {
		return nil, FormatError(nil)
	}
	ch, _ := utf8.DecodeRuneInString(s)
	return ch, nil
}

func intResolver(bits int, conv func(int64) any) Resolver {
	lo, hi := int64(math.MinInt64), int64(math.MaxInt64)
	if bits < 64 {
		lo, hi = -1<<(bits-1), 1<<(bits-1)-1
	}
	return func(_ context.Context, _ Context, raw Raw) (any, error) {
		if s, ok := raw.String(); ok {
			v, err := strconv.ParseInt(s, 10, bits)
			if err != nil {
				return nil, FormatError(err)
			}
			return conv(v), nil
		}
		v, ok, err := structuredInt(raw.Any())
		if !ok {
			return nil, TypeError()
		}
		if err != nil || v < lo || v > hi {
			return nil, FormatError(err)
		}
		return conv(v), nil
	}
}

func uintResolver(bits int, conv func(uint64) any) Resolver {
	hi := uint64(math.MaxUint64)
	if bits < 64 {
		hi = 1<<bits - 1
	}
	return func(_ context.Context, _ Context, raw Raw) (any, error) {
		if s, ok := raw.String(); ok {
			v, err := strconv.ParseUint(s, 10, bits)
			if err != nil {
				return nil, FormatError(err)
			}
			return conv(v), nil
		}
		v, ok, err := structuredUint(raw.Any())
		if !ok {
			return nil, TypeError()
		}
		if err != nil || v > hi {
			return nil, FormatError(err)
		}
		return conv(v), nil
	}
}

func floatResolver(bits int, conv func(float64) any) Resolver {
	return func(_ context.Context, _ Context, raw Raw) (any, error) {
		if s, ok := raw.String(); ok {
			v, err := strconv.ParseFloat(s, bits)
			if err != nil {
				return nil, FormatError(err)
			}
			return conv(v), nil
		}
		switch v := raw.Any().(type) {
		case float64:
			return conv(v), nil
		case float32:
			return conv(float64(v)), nil
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return nil, FormatError(err)
			}
			return conv(f), nil
		}
		if v, ok, err := structuredInt(raw.Any()); ok && err == nil {
			return conv(float64(v)), nil
		}
		return nil, TypeError()
	}
}

// structuredUint is structuredInt for unsigned targets, keeping the range
// above math.MaxInt64.
func structuredUint(v any) (uint64, bool, error) {
	switch n := v.(type) {
	case uint:
		return uint64(n), true, nil
	case uint64:
		return n, true, nil
	case json.Number:
		u, err := strconv.ParseUint(string(n), 10, 64)
		return u, true, err
	}
	i, ok, err := structuredInt(v)
	if err == nil && i < 0 {
		err = strconv.ErrRange
	}
	return uint64(i), ok, err
}

// structuredInt extracts an integer from a decoded payload value. ok is false
// when v is not numeric at all; err is set when it is numeric but not integral.
func structuredInt(v any) (int64, bool, error) {
	switch n := v.(type) {
	case int:
		return int64(n), true, nil
	case int8:
		return int64(n), true, nil
	case int16:
		return int64(n), true, nil
	case int32:
		return int64(n), true, nil
	case int64:
		return n, true, nil
	case uint:
		return int64(n), true, nil
	case uint8:
		return int64(n), true, nil
	case uint16:
		return int64(n), true, nil
	case uint32:
		return int64(n), true, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, true, strconv.ErrRange
		}
		return int64(n), true, nil
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, true, strconv.ErrRange
		}
		return int64(n), true, nil
	case json.Number:
		i, err := n.Int64()
		return i, true, err
	}
	return 0, false, nil
}
