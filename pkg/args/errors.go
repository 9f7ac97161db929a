package args

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies why a value could not be resolved.
type ErrorKind int

const (
	// InvalidValueType means the raw value has a shape the resolver does not accept.
	InvalidValueType ErrorKind = iota + 1
	// InvalidValueFormat means the text does not lexically match the type.
	InvalidValueFormat
	// CannotParseInContext means the value is well-formed but could not be
	// resolved with the current context (no guild, unknown object, lookup failure).
	CannotParseInContext
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidValueType:
		return "InvalidValueType"
	case InvalidValueFormat:
		return "InvalidValueFormat"
	case CannotParseInContext:
		return "CannotParseInContext"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

var (
	ErrInvalidValueType     = errors.New("unsupported value type for parser")
	ErrInvalidValueFormat   = errors.New("the value doesn't match the expected format")
	ErrCannotParseInContext = errors.New("the value cannot be parsed in the current context")
)

// ParseError is the error returned by resolvers.
type ParseError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.sentinel().Error()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind.
func (e *ParseError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *ParseError) sentinel() error {
	switch e.Kind {
	case InvalidValueType:
		return ErrInvalidValueType
	case InvalidValueFormat:
		return ErrInvalidValueFormat
	default:
		return ErrCannotParseInContext
	}
}

// TypeError reports a raw value of the wrong shape.
func TypeError() *ParseError {
	return &ParseError{Kind: InvalidValueType}
}

// FormatError reports text that does not match the expected format. err is
// the underlying parse failure, if any.
func FormatError(err error) *ParseError {
	return &ParseError{Kind: InvalidValueFormat, Err: err}
}

// ContextError reports a value that cannot be resolved in the current context.
func ContextError(reason string, err error) *ParseError {
	return &ParseError{Kind: CannotParseInContext, Reason: reason, Err: err}
}

// AsParseError normalises an error returned by a resolver. Foreign errors
// become CannotParseInContext; cancellation is passed through untouched.
func AsParseError(err error) error {
	if err == nil {
		return nil
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return ContextError(err.Error(), err)
}
