// Package runner turns source code into trace text by handing it to an
// external instrumented evaluator.
package runner

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

var (
	ErrTimeout        = errors.New("evaluator timed out")
	ErrMalformedTrace = errors.New("evaluator produced malformed trace")
	ErrEmptySource    = errors.New("no source code provided")
)

// ExitError reports an evaluator that ran but failed.
type ExitError struct {
	Code   int
	Stdout string
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("evaluator exited with code %d: %v", e.Code, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// A Runner produces the trace for a piece of source code.
type Runner interface {
	Run(ctx context.Context, source string) (string, error)
}

// Acquire runs source through r. On any failure the returned trace is empty,
// never partial, and the error says why.
func Acquire(ctx context.Context, r Runner, source string) (string, error) {
	if source == "" {
		return "", ErrEmptySource
	}
	out, err := r.Run(ctx, source)
	if err != nil {
		log.Warn().Err(err).Msg("evaluator failed")
		return "", err
	}
	if !utf8.ValidString(out) {
		log.Warn().Int("bytes", len(out)).Msg("evaluator output is not UTF-8")
		return "", ErrMalformedTrace
	}
	return out, nil
}

// StaticRunner returns a fixed trace or error. It stands in for a real
// evaluator in tests and demos.
type StaticRunner struct {
	Trace string
	Err   error
}

func (s StaticRunner) Run(ctx context.Context, source string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.Trace, s.Err
}
