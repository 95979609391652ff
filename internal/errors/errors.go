// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package errors defines the error kinds surfaced by outline and article
// generation, plus re-exports of the standard library helpers so callers can
// import a single errors package.
//
// Three kinds are distinguished:
//   - ErrUpstreamUnavailable: the search or scrape dependency could not be reached.
//   - ErrMalformedOutput: a model response could not be coerced to the expected shape.
//   - ErrGenerationFailure: any unrecoverable failure of an outline or article run.
//
// GenerationFailure wraps an error so that both ErrGenerationFailure and the
// underlying kind match with Is:
//
//	err := errors.GenerationFailure("architect", errors.Malformed("outline", cause))
//	errors.Is(err, errors.ErrGenerationFailure) // true
//	errors.Is(err, errors.ErrMalformedOutput)   // true
package errors

import (
	"errors"
	"fmt"
)

var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrMalformedOutput     = errors.New("malformed model output")
	ErrGenerationFailure   = errors.New("generation failure")
)

// StageError records which stage or role produced an error.
type StageError struct {
	// Stage names the step: grouper, architect, refiner, writer, editor, search.
	Stage string
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Stage, e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Malformed reports that a structured response for stage could not be decoded
// or failed shape validation.
func Malformed(stage string, err error) error {
	return &StageError{Stage: stage, Kind: ErrMalformedOutput, Err: err}
}

// Upstream reports that an external dependency used by stage failed.
func Upstream(stage string, err error) error {
	return &StageError{Stage: stage, Kind: ErrUpstreamUnavailable, Err: err}
}

// GenerationFailure wraps err as an unrecoverable run failure. Wrapping an
// error that already carries ErrGenerationFailure returns it unchanged.
func GenerationFailure(stage string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrGenerationFailure) {
		return err
	}
	return &StageError{Stage: stage, Kind: ErrGenerationFailure, Err: err}
}

// StageOf returns the stage of the outermost StageError in err's chain, or "".
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
