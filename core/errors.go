package core

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn  = errors.New("missing required column")
	ErrMalformedField = errors.New("malformed field")
	ErrNoCustomers    = errors.New("no customers loaded")
	ErrNoFeatures     = errors.New("no feature rows built")
	ErrTargetNotFound = errors.New("target customer not in feature table")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrDimension      = errors.New("dimension mismatch")
)

// PipelineError wraps a stage failure with enough context to report which
// operation of which stage failed.
type PipelineError struct {
	Op    string
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s [stage=%s]: %v", e.Op, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func NewPipelineError(op, stage string, err error) *PipelineError {
	return &PipelineError{Op: op, Stage: stage, Err: err}
}
