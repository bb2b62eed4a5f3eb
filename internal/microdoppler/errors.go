package microdoppler

import (
	"errors"
	"fmt"
)

// Acquisition-scoped failures. Each one stops processing of the acquisition
// that produced it and nothing else.
var (
	ErrMissingChannel      = errors.New("missing channel")
	ErrShapeMismatch       = errors.New("channel shape mismatch")
	ErrInsufficientSamples = errors.New("insufficient samples")
	ErrEmptyAccumulation   = errors.New("empty accumulation")
)

// ErrInvalidConfig reports a caller misconfiguration.
var ErrInvalidConfig = errors.New("invalid configuration")

// Stage names used in AcquisitionError.
const (
	StageLoad        = "load"
	StageBaseband    = "baseband"
	StageRange       = "range"
	StageClutter     = "clutter"
	StageParameters  = "parameters"
	StageSpectrogram = "spectrogram"
	StageSections    = "sections"
	StageRender      = "render"
)

// AcquisitionError attaches the acquisition label and pipeline stage to an
// underlying failure.
type AcquisitionError struct {
	Label string
	Stage string
	Err   error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquisition %s: %s: %v", e.Label, e.Stage, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// Wrap labels err unless it is nil or already labelled.
func Wrap(label, stage string, err error) error {
	if err == nil {
		return nil
	}
	var ae *AcquisitionError
	if errors.As(err, &ae) {
		return err
	}
	return &AcquisitionError{Label: label, Stage: stage, Err: err}
}

// StageOf returns the stage recorded in err, or "" when err carries none.
func StageOf(err error) string {
	var ae *AcquisitionError
	if errors.As(err, &ae) {
		return ae.Stage
	}
	return ""
}
