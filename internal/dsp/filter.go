package dsp

import "fmt"

// Filter processes one slow-time sequence.
type Filter interface {
	// Apply returns a filtered copy of x.
	Apply(x []complex128) ([]complex128, error)
	// MinSamples is the shortest sequence Apply accepts.
	MinSamples() int
}

// ZeroPhase filters forward and backward with the same coefficients.
type ZeroPhase struct {
	Coefficients Coefficients
}

func (f ZeroPhase) Apply(x []complex128) ([]complex128, error) {
	return FiltFilt(f.Coefficients, x)
}

func (f ZeroPhase) MinSamples() int { return PadLength(f.Coefficients) + 1 }

// SinglePass filters once, causally, starting from rest.
type SinglePass struct {
	Coefficients Coefficients
}

func (f SinglePass) Apply(x []complex128) ([]complex128, error) {
	if len(x) < f.MinSamples() {
		return nil, fmt.Errorf("%w: need at least %d samples, got %d", ErrTooShort, f.MinSamples(), len(x))
	}
	y, _, err := LFilter(f.Coefficients, x, nil)
	return y, err
}

func (f SinglePass) MinSamples() int { return f.Coefficients.Order() + 1 }
