package microdoppler

import (
	"fmt"

	"github.com/banshee-data/microdoppler/internal/dsp"
	"github.com/banshee-data/microdoppler/internal/units"
	"gonum.org/v1/gonum/floats"
)

// VelocityEpsilon widens a zero-height velocity extent, in m/s.
const VelocityEpsilon = 1e-5

// Parameters are the timing and frequency constants of one acquisition.
// They are derived once and shared by the accumulator and the section
// renderer so both agree on the axes.
type Parameters struct {
	PRF             float64 // pulse repetition frequency, Hz
	WindowLength    int
	Overlap         int
	FFTPoints       int
	DopplerBinWidth float64 // Hz
	WholeDuration   float64 // seconds spanned by the filtered pulses
	NumTimeWindows  int
	PulseCount      int

	SampleInterval   float64
	Bandwidth        float64
	CarrierFrequency float64
	SpeedOfLight     float64

	dopplerAxis []float64
}

// DeriveParameters computes the parameter set for pulseCount filtered pulses.
func DeriveParameters(cfg Config, pulseCount int) (Parameters, error) {
	if err := cfg.Validate(); err != nil {
		return Parameters{}, err
	}
	windows := dsp.SegmentCount(pulseCount, cfg.WindowLength, cfg.Overlap)
	if windows == 0 {
		return Parameters{}, fmt.Errorf("%w: %d pulses do not fill one %d-pulse window",
			ErrInsufficientSamples, pulseCount, cfg.WindowLength)
	}

	prf := 1 / cfg.SampleInterval
	n := cfg.FFTPoints()
	bw := prf / float64(n)

	// Bin centers of the center-shifted transform, ascending.
	axis := make([]float64, n)
	for k := range axis {
		axis[k] = float64(k-n/2) * bw
	}

	return Parameters{
		PRF:              prf,
		WindowLength:     cfg.WindowLength,
		Overlap:          cfg.Overlap,
		FFTPoints:        n,
		DopplerBinWidth:  bw,
		WholeDuration:    float64(pulseCount) / prf,
		NumTimeWindows:   windows,
		PulseCount:       pulseCount,
		SampleInterval:   cfg.SampleInterval,
		Bandwidth:        cfg.Bandwidth,
		CarrierFrequency: cfg.CarrierFrequency,
		SpeedOfLight:     cfg.SpeedOfLight,
		dopplerAxis:      axis,
	}, nil
}

// DopplerAxis returns a copy of the ascending Doppler bin centers in Hz.
func (p Parameters) DopplerAxis() []float64 {
	out := make([]float64, len(p.dopplerAxis))
	copy(out, p.dopplerAxis)
	return out
}

// Velocity converts a Doppler frequency in Hz to radial velocity in m/s.
func (p Parameters) Velocity(hz float64) float64 {
	return units.DopplerVelocity(hz, p.CarrierFrequency, p.SpeedOfLight)
}

// VelocityExtent returns the velocity span of the Doppler axis. When the
// axis collapses to one value the upper bound is raised by VelocityEpsilon.
func (p Parameters) VelocityExtent() (lo, hi float64) {
	if len(p.dopplerAxis) == 0 {
		return 0, VelocityEpsilon
	}
	lo = p.Velocity(floats.Min(p.dopplerAxis))
	hi = p.Velocity(floats.Max(p.dopplerAxis))
	if lo == hi {
		hi += VelocityEpsilon
	}
	return lo, hi
}

// RowFrequency is the Doppler frequency of a spectrogram row. Rows are in
// display order, so row 0 holds the highest frequency.
func (p Parameters) RowFrequency(row int) float64 {
	return p.dopplerAxis[len(p.dopplerAxis)-1-row]
}

// TimeAxis returns NumTimeWindows points evenly spanning [0, WholeDuration].
func (p Parameters) TimeAxis() []float64 {
	switch p.NumTimeWindows {
	case 0:
		return nil
	case 1:
		return []float64{0}
	}
	return floats.Span(make([]float64, p.NumTimeWindows), 0, p.WholeDuration)
}

// RangeAxis returns the distance in metres of each of n range bins for an
// acquisition with rangeSamples fast-time samples per pulse.
func (p Parameters) RangeAxis(rangeSamples, n int) []float64 {
	if n <= 0 {
		return nil
	}
	fs := float64(rangeSamples) / p.SampleInterval
	axis := make([]float64, n)
	for k := range axis {
		freq := float64(k) * fs / float64(2*n)
		axis[k] = freq * p.SpeedOfLight * p.SampleInterval / (2 * p.Bandwidth)
	}
	return axis
}
