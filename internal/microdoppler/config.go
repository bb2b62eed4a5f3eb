package microdoppler

import (
	"fmt"

	"github.com/banshee-data/microdoppler/internal/dsp"
)

// FilterMode selects how the clutter filter runs along slow time.
type FilterMode string

const (
	// ZeroPhaseFilter runs the filter forward and backward.
	ZeroPhaseFilter FilterMode = "zero-phase"
	// SinglePassFilter runs the filter once, causally.
	SinglePassFilter FilterMode = "single-pass"
)

// Spectrum mode names accepted by ParseSpectrum.
const (
	SpectrumPSD     = "psd"
	SpectrumComplex = "complex"
)

// ParseSpectrum maps a spectrum mode name to its dsp value.
func ParseSpectrum(name string) (dsp.Spectrum, error) {
	switch name {
	case SpectrumPSD:
		return dsp.PowerDensity, nil
	case SpectrumComplex:
		return dsp.ComplexSpectrum, nil
	default:
		return 0, fmt.Errorf("%w: unknown spectrum mode %q", ErrInvalidConfig, name)
	}
}

// Config holds every constant the chain depends on. Stages read it and never
// embed their own literals.
type Config struct {
	// Sensor geometry.
	SampleInterval   float64 // seconds between pulses (Tsweep)
	Bandwidth        float64 // sweep bandwidth in Hz, range axis only
	CarrierFrequency float64 // transmit carrier in Hz
	SpeedOfLight     float64 // m/s

	// MetadataColumns leading raw columns carry no signal.
	MetadataColumns int
	// RangeWindow weights fast time before the range FFT. Nil is rectangular.
	RangeWindow dsp.Window

	FilterOrder  int
	FilterCutoff float64 // fraction of the Nyquist pulse rate
	FilterMode   FilterMode

	WindowLength int     // pulses per short-time segment
	Overlap      int     // pulses shared by consecutive segments
	PadFactor    int     // FFT points = PadFactor * WindowLength
	SegmentTaper float64 // Tukey alpha for each segment; 0 is rectangular
	Detrend      bool    // remove each segment's mean before the FFT
	// Spectrum selects what is summed across range bins. ComplexSpectrum
	// adds coefficients coherently; PowerDensity adds |X|^2 densities.
	Spectrum dsp.Spectrum

	// BinLow and BinHigh bound the accumulated range bins, inclusive.
	// BinHigh is clamped to the rows available.
	BinLow  int
	BinHigh int

	Sections int
	// Workers bounds the per-bin parallelism. Zero uses GOMAXPROCS.
	Workers int
}

// DefaultConfig returns the constants for the 5.8 GHz FMCW sensor.
func DefaultConfig() Config {
	return Config{
		SampleInterval:   0.0082,
		Bandwidth:        2.5e9,
		CarrierFrequency: 5.8e9,
		SpeedOfLight:     3e8,
		MetadataColumns:  3,
		FilterOrder:      4,
		FilterCutoff:     0.0075,
		FilterMode:       ZeroPhaseFilter,
		WindowLength:     16,
		Overlap:          0,
		PadFactor:        8,
		SegmentTaper:     dsp.DefaultTukeyAlpha,
		Detrend:          true,
		Spectrum:         dsp.ComplexSpectrum,
		BinLow:           1,
		BinHigh:          92,
		Sections:         8,
	}
}

// FFTPoints is the zero-padded short-time transform size.
func (c Config) FFTPoints() int { return c.PadFactor * c.WindowLength }

// Validate checks every field a stage relies on.
func (c Config) Validate() error {
	bad := func(format string, v ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, v...))
	}
	switch {
	case c.SampleInterval <= 0:
		return bad("sample interval must be positive, got %g", c.SampleInterval)
	case c.CarrierFrequency <= 0:
		return bad("carrier frequency must be positive, got %g", c.CarrierFrequency)
	case c.SpeedOfLight <= 0:
		return bad("speed of light must be positive, got %g", c.SpeedOfLight)
	case c.Bandwidth <= 0:
		return bad("bandwidth must be positive, got %g", c.Bandwidth)
	case c.MetadataColumns < 0:
		return bad("metadata columns must be non-negative, got %d", c.MetadataColumns)
	case c.FilterOrder < 1:
		return bad("filter order must be at least 1, got %d", c.FilterOrder)
	case c.FilterCutoff <= 0 || c.FilterCutoff >= 1:
		return bad("filter cutoff must be in (0, 1), got %g", c.FilterCutoff)
	case c.FilterMode != ZeroPhaseFilter && c.FilterMode != SinglePassFilter:
		return bad("unknown filter mode %q", c.FilterMode)
	case c.WindowLength < 1:
		return bad("window length must be positive, got %d", c.WindowLength)
	case c.Overlap < 0 || c.Overlap >= c.WindowLength:
		return bad("overlap must be in [0, %d), got %d", c.WindowLength, c.Overlap)
	case c.PadFactor < 1:
		return bad("pad factor must be at least 1, got %d", c.PadFactor)
	case c.SegmentTaper < 0 || c.SegmentTaper > 1:
		return bad("segment taper must be in [0, 1], got %g", c.SegmentTaper)
	case c.Spectrum != dsp.PowerDensity && c.Spectrum != dsp.ComplexSpectrum:
		return bad("unknown spectrum mode %v", c.Spectrum)
	case c.BinLow < 0:
		return bad("bin low must be non-negative, got %d", c.BinLow)
	case c.Sections < 1:
		return bad("sections must be at least 1, got %d", c.Sections)
	case c.Workers < 0:
		return bad("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}

// NewClutterFilter designs the high-pass MTI filter for c.FilterMode.
func (c Config) NewClutterFilter() (dsp.Filter, error) {
	coeffs, err := dsp.Butterworth(c.FilterOrder, c.FilterCutoff, dsp.HighPass)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch c.FilterMode {
	case SinglePassFilter:
		return dsp.SinglePass{Coefficients: coeffs}, nil
	case ZeroPhaseFilter:
		return dsp.ZeroPhase{Coefficients: coeffs}, nil
	default:
		return nil, fmt.Errorf("%w: unknown filter mode %q", ErrInvalidConfig, c.FilterMode)
	}
}

func (c Config) stftConfig() dsp.STFTConfig {
	return dsp.STFTConfig{
		SegmentLength: c.WindowLength,
		Overlap:       c.Overlap,
		FFTPoints:     c.FFTPoints(),
		Window:        dsp.Tukey(c.SegmentTaper)(c.WindowLength),
		Detrend:       c.Detrend,
		Spectrum:      c.Spectrum,
	}
}
