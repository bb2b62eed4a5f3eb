package microdoppler

import (
	"errors"
	"testing"

	"github.com/banshee-data/microdoppler/internal/dsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 128, cfg.FFTPoints())
	assert.Equal(t, 0.0082, cfg.SampleInterval)
	assert.Equal(t, 5.8e9, cfg.CarrierFrequency)
	assert.Equal(t, 1, cfg.BinLow)
	assert.Equal(t, 92, cfg.BinHigh)
	assert.Equal(t, 8, cfg.Sections)
	assert.Equal(t, ZeroPhaseFilter, cfg.FilterMode)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sample interval", func(c *Config) { c.SampleInterval = 0 }},
		{"negative carrier", func(c *Config) { c.CarrierFrequency = -1 }},
		{"zero speed of light", func(c *Config) { c.SpeedOfLight = 0 }},
		{"zero bandwidth", func(c *Config) { c.Bandwidth = 0 }},
		{"negative metadata", func(c *Config) { c.MetadataColumns = -1 }},
		{"zero order", func(c *Config) { c.FilterOrder = 0 }},
		{"cutoff at nyquist", func(c *Config) { c.FilterCutoff = 1 }},
		{"unknown filter mode", func(c *Config) { c.FilterMode = "fir" }},
		{"zero window", func(c *Config) { c.WindowLength = 0 }},
		{"overlap equals window", func(c *Config) { c.Overlap = c.WindowLength }},
		{"zero pad factor", func(c *Config) { c.PadFactor = 0 }},
		{"taper above one", func(c *Config) { c.SegmentTaper = 1.5 }},
		{"unknown spectrum", func(c *Config) { c.Spectrum = dsp.Spectrum(9) }},
		{"negative bin low", func(c *Config) { c.BinLow = -1 }},
		{"zero sections", func(c *Config) { c.Sections = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestParseSpectrum(t *testing.T) {
	s, err := ParseSpectrum("psd")
	require.NoError(t, err)
	assert.Equal(t, dsp.PowerDensity, s)

	s, err = ParseSpectrum("complex")
	require.NoError(t, err)
	assert.Equal(t, dsp.ComplexSpectrum, s)

	_, err = ParseSpectrum("magnitude")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_NewClutterFilter(t *testing.T) {
	cfg := DefaultConfig()
	f, err := cfg.NewClutterFilter()
	require.NoError(t, err)
	assert.IsType(t, dsp.ZeroPhase{}, f)
	assert.Equal(t, 16, f.MinSamples())

	cfg.FilterMode = SinglePassFilter
	f, err = cfg.NewClutterFilter()
	require.NoError(t, err)
	assert.IsType(t, dsp.SinglePass{}, f)
	assert.Equal(t, 5, f.MinSamples())

	cfg.FilterCutoff = 0
	_, err = cfg.NewClutterFilter()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, dsp.ErrInvalidFilter)
}
