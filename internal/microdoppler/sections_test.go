package microdoppler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spectrogramWithColumns(t *testing.T, cols int) (*Spectrogram, Parameters) {
	t.Helper()
	cfg := DefaultConfig()
	p := testParams(cfg, cols*cfg.WindowLength)
	require.Equal(t, cols, p.NumTimeWindows)
	s, err := NewSpectrogram(randomCDense(int64(cols), p.FFTPoints, cols), p.TimeAxis())
	require.NoError(t, err)
	return s, p
}

func TestSplitSections_EvenColumns(t *testing.T) {
	s, p := spectrogramWithColumns(t, 64)

	sections, err := SplitSections(s, p, 8)
	require.NoError(t, err)
	require.Len(t, sections, 8)

	next := 0
	for k, sec := range sections {
		assert.Equal(t, k, sec.Index)
		assert.Equal(t, next, sec.StartColumn, "no gaps")
		assert.Equal(t, 8, sec.Width())
		r, c := sec.LogMagnitude.Dims()
		assert.Equal(t, 128, r)
		assert.Equal(t, 8, c)
		next = sec.EndColumn
	}
	assert.Equal(t, 64, next)
}

func TestSplitSections_DropsRemainder(t *testing.T) {
	s, p := spectrogramWithColumns(t, 65)

	sections, err := SplitSections(s, p, 8)
	require.NoError(t, err)
	require.Len(t, sections, 8)
	assert.Equal(t, 64, sections[7].EndColumn, "column 64 is dropped")
	for _, sec := range sections {
		assert.Equal(t, 8, sec.Width())
	}
}

func TestSplitSections_Values(t *testing.T) {
	s, p := spectrogramWithColumns(t, 24)

	sections, err := SplitSections(s, p, 3)
	require.NoError(t, err)
	sec := sections[2]
	for r := 0; r < 128; r += 17 {
		for c := 0; c < sec.Width(); c++ {
			assert.Equal(t, LogMagnitude(s.At(r, sec.StartColumn+c)), sec.LogMagnitude.At(r, c))
		}
	}

	lo, hi := p.VelocityExtent()
	ta := s.TimeAxis()
	for _, sec := range sections {
		assert.Equal(t, Extent{TimeStart: 0, TimeEnd: ta[23], VelocityMin: lo, VelocityMax: hi}, sec.Extent,
			"every section carries the global extents")
	}
}

func TestSplitSections_Errors(t *testing.T) {
	s, p := spectrogramWithColumns(t, 7)

	_, err := SplitSections(s, p, 8)
	assert.ErrorIs(t, err, ErrInsufficientSamples)

	_, err = SplitSections(s, p, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLogMagnitude(t *testing.T) {
	assert.InDelta(t, 20, LogMagnitude(10), 1e-12)
	assert.InDelta(t, 0, LogMagnitude(complex(0.6, 0.8)), 1e-12)
	assert.InDelta(t, -240, LogMagnitude(0), 1e-9)
	assert.False(t, math.IsInf(LogMagnitude(1e-300), -1))
}
