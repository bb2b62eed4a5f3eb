package microdoppler

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// MagnitudeFloor replaces magnitudes below it before taking the logarithm.
const MagnitudeFloor = 1e-12

// Extent is the physical span a section is drawn over.
type Extent struct {
	TimeStart   float64 // seconds
	TimeEnd     float64 // seconds
	VelocityMin float64 // m/s
	VelocityMax float64 // m/s
}

// TimeSection is one equal-width slice of a spectrogram's columns.
type TimeSection struct {
	Index       int // 0-based
	StartColumn int // inclusive
	EndColumn   int // exclusive
	// LogMagnitude holds 20·log10|v| with rows in spectrogram order.
	LogMagnitude *mat.Dense
	Extent       Extent
}

// Width is the number of columns in the section.
func (t TimeSection) Width() int { return t.EndColumn - t.StartColumn }

// LogMagnitude returns 20·log10|v|, flooring |v| at MagnitudeFloor.
func LogMagnitude(v complex128) float64 {
	m := cmplx.Abs(v)
	if m < MagnitudeFloor {
		m = MagnitudeFloor
	}
	return 20 * math.Log10(m)
}

// SplitSections cuts s into n sections of floor(cols/n) columns each.
// Trailing columns that do not fill a section are dropped. Every section
// carries the global time extent and the velocity extent of p.
func SplitSections(s *Spectrogram, p Parameters, n int) ([]TimeSection, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: sections must be at least 1, got %d", ErrInvalidConfig, n)
	}
	rows, cols := s.Dims()
	width := cols / n
	if width == 0 {
		return nil, fmt.Errorf("%w: %d time windows cannot fill %d sections", ErrInsufficientSamples, cols, n)
	}

	axis := s.timeAxis
	vmin, vmax := p.VelocityExtent()
	extent := Extent{
		TimeStart:   axis[0],
		TimeEnd:     axis[len(axis)-1],
		VelocityMin: vmin,
		VelocityMax: vmax,
	}

	out := make([]TimeSection, n)
	for k := range out {
		start := k * width
		lm := mat.NewDense(rows, width, nil)
		for r := 0; r < rows; r++ {
			for c := 0; c < width; c++ {
				lm.Set(r, c, LogMagnitude(s.data.At(r, start+c)))
			}
		}
		out[k] = TimeSection{
			Index:        k,
			StartColumn:  start,
			EndColumn:    start + width,
			LogMagnitude: lm,
			Extent:       extent,
		}
	}
	return out, nil
}
