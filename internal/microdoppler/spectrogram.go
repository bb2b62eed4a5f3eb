package microdoppler

import (
	"context"
	"fmt"
	"runtime"

	"github.com/banshee-data/microdoppler/internal/dsp"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// BinRange is a closed interval of range-bin rows.
type BinRange struct {
	Low  int
	High int
}

// Len is the number of bins in the interval, zero when inverted.
func (b BinRange) Len() int {
	if b.High < b.Low {
		return 0
	}
	return b.High - b.Low + 1
}

func (b BinRange) String() string { return fmt.Sprintf("[%d, %d]", b.Low, b.High) }

// ResolveBins clamps [low, high] to the rows available. An interval that is
// empty after clamping is ErrEmptyAccumulation.
func ResolveBins(low, high, rows int) (BinRange, error) {
	b := BinRange{Low: low, High: high}
	if b.Low < 0 {
		b.Low = 0
	}
	if b.High > rows-1 {
		b.High = rows - 1
	}
	if b.Len() == 0 {
		return b, fmt.Errorf("%w: bins [%d, %d] resolve to %v over %d rows", ErrEmptyAccumulation, low, high, b, rows)
	}
	return b, nil
}

// Spectrogram is the composite Doppler-time map. Rows are Doppler bins in
// display order (row 0 is the highest frequency) and columns are time
// windows.
type Spectrogram struct {
	data     *mat.CDense
	timeAxis []float64
}

// NewSpectrogram wraps a Doppler-by-time matrix, already in display order,
// with its column times. The matrix is copied.
func NewSpectrogram(data mat.CMatrix, timeAxis []float64) (*Spectrogram, error) {
	r, c := data.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("%w: empty %dx%d spectrogram", ErrEmptyAccumulation, r, c)
	}
	if len(timeAxis) != c {
		return nil, fmt.Errorf("%w: %d time points for %d columns", ErrShapeMismatch, len(timeAxis), c)
	}
	cp := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			cp.Set(i, j, data.At(i, j))
		}
	}
	axis := make([]float64, c)
	copy(axis, timeAxis)
	return &Spectrogram{data: cp, timeAxis: axis}, nil
}

// Dims returns the number of Doppler rows and time columns.
func (s *Spectrogram) Dims() (rows, cols int) { return s.data.Dims() }

// At returns the accumulated value at a Doppler row and time column.
func (s *Spectrogram) At(row, col int) complex128 { return s.data.At(row, col) }

// TimeAxis returns a copy of the column times in seconds.
func (s *Spectrogram) TimeAxis() []float64 {
	out := make([]float64, len(s.timeAxis))
	copy(out, s.timeAxis)
	return out
}

// Add returns the element-wise sum of two spectrograms of the same shape.
// Adding the maps of disjoint bin intervals gives the map of their union.
func (s *Spectrogram) Add(o *Spectrogram) (*Spectrogram, error) {
	r, c := s.Dims()
	or, oc := o.Dims()
	if r != or || c != oc {
		return nil, fmt.Errorf("%w: cannot add %dx%d spectrogram to %dx%d", ErrShapeMismatch, or, oc, r, c)
	}
	sum := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sum.Set(i, j, s.data.At(i, j)+o.data.At(i, j))
		}
	}
	return &Spectrogram{data: sum, timeAxis: s.TimeAxis()}, nil
}

// grid is one bin's short-time transform, indexed [segment][frequency].
type grid [][]complex128

func (g grid) addFrom(o grid) {
	for s := range g {
		for k := range g[s] {
			g[s][k] += o[s][k]
		}
	}
}

// Accumulator sums per-bin short-time spectra into a Spectrogram.
type Accumulator struct {
	params  Parameters
	stft    dsp.STFTConfig
	workers int
}

// NewAccumulator prepares the short-time analysis described by cfg for an
// acquisition with parameters p.
func NewAccumulator(cfg Config, p Parameters) *Accumulator {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Accumulator{params: p, stft: cfg.stftConfig(), workers: workers}
}

// Accumulate transforms every row of filtered inside bins and adds the
// results. Bins are transformed in parallel and combined by a pairwise tree
// in bin order, so the result does not depend on scheduling.
func (a *Accumulator) Accumulate(ctx context.Context, filtered *mat.CDense, bins BinRange) (*Spectrogram, error) {
	rows, pulses := filtered.Dims()
	if bins.Len() == 0 || bins.Low < 0 || bins.High >= rows {
		return nil, fmt.Errorf("%w: bins %v outside %d rows", ErrEmptyAccumulation, bins, rows)
	}
	if pulses != a.params.PulseCount {
		return nil, fmt.Errorf("%w: filtered matrix has %d pulses, parameters were derived for %d",
			ErrShapeMismatch, pulses, a.params.PulseCount)
	}

	partials := make([]grid, bins.Len())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := range partials {
		row := bins.Low + i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			spec, err := dsp.STFT(rowView(filtered, row), a.stft)
			if err != nil {
				return fmt.Errorf("range bin %d: %w", row, err)
			}
			partials[i] = spec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := treeSum(partials)
	if len(sum) != a.params.NumTimeWindows {
		return nil, fmt.Errorf("%w: %d time windows, parameters expect %d",
			ErrShapeMismatch, len(sum), a.params.NumTimeWindows)
	}

	// Flip along frequency for display.
	n := a.params.FFTPoints
	data := mat.NewCDense(n, len(sum), nil)
	for s, spectrum := range sum {
		for k, v := range spectrum {
			data.Set(n-1-k, s, v)
		}
	}
	return &Spectrogram{data: data, timeAxis: a.params.TimeAxis()}, nil
}

// treeSum adds neighbours pairwise until one grid is left. It reuses the
// storage of its inputs.
func treeSum(parts []grid) grid {
	for len(parts) > 1 {
		next := make([]grid, 0, (len(parts)+1)/2)
		for i := 0; i+1 < len(parts); i += 2 {
			parts[i].addFrom(parts[i+1])
			next = append(next, parts[i])
		}
		if len(parts)%2 == 1 {
			next = append(next, parts[len(parts)-1])
		}
		parts = next
	}
	return parts[0]
}
