// Package testutil provides shared test utilities and fixtures.
//
// The fixtures synthesise raw I/Q channel matrices for known scenes so tests
// can check where the chain puts energy without real captures.
package testutil

import (
	"bytes"
	"encoding/csv"
	"math"
	"math/cmplx"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/banshee-data/microdoppler/internal/fsutil"
	"gonum.org/v1/gonum/mat"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// Target is a moving point return.
type Target struct {
	RangeCycles float64 // fast-time cycles per pulse, selects the range bin
	DopplerHz   float64
	Amplitude   float64
}

// Clutter is a stationary return with no Doppler shift.
type Clutter struct {
	RangeCycles float64
	Amplitude   float64
}

// Scene describes a synthetic acquisition.
type Scene struct {
	Pulses          int
	RangeSamples    int
	MetadataColumns int
	SampleInterval  float64
	Targets         []Target
	Clutter         []Clutter
}

// Baseband evaluates the scene at one range sample and pulse.
func (s Scene) Baseband(r, p int) complex128 {
	var v complex128
	fr := float64(r) / float64(s.RangeSamples)
	for _, tg := range s.Targets {
		phase := 2 * math.Pi * (tg.RangeCycles*fr + tg.DopplerHz*float64(p)*s.SampleInterval)
		v += complex(tg.Amplitude, 0) * cmplx.Exp(complex(0, phase))
	}
	for _, c := range s.Clutter {
		v += complex(c.Amplitude, 0) * cmplx.Exp(complex(0, 2*math.Pi*c.RangeCycles*fr))
	}
	return v
}

// Channels renders the scene as pulse-major raw I and Q matrices. The
// metadata columns hold the pulse index, the pulse time and zeros.
func (s Scene) Channels() (i, q *mat.Dense) {
	cols := s.MetadataColumns + s.RangeSamples
	i = mat.NewDense(s.Pulses, cols, nil)
	q = mat.NewDense(s.Pulses, cols, nil)
	for p := 0; p < s.Pulses; p++ {
		for m := 0; m < s.MetadataColumns; m++ {
			var v float64
			switch m {
			case 0:
				v = float64(p)
			case 1:
				v = float64(p) * s.SampleInterval
			}
			i.Set(p, m, v)
			q.Set(p, m, v)
		}
		for r := 0; r < s.RangeSamples; r++ {
			v := s.Baseband(r, p)
			i.Set(p, s.MetadataColumns+r, real(v))
			q.Set(p, s.MetadataColumns+r, imag(v))
		}
	}
	return i, q
}

// MatrixCSV encodes m as CSV with one header row.
func MatrixCSV(m *mat.Dense) []byte {
	rows, cols := m.Dims()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := make([]string, cols)
	for c := range header {
		header[c] = "c" + strconv.Itoa(c)
	}
	_ = w.Write(header)
	record := make([]string, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			record[c] = strconv.FormatFloat(m.At(r, c), 'g', -1, 64)
		}
		_ = w.Write(record)
	}
	w.Flush()
	return buf.Bytes()
}

// WriteAcquisition stores the scene's channels as I_raw.csv and Q_raw.csv
// inside dir, creating it when needed.
func WriteAcquisition(t *testing.T, fs fsutil.FileSystem, dir string, s Scene) {
	t.Helper()
	i, q := s.Channels()
	AssertNoError(t, fs.MkdirAll(dir, 0755))
	AssertNoError(t, fs.WriteFile(filepath.Join(dir, "I_raw.csv"), MatrixCSV(i), 0644))
	AssertNoError(t, fs.WriteFile(filepath.Join(dir, "Q_raw.csv"), MatrixCSV(q), 0644))
}

// WalkingScene is a 100-sample, 500-pulse capture of one target at 30 Hz
// Doppler in range bin 10 behind strong stationary clutter in bin 20.
func WalkingScene() Scene {
	return Scene{
		Pulses:          500,
		RangeSamples:    100,
		MetadataColumns: 3,
		SampleInterval:  0.0082,
		Targets:         []Target{{RangeCycles: 10, DopplerHz: 30, Amplitude: 1}},
		Clutter:         []Clutter{{RangeCycles: 20, Amplitude: 5}},
	}
}
