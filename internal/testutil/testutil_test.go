package testutil

import (
	"bytes"
	"encoding/csv"
	"math/cmplx"
	"testing"

	"github.com/banshee-data/microdoppler/internal/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertNoError(t *testing.T) {
	AssertNoError(t, nil)
}

func TestAssertError(t *testing.T) {
	AssertError(t, assert.AnError)
}

func TestScene_Channels(t *testing.T) {
	s := Scene{
		Pulses:          4,
		RangeSamples:    8,
		MetadataColumns: 3,
		SampleInterval:  0.01,
		Targets:         []Target{{RangeCycles: 1, DopplerHz: 5, Amplitude: 2}},
	}
	i, q := s.Channels()

	r, c := i.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 11, c)

	assert.Equal(t, 3.0, i.At(3, 0))
	assert.InDelta(t, 0.03, q.At(3, 1), 1e-12)
	assert.Zero(t, i.At(3, 2))

	for p := 0; p < s.Pulses; p++ {
		for rs := 0; rs < s.RangeSamples; rs++ {
			v := complex(i.At(p, 3+rs), q.At(p, 3+rs))
			assert.InDelta(t, 2.0, cmplx.Abs(v), 1e-12)
			assert.Equal(t, s.Baseband(rs, p), v)
		}
	}
}

func TestScene_ClutterIsStationary(t *testing.T) {
	s := Scene{Pulses: 3, RangeSamples: 4, SampleInterval: 0.01, Clutter: []Clutter{{RangeCycles: 1, Amplitude: 1}}}
	for r := 0; r < s.RangeSamples; r++ {
		assert.Equal(t, s.Baseband(r, 0), s.Baseband(r, 2))
	}
}

func TestMatrixCSV(t *testing.T) {
	i, _ := Scene{Pulses: 2, RangeSamples: 2, MetadataColumns: 1, SampleInterval: 1}.Channels()
	records, err := csv.NewReader(bytes.NewReader(MatrixCSV(i))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"c0", "c1", "c2"}, records[0])
	assert.Equal(t, "1", records[2][0])
}

func TestWriteAcquisition(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	WriteAcquisition(t, mfs, "/in/walk", WalkingScene())
	for _, name := range []string{"/in/walk/I_raw.csv", "/in/walk/Q_raw.csv"} {
		_, err := mfs.Stat(name)
		assert.NoError(t, err, name)
	}
}
