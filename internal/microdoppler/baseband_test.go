package microdoppler

import (
	"testing"

	"github.com/banshee-data/microdoppler/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFormBaseband(t *testing.T) {
	scene := testutil.Scene{
		Pulses:          7,
		RangeSamples:    12,
		MetadataColumns: 3,
		SampleInterval:  0.0082,
		Targets:         []testutil.Target{{RangeCycles: 2, DopplerHz: 11, Amplitude: 1}},
		Clutter:         []testutil.Clutter{{RangeCycles: 4, Amplitude: 0.5}},
	}
	i, q := scene.Channels()

	bb, err := FormBaseband(ChannelPair{Label: "a", I: i, Q: q}, 3)
	require.NoError(t, err)

	rows, cols := bb.Dims()
	assert.Equal(t, 12, rows, "rows index range samples")
	assert.Equal(t, 7, cols, "columns index pulses")
	for p := 0; p < 7; p++ {
		for r := 0; r < 12; r++ {
			v := bb.At(r, p)
			assert.Equal(t, i.At(p, r+3), real(v))
			assert.Equal(t, q.At(p, r+3), imag(v))
		}
	}
}

func TestFormBaseband_Errors(t *testing.T) {
	i := mat.NewDense(4, 6, nil)
	q := mat.NewDense(4, 6, nil)

	tests := []struct {
		name string
		pair ChannelPair
		meta int
		want error
	}{
		{"missing I", ChannelPair{Q: q}, 3, ErrMissingChannel},
		{"missing Q", ChannelPair{I: i}, 3, ErrMissingChannel},
		{"missing both", ChannelPair{}, 3, ErrMissingChannel},
		{"column mismatch", ChannelPair{I: i, Q: mat.NewDense(4, 7, nil)}, 3, ErrShapeMismatch},
		{"pulse mismatch", ChannelPair{I: i, Q: mat.NewDense(5, 6, nil)}, 3, ErrShapeMismatch},
		{"metadata only", ChannelPair{I: i, Q: q}, 6, ErrInsufficientSamples},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FormBaseband(tt.pair, tt.meta)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
