package render

import (
	"bytes"
	"context"
	"image"
	"io/fs"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"testing"

	"github.com/banshee-data/microdoppler/internal/fsutil"
	"github.com/banshee-data/microdoppler/internal/microdoppler"
	"github.com/banshee-data/microdoppler/internal/testutil"
	"github.com/banshee-data/microdoppler/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walkingResult(t *testing.T) *microdoppler.Result {
	t.Helper()
	proc, err := microdoppler.NewProcessor(microdoppler.DefaultConfig())
	require.NoError(t, err)
	i, q := testutil.WalkingScene().Channels()
	res, err := proc.Process(context.Background(), microdoppler.ChannelPair{Label: "walk/01", I: i, Q: q})
	require.NoError(t, err)
	return res
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero width", func(o *Options) { o.Width = 0 }},
		{"negative height", func(o *Options) { o.Height = -1 }},
		{"gif", func(o *Options) { o.Format = "gif" }},
		{"prefix with slash", func(o *Options) { o.DirPrefix = "a/b" }},
		{"bad units", func(o *Options) { o.VelocityUnits = "knots" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.mutate(&o)
			assert.Error(t, o.Validate())
			_, err := NewWriter(fsutil.NewMemoryFileSystem(), o)
			assert.Error(t, err)
		})
	}
}

func TestWriter_SectionPath(t *testing.T) {
	w, err := NewWriter(fsutil.NewMemoryFileSystem(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "/out/walk/radar1_01/1.jpg", w.SectionPath("/out/walk", 0))
	assert.Equal(t, "/out/walk/radar1_08/8.jpg", w.SectionPath("/out/walk", 7))
}

func TestWriter_Write(t *testing.T) {
	res := walkingResult(t)
	mfs := fsutil.NewMemoryFileSystem()
	w, err := NewWriter(mfs, DefaultOptions())
	require.NoError(t, err)

	images, err := w.Write(context.Background(), "/out/walk/01", res)
	require.NoError(t, err)
	require.Len(t, images, 8)

	for k, img := range images {
		assert.Equal(t, k+1, img.Section)
		assert.Equal(t, w.SectionPath("/out/walk/01", k), img.Path)

		data, err := mfs.ReadFile(img.Path)
		require.NoError(t, err)
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.InDelta(t, 884, cfg.Width, 1)
		assert.InDelta(t, 663, cfg.Height, 1)
	}
	_, err = mfs.Stat("/out/walk/01/" + OverviewFile)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWriter_PNGAndOverview(t *testing.T) {
	res := walkingResult(t)
	mfs := fsutil.NewMemoryFileSystem()
	opts := DefaultOptions()
	opts.Format = FormatPNG
	opts.Width, opts.Height = 200, 150
	opts.DirPrefix = "sec_"
	opts.Overview = true
	opts.VelocityUnits = units.KPH
	w, err := NewWriter(mfs, opts)
	require.NoError(t, err)

	images, err := w.Write(context.Background(), "/out", res)
	require.NoError(t, err)
	require.Len(t, images, 8)
	assert.Equal(t, "/out/sec_3/3.png", images[2].Path)

	data, err := mfs.ReadFile(images[2].Path)
	require.NoError(t, err)
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	html, err := mfs.ReadFile("/out/" + OverviewFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(html), "walk/01"))
	assert.True(t, strings.Contains(string(html), "Velocity (km"))
}

func TestWriter_Cancelled(t *testing.T) {
	res := walkingResult(t)
	w, err := NewWriter(fsutil.NewMemoryFileSystem(), DefaultOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	images, err := w.Write(ctx, "/out", res)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, images)
}

func TestSectionGrid(t *testing.T) {
	res := walkingResult(t)
	sec := res.Sections[0]
	g := sectionGrid{sec: sec}

	c, r := g.Dims()
	assert.Equal(t, sec.Width(), c)
	assert.Equal(t, 128, r)

	// Grid row 0 is the lowest Doppler bin, the last spectrogram row.
	assert.Equal(t, sec.LogMagnitude.At(127, 2), g.Z(2, 0))
	assert.Equal(t, sec.LogMagnitude.At(0, 2), g.Z(2, 127))

	assert.Greater(t, g.X(1), g.X(0))
	assert.Greater(t, g.Y(1), g.Y(0))
	assert.Greater(t, g.Y(0), sec.Extent.VelocityMin)
	assert.Less(t, g.Y(127), sec.Extent.VelocityMax)
}

func TestSectionPlot_Errors(t *testing.T) {
	_, err := SectionPlot(microdoppler.TimeSection{})
	assert.Error(t, err)
}

func TestOverview_InvalidUnits(t *testing.T) {
	_, err := Overview(walkingResult(t), "furlongs")
	assert.Error(t, err)
}
