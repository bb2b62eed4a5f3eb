// Package render draws time sections as heat-map images and writes them,
// with an optional HTML overview, under an acquisition's output directory.
package render

import (
	"context"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/banshee-data/microdoppler/internal/fsutil"
	"github.com/banshee-data/microdoppler/internal/microdoppler"
	"github.com/banshee-data/microdoppler/internal/units"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Image formats accepted in Options.Format.
const (
	FormatJPEG = "jpg"
	FormatPNG  = "png"
)

// Options controls image geometry and layout.
type Options struct {
	Width         int    // pixels
	Height        int    // pixels
	Format        string // FormatJPEG or FormatPNG
	DirPrefix     string // section k is written to <DirPrefix><k>/<k>.<Format>
	VelocityUnits string // units for the overview axis
	Overview      bool   // also write overview.html
}

// DefaultOptions matches the training-set layout: 884x663 JPEGs under
// radar1_0<k>/.
func DefaultOptions() Options {
	return Options{
		Width:         884,
		Height:        663,
		Format:        FormatJPEG,
		DirPrefix:     "radar1_0",
		VelocityUnits: units.MPS,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", o.Width, o.Height)
	}
	switch strings.ToLower(o.Format) {
	case FormatJPEG, "jpeg", FormatPNG:
	default:
		return fmt.Errorf("unsupported image format %q: must be jpg or png", o.Format)
	}
	if strings.ContainsAny(o.DirPrefix, `/\`) {
		return fmt.Errorf("directory prefix %q must not contain path separators", o.DirPrefix)
	}
	return units.Validate(o.VelocityUnits)
}

// Image is one written file.
type Image struct {
	Section int // 1-based
	Path    string
}

// Writer renders a processed acquisition to files.
type Writer struct {
	FS      fsutil.FileSystem
	Options Options
}

// NewWriter returns a Writer after validating opts.
func NewWriter(fsys fsutil.FileSystem, opts Options) (*Writer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Writer{FS: fsys, Options: opts}, nil
}

// SectionPath is where section index (0-based) is written.
func (w *Writer) SectionPath(outDir string, index int) string {
	k := index + 1
	return filepath.Join(outDir, fmt.Sprintf("%s%d", w.Options.DirPrefix, k),
		fmt.Sprintf("%d.%s", k, strings.ToLower(w.Options.Format)))
}

// Write renders every section of res, and the overview when enabled.
func (w *Writer) Write(ctx context.Context, outDir string, res *microdoppler.Result) ([]Image, error) {
	images := make([]Image, 0, len(res.Sections))
	for _, sec := range res.Sections {
		if err := ctx.Err(); err != nil {
			return images, err
		}
		path, err := w.WriteSection(outDir, sec)
		if err != nil {
			return images, err
		}
		images = append(images, Image{Section: sec.Index + 1, Path: path})
	}
	if w.Options.Overview {
		if _, err := w.WriteOverview(outDir, res); err != nil {
			return images, err
		}
	}
	return images, nil
}

// WriteSection rasterizes one section and returns the file path.
func (w *Writer) WriteSection(outDir string, sec microdoppler.TimeSection) (string, error) {
	p, err := SectionPlot(sec)
	if err != nil {
		return "", err
	}
	wt, err := p.WriterTo(pixels(w.Options.Width), pixels(w.Options.Height), strings.ToLower(w.Options.Format))
	if err != nil {
		return "", fmt.Errorf("section %d: %w", sec.Index+1, err)
	}

	path := w.SectionPath(outDir, sec.Index)
	if err := w.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create section dir: %w", err)
	}
	f, err := w.FS.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// pixels converts a pixel count to a length at the 96 dpi raster default.
func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / 96
}

// SectionPlot builds an axis-free heat map of sec stretched over its extent.
func SectionPlot(sec microdoppler.TimeSection) (*plot.Plot, error) {
	if sec.LogMagnitude == nil {
		return nil, fmt.Errorf("section %d has no data", sec.Index+1)
	}
	if sec.Extent.TimeEnd <= sec.Extent.TimeStart {
		sec.Extent.TimeEnd = sec.Extent.TimeStart + microdoppler.VelocityEpsilon
	}
	g := sectionGrid{sec: sec}
	hm := plotter.NewHeatMap(g, palette.Heat(256, 1))
	if hm.Max <= hm.Min {
		hm.Max = hm.Min + 1
	}
	hm.NaN = color.Black

	p := plot.New()
	p.Add(hm)
	p.HideAxes()
	p.X.Padding, p.Y.Padding = 0, 0
	p.X.Min, p.X.Max = sec.Extent.TimeStart, sec.Extent.TimeEnd
	p.Y.Min, p.Y.Max = sec.Extent.VelocityMin, sec.Extent.VelocityMax
	return p, nil
}

// sectionGrid adapts a TimeSection to plotter.GridXYZ. Grid rows run from
// the lowest Doppler bin up; cells are spread evenly over the extent.
type sectionGrid struct {
	sec microdoppler.TimeSection
}

func (g sectionGrid) Dims() (c, r int) {
	rows, cols := g.sec.LogMagnitude.Dims()
	return cols, rows
}

func (g sectionGrid) Z(c, r int) float64 {
	rows, _ := g.sec.LogMagnitude.Dims()
	return g.sec.LogMagnitude.At(rows-1-r, c)
}

func (g sectionGrid) X(c int) float64 {
	cols, _ := g.Dims()
	e := g.sec.Extent
	return e.TimeStart + (float64(c)+0.5)*(e.TimeEnd-e.TimeStart)/float64(cols)
}

func (g sectionGrid) Y(r int) float64 {
	_, rows := g.Dims()
	e := g.sec.Extent
	return e.VelocityMin + (float64(r)+0.5)*(e.VelocityMax-e.VelocityMin)/float64(rows)
}
