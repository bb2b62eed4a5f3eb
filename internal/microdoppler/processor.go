package microdoppler

import (
	"context"
	"time"

	"github.com/banshee-data/microdoppler/internal/dsp"
	"github.com/banshee-data/microdoppler/internal/monitoring"
	"gonum.org/v1/gonum/mat"
)

// Result is everything one acquisition produces.
type Result struct {
	Label        string
	Parameters   Parameters
	Bins         BinRange
	RangeSamples int // fast-time samples per pulse
	RangeBins    int // rows after clutter filtering
	RangeAxis    []float64
	Spectrogram  *Spectrogram
	Sections     []TimeSection

	// Unfiltered is the range-compressed matrix before clutter filtering,
	// row-aligned with the filtered bins (row 0 dropped).
	Unfiltered *mat.CDense
}

// Processor runs the full chain for one acquisition at a time. It is safe
// for concurrent use.
type Processor struct {
	cfg    Config
	filter dsp.Filter
}

// NewProcessor validates cfg and designs the clutter filter once.
func NewProcessor(cfg Config) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	filter, err := cfg.NewClutterFilter()
	if err != nil {
		return nil, err
	}
	return &Processor{cfg: cfg, filter: filter}, nil
}

// Config returns the configuration the processor was built with.
func (p *Processor) Config() Config { return p.cfg }

// Process turns a channel pair into a spectrogram and its time sections.
// Failures are *AcquisitionError values naming the pair's label and stage.
func (p *Processor) Process(ctx context.Context, pair ChannelPair) (*Result, error) {
	start := time.Now()
	label := pair.Label

	if err := ctx.Err(); err != nil {
		return nil, Wrap(label, StageBaseband, err)
	}
	baseband, err := FormBaseband(pair, p.cfg.MetadataColumns)
	if err != nil {
		return nil, Wrap(label, StageBaseband, err)
	}
	nts, pulses := baseband.Dims()
	monitoring.Debugf("[%s] baseband %dx%d", label, nts, pulses)

	compressed, err := CompressRange(baseband, p.cfg.RangeWindow)
	if err != nil {
		return nil, Wrap(label, StageRange, err)
	}

	filtered, unfiltered, err := FilterClutter(compressed, p.filter)
	if err != nil {
		return nil, Wrap(label, StageClutter, err)
	}
	rows, filteredPulses := filtered.Dims()
	monitoring.Debugf("[%s] clutter filtered %dx%d (%s)", label, rows, filteredPulses, p.cfg.FilterMode)

	params, err := DeriveParameters(p.cfg, filteredPulses)
	if err != nil {
		return nil, Wrap(label, StageParameters, err)
	}

	bins, err := ResolveBins(p.cfg.BinLow, p.cfg.BinHigh, rows)
	if err != nil {
		return nil, Wrap(label, StageSpectrogram, err)
	}
	spec, err := NewAccumulator(p.cfg, params).Accumulate(ctx, filtered, bins)
	if err != nil {
		return nil, Wrap(label, StageSpectrogram, err)
	}
	monitoring.Debugf("[%s] accumulated bins %v into %dx%d", label, bins, params.FFTPoints, params.NumTimeWindows)

	sections, err := SplitSections(spec, params, p.cfg.Sections)
	if err != nil {
		return nil, Wrap(label, StageSections, err)
	}

	monitoring.Debugf("[%s] processed in %v", label, time.Since(start))
	return &Result{
		Label:        label,
		Parameters:   params,
		Bins:         bins,
		RangeSamples: nts,
		RangeBins:    rows,
		RangeAxis:    params.RangeAxis(nts, rows),
		Unfiltered:   unfiltered,
		Spectrogram:  spec,
		Sections:     sections,
	}, nil
}
