// Package batch drives the spectrogram pipeline over every acquisition
// found under an input root.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/microdoppler/internal/catalog"
	"github.com/banshee-data/microdoppler/internal/ingest"
	"github.com/banshee-data/microdoppler/internal/microdoppler"
	"github.com/banshee-data/microdoppler/internal/monitoring"
	"github.com/banshee-data/microdoppler/internal/render"
	"github.com/banshee-data/microdoppler/internal/security"
	"github.com/banshee-data/microdoppler/internal/timeutil"
	"github.com/banshee-data/microdoppler/internal/version"
)

// Source finds acquisitions and loads their channel pairs.
type Source interface {
	Discover(root string) ([]ingest.Acquisition, error)
	Load(dir, label string) (microdoppler.ChannelPair, error)
}

// Pipeline turns a channel pair into a result.
type Pipeline interface {
	Process(ctx context.Context, pair microdoppler.ChannelPair) (*microdoppler.Result, error)
}

// Sink persists a result under outDir.
type Sink interface {
	Write(ctx context.Context, outDir string, res *microdoppler.Result) ([]render.Image, error)
}

// Recorder is the subset of the catalog the runner writes to.
type Recorder interface {
	StartRun(ctx context.Context, r catalog.Run) (catalog.Run, error)
	FinishRun(ctx context.Context, id string, at time.Time) error
	RecordAcquisition(ctx context.Context, rec catalog.AcquisitionRecord) error
	CompletedLabels(ctx context.Context, outputRoot string) (map[string]bool, error)
}

// Runner processes acquisitions independently. A failure in one never
// stops the others. Recorder and Clock are optional.
type Runner struct {
	Loader    Source
	Processor Pipeline
	Writer    Sink
	Recorder  Recorder
	Clock     timeutil.Clock

	Workers       int // acquisitions in flight; <1 means 1
	SkipCompleted bool
	ConfigJSON    string // stored with the run
}

// Outcome is the result of one acquisition.
type Outcome struct {
	Acquisition ingest.Acquisition
	OutputDir   string
	Status      catalog.Status
	Stage       string
	Err         error
	Images      []render.Image
	RangeBins   int
	Pulses      int
	TimeWindows int
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Summary aggregates a run. Outcomes follow discovery order and only
// include acquisitions that were scheduled.
type Summary struct {
	RunID     string
	Outcomes  []Outcome
	Succeeded int
	Failed    int
	Skipped   int
}

// Run discovers acquisitions under inputRoot and mirrors their images into
// outputRoot. The returned error is non-nil only for discovery or catalog
// failures, or when ctx was cancelled; acquisition failures are reported
// in the summary.
func (r *Runner) Run(ctx context.Context, inputRoot, outputRoot string) (*Summary, error) {
	if r.Loader == nil || r.Processor == nil || r.Writer == nil {
		return nil, errors.New("batch runner requires a loader, processor and writer")
	}
	clock := r.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	acqs, err := r.Loader.Discover(inputRoot)
	if err != nil {
		return nil, fmt.Errorf("discover acquisitions: %w", err)
	}
	monitoring.Logf("found %d acquisitions under %s", len(acqs), inputRoot)

	completed := map[string]bool{}
	run := catalog.Run{
		ID:         uuid.NewString(),
		StartedAt:  clock.Now(),
		InputRoot:  inputRoot,
		OutputRoot: outputRoot,
		Version:    version.Version,
		ConfigJSON: r.ConfigJSON,
	}
	if r.Recorder != nil {
		if r.SkipCompleted {
			if completed, err = r.Recorder.CompletedLabels(ctx, outputRoot); err != nil {
				return nil, fmt.Errorf("load completed acquisitions: %w", err)
			}
		}
		if run, err = r.Recorder.StartRun(ctx, run); err != nil {
			return nil, fmt.Errorf("start run: %w", err)
		}
	}

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	var (
		mu        sync.Mutex
		recordErr error
	)
	outcomes := make([]*Outcome, len(acqs))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, acq := range acqs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			out := r.process(ctx, clock, acq, outputRoot, completed[acq.Label])
			outcomes[i] = &out
			if r.Recorder == nil {
				return nil
			}
			// Record even when ctx is cancelled so finished work is kept.
			if err := r.Recorder.RecordAcquisition(context.WithoutCancel(ctx), out.record(run.ID)); err != nil {
				monitoring.Logf("[%s] failed to record outcome: %v", acq.Label, err)
				mu.Lock()
				if recordErr == nil {
					recordErr = err
				}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	sum := &Summary{RunID: run.ID}
	for _, o := range outcomes {
		if o == nil {
			continue
		}
		switch o.Status {
		case catalog.StatusSucceeded:
			sum.Succeeded++
		case catalog.StatusFailed:
			sum.Failed++
		case catalog.StatusSkipped:
			sum.Skipped++
		}
		sum.Outcomes = append(sum.Outcomes, *o)
	}

	if r.Recorder != nil {
		if err := r.Recorder.FinishRun(context.WithoutCancel(ctx), run.ID, clock.Now()); err != nil && recordErr == nil {
			recordErr = err
		}
	}
	monitoring.Logf("run %s: %d succeeded, %d failed, %d skipped", run.ID, sum.Succeeded, sum.Failed, sum.Skipped)

	if recordErr != nil {
		recordErr = fmt.Errorf("catalog: %w", recordErr)
	}
	return sum, errors.Join(ctx.Err(), recordErr)
}

func (r *Runner) process(ctx context.Context, clock timeutil.Clock, acq ingest.Acquisition, outputRoot string, done bool) Outcome {
	out := Outcome{Acquisition: acq, StartedAt: clock.Now()}
	finish := func(status catalog.Status, err error) Outcome {
		out.Status = status
		out.Err = err
		out.Stage = microdoppler.StageOf(err)
		out.FinishedAt = clock.Now()
		if err != nil {
			monitoring.Logf("[%s] failed: %v", acq.Label, err)
		}
		return out
	}

	outDir, err := security.JoinWithin(outputRoot, acq.Label)
	if err != nil {
		return finish(catalog.StatusFailed, microdoppler.Wrap(acq.Label, microdoppler.StageRender, err))
	}
	out.OutputDir = outDir

	if done {
		monitoring.Debugf("[%s] already completed, skipping", acq.Label)
		return finish(catalog.StatusSkipped, nil)
	}

	pair, err := r.Loader.Load(acq.Dir, acq.Label)
	if err != nil {
		return finish(catalog.StatusFailed, microdoppler.Wrap(acq.Label, microdoppler.StageLoad, err))
	}
	res, err := r.Processor.Process(ctx, pair)
	if err != nil {
		return finish(catalog.StatusFailed, err)
	}
	out.RangeBins = res.RangeBins
	out.Pulses = res.Parameters.PulseCount
	out.TimeWindows = res.Parameters.NumTimeWindows

	images, err := r.Writer.Write(ctx, out.OutputDir, res)
	out.Images = images
	if err != nil {
		return finish(catalog.StatusFailed, microdoppler.Wrap(acq.Label, microdoppler.StageRender, err))
	}
	monitoring.Debugf("[%s] wrote %d images to %s", acq.Label, len(images), out.OutputDir)
	return finish(catalog.StatusSucceeded, nil)
}

func (o Outcome) record(runID string) catalog.AcquisitionRecord {
	rec := catalog.AcquisitionRecord{
		RunID:       runID,
		Label:       o.Acquisition.Label,
		InputDir:    o.Acquisition.Dir,
		OutputDir:   o.OutputDir,
		Status:      o.Status,
		Stage:       o.Stage,
		RangeBins:   o.RangeBins,
		Pulses:      o.Pulses,
		TimeWindows: o.TimeWindows,
		StartedAt:   o.StartedAt,
		FinishedAt:  o.FinishedAt,
	}
	if o.Err != nil {
		rec.Error = o.Err.Error()
	}
	for _, img := range o.Images {
		rec.Images = append(rec.Images, catalog.SectionImage{Section: img.Section, Path: img.Path})
	}
	return rec
}
