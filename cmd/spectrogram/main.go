// Command spectrogram renders micro-Doppler spectrogram sections for every
// radar acquisition found under an input directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/microdoppler/internal/batch"
	"github.com/banshee-data/microdoppler/internal/catalog"
	"github.com/banshee-data/microdoppler/internal/config"
	"github.com/banshee-data/microdoppler/internal/fsutil"
	"github.com/banshee-data/microdoppler/internal/ingest"
	"github.com/banshee-data/microdoppler/internal/microdoppler"
	"github.com/banshee-data/microdoppler/internal/monitoring"
	"github.com/banshee-data/microdoppler/internal/render"
	"github.com/banshee-data/microdoppler/internal/timeutil"
	"github.com/banshee-data/microdoppler/internal/version"
)

var (
	inputDir      = flag.String("input", "", "Root directory of acquisitions (required)")
	outputDir     = flag.String("output", "", "Root directory for rendered sections (required)")
	configPath    = flag.String("config", "", "Pipeline configuration JSON (defaults when empty)")
	catalogPath   = flag.String("catalog", "", "SQLite catalog path; empty disables run recording")
	workers       = flag.Int("workers", 1, "Acquisitions processed concurrently")
	skipCompleted = flag.Bool("skip-completed", false, "Skip acquisitions the catalog marks as succeeded for this output root")
	overview      = flag.Bool("overview", false, "Also write an HTML overview per acquisition")
	debug         = flag.Bool("debug", false, "Enable debug logging")
	showVersion   = flag.Bool("version", false, "Print version and exit")
)

type options struct {
	Input         string
	Output        string
	ConfigPath    string
	CatalogPath   string
	Workers       int
	SkipCompleted bool
	Overview      bool
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *inputDir == "" || *outputDir == "" {
		log.Fatal("-input and -output are required")
	}
	monitoring.SetDebug(*debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, err := run(ctx, options{
		Input:         *inputDir,
		Output:        *outputDir,
		ConfigPath:    *configPath,
		CatalogPath:   *catalogPath,
		Workers:       *workers,
		SkipCompleted: *skipCompleted,
		Overview:      *overview,
	})
	if err != nil {
		log.Fatalf("spectrogram: %v", err)
	}
	if sum.Failed > 0 {
		log.Printf("%d of %d acquisitions failed", sum.Failed, len(sum.Outcomes))
		os.Exit(1)
	}
}

func run(ctx context.Context, o options) (*batch.Summary, error) {
	pcfg := config.DefaultPipelineConfig()
	if o.ConfigPath != "" {
		var err error
		if pcfg, err = config.LoadPipelineConfig(o.ConfigPath); err != nil {
			return nil, err
		}
	}
	if o.Overview {
		pcfg.Overview = &o.Overview
	}

	cfg, err := pcfg.Processing()
	if err != nil {
		return nil, err
	}
	proc, err := microdoppler.NewProcessor(cfg)
	if err != nil {
		return nil, err
	}
	fsys := fsutil.OSFileSystem{}
	writer, err := render.NewWriter(fsys, pcfg.Render())
	if err != nil {
		return nil, err
	}

	runner := &batch.Runner{
		Loader:        ingest.NewLoader(fsys, pcfg.GetHeaderRows(), pcfg.GetMetadataColumns()),
		Processor:     proc,
		Writer:        writer,
		Clock:         timeutil.RealClock{},
		Workers:       o.Workers,
		SkipCompleted: o.SkipCompleted,
		ConfigJSON:    pcfg.JSON(),
	}
	if o.CatalogPath != "" {
		cat, err := catalog.Open(o.CatalogPath)
		if err != nil {
			return nil, err
		}
		defer cat.Close()
		runner.Recorder = cat
	} else if o.SkipCompleted {
		return nil, fmt.Errorf("-skip-completed requires -catalog")
	}

	monitoring.Logf("%s", version.String())
	return runner.Run(ctx, o.Input, o.Output)
}
