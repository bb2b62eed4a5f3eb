package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/microdoppler/internal/fsutil"
	"github.com/banshee-data/microdoppler/internal/testutil"
)

func TestFlagDefaults(t *testing.T) {
	if *workers != 1 {
		t.Errorf("expected workers default 1, got %d", *workers)
	}
	if *catalogPath != "" {
		t.Errorf("expected catalog disabled by default, got %q", *catalogPath)
	}
	if *skipCompleted || *overview || *debug || *showVersion {
		t.Error("expected boolean flags to default to false")
	}
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	out := filepath.Join(root, "out")
	testutil.WriteAcquisition(t, fsutil.OSFileSystem{}, filepath.Join(in, "walk", "01"), testutil.WalkingScene())

	cfgPath := filepath.Join(root, "run.json")
	if err := os.WriteFile(cfgPath, []byte(`{"sections": 2, "image_format": "png"}`), 0644); err != nil {
		t.Fatal(err)
	}

	opts := options{
		Input:       in,
		Output:      out,
		ConfigPath:  cfgPath,
		CatalogPath: filepath.Join(root, "catalog.db"),
		Workers:     1,
		Overview:    true,
	}
	sum, err := run(context.Background(), opts)
	if err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if sum.Succeeded != 1 || sum.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	for _, name := range []string{"radar1_01/1.png", "radar1_02/2.png", "overview.html"} {
		if _, err := os.Stat(filepath.Join(out, "walk", "01", name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	opts.SkipCompleted = true
	sum, err = run(context.Background(), opts)
	if err != nil {
		t.Fatalf("second run() error: %v", err)
	}
	if sum.Skipped != 1 {
		t.Errorf("expected the completed acquisition to be skipped, got %+v", sum)
	}
}

func TestRun_Errors(t *testing.T) {
	root := t.TempDir()
	tests := []struct {
		name string
		opts options
	}{
		{"missing config", options{Input: root, Output: root, ConfigPath: filepath.Join(root, "nope.json")}},
		{"skip without catalog", options{Input: root, Output: root, SkipCompleted: true}},
		{"missing input", options{Input: filepath.Join(root, "nope"), Output: root}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(context.Background(), tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}
