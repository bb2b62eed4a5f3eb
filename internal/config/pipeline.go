package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/microdoppler/internal/dsp"
	"github.com/banshee-data/microdoppler/internal/microdoppler"
	"github.com/banshee-data/microdoppler/internal/render"
	"github.com/banshee-data/microdoppler/internal/units"
)

// DefaultConfigPath is the path to the canonical pipeline defaults file.
const DefaultConfigPath = "config/pipeline.defaults.json"

// Range window names.
const (
	RangeWindowRectangular = "rectangular"
	RangeWindowTukey       = "tukey"
)

// PipelineConfig is the JSON configuration for a batch. Omitted fields fall
// back to the defaults returned by the Get* methods.
type PipelineConfig struct {
	// Sensor
	SampleInterval   *float64 `json:"sample_interval,omitempty"` // seconds per pulse
	Bandwidth        *float64 `json:"bandwidth,omitempty"`       // Hz
	CarrierFrequency *float64 `json:"carrier_frequency,omitempty"`
	SpeedOfLight     *float64 `json:"speed_of_light,omitempty"`

	// Input files
	HeaderRows      *int `json:"header_rows,omitempty"`
	MetadataColumns *int `json:"metadata_columns,omitempty"`

	// Range and clutter
	RangeWindow  *string  `json:"range_window,omitempty"`
	FilterOrder  *int     `json:"filter_order,omitempty"`
	FilterCutoff *float64 `json:"filter_cutoff,omitempty"` // fraction of Nyquist
	FilterMode   *string  `json:"filter_mode,omitempty"`

	// Short-time analysis
	WindowLength *int     `json:"window_length,omitempty"`
	Overlap      *int     `json:"overlap,omitempty"`
	PadFactor    *int     `json:"pad_factor,omitempty"`
	SegmentTaper *float64 `json:"segment_taper,omitempty"`
	Detrend      *bool    `json:"detrend,omitempty"`
	SpectrumMode *string  `json:"spectrum_mode,omitempty"`
	BinLow       *int     `json:"bin_low,omitempty"`
	BinHigh      *int     `json:"bin_high,omitempty"`
	Sections     *int     `json:"sections,omitempty"`
	Workers      *int     `json:"workers,omitempty"`

	// Output
	ImageWidth    *int    `json:"image_width,omitempty"`
	ImageHeight   *int    `json:"image_height,omitempty"`
	ImageFormat   *string `json:"image_format,omitempty"`
	ImagePrefix   *string `json:"image_prefix,omitempty"`
	VelocityUnits *string `json:"velocity_units,omitempty"`
	Overview      *bool   `json:"overview,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultPipelineConfig returns a config with every field set to its default.
func DefaultPipelineConfig() *PipelineConfig {
	c := &PipelineConfig{}
	return &PipelineConfig{
		SampleInterval:   ptrFloat64(c.GetSampleInterval()),
		Bandwidth:        ptrFloat64(c.GetBandwidth()),
		CarrierFrequency: ptrFloat64(c.GetCarrierFrequency()),
		SpeedOfLight:     ptrFloat64(c.GetSpeedOfLight()),
		HeaderRows:       ptrInt(c.GetHeaderRows()),
		MetadataColumns:  ptrInt(c.GetMetadataColumns()),
		RangeWindow:      ptrString(c.GetRangeWindow()),
		FilterOrder:      ptrInt(c.GetFilterOrder()),
		FilterCutoff:     ptrFloat64(c.GetFilterCutoff()),
		FilterMode:       ptrString(c.GetFilterMode()),
		WindowLength:     ptrInt(c.GetWindowLength()),
		Overlap:          ptrInt(c.GetOverlap()),
		PadFactor:        ptrInt(c.GetPadFactor()),
		SegmentTaper:     ptrFloat64(c.GetSegmentTaper()),
		Detrend:          ptrBool(c.GetDetrend()),
		SpectrumMode:     ptrString(c.GetSpectrumMode()),
		BinLow:           ptrInt(c.GetBinLow()),
		BinHigh:          ptrInt(c.GetBinHigh()),
		Sections:         ptrInt(c.GetSections()),
		Workers:          ptrInt(c.GetWorkers()),
		ImageWidth:       ptrInt(c.GetImageWidth()),
		ImageHeight:      ptrInt(c.GetImageHeight()),
		ImageFormat:      ptrString(c.GetImageFormat()),
		ImagePrefix:      ptrString(c.GetImagePrefix()),
		VelocityUnits:    ptrString(c.GetVelocityUnits()),
		Overview:         ptrBool(c.GetOverview()),
	}
}

// LoadPipelineConfig loads a PipelineConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
// Fields omitted from the file keep their defaults, so partial configs are safe.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &PipelineConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory
// or one of its parents. Panics if the file cannot be loaded, intended for
// test setup.
func MustLoadDefaultConfig() *PipelineConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadPipelineConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the fields that can be judged without building the
// pipeline. Cross-field checks happen in Processing.
func (c *PipelineConfig) Validate() error {
	if c.HeaderRows != nil && *c.HeaderRows < 0 {
		return fmt.Errorf("header_rows must be non-negative, got %d", *c.HeaderRows)
	}
	if c.MetadataColumns != nil && *c.MetadataColumns < 0 {
		return fmt.Errorf("metadata_columns must be non-negative, got %d", *c.MetadataColumns)
	}
	if c.RangeWindow != nil {
		switch *c.RangeWindow {
		case RangeWindowRectangular, RangeWindowTukey:
		default:
			return fmt.Errorf("range_window must be %q or %q, got %q", RangeWindowRectangular, RangeWindowTukey, *c.RangeWindow)
		}
	}
	if c.FilterMode != nil {
		switch microdoppler.FilterMode(*c.FilterMode) {
		case microdoppler.ZeroPhaseFilter, microdoppler.SinglePassFilter:
		default:
			return fmt.Errorf("filter_mode must be %q or %q, got %q", microdoppler.ZeroPhaseFilter, microdoppler.SinglePassFilter, *c.FilterMode)
		}
	}
	if c.SpectrumMode != nil {
		if _, err := microdoppler.ParseSpectrum(*c.SpectrumMode); err != nil {
			return fmt.Errorf("spectrum_mode: %w", err)
		}
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.VelocityUnits != nil {
		if err := units.Validate(*c.VelocityUnits); err != nil {
			return fmt.Errorf("velocity_units: %w", err)
		}
	}
	if _, err := c.Processing(); err != nil {
		return err
	}
	return c.Render().Validate()
}

// Processing builds the immutable configuration handed to every stage.
func (c *PipelineConfig) Processing() (microdoppler.Config, error) {
	spectrum, err := microdoppler.ParseSpectrum(c.GetSpectrumMode())
	if err != nil {
		return microdoppler.Config{}, err
	}
	cfg := microdoppler.Config{
		SampleInterval:   c.GetSampleInterval(),
		Bandwidth:        c.GetBandwidth(),
		CarrierFrequency: c.GetCarrierFrequency(),
		SpeedOfLight:     c.GetSpeedOfLight(),
		MetadataColumns:  c.GetMetadataColumns(),
		FilterOrder:      c.GetFilterOrder(),
		FilterCutoff:     c.GetFilterCutoff(),
		FilterMode:       microdoppler.FilterMode(c.GetFilterMode()),
		WindowLength:     c.GetWindowLength(),
		Overlap:          c.GetOverlap(),
		PadFactor:        c.GetPadFactor(),
		SegmentTaper:     c.GetSegmentTaper(),
		Detrend:          c.GetDetrend(),
		Spectrum:         spectrum,
		BinLow:           c.GetBinLow(),
		BinHigh:          c.GetBinHigh(),
		Sections:         c.GetSections(),
		Workers:          c.GetWorkers(),
	}
	if c.GetRangeWindow() == RangeWindowTukey {
		cfg.RangeWindow = dsp.Tukey(dsp.DefaultTukeyAlpha)
	}
	if err := cfg.Validate(); err != nil {
		return microdoppler.Config{}, err
	}
	return cfg, nil
}

// Render returns the image output options.
func (c *PipelineConfig) Render() render.Options {
	return render.Options{
		Width:         c.GetImageWidth(),
		Height:        c.GetImageHeight(),
		Format:        c.GetImageFormat(),
		DirPrefix:     c.GetImagePrefix(),
		VelocityUnits: c.GetVelocityUnits(),
		Overview:      c.GetOverview(),
	}
}

// JSON returns the fully resolved configuration, for recording with a run.
func (c *PipelineConfig) JSON() string {
	// Nil fields are omitted, so unmarshalling c over the defaults keeps
	// only what c sets.
	resolved := DefaultPipelineConfig()
	if data, err := json.Marshal(c); err == nil {
		_ = json.Unmarshal(data, resolved)
	}
	data, err := json.Marshal(resolved)
	if err != nil {
		return "{}"
	}
	return string(data)
}
