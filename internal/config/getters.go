package config

import (
	"github.com/banshee-data/microdoppler/internal/microdoppler"
	"github.com/banshee-data/microdoppler/internal/units"
)

// GetSampleInterval returns the sample_interval value or the default.
func (c *PipelineConfig) GetSampleInterval() float64 {
	if c.SampleInterval == nil {
		return 0.0082
	}
	return *c.SampleInterval
}

// GetBandwidth returns the bandwidth value or the default.
func (c *PipelineConfig) GetBandwidth() float64 {
	if c.Bandwidth == nil {
		return 2.5e9
	}
	return *c.Bandwidth
}

// GetCarrierFrequency returns the carrier_frequency value or the default.
func (c *PipelineConfig) GetCarrierFrequency() float64 {
	if c.CarrierFrequency == nil {
		return 5.8e9
	}
	return *c.CarrierFrequency
}

// GetSpeedOfLight returns the speed_of_light value or the default.
func (c *PipelineConfig) GetSpeedOfLight() float64 {
	if c.SpeedOfLight == nil {
		return 3e8
	}
	return *c.SpeedOfLight
}

// GetHeaderRows returns the header_rows value or the default.
func (c *PipelineConfig) GetHeaderRows() int {
	if c.HeaderRows == nil {
		return 1
	}
	return *c.HeaderRows
}

// GetMetadataColumns returns the metadata_columns value or the default.
func (c *PipelineConfig) GetMetadataColumns() int {
	if c.MetadataColumns == nil {
		return 3
	}
	return *c.MetadataColumns
}

// GetRangeWindow returns the range_window value or the default.
func (c *PipelineConfig) GetRangeWindow() string {
	if c.RangeWindow == nil {
		return RangeWindowRectangular
	}
	return *c.RangeWindow
}

// GetFilterOrder returns the filter_order value or the default.
func (c *PipelineConfig) GetFilterOrder() int {
	if c.FilterOrder == nil {
		return 4
	}
	return *c.FilterOrder
}

// GetFilterCutoff returns the filter_cutoff value or the default.
func (c *PipelineConfig) GetFilterCutoff() float64 {
	if c.FilterCutoff == nil {
		return 0.0075
	}
	return *c.FilterCutoff
}

// GetFilterMode returns the filter_mode value or the default.
func (c *PipelineConfig) GetFilterMode() string {
	if c.FilterMode == nil {
		return "zero-phase"
	}
	return *c.FilterMode
}

// GetWindowLength returns the window_length value or the default.
func (c *PipelineConfig) GetWindowLength() int {
	if c.WindowLength == nil {
		return 16
	}
	return *c.WindowLength
}

// GetOverlap returns the overlap value or the default.
func (c *PipelineConfig) GetOverlap() int {
	if c.Overlap == nil {
		return 0
	}
	return *c.Overlap
}

// GetPadFactor returns the pad_factor value or the default.
func (c *PipelineConfig) GetPadFactor() int {
	if c.PadFactor == nil {
		return 8
	}
	return *c.PadFactor
}

// GetSegmentTaper returns the segment_taper value or the default.
func (c *PipelineConfig) GetSegmentTaper() float64 {
	if c.SegmentTaper == nil {
		return 0.25
	}
	return *c.SegmentTaper
}

// GetDetrend returns the detrend value or the default.
func (c *PipelineConfig) GetDetrend() bool {
	if c.Detrend == nil {
		return true
	}
	return *c.Detrend
}

// GetSpectrumMode returns the spectrum_mode value or the default.
func (c *PipelineConfig) GetSpectrumMode() string {
	if c.SpectrumMode == nil {
		return microdoppler.SpectrumComplex
	}
	return *c.SpectrumMode
}

// GetBinLow returns the bin_low value or the default.
func (c *PipelineConfig) GetBinLow() int {
	if c.BinLow == nil {
		return 1
	}
	return *c.BinLow
}

// GetBinHigh returns the bin_high value or the default.
func (c *PipelineConfig) GetBinHigh() int {
	if c.BinHigh == nil {
		return 92
	}
	return *c.BinHigh
}

// GetSections returns the sections value or the default.
func (c *PipelineConfig) GetSections() int {
	if c.Sections == nil {
		return 8
	}
	return *c.Sections
}

// GetWorkers returns the workers value or the default (0, all CPUs).
func (c *PipelineConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// GetImageWidth returns the image_width value or the default.
func (c *PipelineConfig) GetImageWidth() int {
	if c.ImageWidth == nil {
		return 884
	}
	return *c.ImageWidth
}

// GetImageHeight returns the image_height value or the default.
func (c *PipelineConfig) GetImageHeight() int {
	if c.ImageHeight == nil {
		return 663
	}
	return *c.ImageHeight
}

// GetImageFormat returns the image_format value or the default.
func (c *PipelineConfig) GetImageFormat() string {
	if c.ImageFormat == nil {
		return "jpg"
	}
	return *c.ImageFormat
}

// GetImagePrefix returns the image_prefix value or the default.
func (c *PipelineConfig) GetImagePrefix() string {
	if c.ImagePrefix == nil {
		return "radar1_0"
	}
	return *c.ImagePrefix
}

// GetVelocityUnits returns the velocity_units value or the default.
func (c *PipelineConfig) GetVelocityUnits() string {
	if c.VelocityUnits == nil {
		return units.MPS
	}
	return *c.VelocityUnits
}

// GetOverview returns the overview value or the default.
func (c *PipelineConfig) GetOverview() bool {
	if c.Overview == nil {
		return false
	}
	return *c.Overview
}
