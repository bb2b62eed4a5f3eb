package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertSpeed(t *testing.T) {
	tests := []struct {
		name     string
		speedMPS float64
		units    string
		expected float64
	}{
		{"10 m/s to mph", 10.0, MPH, 22.3694},
		{"10 m/s to kmph", 10.0, KMPH, 36.0},
		{"10 m/s to kph", 10.0, KPH, 36.0},
		{"10 m/s to mps", 10.0, MPS, 10.0},
		{"unknown units default to mps", 10.0, "unknown", 10.0},
		{"negative speed keeps sign", -2.0, KMPH, -7.2},
		{"walking speed 1.4 m/s to mph", 1.4, MPH, 3.13172},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertSpeed(tt.speedMPS, tt.units)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("ConvertSpeed(%f, %s) = %f, want %f", tt.speedMPS, tt.units, result, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid mps", MPS, true},
		{"valid mph", MPH, true},
		{"valid kmph", KMPH, true},
		{"valid kph", KPH, true},
		{"invalid unit", "invalid", false},
		{"empty string", "", false},
		{"case sensitive", "MPH", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.unit); got != tt.expected {
				t.Errorf("IsValid(%s) = %v, want %v", tt.unit, got, tt.expected)
			}
		})
	}
}

func TestValidateAndLabel(t *testing.T) {
	assert.NoError(t, Validate(KPH))
	err := Validate("knots")
	assert.ErrorContains(t, err, GetValidUnitsString())

	assert.Equal(t, "m/s", Label(MPS))
	assert.Equal(t, "km/h", Label(KMPH))
	assert.Equal(t, "mph", Label(MPH))
}

func TestDopplerVelocity(t *testing.T) {
	// 5.8 GHz carrier: 38.67 Hz of Doppler is one metre per second.
	const fc, c = 5.8e9, 3e8
	shift := DopplerShift(1, fc, c)
	assert.InDelta(t, 38.6667, shift, 1e-3)
	assert.InDelta(t, 1.0, DopplerVelocity(shift, fc, c), 1e-12)
	assert.InDelta(t, -3.0, DopplerVelocity(DopplerShift(-3, fc, c), fc, c), 1e-12)
	assert.Zero(t, DopplerVelocity(0, fc, c))
}
