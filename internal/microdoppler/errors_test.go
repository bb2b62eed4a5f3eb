package microdoppler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcquisitionError(t *testing.T) {
	err := Wrap("walk/a", StageClutter, fmt.Errorf("%w: 10 pulses", ErrInsufficientSamples))

	assert.True(t, errors.Is(err, ErrInsufficientSamples))
	assert.Equal(t, "acquisition walk/a: clutter: insufficient samples: 10 pulses", err.Error())
	assert.Equal(t, StageClutter, StageOf(err))

	var ae *AcquisitionError
	assert.True(t, errors.As(err, &ae))
	assert.Equal(t, "walk/a", ae.Label)
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("x", StageRange, nil))

	inner := Wrap("x", StageRange, ErrShapeMismatch)
	outer := Wrap("y", StageSections, fmt.Errorf("context: %w", inner))
	assert.Equal(t, StageRange, StageOf(outer), "first label wins")

	assert.Empty(t, StageOf(errors.New("plain")))
}
