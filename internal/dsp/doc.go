// Package dsp holds the numeric building blocks of the micro-Doppler chain:
// complex FFT helpers, analysis windows, Butterworth design, linear filtering
// (single pass and forward-backward) and a two-sided short-time Fourier
// transform.
//
// All routines operate on complex128 samples with real-valued filter
// coefficients, and none of them mutate their inputs.
package dsp
