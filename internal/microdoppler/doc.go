// Package microdoppler turns one acquisition's paired I/Q channel matrices
// into a composite Doppler-time energy map and the per-section log-magnitude
// arrays a renderer draws.
//
// The chain is strictly sequential:
//
//	FormBaseband -> CompressRange -> FilterClutter -> DeriveParameters
//	    -> Accumulator.Accumulate -> SplitSections
//
// Every stage returns a new matrix and leaves its input untouched. Processor
// wires the stages together and labels failures with the acquisition and
// stage that produced them.
package microdoppler
