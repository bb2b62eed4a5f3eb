package units

// DopplerVelocity converts a monostatic Doppler shift in Hz to a radial
// velocity in m/s: v = f·c / (2·fc).
func DopplerVelocity(shiftHz, carrierHz, speedOfLight float64) float64 {
	return shiftHz * speedOfLight / 2 / carrierHz
}

// DopplerShift is the inverse of DopplerVelocity.
func DopplerShift(velocityMPS, carrierHz, speedOfLight float64) float64 {
	return velocityMPS * 2 * carrierHz / speedOfLight
}
