package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// PowerSpectrum returns the magnitude of the first half of the spectrum
// of a Hann-windowed, mean-removed copy of data. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return []float64{}
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	x := make([]float64, len(data))
	for i, v := range data {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	spectrum := fft.FFTReal(x)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// bin for samples taken every dt seconds, and its magnitude. It returns
// zeros when the series is too short or flat.
func DominantFrequency(data []float64, dt float64) (float64, float64) {
	ps := PowerSpectrum(data)
	best, power := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > power {
			best, power = i, ps[i]
		}
	}
	if best == 0 || dt <= 0 {
		return 0, 0
	}
	return float64(best) / (float64(len(data)) * dt), power
}
