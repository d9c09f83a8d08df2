// Package analysis turns recorded frames into series and plots.
//
//   - [EnergySeries], [BodySeries]: per-frame scalar series
//   - [PowerSpectrum], [DominantFrequency]: spectra of a series via go-dsp
//   - [BodyPortrait]: a body's path through a 2D slice of its state
//   - [Crossings]: where a body passes a vertical line, left to right
//
// # Oscillation Detection
//
// A ball rattling between two shelves shows up as a spectral peak:
//
//	ys := analysis.BodySeries(frames, id, analysis.AxisY)
//	freq, _ := analysis.DominantFrequency(ys, frameDt)
package analysis
