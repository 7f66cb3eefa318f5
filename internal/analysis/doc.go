// Package analysis checks sampled current waveforms in the frequency domain.
//
// One period of each trace is sampled from its phasor and passed through an
// FFT. For a sinusoid the fundamental bin must reproduce the phasor:
//
//   - [Sample]: one period of magnitude·sin(θ + angle)
//   - [Fundamental]: magnitude and angle recovered from bin 1
//   - [Inspect]: per-trace report for L1, L2, L3 and N
//
// # Example
//
//	set := phasor.Compute(y, delta, phasor.VoltageRMS)
//	reports, err := analysis.Inspect(set, 256)
package analysis
