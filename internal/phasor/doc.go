// Package phasor computes steady-state line and neutral currents for a
// three-phase supply feeding Y-connected and Delta-connected resistive loads.
//
// The calculation is a pure function of six power settings and the RMS
// phase voltage:
//
//   - [Compute]: node equations at each line terminal
//   - [Phasor]: magnitude/angle pair with rotation and projection helpers
//   - [LineCurrentSet]: three line currents plus the neutral
//
// # Example
//
//	set := phasor.Compute([3]float64{1000, 0, 0}, [3]float64{}, phasor.VoltageRMS)
//	fmt.Printf("%.2f A\n", set.Lines[0].Magnitude)
//
// # Thread Safety
//
// Compute holds no state and may be called from any number of goroutines.
package phasor
