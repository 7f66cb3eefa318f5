// Package viz is the terminal front end for the three-phase simulator.
//
// A Bubble Tea program drives a [sim.Session] at a fixed tick rate and draws
// each frame onto a Braille [Canvas]: the phasor diagram with its reference
// voltages, and the waveform panel beside it. A side panel lists the six load
// settings, the resulting currents and an asciigraph plot of one period.
//
// # Key Bindings
//
//	Space - Stop/start the rotation
//	R     - Reset all loads
//	Tab   - Select next load
//	←/→   - Adjust selected load by one step
//	P     - Cycle presets
//	T     - Cycle colour themes
//	S     - Save an SVG snapshot
//	?     - Show help overlay
package viz
