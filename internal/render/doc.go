// Package render turns a set of current phasors and a phase angle into the
// pixel-space geometry of one frame.
//
// A [Frame] carries two projections of the same data:
//
//   - the phasor diagram: arrows rotated by the clock phase
//   - the waveform view: sampled instantaneous values scrolling with phase
//
// Both are built in a single call to [Render], so they always share the same
// phase and currents. Back ends (raylib window, terminal canvas, SVG) only
// draw what the frame describes.
package render
