// Package sim owns the long-lived simulation state: the load sliders, the
// phase clock and the current viewport.
//
//   - [Clock]: wall-time driven phase accumulator with pause and stop
//   - [Session]: one frame of input, calculation, clock advance and render
//
// # Example
//
//	s := sim.NewSession(1200, 800)
//	frame := s.Frame(events, elapsed.Seconds())
//
// # Thread Safety
//
// Session and Clock are NOT thread-safe. A host loop calls Frame once per
// iteration and nothing touches the session between calls.
package sim
