package sim

import "math"

const (
	// InitialFrequency and MaxFrequency are in radians per second of wall
	// time. The clamp is applied after accumulating, so only the first tick
	// runs at the initial rate.
	InitialFrequency = 0.02
	MaxFrequency     = 0.005
)

type Clock struct {
	phase     float64
	frequency float64
	max       float64
	paused    bool
}

func NewClock() *Clock {
	return &Clock{frequency: InitialFrequency, max: MaxFrequency}
}

// Tick advances the phase by frequency·elapsed while running.
func (c *Clock) Tick(elapsed float64) {
	if c.paused || !(elapsed > 0) || math.IsInf(elapsed, 0) {
		return
	}
	c.phase += c.frequency * elapsed
	c.frequency = math.Min(c.frequency, c.max)
}

// Pause freezes the phase where it is.
func (c *Clock) Pause() { c.paused = true }

// Stop freezes the clock and returns the phase to the reference orientation.
func (c *Clock) Stop() {
	c.paused = true
	c.phase = 0
}

func (c *Clock) Resume() { c.paused = false }

// Toggle is the stop/start control: a running clock stops, a paused one
// resumes from its current phase.
func (c *Clock) Toggle() {
	if c.paused {
		c.Resume()
		return
	}
	c.Stop()
}

// Reset returns the clock to its initial running state.
func (c *Clock) Reset() {
	*c = *NewClock()
}

func (c *Clock) Phase() float64     { return c.phase }
func (c *Clock) Frequency() float64 { return c.frequency }
func (c *Clock) Paused() bool       { return c.paused }
