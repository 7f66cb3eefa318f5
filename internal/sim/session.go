package sim

import (
	"github.com/san-kum/threephase/internal/loads"
	"github.com/san-kum/threephase/internal/phasor"
	"github.com/san-kum/threephase/internal/render"
	"github.com/san-kum/threephase/internal/viewport"
)

type EventKind int

const (
	EventPress EventKind = iota
	EventMove
	EventRelease
	EventResize
	EventResetLoads
	EventToggleClock
	EventNudge
	EventApplyLoads
)

// Event is one input collected by the host loop. Pointer events use X and Y,
// resize uses W and H, nudge uses Slider and Steps, apply uses PY and PDelta.
type Event struct {
	Kind   EventKind
	X, Y   float64
	W, H   int
	Slider int
	Steps  int
	PY     [3]float64
	PDelta [3]float64
}

// Session is the simulation context shared by the front ends.
type Session struct {
	Loads   *loads.Model
	Clock   *Clock
	Voltage float64

	vp       viewport.Viewport
	layout   viewport.Layout
	pending  *viewport.Viewport
	currents phasor.LineCurrentSet
}

func NewSession(w, h int) *Session {
	s := &Session{
		Loads:   loads.NewModel(),
		Clock:   NewClock(),
		Voltage: phasor.VoltageRMS,
	}
	s.commit(viewport.Recompute(w, h))
	return s
}

// Resize records a new canvas size. It takes effect at the start of the next
// frame so a frame never mixes two scales.
func (s *Session) Resize(w, h int) {
	vp := viewport.Recompute(w, h)
	s.pending = &vp
}

func (s *Session) commit(vp viewport.Viewport) {
	s.vp = vp
	s.layout = vp.Layout()
	s.layout.Place(s.Loads)
	s.pending = nil
}

func (s *Session) Viewport() viewport.Viewport     { return s.vp }
func (s *Session) Layout() viewport.Layout         { return s.layout }
func (s *Session) Currents() phasor.LineCurrentSet { return s.currents }

// Frame runs one loop iteration: resize commit, input, calculation, clock
// advance and render, in that order.
func (s *Session) Frame(events []Event, elapsed float64) render.Frame {
	if s.pending != nil {
		s.commit(*s.pending)
	}
	for _, ev := range events {
		if ev.Kind == EventResize {
			s.commit(viewport.Recompute(ev.W, ev.H))
		}
	}
	for _, ev := range events {
		s.apply(ev)
	}

	s.currents = phasor.Compute(s.Loads.YPowers(), s.Loads.DeltaPowers(), s.Voltage)
	s.Clock.Tick(elapsed)
	return render.Render(s.currents, s.Clock.Phase(), s.vp)
}

func (s *Session) apply(ev Event) {
	switch ev.Kind {
	case EventPress:
		if s.layout.ResetButton.Contains(ev.X, ev.Y) {
			s.Loads.Reset()
			return
		}
		if s.layout.StopButton.Contains(ev.X, ev.Y) {
			s.Clock.Toggle()
			return
		}
		s.Loads.Press(ev.X, ev.Y)
	case EventMove:
		s.Loads.Move(ev.X)
	case EventRelease:
		s.Loads.Release()
	case EventResetLoads:
		s.Loads.Reset()
	case EventToggleClock:
		s.Clock.Toggle()
	case EventNudge:
		s.Loads.Nudge(ev.Slider, ev.Steps)
	case EventApplyLoads:
		s.Loads.Apply(ev.PY, ev.PDelta)
	}
}
