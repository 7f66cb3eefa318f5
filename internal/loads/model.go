package loads

// Model is the full set of load sliders. Delta sliders come first, matching
// the on-screen column order.
type Model struct {
	Delta [3]*Slider
	Y     [3]*Slider
}

func NewModel() *Model {
	return &Model{
		Delta: [3]*Slider{
			NewSlider("p12", "P12 (L1-L2)", Delta, MaxDelta),
			NewSlider("p23", "P23 (L2-L3)", Delta, MaxDelta),
			NewSlider("p31", "P31 (L3-L1)", Delta, MaxDelta),
		},
		Y: [3]*Slider{
			NewSlider("p1", "P1 (L1-N)", Y, MaxY),
			NewSlider("p2", "P2 (L2-N)", Y, MaxY),
			NewSlider("p3", "P3 (L3-N)", Y, MaxY),
		},
	}
}

// Sliders returns all six in display order.
func (m *Model) Sliders() []*Slider {
	return []*Slider{m.Delta[0], m.Delta[1], m.Delta[2], m.Y[0], m.Y[1], m.Y[2]}
}

func (m *Model) Get(id string) *Slider {
	for _, s := range m.Sliders() {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (m *Model) YPowers() [3]float64 {
	return [3]float64{m.Y[0].Value, m.Y[1].Value, m.Y[2].Value}
}

func (m *Model) DeltaPowers() [3]float64 {
	return [3]float64{m.Delta[0].Value, m.Delta[1].Value, m.Delta[2].Value}
}

func (m *Model) Reset() {
	for _, s := range m.Sliders() {
		s.Value = 0
		s.Release()
	}
}

// Apply sets every slider from the given powers through Set.
func (m *Model) Apply(y, delta [3]float64) {
	for k := 0; k < 3; k++ {
		m.Y[k].Set(y[k])
		m.Delta[k].Set(delta[k])
	}
}

// Nudge moves slider i (display order) by the given number of steps.
func (m *Model) Nudge(i, steps int) {
	all := m.Sliders()
	if i < 0 || i >= len(all) {
		return
	}
	s := all[i]
	s.Set(s.Value + float64(steps)*s.Step)
}

func (m *Model) Press(x, y float64) bool {
	for _, s := range m.Sliders() {
		if s.Press(x, y) {
			return true
		}
	}
	return false
}

func (m *Model) Move(x float64) {
	for _, s := range m.Sliders() {
		s.Move(x)
	}
}

func (m *Model) Release() {
	for _, s := range m.Sliders() {
		s.Release()
	}
}

// TotalPower is the sum of all six settings in watts.
func (m *Model) TotalPower() float64 {
	total := 0.0
	for _, s := range m.Sliders() {
		total += s.Value
	}
	return total
}
