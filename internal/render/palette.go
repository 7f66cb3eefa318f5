package render

import "fmt"

type RGB struct {
	R, G, B uint8
}

// Hex formats c as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var (
	Background = RGB{15, 15, 20}
	Text       = RGB{220, 220, 220}
	Muted      = RGB{150, 150, 150}
	Axis       = RGB{120, 120, 120}
	Grid       = RGB{80, 80, 80}
	Divider    = RGB{40, 40, 50}
	Button     = RGB{60, 60, 80}
	ButtonHot  = RGB{80, 80, 100}
	Track      = RGB{60, 60, 60}
	Knob       = RGB{200, 200, 200}
	Warning    = RGB{255, 100, 100}
)

// TraceColors follow trace index order L1, L2, L3, N.
var TraceColors = [4]RGB{
	{255, 50, 50},
	{50, 200, 50},
	{50, 100, 255},
	{255, 255, 255},
}

// DeltaColors mark the P12, P23 and P31 sliders.
var DeltaColors = [3]RGB{
	{255, 255, 0},
	{255, 0, 255},
	{255, 165, 0},
}
