package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/threephase/internal/render"
)

type styles struct {
	canvas   lipgloss.Style
	panel    lipgloss.Style
	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	active   lipgloss.Style
	running  lipgloss.Style
	paused   lipgloss.Style
	help     lipgloss.Style
	traces   [4]lipgloss.Style
	deltaFg  [3]lipgloss.Style
	barEmpty lipgloss.Style
}

func newStyles(t Theme) styles {
	s := styles{
		canvas: lipgloss.NewStyle().Foreground(t.Primary).Padding(0, 1),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1).
			Width(panelWidth),
		header:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		label:    lipgloss.NewStyle().Foreground(t.Muted),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		active:   lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		running:  lipgloss.NewStyle().Bold(true).Foreground(t.Running),
		paused:   lipgloss.NewStyle().Bold(true).Foreground(t.Paused),
		help:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		barEmpty: lipgloss.NewStyle().Foreground(t.Muted),
	}
	for i, c := range render.TraceColors {
		s.traces[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
	}
	for i, c := range render.DeltaColors {
		s.deltaFg[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
	}
	return s
}

// bar renders ratio in [0,1] as a filled track of the given width.
func (s styles) bar(ratio float64, width int, fill lipgloss.Style) string {
	filled := int(ratio*float64(width) + 0.5)
	filled = min(max(filled, 0), width)
	return fill.Render(strings.Repeat("█", filled)) + s.barEmpty.Render(strings.Repeat("░", width-filled))
}

func (s styles) separator(width int) string {
	return s.label.Render(strings.Repeat("─", max(width, 0)))
}
