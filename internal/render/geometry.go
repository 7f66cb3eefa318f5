package render

import "math"

// ArrowHead returns the two base corners of a head of the given size at the
// tip of s. ok is false when the shaft is shorter than minLen.
func ArrowHead(s Segment, size, minLen float64) (left, right Point, ok bool) {
	dx, dy := s.To.X-s.From.X, s.To.Y-s.From.Y
	if math.Hypot(dx, dy) < minLen {
		return Point{}, Point{}, false
	}
	angle := math.Atan2(dy, dx)
	spread := math.Pi / 6
	left = Point{X: s.To.X - size*math.Cos(angle-spread), Y: s.To.Y - size*math.Sin(angle-spread)}
	right = Point{X: s.To.X - size*math.Cos(angle+spread), Y: s.To.Y - size*math.Sin(angle+spread)}
	return left, right, true
}

// Dashes splits s into dash segments separated by gaps.
func Dashes(s Segment, dash, gap float64) []Segment {
	dist := math.Hypot(s.To.X-s.From.X, s.To.Y-s.From.Y)
	if dash <= 0 || dist == 0 {
		return []Segment{s}
	}
	if gap < 0 {
		gap = 0
	}
	ux, uy := (s.To.X-s.From.X)/dist, (s.To.Y-s.From.Y)/dist
	var out []Segment
	for d := 0.0; d < dist; d += dash + gap {
		end := math.Min(d+dash, dist)
		out = append(out, Segment{
			From: Point{X: s.From.X + ux*d, Y: s.From.Y + uy*d},
			To:   Point{X: s.From.X + ux*end, Y: s.From.Y + uy*end},
		})
	}
	return out
}
