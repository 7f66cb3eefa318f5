// Package optim searches load settings that minimise a current metric,
// typically the neutral current.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/san-kum/threephase/internal/loads"
	"github.com/san-kum/threephase/internal/phasor"
)

var (
	ErrUnknownParam = errors.New("optim: unknown load")
	ErrEmptyRange   = errors.New("optim: empty range")
	ErrGridTooLarge = errors.New("optim: grid too large")
)

// MaxGridPoints caps the number of points one search may evaluate.
const MaxGridPoints = 50_000_000

// Params maps load ids (p1, p2, p3, p12, p23, p31) to watts.
type Params map[string]float64

var yIDs = [3]string{"p1", "p2", "p3"}
var deltaIDs = [3]string{"p12", "p23", "p31"}

// Known reports whether id names one of the six loads.
func Known(id string) bool {
	for k := 0; k < 3; k++ {
		if yIDs[k] == id || deltaIDs[k] == id {
			return true
		}
	}
	return false
}

// MaxFor is the slider limit of the load id.
func MaxFor(id string) float64 {
	for _, d := range deltaIDs {
		if d == id {
			return loads.MaxDelta
		}
	}
	return loads.MaxY
}

// FromPowers builds Params from per-topology powers.
func FromPowers(y, delta [3]float64) Params {
	p := make(Params, 6)
	for k := 0; k < 3; k++ {
		p[yIDs[k]] = y[k]
		p[deltaIDs[k]] = delta[k]
	}
	return p
}

func (p Params) Powers() (y, delta [3]float64) {
	for k := 0; k < 3; k++ {
		y[k] = p[yIDs[k]]
		delta[k] = p[deltaIDs[k]]
	}
	return y, delta
}

func (p Params) clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Objective scores a full load assignment; lower is better.
type Objective func(Params) float64

// NeutralObjective scores by neutral current magnitude in amperes.
func NeutralObjective(vrms float64) Objective {
	return func(p Params) float64 {
		y, delta := p.Powers()
		return phasor.Compute(y, delta, vrms).Neutral.Magnitude
	}
}

// UnbalanceObjective scores by the spread between the largest and smallest
// line current magnitude.
func UnbalanceObjective(vrms float64) Objective {
	return func(p Params) float64 {
		y, delta := p.Powers()
		set := phasor.Compute(y, delta, vrms)
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, l := range set.Lines {
			lo = math.Min(lo, l.Magnitude)
			hi = math.Max(hi, l.Magnitude)
		}
		return hi - lo
	}
}

// Range returns min, min+step, ... up to and including max.
func Range(min, max, step float64) []float64 {
	if step <= 0 || max < min {
		return nil
	}
	n := int(math.Floor((max-min)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	return out
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d loads but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if !Known(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownParam, name)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyRange, name)
		}
	}
	n := 1
	for _, r := range ranges {
		if n > MaxGridPoints/len(r) {
			return nil, fmt.Errorf("%w: more than %d points", ErrGridTooLarge, MaxGridPoints)
		}
		n *= len(r)
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

type Result struct {
	Params    Params
	Value     float64
	Evaluated int
}

// Search evaluates obj on every grid point, holding the loads not being
// searched at their value in base. Ties go to the point enumerated first.
func (g *GridSearch) Search(ctx context.Context, base Params, obj Objective) (Result, error) {
	n := g.Size()

	type best struct {
		index int
		value float64
	}
	var (
		mu      sync.Mutex
		winners []best
	)
	ParallelFor(n, 64, func(start, end int) {
		b := best{index: -1, value: math.Inf(1)}
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return
			}
			if v := obj(g.point(base, i)); b.index < 0 || v < b.value {
				b = best{index: i, value: v}
			}
		}
		mu.Lock()
		winners = append(winners, b)
		mu.Unlock()
	})
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	sort.Slice(winners, func(i, j int) bool { return winners[i].index < winners[j].index })
	top := winners[0]
	for _, w := range winners[1:] {
		if w.value < top.value {
			top = w
		}
	}
	return Result{Params: g.point(base, top.index), Value: top.value, Evaluated: n}, nil
}

// point decodes grid index i, the last parameter varying fastest.
func (g *GridSearch) point(base Params, i int) Params {
	p := base.clone()
	for d := len(g.paramNames) - 1; d >= 0; d-- {
		r := g.ranges[d]
		p[g.paramNames[d]] = r[i%len(r)]
		i /= len(r)
	}
	return p
}
