// Package automation runs scripted sequences of load settings and sweeps of
// a single load.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/threephase/internal/config"
	"github.com/san-kum/threephase/internal/export"
	"github.com/san-kum/threephase/internal/optim"
	"github.com/san-kum/threephase/internal/phasor"
)

var (
	ErrNoSteps  = errors.New("automation: scenario has no steps")
	ErrBadSweep = errors.New("automation: sweep needs at least 2 steps and max > min")
)

// Scenario is a named list of operating points.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Voltage     float64        `yaml:"voltage"`
	Samples     int            `yaml:"samples"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from Preset when set; Y and Delta then override
// their entries. Missing entries are zero.
type ScenarioStep struct {
	Name   string    `yaml:"name"`
	Preset string    `yaml:"preset"`
	Y      []float64 `yaml:"y"`
	Delta  []float64 `yaml:"delta"`
	Phase  float64   `yaml:"phase"`
	SaveAs string    `yaml:"save_as"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Steps) == 0 {
		return nil, ErrNoSteps
	}
	if sc.Voltage <= 0 {
		sc.Voltage = phasor.VoltageRMS
	}
	if sc.Samples <= 0 {
		sc.Samples = 360
	}
	return &sc, nil
}

// Saver persists one snapshot; *storage.Store satisfies it.
type Saver interface {
	Save(label string, snap export.Snapshot, n int) (string, error)
}

type StepResult struct {
	Name     string
	Snapshot export.Snapshot
	ID       string
}

// RunScenario computes every step in order. Steps with SaveAs are stored
// through saver, which may be nil when nothing is saved.
func RunScenario(ctx context.Context, sc *Scenario, saver Saver, log *slog.Logger) ([]StepResult, error) {
	if log == nil {
		log = slog.Default()
	}
	results := make([]StepResult, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		log.Info("running step", "n", i+1, "of", len(sc.Steps), "name", name)

		y, delta, err := step.powers()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		snap := export.Snapshot{
			Voltage:  sc.Voltage,
			PY:       y,
			PDelta:   delta,
			Phase:    step.Phase,
			Currents: phasor.Compute(y, delta, sc.Voltage),
		}
		res := StepResult{Name: name, Snapshot: snap}

		if step.SaveAs != "" {
			if saver == nil {
				return results, fmt.Errorf("step %d: save_as set but no store", i+1)
			}
			if res.ID, err = saver.Save(step.SaveAs, snap, sc.Samples); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, res)
	}

	return results, nil
}

func (s ScenarioStep) powers() (y, delta [3]float64, err error) {
	if s.Preset != "" {
		p, err := config.GetPreset(s.Preset)
		if err != nil {
			return y, delta, err
		}
		y, delta = p.Y, p.Delta
	}
	if len(s.Y) > 3 || len(s.Delta) > 3 {
		return y, delta, errors.New("at most 3 values per topology")
	}
	copy(y[:], s.Y)
	copy(delta[:], s.Delta)
	return y, delta, nil
}

// Sweep varies one load linearly from Min to Max in Steps points.
type Sweep struct {
	Load  string
	Min   float64
	Max   float64
	Steps int
}

type SweepPoint struct {
	Value    float64
	Currents phasor.LineCurrentSet
}

// RunSweep holds every other load at its value in base.
func RunSweep(ctx context.Context, sw Sweep, base optim.Params, vrms float64) ([]SweepPoint, error) {
	if !optim.Known(sw.Load) {
		return nil, fmt.Errorf("%w: %q", optim.ErrUnknownParam, sw.Load)
	}
	if sw.Steps < 2 || !(sw.Max > sw.Min) {
		return nil, ErrBadSweep
	}

	step := (sw.Max - sw.Min) / float64(sw.Steps-1)
	points := make([]SweepPoint, sw.Steps)
	optim.ParallelFor(sw.Steps, 32, func(start, end int) {
		p := make(optim.Params, len(base))
		for k, v := range base {
			p[k] = v
		}
		for i := start; i < end; i++ {
			v := sw.Min + float64(i)*step
			p[sw.Load] = v
			y, delta := p.Powers()
			points[i] = SweepPoint{Value: v, Currents: phasor.Compute(y, delta, vrms)}
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return points, nil
}
