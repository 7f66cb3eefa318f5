package gui

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/threephase/internal/config"
	"github.com/san-kum/threephase/internal/export"
	"github.com/san-kum/threephase/internal/render"
	"github.com/san-kum/threephase/internal/sim"
)

const title = "Three-phase simulator"

type Options struct {
	Width, Height int
	FPS           int
	Image         string
	Preset        string
	Log           *slog.Logger
}

type App struct {
	Session *sim.Session
	Frame   render.Frame

	image    rl.Texture2D
	hasImage bool
	log      *slog.Logger
	status   string
	statusAt time.Time
}

func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), title)
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(0)
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = config.DefaultWidth, config.DefaultHeight
	}
	if opts.FPS <= 0 {
		opts.FPS = config.DefaultFPS
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}

	initWindow(opts)
	defer rl.CloseWindow()

	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()
	app.RunLoop()
	return nil
}

func NewApp(opts Options) (*App, error) {
	a := &App{
		Session: sim.NewSession(opts.Width, opts.Height),
		log:     opts.Log,
	}
	if opts.Preset != "" {
		p, err := config.GetPreset(opts.Preset)
		if err != nil {
			return nil, err
		}
		a.Session.Loads.Apply(p.Y, p.Delta)
	}
	a.loadImage(opts.Image)
	return a, nil
}

// loadImage leaves hasImage false when the file is missing or unreadable;
// the circuit panel then shows a placeholder.
func (a *App) loadImage(path string) {
	if _, err := os.Stat(path); path == "" || err != nil {
		a.log.Warn("circuit image missing", "path", path)
		return
	}
	tex := rl.LoadTexture(path)
	if tex.ID == 0 {
		a.log.Warn("circuit image unreadable", "path", path)
		return
	}
	rl.SetTextureFilter(tex, rl.FilterBilinear)
	a.image, a.hasImage = tex, true
}

func (a *App) Close() {
	if a.hasImage {
		rl.UnloadTexture(a.image)
	}
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update()
		a.Draw()
	}
}

// Update gathers this frame's input and advances the session.
func (a *App) Update() {
	if rl.IsWindowResized() {
		a.Session.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
	}

	var events []sim.Event
	m := rl.GetMousePosition()
	x, y := float64(m.X), float64(m.Y)
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		events = append(events, sim.Event{Kind: sim.EventPress, X: x, Y: y})
	}
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		events = append(events, sim.Event{Kind: sim.EventMove, X: x, Y: y})
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		events = append(events, sim.Event{Kind: sim.EventRelease, X: x, Y: y})
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		events = append(events, sim.Event{Kind: sim.EventToggleClock})
	}
	if rl.IsKeyPressed(rl.KeyR) {
		events = append(events, sim.Event{Kind: sim.EventResetLoads})
	}

	a.Frame = a.Session.Frame(events, float64(rl.GetFrameTime()))

	if rl.IsKeyPressed(rl.KeyS) {
		a.snapshot()
	}
}

func (a *App) snapshot() {
	name := fmt.Sprintf("threephase-%d.svg", time.Now().Unix())
	f, err := os.Create(name)
	if err != nil {
		a.setStatus("snapshot failed")
		a.log.Error("snapshot", "err", err)
		return
	}
	defer f.Close()
	if err := export.FrameToSVG(f, a.Frame); err != nil {
		a.setStatus("snapshot failed")
		a.log.Error("snapshot", "err", err)
		return
	}
	a.setStatus("saved " + name)
	a.log.Info("snapshot saved", "file", name)
}

func (a *App) setStatus(s string) {
	a.status, a.statusAt = s, time.Now()
}
