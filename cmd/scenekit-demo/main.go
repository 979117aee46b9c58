// Command scenekit-demo is a small terminal host for the runtime kernel:
// it builds a scene, drives the frame loop from a runner, renders the
// live actor tree, and feeds host input through the kernel event queue.
//
// Keys: q/ESC quit, p pause/resume, space spawn a short-lived actor.
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"

	"github.com/veylan/scenekit/asset"
	"github.com/veylan/scenekit/core"
	"github.com/veylan/scenekit/engine"
	"github.com/veylan/scenekit/event"
	"github.com/veylan/scenekit/manifest"
	"github.com/veylan/scenekit/scene"
)

type config struct {
	TickRate  int    `env:"SCENEKIT_TICK_RATE" envDefault:"60"`
	FrameRate int    `env:"SCENEKIT_FRAME_RATE" envDefault:"120"`
	Scene     string `env:"SCENEKIT_SCENE"`
	Profile   bool   `env:"SCENEKIT_PROFILE" envDefault:"false"`
}

// evSpawn asks the logic thread to spawn a transient actor
const evSpawn = event.TypeUser

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("scenekit-demo: %v", err)
	}
	if cfg.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("scenekit-demo: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("scenekit-demo: %v", err)
	}
	core.SetCrashCleanup(screen.Fini)
	defer screen.Fini()

	kernel, err := engine.NewKernel(engine.Config{
		FixedStep: time.Second / time.Duration(cfg.TickRate),
		Renderer:  &treeRenderer{screen: screen},
	})
	if err != nil {
		log.Fatalf("scenekit-demo: %v", err)
	}
	asset.RegisterDefaults(kernel.Assets())
	kernel.Subscribe(&spawnHandler{})

	if cfg.Scene != "" {
		doc, err := manifest.Load(cfg.Scene)
		if err != nil {
			log.Fatalf("scenekit-demo: %v", err)
		}
		doc.Build(kernel.Hierarchy(), kernel.Assets())
	} else {
		buildDemoScene(kernel.Hierarchy())
	}

	runner, err := engine.NewRunner(kernel, engine.RunnerConfig{
		Interval: time.Second / time.Duration(cfg.FrameRate),
	})
	if err != nil {
		log.Fatalf("scenekit-demo: %v", err)
	}
	runner.Start()
	defer runner.Stop()

	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Rune() == 'q':
				return
			case ev.Rune() == 'p':
				if runner.Clock().IsPaused() {
					runner.Resume()
				} else {
					runner.Pause()
				}
			case ev.Rune() == ' ':
				kernel.Events().Push(event.Event{Type: evSpawn})
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

// buildDemoScene assembles the default scene: a world root with a few
// spinning children on separate layers
func buildDemoScene(h *scene.Hierarchy) {
	world := h.Spawn("world")
	world.Attach(&spinner{glyphs: []rune{'|', '/', '-', '\\'}})

	for i := 0; i < 3; i++ {
		orb := world.Spawn(fmt.Sprintf("orb-%d", i))
		orb.SetLayer(i)
		orb.Attach(&spinner{glyphs: []rune{'.', 'o', 'O', 'o'}})
		orb.Attach(&pulse{})
	}
}

// spawnHandler creates a short-lived actor on the logic thread for every
// spawn command pushed by the input loop
type spawnHandler struct {
	count int
}

func (s *spawnHandler) EventTypes() []event.Type {
	return []event.Type{evSpawn}
}

func (s *spawnHandler) HandleEvent(k *engine.Kernel, _ event.Event) {
	s.count++
	a := k.Hierarchy().Spawn(fmt.Sprintf("transient-%d", s.count))
	a.Attach(&spinner{glyphs: []rune{'*', '+'}})
	a.Attach(&lifetime{remaining: 3 * time.Second})
}

// spinner advances a glyph once per fixed step
type spinner struct {
	glyphs []rune
	frame  int
}

func (s *spinner) OnFixedUpdate(_ *scene.Actor, _ time.Duration) {
	s.frame++
}

func (s *spinner) Glyph() rune {
	if len(s.glyphs) == 0 {
		return '?'
	}
	return s.glyphs[s.frame%len(s.glyphs)]
}

// pulse tracks variable-rate elapsed time
type pulse struct {
	elapsed time.Duration
}

func (p *pulse) OnUpdate(_ *scene.Actor, dt time.Duration) {
	p.elapsed += dt
}

// lifetime marks its actor for destruction once the budget runs out;
// the kernel reaps it at the end of that frame
type lifetime struct {
	remaining time.Duration
}

func (l *lifetime) OnFixedUpdate(a *scene.Actor, dt time.Duration) {
	l.remaining -= dt
	if l.remaining <= 0 {
		a.MarkDestroy()
	}
}

// treeRenderer draws the live actor tree, one row per actor, indented by
// depth. Runs on the runner goroutine; tcell screens are safe for
// concurrent use with the input loop
type treeRenderer struct {
	screen tcell.Screen
	frames int
}

func (r *treeRenderer) Render(h *scene.Hierarchy, alpha float64) {
	r.frames++
	s := r.screen
	s.Clear()

	style := tcell.StyleDefault
	drawString(s, 0, 0, fmt.Sprintf("scenekit-demo  render #%d  alpha %.2f  [q quit, p pause, space spawn]", r.frames, alpha), style.Bold(true))

	row := 2
	depths := map[*scene.Actor]int{}
	h.Walk(func(a, parent *scene.Actor) bool {
		depth := 0
		if parent != nil {
			depth = depths[parent] + 1
		}
		depths[a] = depth

		glyph := ' '
		if c := a.Component(func(c scene.Component) bool {
			_, ok := c.(*spinner)
			return ok
		}); c != nil {
			glyph = c.(*spinner).Glyph()
		}

		line := fmt.Sprintf("%c %s  (layer %d, %d components)", glyph, a.Name(), a.Layer(), len(a.Components()))
		drawString(s, depth*2, row, line, style)
		row++
		return true
	})

	s.Show()
}

func drawString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}
