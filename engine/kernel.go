package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/veylan/scenekit/asset"
	"github.com/veylan/scenekit/clock"
	"github.com/veylan/scenekit/event"
	"github.com/veylan/scenekit/scene"
)

// Renderer is the external draw collaborator. It is invoked only for
// frames that consumed at least one fixed step; alpha is the fraction of
// the pending partial step, for interpolated presentation
type Renderer interface {
	Render(h *scene.Hierarchy, alpha float64)
}

// Config assembles a kernel. FixedStep is required; everything else has
// a working default
type Config struct {
	// FixedStep is the logical step size. Must be positive
	FixedStep time.Duration

	// Renderer receives the post-frame draw call. Nil runs headless
	Renderer Renderer

	// Pipeline is the asset pipeline serviced each frame. When nil, an
	// autoloading pipeline publishing completions onto the kernel's
	// event queue is created
	Pipeline *asset.Pipeline

	// Context is passed to asset loaders. Defaults to context.Background
	Context context.Context
}

// Kernel is the composition root of the runtime: it owns the hierarchy,
// the fixed-step scheduler, the asset pipeline, and the event bus, and it
// enforces the per-frame ordering contract:
//
//	(0) dispatch cross-turn events (asset completions, host commands)
//	(1) flush pending component starts
//	(2) zero-or-more fixed updates, as dictated by the scheduler
//	(3) one variable-rate update
//	(3b) kick the coalesced asset flush accumulated this turn
//	(4) reap actors marked pending-for-destruction
//	(5) render, only if (2) produced at least one update
//
// Destruction requests raised during (2) or (3) act only at (4), which is
// what makes iteration during updates safe. Lifecycle hook panics are not
// recovered here; they propagate to the host's per-frame call
type Kernel struct {
	hier     *scene.Hierarchy
	sched    *clock.Scheduler
	assets   *asset.Pipeline
	queue    *event.Queue
	router   *event.Router[*Kernel]
	renderer Renderer
	ctx      context.Context

	frame atomic.Int64
	last  clock.Result
}

// NewKernel builds a kernel from cfg. A non-positive fixed step is a
// construction error
func NewKernel(cfg Config) (*Kernel, error) {
	sched, err := clock.NewScheduler(cfg.FixedStep)
	if err != nil {
		return nil, err
	}

	queue := event.NewQueue()
	k := &Kernel{
		hier:     scene.NewHierarchy(),
		sched:    sched,
		queue:    queue,
		router:   event.NewRouter[*Kernel](queue),
		renderer: cfg.Renderer,
		ctx:      cfg.Context,
	}
	if k.ctx == nil {
		k.ctx = context.Background()
	}

	k.assets = cfg.Pipeline
	if k.assets == nil {
		k.assets = asset.NewPipeline(asset.WithAutoload(), asset.WithNotify(queue))
	}

	// Bridge structural callbacks onto the event bus so out-of-band
	// observers see changes at the next turn
	k.hier.OnAdd(func(a *scene.Actor) {
		queue.Push(event.Event{Type: event.TypeActorAdded, Payload: a, Frame: k.frame.Load()})
	})
	k.hier.OnRemove(func(a *scene.Actor) {
		queue.Push(event.Event{Type: event.TypeActorRemoved, Payload: a, Frame: k.frame.Load()})
	})

	return k, nil
}

// Hierarchy returns the actor tree
func (k *Kernel) Hierarchy() *scene.Hierarchy {
	return k.hier
}

// Assets returns the asset pipeline
func (k *Kernel) Assets() *asset.Pipeline {
	return k.assets
}

// Events returns the kernel event queue. Producers on other goroutines
// push here; the logic thread consumes at step (0)
func (k *Kernel) Events() *event.Queue {
	return k.queue
}

// Subscribe registers an event handler dispatched at step (0)
func (k *Kernel) Subscribe(h event.Handler[*Kernel]) {
	k.router.Register(h)
}

// Frame returns the current frame number
func (k *Kernel) Frame() int64 {
	return k.frame.Load()
}

// LastResult returns the scheduler result of the most recent Step
func (k *Kernel) LastResult() clock.Result {
	return k.last
}

// Step advances the kernel by one host frame of raw elapsed time.
// The kernel holds no delta clamp; callers that can be suspended cap raw
// with clock.ClampDelta first (Runner does)
func (k *Kernel) Step(raw time.Duration) clock.Result {
	k.frame.Add(1)

	k.router.DispatchAll(k)

	if k.hier.FlushStarts() > 0 {
		k.queue.Push(event.Event{Type: event.TypeStartsFlushed, Frame: k.frame.Load()})
	}

	res := k.sched.Tick(raw, k.hier.FixedUpdate)

	k.hier.Update(raw)

	k.assets.ServicePoint(k.ctx)

	k.hier.Reap()

	if res.Updates > 0 && k.renderer != nil {
		k.renderer.Render(k.hier, k.sched.Alpha())
	}

	k.last = res
	return res
}
