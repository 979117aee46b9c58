package scene

import "time"

// Component is a unit of behavior attached to exactly one Actor.
// Lifecycle hooks are optional capabilities declared by implementing the
// side interfaces below; the set is inspected once at attach time and
// never re-evaluated per frame.
type Component interface{}

// Attacher receives OnAttach when the start queue is flushed, before any
// component of the same batch receives OnStart
type Attacher interface {
	OnAttach(a *Actor)
}

// Starter receives OnStart after every component of the same batch has
// completed OnAttach, so siblings attached earlier in the frame are
// fully wired and observable
type Starter interface {
	OnStart(a *Actor)
}

// Updater receives the variable-rate update once per frame
type Updater interface {
	OnUpdate(a *Actor, dt time.Duration)
}

// FixedUpdater receives zero or more fixed-size logical steps per frame,
// as dictated by the scheduler
type FixedUpdater interface {
	OnFixedUpdate(a *Actor, dt time.Duration)
}

// Finalizer receives OnDestroy exactly once when its actor is torn down
// or the component is individually destroyed
type Finalizer interface {
	OnDestroy(a *Actor)
}

// LayerListener receives layer changes broadcast through the owning actor
type LayerListener interface {
	OnLayerChange(a *Actor, layer int)
}

// attachment is the per-component record on an actor. The capability
// interfaces are narrowed once here so the per-frame paths never type-assert
type attachment struct {
	comp Component

	attacher  Attacher
	starter   Starter
	updater   Updater
	fixed     FixedUpdater
	finalizer Finalizer
	layer     LayerListener

	started   bool // start flush completed; update hooks gate on this
	pending   bool // individually marked for destruction
	destroyed bool // OnDestroy already delivered or detached without hooks
}

func newAttachment(c Component) *attachment {
	att := &attachment{comp: c}
	att.attacher, _ = c.(Attacher)
	att.starter, _ = c.(Starter)
	att.updater, _ = c.(Updater)
	att.fixed, _ = c.(FixedUpdater)
	att.finalizer, _ = c.(Finalizer)
	att.layer, _ = c.(LayerListener)
	return att
}
