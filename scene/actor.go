package scene

import (
	"time"
)

// Actor is a node in the entity hierarchy: identity plus parent/child
// placement, an ordered component list, and a deferred-destruction flag.
// Names are opaque and not required to be unique; creation order gives
// the implicit stable position used by every multi-result query
type Actor struct {
	id    uint64
	name  string
	layer int

	hier     *Hierarchy
	parent   *Actor // nil for root actors
	children []*Actor

	attachments []*attachment
	updaters    []*attachment // capability subset, built at attach time
	fixed       []*attachment

	props map[string]any

	pending bool
}

// ID returns the actor's stable arena id
func (a *Actor) ID() uint64 {
	return a.id
}

// Name returns the actor's name. Names are not unique
func (a *Actor) Name() string {
	return a.name
}

// Parent returns the owning actor, or nil for a root actor
func (a *Actor) Parent() *Actor {
	return a.parent
}

// Children returns the ordered child list. The slice is the live backing
// list; callers iterating across mutations must snapshot it first
func (a *Actor) Children() []*Actor {
	return a.children
}

// Pending reports whether the actor is marked for destruction
func (a *Actor) Pending() bool {
	return a.pending
}

// Layer returns the actor's active layer
func (a *Actor) Layer() int {
	return a.layer
}

// Spawn creates a child actor, registering it synchronously
func (a *Actor) Spawn(name string) *Actor {
	child := a.hier.newActor(name)
	child.parent = a
	a.children = append(a.children, child)
	a.hier.notifyAdd(child)
	return child
}

// Attach constructs an attachment for c, appends it to the component list
// and the hierarchy's awaiting-start queue, and runs init synchronously
// before any lifecycle hook fires. There is no ordering guarantee relative
// to other actors' attachments in the same frame
func (a *Actor) Attach(c Component, init ...func(Component)) Component {
	att := newAttachment(c)
	a.attachments = append(a.attachments, att)
	if att.updater != nil {
		a.updaters = append(a.updaters, att)
	}
	if att.fixed != nil {
		a.fixed = append(a.fixed, att)
	}
	a.hier.enqueueStart(a, att)
	for _, fn := range init {
		fn(c)
	}
	return c
}

// Components returns the currently attached, non-pending components in
// attach order
func (a *Actor) Components() []Component {
	out := make([]Component, 0, len(a.attachments))
	for _, att := range a.attachments {
		if att.pending || att.destroyed {
			continue
		}
		out = append(out, att.comp)
	}
	return out
}

// Component returns the first attached component satisfying match, or nil
func (a *Actor) Component(match func(Component) bool) Component {
	for _, att := range a.attachments {
		if att.pending || att.destroyed {
			continue
		}
		if match(att.comp) {
			return att.comp
		}
	}
	return nil
}

// Update invokes OnUpdate on the per-frame capability subset. No-op when
// the actor is pending destruction. Iteration runs over a snapshot, so
// hooks that remove components cannot skip or double-visit a sibling;
// components not yet through their start flush are skipped
func (a *Actor) Update(dt time.Duration) {
	if a.pending {
		return
	}
	snapshot := make([]*attachment, len(a.updaters))
	copy(snapshot, a.updaters)
	for _, att := range snapshot {
		if !att.started || att.pending || att.destroyed {
			continue
		}
		att.updater.OnUpdate(a, dt)
	}
}

// FixedUpdate invokes OnFixedUpdate on the fixed-step capability subset.
// No-op when the actor is pending destruction. Same snapshot and
// started-gate discipline as Update
func (a *Actor) FixedUpdate(dt time.Duration) {
	if a.pending {
		return
	}
	snapshot := make([]*attachment, len(a.fixed))
	copy(snapshot, a.fixed)
	for _, att := range snapshot {
		if !att.started || att.pending || att.destroyed {
			continue
		}
		att.fixed.OnFixedUpdate(a, dt)
	}
}

// SetLayer changes the active layer and broadcasts the change to every
// attached component implementing LayerListener
func (a *Actor) SetLayer(layer int) {
	a.layer = layer
	for _, att := range a.attachments {
		if att.pending || att.destroyed || att.layer == nil {
			continue
		}
		att.layer.OnLayerChange(a, layer)
	}
}

// MarkDestroy flags the actor and its entire subtree for destruction,
// depth-first and synchronously. Idempotent: a second call does not
// re-notify children. Physical teardown happens only at the reap point
func (a *Actor) MarkDestroy() {
	if a.pending {
		return
	}
	a.pending = true
	for _, child := range a.children {
		child.MarkDestroy()
	}
}

// DestroyComponent marks a single component for destruction. It is skipped
// by updates immediately and physically removed, with exactly one
// OnDestroy, at the reap point
func (a *Actor) DestroyComponent(c Component) {
	for _, att := range a.attachments {
		if att.comp == c {
			att.pending = true
			return
		}
	}
}

// RemoveComponent detaches a component immediately without invoking any
// hook. Safe to call from inside any hook: the update and teardown loops
// iterate snapshots, and the destroyed mark keeps a removed component from
// receiving further calls within the in-flight pass
func (a *Actor) RemoveComponent(c Component) {
	for i, att := range a.attachments {
		if att.comp == c {
			att.destroyed = true
			a.attachments = append(a.attachments[:i], a.attachments[i+1:]...)
			a.dropFromSubsets(att)
			return
		}
	}
}

func (a *Actor) dropFromSubsets(target *attachment) {
	for i, att := range a.updaters {
		if att == target {
			a.updaters = append(a.updaters[:i], a.updaters[i+1:]...)
			break
		}
	}
	for i, att := range a.fixed {
		if att == target {
			a.fixed = append(a.fixed[:i], a.fixed[i+1:]...)
			break
		}
	}
}

// Destroy invokes OnDestroy on every currently attached component in
// reverse attach order (stack-discipline teardown), then clears the list.
// Iteration runs over a snapshot: hooks may mutate the live list freely,
// each component receives at most one OnDestroy, and only components
// explicitly detached via RemoveComponent mid-loop forfeit theirs
func (a *Actor) Destroy() {
	snapshot := make([]*attachment, len(a.attachments))
	copy(snapshot, a.attachments)

	for i := len(snapshot) - 1; i >= 0; i-- {
		att := snapshot[i]
		if att.destroyed {
			continue
		}
		att.destroyed = true
		if att.finalizer != nil {
			att.finalizer.OnDestroy(a)
		}
	}

	a.attachments = nil
	a.updaters = nil
	a.fixed = nil
}

// reapComponents removes individually-pending components from a surviving
// actor, delivering exactly one OnDestroy each. Hooks run over a snapshot
// in reverse attach order, then the live list is compacted
func (a *Actor) reapComponents() {
	if len(a.attachments) == 0 {
		return
	}

	snapshot := make([]*attachment, len(a.attachments))
	copy(snapshot, a.attachments)

	fired := false
	for i := len(snapshot) - 1; i >= 0; i-- {
		att := snapshot[i]
		if att.pending && !att.destroyed {
			att.destroyed = true
			fired = true
			if att.finalizer != nil {
				att.finalizer.OnDestroy(a)
			}
		}
	}
	if !fired {
		return
	}

	kept := make([]*attachment, 0, len(a.attachments))
	for _, att := range a.attachments {
		if att.destroyed {
			a.dropFromSubsets(att)
			continue
		}
		kept = append(kept, att)
	}
	a.attachments = kept
}

// SetProp stores a named property on the actor, used by the
// actor-property dependency wiring strategy
func (a *Actor) SetProp(key string, value any) {
	if a.props == nil {
		a.props = make(map[string]any)
	}
	a.props[key] = value
}

// Prop returns a named property and whether it exists
func (a *Actor) Prop(key string) (any, bool) {
	v, ok := a.props[key]
	return v, ok
}

// detachChild removes child from the ordered child list. Reap-internal
func (a *Actor) detachChild(child *Actor) {
	for i, c := range a.children {
		if c == child {
			a.children = append(a.children[:i], a.children[i+1:]...)
			return
		}
	}
}
