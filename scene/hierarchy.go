package scene

import (
	"time"
)

// startEntry is one component awaiting its first OnAttach/OnStart
type startEntry struct {
	actor *Actor
	att   *attachment
}

// Hierarchy owns the tree of root actors, the awaiting-start queue, and
// the structural observer callbacks. It is mutated exclusively by the
// logic thread; every mutating operation is safe to call from within a
// traversal over a snapshot, never from within a live iteration over the
// authoritative lists themselves
type Hierarchy struct {
	nextID uint64
	roots  []*Actor

	startQueue []startEntry

	onAdd    []func(*Actor)
	onRemove []func(*Actor)
}

// NewHierarchy creates an empty hierarchy
func NewHierarchy() *Hierarchy {
	return &Hierarchy{}
}

func (h *Hierarchy) newActor(name string) *Actor {
	h.nextID++
	return &Actor{
		id:   h.nextID,
		name: name,
		hier: h,
	}
}

// Spawn creates a root actor, registering it synchronously
func (h *Hierarchy) Spawn(name string) *Actor {
	a := h.newActor(name)
	h.roots = append(h.roots, a)
	h.notifyAdd(a)
	return a
}

// Add appends an actor to the root list and fires add callbacks. An actor
// still parented elsewhere is detached from its old parent first, so a
// node is never reachable from two places; adding an existing root is a
// no-op. O(1) amortized for detached actors
func (h *Hierarchy) Add(a *Actor) {
	if a == nil || a.hier != h {
		return
	}
	if a.parent != nil {
		a.parent.detachChild(a)
		a.parent = nil
	} else {
		for _, r := range h.roots {
			if r == a {
				return
			}
		}
	}
	h.roots = append(h.roots, a)
	h.notifyAdd(a)
}

// Remove detaches a direct root member and fires remove callbacks.
// No-op if the actor is not a direct member
func (h *Hierarchy) Remove(a *Actor) {
	for i, r := range h.roots {
		if r == a {
			h.roots = append(h.roots[:i], h.roots[i+1:]...)
			h.notifyRemove(a)
			return
		}
	}
}

// OnAdd registers an observer fired synchronously whenever an actor is
// registered anywhere in the tree
func (h *Hierarchy) OnAdd(fn func(*Actor)) {
	h.onAdd = append(h.onAdd, fn)
}

// OnRemove registers an observer fired synchronously whenever an actor is
// physically detached
func (h *Hierarchy) OnRemove(fn func(*Actor)) {
	h.onRemove = append(h.onRemove, fn)
}

func (h *Hierarchy) notifyAdd(a *Actor) {
	for _, fn := range h.onAdd {
		fn(a)
	}
}

func (h *Hierarchy) notifyRemove(a *Actor) {
	for _, fn := range h.onRemove {
		fn(a)
	}
}

func (h *Hierarchy) enqueueStart(a *Actor, att *attachment) {
	h.startQueue = append(h.startQueue, startEntry{actor: a, att: att})
}

// PendingStarts returns the number of components awaiting their first start
func (h *Hierarchy) PendingStarts() int {
	return len(h.startQueue)
}

// FlushStarts drains the awaiting-start queue in FIFO (creation) order.
// Dependency wiring resolves first, then every OnAttach of the batch runs,
// then every OnStart, so a starting component observes all same-batch
// siblings fully attached. Entries whose actor or component is already
// pending destruction are skipped by every pass, wiring included.
// Components attached by hooks during the flush join a new batch drained
// on the next flush; update hooks stay gated until that flush runs.
// Returns the number of components processed
func (h *Hierarchy) FlushStarts() int {
	batch := h.startQueue
	h.startQueue = nil

	for _, e := range batch {
		if e.att.destroyed || e.att.pending || e.actor.pending {
			continue
		}
		resolveWiring(e.actor, e.att.comp)
	}
	for _, e := range batch {
		if e.att.destroyed || e.att.pending || e.actor.pending {
			continue
		}
		e.att.started = true
		if e.att.attacher != nil {
			e.att.attacher.OnAttach(e.actor)
		}
	}
	for _, e := range batch {
		if e.att.destroyed || e.att.pending || e.actor.pending {
			continue
		}
		if e.att.starter != nil {
			e.att.starter.OnStart(e.actor)
		}
	}
	return len(batch)
}

// Update runs the variable-rate pass over every non-pending actor,
// depth-first in sibling insertion order
func (h *Hierarchy) Update(dt time.Duration) {
	snapshot := make([]*Actor, len(h.roots))
	copy(snapshot, h.roots)
	for _, a := range snapshot {
		updateTree(a, dt)
	}
}

func updateTree(a *Actor, dt time.Duration) {
	if a.pending {
		return
	}
	a.Update(dt)
	children := make([]*Actor, len(a.children))
	copy(children, a.children)
	for _, c := range children {
		updateTree(c, dt)
	}
}

// FixedUpdate runs one fixed logical step over every non-pending actor,
// depth-first in sibling insertion order
func (h *Hierarchy) FixedUpdate(dt time.Duration) {
	snapshot := make([]*Actor, len(h.roots))
	copy(snapshot, h.roots)
	for _, a := range snapshot {
		fixedUpdateTree(a, dt)
	}
}

func fixedUpdateTree(a *Actor, dt time.Duration) {
	if a.pending {
		return
	}
	a.FixedUpdate(dt)
	children := make([]*Actor, len(a.children))
	copy(children, a.children)
	for _, c := range children {
		fixedUpdateTree(c, dt)
	}
}

// MarkDestroy flags an actor and its subtree for destruction (see
// Actor.MarkDestroy). Physical removal happens at Reap
func (h *Hierarchy) MarkDestroy(a *Actor) {
	a.MarkDestroy()
}

// MarkDestroyAll flags every root actor (and therefore the whole tree)
func (h *Hierarchy) MarkDestroyAll() {
	for _, a := range h.roots {
		a.MarkDestroy()
	}
}

// Reap physically detaches every actor whose pending flag is set and calls
// Destroy on it exactly once, in the sweep's depth-first order. Surviving
// actors have their individually-pending components removed. This is the
// only place nodes leave the tree, which is what makes destruction requests
// raised during updates safe. Returns the number of actors reaped
func (h *Hierarchy) Reap() int {
	reaped := 0

	roots := make([]*Actor, len(h.roots))
	copy(roots, h.roots)
	for _, a := range roots {
		if a.pending {
			h.removeRoot(a)
			reaped += reapTree(h, a)
			continue
		}
		reaped += reapSurvivor(h, a)
	}
	return reaped
}

func (h *Hierarchy) removeRoot(a *Actor) {
	for i, r := range h.roots {
		if r == a {
			h.roots = append(h.roots[:i], h.roots[i+1:]...)
			return
		}
	}
}

// reapTree destroys a detached pending subtree depth-first, parent before
// children, firing remove callbacks per node
func reapTree(h *Hierarchy, a *Actor) int {
	h.notifyRemove(a)
	a.Destroy()
	count := 1

	children := make([]*Actor, len(a.children))
	copy(children, a.children)
	a.children = nil
	for _, c := range children {
		c.parent = nil
		count += reapTree(h, c)
	}
	return count
}

// reapSurvivor sweeps a live actor: pending children are detached and
// destroyed, pending components removed, then recursion continues
func reapSurvivor(h *Hierarchy, a *Actor) int {
	reaped := 0
	a.reapComponents()

	children := make([]*Actor, len(a.children))
	copy(children, a.children)
	for _, c := range children {
		if c.pending {
			a.detachChild(c)
			c.parent = nil
			reaped += reapTree(h, c)
			continue
		}
		reaped += reapSurvivor(h, c)
	}
	return reaped
}
