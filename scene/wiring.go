package scene

import (
	"log"
)

// DependencyKind selects the resolution strategy for a declared dependency
type DependencyKind int

const (
	// SiblingComponent resolves the first non-pending sibling component
	// on the same actor satisfying Match
	SiblingComponent DependencyKind = iota

	// ActorProperty resolves the actor property named by Key
	ActorProperty
)

// Dependency is one row of a component's explicit wiring table: a declared
// key plus a resolution strategy, resolved by the hierarchy's initializer
// during FlushStarts, before OnAttach runs
type Dependency struct {
	// Key names the dependency in warnings, and the property for
	// ActorProperty resolution
	Key string

	Kind DependencyKind

	// Match selects a sibling for SiblingComponent resolution
	Match func(Component) bool

	// Assign receives the resolved value. Skipped on a miss: an absent
	// dependency is a warning, never fatal, and the target stays nil
	Assign func(value any)
}

// Wirer is implemented by components that declare dependencies to be
// resolved before their lifecycle hooks fire
type Wirer interface {
	Wiring() []Dependency
}

// resolveWiring applies a component's wiring table against its actor.
// Unresolved references are logged and left absent; the component is
// responsible for nil checks
func resolveWiring(a *Actor, c Component) {
	w, ok := c.(Wirer)
	if !ok {
		return
	}
	for _, dep := range w.Wiring() {
		value := resolveDependency(a, c, dep)
		if value == nil {
			log.Printf("scene: actor %q: unresolved dependency %q", a.name, dep.Key)
			continue
		}
		if dep.Assign != nil {
			dep.Assign(value)
		}
	}
}

func resolveDependency(a *Actor, self Component, dep Dependency) any {
	switch dep.Kind {
	case SiblingComponent:
		if dep.Match == nil {
			return nil
		}
		for _, att := range a.attachments {
			if att.comp == self || att.pending || att.destroyed {
				continue
			}
			if dep.Match(att.comp) {
				return att.comp
			}
		}
		return nil
	case ActorProperty:
		if v, ok := a.Prop(dep.Key); ok {
			return v
		}
		return nil
	}
	return nil
}
