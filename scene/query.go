package scene

import (
	"path"
	"strings"
)

// Separator splits path and glob patterns into per-depth segments
const Separator = "/"

// Walk visits every actor depth-first in sibling insertion order,
// yielding (actor, parent) pairs. Return false from fn to stop early.
// Pending actors are included; Walk is the primitive under every query
// and the reap sweep needs the full tree
func (h *Hierarchy) Walk(fn func(a, parent *Actor) bool) {
	for _, a := range h.roots {
		if !walkFrom(a, nil, fn) {
			return
		}
	}
}

// WalkFrom visits node and its descendants depth-first
func (h *Hierarchy) WalkFrom(node *Actor, fn func(a, parent *Actor) bool) {
	walkFrom(node, node.parent, fn)
}

func walkFrom(a, parent *Actor, fn func(a, parent *Actor) bool) bool {
	if !fn(a, parent) {
		return false
	}
	for _, c := range a.children {
		if !walkFrom(c, a, fn) {
			return false
		}
	}
	return true
}

// Roots returns the shallow root list
func (h *Hierarchy) Roots() []*Actor {
	out := make([]*Actor, len(h.roots))
	copy(out, h.roots)
	return out
}

// All returns the full depth-first enumeration, intentionally including
// pending actors; every other query excludes them
func (h *Hierarchy) All() []*Actor {
	var out []*Actor
	h.Walk(func(a, _ *Actor) bool {
		out = append(out, a)
		return true
	})
	return out
}

// Find resolves a name to the first matching non-pending actor in
// depth-first order. A name containing the separator is resolved segment
// by segment: the first segment through the general search, the rest as
// direct-child lookups, filtering pending actors at every segment.
// Returns nil on any miss; a lookup never fails loudly
func (h *Hierarchy) Find(name string) *Actor {
	if name == "" {
		return nil
	}
	if !strings.Contains(name, Separator) {
		return h.findExact(name)
	}

	segs := strings.Split(name, Separator)
	cur := h.findExact(segs[0])
	if cur == nil {
		return nil
	}
	for _, seg := range segs[1:] {
		cur = childByName(cur, seg)
		if cur == nil {
			return nil
		}
	}
	return cur
}

func (h *Hierarchy) findExact(name string) *Actor {
	var found *Actor
	h.Walk(func(a, _ *Actor) bool {
		if a.pending {
			return true
		}
		if a.name == name {
			found = a
			return false
		}
		return true
	})
	return found
}

func childByName(a *Actor, name string) *Actor {
	for _, c := range a.children {
		if c.pending {
			continue
		}
		if c.name == name {
			return c
		}
	}
	return nil
}

// Query is a lazy, restartable iterator over actors matching a glob
// pattern. Evaluation is deferred until the first Next; Reset rewinds
// and re-evaluates against the current tree
//
//	q := h.Query("root/**/leaf")
//	for q.Next() {
//	    use(q.Actor())
//	}
type Query struct {
	h       *Hierarchy
	pattern string

	matches   []*Actor
	evaluated bool
	idx       int
	cur       *Actor
}

// Query creates an iterator over non-pending actors matching pattern.
// Without a separator, the pattern is a single glob matched against every
// actor name in depth-first order. With separators, each segment matches
// the corresponding depth level; the segment ** is a recursive-descendant
// wildcard, so patterns like "root/**/group/*/leaf" work.
// Result order is depth-first then sibling insertion order, stable
func (h *Hierarchy) Query(pattern string) *Query {
	return &Query{h: h, pattern: pattern, idx: -1}
}

// Next advances to the next match, returning false when exhausted
func (q *Query) Next() bool {
	if !q.evaluated {
		q.matches = q.evaluate()
		q.evaluated = true
	}
	q.idx++
	if q.idx >= len(q.matches) {
		q.cur = nil
		return false
	}
	q.cur = q.matches[q.idx]
	return true
}

// Actor returns the current match
func (q *Query) Actor() *Actor {
	return q.cur
}

// Reset rewinds the iterator; the next Next re-evaluates the pattern
func (q *Query) Reset() {
	q.evaluated = false
	q.matches = nil
	q.idx = -1
	q.cur = nil
}

// Collect drains the remaining matches into a slice
func (q *Query) Collect() []*Actor {
	var out []*Actor
	for q.Next() {
		out = append(out, q.cur)
	}
	return out
}

func (q *Query) evaluate() []*Actor {
	if q.pattern == "" {
		return nil
	}
	if !strings.Contains(q.pattern, Separator) {
		var out []*Actor
		q.h.Walk(func(a, _ *Actor) bool {
			if !a.pending && globMatch(q.pattern, a.name) {
				out = append(out, a)
			}
			return true
		})
		return out
	}

	segs := strings.Split(q.pattern, Separator)
	var out []*Actor
	matchSegments(q.h.roots, segs, &out)
	return out
}

// matchSegments matches segs against nodes at the current depth level,
// appending matches in depth-first, sibling insertion order
func matchSegments(nodes []*Actor, segs []string, out *[]*Actor) {
	if len(segs) == 0 {
		return
	}
	seg := segs[0]
	rest := segs[1:]

	if seg == "**" {
		matchDescendants(nodes, rest, out)
		return
	}

	for _, a := range nodes {
		if a.pending || !globMatch(seg, a.name) {
			continue
		}
		if len(rest) == 0 {
			*out = append(*out, a)
			continue
		}
		matchSegments(a.children, rest, out)
	}
}

// matchDescendants implements the ** segment over the node set that a
// non-** match would have examined: every node here and below is a
// descendant of the anchor. Terminal: yield every descendant. Non-terminal:
// a descendant matching the following segment either yields (if that
// segment was last) or continues the remaining path from its children
func matchDescendants(nodes []*Actor, rest []string, out *[]*Actor) {
	for _, a := range nodes {
		if a.pending {
			continue
		}
		if len(rest) == 0 {
			*out = append(*out, a)
		} else if globMatch(rest[0], a.name) {
			if len(rest) == 1 {
				*out = append(*out, a)
			} else {
				matchSegments(a.children, rest[1:], out)
			}
		}
		matchDescendants(a.children, rest, out)
	}
}

// globMatch matches a single glob segment against a name. Malformed
// patterns never match
func globMatch(pattern, name string) bool {
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}
