package scene

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"
)

// motor is a plain sibling with no hooks
type motor struct {
	rpm int
}

// controller declares wiring against a sibling motor and an actor property
type controller struct {
	motor *motor
	speed float64
}

func (c *controller) Wiring() []Dependency {
	return []Dependency{
		{
			Key:  "motor",
			Kind: SiblingComponent,
			Match: func(comp Component) bool {
				_, ok := comp.(*motor)
				return ok
			},
			Assign: func(v any) { c.motor = v.(*motor) },
		},
		{
			Key:    "speed",
			Kind:   ActorProperty,
			Assign: func(v any) { c.speed = v.(float64) },
		},
	}
}

func TestWiringResolvesSiblingAndProperty(t *testing.T) {
	h := NewHierarchy()
	a := h.Spawn("car")
	a.SetProp("speed", 2.5)

	m := &motor{rpm: 3000}
	a.Attach(m)
	c := &controller{}
	a.Attach(c)

	h.FlushStarts()

	if c.motor != m {
		t.Error("sibling dependency not resolved")
	}
	if c.speed != 2.5 {
		t.Errorf("property dependency not resolved, got %v", c.speed)
	}
}

// A missing dependency is a warning, never fatal: the reference stays nil
// and lifecycle continues
func TestWiringMissIsNonFatal(t *testing.T) {
	h := NewHierarchy()
	a := h.Spawn("car")

	c := &controller{}
	a.Attach(c)
	h.FlushStarts()

	if c.motor != nil {
		t.Error("unresolved sibling must stay nil")
	}
	if c.speed != 0 {
		t.Error("unresolved property must keep its zero value")
	}

	// Actor keeps updating despite the miss
	h.Update(time.Millisecond)
}

func TestWiringSkipsSelf(t *testing.T) {
	h := NewHierarchy()
	a := h.Spawn("solo")

	// A component whose matcher would accept anything must not bind to
	// itself
	c := &greedy{}
	a.Attach(c)
	h.FlushStarts()

	if c.got != nil {
		t.Error("wiring must not resolve a component to itself")
	}
}

// Regression: components that will never start must not resolve wiring,
// so a doomed actor with unsatisfiable dependencies warns nothing
func TestWiringSkipsPendingEntries(t *testing.T) {
	h := NewHierarchy()
	a := h.Spawn("doomed")

	c := &controller{}
	a.Attach(c)
	a.MarkDestroy()

	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	h.FlushStarts()

	if out := buf.String(); strings.Contains(out, "unresolved") {
		t.Errorf("pending entry must not emit dependency warnings, got %q", out)
	}
	if c.motor != nil {
		t.Error("pending entry must not be wired")
	}
}

type greedy struct {
	got any
}

func (g *greedy) Wiring() []Dependency {
	return []Dependency{{
		Key:    "anything",
		Kind:   SiblingComponent,
		Match:  func(Component) bool { return true },
		Assign: func(v any) { g.got = v },
	}}
}
