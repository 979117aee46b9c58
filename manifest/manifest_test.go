package manifest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/veylan/scenekit/asset"
	"github.com/veylan/scenekit/registry"
	"github.com/veylan/scenekit/scene"
)

const sceneDoc = `
assets:
  - data/intro.txt
  - data/theme.wav
actors:
  - name: world
    layer: 1
    props:
      gravity: 9.8
    children:
      - name: player
        components:
          - type: mover
            config:
              speed: 4
      - name: hud
        layer: 10
`

type mover struct {
	speed int
}

func (m *mover) OnUpdate(a *scene.Actor, dt time.Duration) {}

func init() {
	registry.RegisterComponent("mover", func(cfg map[string]any) (scene.Component, error) {
		speed, ok := cfg["speed"].(int)
		if !ok {
			return nil, errors.New("mover: speed required")
		}
		return &mover{speed: speed}, nil
	})
}

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sceneDoc))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Assets) != 2 || len(doc.Actors) != 1 {
		t.Fatalf("parsed shape wrong: %+v", doc)
	}
	world := doc.Actors[0]
	if world.Name != "world" || world.Layer != 1 || len(world.Children) != 2 {
		t.Errorf("root definition wrong: %+v", world)
	}
	if world.Children[0].Components[0].Type != "mover" {
		t.Errorf("component definition wrong: %+v", world.Children[0])
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	if _, err := Parse([]byte("actors: [broken")); err == nil {
		t.Error("expected parse error")
	}
}

func TestBuildSpawnsTree(t *testing.T) {
	doc, err := Parse([]byte(sceneDoc))
	if err != nil {
		t.Fatal(err)
	}

	h := scene.NewHierarchy()
	p := asset.NewPipeline()
	handles := doc.Build(h, p)

	if len(handles) != 2 {
		t.Fatalf("expected 2 asset handles, got %d", len(handles))
	}
	if p.Pending() != 2 {
		t.Errorf("assets must be queued, pending %d", p.Pending())
	}

	player := h.Find("world/player")
	if player == nil {
		t.Fatal("player not spawned")
	}
	if h.Find("world").Layer() != 1 || h.Find("world/hud").Layer() != 10 {
		t.Error("layers not applied")
	}
	if v, ok := h.Find("world").Prop("gravity"); !ok || v != 9.8 {
		t.Errorf("props not applied: %v %v", v, ok)
	}

	comps := player.Components()
	if len(comps) != 1 {
		t.Fatalf("expected 1 component, got %d", len(comps))
	}
	if m, ok := comps[0].(*mover); !ok || m.speed != 4 {
		t.Errorf("component config not applied: %#v", comps[0])
	}
}

func TestBuildToleratesUnknownComponent(t *testing.T) {
	doc, err := Parse([]byte(`
actors:
  - name: a
    components:
      - type: nonexistent
      - type: mover
        config:
          speed: 1
`))
	if err != nil {
		t.Fatal(err)
	}

	h := scene.NewHierarchy()
	doc.Build(h, nil)

	a := h.Find("a")
	if a == nil {
		t.Fatal("actor must be spawned despite the unknown component")
	}
	if len(a.Components()) != 1 {
		t.Errorf("known component must still attach, got %d", len(a.Components()))
	}
}

func TestBuildToleratesFactoryFailure(t *testing.T) {
	doc, err := Parse([]byte(`
actors:
  - name: a
    components:
      - type: mover
`))
	if err != nil {
		t.Fatal(err)
	}

	h := scene.NewHierarchy()
	doc.Build(h, nil)

	a := h.Find("a")
	if a == nil || len(a.Components()) != 0 {
		t.Error("failing factory must leave the actor without the component")
	}
}

func TestBuiltSceneRunsInKernelOrder(t *testing.T) {
	doc, err := Parse([]byte(sceneDoc))
	if err != nil {
		t.Fatal(err)
	}

	h := scene.NewHierarchy()
	p := asset.NewPipeline()
	p.RegisterLoader(asset.TypeText, []string{"txt", "wav"}, func(context.Context, *asset.Asset) (any, error) {
		return "stub", nil
	})
	handles := doc.Build(h, p)

	if n := h.FlushStarts(); n == 0 {
		t.Error("built components must be pending start")
	}
	if err := p.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, la := range handles {
		if !la.Ready() {
			t.Errorf("manifest asset %q unresolved", la.Asset().Name)
		}
	}
}
