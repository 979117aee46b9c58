// Package manifest builds actor trees from declarative YAML scene files.
// A document lists root actors (with layers, components by registered
// factory name, and children) plus asset paths to pre-request through the
// pipeline before the scene starts.
package manifest

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/veylan/scenekit/asset"
	"github.com/veylan/scenekit/registry"
	"github.com/veylan/scenekit/scene"
)

// Document is a parsed scene manifest
type Document struct {
	// Assets are paths pre-requested through the pipeline
	Assets []string `yaml:"assets"`

	// Actors are the root actor definitions
	Actors []ActorDef `yaml:"actors"`
}

// ActorDef declares one actor and its subtree
type ActorDef struct {
	Name       string         `yaml:"name"`
	Layer      int            `yaml:"layer"`
	Props      map[string]any `yaml:"props"`
	Components []ComponentDef `yaml:"components"`
	Children   []ActorDef     `yaml:"children"`
}

// ComponentDef attaches a component by registered factory name
type ComponentDef struct {
	Type   string         `yaml:"type"`
	Config map[string]any `yaml:"config"`
}

// Parse decodes a manifest document
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return &doc, nil
}

// Load reads and parses a manifest file
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return Parse(data)
}

// Build instantiates the document into h, requesting its assets through p.
// Asset handles are returned in declaration order. An unknown component
// type or a failing factory is a logged warning, not a build failure:
// the actor continues without that behavior, consistent with how absent
// dependencies are treated everywhere else
func (d *Document) Build(h *scene.Hierarchy, p *asset.Pipeline) []*asset.LazyAsset {
	var handles []*asset.LazyAsset
	if p != nil {
		for _, path := range d.Assets {
			handles = append(handles, p.Request(path))
		}
	}

	for _, def := range d.Actors {
		buildActor(h.Spawn(def.Name), def)
	}
	return handles
}

func buildActor(a *scene.Actor, def ActorDef) {
	if def.Layer != 0 {
		a.SetLayer(def.Layer)
	}
	for k, v := range def.Props {
		a.SetProp(k, v)
	}

	for _, cd := range def.Components {
		factory, ok := registry.GetComponent(cd.Type)
		if !ok {
			log.Printf("manifest: actor %q: unknown component type %q", def.Name, cd.Type)
			continue
		}
		c, err := factory(cd.Config)
		if err != nil {
			log.Printf("manifest: actor %q: component %q: %v", def.Name, cd.Type, err)
			continue
		}
		a.Attach(c)
	}

	for _, child := range def.Children {
		buildActor(a.Spawn(child.Name), child)
	}
}
