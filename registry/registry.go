package registry

import (
	"sync"

	"github.com/veylan/scenekit/scene"
)

// Factory creates a component from its raw manifest config
type Factory func(cfg map[string]any) (scene.Component, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// RegisterComponent adds a component factory by name. Re-registration
// overwrites
func RegisterComponent(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = factory
}

// GetComponent retrieves a component factory by name
func GetComponent(name string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[name]
	return f, ok
}

// ComponentNames returns all registered factory names
func ComponentNames() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}
