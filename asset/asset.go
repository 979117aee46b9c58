package asset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
)

// ID uniquely identifies a requested asset within the process
type ID uint64

// Type tags the loader family an asset resolves through
type Type string

// Built-in type tags. Hosts may register their own
const (
	TypeUnknown Type = "unknown"
	TypeText    Type = "text"
	TypeBinary  Type = "binary"
	TypeConfig  Type = "config"
	TypeSound   Type = "sound"
)

var (
	// ErrNotReady is returned by LazyAsset.Get before the asset's batch
	// has resolved. It is not a wait: callers defer access themselves,
	// typically to a hook that runs after the flush completes
	ErrNotReady = errors.New("asset: not ready")

	// ErrUnregisteredLoader aborts a flush batch when an asset's resolved
	// type has no loader
	ErrUnregisteredLoader = errors.New("asset: no loader registered")
)

var nextID atomic.Uint64

// Asset describes one resource request: generated unique id, logical name,
// path, extension, and a type tag. A type, once resolved (explicitly or by
// extension), never changes
type Asset struct {
	ID   ID
	Name string
	Path string
	Ext  string
	Type Type
}

// New builds an asset record from a path, deriving name and extension.
// The type stays TypeUnknown until a pipeline resolves it
func New(path string) *Asset {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Asset{
		ID:   ID(nextID.Add(1)),
		Name: base,
		Path: path,
		Ext:  strings.ToLower(ext),
		Type: TypeUnknown,
	}
}

func (a *Asset) String() string {
	return fmt.Sprintf("%s#%d (%s, %s)", a.Name, a.ID, a.Path, a.Type)
}

// LazyAsset is a capability pair: a reference to its asset and an accessor
// that fails until the pipeline's result table contains the asset's id
type LazyAsset struct {
	asset *Asset
	p     *Pipeline
}

// Asset returns the underlying asset record
func (l *LazyAsset) Asset() *Asset {
	return l.asset
}

// Ready reports whether the asset has resolved
func (l *LazyAsset) Ready() bool {
	_, ok := l.p.result(l.asset.ID)
	return ok
}

// Get returns the resolved value, or ErrNotReady. It never blocks
func (l *LazyAsset) Get() (any, error) {
	v, ok := l.p.result(l.asset.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotReady, l.asset.Name)
	}
	return v, nil
}

// MustGet returns the resolved value or panics; misordered access is a
// programmer error surfaced loudly so tests can catch it
func (l *LazyAsset) MustGet() any {
	v, err := l.Get()
	if err != nil {
		panic(err)
	}
	return v
}
