package asset

import (
	"context"
	"fmt"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"gopkg.in/yaml.v3"
)

// Sound is the resolved value of a TypeSound asset: fully decoded samples
// plus their format. Playback stays with the host's audio collaborator
type Sound struct {
	Buffer *beep.Buffer
	Format beep.Format
}

// RegisterDefaults installs the built-in loaders:
//
//	TypeText   (txt, md)        -> string
//	TypeBinary (bin, dat)       -> []byte
//	TypeConfig (yaml, yml)      -> map[string]any
//	TypeSound  (wav)            -> *Sound
func RegisterDefaults(p *Pipeline) {
	p.RegisterLoader(TypeText, []string{"txt", "md"}, LoadText)
	p.RegisterLoader(TypeBinary, []string{"bin", "dat"}, LoadBinary)
	p.RegisterLoader(TypeConfig, []string{"yaml", "yml"}, LoadConfig)
	p.RegisterLoader(TypeSound, []string{"wav"}, LoadSound)
}

// LoadText resolves an asset into its file contents as a string
func LoadText(_ context.Context, a *Asset) (any, error) {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// LoadBinary resolves an asset into its raw bytes
func LoadBinary(_ context.Context, a *Asset) (any, error) {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// LoadConfig resolves a YAML document into a generic map
func LoadConfig(_ context.Context, a *Asset) (any, error) {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", a.Path, err)
	}
	return doc, nil
}

// LoadSound decodes a WAV file into a memory buffer. Decode only: the
// kernel sequences loads, it does not play sounds
func LoadSound(_ context.Context, a *Asset) (any, error) {
	f, err := os.Open(a.Path)
	if err != nil {
		return nil, err
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", a.Path, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	return &Sound{Buffer: buf, Format: format}, nil
}
