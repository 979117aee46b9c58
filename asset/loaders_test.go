package asset

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadText(t *testing.T) {
	path := writeFixture(t, "greeting.txt", []byte("hello"))

	v, err := LoadText(context.Background(), New(path))
	if err != nil {
		t.Fatal(err)
	}
	if v.(string) != "hello" {
		t.Errorf("got %q", v)
	}
}

func TestLoadTextMissingFile(t *testing.T) {
	a := New(filepath.Join(t.TempDir(), "absent.txt"))
	if _, err := LoadText(context.Background(), a); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeFixture(t, "settings.yaml", []byte("speed: 3\nname: orb\n"))

	v, err := LoadConfig(context.Background(), New(path))
	if err != nil {
		t.Fatal(err)
	}
	doc := v.(map[string]any)
	if doc["speed"] != 3 || doc["name"] != "orb" {
		t.Errorf("parsed document wrong: %v", doc)
	}
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := writeFixture(t, "broken.yaml", []byte("a: [unclosed"))
	if _, err := LoadConfig(context.Background(), New(path)); err == nil {
		t.Error("expected parse error")
	}
}

// wavFixture builds a minimal PCM WAV: 16-bit mono, four samples
func wavFixture(t *testing.T) string {
	t.Helper()
	samples := []int16{0, 1000, -1000, 0}
	dataSize := uint32(len(samples) * 2)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))     // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1))     // mono
	binary.Write(&buf, binary.LittleEndian, uint32(44100)) // sample rate
	binary.Write(&buf, binary.LittleEndian, uint32(44100*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	binary.Write(&buf, binary.LittleEndian, samples)

	return writeFixture(t, "blip.wav", buf.Bytes())
}

func TestLoadSound(t *testing.T) {
	path := wavFixture(t)

	v, err := LoadSound(context.Background(), New(path))
	if err != nil {
		t.Fatal(err)
	}
	snd := v.(*Sound)
	if snd.Buffer.Len() != 4 {
		t.Errorf("expected 4 samples, got %d", snd.Buffer.Len())
	}
	if snd.Format.SampleRate != 44100 {
		t.Errorf("sample rate: %v", snd.Format.SampleRate)
	}
}

func TestRegisterDefaultsExtensionMap(t *testing.T) {
	p := NewPipeline()
	RegisterDefaults(p)

	cases := map[string]Type{
		"a.txt":  TypeText,
		"a.md":   TypeText,
		"a.bin":  TypeBinary,
		"a.yaml": TypeConfig,
		"a.wav":  TypeSound,
		"a.xyz":  TypeUnknown,
	}
	for path, want := range cases {
		if got := p.Request(path).Asset().Type; got != want {
			t.Errorf("%s: expected %s, got %s", path, want, got)
		}
	}
}
