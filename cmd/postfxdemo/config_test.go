package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.toml")
	data := `
width = 320
height = 200
output = "out.png"

[bloom]
enabled = true
strength = 2.0
threshold = 0.5

[[sprites]]
x = 10
y = 20
size = 8
color = [2.0, 1.0, 0.5]

[mask]
x = 0
y = 0
width = 100
height = 50
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 200 || cfg.Output != "out.png" {
		t.Errorf("size/output = %dx%d %q", cfg.Width, cfg.Height, cfg.Output)
	}
	if cfg.Bloom.Strength != 2 || cfg.Bloom.Threshold != 0.5 {
		t.Errorf("bloom = %+v", cfg.Bloom)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Bloom.Levels != 5 || cfg.PixelRatio != 1 || cfg.Stars.Count != DefaultConfig().Stars.Count {
		t.Errorf("defaults lost: levels=%d ratio=%v stars=%d", cfg.Bloom.Levels, cfg.PixelRatio, cfg.Stars.Count)
	}
	if len(cfg.Sprites) != 1 || cfg.Sprites[0].Color != [3]float32{2, 1, 0.5} {
		t.Errorf("sprites = %+v", cfg.Sprites)
	}
	if cfg.Mask == nil || cfg.Mask.Width != 100 {
		t.Errorf("mask = %+v", cfg.Mask)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"unknown key", "widht = 3\n", "unknown keys"},
		{"bad syntax", "width = \n", "line 1"},
		{"zero width", "width = 0\n", "invalid size"},
		{"bad sprite", "[[sprites]]\nsize = -1\n", "sprites[0]"},
		{"bad mask", "[mask]\nwidth = 0\nheight = 1\n", "invalid mask"},
		{"bad stars", "[stars]\ncount = 3\nmin_size = 4\nmax_size = 2\n", "star sizes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "frame.toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o600); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("LoadConfig() succeeded")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); !os.IsNotExist(err) {
		t.Errorf("LoadConfig() = %v, want a not-exist error", err)
	}
}

func TestConfigMarshalRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mask = &RectConfig{X: 1, Y: 2, Width: 3, Height: 4}

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal() = %v", err)
	}
	var got Config
	if err := decodeConfig(data, &got); err != nil {
		t.Fatalf("decode marshaled config: %v\n%s", err, data)
	}
	if got.Width != cfg.Width || got.Bloom != cfg.Bloom || got.Stars != cfg.Stars || *got.Mask != *cfg.Mask {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
	if len(got.Sprites) != len(cfg.Sprites) || got.Sprites[1] != cfg.Sprites[1] {
		t.Errorf("sprites = %+v, want %+v", got.Sprites, cfg.Sprites)
	}
}

func TestLoadConfigKeepsDefaultSprites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.toml")
	if err := os.WriteFile(path, []byte("scale = 0.5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if want := DefaultConfig().Sprites; len(cfg.Sprites) != len(want) || cfg.Sprites[0] != want[0] {
		t.Errorf("sprites = %+v, want defaults %+v", cfg.Sprites, want)
	}
	if cfg.Scale != 0.5 {
		t.Errorf("scale = %v", cfg.Scale)
	}
}
