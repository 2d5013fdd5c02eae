package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config describes the frame postfxdemo renders.
type Config struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	PixelRatio float64 `toml:"pixel_ratio"`
	Output     string  `toml:"output"`

	// Scale resizes the rendered frame before it is written. 1 writes the
	// physical framebuffer as is.
	Scale float64 `toml:"scale"`

	Background [3]float32 `toml:"background"`

	Bloom   BloomConfig    `toml:"bloom"`
	Stars   StarsConfig    `toml:"stars"`
	Sprites []SpriteConfig `toml:"sprites"`

	// Mask restricts bloom to a rectangle when set.
	Mask *RectConfig `toml:"mask"`
}

// BloomConfig holds the bloom pass parameters.
type BloomConfig struct {
	Enabled   bool    `toml:"enabled"`
	Strength  float32 `toml:"strength"`
	Radius    float32 `toml:"radius"`
	Threshold float32 `toml:"threshold"`
	Levels    int     `toml:"levels"`
}

// StarsConfig scatters random star sprites over the frame.
type StarsConfig struct {
	Count      int     `toml:"count"`
	Seed       uint64  `toml:"seed"`
	MinSize    float32 `toml:"min_size"`
	MaxSize    float32 `toml:"max_size"`
	Brightness float32 `toml:"brightness"`
}

// SpriteConfig places one disc sprite, in pixels from the bottom-left.
type SpriteConfig struct {
	X        float32    `toml:"x"`
	Y        float32    `toml:"y"`
	Size     float32    `toml:"size"`
	Color    [3]float32 `toml:"color"`
	Softness float32    `toml:"softness"`
}

// RectConfig is an axis-aligned rectangle in pixels from the bottom-left.
type RectConfig struct {
	X      float32 `toml:"x"`
	Y      float32 `toml:"y"`
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
}

// DefaultConfig returns the built-in demo frame: a dark sky with random
// stars and a few bright discs above the bloom threshold.
func DefaultConfig() Config {
	return Config{
		Width:      800,
		Height:     600,
		PixelRatio: 1,
		Output:     "postfx.png",
		Scale:      1,
		Background: [3]float32{0.01, 0.01, 0.04},
		Bloom: BloomConfig{
			Enabled:   true,
			Strength:  1.5,
			Radius:    0.4,
			Threshold: 0.85,
			Levels:    5,
		},
		Stars: StarsConfig{
			Count:      150,
			Seed:       1,
			MinSize:    2,
			MaxSize:    6,
			Brightness: 1.2,
		},
		Sprites: []SpriteConfig{
			{X: 200, Y: 400, Size: 60, Color: [3]float32{3, 2.4, 1.6}, Softness: 0.6},
			{X: 560, Y: 220, Size: 90, Color: [3]float32{1.2, 1.8, 3.5}, Softness: 0.8},
		},
	}
}

// LoadConfig reads a TOML file over DefaultConfig. Unknown keys are
// rejected so that typos don't silently fall back to defaults. Sprites
// listed in the file replace the default ones.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	sprites := cfg.Sprites
	cfg.Sprites = nil
	if err := decodeConfig(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Sprites == nil {
		cfg.Sprites = sprites
	}
	return cfg, cfg.Validate()
}

func decodeConfig(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			keys := make([]string, 0, len(serr.Errors))
			for _, e := range serr.Errors {
				keys = append(keys, strings.Join(e.Key(), "."))
			}
			return fmt.Errorf("unknown keys %s: %w", strings.Join(keys, ", "), err)
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("line %d column %d: %w", row, col, err)
		}
		return err
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	case c.PixelRatio <= 0:
		return fmt.Errorf("invalid pixel_ratio %v", c.PixelRatio)
	case c.Scale <= 0:
		return fmt.Errorf("invalid scale %v", c.Scale)
	case c.Output == "":
		return errors.New("output is empty")
	case c.Stars.Count < 0:
		return fmt.Errorf("invalid stars.count %d", c.Stars.Count)
	case c.Stars.Count > 0 && (c.Stars.MinSize <= 0 || c.Stars.MaxSize < c.Stars.MinSize):
		return fmt.Errorf("invalid star sizes [%v, %v]", c.Stars.MinSize, c.Stars.MaxSize)
	}
	for i, s := range c.Sprites {
		if s.Size <= 0 {
			return fmt.Errorf("sprites[%d]: invalid size %v", i, s.Size)
		}
	}
	if m := c.Mask; m != nil && (m.Width <= 0 || m.Height <= 0) {
		return fmt.Errorf("invalid mask size %vx%v", m.Width, m.Height)
	}
	return nil
}

// Marshal encodes c as TOML, the format LoadConfig reads.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
