// Command postfxdemo renders one frame through the postfx pipeline on the
// reference device and writes it as PNG.
//
// Usage:
//
//	postfxdemo [-config frame.toml] [-output out.png] [-scale 0.5] [-v]
//	postfxdemo -dump-config > frame.toml
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/postfx"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML frame description (default: built-in frame)")
		output     = flag.String("output", "", "output PNG file (overrides the config)")
		scaleFlag  = flag.Float64("scale", 0, "output scale factor (overrides the config)")
		verbose    = flag.Bool("v", false, "debug logging")
		dump       = flag.Bool("dump-config", false, "print the effective config as TOML and exit")
	)
	flag.Parse()

	if *verbose {
		postfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *scaleFlag > 0 {
		cfg.Scale = *scaleFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if *dump {
		data, err := cfg.Marshal()
		if err != nil {
			log.Fatalf("Failed to encode config: %v", err)
		}
		fmt.Print(string(data))
		return
	}

	start := time.Now()
	img, err := renderFrame(cfg)
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	if err := writePNG(cfg.Output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	b := img.Bounds()
	log.Printf("Frame saved to %s (%dx%d) in %v\n", cfg.Output, b.Dx(), b.Dy(), time.Since(start).Round(time.Millisecond))
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
