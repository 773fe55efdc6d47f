// Command scenedump records a demo scene with the canvas, lowers it to
// render commands and encodes it against a backend, printing the
// recorded op stream.
//
// Usage:
//
//	scenedump [-config scene.toml] [-backend recorder] [-width 256] [-height 256]
//
// Settings come from the TOML file over built-in defaults; flags that
// are set explicitly override both. -print-config writes the effective
// configuration and exits.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/pkg/profile"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/backend"
	"github.com/gogpu/canvas/backend/recorder"
	"github.com/gogpu/canvas/backend/wgpu"
	"github.com/gogpu/canvas/render"
)

func main() {
	var (
		configPath  = flag.String("config", "", "TOML configuration file")
		backendName = flag.String("backend", "", "backend to encode against (recorder, wgpu-noop)")
		width       = flag.Int64("width", 0, "target width")
		height      = flag.Int64("height", 0, "target height")
		debugGroups = flag.Bool("debug-groups", false, "wrap passes and commands in debug groups")
		verbose     = flag.Bool("v", false, "log debug output to stderr")
		cpuprofile  = flag.String("cpuprofile", "", "write a CPU profile to this directory")
		printConfig = flag.Bool("print-config", false, "print the effective configuration and exit")
	)
	flag.Parse()

	if *cpuprofile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*cpuprofile), profile.Quiet).Stop()
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("scenedump: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = *backendName
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "debug-groups":
			cfg.DebugGroups = *debugGroups
		}
	})
	if err := cfg.validate(); err != nil {
		log.Fatalf("scenedump: %v", err)
	}
	if *printConfig {
		if err := writeConfig(os.Stdout, cfg); err != nil {
			log.Fatalf("scenedump: %v", err)
		}
		return
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	canvas.SetLogger(logger)

	if err := run(os.Stdout, cfg, logger); err != nil {
		log.Fatalf("scenedump: %v", err)
	}
}

// run records the scene, encodes it on the configured backend and
// writes a report to w.
func run(w io.Writer, cfg Config, logger *slog.Logger) error {
	pic, err := buildScene(cfg, logger)
	if err != nil {
		return err
	}

	dev, err := backend.Open(cfg.Backend)
	if err != nil {
		return err
	}
	defer dev.Close()

	newPipe, err := pipelinesFor(dev.Name())
	if err != nil {
		return err
	}

	opts := []render.EncoderOption{render.WithLabel(cfg.Label), render.WithDebugGroups(cfg.DebugGroups)}
	if cfg.CacheSize > 0 {
		opts = append(opts, render.WithRenderPassCacheSize(cfg.CacheSize))
	}
	enc, err := render.NewRenderPassEncoder(dev, render.NewStateTracker(), opts...)
	if err != nil {
		return err
	}
	defer enc.Close()

	bg, err := canvas.ParseHex(cfg.Background)
	if err != nil {
		return err
	}
	size := render.ISize{Width: cfg.Width, Height: cfg.Height}
	targetCfg := render.DefaultOffscreenConfig()
	targetCfg.ClearColor = bg
	target, err := render.CreateOffscreen(dev, size, cfg.Label, targetCfg)
	if err != nil {
		return err
	}
	defer target.Release()

	rec, err := dev.NewRecorder(cfg.Label)
	if err != nil {
		return err
	}
	r := newSceneRenderer(dev, enc, size, newPipe)
	defer r.release()
	if err := r.render(rec, pic, target); err != nil {
		return err
	}
	if err := rec.Finish(); err != nil {
		return err
	}

	fmt.Fprintf(w, "backend %s: %d passes recorded, %d entities, %d render passes encoded, %d cached\n",
		dev.Name(), pic.PassCount(), pic.Entities(), r.encoded, enc.CachedRenderPasses())
	if cb, ok := rec.(*recorder.CommandBuffer); ok {
		fmt.Fprint(w, cb)
	}
	return nil
}

// pipelinesFor returns the pipeline constructor of a backend.
func pipelinesFor(name string) (pipelineFunc, error) {
	switch name {
	case backend.BackendRecorder:
		return func(label string) render.Pipeline { return recorder.NewPipeline(label) }, nil
	case backend.BackendWGPUNoop:
		// The noop device accepts nil native objects.
		return func(label string) render.Pipeline { return wgpu.NewPipeline(label, nil, nil) }, nil
	default:
		return nil, fmt.Errorf("no pipelines for backend %q", name)
	}
}
