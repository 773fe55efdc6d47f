package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/backend"
)

// Config is the scenedump configuration file.
type Config struct {
	Backend     string `toml:"backend"`
	Width       int64  `toml:"width"`
	Height      int64  `toml:"height"`
	Background  string `toml:"background"`
	Label       string `toml:"label"`
	DebugGroups bool   `toml:"debug_groups"`
	CacheSize   int    `toml:"render_pass_cache_size"`

	Scene SceneConfig `toml:"scene"`
}

// SceneConfig controls the demo scene.
type SceneConfig struct {
	Accent       string  `toml:"accent"`
	Rows         int     `toml:"rows"`
	Columns      int     `toml:"columns"`
	LayerOpacity float64 `toml:"layer_opacity"`
	Blur         float64 `toml:"blur"`
	Clip         bool    `toml:"clip"`
}

func defaultConfig() Config {
	return Config{
		Backend:     backend.BackendRecorder,
		Width:       256,
		Height:      256,
		Background:  "#202830",
		Label:       "scene",
		DebugGroups: true,
		CacheSize:   16,
		Scene: SceneConfig{
			Accent:       "#e05a2b",
			Rows:         3,
			Columns:      3,
			LayerOpacity: 0.5,
			Blur:         4,
			Clip:         true,
		},
	}
}

// loadConfig reads path over the defaults. An empty path returns the
// defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(names, ", "))
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("invalid render pass cache size %d", c.CacheSize)
	}
	if c.Scene.Rows < 0 || c.Scene.Columns < 0 {
		return fmt.Errorf("invalid grid %dx%d", c.Scene.Columns, c.Scene.Rows)
	}
	if c.Scene.LayerOpacity < 0 || c.Scene.LayerOpacity > 1 {
		return fmt.Errorf("layer opacity %v outside [0, 1]", c.Scene.LayerOpacity)
	}
	for _, hex := range []string{c.Background, c.Scene.Accent} {
		if _, err := canvas.ParseHex(hex); err != nil {
			return err
		}
	}
	return nil
}

func writeConfig(w io.Writer, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
