// Package config loads the photowall settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GridSettings controls the grid geometry.
type GridSettings struct {
	Columns      int     `yaml:"columns"`
	MinItemWidth float32 `yaml:"min_item_width"`
	ItemWidth    float32 `yaml:"item_width"`
	ItemHeight   float32 `yaml:"item_height"`
	Gap          float32 `yaml:"gap"`
	Overscan     int     `yaml:"overscan"`
}

// ThumbnailSettings controls the thumbnail pipeline and its caches.
type ThumbnailSettings struct {
	TargetSize    int    `yaml:"target_size"`
	Workers       int    `yaml:"workers"`
	FFmpegPath    string `yaml:"ffmpeg_path"`
	CacheDir      string `yaml:"cache_dir"`
	MaxCacheMB    int64  `yaml:"max_cache_mb"`
	MaxCacheFiles int    `yaml:"max_cache_files"`
}

// WindowSettings controls the initial window geometry.
type WindowSettings struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Config is the full settings file.
type Config struct {
	Library    string            `yaml:"library"`
	Window     WindowSettings    `yaml:"window"`
	Grid       GridSettings      `yaml:"grid"`
	Thumbnails ThumbnailSettings `yaml:"thumbnails"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	cacheDir := ""
	if userCache, err := os.UserCacheDir(); err == nil {
		cacheDir = filepath.Join(userCache, "photowall")
	}

	return &Config{
		Window: WindowSettings{Width: 1100, Height: 750},
		Grid: GridSettings{
			Columns:      4,
			MinItemWidth: 120,
			ItemWidth:    160,
			ItemHeight:   160,
			Gap:          16,
			Overscan:     3,
		},
		Thumbnails: ThumbnailSettings{
			TargetSize:    256,
			Workers:       4,
			CacheDir:      cacheDir,
			MaxCacheMB:    500,
			MaxCacheFiles: 10000,
		},
	}
}

// Load reads a YAML settings file. Missing fields keep their defaults;
// a missing file is not an error and returns the defaults unchanged.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}
