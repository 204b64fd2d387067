// Package config loads the optional classcanvas.toml configuration file
// carrying layout constants and render theme overrides. Everything has a
// compiled-in default; the file only needs the keys it changes.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/classcanvas/classcanvas/pkg/errors"
	"github.com/classcanvas/classcanvas/pkg/layout"
	"github.com/classcanvas/classcanvas/pkg/render"
)

// DefaultFileName is looked up in the working directory when no explicit
// path is given.
const DefaultFileName = "classcanvas.toml"

// Config is the on-disk configuration shape.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Theme  ThemeConfig  `toml:"theme"`
	Cache  CacheConfig  `toml:"cache"`
}

// LayoutConfig overrides layout constants. Zero values keep the default.
type LayoutConfig struct {
	BoxWidth      float64 `toml:"box_width"`
	RowHeight     float64 `toml:"row_height"`
	HGap          float64 `toml:"horizontal_gap"`
	LevelGap      float64 `toml:"level_gap"`
	MaxLevels     int     `toml:"max_levels"`
	IsolatedBatch int     `toml:"isolated_batch"`
	OrderPasses   int     `toml:"order_passes"`
	OverlapPasses int     `toml:"overlap_passes"`
}

// ThemeConfig overrides render colors. Empty strings keep the default.
type ThemeConfig struct {
	Background      string `toml:"background"`
	BoxFill         string `toml:"box_fill"`
	BoxBorder       string `toml:"box_border"`
	HeaderInterface string `toml:"header_interface"`
	HeaderAbstract  string `toml:"header_abstract"`
	HeaderConcrete  string `toml:"header_concrete"`
	Edge            string `toml:"edge"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	// Backend is one of "file" (default), "redis", "mongo", or "none".
	Backend string `toml:"backend"`
	// Dir is the file backend's directory (default: user cache dir).
	Dir string `toml:"dir"`
	// URL is the redis or mongo connection string.
	URL string `toml:"url"`
}

// Load reads a config file. An empty path tries DefaultFileName in the
// working directory; a missing file at that default is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading config %s", filepath.Clean(path))
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing config %s", filepath.Clean(path))
	}
	return &cfg, nil
}

// LayoutConfig applies the file's layout overrides to the defaults.
func (c *Config) LayoutConfig() layout.Config {
	out := layout.DefaultConfig()
	in := c.Layout
	if in.BoxWidth > 0 {
		out.BoxWidth = in.BoxWidth
	}
	if in.RowHeight > 0 {
		out.RowHeight = in.RowHeight
	}
	if in.HGap > 0 {
		out.HGap = in.HGap
	}
	if in.LevelGap > 0 {
		out.LevelGap = in.LevelGap
	}
	if in.MaxLevels > 0 {
		out.MaxLevels = in.MaxLevels
	}
	if in.IsolatedBatch > 0 {
		out.IsolatedBatch = in.IsolatedBatch
	}
	if in.OrderPasses > 0 {
		out.OrderPasses = in.OrderPasses
	}
	if in.OverlapPasses > 0 {
		out.OverlapPasses = in.OverlapPasses
	}
	return out
}

// RenderTheme applies the file's color overrides to the default palette.
func (c *Config) RenderTheme() render.Theme {
	out := render.DefaultTheme()
	in := c.Theme
	if in.Background != "" {
		out.Background = in.Background
	}
	if in.BoxFill != "" {
		out.BoxFill = in.BoxFill
	}
	if in.BoxBorder != "" {
		out.BoxBorder = in.BoxBorder
	}
	if in.HeaderInterface != "" {
		out.HeaderInterface = in.HeaderInterface
	}
	if in.HeaderAbstract != "" {
		out.HeaderAbstract = in.HeaderAbstract
	}
	if in.HeaderConcrete != "" {
		out.HeaderConcrete = in.HeaderConcrete
	}
	if in.Edge != "" {
		out.Edge = in.Edge
	}
	return out
}
