package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/classcanvas/classcanvas/pkg/errors"
	"github.com/classcanvas/classcanvas/pkg/layout"
)

func TestLoadMissingDefaultIsEmpty(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.LayoutConfig(); got != layout.DefaultConfig() {
		t.Errorf("empty config should yield defaults, got %+v", got)
	}
}

func TestLoadMissingExplicitFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if errors.GetCode(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("code = %v, want INVALID_CONFIG", errors.GetCode(err))
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classcanvas.toml")
	content := `
[layout]
box_width = 300
max_levels = 8

[theme]
header_concrete = "#ff0000"

[cache]
backend = "redis"
url = "redis://localhost:6379"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	lc := cfg.LayoutConfig()
	if lc.BoxWidth != 300 || lc.MaxLevels != 8 {
		t.Errorf("layout overrides not applied: %+v", lc)
	}
	if lc.HGap != layout.DefaultConfig().HGap {
		t.Errorf("unset layout key should keep default, got %v", lc.HGap)
	}

	theme := cfg.RenderTheme()
	if theme.HeaderConcrete != "#ff0000" {
		t.Errorf("theme override not applied: %+v", theme)
	}
	if theme.Background == "" || theme.Background == "#ff0000" {
		t.Errorf("unset theme key mangled: %q", theme.Background)
	}

	if cfg.Cache.Backend != "redis" || cfg.Cache.URL != "redis://localhost:6379" {
		t.Errorf("cache config = %+v", cfg.Cache)
	}
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[layout\nbox_width ="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); errors.GetCode(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("code = %v, want INVALID_CONFIG", errors.GetCode(err))
	}
}
