package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OCharnyshevich/arcticgen/pkg/world/gen"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arcticgen.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
seed: 1234
radius: 3
terrain:
  sea_level: 150
ores:
  - material: coal_ore
    weight: 20
    min_y: 0
    max_y: 190
    bias: triangular
    peak_y: 96
flat_areas:
  - center_x: 10
    center_z: -4
    height_y: 170
    radius: 6
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed != 1234 || cfg.Radius != 3 {
		t.Errorf("seed/radius = %d/%d", cfg.Seed, cfg.Radius)
	}
	if cfg.Terrain.SeaLevel != 150 {
		t.Errorf("sea_level = %d, want 150", cfg.Terrain.SeaLevel)
	}
	def := gen.DefaultParams()
	if cfg.Terrain.CeilingY != def.CeilingY || cfg.Terrain.CaveTaskLimit != def.CaveTaskLimit {
		t.Error("unset terrain keys lost their defaults")
	}
	if cfg.GeneratorType != GeneratorArctic || cfg.LogLevel != "info" {
		t.Errorf("generator/log level = %q/%q", cfg.GeneratorType, cfg.LogLevel)
	}
	want := gen.Reserve{CenterX: 10, CenterZ: -4, HeightY: 170, Radius: 6}
	if len(cfg.FlatAreas) != 1 || cfg.FlatAreas[0] != want {
		t.Errorf("flat_areas = %+v", cfg.FlatAreas)
	}

	specs, err := cfg.OreSpecs()
	if err != nil {
		t.Fatalf("OreSpecs: %v", err)
	}
	if len(specs) != 1 || specs[0].Material != gen.CoalOre {
		t.Fatalf("specs = %+v", specs)
	}
	if b, ok := specs[0].Bias.(gen.BiasTriangular); !ok || b.PeakY != 96 {
		t.Errorf("bias = %#v", specs[0].Bias)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
	if _, err := Load(writeConfig(t, "seed: [1, 2")); err == nil {
		t.Error("Load of malformed YAML succeeded")
	}
}

func TestMergeRespectsExplicitFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.Radius = 2

	fromFile := DefaultConfig()
	fromFile.Seed = 99
	fromFile.Radius = 12
	fromFile.GeneratorType = GeneratorFlat
	fromFile.Terrain.SeaLevel = 140

	Merge(cfg, fromFile, map[string]bool{"seed": true})

	if cfg.Seed != 7 {
		t.Errorf("explicit seed overwritten: %d", cfg.Seed)
	}
	if cfg.Radius != 12 || cfg.GeneratorType != GeneratorFlat {
		t.Errorf("file values not applied: radius %d generator %q", cfg.Radius, cfg.GeneratorType)
	}
	if cfg.Terrain.SeaLevel != 140 {
		t.Errorf("terrain not taken from file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"generator", func(c *Config) { c.GeneratorType = "amplified" }, "generator_type"},
		{"radius", func(c *Config) { c.Radius = -1 }, "radius"},
		{"workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"data dir", func(c *Config) { c.DataDir = "" }, "data_dir"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"band order", func(c *Config) { c.Terrain.FloorY = c.Terrain.CeilingY }, "floor_y"},
		{"sub land low", func(c *Config) { c.Terrain.SubLandY = gen.MinY }, "sub_land_y"},
		{"sub land high", func(c *Config) { c.Terrain.SubLandY = c.Terrain.FloorY + 1 }, "sub_land_y"},
		{"mask", func(c *Config) { c.Terrain.MaskLow = 0.9 }, "mask_low"},
		{"cave cap", func(c *Config) { c.Terrain.CaveTaskLimit = 0 }, "cave_task_limit"},
		{"ore material", func(c *Config) { c.Ores = []OreConfig{{Material: "mithril", MaxY: 10}} }, "mithril"},
		{"ore range", func(c *Config) { c.Ores = []OreConfig{{Material: "coal_ore", MinY: 10, MaxY: 0}} }, "min_y"},
		{"ore bias", func(c *Config) { c.Ores = []OreConfig{{Material: "coal_ore", Bias: "sideways"}} }, "bias"},
		{"flat area", func(c *Config) { c.FlatAreas = []gen.Reserve{{Radius: -2}} }, "flat_areas"},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %v, want mention of %q", tt.name, err, tt.want)
		}
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	lvl, err := cfg.SlogLevel()
	if err != nil || lvl != slog.LevelDebug {
		t.Errorf("SlogLevel = %v, %v", lvl, err)
	}
}

func TestOreSpecsEmptyUsesDefaults(t *testing.T) {
	specs, err := DefaultConfig().OreSpecs()
	if err != nil || specs != nil {
		t.Errorf("OreSpecs with no ores = %v, %v; want nil, nil", specs, err)
	}
}
