package config

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/arcticgen/pkg/world/gen"
)

// Generator types.
const (
	GeneratorArctic = "arctic"
	GeneratorFlat   = "flat"
)

// Config holds the generator configuration.
type Config struct {
	Seed          int64  `yaml:"seed"`
	GeneratorType string `yaml:"generator_type"` // "arctic" or "flat"
	CenterX       int    `yaml:"center_x"`       // pre-generation centre, in chunks
	CenterZ       int    `yaml:"center_z"`
	Radius        int    `yaml:"radius"` // pre-generation radius in chunks
	Workers       int    `yaml:"workers"`
	DataDir       string `yaml:"data_dir"`
	LogLevel      string `yaml:"log_level"`

	Terrain   gen.Params    `yaml:"terrain"`
	Ores      []OreConfig   `yaml:"ores"`       // empty keeps the default table
	FlatAreas []gen.Reserve `yaml:"flat_areas"` // registered before generation starts
}

// OreConfig describes one ore in the config file.
type OreConfig struct {
	Material string  `yaml:"material"`
	Weight   float64 `yaml:"weight"`
	MinY     int     `yaml:"min_y"`
	MaxY     int     `yaml:"max_y"`
	Bias     string  `yaml:"bias"`   // "top", "bottom", "uniform" or "triangular"
	PeakY    int     `yaml:"peak_y"` // triangular only
	Rare     bool    `yaml:"rare"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		GeneratorType: GeneratorArctic,
		Radius:        8,
		Workers:       runtime.NumCPU(),
		DataDir:       "data",
		LogLevel:      "info",
		Terrain:       gen.DefaultParams(),
	}
}

// Load reads a YAML config file over the defaults. Keys missing from the
// file keep their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["generator"] {
		cfg.GeneratorType = fromFile.GeneratorType
	}
	if !explicitFlags["center-x"] {
		cfg.CenterX = fromFile.CenterX
	}
	if !explicitFlags["center-z"] {
		cfg.CenterZ = fromFile.CenterZ
	}
	if !explicitFlags["radius"] {
		cfg.Radius = fromFile.Radius
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["data"] {
		cfg.DataDir = fromFile.DataDir
	}
	if !explicitFlags["log-level"] {
		cfg.LogLevel = fromFile.LogLevel
	}
	// File-only sections.
	cfg.Terrain = fromFile.Terrain
	cfg.Ores = fromFile.Ores
	cfg.FlatAreas = fromFile.FlatAreas
}

// Validate reports the first setting that cannot drive a generator.
func (c *Config) Validate() error {
	switch c.GeneratorType {
	case GeneratorArctic, GeneratorFlat:
	default:
		return fmt.Errorf("generator_type %q: want %q or %q", c.GeneratorType, GeneratorArctic, GeneratorFlat)
	}
	if c.Radius < 0 {
		return fmt.Errorf("radius %d is negative", c.Radius)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers %d: need at least one", c.Workers)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is empty")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if err := validateTerrain(c.Terrain); err != nil {
		return fmt.Errorf("terrain: %w", err)
	}
	if _, err := c.OreSpecs(); err != nil {
		return err
	}
	for i, r := range c.FlatAreas {
		if r.Radius < 0 {
			return fmt.Errorf("flat_areas[%d]: radius %d is negative", i, r.Radius)
		}
	}
	return nil
}

func validateTerrain(p gen.Params) error {
	switch {
	case p.BedrockBand < 1:
		return fmt.Errorf("bedrock_band %d: need at least one layer", p.BedrockBand)
	case p.FloorY <= gen.MinY+p.BedrockBand || p.CeilingY >= gen.MaxY || p.FloorY >= p.CeilingY:
		return fmt.Errorf("floor_y %d and ceiling_y %d must lie in (%d, %d) in order", p.FloorY, p.CeilingY, gen.MinY+p.BedrockBand, gen.MaxY)
	case p.SeaLevel <= gen.MinY+p.BedrockBand || p.SeaLevel >= gen.MaxY:
		return fmt.Errorf("sea_level %d out of range", p.SeaLevel)
	case p.SubLandY <= gen.MinY+p.BedrockBand || p.SubLandY > p.FloorY:
		return fmt.Errorf("sub_land_y %d must lie in (%d, floor_y %d]", p.SubLandY, gen.MinY+p.BedrockBand, p.FloorY)
	case p.MaskLow >= p.MaskHigh:
		return fmt.Errorf("mask_low %v must be below mask_high %v", p.MaskLow, p.MaskHigh)
	case p.SpacingPeriod <= 0:
		return fmt.Errorf("spacing_period %v must be positive", p.SpacingPeriod)
	case p.MaxHalo < 1 || p.MaxDistance <= 0:
		return fmt.Errorf("max_halo %d and max_distance %v must be positive", p.MaxHalo, p.MaxDistance)
	case p.CoastWidth <= 0:
		return fmt.Errorf("coast_width %v must be positive", p.CoastWidth)
	case p.PeakSearchRadius <= 0:
		return fmt.Errorf("peak_search_radius %d must be positive", p.PeakSearchRadius)
	case p.CaveTaskLimit < 1:
		return fmt.Errorf("cave_task_limit %d: need at least one task", p.CaveTaskLimit)
	case p.OceanSafeR < 0 || p.OreAttempts < 0 || p.TreesPerChunk < 0:
		return fmt.Errorf("ocean_safe_radius, ore_attempts and trees_per_chunk must not be negative")
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// OreSpecs resolves the configured ore table. It returns nil when no ores
// are configured so the generator falls back to its default table.
func (c *Config) OreSpecs() ([]gen.OreSpec, error) {
	if len(c.Ores) == 0 {
		return nil, nil
	}
	specs := make([]gen.OreSpec, 0, len(c.Ores))
	for i, o := range c.Ores {
		b, ok := gen.BlockByName(o.Material)
		if !ok {
			return nil, fmt.Errorf("ores[%d]: unknown material %q", i, o.Material)
		}
		if o.MinY > o.MaxY {
			return nil, fmt.Errorf("ores[%d]: min_y %d above max_y %d", i, o.MinY, o.MaxY)
		}
		if o.Weight < 0 {
			return nil, fmt.Errorf("ores[%d]: negative weight", i)
		}
		bias, err := parseBias(o.Bias, o.PeakY)
		if err != nil {
			return nil, fmt.Errorf("ores[%d]: %w", i, err)
		}
		specs = append(specs, gen.OreSpec{
			Material: b,
			Weight:   o.Weight,
			MinY:     o.MinY,
			MaxY:     o.MaxY,
			Bias:     bias,
			Rare:     o.Rare,
		})
	}
	return specs, nil
}

func parseBias(name string, peakY int) (gen.Bias, error) {
	switch name {
	case "top":
		return gen.BiasTop{}, nil
	case "bottom":
		return gen.BiasBottom{}, nil
	case "", "uniform":
		return gen.BiasUniform{}, nil
	case "triangular":
		return gen.BiasTriangular{PeakY: peakY}, nil
	default:
		return nil, fmt.Errorf("unknown bias %q", name)
	}
}
