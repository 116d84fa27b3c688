package gen

// Params holds the tunable constants of the arctic generator. The zero value
// is not usable; start from DefaultParams.
type Params struct {
	SeaLevel    int `yaml:"sea_level"`
	BedrockBand int `yaml:"bedrock_band"` // layers above MinY that are never carved
	SubLandY    int `yaml:"sub_land_y"`   // surface fill starts here; below it every column is solid rock

	// Heightfield clamp band.
	FloorY        int     `yaml:"floor_y"`
	CeilingY      int     `yaml:"ceiling_y"`
	BaseElevation float64 `yaml:"base_elevation"`

	// Mountain mask thresholds on the low-frequency fBm.
	MaskLow  float64 `yaml:"mask_low"`
	MaskHigh float64 `yaml:"mask_high"`
	// Even-spacing cell period and strength.
	SpacingPeriod   float64 `yaml:"spacing_period"`
	SpacingStrength float64 `yaml:"spacing_strength"`

	// Distance field and ocean mask.
	MountainThreshold int     `yaml:"mountain_threshold"`
	MaxHalo           int     `yaml:"max_halo"`
	MaxDistance       float64 `yaml:"max_distance"`
	OceanThreshold    float64 `yaml:"ocean_threshold"`
	OceanJitter       float64 `yaml:"ocean_jitter"`
	CoastWidth        float64 `yaml:"coast_width"`

	// Peaks.
	PeakSearchRadius int `yaml:"peak_search_radius"` // blocks

	// Caves.
	CaveCeilingY  int `yaml:"cave_ceiling_y"`
	OceanSafeY    int `yaml:"ocean_safe_y"`
	OceanSafeR    int `yaml:"ocean_safe_radius"`
	WallHardenY   int `yaml:"wall_harden_y"`
	CaveTaskLimit int `yaml:"cave_task_limit"`

	// Ores.
	OreAttempts int `yaml:"ore_attempts"`

	// Spruce trees per taiga chunk.
	TreesPerChunk int `yaml:"trees_per_chunk"`
}

// DefaultParams returns the arctic defaults.
func DefaultParams() Params {
	return Params{
		SeaLevel:    152,
		BedrockBand: 5,
		SubLandY:    100,

		FloorY:        140,
		CeilingY:      MaxY - 2,
		BaseElevation: 155,

		MaskLow:         0.52,
		MaskHigh:        0.68,
		SpacingPeriod:   288,
		SpacingStrength: 0.08,

		MountainThreshold: 185,
		MaxHalo:           72,
		MaxDistance:       64,
		OceanThreshold:    36,
		OceanJitter:       8,
		CoastWidth:        16,

		PeakSearchRadius: 360,

		CaveCeilingY:  200,
		OceanSafeY:    120,
		OceanSafeR:    2,
		WallHardenY:   130,
		CaveTaskLimit: 10,

		OreAttempts: 16,

		TreesPerChunk: 3,
	}
}

// bedrockTop is the highest y of the protected bedrock band.
func (p Params) bedrockTop() int {
	return MinY + p.BedrockBand - 1
}
