package gen

// Biome tags a column. Values match the Minecraft 1.8 protocol ids where one exists.
type Biome byte

const (
	BiomeOcean       Biome = 0
	BiomeDeepOcean   Biome = 24
	BiomeSnowyPlains Biome = 12 // ice plains
	BiomeSnowyTaiga  Biome = 30
	BiomeSnowySlopes Biome = 34 // extreme hills+ stand-in
	BiomeBeach       Biome = 26 // cold beach
)

// String returns the biome name.
func (b Biome) String() string {
	switch b {
	case BiomeOcean:
		return "ocean"
	case BiomeDeepOcean:
		return "deep_ocean"
	case BiomeSnowyPlains:
		return "snowy_plains"
	case BiomeSnowyTaiga:
		return "snowy_taiga"
	case BiomeSnowySlopes:
		return "snowy_slopes"
	case BiomeBeach:
		return "beach"
	default:
		return "unknown"
	}
}

const (
	deepOceanDepth  = 22
	slopesHeight    = 185
	taigaMinHeight  = 170
	taigaNoiseScale = 1.0 / 96
	taigaThreshold  = 0.62
)

// landBiome picks the biome of a dry column from its surface height.
//
//	height >= 185          -> snowy slopes
//	height >= 170 or taiga -> snowy taiga
//	otherwise              -> snowy plains
func landBiome(seed int64, wx, wz, height int) Biome {
	switch {
	case height >= slopesHeight:
		return BiomeSnowySlopes
	case height >= taigaMinHeight:
		return BiomeSnowyTaiga
	case ValueNoise2D(seed, saltTaiga, float64(wx)*taigaNoiseScale, float64(wz)*taigaNoiseScale) > taigaThreshold:
		return BiomeSnowyTaiga
	default:
		return BiomeSnowyPlains
	}
}

// oceanBiome picks the biome of a flooded column from its depth.
func oceanBiome(depth int) Biome {
	if depth >= deepOceanDepth {
		return BiomeDeepOcean
	}
	return BiomeOcean
}
