package gen

import "math"

// Column plan geometry. The plan covers the chunk grown by planPad columns
// so that neighbour tests near the chunk edge see the same data the
// neighbouring chunk sees.
const (
	planPad        = 3
	planSide       = 16 + 2*planPad
	maskBlurPasses = 3
	fieldBorder    = planPad + maskBlurPasses
	maskSide       = 16 + 2*fieldBorder
)

const (
	coastNoiseScale = 1.0 / 96
	depthNoiseScale = 1.0 / 24
	snowNoiseScale  = 1.0 / 10
	depthJitter     = 3
	minOceanDepth   = 2
	maxOceanDepth   = 40
	shallowDepth    = 8

	beachMaskLow  = 0.25
	beachMaskHigh = 0.80
	beachBand     = 4
	beachMinLayer = 4
	beachMaxLayer = 9

	soilDepth    = 3
	exposureBase = 0.2
	exposureGain = 0.6
	exposureSpan = 60
)

// columnPlan is everything the later passes need to know about the columns
// in and around one chunk.
type columnPlan struct {
	chunkX, chunkZ int

	height   [planSide * planSide]int     // solid surface; the sea floor for ocean columns
	mask     [planSide * planSide]float64 // smoothed ocean mask
	depth    [planSide * planSide]int     // ocean depth, 0 on land
	water    [planSide * planSide]bool    // water at sea level
	reserved [planSide * planSide]bool
}

func planIndex(lx, lz int) int {
	return (lz+planPad)*planSide + lx + planPad
}

func inPlan(lx, lz int) bool {
	return lx >= -planPad && lx < 16+planPad && lz >= -planPad && lz < 16+planPad
}

func (pl *columnPlan) ocean(lx, lz int) bool {
	return pl.depth[planIndex(lx, lz)] > 0
}

// waterWithin reports whether any water column lies within radius r of
// (lx, lz). Columns outside the plan are not considered.
func (pl *columnPlan) waterWithin(lx, lz, r int) bool {
	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dz*dz > r*r || !inPlan(lx+dx, lz+dz) {
				continue
			}
			if pl.water[planIndex(lx+dx, lz+dz)] {
				return true
			}
		}
	}
	return false
}

// shore reports whether a dry column touches a water column.
func (pl *columnPlan) shore(lx, lz int) bool {
	return pl.water[planIndex(lx+1, lz)] || pl.water[planIndex(lx-1, lz)] ||
		pl.water[planIndex(lx, lz+1)] || pl.water[planIndex(lx, lz-1)]
}

// deepAround reports whether the column and every column within r of it are
// at least minDepth deep.
func (pl *columnPlan) deepAround(lx, lz, r, minDepth int) bool {
	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dz*dz > r*r {
				continue
			}
			if pl.depth[planIndex(lx+dx, lz+dz)] < minDepth {
				return false
			}
		}
	}
	return true
}

// materializer writes blocks and biomes for the columns of a chunk.
type materializer struct {
	seed  int64
	p     Params
	bergs icebergs
}

func newMaterializer(seed int64, p Params) materializer {
	return materializer{seed: seed, p: p, bergs: newIcebergs(seed)}
}

// coastThreshold is the jittered distance at which land turns into sea.
func (m materializer) coastThreshold(wx, wz int) float64 {
	n := ValueNoise2D(m.seed, saltCoast, float64(wx)*coastNoiseScale, float64(wz)*coastNoiseScale)
	return m.p.OceanThreshold + m.p.OceanJitter*(2*n-1)
}

// oceanMask fills out with the ocean mask of the plan area, box blurred
// maskBlurPasses times. f must carry a border of at least fieldBorder.
func (m materializer) oceanMask(f Field, chunkX, chunkZ int, out *[planSide * planSide]float64) {
	a := make([]float64, maskSide*maskSide)
	b := make([]float64, maskSide*maskSide)
	for j := 0; j < maskSide; j++ {
		for i := 0; i < maskSide; i++ {
			lx, lz := i-fieldBorder, j-fieldBorder
			thr := m.coastThreshold(chunkX*16+lx, chunkZ*16+lz)
			a[j*maskSide+i] = clamp01(0.5 + (f.At(lx, lz)-thr)/m.p.CoastWidth)
		}
	}
	for pass := 1; pass <= maskBlurPasses; pass++ {
		for j := pass; j < maskSide-pass; j++ {
			for i := pass; i < maskSide-pass; i++ {
				var sum float64
				for dj := -1; dj <= 1; dj++ {
					for di := -1; di <= 1; di++ {
						sum += a[(j+dj)*maskSide+i+di]
					}
				}
				b[j*maskSide+i] = sum / 9
			}
		}
		a, b = b, a
	}
	for lz := -planPad; lz < 16+planPad; lz++ {
		for lx := -planPad; lx < 16+planPad; lx++ {
			out[planIndex(lx, lz)] = a[(lz+fieldBorder)*maskSide+lx+fieldBorder]
		}
	}
}

// seaFloor returns the floor and depth of an ocean column. The floor never
// sinks into the deep layer below SubLandY, and the column keeps at least
// minOceanDepth blocks of water.
func (m materializer) seaFloor(depth int) (floor, d int) {
	sea := m.p.SeaLevel
	floor = min(max(sea-depth, m.p.SubLandY-1), sea-minOceanDepth)
	return floor, sea - floor
}

// oceanDepth grows with the distance beyond the coast threshold.
func (m materializer) oceanDepth(dist float64, wx, wz int) int {
	thr := m.coastThreshold(wx, wz)
	t := clamp01((dist - thr) / math.Max(m.p.MaxDistance-thr, 1))
	n := 2*ValueNoise2D(m.seed, saltDepth, float64(wx)*depthNoiseScale, float64(wz)*depthNoiseScale) - 1
	d := minOceanDepth + t*(maxOceanDepth-minOceanDepth) + n*depthJitter
	return clampInt(int(math.Round(d)), minOceanDepth, maxOceanDepth)
}

// Materialize lays down the base terrain of every column in the chunk.
func (m materializer) Materialize(c *ChunkData, pl *columnPlan) {
	bp := m.bergs.plan(pl)
	for lz := 0; lz < 16; lz++ {
		for lx := 0; lx < 16; lx++ {
			wx, wz := pl.chunkX*16+lx, pl.chunkZ*16+lz
			m.bedrock(c, lx, lz, wx, wz)
			if pl.ocean(lx, lz) {
				m.oceanColumn(c, pl, bp, lx, lz, wx, wz)
			} else {
				m.landColumn(c, pl, lx, lz, wx, wz)
			}
		}
	}
}

// bedrock writes the floor: solid at MinY, thinning out up to the band top.
func (m materializer) bedrock(c *ChunkData, lx, lz, wx, wz int) {
	c.SetBlock(lx, MinY, lz, Bedrock)
	top := m.p.bedrockTop()
	for y := MinY + 1; y <= top; y++ {
		b := Stone
		if Value(m.seed, wx, y, wz, saltBedrock) < float64(top-y+1)/float64(m.p.BedrockBand) {
			b = Bedrock
		}
		c.SetBlock(lx, y, lz, b)
	}
}

// deepLayer fills the solid rock between the bedrock band and SubLandY,
// never above the column's surface top.
func (m materializer) deepLayer(c *ChunkData, lx, lz, top int) {
	m.fill(c, lx, lz, MinY, min(m.p.SubLandY-1, top), Stone)
}

func (m materializer) fill(c *ChunkData, lx, lz, from, to int, b Block) {
	for y := max(from, m.p.bedrockTop()+1); y <= to; y++ {
		c.SetBlock(lx, y, lz, b)
	}
}

func (m materializer) oceanColumn(c *ChunkData, pl *columnPlan, bp *bergPlan, lx, lz, wx, wz int) {
	i := planIndex(lx, lz)
	depth := pl.depth[i]
	floor := pl.height[i]
	m.deepLayer(c, lx, lz, floor)
	m.fill(c, lx, lz, m.p.SubLandY, floor, Stone)

	switch {
	case depth < shallowDepth:
		m.fill(c, lx, lz, floor-1, floor, Sand)
	case Hash(m.seed, wx, 0, wz, saltDepth)&1 == 0:
		m.fill(c, lx, lz, floor-1, floor, Gravel)
	default:
		m.fill(c, lx, lz, floor, floor, Gravel)
	}
	m.fill(c, lx, lz, floor+1, m.p.SeaLevel, Water)

	k := lz*16 + lx
	if bp.sheet[k] {
		c.SetBlock(lx, m.p.SeaLevel, lz, Ice)
	}
	if rise := bp.rise[k]; rise > 0 {
		bottom := max(m.p.SeaLevel-rise/2, floor+1)
		top := m.p.SeaLevel + rise
		m.fill(c, lx, lz, bottom, top-1, PackedIce)
		c.SetBlock(lx, top, lz, SnowBlock)
	}
	c.SetBiome(lx, lz, oceanBiome(depth))
}

func (m materializer) landColumn(c *ChunkData, pl *columnPlan, lx, lz, wx, wz int) {
	i := planIndex(lx, lz)
	h := pl.height[i]
	sea := m.p.SeaLevel
	m.deepLayer(c, lx, lz, h)
	m.fill(c, lx, lz, m.p.SubLandY, h, Stone)

	biome := landBiome(m.seed, wx, wz, h)
	snow := h >= sea

	switch {
	case pl.reserved[i]:
		m.fill(c, lx, lz, h-soilDepth, h-1, Dirt)
		c.SetBlock(lx, h, lz, Grass)
		snow = false
	case pl.shore(lx, lz):
		m.fill(c, lx, lz, h-1, h, Sand)
		biome = BiomeBeach
		snow = false
	case pl.mask[i] >= beachMaskLow && pl.mask[i] < beachMaskHigh && abs(h-sea) <= beachBand:
		layers := beachMinLayer + int(Hash(m.seed, wx, 0, wz, saltBeach)%(beachMaxLayer-beachMinLayer+1))
		m.fill(c, lx, lz, h-layers+1, h, Sand)
		biome = BiomeBeach
		snow = false
	case h >= slopesHeight:
		exposure := exposureBase + exposureGain*clamp01(float64(h-slopesHeight)/exposureSpan)
		if Value(m.seed, wx, h, wz, saltRockExposure) < exposure {
			snow = false
		} else {
			m.fill(c, lx, lz, h-1, h, SnowBlock)
		}
	case h >= taigaMinHeight:
		m.fill(c, lx, lz, h-soilDepth, h-1, Dirt)
		c.SetBlock(lx, h, lz, SnowBlock)
	default:
		m.fill(c, lx, lz, h-soilDepth, h-1, Dirt)
		c.SetBlock(lx, h, lz, Grass)
	}

	if h < sea {
		m.fill(c, lx, lz, h+1, sea, Water)
	} else if snow {
		c.SetBlock(lx, h+1, lz, SnowLayers(m.snowLayers(wx, wz)))
	}
	c.SetBiome(lx, lz, biome)
}

// snowLayers returns a noise-driven depth of 1 to 8 layers.
func (m materializer) snowLayers(wx, wz int) int {
	n := ValueNoise2D(m.seed, saltSnow, float64(wx)*snowNoiseScale, float64(wz)*snowNoiseScale)
	return 1 + int(n*maxSnowLayers)
}
