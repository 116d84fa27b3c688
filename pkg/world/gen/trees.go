package gen

const (
	spruceMinTrunk = 6
	spruceMaxTrunk = 9
	spruceMaxLeaf  = 3
)

// treePlacer grows spruces in snowy taiga. Trees are clipped to the chunk.
type treePlacer struct {
	seed  int64
	count int
}

// Decorate plants up to count spruces in the chunk.
func (tp treePlacer) Decorate(c *ChunkData, pl *columnPlan) {
	rng := newChunkRNG(tp.seed, pl.chunkX, pl.chunkZ, saltTrees)
	for i := 0; i < tp.count; i++ {
		x, z := rng.nextN(16), rng.nextN(16)
		if c.Biome(x, z) != BiomeSnowyTaiga || pl.reserved[planIndex(x, z)] {
			continue
		}
		y := pl.height[planIndex(x, z)]
		top := c.Block(x, y, z)
		if top != Grass && top != SnowBlock {
			continue
		}
		if above := c.Block(x, y+1, z); above != Air && above.ID() != idSnowLayer {
			continue
		}
		tp.placeSpruce(c, x, y+1, z, rng)
	}
}

// placeSpruce places a conical spruce whose trunk starts at baseY.
func (tp treePlacer) placeSpruce(c *ChunkData, x, baseY, z int, rng *chunkRNG) {
	trunkHeight := rng.rangeInt(spruceMinTrunk, spruceMaxTrunk)
	if baseY+trunkHeight+1 >= MaxY {
		return
	}

	for y := baseY; y < baseY+trunkHeight; y++ {
		c.SetBlock(x, y, z, SpruceLog)
	}

	// Widest at the bottom, narrowing to the top.
	for dy := 1; dy <= trunkHeight; dy++ {
		y := baseY + dy
		radius := min((trunkHeight-dy)/2, spruceMaxLeaf)
		if radius <= 0 && dy < trunkHeight {
			continue
		}
		// Only every other row for the wider sections.
		if radius >= 2 && dy%2 == 0 {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				lx, lz := x+dx, z+dz
				if lx < 0 || lx >= 16 || lz < 0 || lz >= 16 || (dx == 0 && dz == 0) {
					continue
				}
				if c.Block(lx, y, lz) == Air {
					c.SetBlock(lx, y, lz, SpruceLeaf)
				}
			}
		}
	}
	c.SetBlock(x, baseY+trunkHeight, z, SpruceLeaf)
}
