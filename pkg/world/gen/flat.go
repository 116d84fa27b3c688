package gen

// FlatGenerator generates a snowy superflat world:
// bedrock at MinY, stone MinY+1..MinY+2, dirt MinY+3, grass MinY+4, one snow layer.
type FlatGenerator struct{}

// NewFlatGenerator creates a FlatGenerator.
func NewFlatGenerator(_ int64) *FlatGenerator {
	return &FlatGenerator{}
}

func (g *FlatGenerator) Generate(_, _ int) *ChunkData {
	c := &ChunkData{}

	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			c.SetBlock(x, MinY, z, Bedrock)
			c.SetBlock(x, MinY+1, z, Stone)
			c.SetBlock(x, MinY+2, z, Stone)
			c.SetBlock(x, MinY+3, z, Dirt)
			c.SetBlock(x, MinY+4, z, Grass)
			c.SetBlock(x, MinY+5, z, SnowLayer)
			c.SetBiome(x, z, BiomeSnowyPlains)
		}
	}
	c.UpdateHeights()
	return c
}

func (g *FlatGenerator) HeightAt(_, _ int) int {
	return MinY + 4 // top solid block is the grass
}
