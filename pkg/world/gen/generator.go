package gen

// Vertical extent of a chunk column. Y is in [MinY, MaxY).
const (
	MinY         = -64
	MaxY         = 320
	Height       = MaxY - MinY
	SectionCount = Height / 16
)

// ChunkPos identifies a chunk by its X and Z coordinates.
type ChunkPos struct{ X, Z int }

// Section holds block data for a 16×16×16 vertical slice of a chunk.
// Index = y*256 + z*16 + x.
type Section struct {
	Blocks [4096]Block
}

// ChunkData holds the generated terrain for one chunk column.
type ChunkData struct {
	Sections [SectionCount]*Section // nil = all-air
	Biomes   [256]Biome             // index = z*16 + x
	Heights  [256]int16             // highest non-air y per column, MinY-1 when empty
}

// Generator produces chunk data deterministically from a seed.
type Generator interface {
	Generate(chunkX, chunkZ int) *ChunkData
	HeightAt(blockX, blockZ int) int
}

// ScratchGenerator is implemented by generators that can reuse a caller-owned
// scratch arena across calls. Each worker should own exactly one Scratch.
type ScratchGenerator interface {
	Generator
	NewScratch() *Scratch
	GenerateWith(s *Scratch, chunkX, chunkZ int) *ChunkData
}

// SetBlock sets a block state at the given local coordinates within the chunk.
// x, z must be in [0,16); writes outside [MinY, MaxY) are dropped.
func (c *ChunkData) SetBlock(x, y, z int, b Block) {
	if y < MinY || y >= MaxY {
		return
	}
	sec := (y - MinY) >> 4
	if c.Sections[sec] == nil {
		if b == Air {
			return
		}
		c.Sections[sec] = &Section{}
	}
	c.Sections[sec].Blocks[((y-MinY)&0xF)*256+z*16+x] = b
}

// Block returns the block state at the given local coordinates.
func (c *ChunkData) Block(x, y, z int) Block {
	if y < MinY || y >= MaxY {
		return Air
	}
	sec := (y - MinY) >> 4
	if c.Sections[sec] == nil {
		return Air
	}
	return c.Sections[sec].Blocks[((y-MinY)&0xF)*256+z*16+x]
}

// SetBiome sets the biome at the given local x, z coordinates.
func (c *ChunkData) SetBiome(x, z int, biome Biome) {
	c.Biomes[z*16+x] = biome
}

// Biome returns the biome at the given local x, z coordinates.
func (c *ChunkData) Biome(x, z int) Biome {
	return c.Biomes[z*16+x]
}

// SurfaceHeight returns the highest non-air y of the local column, or MinY-1
// when the column is empty. Valid after UpdateHeights.
func (c *ChunkData) SurfaceHeight(x, z int) int {
	return int(c.Heights[z*16+x])
}

// UpdateHeights recomputes the surface heightmap from the block data.
func (c *ChunkData) UpdateHeights() {
	for z := 0; z < 16; z++ {
		for x := 0; x < 16; x++ {
			c.Heights[z*16+x] = int16(c.scanSurface(x, z))
		}
	}
}

func (c *ChunkData) scanSurface(x, z int) int {
	for sec := SectionCount - 1; sec >= 0; sec-- {
		s := c.Sections[sec]
		if s == nil {
			continue
		}
		for ly := 15; ly >= 0; ly-- {
			if s.Blocks[ly*256+z*16+x] != Air {
				return MinY + sec*16 + ly
			}
		}
	}
	return MinY - 1
}

// Clone returns a deep copy of the chunk.
func (c *ChunkData) Clone() *ChunkData {
	out := &ChunkData{Biomes: c.Biomes, Heights: c.Heights}
	for i, sec := range c.Sections {
		if sec != nil {
			cp := *sec
			out.Sections[i] = &cp
		}
	}
	return out
}

// Equal reports whether both chunks hold identical blocks, biomes and heights.
func (c *ChunkData) Equal(o *ChunkData) bool {
	if c.Biomes != o.Biomes || c.Heights != o.Heights {
		return false
	}
	for i, sec := range c.Sections {
		other := o.Sections[i]
		switch {
		case sec == nil && other == nil:
			continue
		case sec == nil:
			if !other.empty() {
				return false
			}
		case other == nil:
			if !sec.empty() {
				return false
			}
		case sec.Blocks != other.Blocks:
			return false
		}
	}
	return true
}

func (s *Section) empty() bool {
	for _, b := range s.Blocks {
		if b != Air {
			return false
		}
	}
	return true
}
