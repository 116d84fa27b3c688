// Package anvil exports generated chunks as legacy Anvil region files
// (numeric block ids with a metadata nibble, one byte biome per column).
package anvil

import "github.com/OCharnyshevich/arcticgen/pkg/world/gen"

const (
	sectionVolume = 16 * 16 * 16
	nibbleBytes   = sectionVolume / 2
	// lowestSection is the signed section index of gen.MinY.
	lowestSection = gen.MinY >> 4
)

// EncodeChunk encodes a chunk as an uncompressed Anvil NBT compound.
// Sections below y=0 get negative Y tags.
func EncodeChunk(cx, cz int, c *gen.ChunkData) []byte {
	n := &nbtBuffer{b: make([]byte, 0, 64*1024)}

	n.compound("")
	n.compound("Level")
	n.intTag("xPos", int32(cx))
	n.intTag("zPos", int32(cz))
	n.byteTag("TerrainPopulated", 1)
	n.longTag("LastUpdate", 0)

	var present []int
	for i, sec := range c.Sections {
		if sec != nil && !sectionEmpty(sec) {
			present = append(present, i)
		}
	}

	light := make([]byte, nibbleBytes)
	for i := range light {
		light[i] = 0xFF
	}

	n.list("Sections", tagCompound, len(present))
	for _, i := range present {
		sec := c.Sections[i]
		blocks := make([]byte, sectionVolume)
		data := make([]byte, nibbleBytes)
		add := make([]byte, nibbleBytes)
		hasAdd := false
		for idx, b := range sec.Blocks {
			id := b.ID()
			blocks[idx] = byte(id)
			setNibble(data, idx, b.Meta())
			if id > 0xFF {
				hasAdd = true
				setNibble(add, idx, byte(id>>8))
			}
		}

		n.compound("")
		n.byteTag("Y", byte(int8(i+lowestSection)))
		n.byteArray("Blocks", blocks)
		if hasAdd {
			n.byteArray("Add", add)
		}
		n.byteArray("Data", data)
		n.byteArray("BlockLight", light)
		n.byteArray("SkyLight", light)
		n.end()
	}

	biomes := make([]byte, len(c.Biomes))
	for i, b := range c.Biomes {
		biomes[i] = byte(b)
	}
	n.byteArray("Biomes", biomes)
	n.intArray("HeightMap", heightMap(c))

	n.end() // Level
	n.end() // root
	return n.b
}

func sectionEmpty(s *gen.Section) bool {
	for _, b := range s.Blocks {
		if b != gen.Air {
			return false
		}
	}
	return true
}

// setNibble sets a 4-bit value at the given block index in a nibble array.
func setNibble(arr []byte, index int, val byte) {
	byteIdx := index / 2
	if index%2 == 0 {
		arr[byteIdx] = (arr[byteIdx] & 0xF0) | (val & 0x0F)
	} else {
		arr[byteIdx] = (arr[byteIdx] & 0x0F) | ((val & 0x0F) << 4)
	}
}

// heightMap is one above the surface of each column.
func heightMap(c *gen.ChunkData) []int32 {
	hm := make([]int32, 256)
	for z := 0; z < 16; z++ {
		for x := 0; x < 16; x++ {
			hm[z*16+x] = int32(c.SurfaceHeight(x, z) + 1)
		}
	}
	return hm
}
