package gen

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	codecVersion      = 1
	sectionBlockBytes = 16 * 16 * 16 * 2 // 4096 states × 2 bytes
	biomeBytes        = 256
	heightBytes       = 256 * 2
	headerBytes       = 1 + 4 // version + section bitmap
)

// ErrCorruptChunk is returned when encoded chunk data cannot be decoded.
var ErrCorruptChunk = errors.New("corrupt chunk data")

// EncodeChunk serializes a chunk: a version byte, a little-endian bitmap of
// present sections, each present section's states, the biomes and the
// heightmap. All-air sections are omitted.
func EncodeChunk(c *ChunkData) []byte {
	var bitMap uint32
	count := 0
	for i, sec := range c.Sections {
		if sec != nil && !sec.empty() {
			bitMap |= 1 << uint(i)
			count++
		}
	}

	data := make([]byte, headerBytes, headerBytes+count*sectionBlockBytes+biomeBytes+heightBytes)
	data[0] = codecVersion
	binary.LittleEndian.PutUint32(data[1:], bitMap)

	blocks := make([]byte, sectionBlockBytes)
	for i, sec := range c.Sections {
		if bitMap&(1<<uint(i)) == 0 {
			continue
		}
		for idx, b := range sec.Blocks {
			binary.LittleEndian.PutUint16(blocks[idx*2:], uint16(b))
		}
		data = append(data, blocks...)
	}

	for _, b := range c.Biomes {
		data = append(data, byte(b))
	}
	for _, h := range c.Heights {
		data = binary.LittleEndian.AppendUint16(data, uint16(h))
	}
	return data
}

// DecodeChunk parses data produced by EncodeChunk.
func DecodeChunk(data []byte) (*ChunkData, error) {
	if len(data) < headerBytes {
		return nil, fmt.Errorf("decode chunk header: %w", ErrCorruptChunk)
	}
	if data[0] != codecVersion {
		return nil, fmt.Errorf("decode chunk: version %d: %w", data[0], ErrCorruptChunk)
	}
	bitMap := binary.LittleEndian.Uint32(data[1:])
	if bitMap>>SectionCount != 0 {
		return nil, fmt.Errorf("decode chunk: section bitmap %#x: %w", bitMap, ErrCorruptChunk)
	}
	data = data[headerBytes:]

	c := &ChunkData{}
	for i := range c.Sections {
		if bitMap&(1<<uint(i)) == 0 {
			continue
		}
		if len(data) < sectionBlockBytes {
			return nil, fmt.Errorf("decode chunk section %d: %w", i, ErrCorruptChunk)
		}
		sec := &Section{}
		for idx := range sec.Blocks {
			sec.Blocks[idx] = Block(binary.LittleEndian.Uint16(data[idx*2:]))
		}
		c.Sections[i] = sec
		data = data[sectionBlockBytes:]
	}

	if len(data) != biomeBytes+heightBytes {
		return nil, fmt.Errorf("decode chunk trailer: %d bytes: %w", len(data), ErrCorruptChunk)
	}
	for i := range c.Biomes {
		c.Biomes[i] = Biome(data[i])
	}
	data = data[biomeBytes:]
	for i := range c.Heights {
		c.Heights[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return c, nil
}
