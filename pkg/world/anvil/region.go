package anvil

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/klauspost/compress/zlib"

	"github.com/OCharnyshevich/arcticgen/pkg/world/gen"
)

const (
	sectorSize      = 4096
	headerSectors   = 2 // location table + timestamp table
	compressionZlib = 2
	regionChunks    = 32
)

// RegionPos identifies a 32×32-chunk region file.
type RegionPos struct{ X, Z int }

// RegionOf returns the region holding the chunk.
func RegionOf(pos gen.ChunkPos) RegionPos {
	return RegionPos{X: pos.X >> 5, Z: pos.Z >> 5}
}

// Export writes every chunk into the region files under dir and returns
// the number of region files written.
func Export(dir string, chunks map[gen.ChunkPos]*gen.ChunkData) (int, error) {
	byRegion := make(map[RegionPos]map[gen.ChunkPos][]byte)
	for pos, c := range chunks {
		r := RegionOf(pos)
		if byRegion[r] == nil {
			byRegion[r] = make(map[gen.ChunkPos][]byte)
		}
		byRegion[r][pos] = EncodeChunk(pos.X, pos.Z, c)
	}
	for r, encoded := range byRegion {
		if err := SaveRegion(dir, r.X, r.Z, encoded); err != nil {
			return 0, err
		}
	}
	return len(byRegion), nil
}

// SaveRegion writes all provided chunks to a .mca region file.
// chunks maps chunk positions to their uncompressed NBT data.
func SaveRegion(dir string, rx, rz int, chunks map[gen.ChunkPos][]byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create region dir: %w", err)
	}

	type chunkEntry struct {
		index      int
		compressed []byte
	}
	entries := make([]chunkEntry, 0, len(chunks))
	for pos, nbtData := range chunks {
		var cbuf bytes.Buffer
		zw, err := zlib.NewWriterLevel(&cbuf, zlib.DefaultCompression)
		if err != nil {
			return fmt.Errorf("create zlib writer: %w", err)
		}
		if _, err := zw.Write(nbtData); err != nil {
			return fmt.Errorf("compress chunk (%d,%d): %w", pos.X, pos.Z, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("close zlib writer: %w", err)
		}
		idx := (pos.X & (regionChunks - 1)) + (pos.Z&(regionChunks-1))*regionChunks
		entries = append(entries, chunkEntry{index: idx, compressed: cbuf.Bytes()})
	}
	// Stable sector layout regardless of map order.
	slices.SortFunc(entries, func(a, b chunkEntry) int { return cmp.Compare(a.index, b.index) })

	locations := make([]byte, sectorSize)
	timestamps := make([]byte, sectorSize)
	now := uint32(time.Now().Unix())

	// Each chunk: 4 bytes length + 1 byte compression type + compressed data,
	// padded to a sector boundary.
	var dataBuf bytes.Buffer
	currentSector := uint32(headerSectors)
	for _, e := range entries {
		payloadLen := uint32(len(e.compressed)) + 1
		totalLen := 4 + payloadLen
		sectorCount := (totalLen + sectorSize - 1) / sectorSize
		if sectorCount > 0xFF {
			return fmt.Errorf("chunk %d in region (%d,%d): %d sectors exceed the location entry", e.index, rx, rz, sectorCount)
		}

		off := e.index * 4
		binary.BigEndian.PutUint32(locations[off:off+4], currentSector<<8|sectorCount)
		binary.BigEndian.PutUint32(timestamps[off:off+4], now)

		var header [5]byte
		binary.BigEndian.PutUint32(header[0:4], payloadLen)
		header[4] = compressionZlib
		dataBuf.Write(header[:])
		dataBuf.Write(e.compressed)
		if pad := int(sectorCount)*sectorSize - int(totalLen); pad > 0 {
			dataBuf.Write(make([]byte, pad))
		}
		currentSector += sectorCount
	}

	// Write the file atomically.
	path := filepath.Join(dir, fmt.Sprintf("r.%d.%d.mca", rx, rz))
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp region file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmp)
	}()

	for _, part := range [][]byte{locations, timestamps, dataBuf.Bytes()} {
		if _, err := f.Write(part); err != nil {
			return fmt.Errorf("write region file: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close region file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename region file: %w", err)
	}
	return nil
}
