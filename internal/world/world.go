package world

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/OCharnyshevich/arcticgen/pkg/world/gen"
)

// BlockPos represents a block position in the world.
type BlockPos struct {
	X, Y, Z int
}

// ChunkStore persists generated chunks. *storage.Storage implements it.
type ChunkStore interface {
	LoadChunk(pos gen.ChunkPos) (*gen.ChunkData, bool, error)
	SaveChunks(chunks map[gen.ChunkPos]*gen.ChunkData) error
}

// World caches generated chunks and layers block overrides on top of them.
type World struct {
	mu        sync.RWMutex
	blocks    map[BlockPos]gen.Block
	generator gen.Generator
	chunks    map[gen.ChunkPos]*gen.ChunkData
	store     ChunkStore // may be nil
	log       *slog.Logger
}

// NewWorld creates a new World with the given generator. store may be nil.
func NewWorld(generator gen.Generator, log *slog.Logger, store ChunkStore) *World {
	return &World{
		blocks:    make(map[BlockPos]gen.Block),
		generator: generator,
		chunks:    make(map[gen.ChunkPos]*gen.ChunkData),
		store:     store,
		log:       log,
	}
}

// GetOrGenerateChunk returns the ChunkData for the given chunk coordinates,
// loading it from the store or generating it, and caching it if needed.
func (w *World) GetOrGenerateChunk(cx, cz int) *gen.ChunkData {
	pos := gen.ChunkPos{X: cx, Z: cz}

	w.mu.RLock()
	if c, ok := w.chunks[pos]; ok {
		w.mu.RUnlock()
		return c
	}
	w.mu.RUnlock()

	c, _ := w.loadOrGenerate(pos, w.generator.Generate)
	return w.cache(pos, c)
}

// loadOrGenerate reads pos from the store, falling back to generate. It
// reports whether the chunk was freshly generated.
func (w *World) loadOrGenerate(pos gen.ChunkPos, generate func(cx, cz int) *gen.ChunkData) (*gen.ChunkData, bool) {
	if w.store != nil {
		c, ok, err := w.store.LoadChunk(pos)
		if err != nil {
			w.log.Warn("stored chunk unreadable, regenerating", "x", pos.X, "z", pos.Z, "error", err)
		} else if ok {
			return c, false
		}
	}
	return generate(pos.X, pos.Z), true
}

func (w *World) cache(pos gen.ChunkPos, c *gen.ChunkData) *gen.ChunkData {
	w.mu.Lock()
	defer w.mu.Unlock()
	// Double-check after acquiring write lock.
	if existing, ok := w.chunks[pos]; ok {
		return existing
	}
	w.chunks[pos] = c
	return c
}

// MaterialAt returns the block at the given position. Overrides win over
// generated terrain.
func (w *World) MaterialAt(x, y, z int) gen.Block {
	w.mu.RLock()
	if b, ok := w.blocks[BlockPos{x, y, z}]; ok {
		w.mu.RUnlock()
		return b
	}
	w.mu.RUnlock()

	c := w.GetOrGenerateChunk(x>>4, z>>4)
	return c.Block(x&0xF, y, z&0xF)
}

// SurfaceHeightAt returns the highest generated non-air y of the column.
func (w *World) SurfaceHeightAt(x, z int) int {
	return w.GetOrGenerateChunk(x>>4, z>>4).SurfaceHeight(x&0xF, z&0xF)
}

// BiomeAt returns the biome of the column.
func (w *World) BiomeAt(x, z int) gen.Biome {
	return w.GetOrGenerateChunk(x>>4, z>>4).Biome(x&0xF, z&0xF)
}

// SetBlock stores a block override.
func (w *World) SetBlock(x, y, z int, b gen.Block) {
	// Ensure the chunk is generated so we know the base state.
	base := w.GetOrGenerateChunk(x>>4, z>>4).Block(x&0xF, y, z&0xF)

	w.mu.Lock()
	defer w.mu.Unlock()

	bpos := BlockPos{x, y, z}
	if b == base {
		delete(w.blocks, bpos)
	} else {
		w.blocks[bpos] = b
	}
}

// ForEachOverride calls fn for every block override under a read lock.
func (w *World) ForEachOverride(fn func(pos BlockPos, b gen.Block)) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for pos, b := range w.blocks {
		fn(pos, b)
	}
}

// Merged returns a copy of the chunk with the overrides applied.
func (w *World) Merged(cx, cz int) *gen.ChunkData {
	c := w.GetOrGenerateChunk(cx, cz).Clone()

	w.mu.RLock()
	for pos, b := range w.blocks {
		if pos.X>>4 == cx && pos.Z>>4 == cz {
			c.SetBlock(pos.X&0xF, pos.Y, pos.Z&0xF, b)
		}
	}
	w.mu.RUnlock()

	c.UpdateHeights()
	return c
}

// Region returns the merged chunks of the square of the given radius.
func (w *World) Region(cx, cz, radius int) map[gen.ChunkPos]*gen.ChunkData {
	out := make(map[gen.ChunkPos]*gen.ChunkData, (2*radius+1)*(2*radius+1))
	for z := cz - radius; z <= cz+radius; z++ {
		for x := cx - radius; x <= cx+radius; x++ {
			out[gen.ChunkPos{X: x, Z: z}] = w.Merged(x, z)
		}
	}
	return out
}

// SpawnHeight returns the terrain height at spawn (0, 0) + 1 to stand on.
func (w *World) SpawnHeight() int {
	return w.generator.HeightAt(0, 0) + 1
}

// ChunkCount returns the number of cached chunks.
func (w *World) ChunkCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// PreGenerateRadius makes sure every chunk in the square of the given
// radius around (cx, cz) is cached, using up to workers goroutines. Each
// worker owns one scratch arena when the generator supports it. Freshly
// generated chunks are written to the store in one batch. It returns the
// number of chunks in the square.
func (w *World) PreGenerateRadius(ctx context.Context, cx, cz, radius, workers int) (int, error) {
	if radius < 0 {
		return 0, fmt.Errorf("pre-generate: negative radius %d", radius)
	}
	workers = max(workers, 1)

	jobs := make(chan gen.ChunkPos)
	var (
		freshMu sync.Mutex
		fresh   = make(map[gen.ChunkPos]*gen.ChunkData)
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for z := cz - radius; z <= cz+radius; z++ {
			for x := cx - radius; x <= cx+radius; x++ {
				select {
				case jobs <- gen.ChunkPos{X: x, Z: z}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		return nil
	})
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			generate := w.generator.Generate
			if sg, ok := w.generator.(gen.ScratchGenerator); ok {
				s := sg.NewScratch()
				generate = func(x, z int) *gen.ChunkData { return sg.GenerateWith(s, x, z) }
			}
			for pos := range jobs {
				if err := ctx.Err(); err != nil {
					return err
				}
				w.mu.RLock()
				_, cached := w.chunks[pos]
				w.mu.RUnlock()
				if cached {
					continue
				}
				c, generated := w.loadOrGenerate(pos, generate)
				if w.cache(pos, c) == c && generated {
					freshMu.Lock()
					fresh[pos] = c
					freshMu.Unlock()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("pre-generate: %w", err)
	}

	if w.store != nil && len(fresh) > 0 {
		if err := w.store.SaveChunks(fresh); err != nil {
			return 0, fmt.Errorf("pre-generate: %w", err)
		}
	}
	side := 2*radius + 1
	w.log.Debug("pre-generated", "center_x", cx, "center_z", cz, "chunks", side*side, "generated", len(fresh))
	return side * side, nil
}

// Digest returns the xxhash of a chunk's encoded form.
func (w *World) Digest(cx, cz int) uint64 {
	return xxhash.Sum64(gen.EncodeChunk(w.GetOrGenerateChunk(cx, cz)))
}

// RegionDigest hashes every chunk of the square in row order. Two worlds
// with the same seed and settings produce the same digest.
func (w *World) RegionDigest(cx, cz, radius int) uint64 {
	d := xxhash.New()
	for z := cz - radius; z <= cz+radius; z++ {
		for x := cx - radius; x <= cx+radius; x++ {
			d.Write(gen.EncodeChunk(w.GetOrGenerateChunk(x, z)))
		}
	}
	return d.Sum64()
}
