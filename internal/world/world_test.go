package world

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/OCharnyshevich/arcticgen/pkg/world/gen"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory ChunkStore.
type memStore struct {
	mu      sync.Mutex
	chunks  map[gen.ChunkPos]*gen.ChunkData
	loads   int
	saves   int
	loadErr error
}

func newMemStore() *memStore {
	return &memStore{chunks: make(map[gen.ChunkPos]*gen.ChunkData)}
}

func (m *memStore) LoadChunk(pos gen.ChunkPos) (*gen.ChunkData, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	c, ok := m.chunks[pos]
	return c, ok, nil
}

func (m *memStore) SaveChunks(chunks map[gen.ChunkPos]*gen.ChunkData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	for pos, c := range chunks {
		m.chunks[pos] = c
	}
	return nil
}

func TestWorldBaseStateFlatGenerator(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0), testLogger(), nil)

	if got := w.MaterialAt(0, gen.MinY, 0); got != gen.Bedrock {
		t.Errorf("MaterialAt(0,MinY,0) = %d, want bedrock", got)
	}
	if got := w.MaterialAt(-1, gen.MinY+1, -1); got != gen.Stone {
		t.Errorf("MaterialAt(-1,MinY+1,-1) = %d, want stone", got)
	}
	if got := w.MaterialAt(37, gen.MinY+4, -20); got != gen.Grass {
		t.Errorf("MaterialAt(37,MinY+4,-20) = %d, want grass", got)
	}
	if got := w.MaterialAt(5, 64, 10); got != gen.Air {
		t.Errorf("MaterialAt(5,64,10) = %d, want air", got)
	}
	if got := w.SurfaceHeightAt(-17, 3); got != gen.MinY+5 {
		t.Errorf("SurfaceHeightAt = %d, want %d", got, gen.MinY+5)
	}
	if got := w.BiomeAt(100, 100); got != gen.BiomeSnowyPlains {
		t.Errorf("BiomeAt = %v", got)
	}
}

func TestWorldSetBlock(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0), testLogger(), nil)

	w.SetBlock(3, 10, 5, gen.PackedIce)
	if got := w.MaterialAt(3, 10, 5); got != gen.PackedIce {
		t.Errorf("MaterialAt(3,10,5) = %d, want packed ice", got)
	}

	grassY := gen.MinY + 4
	w.SetBlock(0, grassY, 0, gen.Air)
	if got := w.MaterialAt(0, grassY, 0); got != gen.Air {
		t.Errorf("MaterialAt after break = %d, want air", got)
	}

	// Restoring the generated block removes the override.
	w.SetBlock(0, grassY, 0, gen.Grass)
	if got := w.MaterialAt(0, grassY, 0); got != gen.Grass {
		t.Errorf("MaterialAt after restore = %d, want grass", got)
	}
	n := 0
	w.ForEachOverride(func(BlockPos, gen.Block) { n++ })
	if n != 1 {
		t.Errorf("%d overrides, want 1", n)
	}
}

func TestWorldSetBlockRemovesRedundantOverride(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0), testLogger(), nil)
	w.SetBlock(0, 10, 0, gen.Air)

	w.mu.RLock()
	_, exists := w.blocks[BlockPos{0, 10, 0}]
	w.mu.RUnlock()
	if exists {
		t.Error("setting air over air should not create an override")
	}
}

func TestWorldSpawnHeight(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0), testLogger(), nil)
	if got := w.SpawnHeight(); got != gen.MinY+5 {
		t.Errorf("SpawnHeight() = %d, want %d", got, gen.MinY+5)
	}
}

func TestPreGenerateRadius(t *testing.T) {
	store := newMemStore()
	w := NewWorld(gen.NewFlatGenerator(0), testLogger(), store)
	count, err := w.PreGenerateRadius(context.Background(), 0, 0, 2, 3)
	if err != nil {
		t.Fatalf("PreGenerateRadius: %v", err)
	}
	if count != 25 {
		t.Errorf("PreGenerateRadius(2) returned %d, want 25", count)
	}
	if w.ChunkCount() != 25 {
		t.Errorf("%d chunks cached, want 25", w.ChunkCount())
	}
	if len(store.chunks) != 25 || store.saves != 1 {
		t.Errorf("store has %d chunks after %d saves", len(store.chunks), store.saves)
	}

	// A second pass finds everything cached and writes nothing.
	if _, err := w.PreGenerateRadius(context.Background(), 0, 0, 2, 3); err != nil {
		t.Fatal(err)
	}
	if store.saves != 1 {
		t.Errorf("cached chunks were saved again")
	}
}

func TestPreGenerateCancelled(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0), testLogger(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.PreGenerateRadius(ctx, 0, 0, 4, 2); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if _, err := w.PreGenerateRadius(context.Background(), 0, 0, -1, 2); err == nil {
		t.Error("negative radius accepted")
	}
}

func TestWorldLoadsFromStore(t *testing.T) {
	store := newMemStore()
	stored := &gen.ChunkData{}
	stored.SetBlock(0, 0, 0, gen.Obsidian)
	stored.UpdateHeights()
	store.chunks[gen.ChunkPos{X: 1, Z: 1}] = stored

	w := NewWorld(gen.NewFlatGenerator(0), testLogger(), store)
	if got := w.MaterialAt(16, 0, 16); got != gen.Obsidian {
		t.Errorf("MaterialAt = %d, want the stored obsidian", got)
	}
}

func TestWorldRegeneratesUnreadableChunk(t *testing.T) {
	store := newMemStore()
	store.loadErr = errors.New("disk on fire")
	w := NewWorld(gen.NewFlatGenerator(0), testLogger(), store)
	if got := w.MaterialAt(0, gen.MinY, 0); got != gen.Bedrock {
		t.Errorf("MaterialAt = %d, want generated bedrock", got)
	}
}

func TestParallelPreGenerationMatchesSequential(t *testing.T) {
	seq := NewWorld(gen.NewArcticGenerator(77), testLogger(), nil)
	par := NewWorld(gen.NewArcticGenerator(77), testLogger(), nil)
	if _, err := par.PreGenerateRadius(context.Background(), 3, -2, 1, 4); err != nil {
		t.Fatal(err)
	}
	if seq.RegionDigest(3, -2, 1) != par.RegionDigest(3, -2, 1) {
		t.Error("parallel pre-generation changed the region digest")
	}
	if seq.Digest(3, -2) != par.Digest(3, -2) {
		t.Error("chunk digests differ")
	}
	other := NewWorld(gen.NewArcticGenerator(78), testLogger(), nil)
	if other.RegionDigest(3, -2, 1) == seq.RegionDigest(3, -2, 1) {
		t.Error("different seeds produced the same region digest")
	}
}

func TestWorldArcticGenerator(t *testing.T) {
	w := NewWorld(gen.NewArcticGenerator(12345), testLogger(), nil)

	if got := w.MaterialAt(0, gen.MinY, 0); got != gen.Bedrock {
		t.Errorf("MaterialAt(0,MinY,0) = %d, want bedrock", got)
	}
	p := gen.DefaultParams()
	height := w.SpawnHeight()
	if height <= p.FloorY || height > p.CeilingY+1 {
		t.Errorf("SpawnHeight() = %d, want in (%d,%d]", height, p.FloorY, p.CeilingY+1)
	}
}

func TestMergedAppliesOverrides(t *testing.T) {
	w := NewWorld(gen.NewFlatGenerator(0), testLogger(), nil)
	w.SetBlock(-3, 40, 20, gen.PackedIce)

	c := w.Merged(-1, 1)
	if got := c.Block(13, 40, 4); got != gen.PackedIce {
		t.Errorf("merged block = %d, want packed ice", got)
	}
	if got := c.SurfaceHeight(13, 4); got != 40 {
		t.Errorf("merged surface = %d, want 40", got)
	}
	if got := w.GetOrGenerateChunk(-1, 1).Block(13, 40, 4); got != gen.Air {
		t.Error("Merged modified the cached chunk")
	}
	if got := len(w.Region(0, 0, 1)); got != 9 {
		t.Errorf("Region returned %d chunks, want 9", got)
	}
}
