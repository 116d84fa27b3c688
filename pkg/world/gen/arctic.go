package gen

import (
	"math"
	"slices"
	"sync"
)

// ArcticGenerator produces snowy mountain archipelagos: peaks and hill rings
// over plains, coasts drawn from the distance to the mountains, icebergs,
// ores and cave networks.
type ArcticGenerator struct {
	seed     int64
	params   Params
	reserves *Reserves

	terrain  heightfield
	distance DistanceField
	mat      materializer
	ores     orePlacer
	caves    caveCarver
	trees    treePlacer
	post     postProcessor

	scratch sync.Pool
}

// Stats summarizes what the ore and cave passes did to one chunk.
type Stats struct {
	Veins  []Vein
	Carved int
}

// NewArcticGenerator creates an ArcticGenerator with the default parameters,
// ore table and a private reserve registry.
func NewArcticGenerator(seed int64) *ArcticGenerator {
	return New(seed, DefaultParams(), nil, nil)
}

// New creates an ArcticGenerator. A nil reserves gets a private registry and
// nil ores the default table.
func New(seed int64, p Params, reserves *Reserves, ores []OreSpec) *ArcticGenerator {
	if reserves == nil {
		reserves = NewReserves()
	}
	if ores == nil {
		ores = DefaultOres()
	}
	g := &ArcticGenerator{
		seed:     seed,
		params:   p,
		reserves: reserves,
		terrain:  heightfield{seed: seed, p: p},
		distance: DistanceField{MaxHalo: p.MaxHalo, MaxDistance: p.MaxDistance, Threshold: p.MountainThreshold},
		mat:      newMaterializer(seed, p),
		ores:     orePlacer{seed: seed, attempts: p.OreAttempts, specs: slices.Clone(ores), minY: p.bedrockTop() + 1},
		caves:    newCaveCarver(seed, p),
		trees:    treePlacer{seed: seed, count: p.TreesPerChunk},
		post:     postProcessor{p: p},
	}
	g.scratch.New = func() any { return NewScratch(p.MaxHalo) }
	return g
}

// Generate generates a chunk with the default parameters.
func Generate(seed int64, chunkX, chunkZ int) *ChunkData {
	return NewArcticGenerator(seed).Generate(chunkX, chunkZ)
}

// Params returns the generator parameters.
func (g *ArcticGenerator) Params() Params { return g.params }

// Reserves returns the registry consulted by every generation.
func (g *ArcticGenerator) Reserves() *Reserves { return g.reserves }

// NewScratch returns a scratch arena sized for this generator.
func (g *ArcticGenerator) NewScratch() *Scratch { return NewScratch(g.params.MaxHalo) }

func (g *ArcticGenerator) Generate(chunkX, chunkZ int) *ChunkData {
	s := g.scratch.Get().(*Scratch)
	defer g.scratch.Put(s)
	c, _ := g.GenerateStats(s, chunkX, chunkZ)
	return c
}

// GenerateWith generates a chunk using a caller-owned scratch arena.
func (g *ArcticGenerator) GenerateWith(s *Scratch, chunkX, chunkZ int) *ChunkData {
	c, _ := g.GenerateStats(s, chunkX, chunkZ)
	return c
}

// GenerateStats generates a chunk and reports the veins and carved volume.
// A nil s allocates a fresh arena.
func (g *ArcticGenerator) GenerateStats(s *Scratch, chunkX, chunkZ int) (*ChunkData, Stats) {
	if s == nil {
		s = g.NewScratch()
	}
	pl := g.plan(s, chunkX, chunkZ)
	c := &ChunkData{}

	// Pass 1: base terrain and biomes.
	g.mat.Materialize(c, pl)

	// Pass 2: ores, then caves through them.
	veins := g.ores.Place(c, chunkX, chunkZ)
	carved := g.caves.Carve(c, pl)

	// Pass 3: decoration and shoreline clean-up.
	g.trees.Decorate(c, pl)
	g.post.Process(c, pl)

	c.UpdateHeights()
	return c, Stats{Veins: veins, Carved: carved}
}

// HeightAt returns the synthesized elevation of a column. Ocean columns
// report the land elevation the coast was cut from, not the sea floor.
func (g *ArcticGenerator) HeightAt(blockX, blockZ int) int {
	anchors := AnchorsNear(g.seed, blockX, blockZ, g.params.PeakSearchRadius)
	h, _ := g.terrain.column(blockX, blockZ, anchors, g.reserves.Within(blockX, blockZ, blockX, blockZ))
	return h
}

// anchorsFor returns every anchor that can influence a column evaluated
// while planning the chunk, including the distance field halo.
func (g *ArcticGenerator) anchorsFor(chunkX, chunkZ int) []PeakAnchor {
	halo := g.distance.halo(fieldBorder)
	reach := g.params.PeakSearchRadius + int(math.Ceil(float64(8+halo)*math.Sqrt2)) + 1
	return AnchorsNear(g.seed, chunkX*16+8, chunkZ*16+8, reach)
}

// plan computes heights, the ocean mask and the water layout for the chunk
// and its surrounding planPad columns.
func (g *ArcticGenerator) plan(s *Scratch, chunkX, chunkZ int) *columnPlan {
	pl := &columnPlan{chunkX: chunkX, chunkZ: chunkZ}
	anchors := g.anchorsFor(chunkX, chunkZ)
	ox, oz := chunkX*16, chunkZ*16
	reserves := g.reserves.Within(ox-planPad, oz-planPad, ox+15+planPad, oz+15+planPad)

	field := g.distance.Compute(s, chunkX, chunkZ, fieldBorder, func(wx, wz int) int {
		return g.terrain.approx(wx, wz, anchors)
	})
	g.mat.oceanMask(field, chunkX, chunkZ, &pl.mask)

	for lz := -planPad; lz < 16+planPad; lz++ {
		for lx := -planPad; lx < 16+planPad; lx++ {
			i := planIndex(lx, lz)
			wx, wz := ox+lx, oz+lz
			h, reserved := g.terrain.column(wx, wz, anchors, reserves)
			pl.reserved[i] = reserved
			if !reserved && pl.mask[i] >= 0.5 {
				floor, d := g.mat.seaFloor(g.mat.oceanDepth(field.At(lx, lz), wx, wz))
				pl.depth[i] = d
				pl.height[i] = floor
				pl.water[i] = true
				continue
			}
			pl.height[i] = h
			pl.water[i] = h < g.params.SeaLevel
		}
	}
	return pl
}

// Flat-site acceptance.
const (
	flatTolerance = 3
	flatMinAbove  = 2
	flatSample    = 2
)

// FindFlatSite looks for a dry, even pad of the given radius centred on
// (x, z). On success the pad is placed in the registry, so every chunk
// generated afterwards is flattened to it. It reports false when the
// ground is too rough, touches water, or overlaps an earlier site; the
// caller should retry elsewhere.
func (g *ArcticGenerator) FindFlatSite(x, z, radius int) (Reserve, bool) {
	if radius < 0 {
		return Reserve{}, false
	}
	lo, hi, sum, n := math.MaxInt, math.MinInt, 0, 0
	for dz := -radius; dz <= radius; dz += flatSample {
		for dx := -radius; dx <= radius; dx += flatSample {
			if dx*dx+dz*dz > radius*radius {
				continue
			}
			h := g.HeightAt(x+dx, z+dz)
			lo, hi = min(lo, h), max(hi, h)
			sum += h
			n++
		}
	}
	if hi-lo > flatTolerance || lo < g.params.SeaLevel+flatMinAbove {
		return Reserve{}, false
	}
	if !g.dry(x, z, radius) {
		return Reserve{}, false
	}
	site := Reserve{CenterX: x, CenterZ: z, HeightY: int(math.Round(float64(sum) / float64(n))), Radius: radius}
	if !g.reserves.TryPlace(site) {
		return Reserve{}, false
	}
	return site, true
}

// dry reports whether no column within radius of (x, z) is water.
func (g *ArcticGenerator) dry(x, z, radius int) bool {
	s := g.scratch.Get().(*Scratch)
	defer g.scratch.Put(s)
	for cz := floorDiv(z-radius, 16); cz <= floorDiv(z+radius, 16); cz++ {
		for cx := floorDiv(x-radius, 16); cx <= floorDiv(x+radius, 16); cx++ {
			pl := g.plan(s, cx, cz)
			for lz := 0; lz < 16; lz++ {
				for lx := 0; lx < 16; lx++ {
					dx, dz := cx*16+lx-x, cz*16+lz-z
					if dx*dx+dz*dz <= radius*radius && pl.water[planIndex(lx, lz)] {
						return false
					}
				}
			}
		}
	}
	return true
}
