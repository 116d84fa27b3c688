package gen

import (
	"math"

	"github.com/aquilax/go-perlin"
)

const (
	bergCell      = 32
	bergMargin    = 4
	bergChance    = 0.4
	bergMinRadius = 4
	bergMaxRadius = 9
	bergMinRise   = 5
	bergMaxRise   = 16
	bergDeepReach = 2 // neighbours that must be deep too
	bergNoise     = 0.25
	bergScale     = 1.0 / 8

	sheetReach      = 2.2 // in berg radii
	sheetScale      = 1.0 / 6
	sheetBase       = 0.45
	sheetFalloff    = 0.35
	sheetNeighbours = 2
)

type iceberg struct {
	x, z   int
	radius int
	rise   int
}

// icebergs seeds floating ice in deep water. The perlin sources hold only
// read-only permutation tables after construction.
type icebergs struct {
	seed  int64
	shape *perlin.Perlin
	sheet *perlin.Perlin
}

func newIcebergs(seed int64) icebergs {
	return icebergs{
		seed:  seed,
		shape: perlin.NewPerlin(2, 2, 3, seed+int64(saltBerg)),
		sheet: perlin.NewPerlin(2, 2, 3, seed+int64(saltSheet)),
	}
}

// near returns the berg sites that could reach any column of the chunk
// grown by pad columns.
func (ib icebergs) near(chunkX, chunkZ, pad int) []iceberg {
	reach := int(math.Ceil(sheetReach*bergMaxRadius)) + pad
	minX, maxX := chunkX*16-reach, chunkX*16+15+reach
	minZ, maxZ := chunkZ*16-reach, chunkZ*16+15+reach
	var out []iceberg
	for gz := floorDiv(minZ, bergCell); gz <= floorDiv(maxZ, bergCell); gz++ {
		for gx := floorDiv(minX, bergCell); gx <= floorDiv(maxX, bergCell); gx++ {
			if Value(ib.seed, gx, 0, gz, saltBerg) >= bergChance {
				continue
			}
			span := uint64(bergCell - 2*bergMargin)
			out = append(out, iceberg{
				x:      gx*bergCell + bergMargin + int(Hash(ib.seed, gx, 1, gz, saltBerg)%span),
				z:      gz*bergCell + bergMargin + int(Hash(ib.seed, gx, 2, gz, saltBerg)%span),
				radius: bergMinRadius + int(Hash(ib.seed, gx, 3, gz, saltBerg)%(bergMaxRadius-bergMinRadius+1)),
				rise:   bergMinRise + int(Hash(ib.seed, gx, 4, gz, saltBerg)%(bergMaxRise-bergMinRise+1)),
			})
		}
	}
	return out
}

// rise is how many blocks above sea level the tallest berg over the column
// reaches: a radial falloff roughened with noise.
func (ib icebergs) rise(bergs []iceberg, wx, wz int) int {
	best := 0
	for _, b := range bergs {
		d := math.Hypot(float64(wx-b.x), float64(wz-b.z)) / float64(b.radius)
		if d >= 1+bergNoise {
			continue
		}
		p := 1 - d*d + bergNoise*ib.shape.Noise2D(float64(wx)*bergScale, float64(wz)*bergScale)
		if p <= 0 {
			continue
		}
		best = max(best, int(p*float64(b.rise)))
	}
	return best
}

// rawSheet reports whether the undilated sea-ice sheet covers the column.
// The cover thins out with distance from the berg.
func (ib icebergs) rawSheet(bergs []iceberg, wx, wz int) bool {
	v := 0.5 + 0.5*ib.sheet.Noise2D(float64(wx)*sheetScale, float64(wz)*sheetScale)
	for _, b := range bergs {
		d := math.Hypot(float64(wx-b.x), float64(wz-b.z)) / (sheetReach * float64(b.radius))
		if d < 1 && v > sheetBase+sheetFalloff*d {
			return true
		}
	}
	return false
}

// bergPlan holds the iceberg rise and the frozen sea-level flag of every
// column in a chunk.
type bergPlan struct {
	rise  [256]int
	sheet [256]bool
}

func (ib icebergs) plan(pl *columnPlan) *bergPlan {
	bp := &bergPlan{}
	bergs := ib.near(pl.chunkX, pl.chunkZ, 1)
	if len(bergs) == 0 {
		return bp
	}

	const side = 18
	var raw [side * side]bool
	for lz := -1; lz <= 16; lz++ {
		for lx := -1; lx <= 16; lx++ {
			if pl.depth[planIndex(lx, lz)] < shallowDepth {
				continue
			}
			raw[(lz+1)*side+lx+1] = ib.rawSheet(bergs, pl.chunkX*16+lx, pl.chunkZ*16+lz)
		}
	}

	for lz := 0; lz < 16; lz++ {
		for lx := 0; lx < 16; lx++ {
			if !pl.ocean(lx, lz) {
				continue
			}
			wx, wz := pl.chunkX*16+lx, pl.chunkZ*16+lz
			k := lz*16 + lx
			if pl.deepAround(lx, lz, bergDeepReach, deepOceanDepth) {
				bp.rise[k] = ib.rise(bergs, wx, wz)
			}
			if pl.depth[planIndex(lx, lz)] < shallowDepth {
				continue
			}
			bp.sheet[k] = dilated(raw[:], (lz+1)*side+lx+1, side)
		}
	}
	return bp
}

// dilated reports whether cell i of a side×side grid is covered, or has at
// least sheetNeighbours covered edge neighbours. i must not lie on the rim.
func dilated(raw []bool, i, side int) bool {
	if raw[i] {
		return true
	}
	n := 0
	for _, o := range [4]int{-1, 1, -side, side} {
		if raw[i+o] {
			n++
		}
	}
	return n >= sheetNeighbours
}
