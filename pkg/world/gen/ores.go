package gen

import "math"

// Bias is the depth distribution of an ore: BiasTop, BiasBottom,
// BiasUniform or BiasTriangular.
type Bias interface {
	isBias()
}

// BiasTop favours the top of the ore's range.
type BiasTop struct{}

// BiasBottom favours the bottom of the ore's range.
type BiasBottom struct{}

// BiasUniform draws every depth equally.
type BiasUniform struct{}

// BiasTriangular peaks at PeakY.
type BiasTriangular struct {
	PeakY int
}

func (BiasTop) isBias()        {}
func (BiasBottom) isBias()     {}
func (BiasUniform) isBias()    {}
func (BiasTriangular) isBias() {}

// OreSpec configures one vein kind.
type OreSpec struct {
	Material Block
	Weight   float64
	MinY     int
	MaxY     int
	Bias     Bias
	Rare     bool // single blocks are much less likely to be accepted
}

// Vein reports one placed cluster. X, Y, Z is the low corner of its 2×2×2
// candidate cube in chunk-local coordinates.
type Vein struct {
	Material Block
	X, Y, Z  int
	Placed   int
}

const (
	oreSuccessScale     = 0.02
	biasTries           = 8
	clusterAccept       = 0.2
	rareClusterAccept   = 0.05
	clusterMin          = 3
	secondClusterWeight = 10
	secondClusterChance = 0.25
)

// DefaultOres returns the arctic ore table.
func DefaultOres() []OreSpec {
	return []OreSpec{
		{Material: CoalOre, Weight: 20, MinY: 0, MaxY: 190, Bias: BiasTriangular{PeakY: 96}},
		{Material: IronOre, Weight: 15, MinY: -64, MaxY: 160, Bias: BiasTriangular{PeakY: 16}},
		{Material: Gravel, Weight: 10, MinY: 0, MaxY: 160, Bias: BiasUniform{}},
		{Material: Redstone, Weight: 8, MinY: -64, MaxY: 16, Bias: BiasBottom{}},
		{Material: GoldOre, Weight: 4, MinY: -64, MaxY: 32, Bias: BiasBottom{}},
		{Material: LapisOre, Weight: 3, MinY: -32, MaxY: 64, Bias: BiasTriangular{PeakY: 0}},
		{Material: Obsidian, Weight: 3, MinY: -64, MaxY: 0, Bias: BiasUniform{}, Rare: true},
		{Material: DiamondOre, Weight: 2, MinY: -64, MaxY: 16, Bias: BiasBottom{}},
		{Material: EmeraldOre, Weight: 2, MinY: 100, MaxY: 250, Bias: BiasTop{}},
	}
}

// orePlacer scatters ore clusters through the stone of a chunk.
type orePlacer struct {
	seed     int64
	attempts int
	specs    []OreSpec
	minY     int // lowest y a cube may start at
}

// Place runs every spec's attempts against the chunk and returns the
// clusters it produced.
func (op orePlacer) Place(c *ChunkData, chunkX, chunkZ int) []Vein {
	rng := newChunkRNG(op.seed, chunkX, chunkZ, saltOre)
	var veins []Vein
	for si, spec := range op.specs {
		p := math.Min(1, spec.Weight*oreSuccessScale)
		for a := 0; a < op.attempts; a++ {
			if !rng.chance(p) {
				continue
			}
			local := rng.fork(uint64(si)<<16 | uint64(a))
			veins = append(veins, op.cluster(c, spec, local))
			if spec.Weight >= secondClusterWeight && local.chance(secondClusterChance) {
				veins = append(veins, op.cluster(c, spec, local))
			}
		}
	}
	return veins
}

var cubeOffsets = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
}

// cluster places one 2×2×2 cluster. At least clusterMin cells are accepted;
// only stone is replaced.
func (op orePlacer) cluster(c *ChunkData, spec OreSpec, rng *chunkRNG) Vein {
	x, z := rng.nextN(15), rng.nextN(15)
	y := clampInt(biasedY(rng, spec), op.minY, MaxY-2)

	cube := cubeOffsets
	for i := len(cube) - 1; i > 0; i-- {
		j := rng.nextN(i + 1)
		cube[i], cube[j] = cube[j], cube[i]
	}

	accept := clusterAccept
	if spec.Rare {
		accept = rareClusterAccept
	}
	var accepted [len(cubeOffsets)]bool
	n := 0
	for i := range cube {
		if rng.chance(accept) {
			accepted[i] = true
			n++
		}
	}
	for i := 0; n < clusterMin && i < len(cube); i++ {
		if !accepted[i] {
			accepted[i] = true
			n++
		}
	}

	v := Vein{Material: spec.Material, X: x, Y: y, Z: z}
	for i, off := range cube {
		if !accepted[i] {
			continue
		}
		bx, by, bz := x+off[0], y+off[1], z+off[2]
		if c.Block(bx, by, bz) != Stone {
			continue
		}
		c.SetBlock(bx, by, bz, spec.Material)
		v.Placed++
	}
	return v
}

// biasedY rejection-samples a depth against the spec's bias, giving up
// after biasTries draws and keeping the last one.
func biasedY(rng *chunkRNG, spec OreSpec) int {
	lo, hi := spec.MinY, spec.MaxY
	if hi <= lo {
		return lo
	}
	y := lo
	for try := 0; try < biasTries; try++ {
		y = rng.rangeInt(lo, hi)
		if rng.float() < biasWeight(spec.Bias, y, lo, hi) {
			return y
		}
	}
	return y
}

// biasWeight is the acceptance weight of y in [lo, hi].
func biasWeight(b Bias, y, lo, hi int) float64 {
	switch b := b.(type) {
	case BiasTop:
		return triangular(y, lo, hi, hi)
	case BiasBottom:
		return triangular(y, lo, hi, lo)
	case BiasTriangular:
		return triangular(y, lo, hi, clampInt(b.PeakY, lo, hi))
	default:
		return 1
	}
}

func triangular(y, lo, hi, peak int) float64 {
	switch {
	case y == peak:
		return 1
	case y < peak:
		return float64(y-lo) / float64(peak-lo)
	default:
		return float64(hi-y) / float64(hi-peak)
	}
}
