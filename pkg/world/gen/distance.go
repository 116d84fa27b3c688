package gen

import "math"

// Chamfer step costs. Distances are stored in fifths of a block.
const (
	chamferAxial    = 5
	chamferDiagonal = 7
	chamferInf      = math.MaxInt32 / 2
)

// Scratch is a reusable arena for DistanceField. A Scratch must not be
// shared between goroutines; give each worker its own and reuse it across
// chunks. Every Compute fully overwrites the arena.
type Scratch struct {
	mask  []bool
	dist  []int32
	field []float64
}

// NewScratch allocates a Scratch sized for a halo of maxHalo columns.
func NewScratch(maxHalo int) *Scratch {
	s := &Scratch{}
	side := 16 + 2*maxHalo
	s.ensure(side)
	return s
}

func (s *Scratch) ensure(side int) {
	n := side * side
	if cap(s.mask) < n {
		s.mask = make([]bool, n)
		s.dist = make([]int32, n)
	}
	s.mask = s.mask[:n]
	s.dist = s.dist[:n]
}

// DistanceField turns "is this column a mountain" into a distance in blocks
// to the nearest mountain column, capped at MaxDistance.
type DistanceField struct {
	MaxHalo     int
	MaxDistance float64
	Threshold   int // columns at or above this height are mountains
}

// Field holds distances for a chunk grown by Border columns on every side.
// It is backed by the Scratch it was computed with and stays valid until the
// next Compute on that Scratch.
type Field struct {
	Border int
	side   int
	values []float64
}

// At returns the distance for local column (lx, lz), where both lie in
// [-Border, 16+Border).
func (f Field) At(lx, lz int) float64 {
	return f.values[(lz+f.Border)*f.side+lx+f.Border]
}

func (d DistanceField) halo(border int) int {
	search := int(math.Ceil(d.MaxDistance)) + border
	return max(min(d.MaxHalo, search), border)
}

// Compute evaluates height over the chunk plus its halo, marks mountain
// cells and runs the two-pass 5/7 chamfer transform.
func (d DistanceField) Compute(s *Scratch, chunkX, chunkZ, border int, height func(wx, wz int) int) Field {
	halo := d.halo(border)
	side := 16 + 2*halo
	s.ensure(side)

	ox, oz := chunkX*16-halo, chunkZ*16-halo
	for j := 0; j < side; j++ {
		for i := 0; i < side; i++ {
			idx := j*side + i
			m := height(ox+i, oz+j) >= d.Threshold
			s.mask[idx] = m
			if m {
				s.dist[idx] = 0
			} else {
				s.dist[idx] = chamferInf
			}
		}
	}
	chamfer(s.dist, side)

	fside := 16 + 2*border
	n := fside * fside
	if cap(s.field) < n {
		s.field = make([]float64, n)
	}
	s.field = s.field[:n]
	off := halo - border
	for j := 0; j < fside; j++ {
		for i := 0; i < fside; i++ {
			raw := s.dist[(j+off)*side+i+off]
			s.field[j*fside+i] = math.Min(float64(raw)/chamferAxial, d.MaxDistance)
		}
	}
	return Field{Border: border, side: fside, values: s.field}
}

// chamfer runs the forward (top-left to bottom-right) and backward sweeps.
func chamfer(dist []int32, side int) {
	for j := 0; j < side; j++ {
		for i := 0; i < side; i++ {
			idx := j*side + i
			v := dist[idx]
			if v == 0 {
				continue
			}
			if i > 0 {
				v = min(v, dist[idx-1]+chamferAxial)
			}
			if j > 0 {
				v = min(v, dist[idx-side]+chamferAxial)
				if i > 0 {
					v = min(v, dist[idx-side-1]+chamferDiagonal)
				}
				if i < side-1 {
					v = min(v, dist[idx-side+1]+chamferDiagonal)
				}
			}
			dist[idx] = v
		}
	}
	for j := side - 1; j >= 0; j-- {
		for i := side - 1; i >= 0; i-- {
			idx := j*side + i
			v := dist[idx]
			if v == 0 {
				continue
			}
			if i < side-1 {
				v = min(v, dist[idx+1]+chamferAxial)
			}
			if j < side-1 {
				v = min(v, dist[idx+side]+chamferAxial)
				if i < side-1 {
					v = min(v, dist[idx+side+1]+chamferDiagonal)
				}
				if i > 0 {
					v = min(v, dist[idx+side-1]+chamferDiagonal)
				}
			}
			dist[idx] = v
		}
	}
}
