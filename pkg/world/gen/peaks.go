package gen

import "math"

// PeakAnchor is a mountain anchor point. Anchors are derived on demand from
// the seed and never stored.
type PeakAnchor struct {
	ChunkX, ChunkZ int // chunk that spawned the anchor
	X, Z           int
	HeightY        int
	Child          bool
}

const (
	peakChance     = 1.0 / 120
	peakMinHeight  = 200
	peakMaxHeight  = 280
	childMaxCount  = 8
	childMinOffset = 24
	childMaxOffset = 96
	childMinHeight = 200
	childMaxHeight = 260

	childReachChunks = (childMaxOffset + 15) / 16
)

// HasPeak reports whether the chunk holds a primary mountain anchor.
func HasPeak(seed int64, chunkX, chunkZ int) bool {
	return Value(seed, chunkX, 0, chunkZ, saltPeak) < peakChance
}

// PeakParams returns the world position and height of the chunk's primary
// anchor. The result is meaningful only when HasPeak is true.
func PeakParams(seed int64, chunkX, chunkZ int) (x, z, heightY int) {
	x = chunkX*16 + int(Hash(seed, chunkX, 0, chunkZ, saltPeakX)%16)
	z = chunkZ*16 + int(Hash(seed, chunkX, 0, chunkZ, saltPeakZ)%16)
	heightY = peakMinHeight + int(Hash(seed, chunkX, 0, chunkZ, saltPeakHeight)%(peakMaxHeight-peakMinHeight+1))
	return x, z, heightY
}

// ChildAnchors returns the 0–8 hill anchors clustered around a primary anchor.
func ChildAnchors(seed int64, parent PeakAnchor) []PeakAnchor {
	cx, cz := parent.ChunkX, parent.ChunkZ
	n := int(Hash(seed, cx, 0, cz, saltChildCount) % (childMaxCount + 1))
	if n == 0 {
		return nil
	}
	children := make([]PeakAnchor, 0, n)
	for i := 1; i <= n; i++ {
		angle := Value(seed, cx, i, cz, saltChildAngle) * 2 * math.Pi
		dist := childMinOffset + Value(seed, cx, i, cz, saltChildDist)*(childMaxOffset-childMinOffset)
		h := childMinHeight + int(Hash(seed, cx, i, cz, saltChildHeight)%(childMaxHeight-childMinHeight+1))
		children = append(children, PeakAnchor{
			ChunkX:  cx,
			ChunkZ:  cz,
			X:       parent.X + int(math.Round(math.Cos(angle)*dist)),
			Z:       parent.Z + int(math.Round(math.Sin(angle)*dist)),
			HeightY: h,
			Child:   true,
		})
	}
	return children
}

func primaryAnchor(seed int64, chunkX, chunkZ int) PeakAnchor {
	x, z, h := PeakParams(seed, chunkX, chunkZ)
	return PeakAnchor{ChunkX: chunkX, ChunkZ: chunkZ, X: x, Z: z, HeightY: h}
}

// AnchorsNear scans every chunk that could hold an anchor within radius
// blocks of (wx, wz) and returns the primary and child anchors in range,
// ordered by chunk scan order.
func AnchorsNear(seed int64, wx, wz, radius int) []PeakAnchor {
	var out []PeakAnchor
	r2 := radius * radius
	reach := (radius+15)/16 + childReachChunks
	ccx, ccz := floorDiv(wx, 16), floorDiv(wz, 16)
	for cz := ccz - reach; cz <= ccz+reach; cz++ {
		for cx := ccx - reach; cx <= ccx+reach; cx++ {
			if !HasPeak(seed, cx, cz) {
				continue
			}
			p := primaryAnchor(seed, cx, cz)
			if p.dist2(wx, wz) <= r2 {
				out = append(out, p)
			}
			for _, c := range ChildAnchors(seed, p) {
				if c.dist2(wx, wz) <= r2 {
					out = append(out, c)
				}
			}
		}
	}
	return out
}

// DistanceToNearestPeak returns the Euclidean distance from (wx, wz) to the
// nearest anchor within searchRadiusChunks chunks, or +Inf when none exists.
func DistanceToNearestPeak(seed int64, wx, wz, searchRadiusChunks int) float64 {
	_, d := nearestAnchor(AnchorsNear(seed, wx, wz, searchRadiusChunks*16), wx, wz)
	return d
}

// nearestAnchor returns the closest anchor and its distance, or +Inf.
func nearestAnchor(anchors []PeakAnchor, wx, wz int) (PeakAnchor, float64) {
	best := -1
	bestD2 := math.MaxInt
	for i, a := range anchors {
		if d2 := a.dist2(wx, wz); d2 < bestD2 {
			best, bestD2 = i, d2
		}
	}
	if best < 0 {
		return PeakAnchor{}, math.Inf(1)
	}
	return anchors[best], math.Sqrt(float64(bestD2))
}

func (a PeakAnchor) dist2(wx, wz int) int {
	dx, dz := a.X-wx, a.Z-wz
	return dx*dx + dz*dz
}
