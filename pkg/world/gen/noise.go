package gen

import "math"

// Seeded value noise. Every function here is a pure function of its
// arguments, so columns may be evaluated in any order and from any goroutine.

// Salts separate the independent random streams drawn from one seed.
const (
	saltMountain uint64 = iota + 1
	saltRidge
	saltPlains
	saltErosion
	saltPeakGain
	saltSpacing
	saltPeak
	saltPeakX
	saltPeakZ
	saltPeakHeight
	saltChildCount
	saltChildAngle
	saltChildDist
	saltChildHeight
	saltHills
	saltCoast
	saltDepth
	saltBeach
	saltRockExposure
	saltSnow
	saltBedrock
	saltBerg
	saltSheet
	saltTaiga
	saltOre
	saltCaveRegion
	saltTrees
)

const unitScale = 1.0 / (1 << 53)

func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Hash mixes a seed, a lattice point and a salt into 64 well-distributed bits.
func Hash(seed int64, x, y, z int, salt uint64) uint64 {
	h := uint64(seed) ^ salt*0xd6e8feb86659fd93
	h = mix64(h ^ uint64(uint32(int32(x)))*0x9e3779b97f4a7c15)
	h = mix64(h ^ uint64(uint32(int32(y)))*0xc2b2ae3d27d4eb4f)
	return mix64(h ^ uint64(uint32(int32(z)))*0xbf58476d1ce4e5b9)
}

// Value returns a uniform value in [0,1) for the lattice point.
func Value(seed int64, x, y, z int, salt uint64) float64 {
	return float64(Hash(seed, x, y, z, salt)>>11) * unitScale
}

// Smoothstep is the quintic fade 6t^5 - 15t^4 + 10t^3.
func Smoothstep(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// ValueNoise2D interpolates lattice values around (x, z). Output is in [0,1).
func ValueNoise2D(seed int64, salt uint64, x, z float64) float64 {
	fx, fz := math.Floor(x), math.Floor(z)
	ix, iz := int(fx), int(fz)
	tx, tz := Smoothstep(x-fx), Smoothstep(z-fz)

	v00 := Value(seed, ix, 0, iz, salt)
	v10 := Value(seed, ix+1, 0, iz, salt)
	v01 := Value(seed, ix, 0, iz+1, salt)
	v11 := Value(seed, ix+1, 0, iz+1, salt)

	return lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), tz)
}

// ValueNoise3D interpolates the eight lattice corners around (x, y, z).
// Output is in [0,1).
func ValueNoise3D(seed int64, salt uint64, x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	ix, iy, iz := int(fx), int(fy), int(fz)
	tx, ty, tz := Smoothstep(x-fx), Smoothstep(y-fy), Smoothstep(z-fz)

	var plane [2]float64
	for dy := 0; dy < 2; dy++ {
		v00 := Value(seed, ix, iy+dy, iz, salt)
		v10 := Value(seed, ix+1, iy+dy, iz, salt)
		v01 := Value(seed, ix, iy+dy, iz+1, salt)
		v11 := Value(seed, ix+1, iy+dy, iz+1, salt)
		plane[dy] = lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), tz)
	}
	return lerp(plane[0], plane[1], ty)
}

const (
	fbmOctaves    = 5
	fbmGain       = 0.55
	fbmLacunarity = 1.9
)

// FBM2D sums five octaves of value noise and renormalizes to [0,1].
func FBM2D(seed int64, salt uint64, x, z float64) float64 {
	var total, norm float64
	amplitude, frequency := 1.0, 1.0
	for o := 0; o < fbmOctaves; o++ {
		total += ValueNoise2D(seed, salt+uint64(o)<<32, x*frequency, z*frequency) * amplitude
		norm += amplitude
		amplitude *= fbmGain
		frequency *= fbmLacunarity
	}
	return total / norm
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// smoothBand maps v from [lo, hi] onto [0,1] with the quintic fade.
func smoothBand(v, lo, hi float64) float64 {
	return Smoothstep(clamp01((v - lo) / (hi - lo)))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
