package gen

import "math"

// Heightfield shaping constants. Distances are in blocks.
const (
	mountainScale = 1.0 / 512
	ridgeScale    = 1.0 / 48
	plainsScale   = 1.0 / 24
	erosionScale  = 1.0 / 256
	gainScale     = 1.0 / 32
	hillScale     = 1.0 / 40

	liftAmplitude    = 60
	ridgeAmplitude   = 10
	plainsAmplitude  = 1
	erosionAmplitude = 40
	gainAmplitude    = 40
	gainStartY       = 190
	hillAmplitude    = 12

	primaryConeRadius = 96
	childConeRadius   = 64
	coneExponent      = 1.6

	// Inverted ring blend around the nearest anchor.
	ringCore       = 80
	ringHillsEnd   = 140
	ringPlainsFull = 180
	ringPlainsEnd  = 220
	ringOuterHills = 300
)

// heightfield synthesizes per-column surface elevation as a pure function
// of the seed, the anchors and the reserve snapshot passed in.
type heightfield struct {
	seed int64
	p    Params
}

// mountainMask classifies the low-frequency fBm against the two mask
// thresholds after the even-spacing bias is applied.
func (h heightfield) mountainMask(fx, fz float64) float64 {
	m := FBM2D(h.seed, saltMountain, fx*mountainScale, fz*mountainScale)
	return smoothBand(m+h.spacingBias(fx, fz), h.p.MaskLow, h.p.MaskHigh)
}

// spacingBias nudges the mask up near the centre of a jittered hexagonal
// cell and down near its edges, so mountains neither clump nor leave wide gaps.
func (h heightfield) spacingBias(fx, fz float64) float64 {
	period := h.p.SpacingPeriod
	if period <= 0 || h.p.SpacingStrength == 0 {
		return 0
	}
	rowH := period * math.Sqrt(3) / 2
	row := int(math.Floor(fz / rowH))
	best := math.Inf(1)
	for r := row - 1; r <= row+1; r++ {
		off := 0.0
		if r&1 != 0 {
			off = period / 2
		}
		col := int(math.Floor((fx - off) / period))
		for c := col - 1; c <= col+1; c++ {
			jx := (Value(h.seed, c, r, 0, saltSpacing) - 0.5) * 0.5 * period
			jz := (Value(h.seed, c, r, 1, saltSpacing) - 0.5) * 0.5 * rowH
			cx := float64(c)*period + off + jx
			cz := float64(r)*rowH + jz
			if d := math.Hypot(fx-cx, fz-cz); d < best {
				best = d
			}
		}
	}
	dn := math.Min(best/period, 0.5)
	return h.p.SpacingStrength * (1 - 4*dn)
}

// plainsHeight is the flat elevation with its micro-undulation.
func (h heightfield) plainsHeight(fx, fz float64) float64 {
	n := ValueNoise2D(h.seed, saltPlains, fx*plainsScale, fz*plainsScale)
	return h.p.BaseElevation + (2*n-1)*plainsAmplitude
}

// raw layers the noise bands and the anchor cones, then applies the ridged
// gain above gainStartY. Nothing is clamped.
func (h heightfield) raw(wx, wz int, anchors []PeakAnchor) float64 {
	fx, fz := float64(wx), float64(wz)

	mask := h.mountainMask(fx, fz)
	taper := smoothBand(mask, 0.05, 0.4)
	ridge := 2*ValueNoise2D(h.seed, saltRidge, fx*ridgeScale, fz*ridgeScale) - 1
	e := FBM2D(h.seed, saltErosion, fx*erosionScale, fz*erosionScale)

	v := h.plainsHeight(fx, fz)
	v += mask * liftAmplitude * taper
	v += ridge * ridgeAmplitude * mask * taper
	v += e * e * erosionAmplitude * mask

	v = math.Max(v, h.cones(wx, wz, anchors))

	if v > gainStartY && float64(h.p.CeilingY) > gainStartY {
		t := clamp01((v - gainStartY) / (float64(h.p.CeilingY) - gainStartY))
		n := ValueNoise2D(h.seed, saltPeakGain, fx*gainScale, fz*gainScale)
		v += (1 - math.Abs(2*n-1)) * t * gainAmplitude
	}
	return v
}

// cones returns the tallest anchor cone over the column, or -Inf.
func (h heightfield) cones(wx, wz int, anchors []PeakAnchor) float64 {
	best := math.Inf(-1)
	for _, a := range anchors {
		radius := float64(primaryConeRadius)
		if a.Child {
			radius = childConeRadius
		}
		d2 := float64(a.dist2(wx, wz))
		if d2 >= radius*radius {
			continue
		}
		s := math.Sqrt(d2) / radius
		v := h.p.BaseElevation + (float64(a.HeightY)-h.p.BaseElevation)*math.Pow(1-s, coneExponent)
		best = math.Max(best, v)
	}
	return best
}

// ringBlend reshapes v by the distance d to the nearest anchor: an untouched
// core, a fading hill band, flat plains, a second hill ring, then a return
// to the unblended value at the search radius. Every weight is continuous in d.
func (h heightfield) ringBlend(wx, wz int, v, d float64) float64 {
	limit := float64(h.p.PeakSearchRadius)
	if math.IsInf(d, 1) || d >= limit || d < ringCore {
		return v
	}
	fx, fz := float64(wx), float64(wz)
	hills := ValueNoise2D(h.seed, saltHills, fx*hillScale, fz*hillScale) * hillAmplitude
	plains := h.plainsHeight(fx, fz)

	switch {
	case d < ringHillsEnd:
		return v + hills*bump(d, ringCore, ringHillsEnd)
	case d < ringPlainsEnd:
		return lerp(v, plains, smoothBand(d, ringHillsEnd, ringPlainsFull))
	case d < ringOuterHills:
		return plains + hills*bump(d, ringPlainsEnd, ringOuterHills)
	default:
		return lerp(plains, v, smoothBand(d, ringOuterHills, limit))
	}
}

// bump is a half sine that is zero at lo and hi and one halfway between.
func bump(d, lo, hi float64) float64 {
	return math.Sin(math.Pi * clamp01((d-lo)/(hi-lo)))
}

// approx is the clamped height without the reserve override. It is the
// mountain test input for the distance field, so ocean placement never
// depends on registration order.
func (h heightfield) approx(wx, wz int, anchors []PeakAnchor) int {
	v := h.raw(wx, wz, anchors)
	_, d := nearestAnchor(anchors, wx, wz)
	v = h.ringBlend(wx, wz, v, d)
	return clampInt(int(math.Round(v)), h.p.FloorY, h.p.CeilingY)
}

// column is the final surface height of a column. reserves is a snapshot
// taken once per chunk so every column of a chunk sees the same registry.
func (h heightfield) column(wx, wz int, anchors []PeakAnchor, reserves []Reserve) (height int, reserved bool) {
	if r, ok := reserveAt(reserves, wx, wz); ok {
		return clampInt(r.HeightY, h.p.FloorY, h.p.CeilingY), true
	}
	return h.approx(wx, wz, anchors), false
}
