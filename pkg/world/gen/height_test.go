package gen

import (
	"math"
	"testing"
)

func TestHeightAtWithinBand(t *testing.T) {
	p := DefaultParams()
	g := NewArcticGenerator(1234)
	for i := 0; i < 400; i++ {
		x := (i*97)%4000 - 2000
		z := (i*193)%4000 - 2000
		h := g.HeightAt(x, z)
		if h < p.FloorY || h > p.CeilingY {
			t.Fatalf("HeightAt(%d,%d) = %d, outside [%d,%d]", x, z, h, p.FloorY, p.CeilingY)
		}
	}
}

func TestHeightAtDeterministic(t *testing.T) {
	g1 := NewArcticGenerator(99)
	g2 := NewArcticGenerator(99)
	for i := -50; i < 50; i++ {
		if g1.HeightAt(i*13, i*-7) != g2.HeightAt(i*13, i*-7) {
			t.Fatalf("HeightAt not deterministic at %d", i)
		}
	}
}

func TestHeightAtReserveOverride(t *testing.T) {
	reserves := NewReserves()
	g := New(5, DefaultParams(), reserves, nil)
	reserves.ReserveFlatArea(100, -40, 190, 6)

	for dx := -6; dx <= 6; dx++ {
		if h := g.HeightAt(100+dx, -40); h != 190 {
			t.Errorf("HeightAt(%d,-40) = %d inside reserve, want 190", 100+dx, h)
		}
	}
}

func TestHeightAtReserveClamped(t *testing.T) {
	p := DefaultParams()
	reserves := NewReserves()
	g := New(5, p, reserves, nil)
	reserves.ReserveFlatArea(0, 0, MaxY+100, 2)
	reserves.ReserveFlatArea(50, 50, MinY, 2)

	if h := g.HeightAt(0, 0); h != p.CeilingY {
		t.Errorf("HeightAt under a too-high reserve = %d, want %d", h, p.CeilingY)
	}
	if h := g.HeightAt(50, 50); h != p.FloorY {
		t.Errorf("HeightAt under a too-low reserve = %d, want %d", h, p.FloorY)
	}
}

func TestRingBlendContinuous(t *testing.T) {
	h := heightfield{seed: 8, p: DefaultParams()}
	const v = 230.0
	for _, d := range []float64{ringCore, ringHillsEnd, ringPlainsEnd, ringOuterHills, float64(h.p.PeakSearchRadius)} {
		below := h.ringBlend(40, 40, v, d-1e-6)
		above := h.ringBlend(40, 40, v, d+1e-6)
		if math.Abs(below-above) > 1e-3 {
			t.Errorf("ring blend jumps at d=%v: %f -> %f", d, below, above)
		}
	}
	if got := h.ringBlend(40, 40, v, math.Inf(1)); got != v {
		t.Errorf("ring blend with no anchor = %f, want untouched %f", got, v)
	}
	if got := h.ringBlend(40, 40, v, 30); got != v {
		t.Errorf("ring blend in the core = %f, want untouched %f", got, v)
	}
}

func TestRingBlendPlains(t *testing.T) {
	h := heightfield{seed: 8, p: DefaultParams()}
	got := h.ringBlend(10, 20, 260, 200)
	want := h.plainsHeight(10, 20)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ring blend at 200 blocks = %f, want plains %f", got, want)
	}
}

func TestConePeaksAtAnchor(t *testing.T) {
	h := heightfield{seed: 8, p: DefaultParams()}
	a := PeakAnchor{X: 500, Z: 500, HeightY: 250}
	if got := h.cones(500, 500, []PeakAnchor{a}); math.Abs(got-250) > 1e-9 {
		t.Errorf("cone at anchor = %f, want 250", got)
	}
	if got := h.cones(500+primaryConeRadius, 500, []PeakAnchor{a}); !math.IsInf(got, -1) {
		t.Errorf("cone outside its radius = %f, want -Inf", got)
	}
	child := PeakAnchor{X: 0, Z: 0, HeightY: 220, Child: true}
	if got := h.cones(childConeRadius-1, 0, []PeakAnchor{child}); got >= 220 || got <= h.p.BaseElevation {
		t.Errorf("child cone near its rim = %f", got)
	}
}

func TestMountainMaskRange(t *testing.T) {
	h := heightfield{seed: 3, p: DefaultParams()}
	for i := 0; i < 2000; i++ {
		m := h.mountainMask(float64(i*31-30000), float64(i*17))
		if m < 0 || m > 1 {
			t.Fatalf("mountain mask %f outside [0,1]", m)
		}
	}
}

func TestSpacingBiasBounded(t *testing.T) {
	h := heightfield{seed: 3, p: DefaultParams()}
	s := h.p.SpacingStrength
	for i := 0; i < 2000; i++ {
		b := h.spacingBias(float64(i*7-7000), float64(i*11-3000))
		if b < -s-1e-12 || b > s+1e-12 {
			t.Fatalf("spacing bias %f outside ±%f", b, s)
		}
	}
}
