package gen

import (
	"math"
	"testing"
)

func TestHasPeakFrequency(t *testing.T) {
	const side = 400
	n := 0
	for cx := 0; cx < side; cx++ {
		for cz := 0; cz < side; cz++ {
			if HasPeak(2024, cx, cz) {
				n++
			}
		}
	}
	want := float64(side*side) / 120
	if math.Abs(float64(n)-want) > want*0.15 {
		t.Errorf("peaks in %d chunks = %d, want about %.0f", side*side, n, want)
	}
}

func TestPeakParamsInChunk(t *testing.T) {
	for cx := -20; cx <= 20; cx++ {
		for cz := -20; cz <= 20; cz++ {
			x, z, h := PeakParams(5, cx, cz)
			if floorDiv(x, 16) != cx || floorDiv(z, 16) != cz {
				t.Fatalf("PeakParams(%d,%d) position (%d,%d) outside chunk", cx, cz, x, z)
			}
			if h < peakMinHeight || h > peakMaxHeight {
				t.Fatalf("PeakParams(%d,%d) height %d outside [%d,%d]", cx, cz, h, peakMinHeight, peakMaxHeight)
			}
		}
	}
}

func TestChildAnchors(t *testing.T) {
	total := 0
	for cx := 0; cx < 50; cx++ {
		p := primaryAnchor(77, cx, 3)
		children := ChildAnchors(77, p)
		if len(children) > childMaxCount {
			t.Fatalf("chunk %d has %d children, max %d", cx, len(children), childMaxCount)
		}
		for _, c := range children {
			d := math.Sqrt(float64(c.dist2(p.X, p.Z)))
			if d < childMinOffset-1 || d > childMaxOffset+1 {
				t.Errorf("child at distance %.1f, want %d..%d", d, childMinOffset, childMaxOffset)
			}
			if c.HeightY < childMinHeight || c.HeightY > childMaxHeight {
				t.Errorf("child height %d, want %d..%d", c.HeightY, childMinHeight, childMaxHeight)
			}
			if !c.Child {
				t.Error("child anchor not flagged")
			}
		}
		total += len(children)
	}
	if total == 0 {
		t.Error("no child anchors in 50 chunks")
	}
}

func TestDistanceToNearestPeakMatchesBruteForce(t *testing.T) {
	const seed = 31337
	const radiusChunks = 24
	for _, pt := range [][2]int{{0, 0}, {1000, -250}, {-4096, 77}} {
		got := DistanceToNearestPeak(seed, pt[0], pt[1], radiusChunks)

		want := math.Inf(1)
		cx0, cz0 := floorDiv(pt[0], 16), floorDiv(pt[1], 16)
		reach := radiusChunks + childReachChunks + 1
		for cx := cx0 - reach; cx <= cx0+reach; cx++ {
			for cz := cz0 - reach; cz <= cz0+reach; cz++ {
				if !HasPeak(seed, cx, cz) {
					continue
				}
				p := primaryAnchor(seed, cx, cz)
				for _, a := range append(ChildAnchors(seed, p), p) {
					d := math.Sqrt(float64(a.dist2(pt[0], pt[1])))
					if d <= radiusChunks*16 && d < want {
						want = d
					}
				}
			}
		}
		if got != want {
			t.Errorf("DistanceToNearestPeak(%v) = %f, want %f", pt, got, want)
		}
	}
}

func TestDistanceToNearestPeakNoneIsInf(t *testing.T) {
	// A zero radius only matches an anchor sitting exactly on the column.
	x, z := 3, 5
	if len(AnchorsNear(1, x, z, 0)) != 0 {
		t.Skip("anchor exactly on the probe column")
	}
	if d := DistanceToNearestPeak(1, x, z, 0); !math.IsInf(d, 1) {
		t.Errorf("DistanceToNearestPeak with no anchors = %f, want +Inf", d)
	}
	if _, d := nearestAnchor(nil, 0, 0); !math.IsInf(d, 1) {
		t.Errorf("nearestAnchor(nil) = %f, want +Inf", d)
	}
}
