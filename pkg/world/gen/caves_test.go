package gen

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// dryPlan returns a plan for chunk (cx, cz) with every column dry land at height.
func dryPlan(cx, cz, height int) *columnPlan {
	pl := &columnPlan{chunkX: cx, chunkZ: cz}
	for i := range pl.height {
		pl.height[i] = height
	}
	return pl
}

func TestCaveRegionTaskCap(t *testing.T) {
	p := DefaultParams()
	cc := newCaveCarver(77, p)
	for rx := -3; rx <= 3; rx++ {
		for rz := -3; rz <= 3; rz++ {
			c := stoneChunk(MinY+1, 200)
			tgt := newCarveTarget(c, dryPlan(rx*4, rz*4, 300), p)
			if ran := cc.simulate(rx, rz, tgt); ran > p.CaveTaskLimit || ran < initialWormsMin {
				t.Errorf("region (%d,%d) ran %d tasks, want %d..%d", rx, rz, ran, initialWormsMin, p.CaveTaskLimit)
			}
		}
	}
}

func TestCaveRegionCapRespectsConfig(t *testing.T) {
	p := DefaultParams()
	p.CaveTaskLimit = 1
	cc := newCaveCarver(77, p)
	tgt := newCarveTarget(stoneChunk(MinY+1, 200), dryPlan(0, 0, 300), p)
	if ran := cc.simulate(0, 0, tgt); ran != 1 {
		t.Errorf("ran %d tasks with a limit of 1", ran)
	}
}

func TestCarveDeterministic(t *testing.T) {
	cc := newCaveCarver(2024, DefaultParams())
	c1 := stoneChunk(MinY+1, 250)
	c2 := stoneChunk(MinY+1, 250)
	n1 := cc.Carve(c1, dryPlan(0, 0, 300))
	n2 := cc.Carve(c2, dryPlan(0, 0, 300))
	if n1 != n2 || !c1.Equal(c2) {
		t.Fatal("carving the same chunk twice differed")
	}
}

func TestRegionIndependentOfChunk(t *testing.T) {
	// Every chunk a region reaches replays the same tasks.
	p := DefaultParams()
	cc := newCaveCarver(2024, p)
	var counts []int
	for cx := -1; cx <= 4; cx++ {
		tgt := newCarveTarget(stoneChunk(MinY+1, 250), dryPlan(cx, 1, 300), p)
		counts = append(counts, cc.simulate(0, 0, tgt))
	}
	for i, n := range counts {
		if n != counts[0] {
			t.Fatalf("chunk %d replayed %d tasks, chunk -1 replayed %d", i-1, n, counts[0])
		}
	}
}

func TestCarveProtectsBedrockBand(t *testing.T) {
	p := DefaultParams()
	c := stoneChunk(MinY, p.bedrockTop()+40)
	tgt := newCarveTarget(c, dryPlan(0, 0, 300), p)
	tgt.ellipsoid(mgl64.Vec3{8, float64(MinY + 2), 8}, 10, 10, 10)
	for z := 0; z < 16; z++ {
		for x := 0; x < 16; x++ {
			for y := MinY; y <= p.bedrockTop(); y++ {
				if c.Block(x, y, z) == Air {
					t.Fatalf("carved (%d,%d,%d) inside the bedrock band", x, y, z)
				}
			}
		}
	}
	if tgt.count == 0 {
		t.Error("ellipsoid above the band carved nothing")
	}
}

func TestCarveOceanSafety(t *testing.T) {
	p := DefaultParams()
	pl := dryPlan(0, 0, 200)
	// A sea column next to the chunk's west edge.
	for lz := -planPad; lz < 16+planPad; lz++ {
		i := planIndex(-1, lz)
		pl.water[i] = true
		pl.depth[i] = 30
		pl.height[i] = p.SeaLevel - 30
	}
	c := stoneChunk(MinY+1, 200)
	tgt := newCarveTarget(c, pl, p)
	for y := 100; y <= 190; y += 3 {
		tgt.ellipsoid(mgl64.Vec3{1, float64(y), 8}, 3, 3, 3)
	}
	floor := p.SeaLevel - 30
	limit := min(p.OceanSafeY, floor-3)
	for z := 0; z < 16; z++ {
		for x := 0; x <= p.OceanSafeR-1; x++ {
			for y := limit + 1; y <= 200; y++ {
				if c.Block(x, y, z) == Air {
					t.Fatalf("carved (%d,%d,%d) within %d of the sea above y=%d", x, y, z, p.OceanSafeR, limit)
				}
			}
		}
	}
	// Away from the water the same tunnel opens up high.
	if tgt.ceiling[8*16+8] != MaxY-1 {
		t.Errorf("ceiling far from water = %d, want %d", tgt.ceiling[8*16+8], MaxY-1)
	}
}

func TestCarveLowlandCrust(t *testing.T) {
	p := DefaultParams()
	c := stoneChunk(MinY+1, 160)
	tgt := newCarveTarget(c, dryPlan(0, 0, 160), p)
	tgt.ellipsoid(mgl64.Vec3{8, 158, 8}, 6, 6, 6)
	for y := 160 - caveCrust + 1; y <= 160; y++ {
		if c.Block(8, y, 8) == Air {
			t.Fatalf("carved lowland crust at y=%d", y)
		}
	}
	if c.Block(8, 152, 8) != Air {
		t.Error("expected the cave below the crust to be open")
	}
}

func TestCarveHardensSoilAndDropsSnow(t *testing.T) {
	p := DefaultParams()
	c := stoneChunk(MinY+1, 200)
	for z := 0; z < 16; z++ {
		for x := 0; x < 16; x++ {
			c.SetBlock(x, 180, z, Dirt)
			c.SetBlock(x, 201, z, SnowLayers(3))
		}
	}
	tgt := newCarveTarget(c, dryPlan(0, 0, 250), p)
	tgt.ellipsoid(mgl64.Vec3{8.5, 177.5, 8.5}, 2, 2, 2)
	if c.Block(8, 180, 8) != Stone {
		t.Errorf("dirt in the carve shell = %d, want stone", c.Block(8, 180, 8))
	}
	tgt.ellipsoid(mgl64.Vec3{8.5, 199.5, 8.5}, 1.5, 1.5, 1.5)
	if c.Block(8, 200, 8) != Air {
		t.Fatalf("top of the carve at y=200 not opened")
	}
	if c.Block(8, 201, 8) != Air {
		t.Error("snow layer left floating over a carve")
	}
}

func TestTunnelRadiusBounds(t *testing.T) {
	cc := newCaveCarver(9, DefaultParams())
	for i := 0; i < 5000; i++ {
		pos := mgl64.Vec3{float64(i) * 1.7, float64(i%300 - 50), float64(i) * -0.9}
		r := cc.tunnelRadius(pos)
		if r < minTunnelRadius || r > maxTunnelRadius {
			t.Fatalf("tunnel radius %f outside [%v,%v]", r, minTunnelRadius, maxTunnelRadius)
		}
	}
}

func TestKeepInside(t *testing.T) {
	cc := newCaveCarver(1, DefaultParams())
	reg := cc.newRegion(0, 0)
	yaw, pitch := 0.0, 0.5
	pos := reg.keepInside(mgl64.Vec3{500, 1000, -500}, &yaw, &pitch)
	if pos[0] != reg.maxX || pos[1] != reg.maxY || pos[2] != reg.minZ {
		t.Errorf("keepInside = %v", pos)
	}
	if math.Abs(yaw-(-math.Pi)) > 1e-12 || pitch != -0.5 {
		t.Errorf("heading after bounce yaw=%f pitch=%f", yaw, pitch)
	}
}

func TestCaveKindString(t *testing.T) {
	kinds := map[CaveKind]string{
		Worm:           "worm",
		ChaosTunnel:    "chaos_tunnel",
		Arena:          "arena",
		Staircase:      "staircase",
		OminousPassage: "ominous_passage",
		CaveKind(99):   "unknown",
	}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Errorf("CaveKind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestConnectorOnlyAfterWorms(t *testing.T) {
	p := DefaultParams()
	cc := newCaveCarver(5, p)

	// walk runs one short tunnel and returns how many volumes it opened
	// and where it ended.
	walk := func(kind CaveKind, prior []carved) (int, mgl64.Vec3) {
		reg := cc.newRegion(0, 0)
		reg.carved = append(reg.carved, prior...)
		task := CaveTask{Kind: kind, Origin: mgl64.Vec3{32, 0, 32}, Steps: 20}
		tgt := newCarveTarget(stoneChunk(MinY+1, 100), dryPlan(2, 2, 300), p)
		cc.runTunnel(reg, task, newChunkRNG(5, 0, 0, saltCaveRegion), tgt, chaosStyle)
		return len(reg.carved) - len(prior), reg.carved[len(reg.carved)-1].center
	}

	for _, kind := range []CaveKind{Worm, ChaosTunnel} {
		alone, end := walk(kind, nil)
		near := []carved{{center: end.Add(mgl64.Vec3{6, 0, 0}), radius: 1, task: -1}}
		joined, _ := walk(kind, near)
		switch {
		case kind == Worm && joined <= alone:
			t.Errorf("worm ending near an earlier volume opened no connector")
		case kind == ChaosTunnel && joined != alone:
			t.Errorf("chaos tunnel opened %d extra volumes", joined-alone)
		}
	}
}
