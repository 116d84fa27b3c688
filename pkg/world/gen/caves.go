package gen

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/ojrac/opensimplex-go"
)

// CaveKind selects how a CaveTask carves.
type CaveKind uint8

const (
	Worm CaveKind = iota
	ChaosTunnel
	Arena
	Staircase
	OminousPassage
)

func (k CaveKind) String() string {
	switch k {
	case Worm:
		return "worm"
	case ChaosTunnel:
		return "chaos_tunnel"
	case Arena:
		return "arena"
	case Staircase:
		return "staircase"
	case OminousPassage:
		return "ominous_passage"
	default:
		return "unknown"
	}
}

// CaveTask is one unit of work on a region's cave queue.
type CaveTask struct {
	Kind   CaveKind
	Origin mgl64.Vec3
	Yaw    float64
	Pitch  float64
	Steps  int
}

const (
	caveRegionSize = 64
	caveSlack      = 16 // how far a walker may leave its region box
	caveMaxRadius  = 14 // no carve is wider than this
	caveReach      = caveSlack + caveMaxRadius + 2
	caveCrust      = 4 // lowland columns keep this many blocks of surface

	initialWormsMin = 2
	initialWormsMax = 3
	wormMinSteps    = 220
	wormMaxSteps    = 320
	overshootMin    = 6
	overshootMax    = 15
	stepLength      = 1.0
	pitchLimit      = 0.7

	minTunnelRadius = 0.8
	maxTunnelRadius = 6.0
	radiusScale     = 0.08
	roomChance      = 0.01
	roomMinRadius   = 6.0
	roomMaxRadius   = 9.0

	dentMaxY          = 165
	dentSearch        = 12.0
	connectorRadius   = 1.5
	childChance       = 0.2
	ominousWeight     = 50
	arenaWeight       = 30
	staircaseWeight   = 20
	ominousShaftSteps = 25
	ominousWormChance = 0.3
)

// tunnelStyle is the steering jitter per step.
type tunnelStyle struct {
	yaw, pitch float64
}

var (
	wormStyle  = tunnelStyle{yaw: 0.15, pitch: 0.08}
	chaosStyle = tunnelStyle{yaw: 0.55, pitch: 0.3}
)

// caveCarver runs the region task queues that overlap a chunk and clips
// their carving to it.
type caveCarver struct {
	seed   int64
	p      Params
	radius opensimplex.Noise
}

func newCaveCarver(seed int64, p Params) caveCarver {
	return caveCarver{seed: seed, p: p, radius: opensimplex.New(seed + int64(saltCaveRegion))}
}

// carved is a volume a region has already opened, kept for connectors.
type carved struct {
	center mgl64.Vec3
	radius float64
	task   int
}

// caveRegion is the state machine of one 64×64 region.
type caveRegion struct {
	rx, rz  int
	rng     *chunkRNG
	queue   []CaveTask
	created int
	current int // index of the task being run
	limit   int
	carved  []carved

	minX, maxX, minZ, maxZ float64
	minY, maxY             float64
}

// push enqueues t unless the region already created its task quota.
func (r *caveRegion) push(t CaveTask) bool {
	if r.created >= r.limit {
		return false
	}
	r.created++
	r.queue = append(r.queue, t)
	return true
}

// keepInside clamps pos into the region box and bounces the heading off
// whichever wall it crossed.
func (r *caveRegion) keepInside(pos mgl64.Vec3, yaw, pitch *float64) mgl64.Vec3 {
	if pos[0] < r.minX || pos[0] > r.maxX {
		pos[0] = mgl64.Clamp(pos[0], r.minX, r.maxX)
		*yaw = math.Pi - *yaw
	}
	if pos[2] < r.minZ || pos[2] > r.maxZ {
		pos[2] = mgl64.Clamp(pos[2], r.minZ, r.maxZ)
		*yaw = -*yaw
	}
	if pos[1] < r.minY || pos[1] > r.maxY {
		pos[1] = mgl64.Clamp(pos[1], r.minY, r.maxY)
		*pitch = -*pitch
	}
	return pos
}

func (r *caveRegion) randomPoint(rng *chunkRNG) mgl64.Vec3 {
	return mgl64.Vec3{
		float64(r.rx*caveRegionSize) + rng.float()*caveRegionSize,
		rng.rangeFloat(r.minY, r.maxY),
		float64(r.rz*caveRegionSize) + rng.float()*caveRegionSize,
	}
}

// Carve simulates every region whose carving can reach the chunk. Region
// simulation never reads chunk blocks, so adjacent chunks replay identical
// tunnels and only the clipping differs.
func (cc caveCarver) Carve(c *ChunkData, pl *columnPlan) int {
	t := newCarveTarget(c, pl, cc.p)
	minRX := floorDiv(pl.chunkX*16-caveReach, caveRegionSize)
	maxRX := floorDiv(pl.chunkX*16+15+caveReach, caveRegionSize)
	minRZ := floorDiv(pl.chunkZ*16-caveReach, caveRegionSize)
	maxRZ := floorDiv(pl.chunkZ*16+15+caveReach, caveRegionSize)
	for rz := minRZ; rz <= maxRZ; rz++ {
		for rx := minRX; rx <= maxRX; rx++ {
			cc.simulate(rx, rz, t)
		}
	}
	return t.count
}

func (cc caveCarver) newRegion(rx, rz int) *caveRegion {
	x0, z0 := float64(rx*caveRegionSize), float64(rz*caveRegionSize)
	return &caveRegion{
		rx:    rx,
		rz:    rz,
		rng:   newChunkRNG(cc.seed, rx, rz, saltCaveRegion),
		limit: cc.p.CaveTaskLimit,
		minX:  x0 - caveSlack,
		maxX:  x0 + caveRegionSize + caveSlack,
		minZ:  z0 - caveSlack,
		maxZ:  z0 + caveRegionSize + caveSlack,
		minY:  float64(cc.p.bedrockTop() + 4),
		maxY:  float64(cc.p.CaveCeilingY),
	}
}

// simulate drains the region's task queue. It returns the number of tasks
// that ran.
func (cc caveCarver) simulate(rx, rz int, t *carveTarget) int {
	reg := cc.newRegion(rx, rz)
	n := reg.rng.rangeInt(initialWormsMin, initialWormsMax)
	for i := 0; i < n; i++ {
		reg.push(CaveTask{
			Kind:   Worm,
			Origin: reg.randomPoint(reg.rng),
			Yaw:    reg.rng.float() * 2 * math.Pi,
			Pitch:  reg.rng.rangeFloat(-0.3, 0.3),
			Steps:  reg.rng.rangeInt(wormMinSteps, wormMaxSteps),
		})
	}
	ran := 0
	for len(reg.queue) > 0 {
		task := reg.queue[0]
		reg.queue = reg.queue[1:]
		reg.current = ran
		rng := reg.rng.fork(uint64(ran))
		switch task.Kind {
		case Worm:
			cc.runTunnel(reg, task, rng, t, wormStyle)
		case ChaosTunnel:
			cc.runTunnel(reg, task, rng, t, chaosStyle)
		case Arena:
			cc.runArena(reg, task, rng, t)
		case Staircase:
			cc.runStaircase(reg, task, rng, t)
		case OminousPassage:
			cc.runOminous(reg, task, rng, t)
		}
		ran++
	}
	return ran
}

func heading(yaw, pitch float64) mgl64.Vec3 {
	cp := math.Cos(pitch)
	return mgl64.Vec3{cp * math.Cos(yaw), math.Sin(pitch), cp * math.Sin(yaw)}
}

// tunnelRadius modulates the carve radius along the path.
func (cc caveCarver) tunnelRadius(pos mgl64.Vec3) float64 {
	n := (cc.radius.Eval3(pos[0]*radiusScale, pos[1]*radiusScale, pos[2]*radiusScale) + 1) / 2
	r := minTunnelRadius + (maxTunnelRadius-minTunnelRadius)*math.Pow(clamp01(n), 1.5)
	return mgl64.Clamp(r, minTunnelRadius, maxTunnelRadius)
}

// sphere carves and records a ball.
func (cc caveCarver) sphere(reg *caveRegion, t *carveTarget, center mgl64.Vec3, r float64) {
	reg.carved = append(reg.carved, carved{center: center, radius: r, task: reg.current})
	t.ellipsoid(center, r, r, r)
}

// runTunnel walks a Worm or ChaosTunnel, then overshoots with a shrinking
// radius so later tunnels are more likely to meet it.
func (cc caveCarver) runTunnel(reg *caveRegion, task CaveTask, rng *chunkRNG, t *carveTarget, style tunnelStyle) {
	pos, yaw, pitch := task.Origin, task.Yaw, task.Pitch
	overshoot := rng.rangeInt(overshootMin, overshootMax)
	path := make([]mgl64.Vec3, 0, task.Steps)
	for step := 0; step < task.Steps+overshoot; step++ {
		yaw += (2*rng.float() - 1) * style.yaw
		pitch = mgl64.Clamp(pitch*0.9+(2*rng.float()-1)*style.pitch, -pitchLimit, pitchLimit)
		pos = reg.keepInside(pos.Add(heading(yaw, pitch).Mul(stepLength)), &yaw, &pitch)

		r := cc.tunnelRadius(pos)
		if step >= task.Steps {
			left := float64(task.Steps+overshoot-step) / float64(overshoot+1)
			r = math.Max(minTunnelRadius, r*left)
		} else {
			path = append(path, pos)
			if rng.chance(roomChance) {
				r = rng.rangeFloat(roomMinRadius, roomMaxRadius)
			}
		}
		cc.sphere(reg, t, pos, r)
	}

	if task.Kind == Worm && pos[1] <= dentMaxY {
		cc.dentTowardsAir(reg, pos, t)
	}
	if task.Kind == Worm && len(path) > 0 && rng.chance(childChance) {
		cc.spawnChild(reg, path[rng.nextN(len(path))], rng)
	}
}

// spawnChild queues an intersecting task picked by weight.
func (cc caveCarver) spawnChild(reg *caveRegion, at mgl64.Vec3, rng *chunkRNG) {
	task := CaveTask{Origin: at, Yaw: rng.float() * 2 * math.Pi}
	switch roll := rng.nextN(ominousWeight + arenaWeight + staircaseWeight); {
	case roll < ominousWeight:
		task.Kind = OminousPassage
		task.Steps = ominousShaftSteps
	case roll < ominousWeight+arenaWeight:
		task.Kind = Arena
	default:
		task.Kind = Staircase
		task.Steps = rng.rangeInt(40, 80)
	}
	reg.push(task)
}

// runArena carves one ellipsoidal chamber, then opens either a vertical
// passage from its centre or a lateral tunnel from a wall point.
func (cc caveCarver) runArena(reg *caveRegion, task CaveTask, rng *chunkRNG, t *carveTarget) {
	center := task.Origin
	rx, ry, rz := rng.rangeFloat(7, 12), rng.rangeFloat(4, 7), rng.rangeFloat(7, 12)
	reg.carved = append(reg.carved, carved{center: center, radius: math.Min(rx, math.Min(ry, rz)), task: reg.current})
	t.ellipsoid(center, rx, ry, rz)

	if rng.chance(0.5) {
		reg.push(CaveTask{Kind: OminousPassage, Origin: center, Steps: ominousShaftSteps})
		return
	}
	angle := rng.float() * 2 * math.Pi
	wall := center.Add(mgl64.Vec3{math.Cos(angle) * rx, 0, math.Sin(angle) * rz})
	kind := Worm
	if rng.chance(0.5) {
		kind = ChaosTunnel
	}
	reg.push(CaveTask{
		Kind:   kind,
		Origin: wall,
		Yaw:    angle,
		Pitch:  rng.rangeFloat(-0.2, 0.2),
		Steps:  rng.rangeInt(wormMinSteps, wormMaxSteps),
	})
}

// runStaircase descends one block every other step while turning slowly.
func (cc caveCarver) runStaircase(reg *caveRegion, task CaveTask, rng *chunkRNG, t *carveTarget) {
	pos, yaw := task.Origin, task.Yaw
	pitch := 0.0
	for step := 0; step < task.Steps; step++ {
		yaw += (2*rng.float() - 1) * 0.1
		d := heading(yaw, 0)
		if step%2 == 1 {
			d[1] = -1
		}
		pos = reg.keepInside(pos.Add(d), &yaw, &pitch)
		cc.sphere(reg, t, pos, rng.rangeFloat(1.5, 2.5))
	}
	if pos[1] <= dentMaxY {
		cc.dentTowardsAir(reg, pos, t)
	}
}

// runOminous flares at the top, drops a capped vertical shaft and flares
// again at the bottom.
func (cc caveCarver) runOminous(reg *caveRegion, task CaveTask, rng *chunkRNG, t *carveTarget) {
	pos := task.Origin
	cc.sphere(reg, t, pos, rng.rangeFloat(4, 6))
	steps := min(task.Steps, ominousShaftSteps)
	for step := 0; step < steps && pos[1] > reg.minY; step++ {
		drop := 1.0
		if rng.chance(0.15) {
			drop = 2
		}
		pos[1] = math.Max(pos[1]-drop, reg.minY)
		cc.sphere(reg, t, pos, rng.rangeFloat(1.5, 2.5))
	}
	cc.sphere(reg, t, pos, rng.rangeFloat(3.5, 5.5))
	if rng.chance(ominousWormChance) {
		reg.push(CaveTask{
			Kind:   Worm,
			Origin: pos,
			Yaw:    rng.float() * 2 * math.Pi,
			Steps:  rng.rangeInt(wormMinSteps, wormMaxSteps),
		})
	}
}

// dentTowardsAir joins a tunnel end to the nearest volume an earlier task
// of the region opened within dentSearch blocks.
func (cc caveCarver) dentTowardsAir(reg *caveRegion, end mgl64.Vec3, t *carveTarget) {
	best := -1
	bestGap := dentSearch
	for i, v := range reg.carved {
		if v.task == reg.current {
			continue
		}
		gap := end.Sub(v.center).Len() - v.radius
		if gap <= 0 {
			return
		}
		if gap < bestGap {
			best, bestGap = i, gap
		}
	}
	if best < 0 {
		return
	}
	target := reg.carved[best]
	dir := target.center.Sub(end).Normalize()
	to := end.Add(dir.Mul(bestGap + 1))
	n := int(math.Ceil(bestGap)) + 1
	for i := 0; i <= n; i++ {
		p := end.Add(to.Sub(end).Mul(float64(i) / float64(n)))
		cc.sphere(reg, t, p, connectorRadius)
	}
}

// carveTarget clips carving to one chunk and enforces the protections.
type carveTarget struct {
	c      *ChunkData
	p      Params
	ox, oz int
	// ceiling is the highest y that may be opened in each column.
	ceiling [256]int
	count   int
}

func newCarveTarget(c *ChunkData, pl *columnPlan, p Params) *carveTarget {
	t := &carveTarget{c: c, p: p, ox: pl.chunkX * 16, oz: pl.chunkZ * 16}
	for lz := 0; lz < 16; lz++ {
		for lx := 0; lx < 16; lx++ {
			surface := pl.height[planIndex(lx, lz)]
			ceil := MaxY - 1
			if surface < p.MountainThreshold {
				ceil = surface - caveCrust
			}
			if floor, ok := waterFloorWithin(pl, lx, lz, p.OceanSafeR); ok {
				ceil = min(ceil, p.OceanSafeY, floor-3)
			}
			t.ceiling[lz*16+lx] = ceil
		}
	}
	return t
}

// waterFloorWithin returns the lowest solid top among water columns within r.
func waterFloorWithin(pl *columnPlan, lx, lz, r int) (int, bool) {
	floor, found := MaxY, false
	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dz*dz > r*r || !inPlan(lx+dx, lz+dz) {
				continue
			}
			i := planIndex(lx+dx, lz+dz)
			if pl.water[i] {
				floor, found = min(floor, pl.height[i]), true
			}
		}
	}
	return floor, found
}

// ellipsoid opens every cell inside the radii and hardens soil in the
// one-block shell around it.
func (t *carveTarget) ellipsoid(center mgl64.Vec3, rx, ry, rz float64) {
	rx, ry, rz = math.Min(rx, caveMaxRadius), math.Min(ry, caveMaxRadius), math.Min(rz, caveMaxRadius)
	x0 := max(int(math.Floor(center[0]-rx-1))-t.ox, 0)
	x1 := min(int(math.Floor(center[0]+rx+1))-t.ox, 15)
	z0 := max(int(math.Floor(center[2]-rz-1))-t.oz, 0)
	z1 := min(int(math.Floor(center[2]+rz+1))-t.oz, 15)
	if x0 > x1 || z0 > z1 {
		return
	}
	y0 := max(int(math.Floor(center[1]-ry-1)), t.p.bedrockTop()+1)
	y1 := min(int(math.Floor(center[1]+ry+1)), MaxY-1)

	for lz := z0; lz <= z1; lz++ {
		dz := (float64(lz+t.oz) + 0.5 - center[2])
		for lx := x0; lx <= x1; lx++ {
			dx := (float64(lx+t.ox) + 0.5 - center[0])
			for y := y0; y <= y1; y++ {
				dy := float64(y) + 0.5 - center[1]
				inner := sq(dx/rx) + sq(dy/ry) + sq(dz/rz)
				if inner <= 1 {
					t.open(lx, y, lz)
					continue
				}
				if sq(dx/(rx+1))+sq(dy/(ry+1))+sq(dz/(rz+1)) <= 1 {
					t.harden(lx, y, lz)
				}
			}
		}
	}
}

func (t *carveTarget) open(lx, y, lz int) {
	if y <= t.p.bedrockTop() || y > t.ceiling[lz*16+lx] {
		return
	}
	if !t.c.Block(lx, y, lz).carvable() {
		return
	}
	t.c.SetBlock(lx, y, lz, Air)
	t.count++
	if t.c.Block(lx, y+1, lz).ID() == idSnowLayer {
		t.c.SetBlock(lx, y+1, lz, Air)
	}
}

func (t *carveTarget) harden(lx, y, lz int) {
	if y <= t.p.WallHardenY || y > t.ceiling[lz*16+lx]+1 {
		return
	}
	if t.c.Block(lx, y, lz).isSoil() {
		t.c.SetBlock(lx, y, lz, Stone)
	}
}

func sq(v float64) float64 { return v * v }
