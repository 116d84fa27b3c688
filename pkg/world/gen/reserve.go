package gen

import "sync"

// Reserve forces a flat pad of HeightY over every column within Radius
// blocks of (CenterX, CenterZ).
type Reserve struct {
	CenterX int `toml:"center_x" yaml:"center_x"`
	CenterZ int `toml:"center_z" yaml:"center_z"`
	HeightY int `toml:"height_y" yaml:"height_y"`
	Radius  int `toml:"radius" yaml:"radius"`
}

// Contains reports whether the column lies inside the pad.
func (r Reserve) Contains(x, z int) bool {
	dx, dz := x-r.CenterX, z-r.CenterZ
	return dx*dx+dz*dz <= r.Radius*r.Radius
}

func (r Reserve) overlaps(o Reserve) bool {
	dx, dz := r.CenterX-o.CenterX, r.CenterZ-o.CenterZ
	s := r.Radius + o.Radius
	return dx*dx+dz*dz <= s*s
}

func (r Reserve) intersects(minX, minZ, maxX, maxZ int) bool {
	return r.CenterX+r.Radius >= minX && r.CenterX-r.Radius <= maxX &&
		r.CenterZ+r.Radius >= minZ && r.CenterZ-r.Radius <= maxZ
}

// Reserves is the registry of flat-area reserves and placed structure
// sites shared by every chunk generation of a world. All methods are safe
// for concurrent use; a reserve registered before a chunk starts generating
// is always observed by that chunk.
type Reserves struct {
	mu      sync.RWMutex
	list    []Reserve
	byChunk map[ChunkPos][]int // indices into list, in registration order
	sites   []Reserve
}

// NewReserves returns an empty registry.
func NewReserves() *Reserves {
	return &Reserves{byChunk: make(map[ChunkPos][]int)}
}

// ReserveFlatArea registers a pad. Later registrations win where pads overlap.
func (rs *Reserves) ReserveFlatArea(centerX, centerZ, height, radius int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.insertLocked(Reserve{CenterX: centerX, CenterZ: centerZ, HeightY: height, Radius: max(radius, 0)})
}

func (rs *Reserves) insertLocked(r Reserve) {
	idx := len(rs.list)
	rs.list = append(rs.list, r)
	for cz := floorDiv(r.CenterZ-r.Radius, 16); cz <= floorDiv(r.CenterZ+r.Radius, 16); cz++ {
		for cx := floorDiv(r.CenterX-r.Radius, 16); cx <= floorDiv(r.CenterX+r.Radius, 16); cx++ {
			pos := ChunkPos{X: cx, Z: cz}
			rs.byChunk[pos] = append(rs.byChunk[pos], idx)
		}
	}
}

// TryPlace registers r as a structure site, and as a reserve, unless it
// overlaps a site placed earlier. The check and the insert are atomic.
func (rs *Reserves) TryPlace(r Reserve) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for _, s := range rs.sites {
		if s.overlaps(r) {
			return false
		}
	}
	rs.sites = append(rs.sites, r)
	rs.insertLocked(r)
	return true
}

// At returns the newest reserve covering the column.
func (rs *Reserves) At(x, z int) (Reserve, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	idx := rs.byChunk[ChunkPos{X: floorDiv(x, 16), Z: floorDiv(z, 16)}]
	for i := len(idx) - 1; i >= 0; i-- {
		if r := rs.list[idx[i]]; r.Contains(x, z) {
			return r, true
		}
	}
	return Reserve{}, false
}

// Within returns a snapshot, in registration order, of the reserves whose
// bounding square intersects the block rectangle.
func (rs *Reserves) Within(minX, minZ, maxX, maxZ int) []Reserve {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	var out []Reserve
	for _, r := range rs.list {
		if r.intersects(minX, minZ, maxX, maxZ) {
			out = append(out, r)
		}
	}
	return out
}

// All returns a snapshot of every reserve.
func (rs *Reserves) All() []Reserve {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return append([]Reserve(nil), rs.list...)
}

// Sites returns a snapshot of the placed structure sites.
func (rs *Reserves) Sites() []Reserve {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return append([]Reserve(nil), rs.sites...)
}

// Restore replaces the registry contents, e.g. after loading them from disk.
func (rs *Reserves) Restore(reserves, sites []Reserve) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.list = nil
	rs.byChunk = make(map[ChunkPos][]int)
	for _, r := range reserves {
		rs.insertLocked(r)
	}
	rs.sites = append([]Reserve(nil), sites...)
}

// reserveAt is At over a snapshot.
func reserveAt(list []Reserve, x, z int) (Reserve, bool) {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Contains(x, z) {
			return list[i], true
		}
	}
	return Reserve{}, false
}
