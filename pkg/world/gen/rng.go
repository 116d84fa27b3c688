package gen

// chunkRNG is a small deterministic RNG for per-chunk, per-region and
// per-attempt generation. It is never shared between goroutines.
type chunkRNG struct {
	state uint64
}

func newChunkRNG(seed int64, cx, cz int, salt uint64) *chunkRNG {
	return &chunkRNG{state: Hash(seed, cx, 0, cz, salt)}
}

// fork derives an independent generator, leaving r's sequence untouched
// apart from the one draw used to key the child.
func (r *chunkRNG) fork(salt uint64) *chunkRNG {
	return &chunkRNG{state: mix64(r.next() ^ salt)}
}

func (r *chunkRNG) next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return mix64(r.state)
}

// nextN returns a value in [0, n). n <= 0 yields 0.
func (r *chunkRNG) nextN(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.next() % uint64(n))
}

// rangeInt returns a value in [lo, hi].
func (r *chunkRNG) rangeInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.nextN(hi-lo+1)
}

// float returns a value in [0, 1).
func (r *chunkRNG) float() float64 {
	return float64(r.next()>>11) * unitScale
}

func (r *chunkRNG) rangeFloat(lo, hi float64) float64 {
	return lo + (hi-lo)*r.float()
}

func (r *chunkRNG) chance(p float64) bool {
	return r.float() < p
}
