package gen

// Shoreline band and radius checked by the post passes.
const (
	postBelowSea    = 8
	postAboveSea    = 12
	postWaterRadius = 2
)

// postProcessor enforces sand consistency near sea level after ores and
// caves have run. Both passes are idempotent.
type postProcessor struct {
	p Params
}

func (pp postProcessor) Process(c *ChunkData, pl *columnPlan) {
	lo := max(pp.p.SeaLevel-postBelowSea, MinY)
	hi := min(pp.p.SeaLevel+postAboveSea, MaxY-1)
	for lz := 0; lz < 16; lz++ {
		for lx := 0; lx < 16; lx++ {
			if pl.waterWithin(lx, lz, postWaterRadius) {
				soilToSand(c, lx, lz, lo, hi)
			}
			sandUpward(c, lx, lz, lo, hi)
		}
	}
}

// soilToSand turns dirt and grass in [lo, hi] into sand.
func soilToSand(c *ChunkData, lx, lz, lo, hi int) {
	for y := lo; y <= hi; y++ {
		if c.Block(lx, y, lz).isSoil() {
			c.SetBlock(lx, y, lz, Sand)
		}
	}
}

// sandUpward turns dirt, grass and stone resting above sand into sand.
func sandUpward(c *ChunkData, lx, lz, lo, hi int) {
	seen := false
	for y := lo; y <= hi; y++ {
		b := c.Block(lx, y, lz)
		switch {
		case b == Sand:
			seen = true
		case seen && (b.isSoil() || b == Stone):
			c.SetBlock(lx, y, lz, Sand)
		}
	}
}
