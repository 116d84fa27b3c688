package gen

import "fmt"

// Block is a block state: block id in the high 12 bits, metadata in the low 4.
type Block uint16

// Block ids.
const (
	idAir          = 0
	idStone        = 1
	idGrass        = 2
	idDirt         = 3
	idBedrock      = 7
	idWater        = 9 // stationary water
	idSand         = 12
	idGravel       = 13
	idGoldOre      = 14
	idIronOre      = 15
	idCoalOre      = 16
	idLog          = 17
	idLeaves       = 18
	idLapisOre     = 21
	idObsidian     = 49
	idDiamondOre   = 56
	idRedstoneOre  = 73
	idSnowLayer    = 78
	idIce          = 79
	idSnowBlock    = 80
	idEmeraldOre   = 129
	idPackedIce    = 174
	metaSpruce     = 1
	maxSnowLayers  = 8
	maxBlockMeta   = 0xF
	blockStateBits = 4
)

// Common block states.
const (
	Air        Block = idAir << blockStateBits
	Stone      Block = idStone << blockStateBits
	Grass      Block = idGrass << blockStateBits
	Dirt       Block = idDirt << blockStateBits
	Bedrock    Block = idBedrock << blockStateBits
	Water      Block = idWater << blockStateBits
	Sand       Block = idSand << blockStateBits
	Gravel     Block = idGravel << blockStateBits
	GoldOre    Block = idGoldOre << blockStateBits
	IronOre    Block = idIronOre << blockStateBits
	CoalOre    Block = idCoalOre << blockStateBits
	LapisOre   Block = idLapisOre << blockStateBits
	Obsidian   Block = idObsidian << blockStateBits
	DiamondOre Block = idDiamondOre << blockStateBits
	Redstone   Block = idRedstoneOre << blockStateBits
	EmeraldOre Block = idEmeraldOre << blockStateBits
	SnowLayer  Block = idSnowLayer << blockStateBits
	Ice        Block = idIce << blockStateBits
	SnowBlock  Block = idSnowBlock << blockStateBits
	PackedIce  Block = idPackedIce << blockStateBits
	SpruceLog  Block = idLog<<blockStateBits | metaSpruce
	SpruceLeaf Block = idLeaves<<blockStateBits | metaSpruce
)

// ID returns the block id without metadata.
func (b Block) ID() uint16 { return uint16(b) >> blockStateBits }

// Meta returns the metadata nibble.
func (b Block) Meta() uint8 { return uint8(b & maxBlockMeta) }

// withMeta returns the state of id with metadata meta, or an error when meta
// does not fit the nibble.
func withMeta(id uint16, meta int) (Block, error) {
	if meta < 0 || meta > maxBlockMeta {
		return 0, fmt.Errorf("block %d: metadata %d out of range", id, meta)
	}
	return Block(id<<blockStateBits | uint16(meta)), nil
}

// SnowLayers returns a snow layer block holding n layers. Counts outside
// [1,8] fall back to a single layer.
func SnowLayers(n int) Block {
	if n < 1 || n > maxSnowLayers {
		return SnowLayer
	}
	b, err := withMeta(idSnowLayer, n-1)
	if err != nil {
		return SnowLayer
	}
	return b
}

func (b Block) isSoil() bool {
	id := b.ID()
	return id == idDirt || id == idGrass
}

// carvable reports whether a cave may replace b with air.
func (b Block) carvable() bool {
	switch b.ID() {
	case idAir, idWater, idIce, idPackedIce, idBedrock:
		return false
	}
	return true
}

var blockNames = map[string]Block{
	"air":          Air,
	"stone":        Stone,
	"grass":        Grass,
	"dirt":         Dirt,
	"bedrock":      Bedrock,
	"water":        Water,
	"sand":         Sand,
	"gravel":       Gravel,
	"gold_ore":     GoldOre,
	"iron_ore":     IronOre,
	"coal_ore":     CoalOre,
	"lapis_ore":    LapisOre,
	"obsidian":     Obsidian,
	"diamond_ore":  DiamondOre,
	"redstone_ore": Redstone,
	"emerald_ore":  EmeraldOre,
	"snow_layer":   SnowLayer,
	"ice":          Ice,
	"snow_block":   SnowBlock,
	"packed_ice":   PackedIce,
	"spruce_log":   SpruceLog,
	"spruce_leaf":  SpruceLeaf,
}

// BlockByName resolves a material name such as "coal_ore".
func BlockByName(name string) (Block, bool) {
	b, ok := blockNames[name]
	return b, ok
}
