package gen

import "testing"

func TestFlatGeneratorLayers(t *testing.T) {
	c := NewFlatGenerator(0).Generate(3, -7)
	layers := []Block{Bedrock, Stone, Stone, Dirt, Grass, SnowLayer, Air}
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			for i, want := range layers {
				if got := c.Block(x, MinY+i, z); got != want {
					t.Fatalf("block at (%d,%d,%d) = %d, want %d", x, MinY+i, z, got, want)
				}
			}
			if c.Biome(x, z) != BiomeSnowyPlains {
				t.Fatalf("biome at (%d,%d) = %v", x, z, c.Biome(x, z))
			}
			if h := c.SurfaceHeight(x, z); h != MinY+5 {
				t.Fatalf("SurfaceHeight(%d,%d) = %d, want %d", x, z, h, MinY+5)
			}
		}
	}
}

func TestFlatGeneratorHeightAt(t *testing.T) {
	g := NewFlatGenerator(0)
	if h := g.HeightAt(1000, -1000); h != MinY+4 {
		t.Errorf("HeightAt = %d, want %d", h, MinY+4)
	}
}
