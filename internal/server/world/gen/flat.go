package gen

import "github.com/OCharnyshevich/voxelworld/internal/server/world/block"

// FlatGenerator generates a flat world:
// stone at y=0..2, dirt at y=3, grass at y=4.
type FlatGenerator struct{}

// NewFlatGenerator creates a FlatGenerator.
func NewFlatGenerator() *FlatGenerator {
	return &FlatGenerator{}
}

func (g *FlatGenerator) Generate(_, _ int) *ChunkData {
	c := &ChunkData{}

	for x := 0; x < ChunkSize; x++ {
		for z := 0; z < ChunkSize; z++ {
			c.SetBlock(x, 0, z, block.Stone)
			c.SetBlock(x, 1, z, block.Stone)
			c.SetBlock(x, 2, z, block.Stone)
			c.SetBlock(x, 3, z, block.Dirt)
			c.SetBlock(x, 4, z, block.Grass)
			c.SetBiome(x, z, Plains)
		}
	}
	return c
}

func (g *FlatGenerator) HeightAt(_, _ int) int {
	return 4 // top solid block is at y=4 (grass)
}
