package gen

import (
	"math"
	"math/rand/v2"

	"github.com/OCharnyshevich/voxelworld/internal/server/world/block"
)

const (
	// terrainScale converts world block coordinates into noise space.
	terrainScale = 0.03
	// MinTerrainHeight is added to every column's noise height.
	MinTerrainHeight = 3
	// subsurfaceDepth is how many layers below the surface use the subsurface block.
	subsurfaceDepth = 4
)

// DefaultGenerator produces biome-driven voxel terrain with trees.
type DefaultGenerator struct {
	terrain *NoiseGenerator
	biomes  *BiomeClassifier
	trees   *TreeGenerator
}

// NewDefaultGenerator creates a DefaultGenerator from a seed.
func NewDefaultGenerator(seed int64) *DefaultGenerator {
	return newDefaultGenerator(NewNoiseGenerator(seed), seed)
}

// NewRandomDefaultGenerator creates a DefaultGenerator whose noise table is
// shuffled from an unseeded source.
func NewRandomDefaultGenerator() *DefaultGenerator {
	return newDefaultGenerator(NewRandomNoiseGenerator(), rand.Int64())
}

func newDefaultGenerator(ng *NoiseGenerator, seed int64) *DefaultGenerator {
	return &DefaultGenerator{
		terrain: ng,
		biomes:  NewBiomeClassifier(ng),
		trees:   NewTreeGenerator(seed),
	}
}

// Biomes exposes the classifier used by this generator.
func (g *DefaultGenerator) Biomes() *BiomeClassifier {
	return g.biomes
}

func (g *DefaultGenerator) Generate(chunkX, chunkZ int) *ChunkData {
	c := &ChunkData{}

	// Pass 1: heightmap, biomes and column fill.
	var heights [ChunkSize][ChunkSize]int
	var params [ChunkSize][ChunkSize]BiomeParams
	for x := 0; x < ChunkSize; x++ {
		for z := 0; z < ChunkSize; z++ {
			bx := chunkX*ChunkSize + x
			bz := chunkZ*ChunkSize + z

			p := g.biomes.Classify(bx, bz)
			c.SetBiome(x, z, p.Biome)
			params[x][z] = p

			height := g.terrainHeight(bx, bz, p)
			heights[x][z] = height

			fillColumn(c, x, z, height, p)
		}
	}

	// Pass 2: trees, once every column is filled so canopies are not overwritten.
	g.trees.Decorate(c, chunkX, chunkZ, &heights, &params)

	return c
}

func (g *DefaultGenerator) HeightAt(blockX, blockZ int) int {
	return g.terrainHeight(blockX, blockZ, g.biomes.Classify(blockX, blockZ))
}

// terrainHeight computes floor((noise+1)*heightScale + MinTerrainHeight),
// clamped to the world's vertical range.
func (g *DefaultGenerator) terrainHeight(bx, bz int, p BiomeParams) int {
	n := g.terrain.Noise2D(float64(bx)*terrainScale, float64(bz)*terrainScale)
	h := int(math.Floor((n+1)*p.HeightScale + MinTerrainHeight))
	if h < 1 {
		h = 1
	}
	if h > WorldHeight-1 {
		h = WorldHeight - 1
	}
	return h
}

// fillColumn fills a single block column bottom to top.
func fillColumn(c *ChunkData, x, z, height int, p BiomeParams) {
	c.SetBlock(x, 0, z, block.Stone)
	for y := 1; y <= height-subsurfaceDepth; y++ {
		c.SetBlock(x, y, z, block.Stone)
	}
	for y := max(1, height-subsurfaceDepth+1); y < height; y++ {
		c.SetBlock(x, y, z, p.Subsurface)
	}
	c.SetBlock(x, height, z, p.Surface)
	for y := height + 1; y <= p.WaterLevel && y < WorldHeight; y++ {
		c.SetBlock(x, y, z, block.Water)
	}
}
