package gen

import (
	"math"

	"github.com/ojrac/opensimplex-go"

	"github.com/OCharnyshevich/voxelworld/internal/server/world/block"
)

const (
	cellSize       = 4
	towerWidth     = 3
	buildChance    = 0.3
	groundTop      = 2
	minTower       = 6
	towerVariance  = 20
	towerNoiseFreq = 0.15
)

// CityGenerator lays out stone towers on a regular cell grid over flat ground.
// Placement uses a sine hash of the cell coordinate and tower height comes
// from simplex noise, so a cell always yields the same tower.
type CityGenerator struct {
	noise opensimplex.Noise
}

// NewCityGenerator creates a CityGenerator from a seed.
func NewCityGenerator(seed int64) *CityGenerator {
	return &CityGenerator{noise: opensimplex.NewNormalized(seed)}
}

func (g *CityGenerator) Generate(chunkX, chunkZ int) *ChunkData {
	c := &ChunkData{}

	for x := 0; x < ChunkSize; x++ {
		for z := 0; z < ChunkSize; z++ {
			c.SetBlock(x, 0, z, block.Stone)
			c.SetBlock(x, 1, z, block.Dirt)
			c.SetBlock(x, groundTop, z, block.Grass)
			c.SetBiome(x, z, Plains)

			top := g.HeightAt(chunkX*ChunkSize+x, chunkZ*ChunkSize+z)
			for y := groundTop + 1; y <= top; y++ {
				c.SetBlock(x, y, z, block.Stone)
			}
		}
	}
	return c
}

func (g *CityGenerator) HeightAt(blockX, blockZ int) int {
	cx, ox := FloorDiv(blockX, cellSize), Mod(blockX, cellSize)
	cz, oz := FloorDiv(blockZ, cellSize), Mod(blockZ, cellSize)
	if ox >= towerWidth || oz >= towerWidth {
		return groundTop
	}
	h, ok := g.tower(cx, cz)
	if !ok {
		return groundTop
	}
	return h
}

// tower reports whether the cell holds a tower and the y of its roof.
func (g *CityGenerator) tower(cellX, cellZ int) (int, bool) {
	r := math.Abs(math.Sin(float64(cellX)*10000+float64(cellZ))) * 0.999999
	if r >= buildChance {
		return 0, false
	}
	n := g.noise.Eval2(float64(cellX)*towerNoiseFreq, float64(cellZ)*towerNoiseFreq)
	h := groundTop + minTower + int(n*towerVariance)
	if h > WorldHeight-1 {
		h = WorldHeight - 1
	}
	return h, true
}
