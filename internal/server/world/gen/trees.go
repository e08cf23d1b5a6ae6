package gen

import "github.com/OCharnyshevich/voxelworld/internal/server/world/block"

const (
	treeSalt       = 600
	minTrunk       = 4
	trunkVariance  = 3 // trunk height in [minTrunk, minTrunk+trunkVariance)
	canopyRadius   = 2
	canopyRadiusSq = 6
	canopyFill     = 0.6
)

// TreeGenerator places trees on generated terrain.
type TreeGenerator struct {
	seed int64
}

// NewTreeGenerator creates a TreeGenerator from a seed.
func NewTreeGenerator(seed int64) *TreeGenerator {
	return &TreeGenerator{seed: seed}
}

// Decorate rolls each column against its biome's tree density and places trees.
// Trees never write outside the chunk.
func (tg *TreeGenerator) Decorate(c *ChunkData, chunkX, chunkZ int, heights *[ChunkSize][ChunkSize]int, params *[ChunkSize][ChunkSize]BiomeParams) {
	rng := newChunkRNG(tg.seed, chunkX, chunkZ, treeSalt)

	for x := 0; x < ChunkSize; x++ {
		for z := 0; z < ChunkSize; z++ {
			p := params[x][z]
			if p.TreeDensity <= 0 {
				continue
			}
			if rng.nextFloat() >= p.TreeDensity {
				continue
			}
			h := heights[x][z]
			if h <= WaterLevel {
				continue
			}
			tg.placeTree(c, x, h+1, z, rng)
		}
	}
}

// placeTree places a trunk starting at baseY and a leaf cluster around its top.
func (tg *TreeGenerator) placeTree(c *ChunkData, x, baseY, z int, rng *chunkRNG) {
	trunk := minTrunk + rng.nextN(trunkVariance)
	top := baseY + trunk - 1
	for y := baseY; y <= top; y++ {
		c.SetBlock(x, y, z, block.Wood)
	}

	for dy := -canopyRadius; dy <= canopyRadius; dy++ {
		for dx := -canopyRadius; dx <= canopyRadius; dx++ {
			for dz := -canopyRadius; dz <= canopyRadius; dz++ {
				d := dx*dx + dy*dy + dz*dz
				if d > canopyRadiusSq {
					continue
				}
				// Outer shell is sparse, the core is always filled.
				if d > 2 && rng.nextFloat() >= canopyFill {
					continue
				}
				lx, ly, lz := x+dx, top+1+dy, z+dz
				if !inChunk(lx, lz) || !InHeight(ly) {
					continue
				}
				if c.GetBlock(lx, ly, lz) != block.Air {
					continue
				}
				c.SetBlock(lx, ly, lz, block.Leaves)
			}
		}
	}
}
