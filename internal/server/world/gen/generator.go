package gen

import "github.com/OCharnyshevich/voxelworld/internal/server/world/block"

const (
	// ChunkSize is the width of a chunk along X and Z.
	ChunkSize = 16
	// WorldHeight is the number of block layers in every column.
	WorldHeight = 32
	// ChunkVolume is the number of cells in one chunk.
	ChunkVolume = ChunkSize * WorldHeight * ChunkSize
)

// ChunkData holds the block grid for one chunk column.
// Index = y*ChunkSize*ChunkSize + z*ChunkSize + x.
type ChunkData struct {
	Blocks [ChunkVolume]block.Type
	Biomes [ChunkSize * ChunkSize]Biome // index = z*ChunkSize + x
}

// Generator produces chunk data deterministically for a chunk coordinate.
type Generator interface {
	Generate(chunkX, chunkZ int) *ChunkData
	HeightAt(blockX, blockZ int) int
}

// Index flattens chunk-local coordinates. x and z are not range checked.
func Index(x, y, z int) int {
	return y*ChunkSize*ChunkSize + z*ChunkSize + x
}

// InHeight reports whether y lies inside the world's vertical range.
func InHeight(y int) bool {
	return y >= 0 && y < WorldHeight
}

// SetBlock sets a block at the given local coordinates within the chunk.
// Writes with y outside [0, WorldHeight) are ignored.
func (c *ChunkData) SetBlock(x, y, z int, t block.Type) {
	if !InHeight(y) {
		return
	}
	c.Blocks[Index(x, y, z)] = t
}

// GetBlock returns the block at the given local coordinates.
// Reads with y outside [0, WorldHeight) return Air.
func (c *ChunkData) GetBlock(x, y, z int) block.Type {
	if !InHeight(y) {
		return block.Air
	}
	return c.Blocks[Index(x, y, z)]
}

// SetBiome sets the biome at the given local x, z coordinates.
func (c *ChunkData) SetBiome(x, z int, b Biome) {
	c.Biomes[z*ChunkSize+x] = b
}

// Biome returns the biome recorded for the given local column.
func (c *ChunkData) Biome(x, z int) Biome {
	return c.Biomes[z*ChunkSize+x]
}

func inChunk(x, z int) bool {
	return x >= 0 && x < ChunkSize && z >= 0 && z < ChunkSize
}
