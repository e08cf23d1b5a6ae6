package world

import (
	"github.com/google/uuid"

	"github.com/OCharnyshevich/voxelworld/internal/server/world/block"
	"github.com/OCharnyshevich/voxelworld/internal/server/world/gen"
)

// State is the generation state of a chunk.
type State uint8

const (
	StateUngenerated State = iota
	StateGenerating
	StateGenerated
	StateModified
)

func (s State) String() string {
	switch s {
	case StateUngenerated:
		return "ungenerated"
	case StateGenerating:
		return "generating"
	case StateGenerated:
		return "generated"
	case StateModified:
		return "modified"
	default:
		return "unknown"
	}
}

// Chunk is a resident chunk: its block grid, generation state and the handle of
// its submitted mesh.
type Chunk struct {
	coord  ChunkCoord
	state  State
	data   *gen.ChunkData
	handle uuid.UUID // uuid.Nil when no mesh is submitted
	faces  int
}

func newChunk(coord ChunkCoord) *Chunk {
	return &Chunk{coord: coord}
}

// Coord returns the chunk's coordinate.
func (c *Chunk) Coord() ChunkCoord { return c.coord }

// State returns the chunk's generation state.
func (c *Chunk) State() State { return c.state }

// Handle returns the render handle of the chunk's mesh, or uuid.Nil.
func (c *Chunk) Handle() uuid.UUID { return c.handle }

// Faces returns the number of faces in the chunk's last mesh.
func (c *Chunk) Faces() int { return c.faces }

// generate fills the chunk from g. Only an ungenerated chunk is generated.
func (c *Chunk) generate(g gen.Generator) {
	if c.state != StateUngenerated {
		return
	}
	c.state = StateGenerating
	c.data = g.Generate(c.coord.X, c.coord.Z)
	c.state = StateGenerated
}

// GetBlock returns the block at chunk-local coordinates. Out-of-range y and
// ungenerated chunks read as Air.
func (c *Chunk) GetBlock(x, y, z int) block.Type {
	if c.data == nil {
		return block.Air
	}
	return c.data.GetBlock(x, y, z)
}

// SetBlock writes a block at chunk-local coordinates and marks the chunk
// modified. It reports false and does nothing for out-of-range y.
func (c *Chunk) SetBlock(x, y, z int, t block.Type) bool {
	if c.data == nil || !gen.InHeight(y) {
		return false
	}
	c.data.SetBlock(x, y, z, t)
	c.state = StateModified
	return true
}
