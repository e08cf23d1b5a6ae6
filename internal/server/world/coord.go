package world

import (
	"fmt"
	"math"

	"github.com/OCharnyshevich/voxelworld/internal/server/world/gen"
)

// ChunkCoord identifies a chunk column by its X and Z chunk coordinates.
type ChunkCoord struct{ X, Z int }

// LocalCoord is a block position inside a chunk. X and Z are in [0, ChunkSize).
type LocalCoord struct{ X, Y, Z int }

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// ChunkOf returns the chunk containing the world block column (x, z).
func ChunkOf(x, z int) ChunkCoord {
	return ChunkCoord{X: gen.FloorDiv(x, gen.ChunkSize), Z: gen.FloorDiv(z, gen.ChunkSize)}
}

// ChunkOfPos returns the chunk containing a continuous world position.
func ChunkOfPos(x, z float64) ChunkCoord {
	return ChunkOf(int(math.Floor(x)), int(math.Floor(z)))
}

// Split converts a world block position into its chunk and chunk-local coordinates.
func Split(x, y, z int) (ChunkCoord, LocalCoord) {
	return ChunkOf(x, z), LocalCoord{X: gen.Mod(x, gen.ChunkSize), Y: y, Z: gen.Mod(z, gen.ChunkSize)}
}

// World returns the world block position of a chunk-local coordinate.
func (c ChunkCoord) World(l LocalCoord) (x, y, z int) {
	return c.X*gen.ChunkSize + l.X, l.Y, c.Z*gen.ChunkSize + l.Z
}

// Chebyshev returns the chessboard distance between two chunk coordinates.
func (c ChunkCoord) Chebyshev(o ChunkCoord) int {
	return max(abs(c.X-o.X), abs(c.Z-o.Z))
}

// distSq is the squared Euclidean distance in chunk units.
func (c ChunkCoord) distSq(o ChunkCoord) int {
	dx, dz := c.X-o.X, c.Z-o.Z
	return dx*dx + dz*dz
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
