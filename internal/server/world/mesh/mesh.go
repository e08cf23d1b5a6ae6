// Package mesh turns a chunk's block grid into flat triangle lists.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxelworld/internal/server/world/block"
	"github.com/OCharnyshevich/voxelworld/internal/server/world/gen"
)

// AOStrength is the color reduction per occluding diagonal neighbor.
const AOStrength = 0.15

// VerticesPerFace is the vertex count of one quad split into two triangles.
const VerticesPerFace = 6

// Source resolves cells while meshing. Local is only called with in-chunk x/z
// and in-range y. World resolves cells beyond the chunk's x/z range by world
// coordinate.
type Source interface {
	Local(x, y, z int) block.Type
	World(x, y, z int) block.Type
}

// Buffers is a non-indexed triangle list with three floats per vertex attribute.
type Buffers struct {
	Positions []float32
	Colors    []float32
	Normals   []float32
}

// Vertices returns the number of vertices in the buffers.
func (b *Buffers) Vertices() int {
	return len(b.Positions) / 3
}

// Faces returns the number of quads in the buffers.
func (b *Buffers) Faces() int {
	return b.Vertices() / VerticesPerFace
}

func (b *Buffers) emit(corner, normal, color mgl32.Vec3) {
	b.Positions = append(b.Positions, corner[0], corner[1], corner[2])
	b.Colors = append(b.Colors, color[0], color[1], color[2])
	b.Normals = append(b.Normals, normal[0], normal[1], normal[2])
}

// Mesh is the renderable geometry of one chunk. Positions are chunk-local;
// Origin is the chunk's world-space offset.
type Mesh struct {
	Origin mgl32.Vec3
	Opaque Buffers
	Water  Buffers
}

// Empty reports whether the mesh has no faces at all.
func (m *Mesh) Empty() bool {
	return len(m.Opaque.Positions) == 0 && len(m.Water.Positions) == 0
}

type face struct {
	dir     [3]int
	normal  mgl32.Vec3
	corners [4]mgl32.Vec3 // counter-clockwise seen from outside
}

var faces = [6]face{
	{dir: [3]int{1, 0, 0}, normal: mgl32.Vec3{1, 0, 0}, corners: [4]mgl32.Vec3{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}},
	{dir: [3]int{-1, 0, 0}, normal: mgl32.Vec3{-1, 0, 0}, corners: [4]mgl32.Vec3{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}},
	{dir: [3]int{0, 1, 0}, normal: mgl32.Vec3{0, 1, 0}, corners: [4]mgl32.Vec3{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}},
	{dir: [3]int{0, -1, 0}, normal: mgl32.Vec3{0, -1, 0}, corners: [4]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}},
	{dir: [3]int{0, 0, 1}, normal: mgl32.Vec3{0, 0, 1}, corners: [4]mgl32.Vec3{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}},
	{dir: [3]int{0, 0, -1}, normal: mgl32.Vec3{0, 0, -1}, corners: [4]mgl32.Vec3{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}},
}

// quad triangulation over the four corners.
var quad = [VerticesPerFace]int{0, 1, 2, 0, 2, 3}

// ShouldRenderFace reports whether the face of cell a toward neighbor b is visible.
func ShouldRenderFace(a, b block.Type) bool {
	return b == block.Air || (b == block.Water && a != block.Water)
}

// Build meshes the chunk at (chunkX, chunkZ). Every non-Air cell is visited and
// each of its faces passing ShouldRenderFace is emitted. Water faces go to the
// Water buffers.
func Build(src Source, chunkX, chunkZ int) *Mesh {
	m := &Mesh{
		Origin: mgl32.Vec3{float32(chunkX * gen.ChunkSize), 0, float32(chunkZ * gen.ChunkSize)},
	}
	r := resolver{src: src, baseX: chunkX * gen.ChunkSize, baseZ: chunkZ * gen.ChunkSize}

	for y := 0; y < gen.WorldHeight; y++ {
		for z := 0; z < gen.ChunkSize; z++ {
			for x := 0; x < gen.ChunkSize; x++ {
				t := src.Local(x, y, z)
				if t == block.Air {
					continue
				}
				buf := &m.Opaque
				if t == block.Water {
					buf = &m.Water
				}
				base := mgl32.Vec3{float32(x), float32(y), float32(z)}
				for _, f := range faces {
					n := r.at(x+f.dir[0], y+f.dir[1], z+f.dir[2])
					if !ShouldRenderFace(t, n) {
						continue
					}
					color := t.Color()
					if f.dir[1] != 0 {
						color = color.Mul(r.occlusion(x, y, z))
					}
					for _, i := range quad {
						buf.emit(base.Add(f.corners[i]), f.normal, color)
					}
				}
			}
		}
	}
	return m
}

type resolver struct {
	src          Source
	baseX, baseZ int
}

// at resolves a chunk-local coordinate that may fall outside the chunk.
// Cells above the ceiling or below the floor are Air.
func (r resolver) at(x, y, z int) block.Type {
	if !gen.InHeight(y) {
		return block.Air
	}
	if x >= 0 && x < gen.ChunkSize && z >= 0 && z < gen.ChunkSize {
		return r.src.Local(x, y, z)
	}
	return r.src.World(r.baseX+x, y, r.baseZ+z)
}

// occlusion counts non-Air diagonal neighbors on the cell's own layer and
// returns the resulting color factor.
func (r resolver) occlusion(x, y, z int) float32 {
	count := 0
	for _, d := range [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}} {
		if r.at(x+d[0], y, z+d[1]) != block.Air {
			count++
		}
	}
	return Occlusion(count)
}

// Occlusion returns 1 - count*AOStrength.
func Occlusion(count int) float32 {
	return 1 - float32(count)*AOStrength
}
