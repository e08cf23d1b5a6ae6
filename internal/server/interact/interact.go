// Package interact finds the block under the crosshair and applies break and
// place edits to it.
package interact

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/voxelworld/internal/server/player"
	"github.com/OCharnyshevich/voxelworld/internal/server/world/block"
)

const (
	// Reach is the farthest distance a block can be targeted from the eye.
	Reach = 5.0
	// Step is the ray-march increment.
	Step = 0.05
)

// World is the block access needed for edits.
type World interface {
	GetWorldBlock(x, y, z int) block.Type
	SetWorldBlock(x, y, z int, t block.Type) bool
}

// Cell is an integer block position.
type Cell struct{ X, Y, Z int }

// Hit is the first targetable block along a ray.
type Hit struct {
	Point mgl64.Vec3 // sampled point inside the block
	Cell  Cell
	Block block.Type
}

// Raycast marches from origin along dir in fixed steps up to reach and returns
// the first sample that lands in a targetable block. Air and Water are passed
// through. ok is false when nothing is hit.
func Raycast(w player.BlockSource, origin, dir mgl64.Vec3, reach, step float64) (hit Hit, ok bool) {
	if step <= 0 || dir.Len() == 0 {
		return Hit{}, false
	}
	dir = dir.Normalize()
	for t := 0.0; t <= reach; t += step {
		p := origin.Add(dir.Mul(t))
		c := cellOf(p)
		b := w.GetWorldBlock(c.X, c.Y, c.Z)
		if b.Targetable() {
			return Hit{Point: p, Cell: c, Block: b}, true
		}
	}
	return Hit{}, false
}

// Break clears the hit block.
func Break(w World, hit Hit) bool {
	return w.SetWorldBlock(hit.Cell.X, hit.Cell.Y, hit.Cell.Z, block.Air)
}

// PlaceTarget returns the cell a placement against hit would fill: the hit
// cell stepped back toward the viewer along the dominant axis of the
// viewer-to-hit vector.
func PlaceTarget(origin mgl64.Vec3, hit Hit) Cell {
	n := axisNormal(hit.Point.Sub(origin))
	return Cell{
		X: hit.Cell.X - n[0],
		Y: hit.Cell.Y - n[1],
		Z: hit.Cell.Z - n[2],
	}
}

// Place puts the selected inventory block into the cell next to hit. It is a
// no-op when the selected slot is empty or the target cell holds anything
// other than Air or Water.
func Place(w World, origin mgl64.Vec3, hit Hit, inv *player.Inventory) (Cell, bool) {
	t, ok := inv.Held()
	if !ok {
		return Cell{}, false
	}
	c := PlaceTarget(origin, hit)
	switch w.GetWorldBlock(c.X, c.Y, c.Z) {
	case block.Air, block.Water:
	default:
		return Cell{}, false
	}
	if !w.SetWorldBlock(c.X, c.Y, c.Z, t) {
		return Cell{}, false
	}
	return c, true
}

// axisNormal rounds v to the signed unit axis of its largest component.
// Ties prefer X, then Y.
func axisNormal(v mgl64.Vec3) [3]int {
	ax, ay, az := math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])
	var n [3]int
	switch {
	case ax >= ay && ax >= az:
		n[0] = sign(v[0])
	case ay >= az:
		n[1] = sign(v[1])
	default:
		n[2] = sign(v[2])
	}
	return n
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}

func cellOf(p mgl64.Vec3) Cell {
	return Cell{
		X: int(math.Floor(p[0])),
		Y: int(math.Floor(p[1])),
		Z: int(math.Floor(p[2])),
	}
}
