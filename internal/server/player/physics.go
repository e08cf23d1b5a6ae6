package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/voxelworld/internal/server/world/block"
)

// BlockSource answers block queries in world coordinates.
type BlockSource interface {
	GetWorldBlock(x, y, z int) block.Type
}

// Intent is the movement input sampled for one tick.
type Intent struct {
	Forward, Back, Left, Right bool
	Jump                       bool
}

// Physics holds the per-tick movement constants.
type Physics struct {
	Gravity      float64 // added to vertical velocity each airborne tick
	MaxFallSpeed float64 // most negative vertical velocity
	MoveSpeed    float64
	JumpForce    float64
	Height       float64
	Width        float64
	GroundProbe  float64 // how far below the feet ground is sampled
}

// DefaultPhysics returns the standard movement constants.
func DefaultPhysics() Physics {
	return Physics{
		Gravity:      -0.1,
		MaxFallSpeed: -2.0,
		MoveSpeed:    0.2,
		JumpForce:    0.7,
		Height:       1.8,
		Width:        0.6,
		GroundProbe:  0.1,
	}
}

// Step advances the player by one tick: ground probe, gravity or jump,
// horizontal velocity from intent, then collision-resolved movement one axis
// at a time in X, Y, Z order.
func (ph Physics) Step(p *Player, in Intent, world BlockSource) {
	p.OnGround = ph.Grounded(p.Position, world)

	if !p.OnGround {
		p.Velocity[1] = math.Max(p.Velocity[1]+ph.Gravity, ph.MaxFallSpeed)
	} else {
		p.Velocity[1] = math.Max(0, p.Velocity[1])
		if in.Jump {
			p.Velocity[1] = ph.JumpForce
			p.OnGround = false
		}
	}

	move := ph.horizontal(p, in)
	p.Velocity[0] = move[0]
	p.Velocity[2] = move[2]

	pos := p.Position

	next := pos
	next[0] += p.Velocity[0]
	if !ph.Collides(next, world) {
		pos = next
	}

	next = pos
	next[1] += p.Velocity[1]
	if !ph.Collides(next, world) {
		pos = next
	} else {
		if p.Velocity[1] < 0 {
			p.OnGround = true
		}
		p.Velocity[1] = 0
	}

	next = pos
	next[2] += p.Velocity[2]
	if !ph.Collides(next, world) {
		pos = next
	}

	p.Position = pos
}

// horizontal builds the camera-relative move vector from intent. It is not
// accumulated between ticks.
func (ph Physics) horizontal(p *Player, in Intent) mgl64.Vec3 {
	forward := p.ViewDirection()
	forward[1] = 0
	if forward.Len() == 0 {
		return mgl64.Vec3{}
	}
	forward = forward.Normalize()
	right := forward.Cross(mgl64.Vec3{0, 1, 0})

	var move mgl64.Vec3
	if in.Forward {
		move = move.Add(forward)
	}
	if in.Back {
		move = move.Sub(forward)
	}
	if in.Left {
		move = move.Sub(right)
	}
	if in.Right {
		move = move.Add(right)
	}
	if move.Len() == 0 {
		return mgl64.Vec3{}
	}
	return move.Normalize().Mul(ph.MoveSpeed)
}

// Grounded reports whether any footprint corner just below the feet is non-Air.
// Water counts as ground here.
func (ph Physics) Grounded(pos mgl64.Vec3, world BlockSource) bool {
	y := pos[1] - ph.GroundProbe
	for _, c := range ph.footprint(pos) {
		if world.GetWorldBlock(floor(c[0]), floor(y), floor(c[1])) != block.Air {
			return true
		}
	}
	return false
}

// Collides reports whether a body with feet at pos overlaps a solid block,
// testing the footprint corners at the feet and the point above the head
// center. Water is not solid.
func (ph Physics) Collides(pos mgl64.Vec3, world BlockSource) bool {
	fy := floor(pos[1])
	for _, c := range ph.footprint(pos) {
		if world.GetWorldBlock(floor(c[0]), fy, floor(c[1])).IsSolid() {
			return true
		}
	}
	head := world.GetWorldBlock(floor(pos[0]), floor(pos[1]+ph.Height), floor(pos[2]))
	return head.IsSolid()
}

// footprint returns the four horizontal corners of the body.
func (ph Physics) footprint(pos mgl64.Vec3) [4][2]float64 {
	h := ph.Width / 2
	return [4][2]float64{
		{pos[0] - h, pos[2] - h},
		{pos[0] + h, pos[2] - h},
		{pos[0] - h, pos[2] + h},
		{pos[0] + h, pos[2] + h},
	}
}

func floor(v float64) int {
	return int(math.Floor(v))
}
