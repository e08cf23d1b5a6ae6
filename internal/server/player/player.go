package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// EyeHeight is the camera offset above the player's feet.
	EyeHeight = 1.6
	// LookSensitivity converts look-input units into radians.
	LookSensitivity = 0.002
	// PitchLimit keeps the camera just short of straight up or down.
	PitchLimit = math.Pi/2 - 0.1
)

// Player is the simulated body: feet position, velocity, and a yaw/pitch
// orientation. Roll is always zero.
type Player struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Yaw      float64
	Pitch    float64
	OnGround bool
}

// New creates a player standing at pos, looking along -Z.
func New(pos mgl64.Vec3) *Player {
	return &Player{Position: pos}
}

// Look applies a look delta. Positive dx turns right, positive dy looks down.
func (p *Player) Look(dx, dy float64) {
	p.Yaw -= dx * LookSensitivity
	p.Pitch -= dy * LookSensitivity
	p.Pitch = mgl64.Clamp(p.Pitch, -PitchLimit, PitchLimit)
}

// ViewDirection returns the unit view vector. Pitch is applied in camera
// space after yaw; zero yaw and pitch look along -Z.
func (p *Player) ViewDirection() mgl64.Vec3 {
	rot := mgl64.Rotate3DY(p.Yaw).Mul3(mgl64.Rotate3DX(p.Pitch))
	return rot.Mul3x1(mgl64.Vec3{0, 0, -1})
}

// EyePosition returns the camera position.
func (p *Player) EyePosition() mgl64.Vec3 {
	return p.Position.Add(mgl64.Vec3{0, EyeHeight, 0})
}
