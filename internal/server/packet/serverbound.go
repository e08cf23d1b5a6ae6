package packet

import (
	"github.com/OCharnyshevich/voxelworld/internal/server/game"
	"github.com/OCharnyshevich/voxelworld/internal/server/player"
	"github.com/OCharnyshevich/voxelworld/internal/server/sky"
)

// Keys holds the held movement keys.
type Keys struct {
	Forward bool `json:"forward"`
	Back    bool `json:"back"`
	Left    bool `json:"left"`
	Right   bool `json:"right"`
	Jump    bool `json:"jump"`
}

// Input is sent by the viewer whenever its input state changes. Keys are
// levels; look deltas, scroll steps and clicks are events since the last
// message.
type Input struct {
	Keys   Keys    `json:"keys"`
	LookDX float64 `json:"lookDX,omitempty"`
	LookDY float64 `json:"lookDY,omitempty"`
	Break  bool    `json:"break,omitempty"`
	Place  bool    `json:"place,omitempty"`
	Scroll int     `json:"scroll,omitempty"`
	Select *int    `json:"select,omitempty"` // hotbar slot
	Force  string  `json:"force,omitempty"`  // auto, sunrise, noon, sunset or midnight
}

func (Input) MessageType() Type { return TypeInput }

// Intent returns the movement keys as a player intent.
func (k Keys) Intent() player.Intent {
	return player.Intent{
		Forward: k.Forward,
		Back:    k.Back,
		Left:    k.Left,
		Right:   k.Right,
		Jump:    k.Jump,
	}
}

// Game converts the message into a tick input. An unknown force name is
// ignored.
func (in *Input) Game() game.Input {
	out := game.NoInput()
	out.Intent = in.Keys.Intent()
	out.LookDX = in.LookDX
	out.LookDY = in.LookDY
	out.Break = in.Break
	out.Place = in.Place
	out.Scroll = in.Scroll
	if in.Select != nil {
		out.Select = *in.Select
	}
	if in.Force != "" {
		if p, ok := sky.ParsePreset(in.Force); ok {
			out.Force = p
			out.HasForce = true
		}
	}
	return out
}
