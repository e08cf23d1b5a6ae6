// Package game ties the world, player, inventory and sky into one state that
// advances in fixed-order ticks.
package game

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/voxelworld/internal/server/interact"
	"github.com/OCharnyshevich/voxelworld/internal/server/player"
	"github.com/OCharnyshevich/voxelworld/internal/server/sky"
	"github.com/OCharnyshevich/voxelworld/internal/server/world"
	"github.com/OCharnyshevich/voxelworld/internal/server/world/block"
	"github.com/OCharnyshevich/voxelworld/internal/server/world/gen"
)

// Input is everything the viewer asked for since the previous tick.
type Input struct {
	Intent player.Intent
	LookDX float64
	LookDY float64
	Break  bool
	Place  bool
	Scroll int // scroll steps, positive moves right
	Select int // slot to select, or -1
	// Force pins the time of day when HasForce is set. Forcing sky.Auto resumes.
	Force    sky.Preset
	HasForce bool
}

// NoInput is an Input that changes nothing.
func NoInput() Input {
	return Input{Select: -1}
}

// Camera is the view written back to the presentation side each tick.
type Camera struct {
	Position  mgl64.Vec3
	Direction mgl64.Vec3
	Yaw       float64
	Pitch     float64
}

// Stats are the HUD values of a tick.
type Stats struct {
	Hour      int
	TimeLabel string
	Position  mgl64.Vec3
	Chunk     world.ChunkCoord
	Resident  int
	Queued    int
	VelocityY float64
	OnGround  bool
	Selected  int
	Held      block.Type
	Hotbar    [player.HotbarSize]block.Type
}

// EditKind tells a break from a place.
type EditKind uint8

const (
	EditBreak EditKind = iota + 1
	EditPlace
)

func (k EditKind) String() string {
	switch k {
	case EditBreak:
		return "break"
	case EditPlace:
		return "place"
	default:
		return "unknown"
	}
}

// Edit is a block change applied during a tick.
type Edit struct {
	Kind  EditKind
	Cell  interact.Cell
	Block block.Type
}

// Frame is the output of one tick.
type Frame struct {
	Tick   uint64
	Camera Camera
	Sky    sky.State
	Stats  Stats
	Target *interact.Cell // block under the crosshair, if any
	Edits  []Edit
}

// Option configures a WorldState.
type Option func(*WorldState)

// WithPhysics replaces the default movement constants.
func WithPhysics(ph player.Physics) Option {
	return func(s *WorldState) { s.Physics = ph }
}

// WithInventory replaces the default inventory.
func WithInventory(inv *player.Inventory) Option {
	return func(s *WorldState) { s.Inventory = inv }
}

// WorldState aggregates all simulation state. Tick is its only mutator.
type WorldState struct {
	World     *world.World
	Player    *player.Player
	Inventory *player.Inventory
	Sky       *sky.Cycle
	Physics   player.Physics

	tick uint64
}

// NewWorldState synchronously generates the render-distance square around the
// origin and spawns the player on the lowest free spot of the origin column.
func NewWorldState(w *world.World, cycle *sky.Cycle, opts ...Option) *WorldState {
	inv := player.NewInventory()
	inv.DefaultLoadout()

	spawn := mgl64.Vec3{0.5, float64(w.HeightAt(0, 0) + 1), 0.5}
	s := &WorldState{
		World:     w,
		Player:    player.New(spawn),
		Inventory: inv,
		Sky:       cycle,
		Physics:   player.DefaultPhysics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	w.PreGenerateRadius(world.ChunkOfPos(spawn[0], spawn[2]), w.RenderDistance())
	s.Player.Position[1] = s.spawnHeight(spawn)
	return s
}

// spawnHeight scans up from pos until the body no longer collides, so a tree
// trunk on the surface does not trap the player.
func (s *WorldState) spawnHeight(pos mgl64.Vec3) float64 {
	for ; pos[1] < gen.WorldHeight; pos[1]++ {
		if !s.Physics.Collides(pos, s.World) {
			return pos[1]
		}
	}
	return gen.WorldHeight
}

// Ticks returns the number of completed ticks.
func (s *WorldState) Ticks() uint64 { return s.tick }

// Tick advances the simulation one step in fixed order: sky, chunk streaming,
// look and physics, block edits, then camera output.
func (s *WorldState) Tick(in Input) Frame {
	s.tick++
	p := s.Player

	if in.HasForce {
		if in.Force == sky.Auto {
			s.Sky.Resume()
		} else {
			s.Sky.Force(in.Force)
		}
	}
	s.Sky.Advance()

	s.World.Update(p.Position[0], p.Position[2])

	p.Look(in.LookDX, in.LookDY)
	s.Physics.Step(p, in.Intent, s.World)

	if in.Select >= 0 {
		s.Inventory.Select(in.Select)
	}
	if in.Scroll != 0 {
		s.Inventory.Scroll(in.Scroll)
	}

	var edits []Edit
	if in.Break {
		if e, ok := s.breakBlock(); ok {
			edits = append(edits, e)
		}
	}
	if in.Place {
		if e, ok := s.placeBlock(); ok {
			edits = append(edits, e)
		}
	}

	return s.frame(edits)
}

func (s *WorldState) breakBlock() (Edit, bool) {
	hit, ok := s.target()
	if !ok || !interact.Break(s.World, hit) {
		return Edit{}, false
	}
	return Edit{Kind: EditBreak, Cell: hit.Cell, Block: block.Air}, true
}

func (s *WorldState) placeBlock() (Edit, bool) {
	hit, ok := s.target()
	if !ok {
		return Edit{}, false
	}
	eye := s.Player.EyePosition()
	if s.overlapsBody(interact.PlaceTarget(eye, hit)) {
		return Edit{}, false
	}
	c, ok := interact.Place(s.World, eye, hit, s.Inventory)
	if !ok {
		return Edit{}, false
	}
	held, _ := s.Inventory.Held()
	return Edit{Kind: EditPlace, Cell: c, Block: held}, true
}

func (s *WorldState) target() (interact.Hit, bool) {
	p := s.Player
	return interact.Raycast(s.World, p.EyePosition(), p.ViewDirection(), interact.Reach, interact.Step)
}

// overlapsBody reports whether a block at c would intersect the player's box.
func (s *WorldState) overlapsBody(c interact.Cell) bool {
	pos := s.Player.Position
	h := s.Physics.Width / 2
	return float64(c.X) < pos[0]+h && float64(c.X+1) > pos[0]-h &&
		float64(c.Y) < pos[1]+s.Physics.Height && float64(c.Y+1) > pos[1] &&
		float64(c.Z) < pos[2]+h && float64(c.Z+1) > pos[2]-h
}

func (s *WorldState) frame(edits []Edit) Frame {
	p := s.Player
	eye := p.EyePosition()
	st := s.Sky.State(mgl32.Vec3{float32(eye[0]), float32(eye[1]), float32(eye[2])})
	held, _ := s.Inventory.Held()

	f := Frame{
		Tick: s.tick,
		Camera: Camera{
			Position:  eye,
			Direction: p.ViewDirection(),
			Yaw:       p.Yaw,
			Pitch:     p.Pitch,
		},
		Sky: st,
		Stats: Stats{
			Hour:      st.Hour,
			TimeLabel: st.Label,
			Position:  p.Position,
			Chunk:     world.ChunkOfPos(p.Position[0], p.Position[2]),
			Resident:  s.World.Resident(),
			Queued:    s.World.Queued(),
			VelocityY: p.Velocity[1],
			OnGround:  p.OnGround,
			Selected:  s.Inventory.Selected(),
			Held:      held,
			Hotbar:    s.Inventory.Slots(),
		},
		Edits: edits,
	}
	if hit, ok := s.target(); ok {
		c := hit.Cell
		f.Target = &c
	}
	return f
}
