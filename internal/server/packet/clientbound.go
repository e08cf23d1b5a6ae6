package packet

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/OCharnyshevich/voxelworld/internal/server/game"
	"github.com/OCharnyshevich/voxelworld/internal/server/sky"
	"github.com/OCharnyshevich/voxelworld/internal/server/world"
	"github.com/OCharnyshevich/voxelworld/internal/server/world/block"
	"github.com/OCharnyshevich/voxelworld/internal/server/world/gen"
	"github.com/OCharnyshevich/voxelworld/internal/server/world/mesh"
)

// Hello is the first message of a session.
type Hello struct {
	Session        string            `json:"session"`
	Generator      string            `json:"generator"`
	Seed           int64             `json:"seed"`
	ChunkSize      int               `json:"chunkSize"`
	WorldHeight    int               `json:"worldHeight"`
	RenderDistance int               `json:"renderDistance"`
	TickRate       int               `json:"tickRate"`
	Palette        map[string]string `json:"palette"` // block name to #rrggbb
}

func (Hello) MessageType() Type { return TypeHello }

// NewHello fills the world constants and block palette.
func NewHello(session uuid.UUID, generator string, seed int64, renderDistance, tickRate int) Hello {
	palette := make(map[string]string)
	for t := block.Dirt; t.Valid(); t++ {
		palette[t.String()] = hexRGB(t.RGB())
	}
	return Hello{
		Session:        session.String(),
		Generator:      generator,
		Seed:           seed,
		ChunkSize:      gen.ChunkSize,
		WorldHeight:    gen.WorldHeight,
		RenderDistance: renderDistance,
		TickRate:       tickRate,
		Palette:        palette,
	}
}

func hexRGB(rgb uint32) string {
	return fmt.Sprintf("#%06x", rgb)
}

// Buffers are flat xyz triples, one per vertex.
type Buffers struct {
	Positions []float32 `json:"positions"`
	Colors    []float32 `json:"colors"`
	Normals   []float32 `json:"normals"`
}

// Mesh hands a chunk mesh to the viewer. Positions are relative to Origin.
type Mesh struct {
	Handle string     `json:"handle"`
	Chunk  [2]int     `json:"chunk"`
	Origin [3]float32 `json:"origin"`
	Opaque Buffers    `json:"opaque"`
	Water  Buffers    `json:"water"`
}

func (Mesh) MessageType() Type { return TypeMesh }

// NewMesh converts a built chunk mesh.
func NewMesh(handle uuid.UUID, coord world.ChunkCoord, m *mesh.Mesh) Mesh {
	return Mesh{
		Handle: handle.String(),
		Chunk:  [2]int{coord.X, coord.Z},
		Origin: [3]float32(m.Origin),
		Opaque: Buffers(m.Opaque),
		Water:  Buffers(m.Water),
	}
}

// Remove detaches a previously sent mesh.
type Remove struct {
	Handle string `json:"handle"`
}

func (Remove) MessageType() Type { return TypeRemove }

// Camera is the eye position and orientation.
type Camera struct {
	Position  [3]float64 `json:"position"`
	Direction [3]float64 `json:"direction"`
	Yaw       float64    `json:"yaw"`
	Pitch     float64    `json:"pitch"`
}

// Sky carries the lighting and celestial state.
type Sky struct {
	Progress    float64    `json:"progress"`
	IsDay       bool       `json:"isDay"`
	Sun         [3]float32 `json:"sun"`
	Moon        [3]float32 `json:"moon"`
	SunDir      [3]float32 `json:"sunDir"`
	Color       [3]float32 `json:"color"`
	Ambient     float32    `json:"ambient"`
	Directional float32    `json:"directional"`
	MoonLight   float32    `json:"moonLight"`
	SunOpacity  float32    `json:"sunOpacity"`
	MoonOpacity float32    `json:"moonOpacity"`
	Stars       bool       `json:"stars"`
	StarOpacity float32    `json:"starOpacity"`
}

// Stats are the HUD values.
type Stats struct {
	Hour      int        `json:"hour"`
	TimeLabel string     `json:"timeLabel"`
	Position  [3]float64 `json:"position"`
	Chunk     [2]int     `json:"chunk"`
	Resident  int        `json:"resident"`
	Queued    int        `json:"queued"`
	VelocityY float64    `json:"velocityY"`
	OnGround  bool       `json:"onGround"`
	Selected  int        `json:"selected"`
	Held      string     `json:"held"`
	Hotbar    []string   `json:"hotbar"` // block names, empty for an empty slot
}

// Edit reports a block change.
type Edit struct {
	Kind  string `json:"kind"`
	Cell  [3]int `json:"cell"`
	Block string `json:"block"`
}

// Frame is sent once per tick.
type Frame struct {
	Tick   uint64  `json:"tick"`
	Camera Camera  `json:"camera"`
	Sky    Sky     `json:"sky"`
	Stats  Stats   `json:"stats"`
	Target *[3]int `json:"target,omitempty"`
	Edits  []Edit  `json:"edits,omitempty"`
}

func (Frame) MessageType() Type { return TypeFrame }

// NewFrame converts the output of a tick.
func NewFrame(f game.Frame) Frame {
	out := Frame{
		Tick: f.Tick,
		Camera: Camera{
			Position:  [3]float64(f.Camera.Position),
			Direction: [3]float64(f.Camera.Direction),
			Yaw:       f.Camera.Yaw,
			Pitch:     f.Camera.Pitch,
		},
		Sky: newSky(f.Sky),
		Stats: Stats{
			Hour:      f.Stats.Hour,
			TimeLabel: f.Stats.TimeLabel,
			Position:  [3]float64(f.Stats.Position),
			Chunk:     [2]int{f.Stats.Chunk.X, f.Stats.Chunk.Z},
			Resident:  f.Stats.Resident,
			Queued:    f.Stats.Queued,
			VelocityY: f.Stats.VelocityY,
			OnGround:  f.Stats.OnGround,
			Selected:  f.Stats.Selected,
			Held:      f.Stats.Held.String(),
			Hotbar:    hotbarNames(f.Stats.Hotbar[:]),
		},
	}
	if f.Target != nil {
		out.Target = &[3]int{f.Target.X, f.Target.Y, f.Target.Z}
	}
	for _, e := range f.Edits {
		out.Edits = append(out.Edits, Edit{
			Kind:  e.Kind.String(),
			Cell:  [3]int{e.Cell.X, e.Cell.Y, e.Cell.Z},
			Block: e.Block.String(),
		})
	}
	return out
}

func hotbarNames(slots []block.Type) []string {
	names := make([]string, len(slots))
	for i, t := range slots {
		if !t.IsAir() {
			names[i] = t.String()
		}
	}
	return names
}

func newSky(s sky.State) Sky {
	return Sky{
		Progress:    s.Progress,
		IsDay:       s.IsDay,
		Sun:         [3]float32(s.Sun),
		Moon:        [3]float32(s.Moon),
		SunDir:      [3]float32(s.SunDir),
		Color:       [3]float32(s.SkyColor),
		Ambient:     s.Ambient,
		Directional: s.Directional,
		MoonLight:   s.MoonLight,
		SunOpacity:  s.SunOpacity,
		MoonOpacity: s.MoonOpacity,
		Stars:       s.Stars,
		StarOpacity: s.StarOpacity,
	}
}
