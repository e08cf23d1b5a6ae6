package block

import "github.com/go-gl/mathgl/mgl32"

// Type identifies a voxel category. The zero value is Air.
type Type uint8

const (
	Air Type = iota
	Dirt
	Grass
	Stone
	Sand
	Water
	Wood
	Leaves

	numTypes
)

var names = [numTypes]string{
	Air:    "air",
	Dirt:   "dirt",
	Grass:  "grass",
	Stone:  "stone",
	Sand:   "sand",
	Water:  "water",
	Wood:   "wood",
	Leaves: "leaves",
}

// palette holds the fixed 0xRRGGBB colour of each block type.
var palette = [numTypes]uint32{
	Dirt:   0x8B4513,
	Grass:  0x355E3B,
	Stone:  0x808080,
	Sand:   0xDCD6A1,
	Water:  0x3F76AF,
	Wood:   0x8B4513,
	Leaves: 0x2D5A27,
}

func (t Type) String() string {
	if t >= numTypes {
		return "unknown"
	}
	return names[t]
}

// Valid reports whether t is one of the known block types.
func (t Type) Valid() bool {
	return t < numTypes
}

// IsAir reports whether t is the empty block.
func (t Type) IsAir() bool {
	return t == Air
}

// IsSolid reports whether t blocks movement. Water is meshed but can be walked through.
func (t Type) IsSolid() bool {
	return t != Air && t != Water && t < numTypes
}

// Targetable reports whether a ray-march stops at t.
func (t Type) Targetable() bool {
	return t.IsSolid()
}

// RGB returns the palette colour as 0xRRGGBB. Air has no colour.
func (t Type) RGB() uint32 {
	if t >= numTypes {
		return 0
	}
	return palette[t]
}

// Color returns the palette colour as linear components in [0,1].
func (t Type) Color() mgl32.Vec3 {
	return HexColor(t.RGB())
}

// HexColor converts 0xRRGGBB to float components in [0,1].
func HexColor(rgb uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32((rgb>>16)&0xFF) / 255,
		float32((rgb>>8)&0xFF) / 255,
		float32(rgb&0xFF) / 255,
	}
}

// Parse returns the block type with the given name.
func Parse(name string) (Type, bool) {
	for i, n := range names {
		if n == name {
			return Type(i), true
		}
	}
	return Air, false
}
