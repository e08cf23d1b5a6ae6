package gen

import "github.com/OCharnyshevich/voxelworld/internal/server/world/block"

// Biome classifies a world column.
type Biome uint8

const (
	Plains Biome = iota
	Forest
	Desert
	Ocean
)

func (b Biome) String() string {
	switch b {
	case Plains:
		return "plains"
	case Forest:
		return "forest"
	case Desert:
		return "desert"
	case Ocean:
		return "ocean"
	default:
		return "unknown"
	}
}

const (
	// WaterLevel is the global water line. Columns at or below it get no trees.
	WaterLevel = 4
	// oceanWaterLevel floods ocean columns deeper than the global line.
	oceanWaterLevel = 8

	biomeScale     = 0.01
	moistureOffset = 500.0
)

// BiomeParams are the terrain parameters attached to a biome.
type BiomeParams struct {
	Biome       Biome
	HeightScale float64
	Surface     block.Type
	Subsurface  block.Type
	TreeDensity float64 // per-column probability of a tree
	WaterLevel  int
}

var biomeTable = map[Biome]BiomeParams{
	Ocean: {
		Biome:       Ocean,
		HeightScale: 3,
		Surface:     block.Sand,
		Subsurface:  block.Sand,
		WaterLevel:  oceanWaterLevel,
	},
	Desert: {
		Biome:       Desert,
		HeightScale: 6,
		Surface:     block.Sand,
		Subsurface:  block.Sand,
		WaterLevel:  WaterLevel,
	},
	Forest: {
		Biome:       Forest,
		HeightScale: 12,
		Surface:     block.Grass,
		Subsurface:  block.Dirt,
		TreeDensity: 0.04,
		WaterLevel:  WaterLevel,
	},
	Plains: {
		Biome:       Plains,
		HeightScale: 8,
		Surface:     block.Grass,
		Subsurface:  block.Dirt,
		TreeDensity: 0.005,
		WaterLevel:  WaterLevel,
	},
}

// ParamsFor returns the terrain parameters of a biome.
func ParamsFor(b Biome) BiomeParams {
	return biomeTable[b]
}

// BiomeClassifier selects biomes from temperature and moisture noise fields
// sampled from one noise generator at decorrelated offsets.
type BiomeClassifier struct {
	noise *NoiseGenerator
}

// NewBiomeClassifier creates a classifier backed by ng.
func NewBiomeClassifier(ng *NoiseGenerator) *BiomeClassifier {
	return &BiomeClassifier{noise: ng}
}

// Climate returns the raw temperature and moisture samples at a world column.
func (bc *BiomeClassifier) Climate(worldX, worldZ int) (temperature, moisture float64) {
	x := float64(worldX) * biomeScale
	z := float64(worldZ) * biomeScale
	temperature = bc.noise.Noise2D(x, z)
	moisture = bc.noise.Noise2D(x+moistureOffset, z+moistureOffset)
	return temperature, moisture
}

// Classify returns the biome and its terrain parameters at a world column.
func (bc *BiomeClassifier) Classify(worldX, worldZ int) BiomeParams {
	return ParamsFor(SelectBiome(bc.Climate(worldX, worldZ)))
}

// SelectBiome maps temperature and moisture to a biome. The first matching row wins:
//
//	temperature < -0.2                 → Ocean
//	temperature > 0.4 && moisture < 0  → Desert
//	moisture > 0.3                     → Forest
//	otherwise                          → Plains
func SelectBiome(temperature, moisture float64) Biome {
	switch {
	case temperature < -0.2:
		return Ocean
	case temperature > 0.4 && moisture < 0:
		return Desert
	case moisture > 0.3:
		return Forest
	default:
		return Plains
	}
}
