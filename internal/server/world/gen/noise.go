package gen

import "math/rand/v2"

// Gradient noise after Ken Perlin's improved noise, restricted to two dimensions.
// Produces values in the range [-1, 1].

// grad2 are the gradient directions sampled at lattice corners.
var grad2 = [8][2]float64{
	{1, 1},
	{-1, 1},
	{1, -1},
	{-1, -1},
	{1, 0},
	{-1, 0},
	{0, 1},
	{0, -1},
}

// NoiseGenerator produces deterministic gradient noise from a fixed permutation table.
type NoiseGenerator struct {
	perm [512]int
}

// NewNoiseGenerator creates a noise generator with a seeded permutation table.
// Equal seeds give equal tables across process runs.
func NewNoiseGenerator(seed int64) *NoiseGenerator {
	p := identityPermutation()

	// Fisher-Yates shuffle with seed-derived random.
	s := seed
	for i := 255; i > 0; i-- {
		s = s*6364136223846793005 + 1442695040888963407 // LCG
		j := int((s>>33)&0x7FFFFFFF) % (i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return fromPermutation(p)
}

// NewRandomNoiseGenerator creates a noise generator whose permutation table is
// shuffled once from an unseeded source. Output is stable for the lifetime of the
// generator but differs between runs.
func NewRandomNoiseGenerator() *NoiseGenerator {
	p := identityPermutation()
	for i := 255; i > 0; i-- {
		j := rand.IntN(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return fromPermutation(p)
}

func identityPermutation() [256]int {
	var p [256]int
	for i := range p {
		p[i] = i
	}
	return p
}

// fromPermutation doubles the table so corner lookups never wrap.
func fromPermutation(p [256]int) *NoiseGenerator {
	ng := &NoiseGenerator{}
	for i := 0; i < 512; i++ {
		ng.perm[i] = p[i&255]
	}
	return ng
}

// Noise2D returns 2D gradient noise for the given coordinates.
// Integer inputs land on lattice corners and evaluate to exactly zero.
func (ng *NoiseGenerator) Noise2D(x, y float64) float64 {
	xi := fastFloor(x)
	yi := fastFloor(y)
	xf := x - float64(xi)
	yf := y - float64(yi)

	X := xi & 255
	Y := yi & 255

	u := fade(xf)
	v := fade(yf)

	aa := ng.perm[ng.perm[X]+Y]
	ab := ng.perm[ng.perm[X]+Y+1]
	ba := ng.perm[ng.perm[X+1]+Y]
	bb := ng.perm[ng.perm[X+1]+Y+1]

	n00 := grad(aa, xf, yf)
	n10 := grad(ba, xf-1, yf)
	n01 := grad(ab, xf, yf-1)
	n11 := grad(bb, xf-1, yf-1)

	return lerp(v, lerp(u, n00, n10), lerp(u, n01, n11))
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func grad(hash int, x, y float64) float64 {
	g := grad2[hash&7]
	return g[0]*x + g[1]*y
}

func fastFloor(x float64) int {
	xi := int(x)
	if x < float64(xi) {
		return xi - 1
	}
	return xi
}
