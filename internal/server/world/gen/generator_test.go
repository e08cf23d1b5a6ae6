package gen

import (
	"testing"

	"github.com/OCharnyshevich/voxelworld/internal/server/world/block"
)

func TestChunkDataRoundTrip(t *testing.T) {
	c := &ChunkData{}
	tests := []struct {
		x, y, z int
		t       block.Type
	}{
		{0, 0, 0, block.Stone},
		{15, 31, 15, block.Leaves},
		{7, 12, 3, block.Water},
		{1, 30, 14, block.Wood},
	}
	for _, tt := range tests {
		c.SetBlock(tt.x, tt.y, tt.z, tt.t)
		if got := c.GetBlock(tt.x, tt.y, tt.z); got != tt.t {
			t.Errorf("GetBlock(%d,%d,%d) = %v, want %v", tt.x, tt.y, tt.z, got, tt.t)
		}
	}
}

func TestChunkDataHeightBounds(t *testing.T) {
	c := &ChunkData{}
	for i := range c.Blocks {
		c.Blocks[i] = block.Stone
	}
	for _, y := range []int{-1, -20, WorldHeight, WorldHeight + 5} {
		c.SetBlock(0, y, 0, block.Grass)
		if got := c.GetBlock(0, y, 0); got != block.Air {
			t.Errorf("GetBlock(0,%d,0) = %v, want air", y, got)
		}
	}
	for i, b := range c.Blocks {
		if b != block.Stone {
			t.Fatalf("out-of-range SetBlock wrote index %d = %v", i, b)
		}
	}
}

func TestIndexLayout(t *testing.T) {
	tests := []struct {
		x, y, z int
		want    int
	}{
		{0, 0, 0, 0},
		{1, 0, 0, 1},
		{0, 0, 1, ChunkSize},
		{0, 1, 0, ChunkSize * ChunkSize},
		{15, 31, 15, ChunkVolume - 1},
	}
	for _, tt := range tests {
		if got := Index(tt.x, tt.y, tt.z); got != tt.want {
			t.Errorf("Index(%d,%d,%d) = %d, want %d", tt.x, tt.y, tt.z, got, tt.want)
		}
	}
}

func TestChunkRNGDeterministic(t *testing.T) {
	a := newChunkRNG(7, 3, -2, treeSalt)
	b := newChunkRNG(7, 3, -2, treeSalt)
	for range 100 {
		fa, fb := a.nextFloat(), b.nextFloat()
		if fa != fb {
			t.Fatalf("nextFloat diverged: %f vs %f", fa, fb)
		}
		if fa < 0 || fa >= 1 {
			t.Fatalf("nextFloat() = %f, want [0,1)", fa)
		}
		if n := a.nextN(5); n < 0 || n >= 5 {
			t.Fatalf("nextN(5) = %d, want [0,5)", n)
		}
		b.nextN(5)
	}
}
