package world

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/OCharnyshevich/voxelworld/internal/server/world/block"
	"github.com/OCharnyshevich/voxelworld/internal/server/world/gen"
	"github.com/OCharnyshevich/voxelworld/internal/server/world/mesh"
)

// recordingRenderer keeps submitted meshes by handle.
type recordingRenderer struct {
	live    map[uuid.UUID]ChunkCoord
	submits int
	removes int
	fail    bool
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{live: map[uuid.UUID]ChunkCoord{}}
}

func (r *recordingRenderer) Submit(coord ChunkCoord, _ *mesh.Mesh) (uuid.UUID, error) {
	if r.fail {
		return uuid.Nil, errors.New("out of buffers")
	}
	r.submits++
	h := uuid.New()
	r.live[h] = coord
	return h, nil
}

func (r *recordingRenderer) Remove(h uuid.UUID) {
	r.removes++
	delete(r.live, h)
}

func newTestWorld(r Renderer, opts ...Option) *World {
	return New(gen.NewFlatGenerator(), append([]Option{WithRenderer(r)}, opts...)...)
}

func TestWorldBaseStateFlatGenerator(t *testing.T) {
	w := newTestWorld(nil)
	w.PreGenerateRadius(ChunkCoord{}, 0)

	tests := []struct {
		y    int
		want block.Type
	}{
		{0, block.Stone},
		{3, block.Dirt},
		{4, block.Grass},
		{5, block.Air},
		{-1, block.Air},
		{gen.WorldHeight, block.Air},
	}
	for _, tt := range tests {
		if got := w.GetWorldBlock(3, tt.y, 5); got != tt.want {
			t.Errorf("GetWorldBlock(3,%d,5) = %v, want %v", tt.y, got, tt.want)
		}
	}
}

func TestGetWorldBlockUnloaded(t *testing.T) {
	w := newTestWorld(nil)
	if got := w.GetWorldBlock(100, 0, 100); got != block.Air {
		t.Errorf("GetWorldBlock on unloaded chunk = %v, want air", got)
	}
	if w.SetWorldBlock(100, 1, 100, block.Stone) {
		t.Error("SetWorldBlock on unloaded chunk should report false")
	}
}

func TestWorldSetBlockNegativeCoords(t *testing.T) {
	w := newTestWorld(nil)
	w.PreGenerateRadius(ChunkCoord{}, 2)

	if !w.SetWorldBlock(-1, 10, -17, block.Wood) {
		t.Fatal("SetWorldBlock(-1,10,-17) = false, want true")
	}
	if got := w.GetWorldBlock(-1, 10, -17); got != block.Wood {
		t.Errorf("GetWorldBlock(-1,10,-17) = %v, want wood", got)
	}
	c, ok := w.Chunk(ChunkCoord{-1, -2})
	if !ok {
		t.Fatal("chunk (-1,-2) not resident")
	}
	if got := c.GetBlock(15, 10, 15); got != block.Wood {
		t.Errorf("chunk-local (15,10,15) = %v, want wood", got)
	}
	if c.State() != StateModified {
		t.Errorf("State() = %v, want modified", c.State())
	}
	if w.SetWorldBlock(-1, gen.WorldHeight, -17, block.Wood) {
		t.Error("SetWorldBlock above world height should report false")
	}
}

func TestPreGenerateRadius(t *testing.T) {
	r := newRecordingRenderer()
	w := newTestWorld(r)
	count := w.PreGenerateRadius(ChunkCoord{}, 2)

	// Radius 2 → 5×5 = 25 chunks.
	if count != 25 {
		t.Errorf("PreGenerateRadius(2) returned %d, want 25", count)
	}
	for cx := -2; cx <= 2; cx++ {
		for cz := -2; cz <= 2; cz++ {
			c, ok := w.Chunk(ChunkCoord{cx, cz})
			if !ok {
				t.Errorf("chunk (%d,%d) not pre-generated", cx, cz)
				continue
			}
			if c.State() != StateGenerated {
				t.Errorf("chunk (%d,%d) state = %v, want generated", cx, cz, c.State())
			}
		}
	}
	if got := w.PreGenerateRadius(ChunkCoord{}, 2); got != 0 {
		t.Errorf("second PreGenerateRadius created %d chunks, want 0", got)
	}
	if len(r.live) != 25 {
		t.Errorf("live meshes = %d, want 25", len(r.live))
	}
}

func TestInitialStreamingPassSynchronous(t *testing.T) {
	w := newTestWorld(nil, WithGenBudget(0), WithRenderDistance(2))
	w.Update(8, 8)

	if got := w.Resident(); got != 25 {
		t.Errorf("Resident() = %d, want 25", got)
	}
	if got := w.Queued(); got != 0 {
		t.Errorf("Queued() = %d, want 0", got)
	}
	assertStreamingInvariant(t, w)
}

func TestStreamingBudgetNearestFirst(t *testing.T) {
	w := newTestWorld(nil, WithGenBudget(1), WithRenderDistance(2))

	w.UpdateLoadedChunks(ChunkCoord{})
	if got := w.Resident(); got != 1 {
		t.Fatalf("Resident() after one pass = %d, want 1", got)
	}
	if _, ok := w.Chunk(ChunkCoord{}); !ok {
		t.Fatal("player chunk should be generated first")
	}
	if got := w.Queued(); got != 24 {
		t.Errorf("Queued() = %d, want 24", got)
	}

	for i := 2; i <= 9; i++ {
		w.UpdateLoadedChunks(ChunkCoord{})
		if got := w.Resident(); got != i {
			t.Fatalf("Resident() after %d passes = %d, want %d", i, got, i)
		}
	}
	// The inner ring is complete before the outer ring starts.
	for _, c := range w.ResidentCoords() {
		if c.Chebyshev(ChunkCoord{}) > 1 {
			t.Errorf("outer chunk %v generated before inner ring finished", c)
		}
	}

	for range 16 {
		w.UpdateLoadedChunks(ChunkCoord{})
	}
	if got := w.Resident(); got != 25 {
		t.Errorf("Resident() = %d, want 25", got)
	}
	assertStreamingInvariant(t, w)
}

func TestEvictionWithHysteresis(t *testing.T) {
	r := newRecordingRenderer()
	w := newTestWorld(r, WithGenBudget(0), WithRenderDistance(2), WithHysteresis(1))
	w.UpdateLoadedChunks(ChunkCoord{})

	// One chunk east: the west column is at distance 3 and stays.
	w.UpdateLoadedChunks(ChunkCoord{X: 1})
	if _, ok := w.Chunk(ChunkCoord{X: -2}); !ok {
		t.Error("chunk (-2,0) evicted inside hysteresis band")
	}
	if got := w.Resident(); got != 30 {
		t.Errorf("Resident() = %d, want 30", got)
	}

	// Two chunks east: the west column is at distance 4 and goes.
	w.UpdateLoadedChunks(ChunkCoord{X: 2})
	for z := -2; z <= 2; z++ {
		if _, ok := w.Chunk(ChunkCoord{X: -2, Z: z}); ok {
			t.Errorf("chunk (-2,%d) still resident", z)
		}
	}
	for _, coord := range r.live {
		if coord.Chebyshev(ChunkCoord{X: 2}) > 3 {
			t.Errorf("mesh for evicted chunk %v still live", coord)
		}
	}
	if len(r.live) != w.Resident() {
		t.Errorf("live meshes = %d, resident = %d", len(r.live), w.Resident())
	}
	assertStreamingInvariant(t, w)
}

func TestEvictionDropsQueuedChunks(t *testing.T) {
	w := newTestWorld(nil, WithGenBudget(1), WithRenderDistance(1))
	w.UpdateLoadedChunks(ChunkCoord{})
	if got := w.Queued(); got != 8 {
		t.Fatalf("Queued() = %d, want 8", got)
	}

	w.UpdateLoadedChunks(ChunkCoord{X: 10})
	for _, coord := range w.queue {
		if coord.Chebyshev(ChunkCoord{X: 10}) > 1 {
			t.Errorf("stale queue entry %v", coord)
		}
	}
	if _, ok := w.Chunk(ChunkCoord{}); ok {
		t.Error("chunk (0,0) should be evicted")
	}
}

func TestStreamEveryThrottles(t *testing.T) {
	w := newTestWorld(nil, WithGenBudget(1), WithStreamEvery(3))
	w.Update(0, 0) // streams
	w.Update(0, 0)
	w.Update(0, 0)
	if got := w.Resident(); got != 1 {
		t.Errorf("Resident() after 3 ticks = %d, want 1", got)
	}
	w.Update(0, 0) // streams
	if got := w.Resident(); got != 2 {
		t.Errorf("Resident() after 4 ticks = %d, want 2", got)
	}
}

func TestSetWorldBlockRemeshesOnlyOwner(t *testing.T) {
	r := newRecordingRenderer()
	w := newTestWorld(r)
	w.PreGenerateRadius(ChunkCoord{}, 1)

	before := r.submits
	owner, _ := w.Chunk(ChunkCoord{})
	oldHandle := owner.Handle()
	oldFaces := owner.Faces()

	// Seam block: neighbor (-1,0) is not touched.
	w.SetWorldBlock(0, 5, 3, block.Stone)
	if got := r.submits - before; got != 1 {
		t.Errorf("submits after edit = %d, want 1", got)
	}
	if owner.Handle() == oldHandle {
		t.Error("edited chunk kept its old handle")
	}
	if _, ok := r.live[oldHandle]; ok {
		t.Error("old mesh not removed")
	}
	if owner.Faces() == oldFaces {
		t.Error("mesh did not change after edit")
	}
}

func TestSubmitFailureKeepsChunkResident(t *testing.T) {
	r := newRecordingRenderer()
	r.fail = true
	w := newTestWorld(r)
	w.PreGenerateRadius(ChunkCoord{}, 0)

	c, ok := w.Chunk(ChunkCoord{})
	if !ok {
		t.Fatal("chunk not resident after failed submit")
	}
	if c.Handle() != uuid.Nil {
		t.Error("handle should be nil after failed submit")
	}

	r.fail = false
	w.Remesh(ChunkCoord{})
	if c.Handle() == uuid.Nil {
		t.Error("remesh should retry the submit")
	}
}

func TestWorldHeightAndClose(t *testing.T) {
	r := newRecordingRenderer()
	w := newTestWorld(r)
	if got := w.HeightAt(0, 0); got != 4 {
		t.Errorf("HeightAt(0,0) = %d, want 4", got)
	}
	w.PreGenerateRadius(ChunkCoord{}, 1)
	w.Close()
	if w.Resident() != 0 || len(r.live) != 0 {
		t.Errorf("after Close: resident=%d live=%d, want 0/0", w.Resident(), len(r.live))
	}
}

func TestWorldDefaultGenerator(t *testing.T) {
	w := New(gen.NewDefaultGenerator(12345))
	w.PreGenerateRadius(ChunkCoord{}, 0)

	if got := w.GetWorldBlock(0, 0, 0); got != block.Stone {
		t.Errorf("GetWorldBlock(0,0,0) = %v, want stone", got)
	}
	h := w.HeightAt(0, 0)
	if got := w.GetWorldBlock(0, h, 0); got == block.Air {
		t.Errorf("surface at HeightAt(0,0)=%d is air", h)
	}
}

func assertStreamingInvariant(t *testing.T, w *World) {
	t.Helper()
	center := w.Center()
	rd := w.RenderDistance()
	for dx := -rd; dx <= rd; dx++ {
		for dz := -rd; dz <= rd; dz++ {
			coord := ChunkCoord{X: center.X + dx, Z: center.Z + dz}
			if _, ok := w.Chunk(coord); !ok {
				t.Errorf("chunk %v within render distance is not resident", coord)
			}
		}
	}
	for _, coord := range w.ResidentCoords() {
		if coord.Chebyshev(center) > rd+w.hysteresis {
			t.Errorf("chunk %v beyond hysteresis is still resident", coord)
		}
	}
}
