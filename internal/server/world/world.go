package world

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/OCharnyshevich/voxelworld/internal/server/world/block"
	"github.com/OCharnyshevich/voxelworld/internal/server/world/gen"
	"github.com/OCharnyshevich/voxelworld/internal/server/world/mesh"
)

// Renderer is the presentation side of chunk meshes. Submit makes a mesh
// visible and returns a handle; Remove detaches and releases it.
type Renderer interface {
	Submit(coord ChunkCoord, m *mesh.Mesh) (uuid.UUID, error)
	Remove(handle uuid.UUID)
}

const (
	DefaultRenderDistance = 2
	DefaultHysteresis     = 1
	DefaultGenBudget      = 1
	DefaultStreamEvery    = 1
)

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for streaming and render failures.
func WithLogger(log *slog.Logger) Option {
	return func(w *World) { w.log = log }
}

// WithRenderer sets the collaborator that receives chunk meshes.
func WithRenderer(r Renderer) Option {
	return func(w *World) { w.renderer = r }
}

// WithRenderDistance sets the Chebyshev radius of resident chunks.
func WithRenderDistance(n int) Option {
	return func(w *World) { w.renderDistance = n }
}

// WithHysteresis sets how far beyond the render distance a chunk may drift
// before it is evicted.
func WithHysteresis(n int) Option {
	return func(w *World) { w.hysteresis = n }
}

// WithGenBudget sets how many queued chunks are generated per streaming pass.
// A budget of zero or less generates every missing chunk synchronously.
func WithGenBudget(n int) Option {
	return func(w *World) { w.genBudget = n }
}

// WithStreamEvery runs the streaming pass only on every nth Update.
func WithStreamEvery(n int) Option {
	return func(w *World) { w.streamEvery = max(1, n) }
}

// World owns every resident chunk and streams chunks around a center.
// It is driven from a single tick loop and is not safe for concurrent use.
type World struct {
	generator gen.Generator
	renderer  Renderer
	log       *slog.Logger

	renderDistance int
	hysteresis     int
	genBudget      int
	streamEvery    int

	chunks map[ChunkCoord]*Chunk
	queue  []ChunkCoord // FIFO of coordinates awaiting generation
	queued map[ChunkCoord]struct{}
	center ChunkCoord
	ticks  uint64
}

// New creates an empty World backed by generator.
func New(generator gen.Generator, opts ...Option) *World {
	w := &World{
		generator:      generator,
		log:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		renderDistance: DefaultRenderDistance,
		hysteresis:     DefaultHysteresis,
		genBudget:      DefaultGenBudget,
		streamEvery:    DefaultStreamEvery,
		chunks:         make(map[ChunkCoord]*Chunk),
		queued:         make(map[ChunkCoord]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// RenderDistance returns the configured render distance.
func (w *World) RenderDistance() int { return w.renderDistance }

// Resident returns the number of resident chunks.
func (w *World) Resident() int { return len(w.chunks) }

// Queued returns the number of chunks waiting for generation.
func (w *World) Queued() int { return len(w.queue) }

// Center returns the chunk the last streaming pass was centered on.
func (w *World) Center() ChunkCoord { return w.center }

// Chunk returns the resident chunk at coord.
func (w *World) Chunk(coord ChunkCoord) (*Chunk, bool) {
	c, ok := w.chunks[coord]
	return c, ok
}

// ResidentCoords returns the coordinates of all resident chunks ordered by X then Z.
func (w *World) ResidentCoords() []ChunkCoord {
	keys := maps.Keys(w.chunks)
	slices.SortFunc(keys, func(a, b ChunkCoord) int {
		if a.X != b.X {
			return a.X - b.X
		}
		return a.Z - b.Z
	})
	return keys
}

// HeightAt returns the generated terrain height of a world column.
func (w *World) HeightAt(x, z int) int {
	return w.generator.HeightAt(x, z)
}

// Update runs one world tick for a player at the given horizontal position.
// Streaming happens on every streamEvery-th call, starting with the first.
func (w *World) Update(playerX, playerZ float64) {
	w.ticks++
	if (w.ticks-1)%uint64(w.streamEvery) != 0 {
		return
	}
	w.UpdateLoadedChunks(ChunkOfPos(playerX, playerZ))
}

// UpdateLoadedChunks evicts chunks beyond the render distance plus hysteresis,
// queues every missing chunk within the render distance nearest-first, and
// generates up to the per-pass budget from the front of the queue.
func (w *World) UpdateLoadedChunks(center ChunkCoord) {
	w.center = center
	w.evict(center)
	w.enqueue(center)
	w.drain()
}

// PreGenerateRadius synchronously generates every chunk within radius of
// center and returns the number of chunks newly created.
func (w *World) PreGenerateRadius(center ChunkCoord, radius int) int {
	w.center = center
	n := 0
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			if w.create(ChunkCoord{X: center.X + dx, Z: center.Z + dz}) {
				n++
			}
		}
	}
	return n
}

func (w *World) evict(center ChunkCoord) {
	limit := w.renderDistance + w.hysteresis
	for coord, c := range w.chunks {
		if coord.Chebyshev(center) <= limit {
			continue
		}
		w.detach(c)
		delete(w.chunks, coord)
		w.log.Debug("chunk evicted", "chunk", coord)
	}

	// Queued but not started chunks that fell out of range are dropped.
	kept := w.queue[:0]
	for _, coord := range w.queue {
		if coord.Chebyshev(center) > w.renderDistance {
			delete(w.queued, coord)
			continue
		}
		kept = append(kept, coord)
	}
	w.queue = kept
}

func (w *World) enqueue(center ChunkCoord) {
	var missing []ChunkCoord
	rd := w.renderDistance
	for dx := -rd; dx <= rd; dx++ {
		for dz := -rd; dz <= rd; dz++ {
			coord := ChunkCoord{X: center.X + dx, Z: center.Z + dz}
			if _, ok := w.chunks[coord]; ok {
				continue
			}
			if _, ok := w.queued[coord]; ok {
				continue
			}
			missing = append(missing, coord)
		}
	}
	slices.SortFunc(missing, func(a, b ChunkCoord) int {
		if d := a.Chebyshev(center) - b.Chebyshev(center); d != 0 {
			return d
		}
		if d := a.distSq(center) - b.distSq(center); d != 0 {
			return d
		}
		if a.X != b.X {
			return a.X - b.X
		}
		return a.Z - b.Z
	})
	for _, coord := range missing {
		w.queued[coord] = struct{}{}
	}
	w.queue = append(w.queue, missing...)
}

func (w *World) drain() {
	n := len(w.queue)
	if w.genBudget > 0 {
		n = min(n, w.genBudget)
	}
	for _, coord := range w.queue[:n] {
		delete(w.queued, coord)
		w.create(coord)
	}
	w.queue = w.queue[n:]
}

// create generates, meshes and registers a chunk. It reports false if a chunk
// is already resident at coord.
func (w *World) create(coord ChunkCoord) bool {
	if _, ok := w.chunks[coord]; ok {
		return false
	}
	c := newChunk(coord)
	c.generate(w.generator)
	w.chunks[coord] = c
	w.remesh(c)
	w.log.Debug("chunk generated", "chunk", coord)
	return true
}

// GetWorldBlock returns the block at a world position. Positions in chunks that
// are not resident, or outside the world height, read as Air.
func (w *World) GetWorldBlock(x, y, z int) block.Type {
	coord, l := Split(x, y, z)
	c, ok := w.chunks[coord]
	if !ok {
		return block.Air
	}
	return c.GetBlock(l.X, l.Y, l.Z)
}

// SetWorldBlock writes a block at a world position and remeshes the owning
// chunk only. It reports false when the chunk is not resident or y is out of range.
func (w *World) SetWorldBlock(x, y, z int, t block.Type) bool {
	coord, l := Split(x, y, z)
	c, ok := w.chunks[coord]
	if !ok {
		return false
	}
	if !c.SetBlock(l.X, l.Y, l.Z, t) {
		return false
	}
	w.remesh(c)
	return true
}

// Remesh rebuilds and resubmits the mesh of a resident chunk.
func (w *World) Remesh(coord ChunkCoord) bool {
	c, ok := w.chunks[coord]
	if !ok {
		return false
	}
	w.remesh(c)
	return true
}

// remesh fully rebuilds the chunk mesh and replaces the submitted one.
func (w *World) remesh(c *Chunk) {
	m := mesh.Build(chunkSource{c: c, w: w}, c.coord.X, c.coord.Z)
	c.faces = m.Opaque.Faces() + m.Water.Faces()
	w.detach(c)
	if w.renderer == nil || m.Empty() {
		return
	}
	h, err := w.renderer.Submit(c.coord, m)
	if err != nil {
		// The chunk stays resident without a mesh; the next remesh retries.
		w.log.Warn("render submit failed", "chunk", c.coord, "error", err)
		return
	}
	c.handle = h
}

func (w *World) detach(c *Chunk) {
	if c.handle == uuid.Nil {
		return
	}
	if w.renderer != nil {
		w.renderer.Remove(c.handle)
	}
	c.handle = uuid.Nil
}

// Close detaches every submitted mesh and forgets all chunks.
func (w *World) Close() {
	for coord, c := range w.chunks {
		w.detach(c)
		delete(w.chunks, coord)
	}
	w.queue = nil
	clear(w.queued)
}

// chunkSource feeds a chunk and its world neighbors to the mesher.
type chunkSource struct {
	c *Chunk
	w *World
}

func (s chunkSource) Local(x, y, z int) block.Type {
	return s.c.GetBlock(x, y, z)
}

func (s chunkSource) World(x, y, z int) block.Type {
	return s.w.GetWorldBlock(x, y, z)
}
