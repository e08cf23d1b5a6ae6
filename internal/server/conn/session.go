package conn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/OCharnyshevich/voxelworld/internal/server/config"
	"github.com/OCharnyshevich/voxelworld/internal/server/game"
	"github.com/OCharnyshevich/voxelworld/internal/server/packet"
	"github.com/OCharnyshevich/voxelworld/internal/server/sky"
	"github.com/OCharnyshevich/voxelworld/internal/server/world"
	"github.com/OCharnyshevich/voxelworld/internal/server/world/gen"
	"github.com/OCharnyshevich/voxelworld/internal/server/world/mesh"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 4096
)

// Session drives one viewer: its own world, player and sky, ticked at the
// configured rate. The tick loop is the only writer to the socket; the read
// loop only records input.
type Session struct {
	id        uuid.UUID
	ws        *websocket.Conn
	cfg       *config.Config
	generator gen.Generator
	log       *slog.Logger

	mu    sync.Mutex
	input packet.Input // accumulated since the last tick

	writeErr error
}

// NewSession wraps an upgraded websocket connection.
func NewSession(ws *websocket.Conn, cfg *config.Config, generator gen.Generator, log *slog.Logger) *Session {
	id := uuid.New()
	return &Session{
		id:        id,
		ws:        ws,
		cfg:       cfg,
		generator: generator,
		log:       log.With("session", id.String(), "addr", ws.RemoteAddr().String()),
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Run plays the session until the viewer disconnects or ctx is cancelled.
// A normal close by the viewer is not an error.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.ws.Close()

	s.log.Info("session started")
	defer s.log.Info("session closed")

	if err := s.send(packet.NewHello(s.id, s.cfg.GeneratorType, s.cfg.Seed, s.cfg.RenderDistance, s.cfg.TickRate)); err != nil {
		return fmt.Errorf("send hello: %w", err)
	}

	w := world.New(s.generator,
		world.WithRenderer(s),
		world.WithLogger(s.log),
		world.WithRenderDistance(s.cfg.RenderDistance),
		world.WithHysteresis(s.cfg.EvictHysteresis),
		world.WithGenBudget(s.cfg.GenBudget),
		world.WithStreamEvery(s.cfg.StreamEvery),
	)
	defer w.Close()

	state := game.NewWorldState(w, NewCycle(s.cfg))
	if s.writeErr != nil {
		return fmt.Errorf("send initial chunks: %w", s.writeErr)
	}
	s.log.Info("player spawned", "position", state.Player.Position, "chunks", w.Resident())

	readErr := make(chan error, 1)
	go func() {
		readErr <- s.readLoop()
		cancel()
	}()

	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			select {
			case err := <-readErr:
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return nil
				}
				return fmt.Errorf("read: %w", err)
			default:
			}
			s.closeGoingAway()
			return nil
		case <-ticker.C:
			frame := state.Tick(s.takeInput())
			if err := s.send(packet.NewFrame(frame)); err != nil {
				return fmt.Errorf("send frame: %w", err)
			}
		}
	}
}

func (s *Session) readLoop() error {
	s.ws.SetReadLimit(maxMessageSize)
	for {
		_, data, err := s.ws.ReadMessage()
		if err != nil {
			return err
		}
		msg, err := packet.Decode(data)
		if err != nil {
			s.log.Warn("dropping message", "error", err)
			continue
		}
		switch m := msg.(type) {
		case *packet.Input:
			s.mergeInput(m)
		}
	}
}

// mergeInput folds a viewer message into the pending input. Keys are levels
// and replace the previous state. Deltas and scroll add up; clicks latch
// until the next tick.
func (s *Session) mergeInput(in *packet.Input) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.input.Keys = in.Keys
	s.input.LookDX += in.LookDX
	s.input.LookDY += in.LookDY
	s.input.Break = s.input.Break || in.Break
	s.input.Place = s.input.Place || in.Place
	s.input.Scroll += in.Scroll
	if in.Select != nil {
		sel := *in.Select
		s.input.Select = &sel
	}
	if in.Force != "" {
		s.input.Force = in.Force
	}
}

// takeInput returns the pending input and clears everything but the held keys.
func (s *Session) takeInput() game.Input {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := s.input.Game()
	s.input = packet.Input{Keys: s.input.Keys}
	return in
}

// Submit implements world.Renderer by shipping the mesh to the viewer.
func (s *Session) Submit(coord world.ChunkCoord, m *mesh.Mesh) (uuid.UUID, error) {
	if s.writeErr != nil {
		return uuid.Nil, s.writeErr
	}
	handle := uuid.New()
	if err := s.send(packet.NewMesh(handle, coord, m)); err != nil {
		return uuid.Nil, err
	}
	return handle, nil
}

// Remove implements world.Renderer. Only the first write failure is logged.
func (s *Session) Remove(handle uuid.UUID) {
	failed := s.writeErr != nil
	if err := s.send(packet.Remove{Handle: handle.String()}); err != nil && !failed {
		s.log.Debug("remove mesh failed", "handle", handle.String(), "error", err)
	}
}

// send writes one message. After the first failure every later send fails
// with the same error.
func (s *Session) send(m packet.Message) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	data, err := packet.Encode(m)
	if err != nil {
		return err
	}
	if err := s.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		s.writeErr = err
		return err
	}
	if err := s.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		s.writeErr = fmt.Errorf("write %s: %w", m.MessageType(), err)
		return s.writeErr
	}
	return nil
}

func (s *Session) closeGoingAway() {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	err := s.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		s.log.Debug("close handshake failed", "error", err)
	}
	s.writeErr = websocket.ErrCloseSent
}

// NewCycle builds the day/night cycle selected by cfg.
func NewCycle(cfg *config.Config) *sky.Cycle {
	track := sky.WithTracking(cfg.TrackPlayerSky)
	if cfg.Clock == config.ClockWall {
		day := time.Duration(cfg.DayLengthTicks) * time.Second / time.Duration(cfg.TickRate)
		return sky.NewWallCycle(day, track)
	}
	return sky.NewTickCycle(cfg.DayLengthTicks, track)
}
