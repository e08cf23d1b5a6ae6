package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/OCharnyshevich/voxelworld/internal/server/config"
	"github.com/OCharnyshevich/voxelworld/internal/server/conn"
	"github.com/OCharnyshevich/voxelworld/internal/server/world/gen"
)

const shutdownTimeout = 5 * time.Second

// Server hosts viewer sessions over websocket and, optionally, the static
// viewer bundle.
type Server struct {
	cfg       *config.Config
	log       *slog.Logger
	generator gen.Generator
	upgrader  websocket.Upgrader

	sessions sync.WaitGroup
}

// New creates a new Server with the given config and logger.
func New(cfg *config.Config, log *slog.Logger) *Server {
	return &Server{
		cfg:       cfg,
		log:       log,
		generator: NewGenerator(cfg),
		upgrader: websocket.Upgrader{
			// Viewers are served from anywhere, including file:// pages.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// NewGenerator returns the terrain generator selected by cfg. Generators are
// read-only after construction and shared by every session.
func NewGenerator(cfg *config.Config) gen.Generator {
	switch cfg.GeneratorType {
	case config.GeneratorFlat:
		return gen.NewFlatGenerator()
	case config.GeneratorCity:
		return gen.NewCityGenerator(cfg.Seed)
	default:
		if cfg.RandomSeed {
			return gen.NewRandomDefaultGenerator()
		}
		return gen.NewDefaultGenerator(cfg.Seed)
	}
}

// Handler returns the HTTP routes: /ws for sessions and, when a viewer
// directory is configured, the viewer files at /.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleSession)
	if s.cfg.ViewerDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.cfg.ViewerDir)))
	}
	return mux
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade websocket", "addr", r.RemoteAddr, "error", err)
		return
	}

	s.sessions.Add(1)
	defer s.sessions.Done()

	session := conn.NewSession(ws, s.cfg, s.generator, s.log)
	if err := session.Run(r.Context()); err != nil {
		s.log.Error("session ended", "session", session.ID().String(), "error", err)
	}
}

// Start begins listening for connections and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	lc := net.ListenConfig{}

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled, then waits
// for running sessions to finish.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	s.log.Info("server started",
		"addr", listener.Addr().String(),
		"generator", s.cfg.GeneratorType,
		"seed", s.cfg.Seed,
		"randomSeed", s.cfg.RandomSeed,
		"renderDistance", s.cfg.RenderDistance,
		"tickRate", s.cfg.TickRate,
		"viewerDir", s.cfg.ViewerDir,
	)

	// Shut down when context is cancelled.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error("http shutdown", "error", err)
		}
	}()

	err := srv.Serve(listener)
	if !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	// Hijacked websocket connections are not tracked by Shutdown.
	s.sessions.Wait()
	s.log.Info("server shutting down")
	return nil
}
