package conn

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/OCharnyshevich/voxelworld/internal/server/config"
	"github.com/OCharnyshevich/voxelworld/internal/server/packet"
	"github.com/OCharnyshevich/voxelworld/internal/server/sky"
	"github.com/OCharnyshevich/voxelworld/internal/server/world/gen"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.GeneratorType = config.GeneratorFlat
	cfg.RenderDistance = 1
	cfg.TickRate = 200
	return cfg
}

// startSession serves one session per websocket connection and returns a
// connected client and the channel receiving Run's result.
func startSession(t *testing.T, ctx context.Context) (*websocket.Conn, <-chan error) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	done := make(chan error, 1)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		done <- NewSession(ws, testConfig(), gen.NewFlatGenerator(), log).Run(ctx)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, done
}

func readEnvelope(t *testing.T, c *websocket.Conn) packet.Envelope {
	t.Helper()
	c.SetReadDeadline(time.Now().Add(5 * time.Second))
	var env packet.Envelope
	if err := c.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func readFrame(t *testing.T, c *websocket.Conn) packet.Frame {
	t.Helper()
	for {
		env := readEnvelope(t, c)
		if env.Type != packet.TypeFrame {
			continue
		}
		var f packet.Frame
		if err := json.Unmarshal(env.Data, &f); err != nil {
			t.Fatalf("parse frame: %v", err)
		}
		return f
	}
}

func sendInput(t *testing.T, c *websocket.Conn, in packet.Input) {
	t.Helper()
	data, err := packet.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestSessionHandshake(t *testing.T) {
	client, _ := startSession(t, context.Background())

	env := readEnvelope(t, client)
	if env.Type != packet.TypeHello {
		t.Fatalf("first message = %q, want hello", env.Type)
	}
	var hello packet.Hello
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		t.Fatalf("parse hello: %v", err)
	}
	if hello.Generator != config.GeneratorFlat || hello.RenderDistance != 1 {
		t.Errorf("hello = %+v, want flat generator with render distance 1", hello)
	}
	if hello.Session == "" {
		t.Error("hello.Session is empty")
	}

	// The spawn square is generated before the first tick.
	meshes := 0
	for {
		env := readEnvelope(t, client)
		if env.Type == packet.TypeFrame {
			break
		}
		if env.Type != packet.TypeMesh {
			t.Fatalf("unexpected %q before first frame", env.Type)
		}
		meshes++
	}
	if meshes != 9 {
		t.Errorf("meshes before first frame = %d, want 9", meshes)
	}
}

func TestSessionAppliesInput(t *testing.T) {
	client, _ := startSession(t, context.Background())
	readFrame(t, client)

	slot := 2
	sendInput(t, client, packet.Input{Select: &slot, Force: "midnight"})

	for i := 0; i < 100; i++ {
		f := readFrame(t, client)
		if f.Stats.Selected == 2 && f.Stats.TimeLabel == sky.Midnight.String() {
			if f.Sky.IsDay {
				t.Error("Sky.IsDay = true after forcing midnight")
			}
			return
		}
	}
	t.Fatal("input never reached a frame")
}

func TestSessionViewerClose(t *testing.T) {
	client, done := startSession(t, context.Background())
	readFrame(t, client)

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := client.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
		t.Fatalf("write close: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after viewer close")
	}
}

func TestSessionServerShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client, done := startSession(t, ctx)
	readFrame(t, client)
	cancel()

	client.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, _, err := client.ReadMessage()
		if err == nil {
			continue
		}
		if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
			t.Errorf("read error = %v, want going away close", err)
		}
		break
	}
	if err := <-done; err != nil {
		t.Errorf("Run = %v, want nil", err)
	}
}

func TestInputAccumulation(t *testing.T) {
	var s Session
	slot := 4
	s.mergeInput(&packet.Input{Keys: packet.Keys{Forward: true}, LookDX: 3, Break: true, Scroll: 1})
	s.mergeInput(&packet.Input{Keys: packet.Keys{Left: true}, LookDX: 2, Scroll: 1, Select: &slot})

	in := s.takeInput()
	if in.Intent.Forward || !in.Intent.Left {
		t.Errorf("Intent = %+v, want latest keys only", in.Intent)
	}
	if in.LookDX != 5 {
		t.Errorf("LookDX = %v, want 5", in.LookDX)
	}
	if !in.Break {
		t.Error("Break = false, want latched true")
	}
	if in.Scroll != 2 {
		t.Errorf("Scroll = %d, want 2", in.Scroll)
	}
	if in.Select != 4 {
		t.Errorf("Select = %d, want 4", in.Select)
	}

	next := s.takeInput()
	if !next.Intent.Left {
		t.Error("held keys should persist across ticks")
	}
	if next.LookDX != 0 || next.Break || next.Scroll != 0 || next.Select != -1 {
		t.Errorf("events not cleared: %+v", next)
	}
}

func TestNewCycle(t *testing.T) {
	cfg := config.DefaultConfig()
	if got := NewCycle(cfg).Mode(); got != sky.ModeTick {
		t.Errorf("Mode() = %v, want ModeTick", got)
	}
	cfg.Clock = config.ClockWall
	if got := NewCycle(cfg).Mode(); got != sky.ModeWall {
		t.Errorf("Mode() = %v, want ModeWall", got)
	}
}

func TestRemoveLogsFirstWriteFailure(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	conns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- ws
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	ws := <-conns
	s := NewSession(ws, testConfig(), gen.NewFlatGenerator(), log)
	ws.Close()

	s.Remove(uuid.New())
	s.Remove(uuid.New())

	if s.writeErr == nil {
		t.Fatal("writeErr = nil after writing to a closed socket")
	}
	if n := strings.Count(buf.String(), "remove mesh failed"); n != 1 {
		t.Errorf("logged %d remove failures, want 1\n%s", n, buf.String())
	}
}
