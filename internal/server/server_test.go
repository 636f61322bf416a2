package server

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/sip"
	"github.com/charmbracelet/ssh"

	"github.com/bittlabs/chatdock/internal/app"
	"github.com/bittlabs/chatdock/internal/chat"
	"github.com/bittlabs/chatdock/internal/logging"
	"github.com/bittlabs/chatdock/internal/pointer"
)

// sshSession is the part of an ssh.Session the release middleware uses.
type sshSession struct {
	ssh.Session
	user string
	ctx  *sshContext
}

func (s *sshSession) User() string         { return s.user }
func (s *sshSession) Context() ssh.Context { return s.ctx }

type sshContext struct {
	ssh.Context
	mu     sync.Mutex
	values map[any]any
}

func (c *sshContext) Value(key any) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key]
}

func (c *sshContext) SetValue(key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

func newSSHSession(user string) *sshSession {
	return &sshSession{user: user, ctx: &sshContext{values: make(map[any]any)}}
}

// webSession is a browser session with no terminal behind it.
type webSession struct {
	ctx context.Context
}

func (w *webSession) Pty() sip.Pty                         { return sip.Pty{Width: 120, Height: 40} }
func (w *webSession) Context() context.Context             { return w.ctx }
func (w *webSession) Read([]byte) (int, error)             { return 0, nil }
func (w *webSession) Write(p []byte) (int, error)          { return len(p), nil }
func (w *webSession) Fd() uintptr                          { return 0 }
func (w *webSession) PtySlave() *os.File                   { return nil }
func (w *webSession) WindowChanges() <-chan sip.WindowSize { return nil }

func newSessions(t *testing.T) *Sessions {
	t.Helper()
	room, err := chat.NewRoom(context.Background(), nil, chat.RoomOptions{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = room.Close() })
	return NewSessions(room, nil, logging.NewWriter(t.Output(), log.DebugLevel))
}

func TestSessionsShareRoom(t *testing.T) {
	s := newSessions(t)
	alice := s.Open("alice", 120, 40)
	bob := s.Open("bob", 120, 40)
	defer s.Close()

	if got := s.Room.Subscribers(); got != 2 {
		t.Fatalf("subscribers = %d, want 2", got)
	}

	res, ok := alice.SendText("hi bob")().(app.SendResultMsg)
	if !ok || res.Err != nil {
		t.Fatalf("send = %#v", res)
	}

	batch, ok := bob.Init()().(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatal("Init did not batch the listener")
	}
	arrived, ok := batch[0]().(app.MessageArrivedMsg)
	if !ok {
		t.Fatal("bob's listener returned no message")
	}
	bob.Update(arrived)

	msgs := bob.Widget.Messages()
	if len(msgs) != 1 || msgs[0].Author != "alice" || msgs[0].Text != "hi bob" {
		t.Fatalf("bob sees %+v", msgs)
	}
}

func TestSessionsRelease(t *testing.T) {
	s := newSessions(t)
	m := s.Open("", 80, 24)
	if s.Live() != 1 {
		t.Fatalf("live = %d", s.Live())
	}

	s.Release(m)
	s.Release(m)
	if s.Live() != 0 {
		t.Fatalf("live = %d after release", s.Live())
	}
	if got := s.Room.Subscribers(); got != 0 {
		t.Fatalf("subscribers = %d after release", got)
	}
}

func TestSessionsCloseReleasesAll(t *testing.T) {
	s := newSessions(t)
	for range 3 {
		s.Open("u", 80, 24)
	}
	s.Close()
	if s.Live() != 0 || s.Room.Subscribers() != 0 {
		t.Fatalf("live = %d, subscribers = %d", s.Live(), s.Room.Subscribers())
	}
}

func TestSSHServerConfigAddr(t *testing.T) {
	tests := []struct {
		host, port, want string
	}{
		{"localhost", "2222", "localhost:2222"},
		{"", "23234", ":23234"},
		{"::1", "22", "[::1]:22"},
	}
	for _, tt := range tests {
		cfg := &SSHServerConfig{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr(%q, %q) = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestNewSSHServer(t *testing.T) {
	s := newSessions(t)
	srv, err := NewSSHServer(&SSHServerConfig{
		Host:        "localhost",
		Port:        "0",
		HostKeyPath: filepath.Join(t.TempDir(), "host_key"),
		IdleTimeout: time.Minute,
		Version:     "test",
	}, s)
	if err != nil {
		t.Fatalf("NewSSHServer: %v", err)
	}
	if srv.Addr != "localhost:0" {
		t.Fatalf("addr = %q", srv.Addr)
	}
	if srv.Version != "chatdock-test" {
		t.Fatalf("version = %q", srv.Version)
	}
}

func TestServeWithNothingToServe(t *testing.T) {
	s := newSessions(t)
	s.Open("u", 80, 24)
	if err := Serve(context.Background(), nil, nil, s); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if s.Live() != 0 {
		t.Fatal("Serve left sessions open")
	}
}

func TestReleaseAfterRun(t *testing.T) {
	s := newSessions(t)
	sess := newSSHSession("alice")
	m := s.Open("alice", 80, 24)
	sess.Context().SetValue(sessionModelKey{}, m)

	ran := false
	handler := s.releaseAfterRun(func(ssh.Session) {
		ran = true
		if s.Live() != 1 {
			t.Error("model released while its program was running")
		}
	})
	handler(sess)

	if !ran {
		t.Fatal("inner handler not called")
	}
	if s.Live() != 0 || s.Room.Subscribers() != 0 {
		t.Fatalf("live = %d, subscribers = %d", s.Live(), s.Room.Subscribers())
	}
}

func TestReleaseAfterRunWithoutModel(t *testing.T) {
	s := newSessions(t)
	s.Open("bob", 80, 24)
	s.releaseAfterRun(func(ssh.Session) {})(newSSHSession("bob"))
	if s.Live() != 1 {
		t.Fatalf("live = %d, want the unrelated session kept", s.Live())
	}
	s.Close()
}

func TestDetachWhileWidgetBusy(t *testing.T) {
	s := newSessions(t)
	m := s.Open("alice", 80, 24)
	anchor := m.Widget.Position()

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			m.Widget.PointerDown(pointer.Mouse, anchor)
			m.Widget.PointerUp(anchor)
		}
	}()

	s.Close()
	close(stop)
	<-done

	if s.Live() != 0 || s.Room.Subscribers() != 0 {
		t.Fatalf("live = %d, subscribers = %d", s.Live(), s.Room.Subscribers())
	}
	if m.Capturing() {
		t.Fatal("capture left on after detach")
	}
}

func TestWebSessionDetachedWhenContextEnds(t *testing.T) {
	s := newSessions(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if p := s.webProgram(&webSession{ctx: ctx}); p == nil {
		t.Fatal("webProgram returned nil")
	}
	if s.Live() != 1 || s.Room.Subscribers() != 1 {
		t.Fatalf("live = %d, subscribers = %d", s.Live(), s.Room.Subscribers())
	}

	cancel()
	deadline := time.Now().Add(2 * time.Second)
	for s.Room.Subscribers() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscribers = %d after session end", s.Room.Subscribers())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if s.Live() != 0 {
		t.Fatalf("live = %d after session end", s.Live())
	}
}

func TestWebServerConfigAddr(t *testing.T) {
	tests := []struct {
		cfg  *WebServerConfig
		want string
	}{
		{nil, "localhost:7681"},
		{&WebServerConfig{}, "localhost:7681"},
		{&WebServerConfig{Host: "0.0.0.0", Port: "8080"}, "0.0.0.0:8080"},
	}
	for _, tt := range tests {
		if got := tt.cfg.Addr(); got != tt.want {
			t.Errorf("Addr(%+v) = %q, want %q", tt.cfg, got, tt.want)
		}
	}
}

func TestFilterHosted(t *testing.T) {
	s := newSessions(t)
	m := s.Open("alice", 80, 24)
	defer s.Close()

	if _, ok := filterHosted(m, tea.SuspendMsg{}).(tea.ResumeMsg); !ok {
		t.Fatal("suspend should turn into resume")
	}
	if msg := filterHosted(m, tea.MouseMotionMsg{X: 0, Y: 0}); msg != nil {
		t.Fatalf("idle motion passed: %v", msg)
	}
	if msg := filterHosted(m, tea.WindowSizeMsg{Width: 80, Height: 24}); msg == nil {
		t.Fatal("resize dropped")
	}
}
