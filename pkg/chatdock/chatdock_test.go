package chatdock

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/bittlabs/chatdock/internal/app"
	"github.com/bittlabs/chatdock/internal/config"
)

type fixedPTY struct{ w, h int }

func (p fixedPTY) Width() int  { return p.w }
func (p fixedPTY) Height() int { return p.h }

func TestNewAppliesOptions(t *testing.T) {
	room, err := NewRoom()
	if err != nil {
		t.Fatal(err)
	}
	defer room.Close()

	m := New(WithRoom(room), WithNickname("alice"), WithLanguage("fr"), WithSize(100, 30))
	defer m.Cleanup()

	if m.Width != 100 || m.Height != 30 {
		t.Fatalf("size %dx%d", m.Width, m.Height)
	}
	if m.Lang != "fr" {
		t.Fatalf("lang = %q", m.Lang)
	}
	if room.Subscribers() != 1 {
		t.Fatalf("subscribers = %d", room.Subscribers())
	}

	res, ok := m.SendText("bonjour")().(app.SendResultMsg)
	if !ok || res.Err != nil {
		t.Fatalf("send = %#v", res)
	}
	msgs := room.Messages()
	if len(msgs) != 1 || msgs[0].Author != "alice" || msgs[0].Lang != "fr" {
		t.Fatalf("room has %+v", msgs)
	}
}

func TestNewForPTY(t *testing.T) {
	m := NewForPTY(fixedPTY{w: 90, h: 25}, WithSize(1, 1))
	defer m.Cleanup()
	if m.Width != 90 || m.Height != 25 {
		t.Fatalf("size %dx%d, want the pty size", m.Width, m.Height)
	}
}

func TestWithUserConfigFillsMissing(t *testing.T) {
	cfg := &config.UserConfig{}
	m := New(WithUserConfig(cfg), WithSize(80, 24))
	defer m.Cleanup()

	if m.Widget.Config().PopupWidth != config.DefaultConfig().Widget.PopupWidth {
		t.Fatalf("popup width = %d", m.Widget.Config().PopupWidth)
	}
	if m.Keys.GetAction("ctrl+o") != "toggle_chat" {
		t.Fatal("default keybindings not applied")
	}
}

func TestFilterMouseMotionPassesOtherMessages(t *testing.T) {
	m := New(WithSize(80, 24))
	defer m.Cleanup()

	if FilterMouseMotion(m, tea.WindowSizeMsg{Width: 1, Height: 1}) == nil {
		t.Fatal("window size was filtered")
	}
	if FilterMouseMotion(m, tea.MouseMotionMsg{X: 0, Y: 0}) != nil {
		t.Fatal("idle motion passed")
	}
	if len(ProgramOptions()) == 0 {
		t.Fatal("no program options")
	}
}

func TestNewWithoutSizePlacesOnFirstResize(t *testing.T) {
	m := New()
	defer m.Cleanup()

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if got := m.Widget.Position(); got.X != 102 || got.Y != 28 {
		t.Fatalf("anchor at %v, want {102 28}", got)
	}
}
