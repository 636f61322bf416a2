package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"charm.land/log/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/bittlabs/chatdock/internal/config"
	"github.com/bittlabs/chatdock/internal/dock"
	"github.com/bittlabs/chatdock/internal/logging"
	"github.com/bittlabs/chatdock/internal/tape"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    dock.Size
		wantErr bool
	}{
		{"120x40", dock.Size{Width: 120, Height: 40}, false},
		{" 80X24 ", dock.Size{Width: 80, Height: 24}, false},
		{"120", dock.Size{}, true},
		{"0x10", dock.Size{}, true},
		{"axb", dock.Size{}, true},
		{"10x-1", dock.Size{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSize(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errBadSize) {
					t.Fatalf("err = %v, want errBadSize", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("parseSize(%q) = %v, %v", tt.in, got, err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want dock.Side
		pos  dock.Point
	}{
		{"near right edge", 110, 5, dock.Left, dock.Point{X: 110, Y: 5}},
		{"near left edge", 0, 5, dock.Right, dock.Point{X: 0, Y: 5}},
		{"near bottom", 50, 36, dock.Top, dock.Point{X: 50, Y: 36}},
		{"open space", 50, 10, dock.Bottom, dock.Point{X: 50, Y: 10}},
		{"clamped", 500, 5, dock.Left, dock.Point{X: 114, Y: 5}},
	}
	cfg := config.DefaultConfig()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := classify(cfg, classifyArgs{x: tt.x, y: tt.y, viewport: "120x40"})
			if err != nil {
				t.Fatal(err)
			}
			if c.Side != tt.want || c.Position != tt.pos {
				t.Fatalf("got %s at %v, want %s at %v", c.Side, c.Position, tt.want, tt.pos)
			}
		})
	}
}

func TestClassifyRejectsBadSizes(t *testing.T) {
	cfg := config.DefaultConfig()
	for _, a := range []classifyArgs{{viewport: "big"}, {viewport: "80x24", anchor: "x"}, {viewport: "80x24", popup: "3"}} {
		if _, err := classify(cfg, a); !errors.Is(err, errBadSize) {
			t.Errorf("classify(%+v) err = %v", a, err)
		}
	}
}

func TestPrintClassification(t *testing.T) {
	var buf bytes.Buffer
	printClassification(&buf, classification{Side: dock.Left, Popup: dock.Size{Width: 36, Height: 16}, X: 73, Y: 5})
	if !strings.Contains(buf.String(), "side:     left") || !strings.Contains(buf.String(), "36x16 at 73,5") {
		t.Fatalf("output:\n%s", buf.String())
	}
}

func TestRenderKeybindings(t *testing.T) {
	out := ansi.Strip(renderKeybindings(config.NewKeybindRegistry(config.DefaultConfig())))
	for _, want := range []string{"CHAT", "SYSTEM", "MOUSE", "KEY", "ACTION"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRunTapeHeadless(t *testing.T) {
	cmds, err := tape.ParseString("Click 104 8\nType \"hi\"\nEnter\nExpectInput \"\"")
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	margin := 30
	cfg.Widget.MarginY = &margin

	var buf bytes.Buffer
	if err := runTapeHeadless(context.Background(), &buf, cfg, cmds, "120x40"); err != nil {
		t.Fatalf("runTapeHeadless: %v", err)
	}
	if !strings.Contains(buf.String(), "sent: hi") || !strings.Contains(buf.String(), "PASS 4 commands") {
		t.Fatalf("output:\n%s", buf.String())
	}
}

func TestRunTapeHeadlessFails(t *testing.T) {
	cmds, err := tape.ParseString("ExpectOpen true")
	if err != nil {
		t.Fatal(err)
	}
	err = runTapeHeadless(context.Background(), &bytes.Buffer{}, config.DefaultConfig(), cmds, "120x40")
	if !errors.Is(err, tape.ErrExpectation) {
		t.Fatalf("err = %v, want ErrExpectation", err)
	}
}

func TestServeFlagsFallBackToConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.HostKeyPath = "/tmp/key"

	sc, err := serveFlags{port: "2323"}.sshConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Addr() != "localhost:2323" || sc.HostKeyPath != "/tmp/key" {
		t.Fatalf("ssh config = %+v", sc)
	}
}

func TestValidateMergedReportsToStartupLog(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Default()
	logging.Install(logging.NewStartup(&buf))
	t.Cleanup(func() { logging.Install(prev) })

	cfg := config.DefaultConfig()
	cfg.Widget.DragMetric = "manhattan"
	if err := validateMerged(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
	if !strings.Contains(buf.String(), "drag_metric") {
		t.Fatalf("startup log missing the bad key:\n%s", buf.String())
	}
}

func TestValidateMergedAcceptsDefaults(t *testing.T) {
	if err := validateMerged(config.DefaultConfig()); err != nil {
		t.Fatal(err)
	}
}

func TestServeFlagsWebConfig(t *testing.T) {
	tests := []struct {
		f    serveFlags
		want string
	}{
		{serveFlags{}, "localhost:7681"},
		{serveFlags{webHost: "0.0.0.0", webPort: "8080"}, "0.0.0.0:8080"},
	}
	for _, tt := range tests {
		if got := tt.f.webConfig().Addr(); got != tt.want {
			t.Errorf("webConfig(%+v).Addr() = %q, want %q", tt.f, got, tt.want)
		}
	}
}
