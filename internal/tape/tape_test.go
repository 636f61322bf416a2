package tape

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/bittlabs/chatdock/internal/dock"
	"github.com/bittlabs/chatdock/internal/widget"
)

func newExecutor() *WidgetExecutor {
	cfg := widget.DefaultConfig()
	cfg.Margin = dock.Point{X: 12, Y: 30}
	return NewWidgetExecutor(cfg, dock.Size{Width: 120, Height: 40})
}

func TestParse(t *testing.T) {
	cmds, err := ParseString(`
# comment
Resize 120 40
click 104 8
Type "hello \"you\""
Sleep 50ms
ExpectSide Right
ExpectOpen true
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []struct {
		typ  CommandType
		line int
	}{
		{CommandTypeResize, 3},
		{CommandTypeClick, 4},
		{CommandTypeType, 5},
		{CommandTypeSleep, 6},
		{CommandTypeExpectSide, 7},
		{CommandTypeExpectOpen, 8},
	}
	if len(cmds) != len(want) {
		t.Fatalf("got %d commands, want %d", len(cmds), len(want))
	}
	for i, w := range want {
		if cmds[i].Type != w.typ || cmds[i].Line != w.line {
			t.Errorf("cmd %d = %s@%d, want %s@%d", i, cmds[i].Type, cmds[i].Line, w.typ, w.line)
		}
	}
	if !reflect.DeepEqual(cmds[1].Ints, []int{104, 8}) {
		t.Errorf("click ints = %v", cmds[1].Ints)
	}
	if cmds[2].Text != `hello "you"` {
		t.Errorf("type text = %q", cmds[2].Text)
	}
	if cmds[3].Duration != 50*time.Millisecond {
		t.Errorf("sleep = %v", cmds[3].Duration)
	}
	if cmds[4].Side != dock.Right || !cmds[5].Bool {
		t.Errorf("expect args not bound: %+v %+v", cmds[4], cmds[5])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		want error
	}{
		{"unknown", "Jump 1 2", 1, ErrUnknownCommand},
		{"missing arg", "\n\nClick 1", 3, ErrBadArguments},
		{"not an int", "Move a b", 1, ErrBadArguments},
		{"unterminated", `Type "abc`, 1, ErrBadArguments},
		{"negative sleep", "Sleep -1s", 1, ErrBadArguments},
		{"bad side", "ExpectSide middle", 1, ErrBadArguments},
		{"bad bool", "ExpectOpen maybe", 1, ErrBadArguments},
		{"extra arg", "Enter now", 1, ErrBadArguments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.src)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var pe *ParseError
			if !errors.As(err, &pe) || pe.Line != tt.line {
				t.Fatalf("err = %v, want line %d", err, tt.line)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	cmds, err := ParseString("Type \"a b\"\nDrag 1 2 3 4\nEnter")
	if err != nil {
		t.Fatal(err)
	}
	got := []string{cmds[0].String(), cmds[1].String(), cmds[2].String()}
	want := []string{`Type "a b"`, "Drag 1 2 3 4", "Enter"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDragPath(t *testing.T) {
	got := DragPath(dock.Point{}, dock.Point{X: 8, Y: 4}, 4)
	want := []dock.Point{{X: 2, Y: 1}, {X: 4, Y: 2}, {X: 6, Y: 3}, {X: 8, Y: 4}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRunDockingSession(t *testing.T) {
	cmds, err := ParseString(`
Click 104 8
ExpectOpen true
ExpectSide bottom
Drag 104 8 3 8
ExpectOpen true
ExpectPosition 1 7
ExpectSide right
Type "hello world"
ExpectInput "hello world"
Enter
ExpectInput ""
Drag 3 8 200 8
ExpectPosition 114 7
ExpectSide left
Click 116 8
ExpectOpen false
`)
	if err != nil {
		t.Fatal(err)
	}
	exec := newExecutor()
	if err := Run(context.Background(), cmds, exec); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(exec.Sent, []string{"hello world"}) {
		t.Fatalf("sent %v", exec.Sent)
	}
}

func TestRunEmojiPicker(t *testing.T) {
	// popup spans (72,11)-(108,27); the toggle starts the input row and the
	// picker grid sits on the two body rows above it
	cmds, err := ParseString(`
Click 104 8
Click 73 26
ExpectPicker true
Click 72 24
ExpectPicker false
ExpectInput "😀"
Click 73 26
Click 10 10
ExpectPicker false
ExpectOpen true
`)
	if err != nil {
		t.Fatal(err)
	}
	if err := Run(context.Background(), cmds, newExecutor()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunSendFailureKeepsInput(t *testing.T) {
	cmds, err := ParseString("Click 104 8\nType \"hi\"\nEnter\nExpectInput \"hi\"")
	if err != nil {
		t.Fatal(err)
	}
	exec := newExecutor()
	exec.SendFunc = func(string) error { return errors.New("offline") }
	if err := Run(context.Background(), cmds, exec); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunReportsFailedExpectation(t *testing.T) {
	cmds, err := ParseString("\nExpectOpen true")
	if err != nil {
		t.Fatal(err)
	}
	err = Run(context.Background(), cmds, newExecutor())
	if !errors.Is(err, ErrExpectation) {
		t.Fatalf("err = %v, want ErrExpectation", err)
	}
	if !strings.HasPrefix(err.Error(), "line 2:") {
		t.Fatalf("err %q does not name the line", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cmds, err := ParseString("Sleep 1h\nClick 104 8")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec := newExecutor()
	if err := Run(ctx, cmds, exec); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if exec.Widget.Open() {
		t.Fatal("commands ran after cancel")
	}
}
