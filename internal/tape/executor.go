package tape

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bittlabs/chatdock/internal/dock"
	"github.com/bittlabs/chatdock/internal/pointer"
)

// State is the widget state that Expect commands check.
type State struct {
	Open     bool
	Side     dock.Side
	Position dock.Point
	Picker   bool
	Input    string
}

// Executor applies tape commands to a widget host.
type Executor interface {
	Resize(width, height int) error
	PointerDown(src pointer.Source, p dock.Point) error
	PointerMove(p dock.Point) error
	PointerUp(p dock.Point) error
	Wheel(p dock.Point, delta int) error

	Type(text string) error
	Enter() error
	Backspace() error
	Escape() error

	State() State
}

// ErrExpectation is returned when an Expect command does not hold.
var ErrExpectation = errors.New("expectation failed")

// DragSteps is the number of moves a Drag command emits between its
// endpoints, the last one landing on the end point.
const DragSteps = 4

// CommandExecutor maps commands onto an Executor.
type CommandExecutor struct {
	executor Executor
}

// NewCommandExecutor creates a new command executor
func NewCommandExecutor(executor Executor) *CommandExecutor {
	return &CommandExecutor{executor: executor}
}

// Execute runs one command. Sleep is left to the caller, which decides
// whether to block or schedule.
func (ce *CommandExecutor) Execute(cmd *Command) error {
	if ce.executor == nil {
		return nil
	}
	e := ce.executor

	switch cmd.Type {
	case CommandTypeResize:
		return e.Resize(cmd.Ints[0], cmd.Ints[1])

	case CommandTypeDown:
		return e.PointerDown(pointer.Mouse, pointAt(cmd.Ints, 0))

	case CommandTypeTouch:
		return e.PointerDown(pointer.Touch, pointAt(cmd.Ints, 0))

	case CommandTypeMove:
		return e.PointerMove(pointAt(cmd.Ints, 0))

	case CommandTypeUp:
		return e.PointerUp(pointAt(cmd.Ints, 0))

	case CommandTypeClick:
		p := pointAt(cmd.Ints, 0)
		if err := e.PointerDown(pointer.Mouse, p); err != nil {
			return err
		}
		return e.PointerUp(p)

	case CommandTypeDrag:
		from, to := pointAt(cmd.Ints, 0), pointAt(cmd.Ints, 2)
		if err := e.PointerDown(pointer.Mouse, from); err != nil {
			return err
		}
		for _, p := range DragPath(from, to, DragSteps) {
			if err := e.PointerMove(p); err != nil {
				return err
			}
		}
		return e.PointerUp(to)

	case CommandTypeType:
		return e.Type(cmd.Text)

	case CommandTypeEnter:
		return e.Enter()

	case CommandTypeBackspace:
		return e.Backspace()

	case CommandTypeEscape:
		return e.Escape()

	case CommandTypeWheel:
		return e.Wheel(pointAt(cmd.Ints, 0), cmd.Ints[2])

	case CommandTypeExpectOpen:
		return expect("open", e.State().Open, cmd.Bool)

	case CommandTypeExpectSide:
		return expect("side", e.State().Side, cmd.Side)

	case CommandTypeExpectPosition:
		return expect("position", e.State().Position, pointAt(cmd.Ints, 0))

	case CommandTypeExpectPicker:
		return expect("picker", e.State().Picker, cmd.Bool)

	case CommandTypeExpectInput:
		return expect("input", e.State().Input, cmd.Text)

	// Sleep is scheduled by the caller
	default:
		return nil
	}
}

func expect[T comparable](what string, got, want T) error {
	if got != want {
		return fmt.Errorf("%w: %s is %v, want %v", ErrExpectation, what, got, want)
	}
	return nil
}

func pointAt(ints []int, i int) dock.Point {
	return dock.Point{X: ints[i], Y: ints[i+1]}
}

// DragPath returns steps evenly spaced points from just after from up to
// and including to.
func DragPath(from, to dock.Point, steps int) []dock.Point {
	steps = max(steps, 1)
	path := make([]dock.Point, 0, steps)
	for i := 1; i <= steps; i++ {
		path = append(path, dock.Point{
			X: from.X + (to.X-from.X)*i/steps,
			Y: from.Y + (to.Y-from.Y)*i/steps,
		})
	}
	return path
}

// Run executes cmds in order, blocking on Sleep. It stops at the first
// failing command and reports its line.
func Run(ctx context.Context, cmds []Command, executor Executor) error {
	ce := NewCommandExecutor(executor)
	for i := range cmds {
		cmd := &cmds[i]
		if err := ctx.Err(); err != nil {
			return err
		}
		if cmd.Type == CommandTypeSleep {
			if err := sleep(ctx, cmd.Duration); err != nil {
				return err
			}
			continue
		}
		if err := ce.Execute(cmd); err != nil {
			return fmt.Errorf("line %d: %s: %w", cmd.Line, cmd, err)
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
