// Package tape runs scripted pointer and keyboard sessions against the chat
// widget. A tape is a line-oriented script:
//
//	# open the chat and drag it to the left edge
//	Resize 120 40
//	Click 104 8
//	ExpectOpen true
//	Drag 104 8 3 8
//	ExpectSide right
//	Type "hello"
//	Enter
//
// Tapes back the headless `chatdock tape run` checks and the in-app
// `chatdock tape play` demo.
package tape

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/bittlabs/chatdock/internal/dock"
)

// CommandType names a tape command.
type CommandType string

const (
	CommandTypeResize    CommandType = "Resize"
	CommandTypeDown      CommandType = "Down"
	CommandTypeTouch     CommandType = "Touch"
	CommandTypeMove      CommandType = "Move"
	CommandTypeUp        CommandType = "Up"
	CommandTypeClick     CommandType = "Click"
	CommandTypeDrag      CommandType = "Drag"
	CommandTypeType      CommandType = "Type"
	CommandTypeEnter     CommandType = "Enter"
	CommandTypeBackspace CommandType = "Backspace"
	CommandTypeEscape    CommandType = "Escape"
	CommandTypeWheel     CommandType = "Wheel"
	CommandTypeSleep     CommandType = "Sleep"

	CommandTypeExpectOpen     CommandType = "ExpectOpen"
	CommandTypeExpectSide     CommandType = "ExpectSide"
	CommandTypeExpectPosition CommandType = "ExpectPosition"
	CommandTypeExpectPicker   CommandType = "ExpectPicker"
	CommandTypeExpectInput    CommandType = "ExpectInput"
)

type argKind int

const (
	argInt argKind = iota
	argText
	argBool
	argDuration
	argSide
)

var commandArgs = map[CommandType][]argKind{
	CommandTypeResize:         {argInt, argInt},
	CommandTypeDown:           {argInt, argInt},
	CommandTypeTouch:          {argInt, argInt},
	CommandTypeMove:           {argInt, argInt},
	CommandTypeUp:             {argInt, argInt},
	CommandTypeClick:          {argInt, argInt},
	CommandTypeDrag:           {argInt, argInt, argInt, argInt},
	CommandTypeType:           {argText},
	CommandTypeEnter:          nil,
	CommandTypeBackspace:      nil,
	CommandTypeEscape:         nil,
	CommandTypeWheel:          {argInt, argInt, argInt},
	CommandTypeSleep:          {argDuration},
	CommandTypeExpectOpen:     {argBool},
	CommandTypeExpectSide:     {argSide},
	CommandTypeExpectPosition: {argInt, argInt},
	CommandTypeExpectPicker:   {argBool},
	CommandTypeExpectInput:    {argText},
}

// Command is one parsed tape line.
type Command struct {
	Type CommandType
	Args []string
	Line int

	Ints     []int
	Text     string
	Bool     bool
	Duration time.Duration
	Side     dock.Side
}

// String renders the command back in tape syntax.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return string(c.Type)
	}
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		if strings.ContainsFunc(a, unicode.IsSpace) || a == "" || c.Type == CommandTypeType || c.Type == CommandTypeExpectInput {
			a = strconv.Quote(a)
		}
		args[i] = a
	}
	return string(c.Type) + " " + strings.Join(args, " ")
}

var (
	// ErrUnknownCommand is returned for a line that names no command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrBadArguments is returned when arguments are missing or malformed.
	ErrBadArguments = errors.New("bad arguments")
)

// ParseError locates a parse failure.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads a tape. Blank lines and lines starting with # are skipped.
// Command names are case-insensitive.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cmd, err := parseLine(text)
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		cmd.Line = line
		cmds = append(cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tape: %w", err)
	}
	return cmds, nil
}

// ParseString parses a tape held in memory.
func ParseString(s string) ([]Command, error) {
	return Parse(strings.NewReader(s))
}

func parseLine(text string) (Command, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return Command{}, err
	}

	typ, ok := lookupCommand(tokens[0])
	if !ok {
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, tokens[0])
	}
	cmd := Command{Type: typ, Args: tokens[1:]}

	kinds := commandArgs[typ]
	if len(cmd.Args) != len(kinds) {
		return Command{}, fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrBadArguments, typ, len(kinds), len(cmd.Args))
	}
	for i, kind := range kinds {
		if err := cmd.bind(kind, cmd.Args[i]); err != nil {
			return Command{}, fmt.Errorf("%w: %s argument %d: %v", ErrBadArguments, typ, i+1, err)
		}
	}
	return cmd, nil
}

func lookupCommand(name string) (CommandType, bool) {
	for typ := range commandArgs {
		if strings.EqualFold(string(typ), name) {
			return typ, true
		}
	}
	return "", false
}

func (c *Command) bind(kind argKind, arg string) error {
	switch kind {
	case argInt:
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("%q is not an integer", arg)
		}
		c.Ints = append(c.Ints, n)
	case argText:
		c.Text = arg
	case argBool:
		b, err := strconv.ParseBool(arg)
		if err != nil {
			return fmt.Errorf("%q is not a boolean", arg)
		}
		c.Bool = b
	case argDuration:
		d, err := time.ParseDuration(arg)
		if err != nil || d < 0 {
			return fmt.Errorf("%q is not a duration", arg)
		}
		c.Duration = d
	case argSide:
		s, err := dock.ParseSide(arg)
		if err != nil {
			return err
		}
		c.Side = s
	}
	return nil
}

// tokenize splits on whitespace. Double-quoted tokens may contain spaces
// and Go escapes.
func tokenize(text string) ([]string, error) {
	var tokens []string
	for i := 0; i < len(text); {
		switch {
		case text[i] == ' ' || text[i] == '\t':
			i++
		case text[i] == '"':
			end := i + 1
			for end < len(text) && text[end] != '"' {
				if text[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(text) {
				return nil, fmt.Errorf("%w: unterminated string", ErrBadArguments)
			}
			s, err := strconv.Unquote(text[i : end+1])
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadArguments, err)
			}
			tokens = append(tokens, s)
			i = end + 1
		default:
			end := i
			for end < len(text) && text[end] != ' ' && text[end] != '\t' {
				end++
			}
			tokens = append(tokens, text[i:end])
			i = end
		}
	}
	return tokens, nil
}
