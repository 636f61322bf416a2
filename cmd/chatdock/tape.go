package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bittlabs/chatdock/internal/config"
	"github.com/bittlabs/chatdock/internal/tape"
)

func newTapeCmd() *cobra.Command {
	tapeCmd := &cobra.Command{
		Use:   "tape",
		Short: "Validate and run .tape gesture scripts",
		Long: `Validate and execute .tape gesture scripts for chatdock

Tape files script pointer gestures, typing and expectations about the
widget state, one command per line. Run them headless to check behavior,
or play them in the TUI to watch.`,
		Example: `  # Check a tape for syntax errors
  chatdock tape validate demo.tape

  # Run headless and report the first failed expectation
  chatdock tape run demo.tape

  # Watch it happen
  chatdock tape play demo.tape`,
	}

	tapeValidateCmd := &cobra.Command{
		Use:   "validate <file.tape>",
		Short: "Validate a tape file without running it",
		Long:  `Check if a tape file is syntactically correct`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmds, err := readTape(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d commands OK\n", args[0], len(cmds))
			return nil
		},
	}

	var viewport string
	tapeRunCmd := &cobra.Command{
		Use:   "run <file.tape>",
		Short: "Run a tape file headless",
		Long: `Execute a tape script against a widget with no terminal attached

Sends always succeed and are printed. The command fails at the first
expectation that does not hold.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmds, err := readTape(args[0])
			if err != nil {
				return err
			}
			userConfig, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runTapeHeadless(ctx, cmd.OutOrStdout(), userConfig, cmds, viewport)
		},
	}
	tapeRunCmd.Flags().StringVar(&viewport, "viewport", "120x40", "Viewport size as WxH")

	tapePlayCmd := &cobra.Command{
		Use:   "play <file.tape>",
		Short: "Run a tape file in interactive mode",
		Long: `Execute a tape script while displaying the chatdock TUI

Sends go to the configured room. Failures are shown as notifications.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cmds, err := readTape(args[0])
			if err != nil {
				return err
			}
			return runTapeInteractive(cmds)
		},
	}

	tapeCmd.AddCommand(tapeValidateCmd, tapeRunCmd, tapePlayCmd)
	return tapeCmd
}

func readTape(path string) ([]tape.Command, error) {
	// #nosec G304 - the tape path is given by the user
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tape: %w", err)
	}
	defer func() { _ = f.Close() }()

	cmds, err := tape.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cmds, nil
}

func runTapeHeadless(ctx context.Context, out io.Writer, cfg *config.UserConfig, cmds []tape.Command, viewport string) error {
	size, err := parseSize(viewport)
	if err != nil {
		return err
	}
	exec := tape.NewWidgetExecutor(cfg.WidgetSettings(), size)
	exec.SendFunc = func(text string) error {
		fmt.Fprintf(out, "sent: %s\n", text)
		return nil
	}
	if err := tape.Run(ctx, cmds, exec); err != nil {
		return err
	}

	state := exec.State()
	fmt.Fprintf(out, "PASS %d commands (open=%t side=%s position=%d,%d)\n",
		len(cmds), state.Open, state.Side, state.Position.X, state.Position.Y)
	return nil
}

func runTapeInteractive(cmds []tape.Command) error {
	userConfig, logger, done, err := setup()
	if err != nil {
		return err
	}
	defer done()

	room, err := openRoom(context.Background(), userConfig, logger)
	if err != nil {
		return err
	}
	defer func() { _ = room.Close() }()

	model := newLocalModel(userConfig, room, logger)
	return runProgram(model, model.PlayTape(cmds))
}
