package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"bettertogether/internal/app"

	"github.com/spf13/cobra"
)

var prompts = map[app.GateState]string{
	app.StateNoPinAwaitingEntry:   "Create a PIN: ",
	app.StateNoPinAwaitingConfirm: "Confirm PIN (empty line to start over): ",
	app.StateHasPinAwaitingEntry:  "Enter PIN: ",
}

// unlockSession drives the gate from line-oriented input. Storage failures
// and end of input stop the loop; everything else is reported and retried.
func unlockSession(ctx context.Context, gate *app.AuthGate, in io.Reader, out io.Writer) error {
	res := gate.Load(ctx)
	if res.Err != nil {
		return fmt.Errorf("%s: %w", res.Message, res.Err)
	}

	sc := bufio.NewScanner(in)
	for res.State != app.StateUnlocked {
		fmt.Fprint(out, prompts[res.State])
		if !sc.Scan() {
			fmt.Fprintln(out)
			return app.ErrLocked
		}
		line := strings.TrimRight(sc.Text(), "\r")

		if line == "" && res.State == app.StateNoPinAwaitingConfirm {
			res = gate.Back()
			continue
		}
		res = gate.Submit(ctx, line)
		if errors.Is(res.Err, app.ErrStorage) {
			return fmt.Errorf("%s: %w", res.Message, res.Err)
		}
		if res.Err != nil {
			fmt.Fprintln(out, res.Message)
		}
	}
	return nil
}

func (c *cli) pinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pin",
		Short: "Set up a PIN, or check the stored one",
		Long: `Runs the PIN gate on stdin. Without a stored PIN you are asked to create
and confirm one; otherwise the PIN is verified and the app marked unlocked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.ensureUnlocked(cmd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Unlocked.")
			return nil
		},
	}
}

func (c *cli) lockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Mark the app as locked",
		Long:  "Verifies the PIN, then stores the locked flag so the next session starts at the PIN screen.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.ensureUnlocked(cmd); err != nil {
				return err
			}
			res := c.gate.Lock(cmd.Context())
			if res.Err != nil {
				return fmt.Errorf("%s: %w", res.Message, res.Err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Locked.")
			return nil
		},
	}
}
