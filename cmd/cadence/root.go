package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/cadence/internal/launch"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit code %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func exitWith(code int, err error) error {
	if code == launch.ExitOK {
		return nil
	}
	return &exitError{code: code, err: err}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "cadence",
		Short: "Run workers that invoke a callback at a fixed cadence",
		Long: `cadence starts a pool of independent workers. Each worker invokes a
callback, waits for the configured interval and repeats, either a fixed
number of times or until it is stopped.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.AddCommand(
		newRunCmd(),
		newCreateThreadsCmd(),
		newRunThreadCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the cadence version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cadence version %s\n", version)
		},
	}
}

// execute runs the command line and returns the process exit code.
func execute(args []string, out, errOut io.Writer) int {
	root := newRootCmd(out, errOut)
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return launch.ExitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			_, _ = fmt.Fprintln(errOut, "Error:", ee.err)
		}
		return ee.code
	}

	// Anything else is a usage or flag problem.
	_, _ = fmt.Fprintln(errOut, "Error:", err)
	code := launch.ExitCode(err)
	if code == launch.ExitInvalidState {
		code = launch.ExitInvalidConfig
	}
	return code
}
