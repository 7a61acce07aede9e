// Package executor runs external tools and captures how they finished.
//
// Executor is the only way the rest of rcc starts a process, so tests can
// substitute a stub that returns canned Executions without spawning anything.
package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

var ErrEmptyCommand = errors.New("no command given")

type Executor interface {
	// Run starts args[0] with the remaining arguments and waits for it to
	// terminate. A tool exiting non-zero is not an error; it is reported in
	// the returned Execution.
	Run(ctx context.Context, args []string) (*Execution, error)
}

// SpawnError reports a command the operating system could not start.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("could not run command '%s': %s", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Execution is the outcome of one finished command.
type Execution struct {
	// ExitCode is nil when the process did not exit normally, e.g. it was
	// killed by a signal.
	ExitCode *int
	Stdout   string
	Stderr   string

	// Signal names the terminating signal when it is known.
	Signal string
}

// Exited builds the Execution of a process that exited with code.
func Exited(code int, stdout, stderr string) *Execution {
	return &Execution{
		ExitCode: &code,
		Stdout:   stdout,
		Stderr:   stderr,
	}
}

func (e *Execution) Code() (int, bool) {
	if e.ExitCode == nil {
		return 0, false
	}
	return *e.ExitCode, true
}

func (e *Execution) Success() bool {
	code, ok := e.Code()
	return ok && code == 0
}

func (e *Execution) Status() string {
	if code, ok := e.Code(); ok {
		return fmt.Sprintf("exit status: %d", code)
	}
	if e.Signal != "" {
		return "signal: " + e.Signal
	}
	return "terminated abnormally"
}

func splitCommand(args []string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, ErrEmptyCommand
	}
	return args[0], args[1:], nil
}

func lossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
