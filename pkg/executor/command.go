package executor

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/cockroachdb/errors"
)

// CommandExecutor runs tools as child processes of rcc.
type CommandExecutor struct {
}

var _ Executor = (*CommandExecutor)(nil)

func NewCommandExecutor() *CommandExecutor {
	return &CommandExecutor{}
}

func (e *CommandExecutor) Run(ctx context.Context, args []string) (*Execution, error) {
	name, rest, err := splitCommand(args)
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, rest...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, &SpawnError{Command: name, Err: err}
		}
	}

	ex := &Execution{
		Stdout: lossy(stdout.Bytes()),
		Stderr: lossy(stderr.Bytes()),
	}
	if code := cmd.ProcessState.ExitCode(); code >= 0 {
		ex.ExitCode = &code
	} else {
		ex.Signal = signalName(cmd.ProcessState)
	}

	return ex, nil
}
