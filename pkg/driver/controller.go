package driver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yutopp/rcc/pkg/executor"
	"github.com/yutopp/rcc/pkg/exitcode"
)

type Phase string

const (
	PhasePreprocessor Phase = "preprocessor"
	PhaseCompiler     Phase = "compiler"
	PhaseAssembler    Phase = "assembler"
)

// PhaseError reports a phase whose tool could not be run.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("could not run %s: %s", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

type State int

const (
	StatePreprocessing State = iota
	StateCompiling
	StateAssembling
	StateStopped
	StateDone
)

func (s State) String() string {
	switch s {
	case StatePreprocessing:
		return "preprocessing"
	case StateCompiling:
		return "compiling"
	case StateAssembling:
		return "assembling"
	case StateStopped:
		return "stopped"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Controller runs preprocess, compile and assemble in order, stopping at the
// first phase that fails. No phase runs twice.
type Controller struct {
	logger *zap.Logger
}

func NewController(logger *zap.Logger) *Controller {
	return &Controller{
		logger: logger,
	}
}

func (c *Controller) Drive(ctx context.Context, options *Options, driver Driver) (exitcode.Code, error) {
	c.enter(StatePreprocessing)
	if err := c.runPhase(ctx, PhasePreprocessor, driver.Preprocess); err != nil {
		return exitcode.Unavailable, err
	}

	c.enter(StateCompiling)
	if err := c.runPhase(ctx, PhaseCompiler, driver.Compile); err != nil {
		return exitcode.Unavailable, err
	}

	if options.StopAfterCompile {
		c.enter(StateStopped)
		return exitcode.OK, nil
	}

	c.enter(StateAssembling)
	if err := c.runPhase(ctx, PhaseAssembler, driver.Assemble); err != nil {
		return exitcode.Unavailable, err
	}

	c.enter(StateDone)
	return exitcode.OK, nil
}

func (c *Controller) enter(s State) {
	c.logger.Debug("pipeline state", zap.Stringer("state", s))
}

func (c *Controller) runPhase(ctx context.Context, phase Phase, run func(context.Context) (*executor.Execution, error)) error {
	ex, err := run(ctx)
	if err != nil {
		return &PhaseError{Phase: phase, Err: err}
	}

	// A tool that ran but exited non-zero is left for the next phase to trip over.
	if !ex.Success() {
		c.logger.Warn("phase tool did not succeed", zap.String("phase", string(phase)), zap.String("status", ex.Status()))
		return nil
	}
	c.logger.Debug("phase ok", zap.String("phase", string(phase)))
	return nil
}
