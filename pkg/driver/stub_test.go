package driver

import (
	"context"

	"github.com/yutopp/rcc/pkg/executor"
)

// recordingExecutor records every command and answers with a canned result.
type recordingExecutor struct {
	calls [][]string
	ex    *executor.Execution
	err   error
}

func (r *recordingExecutor) Run(ctx context.Context, args []string) (*executor.Execution, error) {
	r.calls = append(r.calls, args)
	if r.err != nil {
		return nil, r.err
	}
	if r.ex == nil {
		return executor.Exited(0, "", ""), nil
	}
	return r.ex, nil
}

type stubDriver struct {
	calls []Phase
	errs  map[Phase]error
	codes map[Phase]int
}

func (s *stubDriver) run(p Phase) (*executor.Execution, error) {
	s.calls = append(s.calls, p)
	if err := s.errs[p]; err != nil {
		return nil, err
	}
	return executor.Exited(s.codes[p], "", ""), nil
}

func (s *stubDriver) Preprocess(ctx context.Context) (*executor.Execution, error) {
	return s.run(PhasePreprocessor)
}

func (s *stubDriver) Compile(ctx context.Context) (*executor.Execution, error) {
	return s.run(PhaseCompiler)
}

func (s *stubDriver) Assemble(ctx context.Context) (*executor.Execution, error) {
	return s.run(PhaseAssembler)
}
