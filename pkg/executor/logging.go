package executor

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggingExecutor struct {
	logger *zap.Logger
	next   Executor
}

var _ Executor = (*loggingExecutor)(nil)

// NewLoggingExecutor logs every command run through next and how it ended.
// Failures are logged at error level so they show without raising verbosity.
func NewLoggingExecutor(logger *zap.Logger, next Executor) *loggingExecutor {
	return &loggingExecutor{
		logger: logger,
		next:   next,
	}
}

func (e *loggingExecutor) Run(ctx context.Context, args []string) (*Execution, error) {
	line := strings.Join(args, " ")
	e.logger.Info("Executing", zap.String("command", line))

	ex, err := e.next.Run(ctx, args)
	if err != nil {
		e.logger.Error("Execution failure", zap.String("command", line), zap.Error(err))
		return nil, err
	}

	level := zapcore.InfoLevel
	if !ex.Success() {
		level = zapcore.ErrorLevel
		e.logger.Error("Execution failure", zap.String("command", line))
	}
	e.logger.Log(level, "status", zap.String("status", ex.Status()))
	e.logger.Log(level, "stdout", zap.String("stdout", ex.Stdout))
	e.logger.Log(level, "stderr", zap.String("stderr", ex.Stderr))

	return ex, nil
}
