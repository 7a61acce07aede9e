// Package driver runs the compilation phases of one C source file.
//
// Driver is the low level: one external tool invocation per phase, plus
// removal of the temporary artifact that phase consumed. Controller is the
// high level: it sequences the phases and decides when the run is over.
//
// Artifacts are named from the source path alone, so two concurrent runs on
// the same source file race on creating and removing them. This is not
// guarded against.
package driver

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/yutopp/rcc/pkg/artifact"
	"github.com/yutopp/rcc/pkg/domain"
	"github.com/yutopp/rcc/pkg/executor"
)

// Options is the validated configuration of one compilation run.
type Options struct {
	Source string

	// Passed to the backend compiler, which stops after the named stage.
	Lex     bool
	Parse   bool
	Codegen bool

	SaveTemps        bool
	StopAfterCompile bool

	TargetPlatform domain.TargetPlatform
}

type Driver interface {
	Preprocess(ctx context.Context) (*executor.Execution, error)
	Compile(ctx context.Context) (*executor.Execution, error)
	Assemble(ctx context.Context) (*executor.Execution, error)
}

type DefaultDriver struct {
	options   *Options
	toolchain *domain.Toolchain
	executor  executor.Executor
	namer     *artifact.Namer
	logger    *zap.Logger
}

var _ Driver = (*DefaultDriver)(nil)

func NewDefaultDriver(options *Options, toolchain *domain.Toolchain, e executor.Executor, logger *zap.Logger) *DefaultDriver {
	return &DefaultDriver{
		options:   options,
		toolchain: toolchain.WithDefaults(),
		executor:  e,
		namer:     artifact.NewNamer(options.Source),
		logger:    logger,
	}
}

func command(tool domain.PhasedTool, args ...string) []string {
	cmd := make([]string, 0, len(tool.Cmd)+len(args))
	cmd = append(cmd, tool.Cmd...)
	return append(cmd, args...)
}

func (d *DefaultDriver) preprocessArgs() []string {
	return command(d.toolchain.Preprocessor, d.namer.Source(), "-o", d.namer.Preprocessed())
}

func (d *DefaultDriver) compileArgs() []string {
	var args []string
	if d.options.Lex {
		args = append(args, "--lex")
	}
	if d.options.Parse {
		args = append(args, "--parse")
	}
	if d.options.Codegen {
		args = append(args, "--codegen")
	}
	// The backend compiler targets the default platform unless told otherwise.
	if p := d.options.TargetPlatform; !p.IsDefault() {
		args = append(args, "--architecture", p.String())
	}
	args = append(args, d.namer.Preprocessed(), "-o", d.namer.Assembly())
	return command(d.toolchain.Compiler, args...)
}

func (d *DefaultDriver) assembleArgs() []string {
	return command(d.toolchain.Assembler, d.namer.Assembly(), "-o", d.namer.Binary(), "-l", d.namer.Listing())
}

func (d *DefaultDriver) Preprocess(ctx context.Context) (*executor.Execution, error) {
	return d.executor.Run(ctx, d.preprocessArgs())
}

func (d *DefaultDriver) Compile(ctx context.Context) (*executor.Execution, error) {
	preprocessed := d.namer.Preprocessed()
	if _, err := os.Stat(preprocessed); err != nil {
		// The backend compiler reports the problem itself; run it anyway.
		d.logger.Warn("preprocessed file is missing", zap.String("path", preprocessed), zap.Error(err))
	}
	defer d.removeTemp(preprocessed)

	return d.executor.Run(ctx, d.compileArgs())
}

func (d *DefaultDriver) Assemble(ctx context.Context) (*executor.Execution, error) {
	defer d.removeTemp(d.namer.Assembly())

	return d.executor.Run(ctx, d.assembleArgs())
}

// removeTemp deletes a consumed artifact unless temporaries are kept.
// Failure is logged and never fails the phase.
func (d *DefaultDriver) removeTemp(path string) {
	if d.options.SaveTemps {
		d.logger.Debug("retaining temporary file", zap.String("path", path))
		return
	}
	if err := os.Remove(path); err != nil {
		d.logger.Warn("failed to delete temporary file", zap.String("path", path), zap.Error(err))
		return
	}
	d.logger.Debug("deleted temporary file", zap.String("path", path))
}
