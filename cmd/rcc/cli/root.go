package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
	"go.uber.org/zap"

	"github.com/yutopp/rcc/pkg/domain"
	"github.com/yutopp/rcc/pkg/driver"
	"github.com/yutopp/rcc/pkg/executor"
	"github.com/yutopp/rcc/pkg/exitcode"
	"github.com/yutopp/rcc/pkg/logging"
	"github.com/yutopp/rcc/pkg/toolchain"
)

const version = "0.1.0"

type runner struct {
	logger *zap.Logger

	// executor overrides the one built from the flags.
	executor executor.Executor

	status exitcode.Code
	ran    bool

	lex          bool
	parse        bool
	codegen      bool
	saveTemps    bool
	stop         bool
	architecture domain.TargetPlatform
	toolchain    string
	sandboxImage string
}

func newRunner(logger *zap.Logger) *runner {
	return &runner{
		logger:       logger,
		status:       exitcode.Usage,
		architecture: domain.DefaultTargetPlatform,
	}
}

func newRootCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rcc [flags] <file.c>",
		Short:   "Transputer & EPOC16 C Compiler",
		Version: version,
		Args:    cobra.ArbitraryArgs,

		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := r.validate(args)
			if err != nil {
				return err
			}
			r.logger.Debug("driver options", zap.Any("options", options))

			r.ran = true
			r.status, err = r.drive(cmd.Context(), options)
			return err
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&r.lex, "lex", "l", false, "Run the lexer but stop before parsing")
	f.BoolVarP(&r.parse, "parse", "p", false, "Run the lexer and parser, but stop before assembly generation")
	f.BoolVarP(&r.codegen, "codegen", "c", false, "Run the lexer, parser, and assembly generation, but stop before code generation")
	f.BoolVarP(&r.saveTemps, "save-temps", "s", false, "Do not delete temporary preprocessor and assembly files")
	f.BoolVarP(&r.stop, "stop", "S", false, "Stop after compilation, do not assemble")
	f.VarP(&r.architecture, "architecture", "a", "Target architecture (Transputer, EPOC16, X86_64)")
	f.StringVar(&r.toolchain, "toolchain", env.Str("RCC_TOOLCHAIN"), "Toolchain profile (JSON) naming the preprocessor, compiler and assembler")
	f.StringVar(&r.sandboxImage, "sandbox-image", env.Str("RCC_SANDBOX_IMAGE"), "Run each tool inside a container of this docker image")

	cmd.AddCommand(newToolchainCmd(r))

	return cmd
}

func (r *runner) validate(args []string) (*driver.Options, error) {
	if len(args) == 0 {
		return nil, errors.New("C filename not supplied")
	}
	if len(args) > 1 {
		return nil, errors.Errorf("only one C filename may be given, got %d", len(args))
	}

	file := args[0]
	if !strings.HasSuffix(strings.ToLower(file), ".c") {
		return nil, errors.Errorf("'%s' is not a C filename", file)
	}
	if _, err := os.Stat(file); err != nil {
		return nil, errors.Errorf("'%s' could not be found", file)
	}

	return &driver.Options{
		Source:           file,
		Lex:              r.lex,
		Parse:            r.parse,
		Codegen:          r.codegen,
		SaveTemps:        r.saveTemps,
		StopAfterCompile: r.stop,
		TargetPlatform:   r.architecture,
	}, nil
}

func (r *runner) drive(ctx context.Context, options *driver.Options) (exitcode.Code, error) {
	tc, err := toolchain.Resolve(r.toolchain)
	if err != nil {
		return exitcode.Usage, err
	}

	e := r.executor
	if e == nil {
		e, err = r.newExecutor(options)
		if err != nil {
			return exitcode.Unavailable, err
		}
	}

	d := driver.NewDefaultDriver(options, tc, executor.NewLoggingExecutor(r.logger, e), r.logger)
	return driver.NewController(r.logger).Drive(ctx, options, d)
}

func (r *runner) newExecutor(options *driver.Options) (executor.Executor, error) {
	if r.sandboxImage == "" {
		return executor.NewCommandExecutor(), nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}
	srcDir, err := filepath.Abs(filepath.Dir(options.Source))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve directory of %s", options.Source)
	}

	return executor.NewSandboxExecutor(&executor.SandboxConfig{
		Image:   r.sandboxImage,
		WorkDir: wd,
		Mounts:  []string{srcDir},
		UID:     os.Getuid(),
		GID:     os.Getgid(),
		Limits:  executor.DefaultResourceLimits(),
	}, r.logger), nil
}

func (r *runner) execute(cmd *cobra.Command, args []string) exitcode.Code {
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		r.logger.Error("Exiting with error", zap.Error(err), zap.Stringer("status", r.status))
		return r.status
	}
	if !r.ran {
		// --help, --version and subcommands land here; these aren't errors.
		r.logger.Info("no compilation requested")
	}
	r.logger.Debug("Exiting", zap.Stringer("status", r.status))
	return r.status
}

func Execute() int {
	logger, err := logging.New(logging.LevelFromEnv())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return int(exitcode.Usage)
	}
	defer logger.Sync()

	r := newRunner(logger)
	return int(r.execute(newRootCmd(r), os.Args[1:]))
}
