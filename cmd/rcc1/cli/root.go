package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yutopp/rcc/pkg/compiler"
	"github.com/yutopp/rcc/pkg/domain"
	"github.com/yutopp/rcc/pkg/exitcode"
	"github.com/yutopp/rcc/pkg/logging"
)

const version = "0.1.0"

type runner struct {
	logger *zap.Logger
	status exitcode.Code

	lex          bool
	parse        bool
	codegen      bool
	architecture domain.TargetPlatform
	output       string
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
		Use:     "rcc1 [flags] <file.i>",
		Short:   "Transputer & EPOC16 C Compiler (Back End)",
		Version: version,
		Args:    cobra.ArbitraryArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := r.validate(args)
			if err != nil {
				return err
			}
			r.logger.Debug("compiler options", zap.Any("options", options))

			r.status, err = compiler.NewCompiler(r.logger).Compile(options)
			return err
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&r.lex, "lex", "l", false, "Run the lexer but stop before parsing")
	f.BoolVarP(&r.parse, "parse", "p", false, "Run the lexer and parser, but stop before assembly generation")
	f.BoolVarP(&r.codegen, "codegen", "c", false, "Run the lexer, parser, and assembly generation, but stop before code generation")
	f.VarP(&r.architecture, "architecture", "a", "Target architecture (Transputer, EPOC16, X86_64)")
	f.StringVarP(&r.output, "output", "o", "", "The path (absolute or relative) of the output assembler file (.asm)")

	return cmd
}

func (r *runner) validate(args []string) (*compiler.Options, error) {
	if len(args) == 0 {
		return nil, errors.New("preprocessed C filename (.i) not supplied")
	}
	if len(args) > 1 {
		return nil, errors.Errorf("only one preprocessed C filename (.i) may be given, got %d", len(args))
	}

	file := args[0]
	if !strings.HasSuffix(strings.ToLower(file), ".i") {
		return nil, errors.Errorf("'%s' is not a preprocessed C filename (.i)", file)
	}
	if _, err := os.Stat(file); err != nil {
		return nil, errors.Errorf("'%s' could not be found", file)
	}
	// Not required: the test harness runs lex/parse/codegen without an output.
	if r.output != "" && !strings.HasSuffix(strings.ToLower(r.output), ".asm") {
		return nil, errors.Errorf("'%s' is not an assembler file (.asm)", r.output)
	}

	return &compiler.Options{
		Input:          file,
		Output:         r.output,
		Lex:            r.lex,
		Parse:          r.parse,
		Codegen:        r.codegen,
		TargetPlatform: r.architecture,
	}, nil
}

func (r *runner) execute(cmd *cobra.Command, args []string) exitcode.Code {
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		r.logger.Error("Exiting with error", zap.Error(err), zap.Stringer("status", r.status))
		return r.status
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
