// Package compiler is the front end run by rcc1 on a preprocessed file.
package compiler

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/yutopp/rcc/pkg/domain"
	"github.com/yutopp/rcc/pkg/exitcode"
	"github.com/yutopp/rcc/pkg/lexer"
)

type Options struct {
	Input  string // preprocessed C file (.i)
	Output string // assembly file (.asm); empty when not given

	Lex     bool
	Parse   bool
	Codegen bool

	TargetPlatform domain.TargetPlatform
}

type Compiler struct {
	logger *zap.Logger
}

func NewCompiler(logger *zap.Logger) *Compiler {
	return &Compiler{
		logger: logger,
	}
}

// Compile runs the front end. Malformed input is not an error: it is
// reported through the returned exit code.
func (c *Compiler) Compile(options *Options) (exitcode.Code, error) {
	c.logger.Debug("loading", zap.String("path", options.Input))
	buf, err := os.ReadFile(options.Input)
	if err != nil {
		return exitcode.Unavailable, errors.Wrapf(err, "failed to read %s", options.Input)
	}
	c.logger.Debug("read", zap.Int("bytes", len(buf)))

	if options.Lex {
		return c.lex(options, string(buf))
	}

	// TODO: lex and parse here once the parser exists; until then nothing is written to Output.
	c.logger.Warn("parsing and code generation are not implemented yet",
		zap.Stringer("architecture", options.TargetPlatform),
		zap.String("output", options.Output),
	)
	return exitcode.OK, nil
}

func (c *Compiler) lex(options *Options, src string) (exitcode.Code, error) {
	start := time.Now()
	tokens, err := lexer.Tokenize(src)
	c.logger.Debug("lexical analysis finished", zap.Duration("took", time.Since(start)))
	if err != nil {
		var errs lexer.ErrorList
		if !errors.As(err, &errs) {
			return exitcode.Unavailable, err
		}
		c.logger.Error("lexical analysis unsuccessful", zap.Int("errors", len(errs)))
		for _, e := range errs {
			c.logger.Error(e.Msg, zap.String("file", options.Input), zap.Stringer("pos", e.Pos), zap.String("text", e.Text))
		}
		return exitcode.DataErr, nil
	}

	c.logger.Info("lexical analysis successful", zap.Int("tokens", len(tokens)))
	return exitcode.OK, nil
}
