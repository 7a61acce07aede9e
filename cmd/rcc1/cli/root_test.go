package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yutopp/rcc/pkg/domain"
	"github.com/yutopp/rcc/pkg/exitcode"
)

func createFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func run(t *testing.T, args ...string) exitcode.Code {
	t.Helper()
	r := newRunner(zap.NewNop())
	cmd := newRootCmd(r)
	cmd.SetOut(io.Discard)
	return r.execute(cmd, args)
}

func TestValidateErrors(t *testing.T) {
	existing := createFile(t, "file.i", "")
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{name: "no file", args: nil, message: "preprocessed C filename (.i) not supplied"},
		{name: "C file", args: []string{"aardvark.c"}, message: "'aardvark.c' is not a preprocessed C filename (.i)"},
		{name: "missing", args: []string{"magnumopus.i"}, message: "'magnumopus.i' could not be found"},
		{name: "bad output", args: []string{existing, "-o", "out.s"}, message: "'out.s' is not an assembler file (.asm)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRunner(zap.NewNop())
			cmd := newRootCmd(r)
			require.NoError(t, cmd.ParseFlags(tt.args))
			_, err := r.validate(cmd.Flags().Args())
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestValidateOptions(t *testing.T) {
	file := createFile(t, "FILE.I", "")
	r := newRunner(zap.NewNop())
	cmd := newRootCmd(r)
	require.NoError(t, cmd.ParseFlags([]string{file, "--lex", "-a", "EPOC16", "-o", "OUT.ASM"}))

	options, err := r.validate(cmd.Flags().Args())
	require.NoError(t, err)
	assert.Equal(t, file, options.Input)
	assert.Equal(t, "OUT.ASM", options.Output)
	assert.True(t, options.Lex)
	assert.False(t, options.Parse)
	assert.False(t, options.Codegen)
	assert.Equal(t, domain.EPOC16, options.TargetPlatform)
}

func TestValidateDefaults(t *testing.T) {
	file := createFile(t, "file.i", "")
	r := newRunner(zap.NewNop())

	options, err := r.validate([]string{file})
	require.NoError(t, err)
	assert.Equal(t, "", options.Output)
	assert.Equal(t, domain.Transputer, options.TargetPlatform)
}

func TestExecute(t *testing.T) {
	ok := createFile(t, "ok.i", "int main(void) { return 2; }")
	garbled := createFile(t, "garbled.i", "<<>>")

	tests := []struct {
		name string
		args []string
		want exitcode.Code
	}{
		{name: "lex ok", args: []string{ok, "--lex"}, want: exitcode.OK},
		{name: "lex garbled", args: []string{garbled, "--lex"}, want: exitcode.DataErr},
		{name: "full ok", args: []string{ok, "-o", "ok.asm"}, want: exitcode.OK},
		{name: "full garbled", args: []string{garbled, "-o", "garbled.asm"}, want: exitcode.OK},
		{name: "help", args: []string{"--help"}, want: exitcode.Usage},
		{name: "version", args: []string{"--version"}, want: exitcode.Usage},
		{name: "no file", args: []string{}, want: exitcode.Usage},
		{name: "bad architecture", args: []string{ok, "-a", "Z80"}, want: exitcode.Usage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, tt.args...))
		})
	}
}
