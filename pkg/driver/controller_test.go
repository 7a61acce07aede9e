package driver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yutopp/rcc/pkg/domain"
	"github.com/yutopp/rcc/pkg/exitcode"
)

func drive(t *testing.T, options *Options, d Driver) (exitcode.Code, error) {
	t.Helper()
	return NewController(zap.NewNop()).Drive(context.Background(), options, d)
}

func TestControllerHappyPath(t *testing.T) {
	d := &stubDriver{}
	code, err := drive(t, &Options{Source: "file.c"}, d)

	require.NoError(t, err)
	assert.Equal(t, exitcode.OK, code)
	assert.Equal(t, []Phase{PhasePreprocessor, PhaseCompiler, PhaseAssembler}, d.calls)
}

func TestControllerPhaseFailures(t *testing.T) {
	tests := []struct {
		failing Phase
		calls   []Phase
		message string
	}{
		{
			failing: PhasePreprocessor,
			calls:   []Phase{PhasePreprocessor},
			message: "could not run preprocessor: preprocessor failed",
		},
		{
			failing: PhaseCompiler,
			calls:   []Phase{PhasePreprocessor, PhaseCompiler},
			message: "could not run compiler: compiler failed",
		},
		{
			failing: PhaseAssembler,
			calls:   []Phase{PhasePreprocessor, PhaseCompiler, PhaseAssembler},
			message: "could not run assembler: assembler failed",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.failing), func(t *testing.T) {
			cause := errors.Newf("%s failed", tt.failing)
			d := &stubDriver{errs: map[Phase]error{tt.failing: cause}}

			code, err := drive(t, &Options{Source: "file.c"}, d)
			require.Error(t, err)
			assert.Equal(t, exitcode.Unavailable, code)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, tt.calls, d.calls)

			var phaseErr *PhaseError
			require.True(t, errors.As(err, &phaseErr))
			assert.Equal(t, tt.failing, phaseErr.Phase)
			assert.True(t, errors.Is(err, cause))
		})
	}
}

func TestControllerStopAfterCompile(t *testing.T) {
	d := &stubDriver{}
	code, err := drive(t, &Options{Source: "file.c", StopAfterCompile: true}, d)

	require.NoError(t, err)
	assert.Equal(t, exitcode.OK, code)
	assert.Equal(t, []Phase{PhasePreprocessor, PhaseCompiler}, d.calls)
}

func TestControllerNonZeroExitIsNotAPipelineError(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	d := &stubDriver{codes: map[Phase]int{PhaseCompiler: 2}}

	code, err := NewController(zap.New(core)).Drive(context.Background(), &Options{Source: "file.c"}, d)
	require.NoError(t, err)
	assert.Equal(t, exitcode.OK, code)
	assert.Equal(t, []Phase{PhasePreprocessor, PhaseCompiler, PhaseAssembler}, d.calls)

	warnings := logs.FilterMessage("phase tool did not succeed").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "compiler", warnings[0].ContextMap()["phase"])
}

func TestControllerWithDefaultDriver(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "prog.c")
	rec := &recordingExecutor{}
	options := &Options{Source: source, TargetPlatform: domain.EPOC16}
	d := NewDefaultDriver(options, domain.DefaultToolchain(), rec, zap.NewNop())

	code, err := drive(t, options, d)
	require.NoError(t, err)
	assert.Equal(t, exitcode.OK, code)
	require.Len(t, rec.calls, 3)
	assert.Equal(t, "gcc", rec.calls[0][0])
	assert.Equal(t, []string{"rcc1", "--architecture", "EPOC16"}, rec.calls[1][:3])
	assert.Equal(t, "tmasm", rec.calls[2][0])
}

func TestControllerWithDefaultDriverStopsWhenPreprocessorCannotRun(t *testing.T) {
	rec := &recordingExecutor{err: errors.New("boom")}
	options := &Options{Source: "file.c", SaveTemps: true}
	d := NewDefaultDriver(options, domain.DefaultToolchain(), rec, zap.NewNop())

	_, err := drive(t, options, d)
	require.Error(t, err)
	assert.Len(t, rec.calls, 1)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "preprocessing", StatePreprocessing.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "done", StateDone.String())
}
