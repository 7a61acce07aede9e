package toolchain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yutopp/rcc/pkg/domain"
)

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolchain.json")
	p := NewProfileFromFile(path)

	want := &domain.Toolchain{
		Preprocessor: domain.PhasedTool{Cmd: []string{"cpp", "-P"}},
		Compiler:     domain.PhasedTool{Cmd: []string{"/usr/local/bin/rcc1"}},
		Assembler:    domain.PhasedTool{Cmd: []string{"tmasm", "-v"}},
	}
	require.NoError(t, p.Save(want))

	got, err := p.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadPartialProfileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolchain.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"assembler": {"cmd": ["v20asm"]}}`), 0o644))

	got, err := NewProfileFromFile(path).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"gcc", "-E", "-P"}, got.Preprocessor.Cmd)
	assert.Equal(t, []string{"rcc1"}, got.Compiler.Cmd)
	assert.Equal(t, []string{"v20asm"}, got.Assembler.Cmd)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewProfileFromFile(filepath.Join(dir, "missing.json")).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open toolchain profile")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"linker": {"cmd": ["ld"]}}`), 0o644))
	_, err = NewProfileFromFile(bad).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode toolchain profile")
}

func TestResolve(t *testing.T) {
	got, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultToolchain(), got)
}
