package domain

// Toolchain names the external tools run by each compilation phase.
type Toolchain struct {
	Preprocessor PhasedTool `json:"preprocessor"`
	Compiler     PhasedTool `json:"compiler"`
	Assembler    PhasedTool `json:"assembler"`
}

// PhasedTool is the command prefix of one phase; the driver appends the
// phase's own arguments after it.
type PhasedTool struct {
	Cmd []string `json:"cmd"`
}

// DefaultToolchain returns the tools used when no profile is given.
func DefaultToolchain() *Toolchain {
	return &Toolchain{
		Preprocessor: PhasedTool{
			Cmd: []string{"gcc", "-E", "-P"},
		},
		Compiler: PhasedTool{
			Cmd: []string{"rcc1"},
		},
		Assembler: PhasedTool{
			Cmd: []string{"tmasm"},
		},
	}
}

// WithDefaults fills every empty tool from DefaultToolchain.
func (t *Toolchain) WithDefaults() *Toolchain {
	d := DefaultToolchain()
	out := *t
	if len(out.Preprocessor.Cmd) == 0 {
		out.Preprocessor = d.Preprocessor
	}
	if len(out.Compiler.Cmd) == 0 {
		out.Compiler = d.Compiler
	}
	if len(out.Assembler.Cmd) == 0 {
		out.Assembler = d.Assembler
	}
	return &out
}
