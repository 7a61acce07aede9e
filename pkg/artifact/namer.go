// Package artifact derives the names of every file a compilation produces.
//
// All artifact paths are the source path with its extension replaced, so they
// live beside the source file and depend on nothing but its path. Nothing else
// in rcc builds these names.
package artifact

import (
	"path/filepath"
	"strings"
)

const (
	PreprocessedExt = "i"
	AssemblyExt     = "asm"
	BinaryExt       = "bin"
	ListingExt      = "lst"
)

type Namer struct {
	source string
}

func NewNamer(source string) *Namer {
	return &Namer{
		source: source,
	}
}

func (n *Namer) Source() string {
	return n.source
}

// Preprocessed is the output of the preprocessor and input of the backend compiler.
func (n *Namer) Preprocessed() string {
	return withExt(n.source, PreprocessedExt)
}

// Assembly is the output of the backend compiler and input of the assembler.
func (n *Namer) Assembly() string {
	return withExt(n.source, AssemblyExt)
}

func (n *Namer) Binary() string {
	return withExt(n.source, BinaryExt)
}

func (n *Namer) Listing() string {
	return withExt(n.source, ListingExt)
}

// withExt replaces the extension of the final path element, or appends one
// when there is none. A leading dot marks a hidden file, not an extension.
func withExt(path, ext string) string {
	base := filepath.Base(path)
	old := filepath.Ext(base)
	if old == base {
		old = ""
	}
	return strings.TrimSuffix(path, old) + "." + ext
}
