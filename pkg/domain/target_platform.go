package domain

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
)

// TargetPlatform is the architecture the generated assembly and binary are meant for.
type TargetPlatform int

const (
	Transputer TargetPlatform = iota // Parachute Transputer emulator
	EPOC16                           // Psion EPOC16 (v20) architecture
	X86_64                           // x86_64 architecture
)

// DefaultTargetPlatform is selected when no architecture is given.
const DefaultTargetPlatform = Transputer

var targetPlatformNames = [...]string{
	Transputer: "Transputer",
	EPOC16:     "EPOC16",
	X86_64:     "X86_64",
}

var _ pflag.Value = (*TargetPlatform)(nil)

// TargetPlatforms lists every supported platform, default first.
func TargetPlatforms() []TargetPlatform {
	return []TargetPlatform{Transputer, EPOC16, X86_64}
}

func (p TargetPlatform) String() string {
	if int(p) >= 0 && int(p) < len(targetPlatformNames) {
		return targetPlatformNames[p]
	}
	return fmt.Sprintf("TargetPlatform(%d)", int(p))
}

// IsDefault reports whether the backend compiler assumes p without being told.
func (p TargetPlatform) IsDefault() bool {
	return p == DefaultTargetPlatform
}

// ParseTargetPlatform matches s against the canonical names, ignoring case.
func ParseTargetPlatform(s string) (TargetPlatform, error) {
	for _, p := range TargetPlatforms() {
		if strings.EqualFold(p.String(), s) {
			return p, nil
		}
	}
	return DefaultTargetPlatform, errors.Errorf("invalid architecture: '%s' (expected one of %s)", s, strings.Join(targetPlatformNames[:], ", "))
}

func (p *TargetPlatform) Set(s string) error {
	v, err := ParseTargetPlatform(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p *TargetPlatform) Type() string {
	return "architecture"
}
