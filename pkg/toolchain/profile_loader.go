package toolchain

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/yutopp/rcc/pkg/domain"
)

// ProfileFromFile stores a domain.Toolchain as JSON.
type ProfileFromFile struct {
	Path string
}

func NewProfileFromFile(path string) *ProfileFromFile {
	return &ProfileFromFile{
		Path: path,
	}
}

// Load reads the profile. Tools the profile leaves out keep their defaults.
func (p *ProfileFromFile) Load() (*domain.Toolchain, error) {
	r, err := os.Open(p.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open toolchain profile: %s", p.Path)
	}
	defer r.Close()

	var toolchain domain.Toolchain
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&toolchain); err != nil {
		return nil, errors.Wrapf(err, "failed to decode toolchain profile: %s", p.Path)
	}

	return toolchain.WithDefaults(), nil
}

func (p *ProfileFromFile) Save(toolchain *domain.Toolchain) error {
	w, err := os.Create(p.Path)
	if err != nil {
		return errors.Wrapf(err, "failed to create file: %s", p.Path)
	}
	defer w.Close()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toolchain); err != nil {
		return errors.Wrapf(err, "failed to encode toolchain profile: %s", p.Path)
	}

	return w.Close()
}

// Resolve loads the profile at path, or returns the default toolchain when
// path is empty.
func Resolve(path string) (*domain.Toolchain, error) {
	if path == "" {
		return domain.DefaultToolchain(), nil
	}
	return NewProfileFromFile(path).Load()
}
