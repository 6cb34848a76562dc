package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML document from path into v. References of the form
// ${VAR} or $VAR are replaced with values from the process environment before
// decoding, so secrets can stay out of the file. File configs are not cached.
func LoadFile[T any](path string, v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	if path == "" {
		return ErrEmptyPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Join(ErrReadingFile, err)
	}

	return Decode(raw, v)
}

// Decode expands environment references in raw and unmarshals the YAML into v.
func Decode[T any](raw []byte, v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	expanded := os.ExpandEnv(string(raw))
	if err := yaml.Unmarshal([]byte(expanded), v); err != nil {
		return errors.Join(ErrParsingFile, err)
	}
	return nil
}

// MustLoadFile works like LoadFile but panics on failure.
func MustLoadFile[T any](path string, v *T) {
	if err := LoadFile(path, v); err != nil {
		panic(fmt.Sprintf("Failed to load configuration file %s: %v", path, err))
	}
}
