package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the only policy file version understood.
const CurrentVersion = "1"

// LoadFile reads and parses the policy file at path.
func LoadFile(path string) (*PolicyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}

	pf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return pf, nil
}

// Parse decodes a policy file. Unknown keys are rejected and defaults are applied.
// Empty input yields an empty file of the current version.
func Parse(data []byte) (*PolicyFile, error) {
	var pf PolicyFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse policy YAML: %w", err)
	}

	applyDefaults(&pf)

	return &pf, nil
}

// applyDefaults fills the version and copies file-wide defaults into entries leaving them empty.
func applyDefaults(pf *PolicyFile) {
	if pf.Version == "" {
		pf.Version = CurrentVersion
	}

	for i := range pf.Policies {
		e := &pf.Policies[i]

		e.Rename = orDefault(e.Rename, pf.Defaults.Rename)
		e.Shape = orDefault(e.Shape, pf.Defaults.Shape)
		e.UnknownFields = orDefault(e.UnknownFields, pf.Defaults.UnknownFields)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}

	return v
}

// Marshal serializes a policy file to YAML.
func Marshal(pf *PolicyFile) ([]byte, error) {
	return yaml.Marshal(pf)
}

// WriteFile writes pf to path.
func WriteFile(pf *PolicyFile, path string) error {
	data, err := Marshal(pf)
	if err != nil {
		return fmt.Errorf("failed to marshal policy file: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write policy file %s: %w", path, err)
	}

	return nil
}
