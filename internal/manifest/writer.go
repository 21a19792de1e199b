package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the manifest's name inside the project directory.
const FileName = "package.json"

// Marshal encodes m with two-space indentation and a trailing newline.
func Marshal(m *PackageManifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", FileName, err)
	}
	return append(data, '\n'), nil
}

// Write validates m and writes it to dir/package.json, returning the path.
func Write(dir string, m *PackageManifest) (string, error) {
	data, err := Marshal(m)
	if err != nil {
		return "", err
	}

	result, err := Validate(data)
	if err != nil {
		return "", err
	}
	if err := result.Err(); err != nil {
		return "", fmt.Errorf("refusing to write %s: %w", FileName, err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Read validates and parses the package.json in dir.
func Read(dir string) (*PackageManifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("%s is not a valid manifest: %w", path, err)
	}
	var m PackageManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &m, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
