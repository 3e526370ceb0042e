// Package seed ships the demo characters, relationships and memories.
package seed

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Default decodes the built-in demo data
func Default() (ports.SeedData, error) {
	return Decode(defaultSeed)
}

// Decode parses seed YAML
func Decode(data []byte) (ports.SeedData, error) {
	var seed ports.SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return ports.SeedData{}, fmt.Errorf("failed to decode seed data: %w", err)
	}
	return seed, nil
}

// Load reads seed YAML from path
func Load(path string) (ports.SeedData, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.SeedData{}, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return ports.SeedData{}, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Decode(data)
}
