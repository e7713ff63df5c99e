// Package seed loads catalog seed documents and imports them into a store.
package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a seed document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// File is the seed document layout. Components are keyed by energy name.
type File struct {
	Energies   []EnergyRecord               `json:"energies" yaml:"energies"`
	Components map[string][]ComponentRecord `json:"components" yaml:"components"`
	Parameters map[string]float64           `json:"parameters" yaml:"parameters"`
}

// EnergyRecord is one entry of the energies array.
type EnergyRecord struct {
	Name              string   `json:"name" yaml:"name"`
	Price             float64  `json:"price" yaml:"price"`
	ConsumptionPer100 *float64 `json:"consumption_per_100km" yaml:"consumption_per_100km"`
	Rent              *float64 `json:"rent" yaml:"rent"`
}

// ComponentRecord is one cost line of an energy.
type ComponentRecord struct {
	Name      string  `json:"name" yaml:"name"`
	Category  string  `json:"category" yaml:"category"`
	ValueType string  `json:"value_type" yaml:"value_type"`
	Value     float64 `json:"value" yaml:"value"`
}

// FormatFromPath picks the format from the file extension; anything that is
// not .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and parses the seed document at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	f, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a seed document.
func Parse(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported seed format %q", format)
	}
	return &f, nil
}
