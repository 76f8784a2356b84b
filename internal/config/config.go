// Package config holds the settings of a placement run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/fpgapin/pkg/alloc"
)

// Config controls one placement run. Paths may be set from a YAML file and
// overridden by command-line flags.
type Config struct {
	// Inputs
	PinTable string `yaml:"pin_table"` // Pin table CSV (required)
	PCF      string `yaml:"pcf"`       // User constraints; empty means synthesize
	PortInfo string `yaml:"port_info"` // JSON port info or BLIF netlist (required)
	Edits    string `yaml:"edits"`     // Netlist edit file, optional

	// Outputs
	Output    string `yaml:"output"`     // Placement file (required for place)
	WritePCF  string `yaml:"write_pcf"`  // Copy of the synthesized constraints
	StatsJSON string `yaml:"stats_json"` // Placement statistics as JSON
	LogFile   string `yaml:"log_file"`   // Additional log sink

	// Synthesis
	DefinitionOrder bool   `yaml:"definition_order"` // Keep port order instead of shuffling
	Seed            uint64 `yaml:"seed"`             // Shuffle seed
	EmitPtRow       bool   `yaml:"emit_pt_row"`      // Write -pt_row on generated lines
	MaxOverlap      int    `yaml:"max_overlap"`      // Overlap budget ceiling (default: 5)
	MaxIterations   int    `yaml:"max_iterations"`   // Tiles tried per pin (default: 100)
	UniqueXY        bool   `yaml:"unique_xy"`        // Group tiles by location only

	// Diagnostics
	Debug bool `yaml:"debug"` // Annotate placement lines
}

// Default returns a Config with the built-in bounds.
func Default() *Config {
	return &Config{
		MaxOverlap:    alloc.MaxOverlap,
		MaxIterations: alloc.MaxIterations,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Validate checks required inputs and clamps the bounds.
func (c *Config) Validate() error {
	if c.PinTable == "" {
		return fmt.Errorf("config: pin table is required")
	}
	if c.PortInfo == "" {
		return fmt.Errorf("config: port info is required")
	}
	if c.MaxOverlap < 1 {
		c.MaxOverlap = alloc.MaxOverlap
	}
	if c.MaxIterations < 1 || c.MaxIterations > alloc.MaxIterations {
		c.MaxIterations = alloc.MaxIterations
	}
	return nil
}

// Synthesize reports whether constraints have to be generated.
func (c *Config) Synthesize() bool { return c.PCF == "" }
