// Package portinfo reads the top-level ports of a synthesized design.
package portinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenTraceLab/fpgapin/pkg/diag"
)

// DesignPin is a top-level port with its resolved direction.
type DesignPin struct {
	Name  string
	Input bool
}

// Ports holds the design inputs and outputs in definition order.
type Ports struct {
	Inputs  []string
	Outputs []string

	inSet, outSet map[string]bool
}

// NewPorts builds a port set, dropping repeated names.
func NewPorts(inputs, outputs []string) *Ports {
	p := &Ports{inSet: make(map[string]bool), outSet: make(map[string]bool)}
	for _, n := range inputs {
		p.AddInput(n)
	}
	for _, n := range outputs {
		p.AddOutput(n)
	}
	return p
}

// AddInput appends an input port.
func (p *Ports) AddInput(name string) {
	if name == "" || p.inSet[name] {
		return
	}
	p.inSet[name] = true
	p.Inputs = append(p.Inputs, name)
}

// AddOutput appends an output port.
func (p *Ports) AddOutput(name string) {
	if name == "" || p.outSet[name] {
		return
	}
	p.outSet[name] = true
	p.Outputs = append(p.Outputs, name)
}

func (p *Ports) IsInput(name string) bool  { return p.inSet[name] }
func (p *Ports) IsOutput(name string) bool { return p.outSet[name] }

// Pins lists every input then every output as DesignPins.
func (p *Ports) Pins() []DesignPin {
	out := make([]DesignPin, 0, len(p.Inputs)+len(p.Outputs))
	for _, n := range p.Inputs {
		out = append(out, DesignPin{Name: n, Input: true})
	}
	for _, n := range p.Outputs {
		out = append(out, DesignPin{Name: n})
	}
	return out
}

// LoadFile reads ports from a .blif file or a JSON port-info file.
func LoadFile(path string) (*Ports, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, diag.Wrap(diag.PortInfoError, err, path)
	}
	defer f.Close()

	var p *Ports
	switch strings.ToLower(filepath.Ext(path)) {
	case ".blif", ".eblif":
		p, err = ReadBLIF(f)
	default:
		p, err = ReadJSON(f)
	}
	if err != nil {
		return nil, fmt.Errorf("portinfo: %s: %w", path, err)
	}
	return p, nil
}
