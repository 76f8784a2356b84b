package portinfo

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/OpenTraceLab/fpgapin/pkg/diag"
)

type jsonRange struct {
	Msb int `json:"msb"`
	Lsb int `json:"lsb"`
}

type jsonPort struct {
	Name      string     `json:"name"`
	Direction string     `json:"direction"`
	Range     *jsonRange `json:"range,omitempty"`
}

type jsonModule struct {
	Top   string     `json:"topModule"`
	Ports []jsonPort `json:"ports"`
}

// ReadJSON reads a port-info document: an array of modules, the first of
// which is the top. Ranged ports expand to name[i], msb first.
func ReadJSON(r io.Reader) (*Ports, error) {
	var mods []jsonModule
	if err := json.NewDecoder(r).Decode(&mods); err != nil {
		return nil, diag.Wrap(diag.PortInfoError, err, "decode json")
	}
	if len(mods) == 0 {
		return nil, diag.New(diag.PortInfoError, "no modules")
	}

	p := NewPorts(nil, nil)
	for _, port := range mods[0].Ports {
		for _, name := range expand(port) {
			switch port.Direction {
			case "input":
				p.AddInput(name)
			case "output":
				p.AddOutput(name)
			case "inout":
				p.AddInput(name)
				p.AddOutput(name)
			default:
				return nil, diag.New(diag.PortInfoError, "port %s: direction %q", port.Name, port.Direction)
			}
		}
	}
	return p, nil
}

func expand(port jsonPort) []string {
	if port.Range == nil {
		return []string{port.Name}
	}
	step := -1
	if port.Range.Msb < port.Range.Lsb {
		step = 1
	}
	var names []string
	for i := port.Range.Msb; ; i += step {
		names = append(names, fmt.Sprintf("%s[%d]", port.Name, i))
		if i == port.Range.Lsb {
			break
		}
	}
	return names
}
