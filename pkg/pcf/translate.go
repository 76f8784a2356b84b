package pcf

import "log/slog"

// EditChain resolves design pin names through inserted buffers.
type EditChain interface {
	// Endpoint follows the buffer chain starting at old. input reports
	// whether the chain is made of input buffers.
	Endpoint(old string) (name string, input bool, ok bool)
}

// PortSides answers which side of the design a port belongs to.
type PortSides interface {
	IsInput(name string) bool
	IsOutput(name string) bool
}

// TranslateStats counts what Translate did.
type TranslateStats struct {
	Renamed   int
	Cancelled int
}

// Translate rewrites design pin names to their buffer-chain endpoints. A
// rename is cancelled when it would move the pin to the other side of the
// design. The input slice is not modified.
func Translate(cmds []Command, chain EditChain, ports PortSides, log *slog.Logger) ([]Command, TranslateStats) {
	var st TranslateStats
	out := make([]Command, len(cmds))
	copy(out, cmds)
	if chain == nil {
		return out, st
	}
	if log == nil {
		log = slog.Default()
	}

	for i, c := range out {
		name, input, ok := chain.Endpoint(c.DesignPin)
		if !ok || name == c.DesignPin {
			continue
		}
		if changesSide(c.DesignPin, input, ports) || changesSide(name, input, ports) {
			st.Cancelled++
			log.Debug("pin translation cancelled, side would change",
				"pin", c.DesignPin, "translated", name, "input_buffer", input)
			continue
		}
		log.Debug("pin translated", "pin", c.DesignPin, "translated", name)
		out[i].DesignPin = name
		st.Renamed++
	}
	return out, st
}

// changesSide reports whether name is known to sit only on the side opposite
// to the buffer direction.
func changesSide(name string, input bool, ports PortSides) bool {
	if ports == nil {
		return false
	}
	in, out := ports.IsInput(name), ports.IsOutput(name)
	if in == out {
		return false
	}
	return in != input
}
