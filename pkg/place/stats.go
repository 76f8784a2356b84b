package place

import (
	"encoding/json"
	"fmt"
	"io"
)

// Stats summarizes a placement run against the design's ports.
type Stats struct {
	DesignInputs  int      `json:"design_inputs"`
	DesignOutputs int      `json:"design_outputs"`
	Inputs        int      `json:"placed_inputs"`
	Outputs       int      `json:"placed_outputs"`
	AXI           int      `json:"axi_pins"`
	Collisions    int      `json:"collisions"`
	Unplaced      []string `json:"unplaced"`
}

// Coverage returns the fraction of design ports that were placed.
func (s Stats) Coverage() float64 {
	total := s.DesignInputs + s.DesignOutputs
	if total == 0 {
		return 1
	}
	return float64(s.Inputs+s.Outputs) / float64(total)
}

// Stats computes statistics for the placements written so far. inputs and
// outputs are the design's ports in definition order.
func (w *Writer) Stats(inputs, outputs []string) Stats {
	s := Stats{
		DesignInputs:  len(inputs),
		DesignOutputs: len(outputs),
		Collisions:    w.Collisions,
	}
	placed := make(map[string]bool, len(w.Placed))
	for _, p := range w.Placed {
		placed[p.DesignPin] = true
		if p.Input {
			s.Inputs++
		} else {
			s.Outputs++
		}
		if p.Source == FromAXI {
			s.AXI++
		}
	}
	for _, list := range [][]string{inputs, outputs} {
		for _, n := range list {
			if !placed[n] {
				s.Unplaced = append(s.Unplaced, n)
			}
		}
	}
	return s
}

// Print writes a human readable summary.
func (s Stats) Print(w io.Writer) {
	fmt.Fprintf(w, "Placed inputs:  %d / %d\n", s.Inputs, s.DesignInputs)
	fmt.Fprintf(w, "Placed outputs: %d / %d\n", s.Outputs, s.DesignOutputs)
	fmt.Fprintf(w, "Coverage:       %.1f%%\n", 100*s.Coverage())
	if s.AXI > 0 {
		fmt.Fprintf(w, "AXI pins:       %d\n", s.AXI)
	}
	if s.Collisions > 0 {
		fmt.Fprintf(w, "Collisions:     %d (CRITICAL)\n", s.Collisions)
	}
	if len(s.Unplaced) > 0 {
		fmt.Fprintf(w, "Unplaced (%d):\n", len(s.Unplaced))
		for _, n := range s.Unplaced {
			fmt.Fprintf(w, "  %s\n", n)
		}
	}
}

// ExportJSON renders the statistics for tooling.
func (s Stats) ExportJSON() ([]byte, error) {
	out := struct {
		Version  string  `json:"version"`
		Coverage float64 `json:"coverage"`
		Stats
	}{
		Version:  "1.0",
		Coverage: s.Coverage(),
		Stats:    s,
	}
	return json.MarshalIndent(out, "", "  ")
}
