package portinfo

import (
	"bufio"
	"io"
	"strings"

	"github.com/OpenTraceLab/fpgapin/pkg/diag"
)

// ReadBLIF collects the .inputs and .outputs of the first .model. Lines
// ending in a backslash continue on the next line.
func ReadBLIF(r io.Reader) (*Ports, error) {
	p := NewPorts(nil, nil)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	models := 0
	var pending string
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if strings.HasSuffix(line, "\\") {
			pending += strings.TrimSuffix(line, "\\") + " "
			continue
		}
		line = pending + line
		pending = ""

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case ".model":
			models++
		case ".inputs":
			if models <= 1 {
				for _, n := range fields[1:] {
					p.AddInput(n)
				}
			}
		case ".outputs":
			if models <= 1 {
				for _, n := range fields[1:] {
					p.AddOutput(n)
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, diag.Wrap(diag.PortInfoError, err, "read blif")
	}
	return p, nil
}
