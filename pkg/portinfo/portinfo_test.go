package portinfo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/fpgapin/pkg/diag"
)

func TestReadJSON(t *testing.T) {
	doc := `[{"topModule": "top", "ports": [
		{"name": "clk", "direction": "input"},
		{"name": "d", "direction": "input", "range": {"msb": 1, "lsb": 0}},
		{"name": "q", "direction": "output"},
		{"name": "io", "direction": "inout"}
	]}]`
	p, err := ReadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if got := strings.Join(p.Inputs, ","); got != "clk,d[1],d[0],io" {
		t.Errorf("Inputs = %s", got)
	}
	if got := strings.Join(p.Outputs, ","); got != "q,io" {
		t.Errorf("Outputs = %s", got)
	}
	if !p.IsInput("io") || !p.IsOutput("io") || p.IsOutput("clk") {
		t.Errorf("membership mismatch")
	}
	if pins := p.Pins(); len(pins) != 6 || !pins[0].Input || pins[5].Input {
		t.Errorf("Pins = %+v", pins)
	}
}

func TestReadJSONErrors(t *testing.T) {
	for _, doc := range []string{`{`, `[]`, `[{"ports":[{"name":"a","direction":"sideways"}]}]`} {
		if _, err := ReadJSON(strings.NewReader(doc)); diag.CodeOf(err) != diag.PortInfoError {
			t.Errorf("ReadJSON(%s) code = %s", doc, diag.CodeOf(err))
		}
	}
}

func TestReadBLIF(t *testing.T) {
	blif := `# top level
.model top
.inputs clk rst \
  din
.outputs dout
.names din dout
1 1
.end
.model sub
.inputs x
.end
`
	p, err := ReadBLIF(strings.NewReader(blif))
	if err != nil {
		t.Fatalf("ReadBLIF failed: %v", err)
	}
	if got := strings.Join(p.Inputs, ","); got != "clk,rst,din" {
		t.Errorf("Inputs = %s", got)
	}
	if got := strings.Join(p.Outputs, ","); got != "dout" {
		t.Errorf("Outputs = %s", got)
	}
}

func TestLoadFileByExtension(t *testing.T) {
	dir := t.TempDir()
	blifPath := filepath.Join(dir, "d.blif")
	jsonPath := filepath.Join(dir, "port_info.json")
	if err := os.WriteFile(blifPath, []byte(".model t\n.inputs a\n.outputs b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(jsonPath, []byte(`[{"ports":[{"name":"a","direction":"input"}]}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if p, err := LoadFile(blifPath); err != nil || len(p.Outputs) != 1 {
		t.Errorf("blif LoadFile = %v, %v", p, err)
	}
	if p, err := LoadFile(jsonPath); err != nil || len(p.Inputs) != 1 {
		t.Errorf("json LoadFile = %v, %v", p, err)
	}
	if _, err := LoadFile(filepath.Join(dir, "none.json")); diag.CodeOf(err) != diag.PortInfoError {
		t.Errorf("missing file code = %s", diag.CodeOf(err))
	}
}
