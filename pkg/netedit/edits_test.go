package netedit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/fpgapin/pkg/diag"
)

const sampleEdits = `
; buffers inserted by synthesis
(netlist_edits
  (buffer (dir input)  (old "clk") (new "$ibuf_clk"))
  (buffer (dir input)  (old "$ibuf_clk") (new "$clkbuf_clk"))
  (buffer (dir output) (old led) (new "$obuf_led"))
)
`

func TestParseEdits(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleEdits))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 buffers, got %d", c.Len())
	}
	if b := c.Buffers()[2]; b.Input || b.Old != "led" || b.New != "$obuf_led" {
		t.Errorf("buffer 2 = %+v", b)
	}
}

func TestEndpointFollowsChain(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleEdits))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	tests := []struct {
		old   string
		name  string
		input bool
		ok    bool
	}{
		{"clk", "$clkbuf_clk", true, true},
		{"led", "$obuf_led", false, true},
		{"rst", "rst", false, false},
	}
	for _, tt := range tests {
		name, input, ok := c.Endpoint(tt.old)
		if name != tt.name || input != tt.input || ok != tt.ok {
			t.Errorf("Endpoint(%q) = %q,%v,%v want %q,%v,%v", tt.old, name, input, ok, tt.name, tt.input, tt.ok)
		}
	}
}

func TestEndpointCycle(t *testing.T) {
	c := NewChain(
		Buffer{Input: true, Old: "a", New: "b"},
		Buffer{Input: true, Old: "b", New: "a"},
	)
	name, _, ok := c.Endpoint("a")
	if !ok || name != "a" {
		t.Errorf("cycle should stop on a repeated name, got %q %v", name, ok)
	}
}

func TestParseEditErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"wrong root", "(edits)"},
		{"wrong item", "(netlist_edits (wire a b))"},
		{"missing new", "(netlist_edits (buffer (dir input) (old a)))"},
		{"bad dir", "(netlist_edits (buffer (dir sideways) (old a) (new b)))"},
		{"unterminated", "(netlist_edits (buffer (dir input) (old a) (new b))"},
		{"stray paren", ")"},
		{"unterminated string", `(netlist_edits (buffer (old "a`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if diag.CodeOf(err) != diag.NetlistEditsError {
				t.Errorf("code = %s (%v)", diag.CodeOf(err), err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edits.sexp")
	if err := os.WriteFile(path, []byte(sampleEdits), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	c, err := LoadFile(path)
	if err != nil || c.Len() != 3 {
		t.Fatalf("LoadFile = %v, %v", c, err)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "none")); diag.CodeOf(err) != diag.NetlistEditsError {
		t.Errorf("missing file code = %s", diag.CodeOf(err))
	}
}
