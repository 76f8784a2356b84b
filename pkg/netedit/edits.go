// Package netedit reads the netlist edits recorded by synthesis, the I/O
// buffers inserted between top-level ports and the fabric, and maps original
// port names to the names the buffered netlist uses.
//
// The edit file is a list of s-expressions:
//
//	(netlist_edits
//	  (buffer (dir input)  (old "clk")      (new "$ibuf_clk"))
//	  (buffer (dir output) (old "led")      (new "$obuf_led"))
//	)
//
// Buffers may be chained: the new name of one buffer is the old name of the
// next.
package netedit

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/fpgapin/pkg/diag"
)

// Buffer is one inserted buffer.
type Buffer struct {
	Input bool
	Old   string
	New   string
}

// Chain indexes buffers by the name they replace.
type Chain struct {
	byOld map[string]Buffer
	order []Buffer
}

// NewChain builds a chain from buffers. A later buffer for the same old name
// replaces an earlier one.
func NewChain(buffers ...Buffer) *Chain {
	c := &Chain{byOld: make(map[string]Buffer)}
	for _, b := range buffers {
		c.add(b)
	}
	return c
}

func (c *Chain) add(b Buffer) {
	c.byOld[b.Old] = b
	c.order = append(c.order, b)
}

// Len returns the number of buffers read.
func (c *Chain) Len() int { return len(c.order) }

// Buffers returns the buffers in file order.
func (c *Chain) Buffers() []Buffer { return c.order }

// Endpoint follows buffers starting at old until the name no longer appears
// as a buffer input. input reports the direction of the last buffer
// followed. ok is false when old is not buffered at all.
func (c *Chain) Endpoint(old string) (name string, input bool, ok bool) {
	name = old
	seen := map[string]bool{old: true}
	for {
		b, found := c.byOld[name]
		if !found {
			return name, input, ok
		}
		name, input, ok = b.New, b.Input, true
		if seen[name] {
			return name, input, ok
		}
		seen[name] = true
	}
}

// LoadFile reads an edit file from disk.
func LoadFile(path string) (*Chain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, diag.Wrap(diag.NetlistEditsError, err, path)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("netedit: %s: %w", path, err)
	}
	return c, nil
}

// Parse reads an edit file.
func Parse(r io.Reader) (*Chain, error) {
	exprs, err := parseAll(r)
	if err != nil {
		return nil, diag.Wrap(diag.NetlistEditsError, err, "")
	}

	c := NewChain()
	for _, e := range exprs {
		root, ok := e.(*List)
		if !ok || root.Tag() != "netlist_edits" {
			return nil, diag.New(diag.NetlistEditsError, "expected (netlist_edits ...), got %s", e)
		}
		for i := 1; i < root.Len(); i++ {
			item, ok := root.Get(i).(*List)
			if !ok || item.Tag() != "buffer" {
				return nil, diag.New(diag.NetlistEditsError, "expected (buffer ...), got %s", root.Get(i))
			}
			b, err := parseBuffer(item)
			if err != nil {
				return nil, err
			}
			c.add(b)
		}
	}
	return c, nil
}

func parseBuffer(l *List) (Buffer, error) {
	dir, _ := l.Field("dir")
	old, okOld := l.Field("old")
	nw, okNew := l.Field("new")
	if !okOld || !okNew || old == "" || nw == "" {
		return Buffer{}, diag.New(diag.NetlistEditsError, "line %d: buffer needs old and new names", l.Line)
	}
	b := Buffer{Old: old, New: nw}
	switch dir {
	case "input", "in":
		b.Input = true
	case "output", "out":
	default:
		return Buffer{}, diag.New(diag.NetlistEditsError, "line %d: buffer dir %q", l.Line, dir)
	}
	return b, nil
}
