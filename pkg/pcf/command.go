package pcf

import (
	"fmt"
	"strings"
)

// OpSetIO is the only command the placer understands.
const OpSetIO = "set_io"

// Command is one parsed constraint. PtRow is zero when absent, otherwise the
// 1-based spreadsheet row (first data row is 2).
type Command struct {
	Line        int
	Op          string
	DesignPin   string
	DevicePin   string
	Mode        string
	InternalPin string
	PtRow       int
}

// HasPtRow reports whether an explicit table row was given.
func (c Command) HasPtRow() bool { return c.PtRow > 0 }

// Row returns the zero-based table row of an explicit -pt_row.
func (c Command) Row() int { return c.PtRow - 2 }

// Format renders the command as a constraint line.
func (c Command) Format(emitPtRow bool) string {
	var b strings.Builder
	op := c.Op
	if op == "" {
		op = OpSetIO
	}
	fmt.Fprintf(&b, "%s %s %s -mode %s", op, c.DesignPin, c.DevicePin, c.Mode)
	if c.InternalPin != "" {
		fmt.Fprintf(&b, " -internal_pin %s", c.InternalPin)
	}
	if emitPtRow && c.HasPtRow() {
		fmt.Fprintf(&b, " -pt_row %d", c.PtRow)
	}
	return b.String()
}

func (c Command) String() string { return c.Format(true) }

// PartitionInternal returns the commands carrying -internal_pin first, then
// the rest, each group keeping its original order.
func PartitionInternal(cmds []Command) []Command {
	out := make([]Command, 0, len(cmds))
	for _, c := range cmds {
		if c.InternalPin != "" {
			out = append(out, c)
		}
	}
	for _, c := range cmds {
		if c.InternalPin == "" {
			out = append(out, c)
		}
	}
	return out
}
