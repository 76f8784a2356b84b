// Package place resolves constraint commands to physical coordinates and
// writes the placement file consumed by the router.
package place

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/OpenTraceLab/fpgapin/pkg/diag"
	"github.com/OpenTraceLab/fpgapin/pkg/pcf"
	"github.com/OpenTraceLab/fpgapin/pkg/pintable"
)

// Header is the first line of every placement file.
const Header = "#Block Name\tx\ty\tz"

// Ports tells the writer which side a design pin is on.
type Ports interface {
	IsInput(name string) bool
	IsOutput(name string) bool
}

// Source names how a coordinate was resolved.
type Source string

const (
	FromRow  Source = "pt_row"
	FromAXI  Source = "axi"
	FromScan Source = "scan"
)

// Placement is one resolved line of the placement file.
type Placement struct {
	DesignPin string
	DevicePin string
	Loc       pintable.Location
	Row       int
	Mode      string
	Input     bool
	Source    Source
}

// Options tunes a Writer.
type Options struct {
	// Debug appends a # annotation with row, mode and source to each line.
	Debug  bool
	Logger *slog.Logger
}

// Writer turns commands into placement lines. One Writer serves one run.
type Writer struct {
	table *pintable.Table
	ports Ports
	opts  Options
	log   *slog.Logger

	usedInputs  map[pintable.Location]string
	usedOutputs map[pintable.Location]string

	Placed     []Placement
	Collisions int
}

// NewWriter returns a writer resolving against t.
func NewWriter(t *pintable.Table, ports Ports, opts Options) *Writer {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Writer{
		table:       t,
		ports:       ports,
		opts:        opts,
		log:         log,
		usedInputs:  make(map[pintable.Location]string),
		usedOutputs: make(map[pintable.Location]string),
	}
}

// WriteFile writes the placement for cmds to path.
func (w *Writer) WriteFile(path string, cmds []pcf.Command) error {
	f, err := os.Create(path)
	if err != nil {
		return diag.Wrap(diag.OutputFileError, err, path)
	}
	werr := w.Write(f, cmds)
	if cerr := f.Close(); cerr != nil && werr == nil {
		return diag.Wrap(diag.OutputFileError, cerr, path)
	}
	return werr
}

// Write resolves every command and writes the placement to out. Commands
// with -internal_pin are handled first. The first unresolvable command stops
// the run; an error marker line is written so a truncated file is never
// mistaken for a complete one.
func (w *Writer) Write(out io.Writer, cmds []pcf.Command) error {
	bw := bufio.NewWriter(out)
	fmt.Fprintln(bw, Header)

	for _, c := range pcf.PartitionInternal(cmds) {
		p, err := w.resolve(c)
		if err != nil {
			fmt.Fprintf(bw, "# ERROR: %v\n", err)
			if ferr := bw.Flush(); ferr != nil {
				w.log.Error("flush placement", "err", ferr)
			}
			return err
		}
		w.commit(p)
		w.writeLine(bw, p)
	}
	if err := bw.Flush(); err != nil {
		return diag.Wrap(diag.OutputFileError, err, "flush placement")
	}
	return nil
}

func (w *Writer) writeLine(bw *bufio.Writer, p Placement) {
	fmt.Fprintf(bw, "%s\t%d\t%d\t%d", p.DesignPin, p.Loc.X, p.Loc.Y, p.Loc.Z)
	if w.opts.Debug {
		fmt.Fprintf(bw, "\t# %s row=%d mode=%s via=%s", p.DevicePin, p.Row+2, p.Mode, p.Source)
	}
	bw.WriteByte('\n')
}

func (w *Writer) commit(p Placement) {
	used := w.usedOutputs
	if p.Input {
		used = w.usedInputs
	}
	if other, taken := used[p.Loc]; taken {
		w.Collisions++
		w.log.Warn("placement collision", "critical", true, "code", diag.PlacementCollision.String(),
			"pin", p.DesignPin, "other", other, "loc", p.Loc.String(), "input", p.Input)
	} else {
		used[p.Loc] = p.DesignPin
	}
	w.Placed = append(w.Placed, p)
}

func (w *Writer) resolve(c pcf.Command) (Placement, error) {
	var input bool
	isIn, isOut := w.ports.IsInput(c.DesignPin), w.ports.IsOutput(c.DesignPin)
	switch {
	case isIn && isOut:
		input = w.side(c)
	case isIn:
		input = true
	case isOut:
	default:
		return Placement{}, diag.New(diag.ConstrainedPortNotFound, "line %d: %s", c.Line, c.DesignPin)
	}

	axi, isAXI := w.table.FindAXI(c.DevicePin)
	if !isAXI && !w.table.HasName(c.DevicePin) {
		return Placement{}, diag.New(diag.ConstrainedPinNotFound, "line %d: %s -> %s", c.Line, c.DesignPin, c.DevicePin)
	}

	p := Placement{DesignPin: c.DesignPin, DevicePin: c.DevicePin, Mode: c.Mode, Input: input}

	if c.HasPtRow() {
		r, ok := w.table.Record(c.Row())
		if !ok {
			return Placement{}, diag.New(diag.PinLocationNotFound, "line %d: %s: -pt_row %d is outside the table",
				c.Line, c.DesignPin, c.PtRow)
		}
		return w.at(p, r, FromRow)
	}
	if r, ok := w.inferRow(c); ok {
		return w.at(p, r, FromRow)
	}
	if isAXI {
		return w.at(p, axi, FromAXI)
	}
	if r, ok := w.scan(c, input); ok {
		return w.at(p, r, FromScan)
	}
	return Placement{}, w.notFound(c)
}

// side picks the direction of a command whose design pin is both an input
// and an output. The row named by -pt_row decides first, then the kind of
// the requested mode, then the rows of the device name.
func (w *Writer) side(c pcf.Command) bool {
	if c.HasPtRow() {
		if r, ok := w.table.Record(c.Row()); ok && r.IsInput() != r.IsOutput() {
			return r.IsInput()
		}
	}
	if col, ok := w.table.ModeIndex(c.Mode); ok {
		switch w.table.ModeKindOf(col) {
		case pintable.ModeRX:
			return true
		case pintable.ModeTX:
			return false
		}
	}
	if r, ok := w.table.FindAXI(c.DevicePin); ok && r.IsInput() != r.IsOutput() {
		return r.IsInput()
	}
	in, out := false, false
	for _, r := range w.table.FindByName(c.DevicePin) {
		in = in || r.IsInput()
		out = out || r.IsOutput()
	}
	return in || !out
}

func (w *Writer) at(p Placement, r *pintable.Record, src Source) (Placement, error) {
	if !r.Loc.Valid() {
		return Placement{}, diag.New(diag.PinLocationNotFound, "%s -> %s: row %d has no location",
			p.DesignPin, p.DevicePin, r.PtRow())
	}
	p.Loc, p.Row, p.Source = r.Loc, r.Row, src
	return p, nil
}

// inferRow picks the row of the device name carrying the -internal_pin.
func (w *Writer) inferRow(c pcf.Command) (*pintable.Record, bool) {
	if c.InternalPin == "" {
		return nil, false
	}
	for _, r := range w.table.FindByName(c.DevicePin) {
		if r.FullchipName == c.InternalPin {
			return r, true
		}
	}
	return nil, false
}

// scan looks for a row of the device name on the right side. Free locations
// are preferred over used ones, and the requested mode over GPIO.
func (w *Writer) scan(c pcf.Command, input bool) (*pintable.Record, bool) {
	col, haveMode := w.table.ModeIndex(c.Mode)
	used := w.usedOutputs
	if input {
		used = w.usedInputs
	}

	var candidates []*pintable.Record
	for _, r := range w.table.FindByName(c.DevicePin) {
		if !r.Loc.Valid() {
			continue
		}
		if (input && !r.IsInput()) || (!input && !r.IsOutput()) {
			continue
		}
		if c.InternalPin != "" && r.FullchipName != c.InternalPin {
			continue
		}
		candidates = append(candidates, r)
	}

	exact := func(r *pintable.Record) bool { return haveMode && r.Modes.Has(col) }
	gpio := func(r *pintable.Record) bool { return r.GpioModes.Any() }

	for _, skipUsed := range []bool{true, false} {
		for _, match := range []func(*pintable.Record) bool{exact, gpio} {
			for _, r := range candidates {
				if skipUsed {
					if _, taken := used[r.Loc]; taken {
						continue
					}
				}
				if match(r) {
					return r, true
				}
			}
		}
	}
	return nil, false
}

func (w *Writer) notFound(c pcf.Command) error {
	err := diag.New(diag.PinLocationNotFound, "line %d: %s -> %s -mode %s", c.Line, c.DesignPin, c.DevicePin, c.Mode)
	w.log.Error("no location for constrained pin", "code", diag.PinLocationNotFound.String(),
		"pin", c.DesignPin, "device", c.DevicePin, "mode", c.Mode)
	if col, ok := w.table.ModeIndex(c.Mode); ok {
		for _, r := range w.table.RowsWithMode(col) {
			w.log.Error("row enabled for mode", "row", r.PtRow(), "record", r.String(),
				"modes", w.table.DescribeModes(r))
		}
	}
	return err
}
