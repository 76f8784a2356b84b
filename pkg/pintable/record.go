package pintable

import (
	"fmt"
	"strings"
)

// MaxCoord bounds every valid location coordinate.
const MaxCoord = 10000

// Location is a physical site on the device grid.
type Location struct {
	X, Y, Z int
}

// InvalidLocation is the sentinel for rows without a placeable site.
var InvalidLocation = Location{-1, -1, -1}

// Valid reports whether no coordinate is negative.
func (l Location) Valid() bool { return l.X >= 0 && l.Y >= 0 && l.Z >= 0 }

func (l Location) String() string { return fmt.Sprintf("(%d,%d,%d)", l.X, l.Y, l.Z) }

// Direction is the routing direction of a device pin relative to the fabric.
type Direction int

const (
	DirNone Direction = iota
	DirInput
	DirOutput
)

func (d Direction) String() string {
	switch d {
	case DirInput:
		return "input"
	case DirOutput:
		return "output"
	default:
		return "none"
	}
}

// RowDirection summarizes which RX/TX modes a row enables.
type RowDirection int

const (
	RowNone RowDirection = iota
	RowInput
	RowOutput
	RowHasBoth
	RowAllEnabled
)

func (d RowDirection) String() string {
	switch d {
	case RowInput:
		return "input"
	case RowOutput:
		return "output"
	case RowHasBoth:
		return "has_both"
	case RowAllEnabled:
		return "all_enabled"
	default:
		return "none"
	}
}

// Record is one pin-table row plus its derived classification. Row is the
// zero-based data row index and stays fixed for the lifetime of the Table.
type Record struct {
	Row int

	Group                string
	BumpName             string
	CustomerName         string
	BallID               string
	IOTilePin            string
	CustomerInternalName string
	FullchipName         string
	Target               string

	Loc Location

	Modes     ModeSet
	RxModes   ModeSet
	TxModes   ModeSet
	GpioModes ModeSet

	ColDir Direction
	RowDir RowDirection

	Used bool
}

// Match reports whether any of the record's identifiers equals name.
func (r *Record) Match(name string) bool {
	if name == "" {
		return false
	}
	return r.BumpName == name || r.CustomerName == name ||
		r.BallID == name || r.CustomerInternalName == name
}

// IsInput reports whether the device can receive on this row.
func (r *Record) IsInput() bool {
	return r.ColDir == DirInput || (r.ColDir == DirNone && r.RowDir == RowInput)
}

// IsOutput reports whether the device can drive on this row.
func (r *Record) IsOutput() bool {
	return r.ColDir == DirOutput || (r.ColDir == DirNone && r.RowDir == RowOutput)
}

// Good rows have a placeable location and at least one enabled mode.
func (r *Record) Good() bool { return r.Loc.Valid() && r.Modes.Any() }

// IsAXI reports whether the customer-internal name is the row's only identity.
func (r *Record) IsAXI() bool {
	return r.CustomerInternalName != "" && r.BumpName == "" &&
		r.CustomerName == "" && r.BallID == ""
}

// DeviceName is the name written into generated constraints.
func (r *Record) DeviceName() string {
	switch {
	case r.CustomerName != "":
		return r.CustomerName
	case r.BumpName != "":
		return r.BumpName
	default:
		return r.CustomerInternalName
	}
}

// PtRow is the 1-based spreadsheet row of the record, counting the header.
func (r *Record) PtRow() int { return r.Row + 2 }

func (r *Record) String() string {
	return fmt.Sprintf("row %d %s %s %s", r.PtRow(), r.DeviceName(), r.Loc, r.ColDir)
}

func directionFromTarget(target string) Direction {
	t := strings.ToUpper(strings.TrimSpace(target))
	switch {
	case strings.HasPrefix(t, "A2F"):
		return DirInput
	case strings.HasPrefix(t, "F2A"):
		return DirOutput
	default:
		return DirNone
	}
}

// rowDirection classifies a row from its enabled RX and TX columns. blanks
// is the number of RX/TX columns left disabled on the row.
func rowDirection(rx, tx, blanks int) RowDirection {
	switch {
	case rx == 0 && tx == 0:
		return RowNone
	case tx == 0:
		return RowInput
	case rx == 0:
		return RowOutput
	case blanks > 0:
		return RowHasBoth
	default:
		return RowAllEnabled
	}
}
