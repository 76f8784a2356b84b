package pintable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/OpenTraceLab/fpgapin/pkg/diag"
	"github.com/pkg/errors"
)

// Required pin-table columns.
const (
	ColGroup        = "Group"
	ColBumpName     = "Bump/Pin Name"
	ColCustomerName = "Customer Name"
	ColBallID       = "Ball ID"
	ColIOTilePin    = "IO_tile_pin"
	ColX            = "IO_tile_pin_x"
	ColY            = "IO_tile_pin_y"
	ColZ            = "IO_tile_pin_z"
	ColTarget       = "EFPGA_PIN"
	ColFullchip     = "Fullchip_NAME"
	ColInternalName = "Customer Internal Name"
)

// RequiredColumns lists the identity and location columns every table must have.
var RequiredColumns = []string{
	ColGroup, ColBumpName, ColCustomerName, ColBallID, ColIOTilePin,
	ColX, ColY, ColZ, ColTarget, ColFullchip, ColInternalName,
}

// ModeColumn describes one electrical mode column.
type ModeColumn struct {
	Index  int
	Header string
	Name   string // normalized, e.g. MODE_MIPI_RX
	Kind   ModeKind
}

// Table is the pin-table record store.
type Table struct {
	Records []*Record
	Header  []string

	modes      []ModeColumn
	modeByCol  map[int]ModeColumn
	modeByName map[string]int

	rxMask, txMask, gpioMask ModeSet
}

func fail(code diag.Code, format string, args ...any) error {
	return diag.Wrap(code, errors.Errorf(format, args...), "")
}

// LoadFile reads and builds a table from a CSV file.
func LoadFile(path string) (*Table, error) {
	s, err := ReadSheetFile(path)
	if err != nil {
		return nil, diag.Wrap(diag.PinTableNotFound, err, path)
	}
	t, err := Build(s)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return t, nil
}

// Build constructs the record store from a sheet.
func Build(s *Sheet) (*Table, error) {
	if s.NumCols() > MaxColumns {
		return nil, fail(diag.PinTableTooManyColumns, "%d columns, limit %d", s.NumCols(), MaxColumns)
	}
	for _, name := range RequiredColumns {
		if _, ok := s.ColumnIndex(name); !ok {
			return nil, fail(diag.PinTableMissingColumn, "column %q", name)
		}
	}
	if s.NumRows() == 0 {
		return nil, fail(diag.PinTableEmpty, "no data rows")
	}

	t := &Table{
		Header:     append([]string(nil), s.Header...),
		modeByCol:  make(map[int]ModeColumn),
		modeByName: make(map[string]int),
	}
	t.classifyColumns()

	xs, err := s.ColumnInt(ColX)
	if err != nil {
		return nil, diag.Wrap(diag.PinTableParseError, err, "")
	}
	ys, err := s.ColumnInt(ColY)
	if err != nil {
		return nil, diag.Wrap(diag.PinTableParseError, err, "")
	}
	zs, err := s.ColumnInt(ColZ)
	if err != nil {
		return nil, diag.Wrap(diag.PinTableParseError, err, "")
	}

	col := func(name string) []string {
		c, _ := s.Column(name)
		return c
	}
	groups, bumps, customers := col(ColGroup), col(ColBumpName), col(ColCustomerName)
	balls, tilePins, targets := col(ColBallID), col(ColIOTilePin), col(ColTarget)
	fullchips, internals := col(ColFullchip), col(ColInternalName)

	rxTxCols := t.rxMask.Count() + t.txMask.Count()

	for i, row := range s.Rows {
		loc := Location{xs[i], ys[i], zs[i]}
		if loc.X > MaxCoord || loc.Y > MaxCoord || loc.Z > MaxCoord {
			return nil, fail(diag.PinTableLocationOutOfRange, "row %d location %s", i+2, loc)
		}
		if !loc.Valid() {
			loc = InvalidLocation
		}

		r := &Record{
			Row:                  i,
			Group:                groups[i],
			BumpName:             bumps[i],
			CustomerName:         customers[i],
			BallID:               balls[i],
			IOTilePin:            tilePins[i],
			CustomerInternalName: internals[i],
			FullchipName:         fullchips[i],
			Target:               targets[i],
			Loc:                  loc,
		}
		for _, m := range t.modes {
			if row[m.Index] == "Y" {
				r.Modes.Set(m.Index)
			}
		}
		r.RxModes = r.Modes.And(t.rxMask)
		r.TxModes = r.Modes.And(t.txMask)
		r.GpioModes = r.Modes.And(t.gpioMask)

		rx, tx := r.RxModes.Count(), r.TxModes.Count()
		r.RowDir = rowDirection(rx, tx, rxTxCols-rx-tx)
		r.ColDir = directionFromTarget(r.Target)

		t.Records = append(t.Records, r)
	}
	return t, nil
}

// classifyColumns records the mode columns. Headers ahead of the first
// mode column never qualify since none of them carries the mode_ prefix.
func (t *Table) classifyColumns() {
	for i, h := range t.Header {
		if !isModeHeader(h) {
			continue
		}
		mc := ModeColumn{Index: i, Header: h, Name: NormalizeModeName(h), Kind: classifyMode(h)}
		t.modes = append(t.modes, mc)
		t.modeByCol[i] = mc
		if _, dup := t.modeByName[mc.Name]; !dup {
			t.modeByName[mc.Name] = i
		}
		switch mc.Kind {
		case ModeRX:
			t.rxMask.Set(i)
		case ModeTX:
			t.txMask.Set(i)
		case ModeGPIO:
			t.gpioMask.Set(i)
		}
	}
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.Records) }

// Record returns the record at a zero-based row index.
func (t *Table) Record(row int) (*Record, bool) {
	if row < 0 || row >= len(t.Records) {
		return nil, false
	}
	return t.Records[row], true
}

// ModeColumns returns the mode columns in header order.
func (t *Table) ModeColumns() []ModeColumn { return t.modes }

// ModeNames returns the sorted normalized mode names.
func (t *Table) ModeNames() []string {
	names := make([]string, 0, len(t.modeByName))
	for n := range t.modeByName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ModeIndex resolves a mode name, in any supported spelling, to its column.
func (t *Table) ModeIndex(name string) (int, bool) {
	i, ok := t.modeByName[NormalizeModeName(name)]
	return i, ok
}

// ModeName returns the normalized name of a mode column.
func (t *Table) ModeName(col int) string {
	if mc, ok := t.modeByCol[col]; ok {
		return mc.Name
	}
	return ""
}

// ModeKindOf returns the kind of a mode column.
func (t *Table) ModeKindOf(col int) ModeKind { return t.modeByCol[col].Kind }

// AXIMode picks the mode written for an AXI fallback on r: its first GPIO
// mode, then its first mode of the requested side, then any enabled mode.
// Rows with no enabled mode have none.
func (t *Table) AXIMode(r *Record, input bool) (string, bool) {
	side := r.TxModes
	if input {
		side = r.RxModes
	}
	for _, set := range []ModeSet{r.GpioModes, side, r.Modes} {
		if i, ok := set.First(); ok {
			return t.ModeName(i), true
		}
	}
	return "", false
}

// HasName reports whether any record matches the device name.
func (t *Table) HasName(name string) bool {
	for _, r := range t.Records {
		if r.Match(name) {
			return true
		}
	}
	return false
}

// FindByName returns every record matching the device name, in row order.
func (t *Table) FindByName(name string) []*Record {
	var out []*Record
	for _, r := range t.Records {
		if r.Match(name) {
			out = append(out, r)
		}
	}
	return out
}

// FindByFullchip returns every record whose fullchip name equals name.
func (t *Table) FindByFullchip(name string) []*Record {
	var out []*Record
	for _, r := range t.Records {
		if r.FullchipName == name {
			out = append(out, r)
		}
	}
	return out
}

// HasFullchip reports whether some record carries the fullchip name.
func (t *Table) HasFullchip(name string) bool {
	for _, r := range t.Records {
		if r.FullchipName == name {
			return true
		}
	}
	return false
}

// FindAXI returns the first AXI-only record with the given internal name.
func (t *Table) FindAXI(name string) (*Record, bool) {
	for _, r := range t.Records {
		if r.IsAXI() && r.CustomerInternalName == name {
			return r, true
		}
	}
	return nil, false
}

// RowsWithMode returns the records that enable the mode column.
func (t *Table) RowsWithMode(col int) []*Record {
	var out []*Record
	for _, r := range t.Records {
		if r.Modes.Has(col) {
			out = append(out, r)
		}
	}
	return out
}

// GoodCount returns how many records have a location and at least one mode.
func (t *Table) GoodCount() int {
	n := 0
	for _, r := range t.Records {
		if r.Good() {
			n++
		}
	}
	return n
}

// DescribeModes renders a record's enabled modes for diagnostics.
func (t *Table) DescribeModes(r *Record) string {
	var names []string
	for _, i := range r.Modes.Indices() {
		names = append(names, t.ModeName(i))
	}
	return fmt.Sprintf("[%s]", strings.Join(names, " "))
}
