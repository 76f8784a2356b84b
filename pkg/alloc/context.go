// Package alloc assigns design pins to device pins. All mutable state of a
// placement run lives in a Context so runs never share queues or latches.
package alloc

import (
	"regexp"

	"github.com/OpenTraceLab/fpgapin/pkg/pintable"
)

// Hard bounds of the search.
const (
	// MaxIterations bounds the tile search for a single pin.
	MaxIterations = 100
	// MaxOverlap is the ceiling for overlap budget escalation.
	MaxOverlap = 5
)

// Assignment is the result of a successful allocation.
type Assignment struct {
	DesignPin string
	DevicePin string
	Loc       pintable.Location
	Row       int
	Mode      string
	Input     bool
	AXI       bool
	TileID    int
}

// PtRow returns the 1-based spreadsheet row of the assigned record.
func (a Assignment) PtRow() int { return a.Row + 2 }

// Context is the state of one placement run.
type Context struct {
	UsedDevicePins map[string]bool
	UsedLocations  map[pintable.Location]bool
	UsedTileIDs    map[int]bool

	// Direction-specific location use, mapping to the design pin placed there.
	UsedInputLocations  map[pintable.Location]string
	UsedOutputLocations map[pintable.Location]string

	PlacedInputs  []Assignment
	PlacedOutputs []Assignment

	// Collisions counts allocations that landed on a location already used
	// by another pin of the same direction.
	Collisions int

	exhaustedInputs  bool
	exhaustedOutputs bool

	axiInputs  []*pintable.Record
	axiOutputs []*pintable.Record

	inputBudget  int
	outputBudget int
}

// axiSuffix matches the naming convention of AXI fallback pins, with an
// optional bus index: foo_i, foo_o[3].
var axiSuffix = regexp.MustCompile(`_([io])(\[\d+\])?$`)

// NewContext creates run state for t, filling the AXI queues from the
// records reachable only by their internal name. Rows without an enabled
// mode are left out since no constraint could name a mode for them.
func NewContext(t *pintable.Table) *Context {
	c := &Context{
		UsedDevicePins:      make(map[string]bool),
		UsedLocations:       make(map[pintable.Location]bool),
		UsedTileIDs:         make(map[int]bool),
		UsedInputLocations:  make(map[pintable.Location]string),
		UsedOutputLocations: make(map[pintable.Location]string),
		inputBudget:         1,
		outputBudget:        1,
	}
	for _, r := range t.Records {
		if !r.IsAXI() || !r.Modes.Any() {
			continue
		}
		m := axiSuffix.FindStringSubmatch(r.CustomerInternalName)
		if m == nil {
			continue
		}
		if m[1] == "i" {
			c.axiInputs = append(c.axiInputs, r)
		} else {
			c.axiOutputs = append(c.axiOutputs, r)
		}
	}
	return c
}

// Exhausted reports whether ordinary tiles were given up for the direction.
func (c *Context) Exhausted(input bool) bool {
	if input {
		return c.exhaustedInputs
	}
	return c.exhaustedOutputs
}

func (c *Context) setExhausted(input bool) {
	if input {
		c.exhaustedInputs = true
	} else {
		c.exhaustedOutputs = true
	}
}

// AXIQueueLen returns the number of AXI pins still available.
func (c *Context) AXIQueueLen(input bool) int {
	if input {
		return len(c.axiInputs)
	}
	return len(c.axiOutputs)
}

func (c *Context) popAXI(input bool) (*pintable.Record, bool) {
	q := &c.axiOutputs
	if input {
		q = &c.axiInputs
	}
	if len(*q) == 0 {
		return nil, false
	}
	r := (*q)[0]
	*q = (*q)[1:]
	return r, true
}

// Budget returns the current overlap budget for the direction.
func (c *Context) Budget(input bool) int {
	if input {
		return c.inputBudget
	}
	return c.outputBudget
}

// RaiseBudget increments the overlap budget for the direction.
func (c *Context) RaiseBudget(input bool) int {
	if input {
		c.inputBudget++
		return c.inputBudget
	}
	c.outputBudget++
	return c.outputBudget
}

// record commits an assignment. It is the only place that marks a record
// used, so no assignment exists without its record being marked.
func (c *Context) record(r *pintable.Record, a Assignment) {
	r.Used = true
	c.UsedDevicePins[a.DevicePin] = true
	if a.Loc.Valid() {
		c.UsedLocations[a.Loc] = true
		used := c.UsedOutputLocations
		if a.Input {
			used = c.UsedInputLocations
		}
		if _, taken := used[a.Loc]; taken {
			c.Collisions++
		} else {
			used[a.Loc] = a.DesignPin
		}
	}
	if a.Input {
		c.PlacedInputs = append(c.PlacedInputs, a)
	} else {
		c.PlacedOutputs = append(c.PlacedOutputs, a)
	}
}
