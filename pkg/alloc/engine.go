package alloc

import (
	"log/slog"

	"github.com/OpenTraceLab/fpgapin/pkg/diag"
	"github.com/OpenTraceLab/fpgapin/pkg/pintable"
)

// TilePicker chooses the next tile to try for a pin.
type TilePicker interface {
	Pick(tiles *pintable.TileIndex, input bool, excluded map[int]bool, budget int) *pintable.Tile
}

// FirstFit picks the first eligible tile in file order.
type FirstFit struct{}

func (FirstFit) Pick(tiles *pintable.TileIndex, input bool, excluded map[int]bool, budget int) *pintable.Tile {
	return tiles.UnusedTile(input, excluded, budget)
}

// Options tunes an Engine. Zero values select the defaults.
type Options struct {
	MaxIterations int
	Picker        TilePicker
	Logger        *slog.Logger
}

// Engine allocates device pins for one placement run.
type Engine struct {
	table   *pintable.Table
	tiles   *pintable.TileIndex
	ctx     *Context
	picker  TilePicker
	maxIter int
	log     *slog.Logger

	// LastIterations is the number of tiles tried by the latest BumpPin call.
	LastIterations int
}

// NewEngine returns an engine over t and its tiles, recording into ctx.
func NewEngine(t *pintable.Table, tiles *pintable.TileIndex, ctx *Context, opts Options) *Engine {
	e := &Engine{
		table:   t,
		tiles:   tiles,
		ctx:     ctx,
		picker:  opts.Picker,
		maxIter: opts.MaxIterations,
		log:     opts.Logger,
	}
	if e.picker == nil {
		e.picker = FirstFit{}
	}
	if e.maxIter <= 0 {
		e.maxIter = MaxIterations
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e
}

// Context returns the run state the engine records into.
func (e *Engine) Context() *Context { return e.ctx }

// Site is a chosen record together with the mode column to use on it.
type Site struct {
	Record  *pintable.Record
	ModeCol int
}

func exhaustedCode(input bool) diag.Code {
	if input {
		return diag.TooManyInputs
	}
	return diag.TooManyOutputs
}

// DevicePin finds a device pin for designPin. Once ordinary tiles fail for
// a direction and AXI pins remain, the direction latches onto the AXI queue
// for the rest of the run.
func (e *Engine) DevicePin(input bool, designPin string) (Assignment, error) {
	if e.ctx.Exhausted(input) {
		return e.axiPin(input, designPin)
	}
	a, err := e.BumpPin(input, designPin)
	if err == nil {
		return a, nil
	}
	if e.ctx.AXIQueueLen(input) > 0 {
		e.ctx.setExhausted(input)
		e.log.Info("device pins exhausted, using AXI pins",
			"input", input, "remaining_axi", e.ctx.AXIQueueLen(input))
		return e.axiPin(input, designPin)
	}
	return Assignment{}, err
}

func (e *Engine) axiPin(input bool, designPin string) (Assignment, error) {
	r, ok := e.ctx.popAXI(input)
	if !ok {
		return Assignment{}, diag.New(exhaustedCode(input), "%s: AXI pins exhausted", designPin)
	}
	mode, _ := e.table.AXIMode(r, input)
	a := Assignment{
		DesignPin: designPin,
		DevicePin: r.CustomerInternalName,
		Loc:       r.Loc,
		Row:       r.Row,
		Mode:      mode,
		Input:     input,
		AXI:       true,
		TileID:    -1,
	}
	e.ctx.record(r, a)
	e.log.Debug("allocated AXI pin", "pin", designPin, "device", a.DevicePin, "row", a.PtRow())
	return a, nil
}

// BumpPin searches the tiles for a free site. Every tile that yields no site
// is excluded for the rest of this search, so the loop visits each tile at
// most once and stops after MaxIterations tiles.
func (e *Engine) BumpPin(input bool, designPin string) (Assignment, error) {
	budget := e.ctx.Budget(input)
	excluded := make(map[int]bool)
	e.LastIterations = 0

	for e.LastIterations < e.maxIter {
		tile := e.picker.Pick(e.tiles, input, excluded, budget)
		if tile == nil {
			break
		}
		e.LastIterations++

		site, ok := e.bestSite(tile, input)
		if !ok {
			excluded[tile.ID] = true
			continue
		}

		r := site.Record
		tile.UsedCount++
		e.ctx.UsedTileIDs[tile.ID] = true
		a := Assignment{
			DesignPin: designPin,
			DevicePin: r.DeviceName(),
			Loc:       r.Loc,
			Row:       r.Row,
			Mode:      e.table.ModeName(site.ModeCol),
			Input:     input,
			TileID:    tile.ID,
		}
		e.ctx.record(r, a)
		e.log.Debug("allocated device pin", "pin", designPin, "device", a.DevicePin,
			"mode", a.Mode, "loc", a.Loc.String(), "row", a.PtRow(), "tile", tile.ID)
		return a, nil
	}

	return Assignment{}, diag.New(exhaustedCode(input), "%s: no free site at overlap budget %d after %d tiles",
		designPin, budget, e.LastIterations)
}

// bestSite picks a site on the tile: a site dedicated to the requested kind,
// then any site with that kind, then any GPIO site.
func (e *Engine) bestSite(tile *pintable.Tile, input bool) (Site, bool) {
	sites := tile.Sites(input)
	want := func(r *pintable.Record) pintable.ModeSet {
		if input {
			return r.RxModes
		}
		return r.TxModes
	}
	opposite := func(r *pintable.Record) pintable.ModeSet {
		if input {
			return r.TxModes
		}
		return r.RxModes
	}

	for _, r := range sites {
		if !r.Used && want(r).Any() && !opposite(r).Any() {
			col, _ := want(r).First()
			return Site{Record: r, ModeCol: col}, true
		}
	}
	for _, r := range sites {
		if !r.Used && want(r).Any() {
			col, _ := want(r).First()
			return Site{Record: r, ModeCol: col}, true
		}
	}
	for _, r := range sites {
		if !r.Used && r.GpioModes.Any() {
			col, _ := r.GpioModes.First()
			return Site{Record: r, ModeCol: col}, true
		}
	}
	return Site{}, false
}
