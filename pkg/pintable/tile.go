package pintable

// Tile groups the good rows sharing one physical (location, bump name).
type Tile struct {
	ID       int
	Loc      Location
	BumpName string
	Anchor   *Record

	InputSites  []*Record
	OutputSites []*Record

	UsedCount int
}

// Sites returns the input or output sites of the tile.
func (t *Tile) Sites(input bool) []*Record {
	if input {
		return t.InputSites
	}
	return t.OutputSites
}

func (t *Tile) add(r *Record) {
	switch r.ColDir {
	case DirInput:
		t.InputSites = append(t.InputSites, r)
	case DirOutput:
		t.OutputSites = append(t.OutputSites, r)
	}
}

type tileKey struct {
	loc  Location
	bump string
}

// TileOptions tunes tile grouping.
type TileOptions struct {
	// UniqueXY keys tiles on location alone, ignoring the bump name.
	UniqueXY bool
}

// TileIndex holds the tiles of a table in file order.
type TileIndex struct {
	Tiles []*Tile
	// Dropped counts tiles discarded as duplicates of an earlier identity.
	Dropped int
}

// BuildTileIndex groups the good rows of t into tiles. AXI rows are left
// out; they are only handed out through the fallback queues.
func BuildTileIndex(t *Table, opts TileOptions) *TileIndex {
	idx := &TileIndex{}
	seen := make(map[tileKey]bool)

	var open *Tile
	var openKey tileKey
	flush := func() {
		if open == nil {
			return
		}
		if seen[openKey] {
			idx.Dropped++
		} else {
			seen[openKey] = true
			open.ID = len(idx.Tiles)
			idx.Tiles = append(idx.Tiles, open)
		}
		open = nil
	}

	for _, r := range t.Records {
		if !r.Good() || r.IsAXI() {
			continue
		}
		key := tileKey{loc: r.Loc, bump: r.BumpName}
		if opts.UniqueXY {
			key.bump = ""
		}
		if open == nil || key != openKey {
			flush()
			open = &Tile{Loc: r.Loc, BumpName: r.BumpName, Anchor: r}
			openKey = key
		}
		open.add(r)
	}
	flush()
	return idx
}

// Len returns the number of tiles.
func (x *TileIndex) Len() int { return len(x.Tiles) }

// Tile returns the tile with the given id.
func (x *TileIndex) Tile(id int) (*Tile, bool) {
	if id < 0 || id >= len(x.Tiles) {
		return nil, false
	}
	return x.Tiles[id], true
}

// UnusedTile returns the first tile, in file order, whose use count is below
// budget, that is not excluded, and that has a site for the direction.
func (x *TileIndex) UnusedTile(input bool, excluded map[int]bool, budget int) *Tile {
	for _, t := range x.Tiles {
		if t.UsedCount >= budget || excluded[t.ID] {
			continue
		}
		if len(t.Sites(input)) > 0 {
			return t
		}
	}
	return nil
}

// SiteCount returns the total number of input or output sites.
func (x *TileIndex) SiteCount(input bool) int {
	n := 0
	for _, t := range x.Tiles {
		n += len(t.Sites(input))
	}
	return n
}
