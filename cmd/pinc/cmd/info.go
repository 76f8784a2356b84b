package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/fpgapin/pkg/alloc"
	"github.com/OpenTraceLab/fpgapin/pkg/pintable"
)

var (
	outputJSON bool
	infoUnique bool
)

// TableInfo is the structured summary of a pin table.
type TableInfo struct {
	Rows        int        `json:"rows"`
	GoodRows    int        `json:"good_rows"`
	Tiles       int        `json:"tiles"`
	Dropped     int        `json:"dropped_tiles,omitempty"`
	InputSites  int        `json:"input_sites"`
	OutputSites int        `json:"output_sites"`
	AXIInputs   int        `json:"axi_inputs"`
	AXIOutputs  int        `json:"axi_outputs"`
	Modes       []ModeInfo `json:"modes"`
}

// ModeInfo describes one mode column.
type ModeInfo struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Column int    `json:"column"`
	Rows   int    `json:"rows"`
}

var infoCmd = &cobra.Command{
	Use:   "info <pin-table>",
	Short: "Summarize a pin table",
	Long: `Load a pin table and report its rows, tiles, sites, AXI fallback pins
and mode columns.

Examples:
  pinc info pins.csv
  pinc info --json pins.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&outputJSON, "json", false,
		"output as JSON (for programmatic access)")
	infoCmd.Flags().BoolVar(&infoUnique, "unique-xy", false,
		"group tiles by location only")
}

func runInfo(cmd *cobra.Command, args []string) error {
	t, err := pintable.LoadFile(args[0])
	if err != nil {
		return err
	}
	info := buildTableInfo(t, pintable.TileOptions{UniqueXY: infoUnique})

	if outputJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Pin table: %s\n", args[0])
	fmt.Printf("  Rows:         %d (%d good)\n", info.Rows, info.GoodRows)
	fmt.Printf("  Tiles:        %d", info.Tiles)
	if info.Dropped > 0 {
		fmt.Printf(" (%d duplicates dropped)", info.Dropped)
	}
	fmt.Println()
	fmt.Printf("  Input sites:  %d\n", info.InputSites)
	fmt.Printf("  Output sites: %d\n", info.OutputSites)
	fmt.Printf("  AXI pins:     %d in, %d out\n", info.AXIInputs, info.AXIOutputs)
	fmt.Printf("\nMode columns (%d):\n", len(info.Modes))
	for _, m := range info.Modes {
		fmt.Printf("  %-24s %-5s %4d rows\n", m.Name, m.Kind, m.Rows)
	}
	return nil
}

func buildTableInfo(t *pintable.Table, opts pintable.TileOptions) *TableInfo {
	tiles := pintable.BuildTileIndex(t, opts)
	ctx := alloc.NewContext(t)
	info := &TableInfo{
		Rows:        t.Len(),
		GoodRows:    t.GoodCount(),
		Tiles:       tiles.Len(),
		Dropped:     tiles.Dropped,
		InputSites:  tiles.SiteCount(true),
		OutputSites: tiles.SiteCount(false),
		AXIInputs:   ctx.AXIQueueLen(true),
		AXIOutputs:  ctx.AXIQueueLen(false),
	}
	for _, mc := range t.ModeColumns() {
		info.Modes = append(info.Modes, ModeInfo{
			Name:   mc.Name,
			Kind:   mc.Kind.String(),
			Column: mc.Index,
			Rows:   len(t.RowsWithMode(mc.Index)),
		})
	}
	return info
}
