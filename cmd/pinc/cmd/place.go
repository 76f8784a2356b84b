package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/fpgapin/internal/config"
	"github.com/OpenTraceLab/fpgapin/pkg/alloc"
	"github.com/OpenTraceLab/fpgapin/pkg/diag"
	"github.com/OpenTraceLab/fpgapin/pkg/netedit"
	"github.com/OpenTraceLab/fpgapin/pkg/pcf"
	"github.com/OpenTraceLab/fpgapin/pkg/pintable"
	"github.com/OpenTraceLab/fpgapin/pkg/place"
	"github.com/OpenTraceLab/fpgapin/pkg/portinfo"
)

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Place design ports on device pins",
	Long: `Load the pin table and the design ports, take the user constraints or
synthesize them when none are given, and write the placement file.

Examples:
  # Synthesize constraints in port order and keep a copy of them
  pinc place -t pins.csv --ports design.json --definition-order --write-pcf gen.pcf -o design.place

  # Place user constraints after netlist edits renamed some ports
  pinc place -t pins.csv --ports design.blif -p user.pcf --edits edits.sexp -o design.place`,
	Args: cobra.NoArgs,
	RunE: runPlace,
}

func init() {
	rootCmd.AddCommand(placeCmd)

	addInputFlags(placeCmd)
	placeCmd.Flags().StringVarP(&flagCfg.Output, "output", "o", "", "placement file to write")
	placeCmd.Flags().StringVar(&flagCfg.WritePCF, "write-pcf", "", "write synthesized constraints to this file")
	placeCmd.Flags().StringVar(&flagCfg.StatsJSON, "stats-json", "", "write placement statistics as JSON")

	placeCmd.Flags().BoolVar(&flagCfg.DefinitionOrder, "definition-order", false,
		"synthesize in port definition order instead of shuffling")
	placeCmd.Flags().Uint64Var(&flagCfg.Seed, "seed", 0, "shuffle seed")
	placeCmd.Flags().BoolVar(&flagCfg.EmitPtRow, "emit-pt-row", false, "write -pt_row on synthesized lines")
	placeCmd.Flags().IntVar(&flagCfg.MaxOverlap, "max-overlap", alloc.MaxOverlap, "overlap budget ceiling")
	placeCmd.Flags().IntVar(&flagCfg.MaxIterations, "max-iterations", alloc.MaxIterations, "tiles tried per pin")
	placeCmd.Flags().BoolVar(&flagCfg.UniqueXY, "unique-xy", false, "group tiles by location only")
	placeCmd.Flags().BoolVar(&flagCfg.Debug, "debug", false, "annotate placement lines")
}

// inputs is what every command loads before it can look at constraints.
type inputs struct {
	table *pintable.Table
	ports *portinfo.Ports
	edits *netedit.Chain
}

func loadInputs(cfg *config.Config) (*inputs, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	in := &inputs{}
	var err error
	if in.table, err = pintable.LoadFile(cfg.PinTable); err != nil {
		return nil, err
	}
	logger.Debug("pin table loaded", "path", cfg.PinTable, "rows", in.table.Len(),
		"good", in.table.GoodCount(), "modes", len(in.table.ModeColumns()))

	if in.ports, err = portinfo.LoadFile(cfg.PortInfo); err != nil {
		return nil, err
	}
	logger.Debug("design ports loaded", "inputs", len(in.ports.Inputs), "outputs", len(in.ports.Outputs))

	if cfg.Edits != "" {
		if in.edits, err = netedit.LoadFile(cfg.Edits); err != nil {
			return nil, err
		}
		logger.Debug("netlist edits loaded", "buffers", in.edits.Len())
	}
	return in, nil
}

// constraints returns the validated commands in effect: the user PCF, or
// one synthesized from the pin table.
func constraints(cfg *config.Config, in *inputs) ([]pcf.Command, *alloc.SynthResult, error) {
	parser, err := pcf.NewParser()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create parser: %w", err)
	}

	var cmds []pcf.Command
	var synth *alloc.SynthResult
	if cfg.Synthesize() {
		if synth, cmds, err = synthesize(cfg, in, parser); err != nil {
			return nil, nil, err
		}
	} else if cmds, err = parser.ParseFile(cfg.PCF); err != nil {
		return nil, nil, err
	}

	if in.edits != nil {
		var st pcf.TranslateStats
		cmds, st = pcf.Translate(cmds, in.edits, in.ports, logger)
		logger.Info("constraints translated", "renamed", st.Renamed, "cancelled", st.Cancelled)
	}
	if err := pcf.Validate(cmds, in.table, logger); err != nil {
		return nil, nil, err
	}
	return cmds, synth, nil
}

func synthesize(cfg *config.Config, in *inputs, parser *pcf.Parser) (*alloc.SynthResult, []pcf.Command, error) {
	tiles := pintable.BuildTileIndex(in.table, pintable.TileOptions{UniqueXY: cfg.UniqueXY})
	if tiles.Dropped > 0 {
		logger.Warn("duplicate tiles dropped", "count", tiles.Dropped)
	}
	engine := alloc.NewEngine(in.table, tiles, alloc.NewContext(in.table), alloc.Options{
		MaxIterations: cfg.MaxIterations,
		Logger:        logger,
	})
	s := alloc.NewSynthesizer(engine, alloc.SynthOptions{
		DefinitionOrder: cfg.DefinitionOrder,
		Seed:            cfg.Seed,
		EmitPtRow:       cfg.EmitPtRow,
		MaxOverlap:      cfg.MaxOverlap,
		Logger:          logger,
	})

	// The placement consumes the text form so it sees exactly what a user
	// would get from --write-pcf.
	var buf bytes.Buffer
	writers := []io.Writer{&buf}
	if cfg.WritePCF != "" {
		f, err := os.Create(cfg.WritePCF)
		if err != nil {
			return nil, nil, diag.Wrap(diag.OutputFileError, err, cfg.WritePCF)
		}
		defer f.Close()
		writers = append(writers, f)
	}
	res, err := s.Run(in.ports.Inputs, in.ports.Outputs, writers...)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("constraints synthesized", "lines", len(res.Commands), "warnings", res.Warnings,
		"skipped", len(res.Skipped), "axi", res.AXIUsed)

	cmds, err := parser.Parse(&buf)
	if err != nil {
		return nil, nil, err
	}
	return res, cmds, nil
}

func runPlace(cmd *cobra.Command, args []string) error {
	cfg := runConfig(cmd)
	if cfg.Output == "" {
		return fmt.Errorf("--output is required")
	}
	in, err := loadInputs(cfg)
	if err != nil {
		return err
	}
	cmds, synth, err := constraints(cfg, in)
	if err != nil {
		return err
	}

	w := place.NewWriter(in.table, in.ports, place.Options{Debug: cfg.Debug, Logger: logger})
	if err := w.WriteFile(cfg.Output, cmds); err != nil {
		return err
	}

	stats := w.Stats(in.ports.Inputs, in.ports.Outputs)
	fmt.Printf("Placement written to %s\n\n", cfg.Output)
	stats.Print(os.Stdout)
	if synth != nil && synth.Warnings > 0 {
		fmt.Printf("\nSynthesis warnings: %d\n", synth.Warnings)
		for _, code := range []diag.Code{diag.TooManyInputs, diag.TooManyOutputs} {
			if n := synth.Failures[code]; n > 0 {
				fmt.Printf("  %s: %d\n", code, n)
			}
		}
	}

	if cfg.StatsJSON != "" {
		data, err := stats.ExportJSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(cfg.StatsJSON, data, 0o644); err != nil {
			return diag.Wrap(diag.OutputFileError, err, cfg.StatsJSON)
		}
	}
	return nil
}
