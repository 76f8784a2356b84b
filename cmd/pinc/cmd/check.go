package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/fpgapin/pkg/place"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a pin constraint file against a pin table",
	Long: `Parse, translate and validate a pin constraint file, then resolve every
constraint to a location without writing a placement file.

Examples:
  pinc check -t pins.csv --ports design.json -p user.pcf
  pinc check -t pins.csv --ports design.blif -p user.pcf --edits edits.sexp`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addInputFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := runConfig(cmd)
	if cfg.Synthesize() {
		return fmt.Errorf("--pcf is required")
	}
	in, err := loadInputs(cfg)
	if err != nil {
		return err
	}
	cmds, _, err := constraints(cfg, in)
	if err != nil {
		return err
	}

	w := place.NewWriter(in.table, in.ports, place.Options{Logger: logger})
	if err := w.Write(io.Discard, cmds); err != nil {
		return err
	}

	fmt.Printf("%s: %d constraints OK\n", cfg.PCF, len(cmds))
	if verbose {
		for _, p := range w.Placed {
			fmt.Printf("  %-24s %-16s %s via %s\n", p.DesignPin, p.DevicePin, p.Loc, p.Source)
		}
	}
	if w.Collisions > 0 {
		fmt.Printf("Collisions: %d (CRITICAL)\n", w.Collisions)
	}
	return nil
}
