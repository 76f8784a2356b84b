package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"

	"github.com/OpenTraceLab/fpgapin/internal/config"
	"github.com/OpenTraceLab/fpgapin/pkg/diag"
)

var (
	// Global flags
	verbose    bool
	logFile    string
	configFile string

	// Settings from --config, before flags are applied
	fileCfg *config.Config

	// Flag targets shared by the commands
	flagCfg = config.Default()

	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "pinc",
	Short: "FPGA device-pin placement",
	Long: `Assigns the top-level ports of a synthesized design to device pins
described by a vendor pin table, and writes the placement file consumed by
the router.

Examples:
  pinc place -t pins.csv --ports design.json -o design.place     # Synthesize constraints
  pinc place -t pins.csv --ports design.json -p user.pcf -o out  # Use user constraints
  pinc check -t pins.csv --ports design.blif -p user.pcf         # Validate constraints only
  pinc info pins.csv                                             # Summarize a pin table`,
	Version:           "0.3.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if code := diag.CodeOf(err); code != diag.OK {
			logger.Error("fatal", "code", code.String(), "err", err)
		}
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML run configuration")
}

func setup(cmd *cobra.Command, args []string) error {
	fileCfg = nil
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return err
		}
		fileCfg = c
	}

	sink := logFile
	if sink == "" && fileCfg != nil {
		sink = fileCfg.LogFile
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	if sink != "" {
		f, err := os.Create(sink)
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		atexit.Register(func() { f.Close() })
		h = teeHandler{h, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})}
	}
	logger = slog.New(h)
	slog.SetDefault(logger)
	return nil
}

// runConfig merges the --config file with the flags that were set on cmd.
func runConfig(cmd *cobra.Command) *config.Config {
	if fileCfg == nil {
		c := *flagCfg
		return &c
	}
	c := *fileCfg
	overrides := map[string]func(){
		"pins":             func() { c.PinTable = flagCfg.PinTable },
		"pcf":              func() { c.PCF = flagCfg.PCF },
		"ports":            func() { c.PortInfo = flagCfg.PortInfo },
		"edits":            func() { c.Edits = flagCfg.Edits },
		"output":           func() { c.Output = flagCfg.Output },
		"write-pcf":        func() { c.WritePCF = flagCfg.WritePCF },
		"stats-json":       func() { c.StatsJSON = flagCfg.StatsJSON },
		"definition-order": func() { c.DefinitionOrder = flagCfg.DefinitionOrder },
		"seed":             func() { c.Seed = flagCfg.Seed },
		"emit-pt-row":      func() { c.EmitPtRow = flagCfg.EmitPtRow },
		"max-overlap":      func() { c.MaxOverlap = flagCfg.MaxOverlap },
		"max-iterations":   func() { c.MaxIterations = flagCfg.MaxIterations },
		"unique-xy":        func() { c.UniqueXY = flagCfg.UniqueXY },
		"debug":            func() { c.Debug = flagCfg.Debug },
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply()
		}
	})
	return &c
}

// addInputFlags registers the flags naming the run's input files.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagCfg.PinTable, "pins", "t", "", "pin table CSV")
	cmd.Flags().StringVarP(&flagCfg.PCF, "pcf", "p", "", "pin constraint file")
	cmd.Flags().StringVar(&flagCfg.PortInfo, "ports", "", "design ports (JSON port info or BLIF)")
	cmd.Flags().StringVar(&flagCfg.Edits, "edits", "", "netlist edit file")
}
