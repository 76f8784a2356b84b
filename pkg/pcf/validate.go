package pcf

import (
	"log/slog"
	"strings"

	"github.com/OpenTraceLab/fpgapin/pkg/diag"
	"github.com/OpenTraceLab/fpgapin/pkg/pintable"
)

// Validate checks every command against the pin table: first that each mode
// names a mode column, then that each internal pin names a fullchip pin.
func Validate(cmds []Command, t *pintable.Table, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	for _, c := range cmds {
		if _, ok := t.ModeIndex(c.Mode); !ok {
			valid := t.ModeNames()
			log.Error("unknown mode in constraint",
				"line", c.Line, "pin", c.DesignPin, "mode", c.Mode, "valid_modes", valid)
			return diag.New(diag.PcfUnknownMode, "line %d: %s (valid modes: %s)",
				c.Line, c.Mode, strings.Join(valid, ", "))
		}
	}
	for _, c := range cmds {
		if c.InternalPin == "" {
			continue
		}
		if !t.HasFullchip(c.InternalPin) {
			log.Error("unknown internal pin in constraint",
				"line", c.Line, "pin", c.DesignPin, "internal_pin", c.InternalPin)
			return diag.New(diag.PcfUnknownInternalPin, "line %d: %s", c.Line, c.InternalPin)
		}
	}
	return nil
}
