package pcf

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/fpgapin/pkg/diag"
	"github.com/alecthomas/participle/v2"
)

// Parser reads pin constraint files.
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser creates a new PCF parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(PCFLexer),
		participle.Elide("Comment", "Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("pcf: failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses constraints from a reader. A final newline is implied.
func (p *Parser) Parse(r io.Reader) ([]Command, error) {
	file, err := p.parser.Parse("", io.MultiReader(r, strings.NewReader("\n")))
	if err != nil {
		return nil, diag.Wrap(diag.PcfParseError, err, "")
	}
	return toCommands(file)
}

// ParseString parses constraints from a string.
func (p *Parser) ParseString(input string) ([]Command, error) {
	return p.Parse(strings.NewReader(input))
}

// ParseFile parses constraints from a file path. A file without any
// constraint is an error.
func (p *Parser) ParseFile(filename string) ([]Command, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, diag.Wrap(diag.PcfNotFound, err, filename)
	}
	defer file.Close()

	cmds, err := p.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("pcf: %s: %w", filename, err)
	}
	if len(cmds) == 0 {
		return nil, diag.New(diag.PcfNotFound, "%s: no constraints", filename)
	}
	return cmds, nil
}

func toCommands(file *File) ([]Command, error) {
	cmds := make([]Command, 0, len(file.Lines))
	for _, ln := range file.Lines {
		cmd := Command{
			Line:      ln.Pos.Line,
			Op:        ln.Op,
			DesignPin: ln.DesignPin,
			DevicePin: ln.DevicePin,
		}
		var haveMode, haveInternal, haveRow bool
		for _, opt := range ln.Options {
			switch {
			case opt.Mode != nil:
				if haveMode {
					return nil, lineError(ln, "duplicate -mode")
				}
				haveMode = true
				cmd.Mode = *opt.Mode
			case opt.InternalPin != nil:
				if haveInternal {
					return nil, lineError(ln, "duplicate -internal_pin")
				}
				haveInternal = true
				cmd.InternalPin = *opt.InternalPin
			case opt.PtRow != nil:
				if haveRow {
					return nil, lineError(ln, "duplicate -pt_row")
				}
				haveRow = true
				row, err := strconv.Atoi(*opt.PtRow)
				if err != nil || row < 2 {
					return nil, lineError(ln, "invalid -pt_row %q", *opt.PtRow)
				}
				cmd.PtRow = row
			}
		}
		if !haveMode {
			return nil, lineError(ln, "missing -mode")
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func lineError(ln *Line, format string, args ...any) error {
	return diag.New(diag.PcfParseError, "line %d: %s %s: %s",
		ln.Pos.Line, ln.Op, ln.DesignPin, fmt.Sprintf(format, args...))
}
