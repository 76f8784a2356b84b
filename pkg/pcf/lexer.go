package pcf

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// PCFLexer splits constraint files into words. Line ends are significant
// since every command occupies exactly one line.
var PCFLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "EOL", Pattern: `\r?\n`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Word", Pattern: `[^\s#]+`},
})
