package pcf

import "github.com/alecthomas/participle/v2/lexer"

// File is a complete pin constraint file.
type File struct {
	Lines []*Line `( @@ | EOL )*`
}

// Line is one set_io command.
// Example: set_io din GPIO_A_0 -mode MODE_GPIO -pt_row 12
type Line struct {
	Pos       lexer.Position
	Op        string    `@"set_io"`
	DesignPin string    `@Word`
	DevicePin string    `@Word`
	Options   []*Option `@@* EOL`
}

// Option is one dash-prefixed argument of a command.
type Option struct {
	Mode        *string `  "-mode" @Word`
	InternalPin *string `| "-internal_pin" @Word`
	PtRow       *string `| "-pt_row" @Word`
}
