// Package diag holds the stable error-code table shared by every stage of the
// pin placement flow. A code always maps to the same message so logs and
// stderr output can be grepped across runs.
package diag

// Code identifies one class of failure or warning.
type Code int

const (
	OK Code = iota
	PinTableNotFound
	PinTableParseError
	PinTableMissingColumn
	PinTableTooManyColumns
	PinTableLocationOutOfRange
	PinTableEmpty
	PcfNotFound
	PcfParseError
	PcfUnknownMode
	PcfUnknownInternalPin
	PortInfoError
	NetlistEditsError
	ConstrainedPortNotFound
	ConstrainedPinNotFound
	PinLocationNotFound
	TooManyInputs
	TooManyOutputs
	OutputFileError
	PlacementCollision
)

var names = map[Code]string{
	OK:                         "OK",
	PinTableNotFound:           "PIN_TABLE_NOT_FOUND",
	PinTableParseError:         "PIN_TABLE_PARSE_ERROR",
	PinTableMissingColumn:      "PIN_TABLE_MISSING_COLUMN",
	PinTableTooManyColumns:     "PIN_TABLE_TOO_MANY_COLUMNS",
	PinTableLocationOutOfRange: "PIN_TABLE_LOCATION_OUT_OF_RANGE",
	PinTableEmpty:              "PIN_TABLE_EMPTY",
	PcfNotFound:                "PCF_NOT_FOUND",
	PcfParseError:              "PCF_PARSE_ERROR",
	PcfUnknownMode:             "PCF_UNKNOWN_MODE",
	PcfUnknownInternalPin:      "PCF_UNKNOWN_INTERNAL_PIN",
	PortInfoError:              "PORT_INFO_ERROR",
	NetlistEditsError:          "NETLIST_EDITS_ERROR",
	ConstrainedPortNotFound:    "CONSTRAINED_PORT_NOT_FOUND",
	ConstrainedPinNotFound:     "CONSTRAINED_PIN_NOT_FOUND",
	PinLocationNotFound:        "PIN_LOCATION_NOT_FOUND",
	TooManyInputs:              "TOO_MANY_INPUTS",
	TooManyOutputs:             "TOO_MANY_OUTPUTS",
	OutputFileError:            "OUTPUT_FILE_ERROR",
	PlacementCollision:         "PLACEMENT_COLLISION",
}

var messages = map[Code]string{
	OK:                         "no error",
	PinTableNotFound:           "pin table file is missing or unreadable",
	PinTableParseError:         "pin table could not be parsed",
	PinTableMissingColumn:      "pin table is missing a required column",
	PinTableTooManyColumns:     "pin table has more columns than the mode bitset can hold",
	PinTableLocationOutOfRange: "pin table location is out of the device grid bounds",
	PinTableEmpty:              "pin table has no data rows",
	PcfNotFound:                "pin constraint file is missing, unreadable or empty",
	PcfParseError:              "pin constraint file is malformed",
	PcfUnknownMode:             "pin constraint names a mode that is not in the pin table",
	PcfUnknownInternalPin:      "pin constraint names an internal pin that is not in the pin table",
	PortInfoError:              "design port information could not be read",
	NetlistEditsError:          "netlist edit file could not be read",
	ConstrainedPortNotFound:    "constrained port is not a design input or output",
	ConstrainedPinNotFound:     "constrained device pin is not in the pin table",
	PinLocationNotFound:        "no pin table location matches the constraint",
	TooManyInputs:              "not enough input-capable device pins for the design inputs",
	TooManyOutputs:             "not enough output-capable device pins for the design outputs",
	OutputFileError:            "output file could not be written",
	PlacementCollision:         "two placed pins of the same direction share a location",
}

// String returns the symbolic name, e.g. TOO_MANY_INPUTS.
func (c Code) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return "UNKNOWN"
}

// Message returns the human-readable text for the code.
func (c Code) Message() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return "unknown error"
}
