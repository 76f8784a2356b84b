package pcf

import (
	"fmt"
	"io"
)

// Writer emits constraint lines.
type Writer struct {
	w         io.Writer
	emitPtRow bool
	count     int
}

// NewWriter returns a writer; emitPtRow controls whether -pt_row is written.
func NewWriter(w io.Writer, emitPtRow bool) *Writer {
	return &Writer{w: w, emitPtRow: emitPtRow}
}

// Comment writes a # comment line.
func (w *Writer) Comment(text string) error {
	_, err := fmt.Fprintf(w.w, "# %s\n", text)
	return err
}

// Write writes one command.
func (w *Writer) Write(c Command) error {
	if _, err := fmt.Fprintln(w.w, c.Format(w.emitPtRow)); err != nil {
		return fmt.Errorf("pcf: write %s: %w", c.DesignPin, err)
	}
	w.count++
	return nil
}

// Count returns the number of commands written.
func (w *Writer) Count() int { return w.count }
