package io

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
)

// Console records PRINT values and writes them, one decimal value per
// line, to Output.
type Console struct {
	Output io.Writer

	values []uint32
}

var _ Device = (*Console)(nil)

// Defines returns an iter of defines for the device.
func (con *Console) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{})
}

// Rewind discards the recorded values.
func (con *Console) Rewind() {
	con.values = con.values[:0]
}

// Values returns the values printed since the last rewind.
func (con *Console) Values() []uint32 {
	return slices.Clone(con.values)
}

// Print records a value and writes it to the output stream.
func (con *Console) Print(value uint32) (err error) {
	con.values = append(con.values, value)

	if con.Output == nil {
		return
	}

	_, err = fmt.Fprintf(con.Output, "%d\n", value)
	return
}
