package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"github.com/ezrec/retrovm/emulator"
	"github.com/ezrec/retrovm/isa"
)

// stateTable renders the machine registers and console output.
func stateTable(emu *emulator.Emulator, style table.Style) string {
	tw := table.NewWriter()
	tw.SetStyle(style)
	tw.AppendHeader(table.Row{"Name", "Hex", "Decimal"})

	tw.AppendRow(table.Row{"PC", fmt.Sprintf("0x%03x", emu.Pc()), emu.Pc()})
	tw.AppendRow(table.Row{"Line", "", emu.LineNo()})
	tw.AppendRow(table.Row{"Ticks", "", emu.Ticks})
	tw.AppendRow(table.Row{"Halted", "", emu.Halted})
	tw.AppendSeparator()

	for n := range isa.REGISTERS {
		value, _ := emu.Register(n)
		tw.AppendRow(table.Row{fmt.Sprintf("R%d", n), fmt.Sprintf("0x%08x", value), value})
	}

	values := emu.Console.Values()
	if len(values) != 0 {
		printed := make([]string, len(values))
		for n, value := range values {
			printed[n] = fmt.Sprintf("%d", value)
		}
		tw.AppendFooter(table.Row{"Printed", "", strings.Join(printed, " ")})
	}

	return tw.Render()
}

// dumpState writes the state table, with box drawing when w is a terminal.
func dumpState(w io.Writer, emu *emulator.Emulator) {
	style := table.StyleDefault
	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		style = table.StyleLight
	}

	fmt.Fprintln(w, stateTable(emu, style))
}
