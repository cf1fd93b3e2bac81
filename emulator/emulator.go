// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/retrovm/asm"
	"github.com/ezrec/retrovm/internal"
	retroio "github.com/ezrec/retrovm/io"
	"github.com/ezrec/retrovm/isa"
	"github.com/ezrec/retrovm/vm"
)

var _emulator_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%v", vm.MEMORY_SIZE),
	"REGISTERS":   fmt.Sprintf("%v", isa.REGISTERS),
	"ISA_VERSION": fmt.Sprintf("%v", isa.Version),
}

// Emulator state. Machine + program listing + devices.
type Emulator struct {
	Verbose     bool         // If set, enables verbose logging.
	*vm.Machine              // Reference to the machine simulation.
	Program     *asm.Program // Reference to the currently running program listing.

	Console retroio.Console // PRINT output device.
	Display retroio.Display // Framebuffer renderer.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Machine: vm.NewMachine(),
		Program: &asm.Program{},
	}

	emu.Machine.Console = &emu.Console

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Console.Defines(),
		emu.Display.Defines(),
	)
}

// Assemble parses source into the emulator's program listing.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	assembler := &asm.Assembler{Verbose: emu.Verbose}
	prog, err := assembler.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// AssembleString parses source text into the emulator's program listing.
func (emu *Emulator) AssembleString(source string) (err error) {
	return emu.Assemble(strings.NewReader(source))
}

// Reset clears memory, loads the program at offset 0, and resets the
// machine and devices.
func (emu *Emulator) Reset() (err error) {
	emu.Machine.Verbose = false

	code := emu.Program.Binary()
	if len(code) > vm.FRAMEBUFFER_BASE {
		err = ErrProgramSize
		return
	}

	emu.Machine.Clear()
	err = emu.Machine.Load(code, 0)
	if err != nil {
		return
	}

	emu.Machine.Reset()
	emu.Console.Rewind()
	emu.Display.Rewind()

	emu.Machine.Verbose = emu.Verbose

	if emu.Verbose {
		log.Printf("emulator: loaded %d bytes", len(code))
	}

	return
}

// Opcode returns the listing entry of the current instruction, or nil.
func (emu *Emulator) Opcode() *asm.Opcode {
	return emu.Program.Debug(emu.Machine.Pc()).Opcode
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	op := emu.Opcode()
	if op == nil {
		return 0
	}

	return op.LineNo
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set machine verbosity
	emu.Machine.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Machine.Step()
	if errors.Is(err, vm.ErrHalted) {
		err = nil
		done = true
		return
	}
	if err != nil {
		return
	}

	done = emu.Machine.Halted
	return
}

// Run ticks the emulator until the program halts or faults.
func (emu *Emulator) Run() (err error) {
	for steps := 0; ; steps++ {
		if emu.MaxSteps > 0 && steps >= emu.MaxSteps {
			err = &ErrRuntime{LineNo: emu.LineNo(), Err: vm.ErrStepLimit}
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}

// Snapshot writes the framebuffer as a PNG image.
func (emu *Emulator) Snapshot(w io.Writer) (err error) {
	return emu.Display.WritePNG(w, emu.Machine.Framebuffer())
}
