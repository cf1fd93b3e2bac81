// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package script drives a RetroVM emulator from Starlark.
//
// Every emulator define is a predeclared global; integer defines are
// Starlark ints, anything else is a string. The builtins are:
//
//	assemble(source)   assemble source into the emulator program
//	reset()            load the program and reset the machine
//	step()             execute one instruction, True once halted
//	run(max_steps=0)   run until halted, bounded when max_steps > 0
//	pc()               program counter
//	reg(n)             register n
//	peek(addr)         memory byte at addr
//	pixel(x, y)        framebuffer palette index at x, y
//	line()             source line of the current instruction
//	printed()          list of values PRINTed since reset
//
// Starlark print() writes to the driver output.
package script

import (
	"fmt"
	"io"
	"log"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/retrovm/emulator"
	"github.com/ezrec/retrovm/vm"
)

// Driver runs Starlark scripts against an emulator.
type Driver struct {
	Verbose  bool               // If set, logs every builtin call.
	Emulator *emulator.Emulator // Emulator under control.
	Output   io.Writer          // Destination of print(), discarded when nil.
}

// NewDriver creates a driver for emu.
func NewDriver(emu *emulator.Emulator, output io.Writer) (drv *Driver) {
	drv = &Driver{
		Emulator: emu,
		Output:   output,
	}
	return
}

// Exec executes a script, returning its global variables.
func (drv *Driver) Exec(filename string, src any) (globals starlark.StringDict, err error) {
	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			if drv.Output != nil {
				fmt.Fprintln(drv.Output, msg)
			}
		},
	}

	opts := syntax.FileOptions{
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
	}

	globals, err = starlark.ExecFileOptions(&opts, thread, filename, src, drv.Predeclared())
	return
}

// Predeclared returns the globals and builtins visible to scripts.
func (drv *Driver) Predeclared() (pred starlark.StringDict) {
	pred = starlark.StringDict{}

	for key, str := range drv.Emulator.Defines() {
		value, err := strconv.ParseInt(str, 0, 64)
		if err != nil {
			pred[key] = starlark.String(str)
		} else {
			pred[key] = starlark.MakeInt64(value)
		}
	}

	builtins := map[string]func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error){
		"assemble": drv.assemble,
		"reset":    drv.reset,
		"step":     drv.step,
		"run":      drv.run,
		"pc":       drv.pc,
		"reg":      drv.reg,
		"peek":     drv.peek,
		"pixel":    drv.pixel,
		"line":     drv.line,
		"printed":  drv.printed,
	}
	for name, fn := range builtins {
		pred[name] = starlark.NewBuiltin(name, fn)
	}

	return
}

func (drv *Driver) trace(b *starlark.Builtin, args starlark.Tuple) {
	if drv.Verbose {
		log.Printf("script: %v%v", b.Name(), args)
	}
}

func (drv *Driver) assemble(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var source string
	err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &source)
	if err != nil {
		return
	}
	drv.trace(b, args)

	err = drv.Emulator.AssembleString(source)
	if err != nil {
		return
	}

	value = starlark.MakeInt(drv.Emulator.Program.Size())
	return
}

func (drv *Driver) reset(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0)
	if err != nil {
		return
	}
	drv.trace(b, args)

	err = drv.Emulator.Reset()
	value = starlark.None
	return
}

func (drv *Driver) step(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0)
	if err != nil {
		return
	}
	drv.trace(b, args)

	done, err := drv.Emulator.Tick()
	if err != nil {
		return
	}

	value = starlark.Bool(done)
	return
}

func (drv *Driver) run(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	max_steps := drv.Emulator.MaxSteps
	err = starlark.UnpackArgs(b.Name(), args, kwargs, "max_steps?", &max_steps)
	if err != nil {
		return
	}
	drv.trace(b, args)

	saved := drv.Emulator.MaxSteps
	drv.Emulator.MaxSteps = max_steps
	defer func() { drv.Emulator.MaxSteps = saved }()

	err = drv.Emulator.Run()
	if err != nil {
		return
	}

	value = starlark.MakeInt(drv.Emulator.Ticks)
	return
}

func (drv *Driver) pc(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0)
	if err != nil {
		return
	}

	value = starlark.MakeInt(drv.Emulator.Pc())
	return
}

func (drv *Driver) reg(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var index int
	err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &index)
	if err != nil {
		return
	}

	reg, err := drv.Emulator.Register(index)
	if err != nil {
		return
	}

	value = starlark.MakeUint(uint(reg))
	return
}

func (drv *Driver) peek(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var addr int
	err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &addr)
	if err != nil {
		return
	}

	if addr < 0 || addr >= vm.MEMORY_SIZE {
		err = fmt.Errorf("%w: %d", ErrAddressRange, addr)
		return
	}

	value = starlark.MakeInt(int(drv.Emulator.Memory()[addr]))
	return
}

func (drv *Driver) pixel(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var x, y int
	err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &x, &y)
	if err != nil {
		return
	}

	index, err := drv.Emulator.Pixel(x, y)
	if err != nil {
		return
	}

	value = starlark.MakeInt(int(index))
	return
}

func (drv *Driver) line(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0)
	if err != nil {
		return
	}

	value = starlark.MakeInt(drv.Emulator.LineNo())
	return
}

func (drv *Driver) printed(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0)
	if err != nil {
		return
	}

	values := drv.Emulator.Console.Values()
	elems := make([]starlark.Value, len(values))
	for n, v := range values {
		elems[n] = starlark.MakeUint(uint(v))
	}

	value = starlark.NewList(elems)
	return
}
