// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/retrovm/asm"
	"github.com/ezrec/retrovm/emulator"
	"github.com/ezrec/retrovm/script"
)

func main() {
	var compile string
	var bytecode string
	var disasm bool
	var execute bool
	var starfile string
	var snapshot string
	var scale int
	var steps int
	var dump bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".rvm file to assemble")
	flag.StringVar(&bytecode, "b", "", "Write bytecode to file")
	flag.BoolVar(&disasm, "d", false, "Disassemble the bytecode")
	flag.BoolVar(&execute, "x", false, "Execute the program")
	flag.StringVar(&starfile, "s", "", ".star script to drive the emulator")
	flag.StringVar(&snapshot, "p", "", "Write framebuffer PNG to file")
	flag.IntVar(&scale, "z", 8, "PNG pixel scale")
	flag.IntVar(&steps, "n", 1000000, "Step limit, 0 for unbounded")
	flag.BoolVar(&dump, "r", false, "Dump machine state")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.MaxSteps = steps
	emu.Display.Scale = scale
	emu.Console.Output = os.Stdout

	// Assemble a new program.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		err = emu.Assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	if len(bytecode) != 0 {
		err := os.WriteFile(bytecode, emu.Program.Binary(), 0o644)
		if err != nil {
			log.Fatalf("%v: %v", bytecode, err)
		}
	}

	if disasm {
		insts, err := asm.Disassemble(emu.Program.Binary())
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		for _, inst := range insts {
			fmt.Printf("%03x: %v\n", inst.Pc, inst)
		}
	}

	if execute {
		err := emu.Reset()
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		err = emu.Run()
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	if len(starfile) != 0 {
		src, err := os.ReadFile(starfile)
		if err != nil {
			log.Fatalf("%v: %v", starfile, err)
		}

		drv := script.NewDriver(emu, os.Stdout)
		drv.Verbose = verbose
		_, err = drv.Exec(starfile, src)
		if err != nil {
			log.Fatalf("%v: %v", starfile, err)
		}
	}

	if dump {
		dumpState(os.Stdout, emu)
	}

	if len(snapshot) != 0 {
		err := writeSnapshot(snapshot, emu)
		if err != nil {
			log.Fatalf("%v: %v", snapshot, err)
		}
	}
}

// writeSnapshot writes the framebuffer PNG to path.
func writeSnapshot(path string, emu *emulator.Emulator) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}

	err = emu.Snapshot(ouf)
	if err != nil {
		ouf.Close()
		return
	}

	err = ouf.Close()
	return
}
