package emulator

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/retrovm/asm"
	retroio "github.com/ezrec/retrovm/io"
	"github.com/ezrec/retrovm/vm"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Machine)
	assert.NotNil(emu.Program)
	assert.Equal(&emu.Console, emu.Machine.Console)
}

// doRunSingle runs a straight line program, checking the source line of
// every instruction as it executes.
func doRunSingle(emu *Emulator, program []string, t *testing.T) (output []byte) {
	assert := assert.New(t)

	err := emu.AssembleString(strings.Join(program, "\n"))
	assert.NoError(err)

	err = emu.Reset()
	assert.NoError(err)

	console_output := &bytes.Buffer{}
	emu.Console.Output = console_output

	for n, op := range emu.Program.Opcodes {
		assert.Equal(op.LineNo, emu.LineNo())
		assert.Equal(op.Pc, emu.Pc())
		here := program[emu.LineNo()-1]
		done, err := emu.Tick()
		if err != nil {
			t.Log(emu.Machine.String())
			t.Fatalf("%v: %v", here, err)
		}
		assert.Equal(n == len(emu.Program.Opcodes)-1, done, here)
	}

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)

	output = console_output.Bytes()
	return
}

// doRunBranch runs a program until it halts.
func doRunBranch(emu *Emulator, program []string, t *testing.T) (output []byte) {
	assert := assert.New(t)

	err := emu.AssembleString(strings.Join(program, "\n"))
	assert.NoError(err)

	err = emu.Reset()
	assert.NoError(err)

	console_output := &bytes.Buffer{}
	emu.Console.Output = console_output

	var done bool
	for !done {
		line := emu.LineNo()
		if line == 0 {
			line = 1
		}
		done, err = emu.Tick()
		here := program[line-1]
		assert.NoError(err, here)
		if err != nil {
			t.Fatal(err)
		}
	}

	output = console_output.Bytes()
	return
}

func register(emu *Emulator, index int) uint32 {
	value, _ := emu.Register(index)
	return value
}

func TestEmulatorDemo(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"LOAD R1 5",
		"ADD R2 R1 R1",
		"PRINT R2",
		"HALT",
	}

	output := doRunSingle(emu, program, t)

	assert.Equal("10\n", string(output))
	assert.Equal([]uint32{10}, emu.Console.Values())
	assert.Equal(uint32(5), register(emu, 1))
	assert.Equal(uint32(10), register(emu, 2))
}

func TestEmulatorCountdown(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"LOAD R0 3 // counter",
		"LOAD R1 1",
		"loop:",
		"PRINT R0",
		"SUB R0 R0 R1",
		"JZ R0 done",
		"JMP loop",
		"done:",
		"HALT",
	}

	output := doRunBranch(emu, program, t)

	assert.Equal("3\n2\n1\n", string(output))
	assert.Equal(uint32(0), register(emu, 0))
	assert.Equal(9, emu.LineNo())
}

func TestEmulatorPixels(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"// diagonal in registers, corner as immediate",
		"LOAD R0 0",
		"LOAD R1 1",
		"LOAD R2 2",
		"LOAD R3 32",
		"loop:",
		"PIXR R0 R0 R2",
		"ADD R0 R0 R1",
		"SUB R4 R3 R0",
		"JZ R4 corner",
		"JMP loop",
		"corner:",
		"PIX 31 0 0x0a",
		"HALT",
	}

	doRunBranch(emu, program, t)

	for n := range vm.SCREEN_WIDTH {
		pixel, err := emu.Pixel(n, n)
		assert.NoError(err)
		assert.Equal(byte(2), pixel, n)
	}
	pixel, _ := emu.Pixel(31, 0)
	assert.Equal(byte(10), pixel)
	pixel, _ = emu.Pixel(1, 0)
	assert.Equal(byte(0), pixel)

	buf := &bytes.Buffer{}
	emu.Display.Scale = 2
	assert.NoError(emu.Snapshot(buf))
	img, err := png.Decode(buf)
	assert.NoError(err)
	assert.Equal(vm.SCREEN_WIDTH*2, img.Bounds().Dx())

	r, g, b, _ := img.At(31*2, 0).RGBA()
	er, eg, eb, _ := retroio.Palette[10].RGBA()
	assert.Equal([]uint32{er, eg, eb}, []uint32{r, g, b})
}

func TestEmulatorStore(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"LOAD R0 0x2a",
		"STORE R0 data",
		"HALT",
		"data:",
		"HALT",
	}

	doRunBranch(emu, program, t)

	assert.Equal(byte(0x2a), emu.Memory()[emu.Program.Label["DATA"]])
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"LOAD R0 40",
		"",
		"PIXR R0 R0 R0",
		"HALT",
	}

	err := emu.AssembleString(strings.Join(program, "\n"))
	assert.NoError(err)
	assert.NoError(emu.Reset())

	err = emu.Run()
	assert.ErrorIs(err, vm.ErrPixelRange)

	var runtime *ErrRuntime
	if assert.ErrorAs(err, &runtime) {
		assert.Equal(3, runtime.LineNo)
	}

	var fault *vm.ErrFault
	if assert.ErrorAs(err, &fault) {
		assert.Equal(3, fault.Pc)
	}
}

func TestEmulatorStepLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assert.NoError(emu.AssembleString("spin:\nJMP spin"))
	assert.NoError(emu.Reset())

	emu.MaxSteps = 50
	err := emu.Run()
	assert.ErrorIs(err, vm.ErrStepLimit)

	var runtime *ErrRuntime
	if assert.ErrorAs(err, &runtime) {
		assert.Equal(2, runtime.LineNo)
	}
	assert.Equal(50, emu.Ticks)
}

func TestEmulatorReset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assert.NoError(emu.AssembleString("LOAD R7 9\nPRINT R7\nPIX 0 0 1\nHALT"))
	assert.NoError(emu.Reset())
	assert.NoError(emu.Run())
	assert.Equal([]uint32{9}, emu.Console.Values())

	// A new program clears the old framebuffer.
	assert.NoError(emu.AssembleString("HALT"))
	assert.NoError(emu.Reset())
	assert.Empty(emu.Console.Values())
	pixel, _ := emu.Pixel(0, 0)
	assert.Equal(byte(0), pixel)
	assert.Equal(uint32(0), register(emu, 7))
	assert.Equal([]byte{255, 0}, emu.Memory()[:2])
}

func TestEmulatorAssembleError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	prog := emu.Program

	err := emu.AssembleString("HALT\nFOO R1 5")
	assert.ErrorIs(err, asm.ErrOpcodeUnknown)
	assert.Same(prog, emu.Program)
}

func TestEmulatorProgramSize(t *testing.T) {
	assert := assert.New(t)

	program := make([]string, 0, 400)
	for range 400 {
		program = append(program, "LOAD R0 1 // 3 bytes")
	}

	emu := NewEmulator()
	assert.NoError(emu.AssembleString(strings.Join(program, "\n")))
	assert.ErrorIs(emu.Reset(), ErrProgramSize)
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}

	assert.Equal("2048", defines["MEMORY_SIZE"])
	assert.Equal("8", defines["REGISTERS"])
	assert.Equal("1", defines["ISA_VERSION"])
	assert.Equal("0x400", defines["FRAMEBUFFER_BASE"])
}
