// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"fmt"
	"log"

	"github.com/ezrec/retrovm/isa"
)

// Memory map.
const (
	MEMORY_SIZE      = 0x800 // Total addressable memory.
	FRAMEBUFFER_BASE = 0x400 // First byte of the framebuffer.
	SCREEN_WIDTH     = 32    // Framebuffer width in pixels.
	SCREEN_HEIGHT    = 32    // Framebuffer height in pixels.
	FRAMEBUFFER_SIZE = SCREEN_WIDTH * SCREEN_HEIGHT
)

// Console receives the values of PRINT instructions.
type Console interface {
	Print(value uint32) error
}

// Machine is the simulation context for the RetroVM register machine.
type Machine struct {
	Verbose  bool    // Set to enable verbose logging.
	Console  Console // Destination of PRINT, discarded when nil.
	MaxSteps int     // Bound on Run(), unbounded when zero.

	Halted bool // Set once HALT executes.
	Ticks  int  // Instructions executed since reset.

	pc       int
	register [isa.REGISTERS]uint32
	memory   [MEMORY_SIZE]byte
}

// NewMachine creates a machine with cleared memory.
func NewMachine() (m *Machine) {
	m = &Machine{}
	return
}

// Reset returns the registers, program counter, and halt state to zero.
// Memory is left untouched.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("vm: reset")
	}

	clear(m.register[:])
	m.pc = 0
	m.Halted = false
	m.Ticks = 0
}

// Clear zeros all of memory.
func (m *Machine) Clear() {
	clear(m.memory[:])
}

// Load copies bytes into memory at offset.
func (m *Machine) Load(code []byte, offset int) (err error) {
	if offset < 0 || offset+len(code) > MEMORY_SIZE {
		err = ErrLoadRange
		return
	}

	copy(m.memory[offset:], code)
	return
}

// Pc returns the program counter.
func (m *Machine) Pc() int {
	return m.pc
}

// Register returns the value of register index.
func (m *Machine) Register(index int) (value uint32, err error) {
	if index < 0 || index >= len(m.register) {
		err = ErrRegisterRange
		return
	}

	value = m.register[index]
	return
}

// Memory returns the machine memory. Writes to the slice are visible to
// the machine.
func (m *Machine) Memory() []byte {
	return m.memory[:]
}

// Framebuffer returns the framebuffer region of memory, row major.
func (m *Machine) Framebuffer() []byte {
	return m.memory[FRAMEBUFFER_BASE : FRAMEBUFFER_BASE+FRAMEBUFFER_SIZE]
}

// Pixel returns the palette index at x, y.
func (m *Machine) Pixel(x, y int) (index byte, err error) {
	offset, err := pixelOffset(x, y)
	if err != nil {
		return
	}

	index = m.memory[offset]
	return
}

func pixelOffset(x, y int) (offset int, err error) {
	if x < 0 || x >= SCREEN_WIDTH || y < 0 || y >= SCREEN_HEIGHT {
		err = ErrPixelRange
		return
	}

	offset = FRAMEBUFFER_BASE + y*SCREEN_WIDTH + x
	return
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	text += fmt.Sprintf("% 6s: 0x%03x\n", "pc", m.pc)
	text += fmt.Sprintf("% 6s: %v\n", "halted", m.Halted)
	for n, val := range m.register {
		text += fmt.Sprintf("% 6s: %04X_%04X\n", fmt.Sprintf("r%d", n), val>>16, val&0xffff)
	}

	return
}

// Fetch decodes the instruction at the program counter.
func (m *Machine) Fetch() (desc isa.Descriptor, operands []byte, err error) {
	if m.pc < 0 || m.pc >= MEMORY_SIZE {
		err = ErrPcRange
		return
	}

	desc, ok := isa.Decode(m.memory[m.pc])
	if !ok {
		err = ErrOpcodeUnknown
		return
	}

	if m.pc+desc.Size() > MEMORY_SIZE {
		err = ErrPcRange
		return
	}

	operands = m.memory[m.pc+1 : m.pc+desc.Size()]
	err = checkOperands(desc, operands)
	return
}

// checkOperands verifies the operand count and register indices.
func checkOperands(desc isa.Descriptor, operands []byte) (err error) {
	if len(operands) != len(desc.Operands) {
		err = ErrOperandCount
		return
	}

	for n, kind := range desc.Operands {
		if kind == isa.KIND_REGISTER && operands[n] >= isa.REGISTERS {
			err = ErrRegisterInvalid
			return
		}
	}

	return
}

// Step executes exactly one instruction.
func (m *Machine) Step() (err error) {
	if m.Halted {
		return ErrHalted
	}

	pc := m.pc
	defer func() {
		if err != nil {
			var opcode byte
			if pc >= 0 && pc < MEMORY_SIZE {
				opcode = m.memory[pc]
			}
			err = &ErrFault{Pc: pc, Opcode: opcode, Err: err}
		}
	}()

	desc, operands, err := m.Fetch()
	if err != nil {
		return
	}

	if m.Verbose {
		log.Printf("%03x: %v % x", pc, desc.Name, operands)
	}

	err = m.Execute(desc, operands)
	if err != nil {
		return
	}

	m.Ticks++
	return
}

// Run executes until HALT, a fault, or MaxSteps instructions.
func (m *Machine) Run() (err error) {
	for steps := 0; !m.Halted; steps++ {
		if m.MaxSteps > 0 && steps >= m.MaxSteps {
			err = ErrStepLimit
			return
		}
		err = m.Step()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single decoded instruction.
func (m *Machine) Execute(desc isa.Descriptor, operands []byte) (err error) {
	err = checkOperands(desc, operands)
	if err != nil {
		return
	}

	next_pc := m.pc + desc.Size()
	reg := &m.register

	switch desc.Code {
	case isa.OP_LOAD:
		reg[operands[0]] = uint32(operands[1])
	case isa.OP_ADD:
		reg[operands[0]] = reg[operands[1]] + reg[operands[2]]
	case isa.OP_SUB:
		reg[operands[0]] = reg[operands[1]] - reg[operands[2]]
	case isa.OP_STORE:
		m.memory[operands[1]] = byte(reg[operands[0]])
	case isa.OP_PRINT:
		if m.Console != nil {
			err = m.Console.Print(reg[operands[0]])
		}
	case isa.OP_JZ:
		if reg[operands[0]] == 0 {
			next_pc = int(operands[1])
		}
	case isa.OP_JMP:
		next_pc = int(operands[0])
	case isa.OP_PIX:
		err = m.setPixel(uint32(operands[0]), uint32(operands[1]), operands[2])
	case isa.OP_PIXR:
		err = m.setPixel(reg[operands[0]], reg[operands[1]], byte(reg[operands[2]]))
	case isa.OP_HALT:
		m.Halted = true
		next_pc = m.pc
	default:
		err = ErrOpcodeUnknown
	}

	if err != nil {
		return
	}

	m.pc = next_pc
	return
}

func (m *Machine) setPixel(x, y uint32, index byte) (err error) {
	if x >= SCREEN_WIDTH || y >= SCREEN_HEIGHT {
		err = ErrPixelRange
		return
	}

	offset, err := pixelOffset(int(x), int(y))
	if err != nil {
		return
	}

	m.memory[offset] = index
	return
}
