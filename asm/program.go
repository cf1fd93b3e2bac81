package asm

import (
	"iter"
)

// Opcode is one assembled source line.
type Opcode struct {
	LineNo int      // Source line number.
	Pc     int      // Byte offset of the instruction.
	Words  []string // Source words.
	Code   []byte   // Encoded instruction.
}

// Program is an assembled listing.
type Program struct {
	Opcodes []Opcode
	Label   map[string]int
}

// Debug locates the source of a byte offset.
type Debug struct {
	*Opcode
	Index int // Offset of pc within the opcode's encoding.
}

// Debug returns the opcode containing the byte at pc. The Opcode
// is nil if pc is outside of the program.
func (prog *Program) Debug(pc int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if pc >= op.Pc && pc < op.Pc+len(op.Code) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  pc - op.Pc,
			}
			break
		}
	}

	return
}

// Size returns the size of the program's bytecode.
func (prog *Program) Size() (size int) {
	for _, op := range prog.Opcodes {
		size += len(op.Code)
	}
	return
}

// Binary returns the program's bytecode.
func (prog *Program) Binary() (bins []byte) {
	bins = make([]byte, 0, prog.Size())
	for _, code := range prog.Codes() {
		bins = append(bins, code)
	}

	return
}

// Codes iterates over the program's bytecode by byte offset.
func (prog *Program) Codes() iter.Seq2[int, byte] {
	return func(yield func(pc int, code byte) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Code {
				if !yield(op.Pc+n, code) {
					return
				}
			}
		}
	}
}
