package asm

import (
	"fmt"
	"strings"

	"github.com/ezrec/retrovm/isa"
)

// Instruction is a decoded instruction.
type Instruction struct {
	Pc       int
	Desc     isa.Descriptor
	Operands []byte
}

// String formats the instruction as assembler source.
func (inst Instruction) String() string {
	words := []string{inst.Desc.Name}
	for n, kind := range inst.Desc.Operands {
		if kind == isa.KIND_REGISTER {
			words = append(words, fmt.Sprintf("R%d", inst.Operands[n]))
		} else {
			words = append(words, fmt.Sprintf("%d", inst.Operands[n]))
		}
	}
	return strings.Join(words, " ")
}

// Disassemble decodes bytecode into instructions.
func Disassemble(code []byte) (insts []Instruction, err error) {
	for pc := 0; pc < len(code); {
		desc, ok := isa.Decode(code[pc])
		if !ok {
			err = &ErrToken{Token: fmt.Sprintf("0x%02x", code[pc]), Err: ErrOpcodeUnknown}
			err = &ErrDecode{Pc: pc, Err: err}
			return
		}
		if pc+desc.Size() > len(code) {
			err = &ErrToken{Token: desc.Name, Err: ErrTruncated}
			err = &ErrDecode{Pc: pc, Err: err}
			return
		}

		operands := code[pc+1 : pc+desc.Size()]
		for n, kind := range desc.Operands {
			if kind == isa.KIND_REGISTER && operands[n] >= isa.REGISTERS {
				err = &ErrToken{Token: fmt.Sprintf("R%d", operands[n]), Err: ErrRegisterInvalid}
				err = &ErrDecode{Pc: pc, Err: err}
				return
			}
		}

		insts = append(insts, Instruction{Pc: pc, Desc: desc, Operands: operands})
		pc += desc.Size()
	}

	return
}
