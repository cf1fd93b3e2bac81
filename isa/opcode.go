// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Version of the instruction encoding.
const Version = 1

// Kind is the kind of an instruction operand.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	KIND_REGISTER  = Kind(0) // reg
	KIND_IMMEDIATE = Kind(1) // imm
	KIND_VALUE     = Kind(2) // value
)

// Code is an opcode byte.
type Code byte

const (
	OP_LOAD  = Code(1)   // LOAD reg, value
	OP_ADD   = Code(2)   // ADD dst, reg, reg
	OP_SUB   = Code(3)   // SUB dst, reg, reg
	OP_STORE = Code(4)   // STORE reg, value
	OP_PRINT = Code(5)   // PRINT reg
	OP_JZ    = Code(6)   // JZ reg, value
	OP_JMP   = Code(7)   // JMP value
	OP_PIX   = Code(8)   // PIX x, y, color
	OP_PIXR  = Code(9)   // PIXR rx, ry, rcolor
	OP_HALT  = Code(255) // HALT
)

// String returns the mnemonic of the opcode.
func (code Code) String() string {
	desc, ok := Decode(byte(code))
	if !ok {
		return fmt.Sprintf("0x%02x", byte(code))
	}
	return desc.Name
}

// Register file size.
const REGISTERS = 8

// Descriptor describes the encoding of one instruction.
type Descriptor struct {
	Name     string // Upper case mnemonic.
	Code     Code   // Opcode byte.
	Operands []Kind // Operand shape, in encoding order.
}

// Size returns the encoded size of the instruction in bytes.
func (desc Descriptor) Size() int {
	return 1 + len(desc.Operands)
}

// clone returns a copy the caller may modify without touching the table.
func (desc *Descriptor) clone() Descriptor {
	return Descriptor{Name: desc.Name, Code: desc.Code, Operands: slices.Clone(desc.Operands)}
}

var table = [...]Descriptor{
	{"LOAD", OP_LOAD, []Kind{KIND_REGISTER, KIND_VALUE}},
	{"ADD", OP_ADD, []Kind{KIND_REGISTER, KIND_REGISTER, KIND_REGISTER}},
	{"SUB", OP_SUB, []Kind{KIND_REGISTER, KIND_REGISTER, KIND_REGISTER}},
	{"STORE", OP_STORE, []Kind{KIND_REGISTER, KIND_VALUE}},
	{"PRINT", OP_PRINT, []Kind{KIND_REGISTER}},
	{"JZ", OP_JZ, []Kind{KIND_REGISTER, KIND_VALUE}},
	{"JMP", OP_JMP, []Kind{KIND_VALUE}},
	{"PIX", OP_PIX, []Kind{KIND_IMMEDIATE, KIND_IMMEDIATE, KIND_IMMEDIATE}},
	{"PIXR", OP_PIXR, []Kind{KIND_REGISTER, KIND_REGISTER, KIND_REGISTER}},
	{"HALT", OP_HALT, nil},
}

var (
	nameMap = make(map[string]*Descriptor, len(table))
	codeMap [256](*Descriptor)
)

func init() {
	for n := range table {
		desc := &table[n]
		if _, dup := nameMap[desc.Name]; dup {
			panic("isa: duplicate mnemonic " + desc.Name)
		}
		if codeMap[desc.Code] != nil {
			panic("isa: duplicate opcode for " + desc.Name)
		}
		nameMap[desc.Name] = desc
		codeMap[desc.Code] = desc
	}
}

// Lookup finds the descriptor for a mnemonic, ignoring case.
func Lookup(mnemonic string) (desc Descriptor, ok bool) {
	found, ok := nameMap[strings.ToUpper(mnemonic)]
	if ok {
		desc = found.clone()
	}
	return
}

// Decode finds the descriptor for an opcode byte.
func Decode(code byte) (desc Descriptor, ok bool) {
	found := codeMap[code]
	if found != nil {
		desc = found.clone()
		ok = true
	}
	return
}

// Size returns the encoded size of an opcode, or 0 if the opcode is undefined.
func Size(code byte) int {
	desc, ok := Decode(code)
	if !ok {
		return 0
	}
	return desc.Size()
}

// All returns the instruction set, in table order.
func All() iter.Seq[Descriptor] {
	return func(yield func(Descriptor) bool) {
		for n := range table {
			if !yield(table[n].clone()) {
				return
			}
		}
	}
}
