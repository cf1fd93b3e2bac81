// Package isa defines the instruction set shared by the RetroVM assembler
// and execution engine.
//
// Every instruction is one opcode byte followed by one byte per operand.
// The table in this package is the single source of truth for opcode
// values, operand shapes, and encoded sizes; the encoding is versioned by
// Version and no other encoding is supported.
package isa
