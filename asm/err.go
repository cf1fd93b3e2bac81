package asm

import (
	"errors"

	"github.com/ezrec/retrovm/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrOpcodeUnknown   = errors.New(f("unknown opcode"))
	ErrRegisterInvalid = errors.New(f("invalid register"))
	ErrLabelUnknown    = errors.New(f("unknown label"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrLabelInvalid    = errors.New(f("label invalid"))
	ErrOperandCount    = errors.New(f("operand count"))
	ErrValueRange      = errors.New(f("value out of range"))

	// Disassembler errors
	ErrTruncated = errors.New(f("truncated instruction"))
)

// ErrToken names the source token that caused an error.
type ErrToken struct {
	Token string
	Err   error
}

func (err *ErrToken) Error() string {
	return f("%v '%v'", err.Err, err.Token)
}

func (err *ErrToken) Unwrap() error {
	return err.Err
}

// ErrArity reports an instruction with the wrong number of operands.
type ErrArity struct {
	Mnemonic string
	Want     int
	Got      int
}

func (err *ErrArity) Error() string {
	return f("%v %v wants %d, got %d", ErrOperandCount, err.Mnemonic, err.Want, err.Got)
}

func (err *ErrArity) Unwrap() error {
	return ErrOperandCount
}

// ErrSyntax locates an assembler error in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrDecode locates a disassembler error in the bytecode.
type ErrDecode struct {
	Pc  int
	Err error
}

func (err *ErrDecode) Error() string {
	return f("offset %d %v", err.Pc, err.Err)
}

func (err *ErrDecode) Unwrap() error {
	return err.Err
}
