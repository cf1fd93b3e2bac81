package vm

import (
	"errors"

	"github.com/ezrec/retrovm/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrHalted          = errors.New(f("halted"))
	ErrStepLimit       = errors.New(f("step limit reached"))
	ErrLoadRange       = errors.New(f("load out of memory range"))
	ErrRegisterRange   = errors.New(f("register index out of range"))
	ErrPixelRange      = errors.New(f("pixel out of range"))
	ErrPcRange         = errors.New(f("pc out of memory range"))
	ErrOpcodeUnknown   = errors.New(f("unknown opcode"))
	ErrRegisterInvalid = errors.New(f("invalid register operand"))
	ErrOperandCount    = errors.New(f("operand count"))
)

// ErrFault locates an execution error.
type ErrFault struct {
	Pc     int
	Opcode byte
	Err    error
}

func (err *ErrFault) Error() string {
	return f("pc 0x%03x opcode 0x%02x %v", err.Pc, err.Opcode, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
