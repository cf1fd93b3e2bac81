package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/retrovm/isa"
)

func FuzzAssemble(f *testing.F) {
	f.Add("LOAD R1 5\nADD R2 R1 R1\nPRINT R2\nHALT")
	f.Add("JMP SKIP\nLOAD R0 9\nSKIP:\nHALT")
	f.Add("loop: // spins forever\nJMP loop")
	f.Add("PIX 0x1f 0 10\nPIXR r0 r1 r2")
	f.Add("FOO R1 5")
	f.Add(":\n::\nJZ R7 0xff")

	f.Fuzz(func(t *testing.T, source string) {
		assert := assert.New(t)

		code, err := Assemble(source)
		again, err_again := Assemble(source)
		assert.Equal(code, again)
		if err != nil {
			assert.Error(err_again)
			assert.Equal(err.Error(), err_again.Error())
			assert.Nil(code)
			return
		}

		insts, err := Disassemble(code)
		assert.NoError(err)

		size := 0
		for _, inst := range insts {
			assert.Equal(size, inst.Pc)
			assert.Equal(isa.Size(byte(inst.Desc.Code)), inst.Desc.Size())
			size += inst.Desc.Size()
		}
		assert.Equal(len(code), size)
	})
}
