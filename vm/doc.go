// Package vm implements the RetroVM register machine.
//
// The machine has eight 32-bit registers (r0-r7), a byte program counter,
// and 2048 bytes of memory. Bytecode is loaded at offset 0 and executed
// until HALT. Memory from 0x400 holds a 32x32 framebuffer of one byte
// palette indexes, written by the PIX and PIXR instructions.
package vm
