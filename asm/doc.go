// Package asm implements the two-pass assembler for RetroVM programs.
//
// Source is line oriented. A line ending in ':' defines a label at the
// current program counter; any other line is a mnemonic followed by
// whitespace separated operands. '//' starts a comment. Mnemonics,
// registers (r0-r7), and labels are case-insensitive. Values are decimal,
// 0x-prefixed hexadecimal, or label references, and must fit in a byte.
//
// Pass one binds labels to byte offsets, pass two encodes instructions
// using the isa table. Forward references are resolved because the
// whole label table exists before any byte is emitted.
package asm
