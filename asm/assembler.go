// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"io"
	"log"
	"maps"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/ezrec/retrovm/isa"
)

// Line is a normalized source line.
type Line struct {
	LineNo int    // 1-based line number in the source text.
	Text   string // Line text with comments and surrounding space removed.
}

// Label returns the label name defined by the line, if it is a label line.
func (line Line) Label() (label string, ok bool) {
	if !strings.HasSuffix(line.Text, ":") {
		return
	}
	return strings.ToUpper(strings.TrimSuffix(line.Text, ":")), true
}

// Preprocess splits source into lines, strips '//' comments and
// whitespace, and drops blank lines.
func Preprocess(input io.Reader) (lines []Line, err error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 4096), math.MaxInt)

	var lineno int
	for scanner.Scan() {
		lineno++
		text, _, _ := strings.Cut(scanner.Text(), "//")
		text = strings.TrimSpace(text)
		if len(text) == 0 {
			continue
		}
		lines = append(lines, Line{LineNo: lineno, Text: text})
	}

	err = scanner.Err()
	if err != nil {
		err = &ErrSyntax{LineNo: lineno + 1, Err: err}
		return
	}

	return
}

// Labels is the first assembler pass. It binds every label to the byte
// offset of the instruction following it.
func Labels(lines []Line) (labels map[string]int, err error) {
	labels = make(map[string]int)

	var pc int
	for _, line := range lines {
		label, ok := line.Label()
		if ok {
			switch {
			case len(label) == 0, strings.ContainsFunc(label, unicode.IsSpace),
				hexRe.MatchString(label), decimalRe.MatchString(label):
				err = &ErrToken{Token: line.Text, Err: ErrLabelInvalid}
			default:
				if _, dup := labels[label]; dup {
					err = &ErrToken{Token: label, Err: ErrLabelDuplicate}
				}
			}
			if err != nil {
				err = &ErrSyntax{LineNo: line.LineNo, Line: line.Text, Err: err}
				return nil, err
			}
			labels[label] = pc
			continue
		}

		mnemonic := strings.Fields(line.Text)[0]
		desc, ok := isa.Lookup(mnemonic)
		if !ok {
			err = &ErrToken{Token: mnemonic, Err: ErrOpcodeUnknown}
			err = &ErrSyntax{LineNo: line.LineNo, Line: line.Text, Err: err}
			return nil, err
		}
		pc += desc.Size()
	}

	return
}

// Assembler is a two pass assembler for RetroVM programs.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	Label map[string]int // Map of labels to byte offsets.
}

// Assemble translates source text into bytecode.
func Assemble(source string) (code []byte, err error) {
	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(source))
	if err != nil {
		return
	}

	code = prog.Binary()
	return
}

// Parse parses an input stream into a Program. Either the whole program
// is returned, or an *ErrSyntax for the first offending line.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	asm.Opcode = asm.Opcode[:0]
	clear(asm.Label)

	lines, err := Preprocess(input)
	if err != nil {
		return
	}

	asm.Label, err = Labels(lines)
	if err != nil {
		return
	}

	if asm.Verbose {
		for _, label := range slices.Sorted(maps.Keys(asm.Label)) {
			log.Printf("label %v = %d\n", label, asm.Label[label])
		}
	}

	var pc int
	for _, line := range lines {
		if _, ok := line.Label(); ok {
			continue
		}

		if asm.Verbose {
			log.Printf("%v: %v\n", line.LineNo, line.Text)
		}

		var op Opcode
		op, err = asm.encode(line, pc)
		if err != nil {
			err = &ErrSyntax{LineNo: line.LineNo, Line: line.Text, Err: err}
			return
		}

		asm.Opcode = append(asm.Opcode, op)
		pc += len(op.Code)
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
		Label:   maps.Clone(asm.Label),
	}

	return
}

// encode is the second assembler pass for a single instruction line.
func (asm *Assembler) encode(line Line, pc int) (op Opcode, err error) {
	words := strings.Fields(line.Text)

	desc, ok := isa.Lookup(words[0])
	if !ok {
		err = &ErrToken{Token: words[0], Err: ErrOpcodeUnknown}
		return
	}

	args := words[1:]
	if len(args) != len(desc.Operands) {
		err = &ErrArity{Mnemonic: desc.Name, Want: len(desc.Operands), Got: len(args)}
		return
	}

	code := make([]byte, 0, desc.Size())
	code = append(code, byte(desc.Code))
	for n, kind := range desc.Operands {
		var value byte
		switch kind {
		case isa.KIND_REGISTER:
			value, err = parseRegister(args[n])
		default:
			value, err = asm.parseValue(args[n])
		}
		if err != nil {
			return
		}
		code = append(code, value)
	}

	op = Opcode{LineNo: line.LineNo, Pc: pc, Words: words, Code: code}
	return
}

var (
	registerRe = regexp.MustCompile(`(?i)^r[0-7]$`)
	hexRe      = regexp.MustCompile(`(?i)^0x[0-9a-f]+$`)
	decimalRe  = regexp.MustCompile(`^[0-9]+$`)
)

// parseRegister parses a register name into its index.
func parseRegister(word string) (reg byte, err error) {
	if !registerRe.MatchString(word) {
		err = &ErrToken{Token: word, Err: ErrRegisterInvalid}
		return
	}

	reg = word[1] - '0'
	return
}

// parseValue parses a numeric literal or label reference into a byte.
func (asm *Assembler) parseValue(word string) (value byte, err error) {
	var v64 uint64
	switch {
	case hexRe.MatchString(word):
		v64, err = strconv.ParseUint(word[2:], 16, 64)
	case decimalRe.MatchString(word):
		v64, err = strconv.ParseUint(word, 10, 64)
	default:
		pc, ok := asm.Label[strings.ToUpper(word)]
		if !ok {
			err = &ErrToken{Token: strings.ToUpper(word), Err: ErrLabelUnknown}
			return
		}
		v64 = uint64(pc)
	}

	if err != nil || v64 > 0xff {
		err = &ErrToken{Token: word, Err: ErrValueRange}
		return
	}

	value = byte(v64)
	return
}
