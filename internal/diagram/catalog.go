package diagram

import (
	"fmt"
	"sort"
	"strings"
)

// Encoding is a named diagram from the built-in catalog: an A64
// instruction opcode encoding or an AArch64 system register layout.
type Encoding struct {
	// Name is the catalog key, lower case ("add", "hcr_el2").
	Name string

	// Summary is the one-line description shown above the diagram.
	Summary string

	// Width is the encoding width in bits: 32 for A64 opcodes,
	// 64 for system registers.
	Width int

	// Fields lists the named fields MSB-first. Gaps are filled with
	// anonymous spacers at render time.
	Fields []Field
}

// val is a construction helper producing a *uint64 for fixed opcode bits.
func val(v uint64) *uint64 {
	return &v
}

// opcodes is the built-in catalog of A64 instruction encodings. The bit
// layouts follow the Arm ARM (DDI 0487) instruction descriptions; fixed
// opcode bits carry their required values so a bare `anvil opcode add`
// already shows the mandatory pattern.
var opcodes = map[string]Encoding{
	"add": {
		Name:    "add",
		Summary: "ADD (shifted register): Rd = Rn + shift(Rm, imm6)",
		Width:   32,
		Fields: []Field{
			{Name: "sf", Hi: 31, Lo: 31},
			{Name: "op", Hi: 30, Lo: 30, Value: val(0)},
			{Name: "S", Hi: 29, Lo: 29, Value: val(0)},
			{Hi: 28, Lo: 24, Value: val(0b01011)},
			{Name: "shift", Hi: 23, Lo: 22},
			{Hi: 21, Lo: 21, Value: val(0)},
			{Name: "Rm", Hi: 20, Lo: 16},
			{Name: "imm6", Hi: 15, Lo: 10},
			{Name: "Rn", Hi: 9, Lo: 5},
			{Name: "Rd", Hi: 4, Lo: 0},
		},
	},
	"sub": {
		Name:    "sub",
		Summary: "SUB (shifted register): Rd = Rn - shift(Rm, imm6)",
		Width:   32,
		Fields: []Field{
			{Name: "sf", Hi: 31, Lo: 31},
			{Name: "op", Hi: 30, Lo: 30, Value: val(1)},
			{Name: "S", Hi: 29, Lo: 29, Value: val(0)},
			{Hi: 28, Lo: 24, Value: val(0b01011)},
			{Name: "shift", Hi: 23, Lo: 22},
			{Hi: 21, Lo: 21, Value: val(0)},
			{Name: "Rm", Hi: 20, Lo: 16},
			{Name: "imm6", Hi: 15, Lo: 10},
			{Name: "Rn", Hi: 9, Lo: 5},
			{Name: "Rd", Hi: 4, Lo: 0},
		},
	},
	"movz": {
		Name:    "movz",
		Summary: "MOVZ: Rd = imm16 << (16 * hw)",
		Width:   32,
		Fields: []Field{
			{Name: "sf", Hi: 31, Lo: 31},
			{Name: "opc", Hi: 30, Lo: 29, Value: val(0b10)},
			{Hi: 28, Lo: 23, Value: val(0b100101)},
			{Name: "hw", Hi: 22, Lo: 21},
			{Name: "imm16", Hi: 20, Lo: 5},
			{Name: "Rd", Hi: 4, Lo: 0},
		},
	},
	"ldr": {
		Name:    "ldr",
		Summary: "LDR (immediate, unsigned offset): Rt = [Rn + imm12 * size]",
		Width:   32,
		Fields: []Field{
			{Name: "size", Hi: 31, Lo: 30},
			{Hi: 29, Lo: 27, Value: val(0b111)},
			{Name: "V", Hi: 26, Lo: 26, Value: val(0)},
			{Hi: 25, Lo: 24, Value: val(0b01)},
			{Name: "opc", Hi: 23, Lo: 22, Value: val(0b01)},
			{Name: "imm12", Hi: 21, Lo: 10},
			{Name: "Rn", Hi: 9, Lo: 5},
			{Name: "Rt", Hi: 4, Lo: 0},
		},
	},
	"str": {
		Name:    "str",
		Summary: "STR (immediate, unsigned offset): [Rn + imm12 * size] = Rt",
		Width:   32,
		Fields: []Field{
			{Name: "size", Hi: 31, Lo: 30},
			{Hi: 29, Lo: 27, Value: val(0b111)},
			{Name: "V", Hi: 26, Lo: 26, Value: val(0)},
			{Hi: 25, Lo: 24, Value: val(0b01)},
			{Name: "opc", Hi: 23, Lo: 22, Value: val(0b00)},
			{Name: "imm12", Hi: 21, Lo: 10},
			{Name: "Rn", Hi: 9, Lo: 5},
			{Name: "Rt", Hi: 4, Lo: 0},
		},
	},
	"b": {
		Name:    "b",
		Summary: "B: PC-relative branch, range ±128 MiB",
		Width:   32,
		Fields: []Field{
			{Hi: 31, Lo: 26, Value: val(0b000101)},
			{Name: "imm26", Hi: 25, Lo: 0},
		},
	},
	"bl": {
		Name:    "bl",
		Summary: "BL: branch with link, return address in X30",
		Width:   32,
		Fields: []Field{
			{Hi: 31, Lo: 26, Value: val(0b100101)},
			{Name: "imm26", Hi: 25, Lo: 0},
		},
	},
	"ret": {
		Name:    "ret",
		Summary: "RET: branch to the address in Rn (defaults to X30)",
		Width:   32,
		Fields: []Field{
			{Hi: 31, Lo: 25, Value: val(0b1101011)},
			{Name: "opc", Hi: 24, Lo: 21, Value: val(0b0010)},
			{Name: "op2", Hi: 20, Lo: 16, Value: val(0b11111)},
			{Name: "op3", Hi: 15, Lo: 10, Value: val(0)},
			{Name: "Rn", Hi: 9, Lo: 5},
			{Name: "op4", Hi: 4, Lo: 0, Value: val(0)},
		},
	},
	"nop": {
		Name:    "nop",
		Summary: "NOP: no operation (hint #0)",
		Width:   32,
		Fields: []Field{
			{Hi: 31, Lo: 12, Value: val(0xD5032)},
			{Name: "CRm", Hi: 11, Lo: 8, Value: val(0)},
			{Name: "op2", Hi: 7, Lo: 5, Value: val(0)},
			{Hi: 4, Lo: 0, Value: val(0b11111)},
		},
	},
}

// registers is the built-in catalog of AArch64 system register layouts.
// Only the architecturally notable bits are named; everything else is
// rendered as anonymous (mostly RES0) space by the gap filler.
var registers = map[string]Encoding{
	"hcr_el2": {
		Name:    "hcr_el2",
		Summary: "HCR_EL2: Hypervisor Configuration Register",
		Width:   64,
		Fields: []Field{
			{Name: "E2H", Hi: 34, Lo: 34},
			{Name: "RW", Hi: 31, Lo: 31},
			{Name: "TGE", Hi: 27, Lo: 27},
			{Name: "DC", Hi: 12, Lo: 12},
			{Name: "AMO", Hi: 5, Lo: 5},
			{Name: "IMO", Hi: 4, Lo: 4},
			{Name: "FMO", Hi: 3, Lo: 3},
			{Name: "SWIO", Hi: 1, Lo: 1},
			{Name: "VM", Hi: 0, Lo: 0},
		},
	},
	"sctlr_el1": {
		Name:    "sctlr_el1",
		Summary: "SCTLR_EL1: System Control Register (EL1)",
		Width:   64,
		Fields: []Field{
			{Name: "EE", Hi: 25, Lo: 25},
			{Name: "E0E", Hi: 24, Lo: 24},
			{Name: "WXN", Hi: 19, Lo: 19},
			{Name: "I", Hi: 12, Lo: 12},
			{Name: "SA0", Hi: 4, Lo: 4},
			{Name: "SA", Hi: 3, Lo: 3},
			{Name: "C", Hi: 2, Lo: 2},
			{Name: "A", Hi: 1, Lo: 1},
			{Name: "M", Hi: 0, Lo: 0},
		},
	},
	"spsr_el1": {
		Name:    "spsr_el1",
		Summary: "SPSR_EL1: Saved Program Status Register (EL1)",
		Width:   64,
		Fields: []Field{
			{Name: "N", Hi: 31, Lo: 31},
			{Name: "Z", Hi: 30, Lo: 30},
			{Name: "C", Hi: 29, Lo: 29},
			{Name: "V", Hi: 28, Lo: 28},
			{Name: "SS", Hi: 21, Lo: 21},
			{Name: "IL", Hi: 20, Lo: 20},
			{Name: "D", Hi: 9, Lo: 9},
			{Name: "A", Hi: 8, Lo: 8},
			{Name: "I", Hi: 7, Lo: 7},
			{Name: "F", Hi: 6, Lo: 6},
			{Name: "M", Hi: 4, Lo: 0},
		},
	},
	"currentel": {
		Name:    "currentel",
		Summary: "CurrentEL: Current Exception Level",
		Width:   64,
		Fields: []Field{
			{Name: "EL", Hi: 3, Lo: 2},
		},
	},
	"daif": {
		Name:    "daif",
		Summary: "DAIF: Interrupt Mask Bits",
		Width:   64,
		Fields: []Field{
			{Name: "D", Hi: 9, Lo: 9},
			{Name: "A", Hi: 8, Lo: 8},
			{Name: "I", Hi: 7, Lo: 7},
			{Name: "F", Hi: 6, Lo: 6},
		},
	},
}

// LookupOpcode finds a built-in instruction encoding by name,
// case-insensitively. The error names the known instructions so typos
// are self-correcting.
func LookupOpcode(name string) (Encoding, error) {
	enc, ok := opcodes[strings.ToLower(name)]
	if !ok {
		return Encoding{}, fmt.Errorf("unknown instruction %q (known: %s)", name, knownNames(opcodes))
	}
	return enc, nil
}

// LookupRegister finds a built-in system register layout by name,
// case-insensitively.
func LookupRegister(name string) (Encoding, error) {
	enc, ok := registers[strings.ToLower(name)]
	if !ok {
		return Encoding{}, fmt.Errorf("unknown system register %q (known: %s)", name, knownNames(registers))
	}
	return enc, nil
}

// knownNames renders a sorted, comma-separated list of catalog keys for
// error messages.
func knownNames(catalog map[string]Encoding) string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
