// This file is part of Thumbasm.
//
// Thumbasm is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Thumbasm is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Thumbasm.  If not, see <https://www.gnu.org/licenses/>.

// Package asm is the core of the assembler: the instruction catalog, the
// parser built on top of it, the label-resolution layout pass, the bit
// encoder and the hex packer. The catalog in this file is the single
// source of truth the other stages read from; each operand family it
// encodes is described on its ArgShape type below.
package asm

import "github.com/jetsetilly/thumbasm/errors"

// ArgShape is the tagged variant over the operand-family set. Every family
// below knows how to flatten itself to its operand bits and how wide that
// field is; the catalog entry supplies the opcode bits that precede it.
type ArgShape interface {
	flatten() (value uint16, width int)
}

// RdRmImm5 covers lsls/lsrs/asrs Rd, Rm, #imm5. Flatten order: Imm5 || Rm || Rd.
type RdRmImm5 struct {
	Rd, Rm Register
	Imm    Imm5
}

func (a RdRmImm5) flatten() (uint16, int) {
	v := a.Imm.bits()<<6 | a.Rm.bits()<<3 | a.Rd.bits()
	return v, a.Imm.width() + 3 + 3
}

// RdRnRm covers adds/subs Rd, Rn, Rm (register form). Flatten order:
// Rm || Rn || Rd.
type RdRnRm struct {
	Rd, Rn, Rm Register
}

func (a RdRnRm) flatten() (uint16, int) {
	v := a.Rm.bits()<<6 | a.Rn.bits()<<3 | a.Rd.bits()
	return v, 9
}

// RdRnImm3 covers adds/subs Rd, Rn, #imm3 (3-bit immediate form). Flatten
// order: Imm3 || Rn || Rd.
type RdRnImm3 struct {
	Rd, Rn Register
	Imm    Imm3
}

func (a RdRnImm3) flatten() (uint16, int) {
	v := a.Imm.bits()<<6 | a.Rn.bits()<<3 | a.Rd.bits()
	return v, 9
}

// RdImm8 covers movs/cmp/adds/subs Rd, #imm8 (8-bit immediate form), and is
// also what a resolved Ldr3 (ldr Rt, label) becomes after layout rewrites
// it to movs Rt, #<ram-offset>. Flatten order: Rd || Imm8.
type RdImm8 struct {
	Rd  Register
	Imm Imm8
}

func (a RdImm8) flatten() (uint16, int) {
	v := a.Rd.bits()<<8 | a.Imm.bits()
	return v, 11
}

// TwoRegs covers the two-register, fixed-10-bit-opcode data-processing
// family (ands, eors, lsls, lsrs, asrs, adcs, sbcs, rors, tst, cmp, cmn,
// orrs, bics, mvns) and muls (as TwoRegs{Rdm, Rn}). As written by the
// parser the first field is the destination (or, for muls, the repeated
// Rdm) and the second is the other operand; flatten order is second ||
// first.
type TwoRegs struct {
	Rd, Rm Register
}

func (a TwoRegs) flatten() (uint16, int) {
	v := a.Rm.bits()<<3 | a.Rd.bits()
	return v, 6
}

// RtRnImm5 covers ldrb Rt, [Rn, #imm5] - both the direct user-written form
// and the macro-expanded ldrb Rt, [r6] (imm5=0) produced by the
// register+register preprocessing rewrite. Flatten order: Imm5 || Rn || Rt.
type RtRnImm5 struct {
	Rt, Rn Register
	Imm    Imm5
}

func (a RtRnImm5) flatten() (uint16, int) {
	v := a.Imm.bits()<<6 | a.Rn.bits()<<3 | a.Rt.bits()
	return v, 11
}

// RtImm8W covers ldr/str Rt, [sp, #imm8w]. Flatten order: Rt || Imm8W.
type RtImm8W struct {
	Rt  Register
	Imm Imm8W
}

func (a RtImm8W) flatten() (uint16, int) {
	v := a.Rt.bits()<<8 | a.Imm.bits()
	return v, 11
}

// SPImm7W covers add sp, #imm / sub sp, #imm. Single operand: Imm7W.
type SPImm7W struct {
	Imm Imm7W
}

func (a SPImm7W) flatten() (uint16, int) {
	return a.Imm.bits(), a.Imm.width()
}

// LabelRef is the pre-resolution shape for every branch and for Ldr3 (ldr
// Rt, label). The layout pass rewrites every instruction still carrying
// one of these into a CondBranch/UncondBranch/RdImm8 before the encoder
// ever sees it; flatten is never called on a LabelRef that reaches the
// encoder; it is a programming error in the layout pass if it does.
type LabelRef struct {
	Rt     Register // only meaningful for Ldr3; ignored for branches
	Name   string
	IsLoad bool // true for Ldr3 (ldr Rt, label); false for a branch target
}

func (LabelRef) flatten() (uint16, int) {
	panic("asm: LabelRef reached the encoder unresolved")
}

// CondBranch is a resolved conditional branch (including bal): a single
// SImm8 field.
type CondBranch struct {
	Imm SImm8
}

func (a CondBranch) flatten() (uint16, int) {
	return a.Imm.bits(), a.Imm.width()
}

// UncondBranch is a resolved unconditional "b" branch: a single SImm11
// field.
type UncondBranch struct {
	Imm SImm11
}

func (a UncondBranch) flatten() (uint16, int) {
	return a.Imm.bits(), a.Imm.width()
}

// parseFunc attempts to parse an operand string for one catalog row. It
// returns a non-nil error only when the mnemonic matched but the operand
// shape did not - the parser tries the next catalog row with the same
// mnemonic/alias on failure, per the catalog-order ambiguity rule.
type parseFunc func(operands string) (ArgShape, error)

// Family tags which concrete ArgShape type a catalog row's operand belongs
// to. It lets the encoder pick, among several catalog rows sharing a
// mnemonic, the one whose family matches the shape a resolved instruction
// actually carries - an explicit tag instead of reverse-engineering the
// family from opcode bit patterns.
type Family int

const (
	FamilyRdRmImm5 Family = iota
	FamilyRdRnRm
	FamilyRdRnImm3
	FamilyRdImm8
	FamilyTwoRegs
	FamilyRtRnImm5
	FamilyRtImm8W
	FamilySPImm7W
	FamilyLabelRef // pre-resolution only; never reaches the encoder
	FamilyCondBranch
	FamilyUncondBranch
)

// Entry is one catalog row: a mnemonic (or alias), a fixed opcode, its
// operand family, and the parser for that family. OpcodeWidth + the
// family's flattened width must always equal 16 - catalog_whitebox_test.go
// checks this for every row except the pre-resolution LabelRef row.
type Entry struct {
	Mnemonic    string
	Opcode      uint16
	OpcodeWidth int
	Family      Family
	parse       parseFunc
}

// condCodes is the ARMv6-M condition field, in catalog order. bal is given
// the reserved AL encoding (0b1110); condition 0b1111 is undefined in this
// subset and is not exposed as a mnemonic.
var condCodes = []struct {
	mnemonic string
	aliases  []string
	cond     uint16
}{
	{"beq", nil, 0b0000},
	{"bne", nil, 0b0001},
	{"bcs", []string{"bhs"}, 0b0010},
	{"bcc", []string{"blo"}, 0b0011},
	{"bmi", nil, 0b0100},
	{"bpl", nil, 0b0101},
	{"bvs", nil, 0b0110},
	{"bvc", nil, 0b0111},
	{"bhi", nil, 0b1000},
	{"bls", nil, 0b1001},
	{"bge", nil, 0b1010},
	{"blt", nil, 0b1011},
	{"bgt", nil, 0b1100},
	{"ble", nil, 0b1101},
	{"bal", nil, 0b1110},
}

// Catalog is the full instruction table, in the order the parser tries
// rows for a given mnemonic. Bit patterns are verified bit-exact against
// original_source/tests/*.rs and against the real ARMv6-M decode masks in
// hardware/memory/cartridge/arm/thumb.go (see DESIGN.md).
var Catalog = buildCatalog()

func buildCatalog() []Entry {
	var c []Entry

	// Shift/ALU with immediate: lsls, lsrs, asrs -> RdRmImm5.
	c = append(c,
		Entry{"lsls", 0b00000, 5, FamilyRdRmImm5, parseRdRmImm5},
		Entry{"lsrs", 0b00001, 5, FamilyRdRmImm5, parseRdRmImm5},
		Entry{"asrs", 0b00010, 5, FamilyRdRmImm5, parseRdRmImm5},
	)

	// Add/sub register and 3-bit-immediate forms share a mnemonic; register
	// form is tried first (per catalog order), matching the "longest/most
	// specific first" convention original_source's INSTRUCTIONS table uses.
	c = append(c,
		Entry{"adds", 0b0001100, 7, FamilyRdRnRm, parseRdRnRm},
		Entry{"subs", 0b0001101, 7, FamilyRdRnRm, parseRdRnRm},
		Entry{"adds", 0b0001110, 7, FamilyRdRnImm3, parseRdRnImm3},
		Entry{"subs", 0b0001111, 7, FamilyRdRnImm3, parseRdRnImm3},
	)

	// 8-bit-immediate forms: movs, cmp, adds, subs -> RdImm8.
	c = append(c,
		Entry{"movs", 0b00100, 5, FamilyRdImm8, parseRdImm8},
		Entry{"cmp", 0b00101, 5, FamilyRdImm8, parseRdImm8},
		Entry{"adds", 0b00110, 5, FamilyRdImm8, parseRdImm8},
		Entry{"subs", 0b00111, 5, FamilyRdImm8, parseRdImm8},
	)

	// Two-register data-processing family, fixed 10-bit opcode (0b010000 +
	// 4-bit op), operand order Rm || Rd.
	dataProc := []struct {
		mnemonic string
		op       uint16
	}{
		{"ands", 0b0000}, {"eors", 0b0001}, {"lsls", 0b0010}, {"lsrs", 0b0011},
		{"asrs", 0b0100}, {"adcs", 0b0101}, {"sbcs", 0b0110}, {"rors", 0b0111},
		{"tst", 0b1000}, {"cmp", 0b1010}, {"cmn", 0b1011}, {"orrs", 0b1100},
		{"bics", 0b1110}, {"mvns", 0b1111},
	}
	for _, dp := range dataProc {
		c = append(c, Entry{dp.mnemonic, 0b010000<<4 | dp.op, 10, FamilyTwoRegs, parseTwoRegs})
	}

	// Multiply: muls Rdm, Rn, Rdm (first and third register must match),
	// same family shape as the data-processing TwoRegs family, op=0b1101.
	c = append(c, Entry{"muls", 0b010000<<4 | 0b1101, 10, FamilyTwoRegs, parseMuls})

	// Reverse subtract from zero: rsbs Rd, Rn, #0 (syntactic #0), op=0b1001.
	c = append(c, Entry{"rsbs", 0b010000<<4 | 0b1001, 10, FamilyTwoRegs, parseRsbs})

	// Load/store SP-relative: str, ldr -> RtImm8W.
	c = append(c,
		Entry{"str", 0b10010, 5, FamilyRtImm8W, parseRtSpImm8W},
		Entry{"ldr", 0b10011, 5, FamilyRtImm8W, parseRtSpImm8W},
	)

	// Load byte, immediate offset (direct form, and the macro-expanded
	// register+register rewrite's second half): ldrb -> RtRnImm5.
	c = append(c, Entry{"ldrb", 0b01111, 5, FamilyRtRnImm5, parseRtRnImm5})

	// Load PC-relative literal (pseudo-op): ldr Rt, label -> LabelRef,
	// resolved away entirely during layout; never reaches the encoder with
	// this shape. No fixed opcode of its own - see layout.go.
	c = append(c, Entry{"ldr", 0, 0, FamilyLabelRef, parseLdr3})

	// Stack pointer arithmetic.
	c = append(c,
		Entry{"add", 0b101100000, 9, FamilySPImm7W, parseSPImm7W},
		Entry{"sub", 0b101100001, 9, FamilySPImm7W, parseSPImm7W},
	)

	// Unconditional branch. Carries FamilyUncondBranch (not FamilyLabelRef)
	// so the encoder can route the resolved UncondBranch shape straight
	// back to this row by family tag.
	c = append(c, Entry{"b", 0b11100, 5, FamilyUncondBranch, parseLabelRef})

	// Conditional branches, including bal. Carries FamilyCondBranch for the
	// same reason.
	for _, cc := range condCodes {
		cc := cc
		c = append(c, Entry{cc.mnemonic, 0b1101<<4 | cc.cond, 8, FamilyCondBranch, parseLabelRef})
	}

	return c
}

// aliases maps an alternative spelling to its canonical mnemonic for
// catalog lookup purposes. adds/add are interchangeable for the
// register-register encoding; bhs/blo are the carry-set/carry-clear
// spellings of bcs/bcc.
var aliases = buildAliases()

func buildAliases() map[string]string {
	m := map[string]string{
		"add": "adds", // register-register form; "add sp, #imm" keeps its
		// literal mnemonic in the catalog and rowsFor checks both spellings.
	}
	for _, cc := range condCodes {
		for _, a := range cc.aliases {
			m[a] = cc.mnemonic
		}
	}
	return m
}

func canonicalMnemonic(m string) string {
	if c, ok := aliases[m]; ok {
		return c
	}
	return m
}

// rowsFor returns every catalog row matching the given mnemonic, in
// catalog order. Both the alias-canonicalised form and the literal
// mnemonic as written are checked: "add" canonicalises to "adds" for the
// register-register forms, but the sp-relative row ("add sp, #imm") keeps
// the literal mnemonic, so both have to be considered for a row to match
// either spelling. "sub" has no alias and only matches the "sub sp" row.
func rowsFor(mnemonic string) []Entry {
	canon := canonicalMnemonic(mnemonic)
	var out []Entry
	for _, e := range Catalog {
		if e.Mnemonic == canon || e.Mnemonic == mnemonic {
			out = append(out, e)
		}
	}
	return out
}

// encodeWord flattens a resolved instruction to its 16-bit word using the
// given catalog entry's opcode.
func encodeWord(e Entry, shape ArgShape) (uint16, error) {
	v, w := shape.flatten()
	if e.OpcodeWidth+w != 16 {
		return 0, errors.Errorf(errors.CatalogWidth, e.Mnemonic, e.OpcodeWidth+w)
	}
	return e.Opcode<<w | v, nil
}
