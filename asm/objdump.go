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

// Listing support for the "list" CLI mode: each ROM word is matched back
// against the catalog by its fixed opcode bits, and the operand bits
// re-expanded into readable register/immediate notation. This never
// recovers label names - only raw offsets - since those don't survive
// encoding.
package asm

import (
	"fmt"
	"io"
)

// listEntry pairs a decoded instruction with the ROM word it came from, in
// the spirit of objdump's own asmEntry (address + disassembled text).
type listEntry struct {
	index    int
	word     uint16
	mnemonic string
	operands string
}

// familyWidth is the fixed operand-field width for each family, i.e.
// 16-OpcodeWidth for every catalog row of that family. Mirrors the
// invariant TestCatalogRowWidths in catalog_whitebox_test.go checks.
func familyWidth(f Family) int {
	switch f {
	case FamilyRdRmImm5:
		return 11
	case FamilyRdRnRm, FamilyRdRnImm3:
		return 9
	case FamilyRdImm8, FamilyRtRnImm5, FamilyRtImm8W:
		return 11
	case FamilyTwoRegs:
		return 6
	case FamilySPImm7W:
		return 7
	case FamilyCondBranch:
		return 8
	case FamilyUncondBranch:
		return 11
	default:
		return -1
	}
}

// List writes a reverse-catalog disassembly of a ROM word stream to w, one
// line per word: "<index>: <hex> <mnemonic> <operands>".
func List(w io.Writer, words []uint16) error {
	for i, word := range words {
		e := decodeWord(i, word)
		_, err := fmt.Fprintf(w, "%4d: %04x %s %s\n", e.index, e.word, e.mnemonic, e.operands)
		if err != nil {
			return err
		}
	}
	return nil
}

// decodeWord finds the first catalog row whose fixed opcode bits match word
// and reconstructs its operand text. Falls back to a raw ".word" line if no
// row matches. RAM-image words (high byte zero) are not told apart from
// code: they match the lsls row and are listed as shifts.
func decodeWord(index int, word uint16) listEntry {
	for _, e := range Catalog {
		width := familyWidth(e.Family)
		if width < 0 || e.OpcodeWidth+width != 16 {
			continue
		}
		if word>>uint(width) != e.Opcode {
			continue
		}
		operand := word & (1<<uint(width) - 1)
		return listEntry{index, word, e.Mnemonic, formatOperand(e.Family, operand)}
	}
	return listEntry{index, word, ".word", fmt.Sprintf("0x%04x", word)}
}

// formatOperand re-expands a family's packed operand bits back into
// assembler-style operand text.
func formatOperand(f Family, v uint16) string {
	switch f {
	case FamilyRdRmImm5:
		imm, rm, rd := (v>>6)&0x1f, (v>>3)&0x7, v&0x7
		return fmt.Sprintf("%s, %s, #%d", Register(rd).String(), Register(rm).String(), imm)
	case FamilyRdRnRm:
		rm, rn, rd := (v>>6)&0x7, (v>>3)&0x7, v&0x7
		return fmt.Sprintf("%s, %s, %s", Register(rd).String(), Register(rn).String(), Register(rm).String())
	case FamilyRdRnImm3:
		imm, rn, rd := (v>>6)&0x7, (v>>3)&0x7, v&0x7
		return fmt.Sprintf("%s, %s, #%d", Register(rd).String(), Register(rn).String(), imm)
	case FamilyRdImm8:
		rd, imm := (v>>8)&0x7, v&0xff
		return fmt.Sprintf("%s, #%d", Register(rd).String(), imm)
	case FamilyTwoRegs:
		rm, rd := (v>>3)&0x7, v&0x7
		return fmt.Sprintf("%s, %s", Register(rd).String(), Register(rm).String())
	case FamilyRtRnImm5:
		imm, rn, rt := (v>>6)&0x1f, (v>>3)&0x7, v&0x7
		return fmt.Sprintf("%s, [%s, #%d]", Register(rt).String(), Register(rn).String(), imm)
	case FamilyRtImm8W:
		rt, imm := (v>>8)&0x7, (v&0xff)*4
		return fmt.Sprintf("%s, [sp, #%d]", Register(rt).String(), imm)
	case FamilySPImm7W:
		return fmt.Sprintf("sp, #%d", v*4)
	case FamilyCondBranch:
		return fmt.Sprintf("#%d", signExtend(v, 8))
	case FamilyUncondBranch:
		return fmt.Sprintf("#%d", signExtend(v, 11))
	default:
		return ""
	}
}

// signExtend widens a width-bit two's complement value to a signed int.
func signExtend(v uint16, width int) int32 {
	shift := 32 - uint(width)
	return int32(uint32(v)<<shift) >> shift
}
