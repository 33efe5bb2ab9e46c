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

package asm

import "github.com/jetsetilly/thumbasm/errors"

// Encode flattens every resolved instruction to its 16-bit word, in ROM
// order. Each row's catalog entry supplies the opcode; encodeWord checks
// the 16-bit total as it goes (spec.md §8's universal invariant).
func Encode(instrs []ResolvedInstr) ([]uint16, error) {
	words := make([]uint16, 0, len(instrs))

	for _, ri := range instrs {
		rows := rowsFor(ri.Mnemonic)

		var encoded bool
		for _, row := range rows {
			// A resolved instruction's shape must match exactly one
			// concrete Go type per family; matching on the row's Family tag
			// lets a mnemonic with several catalog rows (e.g. "adds") pick
			// the row whose family produced this particular shape.
			if entryAccepts(row, ri.Shape) {
				w, err := encodeWord(row, ri.Shape)
				if err != nil {
					return nil, err
				}
				words = append(words, w)
				encoded = true
				break
			}
		}

		if !encoded {
			return nil, errors.Errorf(errors.CatalogWidth, ri.Mnemonic, 0)
		}
	}

	return words, nil
}

// entryAccepts reports whether a catalog row's operand family matches the
// concrete type of a resolved shape. Branch mnemonics route the resolved
// CondBranch/UncondBranch shapes back to their own (opcode-bearing)
// catalog row, which is tagged FamilyCondBranch/FamilyUncondBranch even
// though it still declares a LabelRef parser for the pre-resolution text -
// the Family tag, not the parser, is what's being matched here.
func entryAccepts(e Entry, shape ArgShape) bool {
	switch shape.(type) {
	case RdRmImm5:
		return e.Family == FamilyRdRmImm5
	case RdRnRm:
		return e.Family == FamilyRdRnRm
	case RdRnImm3:
		return e.Family == FamilyRdRnImm3
	case RdImm8:
		return e.Family == FamilyRdImm8
	case TwoRegs:
		return e.Family == FamilyTwoRegs
	case RtRnImm5:
		return e.Family == FamilyRtRnImm5
	case RtImm8W:
		return e.Family == FamilyRtImm8W
	case SPImm7W:
		return e.Family == FamilySPImm7W
	case CondBranch:
		return e.Family == FamilyCondBranch
	case UncondBranch:
		return e.Family == FamilyUncondBranch
	default:
		return false
	}
}

// EncodeRAM flattens the extracted RAM byte stream to 16-bit code units,
// one character per slot, high byte zero, per spec.md §4.5.
func EncodeRAM(b []byte) []uint16 {
	words := make([]uint16, len(b))
	for i, c := range b {
		words[i] = uint16(c)
	}
	return words
}
