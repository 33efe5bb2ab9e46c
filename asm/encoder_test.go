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

package asm_test

import (
	"testing"

	"github.com/jetsetilly/thumbasm/asm"
	"github.com/jetsetilly/thumbasm/test"
)

// findEntry looks up the first catalog row for mnemonic/family, so tests
// can check against the opcode actually in the table instead of a second
// hard-coded copy of it.
func findEntry(t *testing.T, mnemonic string, family asm.Family) asm.Entry {
	t.Helper()
	for _, e := range asm.Catalog {
		if e.Mnemonic == mnemonic && e.Family == family {
			return e
		}
	}
	t.Fatalf("no catalog row for %s/%v", mnemonic, family)
	return asm.Entry{}
}

// assembleOne parses, lays out and encodes a single-instruction program,
// returning its one resulting word.
func assembleOne(t *testing.T, src string) uint16 {
	t.Helper()
	lines, err := asm.Parse(src)
	test.ExpectedSuccess(t, err)
	resolved, _, err := asm.Layout(lines)
	test.ExpectedSuccess(t, err)
	words, err := asm.Encode(resolved)
	test.ExpectedSuccess(t, err)
	test.ExpectEquality(t, len(words), 1)
	return words[0]
}

func TestEncodeRdImm8(t *testing.T) {
	e := findEntry(t, "movs", asm.FamilyRdImm8)
	got := assembleOne(t, "movs r3, #42")
	want := e.Opcode<<11 | uint16(3)<<8 | 42
	test.ExpectEquality(t, got, want)
}

func TestEncodeRdRnImm3(t *testing.T) {
	e := findEntry(t, "adds", asm.FamilyRdRnImm3)
	got := assembleOne(t, "adds r1, r2, #5")
	want := e.Opcode<<9 | uint16(5)<<6 | uint16(2)<<3 | 1
	test.ExpectEquality(t, got, want)
}

func TestEncodeRdRnRm(t *testing.T) {
	e := findEntry(t, "adds", asm.FamilyRdRnRm)
	got := assembleOne(t, "adds r1, r2, r3")
	want := e.Opcode<<9 | uint16(3)<<6 | uint16(2)<<3 | 1
	test.ExpectEquality(t, got, want)
}

func TestEncodeRdRmImm5(t *testing.T) {
	e := findEntry(t, "lsls", asm.FamilyRdRmImm5)
	got := assembleOne(t, "lsls r0, r1, #4")
	want := e.Opcode<<11 | uint16(4)<<6 | uint16(1)<<3 | 0
	test.ExpectEquality(t, got, want)
}

func TestEncodeTwoRegs(t *testing.T) {
	e := findEntry(t, "cmp", asm.FamilyTwoRegs)
	got := assembleOne(t, "cmp r0, r1")
	want := e.Opcode<<6 | uint16(1)<<3 | 0
	test.ExpectEquality(t, got, want)
}

func TestEncodeRtImm8W(t *testing.T) {
	e := findEntry(t, "str", asm.FamilyRtImm8W)
	got := assembleOne(t, "str r2, [sp, #4]")
	want := e.Opcode<<11 | uint16(2)<<8 | 1 // #4 / 4 == 1
	test.ExpectEquality(t, got, want)
}

func TestEncodeRtRnImm5(t *testing.T) {
	e := findEntry(t, "ldrb", asm.FamilyRtRnImm5)
	got := assembleOne(t, "ldrb r0, [r1, #3]")
	want := e.Opcode<<11 | uint16(3)<<6 | uint16(1)<<3 | 0
	test.ExpectEquality(t, got, want)
}

func TestEncodeSPImm7W(t *testing.T) {
	e := findEntry(t, "add", asm.FamilySPImm7W)
	got := assembleOne(t, "add sp, #16")
	want := e.Opcode<<7 | 4 // #16 / 4 == 4
	test.ExpectEquality(t, got, want)
}

// a mnemonic with more than one catalog row (adds) must pick the row whose
// family matches the resolved shape, not just the first row in the table
func TestEncodeDisambiguatesMultiRowMnemonic(t *testing.T) {
	regWord := assembleOne(t, "adds r1, r2, r3")
	immWord := assembleOne(t, "adds r1, r2, #5")
	test.ExpectInequality(t, regWord, immWord)
}

func TestEncodeRAM(t *testing.T) {
	words := asm.EncodeRAM([]byte{0x41, 0x00, 0xff})
	test.ExpectEquality(t, words, []uint16{0x41, 0x00, 0xff})
}
