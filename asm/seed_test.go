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
	"strings"
	"testing"

	"github.com/jetsetilly/thumbasm/asm"
	"github.com/jetsetilly/thumbasm/errors"
	"github.com/jetsetilly/thumbasm/test"
)

// hexImage builds the "v2.0 raw" text a Program field would hold from a
// space-separated list of 4-digit words, for comparison against the
// committed seed-scenario vectors.
func hexImage(words string) string {
	if words == "" {
		return "v2.0 raw\n"
	}
	return "v2.0 raw\n" + words
}

func TestSeedSingleShift(t *testing.T) {
	prog, err := asm.Assemble("lsls r4, r3, #7")
	test.ExpectedSuccess(t, err)
	test.ExpectEquality(t, prog.ROM, hexImage("01dc"))
}

// the conditional-jump program from the repository's own branch test,
// exercising mixed-case condition mnemonics, forward and backward
// branches, and rsbs negation
func TestSeedBranchHeavyProgram(t *testing.T) {
	src := strings.Join([]string{
		"movs r0,#0", "movs r1,#1", ".goto:", "movs r2,#20", "cmp r0,r1",
		"bMI .then1", "b .endif1", ".then1:", "rsbs r2,r2,#0", ".endif1:",
		"cmp r2,r1", "bLT .then2", "b .endif2", ".then2:", "movs r0,#50",
		"b .goto", ".endif2:", "adds r3,r0,r2",
	}, "\n")

	prog, err := asm.Assemble(src)
	test.ExpectedSuccess(t, err)
	test.ExpectEquality(t, prog.ROM, hexImage(
		"2000 2101 2214 4288 d4ff e7ff 4252 428a dbff e000 2032 e7f4 1883"))
}

func TestSeedSPArithmetic(t *testing.T) {
	prog, err := asm.Assemble("add sp, #16\nsub sp, #4")
	test.ExpectedSuccess(t, err)
	test.ExpectEquality(t, prog.ROM, hexImage("b004 b081"))
}

func TestSeedLoadStoreScenario(t *testing.T) {
	src := strings.Join([]string{
		"movs r0,#170", "movs r1,#255", "add sp,#16", "str r0,[sp,#4]",
		"str r1,[sp]", "sub sp,#4", "ldr r2,[sp,#4]",
	}, "\n")

	prog, err := asm.Assemble(src)
	test.ExpectedSuccess(t, err)
	test.ExpectEquality(t, prog.ROM, hexImage("20aa 21ff b004 9001 9100 b081 9a01"))
}

func TestSeedStringInRAM(t *testing.T) {
	src := "string_label:\n.asciz \"Hello, world!\"\n.end:\nb .end"

	prog, err := asm.Assemble(src)
	test.ExpectedSuccess(t, err)
	test.ExpectEquality(t, prog.ROM, hexImage("e7fd"))
	test.ExpectEquality(t, prog.RAM, hexImage(
		"0048 0065 006c 006c 006f 002c 0020 0077 006f 0072 006c 0064 0021"))
}

func TestSeedLabelNotFound(t *testing.T) {
	_, err := asm.Assemble("b .nowhere")
	test.ExpectedFailure(t, err)
	test.ExpectEquality(t, errors.Is(err, errors.LabelNotFound), true)
}
