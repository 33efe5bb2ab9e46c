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

func TestAssembleEmptyProgram(t *testing.T) {
	prog, err := asm.Assemble("")
	test.ExpectedSuccess(t, err)
	test.ExpectEquality(t, prog.ROM, "v2.0 raw\n")
	test.ExpectEquality(t, prog.RAM, "v2.0 raw\n")
}

func TestAssembleROMOnly(t *testing.T) {
	prog, err := asm.Assemble("movs r0, #1\nmovs r1, #2")
	test.ExpectedSuccess(t, err)
	test.ExpectEquality(t, prog.RAM, "v2.0 raw\n")

	// two movs words, 4-digit lowercase hex, space separated
	lines := prog.ROM
	test.ExpectEquality(t, lines[:9], "v2.0 raw\n")
	test.ExpectEquality(t, len(lines[9:]), 9) // "xxxx xxxx"
}

func TestAssemblePacksROMAndRAM(t *testing.T) {
	prog, err := asm.Assemble("ldr r0, mystr\nmystr:\n.asciz \"hi\"")
	test.ExpectedSuccess(t, err)
	test.ExpectEquality(t, prog.ROM, "v2.0 raw\n2000")
	test.ExpectEquality(t, prog.RAM, "v2.0 raw\n0068 0069")
}

// a parse error anywhere in the pipeline aborts the whole assembly
func TestAssemblePropagatesParseError(t *testing.T) {
	_, err := asm.Assemble("frobnicate r0, r1")
	test.ExpectedFailure(t, err)
}

func TestAssemblePropagatesLayoutError(t *testing.T) {
	_, err := asm.Assemble("b nosuchlabel")
	test.ExpectedFailure(t, err)
}
