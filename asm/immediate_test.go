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

func TestImm3Range(t *testing.T) {
	_, err := asm.NewImm3(0)
	test.ExpectedSuccess(t, err)

	_, err = asm.NewImm3(7)
	test.ExpectedSuccess(t, err)

	_, err = asm.NewImm3(8)
	test.ExpectedFailure(t, err)
}

func TestImm5Range(t *testing.T) {
	_, err := asm.NewImm5(0)
	test.ExpectedSuccess(t, err)

	_, err = asm.NewImm5(31)
	test.ExpectedSuccess(t, err)

	_, err = asm.NewImm5(32)
	test.ExpectedFailure(t, err)
}

func TestImm8Range(t *testing.T) {
	_, err := asm.NewImm8(0)
	test.ExpectedSuccess(t, err)

	_, err = asm.NewImm8(255)
	test.ExpectedSuccess(t, err)

	_, err = asm.NewImm8(256)
	test.ExpectedFailure(t, err)
}

// the word-scaled immediates reject anything that isn't a multiple of 4,
// as well as values beyond their scaled range
func TestImm7WScaling(t *testing.T) {
	_, err := asm.NewImm7W(0)
	test.ExpectedSuccess(t, err)

	_, err = asm.NewImm7W(508)
	test.ExpectedSuccess(t, err)

	_, err = asm.NewImm7W(512)
	test.ExpectedFailure(t, err)

	_, err = asm.NewImm7W(6)
	test.ExpectedFailure(t, err)
}

func TestImm8WScaling(t *testing.T) {
	_, err := asm.NewImm8W(0)
	test.ExpectedSuccess(t, err)

	_, err = asm.NewImm8W(1020)
	test.ExpectedSuccess(t, err)

	_, err = asm.NewImm8W(1024)
	test.ExpectedFailure(t, err)

	_, err = asm.NewImm8W(3)
	test.ExpectedFailure(t, err)
}

// signed immediates cover the two's-complement range on both sides of zero
func TestSImm8Range(t *testing.T) {
	_, err := asm.NewSImm8(-128)
	test.ExpectedSuccess(t, err)

	_, err = asm.NewSImm8(127)
	test.ExpectedSuccess(t, err)

	_, err = asm.NewSImm8(-129)
	test.ExpectedFailure(t, err)

	_, err = asm.NewSImm8(128)
	test.ExpectedFailure(t, err)
}

func TestSImm11Range(t *testing.T) {
	_, err := asm.NewSImm11(-1024)
	test.ExpectedSuccess(t, err)

	_, err = asm.NewSImm11(1023)
	test.ExpectedSuccess(t, err)

	_, err = asm.NewSImm11(-1025)
	test.ExpectedFailure(t, err)

	_, err = asm.NewSImm11(1024)
	test.ExpectedFailure(t, err)
}
