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

// Every immediate type below materialises one (bit-width, wide-flag) pair
// from the Immediate<N,WIDE> / SignedImmediate<N,WIDE> family as a distinct
// named Go type, per the construct/bits/width contract. The range check
// happens once, at construction; nothing downstream re-validates.

// Imm3 is a plain 3-bit unsigned immediate (add/sub with 3-bit immediate).
type Imm3 struct{ raw uint16 }

func NewImm3(v uint16) (Imm3, error) {
	if v > 0x7 {
		return Imm3{}, errors.Errorf(errors.OutOfRange, v, "Imm3")
	}
	return Imm3{raw: v}, nil
}

func (i Imm3) bits() uint16 { return i.raw }
func (Imm3) width() int     { return 3 }

// Imm5 is a plain 5-bit unsigned immediate (shifts, ldrb offset).
type Imm5 struct{ raw uint16 }

func NewImm5(v uint16) (Imm5, error) {
	if v > 0x1f {
		return Imm5{}, errors.Errorf(errors.OutOfRange, v, "Imm5")
	}
	return Imm5{raw: v}, nil
}

func (i Imm5) bits() uint16 { return i.raw }
func (Imm5) width() int     { return 5 }

// Imm7W is a 7-bit field holding a word-scaled (WIDE) value: the source
// value must be a multiple of 4 and the field stores value/4.
type Imm7W struct{ raw uint16 }

func NewImm7W(v uint16) (Imm7W, error) {
	if v%4 != 0 || v > (1<<9)-1 {
		return Imm7W{}, errors.Errorf(errors.OutOfRange, v, "Imm7W")
	}
	return Imm7W{raw: v / 4}, nil
}

func (i Imm7W) bits() uint16 { return i.raw }
func (Imm7W) width() int     { return 7 }

// Imm8 is a plain 8-bit unsigned immediate (movs/cmp/adds/subs immediate
// forms, the resolved Ldr3 RAM-offset rewrite).
type Imm8 struct{ raw uint16 }

func NewImm8(v uint16) (Imm8, error) {
	if v > 0xff {
		return Imm8{}, errors.Errorf(errors.OutOfRange, v, "Imm8")
	}
	return Imm8{raw: v}, nil
}

func (i Imm8) bits() uint16 { return i.raw }
func (Imm8) width() int     { return 8 }

// Imm8W is an 8-bit field holding a word-scaled value (sp-relative
// ldr/str): the source value must be a multiple of 4 in [0, 1023].
type Imm8W struct{ raw uint16 }

func NewImm8W(v uint16) (Imm8W, error) {
	if v%4 != 0 || v > (1<<10)-1 {
		return Imm8W{}, errors.Errorf(errors.OutOfRange, v, "Imm8W")
	}
	return Imm8W{raw: v / 4}, nil
}

func (i Imm8W) bits() uint16 { return i.raw }
func (Imm8W) width() int     { return 8 }

// SImm8 is an 8-bit two's-complement signed immediate (conditional branch
// displacement).
type SImm8 struct{ raw uint16 }

func NewSImm8(v int32) (SImm8, error) {
	if v < -128 || v > 127 {
		return SImm8{}, errors.Errorf(errors.JumpTooFar, "SImm8", v)
	}
	return SImm8{raw: uint16(v) & 0xff}, nil
}

func (i SImm8) bits() uint16 { return i.raw }
func (SImm8) width() int     { return 8 }

// SImm11 is an 11-bit two's-complement signed immediate (unconditional
// branch displacement).
type SImm11 struct{ raw uint16 }

func NewSImm11(v int32) (SImm11, error) {
	if v < -1024 || v > 1023 {
		return SImm11{}, errors.Errorf(errors.JumpTooFar, "SImm11", v)
	}
	return SImm11{raw: uint16(v) & 0x7ff}, nil
}

func (i SImm11) bits() uint16 { return i.raw }
func (SImm11) width() int     { return 11 }
