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

import (
	"strings"

	"github.com/jetsetilly/thumbasm/errors"
)

// Register is one of the eight general-purpose low registers plus the two
// special registers the catalog accepts in dedicated operand positions.
type Register uint8

const (
	R0 Register = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	SP
	PC
)

func (r Register) String() string {
	switch r {
	case SP:
		return "sp"
	case PC:
		return "pc"
	default:
		return "r" + string(rune('0'+int(r)))
	}
}

// ParseRegister accepts register names case-insensitively. Only r0-r7, sp
// and pc are recognised; r8 and above are rejected, matching the ARMv6-M
// low-register subset this catalog encodes.
func ParseRegister(s string) (Register, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "sp":
		return SP, nil
	case "pc":
		return PC, nil
	}

	if len(s) == 2 && s[0] == 'r' && s[1] >= '0' && s[1] <= '7' {
		return Register(s[1] - '0'), nil
	}

	return 0, errors.Errorf(errors.BadRegister, s)
}

// Low reports whether r is one of r0-r7 - the only registers the catalog's
// 3-bit register fields may hold. sp and pc are routed through dedicated
// opcodes (add/sub sp, ldr/str [sp, #imm]) rather than through a generic
// register field.
func (r Register) Low() bool {
	return r <= R7
}

// bits returns the 3-bit encoding of a low register. Callers must have
// already checked Low(); catalog entries that accept sp or pc never call
// this on those values.
func (r Register) bits() uint16 {
	return uint16(r) & 0x7
}
