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

package errors

// error messages
const (
	// parser
	ParseError         = "parse error: %v: %v"
	BadRegister        = "parse error: unrecognised register (%v)"
	UnterminatedString = "parse error: unterminated or malformed string literal (%v)"
	OutOfRange         = "parse error: value out of range (%v) for %v"

	// layout / label resolution
	LabelNotFound = "label not found: %v"
	JumpTooFar    = "jump too far: %v (%v)"
	DuplicateLabel = "label defined in both ROM and RAM (%v)"

	// encoder
	CatalogWidth = "catalog error: %v: opcode and operand widths do not sum to 16 bits (%v)"

	// CLI / driver
	IOError = "i/o error: %v"
)
