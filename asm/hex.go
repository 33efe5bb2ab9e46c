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

import "strings"

// header is the logisim "v2.0 raw" file format marker every image begins
// with.
const header = "v2.0 raw\n"

// Program is the pair of logisim memory images an assembled source file
// produces: one for the instruction ROM, one for the data RAM extracted
// from string literals. The two images are always written to separate
// files (rom.bin/ram.bin) - there is no single merged image.
type Program struct {
	ROM string
	RAM string
}

// Assemble runs the full pipeline - parse, layout, encode - and packs the
// result into a Program ready for writing to disk.
func Assemble(source string) (Program, error) {
	lines, err := Parse(source)
	if err != nil {
		return Program{}, err
	}

	resolved, ramBytes, err := Layout(lines)
	if err != nil {
		return Program{}, err
	}

	romWords, err := Encode(resolved)
	if err != nil {
		return Program{}, err
	}

	ramWords := EncodeRAM(ramBytes)

	return Program{
		ROM: packWords(romWords),
		RAM: packWords(ramWords),
	}, nil
}

// packWords renders a sequence of 16-bit code units as a "v2.0 raw" image:
// the header line followed by space-separated 4-digit lowercase hex words.
// An empty image still carries the header and nothing else, matching
// original_source's export_to_logisim (program.len() == 0 still writes the
// header and an empty, trimmed body).
func packWords(words []uint16) string {
	var b strings.Builder
	b.WriteString(header)

	for i, w := range words {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeHex4(&b, w)
	}

	return b.String()
}

const hexDigits = "0123456789abcdef"

// writeHex4 appends the fixed-width 4-digit lowercase hex form of w, the
// same %04x formatting original_source's export_to_logisim uses.
func writeHex4(b *strings.Builder, w uint16) {
	b.WriteByte(hexDigits[(w>>12)&0xf])
	b.WriteByte(hexDigits[(w>>8)&0xf])
	b.WriteByte(hexDigits[(w>>4)&0xf])
	b.WriteByte(hexDigits[w&0xf])
}
