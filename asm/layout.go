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

// ResolvedInstr is an instruction whose operand shape no longer carries any
// LabelRef - every label has been rewritten to its bit-ready immediate
// form by Layout.
type ResolvedInstr struct {
	Mnemonic string
	Shape    ArgShape
	ROMIndex int
}

// ramRun is one label-run + string group lifted out of the main stream
// during RAM extraction.
type ramRun struct {
	labels []string
	bytes  []byte
}

// Layout runs the full label-resolution pipeline described in spec.md
// §4.4: .long collapsing, RAM extraction, ROM/RAM index assignment, and
// instruction resolution. It is ported directly from
// original_source/src/logic.rs's calculate_labels/extract_ram/
// collapse_long/process_lines, re-expressed as sequential slice passes.
func Layout(lines []ParsedLine) ([]ResolvedInstr, []byte, error) {
	lines, longRewrites := collapseLong(lines)

	code, ramRuns := extractRAM(lines)

	romMap := map[string]int{}
	idx := 0
	pendingLabels := 0
	for _, l := range code {
		switch l.Kind {
		case LineLabel:
			romMap[l.Label] = idx
			pendingLabels++
		case LineInstr:
			idx++
		}
	}
	_ = pendingLabels

	ramMap := map[string]int{}
	ramBytes := make([]byte, 0, 64)
	for _, run := range ramRuns {
		offset := len(ramBytes)
		for _, name := range run.labels {
			if _, exists := romMap[name]; exists {
				return nil, nil, errors.Errorf(errors.DuplicateLabel, name)
			}
			ramMap[name] = offset
		}
		ramBytes = append(ramBytes, run.bytes...)
	}

	var resolved []ResolvedInstr
	romIdx := 0
	for _, l := range code {
		if l.Kind != LineInstr {
			continue
		}

		shape := l.Instr.Shape
		mnemonic := l.Instr.Mnemonic

		if ref, ok := shape.(LabelRef); ok {
			name := ref.Name
			if to, ok := longRewrites[name]; ok {
				name = to
			}

			if ref.IsLoad {
				off, ok := ramMap[name]
				if !ok {
					return nil, nil, errors.Errorf(errors.LabelNotFound, name)
				}
				if off > 255 {
					return nil, nil, errors.Errorf(errors.JumpTooFar, name, off)
				}
				imm, err := NewImm8(uint16(off))
				if err != nil {
					return nil, nil, errors.Errorf(errors.JumpTooFar, name, off)
				}
				shape = RdImm8{Rd: ref.Rt, Imm: imm}
				mnemonic = "movs"
			} else {
				target, ok := romMap[name]
				if !ok {
					return nil, nil, errors.Errorf(errors.LabelNotFound, name)
				}
				off := target - romIdx - 3

				if mnemonic == "b" {
					imm, err := NewSImm11(int32(off))
					if err != nil {
						return nil, nil, errors.Errorf(errors.JumpTooFar, name, off)
					}
					shape = UncondBranch{Imm: imm}
				} else {
					imm, err := NewSImm8(int32(off))
					if err != nil {
						return nil, nil, errors.Errorf(errors.JumpTooFar, name, off)
					}
					shape = CondBranch{Imm: imm}
				}
			}
		}

		resolved = append(resolved, ResolvedInstr{Mnemonic: mnemonic, Shape: shape, ROMIndex: romIdx})
		romIdx++
	}

	return resolved, ramBytes, nil
}

// collapseLong implements spec.md §4.4 step 1: every ".long NAME"
// immediately preceded by a label L produces a rewrite L -> NAME for every
// Ldr3 elsewhere referencing L, and the .long line itself is dropped (the
// label L is left in place - it still occupies a ROM position).
func collapseLong(lines []ParsedLine) ([]ParsedLine, map[string]string) {
	rewrites := map[string]string{}
	out := make([]ParsedLine, 0, len(lines))

	for i, l := range lines {
		if l.Kind == LineLong {
			if i > 0 && lines[i-1].Kind == LineLabel {
				rewrites[lines[i-1].Label] = l.Label
			}
			continue
		}
		out = append(out, l)
	}

	return out, rewrites
}

// extractRAM implements spec.md §4.4 step 2: every String line, together
// with the run of Label lines immediately preceding it, is lifted into a
// separate RAM stream in insertion order; those lines are removed from the
// main (ROM-bound) stream.
func extractRAM(lines []ParsedLine) ([]ParsedLine, []ramRun) {
	var code []ParsedLine
	var runs []ramRun

	var pendingLabels []string
	for _, l := range lines {
		switch l.Kind {
		case LineLabel:
			pendingLabels = append(pendingLabels, l.Label)
		case LineString:
			runs = append(runs, ramRun{labels: pendingLabels, bytes: l.Bytes})
			pendingLabels = nil
		default:
			if len(pendingLabels) > 0 {
				for _, name := range pendingLabels {
					code = append(code, ParsedLine{Kind: LineLabel, Label: name})
				}
				pendingLabels = nil
			}
			code = append(code, l)
		}
	}
	if len(pendingLabels) > 0 {
		for _, name := range pendingLabels {
			code = append(code, ParsedLine{Kind: LineLabel, Label: name})
		}
	}

	return code, runs
}
