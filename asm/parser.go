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
	"regexp"
	"strconv"
	"strings"

	"github.com/jetsetilly/thumbasm/errors"
)

// LineKind tags what a source line turned into.
type LineKind int

const (
	LineNone LineKind = iota
	LineLabel
	LineString
	LineInstr
	LineLong
)

// FullInstr is a mnemonic paired with its parsed operand shape.
type FullInstr struct {
	Mnemonic string
	Shape    ArgShape
}

// ParsedLine is the parser's output unit: exactly one of {Instr, Label,
// String, None}. Source is kept for diagnostics only.
type ParsedLine struct {
	Kind   LineKind
	Label  string
	Bytes  []byte
	Instr  FullInstr
	Source string
}

// movRewrite implements the "mov(s)? Rd, Rm -> lsls Rd, Rm, #0" macro.
var movRewrite = regexp.MustCompile(`(?i)^\s*movs?\s+(r[0-7])\s*,\s*(r[0-7])\s*$`)

// ldrbRewrite implements the "ldrb Rt, [Rn, Rm] -> adds r6, Rn, Rm / ldrb
// Rt, [r6]" macro. It clobbers r6, exactly as original_source's equivalent
// regex-based preprocessing pass does.
var ldrbRewrite = regexp.MustCompile(`(?i)^(\s*)ldrb\s+(r[0-7])\s*,\s*\[\s*(r[0-7])\s*,\s*(r[0-7])\s*\]\s*$`)

// equRewrite recognises ".equ NAME, VALUE" / ".set NAME, VALUE".
var equRewrite = regexp.MustCompile(`(?i)^\s*\.(?:equ|set)\s+([A-Za-z_][A-Za-z0-9_]*)\s*,\s*(-?\d+)\s*$`)

// preprocess runs the two macro rewrites and the .equ/.set constant
// substitution pass over the raw source, before any line is tokenised.
// This is pure text rewriting, matching the house style of
// original_source/src/parser.rs's own regex-based preprocess step.
func preprocess(source string) string {
	lines := strings.Split(source, "\n")

	// First pass: collect .equ/.set bindings and drop those lines.
	consts := map[string]string{}
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if m := equRewrite.FindStringSubmatch(line); m != nil {
			consts[strings.ToUpper(m[1])] = m[2]
			continue
		}
		kept = append(kept, line)
	}

	// Second pass: macro rewrites plus constant substitution in immediate
	// operand position ("#NAME").
	out := make([]string, 0, len(kept))
	for _, line := range kept {
		line = substituteConsts(line, consts)

		if m := ldrbRewrite.FindStringSubmatch(line); m != nil {
			indent, rt, rn, rm := m[1], m[2], m[3], m[4]
			out = append(out, indent+"adds r6, "+rn+", "+rm)
			out = append(out, indent+"ldrb "+rt+", [r6]")
			continue
		}

		if m := movRewrite.FindStringSubmatch(line); m != nil {
			out = append(out, "lsls "+m[1]+", "+m[2]+", #0")
			continue
		}

		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

var constRef = regexp.MustCompile(`#([A-Za-z_][A-Za-z0-9_]*)`)

func substituteConsts(line string, consts map[string]string) string {
	if len(consts) == 0 {
		return line
	}
	return constRef.ReplaceAllStringFunc(line, func(tok string) string {
		name := strings.ToUpper(tok[1:])
		if v, ok := consts[name]; ok {
			return "#" + v
		}
		return tok
	})
}

// unescapeString applies the two escape sequences original_source's
// unescape_string recognises. Other backslash sequences pass through
// unchanged - an open question in spec.md §9, resolved here as pass-through.
func unescapeString(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}

// Parse converts an entire source file into a stream of ParsedLine values.
// Parsing is fatal-on-first-error: there is no recovery policy (spec.md
// §7), so the first bad line aborts the whole program.
func Parse(source string) ([]ParsedLine, error) {
	source = preprocess(source)

	var out []ParsedLine
	for _, raw := range strings.Split(source, "\n") {
		line := stripComment(raw)
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}

		if strings.EqualFold(trimmed, "push") || strings.HasPrefix(strings.ToLower(trimmed), "push ") {
			continue
		}

		if label, ok := parseLabelDef(trimmed); ok {
			out = append(out, ParsedLine{Kind: LineLabel, Label: label, Source: raw})
			continue
		}

		if strings.HasPrefix(trimmed, ".") {
			pl, err := parseDirective(trimmed, raw)
			if err != nil {
				return nil, err
			}
			if pl != nil {
				out = append(out, *pl)
			}
			continue
		}

		pl, err := parseInstrLine(trimmed, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, *pl)
	}

	return out, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '@'); i >= 0 {
		return line[:i]
	}
	return line
}

func parseLabelDef(trimmed string) (string, bool) {
	if !strings.HasSuffix(trimmed, ":") {
		return "", false
	}
	name := strings.TrimSuffix(trimmed, ":")
	name = strings.TrimPrefix(name, ".")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	return name, true
}

// parseDirective handles .asciz/.string (string literals) and .long
// (handled later by layout's collapse pass but recognised here so it is
// not treated as an ordinary dropped directive); every other directive,
// including .align, is silently dropped.
func parseDirective(trimmed, raw string) (*ParsedLine, error) {
	lower := strings.ToLower(trimmed)

	switch {
	case strings.HasPrefix(lower, ".asciz") || strings.HasPrefix(lower, ".string"):
		rest := trimmed[strings.IndexByte(trimmed, ' ')+1:]
		s, err := parseQuotedString(strings.TrimSpace(rest))
		if err != nil {
			return nil, err
		}
		return &ParsedLine{Kind: LineString, Bytes: []byte(s), Source: raw}, nil

	case strings.HasPrefix(lower, ".long"):
		name := strings.TrimSpace(trimmed[len(".long"):])
		return &ParsedLine{Kind: LineLong, Label: strings.TrimPrefix(name, "."), Source: raw}, nil

	default:
		return nil, nil
	}
}

func parseQuotedString(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", errors.Errorf(errors.UnterminatedString, s)
	}
	return unescapeString(s[1 : len(s)-1]), nil
}

// parseInstrLine splits "mnemonic operands" and tries every catalog row
// for that mnemonic in order, accepting the first that parses the operand
// text entirely.
func parseInstrLine(trimmed, raw string) (*ParsedLine, error) {
	mnemonic, operands := splitMnemonic(trimmed)

	rows := rowsFor(strings.ToLower(mnemonic))
	if len(rows) == 0 {
		return nil, errors.Errorf(errors.ParseError, raw, "unrecognised mnemonic")
	}

	var lastErr error
	for _, row := range rows {
		shape, err := row.parse(operands)
		if err == nil {
			return &ParsedLine{Kind: LineInstr, Instr: FullInstr{Mnemonic: row.Mnemonic, Shape: shape}, Source: raw}, nil
		}
		lastErr = err
	}

	return nil, errors.Errorf(errors.ParseError, raw, lastErr.Error())
}

func splitMnemonic(trimmed string) (string, string) {
	i := strings.IndexAny(trimmed, " \t")
	if i < 0 {
		return trimmed, ""
	}
	return trimmed[:i], strings.TrimSpace(trimmed[i+1:])
}

// splitTopLevel splits operand text on commas that are not nested inside
// [...] brackets, since a bracketed memory operand may itself contain a
// comma ("[sp, #4]").
func splitTopLevel(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(s[start:]))
	return out
}

func parseImmToken(tok string) (int64, error) {
	tok = strings.TrimSpace(tok)
	if !strings.HasPrefix(tok, "#") {
		return 0, errors.Errorf(errors.ParseError, tok, "expected immediate")
	}
	return strconv.ParseInt(tok[1:], 0, 32)
}

func parseReg(tok string) (Register, error) {
	return ParseRegister(strings.TrimSpace(tok))
}

func requireLow(r Register, tok string) error {
	if !r.Low() {
		return errors.Errorf(errors.BadRegister, tok)
	}
	return nil
}

// --- per-shape operand parsers, one per catalog row family ---

func parseRdRmImm5(operands string) (ArgShape, error) {
	ops := splitTopLevel(operands)
	if len(ops) != 3 {
		return nil, errors.Errorf(errors.ParseError, operands, "expected Rd, Rm, #imm5")
	}
	rd, err := parseReg(ops[0])
	if err != nil {
		return nil, err
	}
	rm, err := parseReg(ops[1])
	if err != nil {
		return nil, err
	}
	if err := requireLow(rd, ops[0]); err != nil {
		return nil, err
	}
	if err := requireLow(rm, ops[1]); err != nil {
		return nil, err
	}
	v, err := parseImmToken(ops[2])
	if err != nil {
		return nil, err
	}
	imm, err := NewImm5(uint16(v))
	if err != nil {
		return nil, err
	}
	return RdRmImm5{Rd: rd, Rm: rm, Imm: imm}, nil
}

func parseRdRnRm(operands string) (ArgShape, error) {
	ops := splitTopLevel(operands)
	if len(ops) != 3 {
		return nil, errors.Errorf(errors.ParseError, operands, "expected Rd, Rn, Rm")
	}
	regs := make([]Register, 3)
	for i, tok := range ops {
		r, err := parseReg(tok)
		if err != nil {
			return nil, err
		}
		if err := requireLow(r, tok); err != nil {
			return nil, err
		}
		regs[i] = r
	}
	return RdRnRm{Rd: regs[0], Rn: regs[1], Rm: regs[2]}, nil
}

func parseRdRnImm3(operands string) (ArgShape, error) {
	ops := splitTopLevel(operands)
	if len(ops) != 3 {
		return nil, errors.Errorf(errors.ParseError, operands, "expected Rd, Rn, #imm3")
	}
	rd, err := parseReg(ops[0])
	if err != nil {
		return nil, err
	}
	rn, err := parseReg(ops[1])
	if err != nil {
		return nil, err
	}
	if err := requireLow(rd, ops[0]); err != nil {
		return nil, err
	}
	if err := requireLow(rn, ops[1]); err != nil {
		return nil, err
	}
	v, err := parseImmToken(ops[2])
	if err != nil {
		return nil, err
	}
	imm, err := NewImm3(uint16(v))
	if err != nil {
		return nil, err
	}
	return RdRnImm3{Rd: rd, Rn: rn, Imm: imm}, nil
}

func parseRdImm8(operands string) (ArgShape, error) {
	ops := splitTopLevel(operands)
	if len(ops) != 2 {
		return nil, errors.Errorf(errors.ParseError, operands, "expected Rd, #imm8")
	}
	rd, err := parseReg(ops[0])
	if err != nil {
		return nil, err
	}
	if err := requireLow(rd, ops[0]); err != nil {
		return nil, err
	}
	v, err := parseImmToken(ops[1])
	if err != nil {
		return nil, err
	}
	imm, err := NewImm8(uint16(v))
	if err != nil {
		return nil, err
	}
	return RdImm8{Rd: rd, Imm: imm}, nil
}

func parseTwoRegs(operands string) (ArgShape, error) {
	ops := splitTopLevel(operands)
	if len(ops) != 2 {
		return nil, errors.Errorf(errors.ParseError, operands, "expected Rd, Rm")
	}
	rd, err := parseReg(ops[0])
	if err != nil {
		return nil, err
	}
	rm, err := parseReg(ops[1])
	if err != nil {
		return nil, err
	}
	if err := requireLow(rd, ops[0]); err != nil {
		return nil, err
	}
	if err := requireLow(rm, ops[1]); err != nil {
		return nil, err
	}
	return TwoRegs{Rd: rd, Rm: rm}, nil
}

func parseMuls(operands string) (ArgShape, error) {
	ops := splitTopLevel(operands)
	if len(ops) != 3 {
		return nil, errors.Errorf(errors.ParseError, operands, "expected Rdm, Rn, Rdm")
	}
	rdm, err := parseReg(ops[0])
	if err != nil {
		return nil, err
	}
	rn, err := parseReg(ops[1])
	if err != nil {
		return nil, err
	}
	rdm2, err := parseReg(ops[2])
	if err != nil {
		return nil, err
	}
	if rdm != rdm2 {
		return nil, errors.Errorf(errors.ParseError, operands, "muls requires first and third register to match")
	}
	if err := requireLow(rdm, ops[0]); err != nil {
		return nil, err
	}
	if err := requireLow(rn, ops[1]); err != nil {
		return nil, err
	}
	return TwoRegs{Rd: rdm, Rm: rn}, nil
}

func parseRsbs(operands string) (ArgShape, error) {
	ops := splitTopLevel(operands)
	if len(ops) != 3 {
		return nil, errors.Errorf(errors.ParseError, operands, "expected Rd, Rn, #0")
	}
	rd, err := parseReg(ops[0])
	if err != nil {
		return nil, err
	}
	rn, err := parseReg(ops[1])
	if err != nil {
		return nil, err
	}
	v, err := parseImmToken(ops[2])
	if err != nil {
		return nil, err
	}
	if v != 0 {
		return nil, errors.Errorf(errors.ParseError, operands, "rsbs requires a literal #0 third operand")
	}
	if err := requireLow(rd, ops[0]); err != nil {
		return nil, err
	}
	if err := requireLow(rn, ops[1]); err != nil {
		return nil, err
	}
	return TwoRegs{Rd: rd, Rm: rn}, nil
}

// parseBracketSP parses "[sp]" or "[sp, #imm]" and returns the immediate
// value (0 if omitted).
func parseBracketSP(tok string) (int64, bool) {
	tok = strings.TrimSpace(tok)
	if !strings.HasPrefix(tok, "[") || !strings.HasSuffix(tok, "]") {
		return 0, false
	}
	inner := strings.TrimSpace(tok[1 : len(tok)-1])
	parts := splitTopLevel(inner)
	if len(parts) == 0 || !strings.EqualFold(strings.TrimSpace(parts[0]), "sp") {
		return 0, false
	}
	if len(parts) == 1 {
		return 0, true
	}
	v, err := parseImmToken(parts[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseRtSpImm8W(operands string) (ArgShape, error) {
	ops := splitTopLevel(operands)
	if len(ops) != 2 {
		return nil, errors.Errorf(errors.ParseError, operands, "expected Rt, [sp, #imm8]")
	}
	rt, err := parseReg(ops[0])
	if err != nil {
		return nil, err
	}
	if err := requireLow(rt, ops[0]); err != nil {
		return nil, err
	}
	v, ok := parseBracketSP(ops[1])
	if !ok {
		return nil, errors.Errorf(errors.ParseError, operands, "expected [sp, #imm8]")
	}
	imm, err := NewImm8W(uint16(v))
	if err != nil {
		return nil, err
	}
	return RtImm8W{Rt: rt, Imm: imm}, nil
}

// parseBracketRegImm parses "[Rn]" or "[Rn, #imm5]".
func parseBracketRegImm(tok string) (Register, int64, bool) {
	tok = strings.TrimSpace(tok)
	if !strings.HasPrefix(tok, "[") || !strings.HasSuffix(tok, "]") {
		return 0, 0, false
	}
	inner := strings.TrimSpace(tok[1 : len(tok)-1])
	parts := splitTopLevel(inner)
	if len(parts) == 0 {
		return 0, 0, false
	}
	rn, err := parseReg(parts[0])
	if err != nil || !rn.Low() {
		return 0, 0, false
	}
	if len(parts) == 1 {
		return rn, 0, true
	}
	v, err := parseImmToken(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return rn, v, true
}

func parseRtRnImm5(operands string) (ArgShape, error) {
	ops := splitTopLevel(operands)
	if len(ops) != 2 {
		return nil, errors.Errorf(errors.ParseError, operands, "expected Rt, [Rn, #imm5]")
	}
	rt, err := parseReg(ops[0])
	if err != nil {
		return nil, err
	}
	if err := requireLow(rt, ops[0]); err != nil {
		return nil, err
	}
	rn, v, ok := parseBracketRegImm(ops[1])
	if !ok {
		return nil, errors.Errorf(errors.ParseError, operands, "expected [Rn, #imm5]")
	}
	imm, err := NewImm5(uint16(v))
	if err != nil {
		return nil, err
	}
	return RtRnImm5{Rt: rt, Rn: rn, Imm: imm}, nil
}

// parseLdr3 parses "Rt, label" - the PC-relative-literal pseudo-load. It
// fails (falling through to the next catalog row is not applicable here
// since this is the last "ldr" row) whenever the second operand looks like
// a bracketed memory operand, leaving that to parseRtSpImm8W.
func parseLdr3(operands string) (ArgShape, error) {
	ops := splitTopLevel(operands)
	if len(ops) != 2 {
		return nil, errors.Errorf(errors.ParseError, operands, "expected Rt, label")
	}
	rt, err := parseReg(ops[0])
	if err != nil {
		return nil, err
	}
	if err := requireLow(rt, ops[0]); err != nil {
		return nil, err
	}
	label := strings.TrimSpace(ops[1])
	if label == "" || strings.HasPrefix(label, "[") || strings.HasPrefix(label, "#") {
		return nil, errors.Errorf(errors.ParseError, operands, "expected a label name")
	}
	return LabelRef{Rt: rt, Name: strings.TrimPrefix(label, "."), IsLoad: true}, nil
}

func parseSPImm7W(operands string) (ArgShape, error) {
	ops := splitTopLevel(operands)
	if len(ops) != 2 {
		return nil, errors.Errorf(errors.ParseError, operands, "expected sp, #imm7")
	}
	if !strings.EqualFold(strings.TrimSpace(ops[0]), "sp") {
		return nil, errors.Errorf(errors.ParseError, operands, "expected sp as first operand")
	}
	v, err := parseImmToken(ops[1])
	if err != nil {
		return nil, err
	}
	imm, err := NewImm7W(uint16(v))
	if err != nil {
		return nil, err
	}
	return SPImm7W{Imm: imm}, nil
}

func parseLabelRef(operands string) (ArgShape, error) {
	label := strings.TrimSpace(operands)
	if label == "" {
		return nil, errors.Errorf(errors.ParseError, operands, "expected a label name")
	}
	return LabelRef{Name: strings.TrimPrefix(label, ".")}, nil
}
