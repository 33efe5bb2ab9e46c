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

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"

	"github.com/jetsetilly/thumbasm/asm"
	"github.com/jetsetilly/thumbasm/debugger/terminal/colorterm/easyterm"
	"github.com/jetsetilly/thumbasm/debugger/terminal/colorterm/easyterm/ansi"
	"github.com/jetsetilly/thumbasm/errors"
	"github.com/jetsetilly/thumbasm/logger"
	"github.com/jetsetilly/thumbasm/modalflag"
	"github.com/jetsetilly/thumbasm/paths"
)

const applicationName = "thumbasm"

// centralLog is the capped log every mode function records to. Nothing
// drains it by default - it exists so a future -verbose flag (or the repl's
// own error history) has somewhere to read from without threading a logger
// through every call.
var centralLog = logger.NewLogger(500)

func main() {
	if err := mainLoop(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", applicationName, err)
		os.Exit(1)
	}
}

func mainLoop(args []string) error {
	md := modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.AddSubModes("ASSEMBLE", "PRINT", "REPL", "LIST")

	res, err := md.Parse()
	switch res {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	switch md.Mode() {
	case "PRINT":
		return printMode(md.RemainingArgs())
	case "REPL":
		return replMode()
	case "LIST":
		return listMode(md.RemainingArgs())
	default:
		// no sub-mode given on the command line - assemble is the default,
		// matching AddSubModes' first entry.
		return assembleMode(md.RemainingArgs())
	}
}

// assembleMode implements the "assemble" CLI contract: path is a single
// file or a directory. For a directory every *.s file it contains
// (non-recursively) is assembled; for a single file, just that file. Each
// source produces a sibling <stem>.rom.bin and <stem>.ram.bin. An I/O or
// assembly error for one file is reported and the batch continues; the
// overall exit is non-zero if anything failed.
func assembleMode(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("assemble requires a single file or directory argument")
	}

	info, err := os.Stat(args[0])
	if err != nil {
		return errors.Errorf(errors.IOError, err)
	}

	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(args[0])
		if err != nil {
			return errors.Errorf(errors.IOError, err)
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".s" {
				continue
			}
			files = append(files, filepath.Join(args[0], e.Name()))
		}
	} else {
		files = []string{args[0]}
	}

	failed := false
	for _, f := range files {
		if err := assembleFile(f); err != nil {
			centralLog.Log(logger.Allow, "assemble", err)
			fmt.Fprintf(os.Stderr, "%s: %s\n", f, err)
			failed = true
		}
	}

	if failed {
		return fmt.Errorf("one or more files failed to assemble")
	}
	return nil
}

func assembleFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Errorf(errors.IOError, err)
	}

	prog, err := asm.Assemble(string(src))
	if err != nil {
		return err
	}

	stem := strings.TrimSuffix(path, filepath.Ext(path))

	if err := os.WriteFile(stem+".rom.bin", []byte(prog.ROM), 0644); err != nil {
		return errors.Errorf(errors.IOError, err)
	}
	if err := os.WriteFile(stem+".ram.bin", []byte(prog.RAM), 0644); err != nil {
		return errors.Errorf(errors.IOError, err)
	}

	return nil
}

// printMode implements the "print" CLI contract: the remaining arguments,
// joined with newlines, are treated as a small program. The resolved
// instructions are shown in three forms - parsed (mnemonic/operands),
// raw-bits, and hex - the same three a reader needs to check an encoding by
// hand.
func printMode(args []string) error {
	fs := modalflag.Modes{Output: os.Stdout}
	fs.NewArgs(args)
	memvizPath := fs.AddString("memviz", "", "write a graphviz dump of the resolved instructions to this path")

	res, err := fs.Parse()
	switch res {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	rest := fs.RemainingArgs()
	if len(rest) == 0 {
		return fmt.Errorf("print requires an instruction, or small program, argument")
	}

	return printSource(strings.Join(rest, "\n"), *memvizPath)
}

func printSource(source string, memvizPath string) error {
	lines, err := asm.Parse(source)
	if err != nil {
		return err
	}

	resolved, ramBytes, err := asm.Layout(lines)
	if err != nil {
		return err
	}

	if memvizPath != "" {
		if err := writeMemviz(memvizPath, resolved); err != nil {
			return err
		}
	}

	romWords, err := asm.Encode(resolved)
	if err != nil {
		return err
	}
	ramWords := asm.EncodeRAM(ramBytes)

	fmt.Println("parsed:")
	if err := asm.List(os.Stdout, romWords); err != nil {
		return err
	}

	fmt.Println("raw bits:")
	for _, w := range romWords {
		fmt.Printf("%016b\n", w)
	}

	fmt.Println("hex:")
	for _, w := range romWords {
		fmt.Printf("%04x\n", w)
	}

	if len(ramWords) > 0 {
		fmt.Println("ram:")
		if err := asm.List(os.Stdout, ramWords); err != nil {
			return err
		}
	}

	return nil
}

func writeMemviz(path string, resolved []asm.ResolvedInstr) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Errorf(errors.IOError, err)
	}
	defer f.Close()

	memviz.Map(f, resolved)

	return nil
}

// listMode implements the domain-stack "list" CLI contract: each argument
// is a "v2.0 raw" image (a .rom.bin or .ram.bin produced by assemble) which
// is read back and handed to asm.List for a reverse-catalog disassembly.
func listMode(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("list requires at least one .rom.bin or .ram.bin argument")
	}

	for _, path := range args {
		words, err := readImage(path)
		if err != nil {
			return err
		}

		fmt.Printf("%s:\n", path)
		if err := asm.List(os.Stdout, words); err != nil {
			return err
		}
	}

	return nil
}

func readImage(path string) ([]uint16, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf(errors.IOError, err)
	}

	parts := strings.SplitN(string(data), "\n", 2)
	if strings.TrimSpace(parts[0]) != "v2.0 raw" {
		return nil, fmt.Errorf("not a v2.0 raw image (%s)", path)
	}

	var body string
	if len(parts) == 2 {
		body = parts[1]
	}

	fields := strings.Fields(body)
	words := make([]uint16, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("malformed hex word %q in %s", f, path)
		}
		words[i] = uint16(v)
	}

	return words, nil
}

// replMode implements "Interactive print loop; terminate on input exit."
// The terminal is put into cbreak mode so every keystroke is seen as it is
// typed, which means echo and backspace have to be handled by hand. Every
// non-empty line other than "exit", successful or not, is appended to a
// history file so a session can be replayed by hand later; nothing reads it
// back.
func replMode() error {
	var et easyterm.EasyTerm
	if err := et.Initialise(os.Stdin, os.Stdout); err != nil {
		return err
	}
	defer et.CleanUp()

	et.CBreakMode()
	defer et.CanonicalMode()

	history, err := openHistory()
	if err != nil {
		centralLog.Log(logger.Allow, "repl", err)
		history = nil
	}
	if history != nil {
		defer history.Close()
	}

	et.TermPrint(fmt.Sprintf("%s repl - enter an instruction, \"exit\" to quit\n", applicationName))
	et.Flush()

	r := bufio.NewReader(os.Stdin)
	for {
		et.TermPrint("> ")
		et.Flush()

		line, err := replReadLine(&et, r)
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		switch line {
		case "exit":
			return nil
		case "":
			continue
		}

		if history != nil {
			fmt.Fprintln(history, line)
		}

		if err := printSource(line, ""); err != nil {
			et.TermPrint(fmt.Sprintf("%s%s%s\n", ansi.Pens["red"], err, ansi.NormalPen))
			et.Flush()
		}
	}
}

// openHistory opens (creating if necessary) the repl's append-only history
// file under the tool's dotfile directory.
func openHistory() (*os.File, error) {
	path, err := paths.ResourcePath("", "history")
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Errorf(errors.IOError, err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Errorf(errors.IOError, err)
	}
	return f, nil
}

// replReadLine reads one line a byte at a time, echoing printable input and
// handling backspace/delete itself, since cbreak mode takes the kernel's own
// line editing out of play.
func replReadLine(et *easyterm.EasyTerm, r *bufio.Reader) (string, error) {
	var buf []byte

	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}

		switch b {
		case '\n', '\r':
			et.TermPrint("\n")
			et.Flush()
			return string(buf), nil

		case 127, '\b':
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				et.TermPrint("\b \b")
				et.Flush()
			}

		default:
			buf = append(buf, b)
			et.TermPrint(string(b))
			et.Flush()
		}
	}
}
