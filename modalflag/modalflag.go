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

// Package modalflag wraps the standard flag package with the one thing it
// doesn't do: a command with sub-modes, where each mode may define its own
// flags, and -help prints a consistent summary of both.
package modalflag

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// ParseResult reports what Parse() discovered about the command line.
type ParseResult int

const (
	ParseContinue ParseResult = iota
	ParseHelp
	ParseError
)

// Modes wraps a flag.FlagSet with an optional list of sub-modes. Output
// receives -help text; it is also where RemainingArgs()/Mode()/Path() read
// back what Parse() decided.
type Modes struct {
	Output io.Writer

	flagSet *flag.FlagSet
	args    []string

	subModes []string
	mode     string
	path     []string

	remaining []string
}

// NewArgs sets the argument list Parse() will consume, not including the
// program name.
func (m *Modes) NewArgs(args []string) {
	m.args = args
}

func (m *Modes) ensureFlagSet() {
	if m.flagSet == nil {
		m.flagSet = flag.NewFlagSet("", flag.ContinueOnError)
		m.flagSet.SetOutput(io.Discard)
	}
}

// AddBool defines a bool flag for the current mode.
func (m *Modes) AddBool(name string, value bool, usage string) *bool {
	m.ensureFlagSet()
	return m.flagSet.Bool(name, value, usage)
}

// AddString defines a string flag for the current mode.
func (m *Modes) AddString(name string, value string, usage string) *string {
	m.ensureFlagSet()
	return m.flagSet.String(name, value, usage)
}

// AddInt defines an int flag for the current mode.
func (m *Modes) AddInt(name string, value int, usage string) *int {
	m.ensureFlagSet()
	return m.flagSet.Int(name, value, usage)
}

// AddSubModes declares the sub-mode names available at this level. The
// first name is the default, reported in -help text.
func (m *Modes) AddSubModes(modes ...string) {
	m.subModes = modes
}

// Mode returns the sub-mode selected by the most recent Parse(), or the
// empty string if none was selected.
func (m *Modes) Mode() string {
	return m.mode
}

// Path returns every sub-mode selected so far, joined with "/".
func (m *Modes) Path() string {
	return strings.Join(m.path, "/")
}

// RemainingArgs returns whatever args were left over after flags (and any
// selected sub-mode) were consumed.
func (m *Modes) RemainingArgs() []string {
	return m.remaining
}

const helpUnavailable = "No help available\n"

func (m *Modes) printHelp() {
	if m.flagSet == nil && len(m.subModes) == 0 {
		fmt.Fprint(m.Output, helpUnavailable)
		return
	}

	fmt.Fprint(m.Output, "Usage:\n")

	if m.flagSet != nil {
		m.flagSet.SetOutput(m.Output)
		m.flagSet.PrintDefaults()
		m.flagSet.SetOutput(io.Discard)
	}

	if len(m.subModes) > 0 {
		if m.flagSet != nil {
			fmt.Fprint(m.Output, "\n")
		}
		fmt.Fprintf(m.Output, "  available sub-modes: %s\n", strings.Join(m.subModes, ", "))
		fmt.Fprintf(m.Output, "    default: %s\n", m.subModes[0])
	}
}

func isHelpFlag(a string) bool {
	return a == "-help" || a == "--help" || a == "-h"
}

// Parse consumes the args set by NewArgs: flags first, then - if sub-modes
// were declared - a leading positional argument naming one of them.
// ParseHelp is returned (with no error) if a help flag was seen anywhere in
// the argument list, in which case a summary has already been written to
// Output.
func (m *Modes) Parse() (ParseResult, error) {
	for _, a := range m.args {
		if isHelpFlag(a) {
			m.printHelp()
			return ParseHelp, nil
		}
	}

	m.ensureFlagSet()

	if err := m.flagSet.Parse(m.args); err != nil {
		return ParseError, err
	}

	m.remaining = m.flagSet.Args()

	if len(m.subModes) > 0 && len(m.remaining) > 0 {
		candidate := m.remaining[0]
		for _, sm := range m.subModes {
			if strings.EqualFold(sm, candidate) {
				m.mode = sm
				m.path = append(m.path, sm)
				m.remaining = m.remaining[1:]
				break
			}
		}
	}

	return ParseContinue, nil
}
