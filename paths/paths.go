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

// Package paths builds paths under this tool's dotfile directory, used for
// the repl's command history file.
package paths

import "path/filepath"

// baseDir is the dotfile directory every resource path is rooted under.
const baseDir = ".thumbasm"

// ResourcePath joins dir and file onto the base dotfile directory,
// skipping either component when empty.
func ResourcePath(dir string, file string) (string, error) {
	parts := []string{baseDir}
	if dir != "" {
		parts = append(parts, dir)
	}
	if file != "" {
		parts = append(parts, file)
	}
	return filepath.Join(parts...), nil
}
