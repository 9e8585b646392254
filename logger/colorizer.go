// This file is part of spaceguard.
//
// spaceguard is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// spaceguard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with spaceguard.  If not, see <https://www.gnu.org/licenses/>.

package logger

import (
	"io"
	"strings"
)

// ANSI control sequences used by the colorizer.
const (
	penTag    = "\033[1;36m"
	penDetail = "\033[0;33m"
	penNormal = "\033[0m"
)

// Colorizer applies ANSI color codes to log entries written to it.
type Colorizer struct {
	out io.Writer
}

// NewColorizer is the preferred method of initialisation for the Colorizer
// type.
func NewColorizer(out io.Writer) Colorizer {
	return Colorizer{out: out}
}

// Write implements the io.Writer interface. Each line is expected to be in
// the "tag: detail" form produced by Entry.String().
func (c Colorizer) Write(p []byte) (int, error) {
	n := 0

	for _, l := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		var s string
		tag, detail, found := strings.Cut(l, ": ")
		if found {
			s = penTag + tag + penNormal + ": " + penDetail + detail + penNormal + "\n"
		} else {
			s = l + "\n"
		}

		m, err := io.WriteString(c.out, s)
		n += m
		if err != nil {
			return n, err
		}
	}

	// report the length of the uncolored input so that callers checking for
	// short writes are satisfied
	return len(p), nil
}
