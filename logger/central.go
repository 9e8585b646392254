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

// Package logger is the central log for spaceguard. Entries are made up of a
// tag and a detail. Consecutive identical entries are collapsed into a single
// entry with a repeat count.
//
// Logging is gated by a Permission. The memspace package uses the Permission
// to honour the memspace.warnUntracked preference without needing to check
// the preference at every call site.
package logger

import (
	"io"
)

// the maximum number of entries in the central log.
const maxCentral = 256

var central *Logger

func init() {
	central = NewLogger(maxCentral)
}

// Log adds an entry to the central logger.
func Log(perm Permission, tag string, detail any) {
	central.Log(perm, tag, detail)
}

// Logf adds a formatted entry to the central logger.
func Logf(perm Permission, tag string, detail string, args ...any) {
	central.Logf(perm, tag, detail, args...)
}

// Clear all entries from central logger.
func Clear() {
	central.Clear()
}

// Write contents of central logger to io.Writer.
func Write(output io.Writer) {
	central.Write(output)
}

// Tail writes the last N entries to io.Writer.
func Tail(output io.Writer, number int) {
	central.Tail(output, number)
}

// SetEcho prints entries to io.Writer as they are added. Use nil to stop
// echoing.
func SetEcho(output io.Writer) {
	central.SetEcho(output)
}

// Len returns the number of entries in the central log.
func Len() int {
	return central.Len()
}
