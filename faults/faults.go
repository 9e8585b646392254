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

// Package faults records illegal memory accesses detected by the memspace
// package. Each distinct fault is recorded once, in the order it was first
// seen, with a count of how many times it has occurred.
package faults

import (
	"fmt"
	"io"
)

// Category classifies the approximate reason for a memory fault
type Category string

// List of valid Category values
const (
	AllocationFailure Category = "allocation failure"
	ReleaseFailure    Category = "release failure"
	AccessFailure     Category = "access failure"
	InvalidBuffer     Category = "invalid buffer"
	SpaceMismatch     Category = "space mismatch"
	OutOfBounds       Category = "out of bounds"
	InactiveBuffer    Category = "inactive buffer"

	// memory that the registry has never seen but which has been declared as
	// host memory. this is not an error but it is worth recording
	UntrackedHost Category = "untracked host"
)

// Entry is a single entry in the fault log
type Entry struct {
	Category Category

	// description of the event that triggered the memory fault
	Event string

	// address related to the fault
	Addr uintptr

	// number of times this specific fault has been seen
	Count int
}

func (e Entry) String() string {
	if e.Count > 1 {
		return fmt.Sprintf("%s: %s (%#x) x%d", e.Category, e.Event, e.Addr, e.Count)
	}
	return fmt.Sprintf("%s: %s (%#x)", e.Category, e.Event, e.Addr)
}

// IsWarning returns true if the entry does not represent an illegal access.
func (e Entry) IsWarning() bool {
	return e.Category == UntrackedHost
}

// Faults records memory accesses that are "illegal".
type Faults struct {
	// entries are keyed by the category, event and address
	entries map[string]*Entry

	// all the faults in order of the first time they appear. the Count field
	// in the Entry can be used to see if that entry was seen more than once
	// *after* the first appearance
	Log []*Entry
}

// NewFaults is the preferred method of initialisation for the Faults type.
func NewFaults() Faults {
	return Faults{
		entries: make(map[string]*Entry),
	}
}

// Clear all entries from faults log
func (flt *Faults) Clear() {
	clear(flt.entries)
	flt.Log = flt.Log[:0]
}

// WriteLog writes the list of faults in the order they were added
func (flt Faults) WriteLog(w io.Writer) {
	for _, e := range flt.Log {
		io.WriteString(w, e.String())
		io.WriteString(w, "\n")
	}
}

// Errors returns the number of entries that are not warnings.
func (flt Faults) Errors() int {
	var n int
	for _, e := range flt.Log {
		if !e.IsWarning() {
			n++
		}
	}
	return n
}

// NewEntry adds a new entry to the list of faults
func (flt *Faults) NewEntry(event string, category Category, addr uintptr) *Entry {
	if flt.entries == nil {
		flt.entries = make(map[string]*Entry)
	}

	key := fmt.Sprintf("%s%s%016x", category, event, addr)

	e, found := flt.entries[key]
	if !found {
		e = &Entry{
			Category: category,
			Event:    event,
			Addr:     addr,
		}
		flt.entries[key] = e
		flt.Log = append(flt.Log, e)
	}

	e.Count++

	return e
}
