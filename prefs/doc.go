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

// Package prefs facilitates the storage of preferential values. Values are
// stored as one of the types Bool, Int or String and registered with a Disk
// under a key. The Disk type saves and loads values to and from a plain text
// file with one "key :: value" entry per line.
//
// Several Disk instances can share the same file. Entries for keys that a Disk
// instance does not know about are preserved when that instance saves.
//
// Values can be overridden from the command line with the command line stack.
// A string of the form:
//
//	"memspace.poison::true; memspace.poisonByte::170"
//
// is pushed with PushCommandLineStack() before preferences are loaded. The
// Disk.Load() function consults the stack after reading the file and the
// command line value takes priority.
package prefs
