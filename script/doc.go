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

// Package script is a line oriented command language for driving a
// memspace.Memory instance. It stands in for the device API layer of a
// program that is being checked for illegal memory accesses.
//
// Each line is a single command. Blank lines and lines beginning with # are
// ignored. Commands are not case sensitive.
//
//	ALLOC <space> <length> <name>
//	FREE <space> <ref>
//	SPACE <space>
//	COPY <dstSpace> <ref> <srcSpace> <ref> <length>
//	FILL <ref> <byte> <length>
//	EXPECT <ref> <byte> <length>
//	UNTRACKED <name> <length>
//	GRAPH <file>
//	FAULTS
//
// A ref is a name bound by ALLOC or UNTRACKED with an optional offset. For
// example, buf+16 or buf-0x10. Offsets are checked with
// memspace.CheckOffset() so a ref cannot point outside of its buffer.
//
// Names bound with UNTRACKED refer to memory that memspace knows nothing about.
// Copies to and from that memory are allowed if the memory is declared to be
// in the Host space.
//
// Errors returned by memspace are faults in the program being checked. If the
// memspace.abortOnFault preference is false then faults are logged and the
// script continues. All other errors stop the script.
package script
