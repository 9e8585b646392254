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

// Package platform provides the memory primitives used by the memspace
// package: allocating memory, releasing memory, and changing whether memory
// can be accessed.
//
// The Native platform uses anonymous memory mappings and page protection.
// Accessing memory that has been set to None with the Native platform will
// fault. The runtime/debug.SetPanicOnFault() function can be used to turn the
// fault into a recoverable panic.
//
// The Simulated platform uses memory from the Go heap and only records the
// access mode. It is useful for testing and for platforms without memory
// protection.
package platform

import "unsafe"

// Access specifies whether memory can be read and written.
type Access int

// List of valid Access values.
const (
	None Access = iota
	ReadWrite
)

func (a Access) String() string {
	switch a {
	case None:
		return "None"
	case ReadWrite:
		return "ReadWrite"
	}
	return "INVALID"
}

// Platform implementations provide memory to the memspace package.
type Platform interface {
	// Allocate returns memory of exactly length bytes. The memory is
	// readable and writable.
	Allocate(length int) ([]byte, error)

	// Release memory previously returned by Allocate(). The slice must be
	// the same slice that was returned by Allocate().
	Release(mem []byte) error

	// SetAccess changes the access mode of memory previously returned by
	// Allocate().
	SetAccess(mem []byte, access Access) error
}

// AddressOf returns the address of the first byte of memory. Returns zero for
// an empty slice.
func AddressOf(mem []byte) uintptr {
	if len(mem) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&mem[0]))
}
