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

package memspace

import (
	"fmt"
	"math"

	"github.com/spaceguard/spaceguard/memspace/platform"
)

// Buffer is the record of a single allocation.
type Buffer struct {
	Addr  uintptr
	Len   int
	Space Space

	// the memory as returned by the platform. keeping the slice keeps the
	// memory reachable and allows byte access without pointer arithmetic
	mem []byte
}

// Universe returns the buffer that matches any address. It is used as a
// placeholder for memory that is not tracked and is never registered.
func Universe() Buffer {
	return Buffer{Addr: 0, Len: math.MaxInt, Space: Unknown}
}

// Uninitialised returns the buffer that represents the absence of a buffer.
func Uninitialised() Buffer {
	return Buffer{Addr: 0, Len: 0, Space: Unknown}
}

// IsUniverse returns true if the buffer is the Universe() buffer.
func (b Buffer) IsUniverse() bool {
	return b.Addr == 0 && b.Len == math.MaxInt && b.Space == Unknown
}

// IsUninitialised returns true if the buffer is the Uninitialised() buffer.
func (b Buffer) IsUninitialised() bool {
	return b.Addr == 0 && b.Len == 0 && b.Space == Unknown
}

func (b Buffer) String() string {
	return fmt.Sprintf("%s buffer %s (%d bytes)", b.Space, b.Range(), b.Len)
}

// Range returns the address range of the buffer.
func (b Buffer) Range() AddressRange {
	return NewAddressRange(b.Addr, b.Len)
}

// IsValid returns true if all of the length bytes beginning at addr are
// inside the buffer.
func (b Buffer) IsValid(addr uintptr, length int) bool {
	if length < 0 || addr < b.Addr {
		return false
	}
	off := addr - b.Addr
	return off <= uintptr(b.Len) && uintptr(length) <= uintptr(b.Len)-off
}

// IsValidOffset returns true if the address at addr+offset is inside the
// buffer. The offset can be negative.
func (b Buffer) IsValidOffset(addr uintptr, offset int) bool {
	var p uintptr
	if offset < 0 {
		d := uintptr(-offset)
		if d > addr {
			return false
		}
		p = addr - d
	} else {
		p = addr + uintptr(offset)
		if p < addr {
			return false
		}
	}
	return b.Range().Contains(p)
}

// slice returns the bytes of the buffer beginning at addr. The caller must
// have checked the span with IsValid().
func (b Buffer) slice(addr uintptr, length int) []byte {
	off := int(addr - b.Addr)
	return b.mem[off : off+length : off+length]
}

func (b Buffer) activate(pfm platform.Platform) error {
	return pfm.SetAccess(b.mem, platform.ReadWrite)
}

func (b Buffer) deactivate(pfm platform.Platform) error {
	return pfm.SetAccess(b.mem, platform.None)
}
