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
)

// AddressRange is a half-open interval of addresses. End is exclusive.
//
// Ranges are ordered by Compare(). Overlapping ranges compare as equal, which
// means a sorted list of non-overlapping ranges can be searched for the range
// containing an address by searching for the single address range
// {addr, addr+1}. The Registry type relies on this.
type AddressRange struct {
	Start uintptr
	End   uintptr
}

// NewAddressRange creates a range of length bytes beginning at addr. The end
// of the range saturates at the top of the address space.
func NewAddressRange(addr uintptr, length int) AddressRange {
	if length < 0 {
		length = 0
	}
	end := addr + uintptr(length)
	if end < addr {
		end = math.MaxUint
	}
	return AddressRange{Start: addr, End: end}
}

// probe returns the single address range used to search for addr.
func probe(addr uintptr) AddressRange {
	return NewAddressRange(addr, 1)
}

func (r AddressRange) String() string {
	return fmt.Sprintf("%#x-%#x", r.Start, r.End)
}

// Len returns the number of addresses in the range.
func (r AddressRange) Len() uintptr {
	return r.End - r.Start
}

// Contains returns true if the address is in the range.
func (r AddressRange) Contains(addr uintptr) bool {
	return addr >= r.Start && addr < r.End
}

// Overlaps returns true if the ranges share at least one address. Empty
// ranges overlap nothing.
func (r AddressRange) Overlaps(o AddressRange) bool {
	return Compare(r, o) == 0 && r.Len() > 0 && o.Len() > 0
}

// Compare returns -1 if a is entirely before b, +1 if a is entirely after b
// and 0 if the ranges overlap.
func Compare(a, b AddressRange) int {
	if a.End <= b.Start {
		return -1
	}
	if b.End <= a.Start {
		return 1
	}
	return 0
}
