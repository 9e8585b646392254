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

package platform

import (
	"github.com/spaceguard/spaceguard/curated"
)

// Simulated uses memory from the Go heap. The access mode is recorded but not
// enforced.
//
// Failure of each primitive can be forced with the Fail fields, which is
// useful for testing how callers handle a platform that refuses a request.
type Simulated struct {
	allocations map[uintptr][]byte
	access      map[uintptr]Access

	FailAllocate  bool
	FailRelease   bool
	FailSetAccess bool

	// number of calls to SetAccess() that have succeeded
	SetAccessCount int
}

// NewSimulated is the preferred method of initialisation for the Simulated
// type.
func NewSimulated() *Simulated {
	return &Simulated{
		allocations: make(map[uintptr][]byte),
		access:      make(map[uintptr]Access),
	}
}

// Allocate implements the Platform interface.
func (sim *Simulated) Allocate(length int) ([]byte, error) {
	if sim.FailAllocate {
		return nil, curated.Errorf("simulated: allocation refused")
	}
	if length <= 0 {
		return nil, curated.Errorf("simulated: invalid length (%d)", length)
	}

	mem := make([]byte, length)
	addr := AddressOf(mem)

	// the memory map keeps the slice reachable for as long as the memory is
	// allocated
	sim.allocations[addr] = mem
	sim.access[addr] = ReadWrite

	return mem, nil
}

// Release implements the Platform interface.
func (sim *Simulated) Release(mem []byte) error {
	if sim.FailRelease {
		return curated.Errorf("simulated: release refused")
	}

	addr := AddressOf(mem)
	if _, ok := sim.allocations[addr]; !ok {
		return curated.Errorf("simulated: release of unknown memory (%#x)", addr)
	}

	delete(sim.allocations, addr)
	delete(sim.access, addr)
	return nil
}

// SetAccess implements the Platform interface.
func (sim *Simulated) SetAccess(mem []byte, access Access) error {
	if sim.FailSetAccess {
		return curated.Errorf("simulated: access change refused")
	}

	addr := AddressOf(mem)
	if _, ok := sim.allocations[addr]; !ok {
		return curated.Errorf("simulated: access change of unknown memory (%#x)", addr)
	}

	sim.access[addr] = access
	sim.SetAccessCount++
	return nil
}

// Access returns the access mode of the allocation at the address. The second
// return value is false if there is no allocation at that address.
func (sim *Simulated) Access(addr uintptr) (Access, bool) {
	a, ok := sim.access[addr]
	return a, ok
}

// Live returns the number of allocations that have not been released.
func (sim *Simulated) Live() int {
	return len(sim.allocations)
}
