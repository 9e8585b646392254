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

	"github.com/spaceguard/spaceguard/curated"
	"github.com/spaceguard/spaceguard/faults"
	"github.com/spaceguard/spaceguard/logger"
)

// Allocate length bytes of memory in the space and return the address of the
// first byte. The memory is accessible only if the space is the current
// space.
func (mem *Memory) Allocate(space Space, length int) (uintptr, error) {
	if err := mem.checkOwner(); err != nil {
		return 0, err
	}

	reg := mem.Registry(space)
	if reg == nil {
		return 0, curated.Errorf(InvalidSpace, space)
	}

	m, err := mem.pfm.Allocate(length)
	if err != nil {
		return 0, mem.fail(faults.AllocationFailure, 0, AllocationFailure, err)
	}

	b := Buffer{
		Addr:  addressOf(m),
		Len:   len(m),
		Space: space,
		mem:   m,
	}

	// poison must happen before the memory is protected
	if mem.Prefs.Poison.Get().(bool) {
		v := byte(mem.Prefs.PoisonByte.Get().(int))
		for i := range b.mem {
			b.mem[i] = v
		}
	}

	if space == mem.current {
		err = b.activate(mem.pfm)
	} else {
		err = b.deactivate(mem.pfm)
	}
	if err != nil {
		_ = mem.pfm.Release(m)
		return 0, mem.fail(faults.AccessFailure, b.Addr, AccessFailure, err)
	}

	err = reg.Insert(b)
	if err != nil {
		_ = mem.pfm.Release(m)
		return 0, mem.fail(faults.AllocationFailure, b.Addr, AllocationFailure, err)
	}

	return b.Addr, nil
}

// Deallocate the buffer containing the address. The address does not need to
// be the first byte of the buffer. It is an error for the buffer to belong to
// a space other than the one specified.
func (mem *Memory) Deallocate(space Space, addr uintptr) error {
	if err := mem.checkOwner(); err != nil {
		return err
	}

	b, reg, ok := mem.Find(addr)
	if !ok {
		return mem.fail(faults.InvalidBuffer, addr, InvalidBuffer,
			fmt.Sprintf("%#x is not in any space", addr))
	}

	if b.Space != space {
		return mem.fail(faults.SpaceMismatch, addr, SpaceMismatch,
			fmt.Sprintf("%#x belongs to %s not %s", addr, b.Space, space))
	}

	reg.Remove(b.Range())

	err := mem.pfm.Release(b.mem)
	if err != nil {
		return mem.fail(faults.ReleaseFailure, b.Addr, ReleaseFailure, err)
	}

	return nil
}

// Close releases all remaining buffers in every space. Buffers that have not
// been deallocated by the time Close() is called are logged.
//
// The first error encountered is returned but Close() will attempt to release
// every buffer regardless.
func (mem *Memory) Close() error {
	var first error

	for _, s := range RealSpaces {
		reg := mem.registries[s]
		for _, b := range reg.Buffers() {
			logger.Logf(logger.Allow, logTag, "leaked %s", b)
			reg.Remove(b.Range())
			if err := mem.pfm.Release(b.mem); err != nil && first == nil {
				first = mem.fail(faults.ReleaseFailure, b.Addr, ReleaseFailure, err)
			}
		}
	}

	return first
}
