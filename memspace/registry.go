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
	"slices"

	"github.com/spaceguard/spaceguard/curated"
)

// Registry is the inventory of the buffers belonging to a single space.
//
// Buffers are kept sorted by address and never overlap. Under these two
// conditions Compare() is a strict ordering of the buffers and a binary
// search with a single address range finds the one buffer containing that
// address. Insert() refuses any buffer that would break the conditions.
type Registry struct {
	space   Space
	buffers []Buffer
}

func newRegistry(space Space) *Registry {
	return &Registry{space: space}
}

// Space returns the space the registry belongs to.
func (reg *Registry) Space() Space {
	return reg.space
}

// Len returns the number of buffers in the registry.
func (reg *Registry) Len() int {
	return len(reg.buffers)
}

func (reg *Registry) search(rng AddressRange) (int, bool) {
	return slices.BinarySearchFunc(reg.buffers, rng, func(b Buffer, r AddressRange) int {
		return Compare(b.Range(), r)
	})
}

// Find returns the buffer containing the address.
func (reg *Registry) Find(addr uintptr) (Buffer, bool) {
	i, ok := reg.search(probe(addr))
	if !ok {
		return Uninitialised(), false
	}
	return reg.buffers[i], true
}

// Insert adds the buffer to the registry. It is an error for the buffer to
// overlap a buffer already in the registry, to be empty, or to belong to
// another space.
func (reg *Registry) Insert(b Buffer) error {
	if b.Space != reg.space {
		return curated.Errorf(RegistryOverlap, curated.Errorf("%s cannot be added to %s registry", b, reg.space))
	}
	if b.Len <= 0 {
		return curated.Errorf(RegistryOverlap, curated.Errorf("%s is empty", b))
	}

	i, found := reg.search(b.Range())
	if found {
		return curated.Errorf(RegistryOverlap, curated.Errorf("%s overlaps %s", b, reg.buffers[i]))
	}

	reg.buffers = slices.Insert(reg.buffers, i, b)
	return nil
}

// Remove the buffer with exactly the address range specified. Returns false
// if there is no such buffer.
func (reg *Registry) Remove(rng AddressRange) bool {
	i, found := reg.search(rng)
	if !found || reg.buffers[i].Range() != rng {
		return false
	}
	reg.buffers = slices.Delete(reg.buffers, i, i+1)
	return true
}

// Walk calls f for every buffer in address order. Walk stops at the first
// error returned by f and returns that error.
func (reg *Registry) Walk(f func(Buffer) error) error {
	for _, b := range reg.buffers {
		if err := f(b); err != nil {
			return err
		}
	}
	return nil
}

// Buffers returns a copy of the buffers in the registry in address order.
func (reg *Registry) Buffers() []Buffer {
	return slices.Clone(reg.buffers)
}
