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

//go:build unix

package platform

import (
	"github.com/spaceguard/spaceguard/curated"
	"golang.org/x/sys/unix"
)

// Native uses anonymous private memory mappings. Each allocation occupies
// whole pages so no two allocations ever share a page.
type Native struct{}

// NewNative is the preferred method of initialisation for the Native type.
func NewNative() (*Native, error) {
	return &Native{}, nil
}

// Allocate implements the Platform interface.
func (_ *Native) Allocate(length int) ([]byte, error) {
	if length <= 0 {
		return nil, curated.Errorf("native: mmap: %v", unix.EINVAL)
	}

	mem, err := unix.Mmap(-1, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, curated.Errorf("native: mmap: %v", err)
	}

	return mem, nil
}

// Release implements the Platform interface.
func (_ *Native) Release(mem []byte) error {
	if err := unix.Munmap(mem); err != nil {
		return curated.Errorf("native: munmap: %v", err)
	}
	return nil
}

// SetAccess implements the Platform interface.
func (_ *Native) SetAccess(mem []byte, access Access) error {
	var prot int
	switch access {
	case None:
		prot = unix.PROT_NONE
	case ReadWrite:
		prot = unix.PROT_READ | unix.PROT_WRITE
	default:
		return curated.Errorf("native: mprotect: unknown access mode (%d)", access)
	}

	if err := unix.Mprotect(mem, prot); err != nil {
		return curated.Errorf("native: mprotect: %v", err)
	}
	return nil
}

// PageSize returns the size of a memory page. Native allocations are rounded
// up to a multiple of this value.
func PageSize() int {
	return unix.Getpagesize()
}
