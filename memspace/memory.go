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
	"github.com/spaceguard/spaceguard/assert"
	"github.com/spaceguard/spaceguard/curated"
	"github.com/spaceguard/spaceguard/faults"
	"github.com/spaceguard/spaceguard/logger"
	"github.com/spaceguard/spaceguard/memspace/platform"
)

// the tag used for all log entries made by memspace
const logTag = "memspace"

// Memory is the owner of the registries for every space and of the current
// space.
type Memory struct {
	pfm   platform.Platform
	Prefs *Preferences

	// the space whose buffers are accessible
	current Space

	// indexed by Space
	registries [numRealSpaces]*Registry

	// record of every fault and warning
	faults faults.Faults

	// the goroutine that created the Memory instance
	owner assert.Owner
}

// NewMemory is the preferred method of initialisation for the Memory type. If
// the prefs argument is nil then DefaultPreferences() are used.
//
// The current space of a new Memory is Host.
func NewMemory(pfm platform.Platform, p *Preferences) *Memory {
	if p == nil {
		p = DefaultPreferences()
	}

	mem := &Memory{
		pfm:     pfm,
		Prefs:   p,
		current: Host,
		faults:  faults.NewFaults(),
		owner:   assert.NewOwner(),
	}

	for _, s := range RealSpaces {
		mem.registries[s] = newRegistry(s)
	}

	return mem
}

// CurrentSpace returns the space whose buffers are accessible.
func (mem *Memory) CurrentSpace() Space {
	return mem.current
}

// Registry returns the registry for the space. Returns nil if the space owns
// no memory.
func (mem *Memory) Registry(space Space) *Registry {
	if !space.IsReal() {
		return nil
	}
	return mem.registries[space]
}

// Faults returns the faults log.
func (mem *Memory) Faults() *faults.Faults {
	return &mem.faults
}

// Find the buffer containing the address. The Host registry is searched
// before the Device registry. The registry containing the buffer is also
// returned.
func (mem *Memory) Find(addr uintptr) (Buffer, *Registry, bool) {
	for _, s := range RealSpaces {
		reg := mem.registries[s]
		if b, ok := reg.Find(addr); ok {
			return b, reg, true
		}
	}
	return Uninitialised(), nil, false
}

// checkOwner returns an error if the CheckOwner preference is set and the
// calling goroutine did not create the Memory instance.
func (mem *Memory) checkOwner() error {
	if !mem.Prefs.CheckOwner.Get().(bool) || mem.owner.IsOwner() {
		return nil
	}
	return curated.Errorf(NotOwner, assert.GoroutineID())
}

// fail creates a curated error and records it in the faults log.
func (mem *Memory) fail(category faults.Category, addr uintptr, pattern string, values ...any) error {
	err := curated.Errorf(pattern, values...)
	mem.faults.NewEntry(err.Error(), category, addr)
	return err
}

// warn logs the detail and records it in the faults log. The log entry is
// subject to the WarnUntracked preference.
func (mem *Memory) warn(category faults.Category, addr uintptr, detail string) {
	logger.Log(mem.Prefs, logTag, detail)
	mem.faults.NewEntry(detail, category, addr)
}

// SetCurrentSpace makes the buffers of the space accessible and the buffers
// of the previous current space inaccessible.
//
// Setting the current space to Unknown makes all buffers inaccessible.
//
// If the platform refuses to change the access of a buffer the current space
// is not changed and an AccessFailure error is returned. Buffers already
// changed are not restored.
func (mem *Memory) SetCurrentSpace(space Space) error {
	if err := mem.checkOwner(); err != nil {
		return err
	}

	if !space.isValid() {
		return curated.Errorf(InvalidSpace, space)
	}

	if reg := mem.Registry(space); reg != nil {
		err := reg.Walk(func(b Buffer) error {
			if err := b.activate(mem.pfm); err != nil {
				return mem.fail(faults.AccessFailure, b.Addr, AccessFailure, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	// deactivate the space being left. there is nothing to do if the space
	// is not changing
	if space != mem.current {
		if reg := mem.Registry(mem.current); reg != nil {
			err := reg.Walk(func(b Buffer) error {
				if err := b.deactivate(mem.pfm); err != nil {
					return mem.fail(faults.AccessFailure, b.Addr, AccessFailure, err)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
	}

	mem.current = space

	return nil
}
