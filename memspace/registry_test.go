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
	"testing"

	"github.com/spaceguard/spaceguard/curated"
	"github.com/spaceguard/spaceguard/test"
)

func TestAddressRange(t *testing.T) {
	a := NewAddressRange(0x1000, 0x100)
	test.ExpectEquality(t, a.Start, 0x1000)
	test.ExpectEquality(t, a.End, 0x1100)
	test.ExpectEquality(t, a.Len(), 0x100)
	test.ExpectEquality(t, a.String(), "0x1000-0x1100")

	test.ExpectSuccess(t, a.Contains(0x1000))
	test.ExpectSuccess(t, a.Contains(0x10ff))
	test.ExpectFailure(t, a.Contains(0x1100))
	test.ExpectFailure(t, a.Contains(0x0fff))
}

func TestAddressRangeCompare(t *testing.T) {
	a := NewAddressRange(0x1000, 0x100)

	// adjacent ranges do not overlap
	test.ExpectEquality(t, Compare(a, NewAddressRange(0x1100, 0x10)), -1)
	test.ExpectEquality(t, Compare(a, NewAddressRange(0x0f00, 0x100)), 1)

	// any overlap compares equal
	test.ExpectEquality(t, Compare(a, NewAddressRange(0x10ff, 0x10)), 0)
	test.ExpectEquality(t, Compare(a, NewAddressRange(0x0f00, 0x101)), 0)
	test.ExpectEquality(t, Compare(a, NewAddressRange(0x0000, 0x2000)), 0)

	// a single address compares equal only to the range containing it
	test.ExpectEquality(t, Compare(a, probe(0x1000)), 0)
	test.ExpectEquality(t, Compare(a, probe(0x10ff)), 0)
	test.ExpectEquality(t, Compare(a, probe(0x1100)), -1)
	test.ExpectEquality(t, Compare(a, probe(0x0fff)), 1)
}

func TestBufferValidity(t *testing.T) {
	b := Buffer{Addr: 0x2000, Len: 64, Space: Device}

	test.ExpectSuccess(t, b.IsValid(0x2000, 64))
	test.ExpectSuccess(t, b.IsValid(0x2020, 32))
	test.ExpectSuccess(t, b.IsValid(0x2040, 0))
	test.ExpectFailure(t, b.IsValid(0x2000, 65))
	test.ExpectFailure(t, b.IsValid(0x2001, 64))
	test.ExpectFailure(t, b.IsValid(0x1fff, 1))
	test.ExpectFailure(t, b.IsValid(0x2000, -1))

	test.ExpectSuccess(t, b.IsValidOffset(0x2000, 63))
	test.ExpectSuccess(t, b.IsValidOffset(0x203f, -63))
	test.ExpectFailure(t, b.IsValidOffset(0x2000, 64))
	test.ExpectFailure(t, b.IsValidOffset(0x2000, -1))
	test.ExpectFailure(t, b.IsValidOffset(0x10, -0x20))
}

func TestSentinels(t *testing.T) {
	test.ExpectSuccess(t, Universe().IsUniverse())
	test.ExpectFailure(t, Universe().IsUninitialised())
	test.ExpectSuccess(t, Uninitialised().IsUninitialised())
	test.ExpectFailure(t, Uninitialised().IsUniverse())

	test.ExpectSuccess(t, Universe().Range().Contains(0x12345678))
	test.ExpectFailure(t, Uninitialised().Range().Contains(0))
}

func TestRegistry(t *testing.T) {
	reg := newRegistry(Host)

	test.DemandSuccess(t, reg.Insert(Buffer{Addr: 0x3000, Len: 0x100, Space: Host}))
	test.DemandSuccess(t, reg.Insert(Buffer{Addr: 0x1000, Len: 0x100, Space: Host}))
	test.DemandSuccess(t, reg.Insert(Buffer{Addr: 0x2000, Len: 0x100, Space: Host}))
	test.ExpectEquality(t, reg.Len(), 3)

	// buffers are kept in address order
	bufs := reg.Buffers()
	test.ExpectEquality(t, bufs[0].Addr, 0x1000)
	test.ExpectEquality(t, bufs[1].Addr, 0x2000)
	test.ExpectEquality(t, bufs[2].Addr, 0x3000)

	// every address inside a buffer finds that buffer
	for _, addr := range []uintptr{0x2000, 0x2001, 0x2080, 0x20ff} {
		b, ok := reg.Find(addr)
		test.ExpectSuccess(t, ok, addr)
		test.ExpectEquality(t, b.Addr, 0x2000, addr)
	}

	// addresses in the gaps find nothing
	for _, addr := range []uintptr{0x0fff, 0x1100, 0x2100, 0x3100, 0} {
		b, ok := reg.Find(addr)
		test.ExpectFailure(t, ok, addr)
		test.ExpectSuccess(t, b.IsUninitialised(), addr)
	}
}

func TestRegistryInsertErrors(t *testing.T) {
	reg := newRegistry(Device)
	test.DemandSuccess(t, reg.Insert(Buffer{Addr: 0x1000, Len: 0x100, Space: Device}))

	err := reg.Insert(Buffer{Addr: 0x10ff, Len: 0x10, Space: Device})
	test.ExpectSuccess(t, curated.Is(err, RegistryOverlap))

	err = reg.Insert(Buffer{Addr: 0x0f00, Len: 0x1000, Space: Device})
	test.ExpectSuccess(t, curated.Is(err, RegistryOverlap))

	err = reg.Insert(Buffer{Addr: 0x4000, Len: 0x10, Space: Host})
	test.ExpectSuccess(t, curated.Is(err, RegistryOverlap))

	err = reg.Insert(Buffer{Addr: 0x4000, Len: 0, Space: Device})
	test.ExpectSuccess(t, curated.Is(err, RegistryOverlap))

	test.ExpectEquality(t, reg.Len(), 1)
}

func TestRegistryRemove(t *testing.T) {
	reg := newRegistry(Host)
	test.DemandSuccess(t, reg.Insert(Buffer{Addr: 0x1000, Len: 0x100, Space: Host}))
	test.DemandSuccess(t, reg.Insert(Buffer{Addr: 0x2000, Len: 0x100, Space: Host}))

	// only the exact range is removed
	test.ExpectFailure(t, reg.Remove(NewAddressRange(0x1000, 0x10)))
	test.ExpectFailure(t, reg.Remove(NewAddressRange(0x5000, 0x100)))
	test.ExpectEquality(t, reg.Len(), 2)

	test.ExpectSuccess(t, reg.Remove(NewAddressRange(0x1000, 0x100)))
	test.ExpectEquality(t, reg.Len(), 1)

	_, ok := reg.Find(0x1000)
	test.ExpectFailure(t, ok)
	_, ok = reg.Find(0x2000)
	test.ExpectSuccess(t, ok)
}
