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

package memspace_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spaceguard/spaceguard/curated"
	"github.com/spaceguard/spaceguard/faults"
	"github.com/spaceguard/spaceguard/logger"
	"github.com/spaceguard/spaceguard/memspace"
	"github.com/spaceguard/spaceguard/memspace/platform"
	"github.com/spaceguard/spaceguard/test"
)

func newMemory(t *testing.T) (*memspace.Memory, *platform.Simulated) {
	t.Helper()
	sim := platform.NewSimulated()
	mem := memspace.NewMemory(sim, nil)
	t.Cleanup(func() {
		_ = mem.Close()
	})
	return mem, sim
}

func expectAccess(t *testing.T, sim *platform.Simulated, addr uintptr, access platform.Access) {
	t.Helper()
	a, ok := sim.Access(addr)
	if !ok {
		t.Errorf("no allocation at %#x", addr)
		return
	}
	test.ExpectEquality(t, a, access, addr)
}

func TestAllocate(t *testing.T) {
	mem, sim := newMemory(t)
	test.ExpectEquality(t, mem.CurrentSpace(), memspace.Host)

	h, err := mem.Allocate(memspace.Host, 32)
	test.DemandSuccess(t, err)
	d, err := mem.Allocate(memspace.Device, 64)
	test.DemandSuccess(t, err)

	// only buffers in the current space are accessible
	expectAccess(t, sim, h, platform.ReadWrite)
	expectAccess(t, sim, d, platform.None)

	test.ExpectEquality(t, mem.Registry(memspace.Host).Len(), 1)
	test.ExpectEquality(t, mem.Registry(memspace.Device).Len(), 1)
	test.ExpectSuccess(t, mem.Registry(memspace.Unknown) == nil)

	// every address in a buffer finds that buffer
	for i := uintptr(0); i < 64; i++ {
		b, reg, ok := mem.Find(d + i)
		test.DemandSuccess(t, ok, i)
		test.ExpectEquality(t, b.Addr, d, i)
		test.ExpectEquality(t, b.Space, memspace.Device, i)
		test.ExpectEquality(t, reg.Space(), memspace.Device, i)
	}

	_, _, ok := mem.Find(d + 64)
	test.ExpectFailure(t, ok)
}

func TestAllocateErrors(t *testing.T) {
	mem, sim := newMemory(t)

	_, err := mem.Allocate(memspace.Unknown, 32)
	test.ExpectSuccess(t, curated.Is(err, memspace.InvalidSpace))

	_, err = mem.Allocate(memspace.Host, 0)
	test.ExpectSuccess(t, curated.Is(err, memspace.AllocationFailure))

	sim.FailAllocate = true
	_, err = mem.Allocate(memspace.Device, 32)
	test.ExpectSuccess(t, curated.Is(err, memspace.AllocationFailure))
	sim.FailAllocate = false

	// memory is not leaked when access cannot be set
	sim.FailSetAccess = true
	_, err = mem.Allocate(memspace.Device, 32)
	test.ExpectSuccess(t, curated.Is(err, memspace.AccessFailure))
	test.ExpectEquality(t, sim.Live(), 0)
	sim.FailSetAccess = false

	test.ExpectEquality(t, mem.Registry(memspace.Host).Len(), 0)
	test.ExpectEquality(t, mem.Registry(memspace.Device).Len(), 0)

	// every failure is in the faults log
	test.ExpectEquality(t, len(mem.Faults().Log), 3)
	test.ExpectEquality(t, mem.Faults().Log[0].Category, faults.AllocationFailure)
	test.ExpectEquality(t, mem.Faults().Log[2].Category, faults.AccessFailure)
}

func TestPoison(t *testing.T) {
	sim := platform.NewSimulated()
	p := memspace.DefaultPreferences()
	test.DemandSuccess(t, p.Poison.Set(true))
	test.DemandSuccess(t, p.PoisonByte.Set("0x5a"))
	mem := memspace.NewMemory(sim, p)
	defer mem.Close()

	h, err := mem.Allocate(memspace.Host, 16)
	test.DemandSuccess(t, err)

	b, err := mem.Bytes(memspace.Host, h, 16)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(b, bytes.Repeat([]byte{0x5a}, 16)))
}

func TestDeallocate(t *testing.T) {
	mem, sim := newMemory(t)

	d, err := mem.Allocate(memspace.Device, 64)
	test.DemandSuccess(t, err)

	// wrong space
	err = mem.Deallocate(memspace.Host, d)
	test.ExpectSuccess(t, curated.Is(err, memspace.SpaceMismatch))
	test.ExpectEquality(t, mem.Registry(memspace.Device).Len(), 1)

	// not allocated
	err = mem.Deallocate(memspace.Device, d+64)
	test.ExpectSuccess(t, curated.Is(err, memspace.InvalidBuffer))

	// any address inside the buffer frees the entire buffer
	err = mem.Deallocate(memspace.Device, d+10)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, mem.Registry(memspace.Device).Len(), 0)
	test.ExpectEquality(t, sim.Live(), 0)

	_, _, ok := mem.Find(d)
	test.ExpectFailure(t, ok)

	// double free
	err = mem.Deallocate(memspace.Device, d)
	test.ExpectSuccess(t, curated.Is(err, memspace.InvalidBuffer))
}

func TestDeallocateReleaseFailure(t *testing.T) {
	mem, sim := newMemory(t)

	h, err := mem.Allocate(memspace.Host, 64)
	test.DemandSuccess(t, err)

	sim.FailRelease = true
	err = mem.Deallocate(memspace.Host, h)
	test.ExpectSuccess(t, curated.Is(err, memspace.ReleaseFailure))
	sim.FailRelease = false
}

func TestSetCurrentSpace(t *testing.T) {
	mem, sim := newMemory(t)

	h1, _ := mem.Allocate(memspace.Host, 16)
	h2, _ := mem.Allocate(memspace.Host, 16)
	d1, _ := mem.Allocate(memspace.Device, 16)
	d2, _ := mem.Allocate(memspace.Device, 16)

	test.DemandSuccess(t, mem.SetCurrentSpace(memspace.Device))
	test.ExpectEquality(t, mem.CurrentSpace(), memspace.Device)
	expectAccess(t, sim, h1, platform.None)
	expectAccess(t, sim, h2, platform.None)
	expectAccess(t, sim, d1, platform.ReadWrite)
	expectAccess(t, sim, d2, platform.ReadWrite)

	// setting the current space again does not deactivate anything
	test.DemandSuccess(t, mem.SetCurrentSpace(memspace.Device))
	expectAccess(t, sim, d1, platform.ReadWrite)
	expectAccess(t, sim, d2, platform.ReadWrite)

	test.DemandSuccess(t, mem.SetCurrentSpace(memspace.Host))
	expectAccess(t, sim, h1, platform.ReadWrite)
	expectAccess(t, sim, h2, platform.ReadWrite)
	expectAccess(t, sim, d1, platform.None)
	expectAccess(t, sim, d2, platform.None)

	// the Unknown space makes everything inaccessible
	test.DemandSuccess(t, mem.SetCurrentSpace(memspace.Unknown))
	expectAccess(t, sim, h1, platform.None)
	expectAccess(t, sim, h2, platform.None)
	expectAccess(t, sim, d1, platform.None)
	expectAccess(t, sim, d2, platform.None)

	// and leaving Unknown only activates the new space
	test.DemandSuccess(t, mem.SetCurrentSpace(memspace.Device))
	expectAccess(t, sim, h1, platform.None)
	expectAccess(t, sim, d1, platform.ReadWrite)

	err := mem.SetCurrentSpace(memspace.Space(10))
	test.ExpectSuccess(t, curated.Is(err, memspace.InvalidSpace))
	test.ExpectEquality(t, mem.CurrentSpace(), memspace.Device)
}

func TestSetCurrentSpaceFailure(t *testing.T) {
	mem, sim := newMemory(t)

	_, err := mem.Allocate(memspace.Device, 16)
	test.DemandSuccess(t, err)

	sim.FailSetAccess = true
	err = mem.SetCurrentSpace(memspace.Device)
	test.ExpectSuccess(t, curated.Is(err, memspace.AccessFailure))
	test.ExpectEquality(t, mem.CurrentSpace(), memspace.Host)
	sim.FailSetAccess = false
}

func TestCopy(t *testing.T) {
	mem, sim := newMemory(t)

	h, _ := mem.Allocate(memspace.Host, 64)
	d, _ := mem.Allocate(memspace.Device, 64)

	hb, err := mem.Bytes(memspace.Host, h, 64)
	test.DemandSuccess(t, err)
	for i := range hb {
		hb[i] = byte(i)
	}

	count := sim.SetAccessCount
	test.DemandSuccess(t, mem.Copy(memspace.Device, d, memspace.Host, h, 64))

	// the device buffer was activated and then deactivated. the host buffer
	// was never touched
	test.ExpectEquality(t, sim.SetAccessCount, count+2)
	expectAccess(t, sim, h, platform.ReadWrite)
	expectAccess(t, sim, d, platform.None)

	// device memory cannot be viewed from the host
	_, err = mem.Bytes(memspace.Device, d, 64)
	test.ExpectSuccess(t, curated.Is(err, memspace.InactiveBuffer))

	test.DemandSuccess(t, mem.SetCurrentSpace(memspace.Device))
	db, err := mem.Bytes(memspace.Device, d, 64)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(db, hb))

	// copy back with offsets while device is the current space
	test.DemandSuccess(t, mem.Copy(memspace.Host, h, memspace.Device, d+32, 32))
	expectAccess(t, sim, h, platform.None)
	expectAccess(t, sim, d, platform.ReadWrite)

	test.DemandSuccess(t, mem.SetCurrentSpace(memspace.Host))
	hb, err = mem.Bytes(memspace.Host, h, 64)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, hb[0], 32)
	test.ExpectEquality(t, hb[31], 63)
	test.ExpectEquality(t, hb[32], 32)
}

func TestCopyOutOfBounds(t *testing.T) {
	mem, sim := newMemory(t)

	h, _ := mem.Allocate(memspace.Host, 64)
	d, _ := mem.Allocate(memspace.Device, 64)
	count := sim.SetAccessCount

	// one byte too many for the destination
	err := mem.Copy(memspace.Device, d+1, memspace.Host, h, 64)
	test.ExpectSuccess(t, curated.Is(err, memspace.OutOfBounds))

	// one byte too many for the source
	err = mem.Copy(memspace.Device, d, memspace.Host, h+1, 64)
	test.ExpectSuccess(t, curated.Is(err, memspace.OutOfBounds))

	// failed validation leaves access unchanged
	expectAccess(t, sim, h, platform.ReadWrite)
	expectAccess(t, sim, d, platform.None)

	// the destination was activated for the second copy and was then
	// restored when the source failed
	test.ExpectEquality(t, sim.SetAccessCount, count+2)

	err = mem.Copy(memspace.Device, d, memspace.Host, h, -1)
	test.ExpectSuccess(t, curated.Is(err, memspace.OutOfBounds))
}

func TestCopySpaceMismatch(t *testing.T) {
	mem, sim := newMemory(t)

	h, _ := mem.Allocate(memspace.Host, 64)
	d, _ := mem.Allocate(memspace.Device, 64)

	// device address declared as host
	err := mem.Copy(memspace.Host, d, memspace.Host, h, 16)
	test.ExpectSuccess(t, curated.Is(err, memspace.SpaceMismatch))

	err = mem.Copy(memspace.Device, d, memspace.Host, d, 16)
	test.ExpectSuccess(t, curated.Is(err, memspace.SpaceMismatch))

	// host address declared as device
	err = mem.Copy(memspace.Device, h, memspace.Host, h, 16)
	test.ExpectSuccess(t, curated.Is(err, memspace.SpaceMismatch))

	expectAccess(t, sim, h, platform.ReadWrite)
	expectAccess(t, sim, d, platform.None)
}

func TestCopyUntracked(t *testing.T) {
	mem, sim := newMemory(t)
	logger.Clear()

	d, _ := mem.Allocate(memspace.Device, 16)

	// memory that Memory knows nothing about
	src := []byte("0123456789abcdef")
	untracked := platform.AddressOf(src)

	test.DemandSuccess(t, mem.Copy(memspace.Device, d, memspace.Host, untracked, 16))
	expectAccess(t, sim, d, platform.None)

	// untracked memory is a warning
	test.DemandEquality(t, len(mem.Faults().Log), 1)
	test.ExpectEquality(t, mem.Faults().Log[0].Category, faults.UntrackedHost)
	test.ExpectSuccess(t, mem.Faults().Log[0].IsWarning())

	w := &strings.Builder{}
	logger.Write(w)
	test.ExpectSuccess(t, strings.Contains(w.String(), "untracked mechanism"))

	// copy back to untracked memory
	dst := make([]byte, 16)
	test.DemandSuccess(t, mem.Copy(memspace.Host, platform.AddressOf(dst), memspace.Device, d, 16))
	test.ExpectSuccess(t, bytes.Equal(dst, src))

	// an untracked device address is never allowed
	err := mem.Copy(memspace.Device, untracked, memspace.Host, untracked, 16)
	test.ExpectSuccess(t, curated.Is(err, memspace.InvalidBuffer))

	err = mem.Copy(memspace.Host, untracked, memspace.Unknown, untracked, 16)
	test.ExpectSuccess(t, curated.Is(err, memspace.InvalidBuffer))
}

func TestCopyUntrackedNoWarning(t *testing.T) {
	sim := platform.NewSimulated()
	p := memspace.DefaultPreferences()
	test.DemandSuccess(t, p.WarnUntracked.Set(false))
	mem := memspace.NewMemory(sim, p)
	defer mem.Close()
	logger.Clear()

	h, _ := mem.Allocate(memspace.Host, 4)
	src := []byte{1, 2, 3, 4}
	test.DemandSuccess(t, mem.Copy(memspace.Host, h, memspace.Host, platform.AddressOf(src), 4))

	// the fault is still recorded but nothing is logged
	test.ExpectEquality(t, len(mem.Faults().Log), 1)
	test.ExpectEquality(t, logger.Len(), 0)
}

func TestCopyZeroLength(t *testing.T) {
	mem, _ := newMemory(t)

	h, _ := mem.Allocate(memspace.Host, 8)
	d, _ := mem.Allocate(memspace.Device, 8)

	test.ExpectSuccess(t, mem.Copy(memspace.Device, d+4, memspace.Host, h+4, 0))

	// zero length copies are still validated
	err := mem.Copy(memspace.Host, d, memspace.Host, h, 0)
	test.ExpectSuccess(t, curated.Is(err, memspace.SpaceMismatch))
}

func TestCheckOffset(t *testing.T) {
	mem, _ := newMemory(t)

	d, _ := mem.Allocate(memspace.Device, 64)

	test.ExpectSuccess(t, mem.CheckOffset(memspace.Device, d, 63))
	test.ExpectSuccess(t, mem.CheckOffset(memspace.Device, d+63, -63))

	err := mem.CheckOffset(memspace.Device, d, 64)
	test.ExpectSuccess(t, curated.Is(err, memspace.OutOfBounds))

	err = mem.CheckOffset(memspace.Host, d, 1)
	test.ExpectSuccess(t, curated.Is(err, memspace.SpaceMismatch))

	err = mem.CheckOffset(memspace.Device, d+64, 0)
	test.ExpectSuccess(t, curated.Is(err, memspace.InvalidBuffer))
}

func TestDeviceScenario(t *testing.T) {
	mem, sim := newMemory(t)

	d, err := mem.Allocate(memspace.Device, 64)
	test.DemandSuccess(t, err)
	expectAccess(t, sim, d, platform.None)

	h, err := mem.Allocate(memspace.Host, 64)
	test.DemandSuccess(t, err)
	hb, err := mem.Bytes(memspace.Host, h, 64)
	test.DemandSuccess(t, err)
	copy(hb, bytes.Repeat([]byte{0xee}, 64))

	test.DemandSuccess(t, mem.SetCurrentSpace(memspace.Device))
	expectAccess(t, sim, d, platform.ReadWrite)
	expectAccess(t, sim, h, platform.None)

	test.DemandSuccess(t, mem.Copy(memspace.Device, d, memspace.Host, h, 64))
	expectAccess(t, sim, d, platform.ReadWrite)
	expectAccess(t, sim, h, platform.None)

	db, err := mem.Bytes(memspace.Device, d, 64)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(db, bytes.Repeat([]byte{0xee}, 64)))

	test.DemandSuccess(t, mem.Deallocate(memspace.Device, d))
	_, _, ok := mem.Find(d)
	test.ExpectFailure(t, ok)
}

func TestClose(t *testing.T) {
	sim := platform.NewSimulated()
	mem := memspace.NewMemory(sim, nil)
	logger.Clear()

	_, _ = mem.Allocate(memspace.Host, 8)
	_, _ = mem.Allocate(memspace.Device, 8)
	test.ExpectEquality(t, sim.Live(), 2)

	test.ExpectSuccess(t, mem.Close())
	test.ExpectEquality(t, sim.Live(), 0)
	test.ExpectEquality(t, logger.Len(), 2)
	test.ExpectEquality(t, mem.Registry(memspace.Host).Len(), 0)
}

func TestGraph(t *testing.T) {
	mem, _ := newMemory(t)

	_, _ = mem.Allocate(memspace.Device, 8)

	snp := mem.Snapshot()
	test.ExpectEquality(t, snp.Current, "Host")
	test.DemandEquality(t, len(snp.Registries), 2)
	test.ExpectEquality(t, len(snp.Registries[0].Buffers), 0)
	test.DemandEquality(t, len(snp.Registries[1].Buffers), 1)
	test.ExpectFailure(t, snp.Registries[1].Buffers[0].Active)

	w := &strings.Builder{}
	mem.Graph(w)
	test.ExpectSuccess(t, strings.Contains(w.String(), "digraph"))
}

func TestCheckOwner(t *testing.T) {
	sim := platform.NewSimulated()
	p := memspace.DefaultPreferences()
	mem := memspace.NewMemory(sim, p)
	defer mem.Close()

	h, err := mem.Allocate(memspace.Host, 8)
	test.DemandSuccess(t, err)

	other := func(f func() error) error {
		done := make(chan error)
		go func() {
			done <- f()
		}()
		return <-done
	}

	// ownership is not checked by default
	test.ExpectSuccess(t, other(func() error {
		return mem.SetCurrentSpace(memspace.Host)
	}))

	test.DemandSuccess(t, p.CheckOwner.Set(true))

	err = other(func() error {
		return mem.SetCurrentSpace(memspace.Device)
	})
	test.ExpectSuccess(t, curated.Is(err, memspace.NotOwner))
	test.ExpectEquality(t, mem.CurrentSpace(), memspace.Host)

	err = other(func() error {
		_, err := mem.Allocate(memspace.Host, 8)
		return err
	})
	test.ExpectSuccess(t, curated.Is(err, memspace.NotOwner))

	err = other(func() error {
		return mem.Copy(memspace.Host, h, memspace.Host, h, 8)
	})
	test.ExpectSuccess(t, curated.Is(err, memspace.NotOwner))

	err = other(func() error {
		return mem.Deallocate(memspace.Host, h)
	})
	test.ExpectSuccess(t, curated.Is(err, memspace.NotOwner))

	// the owner is unaffected
	test.ExpectSuccess(t, mem.Deallocate(memspace.Host, h))
}
