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
	"unsafe"

	"github.com/spaceguard/spaceguard/faults"
	"github.com/spaceguard/spaceguard/memspace/platform"
)

func addressOf(m []byte) uintptr {
	return platform.AddressOf(m)
}

// operand is one side of a copy
type operand struct {
	space Space
	addr  uintptr

	// the buffer containing addr. will be the Universe() buffer if the
	// operand is untracked
	buf Buffer

	// the memory is host memory that the registry knows nothing about
	untracked bool

	// the buffer was made accessible for the duration of the copy and must
	// be made inaccessible afterwards
	activated bool
}

func (op operand) String() string {
	return fmt.Sprintf("%s %#x", op.space, op.addr)
}

// acquire validates the operand and makes it accessible for length bytes.
// the bounds are checked before any change of access is made.
func (mem *Memory) acquire(op *operand, length int) error {
	b, _, ok := mem.Find(op.addr)
	if !ok {
		if op.space == Host {
			mem.untrackedHost(op)
			return nil
		}
		return mem.fail(faults.InvalidBuffer, op.addr, InvalidBuffer,
			fmt.Sprintf("%s is not in any space", op))
	}

	if b.Space != op.space {
		return mem.fail(faults.SpaceMismatch, op.addr, SpaceMismatch,
			fmt.Sprintf("%s is in %s", op, b))
	}

	if !b.IsValid(op.addr, length) {
		return mem.fail(faults.OutOfBounds, op.addr, OutOfBounds,
			fmt.Sprintf("%d bytes at %s exceeds %s", length, op, b))
	}

	op.buf = b

	if b.Space != mem.current {
		if err := b.activate(mem.pfm); err != nil {
			return mem.fail(faults.AccessFailure, b.Addr, AccessFailure, err)
		}
		op.activated = true
	}

	return nil
}

// untrackedHost accepts an address that has been declared as host memory but
// which is not in any registry. memory allocated outside of the Memory type
// is a normal occurrence and so this is a warning and not an error.
func (mem *Memory) untrackedHost(op *operand) {
	mem.warn(faults.UntrackedHost, op.addr,
		fmt.Sprintf("%s is untracked: did you allocate through an untracked mechanism?", op))
	op.buf = Universe()
	op.untracked = true
}

// release undoes any change of access made by acquire.
func (mem *Memory) release(op *operand) error {
	if !op.activated {
		return nil
	}
	op.activated = false
	if err := op.buf.deactivate(mem.pfm); err != nil {
		return mem.fail(faults.AccessFailure, op.buf.Addr, AccessFailure, err)
	}
	return nil
}

// view returns length bytes beginning at the operand's address.
func (op operand) view(length int) []byte {
	if op.untracked {
		// untracked memory is not owned by a Memory instance. the caller of
		// Copy() is responsible for the memory being valid
		return unsafe.Slice((*byte)(unsafe.Pointer(op.addr)), length)
	}
	return op.buf.slice(op.addr, length)
}

// Copy length bytes from the src address to the dst address. The spaces of
// the two addresses must be declared and must agree with the registries.
//
// Buffers that are outside of the current space are made accessible for the
// duration of the copy only. If validation of either address fails then no
// memory is copied and the access of every buffer is as it was before the
// call.
//
// A host address that is not in any registry is accepted with a warning.
// Such an address is not bounds checked.
func (mem *Memory) Copy(dstSpace Space, dst uintptr, srcSpace Space, src uintptr, length int) error {
	if err := mem.checkOwner(); err != nil {
		return err
	}

	if length < 0 {
		return mem.fail(faults.OutOfBounds, dst, OutOfBounds,
			fmt.Sprintf("negative length (%d)", length))
	}

	d := operand{space: dstSpace, addr: dst}
	if err := mem.acquire(&d, length); err != nil {
		return err
	}

	s := operand{space: srcSpace, addr: src}
	if err := mem.acquire(&s, length); err != nil {
		// the fault for the source operand is the more interesting error.
		// any failure to release the destination is still recorded in the
		// faults log
		_ = mem.release(&d)
		return err
	}

	if length > 0 {
		copy(d.view(length), s.view(length))
	}

	derr := mem.release(&d)
	serr := mem.release(&s)
	if derr != nil {
		return derr
	}
	return serr
}

// Bytes returns the length bytes of tracked memory beginning at addr. The
// memory must belong to the current space and the returned slice should not
// be used after the current space has changed.
func (mem *Memory) Bytes(space Space, addr uintptr, length int) ([]byte, error) {
	b, _, ok := mem.Find(addr)
	if !ok {
		return nil, mem.fail(faults.InvalidBuffer, addr, InvalidBuffer,
			fmt.Sprintf("%#x is not in any space", addr))
	}

	if b.Space != space {
		return nil, mem.fail(faults.SpaceMismatch, addr, SpaceMismatch,
			fmt.Sprintf("%s %#x is in %s", space, addr, b))
	}

	if !b.IsValid(addr, length) {
		return nil, mem.fail(faults.OutOfBounds, addr, OutOfBounds,
			fmt.Sprintf("%d bytes at %#x exceeds %s", length, addr, b))
	}

	if b.Space != mem.current {
		return nil, mem.fail(faults.InactiveBuffer, addr, InactiveBuffer,
			fmt.Sprintf("%s while current space is %s", b, mem.current))
	}

	return b.slice(addr, length), nil
}

// CheckOffset returns an error if addr+offset is not in the same buffer as
// addr.
func (mem *Memory) CheckOffset(space Space, addr uintptr, offset int) error {
	b, _, ok := mem.Find(addr)
	if !ok {
		return mem.fail(faults.InvalidBuffer, addr, InvalidBuffer,
			fmt.Sprintf("%#x is not in any space", addr))
	}

	if b.Space != space {
		return mem.fail(faults.SpaceMismatch, addr, SpaceMismatch,
			fmt.Sprintf("%s %#x is in %s", space, addr, b))
	}

	if !b.IsValidOffset(addr, offset) {
		return mem.fail(faults.OutOfBounds, addr, OutOfBounds,
			fmt.Sprintf("offset %d from %#x leaves %s", offset, addr, b))
	}

	return nil
}
