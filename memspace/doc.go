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

// Package memspace emulates a host/device memory split on a single address
// space. Memory is allocated into a logical space (Host or Device) and only
// the memory of the current space is accessible. Memory in the other space is
// protected by the platform so that an illegal access faults at the moment it
// happens, rather than silently producing the wrong result.
//
// The Memory type is the owner of all state. It is not safe for concurrent
// use; callers that share a Memory between goroutines must serialise every
// call, including SetCurrentSpace(), with a single lock. The CheckOwner
// preference causes operations from any goroutine other than the one that
// created the Memory to fail with a NotOwner error.
//
// Data moves between spaces only with the Copy() function. Copy() validates
// both operands and temporarily grants access to whichever operand is outside
// the current space for the duration of the copy.
//
// Host memory that was not allocated by Memory can be used as a Copy()
// operand. Such memory cannot be bounds checked so a warning is logged and
// recorded in the faults log but the copy proceeds. Untracked Device memory
// is never accepted.
//
// Errors are curated errors. The error kind can be identified with
// curated.Is() and the pattern constants in this package. For example:
//
//	err := mem.Copy(memspace.Device, dst, memspace.Host, src, 64)
//	if curated.Is(err, memspace.OutOfBounds) {
//		...
//	}
package memspace
