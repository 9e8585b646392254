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

// Patterns for the curated errors returned by the memspace package. Use with
// curated.Is() to identify the kind of error.
const (
	// the platform refused to provide memory
	AllocationFailure = "allocation failure: %v"

	// the platform refused to release memory
	ReleaseFailure = "release failure: %v"

	// the platform refused to change the access mode of memory
	AccessFailure = "access failure: %v"

	// the address is not in any registry or an untracked address has been
	// declared as belonging to a space other than Host
	InvalidBuffer = "invalid buffer: %s"

	// the address belongs to a different space than the one declared
	SpaceMismatch = "space mismatch: %s"

	// the address and length extend beyond the end of the buffer
	OutOfBounds = "out of bounds: %s"

	// the buffer cannot be accessed directly because it does not belong to
	// the current space
	InactiveBuffer = "inactive buffer: %s"

	// the space is not one that can be used for the requested operation
	InvalidSpace = "invalid space: %v"

	// a buffer could not be added to a registry
	RegistryOverlap = "registry overlap: %v"

	// the Memory instance has been used by a goroutine other than the one
	// that created it
	NotOwner = "not owner: %v"
)
