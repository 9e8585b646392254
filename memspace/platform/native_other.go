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

//go:build !unix

package platform

import (
	"os"

	"github.com/spaceguard/spaceguard/curated"
)

const unsupported = "native: memory protection is not supported on this platform"

// Native is not supported on this platform. Use the Simulated platform.
type Native struct{}

// NewNative always returns an error on this platform.
func NewNative() (*Native, error) {
	return nil, curated.Errorf(unsupported)
}

// Allocate implements the Platform interface.
func (_ *Native) Allocate(_ int) ([]byte, error) {
	return nil, curated.Errorf(unsupported)
}

// Release implements the Platform interface.
func (_ *Native) Release(_ []byte) error {
	return curated.Errorf(unsupported)
}

// SetAccess implements the Platform interface.
func (_ *Native) SetAccess(_ []byte, _ Access) error {
	return curated.Errorf(unsupported)
}

// PageSize returns the size of a memory page.
func PageSize() int {
	return os.Getpagesize()
}
