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

// Package assert contains checks that are only useful for debugging and
// testing.
package assert

import (
	"bytes"
	"runtime"
	"strconv"
)

// GoroutineID returns an identifier for the calling goroutine. The result is
// different between goroutines and consistent for a given goroutine. It should
// only ever be used for debugging or testing purposes.
func GoroutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

// Owner records the goroutine that created it.
type Owner uint64

// NewOwner returns an Owner for the calling goroutine.
func NewOwner() Owner {
	return Owner(GoroutineID())
}

// IsOwner returns true if the calling goroutine is the owner.
func (o Owner) IsOwner() bool {
	return uint64(o) == GoroutineID()
}
