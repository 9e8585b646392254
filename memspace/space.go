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
	"strings"

	"github.com/spaceguard/spaceguard/curated"
)

// Space identifies a logical memory space.
type Space int

// List of valid Space values. Unknown is not a real space and has no memory
// associated with it.
const (
	Host Space = iota
	Device
	Unknown
)

// the number of spaces that own a registry
const numRealSpaces = 2

// RealSpaces lists the spaces that can own memory.
var RealSpaces = []Space{Host, Device}

func (s Space) String() string {
	switch s {
	case Host:
		return "Host"
	case Device:
		return "Device"
	case Unknown:
		return "Unknown"
	}
	return "INVALID"
}

// IsReal returns true if the space can own memory.
func (s Space) IsReal() bool {
	return s == Host || s == Device
}

func (s Space) isValid() bool {
	return s.IsReal() || s == Unknown
}

// ParseSpace converts a string to a Space. Comparison is case insensitive.
func ParseSpace(s string) (Space, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HOST":
		return Host, nil
	case "DEVICE":
		return Device, nil
	case "UNKNOWN":
		return Unknown, nil
	}
	return Unknown, curated.Errorf(InvalidSpace, s)
}
