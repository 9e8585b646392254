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

package script

import (
	"strconv"
	"strings"

	"github.com/spaceguard/spaceguard/curated"
	"github.com/spaceguard/spaceguard/memspace/platform"
)

func addressOf(m []byte) uintptr {
	return platform.AddressOf(m)
}

// resolve a ref to an address. the offset is checked against the buffer the
// name refers to
func (in *Interpreter) resolve(ref string) (string, uintptr, error) {
	name := ref
	var offset int

	if i := strings.IndexAny(ref, "+-"); i > 0 {
		name = ref[:i]
		v, err := strconv.ParseInt(ref[i:], 0, 64)
		if err != nil {
			return "", 0, curated.Errorf(InvalidArgument, "ref", ref)
		}
		offset = int(v)
	}

	b, ok := in.names[name]
	if !ok {
		return "", 0, curated.Errorf(UnknownName, name)
	}

	if offset == 0 {
		return name, b.addr, nil
	}

	if b.untracked != nil {
		if offset < 0 || offset >= len(b.untracked) {
			return "", 0, curated.Errorf(InvalidArgument, "ref", ref)
		}
		return name, b.addr + uintptr(offset), nil
	}

	if err := in.mem.CheckOffset(b.space, b.addr, offset); err != nil {
		return "", 0, err
	}

	if offset < 0 {
		return name, b.addr - uintptr(-offset), nil
	}
	return name, b.addr + uintptr(offset), nil
}

func parseInt(cmd string, s string) (int, error) {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, curated.Errorf(InvalidArgument, cmd, s)
	}
	return int(v), nil
}

func parseByte(cmd string, s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, curated.Errorf(InvalidArgument, cmd, s)
	}
	return byte(v), nil
}
