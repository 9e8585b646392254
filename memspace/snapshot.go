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
	"io"

	"github.com/bradleyjkemp/memviz"
)

// BufferSnapshot is a copy of the information in a Buffer. It does not
// include the memory itself.
type BufferSnapshot struct {
	Range  string
	Len    int
	Active bool
}

// RegistrySnapshot is a copy of the information in a Registry.
type RegistrySnapshot struct {
	Space   string
	Buffers []BufferSnapshot
}

// Snapshot is a copy of the state of a Memory instance. It is safe to inspect
// a snapshot with reflection because it contains no references to memory that
// might be protected.
type Snapshot struct {
	Current    string
	Registries []RegistrySnapshot
}

// Snapshot returns a copy of the current state of the Memory instance.
func (mem *Memory) Snapshot() Snapshot {
	snp := Snapshot{
		Current: mem.current.String(),
	}

	for _, s := range RealSpaces {
		reg := mem.registries[s]
		rs := RegistrySnapshot{
			Space:   s.String(),
			Buffers: make([]BufferSnapshot, 0, reg.Len()),
		}
		for _, b := range reg.buffers {
			rs.Buffers = append(rs.Buffers, BufferSnapshot{
				Range:  b.Range().String(),
				Len:    b.Len,
				Active: s == mem.current,
			})
		}
		snp.Registries = append(snp.Registries, rs)
	}

	return snp
}

// Graph writes a graphviz description of a snapshot of the Memory instance.
func (mem *Memory) Graph(w io.Writer) {
	snp := mem.Snapshot()
	memviz.Map(w, &snp)
}
