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

// Demo is the script run by the DEMO mode of spaceguard. It allocates a buffer
// in each space, moves data between them and then makes some mistakes.
const Demo = `# allocate a device buffer while host is the current space. the buffer
# is inaccessible until the device space becomes current
ALLOC device 64 dbuf
ALLOC host 64 hbuf
FILL hbuf 0x2a 64

# copies are allowed regardless of the current space
COPY device dbuf host hbuf 64

SPACE device
EXPECT dbuf 0x2a 64
FILL dbuf+32 0x07 32
COPY host hbuf device dbuf 64

SPACE host
EXPECT hbuf 0x2a 32
EXPECT hbuf+32 0x07 32

# memory from outside the allocator is tolerated in the host space
UNTRACKED scratch 16
COPY host scratch device dbuf 16
EXPECT scratch 0x2a 16

# mistakes
COPY device dbuf+1 host hbuf 64
COPY host dbuf host hbuf 16
FREE host dbuf
FILL dbuf 0x00 1

FREE device dbuf
FREE host hbuf
FAULTS
`
