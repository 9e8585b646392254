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

//go:build unix

package memspace

import (
	"runtime/debug"
	"testing"

	"github.com/spaceguard/spaceguard/curated"
	"github.com/spaceguard/spaceguard/memspace/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

var sink byte

func faulted(f func()) (faulted bool) {
	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)

	defer func() {
		if r := recover(); r != nil {
			faulted = true
		}
	}()

	f()
	return false
}

type nativeMemorySuite struct {
	suite.Suite
	assert *assert.Assertions
	mem    *Memory
}

func (s *nativeMemorySuite) SetupTest() {
	s.assert = assert.New(s.T())

	pfm, err := platform.NewNative()
	s.Require().NoError(err)
	s.mem = NewMemory(pfm, nil)
}

func (s *nativeMemorySuite) TearDownTest() {
	s.assert.NoError(s.mem.Close())
}

func (s *nativeMemorySuite) buffer(addr uintptr) Buffer {
	b, _, ok := s.mem.Find(addr)
	s.Require().True(ok)
	return b
}

func (s *nativeMemorySuite) TestProtection() {
	h, err := s.mem.Allocate(Host, 64)
	s.Require().NoError(err)
	d, err := s.mem.Allocate(Device, 64)
	s.Require().NoError(err)

	hb := s.buffer(h)
	db := s.buffer(d)

	// host is the current space so device memory faults
	s.assert.False(faulted(func() { sink = hb.mem[0] }))
	s.assert.True(faulted(func() { sink = db.mem[0] }))
	s.assert.True(faulted(func() { db.mem[63] = 1 }))

	s.Require().NoError(s.mem.SetCurrentSpace(Device))
	s.assert.True(faulted(func() { sink = hb.mem[0] }))
	s.assert.False(faulted(func() { db.mem[63] = 1 }))

	s.Require().NoError(s.mem.SetCurrentSpace(Unknown))
	s.assert.True(faulted(func() { sink = hb.mem[0] }))
	s.assert.True(faulted(func() { sink = db.mem[0] }))
}

func (s *nativeMemorySuite) TestCopy() {
	h, err := s.mem.Allocate(Host, 64)
	s.Require().NoError(err)
	d, err := s.mem.Allocate(Device, 64)
	s.Require().NoError(err)

	hv, err := s.mem.Bytes(Host, h, 64)
	s.Require().NoError(err)
	expected := make([]byte, 64)
	for i := range expected {
		expected[i] = byte(i) ^ 0xff
	}
	copy(hv, expected)

	// the copy succeeds even though the device memory is protected
	s.Require().NoError(s.mem.Copy(Device, d, Host, h, 64))

	db := s.buffer(d)
	s.assert.True(faulted(func() { sink = db.mem[0] }))

	_, err = s.mem.Bytes(Device, d, 64)
	s.assert.True(curated.Is(err, InactiveBuffer))

	// host memory is inaccessible after the switch so hv must not be used
	s.Require().NoError(s.mem.SetCurrentSpace(Device))
	dv, err := s.mem.Bytes(Device, d, 64)
	s.Require().NoError(err)
	s.assert.Equal(expected, dv)
}

func (s *nativeMemorySuite) TestOutOfBoundsLeavesProtection() {
	h, err := s.mem.Allocate(Host, 64)
	s.Require().NoError(err)
	d, err := s.mem.Allocate(Device, 64)
	s.Require().NoError(err)

	err = s.mem.Copy(Device, d, Host, h, 65)
	s.assert.True(curated.Is(err, OutOfBounds))

	db := s.buffer(d)
	s.assert.True(faulted(func() { sink = db.mem[0] }))
}

func TestNativeMemory(t *testing.T) {
	suite.Run(t, new(nativeMemorySuite))
}
