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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package but the pattern string is retained
// so that the error can be identified later. For example:
//
//	const OutOfBounds = "out of bounds: %s"
//
//	e := curated.Errorf(OutOfBounds, "copy destination")
//
//	if curated.Is(e, OutOfBounds) {
//		fmt.Println("true")
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain.
//
//	f := curated.Errorf("copy: %v", e)
//
//	if curated.Has(f, OutOfBounds) {
//		fmt.Println("true")
//	}
//
// Sentinel patterns should be stored as exported const strings, suitably named
// and commented, in the package that creates them. The memspace package does
// this for every error kind it can return.
//
// The Error() function implementation for curated errors ensures that the
// error chain is normalised. Specifically, that the chain does not contain
// duplicate adjacent parts. This means code does not need to worry about
// whether the function it called has already added the same context:
//
//	copy: copy: out of bounds: copy destination
//
// is reported as:
//
//	copy: out of bounds: copy destination
//
// Chains are thought of as parts separated by the sub-string ": ".
package curated
