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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes (and
// sub-modes) and allows different flags for each mode.
//
// Whereas, with flag.FlagSet you call Parse() with the array of strings as the
// only argument, with modalflag you first call NewArgs() with the array of
// arguments and then Parse() with no arguments:
//
//	md = Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "DEMO", "FAULTS")
//	p, err := md.Parse()
//
// The first sub-mode is the default mode. After Parse(), the Mode() function
// returns the selected mode and the caller calls NewMode() before adding the
// flags for that mode and calling Parse() again:
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		native := md.AddBool("native", true, "use native memory protection")
//		p, err := md.Parse()
//		...
//	}
//
// Sub-mode comparisons are case insensitive. Help for each mode is printed
// automatically when the -help flag is encountered and Parse() returns
// ParseHelp.
package modalflag
