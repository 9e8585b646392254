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

// Patterns for the curated errors returned by the script package.
const (
	// wraps every error with the line number of the command that caused it
	LineError = "line %d: %v"

	UnknownCommand   = "unknown command: %s"
	WrongArgCount    = "%s: expects %d arguments"
	InvalidArgument  = "%s: invalid argument: %v"
	UnknownName      = "unknown name: %s"
	DuplicateName    = "duplicate name: %s"
	ExpectationError = "expectation failed: %v"
)
