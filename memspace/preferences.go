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
	"github.com/spaceguard/spaceguard/paths"
	"github.com/spaceguard/spaceguard/prefs"
)

// Preferences for the memspace package.
type Preferences struct {
	dsk *prefs.Disk

	// fill newly allocated buffers with PoisonByte. uninitialised memory is
	// then easier to recognise
	Poison     prefs.Bool
	PoisonByte prefs.Int

	// stop executing the emulated program at the first fault. faults are
	// always returned as errors, this preference is for the benefit of
	// callers
	AbortOnFault prefs.Bool

	// log a warning whenever untracked host memory is used in a copy
	WarnUntracked prefs.Bool

	// refuse operations from goroutines other than the one that created the
	// Memory instance
	CheckOwner prefs.Bool
}

func (p *Preferences) String() string {
	if p.dsk == nil {
		return ""
	}
	return p.dsk.String()
}

// NewPreferences loads the memspace preferences from the default preferences
// file.
func NewPreferences() (*Preferences, error) {
	return NewPreferencesFromFile(paths.ResourcePath(prefs.DefaultPrefsFile))
}

// NewPreferencesFromFile loads the memspace preferences from the named file.
// The file does not need to exist.
func NewPreferencesFromFile(pth string) (*Preferences, error) {
	p := DefaultPreferences()

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("memspace.poison", &p.Poison)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("memspace.poisonByte", &p.PoisonByte)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("memspace.abortOnFault", &p.AbortOnFault)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("memspace.warnUntracked", &p.WarnUntracked)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("memspace.checkOwner", &p.CheckOwner)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// DefaultPreferences returns preferences with default values that are not
// associated with a file.
func DefaultPreferences() *Preferences {
	p := &Preferences{}
	p.SetDefaults()
	return p
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	p.Poison.Set(false)
	p.PoisonByte.Set(0xa5)
	p.AbortOnFault.Set(true)
	p.WarnUntracked.Set(true)
	p.CheckOwner.Set(false)
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Load()
}

// Save preferences to disk.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Save()
}

// AllowLogging implements the logger.Permission interface. Warnings about
// untracked memory are only logged if the WarnUntracked preference is set.
func (p *Preferences) AllowLogging() bool {
	return p.WarnUntracked.Get().(bool)
}
