// Copyright 2020-2021 The Subforge Authors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package subtitle

import "fmt"

// Validate checks the §3 invariants that a hand-built or mutated document
// must hold: the style map contains "Default", event IDs are unique, and
// every event has End >= Start. It does not check style-name resolution,
// since spec.md explicitly makes that lazy/non-fatal.
func (d *Document) Validate() error {
	if _, ok := d.Styles.Get(DefaultStyleName); !ok {
		return fmt.Errorf("subtitle: style map missing %q", DefaultStyleName)
	}
	seen := make(map[uint64]bool, len(d.Events))
	for _, e := range d.Events {
		if seen[e.ID] {
			return fmt.Errorf("subtitle: duplicate event id %d", e.ID)
		}
		seen[e.ID] = true
		if e.EndMs < e.StartMs {
			return fmt.Errorf("subtitle: event %d has end (%dms) before start (%dms)", e.ID, e.EndMs, e.StartMs)
		}
	}
	return nil
}
