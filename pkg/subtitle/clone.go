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

import "sync/atomic"

// Clone returns a deep copy of the document. Events get fresh IDs from the
// clone's own allocator, which continues past every ID the original has
// handed out; bitmap buffers and effect lists are freshly allocated, per
// the §3 cloning invariant.
func (d *Document) Clone() *Document {
	c := &Document{
		Info:    d.Info,
		Styles:  d.Styles.Clone(),
		Regions: append([]Region{}, d.Regions...),
	}
	c.alloc.next = atomic.LoadUint64(&d.alloc.next)
	for _, e := range d.Events {
		c.Events = append(c.Events, e.Clone(&c.alloc))
	}
	c.Comments = append([]Comment{}, d.Comments...)
	for _, f := range d.Fonts {
		c.Fonts = append(c.Fonts, f.Clone())
	}
	for _, g := range d.Graphics {
		c.Graphics = append(c.Graphics, g.Clone())
	}
	return c
}
