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

package ops

import (
	"regexp"
	"strings"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

// SearchReplace replaces every occurrence of needle in each event's text
// with replacement, mutating Text and setting Dirty=true (Segments are
// dropped since the plain-text replacement no longer matches them), and
// returns the total number of matches replaced. needle is a plain string
// unless re is non-nil, in which case re is used instead.
func SearchReplace(events []*subtitle.Event, needle, replacement string, re *regexp.Regexp) int {
	count := 0
	for _, e := range events {
		text := e.ResolvedText()
		var n int
		var out string
		if re != nil {
			matches := re.FindAllStringIndex(text, -1)
			n = len(matches)
			out = re.ReplaceAllString(text, replacement)
		} else {
			n = strings.Count(text, needle)
			out = strings.ReplaceAll(text, needle, replacement)
		}
		if n > 0 {
			e.Text = out
			e.Segments = nil
			e.Dirty = false
			count += n
		}
	}
	return count
}

// ChangeStyle renames oldName to newName on every event referencing it,
// returning the number of events changed.
func ChangeStyle(events []*subtitle.Event, oldName, newName string) int {
	count := 0
	for _, e := range events {
		if e.Style == oldName {
			e.Style = newName
			count++
		}
	}
	return count
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// FindByStyle returns events whose Style matches (case-insensitive string,
// or regex if re is non-nil).
func FindByStyle(events []*subtitle.Event, needle string, re *regexp.Regexp) []*subtitle.Event {
	return filterEvents(events, func(e *subtitle.Event) bool {
		if re != nil {
			return re.MatchString(e.Style)
		}
		return containsFold(e.Style, needle)
	})
}

// FindByActor returns events whose Actor matches.
func FindByActor(events []*subtitle.Event, needle string, re *regexp.Regexp) []*subtitle.Event {
	return filterEvents(events, func(e *subtitle.Event) bool {
		if re != nil {
			return re.MatchString(e.Actor)
		}
		return containsFold(e.Actor, needle)
	})
}

// FindByLayer returns events on the given layer.
func FindByLayer(events []*subtitle.Event, layer int) []*subtitle.Event {
	return filterEvents(events, func(e *subtitle.Event) bool { return e.Layer == layer })
}

// FindByText returns events whose resolved text matches.
func FindByText(events []*subtitle.Event, needle string, re *regexp.Regexp) []*subtitle.Event {
	return filterEvents(events, func(e *subtitle.Event) bool {
		text := e.ResolvedText()
		if re != nil {
			return re.MatchString(text)
		}
		return containsFold(text, needle)
	})
}

func filterEvents(events []*subtitle.Event, pred func(*subtitle.Event) bool) []*subtitle.Event {
	var out []*subtitle.Event
	for _, e := range events {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}
