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

// Package ops implements the document-level editing and query operations
// from spec.md §4.2: shift/scale/sort, active-at-time and range lookups,
// search/replace, restyle, overlap/duplicate detection, and karaoke
// manipulation. Every operation here mutates events in place and returns a
// count where useful, per §5's mutation discipline.
package ops

import (
	"sort"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

// ShiftEvents adds deltaMs to every event's start and end.
func ShiftEvents(events []*subtitle.Event, deltaMs int) {
	for _, e := range events {
		e.StartMs += deltaMs
		e.EndMs += deltaMs
	}
}

// ScaleEvents scales every event's times about pivot by factor:
// t' = pivot + (t - pivot) * factor.
func ScaleEvents(events []*subtitle.Event, factor float64, pivotMs int) {
	scale := func(t int) int {
		return pivotMs + int(float64(t-pivotMs)*factor+sign(factor)*0.5)
	}
	for _, e := range events {
		e.StartMs = scale(e.StartMs)
		e.EndMs = scale(e.EndMs)
	}
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

// ApplyLinearCorrection maps timestamps through the affine function defined
// by two (actual, desired) time pairs, generalizing Shift/Scale into a
// single two-point linear retiming operation. Grounded on go-astisub's
// Subtitles.ApplyLinearCorrection.
func ApplyLinearCorrection(events []*subtitle.Event, actual1, desired1, actual2, desired2 int) {
	if actual2 == actual1 {
		return
	}
	a := float64(desired2-desired1) / float64(actual2-actual1)
	b := float64(desired1) - a*float64(actual1)
	apply := func(t int) int { return int(a*float64(t) + b) }
	for _, e := range events {
		e.StartMs = apply(e.StartMs)
		e.EndMs = apply(e.EndMs)
	}
}

// SortByTime sorts events ascending by (start, end); stable so repeated
// calls are idempotent on already-sorted input.
func SortByTime(events []*subtitle.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].StartMs != events[j].StartMs {
			return events[i].StartMs < events[j].StartMs
		}
		return events[i].EndMs < events[j].EndMs
	})
}

// SortByLayer sorts events ascending by (layer, start).
func SortByLayer(events []*subtitle.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Layer != events[j].Layer {
			return events[i].Layer < events[j].Layer
		}
		return events[i].StartMs < events[j].StartMs
	})
}

// GetEventsAt returns all events with start <= t < end.
func GetEventsAt(events []*subtitle.Event, t int) []*subtitle.Event {
	var out []*subtitle.Event
	for _, e := range events {
		if e.StartMs <= t && t < e.EndMs {
			out = append(out, e)
		}
	}
	return out
}

// GetEventsBetween returns all events overlapping [t0, t1).
func GetEventsBetween(events []*subtitle.Event, t0, t1 int) []*subtitle.Event {
	var out []*subtitle.Event
	for _, e := range events {
		if e.StartMs < t1 && e.EndMs > t0 {
			out = append(out, e)
		}
	}
	return out
}

// OverlapPair is a pair of events whose time ranges strictly overlap.
type OverlapPair struct {
	A, B *subtitle.Event
}

// FindOverlapping returns every O(n^2) pair of events whose time ranges
// strictly overlap.
func FindOverlapping(events []*subtitle.Event) []OverlapPair {
	var out []OverlapPair
	for i := 0; i < len(events); i++ {
		for j := i + 1; j < len(events); j++ {
			a, b := events[i], events[j]
			if a.StartMs < b.EndMs && b.StartMs < a.EndMs {
				out = append(out, OverlapPair{A: a, B: b})
			}
		}
	}
	return out
}

// DuplicateKey identifies a group of duplicate events.
type DuplicateKey struct {
	StartMs, EndMs int
	Text           string
}

// FindDuplicates groups events keyed by (start, end, text), returning only
// groups with more than one member.
func FindDuplicates(events []*subtitle.Event) map[DuplicateKey][]*subtitle.Event {
	groups := make(map[DuplicateKey][]*subtitle.Event)
	for _, e := range events {
		k := DuplicateKey{StartMs: e.StartMs, EndMs: e.EndMs, Text: e.ResolvedText()}
		groups[k] = append(groups[k], e)
	}
	for k, v := range groups {
		if len(v) < 2 {
			delete(groups, k)
		}
	}
	return groups
}
