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

import "github.com/wiedymi/subforge-sub002/pkg/subtitle"

// karaokeEffect returns the karaoke effect of a segment, if any.
func karaokeEffect(seg subtitle.TextSegment) (subtitle.Effect, bool) {
	for _, e := range seg.Effects {
		if e.Kind == subtitle.EffectKaraoke {
			return e, true
		}
	}
	return subtitle.Effect{}, false
}

// SyllableOffsetMs returns the offset in milliseconds of syllable i: the
// sum of the karaoke durations of every preceding segment.
func SyllableOffsetMs(segments []subtitle.TextSegment, i int) int {
	offset := 0
	for j := 0; j < i && j < len(segments); j++ {
		if k, ok := karaokeEffect(segments[j]); ok {
			offset += k.KaraokeDurationMs
		}
	}
	return offset
}

// ScaleKaraoke multiplies every karaoke segment's duration by factor.
func ScaleKaraoke(segments []subtitle.TextSegment, factor float64) {
	for i := range segments {
		for j := range segments[i].Effects {
			if segments[i].Effects[j].Kind == subtitle.EffectKaraoke {
				segments[i].Effects[j].KaraokeDurationMs = int(float64(segments[i].Effects[j].KaraokeDurationMs)*factor + 0.5)
			}
		}
	}
}

// RetimeKaraoke overwrites karaoke durations pointwise from durationsMs; if
// durationsMs is shorter than the number of karaoke segments, trailing
// segments are left untouched.
func RetimeKaraoke(segments []subtitle.TextSegment, durationsMs []int) {
	idx := 0
	for i := range segments {
		for j := range segments[i].Effects {
			if segments[i].Effects[j].Kind == subtitle.EffectKaraoke {
				if idx < len(durationsMs) {
					segments[i].Effects[j].KaraokeDurationMs = durationsMs[idx]
				}
				idx++
			}
		}
	}
}

// ExplodeKaraoke returns one event per karaoke syllable, each with
// proportional timing derived from the syllable durations, replacing the
// original single event. The returned events are not yet added to any
// document; IDs are left zero for the caller/document to assign.
func ExplodeKaraoke(e *subtitle.Event) []*subtitle.Event {
	var out []*subtitle.Event
	cursor := e.StartMs
	for _, seg := range e.Segments {
		k, ok := karaokeEffect(seg)
		dur := k.KaraokeDurationMs
		if !ok {
			dur = 0
		}
		ne := &subtitle.Event{
			StartMs: cursor,
			EndMs:   cursor + dur,
			Layer:   e.Layer,
			Style:   e.Style,
			Actor:   e.Actor,
			MarginL: e.MarginL, MarginR: e.MarginR, MarginV: e.MarginV,
			Effect: e.Effect,
		}
		ne.SetText(seg.Text)
		out = append(out, ne)
		cursor += dur
	}
	return out
}

// GetActiveKaraokeSegment returns the index of the segment whose karaoke
// span contains tRelMs (time relative to the event's start), or -1.
func GetActiveKaraokeSegment(segments []subtitle.TextSegment, tRelMs int) int {
	cursor := 0
	for i, seg := range segments {
		k, ok := karaokeEffect(seg)
		dur := 0
		if ok {
			dur = k.KaraokeDurationMs
		}
		if tRelMs >= cursor && tRelMs < cursor+dur {
			return i
		}
		cursor += dur
	}
	return -1
}

// GetKaraokeProgress returns the overall karaoke progress in [0,1] at
// tRelMs across the full segment sequence.
func GetKaraokeProgress(segments []subtitle.TextSegment, tRelMs int) float64 {
	total := 0
	for _, seg := range segments {
		if k, ok := karaokeEffect(seg); ok {
			total += k.KaraokeDurationMs
		}
	}
	if total == 0 {
		return 0
	}
	if tRelMs <= 0 {
		return 0
	}
	if tRelMs >= total {
		return 1
	}
	return float64(tRelMs) / float64(total)
}
