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

// Package lrc implements the LRC lyrics (.lrc) codec: "[mm:ss.xx]text"
// timestamp lines, "[key:value]" metadata tags, a line carrying more than
// one leading timestamp tag (the same lyric repeats at each time), and the
// enhanced-LRC per-word "<mm:ss.xx>" karaoke extension.
package lrc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
	"github.com/wiedymi/subforge-sub002/pkg/timecode"
)

// defaultLineMs is used as an event's duration when no subsequent lyric
// line's timestamp is available to derive it from.
const defaultLineMs = 4000

// Parse decodes an LRC document using default ParseOptions.
func Parse(raw string) *subtitle.ParseResult {
	return ParseWithOptions(raw, subtitle.DefaultParseOptions())
}

// ParseWithOptions decodes an LRC document.
func ParseWithOptions(raw string, opts subtitle.ParseOptions) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}

	raw = strings.TrimPrefix(raw, "﻿")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	type pending struct {
		ms   int
		text string
	}
	var lines []pending

	for lineNo, rawLine := range strings.Split(raw, "\n") {
		lineNo++
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "[") {
			continue
		}

		times, rest, isTimestamp := leadingTimestamps(line)
		if !isTimestamp {
			applyMetadataTag(doc, line)
			continue
		}
		if len(times) == 0 {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidTimestamp, lineNo, 0,
				fmt.Sprintf("malformed LRC timestamp in %q", line)))
			if opts.OnError == subtitle.OnErrorThrow {
				res.OK = false
				return res
			}
			continue
		}
		for _, ms := range times {
			lines = append(lines, pending{ms: ms, text: rest})
		}
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].ms < lines[j].ms })

	for i, p := range lines {
		e := doc.NewEvent()
		e.StartMs = p.ms
		if i+1 < len(lines) {
			e.EndMs = lines[i+1].ms
		} else {
			e.EndMs = p.ms + defaultLineMs
		}
		if segs, ok := parseEnhanced(p.text, e.StartMs, e.EndMs); ok {
			e.SetSegments(segs)
		} else {
			e.SetText(p.text)
		}
	}

	return res
}

// leadingTimestamps consumes one or more consecutive "[mm:ss.xx]" tags from
// the start of the line and returns their millisecond offsets plus the
// remaining text; ok is false if the first tag isn't a timestamp.
func leadingTimestamps(line string) (times []int, rest string, ok bool) {
	for strings.HasPrefix(line, "[") {
		end := strings.IndexByte(line, ']')
		if end < 0 {
			break
		}
		body := line[1:end]
		ms, err := timecode.ParseLRC(body)
		if err != nil {
			break
		}
		times = append(times, ms)
		line = line[end+1:]
	}
	return times, line, len(times) > 0
}

func applyMetadataTag(doc *subtitle.Document, line string) {
	end := strings.IndexByte(line, ']')
	if end < 0 {
		return
	}
	body := line[1:end]
	key, value, found := strings.Cut(body, ":")
	if !found {
		return
	}
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	switch key {
	case "ti":
		doc.Info.Title = value
	case "ar":
		doc.Info.Author = value
	default:
		doc.Comments = append(doc.Comments, subtitle.Comment{
			Text:             body,
			BeforeEventIndex: len(doc.Events),
		})
	}
}

// parseEnhanced decomposes an enhanced-LRC line's inline "<mm:ss.xx>" word
// timestamps into karaoke-tagged segments, grounded on the proportional
// karaoke-explode operation's segment/duration shape. ok is false when the
// line carries no enhanced tags, so the caller keeps plain text.
func parseEnhanced(text string, startMs, endMs int) ([]subtitle.TextSegment, bool) {
	if !strings.Contains(text, "<") {
		return nil, false
	}

	type word struct {
		ms   int
		text string
	}
	var words []word
	rest := text
	for {
		lt := strings.IndexByte(rest, '<')
		if lt < 0 {
			if rest != "" && len(words) > 0 {
				words[len(words)-1].text += rest
			}
			break
		}
		gt := strings.IndexByte(rest[lt:], '>')
		if gt < 0 {
			break
		}
		gt += lt
		before := rest[:lt]
		if before != "" && len(words) > 0 {
			words[len(words)-1].text += before
		}
		ms, err := timecode.ParseLRC(rest[lt+1 : gt])
		if err != nil {
			return nil, false
		}
		words = append(words, word{ms: ms})
		rest = rest[gt+1:]
	}
	if len(words) == 0 {
		return nil, false
	}

	segs := make([]subtitle.TextSegment, 0, len(words))
	for i, w := range words {
		end := endMs
		if i+1 < len(words) {
			end = words[i+1].ms
		}
		dur := end - w.ms
		if dur < 0 {
			dur = 0
		}
		segs = append(segs, subtitle.TextSegment{
			Text: w.text,
			Effects: []subtitle.Effect{{
				Kind:                subtitle.EffectKaraoke,
				KaraokeDurationMs:   dur,
				KaraokeMode:         subtitle.KaraokeFill,
			}},
		})
	}
	return segs, true
}

// Serialize encodes a document as LRC using default SerializeOptions.
func Serialize(doc *subtitle.Document) string {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as LRC. Metadata is emitted first,
// followed by one timestamp line per event in document order.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) string {
	var sb strings.Builder
	if opts.IncludeMetadata {
		if doc.Info.Title != "" {
			fmt.Fprintf(&sb, "[ti:%s]\n", doc.Info.Title)
		}
		if doc.Info.Author != "" {
			fmt.Fprintf(&sb, "[ar:%s]\n", doc.Info.Author)
		}
	}
	for _, e := range doc.Events {
		if e.ResolvedText() == "" {
			continue
		}
		fmt.Fprintf(&sb, "[%s]%s\n", timecode.FormatLRC(e.StartMs+opts.OffsetMs), e.ResolvedText())
	}
	return sb.String()
}
