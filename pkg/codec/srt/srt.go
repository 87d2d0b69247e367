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

// Package srt implements the SubRip (.srt) codec: a numbered-block, blank-
// line-delimited format with "HH:MM:SS,mmm --> HH:MM:SS,mmm" timing lines
// and HTML-like inline markup (<b>/<i>/<u>/<font>).
package srt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
	"github.com/wiedymi/subforge-sub002/pkg/tag/htmltag"
	"github.com/wiedymi/subforge-sub002/pkg/timecode"
)

const arrow = "-->"

// Parse decodes an SRT document using default ParseOptions.
func Parse(raw string) *subtitle.ParseResult {
	return ParseWithOptions(raw, subtitle.DefaultParseOptions())
}

// ParseWithOptions decodes an SRT document, splitting it into blank-line-
// delimited blocks: an optional numeric index line, a timing line, and one
// or more text lines.
func ParseWithOptions(raw string, opts subtitle.ParseOptions) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}

	raw = stripBOM(raw)
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	i := 0
	lineNo := 1
	for i < len(lines) {
		for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
			i++
			lineNo++
		}
		if i >= len(lines) {
			break
		}

		blockStart := lineNo
		idxLine := strings.TrimSpace(lines[i])
		timingLineIdx := i
		if !strings.Contains(idxLine, arrow) {
			// idxLine is a standalone index; the timing line follows.
			i++
			lineNo++
			timingLineIdx = i
		}
		if timingLineIdx >= len(lines) {
			break
		}
		start, end, ok := parseTiming(lines[timingLineIdx])
		if !ok {
			err := subtitle.NewError(subtitle.ErrInvalidTimestamp, blockStart, 0,
				fmt.Sprintf("malformed SRT timing line %q", lines[timingLineIdx]))
			res.Errors = append(res.Errors, err)
			if opts.OnError == subtitle.OnErrorThrow {
				res.OK = false
				return res
			}
			// Resync: skip to next blank line.
			for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
				i++
				lineNo++
			}
			continue
		}
		i = timingLineIdx + 1
		lineNo++

		var textLines []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			textLines = append(textLines, lines[i])
			i++
			lineNo++
		}

		e := doc.NewEvent()
		e.StartMs = start
		e.EndMs = end
		text := strings.Join(textLines, "\n")
		e.SetSegments(htmltag.Parse(text))
	}

	if len(doc.Events) == 0 && len(res.Errors) > 0 {
		res.OK = false
	}
	return res
}

// parseTiming parses "HH:MM:SS,mmm --> HH:MM:SS,mmm", tolerating trailing
// rendering hints (e.g. "X1:.. Y1:..") after the end timestamp.
func parseTiming(line string) (start, end int, ok bool) {
	idx := strings.Index(line, arrow)
	if idx < 0 {
		return 0, 0, false
	}
	left := strings.TrimSpace(line[:idx])
	right := strings.TrimSpace(line[idx+len(arrow):])
	if fields := strings.Fields(right); len(fields) > 0 {
		right = fields[0]
	}
	s, err := timecode.ParseSRT(left)
	if err != nil {
		return 0, 0, false
	}
	e, err := timecode.ParseSRT(right)
	if err != nil {
		return 0, 0, false
	}
	return s, e, true
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "﻿")
}

// Serialize encodes a document as SRT using default SerializeOptions.
func Serialize(doc *subtitle.Document) string {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as SRT, numbering events in
// document order starting at 1 and applying opts.OffsetMs to every
// timestamp.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) string {
	var sb strings.Builder
	for i, e := range doc.Events {
		if e.ResolvedText() == "" && e.Image == nil {
			continue
		}
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteByte('\n')
		sb.WriteString(timecode.FormatSRT(e.StartMs + opts.OffsetMs))
		sb.WriteString(" --> ")
		sb.WriteString(timecode.FormatSRT(e.EndMs + opts.OffsetMs))
		sb.WriteByte('\n')
		if e.Dirty {
			sb.WriteString(htmltag.Serialize(e.Segments))
		} else {
			sb.WriteString(e.Text)
		}
		sb.WriteString("\n\n")
	}
	return sb.String()
}
