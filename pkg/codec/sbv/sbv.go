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

// Package sbv implements the YouTube SubViewer (.sbv) codec: blank-line-
// delimited blocks of a "H:MM:SS.mmm,H:MM:SS.mmm" timing line followed by
// one or more plain-text lines. SBV carries no inline markup.
package sbv

import (
	"fmt"
	"strings"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
	"github.com/wiedymi/subforge-sub002/pkg/timecode"
)

// Parse decodes an SBV document using default ParseOptions.
func Parse(raw string) *subtitle.ParseResult {
	return ParseWithOptions(raw, subtitle.DefaultParseOptions())
}

// ParseWithOptions decodes an SBV document.
func ParseWithOptions(raw string, opts subtitle.ParseOptions) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}

	raw = strings.TrimPrefix(raw, "﻿")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")

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
		timingLine := lines[i]
		start, end, ok := parseTiming(timingLine)
		if !ok {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidTimestamp, lineNo, 0,
				fmt.Sprintf("malformed SBV timing line %q", timingLine)))
			if opts.OnError == subtitle.OnErrorThrow {
				res.OK = false
				return res
			}
			i++
			lineNo++
			continue
		}
		i++
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
		e.SetText(strings.Join(textLines, "\n"))
	}

	return res
}

func parseTiming(line string) (start, end int, ok bool) {
	left, right, found := strings.Cut(line, ",")
	if !found {
		return 0, 0, false
	}
	s, err := timecode.ParseSBV(strings.TrimSpace(left))
	if err != nil {
		return 0, 0, false
	}
	e, err := timecode.ParseSBV(strings.TrimSpace(right))
	if err != nil {
		return 0, 0, false
	}
	return s, e, true
}

// Serialize encodes a document as SBV using default SerializeOptions.
func Serialize(doc *subtitle.Document) string {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as SBV.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) string {
	var sb strings.Builder
	for i, e := range doc.Events {
		if e.ResolvedText() == "" {
			continue
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(timecode.FormatSBV(e.StartMs + opts.OffsetMs))
		sb.WriteByte(',')
		sb.WriteString(timecode.FormatSBV(e.EndMs + opts.OffsetMs))
		sb.WriteByte('\n')
		sb.WriteString(e.ResolvedText())
		sb.WriteByte('\n')
	}
	return sb.String()
}
