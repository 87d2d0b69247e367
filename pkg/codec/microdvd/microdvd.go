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

// Package microdvd implements the MicroDVD (.sub) codec: one event per
// line, "{startFrame}{endFrame}text" addressed in frame numbers rather than
// timestamps, converted to milliseconds using the caller-supplied fps
// (ParseOptions.FPS / SerializeOptions.FPS, 25 if unset).
package microdvd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
	"github.com/wiedymi/subforge-sub002/pkg/tag/microdvdtag"
	"github.com/wiedymi/subforge-sub002/pkg/timecode"
)

// Parse decodes a MicroDVD document using default ParseOptions (25fps).
func Parse(raw string) *subtitle.ParseResult {
	return ParseWithOptions(raw, subtitle.DefaultParseOptions())
}

// ParseWithOptions decodes a MicroDVD document at opts.FPS (25 if unset).
func ParseWithOptions(raw string, opts subtitle.ParseOptions) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}
	fps := opts.FPS
	if fps <= 0 {
		fps = 25
	}

	raw = strings.TrimPrefix(raw, "﻿")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	for lineNo, line := range strings.Split(raw, "\n") {
		lineNo++
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		startFrame, endFrame, rest, ok := parseFrameLine(line)
		if !ok {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrMalformedEvent, lineNo, 0,
				fmt.Sprintf("malformed MicroDVD line %q", line)))
			if opts.OnError == subtitle.OnErrorThrow {
				res.OK = false
				return res
			}
			continue
		}
		e := doc.NewEvent()
		e.StartMs = timecode.MicroDVDToMs(startFrame, fps)
		e.EndMs = timecode.MicroDVDToMs(endFrame, fps)
		e.SetSegments(microdvdtag.Parse(rest))
	}

	return res
}

// parseFrameLine parses "{123}{456}text".
func parseFrameLine(line string) (start, end int, rest string, ok bool) {
	if !strings.HasPrefix(line, "{") {
		return 0, 0, "", false
	}
	e1 := strings.IndexByte(line, '}')
	if e1 < 0 {
		return 0, 0, "", false
	}
	s, err := strconv.Atoi(line[1:e1])
	if err != nil {
		return 0, 0, "", false
	}
	remainder := line[e1+1:]
	if !strings.HasPrefix(remainder, "{") {
		return 0, 0, "", false
	}
	e2 := strings.IndexByte(remainder, '}')
	if e2 < 0 {
		return 0, 0, "", false
	}
	e, err := strconv.Atoi(remainder[1:e2])
	if err != nil {
		return 0, 0, "", false
	}
	return s, e, remainder[e2+1:], true
}

// Serialize encodes a document as MicroDVD using default SerializeOptions
// (25fps).
func Serialize(doc *subtitle.Document) string {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as MicroDVD at opts.FPS.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) string {
	fps := opts.FPS
	if fps <= 0 {
		fps = 25
	}
	var sb strings.Builder
	for _, e := range doc.Events {
		if e.ResolvedText() == "" {
			continue
		}
		startFrame := timecode.MsToMicroDVD(e.StartMs+opts.OffsetMs, fps)
		endFrame := timecode.MsToMicroDVD(e.EndMs+opts.OffsetMs, fps)
		fmt.Fprintf(&sb, "{%d}{%d}", startFrame, endFrame)
		if e.Dirty {
			sb.WriteString(microdvdtag.Serialize(e.Segments))
		} else {
			sb.WriteString(strings.ReplaceAll(e.Text, "\n", "|"))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
