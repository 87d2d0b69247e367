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

// Package qt implements the Apple QuickTime Text codec: a header of
// "{directive:value}" lines (font/size/justify/timeScale/width/height),
// followed by "[HH:MM:SS.cc]" timestamp markers that each open a caption
// lasting until the next marker (the last caption lasts 4 seconds).
package qt

import (
	"fmt"
	"strings"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
	"github.com/wiedymi/subforge-sub002/pkg/timecode"
)

const defaultTailMs = 4000

// Parse decodes a QuickTime Text document using default ParseOptions.
func Parse(raw string) *subtitle.ParseResult {
	return ParseWithOptions(raw, subtitle.DefaultParseOptions())
}

// ParseWithOptions decodes a QuickTime Text document.
func ParseWithOptions(raw string, opts subtitle.ParseOptions) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}

	raw = strings.TrimPrefix(raw, "﻿")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")

	type pending struct {
		ms        int
		textLines []string
	}
	var pendings []pending
	var cur *pending

	for lineNo, line := range lines {
		lineNo++
		trimmed := strings.TrimSpace(line)
		if ms, ok := parseBracketTimestamp(trimmed); ok {
			pendings = append(pendings, pending{ms: ms})
			cur = &pendings[len(pendings)-1]
			continue
		}
		if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") && cur == nil {
			// Header directive (font/size/justify/timeScale/...): carries no
			// per-event data this codec models, so it's dropped.
			continue
		}
		if cur == nil {
			if trimmed != "" {
				res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrMalformedEvent, lineNo, 0,
					fmt.Sprintf("text line %q before any timestamp marker", trimmed)))
				if opts.OnError == subtitle.OnErrorThrow {
					res.OK = false
					return res
				}
			}
			continue
		}
		cur.textLines = append(cur.textLines, line)
	}

	for i, p := range pendings {
		e := doc.NewEvent()
		e.StartMs = p.ms
		if i+1 < len(pendings) {
			e.EndMs = pendings[i+1].ms
		} else {
			e.EndMs = p.ms + defaultTailMs
		}
		e.SetText(strings.TrimRight(strings.Join(p.textLines, "\n"), "\n"))
	}

	return res
}

func parseBracketTimestamp(line string) (int, bool) {
	if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
		return 0, false
	}
	body := line[1 : len(line)-1]
	ms, err := timecode.ParseRealText(body)
	if err != nil {
		return 0, false
	}
	return ms, true
}

// Serialize encodes a document as QuickTime Text using default
// SerializeOptions.
func Serialize(doc *subtitle.Document) string {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as QuickTime Text.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) string {
	var sb strings.Builder
	if opts.IncludeHead {
		sb.WriteString("{QTtext}{font:Arial}{plain}{size:12}{timeScale:600}{width:320}{height:60}\n")
	}
	for _, e := range doc.Events {
		if e.ResolvedText() == "" {
			continue
		}
		fmt.Fprintf(&sb, "[%s]\n%s\n", timecode.FormatRealText(e.StartMs+opts.OffsetMs), e.ResolvedText())
	}
	return sb.String()
}
