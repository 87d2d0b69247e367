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

// Package vtt implements the WebVTT (.vtt) codec: a "WEBVTT" signature
// followed by optional NOTE/STYLE/REGION blocks and cues with an optional
// identifier line, a "HH:MM:SS.mmm --> HH:MM:SS.mmm [settings]" timing
// line, and HTML-like cue text (<b>/<i>/<u>/<v>/<c>).
package vtt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
	"github.com/wiedymi/subforge-sub002/pkg/tag/htmltag"
	"github.com/wiedymi/subforge-sub002/pkg/timecode"
)

const arrow = "-->"

// Parse decodes a WebVTT document using default ParseOptions.
func Parse(raw string) *subtitle.ParseResult {
	return ParseWithOptions(raw, subtitle.DefaultParseOptions())
}

// ParseWithOptions decodes a WebVTT document.
func ParseWithOptions(raw string, opts subtitle.ParseOptions) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}

	raw = strings.TrimPrefix(raw, "﻿")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	blocks := splitBlocks(raw)
	if len(blocks) == 0 || !strings.HasPrefix(strings.TrimSpace(blocks[0]), "WEBVTT") {
		err := subtitle.NewError(subtitle.ErrInvalidFormat, 1, 0, "missing WEBVTT signature")
		res.Errors = append(res.Errors, err)
		if opts.OnError == subtitle.OnErrorThrow {
			res.OK = false
			return res
		}
	}
	if len(blocks) > 0 {
		blocks = blocks[1:]
	}

	lineNo := 1
	for _, block := range blocks {
		lines := strings.Split(block, "\n")
		switch {
		case strings.HasPrefix(block, "NOTE"):
			doc.Comments = append(doc.Comments, subtitle.Comment{
				Text:             strings.TrimSpace(strings.TrimPrefix(lines[0], "NOTE")),
				BeforeEventIndex: len(doc.Events),
			})
		case strings.HasPrefix(block, "STYLE"):
			// Carried as a comment: no structured InlineStyle equivalent for
			// a raw CSS block.
			doc.Comments = append(doc.Comments, subtitle.Comment{
				Text:             block,
				BeforeEventIndex: len(doc.Events),
			})
		case strings.HasPrefix(block, "REGION"):
			doc.Regions = append(doc.Regions, parseRegion(lines[1:]))
		default:
			parseCue(doc, res, lines, lineNo, opts)
		}
		lineNo += len(lines) + 1
	}

	return res
}

func splitBlocks(raw string) []string {
	var blocks []string
	var cur []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				blocks = append(blocks, strings.Join(cur, "\n"))
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		blocks = append(blocks, strings.Join(cur, "\n"))
	}
	return blocks
}

func parseRegion(lines []string) subtitle.Region {
	r := subtitle.Region{}
	for _, line := range lines {
		k, v, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		switch k {
		case "id":
			r.ID = v
		case "width":
			r.Width = v
		case "lines":
			if n, err := strconv.Atoi(v); err == nil {
				r.Lines = n
			}
		case "regionanchor":
			r.RegionAnchor = v
		case "viewportanchor":
			r.ViewportAnchor = v
		case "scroll":
			if v == "up" {
				r.Scroll = subtitle.ScrollUp
			}
		}
	}
	return r
}

func parseCue(doc *subtitle.Document, res *subtitle.ParseResult, lines []string, lineNo int, opts subtitle.ParseOptions) {
	idx := 0
	if !strings.Contains(lines[0], arrow) {
		idx = 1
	}
	if idx >= len(lines) {
		return
	}
	start, end, settings, ok := parseTiming(lines[idx])
	if !ok {
		err := subtitle.NewError(subtitle.ErrInvalidTimestamp, lineNo+idx, 0,
			fmt.Sprintf("malformed WebVTT timing line %q", lines[idx]))
		res.Errors = append(res.Errors, err)
		if opts.OnError == subtitle.OnErrorThrow {
			res.OK = false
		}
		return
	}

	e := doc.NewEvent()
	e.StartMs = start
	e.EndMs = end
	e.Effect = settings
	text := strings.Join(lines[idx+1:], "\n")
	segs := htmltag.Parse(text)
	if v, ok := voiceName(text); ok {
		e.Actor = v
	}
	e.SetSegments(segs)
}

// voiceName extracts the speaker name from a leading "<v Speaker Name>" tag,
// since WebVTT voice spans map to Event.Actor rather than an InlineStyle.
func voiceName(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "<v ") && !strings.HasPrefix(text, "<v.") {
		return "", false
	}
	end := strings.IndexByte(text, '>')
	if end < 0 {
		return "", false
	}
	inner := text[3:end]
	if sp := strings.IndexByte(inner, ' '); sp >= 0 {
		inner = inner[sp+1:]
	} else if dot := strings.IndexByte(inner, '.'); dot >= 0 {
		return "", false
	}
	return strings.TrimSpace(inner), inner != ""
}

func parseTiming(line string) (start, end int, settings string, ok bool) {
	idx := strings.Index(line, arrow)
	if idx < 0 {
		return 0, 0, "", false
	}
	left := strings.TrimSpace(line[:idx])
	rest := strings.TrimSpace(line[idx+len(arrow):])
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0, 0, "", false
	}
	right := fields[0]
	settings = strings.Join(fields[1:], " ")

	s, err := timecode.ParseWebVTT(left)
	if err != nil {
		return 0, 0, "", false
	}
	e, err := timecode.ParseWebVTT(right)
	if err != nil {
		return 0, 0, "", false
	}
	return s, e, settings, true
}

// Serialize encodes a document as WebVTT using default SerializeOptions.
func Serialize(doc *subtitle.Document) string {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as WebVTT.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	for _, r := range doc.Regions {
		sb.WriteString("REGION\n")
		if r.ID != "" {
			fmt.Fprintf(&sb, "id:%s\n", r.ID)
		}
		if r.Width != "" {
			fmt.Fprintf(&sb, "width:%s\n", r.Width)
		}
		if r.Lines != 0 {
			fmt.Fprintf(&sb, "lines:%d\n", r.Lines)
		}
		if r.RegionAnchor != "" {
			fmt.Fprintf(&sb, "regionanchor:%s\n", r.RegionAnchor)
		}
		if r.ViewportAnchor != "" {
			fmt.Fprintf(&sb, "viewportanchor:%s\n", r.ViewportAnchor)
		}
		if r.Scroll == subtitle.ScrollUp {
			sb.WriteString("scroll:up\n")
		}
		sb.WriteByte('\n')
	}

	for _, e := range doc.Events {
		if e.ResolvedText() == "" && e.Image == nil {
			continue
		}
		sb.WriteString(timecode.FormatWebVTT(e.StartMs + opts.OffsetMs))
		sb.WriteString(" --> ")
		sb.WriteString(timecode.FormatWebVTT(e.EndMs + opts.OffsetMs))
		if e.Effect != "" {
			sb.WriteByte(' ')
			sb.WriteString(e.Effect)
		}
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
