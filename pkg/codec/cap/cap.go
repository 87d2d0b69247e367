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

// Package cap implements the CaptionMAX CAP format: "$"-prefixed header
// lines declaring video standard/charset/font/color, followed by blank-line
// delimited entries of two "HH:MM:SS:FF" timecodes and one or more text
// lines.
package cap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wiedymi/subforge-sub002/pkg/binary/bcd"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

// Parse decodes a CAP document using default ParseOptions.
func Parse(raw string) *subtitle.ParseResult {
	return ParseWithOptions(raw, subtitle.DefaultParseOptions())
}

// ParseWithOptions decodes a CAP document.
func ParseWithOptions(raw string, opts subtitle.ParseOptions) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}

	raw = strings.TrimPrefix(raw, "﻿")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	fps := 25.0
	if opts.FPS > 0 {
		fps = float64(opts.FPS)
	}

	lines := strings.Split(raw, "\n")
	i := 0
	for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "$") {
		header := strings.TrimSpace(lines[i])
		if strings.HasPrefix(header, "$VideoStandard") {
			v := strings.TrimSpace(strings.TrimPrefix(header, "$VideoStandard"))
			switch strings.ToUpper(v) {
			case "PAL":
				fps = 25
			case "NTSC":
				fps = 29.97
			}
		}
		i++
	}

	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}
		startStr, endStr, ok := splitTimingLine(line)
		if !ok {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrMalformedEvent, i+1, 0,
				fmt.Sprintf("cap: expected timing line, got %q", line)))
			if opts.OnError == subtitle.OnErrorThrow {
				res.OK = false
				return res
			}
			i++
			continue
		}
		i++
		startMs, err1 := parseCapTimecode(startStr, fps)
		endMs, err2 := parseCapTimecode(endStr, fps)
		if err1 != nil || err2 != nil {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidTimestamp, i, 0,
				fmt.Sprintf("cap: invalid timecode in %q", line)))
			if opts.OnError == subtitle.OnErrorThrow {
				res.OK = false
				return res
			}
			for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
				i++
			}
			continue
		}

		var textLines []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			textLines = append(textLines, lines[i])
			i++
		}

		e := doc.NewEvent()
		e.StartMs = startMs
		e.EndMs = endMs
		e.SetText(strings.Join(textLines, "\n"))
	}

	return res
}

func splitTimingLine(line string) (start, end string, ok bool) {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func parseCapTimecode(s string, fps float64) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return 0, fmt.Errorf("cap: malformed timecode %q", s)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.Atoi(parts[2])
	f, err4 := strconv.Atoi(parts[3])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return 0, fmt.Errorf("cap: malformed timecode %q", s)
	}
	tc := bcd.Timecode{Hours: h, Minutes: m, Seconds: sec, Frames: f}
	return tc.ToMs(fps), nil
}

func formatCapTimecode(ms int, fps float64) string {
	tc := bcd.FromMs(ms, fps)
	return fmt.Sprintf("%02d:%02d:%02d:%02d", tc.Hours, tc.Minutes, tc.Seconds, tc.Frames)
}

// Serialize encodes a document as CAP using default SerializeOptions.
func Serialize(doc *subtitle.Document) string {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as CAP.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) string {
	fps := 25.0
	standard := "PAL"
	if opts.FPS > 0 {
		fps = float64(opts.FPS)
	}
	if opts.VideoStandard != "" {
		standard = strings.ToUpper(opts.VideoStandard)
		if standard == "NTSC" {
			fps = 29.97
		}
	}

	var sb strings.Builder
	if opts.IncludeHead {
		sb.WriteString("$CaptionMAX\n")
		fmt.Fprintf(&sb, "$VideoStandard %s\n", standard)
		sb.WriteString("\n")
	}
	for i, e := range doc.Events {
		if e.ResolvedText() == "" {
			continue
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s\t%s\n%s\n",
			formatCapTimecode(e.StartMs+opts.OffsetMs, fps),
			formatCapTimecode(e.EndMs+opts.OffsetMs, fps),
			e.ResolvedText())
	}
	return sb.String()
}
