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

// Package sprucestl implements the text-based Spruce subtitle format:
// "HH:MM:SS:FF , HH:MM:SS:FF , <text>" per line, one event per line with
// "|" as an inline line break. This is unrelated to EBU-STL (see
// pkg/codec/ebustl) beyond sharing the ".stl" extension.
package sprucestl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wiedymi/subforge-sub002/pkg/binary/bcd"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

// Parse decodes a Spruce STL document using default ParseOptions.
func Parse(raw string) *subtitle.ParseResult {
	return ParseWithOptions(raw, subtitle.DefaultParseOptions())
}

// ParseWithOptions decodes a Spruce STL document.
func ParseWithOptions(raw string, opts subtitle.ParseOptions) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}

	raw = strings.TrimPrefix(raw, "﻿")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	fps := 25.0
	if opts.FPS > 0 {
		fps = float64(opts.FPS)
	} else if opts.FrameRate > 0 {
		fps = opts.FrameRate
	}

	for lineNo, line := range strings.Split(raw, "\n") {
		lineNo++
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		startStr, endStr, text, ok := splitLine(trimmed)
		if !ok {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrMalformedEvent, lineNo, 0,
				fmt.Sprintf("sprucestl: malformed line %q", trimmed)))
			if opts.OnError == subtitle.OnErrorThrow {
				res.OK = false
				return res
			}
			continue
		}
		startMs, err1 := parseTC(startStr, fps)
		endMs, err2 := parseTC(endStr, fps)
		if err1 != nil || err2 != nil {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidTimestamp, lineNo, 0,
				fmt.Sprintf("sprucestl: invalid timecode on line %q", trimmed)))
			if opts.OnError == subtitle.OnErrorThrow {
				res.OK = false
				return res
			}
			continue
		}
		e := doc.NewEvent()
		e.StartMs = startMs
		e.EndMs = endMs
		e.SetText(strings.ReplaceAll(text, "|", "\n"))
	}

	return res
}

func splitLine(line string) (start, end, text string, ok bool) {
	parts := strings.SplitN(line, ",", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]), true
}

func parseTC(s string, fps float64) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return 0, fmt.Errorf("sprucestl: malformed timecode %q", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("sprucestl: malformed timecode %q", s)
		}
		vals[i] = n
	}
	tc := bcd.Timecode{Hours: vals[0], Minutes: vals[1], Seconds: vals[2], Frames: vals[3]}
	return tc.ToMs(fps), nil
}

func formatTC(ms int, fps float64) string {
	tc := bcd.FromMs(ms, fps)
	return fmt.Sprintf("%02d:%02d:%02d:%02d", tc.Hours, tc.Minutes, tc.Seconds, tc.Frames)
}

// Serialize encodes a document as Spruce STL using default SerializeOptions.
func Serialize(doc *subtitle.Document) string {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as Spruce STL.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) string {
	fps := 25.0
	if opts.FPS > 0 {
		fps = opts.FPS
	}
	var sb strings.Builder
	for _, e := range doc.Events {
		text := e.ResolvedText()
		if text == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s , %s , %s\n",
			formatTC(e.StartMs+opts.OffsetMs, fps),
			formatTC(e.EndMs+opts.OffsetMs, fps),
			strings.ReplaceAll(text, "\n", "|"))
	}
	return sb.String()
}
