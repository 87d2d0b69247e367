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

// Package realtext implements the RealPlayer RealText (.rt) codec: a
// <window>-wrapped document of <time begin="..." [end="..."]/> markers that
// each open a caption lasting to the next marker (or to its own "end"
// attribute when present), with <br/>/<b>/<i>/<u> markup between them.
package realtext

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
	"github.com/wiedymi/subforge-sub002/pkg/timecode"
)

// Parse decodes a RealText document using default ParseOptions.
func Parse(raw string) *subtitle.ParseResult {
	return ParseWithOptions(raw, subtitle.DefaultParseOptions())
}

// ParseWithOptions decodes a RealText document.
func ParseWithOptions(raw string, opts subtitle.ParseOptions) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}

	raw = strings.TrimPrefix(raw, "﻿")
	z := html.NewTokenizer(strings.NewReader(raw))

	var cur *subtitle.Event
	var curEndSet bool
	var styleStack []*subtitle.InlineStyle
	var curStyle *subtitle.InlineStyle
	var buf strings.Builder
	var segs []subtitle.TextSegment

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		segs = append(segs, subtitle.TextSegment{Text: buf.String(), Style: curStyle})
		buf.Reset()
	}
	closeCurrent := func(endMs int) {
		if cur == nil {
			return
		}
		flush()
		if !curEndSet {
			cur.EndMs = endMs
		}
		cur.SetSegments(segs)
		segs = nil
		cur = nil
		curStyle = nil
		curEndSet = false
		styleStack = nil
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			closeCurrent(lastStart(cur) + 4000)
			return res

		case html.TextToken:
			if cur == nil {
				continue
			}
			text := html.UnescapeString(string(z.Text()))
			if strings.TrimSpace(text) == "" {
				continue
			}
			buf.WriteString(strings.Trim(text, "\r\n"))

		case html.StartTagToken, html.SelfClosingTagToken:
			nameBytes, hasAttr := z.TagName()
			name := strings.ToLower(string(nameBytes))
			attrs := map[string]string{}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				attrs[strings.ToLower(string(k))] = string(v)
			}
			switch name {
			case "time":
				beginMs, ok := parseTimeAttr(attrs["begin"])
				if !ok {
					res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidTimestamp, 0, 0,
						fmt.Sprintf("malformed RealText begin attribute %q", attrs["begin"])))
					if opts.OnError == subtitle.OnErrorThrow {
						res.OK = false
						return res
					}
					continue
				}
				closeCurrent(beginMs)
				cur = doc.NewEvent()
				cur.StartMs = beginMs
				if endMs, ok := parseTimeAttr(attrs["end"]); ok {
					cur.EndMs = endMs
					curEndSet = true
				}
			case "br":
				if cur != nil {
					buf.WriteByte('\n')
				}
			case "b", "i", "u":
				if cur == nil {
					continue
				}
				flush()
				styleStack = append(styleStack, curStyle)
				curStyle = curStyle.Clone()
				if curStyle == nil {
					curStyle = &subtitle.InlineStyle{}
				}
				t := true
				switch name {
				case "b":
					curStyle.Bold = &t
				case "i":
					curStyle.Italic = &t
				case "u":
					curStyle.Underline = &t
				}
				if tt == html.SelfClosingTagToken && len(styleStack) > 0 {
					curStyle = styleStack[len(styleStack)-1]
					styleStack = styleStack[:len(styleStack)-1]
				}
			}

		case html.EndTagToken:
			nameBytes, _ := z.TagName()
			name := strings.ToLower(string(nameBytes))
			switch name {
			case "window":
				closeCurrent(lastStart(cur) + 4000)
			case "b", "i", "u":
				if cur == nil {
					continue
				}
				flush()
				if len(styleStack) > 0 {
					curStyle = styleStack[len(styleStack)-1]
					styleStack = styleStack[:len(styleStack)-1]
				}
			}
		}
	}
}

func lastStart(e *subtitle.Event) int {
	if e == nil {
		return 0
	}
	return e.StartMs
}

// parseTimeAttr accepts both "H:MM:SS.cc" and bare-seconds forms.
func parseTimeAttr(v string) (int, bool) {
	if v == "" {
		return 0, false
	}
	if ms, err := timecode.ParseRealText(v); err == nil {
		return ms, true
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return int(secs * 1000), true
	}
	return 0, false
}

// Serialize encodes a document as RealText using default SerializeOptions.
func Serialize(doc *subtitle.Document) string {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as RealText.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) string {
	var sb strings.Builder
	sb.WriteString("<window type=\"generic\">\n")
	for _, e := range doc.Events {
		if e.ResolvedText() == "" {
			continue
		}
		fmt.Fprintf(&sb, "<time begin=\"%s\" end=\"%s\"/>\n",
			timecode.FormatRealText(e.StartMs+opts.OffsetMs),
			timecode.FormatRealText(e.EndMs+opts.OffsetMs))
		sb.WriteString(serializeSegments(e))
		sb.WriteString("\n")
	}
	sb.WriteString("</window>\n")
	return sb.String()
}

func serializeSegments(e *subtitle.Event) string {
	var segs []subtitle.TextSegment
	if e.Dirty {
		segs = e.Segments
	} else {
		segs = []subtitle.TextSegment{{Text: e.Text}}
	}
	var sb strings.Builder
	var open []string
	isSet := func(s *subtitle.InlineStyle, tag string) bool {
		if s == nil {
			return false
		}
		switch tag {
		case "b":
			return s.Bold != nil && *s.Bold
		case "i":
			return s.Italic != nil && *s.Italic
		case "u":
			return s.Underline != nil && *s.Underline
		}
		return false
	}
	order := []string{"b", "i", "u"}
	for _, seg := range segs {
		want := map[string]bool{}
		for _, tag := range order {
			want[tag] = isSet(seg.Style, tag)
		}
		for i := len(open) - 1; i >= 0; i-- {
			if !want[open[i]] {
				for j := len(open) - 1; j >= i; j-- {
					sb.WriteString("</" + open[j] + ">")
				}
				open = open[:i]
				break
			}
		}
		for _, tag := range order {
			if want[tag] {
				found := false
				for _, o := range open {
					if o == tag {
						found = true
					}
				}
				if !found {
					sb.WriteString("<" + tag + ">")
					open = append(open, tag)
				}
			}
		}
		sb.WriteString(strings.ReplaceAll(html.EscapeString(seg.Text), "\n", "<br/>"))
	}
	for i := len(open) - 1; i >= 0; i-- {
		sb.WriteString("</" + open[i] + ">")
	}
	return sb.String()
}
