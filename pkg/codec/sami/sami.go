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

// Package sami implements the SAMI (.smi) codec: a full HTML-ish document
// with <SYNC Start=ms> markers that open a caption lasting until the next
// <SYNC>, <P Class=lang> blocks selecting a per-language style, and
// <BR>/<b>/<i>/<u> markup inside. Parsed with golang.org/x/net/html's
// tokenizer, same as htmltag, since SAMI documents are real (if archaic)
// HTML.
package sami

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

// Parse decodes a SAMI document using default ParseOptions.
func Parse(raw string) *subtitle.ParseResult {
	return ParseWithOptions(raw, subtitle.DefaultParseOptions())
}

// ParseWithOptions decodes a SAMI document.
func ParseWithOptions(raw string, opts subtitle.ParseOptions) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}

	raw = strings.TrimPrefix(raw, "﻿")
	z := html.NewTokenizer(strings.NewReader(raw))

	var cur *subtitle.Event
	var styleStack []*subtitle.InlineStyle
	var curStyle *subtitle.InlineStyle
	var buf strings.Builder
	var segs []subtitle.TextSegment
	inHead := false
	lineNo := 1

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
		cur.EndMs = endMs
		cur.SetSegments(segs)
		segs = nil
		cur = nil
		curStyle = nil
		styleStack = nil
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			closeCurrent(lastStart(cur) + 4000)
			return res

		case html.TextToken:
			if inHead || cur == nil {
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
				attrs[strings.ToLower(string(k))] = v2s(v)
			}
			switch name {
			case "head":
				inHead = true
			case "sync":
				startMs, ok := parseStartAttr(attrs)
				if !ok {
					res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidTimestamp, lineNo, 0,
						fmt.Sprintf("malformed SYNC Start attribute in %v", attrs)))
					if opts.OnError == subtitle.OnErrorThrow {
						res.OK = false
						return res
					}
					continue
				}
				closeCurrent(startMs)
				cur = doc.NewEvent()
				cur.StartMs = startMs
			case "p":
				if cls, ok := attrs["class"]; ok {
					cur.Style = mapClassToStyle(doc, cls)
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
			case "head":
				inHead = false
			case "body", "sami":
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

func v2s(v []byte) string { return string(v) }

func parseStartAttr(attrs map[string]string) (int, bool) {
	v, ok := attrs["start"]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

// mapClassToStyle resolves a <P Class=...> language class to a document
// style name, registering a passthrough style the first time a class is
// seen (SAMI's actual per-class appearance lives in a CSS <STYLE> block this
// codec does not parse).
func mapClassToStyle(doc *subtitle.Document, class string) string {
	if class == "" {
		return subtitle.DefaultStyleName
	}
	if _, ok := doc.Styles.Get(class); !ok {
		s := subtitle.NewDefaultStyle()
		s.Name = class
		doc.Styles.Set(s)
	}
	return class
}

// Serialize encodes a document as SAMI using default SerializeOptions.
func Serialize(doc *subtitle.Document) string {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as SAMI.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) string {
	var sb strings.Builder
	sb.WriteString("<SAMI>\n<HEAD>\n")
	if opts.IncludeMetadata && doc.Info.Title != "" {
		fmt.Fprintf(&sb, "<TITLE>%s</TITLE>\n", html.EscapeString(doc.Info.Title))
	}
	sb.WriteString("</HEAD>\n<BODY>\n")
	for _, e := range doc.Events {
		if e.ResolvedText() == "" {
			continue
		}
		class := e.Style
		if class == "" {
			class = subtitle.DefaultStyleName
		}
		fmt.Fprintf(&sb, "<SYNC Start=%d><P Class=%s>%s\n", e.StartMs+opts.OffsetMs, class, serializeSegments(e))
	}
	fmt.Fprintf(&sb, "<SYNC Start=%d><P Class=%s>&nbsp;\n", lastEnd(doc)+opts.OffsetMs, subtitle.DefaultStyleName)
	sb.WriteString("</BODY>\n</SAMI>\n")
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
		sb.WriteString(strings.ReplaceAll(html.EscapeString(seg.Text), "\n", "<BR>"))
	}
	for i := len(open) - 1; i >= 0; i-- {
		sb.WriteString("</" + open[i] + ">")
	}
	return sb.String()
}

func lastEnd(doc *subtitle.Document) int {
	if len(doc.Events) == 0 {
		return 0
	}
	return doc.Events[len(doc.Events)-1].EndMs
}
