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

// Package htmltag parses the HTML-like inline markup shared by SRT, WebVTT
// and SAMI cue text: <b>, <i>, <u>, <font color=...>, <c.class> and
// WebVTT/SAMI voice/ruby spans, plus <br> line breaks. It is built on
// golang.org/x/net/html's tokenizer rather than a hand-rolled scanner, since
// cue text is a bona fide (if fragmentary) HTML fragment.
package htmltag

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/wiedymi/subforge-sub002/pkg/color"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

// Parse decomposes HTML-like cue text into styled segments. Unrecognized
// tags are ignored structurally but their text content is kept.
func Parse(raw string) []subtitle.TextSegment {
	z := html.NewTokenizer(strings.NewReader(raw))
	var segments []subtitle.TextSegment
	var styleStack []*subtitle.InlineStyle
	var cur *subtitle.InlineStyle
	var buf strings.Builder

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		segments = append(segments, subtitle.TextSegment{Text: buf.String(), Style: cur})
		buf.Reset()
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			flush()
			return segments
		case html.TextToken:
			buf.WriteString(html.UnescapeString(string(z.Text())))
		case html.StartTagToken, html.SelfClosingTagToken:
			name, attrs := tagNameAttrs(z)
			switch name {
			case "br":
				buf.WriteByte('\n')
				continue
			}
			flush()
			styleStack = append(styleStack, cur)
			cur = applyStartTag(cur, name, attrs)
			if tt == html.SelfClosingTagToken && len(styleStack) > 0 {
				cur = styleStack[len(styleStack)-1]
				styleStack = styleStack[:len(styleStack)-1]
			}
		case html.EndTagToken:
			flush()
			if len(styleStack) > 0 {
				cur = styleStack[len(styleStack)-1]
				styleStack = styleStack[:len(styleStack)-1]
			}
		}
	}
}

func tagNameAttrs(z *html.Tokenizer) (string, map[string]string) {
	nameBytes, hasAttr := z.TagName()
	name := strings.ToLower(string(nameBytes))
	attrs := map[string]string{}
	for hasAttr {
		var k, v []byte
		k, v, hasAttr = z.TagAttr()
		attrs[strings.ToLower(string(k))] = string(v)
	}
	return name, attrs
}

func applyStartTag(base *subtitle.InlineStyle, name string, attrs map[string]string) *subtitle.InlineStyle {
	ns := base.Clone()
	if ns == nil {
		ns = &subtitle.InlineStyle{}
	}
	t := true
	switch name {
	case "b":
		ns.Bold = &t
	case "i":
		ns.Italic = &t
	case "u":
		ns.Underline = &t
	case "s", "strike":
		ns.Strikeout = &t
	case "font":
		if v, ok := attrs["color"]; ok {
			if c, err := color.ParseCSS(v); err == nil {
				ns.PrimaryColor = &c
			}
		}
		if v, ok := attrs["face"]; ok {
			ns.FontName = &v
		}
	case "c":
		// WebVTT <c.classname> carries styling information via external CSS
		// that this library cannot resolve; the class name itself has no
		// canonical InlineStyle field and is dropped.
	case "v":
		// WebVTT voice span <v Speaker Name>; the speaker name maps to
		// Event.Actor at the codec layer, not to an InlineStyle field.
	case "ruby", "rt":
		// Ruby annotations have no InlineStyle equivalent; text content is
		// kept, structure is dropped.
	}
	return ns
}

// Serialize renders segments back to HTML-like cue markup, re-opening a tag
// whenever the corresponding InlineStyle field differs from the previous
// segment and closing tags that are no longer active.
func Serialize(segs []subtitle.TextSegment) string {
	var sb strings.Builder
	var openTags []string
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
		// close tags no longer wanted, innermost first
		for i := len(openTags) - 1; i >= 0; i-- {
			if !want[openTags[i]] {
				for j := len(openTags) - 1; j >= i; j-- {
					sb.WriteString("</" + openTags[j] + ">")
				}
				openTags = openTags[:i]
				break
			}
		}
		for _, tag := range order {
			if want[tag] && !contains(openTags, tag) {
				sb.WriteString("<" + tag + ">")
				openTags = append(openTags, tag)
			}
		}
		sb.WriteString(html.EscapeString(strings.ReplaceAll(seg.Text, "\n", "\x00")))
	}
	for i := len(openTags) - 1; i >= 0; i-- {
		sb.WriteString("</" + openTags[i] + ">")
	}
	out := sb.String()
	out = strings.ReplaceAll(out, "\x00", "<br>")
	return out
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
