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

// Package ttml implements the TTML / DFXP / SMPTE-TT family: XML documents
// whose <body><div><p> elements carry begin/end or begin/dur timing, with
// <head><styling> and <head><layout> contributing styles and regions. The
// three dialects share this shape closely enough to use one parser; this is
// the one codec in the set that reaches for encoding/xml over a bespoke
// scanner, since the input genuinely is well-formed XML.
package ttml

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/wiedymi/subforge-sub002/pkg/color"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

type ttRoot struct {
	XMLName xml.Name `xml:"tt"`
	Head    ttHead   `xml:"head"`
	Body    ttBody   `xml:"body"`
}

type ttHead struct {
	Styling ttStyling `xml:"styling"`
	Layout  ttLayout  `xml:"layout"`
}

type ttStyling struct {
	Styles []ttStyle `xml:"style"`
}

type ttStyle struct {
	ID         string `xml:"id,attr"`
	FontFamily string `xml:"fontFamily,attr"`
	FontSize   string `xml:"fontSize,attr"`
	Color      string `xml:"color,attr"`
	BgColor    string `xml:"backgroundColor,attr"`
	FontStyle  string `xml:"fontStyle,attr"`
	FontWeight string `xml:"fontWeight,attr"`
	TextDecor  string `xml:"textDecoration,attr"`
}

type ttLayout struct {
	Regions []ttRegion `xml:"region"`
}

type ttRegion struct {
	ID     string `xml:"id,attr"`
	Extent string `xml:"extent,attr"`
	Origin string `xml:"origin,attr"`
}

type ttBody struct {
	Divs []ttDiv `xml:"div"`
	Ps   []ttP   `xml:"p"`
}

type ttDiv struct {
	Ps []ttP `xml:"p"`
}

// ttP mirrors a <p> element; Inner carries the raw inner XML so inline
// <span>/<br/> markup can be walked by a dedicated sub-decoder rather than
// forcing every inline element into the struct tag model.
type ttP struct {
	Begin  string `xml:"begin,attr"`
	End    string `xml:"end,attr"`
	Dur    string `xml:"dur,attr"`
	Region string `xml:"region,attr"`
	Style  string `xml:"style,attr"`
	Inner  string `xml:",innerxml"`
}

// Parse decodes a TTML/DFXP/SMPTE-TT document using default ParseOptions.
func Parse(raw string) *subtitle.ParseResult {
	return ParseWithOptions(raw, subtitle.DefaultParseOptions())
}

// ParseWithOptions decodes a TTML/DFXP/SMPTE-TT document.
func ParseWithOptions(raw string, opts subtitle.ParseOptions) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}

	raw = strings.TrimPrefix(raw, "﻿")

	var root ttRoot
	dec := xml.NewDecoder(strings.NewReader(raw))
	dec.Entity = map[string]string{}
	dec.Strict = false
	if err := dec.Decode(&root); err != nil {
		res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidFormat, 0, 0, fmt.Sprintf("ttml: %v", err)))
		res.OK = false
		return res
	}

	for _, s := range root.Head.Styling.Styles {
		if s.ID == "" {
			continue
		}
		style := subtitle.NewDefaultStyle()
		style.Name = s.ID
		if s.FontFamily != "" {
			style.FontName = s.FontFamily
		}
		if n, err := strconv.ParseFloat(strings.TrimSuffix(s.FontSize, "px"), 64); err == nil {
			style.FontSize = n
		}
		if s.Color != "" {
			if c, err := color.ParseCSS(s.Color); err == nil {
				style.PrimaryColor = c
			}
		}
		if s.BgColor != "" {
			if c, err := color.ParseCSS(s.BgColor); err == nil {
				style.BackColor = c
			}
		}
		style.Bold = strings.EqualFold(s.FontWeight, "bold")
		style.Italic = strings.EqualFold(s.FontStyle, "italic")
		style.Underline = strings.Contains(strings.ToLower(s.TextDecor), "underline")
		doc.Styles.Set(style)
	}

	for _, r := range root.Head.Layout.Regions {
		if r.ID == "" {
			continue
		}
		doc.Regions = append(doc.Regions, subtitle.Region{ID: r.ID})
	}

	ps := root.Body.Ps
	for _, div := range root.Body.Divs {
		ps = append(ps, div.Ps...)
	}

	for _, p := range ps {
		startMs, err := parseTimeExpr(p.Begin, opts.FPS)
		if err != nil {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidTimestamp, 0, 0, err.Error()))
			if opts.OnError == subtitle.OnErrorThrow {
				res.OK = false
				return res
			}
			continue
		}
		var endMs int
		if p.End != "" {
			endMs, err = parseTimeExpr(p.End, opts.FPS)
			if err != nil {
				res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidTimestamp, 0, 0, err.Error()))
				if opts.OnError == subtitle.OnErrorThrow {
					res.OK = false
					return res
				}
				continue
			}
		} else if p.Dur != "" {
			durMs, err := parseTimeExpr(p.Dur, opts.FPS)
			if err != nil {
				res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidTimestamp, 0, 0, err.Error()))
				continue
			}
			endMs = startMs + durMs
		} else {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrMissingField, 0, 0, "p element has neither end nor dur"))
			continue
		}

		e := doc.NewEvent()
		e.StartMs = startMs
		e.EndMs = endMs
		if p.Style != "" {
			e.Style = p.Style
		}
		e.SetSegments(parseInline(p.Inner))
	}

	return res
}

// parseTimeExpr accepts TTML clock-time ("00:00:01.500" or
// "00:00:01:12" with frames) and offset-time ("1.5s", "500ms", "12f",
// "2t") forms.
func parseTimeExpr(v string, fps float64) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, fmt.Errorf("ttml: empty time expression")
	}
	for _, suffix := range []string{"ms"} {
		if strings.HasSuffix(v, suffix) {
			n, err := strconv.ParseFloat(strings.TrimSuffix(v, suffix), 64)
			if err != nil {
				return 0, fmt.Errorf("ttml: invalid time expression %q", v)
			}
			return int(n), nil
		}
	}
	if strings.HasSuffix(v, "s") && !strings.Contains(v, ":") {
		n, err := strconv.ParseFloat(strings.TrimSuffix(v, "s"), 64)
		if err != nil {
			return 0, fmt.Errorf("ttml: invalid time expression %q", v)
		}
		return int(n * 1000), nil
	}
	if strings.HasSuffix(v, "f") {
		n, err := strconv.Atoi(strings.TrimSuffix(v, "f"))
		if err != nil {
			return 0, fmt.Errorf("ttml: invalid time expression %q", v)
		}
		if fps == 0 {
			fps = 25
		}
		return int(float64(n) * 1000 / fps), nil
	}
	if strings.HasSuffix(v, "t") {
		n, err := strconv.Atoi(strings.TrimSuffix(v, "t"))
		if err != nil {
			return 0, fmt.Errorf("ttml: invalid time expression %q", v)
		}
		return n, nil
	}

	parts := strings.Split(v, ":")
	if len(parts) < 3 {
		return 0, fmt.Errorf("ttml: invalid clock-time expression %q", v)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, fmt.Errorf("ttml: invalid clock-time expression %q", v)
	}
	secField := parts[2]
	var frames int
	if len(parts) == 4 {
		frames, _ = strconv.Atoi(parts[3])
	}
	secs, err := strconv.ParseFloat(secField, 64)
	if err != nil {
		return 0, fmt.Errorf("ttml: invalid clock-time expression %q", v)
	}
	ms := h*3600000 + m*60000 + int(secs*1000)
	if frames > 0 {
		if fps == 0 {
			fps = 25
		}
		ms += int(float64(frames) * 1000 / fps)
	}
	return ms, nil
}

// Serialize encodes a document as TTML using default SerializeOptions.
func Serialize(doc *subtitle.Document) string {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as TTML.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<tt xmlns="http://www.w3.org/ns/ttml">` + "\n")
	sb.WriteString("<head>\n")
	if opts.IncludeMetadata && doc.Styles.Len() > 0 {
		sb.WriteString("<styling>\n")
		doc.Styles.Each(func(s subtitle.Style) {
			fmt.Fprintf(&sb, `<style xml:id="%s" tts:color="%s" tts:fontFamily="%s"/>`+"\n",
				xmlEscape(s.Name), formatTTMLColor(s.PrimaryColor), xmlEscape(s.FontName))
		})
		sb.WriteString("</styling>\n")
	}
	if len(doc.Regions) > 0 {
		sb.WriteString("<layout>\n")
		for _, r := range doc.Regions {
			fmt.Fprintf(&sb, `<region xml:id="%s"/>`+"\n", xmlEscape(r.ID))
		}
		sb.WriteString("</layout>\n")
	}
	sb.WriteString("</head>\n<body>\n<div>\n")
	for _, e := range doc.Events {
		if e.ResolvedText() == "" {
			continue
		}
		attrs := fmt.Sprintf(`begin="%s" end="%s"`,
			formatClockTime(e.StartMs+opts.OffsetMs), formatClockTime(e.EndMs+opts.OffsetMs))
		if e.Style != "" && e.Style != subtitle.DefaultStyleName {
			attrs += fmt.Sprintf(` style="%s"`, xmlEscape(e.Style))
		}
		fmt.Fprintf(&sb, "<p %s>%s</p>\n", attrs, serializeInline(e))
	}
	sb.WriteString("</div>\n</body>\n</tt>\n")
	return sb.String()
}

func formatClockTime(ms int) string {
	if ms < 0 {
		ms = 0
	}
	h := ms / 3600000
	m := (ms / 60000) % 60
	s := (ms / 1000) % 60
	msec := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, msec)
}

func xmlEscape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

func formatTTMLColor(c color.ABGR) string {
	return color.FormatCSSHex(c)
}

// parseInline walks a <p> element's inner XML, turning <br/> into a
// newline and <span style="..."> runs into styled TextSegments. It runs a
// second xml.Decoder pass over the inner XML, wrapped in a synthetic <root>
// element so that mixed text and child elements decode as one document.
func parseInline(inner string) []subtitle.TextSegment {
	var segs []subtitle.TextSegment
	var buf strings.Builder
	var styleStack []*subtitle.InlineStyle
	var cur *subtitle.InlineStyle

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		segs = append(segs, subtitle.TextSegment{Text: buf.String(), Style: cur.Clone()})
		buf.Reset()
	}

	dec := xml.NewDecoder(strings.NewReader("<root>" + inner + "</root>"))
	dec.Entity = map[string]string{}
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch strings.ToLower(t.Name.Local) {
			case "br":
				buf.WriteString("\n")
			case "span":
				flush()
				styleStack = append(styleStack, cur)
				next := cur.Clone()
				if next == nil {
					next = &subtitle.InlineStyle{}
				}
				for _, a := range t.Attr {
					switch strings.ToLower(a.Name.Local) {
					case "color":
						if c, err := color.ParseCSS(a.Value); err == nil {
							next.PrimaryColor = &c
						}
					case "fontstyle":
						v := strings.EqualFold(a.Value, "italic")
						next.Italic = &v
					case "fontweight":
						v := strings.EqualFold(a.Value, "bold")
						next.Bold = &v
					case "textdecoration":
						v := strings.Contains(strings.ToLower(a.Value), "underline")
						next.Underline = &v
					}
				}
				cur = next
			}
		case xml.EndElement:
			if strings.ToLower(t.Name.Local) == "span" && len(styleStack) > 0 {
				flush()
				cur = styleStack[len(styleStack)-1]
				styleStack = styleStack[:len(styleStack)-1]
			}
		case xml.CharData:
			buf.Write(t)
		}
	}
	flush()
	return segs
}

func serializeInline(e *subtitle.Event) string {
	if !e.Dirty {
		return xmlEscape(e.Text)
	}
	var sb strings.Builder
	for _, seg := range e.Segments {
		lines := strings.Split(seg.Text, "\n")
		text := xmlEscape(lines[0])
		for _, l := range lines[1:] {
			text += "<br/>" + xmlEscape(l)
		}
		if seg.Style == nil {
			sb.WriteString(text)
			continue
		}
		var attrs strings.Builder
		if seg.Style.PrimaryColor != nil {
			fmt.Fprintf(&attrs, ` tts:color="%s"`, formatTTMLColor(*seg.Style.PrimaryColor))
		}
		if seg.Style.Italic != nil {
			attrs.WriteString(` tts:fontStyle="` + yesNoStyle(*seg.Style.Italic, "italic", "normal") + `"`)
		}
		if seg.Style.Bold != nil {
			attrs.WriteString(` tts:fontWeight="` + yesNoStyle(*seg.Style.Bold, "bold", "normal") + `"`)
		}
		if seg.Style.Underline != nil {
			attrs.WriteString(` tts:textDecoration="` + yesNoStyle(*seg.Style.Underline, "underline", "none") + `"`)
		}
		if attrs.Len() == 0 {
			sb.WriteString(text)
			continue
		}
		fmt.Fprintf(&sb, "<span%s>%s</span>", attrs.String(), text)
	}
	return sb.String()
}

func yesNoStyle(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}
