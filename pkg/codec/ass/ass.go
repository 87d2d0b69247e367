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

// Package ass implements the shared Advanced SubStation Alpha / SubStation
// Alpha codec: "[Script Info]", "[V4+ Styles]"/"[V4 Styles]", "[Events]" and
// "[Fonts]"/"[Graphics]" sections, each keyed by a "Format:" line whose
// field order is read rather than assumed, since real-world files omit or
// reorder trailing style columns.
package ass

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wiedymi/subforge-sub002/pkg/color"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
	"github.com/wiedymi/subforge-sub002/pkg/tag/asstag"
	"github.com/wiedymi/subforge-sub002/pkg/timecode"
)

// Parse decodes an ASS/SSA document using default ParseOptions.
func Parse(raw string) *subtitle.ParseResult {
	return ParseWithOptions(raw, subtitle.DefaultParseOptions())
}

type section int

const (
	sectionNone section = iota
	sectionInfo
	sectionStyles
	sectionEvents
	sectionFonts
	sectionGraphics
)

// ParseWithOptions decodes an ASS/SSA document.
func ParseWithOptions(raw string, opts subtitle.ParseOptions) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}

	raw = strings.TrimPrefix(raw, "﻿")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	cur := sectionNone
	var styleFormat, eventFormat []string
	var fontsBuf, graphicsBuf strings.Builder
	var fontsName, graphicsName string
	seenStyles := map[string]bool{}

	flushEmbedded := func() {
		if fontsName != "" {
			doc.Fonts = append(doc.Fonts, subtitle.EmbeddedData{Name: fontsName, Data: []byte(fontsBuf.String())})
			fontsName = ""
			fontsBuf.Reset()
		}
		if graphicsName != "" {
			doc.Graphics = append(doc.Graphics, subtitle.EmbeddedData{Name: graphicsName, Data: []byte(graphicsBuf.String())})
			graphicsName = ""
			graphicsBuf.Reset()
		}
	}

	for lineNo, line := range strings.Split(raw, "\n") {
		lineNo++
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			flushEmbedded()
			cur = classifySection(trimmed)
			continue
		}
		if strings.HasPrefix(trimmed, ";") {
			continue
		}

		switch cur {
		case sectionInfo:
			parseInfoLine(doc, trimmed)
		case sectionStyles:
			if strings.HasPrefix(trimmed, "Format:") {
				styleFormat = splitFields(trimmed[len("Format:"):])
				continue
			}
			if strings.HasPrefix(trimmed, "Style:") {
				if styleFormat == nil {
					res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidSection, lineNo, 0,
						"Style line before Format: line"))
					continue
				}
				s, err := parseStyleLine(styleFormat, trimmed[len("Style:"):])
				if err != nil {
					res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrMissingField, lineNo, 0, err.Error()))
					if opts.OnError == subtitle.OnErrorThrow {
						res.OK = false
						return res
					}
					continue
				}
				if seenStyles[s.Name] {
					res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrDuplicateStyle, lineNo, 0,
						fmt.Sprintf("duplicate style name %q", s.Name)))
				}
				seenStyles[s.Name] = true
				doc.Styles.Set(s)
			}
		case sectionEvents:
			if strings.HasPrefix(trimmed, "Format:") {
				eventFormat = splitFields(trimmed[len("Format:"):])
				continue
			}
			isComment := strings.HasPrefix(trimmed, "Comment:")
			isDialogue := strings.HasPrefix(trimmed, "Dialogue:")
			if !isComment && !isDialogue {
				continue
			}
			if eventFormat == nil {
				res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidSection, lineNo, 0,
					"event line before Format: line"))
				continue
			}
			prefix := "Dialogue:"
			if isComment {
				prefix = "Comment:"
			}
			body := trimmed[len(prefix):]
			if isComment {
				doc.Comments = append(doc.Comments, subtitle.Comment{
					Text:             strings.TrimSpace(body),
					BeforeEventIndex: len(doc.Events),
				})
				continue
			}
			e, err := parseEventLine(eventFormat, body)
			if err != nil {
				res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrMalformedEvent, lineNo, 0, err.Error()))
				if opts.OnError == subtitle.OnErrorThrow {
					res.OK = false
					return res
				}
				continue
			}
			doc.AddEvent(e)
		case sectionFonts:
			name, data, isHeader := parseEmbeddedHeader(trimmed)
			if isHeader {
				flushEmbedded()
				fontsName = name
				fontsBuf.WriteString(data)
			} else {
				fontsBuf.WriteString(trimmed)
			}
		case sectionGraphics:
			name, data, isHeader := parseEmbeddedHeader(trimmed)
			if isHeader {
				flushEmbedded()
				graphicsName = name
				graphicsBuf.WriteString(data)
			} else {
				graphicsBuf.WriteString(trimmed)
			}
		}
	}
	flushEmbedded()

	return res
}

func classifySection(header string) section {
	switch strings.ToLower(header) {
	case "[script info]":
		return sectionInfo
	case "[v4+ styles]", "[v4 styles]", "[v4 styles+]":
		return sectionStyles
	case "[events]":
		return sectionEvents
	case "[fonts]":
		return sectionFonts
	case "[graphics]":
		return sectionGraphics
	default:
		return sectionNone
	}
}

func parseInfoLine(doc *subtitle.Document, line string) {
	k, v, ok := strings.Cut(line, ":")
	if !ok {
		return
	}
	k = strings.TrimSpace(k)
	v = strings.TrimSpace(v)
	switch strings.ToLower(k) {
	case "title":
		doc.Info.Title = v
	case "original script", "author":
		doc.Info.Author = v
	case "playresx":
		if n, err := strconv.Atoi(v); err == nil {
			doc.Info.PlayResX = n
		}
	case "playresy":
		if n, err := strconv.Atoi(v); err == nil {
			doc.Info.PlayResY = n
		}
	case "scaledborderandshadow":
		doc.Info.ScaledBorderAndShadow = strings.EqualFold(v, "yes")
	case "wrapstyle":
		if n, err := strconv.Atoi(v); err == nil {
			doc.Info.WrapStyle = subtitle.WrapStyle(n)
		}
	}
}

func splitFields(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

func parseStyleLine(format []string, body string) (subtitle.Style, error) {
	vals := splitFields(body)
	get := func(field string) (string, bool) {
		for i, f := range format {
			if strings.EqualFold(f, field) && i < len(vals) {
				return vals[i], true
			}
		}
		return "", false
	}
	s := subtitle.NewDefaultStyle()
	if v, ok := get("Name"); ok {
		s.Name = v
	} else {
		return s, fmt.Errorf("ass: style line missing Name")
	}
	if v, ok := get("Fontname"); ok {
		s.FontName = v
	}
	if v, ok := get("Fontsize"); ok {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			s.FontSize = n
		}
	}
	applyColorField(&s.PrimaryColor, get, "PrimaryColour", "PrimaryColor")
	applyColorField(&s.SecondaryColor, get, "SecondaryColour", "SecondaryColor")
	applyColorField(&s.OutlineColor, get, "OutlineColour", "OutlineColor", "TertiaryColour")
	applyColorField(&s.BackColor, get, "BackColour", "BackColor")
	applyBoolField(&s.Bold, get, "Bold")
	applyBoolField(&s.Italic, get, "Italic")
	applyBoolField(&s.Underline, get, "Underline")
	applyBoolField(&s.StrikeOut, get, "StrikeOut")
	if v, ok := get("ScaleX"); ok {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			s.ScaleX = n
		}
	} else {
		s.ScaleX = 100
	}
	if v, ok := get("ScaleY"); ok {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			s.ScaleY = n
		}
	} else {
		s.ScaleY = 100
	}
	if v, ok := get("Spacing"); ok {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			s.Spacing = n
		}
	}
	if v, ok := get("Angle"); ok {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			s.Angle = n
		}
	}
	if v, ok := get("BorderStyle"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.BorderStyle = subtitle.BorderStyle(n)
		}
	}
	if v, ok := get("Outline"); ok {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			s.Outline = n
		}
	}
	if v, ok := get("Shadow"); ok {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			s.Shadow = n
		}
	}
	if v, ok := get("Alignment"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.Alignment = n
		}
	}
	if v, ok := get("MarginL"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.MarginL = n
		}
	}
	if v, ok := get("MarginR"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.MarginR = n
		}
	}
	if v, ok := get("MarginV"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.MarginV = n
		}
	}
	if v, ok := get("Encoding"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.Encoding = n
		}
	}
	return s, nil
}

func applyColorField(dst *color.ABGR, get func(string) (string, bool), names ...string) {
	for _, n := range names {
		if v, ok := get(n); ok {
			if c, err := color.ParseASS(v); err == nil {
				*dst = c
			}
			return
		}
	}
}

func applyBoolField(dst *bool, get func(string) (string, bool), name string) {
	if v, ok := get(name); ok {
		n, err := strconv.Atoi(v)
		*dst = err == nil && n != 0
	}
}

func parseEventLine(format []string, body string) (*subtitle.Event, error) {
	textIdx := -1
	for i, f := range format {
		if strings.EqualFold(f, "Text") {
			textIdx = i
		}
	}
	if textIdx < 0 {
		return nil, fmt.Errorf("ass: event Format: line has no Text field")
	}
	vals := strings.SplitN(body, ",", len(format))
	if len(vals) < len(format) {
		return nil, fmt.Errorf("ass: event line has %d fields, format wants %d", len(vals), len(format))
	}
	get := func(field string) (string, bool) {
		for i, f := range format {
			if strings.EqualFold(f, field) && i < len(vals) {
				return strings.TrimSpace(vals[i]), true
			}
		}
		return "", false
	}

	e := &subtitle.Event{}
	if v, ok := get("Layer"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			e.Layer = n
		}
	}
	if v, ok := get("Start"); ok {
		ms, err := timecode.ParseASS(v)
		if err != nil {
			return nil, fmt.Errorf("ass: invalid Start timestamp %q: %w", v, err)
		}
		e.StartMs = ms
	}
	if v, ok := get("End"); ok {
		ms, err := timecode.ParseASS(v)
		if err != nil {
			return nil, fmt.Errorf("ass: invalid End timestamp %q: %w", v, err)
		}
		e.EndMs = ms
	}
	if v, ok := get("Style"); ok {
		e.Style = v
	}
	if v, ok := get("Name"); ok {
		e.Actor = v
	} else if v, ok := get("Actor"); ok {
		e.Actor = v
	}
	if v, ok := get("MarginL"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			e.MarginL = n
		}
	}
	if v, ok := get("MarginR"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			e.MarginR = n
		}
	}
	if v, ok := get("MarginV"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			e.MarginV = n
		}
	}
	if v, ok := get("Effect"); ok {
		e.Effect = v
	}
	e.SetSegments(asstag.Parse(vals[textIdx]))
	return e, nil
}

// parseEmbeddedHeader recognizes a "fontname: <name>" / "filename: <name>"
// header line starting an embedded [Fonts]/[Graphics] entry.
func parseEmbeddedHeader(line string) (name, rest string, ok bool) {
	lower := strings.ToLower(line)
	for _, prefix := range []string{"fontname:", "filename:"} {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(line[len(prefix):]), "", true
		}
	}
	return "", line, false
}

// Serialize encodes a document as ASS using default SerializeOptions.
func Serialize(doc *subtitle.Document) string {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

var styleFieldOrder = []string{
	"Name", "Fontname", "Fontsize", "PrimaryColour", "SecondaryColour",
	"OutlineColour", "BackColour", "Bold", "Italic", "Underline", "StrikeOut",
	"ScaleX", "ScaleY", "Spacing", "Angle", "BorderStyle", "Outline", "Shadow",
	"Alignment", "MarginL", "MarginR", "MarginV", "Encoding",
}

var eventFieldOrder = []string{
	"Layer", "Start", "End", "Style", "Name", "MarginL", "MarginR", "MarginV",
	"Effect", "Text",
}

// SerializeWithOptions encodes a document as ASS.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) string {
	var sb strings.Builder

	sb.WriteString("[Script Info]\n")
	if opts.IncludeMetadata {
		if doc.Info.Title != "" {
			fmt.Fprintf(&sb, "Title: %s\n", doc.Info.Title)
		}
		fmt.Fprintf(&sb, "ScriptType: v4.00+\n")
		fmt.Fprintf(&sb, "WrapStyle: %d\n", int(doc.Info.WrapStyle))
		fmt.Fprintf(&sb, "ScaledBorderAndShadow: %s\n", yesNo(doc.Info.ScaledBorderAndShadow))
		if doc.Info.PlayResX != 0 {
			fmt.Fprintf(&sb, "PlayResX: %d\n", doc.Info.PlayResX)
		}
		if doc.Info.PlayResY != 0 {
			fmt.Fprintf(&sb, "PlayResY: %d\n", doc.Info.PlayResY)
		}
	}
	sb.WriteString("\n[V4+ Styles]\n")
	sb.WriteString("Format: " + strings.Join(styleFieldOrder, ", ") + "\n")
	doc.Styles.Each(func(s subtitle.Style) {
		sb.WriteString("Style: " + serializeStyle(s) + "\n")
	})

	sb.WriteString("\n[Events]\n")
	sb.WriteString("Format: " + strings.Join(eventFieldOrder, ", ") + "\n")
	for _, e := range doc.Events {
		if e.ResolvedText() == "" && e.Image == nil {
			continue
		}
		sb.WriteString("Dialogue: " + serializeEvent(e, opts) + "\n")
	}

	if len(doc.Fonts) > 0 {
		sb.WriteString("\n[Fonts]\n")
		for _, f := range doc.Fonts {
			fmt.Fprintf(&sb, "fontname: %s\n%s\n", f.Name, string(f.Data))
		}
	}
	if len(doc.Graphics) > 0 {
		sb.WriteString("\n[Graphics]\n")
		for _, g := range doc.Graphics {
			fmt.Fprintf(&sb, "filename: %s\n%s\n", g.Name, string(g.Data))
		}
	}

	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func boolDigit(b bool) int {
	if b {
		return -1
	}
	return 0
}

func serializeStyle(s subtitle.Style) string {
	fields := []string{
		s.Name,
		s.FontName,
		strconv.FormatFloat(s.FontSize, 'f', -1, 64),
		color.FormatASS(s.PrimaryColor),
		color.FormatASS(s.SecondaryColor),
		color.FormatASS(s.OutlineColor),
		color.FormatASS(s.BackColor),
		strconv.Itoa(boolDigit(s.Bold)),
		strconv.Itoa(boolDigit(s.Italic)),
		strconv.Itoa(boolDigit(s.Underline)),
		strconv.Itoa(boolDigit(s.StrikeOut)),
		strconv.FormatFloat(s.ScaleX, 'f', -1, 64),
		strconv.FormatFloat(s.ScaleY, 'f', -1, 64),
		strconv.FormatFloat(s.Spacing, 'f', -1, 64),
		strconv.FormatFloat(s.Angle, 'f', -1, 64),
		strconv.Itoa(int(s.BorderStyle)),
		strconv.FormatFloat(s.Outline, 'f', -1, 64),
		strconv.FormatFloat(s.Shadow, 'f', -1, 64),
		strconv.Itoa(s.Alignment),
		strconv.Itoa(s.MarginL),
		strconv.Itoa(s.MarginR),
		strconv.Itoa(s.MarginV),
		strconv.Itoa(s.Encoding),
	}
	return strings.Join(fields, ",")
}

func serializeEvent(e *subtitle.Event, opts subtitle.SerializeOptions) string {
	var text string
	if e.Dirty {
		text = asstag.Serialize(e.Segments)
	} else {
		text = e.Text
	}
	fields := []string{
		strconv.Itoa(e.Layer),
		timecode.FormatASS(e.StartMs + opts.OffsetMs),
		timecode.FormatASS(e.EndMs + opts.OffsetMs),
		e.Style,
		e.Actor,
		strconv.Itoa(e.MarginL),
		strconv.Itoa(e.MarginR),
		strconv.Itoa(e.MarginV),
		e.Effect,
		text,
	}
	return strings.Join(fields, ",")
}
