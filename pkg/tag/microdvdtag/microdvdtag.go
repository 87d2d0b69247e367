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

// Package microdvdtag parses MicroDVD's curly-brace control codes:
// {y:b/i/u/s}, {c:$BBGGRR}, {f:name}, {s:size} and {an\d} alignment, which
// precede the line they style rather than bracketing it.
package microdvdtag

import (
	"strconv"
	"strings"

	"github.com/wiedymi/subforge-sub002/pkg/color"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

// Parse splits a MicroDVD line into segments. Unlike ASS/HTML markup,
// MicroDVD control codes are whole-line modifiers: each {tag} found at the
// start of the remaining text applies to everything after it (there is no
// closing tag), so the result is usually a single styled segment.
func Parse(raw string) []subtitle.TextSegment {
	style := &subtitle.InlineStyle{}
	styled := false
	text := raw
	for {
		if !strings.HasPrefix(text, "{") {
			break
		}
		end := strings.IndexByte(text, '}')
		if end < 0 {
			break
		}
		tag := text[1:end]
		if !applyTag(style, tag) {
			break
		}
		styled = true
		text = text[end+1:]
	}
	text = strings.ReplaceAll(text, "|", "\n")
	seg := subtitle.TextSegment{Text: text}
	if styled {
		seg.Style = style
	}
	return []subtitle.TextSegment{seg}
}

func applyTag(style *subtitle.InlineStyle, tag string) bool {
	parts := strings.SplitN(tag, ":", 2)
	code := strings.ToLower(strings.TrimSpace(parts[0]))
	arg := ""
	if len(parts) == 2 {
		arg = parts[1]
	}
	switch code {
	case "y":
		for _, c := range strings.ToLower(arg) {
			t := true
			switch c {
			case 'b':
				style.Bold = &t
			case 'i':
				style.Italic = &t
			case 'u':
				style.Underline = &t
			case 's':
				style.Strikeout = &t
			}
		}
	case "c":
		v := strings.TrimPrefix(arg, "$")
		if n, err := strconv.ParseUint(v, 16, 32); err == nil {
			c := color.Pack(uint8(n), uint8(n>>8), uint8(n>>16), 255)
			style.PrimaryColor = &c
		}
	case "f":
		f := arg
		style.FontName = &f
	case "s":
		if n, err := strconv.ParseFloat(arg, 64); err == nil {
			style.FontSize = &n
		}
	default:
		if strings.HasPrefix(code, "an") {
			if n, err := strconv.Atoi(code[2:]); err == nil {
				style.Alignment = &n
				return true
			}
		}
		return false
	}
	return true
}

// Serialize renders a single segment back to its MicroDVD control-code
// prefix plus text; multi-segment events are joined with "|" line breaks
// first since MicroDVD has no mid-line style switch.
func Serialize(segs []subtitle.TextSegment) string {
	var sb strings.Builder
	for i, seg := range segs {
		if i > 0 {
			sb.WriteString("|")
		}
		if seg.Style != nil {
			var flags strings.Builder
			if seg.Style.Bold != nil && *seg.Style.Bold {
				flags.WriteByte('b')
			}
			if seg.Style.Italic != nil && *seg.Style.Italic {
				flags.WriteByte('i')
			}
			if seg.Style.Underline != nil && *seg.Style.Underline {
				flags.WriteByte('u')
			}
			if seg.Style.Strikeout != nil && *seg.Style.Strikeout {
				flags.WriteByte('s')
			}
			if flags.Len() > 0 {
				sb.WriteString("{y:" + flags.String() + "}")
			}
			if seg.Style.PrimaryColor != nil {
				r, g, b, _ := seg.Style.PrimaryColor.RGBA()
				sb.WriteString("{c:$" + hex2(b) + hex2(g) + hex2(r) + "}")
			}
			if seg.Style.FontName != nil {
				sb.WriteString("{f:" + *seg.Style.FontName + "}")
			}
			if seg.Style.FontSize != nil {
				sb.WriteString("{s:" + strconv.FormatFloat(*seg.Style.FontSize, 'f', -1, 64) + "}")
			}
		}
		sb.WriteString(strings.ReplaceAll(seg.Text, "\n", "|"))
	}
	return sb.String()
}

func hex2(b uint8) string {
	const hexDigits = "0123456789ABCDEF"
	return string([]byte{hexDigits[b>>4], hexDigits[b&0xF]})
}
