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

// Package scc implements Scenarist SCC: a line-oriented wrapper around the
// CEA-608 line-21 byte-pair protocol. Each line is a drop-frame timecode
// followed by a tab and a run of space-separated 4-hex-digit byte pairs;
// the pairs carry CEA-608 control codes (RCL, EDM, EOC, ENM, CR, PAC) and
// printable text in the CEA-608 character table.
package scc

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/wiedymi/subforge-sub002/pkg/binary/cea608"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
	"github.com/wiedymi/subforge-sub002/pkg/timecode"
)

const header = "Scenarist_SCC V1.0"

// Parse decodes an SCC document using default ParseOptions.
func Parse(raw string) *subtitle.ParseResult {
	return ParseWithOptions(raw, subtitle.DefaultParseOptions())
}

// ParseWithOptions decodes an SCC document.
func ParseWithOptions(raw string, opts subtitle.ParseOptions) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}

	raw = strings.TrimPrefix(raw, "﻿")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var buf strings.Builder
	var openEvent *subtitle.Event
	var lastPair [2]byte
	havePair := false

	for lineNo, line := range strings.Split(raw, "\n") {
		lineNo++
		line = strings.TrimSpace(line)
		if line == "" || line == header {
			continue
		}
		tabIdx := strings.IndexByte(line, '\t')
		if tabIdx < 0 {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrMalformedEvent, lineNo, 0,
				fmt.Sprintf("scc: expected tab-separated timecode on line %q", line)))
			if opts.OnError == subtitle.OnErrorThrow {
				res.OK = false
				return res
			}
			continue
		}
		tcStr := line[:tabIdx]
		ms, _, err := timecode.ParseSCC(tcStr)
		if err != nil {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidTimestamp, lineNo, 0,
				fmt.Sprintf("scc: invalid timecode %q", tcStr)))
			if opts.OnError == subtitle.OnErrorThrow {
				res.OK = false
				return res
			}
			continue
		}

		words := strings.Fields(line[tabIdx+1:])
		for _, w := range words {
			b1, b2, ok := decodeWord(w)
			if !ok {
				res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrMalformedEvent, lineNo, 0,
					fmt.Sprintf("scc: malformed byte pair %q", w)))
				continue
			}
			if havePair && lastPair[0] == b1 && lastPair[1] == b2 {
				// Second half of a doubled control code; already applied.
				havePair = false
				continue
			}
			lastPair = [2]byte{b1, b2}
			havePair = b1 < 0x20

			switch {
			case b1 >= 0x10 && b1 <= 0x17 && b2 >= 0x40:
				// PAC: positioning/style, not needed for text round-trip.
			case b1 == 0x11 && b2 >= 0x20 && b2 <= 0x2F:
				// Mid-row style attribute, not tracked.
			case b1 == 0x11 && b2 >= 0x30 && b2 <= 0x3F:
				if r, ok := cea608.DecodeSpecialChar(b2); ok {
					buf.WriteRune(r)
				}
			case b1 == 0x14 || b1 == 0x1C:
				switch cea608.DecodeMiscControl(b2) {
				case cea608.ControlResumeCaptionLoading, cea608.ControlResumeDirectCaptioning,
					cea608.ControlEraseNonDisplayedMemory:
					buf.Reset()
				case cea608.ControlCarriageReturn:
					buf.WriteByte('\n')
				case cea608.ControlEraseDisplayedMemory:
					if openEvent != nil {
						openEvent.EndMs = ms
						openEvent = nil
					}
				case cea608.ControlEndOfCaption:
					text := strings.TrimRight(buf.String(), " ")
					buf.Reset()
					if text != "" {
						e := doc.NewEvent()
						e.StartMs = ms
						e.SetText(text)
						openEvent = e
					}
				}
			case b1 >= 0x20 && b1 <= 0x7F:
				buf.WriteRune(cea608.DecodeChar(b1))
				if b2 != 0 {
					buf.WriteRune(cea608.DecodeChar(b2))
				}
			}
		}
	}

	if openEvent != nil && openEvent.EndMs == 0 {
		openEvent.EndMs = openEvent.StartMs + 3000
	}

	return res
}

// decodeWord decodes a 4-hex-digit byte pair, stripping its parity bit.
func decodeWord(w string) (b1, b2 byte, ok bool) {
	if len(w) != 4 {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(w, 16, 16)
	if err != nil {
		return 0, 0, false
	}
	return byte(v>>8) & 0x7F, byte(v) & 0x7F, true
}

// addParity sets the odd-parity bit (bit 7) CEA-608 requires on every byte.
func addParity(b byte) byte {
	b &= 0x7F
	if bits.OnesCount8(b)%2 == 0 {
		b |= 0x80
	}
	return b
}

func encodeWord(b1, b2 byte) string {
	return fmt.Sprintf("%02x%02x", addParity(b1), addParity(b2))
}

func doubled(b1, b2 byte) string {
	w := encodeWord(b1, b2)
	return w + " " + w
}

// Serialize encodes a document as SCC using default SerializeOptions.
func Serialize(doc *subtitle.Document) string {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as SCC. Timecodes are always
// emitted drop-frame at 29.97fps, per the format's sole documented use.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) string {
	var sb strings.Builder
	if opts.IncludeHead {
		sb.WriteString(header + "\n\n")
	}
	first := true
	for _, e := range doc.Events {
		text := e.ResolvedText()
		if text == "" {
			continue
		}
		if !first {
			sb.WriteString("\n")
		}
		first = false

		var words []string
		words = append(words, doubled(0x14, 0x20)) // RCL, RCL
		words = append(words, textWords(text)...)
		words = append(words, doubled(0x14, 0x2F)) // EOC, EOC

		fmt.Fprintf(&sb, "%s\t%s\n", timecode.FormatSCC(e.StartMs+opts.OffsetMs, true), strings.Join(words, " "))
		fmt.Fprintf(&sb, "%s\t%s\n", timecode.FormatSCC(e.EndMs+opts.OffsetMs, true), doubled(0x14, 0x2C)) // EDM, EDM
	}
	return sb.String()
}

func textWords(text string) []string {
	var words []string
	for _, line := range strings.Split(text, "\n") {
		runes := []rune(line)
		for i := 0; i < len(runes); i += 2 {
			b1, ok1 := cea608.EncodeChar(runes[i])
			if !ok1 {
				b1 = ' '
			}
			var b2 byte = 0x00
			if i+1 < len(runes) {
				var ok2 bool
				b2, ok2 = cea608.EncodeChar(runes[i+1])
				if !ok2 {
					b2 = ' '
				}
			}
			words = append(words, encodeWord(b1, b2))
		}
		words = append(words, doubled(0x14, 0x2D)) // CR, CR
	}
	if len(words) > 0 {
		words = words[:len(words)-1]
	}
	return words
}
