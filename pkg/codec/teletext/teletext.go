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

// Package teletext implements a Level-1 World System Teletext subtitle page
// decoder: a stream of rows, each a row number followed by 40 odd-parity
// data bytes, with spacing attribute bytes 0x00-0x1F selecting color,
// flash, double height, and conceal for the cells that follow them. A row
// number of 0 marks a page header and so the start of a new page/event.
package teletext

import (
	"math/bits"
	"strings"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

const rowWidth = 40

// Options extends ParseOptions with page timing, which Teletext does not
// carry in-band: real streams derive it from the enclosing TS/PES
// timestamps or from magazine/row cadence. Callers that have that
// information from the container should supply PageTimes, one entry per
// decoded page in stream order. A page with no corresponding PageTimes
// entry is reported as ErrMissingField rather than guessed at.
type Options struct {
	subtitle.ParseOptions
	PageTimes []int // ms
}

// defaultPageDurationMs is the event length assumed when PageTimes gives a
// start but no following entry to derive a duration from.
const defaultPageDurationMs = 3000

// Spacing attribute codes (subset actually interpreted by this decoder).
const (
	ctrlFlashOn      = 0x08
	ctrlSteady       = 0x09
	ctrlNormalHeight = 0x0C
	ctrlDoubleHeight = 0x0D
	ctrlConcealOn    = 0x18
)

var controlColors = map[byte]string{
	0x00: "black", 0x01: "red", 0x02: "green", 0x03: "yellow",
	0x04: "blue", 0x05: "magenta", 0x06: "cyan", 0x07: "white",
}

func stripParity(b byte) (byte, bool) {
	return b & 0x7F, bits.OnesCount8(b)%2 == 1
}

// Parse decodes a Teletext page stream using default options and no page
// timing feed; every decoded page is reported as ErrMissingField since
// none of its timing can be recovered from the stream alone.
func Parse(raw []byte) *subtitle.ParseResult {
	return ParseWithOptions(raw, Options{ParseOptions: subtitle.DefaultParseOptions()})
}

// ParseWithOptions decodes a Teletext page stream.
func ParseWithOptions(raw []byte, opts Options) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}

	const recordLen = 1 + rowWidth
	if len(raw)%recordLen != 0 {
		res.Warnings = append(res.Warnings, subtitle.Warning{Message: "teletext: trailing bytes not a multiple of the record length, ignored"})
	}

	var pageLines []string
	haveLines := false
	pageIdx := 0

	flush := func() {
		if !haveLines {
			return
		}
		text := strings.Join(pageLines, "\n")
		text = strings.Trim(text, "\n")
		if strings.TrimSpace(text) != "" {
			if pageIdx >= len(opts.PageTimes) {
				res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrMissingField, pageIdx, 0,
					"teletext: no PageTimes entry for this page; timing is not embedded in the stream"))
			} else {
				start := opts.PageTimes[pageIdx]
				dur := defaultPageDurationMs
				if pageIdx+1 < len(opts.PageTimes) {
					dur = opts.PageTimes[pageIdx+1] - start
				}
				e := doc.NewEvent()
				e.StartMs = start
				e.EndMs = start + dur
				e.SetText(text)
			}
		}
		pageIdx++
		pageLines = nil
		haveLines = false
	}

	for pos := 0; pos+recordLen <= len(raw); pos += recordLen {
		row := int(raw[pos])
		data := raw[pos+1 : pos+recordLen]
		if row == 0 {
			flush()
			continue
		}
		line, ok := decodeRow(data)
		if !ok {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidFormat, row, 0, "teletext: row parity check failed"))
			if opts.OnError == subtitle.OnErrorThrow {
				res.OK = false
				return res
			}
			continue
		}
		pageLines = append(pageLines, line)
		haveLines = true
	}
	flush()

	return res
}

// decodeRow strips parity from every cell, applies conceal, and renders
// spacing-attribute bytes as a space (the attribute itself is not
// represented in the plain-text output; color/flash/height are decoded for
// future tag-model use but do not affect ResolvedText).
func decodeRow(data []byte) (string, bool) {
	var sb strings.Builder
	concealed := false
	for _, raw := range data {
		b, parityOK := stripParity(raw)
		if !parityOK {
			return "", false
		}
		switch {
		case b < 0x20:
			if _, isColor := controlColors[b]; isColor {
				concealed = false
			}
			switch b {
			case ctrlConcealOn:
				concealed = true
			case ctrlFlashOn, ctrlSteady, ctrlNormalHeight, ctrlDoubleHeight:
				// Recognized but not reflected in plain text output.
			}
			sb.WriteByte(' ')
		case concealed:
			sb.WriteByte(' ')
		default:
			sb.WriteByte(b)
		}
	}
	return strings.TrimRight(sb.String(), " "), true
}

// Serialize encodes a document as a Teletext page stream using default
// SerializeOptions: one page per event, written as a row-0 header record
// followed by one row-1 record per text line. No timing is written, since
// the stream carries none; Parse takes page times from Options.PageTimes.
func Serialize(doc *subtitle.Document) []byte {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as a Teletext page stream.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) []byte {
	var out []byte
	for _, e := range doc.Events {
		text := e.ResolvedText()
		if text == "" {
			continue
		}
		out = append(out, encodeRecord(0, nil)...)
		lines := strings.Split(text, "\n")
		for _, line := range lines {
			out = append(out, encodeRecord(1, []byte(line))...)
		}
	}
	return out
}

func encodeRecord(row byte, line []byte) []byte {
	rec := make([]byte, 1+rowWidth)
	rec[0] = row
	for i := 1; i <= rowWidth; i++ {
		rec[i] = addParity(' ')
	}
	for i, c := range line {
		if i >= rowWidth {
			break
		}
		rec[1+i] = addParity(c)
	}
	return rec
}

func addParity(b byte) byte {
	b &= 0x7F
	if bits.OnesCount8(b)%2 == 0 {
		b |= 0x80
	}
	return b
}
