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

// Package ebustl implements the binary EBU-STL (EBU N19) subtitle format: a
// 1024-byte General Subtitle Information (GSI) block followed by one
// 128-byte Text-and-Timing Information (TTI) record per subtitle. Text
// fields are terminated by 0x8F and use 0x8A as an explicit line break.
package ebustl

import (
	"bytes"

	"github.com/wiedymi/subforge-sub002/pkg/binary/bcd"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
	"golang.org/x/text/encoding/charmap"
)

const (
	gsiSize = 1024
	ttiSize = 128

	ttiTextLen = 112

	textTerminator = 0x8F
	lineBreak      = 0x8A
)

// gsi field offsets (EBU N19), named for the fields this encoder fills in.
const (
	offDiskFormatCode   = 3
	lenDiskFormatCode   = 11
	offMaxRows          = 182 + 2 // Maximum Number of Displayable Rows
	offTotalTTI         = 238
	lenTotalTTI         = 5
	offTotalSubtitles   = 243
	lenTotalSubtitles   = 5
)

// Parse decodes an EBU-STL document using default ParseOptions.
func Parse(raw []byte) *subtitle.ParseResult {
	return ParseWithOptions(raw, subtitle.DefaultParseOptions())
}

// ParseWithOptions decodes an EBU-STL document.
func ParseWithOptions(raw []byte, opts subtitle.ParseOptions) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}

	if len(raw) < gsiSize {
		res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidFormat, 0, 0, "ebustl: file shorter than GSI block"))
		res.OK = false
		return res
	}

	fps := 25.0
	dfc := string(bytes.TrimSpace(raw[offDiskFormatCode : offDiskFormatCode+lenDiskFormatCode]))
	if bytes.Contains([]byte(dfc), []byte("30")) {
		fps = 30
	}
	if opts.FPS > 0 {
		fps = opts.FPS
	}
	dec := charmap.ISO8859_1.NewDecoder()

	pos := gsiSize
	recordNo := 0
	for pos+ttiSize <= len(raw) {
		rec := raw[pos : pos+ttiSize]
		pos += ttiSize
		recordNo++

		startTC, err1 := bcd.DecodeTimecode(rec[5:9])
		endTC, err2 := bcd.DecodeTimecode(rec[9:13])
		if err1 != nil || err2 != nil {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidTimestamp, recordNo, 0, "ebustl: invalid BCD timecode"))
			continue
		}

		text := rec[16 : 16+ttiTextLen]
		if idx := bytes.IndexByte(text, textTerminator); idx >= 0 {
			text = text[:idx]
		}
		text = bytes.ReplaceAll(text, []byte{lineBreak}, []byte{'\n'})
		decoded, err := dec.Bytes(text)
		if err != nil {
			decoded = text
		}

		e := doc.NewEvent()
		e.StartMs = startTC.ToMs(fps)
		e.EndMs = endTC.ToMs(fps)
		e.SetText(string(decoded))
	}

	return res
}

// Serialize encodes a document as EBU-STL using default SerializeOptions.
func Serialize(doc *subtitle.Document) []byte {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as EBU-STL.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) []byte {
	fps := 25.0
	if opts.FPS > 0 {
		fps = opts.FPS
	}

	var events []*subtitle.Event
	for _, e := range doc.Events {
		if e.ResolvedText() != "" {
			events = append(events, e)
		}
	}

	buf := make([]byte, gsiSize, gsiSize+len(events)*ttiSize)
	for i := range buf {
		buf[i] = ' '
	}
	dfc := "STL25.01   "
	if fps >= 29 {
		dfc = "STL30.01   "
	}
	copy(buf[offDiskFormatCode:], dfc[:lenDiskFormatCode])
	copy(buf[offTotalTTI:offTotalTTI+lenTotalTTI], padNum(len(events), lenTotalTTI))
	copy(buf[offTotalSubtitles:offTotalSubtitles+lenTotalSubtitles], padNum(len(events), lenTotalSubtitles))

	enc := charmap.ISO8859_1.NewEncoder()
	for i, e := range events {
		rec := make([]byte, ttiSize)
		rec[0] = 0 // subtitle group number
		rec[1], rec[2] = byte(i), byte(i>>8)
		rec[3] = 0 // extension block number
		rec[4] = 0 // cumulative status

		startTC := bcd.FromMs(e.StartMs+opts.OffsetMs, fps)
		endTC := bcd.FromMs(e.EndMs+opts.OffsetMs, fps)
		startBytes, _ := bcd.EncodeTimecode(startTC)
		endBytes, _ := bcd.EncodeTimecode(endTC)
		copy(rec[5:9], startBytes[:])
		copy(rec[9:13], endBytes[:])
		rec[13] = 0x14 // vertical position: bottom-ish default row
		rec[14] = 2    // justification: centered
		rec[15] = 0    // comment flag

		text := e.ResolvedText()
		encoded, err := enc.String(text)
		if err != nil {
			encoded = text
		}
		encoded = string(bytes.ReplaceAll([]byte(encoded), []byte{'\n'}, []byte{lineBreak}))
		tf := rec[16 : 16+ttiTextLen]
		for i := range tf {
			tf[i] = textTerminator
		}
		copy(tf, encoded)

		buf = append(buf, rec...)
	}
	return buf
}

func padNum(n, width int) []byte {
	s := []byte{}
	for n > 0 || len(s) == 0 {
		s = append([]byte{byte('0' + n%10)}, s...)
		n /= 10
	}
	for len(s) < width {
		s = append([]byte{'0'}, s...)
	}
	return s
}
