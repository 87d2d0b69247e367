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

// Package pac implements the binary PAC subtitle format: a 24-byte header
// (byte 4 selects PAL/NTSC) followed by one record per subtitle of BCD
// start/end timecodes, a vertical-position byte, a 16-bit big-endian text
// length, and Latin-1 text carrying inline italic/underline/color control
// bytes.
package pac

import (
	"bytes"
	"encoding/binary"

	"github.com/wiedymi/subforge-sub002/pkg/binary/bcd"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
	"golang.org/x/text/encoding/charmap"
)

const (
	headerSize  = 24
	recordFixed = 4 + 4 + 1 + 2 // start tc, end tc, position, length

	ctrlItalicOn     = 0x0A
	ctrlItalicOff    = 0x0B
	ctrlUnderlineOn  = 0x0C
	ctrlUnderlineOff = 0x0D
	colorEscapeBase  = 0xE0
)

// Parse decodes a PAC document using default ParseOptions.
func Parse(raw []byte) *subtitle.ParseResult {
	return ParseWithOptions(raw, subtitle.DefaultParseOptions())
}

// ParseWithOptions decodes a PAC document.
func ParseWithOptions(raw []byte, opts subtitle.ParseOptions) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}

	if len(raw) < headerSize {
		res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidFormat, 0, 0, "pac: file shorter than header"))
		res.OK = false
		return res
	}

	fps := 25.0
	if raw[4] == 1 {
		fps = 29.97
	}
	if opts.FPS > 0 {
		fps = opts.FPS
	}

	pos := headerSize
	recordNo := 0
	for pos < len(raw) {
		if pos+recordFixed > len(raw) {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrMalformedEvent, recordNo, 0, "pac: truncated record header"))
			break
		}
		startTC, err1 := bcd.DecodeTimecode(raw[pos : pos+4])
		endTC, err2 := bcd.DecodeTimecode(raw[pos+4 : pos+8])
		// position := raw[pos+8] // vertical position, not modeled on Event.
		textLen := int(binary.BigEndian.Uint16(raw[pos+9 : pos+11]))
		if err1 != nil || err2 != nil {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidTimestamp, recordNo, 0, "pac: invalid BCD timecode"))
			break
		}
		pos += recordFixed
		if pos+textLen > len(raw) {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrMalformedEvent, recordNo, 0, "pac: truncated text payload"))
			break
		}
		textBytes := raw[pos : pos+textLen]
		pos += textLen
		recordNo++

		e := doc.NewEvent()
		e.StartMs = startTC.ToMs(fps)
		e.EndMs = endTC.ToMs(fps)
		segs, err := decodeText(textBytes)
		if err != nil {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrMalformedEvent, recordNo, 0, err.Error()))
			continue
		}
		e.SetSegments(segs)
	}

	return res
}

func decodeText(raw []byte) ([]subtitle.TextSegment, error) {
	dec := charmap.ISO8859_1.NewDecoder()
	var segs []subtitle.TextSegment
	var buf bytes.Buffer
	style := &subtitle.InlineStyle{}
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		out, err := dec.String(buf.String())
		if err != nil {
			out = buf.String()
		}
		segs = append(segs, subtitle.TextSegment{Text: out, Style: style.Clone()})
		buf.Reset()
	}

	i := 0
	for i < len(raw) {
		b := raw[i]
		switch {
		case b == ctrlItalicOn:
			flush()
			t := true
			style.Italic = &t
		case b == ctrlItalicOff:
			flush()
			f := false
			style.Italic = &f
		case b == ctrlUnderlineOn:
			flush()
			t := true
			style.Underline = &t
		case b == ctrlUnderlineOff:
			flush()
			f := false
			style.Underline = &f
		case b >= colorEscapeBase && b <= 0xEF:
			flush()
			// Color index within the 0xE0-0xEF escape range; specific
			// palette resolution is display-profile dependent and left
			// to the caller via the segment's absent PrimaryColor.
		default:
			buf.WriteByte(b)
		}
		i++
	}
	flush()
	return segs, nil
}

// Serialize encodes a document as PAC using default SerializeOptions.
func Serialize(doc *subtitle.Document) []byte {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as PAC.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) []byte {
	fps := 25.0
	ntsc := byte(0)
	if opts.VideoStandard == "NTSC" {
		fps = 29.97
		ntsc = 1
	}
	if opts.FPS > 0 {
		fps = opts.FPS
	}

	var buf bytes.Buffer
	header := make([]byte, headerSize)
	header[0] = 0x01 // format code
	header[4] = ntsc
	buf.Write(header)

	enc := charmap.ISO8859_1.NewEncoder()
	for _, e := range doc.Events {
		if e.ResolvedText() == "" {
			continue
		}
		startTC := bcd.FromMs(e.StartMs+opts.OffsetMs, fps)
		endTC := bcd.FromMs(e.EndMs+opts.OffsetMs, fps)
		startBytes, _ := bcd.EncodeTimecode(startTC)
		endBytes, _ := bcd.EncodeTimecode(endTC)
		text := encodeText(enc, e)

		buf.Write(startBytes[:])
		buf.Write(endBytes[:])
		buf.WriteByte(0x0F) // vertical position: bottom, not otherwise modeled
		lenBuf := make([]byte, 2)
		binary.BigEndian.PutUint16(lenBuf, uint16(len(text)))
		buf.Write(lenBuf)
		buf.Write(text)
	}
	return buf.Bytes()
}

func encodeText(enc interface {
	String(string) (string, error)
}, e *subtitle.Event) []byte {
	var out bytes.Buffer
	if !e.Dirty {
		s, err := enc.String(e.Text)
		if err != nil {
			s = e.Text
		}
		out.WriteString(s)
		return out.Bytes()
	}
	for _, seg := range e.Segments {
		if seg.Style != nil && seg.Style.Italic != nil && *seg.Style.Italic {
			out.WriteByte(ctrlItalicOn)
		}
		if seg.Style != nil && seg.Style.Underline != nil && *seg.Style.Underline {
			out.WriteByte(ctrlUnderlineOn)
		}
		s, err := enc.String(seg.Text)
		if err != nil {
			s = seg.Text
		}
		out.WriteString(s)
		if seg.Style != nil && seg.Style.Italic != nil && *seg.Style.Italic {
			out.WriteByte(ctrlItalicOff)
		}
		if seg.Style != nil && seg.Style.Underline != nil && *seg.Style.Underline {
			out.WriteByte(ctrlUnderlineOff)
		}
	}
	return out.Bytes()
}
