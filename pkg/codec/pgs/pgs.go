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

// Package pgs implements the PGS (Presentation Graphic Stream) bitmap
// subtitle format: a run of segments each prefixed by magic "PG", a 32-bit
// PTS and DTS, an 8-bit segment type, and a 16-bit size. Segments between a
// Presentation Composition Segment and an End segment form one composition;
// bitmap data lives in Object Definition Segments as byte-oriented RLE.
package pgs

import (
	"encoding/binary"
	"fmt"

	"github.com/wiedymi/subforge-sub002/pkg/binary/rle"
	"github.com/wiedymi/subforge-sub002/pkg/color"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

const (
	segPDS = 0x14
	segODS = 0x15
	segPCS = 0x16
	segWDS = 0x17
	segEND = 0x80

	ptsClock = 90000.0 // PGS PTS ticks run at 90kHz.
)

type segment struct {
	pts     uint32
	typ     byte
	payload []byte
}

func splitSegments(data []byte) ([]segment, error) {
	var segs []segment
	pos := 0
	for pos+13 <= len(data) {
		if data[pos] != 'P' || data[pos+1] != 'G' {
			return segs, fmt.Errorf("pgs: bad magic at offset %d", pos)
		}
		pts := binary.BigEndian.Uint32(data[pos+2 : pos+6])
		typ := data[pos+10]
		size := int(binary.BigEndian.Uint16(data[pos+11 : pos+13]))
		pos += 13
		if pos+size > len(data) {
			return segs, fmt.Errorf("pgs: segment at offset %d overruns buffer", pos)
		}
		segs = append(segs, segment{pts: pts, typ: typ, payload: data[pos : pos+size]})
		pos += size
	}
	return segs, nil
}

// Parse decodes a PGS stream using default ParseOptions.
func Parse(raw []byte) *subtitle.ParseResult {
	return ParseWithOptions(raw, subtitle.DefaultParseOptions())
}

// ParseWithOptions decodes a PGS stream. Each composition (the segments
// between a PCS and its terminating END segment) becomes one Event with
// an Image and PGS sidecar; per Open Question resolution, one composition
// maps to exactly one event even when it references multiple windows.
func ParseWithOptions(raw []byte, opts subtitle.ParseOptions) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}

	segs, err := splitSegments(raw)
	if err != nil {
		res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidFormat, 0, 0, err.Error()))
		if opts.OnError == subtitle.OnErrorThrow {
			res.OK = false
			return res
		}
	}

	var palette color.Palette
	var width, height, objX, objY int
	var objData []byte
	var compNumber int
	var startPts uint32
	haveComposition := false

	flush := func(endPts uint32) {
		if !haveComposition || objData == nil {
			haveComposition = false
			objData = nil
			return
		}
		indices := rle.DecodePGS(objData, width, height)
		e := doc.NewEvent()
		e.StartMs = int(float64(startPts) / ptsClock * 1000)
		e.EndMs = int(float64(endPts) / ptsClock * 1000)
		e.Image = &subtitle.Image{
			Width: width, Height: height, X: objX, Y: objY,
			Indexed: indices, Palette: palette,
		}
		e.PGS = &subtitle.PGSSidecar{CompositionNumber: compNumber}
		haveComposition = false
		objData = nil
	}

	for _, s := range segs {
		switch s.typ {
		case segPDS:
			palette = decodePalette(s.payload)
		case segODS:
			w, h, x, y, data, ok := decodeObject(s.payload)
			if ok {
				width, height, objX, objY = w, h, x, y
				objData = append(objData, data...)
			}
		case segPCS:
			if len(s.payload) >= 5 {
				compNumber = int(binary.BigEndian.Uint16(s.payload[2:4]))
			}
			startPts = s.pts
			haveComposition = true
		case segWDS:
			// WDS is not decoded: the parsed Image's X/Y stay (0,0), as
			// decodeObject notes.
		case segEND:
			flush(s.pts)
		}
	}

	return res
}

// decodePalette parses a Palette Definition Segment body: a 1-byte ID, a
// 1-byte version, then 5-byte entries (index, Y, Cb, Cr, alpha).
func decodePalette(body []byte) color.Palette {
	if len(body) < 2 {
		return nil
	}
	pal := make(color.Palette, 256)
	for pos := 2; pos+5 <= len(body); pos += 5 {
		idx := body[pos]
		pal[idx] = color.YCbCrToABGR(body[pos+1], body[pos+2], body[pos+3], body[pos+4])
	}
	return pal
}

// decodeObject parses an Object Definition Segment body: object ID (2),
// version (1), last-in-sequence flag (1), 24-bit data length, width (2),
// height (2), then RLE data. Position is carried by the caller's WDS/PCS,
// approximated here as (0,0) since a single-object composition is assumed.
func decodeObject(body []byte) (width, height, x, y int, data []byte, ok bool) {
	if len(body) < 11 {
		return 0, 0, 0, 0, nil, false
	}
	width = int(binary.BigEndian.Uint16(body[7:9]))
	height = int(binary.BigEndian.Uint16(body[9:11]))
	return width, height, 0, 0, body[11:], true
}

// Serialize encodes a document as a PGS stream using default
// SerializeOptions.
func Serialize(doc *subtitle.Document) []byte {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as a PGS stream: one
// PDS+ODS+PCS+WDS+END group per event carrying an Image.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) []byte {
	var out []byte
	compNo := 0
	for _, e := range doc.Events {
		if e.Image == nil {
			continue
		}
		compNo++
		startPts := uint32(float64(e.StartMs+opts.OffsetMs) / 1000 * ptsClock)
		endPts := uint32(float64(e.EndMs+opts.OffsetMs) / 1000 * ptsClock)

		out = append(out, encodeSegment(segPDS, startPts, encodePaletteBody(e.Image.Palette))...)
		rleData := rle.EncodePGS(e.Image.Indexed, e.Image.Width, e.Image.Height)
		out = append(out, encodeSegment(segODS, startPts, encodeObjectBody(e.Image, rleData))...)
		out = append(out, encodeSegment(segPCS, startPts, encodePCSBody(compNo))...)
		out = append(out, encodeSegment(segWDS, startPts, encodeWDSBody(e.Image))...)
		out = append(out, encodeSegment(segEND, endPts, nil)...)
	}
	return out
}

func encodeSegment(typ byte, pts uint32, payload []byte) []byte {
	out := make([]byte, 13+len(payload))
	out[0], out[1] = 'P', 'G'
	binary.BigEndian.PutUint32(out[2:6], pts)
	binary.BigEndian.PutUint32(out[6:10], 0) // DTS unused by subforge's encoder
	out[10] = typ
	binary.BigEndian.PutUint16(out[11:13], uint16(len(payload)))
	copy(out[13:], payload)
	return out
}

func encodePaletteBody(pal color.Palette) []byte {
	out := []byte{0x00, 0x00}
	for i, c := range pal {
		if c == 0 {
			continue
		}
		y, cb, cr, a := color.ABGRToYCbCr(c)
		out = append(out, byte(i), y, cb, cr, a)
	}
	return out
}

func encodeObjectBody(img *subtitle.Image, rleData []byte) []byte {
	out := make([]byte, 11)
	binary.BigEndian.PutUint16(out[0:2], 1) // object ID
	out[2] = 0                              // version
	out[3] = 0x80                           // last-in-sequence
	dataLen := len(rleData) + 4
	out[4], out[5], out[6] = byte(dataLen>>16), byte(dataLen>>8), byte(dataLen)
	binary.BigEndian.PutUint16(out[7:9], uint16(img.Width))
	binary.BigEndian.PutUint16(out[9:11], uint16(img.Height))
	return append(out, rleData...)
}

func encodePCSBody(compNumber int) []byte {
	out := make([]byte, 11)
	binary.BigEndian.PutUint16(out[0:2], 0) // width placeholder, caller-scaled
	binary.BigEndian.PutUint16(out[2:4], uint16(compNumber))
	out[4] = 0x80 // composition state: epoch start
	return out
}

func encodeWDSBody(img *subtitle.Image) []byte {
	out := make([]byte, 10)
	out[0] = 1 // window count
	binary.BigEndian.PutUint16(out[1:3], uint16(img.X))
	binary.BigEndian.PutUint16(out[3:5], uint16(img.Y))
	binary.BigEndian.PutUint16(out[5:7], uint16(img.Width))
	binary.BigEndian.PutUint16(out[7:9], uint16(img.Height))
	return out
}
