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

// Package dvb implements DVB subtitling: a stream of 2-byte-aligned segments
// (sync byte 0x0F, 1-byte type, 16-bit page id, 16-bit length, payload) of
// page composition, region composition, CLUT definition, object data, and
// display-set terminator types. Object data here is treated at 8-bit pixel
// depth, sharing its run-length scheme with PGS (see pkg/binary/rle).
package dvb

import (
	"encoding/binary"
	"fmt"

	"github.com/wiedymi/subforge-sub002/pkg/binary/rle"
	"github.com/wiedymi/subforge-sub002/pkg/color"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

const (
	syncByte = 0x0F

	segPageComposition   = 0x10
	segRegionComposition = 0x11
	segCLUT              = 0x12
	segObjectData        = 0x13
	segEndOfDisplaySet   = 0x80
)

type segment struct {
	typ     byte
	pageID  uint16
	payload []byte
}

func splitSegments(data []byte) ([]segment, error) {
	var segs []segment
	pos := 0
	for pos+6 <= len(data) {
		if data[pos] != syncByte {
			return segs, fmt.Errorf("dvb: bad sync byte at offset %d", pos)
		}
		typ := data[pos+1]
		pageID := binary.BigEndian.Uint16(data[pos+2 : pos+4])
		length := int(binary.BigEndian.Uint16(data[pos+4 : pos+6]))
		pos += 6
		if pos+length > len(data) {
			return segs, fmt.Errorf("dvb: segment at offset %d overruns buffer", pos)
		}
		segs = append(segs, segment{typ: typ, pageID: pageID, payload: data[pos : pos+length]})
		pos += length
	}
	return segs, nil
}

// Parse decodes a DVB subtitle stream using default ParseOptions. Timing is
// not carried in-band (it comes from the outer TS/PES container per
// spec); events are emitted with zero duration and must have their
// timing filled in by the caller from container-level timestamps.
func Parse(raw []byte) *subtitle.ParseResult {
	return ParseWithOptions(raw, subtitle.DefaultParseOptions())
}

// ParseWithOptions decodes a DVB subtitle stream.
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
	var pendingWidth, pendingHeight, pendingX, pendingY int
	var pendingData []byte
	haveObject := false

	for _, s := range segs {
		switch s.typ {
		case segCLUT:
			palette = decodeCLUT(s.payload)
		case segRegionComposition:
			pendingWidth, pendingHeight = decodeRegionSize(s.payload)
		case segPageComposition:
			pendingX, pendingY = decodeObjectPosition(s.payload)
		case segObjectData:
			pendingData = s.payload
			haveObject = true
		case segEndOfDisplaySet:
			if haveObject && pendingWidth > 0 && pendingHeight > 0 {
				indices := rle.DecodePGS(pendingData, pendingWidth, pendingHeight)
				e := doc.NewEvent()
				e.Image = &subtitle.Image{
					Width: pendingWidth, Height: pendingHeight, X: pendingX, Y: pendingY,
					Indexed: indices, Palette: palette,
				}
			}
			haveObject = false
			pendingData = nil
		}
	}

	return res
}

// decodeCLUT parses 7-byte entries laid out as index, Y, reserved, Cb,
// reserved, Cr, alpha (the layout encodeCLUTBody writes).
func decodeCLUT(body []byte) color.Palette {
	pal := make(color.Palette, 256)
	for pos := 0; pos+7 <= len(body); pos += 7 {
		idx := body[pos]
		pal[idx] = color.YCbCrToABGR(body[pos+1], body[pos+3], body[pos+5], body[pos+6])
	}
	return pal
}

func decodeRegionSize(body []byte) (width, height int) {
	if len(body) < 4 {
		return 0, 0
	}
	return int(binary.BigEndian.Uint16(body[0:2])), int(binary.BigEndian.Uint16(body[2:4]))
}

func decodeObjectPosition(body []byte) (x, y int) {
	if len(body) < 4 {
		return 0, 0
	}
	return int(binary.BigEndian.Uint16(body[0:2])), int(binary.BigEndian.Uint16(body[2:4]))
}

// Serialize encodes a document as a DVB subtitle stream using default
// SerializeOptions. Event timing is not carried in-band.
func Serialize(doc *subtitle.Document) []byte {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as a DVB subtitle stream: one
// CLUT+region+page+object+end group per event carrying an Image.
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) []byte {
	var out []byte
	for _, e := range doc.Events {
		if e.Image == nil {
			continue
		}
		out = append(out, encodeSegment(segCLUT, 1, encodeCLUTBody(e.Image.Palette))...)
		out = append(out, encodeSegment(segRegionComposition, 1, encodeRegionBody(e.Image))...)
		out = append(out, encodeSegment(segPageComposition, 1, encodePageBody(e.Image))...)
		rleData := rle.EncodePGS(e.Image.Indexed, e.Image.Width, e.Image.Height)
		out = append(out, encodeSegment(segObjectData, 1, rleData)...)
		out = append(out, encodeSegment(segEndOfDisplaySet, 1, nil)...)
	}
	return out
}

func encodeSegment(typ byte, pageID uint16, payload []byte) []byte {
	out := make([]byte, 6+len(payload))
	out[0] = syncByte
	out[1] = typ
	binary.BigEndian.PutUint16(out[2:4], pageID)
	binary.BigEndian.PutUint16(out[4:6], uint16(len(payload)))
	copy(out[6:], payload)
	return out
}

func encodeCLUTBody(pal color.Palette) []byte {
	var out []byte
	for i, c := range pal {
		if c == 0 {
			continue
		}
		y, cb, cr, a := color.ABGRToYCbCr(c)
		out = append(out, byte(i), y, 0, cb, 0, cr, a)
	}
	return out
}

func encodeRegionBody(img *subtitle.Image) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint16(out[0:2], uint16(img.Width))
	binary.BigEndian.PutUint16(out[2:4], uint16(img.Height))
	return out
}

func encodePageBody(img *subtitle.Image) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint16(out[0:2], uint16(img.X))
	binary.BigEndian.PutUint16(out[2:4], uint16(img.Y))
	return out
}
