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

// Package vobsub implements DVD VobSub subtitles: a line-oriented ".idx"
// text sidecar (frame size, a 16-entry CLUT, and per-track timestamp/filepos
// lists) paired with a ".sub" MPEG Program Stream carrying one subpicture
// unit per private_stream_1 PES packet. Unlike every other codec in this
// package, Parse/Serialize take two buffers instead of one, since the
// format itself is inherently a two-file pair.
package vobsub

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/wiedymi/subforge-sub002/pkg/binary/pes"
	"github.com/wiedymi/subforge-sub002/pkg/binary/rle"
	"github.com/wiedymi/subforge-sub002/pkg/color"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
	"github.com/wiedymi/subforge-sub002/pkg/timecode"
)

const spuTickMs = 1024.0 / 90.0 // one SPU delay unit, in milliseconds.

type idxDoc struct {
	width, height int
	palette       color.Palette
	timestamps    []int // ms, one per expected subpicture unit
}

func parseIdx(raw string) (idxDoc, []error) {
	var doc idxDoc
	var errs []error
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "#"), line == "":
			continue
		case strings.HasPrefix(line, "size:"):
			v := strings.TrimSpace(strings.TrimPrefix(line, "size:"))
			parts := strings.SplitN(v, "x", 2)
			if len(parts) == 2 {
				w, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
				h, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
				if err1 == nil && err2 == nil {
					doc.width, doc.height = w, h
				}
			}
		case strings.HasPrefix(line, "palette:"):
			v := strings.TrimSpace(strings.TrimPrefix(line, "palette:"))
			for _, tok := range strings.Split(v, ",") {
				tok = strings.TrimSpace(tok)
				if tok == "" {
					continue
				}
				n, err := strconv.ParseUint(tok, 16, 32)
				if err != nil {
					errs = append(errs, fmt.Errorf("vobsub: invalid palette entry %q", tok))
					continue
				}
				doc.palette = append(doc.palette, color.Pack(uint8(n>>16), uint8(n>>8), uint8(n), 255))
			}
		case strings.HasPrefix(line, "timestamp:"):
			rest := strings.TrimSpace(strings.TrimPrefix(line, "timestamp:"))
			commaIdx := strings.Index(rest, ",")
			tsStr := rest
			if commaIdx >= 0 {
				tsStr = strings.TrimSpace(rest[:commaIdx])
			}
			ms, err := timecode.ParseVobSubIdx(tsStr)
			if err != nil {
				errs = append(errs, fmt.Errorf("vobsub: invalid timestamp %q", tsStr))
				continue
			}
			doc.timestamps = append(doc.timestamps, ms)
		}
	}
	return doc, errs
}

// Parse decodes a VobSub idx+sub pair using default ParseOptions.
func Parse(idx string, sub []byte) *subtitle.ParseResult {
	return ParseWithOptions(idx, sub, subtitle.DefaultParseOptions())
}

// ParseWithOptions decodes a VobSub idx+sub pair. Timestamps are matched to
// subpicture packets by sequence order (the nth idx timestamp pairs with
// the nth demuxed private_stream_1 packet), which holds for idx/sub pairs
// produced in the usual one-track-per-file layout.
func ParseWithOptions(idx string, sub []byte, opts subtitle.ParseOptions) *subtitle.ParseResult {
	doc := subtitle.New()
	res := &subtitle.ParseResult{Document: doc, OK: true}

	idxDoc, errs := parseIdx(idx)
	for _, err := range errs {
		res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrMalformedEvent, 0, 0, err.Error()))
	}

	packets, err := pes.Demux(sub)
	if err != nil {
		res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrInvalidFormat, 0, 0, err.Error()))
		if opts.OnError == subtitle.OnErrorThrow {
			res.OK = false
			return res
		}
	}

	for i, pkt := range packets {
		spu, ok := decodeSPU(pkt.Payload, idxDoc.width, idxDoc.height)
		if !ok {
			res.Errors = append(res.Errors, subtitle.NewError(subtitle.ErrMalformedEvent, i, 0, "vobsub: malformed subpicture unit"))
			continue
		}
		e := doc.NewEvent()
		if i < len(idxDoc.timestamps) {
			e.StartMs = idxDoc.timestamps[i]
		}
		e.EndMs = e.StartMs + spu.durationMs
		palette := make(color.Palette, 4)
		for j, idx4 := range spu.paletteIdx {
			if int(idx4) < len(idxDoc.palette) {
				r, g, b, _ := idxDoc.palette[idx4].RGBA()
				palette[j] = color.Pack(r, g, b, spu.alpha[j])
			}
		}
		e.Image = &subtitle.Image{
			Width: spu.width, Height: spu.height, X: spu.x, Y: spu.y,
			Indexed: spu.indices, Palette: palette,
		}
		e.VobSub = &subtitle.VobSubSidecar{}
	}

	return res
}

type spuUnit struct {
	width, height int
	x, y          int
	indices       []byte
	paletteIdx    [4]byte
	alpha         [4]uint8
	durationMs    int
}

func be16(b []byte) int { return int(b[0])<<8 | int(b[1]) }

// decodeSPU parses one VobSub subpicture unit: a 2-byte total size, a
// 2-byte offset to its control sequence table, RLE image data, then one or
// more (delay, next-offset, commands...) control sequence entries.
func decodeSPU(payload []byte, fallbackW, fallbackH int) (spuUnit, bool) {
	if len(payload) < 4 {
		return spuUnit{}, false
	}
	dcsqOffset := be16(payload[2:4])
	if dcsqOffset < 4 || dcsqOffset > len(payload) {
		return spuUnit{}, false
	}
	rleData := payload[4:dcsqOffset]

	var su spuUnit
	su.paletteIdx = [4]byte{0, 1, 2, 3}
	su.alpha = [4]uint8{255, 255, 255, 255}
	su.width, su.height = fallbackW, fallbackH

	pos := dcsqOffset
	visited := map[int]bool{}
	for pos+4 <= len(payload) && !visited[pos] {
		visited[pos] = true
		delay := be16(payload[pos : pos+2])
		next := be16(payload[pos+2 : pos+4])
		cpos := pos + 4
		for cpos < len(payload) {
			cmd := payload[cpos]
			cpos++
			switch cmd {
			case 0x00, 0x01: // force / start display: no operand
			case 0x02: // stop display
				su.durationMs = int(float64(delay) * spuTickMs)
			case 0x03:
				if cpos+2 > len(payload) {
					break
				}
				su.paletteIdx = [4]byte{payload[cpos] >> 4, payload[cpos] & 0xF, payload[cpos+1] >> 4, payload[cpos+1] & 0xF}
				cpos += 2
			case 0x04:
				if cpos+2 > len(payload) {
					break
				}
				su.alpha = [4]uint8{
					(payload[cpos] >> 4) * 17, (payload[cpos] & 0xF) * 17,
					(payload[cpos+1] >> 4) * 17, (payload[cpos+1] & 0xF) * 17,
				}
				cpos += 2
			case 0x05:
				if cpos+6 > len(payload) {
					break
				}
				c := payload[cpos : cpos+6]
				x1 := int(c[0])<<4 | int(c[1])>>4
				x2 := int(c[1]&0xF)<<8 | int(c[2])
				y1 := int(c[3])<<4 | int(c[4])>>4
				y2 := int(c[4]&0xF)<<8 | int(c[5])
				su.x, su.y = x1, y1
				su.width, su.height = x2-x1+1, y2-y1+1
				cpos += 6
			case 0x06:
				cpos += 4 // RLE field offsets; redundant given dcsqOffset framing.
			case 0xFF:
				cpos = len(payload) + 1 // sentinel to break outer loop below
			default:
				cpos = len(payload) + 1
			}
			if cmd == 0xFF {
				break
			}
		}
		if next == pos {
			break
		}
		pos = next
	}

	if su.width <= 0 || su.height <= 0 {
		return su, false
	}
	indices, err := rle.DecodeVobSub(rleData, su.width, su.height)
	if err != nil {
		return su, false
	}
	su.indices = indices
	return su, true
}

// Serialize encodes a document as a VobSub idx+sub pair using default
// SerializeOptions.
func Serialize(doc *subtitle.Document) (idx string, sub []byte) {
	return SerializeWithOptions(doc, subtitle.DefaultSerializeOptions())
}

// SerializeWithOptions encodes a document as a VobSub idx+sub pair. Every
// event's four-entry palette is written into the idx CLUT verbatim at
// indices 0-3 (multi-event documents using different colors will overwrite
// earlier entries; a genuinely shared CLUT is a source-player invariant
// this encoder does not attempt to reconstruct).
func SerializeWithOptions(doc *subtitle.Document, opts subtitle.SerializeOptions) (string, []byte) {
	var idxBuilder strings.Builder
	var subBuf bytes.Buffer

	width, height := 720, 480
	for _, e := range doc.Events {
		if e.Image != nil {
			width, height = e.Image.Width, e.Image.Height
			break
		}
	}
	fmt.Fprintf(&idxBuilder, "size: %dx%d\n", width, height)

	var clut color.Palette
	for _, e := range doc.Events {
		if e.Image == nil {
			continue
		}
		for _, c := range e.Image.Palette {
			clut = append(clut, c)
		}
		break
	}
	for len(clut) < 16 {
		clut = append(clut, 0)
	}
	hexes := make([]string, len(clut))
	for i, c := range clut {
		r, g, b, _ := c.RGBA()
		hexes[i] = fmt.Sprintf("%02x%02x%02x", r, g, b)
	}
	fmt.Fprintf(&idxBuilder, "palette: %s\n", strings.Join(hexes, ", "))
	idxBuilder.WriteString("id: en, index: 0\n")

	for _, e := range doc.Events {
		if e.Image == nil {
			continue
		}
		filepos := subBuf.Len()
		fmt.Fprintf(&idxBuilder, "timestamp: %s, filepos: %09x\n",
			timecode.FormatVobSubIdx(e.StartMs+opts.OffsetMs), filepos)

		payload := encodeSPU(e, opts)
		pesPacket := pes.EncodePrivateStream1(payload, int64((e.StartMs+opts.OffsetMs)*90))
		subBuf.Write(packHeader())
		subBuf.Write(pesPacket)
	}

	return idxBuilder.String(), subBuf.Bytes()
}

func packHeader() []byte {
	return []byte{0x00, 0x00, 0x01, 0xBA, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
}

func encodeSPU(e *subtitle.Event, opts subtitle.SerializeOptions) []byte {
	rleData := rle.EncodeVobSub(e.Image.Indexed, e.Image.Width, e.Image.Height)
	dcsqOffset := 4 + len(rleData)

	var cmds bytes.Buffer
	cmds.WriteByte(0x03) // palette: identity map to CLUT indices 0-3
	cmds.WriteByte(0<<4 | 1)
	cmds.WriteByte(2<<4 | 3)

	cmds.WriteByte(0x04) // alpha: all opaque
	cmds.WriteByte(0xFF)
	cmds.WriteByte(0xFF)

	cmds.WriteByte(0x05) // coordinates
	x1, y1 := e.Image.X, e.Image.Y
	x2, y2 := x1+e.Image.Width-1, y1+e.Image.Height-1
	cmds.WriteByte(byte(x1 >> 4))
	cmds.WriteByte(byte(x1<<4) | byte((x2>>8)&0xF))
	cmds.WriteByte(byte(x2))
	cmds.WriteByte(byte(y1 >> 4))
	cmds.WriteByte(byte(y1<<4) | byte((y2>>8)&0xF))
	cmds.WriteByte(byte(y2))

	cmds.WriteByte(0x01) // start display
	cmds.WriteByte(0xFF) // end

	durationUnits := int(float64(e.Duration()) / spuTickMs)
	var stopCmds bytes.Buffer
	stopCmds.WriteByte(0x02) // stop display
	stopCmds.WriteByte(0xFF) // end

	startEntry := make([]byte, 4)
	// delay=0 for the start entry; next points past itself to the stop entry.
	stopEntryOffset := dcsqOffset + 4 + cmds.Len()
	be16Put(startEntry[2:4], stopEntryOffset)
	startEntry = append(startEntry, cmds.Bytes()...)

	stopEntry := make([]byte, 4)
	be16Put(stopEntry[0:2], durationUnits)
	be16Put(stopEntry[2:4], stopEntryOffset) // self-referencing: last entry
	stopEntry = append(stopEntry, stopCmds.Bytes()...)

	var out bytes.Buffer
	sizeField := make([]byte, 2)
	dcsqField := make([]byte, 2)
	be16Put(dcsqField, dcsqOffset)
	out.Write(sizeField) // patched below
	out.Write(dcsqField)
	out.Write(rleData)
	out.Write(startEntry)
	out.Write(stopEntry)

	total := out.Bytes()
	be16Put(total[0:2], len(total))
	return total
}

func be16Put(b []byte, v int) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}
