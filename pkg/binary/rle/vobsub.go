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

// Package rle implements the run-length bitstream codecs used by the
// image-subtitle formats: the DVD/VobSub 2-bit nibble RLE and the PGS/DVB
// byte-oriented RLE. The VobSub codec reads and writes its nibble codes
// through icza/bitio; the PGS codec works on whole bytes.
package rle

import (
	"bytes"

	"github.com/icza/bitio"
)

// DecodeVobSub decodes one DVD subpicture image plane (2 bits/pixel, 4
// palette indices) into a row-major index buffer of width*height bytes.
// Each image row is padded to a byte boundary, per the VobSub format.
func DecodeVobSub(data []byte, width, height int) ([]byte, error) {
	r := bitio.NewReader(bytes.NewReader(data))
	out := make([]byte, width*height)

	for y := 0; y < height; y++ {
		x := 0
		for x < width {
			runLen, color, err := readVobSubCode(r)
			if err != nil {
				return out, err
			}
			if runLen == 0 {
				runLen = width - x
			}
			if x+runLen > width {
				runLen = width - x
			}
			for i := 0; i < runLen; i++ {
				out[y*width+x+i] = color
			}
			x += runLen
		}
		r.Align()
	}
	return out, nil
}

// readVobSubCode reads one variable-length nibble-coded (run, color) pair
// using the classic DVD subpicture decoding ladder: each nibble either
// completes the code (top two bits nonzero) or the code grows by another
// nibble, up to four nibbles (16 bits) total.
func readVobSubCode(r *bitio.Reader) (runLen int, color byte, err error) {
	val, err := r.ReadBits(4)
	if err != nil {
		return 0, 0, err
	}
	if val < 0x4 {
		n, err := r.ReadBits(4)
		if err != nil {
			return 0, 0, err
		}
		val = (val << 4) | n
		if val < 0x10 {
			n, err := r.ReadBits(4)
			if err != nil {
				return 0, 0, err
			}
			val = (val << 4) | n
			if val < 0x40 {
				n, err := r.ReadBits(4)
				if err != nil {
					return 0, 0, err
				}
				val = (val << 4) | n
			}
		}
	}
	return int(val >> 2), byte(val & 3), nil
}

// EncodeVobSub packs a row-major index buffer (values 0-3) back into the
// 2-bit nibble RLE, choosing the shortest nibble-count code for each run.
func EncodeVobSub(indices []byte, width, height int) []byte {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)

	const maxRun = 255 // largest run a single 4-nibble code can carry (val < 1024)

	for y := 0; y < height; y++ {
		x := 0
		for x < width {
			color := indices[y*width+x]
			run := 1
			for x+run < width && indices[y*width+x+run] == color {
				run++
			}
			for run > 0 {
				chunk := run
				last := x+chunk == width
				if chunk > maxRun && !last {
					chunk = maxRun
				}
				writeVobSubCode(w, chunk, color, last)
				x += chunk
				run -= chunk
			}
		}
		w.Align()
	}
	_ = w.Close()
	return buf.Bytes()
}

// writeVobSubCode emits the nibble-cascade code for (run, color): val =
// run<<2|color is written zero-extended, most-significant-nibble first,
// using the minimum nibble count (1/2/3/4) the decode cascade recognizes
// for that magnitude. A run reaching exactly to the end of the line may
// instead use run=0 ("consume the rest of the line"), which always takes
// the full 4-nibble form since val=color is always below every threshold.
func writeVobSubCode(w *bitio.Writer, run int, color byte, atLineEnd bool) {
	if atLineEnd && run > 0x3F {
		run = 0
	}
	val := uint64(run<<2) | uint64(color)
	n := 4
	switch {
	case val < 0x4:
		n = 4
	case val < 0x10:
		n = 1
	case val < 0x40:
		n = 2
	case val < 0x100:
		n = 3
	}
	for i := n - 1; i >= 0; i-- {
		w.TryWriteBits((val>>uint(i*4))&0xF, 4)
	}
}
