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

// Package bcd implements the binary-coded-decimal timecode fields used by
// the Cavena/PAC subtitle format's frame headers: each of hours, minutes,
// seconds and frames is packed as two BCD nibbles per byte.
package bcd

import "fmt"

// DecodeByte unpacks one BCD byte (high nibble = tens digit, low nibble =
// ones digit) into its decimal value.
func DecodeByte(b byte) (int, error) {
	hi, lo := b>>4, b&0x0F
	if hi > 9 || lo > 9 {
		return 0, fmt.Errorf("bcd: invalid digit in byte 0x%02X", b)
	}
	return int(hi)*10 + int(lo), nil
}

// EncodeByte packs a decimal value 0-99 into one BCD byte.
func EncodeByte(v int) (byte, error) {
	if v < 0 || v > 99 {
		return 0, fmt.Errorf("bcd: value %d out of BCD byte range", v)
	}
	return byte((v/10)<<4 | (v % 10)), nil
}

// Timecode is a decoded hour/minute/second/frame quadruple.
type Timecode struct {
	Hours, Minutes, Seconds, Frames int
}

// DecodeTimecode unpacks four consecutive BCD bytes (H, M, S, F order).
func DecodeTimecode(b []byte) (Timecode, error) {
	if len(b) < 4 {
		return Timecode{}, fmt.Errorf("bcd: timecode needs 4 bytes, got %d", len(b))
	}
	h, err := DecodeByte(b[0])
	if err != nil {
		return Timecode{}, err
	}
	m, err := DecodeByte(b[1])
	if err != nil {
		return Timecode{}, err
	}
	s, err := DecodeByte(b[2])
	if err != nil {
		return Timecode{}, err
	}
	f, err := DecodeByte(b[3])
	if err != nil {
		return Timecode{}, err
	}
	return Timecode{Hours: h, Minutes: m, Seconds: s, Frames: f}, nil
}

// EncodeTimecode packs a Timecode into 4 BCD bytes (H, M, S, F order).
func EncodeTimecode(tc Timecode) ([4]byte, error) {
	var out [4]byte
	vals := [4]int{tc.Hours, tc.Minutes, tc.Seconds, tc.Frames}
	for i, v := range vals {
		b, err := EncodeByte(v)
		if err != nil {
			return out, err
		}
		out[i] = b
	}
	return out, nil
}

// ToMs converts a Timecode to milliseconds at the given frame rate.
func (tc Timecode) ToMs(fps float64) int {
	totalFrames := ((tc.Hours*60+tc.Minutes)*60 + tc.Seconds) * int(fps+0.5)
	totalFrames += tc.Frames
	return int(float64(totalFrames) * 1000 / fps)
}

// FromMs converts milliseconds to a Timecode at the given frame rate.
func FromMs(ms int, fps float64) Timecode {
	totalFrames := int(float64(ms) * fps / 1000)
	framesPerSec := int(fps + 0.5)
	if framesPerSec <= 0 {
		framesPerSec = 1
	}
	f := totalFrames % framesPerSec
	totalSecs := totalFrames / framesPerSec
	s := totalSecs % 60
	totalMins := totalSecs / 60
	m := totalMins % 60
	h := totalMins / 60
	return Timecode{Hours: h, Minutes: m, Seconds: s, Frames: f}
}
