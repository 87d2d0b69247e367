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

package txtenc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectBOM(t *testing.T) {
	require.Equal(t, UTF8, Detect(append(append([]byte{}, bomUTF8...), []byte("hi")...)))
	require.Equal(t, UTF16LE, Detect(append(append([]byte{}, bomUTF16LE...), []byte("h\x00")...)))
	require.Equal(t, UTF16BE, Detect(append(append([]byte{}, bomUTF16BE...), []byte("\x00h")...)))
}

func TestDetectPlainUTF8(t *testing.T) {
	require.Equal(t, UTF8, Detect([]byte("hello world")))
}

func TestDecodeStripsBOM(t *testing.T) {
	b := append(append([]byte{}, bomUTF8...), []byte("hello")...)
	s, err := Decode(b, "")
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}

func TestUTF16RoundTrip(t *testing.T) {
	enc, err := Encode("hello", UTF16LE)
	require.NoError(t, err)
	dec, err := Decode(enc, UTF16LE)
	require.NoError(t, err)
	require.Equal(t, "hello", dec)
}

func TestWindows1252RoundTrip(t *testing.T) {
	enc, err := Encode("café", Windows1252)
	require.NoError(t, err)
	dec, err := Decode(enc, Windows1252)
	require.NoError(t, err)
	require.Equal(t, "café", dec)
}
