// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package packets

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeLength(t *testing.T) {
	tests := []struct {
		value int
		bytes []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{16383, []byte{0xFF, 0x7F}},
		{16384, []byte{0x80, 0x80, 0x01}},
		{2097151, []byte{0xFF, 0xFF, 0x7F}},
		{2097152, []byte{0x80, 0x80, 0x80, 0x01}},
		{268435455, []byte{0xFF, 0xFF, 0xFF, 0x7F}},
	}

	for _, tt := range tests {
		buf := new(bytes.Buffer)
		encodeLength(buf, tt.value)
		require.Equal(t, tt.bytes, buf.Bytes(), "value %d", tt.value)

		v, n, err := decodeLength(buf.Bytes(), 0)
		require.NoError(t, err, "value %d", tt.value)
		require.Equal(t, tt.value, v)
		require.Equal(t, len(tt.bytes), n)
	}
}

func TestDecodeLengthOversized(t *testing.T) {
	_, _, err := decodeLength([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x01}, 0)
	require.ErrorIs(t, err, ErrOversizedLengthIndicator)
}

func TestEncodeFixedHeaderOversized(t *testing.T) {
	fh := NewFixedHeader(Publish)
	fh.Remaining = MaxRemainingLength + 1
	err := fh.Encode(new(bytes.Buffer))
	require.ErrorIs(t, err, ErrOversizedLengthIndicator)
}

func TestDecodeLengthTruncated(t *testing.T) {
	_, _, err := decodeLength([]byte{0x80}, 0)
	require.ErrorIs(t, err, ErrInsufficientBytes)
}

func TestValidateUTF8(t *testing.T) {
	require.NoError(t, ValidateUTF8([]byte("cam/status")))
	require.NoError(t, ValidateUTF8([]byte("caméra")))         // 2-byte form
	require.NoError(t, ValidateUTF8([]byte("камера")))         // 2-byte cyrillic
	require.NoError(t, ValidateUTF8([]byte("カメ")))   // 3-byte form
	require.NoError(t, ValidateUTF8([]byte("\U0001F4F7 cam"))) // 4-byte form

	// A continuation byte whose top two bits are not 10.
	err := ValidateUTF8([]byte{0xC3, 0x28})
	require.ErrorIs(t, err, ErrMalformedUTF8)
	require.Contains(t, err.Error(), "C3 28")

	// Bare continuation byte.
	err = ValidateUTF8([]byte{0x80})
	require.ErrorIs(t, err, ErrMalformedUTF8)
	require.Contains(t, err.Error(), "80")

	// Truncated sequence.
	err = ValidateUTF8([]byte{0xE3, 0x82})
	require.ErrorIs(t, err, ErrMalformedUTF8)

	require.ErrorIs(t, ValidateUTF8([]byte{'a', 0x00, 'b'}), ErrStringContainsNull)
}

func TestDecodeStringMalformed(t *testing.T) {
	_, _, err := decodeString([]byte{0x00, 0x02, 0xC3, 0x28}, 0)
	require.ErrorIs(t, err, ErrMalformedUTF8)
}

func TestEncodeDecodeString(t *testing.T) {
	for _, s := range []string{"", "a/b", "caméra", "\U0001F4F7"} {
		b := encodeString(s)
		got, n, err := decodeString(b, 0)
		require.NoError(t, err)
		require.Equal(t, s, got)
		require.Equal(t, len(b), n)
	}
}

func TestUTF16RoundTrip(t *testing.T) {
	for _, s := range []string{
		"ascii",
		"caméra",      // 2-byte sequences
		"カメ", // 3-byte sequences
		"\U0001F4F7",   // 4-byte sequence, surrogate pair
	} {
		units, err := DecodeUTF16([]byte(s))
		require.NoError(t, err, s)

		b, err := EncodeUTF16(units)
		require.NoError(t, err, s)
		require.Equal(t, []byte(s), b, s)
	}
}

func TestUTF16SurrogatePair(t *testing.T) {
	units, err := DecodeUTF16([]byte("\U0001F4F7"))
	require.NoError(t, err)
	require.Equal(t, []uint16{0xD83D, 0xDCF7}, units)
}

func TestEncodeUTF16UnpairedSurrogate(t *testing.T) {
	_, err := EncodeUTF16([]uint16{0xD83D})
	require.ErrorIs(t, err, ErrUnpairedSurrogate)

	_, err = EncodeUTF16([]uint16{0xD83D, 0x0041})
	require.ErrorIs(t, err, ErrUnpairedSurrogate)

	_, err = EncodeUTF16([]uint16{0xDCF7})
	require.ErrorIs(t, err, ErrUnpairedSurrogate)
}
