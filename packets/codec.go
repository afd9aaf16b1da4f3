// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package packets

import (
	"encoding/binary"
	"fmt"
)

// decodeUint16 extracts the value of two bytes from a byte array.
func decodeUint16(buf []byte, offset int) (uint16, int, error) {
	if len(buf) < offset+2 {
		return 0, 0, ErrInsufficientBytes
	}

	return binary.BigEndian.Uint16(buf[offset : offset+2]), offset + 2, nil
}

// decodeString extracts a length-prefixed UTF-8 string, beginning at an offset.
func decodeString(buf []byte, offset int) (string, int, error) {
	b, n, err := decodeBytes(buf, offset)
	if err != nil {
		return "", 0, err
	}

	if err := ValidateUTF8(b); err != nil {
		return "", 0, err
	}

	return string(b), n, nil
}

// decodeBytes extracts a length-prefixed byte array, beginning at an offset.
func decodeBytes(buf []byte, offset int) ([]byte, int, error) {
	length, next, err := decodeUint16(buf, offset)
	if err != nil {
		return nil, 0, err
	}

	if next+int(length) > len(buf) {
		return nil, 0, ErrInsufficientBytes
	}

	return buf[next : next+int(length)], next + int(length), nil
}

// decodeByte extracts the value of a byte from a byte array.
func decodeByte(buf []byte, offset int) (byte, int, error) {
	if len(buf) <= offset {
		return 0, 0, ErrInsufficientBytes
	}
	return buf[offset], offset + 1, nil
}

// decodeByteBool extracts the value of a byte and returns it as a bool.
func decodeByteBool(buf []byte, offset int) (bool, int, error) {
	if len(buf) <= offset {
		return false, 0, ErrInsufficientBytes
	}
	return 1&buf[offset] > 0, offset + 1, nil
}

// encodeBool returns a byte instead of a bool.
func encodeBool(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// encodeBytes encodes a byte array with a 2-byte big-endian length prefix.
func encodeBytes(val []byte) []byte {
	buf := make([]byte, 2, 2+len(val))
	binary.BigEndian.PutUint16(buf, uint16(len(val)))
	return append(buf, val...)
}

// encodeUint16 encodes a uint16 value to a byte array.
func encodeUint16(val uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, val)
	return buf
}

// encodeString encodes a string with a 2-byte big-endian length prefix.
func encodeString(val string) []byte {
	return encodeBytes([]byte(val))
}

// ValidateUTF8 checks that the byte array contains well-formed UTF-8. A lead
// byte that announces a sequence must be followed by continuation bytes whose
// top two bits are 10; anything else fails, naming the offending bytes in hex.
func ValidateUTF8(b []byte) error {
	i := 0
	for i < len(b) {
		c := b[i]
		var size int
		switch {
		case c == 0x00:
			return ErrStringContainsNull
		case c < 0x80:
			i++
			continue
		case c&0xE0 == 0xC0:
			size = 2
		case c&0xF0 == 0xE0:
			size = 3
		case c&0xF8 == 0xF0:
			size = 4
		default:
			return fmt.Errorf("%w: 0x%02X", ErrMalformedUTF8, c)
		}

		if i+size > len(b) {
			return fmt.Errorf("%w: % 02X", ErrMalformedUTF8, b[i:])
		}

		for _, cc := range b[i+1 : i+size] {
			if cc&0xC0 != 0x80 {
				return fmt.Errorf("%w: % 02X", ErrMalformedUTF8, b[i:i+size])
			}
		}
		i += size
	}

	return nil
}
